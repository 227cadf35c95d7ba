package session

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/topcv/jobboard"
)

// Fallback messages shown when the API server did not explain a failure.
const (
	msgLoginFailed        = "Đăng nhập thất bại"
	msgRegistrationFailed = "Đăng ký thất bại"
	msgOTPDeliveryFailed  = "Không thể gửi OTP"
	msgResetFailed        = "Không thể đặt lại mật khẩu"
	msgChangeFailed       = "Không thể thay đổi mật khẩu. Vui lòng thử lại."
	msgUpdateFailed       = "Không thể cập nhật thông tin người dùng"
)

var (
	// ErrSessionLoading is returned by Authorize while the session is still
	// being established.
	ErrSessionLoading = errors.New("session is still loading")
	// ErrNotAuthenticated is returned by Authorize when nobody is logged in,
	// and by account operations once the API server has rejected the session.
	ErrNotAuthenticated = errors.New("not logged in")
	// ErrForbidden is returned by Authorize when the user lacks every
	// permitted role.
	ErrForbidden = errors.New("user is not permitted to do this")
)

// AuthenticationError is returned when logging in fails.
type AuthenticationError struct {
	Message string
}

func (e *AuthenticationError) Error() string {
	return e.Message
}

// RegistrationError is returned when registering an account fails.
type RegistrationError struct {
	Message string
}

func (e *RegistrationError) Error() string {
	return e.Message
}

// DeliveryError is returned when an OTP could not be sent.
type DeliveryError struct {
	Message string
}

func (e *DeliveryError) Error() string {
	return e.Message
}

// ResetError is returned when a password could not be reset.
type ResetError struct {
	Message string
}

func (e *ResetError) Error() string {
	return e.Message
}

// AccountError is returned when the logged in user's password or profile
// could not be changed.
type AccountError struct {
	Message string
}

func (e *AccountError) Error() string {
	return e.Message
}

// ValidationError is returned when input is rejected before any request is
// made. It lists one message per offending field.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Messages, "; ")
}

// displayMessage prefers the message the API server attached to err.
func displayMessage(err error, fallback string) string {
	if msg := jobboard.ServerMessage(err); msg != "" {
		return msg
	}
	return fallback
}
