package jobboard

import (
	"fmt"

	"github.com/pkg/errors"
)

// Error codes returned by the API server in the "code" field of the response
// envelope.
const (
	CodeSuccess            = 1000
	CodeUncategorized      = 9999
	CodeInvalidRequestBody = 1001
	CodeUserExisted        = 1002
	CodeEmailExisted       = 1003
	CodePasswordInvalid    = 1005
	CodeUserNotExisted     = 1006
	CodeUserDeactivated    = 1007
	CodeUnauthenticated    = 1101
	CodeUnauthorized       = 1102
	CodeTokenExpired       = 1103
	CodeWrongPassword      = 1104
	CodeEmailNotVerified   = 1201
	CodeEmailVerified      = 1202
	CodeInvalidOTP         = 1301
	CodeOTPSendFailed      = 1302
	CodeEmailRequired      = 1401
	CodeEmailInvalid       = 1402
	CodePasswordRequired   = 1403
	CodeFullnameRequired   = 1405
	CodeOTPRequired        = 1406
	CodeEmailSendFailed    = 1501
	CodeRoleNotExisted     = 1502
)

// ErrAuthentication represents a request that could not be authenticated,
// either because credentials were wrong or because the bearer token is
// invalid. An expired token is reported as ErrTokenExpired instead.
type ErrAuthentication struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *ErrAuthentication) Error() string {
	return fmt.Sprintf("Could not authenticate the request: %s", e.Message)
}

// ErrTokenExpired is returned when the API server rejects an access token
// specifically because it has expired (code 1103). It is the only condition
// that warrants a silent refresh.
type ErrTokenExpired struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *ErrTokenExpired) Error() string {
	return fmt.Sprintf("The access token has expired: %s", e.Message)
}

type ErrAuthorization struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *ErrAuthorization) Error() string {
	return "The request is not authorized."
}

type ErrBadRequest struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *ErrBadRequest) Error() string {
	return fmt.Sprintf("Bad request: %s", e.Message)
}

type ErrNotFound struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("Not found: %s", e.Message)
}

type ErrConflict struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *ErrConflict) Error() string {
	return fmt.Sprintf("Conflict: %s", e.Message)
}

type ErrTooManyRequests struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *ErrTooManyRequests) Error() string {
	return fmt.Sprintf("Too many requests: %s", e.Message)
}

type ErrInternalServer struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *ErrInternalServer) Error() string {
	return "An internal server error occurred."
}

// IsTokenExpired returns true if the cause of the provided error is an
// ErrTokenExpired.
func IsTokenExpired(err error) bool {
	_, ok := errors.Cause(err).(*ErrTokenExpired)
	return ok
}

// IsAuthentication returns true if the cause of the provided error is an
// ErrAuthentication. Expired tokens do not count.
func IsAuthentication(err error) bool {
	_, ok := errors.Cause(err).(*ErrAuthentication)
	return ok
}

// ServerMessage extracts the message the API server attached to a typed
// error. It returns an empty string for transport failures and any other
// error that did not originate from an API response.
func ServerMessage(err error) string {
	switch e := errors.Cause(err).(type) {
	case *ErrAuthentication:
		return e.Message
	case *ErrTokenExpired:
		return e.Message
	case *ErrAuthorization:
		return e.Message
	case *ErrBadRequest:
		return e.Message
	case *ErrNotFound:
		return e.Message
	case *ErrConflict:
		return e.Message
	case *ErrTooManyRequests:
		return e.Message
	case *ErrInternalServer:
		return e.Message
	}
	return ""
}
