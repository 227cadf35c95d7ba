package jobboard

import (
	"bytes"
	"encoding/json"
	"strconv"

	"github.com/pkg/errors"
)

// Role is the kind of principal a user account represents.
type Role string

const (
	// RoleUser is a job seeker.
	RoleUser Role = "USER"
	// RoleEmployer posts jobs on behalf of a company.
	RoleEmployer Role = "EMPLOYER"
	// RoleAdmin manages the job board.
	RoleAdmin Role = "ADMIN"
)

// UserID identifies a user account. The API server renders it as a JSON
// number, but string identifiers are accepted too.
type UserID string

func (u UserID) String() string {
	return string(u)
}

// MarshalJSON renders numeric identifiers as JSON numbers so a User written
// back out matches what the API server sent.
func (u UserID) MarshalJSON() ([]byte, error) {
	if _, err := strconv.ParseInt(string(u), 10, 64); err == nil {
		return []byte(u), nil
	}
	return json.Marshal(string(u))
}

func (u *UserID) UnmarshalJSON(data []byte) error {
	if bytes.HasPrefix(data, []byte(`"`)) {
		var id string
		if err := json.Unmarshal(data, &id); err != nil {
			return errors.Wrap(err, "error unmarshaling user ID")
		}
		*u = UserID(id)
		return nil
	}
	var id json.Number
	if err := json.Unmarshal(data, &id); err != nil {
		return errors.Wrap(err, "error unmarshaling user ID")
	}
	*u = UserID(id.String())
	return nil
}

// User represents the authenticated principal as reported by the identity
// endpoint.
type User struct {
	ID              UserID `json:"id"`
	UserName        string `json:"userName,omitempty"`
	Email           string `json:"email"`
	Fullname        string `json:"fullname"`
	Phone           string `json:"phone,omitempty"`
	Address         string `json:"address,omitempty"`
	Avatar          string `json:"avt,omitempty"`
	Role            Role   `json:"role"`
	IsActive        bool   `json:"active"`
	IsEmailVerified bool   `json:"isEmailVerified,omitempty"`
	// Dob, CreatedAt and UpdatedAt are kept exactly as the API server renders
	// them (ISO local date-times without a zone).
	Dob       string `json:"dob,omitempty"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// UserRegistration is the payload accepted by both registration endpoints.
type UserRegistration struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Fullname string `json:"fullname"`
	Phone    string `json:"phone,omitempty"`
	Address  string `json:"address,omitempty"`
}

// Registration is returned by a successful registration. VerificationToken
// must accompany the OTP when the new account's email address is verified.
type Registration struct {
	VerificationToken string `json:"keyRedisToken"`
	Email             string `json:"email"`
}

// EmailVerification pairs a registration's verification token with the OTP
// that was emailed to the user.
type EmailVerification struct {
	VerificationToken string `json:"keyRedisToken"`
	OTP               string `json:"otp"`
}

// PasswordChange replaces the logged in user's password. CurrentPassword
// must match the password the account has now.
type PasswordChange struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// ProfileUpdate carries changes to the logged in user's profile. Empty fields
// are left as they are.
type ProfileUpdate struct {
	UserName string `json:"userName,omitempty"`
	Fullname string `json:"fullname,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Address  string `json:"address,omitempty"`
	Avatar   string `json:"avt,omitempty"`
	// Dob is an ISO local date-time, e.g. 2004-02-02T00:00:00.
	Dob string `json:"dob,omitempty"`
}
