package jobboard

// Token is an opaque bearer credential issued by the login and refresh
// endpoints.
type Token struct {
	Value string `json:"token"`
}

// LoginRequest carries a user's credentials.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ResetPasswordRequest carries everything the API server needs to replace a
// forgotten password.
type ResetPasswordRequest struct {
	Email       string `json:"email"`
	OTP         string `json:"otp"`
	NewPassword string `json:"newPassword"`
}
