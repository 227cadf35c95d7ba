package session

import (
	"context"

	"github.com/topcv/jobboard"
)

// Purpose distinguishes the flows an OTP can belong to.
type Purpose string

const (
	// PurposeRegister is email verification following registration.
	PurposeRegister Purpose = "register"
	// PurposeForgotPassword is a password reset.
	PurposeForgotPassword Purpose = "forgot-password"
)

// RegisterInput is the information needed to register an account.
type RegisterInput struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=8"`
	Fullname string `validate:"required"`
	// Role selects the kind of account. Empty means jobboard.RoleUser.
	Role    jobboard.Role `validate:"oneof=USER EMPLOYER"`
	Phone   string
	Address string
}

type loginInput struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

type emailInput struct {
	Email string `validate:"required,email"`
}

type otpInput struct {
	OTP string `validate:"required,len=6,numeric"`
}

type resetInput struct {
	Email       string `validate:"required,email"`
	NewPassword string `validate:"required,min=8"`
	OTP         string `validate:"required,len=6,numeric"`
}

// Login authenticates with an email and password. The access token is saved
// first because fetching the user requires it. If anything fails, the token
// store and the session are left as they were.
func (m *Manager) Login(ctx context.Context, email, password string) error {
	if err := validateInput(loginInput{Email: email, Password: password}); err != nil {
		return err
	}
	done := m.begin()
	defer done()

	previous, prevErr := m.store.Read(ctx)
	user, err := m.login(ctx, email, password)
	if err != nil {
		m.logger.Debug().Err(err).Msg("login failed")
		var restoreErr error
		if prevErr == nil {
			restoreErr = m.store.Save(ctx, previous.Token, previous.User)
		} else {
			restoreErr = m.store.Clear(ctx)
		}
		if restoreErr != nil {
			m.logger.Warn().Err(restoreErr).Msg("error restoring stored session")
		}
		return &AuthenticationError{Message: displayMessage(err, msgLoginFailed)}
	}
	m.logger.Debug().Str("user", user.ID.String()).Msg("logged in")
	m.setUser(&user)
	return nil
}

func (m *Manager) login(
	ctx context.Context,
	email string,
	password string,
) (jobboard.User, error) {
	user := jobboard.User{}
	token, err := m.client.Auth().Login(
		ctx,
		jobboard.LoginRequest{Email: email, Password: password},
	)
	if err != nil {
		return user, err
	}
	if err = m.store.SaveToken(ctx, token.Value); err != nil {
		return user, err
	}
	if user, err = m.client.Users().GetMyInfo(ctx); err != nil {
		return user, err
	}
	return user, m.store.Save(ctx, token.Value, user)
}

// Register creates an account of the requested role and returns the
// verification token the OTP step needs, which may be empty. It does not log
// anybody in.
func (m *Manager) Register(
	ctx context.Context,
	input RegisterInput,
) (string, error) {
	if input.Role == "" {
		input.Role = jobboard.RoleUser
	}
	if err := validateInput(input); err != nil {
		return "", err
	}
	done := m.begin()
	defer done()

	registration := jobboard.UserRegistration{
		Email:    input.Email,
		Password: input.Password,
		Fullname: input.Fullname,
		Phone:    input.Phone,
		Address:  input.Address,
	}
	var result jobboard.Registration
	var err error
	if input.Role == jobboard.RoleEmployer {
		result, err = m.client.Employers().Register(ctx, registration)
	} else {
		result, err = m.client.Users().Register(ctx, registration)
	}
	if err != nil {
		m.logger.Debug().Err(err).Msg("registration failed")
		return "", &RegistrationError{
			Message: displayMessage(err, msgRegistrationFailed),
		}
	}
	m.logger.Debug().Str("role", string(input.Role)).Msg("registered")
	return result.VerificationToken, nil
}

// Logout ends the session. The API server is told first, but its answer does
// not matter: the token store is cleared and the session made anonymous
// either way. Logging out while anonymous is harmless.
func (m *Manager) Logout(ctx context.Context) error {
	done := m.begin()
	defer done()

	if err := m.client.Auth().Logout(ctx); err != nil {
		m.logger.Warn().Err(err).Msg("error logging out of API server")
	}
	err := m.store.Clear(ctx)
	m.setUser(nil)
	m.logger.Debug().Msg("logged out")
	return err
}

// SendOTP arranges for an OTP to be emailed. Registration already sends one,
// so nothing is requested for PurposeRegister.
func (m *Manager) SendOTP(
	ctx context.Context,
	email string,
	purpose Purpose,
) error {
	if err := validateInput(emailInput{Email: email}); err != nil {
		return err
	}
	if err := validatePurpose(purpose); err != nil {
		return err
	}
	done := m.begin()
	defer done()

	if purpose == PurposeRegister {
		return nil
	}
	if err := m.client.Auth().ForgotPassword(ctx, email); err != nil {
		m.logger.Debug().Err(err).Msg("error sending OTP")
		return &DeliveryError{Message: displayMessage(err, msgOTPDeliveryFailed)}
	}
	return nil
}

// VerifyOTP reports whether an OTP was accepted. It never fails: a rejected
// code and an unreachable API server both yield false. For PurposeRegister,
// token must be the verification token returned by Register. For
// PurposeForgotPassword the code is not checked here at all; ResetPassword
// checks it.
func (m *Manager) VerifyOTP(
	ctx context.Context,
	email string,
	otp string,
	purpose Purpose,
	token string,
) bool {
	done := m.begin()
	defer done()

	switch purpose {
	case PurposeForgotPassword:
		return true
	case PurposeRegister:
	default:
		return false
	}
	if token == "" || validateInput(otpInput{OTP: otp}) != nil {
		return false
	}
	if err := m.client.Users().VerifyEmail(
		ctx,
		jobboard.EmailVerification{VerificationToken: token, OTP: otp},
	); err != nil {
		m.logger.Debug().Err(err).Str("email", email).Msg("OTP rejected")
		return false
	}
	return true
}

// ResetPassword replaces the password of the account with the specified
// email. otp must be the code the user actually received.
func (m *Manager) ResetPassword(
	ctx context.Context,
	email string,
	newPassword string,
	otp string,
) error {
	if err := validateInput(
		resetInput{Email: email, NewPassword: newPassword, OTP: otp},
	); err != nil {
		return err
	}
	done := m.begin()
	defer done()

	if err := m.client.Auth().ResetPassword(
		ctx,
		jobboard.ResetPasswordRequest{
			Email:       email,
			OTP:         otp,
			NewPassword: newPassword,
		},
	); err != nil {
		m.logger.Debug().Err(err).Msg("error resetting password")
		return &ResetError{Message: displayMessage(err, msgResetFailed)}
	}
	return nil
}

func validatePurpose(purpose Purpose) error {
	switch purpose {
	case PurposeRegister, PurposeForgotPassword:
		return nil
	}
	return &ValidationError{
		Messages: []string{"purpose must be one of: register forgot-password"},
	}
}
