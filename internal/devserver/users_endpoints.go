package devserver

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	uuid "github.com/satori/go.uuid"
	"github.com/topcv/jobboard"
	"golang.org/x/crypto/bcrypt"
)

// timestampLayout matches how the production backend renders dates.
const timestampLayout = "2006-01-02T15:04:05"

func (s *Server) registerUsersEndpoints(router *mux.Router) {
	// Register job seeker
	router.HandleFunc(
		"/users/register",
		s.register(jobboard.RoleUser),
	).Methods(http.MethodPost)

	// Register employer
	router.HandleFunc(
		"/employers/register",
		s.register(jobboard.RoleEmployer),
	).Methods(http.MethodPost)

	// Verify email
	router.HandleFunc(
		"/users/verify-email",
		s.verifyEmail,
	).Methods(http.MethodPost)

	// Who am I
	router.HandleFunc(
		"/users/my-info",
		s.tokenAuth(s.myInfo),
	).Methods(http.MethodGet)

	// Update profile
	router.HandleFunc(
		"/users/my-info",
		s.tokenAuth(s.updateMyInfo),
	).Methods(http.MethodPut)

	// Change password
	router.HandleFunc(
		"/users/change-password",
		s.tokenAuth(s.changePassword),
	).Methods(http.MethodPost)
}

func (s *Server) timestamp() string {
	return s.now().Format(timestampLayout)
}

func (s *Server) register(role jobboard.Role) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		registration := jobboard.UserRegistration{}
		s.serveRequest(
			inboundRequest{
				W:                   w,
				R:                   r,
				ReqBodySchemaLoader: registrationSchemaLoader,
				ReqBodyObj:          &registration,
				EndpointLogic: func() (interface{}, error) {
					return s.createAccount(registration, role)
				},
				SuccessCode: http.StatusOK,
			},
		)
	}
}

func (s *Server) createAccount(
	registration jobboard.UserRegistration,
	role jobboard.Role,
) (jobboard.Registration, error) {
	passwordHash, err := bcrypt.GenerateFromPassword(
		[]byte(registration.Password),
		bcrypt.DefaultCost,
	)
	if err != nil {
		return jobboard.Registration{}, errors.Wrap(err, "error hashing password")
	}
	otp, err := newOTP()
	if err != nil {
		return jobboard.Registration{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.accounts[registration.Email]; ok {
		return jobboard.Registration{}, &jobboard.ErrBadRequest{
			Code:    jobboard.CodeEmailExisted,
			Message: "Email already exists",
		}
	}
	now := s.timestamp()
	s.lastUserID++
	s.accounts[registration.Email] = &account{
		user: jobboard.User{
			ID:        jobboard.UserID(strconv.Itoa(s.lastUserID)),
			UserName:  strings.SplitN(registration.Email, "@", 2)[0],
			Email:     registration.Email,
			Fullname:  registration.Fullname,
			Phone:     registration.Phone,
			Address:   registration.Address,
			Role:      role,
			IsActive:  true,
			CreatedAt: now,
			UpdatedAt: now,
		},
		passwordHash: passwordHash,
	}
	verificationToken := uuid.NewV4().String()
	s.verifications[verificationToken] = otpRecord{
		email:   registration.Email,
		otp:     otp,
		expires: s.now().Add(s.config.OTPTTL),
	}
	s.sendOTPLocked(registration.Email, otp, "register")
	return jobboard.Registration{
		VerificationToken: verificationToken,
		Email:             registration.Email,
	}, nil
}

func (s *Server) verifyEmail(w http.ResponseWriter, r *http.Request) {
	verification := jobboard.EmailVerification{}
	s.serveRequest(
		inboundRequest{
			W:                   w,
			R:                   r,
			ReqBodySchemaLoader: emailVerificationSchemaLoader,
			ReqBodyObj:          &verification,
			EndpointLogic: func() (interface{}, error) {
				s.mu.Lock()
				defer s.mu.Unlock()
				record, ok := s.verifications[verification.VerificationToken]
				if !ok || record.otp != verification.OTP ||
					!s.now().Before(record.expires) {
					return nil, errInvalidOTP
				}
				acct, ok := s.accounts[record.email]
				if !ok {
					return nil, &jobboard.ErrNotFound{
						Code:    jobboard.CodeUserNotExisted,
						Message: "User not found",
					}
				}
				delete(s.verifications, verification.VerificationToken)
				if acct.emailVerified {
					return nil, &jobboard.ErrBadRequest{
						Code:    jobboard.CodeEmailVerified,
						Message: "Email address already verified",
					}
				}
				acct.emailVerified = true
				acct.user.UpdatedAt = s.timestamp()
				return "Email verified successfully", nil
			},
			SuccessCode: http.StatusOK,
		},
	)
}

func (s *Server) myInfo(w http.ResponseWriter, r *http.Request) {
	s.serveRequest(
		inboundRequest{
			W: w,
			R: r,
			EndpointLogic: func() (interface{}, error) {
				s.mu.Lock()
				defer s.mu.Unlock()
				acct, err := s.principalAccountLocked(r)
				if err != nil {
					return nil, err
				}
				return acct.user, nil
			},
			SuccessCode: http.StatusOK,
		},
	)
}

// updateMyInfo changes the profile fields present in the request. Fields
// that are absent or empty keep their values.
func (s *Server) updateMyInfo(w http.ResponseWriter, r *http.Request) {
	update := jobboard.ProfileUpdate{}
	s.serveRequest(
		inboundRequest{
			W:                   w,
			R:                   r,
			ReqBodySchemaLoader: profileUpdateSchemaLoader,
			ReqBodyObj:          &update,
			EndpointLogic: func() (interface{}, error) {
				s.mu.Lock()
				defer s.mu.Unlock()
				acct, err := s.principalAccountLocked(r)
				if err != nil {
					return nil, err
				}
				for _, field := range []struct {
					value string
					dest  *string
				}{
					{update.UserName, &acct.user.UserName},
					{update.Fullname, &acct.user.Fullname},
					{update.Phone, &acct.user.Phone},
					{update.Address, &acct.user.Address},
					{update.Avatar, &acct.user.Avatar},
					{update.Dob, &acct.user.Dob},
				} {
					if field.value != "" {
						*field.dest = field.value
					}
				}
				acct.user.UpdatedAt = s.timestamp()
				return acct.user, nil
			},
			SuccessCode: http.StatusOK,
		},
	)
}

func (s *Server) changePassword(w http.ResponseWriter, r *http.Request) {
	change := jobboard.PasswordChange{}
	s.serveRequest(
		inboundRequest{
			W:                   w,
			R:                   r,
			ReqBodySchemaLoader: changePasswordSchemaLoader,
			ReqBodyObj:          &change,
			EndpointLogic: func() (interface{}, error) {
				passwordHash, err := bcrypt.GenerateFromPassword(
					[]byte(change.NewPassword),
					bcrypt.DefaultCost,
				)
				if err != nil {
					return nil, errors.Wrap(err, "error hashing password")
				}
				s.mu.Lock()
				defer s.mu.Unlock()
				acct, err := s.principalAccountLocked(r)
				if err != nil {
					return nil, err
				}
				if bcrypt.CompareHashAndPassword(
					acct.passwordHash,
					[]byte(change.CurrentPassword),
				) != nil {
					return nil, &jobboard.ErrBadRequest{
						Code:    jobboard.CodeWrongPassword,
						Message: "Current password is incorrect",
					}
				}
				acct.passwordHash = passwordHash
				acct.user.UpdatedAt = s.timestamp()
				return "Password changed successfully!!", nil
			},
			SuccessCode: http.StatusOK,
		},
	)
}

// principalAccountLocked returns the account the request's access token
// belongs to.
func (s *Server) principalAccountLocked(r *http.Request) (*account, error) {
	claims := principalFromContext(r.Context())
	acct, ok := s.accounts[claims.Subject]
	if !ok {
		return nil, &jobboard.ErrNotFound{
			Code:    jobboard.CodeUserNotExisted,
			Message: "User not found",
		}
	}
	return acct, nil
}
