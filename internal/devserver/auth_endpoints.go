package devserver

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	uuid "github.com/satori/go.uuid"
	"github.com/topcv/jobboard"
	"golang.org/x/crypto/bcrypt"
)

var errInvalidOTP = &jobboard.ErrBadRequest{
	Code:    jobboard.CodeInvalidOTP,
	Message: "Invalid or incorrect OTP code",
}

func (s *Server) registerAuthEndpoints(router *mux.Router) {
	// Log in
	router.HandleFunc("/auth/login", s.login).Methods(http.MethodPost)

	// Refresh access token
	router.HandleFunc("/auth/refresh", s.refresh).Methods(http.MethodPost)

	// Log out
	router.HandleFunc(
		"/auth/logout",
		s.tokenAuth(s.logout),
	).Methods(http.MethodPost)

	// Send password reset OTP
	router.HandleFunc(
		"/auth/forgot-password",
		s.forgotPassword,
	).Methods(http.MethodPost)

	// Reset password
	router.HandleFunc(
		"/auth/reset-password",
		s.resetPassword,
	).Methods(http.MethodPost)
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	credentials := jobboard.LoginRequest{}
	s.serveRequest(
		inboundRequest{
			W:                   w,
			R:                   r,
			ReqBodySchemaLoader: loginSchemaLoader,
			ReqBodyObj:          &credentials,
			EndpointLogic: func() (interface{}, error) {
				user, err := s.authenticate(credentials)
				if err != nil {
					return nil, err
				}
				return s.startSession(w, user)
			},
			SuccessCode: http.StatusOK,
		},
	)
}

func (s *Server) authenticate(
	credentials jobboard.LoginRequest,
) (jobboard.User, error) {
	s.mu.Lock()
	acct, ok := s.accounts[credentials.Email]
	s.mu.Unlock()
	if !ok || bcrypt.CompareHashAndPassword(
		acct.passwordHash,
		[]byte(credentials.Password),
	) != nil {
		return jobboard.User{}, errInvalidCredentials
	}
	if !acct.user.IsActive {
		return jobboard.User{}, &jobboard.ErrAuthorization{
			Code:    jobboard.CodeUserDeactivated,
			Message: "User account has been deactivated",
		}
	}
	if !acct.emailVerified {
		return jobboard.User{}, &jobboard.ErrAuthorization{
			Code:    jobboard.CodeEmailNotVerified,
			Message: "Email address not verified",
		}
	}
	return acct.user, nil
}

// startSession issues an access token in the response body and a refresh
// token in an HTTP-only cookie.
func (s *Server) startSession(
	w http.ResponseWriter,
	user jobboard.User,
) (jobboard.Token, error) {
	accessToken, err := s.issueAccessToken(user)
	if err != nil {
		return jobboard.Token{}, err
	}
	refreshToken := uuid.NewV4().String()
	s.mu.Lock()
	s.refreshTokens[refreshToken] = refreshRecord{
		email:   user.Email,
		expires: s.now().Add(s.config.RefreshTokenTTL),
	}
	s.mu.Unlock()
	s.setRefreshCookie(w, refreshToken)
	return jobboard.Token{Value: accessToken}, nil
}

func (s *Server) refresh(w http.ResponseWriter, r *http.Request) {
	s.serveRequest(
		inboundRequest{
			W: w,
			R: r,
			EndpointLogic: func() (interface{}, error) {
				cookie, err := r.Cookie(refreshCookieName)
				if err != nil {
					return nil, errInvalidCredentials
				}
				s.mu.Lock()
				record, ok := s.refreshTokens[cookie.Value]
				// Refresh tokens are single use.
				delete(s.refreshTokens, cookie.Value)
				acct := s.accounts[record.email]
				s.mu.Unlock()
				if !ok || !s.now().Before(record.expires) || acct == nil ||
					!acct.user.IsActive {
					s.expireRefreshCookie(w)
					return nil, errInvalidCredentials
				}
				return s.startSession(w, acct.user)
			},
			SuccessCode: http.StatusOK,
		},
	)
}

func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	s.serveRequest(
		inboundRequest{
			W: w,
			R: r,
			EndpointLogic: func() (interface{}, error) {
				claims := principalFromContext(r.Context())
				now := s.now()
				s.mu.Lock()
				for id, expires := range s.revoked {
					if !now.Before(expires) {
						delete(s.revoked, id)
					}
				}
				s.revoked[claims.ID] = claims.ExpiresAt.Time
				if cookie, err := r.Cookie(refreshCookieName); err == nil {
					delete(s.refreshTokens, cookie.Value)
				}
				s.mu.Unlock()
				s.expireRefreshCookie(w)
				return nil, nil
			},
			SuccessCode: http.StatusOK,
		},
	)
}

func (s *Server) forgotPassword(w http.ResponseWriter, r *http.Request) {
	req := struct {
		Email string `json:"email"`
	}{}
	s.serveRequest(
		inboundRequest{
			W:                   w,
			R:                   r,
			ReqBodySchemaLoader: forgotPasswordSchemaLoader,
			ReqBodyObj:          &req,
			EndpointLogic: func() (interface{}, error) {
				otp, err := newOTP()
				if err != nil {
					return nil, err
				}
				s.mu.Lock()
				defer s.mu.Unlock()
				if _, ok := s.accounts[req.Email]; !ok {
					return nil, &jobboard.ErrNotFound{
						Code:    jobboard.CodeUserNotExisted,
						Message: "User not found",
					}
				}
				s.resets[req.Email] = otpRecord{
					email:   req.Email,
					otp:     otp,
					expires: s.now().Add(s.config.OTPTTL),
				}
				s.sendOTPLocked(req.Email, otp, "forgot-password")
				return "Password reset OTP sent to your email", nil
			},
			SuccessCode: http.StatusOK,
		},
	)
}

func (s *Server) resetPassword(w http.ResponseWriter, r *http.Request) {
	req := jobboard.ResetPasswordRequest{}
	s.serveRequest(
		inboundRequest{
			W:                   w,
			R:                   r,
			ReqBodySchemaLoader: resetPasswordSchemaLoader,
			ReqBodyObj:          &req,
			EndpointLogic: func() (interface{}, error) {
				passwordHash, err := bcrypt.GenerateFromPassword(
					[]byte(req.NewPassword),
					bcrypt.DefaultCost,
				)
				if err != nil {
					return nil, errors.Wrap(err, "error hashing password")
				}
				s.mu.Lock()
				defer s.mu.Unlock()
				record, ok := s.resets[req.Email]
				if !ok || record.otp != req.OTP || !s.now().Before(record.expires) {
					return nil, errInvalidOTP
				}
				acct, ok := s.accounts[req.Email]
				if !ok {
					return nil, &jobboard.ErrNotFound{
						Code:    jobboard.CodeUserNotExisted,
						Message: "User not found",
					}
				}
				delete(s.resets, req.Email)
				acct.passwordHash = passwordHash
				acct.user.UpdatedAt = s.timestamp()
				// Existing refresh tokens no longer grant access.
				for token, record := range s.refreshTokens {
					if record.email == req.Email {
						delete(s.refreshTokens, token)
					}
				}
				return "Password reset successfully!!", nil
			},
			SuccessCode: http.StatusOK,
		},
	)
}
