package jobboard

import (
	"context"
	"net/http"
)

// AuthClient is the specialized client for the API server's authentication
// endpoints.
type AuthClient interface {
	// Login exchanges credentials for an access token. The API server also
	// sets the refresh credential as an HTTP-only cookie, which this client
	// never inspects.
	Login(context.Context, LoginRequest) (Token, error)
	// Refresh mints a new access token using the refresh credential cookie.
	Refresh(context.Context) (Token, error)
	// Logout ends the server-side session and expires the refresh cookie.
	Logout(context.Context) error
	// ForgotPassword asks the API server to email a password reset OTP.
	ForgotPassword(ctx context.Context, email string) error
	// ResetPassword replaces a password using an emailed OTP.
	ResetPassword(context.Context, ResetPasswordRequest) error
}

type authClient struct {
	*baseClient
}

// NewAuthClient returns a specialized client for authentication endpoints.
func NewAuthClient(apiAddress string, opts *ClientOptions) AuthClient {
	return &authClient{
		baseClient: newBaseClient(apiAddress, opts),
	}
}

func (a *authClient) Login(
	ctx context.Context,
	credentials LoginRequest,
) (Token, error) {
	token := Token{}
	return token, a.executeAPIRequest(
		ctx,
		apiRequest{
			method:      http.MethodPost,
			path:        "auth/login",
			reqBodyObj:  credentials,
			successCode: http.StatusOK,
			respObj:     &token,
		},
	)
}

func (a *authClient) Refresh(ctx context.Context) (Token, error) {
	token := Token{}
	return token, a.executeAPIRequest(
		ctx,
		apiRequest{
			method:      http.MethodPost,
			path:        "auth/refresh",
			successCode: http.StatusOK,
			respObj:     &token,
		},
	)
}

func (a *authClient) Logout(ctx context.Context) error {
	authHeaders, err := a.bearerTokenAuthHeaders(ctx)
	if err != nil {
		return err
	}
	return a.executeAPIRequest(
		ctx,
		apiRequest{
			method:      http.MethodPost,
			path:        "auth/logout",
			authHeaders: authHeaders,
			successCode: http.StatusOK,
		},
	)
}

func (a *authClient) ForgotPassword(ctx context.Context, email string) error {
	return a.executeAPIRequest(
		ctx,
		apiRequest{
			method: http.MethodPost,
			path:   "auth/forgot-password",
			reqBodyObj: struct {
				Email string `json:"email"`
			}{
				Email: email,
			},
			successCode: http.StatusOK,
		},
	)
}

func (a *authClient) ResetPassword(
	ctx context.Context,
	req ResetPasswordRequest,
) error {
	return a.executeAPIRequest(
		ctx,
		apiRequest{
			method:      http.MethodPost,
			path:        "auth/reset-password",
			reqBodyObj:  req,
			successCode: http.StatusOK,
		},
	)
}
