package jobboard

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/pkg/errors"
)

// UsersClient is the specialized client for job seeker accounts and for the
// identity ("who am I") endpoint.
type UsersClient interface {
	// Register creates a job seeker account. The account cannot be used until
	// its email address is verified.
	Register(context.Context, UserRegistration) (Registration, error)
	// VerifyEmail confirms a registration using the OTP emailed to the user.
	VerifyEmail(context.Context, EmailVerification) error
	// GetMyInfo returns the principal the current access token belongs to.
	GetMyInfo(context.Context) (User, error)
	// UpdateMyInfo applies a ProfileUpdate to the principal the current access
	// token belongs to and returns the updated user.
	UpdateMyInfo(context.Context, ProfileUpdate) (User, error)
	// ChangePassword changes the password of the principal the current access
	// token belongs to.
	ChangePassword(context.Context, PasswordChange) error
}

type usersClient struct {
	*baseClient
}

// NewUsersClient returns a specialized client for user endpoints.
func NewUsersClient(apiAddress string, opts *ClientOptions) UsersClient {
	return &usersClient{
		baseClient: newBaseClient(apiAddress, opts),
	}
}

func (u *usersClient) Register(
	ctx context.Context,
	registration UserRegistration,
) (Registration, error) {
	return register(ctx, u.baseClient, "users/register", registration)
}

func (u *usersClient) VerifyEmail(
	ctx context.Context,
	verification EmailVerification,
) error {
	return u.executeAPIRequest(
		ctx,
		apiRequest{
			method:      http.MethodPost,
			path:        "users/verify-email",
			reqBodyObj:  verification,
			successCode: http.StatusOK,
		},
	)
}

func (u *usersClient) GetMyInfo(ctx context.Context) (User, error) {
	return u.myInfo(ctx, http.MethodGet, nil)
}

func (u *usersClient) UpdateMyInfo(
	ctx context.Context,
	update ProfileUpdate,
) (User, error) {
	return u.myInfo(ctx, http.MethodPut, update)
}

func (u *usersClient) ChangePassword(
	ctx context.Context,
	change PasswordChange,
) error {
	authHeaders, err := u.bearerTokenAuthHeaders(ctx)
	if err != nil {
		return err
	}
	return u.executeAPIRequest(
		ctx,
		apiRequest{
			method:      http.MethodPost,
			path:        "users/change-password",
			authHeaders: authHeaders,
			reqBodyObj:  change,
			successCode: http.StatusOK,
		},
	)
}

// myInfo reads or updates the identity resource. Either way the API server
// answers with the complete user, which is validated before it is decoded.
func (u *usersClient) myInfo(
	ctx context.Context,
	method string,
	reqBodyObj interface{},
) (User, error) {
	user := User{}
	authHeaders, err := u.bearerTokenAuthHeaders(ctx)
	if err != nil {
		return user, err
	}
	userBytes := json.RawMessage{}
	if err = u.executeAPIRequest(
		ctx,
		apiRequest{
			method:      method,
			path:        "users/my-info",
			authHeaders: authHeaders,
			reqBodyObj:  reqBodyObj,
			successCode: http.StatusOK,
			respObj:     &userBytes,
		},
	); err != nil {
		return user, err
	}
	if err = validateUserJSON(userBytes); err != nil {
		return user, err
	}
	if err = json.Unmarshal(userBytes, &user); err != nil {
		return user, errors.Wrap(err, "error unmarshaling user")
	}
	return user, nil
}

func register(
	ctx context.Context,
	b *baseClient,
	path string,
	registration UserRegistration,
) (Registration, error) {
	result := Registration{}
	return result, b.executeAPIRequest(
		ctx,
		apiRequest{
			method:      http.MethodPost,
			path:        path,
			reqBodyObj:  registration,
			successCode: http.StatusOK,
			respObj:     &result,
		},
	)
}
