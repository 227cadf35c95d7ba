package jobboard

import "context"

// EmployersClient is the specialized client for employer accounts.
type EmployersClient interface {
	// Register creates an employer account. As with job seekers, the email
	// address must be verified before the account can log in.
	Register(context.Context, UserRegistration) (Registration, error)
}

type employersClient struct {
	*baseClient
}

// NewEmployersClient returns a specialized client for employer endpoints.
func NewEmployersClient(
	apiAddress string,
	opts *ClientOptions,
) EmployersClient {
	return &employersClient{
		baseClient: newBaseClient(apiAddress, opts),
	}
}

func (e *employersClient) Register(
	ctx context.Context,
	registration UserRegistration,
) (Registration, error) {
	return register(ctx, e.baseClient, "employers/register", registration)
}
