package jobboard

// Client is the root of a tree of specialized API clients.
type Client interface {
	Auth() AuthClient
	Users() UsersClient
	Employers() EmployersClient
}

type client struct {
	authClient      AuthClient
	usersClient     UsersClient
	employersClient EmployersClient
}

// NewClient returns a Client for the API server at the specified address,
// e.g. http://localhost:8080/TopCV/api/v1. All specialized clients share one
// HTTP client, and therefore one cookie jar, so that the refresh credential
// set by Login is presented by Refresh and Logout.
func NewClient(apiAddress string, opts *ClientOptions) Client {
	b := newBaseClient(apiAddress, opts)
	return &client{
		authClient:      &authClient{baseClient: b},
		usersClient:     &usersClient{baseClient: b},
		employersClient: &employersClient{baseClient: b},
	}
}

func (c *client) Auth() AuthClient {
	return c.authClient
}

func (c *client) Users() UsersClient {
	return c.usersClient
}

func (c *client) Employers() EmployersClient {
	return c.employersClient
}
