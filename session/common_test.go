package session

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/topcv/jobboard"
	"github.com/topcv/jobboard/pkg/broadcast"
	"github.com/topcv/jobboard/pkg/tokenstore"
)

const (
	testEmail    = "tony@starkindustries.com"
	testPassword = "IAmIronMan"
	testOTP      = "123456"
)

var testUser = jobboard.User{
	ID:              "8b8e4b9e-3f5d-4a3f-9c3a-0e6f2f1b7c11",
	UserName:        "tony",
	Email:           testEmail,
	Fullname:        "Tony Stark",
	Role:            jobboard.RoleUser,
	IsActive:        true,
	IsEmailVerified: true,
}

// fakeClient records how often each endpoint is called and delegates to
// whichever functions a test has provided.
type fakeClient struct {
	mu    sync.Mutex
	calls map[string]int

	LoginFn          func(jobboard.LoginRequest) (jobboard.Token, error)
	RefreshFn        func() (jobboard.Token, error)
	LogoutFn         func() error
	ForgotPasswordFn func(email string) error
	ResetPasswordFn  func(jobboard.ResetPasswordRequest) error
	RegisterUserFn   func(jobboard.UserRegistration) (jobboard.Registration, error)
	RegisterEmpFn    func(jobboard.UserRegistration) (jobboard.Registration, error)
	VerifyEmailFn    func(jobboard.EmailVerification) error
	GetMyInfoFn      func() (jobboard.User, error)
	UpdateMyInfoFn   func(jobboard.ProfileUpdate) (jobboard.User, error)
	ChangePassFn     func(jobboard.PasswordChange) error
}

func newFakeClient() *fakeClient {
	return &fakeClient{calls: map[string]int{}}
}

func (f *fakeClient) record(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[name]++
}

func (f *fakeClient) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeClient) total() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	total := 0
	for _, n := range f.calls {
		total += n
	}
	return total
}

func (f *fakeClient) Auth() jobboard.AuthClient           { return fakeAuth{f} }
func (f *fakeClient) Users() jobboard.UsersClient         { return fakeUsers{f} }
func (f *fakeClient) Employers() jobboard.EmployersClient { return fakeEmployers{f} }

var errUnexpectedCall = &jobboard.ErrInternalServer{Message: "unexpected call"}

type fakeAuth struct{ f *fakeClient }

func (a fakeAuth) Login(
	_ context.Context,
	req jobboard.LoginRequest,
) (jobboard.Token, error) {
	a.f.record("login")
	if a.f.LoginFn == nil {
		return jobboard.Token{}, errUnexpectedCall
	}
	return a.f.LoginFn(req)
}

func (a fakeAuth) Refresh(context.Context) (jobboard.Token, error) {
	a.f.record("refresh")
	if a.f.RefreshFn == nil {
		return jobboard.Token{}, errUnexpectedCall
	}
	return a.f.RefreshFn()
}

func (a fakeAuth) Logout(context.Context) error {
	a.f.record("logout")
	if a.f.LogoutFn == nil {
		return nil
	}
	return a.f.LogoutFn()
}

func (a fakeAuth) ForgotPassword(_ context.Context, email string) error {
	a.f.record("forgot-password")
	if a.f.ForgotPasswordFn == nil {
		return errUnexpectedCall
	}
	return a.f.ForgotPasswordFn(email)
}

func (a fakeAuth) ResetPassword(
	_ context.Context,
	req jobboard.ResetPasswordRequest,
) error {
	a.f.record("reset-password")
	if a.f.ResetPasswordFn == nil {
		return errUnexpectedCall
	}
	return a.f.ResetPasswordFn(req)
}

type fakeUsers struct{ f *fakeClient }

func (u fakeUsers) Register(
	_ context.Context,
	reg jobboard.UserRegistration,
) (jobboard.Registration, error) {
	u.f.record("users/register")
	if u.f.RegisterUserFn == nil {
		return jobboard.Registration{}, errUnexpectedCall
	}
	return u.f.RegisterUserFn(reg)
}

func (u fakeUsers) VerifyEmail(
	_ context.Context,
	v jobboard.EmailVerification,
) error {
	u.f.record("verify-email")
	if u.f.VerifyEmailFn == nil {
		return errUnexpectedCall
	}
	return u.f.VerifyEmailFn(v)
}

func (u fakeUsers) GetMyInfo(context.Context) (jobboard.User, error) {
	u.f.record("my-info")
	if u.f.GetMyInfoFn == nil {
		return jobboard.User{}, errUnexpectedCall
	}
	return u.f.GetMyInfoFn()
}

func (u fakeUsers) UpdateMyInfo(
	_ context.Context,
	update jobboard.ProfileUpdate,
) (jobboard.User, error) {
	u.f.record("update-my-info")
	if u.f.UpdateMyInfoFn == nil {
		return jobboard.User{}, errUnexpectedCall
	}
	return u.f.UpdateMyInfoFn(update)
}

func (u fakeUsers) ChangePassword(
	_ context.Context,
	change jobboard.PasswordChange,
) error {
	u.f.record("change-password")
	if u.f.ChangePassFn == nil {
		return errUnexpectedCall
	}
	return u.f.ChangePassFn(change)
}

type fakeEmployers struct{ f *fakeClient }

func (e fakeEmployers) Register(
	_ context.Context,
	reg jobboard.UserRegistration,
) (jobboard.Registration, error) {
	e.f.record("employers/register")
	if e.f.RegisterEmpFn == nil {
		return jobboard.Registration{}, errUnexpectedCall
	}
	return e.f.RegisterEmpFn(reg)
}

type testHarness struct {
	client      *fakeClient
	store       *tokenstore.Store
	broadcaster *broadcast.Broadcaster
	manager     *Manager
}

func newTestHarness(t *testing.T) *testHarness {
	h := &testHarness{
		client:      newFakeClient(),
		store:       tokenstore.New(tokenstore.NewMemoryBackend()),
		broadcaster: broadcast.New(),
	}
	h.manager = NewManager(h.client, h.store, h.broadcaster)
	t.Cleanup(h.manager.Close)
	return h
}

// storedToken returns whatever access token the store currently holds, the
// way a real client's token source would.
func (h *testHarness) storedToken(t *testing.T) string {
	token, err := h.store.AccessToken(context.Background())
	require.NoError(t, err)
	return token
}

func (h *testHarness) seed(t *testing.T, token string, user jobboard.User) {
	require.NoError(t, h.store.Save(context.Background(), token, user))
}

func (h *testHarness) authenticate(t *testing.T) {
	h.seed(t, "abc", testUser)
	h.client.GetMyInfoFn = func() (jobboard.User, error) {
		return testUser, nil
	}
	state := h.manager.Bootstrap(context.Background())
	require.NotNil(t, state.User)
}

func expiredTokenError() error {
	return &jobboard.ErrTokenExpired{
		Code:    jobboard.CodeTokenExpired,
		Message: "Token expired",
	}
}

func requireAnonymous(t *testing.T, state State) {
	require.Equal(t, State{}, state)
}

func requireStoreEmpty(t *testing.T, store *tokenstore.Store) {
	_, err := store.Read(context.Background())
	require.Equal(t, tokenstore.ErrNoSession, err)
	token, err := store.AccessToken(context.Background())
	require.NoError(t, err)
	require.Empty(t, token)
}
