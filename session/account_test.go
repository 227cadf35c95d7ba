package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/topcv/jobboard"
	"github.com/topcv/jobboard/pkg/broadcast"
)

func TestChangePassword(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		h := newTestHarness(t)
		h.authenticate(t)
		h.client.ChangePassFn = func(change jobboard.PasswordChange) error {
			require.Equal(
				t,
				jobboard.PasswordChange{
					CurrentPassword: testPassword,
					NewPassword:     "IAmPepperPotts",
				},
				change,
			)
			require.True(t, h.manager.State().Loading)
			return nil
		}
		require.NoError(
			t,
			h.manager.ChangePassword(
				context.Background(),
				testPassword,
				"IAmPepperPotts",
			),
		)
		state := h.manager.State()
		require.False(t, state.Loading)
		require.Equal(t, &testUser, state.User)
	})

	t.Run("validation", func(t *testing.T) {
		testCases := []struct {
			name    string
			current string
			next    string
			message string
		}{
			{
				name:    "missing current password",
				next:    "IAmPepperPotts",
				message: "currentpassword is required",
			},
			{
				name:    "short new password",
				current: testPassword,
				next:    "short",
				message: "newpassword must be at least 8 characters",
			},
			{
				name:    "unchanged password",
				current: testPassword,
				next:    testPassword,
				message: "newpassword must differ from currentpassword",
			},
		}
		for _, testCase := range testCases {
			t.Run(testCase.name, func(t *testing.T) {
				h := newTestHarness(t)
				err := h.manager.ChangePassword(
					context.Background(),
					testCase.current,
					testCase.next,
				)
				require.IsType(t, &ValidationError{}, err)
				require.Contains(t, err.Error(), testCase.message)
				require.Zero(t, h.client.total())
			})
		}
	})

	t.Run("wrong current password", func(t *testing.T) {
		h := newTestHarness(t)
		h.authenticate(t)
		h.client.ChangePassFn = func(jobboard.PasswordChange) error {
			return &jobboard.ErrBadRequest{
				Code:    jobboard.CodeWrongPassword,
				Message: "Current password is incorrect",
			}
		}
		err := h.manager.ChangePassword(
			context.Background(),
			"NotMyPassword",
			"IAmPepperPotts",
		)
		require.Equal(
			t,
			&AccountError{Message: "Current password is incorrect"},
			err,
		)
		require.True(t, h.manager.Authenticated())
		require.Equal(t, "abc", h.storedToken(t))
	})

	t.Run("unexplained failure", func(t *testing.T) {
		h := newTestHarness(t)
		h.authenticate(t)
		h.client.ChangePassFn = func(jobboard.PasswordChange) error {
			return context.DeadlineExceeded
		}
		err := h.manager.ChangePassword(
			context.Background(),
			testPassword,
			"IAmPepperPotts",
		)
		require.Equal(t, &AccountError{Message: msgChangeFailed}, err)
	})

	t.Run("expired token is refreshed and the call retried", func(t *testing.T) {
		h := newTestHarness(t)
		h.authenticate(t)
		tokens := []string{}
		h.client.ChangePassFn = func(jobboard.PasswordChange) error {
			tokens = append(tokens, h.storedToken(t))
			if len(tokens) == 1 {
				return expiredTokenError()
			}
			return nil
		}
		h.client.RefreshFn = func() (jobboard.Token, error) {
			return jobboard.Token{Value: "def"}, nil
		}
		require.NoError(
			t,
			h.manager.ChangePassword(
				context.Background(),
				testPassword,
				"IAmPepperPotts",
			),
		)
		require.Equal(t, []string{"abc", "def"}, tokens)
		require.Equal(t, 1, h.client.count("refresh"))
		require.True(t, h.manager.Authenticated())
	})

	t.Run("dead session ends everywhere", func(t *testing.T) {
		h := newTestHarness(t)
		h.authenticate(t)
		logoutEvents := 0
		unsubscribe := h.broadcaster.Subscribe(
			broadcast.EventLogout,
			func() { logoutEvents++ },
		)
		defer unsubscribe()
		h.client.ChangePassFn = func(jobboard.PasswordChange) error {
			return expiredTokenError()
		}
		h.client.RefreshFn = func() (jobboard.Token, error) {
			return jobboard.Token{}, &jobboard.ErrAuthentication{
				Code:    jobboard.CodeUnauthenticated,
				Message: "Unauthenticated",
			}
		}
		err := h.manager.ChangePassword(
			context.Background(),
			testPassword,
			"IAmPepperPotts",
		)
		require.Equal(t, ErrNotAuthenticated, err)
		require.Equal(t, 1, h.client.count("change-password"))
		require.Equal(t, 1, logoutEvents)
		requireStoreEmpty(t, h.store)
		requireAnonymous(t, h.manager.State())
		require.Equal(t, ErrNotAuthenticated, h.manager.Authorize())
	})
}

func TestUpdateProfile(t *testing.T) {
	t.Run("success replaces the user", func(t *testing.T) {
		h := newTestHarness(t)
		h.authenticate(t)
		updated := testUser
		updated.Fullname = "Anthony Edward Stark"
		updated.Phone = "555-0199"
		updated.UpdatedAt = "2024-06-01T09:00:00"
		h.client.UpdateMyInfoFn = func(
			update jobboard.ProfileUpdate,
		) (jobboard.User, error) {
			require.Equal(
				t,
				jobboard.ProfileUpdate{
					Fullname: "Anthony Edward Stark",
					Phone:    "555-0199",
				},
				update,
			)
			return updated, nil
		}
		require.NoError(
			t,
			h.manager.UpdateProfile(
				context.Background(),
				jobboard.ProfileUpdate{
					Fullname: "Anthony Edward Stark",
					Phone:    "555-0199",
				},
			),
		)
		require.Equal(t, State{User: &updated}, h.manager.State())
		snapshot, err := h.store.Read(context.Background())
		require.NoError(t, err)
		require.Equal(t, "abc", snapshot.Token)
		require.Equal(t, updated, snapshot.User)
	})

	t.Run("nothing to update", func(t *testing.T) {
		h := newTestHarness(t)
		err := h.manager.UpdateProfile(
			context.Background(),
			jobboard.ProfileUpdate{},
		)
		require.IsType(t, &ValidationError{}, err)
		require.Zero(t, h.client.total())
	})

	t.Run("badly formatted date of birth", func(t *testing.T) {
		h := newTestHarness(t)
		err := h.manager.UpdateProfile(
			context.Background(),
			jobboard.ProfileUpdate{Dob: "29/05/1970"},
		)
		require.IsType(t, &ValidationError{}, err)
		require.Contains(t, err.Error(), "dob must be formatted as")
		require.Zero(t, h.client.total())
	})

	t.Run("failure keeps the user", func(t *testing.T) {
		h := newTestHarness(t)
		h.authenticate(t)
		h.client.UpdateMyInfoFn = func(
			jobboard.ProfileUpdate,
		) (jobboard.User, error) {
			return jobboard.User{}, &jobboard.ErrInternalServer{
				Code: jobboard.CodeUncategorized,
			}
		}
		err := h.manager.UpdateProfile(
			context.Background(),
			jobboard.ProfileUpdate{Fullname: "Iron Man"},
		)
		require.Equal(t, &AccountError{Message: msgUpdateFailed}, err)
		require.Equal(t, State{User: &testUser}, h.manager.State())
	})

	t.Run("revoked token ends the session", func(t *testing.T) {
		h := newTestHarness(t)
		h.authenticate(t)
		h.client.UpdateMyInfoFn = func(
			jobboard.ProfileUpdate,
		) (jobboard.User, error) {
			return jobboard.User{}, &jobboard.ErrAuthentication{
				Code:    jobboard.CodeUnauthenticated,
				Message: "Unauthenticated",
			}
		}
		err := h.manager.UpdateProfile(
			context.Background(),
			jobboard.ProfileUpdate{Fullname: "Iron Man"},
		)
		require.Equal(t, ErrNotAuthenticated, err)
		require.Zero(t, h.client.count("refresh"))
		requireStoreEmpty(t, h.store)
		requireAnonymous(t, h.manager.State())
	})
}
