package session

import (
	"context"

	"github.com/topcv/jobboard"
)

type changePasswordInput struct {
	CurrentPassword string `validate:"required"`
	NewPassword     string `validate:"required,min=8,nefield=CurrentPassword"`
}

type profileInput struct {
	Dob string `validate:"omitempty,datetime=2006-01-02T15:04:05"`
}

// ChangePassword changes the logged in user's password. The call goes
// through Do, so an expired access token is refreshed once and a dead
// session ends everywhere, in which case ErrNotAuthenticated is returned.
func (m *Manager) ChangePassword(
	ctx context.Context,
	currentPassword string,
	newPassword string,
) error {
	if err := validateInput(
		changePasswordInput{
			CurrentPassword: currentPassword,
			NewPassword:     newPassword,
		},
	); err != nil {
		return err
	}
	done := m.begin()
	defer done()

	err := m.Do(ctx, func(ctx context.Context) error {
		return m.client.Users().ChangePassword(
			ctx,
			jobboard.PasswordChange{
				CurrentPassword: currentPassword,
				NewPassword:     newPassword,
			},
		)
	})
	if err != nil {
		m.logger.Debug().Err(err).Msg("password change failed")
		return accountError(err, msgChangeFailed)
	}
	m.logger.Debug().Msg("password changed")
	return nil
}

// UpdateProfile applies changes to the logged in user's profile. On success
// the session's user is replaced wholesale by the one the API server returns,
// in memory and in the token store. Failures are reported the same way as by
// ChangePassword.
func (m *Manager) UpdateProfile(
	ctx context.Context,
	update jobboard.ProfileUpdate,
) error {
	if update == (jobboard.ProfileUpdate{}) {
		return &ValidationError{
			Messages: []string{"at least one profile field is required"},
		}
	}
	if err := validateInput(
		profileInput{Dob: update.Dob},
	); err != nil {
		return err
	}
	done := m.begin()
	defer done()

	var user jobboard.User
	err := m.Do(ctx, func(ctx context.Context) error {
		var err error
		user, err = m.client.Users().UpdateMyInfo(ctx, update)
		return err
	})
	if err != nil {
		m.logger.Debug().Err(err).Msg("profile update failed")
		return accountError(err, msgUpdateFailed)
	}
	token, err := m.store.AccessToken(ctx)
	if err == nil {
		err = m.store.Save(ctx, token, user)
	}
	if err != nil {
		m.logger.Warn().Err(err).Msg("error saving updated user")
	}
	m.logger.Debug().Str("user", user.ID.String()).Msg("profile updated")
	m.setUser(&user)
	return nil
}

// accountError converts the error from an authenticated call made through Do.
func accountError(err error, fallback string) error {
	if jobboard.IsTokenExpired(err) || jobboard.IsAuthentication(err) {
		return ErrNotAuthenticated
	}
	return &AccountError{Message: displayMessage(err, fallback)}
}
