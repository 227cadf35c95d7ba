package session

import (
	"context"

	"github.com/topcv/jobboard"
	"github.com/topcv/jobboard/pkg/broadcast"
)

// RefreshResult is the outcome of AttemptRefresh.
type RefreshResult struct {
	Success bool
	// Token is the new access token when Success is true.
	Token string
	// Reason explains why the refresh failed when Success is false.
	Reason string
}

// AttemptRefresh makes exactly one attempt to mint a new access token using
// the refresh credential the API server keeps in a cookie. On success the new
// token is saved and the caller is expected to retry whatever failed, once.
// On failure the token store is cleared and the session made anonymous.
func (m *Manager) AttemptRefresh(ctx context.Context) RefreshResult {
	token, err := m.client.Auth().Refresh(ctx)
	if err == nil && token.Value == "" {
		err = &jobboard.ErrAuthentication{
			Code:    jobboard.CodeUnauthenticated,
			Message: "API server returned an empty access token",
		}
	}
	if err == nil {
		err = m.store.SaveToken(ctx, token.Value)
	}
	if err != nil {
		m.logger.Debug().Err(err).Msg("access token could not be refreshed")
		m.endSession(ctx)
		return RefreshResult{Reason: err.Error()}
	}
	m.logger.Debug().Msg("access token refreshed")
	return RefreshResult{Success: true, Token: token.Value}
}

// Do runs an authenticated API call. If the access token turns out to have
// expired, the token is refreshed and the call retried once. If the session
// is found to be dead, the token store is cleared and broadcast.EventLogout
// published so that every part of the program treats the user as logged out.
// The call's error, if any, is returned.
func (m *Manager) Do(ctx context.Context, fn func(context.Context) error) error {
	err := fn(ctx)
	if jobboard.IsTokenExpired(err) {
		if result := m.AttemptRefresh(ctx); result.Success {
			err = fn(ctx)
		}
	}
	if jobboard.IsTokenExpired(err) || jobboard.IsAuthentication(err) {
		if clearErr := m.store.Clear(ctx); clearErr != nil {
			m.logger.Warn().Err(clearErr).Msg("error clearing stored session")
		}
		m.broadcaster.Publish(broadcast.EventLogout)
	}
	return err
}
