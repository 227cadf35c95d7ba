package session

import (
	"context"

	"github.com/topcv/jobboard"
	"github.com/topcv/jobboard/pkg/tokenstore"
)

// Bootstrap establishes the session from whatever the token store holds. The
// stored user is never trusted: the token is checked against the identity
// endpoint and the user replaced with the API server's copy. An expired token
// is refreshed once. Every failure leaves the session anonymous with the
// token store cleared; none of them are returned.
func (m *Manager) Bootstrap(ctx context.Context) State {
	func() {
		done := m.begin()
		defer done()
		m.bootstrap(ctx)
	}()
	return m.State()
}

func (m *Manager) bootstrap(ctx context.Context) {
	snapshot, err := m.store.Read(ctx)
	if err != nil {
		if err == tokenstore.ErrCorrupt {
			m.logger.Warn().Msg("stored user could not be parsed; discarding it")
		} else if err != tokenstore.ErrNoSession {
			m.logger.Warn().Err(err).Msg("error reading stored session")
		}
		m.endSession(ctx)
		return
	}

	token := snapshot.Token
	user, err := m.client.Users().GetMyInfo(ctx)
	if jobboard.IsTokenExpired(err) {
		m.logger.Debug().Msg("stored access token has expired; refreshing")
		result := m.AttemptRefresh(ctx)
		if !result.Success {
			return
		}
		token = result.Token
		user, err = m.client.Users().GetMyInfo(ctx)
	}
	if err != nil {
		m.logger.Debug().Err(err).Msg("stored session is no longer valid")
		m.endSession(ctx)
		return
	}

	if err := m.store.Save(ctx, token, user); err != nil {
		m.logger.Warn().Err(err).Msg("error saving validated session")
	}
	m.logger.Debug().Str("user", user.ID.String()).Msg("session restored")
	m.setUser(&user)
}

// endSession clears the token store and makes the session anonymous.
func (m *Manager) endSession(ctx context.Context) {
	if err := m.store.Clear(ctx); err != nil {
		m.logger.Warn().Err(err).Msg("error clearing stored session")
	}
	m.setUser(nil)
}
