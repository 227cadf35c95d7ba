package session

import "github.com/topcv/jobboard"

// Authorize reports whether the current user may proceed. With no roles,
// any authenticated user may. Callers should wait rather than deny while
// ErrSessionLoading is returned, which includes the time before a new
// Manager has been bootstrapped.
func (m *Manager) Authorize(roles ...jobboard.Role) error {
	m.mu.Lock()
	state := m.stateLocked()
	resolved := m.resolved
	m.mu.Unlock()
	if state.Loading || !resolved {
		return ErrSessionLoading
	}
	if state.User == nil {
		return ErrNotAuthenticated
	}
	if len(roles) == 0 {
		return nil
	}
	for _, role := range roles {
		if state.User.Role == role {
			return nil
		}
	}
	return ErrForbidden
}
