// Package session keeps track of who is logged in.
//
// A Manager is the single source of truth for the current user. It bootstraps
// a stored session, silently refreshes expired access tokens, and exposes the
// login, registration, OTP and password reset operations. Any code that
// discovers the session has died can end it everywhere by publishing
// broadcast.EventLogout.
package session

import (
	"sync"

	"github.com/rs/zerolog"
	"github.com/topcv/jobboard"
	"github.com/topcv/jobboard/pkg/broadcast"
	"github.com/topcv/jobboard/pkg/tokenstore"
)

// State is a point-in-time view of the session.
type State struct {
	// User is the authenticated user or nil when the session is anonymous.
	User *jobboard.User `json:"user,omitempty"`
	// Loading is true while bootstrapping or while an operation is in flight.
	Loading bool `json:"loading"`
}

// Option customizes a Manager.
type Option func(*Manager)

// WithLogger sets the logger a Manager uses. By default nothing is logged.
func WithLogger(logger zerolog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// Manager owns the session state.
type Manager struct {
	client      jobboard.Client
	store       *tokenstore.Store
	broadcaster *broadcast.Broadcaster
	logger      zerolog.Logger

	mu   sync.Mutex
	user *jobboard.User
	// resolved is false until the current user has been determined, by
	// Bootstrap or by any operation that logs in or out
	resolved bool
	pending  int
	watchers map[int]func(State)
	nextID   int

	unsubscribe func()
}

// NewManager returns a Manager. The client's TokenSource is expected to be
// the same store, so that tokens saved by the Manager are the ones presented
// to the API server. The Manager subscribes to broadcast.EventLogout until
// Close is called.
func NewManager(
	client jobboard.Client,
	store *tokenstore.Store,
	broadcaster *broadcast.Broadcaster,
	opts ...Option,
) *Manager {
	m := &Manager{
		client:      client,
		store:       store,
		broadcaster: broadcaster,
		logger:      zerolog.Nop(),
		watchers:    map[int]func(State){},
	}
	for _, opt := range opts {
		opt(m)
	}
	m.unsubscribe = broadcaster.Subscribe(
		broadcast.EventLogout,
		m.onLogoutEvent,
	)
	return m
}

// Close stops listening for logout events.
func (m *Manager) Close() {
	m.unsubscribe()
}

// State returns the current session state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stateLocked()
}

// Authenticated returns true if a user is logged in.
func (m *Manager) Authenticated() bool {
	return m.State().User != nil
}

// Watch registers a function to be called with the new state after every
// change. The returned function stops the notifications.
func (m *Manager) Watch(fn func(State)) func() {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.nextID
	m.nextID++
	m.watchers[id] = fn
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.watchers, id)
	}
}

func (m *Manager) onLogoutEvent() {
	m.logger.Debug().Msg("logout event received")
	m.setUser(nil)
}

func (m *Manager) stateLocked() State {
	state := State{Loading: m.pending > 0}
	if m.user != nil {
		user := *m.user
		state.User = &user
	}
	return state
}

// mutate applies fn to the state under the lock and then notifies watchers
// with the resulting state.
func (m *Manager) mutate(fn func()) {
	m.mu.Lock()
	fn()
	state := m.stateLocked()
	watchers := make([]func(State), 0, len(m.watchers))
	for _, w := range m.watchers {
		watchers = append(watchers, w)
	}
	m.mu.Unlock()
	for _, w := range watchers {
		w(state)
	}
}

// setUser replaces the user wholesale. A nil user makes the session
// anonymous.
func (m *Manager) setUser(user *jobboard.User) {
	m.mutate(func() {
		m.resolved = true
		if user == nil {
			m.user = nil
			return
		}
		u := *user
		m.user = &u
	})
}

// begin raises the loading flag and returns the function that lowers it
// again. Operations may overlap, so the flag is only lowered once the last
// of them has finished.
func (m *Manager) begin() func() {
	m.mutate(func() {
		m.pending++
	})
	return func() {
		m.mutate(func() {
			m.pending--
		})
	}
}
