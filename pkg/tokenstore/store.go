// Package tokenstore persists the access token and a snapshot of the
// authenticated user between runs of a program.
//
// The two entries are always written and removed together. The user snapshot
// is provisional: it only exists to speed up bootstrapping and must be
// re-validated against the API server before it is trusted.
package tokenstore

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/topcv/jobboard"
)

const (
	// KeyAccessToken is the key the raw access token is stored under.
	KeyAccessToken = "access_token"
	// KeyUser is the key the JSON-serialized user is stored under.
	KeyUser = "user"
)

var (
	// ErrNoSession is returned by Read when no complete session is stored.
	ErrNoSession = errors.New("no stored session")
	// ErrCorrupt is returned by Read when the stored user cannot be parsed.
	ErrCorrupt = errors.New("stored user could not be parsed")
)

// Backend is a minimal key-value storage primitive.
type Backend interface {
	// Get returns the values of whichever of the specified keys exist. Missing
	// keys are simply absent from the returned map.
	Get(ctx context.Context, keys ...string) (map[string]string, error)
	// Set writes all of the specified entries in one operation.
	Set(ctx context.Context, entries map[string]string) error
	// Delete removes all of the specified keys in one operation. Deleting a
	// key that does not exist is not an error.
	Delete(ctx context.Context, keys ...string) error
}

// Snapshot is a stored session.
type Snapshot struct {
	Token string
	User  jobboard.User
}

// Store wraps a Backend with the access token / user layout. It performs no
// validation and no network calls.
type Store struct {
	backend Backend
}

// New returns a Store backed by the specified Backend.
func New(backend Backend) *Store {
	return &Store{
		backend: backend,
	}
}

// Save persists a token together with the user it belongs to, replacing
// whatever was stored before.
func (s *Store) Save(
	ctx context.Context,
	token string,
	user jobboard.User,
) error {
	userBytes, err := json.Marshal(user)
	if err != nil {
		return errors.Wrap(err, "error marshaling user")
	}
	if err := s.backend.Set(
		ctx,
		map[string]string{
			KeyAccessToken: token,
			KeyUser:        string(userBytes),
		},
	); err != nil {
		return errors.Wrap(err, "error saving session")
	}
	return nil
}

// SaveToken replaces only the access token. It is used between obtaining a
// token and learning (or re-learning) who it belongs to.
func (s *Store) SaveToken(ctx context.Context, token string) error {
	if err := s.backend.Set(
		ctx,
		map[string]string{KeyAccessToken: token},
	); err != nil {
		return errors.Wrap(err, "error saving access token")
	}
	return nil
}

// Read returns the stored session. It returns ErrNoSession if either entry is
// missing and ErrCorrupt if the user snapshot does not parse.
func (s *Store) Read(ctx context.Context) (Snapshot, error) {
	snapshot := Snapshot{}
	values, err := s.backend.Get(ctx, KeyAccessToken, KeyUser)
	if err != nil {
		return snapshot, errors.Wrap(err, "error reading session")
	}
	token, userStr := values[KeyAccessToken], values[KeyUser]
	if token == "" || userStr == "" {
		return snapshot, ErrNoSession
	}
	if err := json.Unmarshal([]byte(userStr), &snapshot.User); err != nil {
		return snapshot, ErrCorrupt
	}
	snapshot.Token = token
	return snapshot, nil
}

// AccessToken returns the stored access token or an empty string if there is
// none. It satisfies jobboard.TokenSource.
func (s *Store) AccessToken(ctx context.Context) (string, error) {
	values, err := s.backend.Get(ctx, KeyAccessToken)
	if err != nil {
		return "", errors.Wrap(err, "error reading access token")
	}
	return values[KeyAccessToken], nil
}

// Clear removes both entries.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.backend.Delete(ctx, KeyAccessToken, KeyUser); err != nil {
		return errors.Wrap(err, "error clearing session")
	}
	return nil
}
