package session

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/wolfeidau/inferctl/internal/api"
)

// AuthAPI is the authentication slice of the remote service the Manager
// drives.
type AuthAPI interface {
	Login(ctx context.Context, username, password string) (*api.LoginResponse, error)
	Register(ctx context.Context, username, password string) (*api.MessageResponse, error)
	Logout(ctx context.Context) error
}

// Manager performs the identity operations, keeping the Store as the single
// writer of session state.
type Manager struct {
	store *Store
	auth  AuthAPI
}

// NewManager creates a manager over the given store and auth endpoints.
func NewManager(store *Store, auth AuthAPI) *Manager {
	return &Manager{store: store, auth: auth}
}

// Login authenticates and replaces the session with the issued credential.
// On failure the session is left untouched and the service's error is
// returned unchanged. The login round-trip itself proves the credential is
// accepted, so the verification flag is set.
func (m *Manager) Login(ctx context.Context, username, password string) (*api.LoginResponse, error) {
	res, err := m.auth.Login(ctx, username, password)
	if err != nil {
		return nil, err
	}

	if err := m.store.Replace(Session{
		Token:    res.Token,
		Username: res.Username,
		Role:     res.Role,
	}); err != nil {
		return nil, err
	}
	m.store.MarkVerified()

	log.Info().Str("username", res.Username).Str("role", res.Role).Msg("logged in")

	return res, nil
}

// Register creates an account without touching the session.
func (m *Manager) Register(ctx context.Context, username, password string) (*api.MessageResponse, error) {
	return m.auth.Register(ctx, username, password)
}

// Logout clears the session in memory and on disk. The remote logout is
// best-effort: the credential may already be invalid server-side (the
// transport pipeline clears the token when it sees an expiry, in which case
// no remote call is made at all). Idempotent.
func (m *Manager) Logout(ctx context.Context) error {
	if m.store.Token() != "" {
		if err := m.auth.Logout(ctx); err != nil {
			log.Debug().Err(err).Msg("remote logout failed, clearing local session anyway")
		}
	}

	return m.store.Clear()
}

// Token is a pure read of the held credential.
func (m *Manager) Token() string {
	return m.store.Token()
}
