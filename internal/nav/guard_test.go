package nav

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolfeidau/inferctl/internal/api"
	"github.com/wolfeidau/inferctl/internal/session"
)

func TestDecide(t *testing.T) {
	table := DefaultTable()
	login := table.Login()
	home := table.Home()
	inference, _ := table.Lookup(RouteInference)
	admin, _ := table.Lookup(RouteAdmin)

	tests := []struct {
		name     string
		loggedIn bool
		admin    bool
		dst      Route
		want     Outcome
	}{
		{"logged out to open login", false, false, login, Proceed},
		{"logged out to home", false, false, home, ToLogin},
		{"logged out to guarded route", false, false, inference, ToLogin},
		{"logged out to admin route", false, false, admin, ToLogin},
		{"user to home", true, false, home, Proceed},
		{"user to guarded route", true, false, inference, Proceed},
		{"user to admin route", true, false, admin, ToHome},
		{"user to login", true, false, login, ToHome},
		{"admin to admin route", true, true, admin, Proceed},
		{"admin to guarded route", true, true, inference, Proceed},
		{"admin to login", true, true, login, ToHome},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Decide(tt.loggedIn, tt.admin, tt.dst, table)
			assert.Equal(t, tt.want, got)
		})
	}
}

type fakeVerifier struct {
	err   error
	calls int
}

func (f *fakeVerifier) Me(ctx context.Context) (*api.Me, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &api.Me{Username: "alice", Role: session.RoleUser}, nil
}

type fakeIdentity struct {
	store *session.Store
	calls int
}

func (f *fakeIdentity) Logout(ctx context.Context) error {
	f.calls++
	return f.store.Clear()
}

func newGuard(t *testing.T, sess session.Session, verifier *fakeVerifier) (*Guard, *session.Store, *fakeIdentity) {
	t.Helper()

	store, err := session.Open(t.TempDir())
	require.NoError(t, err)
	if sess.IsLoggedIn() {
		require.NoError(t, store.Replace(sess))
	}

	identity := &fakeIdentity{store: store}
	return NewGuard(DefaultTable(), store, verifier, identity), store, identity
}

func TestGuard_Authorize(t *testing.T) {
	table := DefaultTable()
	home := table.Home()
	adminRoute, _ := table.Lookup(RouteAdmin)
	login := table.Login()

	t.Run("logged out makes no network call", func(t *testing.T) {
		verifier := &fakeVerifier{}
		guard, _, _ := newGuard(t, session.Session{}, verifier)

		outcome := guard.Authorize(context.Background(), home)

		assert.Equal(t, ToLogin, outcome)
		assert.Zero(t, verifier.calls)
	})

	t.Run("unverified credential is verified once", func(t *testing.T) {
		verifier := &fakeVerifier{}
		guard, store, _ := newGuard(t,
			session.Session{Token: "t1", Username: "alice", Role: session.RoleUser}, verifier)

		outcome := guard.Authorize(context.Background(), home)
		assert.Equal(t, Proceed, outcome)
		assert.Equal(t, 1, verifier.calls)
		assert.True(t, store.TokenVerified())

		// Later navigations skip the round-trip.
		outcome = guard.Authorize(context.Background(), home)
		assert.Equal(t, Proceed, outcome)
		assert.Equal(t, 1, verifier.calls)
	})

	t.Run("rejected credential logs out and bounces to login", func(t *testing.T) {
		verifier := &fakeVerifier{err: &api.Error{Status: 401, Message: "unauthorized"}}
		guard, store, identity := newGuard(t,
			session.Session{Token: "stale", Username: "alice", Role: session.RoleAdmin}, verifier)

		outcome := guard.Authorize(context.Background(), adminRoute)

		// The decision table never runs; the attempt resolves to login.
		assert.Equal(t, ToLogin, outcome)
		assert.Equal(t, 1, identity.calls)
		assert.False(t, store.Current().IsLoggedIn())
		assert.False(t, store.TokenVerified())
	})

	t.Run("network failure during verification also bounces", func(t *testing.T) {
		verifier := &fakeVerifier{err: errors.New("connection refused")}
		guard, store, _ := newGuard(t,
			session.Session{Token: "t1", Username: "alice", Role: session.RoleUser}, verifier)

		outcome := guard.Authorize(context.Background(), home)
		assert.Equal(t, ToLogin, outcome)
		assert.False(t, store.Current().IsLoggedIn())
	})

	t.Run("verified non-admin is bounced home without a round-trip", func(t *testing.T) {
		verifier := &fakeVerifier{}
		guard, store, _ := newGuard(t,
			session.Session{Token: "t1", Username: "alice", Role: session.RoleUser}, verifier)
		store.MarkVerified()

		outcome := guard.Authorize(context.Background(), adminRoute)

		assert.Equal(t, ToHome, outcome)
		assert.Zero(t, verifier.calls)
	})

	t.Run("login route while logged in bounces home without verification", func(t *testing.T) {
		verifier := &fakeVerifier{}
		guard, store, _ := newGuard(t,
			session.Session{Token: "t1", Username: "alice", Role: session.RoleUser}, verifier)
		store.MarkVerified()

		outcome := guard.Authorize(context.Background(), login)

		// The login route itself requires no auth, so no verification runs.
		assert.Equal(t, ToHome, outcome)
		assert.Zero(t, verifier.calls)
	})
}

func TestNewTable(t *testing.T) {
	t.Run("rejects admin without auth", func(t *testing.T) {
		_, err := NewTable("login", "home",
			Route{Name: "login", Path: "/login"},
			Route{Name: "home", Path: "/", RequiresAuth: true},
			Route{Name: "broken", Path: "/broken", RequiresAdmin: true},
		)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "requires admin but not auth")
	})

	t.Run("rejects missing designated routes", func(t *testing.T) {
		_, err := NewTable("login", "home",
			Route{Name: "home", Path: "/", RequiresAuth: true},
		)
		require.Error(t, err)
	})

	t.Run("rejects duplicates", func(t *testing.T) {
		_, err := NewTable("login", "login",
			Route{Name: "login", Path: "/login"},
			Route{Name: "login", Path: "/login2"},
		)
		require.Error(t, err)
	})
}
