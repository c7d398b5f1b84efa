package nav

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolfeidau/inferctl/internal/session"
)

func newNavigator(t *testing.T, sess session.Session, verifier *fakeVerifier) (*Navigator, *session.Store) {
	t.Helper()

	guard, store, _ := newGuard(t, sess, verifier)
	pos := NewPosition(RouteHome, RouteLogin)
	return NewNavigator(DefaultTable(), guard, pos), store
}

func TestNavigator_Go(t *testing.T) {
	t.Run("unknown route is an error", func(t *testing.T) {
		navigator, _ := newNavigator(t, session.Session{}, &fakeVerifier{})

		_, _, err := navigator.Go(context.Background(), "nope")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown route")
	})

	t.Run("a bounced attempt lands on the login route", func(t *testing.T) {
		navigator, _ := newNavigator(t, session.Session{}, &fakeVerifier{})

		dst, outcome, err := navigator.Go(context.Background(), RouteHistory)
		require.NoError(t, err)

		assert.Equal(t, ToLogin, outcome)
		assert.Equal(t, RouteLogin, dst.Name)
		assert.True(t, navigator.Position().At(RouteLogin))
	})

	t.Run("a denied attempt lands on home", func(t *testing.T) {
		navigator, store := newNavigator(t,
			session.Session{Token: "t1", Username: "alice", Role: session.RoleUser}, &fakeVerifier{})
		store.MarkVerified()

		dst, outcome, err := navigator.Go(context.Background(), RouteAdmin)
		require.NoError(t, err)

		assert.Equal(t, ToHome, outcome)
		assert.Equal(t, RouteHome, dst.Name)
		assert.True(t, navigator.Position().At(RouteHome))
	})

	t.Run("an allowed attempt lands on the destination", func(t *testing.T) {
		navigator, store := newNavigator(t,
			session.Session{Token: "t1", Username: "alice", Role: session.RoleAdmin}, &fakeVerifier{})
		store.MarkVerified()

		dst, outcome, err := navigator.Go(context.Background(), RouteAdmin)
		require.NoError(t, err)

		assert.Equal(t, Proceed, outcome)
		assert.Equal(t, RouteAdmin, dst.Name)
		assert.True(t, navigator.Position().At(RouteAdmin))
	})
}

func TestPosition(t *testing.T) {
	pos := NewPosition(RouteHome, RouteLogin)

	assert.Equal(t, RouteHome, pos.Current())
	assert.False(t, pos.AtLogin())

	pos.RedirectToLogin()

	assert.True(t, pos.AtLogin())
	assert.True(t, pos.At(RouteLogin))
}

func TestOutcome_String(t *testing.T) {
	assert.Equal(t, "proceed", Proceed.String())
	assert.Equal(t, "to-login", ToLogin.String())
	assert.Equal(t, "to-home", ToHome.String())
	assert.Equal(t, "unknown", Outcome(42).String())
}
