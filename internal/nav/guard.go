package nav

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/wolfeidau/inferctl/internal/api"
	"github.com/wolfeidau/inferctl/internal/session"
)

// Outcome is the terminal result of a navigation attempt.
type Outcome int

const (
	// Proceed allows the requested destination.
	Proceed Outcome = iota
	// ToLogin bounces the attempt to the login destination.
	ToLogin
	// ToHome bounces the attempt to the home destination.
	ToHome
)

func (o Outcome) String() string {
	switch o {
	case Proceed:
		return "proceed"
	case ToLogin:
		return "to-login"
	case ToHome:
		return "to-home"
	default:
		return "unknown"
	}
}

// Decide is the pure authorization decision for a destination, evaluated in
// order with the first match winning. It performs no I/O; verification is
// the Guard's job.
func Decide(loggedIn, admin bool, dst Route, t *Table) Outcome {
	switch {
	case dst.RequiresAuth && !loggedIn:
		return ToLogin
	case dst.RequiresAdmin && !admin:
		return ToHome
	case dst.Name == t.Login().Name && loggedIn:
		return ToHome
	default:
		return Proceed
	}
}

// Verifier performs the who-am-I round-trip confirming a held credential is
// still accepted.
type Verifier interface {
	Me(ctx context.Context) (*api.Me, error)
}

// Identity is the logout operation the guard invokes when verification
// fails.
type Identity interface {
	Logout(ctx context.Context) error
}

// Guard gates navigation attempts. Before the first guarded navigation with
// a persisted credential it verifies the credential once; after that the
// pure decision table runs alone.
type Guard struct {
	table    *Table
	store    *session.Store
	verifier Verifier
	identity Identity
}

// NewGuard creates a guard over the route table and session state.
func NewGuard(table *Table, store *session.Store, verifier Verifier, identity Identity) *Guard {
	return &Guard{
		table:    table,
		store:    store,
		verifier: verifier,
		identity: identity,
	}
}

// Authorize resolves one navigation attempt to its terminal outcome.
// Concurrent attempts are independent; verification is idempotent and
// side-effect-free on success, so two in-flight attempts may both verify.
func (g *Guard) Authorize(ctx context.Context, dst Route) Outcome {
	sess := g.store.Current()

	if dst.RequiresAuth && sess.IsLoggedIn() && !g.store.TokenVerified() {
		if _, err := g.verifier.Me(ctx); err != nil {
			log.Debug().Err(err).Msg("stored credential rejected, logging out")
			// The expiry stage may already have cleared the token; Logout is
			// idempotent and skips the remote call in that case.
			if lerr := g.identity.Logout(ctx); lerr != nil {
				log.Warn().Err(lerr).Msg("failed to clear session after rejected credential")
			}
			return ToLogin
		}
		g.store.MarkVerified()
	}

	return Decide(sess.IsLoggedIn(), sess.IsAdmin(), dst, g.table)
}
