package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/wolfeidau/inferctl/internal/api"
	"github.com/wolfeidau/inferctl/internal/nav"
	"github.com/wolfeidau/inferctl/internal/session"
	"github.com/wolfeidau/inferctl/internal/transport"
)

// Globals carries the flags shared by every command.
type Globals struct {
	Server   string
	StateDir string
	CacheDir string
	Debug    bool
	Version  string
}

// app wires the session store, transport pipeline, API client and navigator
// together for one command invocation.
type app struct {
	store   *session.Store
	manager *session.Manager
	client  *api.Client
	nav     *nav.Navigator
}

// stderrNotices surfaces system-level notices (e.g. session expiry) on
// stderr, keeping stdout for command output.
type stderrNotices struct{}

func (stderrNotices) Notice(msg string) {
	fmt.Fprintln(os.Stderr, "! "+msg)
}

func newApp(globals *Globals) (*app, error) {
	store, err := session.Open(globals.StateDir)
	if err != nil {
		return nil, err
	}

	table := nav.DefaultTable()
	pos := nav.NewPosition(nav.RouteHome, nav.RouteLogin)

	pipeline := transport.Chain(
		transport.NewBaseTransport(globals.CacheDir),
		transport.Logging(log.Logger),
		transport.RequestID(),
		transport.Bearer(store),
		transport.ExpiredSession(store, pos, stderrNotices{}),
	)

	client := api.New(api.Config{
		BaseURL:   globals.Server,
		Transport: pipeline,
	})

	manager := session.NewManager(store, client)
	guard := nav.NewGuard(table, store, client, manager)

	return &app{
		store:   store,
		manager: manager,
		client:  client,
		nav:     nav.NewNavigator(table, guard, pos),
	}, nil
}

// goTo navigates to the command's destination and fails with guidance when
// the guard bounced the attempt elsewhere.
func (a *app) goTo(ctx context.Context, route string) error {
	_, outcome, err := a.nav.Go(ctx, route)
	if err != nil {
		return err
	}

	switch outcome {
	case nav.ToLogin:
		return fmt.Errorf("not logged in (or session expired), run `inferctl login` first")
	case nav.ToHome:
		return fmt.Errorf("admin role required")
	}

	return nil
}
