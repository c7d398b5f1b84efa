package nav

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
)

// Position tracks the route the user currently sits on. It is shared
// between the Navigator and the transport pipeline's expiry stage, which
// only needs "am I at login?" and "go to login" without seeing the rest of
// the table.
type Position struct {
	mu      sync.Mutex
	current string
	login   string
}

// NewPosition creates a position starting at start.
func NewPosition(start, login string) *Position {
	return &Position{current: start, login: login}
}

// Current returns the current route name.
func (p *Position) Current() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}

// At reports whether the user currently sits on the named route.
func (p *Position) At(name string) bool {
	return p.Current() == name
}

// AtLogin implements the transport pipeline's redirect sink.
func (p *Position) AtLogin() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current == p.login
}

// RedirectToLogin implements the transport pipeline's redirect sink. A
// redirect supersedes whatever navigation was in progress.
func (p *Position) RedirectToLogin() {
	p.set(p.login)
}

func (p *Position) set(name string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current != name {
		log.Debug().Str("from", p.current).Str("to", name).Msg("navigated")
	}
	p.current = name
}

// Navigator runs the Guard on every attempted destination change and
// applies the outcome to the shared Position.
type Navigator struct {
	table *Table
	guard *Guard
	pos   *Position
}

// NewNavigator creates a navigator over the table, guard and shared
// position.
func NewNavigator(table *Table, guard *Guard, pos *Position) *Navigator {
	return &Navigator{table: table, guard: guard, pos: pos}
}

// Position returns the shared position.
func (n *Navigator) Position() *Position {
	return n.pos
}

// Go attempts to navigate to the named route. It returns the route actually
// landed on together with the guard's outcome. Unknown route names are the
// only error condition; authorization denials are outcomes, not errors.
func (n *Navigator) Go(ctx context.Context, name string) (Route, Outcome, error) {
	dst, ok := n.table.Lookup(name)
	if !ok {
		return Route{}, Proceed, fmt.Errorf("unknown route %q", name)
	}

	outcome := n.guard.Authorize(ctx, dst)

	switch outcome {
	case ToLogin:
		dst = n.table.Login()
	case ToHome:
		dst = n.table.Home()
	}
	n.pos.set(dst.Name)

	return dst, outcome, nil
}
