package commands

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/wolfeidau/inferctl/internal/nav"
)

type LoginCmd struct {
	Username string `arg:"" help:"Account name."`
	Password string `help:"Password (prompted when omitted)."`
}

func (l *LoginCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := newApp(globals)
	if err != nil {
		return err
	}

	_, outcome, err := app.nav.Go(ctx, nav.RouteLogin)
	if err != nil {
		return err
	}
	if outcome == nav.ToHome {
		return fmt.Errorf("already logged in as %s, run `inferctl logout` first", app.store.Current().Username)
	}

	password := l.Password
	if password == "" {
		fmt.Fprintf(os.Stderr, "Password for %s: ", l.Username)
		scanner := bufio.NewScanner(os.Stdin)
		if !scanner.Scan() {
			return fmt.Errorf("no password provided")
		}
		password = strings.TrimSpace(scanner.Text())
	}

	res, err := app.manager.Login(ctx, l.Username, password)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	fmt.Printf("Logged in as %s (%s)\n", res.Username, res.Role)

	_, _, err = app.nav.Go(ctx, nav.RouteHome)
	return err
}

type RegisterCmd struct {
	Username string `arg:"" help:"Account name."`
	Password string `help:"Password (prompted when omitted)."`
}

func (r *RegisterCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := newApp(globals)
	if err != nil {
		return err
	}

	_, outcome, err := app.nav.Go(ctx, nav.RouteLogin)
	if err != nil {
		return err
	}
	if outcome == nav.ToHome {
		return fmt.Errorf("already logged in as %s", app.store.Current().Username)
	}

	password := r.Password
	if password == "" {
		fmt.Fprintf(os.Stderr, "Password for %s: ", r.Username)
		scanner := bufio.NewScanner(os.Stdin)
		if !scanner.Scan() {
			return fmt.Errorf("no password provided")
		}
		password = strings.TrimSpace(scanner.Text())
	}

	res, err := app.manager.Register(ctx, r.Username, password)
	if err != nil {
		return fmt.Errorf("registration failed: %w", err)
	}

	fmt.Println(res.Message)
	fmt.Printf("Account %s created, log in with `inferctl login %s`\n", r.Username, r.Username)
	return nil
}

type LogoutCmd struct{}

func (l *LogoutCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := newApp(globals)
	if err != nil {
		return err
	}

	if err := app.manager.Logout(ctx); err != nil {
		return err
	}

	fmt.Println("Logged out")

	_, _, err = app.nav.Go(ctx, nav.RouteLogin)
	return err
}

type WhoamiCmd struct{}

func (w *WhoamiCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := newApp(globals)
	if err != nil {
		return err
	}

	// Navigating home forces a credential verification when the session was
	// loaded from disk.
	if err := app.goTo(ctx, nav.RouteHome); err != nil {
		return err
	}

	sess := app.store.Current()
	fmt.Printf("%-10s %s\n", "Username:", sess.Username)
	fmt.Printf("%-10s %s\n", "Role:", sess.Role)
	fmt.Printf("%-10s %s\n", "Server:", globals.Server)
	return nil
}
