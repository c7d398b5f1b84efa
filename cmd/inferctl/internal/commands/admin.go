package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/wolfeidau/inferctl/internal/nav"
)

type AdminCmd struct {
	Users      AdminUsersCmd      `cmd:"" help:"List accounts."`
	SetRole    AdminSetRoleCmd    `cmd:"" name:"set-role" help:"Change an account's role."`
	DeleteUser AdminDeleteUserCmd `cmd:"" name:"delete-user" help:"Delete an account."`
}

type AdminUsersCmd struct{}

func (a *AdminUsersCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := newApp(globals)
	if err != nil {
		return err
	}
	if err := app.goTo(ctx, nav.RouteAdmin); err != nil {
		return err
	}

	res, err := app.client.Users(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch users: %w", err)
	}

	fmt.Printf("%-20s %-8s %-25s\n", "Username", "Role", "Created At")
	fmt.Println(strings.Repeat("─", 55))
	for _, user := range res.Users {
		fmt.Printf("%-20s %-8s %-25s\n", user.Username, user.Role, user.CreatedAt)
	}
	fmt.Printf("\nTotal users: %d\n", len(res.Users))
	return nil
}

type AdminSetRoleCmd struct {
	Username string `arg:"" help:"Account to change."`
	Role     string `arg:"" help:"New role." enum:"user,admin"`
}

func (a *AdminSetRoleCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := newApp(globals)
	if err != nil {
		return err
	}
	if err := app.goTo(ctx, nav.RouteAdmin); err != nil {
		return err
	}

	res, err := app.client.UpdateUserRole(ctx, a.Username, a.Role)
	if err != nil {
		return fmt.Errorf("failed to update role: %w", err)
	}

	fmt.Println(res.Message)
	return nil
}

type AdminDeleteUserCmd struct {
	Username string `arg:"" help:"Account to delete."`
}

func (a *AdminDeleteUserCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := newApp(globals)
	if err != nil {
		return err
	}
	if err := app.goTo(ctx, nav.RouteAdmin); err != nil {
		return err
	}

	res, err := app.client.DeleteUser(ctx, a.Username)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	fmt.Println(res.Message)
	return nil
}
