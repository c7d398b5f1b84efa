package main

import (
	"context"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"

	"github.com/wolfeidau/inferctl/cmd/inferctl/internal/commands"
	"github.com/wolfeidau/inferctl/internal/logger"
)

var (
	version = "dev"
	cli     struct {
		Login    commands.LoginCmd    `cmd:"" help:"Log in to the reasoning service"`
		Register commands.RegisterCmd `cmd:"" help:"Create an account"`
		Logout   commands.LogoutCmd   `cmd:"" help:"Log out and clear the stored session"`
		Whoami   commands.WhoamiCmd   `cmd:"" help:"Show the current identity"`
		Rules    commands.RulesCmd    `cmd:"" help:"Manage the rule base"`
		Facts    commands.FactsCmd    `cmd:"" help:"Manage the session's facts"`
		Infer    commands.InferCmd    `cmd:"" help:"Run inference"`
		History  commands.HistoryCmd  `cmd:"" help:"Browse inference history"`
		Admin    commands.AdminCmd    `cmd:"" help:"Administer accounts"`
		Status   commands.StatusCmd   `cmd:"" help:"Check service reachability"`

		Server   string `help:"Reasoning service URL." default:"http://localhost:5000" env:"INFERCTL_SERVER"`
		StateDir string `help:"Directory holding session state (defaults to ~/.inferctl)." env:"INFERCTL_STATE_DIR"`
		CacheDir string `help:"Cache HTTP responses on disk in this directory." env:"INFERCTL_CACHE_DIR"`
		Debug    bool   `help:"Enable debug mode."`
		Version  kong.VersionFlag
	}
)

func main() {
	godotenv.Load() //nolint:errcheck

	ctx := context.Background()
	cmd := kong.Parse(&cli,
		kong.Vars{
			"version": version,
		},
		kong.BindTo(ctx, (*context.Context)(nil)))

	logger.Setup(cli.Debug)

	err := cmd.Run(&commands.Globals{
		Server:   cli.Server,
		StateDir: cli.StateDir,
		CacheDir: cli.CacheDir,
		Debug:    cli.Debug,
		Version:  version,
	})
	cmd.FatalIfErrorf(err)
}
