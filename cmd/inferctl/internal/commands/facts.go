package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/wolfeidau/inferctl/internal/nav"
)

type FactsCmd struct {
	Atoms       FactsAtomsCmd       `cmd:"" help:"List every premise atom in the rule base."`
	Conclusions FactsConclusionsCmd `cmd:"" help:"List every derivable conclusion."`
	Known       FactsKnownCmd       `cmd:"" help:"Show the session's asserted and derived facts."`
	SetKnown    FactsSetKnownCmd    `cmd:"" name:"set-known" help:"Replace the asserted fact set."`
	False       FactsFalseCmd       `cmd:"" help:"Show the facts known to be false."`
	SetFalse    FactsSetFalseCmd    `cmd:"" name:"set-false" help:"Replace the false fact set."`
	Clear       FactsClearCmd       `cmd:"" help:"Reset the reasoning session."`
}

type FactsAtomsCmd struct{}

func (f *FactsAtomsCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := newApp(globals)
	if err != nil {
		return err
	}
	if err := app.goTo(ctx, nav.RouteInference); err != nil {
		return err
	}

	res, err := app.client.Atoms(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch atoms: %w", err)
	}

	printList("Atoms", res.Atoms)
	return nil
}

type FactsConclusionsCmd struct{}

func (f *FactsConclusionsCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := newApp(globals)
	if err != nil {
		return err
	}
	if err := app.goTo(ctx, nav.RouteInference); err != nil {
		return err
	}

	res, err := app.client.Conclusions(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch conclusions: %w", err)
	}

	printList("Conclusions", res.Conclusions)
	return nil
}

type FactsKnownCmd struct{}

func (f *FactsKnownCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := newApp(globals)
	if err != nil {
		return err
	}
	if err := app.goTo(ctx, nav.RouteInference); err != nil {
		return err
	}

	res, err := app.client.KnownFacts(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch known facts: %w", err)
	}

	printList("Asserted", res.UserFacts)
	printList("Derived", res.DerivedFacts)
	return nil
}

type FactsSetKnownCmd struct {
	Facts []string `arg:"" optional:"" help:"Facts to assert (replaces the current set)."`
}

func (f *FactsSetKnownCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := newApp(globals)
	if err != nil {
		return err
	}
	if err := app.goTo(ctx, nav.RouteInference); err != nil {
		return err
	}

	res, err := app.client.SetKnownFacts(ctx, f.Facts)
	if err != nil {
		return fmt.Errorf("failed to set known facts: %w", err)
	}

	fmt.Println(res.Message)
	return nil
}

type FactsFalseCmd struct{}

func (f *FactsFalseCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := newApp(globals)
	if err != nil {
		return err
	}
	if err := app.goTo(ctx, nav.RouteInference); err != nil {
		return err
	}

	res, err := app.client.FalseFacts(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch false facts: %w", err)
	}

	printList("False", res.Facts)
	return nil
}

type FactsSetFalseCmd struct {
	Facts []string `arg:"" optional:"" help:"Facts to mark false (replaces the current set)."`
}

func (f *FactsSetFalseCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := newApp(globals)
	if err != nil {
		return err
	}
	if err := app.goTo(ctx, nav.RouteInference); err != nil {
		return err
	}

	res, err := app.client.SetFalseFacts(ctx, f.Facts)
	if err != nil {
		return fmt.Errorf("failed to set false facts: %w", err)
	}

	fmt.Println(res.Message)
	return nil
}

type FactsClearCmd struct{}

func (f *FactsClearCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := newApp(globals)
	if err != nil {
		return err
	}
	if err := app.goTo(ctx, nav.RouteInference); err != nil {
		return err
	}

	res, err := app.client.ClearFacts(ctx)
	if err != nil {
		return fmt.Errorf("failed to clear facts: %w", err)
	}

	fmt.Println(res.Message)
	return nil
}

func printList(title string, items []string) {
	fmt.Printf("%s (%d):\n", title, len(items))
	if len(items) == 0 {
		fmt.Println("  (none)")
		return
	}
	fmt.Printf("  %s\n", strings.Join(items, ", "))
}
