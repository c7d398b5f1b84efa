package commands

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/wolfeidau/inferctl/internal/api"
	"github.com/wolfeidau/inferctl/internal/nav"
)

type InferCmd struct {
	Forward  ForwardCmd  `cmd:"" help:"Run forward chaining over the asserted facts."`
	Backward BackwardCmd `cmd:"" help:"Prove a target conclusion by backward chaining."`
}

type ForwardCmd struct{}

func (f *ForwardCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := newApp(globals)
	if err != nil {
		return err
	}
	if err := app.goTo(ctx, nav.RouteInference); err != nil {
		return err
	}

	res, err := app.client.Forward(ctx)
	if err != nil {
		return fmt.Errorf("forward inference failed: %w", err)
	}

	printList("Conclusions", res.Conclusions)
	printList("Derived", res.DerivedFacts)
	printFiredRules(res.Path, res.Rules)
	return nil
}

type BackwardCmd struct {
	Target string `arg:"" help:"Conclusion to prove."`

	// in is the answer source for fact queries, stdin outside of tests.
	in io.Reader
}

func (b *BackwardCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := newApp(globals)
	if err != nil {
		return err
	}
	if err := app.goTo(ctx, nav.RouteInference); err != nil {
		return err
	}

	in := b.in
	if in == nil {
		in = os.Stdin
	}

	res, err := app.client.StartBackward(ctx, b.Target)
	if err != nil {
		return fmt.Errorf("backward inference failed: %w", err)
	}

	scanner := bufio.NewScanner(in)
	for res.Status == api.BackwardQuery {
		trueFacts, falseFacts, err := askFacts(scanner, res.QueryFacts)
		if err != nil {
			return err
		}

		res, err = app.client.ContinueBackward(ctx, trueFacts, falseFacts)
		if err != nil {
			return fmt.Errorf("backward inference failed: %w", err)
		}
	}

	switch res.Status {
	case api.BackwardSuccess:
		fmt.Printf("Proved: %s\n", res.Target)
	case api.BackwardFailed:
		fmt.Printf("Could not prove: %s\n", res.Target)
	default:
		return fmt.Errorf("unexpected inference status %q", res.Status)
	}

	printFiredRules(res.Path, res.Rules)
	return nil
}

// askFacts prompts for each queried fact, y/yes marking it true and
// anything else marking it false.
func askFacts(scanner *bufio.Scanner, facts []string) (trueFacts, falseFacts []string, err error) {
	for _, fact := range facts {
		fmt.Printf("Is %q true? [y/N] ", fact)
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return nil, nil, err
			}
			return nil, nil, fmt.Errorf("input closed while answering fact queries")
		}

		switch strings.ToLower(strings.TrimSpace(scanner.Text())) {
		case "y", "yes":
			trueFacts = append(trueFacts, fact)
		default:
			falseFacts = append(falseFacts, fact)
		}
	}
	return trueFacts, falseFacts, nil
}

func printFiredRules(path []int, rules []api.Rule) {
	if len(path) == 0 {
		return
	}

	byID := make(map[int]api.Rule, len(rules))
	for _, r := range rules {
		byID[r.ID] = r
	}

	fmt.Println("\nRules fired:")
	for _, id := range path {
		rule, ok := byID[id]
		if !ok {
			fmt.Printf("  R%d\n", id)
			continue
		}
		fmt.Printf("  R%d: %s → %s\n", id, strings.Join(rule.Premises, " ∧ "), rule.Conclusion)
	}
}
