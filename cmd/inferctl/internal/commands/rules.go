package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/wolfeidau/inferctl/internal/api"
	"github.com/wolfeidau/inferctl/internal/nav"
)

type RulesCmd struct {
	List   RulesListCmd   `cmd:"" help:"List every rule in the knowledge base."`
	Add    RulesAddCmd    `cmd:"" help:"Add a rule (admin)."`
	Import RulesImportCmd `cmd:"" help:"Import rules from a YAML or JSON file (admin)."`
	Update RulesUpdateCmd `cmd:"" help:"Replace a rule (admin)."`
	Delete RulesDeleteCmd `cmd:"" help:"Delete a rule (admin)."`
	Reset  RulesResetCmd  `cmd:"" help:"Restore the built-in rule set (admin)."`
}

type RulesListCmd struct{}

func (r *RulesListCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := newApp(globals)
	if err != nil {
		return err
	}

	if err := app.goTo(ctx, nav.RouteInference); err != nil {
		return err
	}

	res, err := app.client.Rules(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch rules: %w", err)
	}

	printRules(res.Rules)
	return nil
}

func printRules(rules []api.Rule) {
	if len(rules) == 0 {
		fmt.Println("No rules.")
		return
	}

	fmt.Printf("%-4s %-50s %-30s\n", "ID", "Premises", "Conclusion")
	fmt.Println(strings.Repeat("─", 86))
	for _, rule := range rules {
		premises := strings.Join(rule.Premises, " ∧ ")
		if len(premises) > 50 {
			premises = premises[:47] + "..."
		}
		fmt.Printf("%-4d %-50s %-30s\n", rule.ID, premises, rule.Conclusion)
	}
	fmt.Printf("\nTotal rules: %d\n", len(rules))
}

type RulesAddCmd struct {
	Premises   []string `help:"Premises that must all hold." required:""`
	Conclusion string   `arg:"" help:"Conclusion the rule derives."`
}

func (r *RulesAddCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := newApp(globals)
	if err != nil {
		return err
	}

	if err := app.goTo(ctx, nav.RouteAdmin); err != nil {
		return err
	}

	res, err := app.client.AddRule(ctx, r.Premises, r.Conclusion)
	if err != nil {
		return fmt.Errorf("failed to add rule: %w", err)
	}

	fmt.Printf("Rule added with ID %d\n", res.ID)
	return nil
}

// ruleFile is the on-disk shape accepted by `rules import`.
type ruleFile struct {
	Rules []struct {
		Premises   []string `yaml:"premises" json:"premises"`
		Conclusion string   `yaml:"conclusion" json:"conclusion"`
	} `yaml:"rules" json:"rules"`
}

type RulesImportCmd struct {
	File string `arg:"" help:"YAML or JSON file holding a rules list."`
}

func (r *RulesImportCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := newApp(globals)
	if err != nil {
		return err
	}

	if err := app.goTo(ctx, nav.RouteAdmin); err != nil {
		return err
	}

	rules, err := r.loadRules()
	if err != nil {
		return err
	}
	if len(rules) == 0 {
		return fmt.Errorf("no rules found in %s", r.File)
	}

	res, err := app.client.BatchAddRules(ctx, rules)
	if err != nil {
		return fmt.Errorf("failed to import rules: %w", err)
	}

	fmt.Println(res.Message)
	return nil
}

func (r *RulesImportCmd) loadRules() ([]api.Rule, error) {
	data, err := os.ReadFile(r.File)
	if err != nil {
		return nil, fmt.Errorf("failed to read rules file: %w", err)
	}

	var file ruleFile

	// Determine file format by extension, defaulting to YAML.
	if strings.HasSuffix(strings.ToLower(r.File), ".json") {
		if err := json.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("failed to parse JSON rules: %w", err)
		}
	} else {
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("failed to parse YAML rules: %w", err)
		}
	}

	rules := make([]api.Rule, 0, len(file.Rules))
	for _, r := range file.Rules {
		rules = append(rules, api.Rule{Premises: r.Premises, Conclusion: r.Conclusion})
	}
	return rules, nil
}

type RulesUpdateCmd struct {
	ID         int      `arg:"" help:"Rule ID to replace."`
	Premises   []string `help:"Premises that must all hold." required:""`
	Conclusion string   `arg:"" help:"Conclusion the rule derives."`
}

func (r *RulesUpdateCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := newApp(globals)
	if err != nil {
		return err
	}

	if err := app.goTo(ctx, nav.RouteAdmin); err != nil {
		return err
	}

	res, err := app.client.UpdateRule(ctx, r.ID, r.Premises, r.Conclusion)
	if err != nil {
		return fmt.Errorf("failed to update rule: %w", err)
	}

	fmt.Println(res.Message)
	return nil
}

type RulesDeleteCmd struct {
	ID int `arg:"" help:"Rule ID to delete."`
}

func (r *RulesDeleteCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := newApp(globals)
	if err != nil {
		return err
	}

	if err := app.goTo(ctx, nav.RouteAdmin); err != nil {
		return err
	}

	res, err := app.client.DeleteRule(ctx, r.ID)
	if err != nil {
		return fmt.Errorf("failed to delete rule: %w", err)
	}

	fmt.Println(res.Message)
	return nil
}

type RulesResetCmd struct{}

func (r *RulesResetCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := newApp(globals)
	if err != nil {
		return err
	}

	if err := app.goTo(ctx, nav.RouteAdmin); err != nil {
		return err
	}

	res, err := app.client.ResetRules(ctx)
	if err != nil {
		return fmt.Errorf("failed to reset rules: %w", err)
	}

	fmt.Println(res.Message)
	return nil
}
