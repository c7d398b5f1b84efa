package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/wolfeidau/inferctl/internal/nav"
)

type HistoryCmd struct {
	List   HistoryListCmd   `cmd:"" help:"List inference history, newest first."`
	Delete HistoryDeleteCmd `cmd:"" help:"Delete one history entry."`
	Clear  HistoryClearCmd  `cmd:"" help:"Clear your inference history."`
}

type HistoryListCmd struct {
	Page    int `help:"Page number." default:"1"`
	PerPage int `help:"Entries per page." default:"20"`
}

func (h *HistoryListCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := newApp(globals)
	if err != nil {
		return err
	}
	if err := app.goTo(ctx, nav.RouteHistory); err != nil {
		return err
	}

	res, err := app.client.History(ctx, h.Page, h.PerPage)
	if err != nil {
		return fmt.Errorf("failed to fetch history: %w", err)
	}

	if len(res.History) == 0 {
		fmt.Println("No history.")
		return nil
	}

	fmt.Printf("%-36s %-12s %-10s %-25s %-20s\n", "ID", "User", "Type", "Conclusion", "When")
	fmt.Println(strings.Repeat("─", 106))
	for _, entry := range res.History {
		conclusion := entry.Conclusion
		if len(conclusion) > 25 {
			conclusion = conclusion[:22] + "..."
		}
		fmt.Printf("%-36s %-12s %-10s %-25s %-20s\n",
			entry.ID, entry.Username, entry.Type, conclusion, entry.Timestamp)
	}

	lastPage := (res.Total + res.PerPage - 1) / res.PerPage
	fmt.Printf("\nTotal entries: %d (page %d/%d)\n", res.Total, res.Page, max(lastPage, 1))
	if res.Page < lastPage {
		fmt.Printf("Use --page=%d to see the next page\n", res.Page+1)
	}
	return nil
}

type HistoryDeleteCmd struct {
	ID string `arg:"" help:"History entry ID."`
}

func (h *HistoryDeleteCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := newApp(globals)
	if err != nil {
		return err
	}
	if err := app.goTo(ctx, nav.RouteHistory); err != nil {
		return err
	}

	res, err := app.client.DeleteHistory(ctx, h.ID)
	if err != nil {
		return fmt.Errorf("failed to delete history entry: %w", err)
	}

	fmt.Println(res.Message)
	return nil
}

type HistoryClearCmd struct{}

func (h *HistoryClearCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := newApp(globals)
	if err != nil {
		return err
	}
	if err := app.goTo(ctx, nav.RouteHistory); err != nil {
		return err
	}

	res, err := app.client.ClearHistory(ctx)
	if err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}

	fmt.Println(res.Message)
	return nil
}
