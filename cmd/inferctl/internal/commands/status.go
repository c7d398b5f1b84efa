package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"
)

type StatusCmd struct {
	Wait    bool          `help:"Keep retrying with exponential backoff until the service answers."`
	Timeout time.Duration `help:"Give up waiting after this long." default:"60s"`
}

func (s *StatusCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := newApp(globals)
	if err != nil {
		return err
	}

	if !s.Wait {
		if err := app.client.Ready(ctx); err != nil {
			return err
		}
		fmt.Printf("Service is reachable at %s\n", globals.Server)
		return nil
	}

	operation := func() (struct{}, error) {
		return struct{}{}, app.client.Ready(ctx)
	}

	if _, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxElapsedTime(s.Timeout),
	); err != nil {
		return fmt.Errorf("service did not become reachable within %s: %w", s.Timeout, err)
	}

	fmt.Printf("Service is reachable at %s\n", globals.Server)
	return nil
}
