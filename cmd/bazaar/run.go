package main

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/fx"
)

// run blocks until ctx is cancelled or fx requests shutdown. Stop hooks
// apply SHUTDOWN_TIMEOUT themselves.
func run(ctx context.Context, app *fx.App) {
	if err := app.Start(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "failed to start bazaar: %v\n", err)
		os.Exit(1)
	}

	select {
	case <-ctx.Done():
	case sig := <-app.Done():
		fmt.Fprintf(os.Stderr, "received %v, shutting down\n", sig)
	}

	if err := app.Stop(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "failed to stop bazaar: %v\n", err)
		os.Exit(1)
	}
}
