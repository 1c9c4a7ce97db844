// SPDX-License-Identifier: MIT

// Command arteloo serves the Arte.tv catalog as a Stremio addon and offers
// a few commands to inspect the upstream catalog from a terminal.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, errorStyle.Render("error:"), err)
		stop()
		os.Exit(1)
	}
}
