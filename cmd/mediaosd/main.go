// Package main provides the mediaosd CLI process entrypoint.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rbright/mediaosd/internal/app"
)

// main wires process signal handling to the application runner. A signal during an
// owner session cancels it; the runner still clears the display and releases the
// socket and lock before exiting.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	os.Exit(app.Execute(ctx, os.Args[1:], os.Stdout, os.Stderr))
}
