// Package main is the entry point for the gridpaint demo.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	os.Exit(run(os.Args))
}

func run(args []string) int {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cmd := newCommand(os.Stdout, os.Stderr)
	if err := cmd.Run(ctx, args); err != nil {
		fmt.Fprintf(os.Stderr, "gridpaint: %v\n", err)
		return 1
	}
	return 0
}
