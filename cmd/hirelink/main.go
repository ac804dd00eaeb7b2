package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"hirelink/internal/cli"
)

func main() {
	// Create a context that is canceled on interrupt signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Configuration and logging are set up once flags are parsed
	if err := cli.Execute(ctx); err != nil {
		cli.ReportError(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
