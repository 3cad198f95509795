package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/vsenathipathi/ai-meeting-intelligence/internal/cli"
	"github.com/vsenathipathi/ai-meeting-intelligence/internal/output"
)

func main() {
	if err := run(); err != nil {
		printer := output.NewPrinter(os.Stdout, os.Stderr, output.ResolveColors(true))
		printer.Error("%s", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return cli.NewRootCmd(&cli.Dependencies{}).ExecuteContext(ctx)
}
