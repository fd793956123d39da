package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"finance/internal/cli"
	"finance/internal/commands"
)

func main() {
	// A missing .env is fine; the environment and defaults still apply.
	cli.LoadEnvFile()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := commands.NewRootCommand().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
