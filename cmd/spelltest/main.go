// Package main provides the spelltest CLI application, a golden file
// regression runner for the sanctum interpreter.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sackosoft/sanctum/cmd/spelltest/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := cli.NewApp()
	rootCmd := app.CreateRootCommand()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
