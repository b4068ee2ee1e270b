// Package main provides the entry point for the ddmigrate CLI tool.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/configkit/ddmigrate/cmd/ddmigrate/cmd"
	"github.com/configkit/ddmigrate/pkg/logging"
)

// version is populated by goreleaser.
var version = "dev"

func main() {
	// Optional .env for GEMINI_API_KEY and DDMIGRATE_* settings.
	_ = godotenv.Load()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	root := cmd.NewRootCommand(version)
	if err := root.ExecuteContext(ctx); err != nil {
		logging.Error().Err(err).Msg("Command failed")
		os.Exit(1)
	}
}
