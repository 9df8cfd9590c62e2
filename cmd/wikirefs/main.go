// Command wikirefs renders, inspects and serves markdown vaults written
// with wikilinks, attributes and embeds.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/danielledeleo/wikirefs/internal/cli"
)

func main() {
	// WIKIREFS_* settings may come from a .env file.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("failed to load .env", "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	exitCode := cli.Run(ctx, os.Stdout, os.Stderr, os.Args)
	stop()

	os.Exit(exitCode)
}
