package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/skytrack-dev/skytrack/internal/client/cli"
	"github.com/skytrack-dev/skytrack/internal/client/config"
	"github.com/skytrack-dev/skytrack/internal/logging"
)

func main() {
	ctx := context.Background()

	logger := logging.NewSlogLogger(slog.New(
		slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})))

	cfg := config.LoadConfig()
	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	app.Run(ctx)
}
