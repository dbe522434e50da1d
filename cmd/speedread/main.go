package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/deusflow/speedread/internal/app"
	"github.com/deusflow/speedread/internal/config"
	"github.com/deusflow/speedread/internal/logger"
)

func main() {
	// A local .env is optional; real environment variables take precedence.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "ERROR: reading .env: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.Debug)
	logger.Debug("configuration loaded", "feeds", cfg.Feeds, "snapshot", cfg.SnapshotPath, "history", cfg.HistoryPath)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx, cfg, logger.Logger); err != nil {
		logger.Error("run failed", "error", err)
		stop()
		os.Exit(1)
	}
	if ctx.Err() != nil {
		logger.Warn("run interrupted, saved partial results")
	}
}
