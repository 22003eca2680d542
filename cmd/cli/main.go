package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/jobtracker/jobtracker/internal/buildinfo"
	"github.com/jobtracker/jobtracker/internal/client/cli"
	"github.com/jobtracker/jobtracker/internal/client/config"
	"github.com/jobtracker/jobtracker/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	cfg := config.LoadConfig()

	level, err := logging.ParseLevel(cfg.LogLevel)
	logger := logging.New(os.Stderr, level)
	if err != nil {
		logger.Warn(context.Background(), "falling back to info log level", "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		logger.Error(ctx, "failed to start", "error", err)
		os.Exit(1)
	}

	app.Run(ctx)
}
