package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/homelights/internal/buildinfo"
	"github.com/dmitrijs2005/homelights/internal/client/cli"
	"github.com/dmitrijs2005/homelights/internal/client/config"
	"github.com/dmitrijs2005/homelights/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.LoadConfig()

	logger, err := newLogger(cfg)
	if err != nil {
		log.Fatalf("%v", err)
	}

	app, err := cli.NewApp(cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	if z, ok := logger.(*logging.ZapLogger); ok {
		defer func() { _ = z.Sync() }()
	}

	if err := app.Run(ctx); err != nil {
		logger.Error(ctx, "client stopped with error", "error", err)
		stop()
		os.Exit(1)
	}
}

func newLogger(cfg *config.Config) (logging.Logger, error) {
	if cfg.LogBackend == "zap" {
		z, err := logging.NewProductionZapLogger(cfg.LogLevel)
		if err != nil {
			return nil, err
		}
		return z, nil
	}
	return logging.NewTextSlogLogger(os.Stderr, cfg.LogLevel), nil
}
