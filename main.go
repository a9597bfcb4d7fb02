package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"msmeinsights/adapters/excel"
	"msmeinsights/internal/analysis"
	"msmeinsights/internal/config"
	"msmeinsights/internal/logging"
	"msmeinsights/ui"
)

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.Logging)
	defer func() { _ = logger.Sync() }()

	loader := excel.NewLoader(logger.Named("loader"), cfg.Data.MaxBytes)
	builder := analysis.NewBuilder(loader, cfg.Report, logger.Named("analysis"))

	server, err := ui.NewServer(builder, loader, cfg, logger.Named("ui"))
	if err != nil {
		logger.Fatal("failed to initialize web server", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("serving insights",
		zap.String("full", cfg.Data.FullCSV),
		zap.String("explanations", cfg.Data.ExplCSV),
		zap.String("predictions", cfg.Data.PredCSV),
	)
	if err := server.Start(ctx); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
