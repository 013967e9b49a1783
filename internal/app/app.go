package app

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"nutrition-log/internal/config"
	"nutrition-log/internal/extractor"
	"nutrition-log/internal/logging"
	"nutrition-log/internal/nutrition"
	"nutrition-log/internal/server"
	"nutrition-log/internal/storage"
)

// Run is the application entry point. It loads configuration from
// configPath (see config.Load), then serves until ctx is cancelled or the
// HTTP server fails.
func Run(ctx context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	return serve(ctx, cfg, logger)
}

func serve(ctx context.Context, cfg *config.Config, logger *zap.Logger) (err error) {
	logger.Info("starting application",
		zap.String("version", BuildVersion()),
		zap.String("log_level", cfg.Log.Level),
		zap.String("storage_driver", cfg.Storage.Driver),
		zap.String("extractor_provider", cfg.Extractor.Provider),
		zap.String("extractor_model", cfg.Extractor.Model),
	)

	store, err := storage.Open(ctx, cfg.Storage, logger)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer func() {
		if cerr := store.Close(); cerr != nil {
			err = errors.Join(err, fmt.Errorf("close storage: %w", cerr))
		}
	}()

	ex, err := extractor.New(cfg.Extractor)
	if err != nil {
		return fmt.Errorf("create extractor: %w", err)
	}

	svc := nutrition.NewService(logger, store, extractor.WithMetrics(ex))
	srv := server.NewNutritionLogServer(cfg, svc, store, Version, logger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown requested")
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Stop(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil {
		return fmt.Errorf("http server: %w", err)
	}

	logger.Info("server stopped")
	return nil
}
