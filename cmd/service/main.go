// Package main is the entry point for the quotation wall service.
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"

	"github.com/jsamuelsen/quotation-wall/internal/adapters/http"
	"github.com/jsamuelsen/quotation-wall/internal/adapters/http/handlers"
	"github.com/jsamuelsen/quotation-wall/internal/adapters/storage/imagedir"
	"github.com/jsamuelsen/quotation-wall/internal/adapters/storage/jsonstore"
	"github.com/jsamuelsen/quotation-wall/internal/app"
	"github.com/jsamuelsen/quotation-wall/internal/platform/config"
	"github.com/jsamuelsen/quotation-wall/internal/platform/logging"
	"github.com/jsamuelsen/quotation-wall/internal/platform/telemetry"
	"github.com/jsamuelsen/quotation-wall/internal/ports"
)

// Build-time variables, injected via ldflags.
// Example: go build -ldflags "-X main.Version=1.0.0 -X main.Commit=$(git rev-parse HEAD)"
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	// A missing .env is normal outside local development.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading .env: %w", err)
	}

	cfg, err := config.Load(config.Profile())
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger := logging.New(&logging.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Service: cfg.App.Name,
		Version: cfg.App.Version,
		File: logging.FileConfig{
			Enabled:    cfg.Log.File.Enabled,
			Path:       cfg.Log.File.Path,
			MaxSizeMB:  cfg.Log.File.MaxSizeMB,
			MaxBackups: cfg.Log.File.MaxBackups,
			MaxAgeDays: cfg.Log.File.MaxAgeDays,
			Compress:   cfg.Log.File.Compress,
		},
	})
	logging.SetDefault(logger)

	logger.Info("starting service",
		slog.String("version", Version),
		slog.String("commit", Commit),
		slog.String("environment", cfg.App.Environment),
	)

	telProvider, err := telemetry.New(ctx, &telemetry.Config{
		Enabled:      cfg.Telemetry.Enabled,
		Endpoint:     cfg.Telemetry.Endpoint,
		ServiceName:  cfg.Telemetry.ServiceName,
		Version:      cfg.App.Version,
		Environment:  cfg.App.Environment,
		SamplingRate: cfg.Telemetry.SamplingRate,
	})
	if err != nil {
		return fmt.Errorf("initializing telemetry: %w", err)
	}

	defer func() {
		if shutdownErr := telProvider.Shutdown(ctx); shutdownErr != nil {
			logger.Error("telemetry shutdown error", slog.Any("error", shutdownErr))
		}
	}()

	store := jsonstore.New(jsonstore.Config{Path: cfg.Storage.IndexFile, Logger: logger})
	images := imagedir.New(cfg.Storage.ImagesDir, logger)

	if err := app.InitAll(ctx, store, images); err != nil {
		return fmt.Errorf("preparing storage: %w", err)
	}

	healthRegistry := ports.NewHealthRegistry()
	for _, checker := range []ports.HealthChecker{store, images} {
		if err := healthRegistry.Register(checker); err != nil {
			return fmt.Errorf("registering health check: %w", err)
		}
	}

	uploadMetrics, err := telemetry.NewUploadMetrics(otel.GetMeterProvider(), prometheus.DefaultRegisterer)
	if err != nil {
		return fmt.Errorf("creating upload metrics: %w", err)
	}

	quotationService := app.NewQuotationService(app.QuotationServiceConfig{
		Store:    store,
		Images:   images,
		Observer: uploadMetrics,
		Logger:   logger,
	})

	server := http.New(&cfg.Server, logger)

	http.SetupRouter(server.Engine(), http.RouterConfig{
		Logger:         logger,
		AppName:        cfg.App.Name,
		CORSEnabled:    cfg.CORS.Enabled,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		Timeout:        cfg.Server.RequestTimeout,
		ImagesDir:      images.Root(),
		HealthHandler:  handlers.NewHealthHandler(healthRegistry, handlers.NewBuildInfo(Version, Commit, BuildTime)),
		QuotationHandler: handlers.NewQuotationHandler(quotationService, handlers.QuotationConfig{
			MaxImageSize: cfg.Storage.MaxImageSize,
			DefaultGap:   cfg.Layout.DefaultGap,
			MaxColumns:   cfg.Layout.MaxColumns,
		}),
	})

	serverErr := server.Start()

	url := fmt.Sprintf("http://localhost:%d", cfg.Server.Port)
	logger.Info("quotation wall ready",
		slog.String("url", url),
		slog.String("upload_page", url+"/"),
		slog.String("images_dir", images.Root()),
		slog.String("index_file", store.Path()),
	)

	return waitForShutdown(ctx, logger, server, serverErr, cfg.Server.ShutdownTimeout)
}

// waitForShutdown blocks until a signal arrives or the server fails, then
// drains in-flight requests.
func waitForShutdown(
	ctx context.Context,
	logger *slog.Logger,
	server *http.Server,
	serverErr <-chan error,
	shutdownTimeout time.Duration,
) error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}

		return nil

	case sig := <-quit:
		logger.Info("received shutdown signal", slog.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	logger.Info("initiating graceful shutdown", slog.Duration("timeout", shutdownTimeout))

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	logger.Info("shutdown complete")

	return nil
}
