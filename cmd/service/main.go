// Command service serves the route API over HTTP.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/jsamuelsen/route-fetch-service/internal/adapters/clients/acl"
	"github.com/jsamuelsen/route-fetch-service/internal/adapters/http"
	"github.com/jsamuelsen/route-fetch-service/internal/adapters/http/handlers"
	"github.com/jsamuelsen/route-fetch-service/internal/app"
	"github.com/jsamuelsen/route-fetch-service/internal/platform/config"
	"github.com/jsamuelsen/route-fetch-service/internal/platform/logging"
	"github.com/jsamuelsen/route-fetch-service/internal/platform/telemetry"
	"github.com/jsamuelsen/route-fetch-service/internal/ports"
)

// Set with -ldflags "-X main.Version=... -X main.Commit=... -X main.BuildTime=...".
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := run(ctx, profileFromEnv())
	stop()

	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func profileFromEnv() string {
	if p := os.Getenv("APP_ENVIRONMENT"); p != "" {
		return p
	}

	return "local"
}

func run(ctx context.Context, profile string) error {
	cfg, err := config.Load(profile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger := newLogger(cfg)
	logging.SetDefault(logger)

	logger.Info("starting service",
		slog.String("version", Version),
		slog.String("commit", Commit),
		slog.String("environment", cfg.App.Environment),
	)

	tel, err := telemetry.New(ctx, &telemetry.Config{
		Enabled:      cfg.Telemetry.Enabled,
		Endpoint:     cfg.Telemetry.Endpoint,
		ServiceName:  cfg.Telemetry.ServiceName,
		Version:      cfg.App.Version,
		Environment:  cfg.App.Environment,
		SamplingRate: cfg.Telemetry.SamplingRate,
		Insecure:     cfg.App.Environment == "local",
	})
	if err != nil {
		return fmt.Errorf("initializing telemetry: %w", err)
	}

	defer func() {
		if err := tel.Shutdown(context.WithoutCancel(ctx)); err != nil {
			logger.Error("telemetry shutdown failed", slog.Any("error", err))
		}
	}()

	server, err := newServer(cfg, logger)
	if err != nil {
		return err
	}

	if err := server.Run(ctx); err != nil {
		return err
	}

	logger.Info("shutdown complete")

	return nil
}

func newLogger(cfg *config.Config) *slog.Logger {
	f := cfg.Log.File

	return logging.New(&logging.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Service: cfg.App.Name,
		Version: cfg.App.Version,
		File: logging.FileConfig{
			Enabled:    f.Enabled,
			Path:       f.Path,
			MaxSizeMB:  f.MaxSizeMB,
			MaxBackups: f.MaxBackups,
			MaxAgeDays: f.MaxAgeDays,
			Compress:   f.Compress,
		},
	})
}

// newServer wires the providers, the route pipeline and the probes behind one HTTP server.
func newServer(cfg *config.Config, logger *slog.Logger) (*http.Server, error) {
	providers, err := acl.NewProviders(cfg, logger)
	if err != nil {
		return nil, err
	}

	registry := ports.NewHealthRegistry()
	if err := registry.Register(providers.Planner.OpenRouteHealth()); err != nil {
		return nil, fmt.Errorf("registering health check: %w", err)
	}

	if err := registry.Register(providers.Planner.CycleStreetsHealth()); err != nil {
		return nil, fmt.Errorf("registering health check: %w", err)
	}

	observer, err := telemetry.NewRouteMetrics()
	if err != nil {
		return nil, fmt.Errorf("creating route metrics: %w", err)
	}

	routes := app.NewRouteService(app.RouteServiceConfig{
		Planner:         providers.Planner,
		Detector:        providers.Detector,
		Translator:      providers.Translator,
		APIKey:          cfg.Services.OpenRoute.APIKey,
		NotFoundMessage: cfg.Routing.NotFoundMessage,
		DefaultSpeed:    cfg.Routing.DefaultSpeed,
		Observer:        observer,
		Logger:          logger,
	})

	build := handlers.NewBuildInfo(Version, Commit, BuildTime)
	if err := prometheus.Register(build.Collector()); err != nil {
		return nil, fmt.Errorf("registering build info metric: %w", err)
	}

	server := http.New(&cfg.Server, logger)
	http.SetupRouter(server.Engine(), http.NewDefaultRouterConfig(
		logger,
		&cfg.App,
		handlers.NewHealthHandler(registry, build),
		handlers.NewRouteHandler(routes),
	))

	return server, nil
}
