// Package main is the entry point for the wine catalog service.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/jsamuelsen/wine-catalog/internal/adapters/http"
	"github.com/jsamuelsen/wine-catalog/internal/adapters/http/handlers"
	"github.com/jsamuelsen/wine-catalog/internal/adapters/storage/memory"
	"github.com/jsamuelsen/wine-catalog/internal/app"
	"github.com/jsamuelsen/wine-catalog/internal/domain"
	"github.com/jsamuelsen/wine-catalog/internal/platform/config"
	"github.com/jsamuelsen/wine-catalog/internal/platform/logging"
	"github.com/jsamuelsen/wine-catalog/internal/platform/telemetry"
	"github.com/jsamuelsen/wine-catalog/internal/platform/token"
	"github.com/jsamuelsen/wine-catalog/internal/ports"
)

// Build-time variables, injected via ldflags.
// Example: go build -ldflags "-X main.Version=1.0.0 -X main.Commit=$(git rev-parse HEAD) -X main.BuildTime=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
var (
	// Version is the semantic version of the service.
	Version = "dev"

	// Commit is the git commit SHA.
	Commit = "unknown"

	// BuildTime is the timestamp when the binary was built.
	BuildTime = "unknown"
)

// wineGauge is the Prometheus name for the committed wine count.
const wineGauge = "wine_catalog_wines"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger := newLogger(cfg)
	logging.SetDefault(logger)

	logger.Info("starting service",
		slog.String("version", Version),
		slog.String("commit", Commit),
		slog.String("environment", cfg.App.Environment),
	)

	if cfg.Auth.UsesDefaultSecret() {
		logger.Warn("token signing secret is the built-in development value; set APP_AUTH_SECRET")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tel, err := telemetry.New(ctx, &telemetry.Config{
		Enabled:      cfg.Telemetry.Enabled,
		Endpoint:     cfg.Telemetry.Endpoint,
		ServiceName:  cfg.Telemetry.ServiceName,
		Version:      cfg.App.Version,
		Environment:  cfg.App.Environment,
		SamplingRate: cfg.Telemetry.SamplingRate,
		Insecure:     cfg.Telemetry.Insecure,
	})
	if err != nil {
		return fmt.Errorf("initializing telemetry: %w", err)
	}

	defer func() {
		if err := tel.Shutdown(context.Background()); err != nil {
			logger.Error("telemetry shutdown error", slog.Any("error", err))
		}
	}()

	server, err := assemble(cfg, logger)
	if err != nil {
		return err
	}

	return serve(ctx, logger, server, cfg.Server.ShutdownTimeout)
}

// loadConfig reads the profile named by APP_ENVIRONMENT (default local)
// from APP_CONFIG_DIR (default configs) and validates it.
func loadConfig() (*config.Config, error) {
	profile := os.Getenv("APP_ENVIRONMENT")
	if profile == "" {
		profile = "local"
	}

	var opts []config.Option
	if dir := os.Getenv("APP_CONFIG_DIR"); dir != "" {
		opts = append(opts, config.WithDir(dir))
	}

	cfg, err := config.Load(profile, opts...)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func newLogger(cfg *config.Config) *slog.Logger {
	return logging.New(&logging.Config{
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
}

// assemble builds the store, services and handlers and mounts them on a
// new server.
func assemble(cfg *config.Config, logger *slog.Logger) (*http.Server, error) {
	store := memory.NewStore[domain.Wine]("wine-store")

	registry := ports.NewHealthRegistry()
	if err := registry.Register(store); err != nil {
		return nil, fmt.Errorf("registering wine store health check: %w", err)
	}

	if err := store.RegisterMetrics(prometheus.DefaultRegisterer, wineGauge); err != nil {
		return nil, fmt.Errorf("registering wine store metrics: %w", err)
	}

	tokens, err := token.NewManager(token.Config{
		Secret:   cfg.Auth.Secret,
		Issuer:   cfg.Auth.Issuer,
		Audience: cfg.Auth.Audience,
		TTL:      cfg.Auth.TTL,
	})
	if err != nil {
		return nil, fmt.Errorf("creating token manager: %w", err)
	}

	auth, err := app.NewAuthService(app.AuthServiceConfig{
		Username: cfg.Auth.Username,
		Password: cfg.Auth.Password,
		Role:     cfg.Auth.Role,
		Issuer:   tokens,
		Logger:   logger,
	})
	if err != nil {
		return nil, fmt.Errorf("creating auth service: %w", err)
	}

	wines := app.NewWineService(app.WineServiceConfig{Repositories: store, Logger: logger})

	server := http.New(&cfg.Server, logger)
	http.SetupRouter(server.Engine(), http.RouterConfig{
		Logger:        logger,
		AppConfig:     &cfg.App,
		HealthHandler: handlers.NewHealthHandler(registry, handlers.NewBuildInfo(Version, Commit, BuildTime)),
		WineHandler:   handlers.NewWineHandler(wines),
		AuthHandler:   handlers.NewAuthHandler(auth),
		TokenVerifier: tokens,
		Timeout:       cfg.Server.RequestTimeout,
	})

	return server, nil
}

// serve runs server until ctx is cancelled by a signal or the listener
// fails, then drains in-flight requests for at most shutdownTimeout.
func serve(ctx context.Context, logger *slog.Logger, server *http.Server, shutdownTimeout time.Duration) error {
	serverErr := server.Start()

	select {
	case err, ok := <-serverErr:
		if ok {
			return fmt.Errorf("server error: %w", err)
		}

		return nil

	case <-ctx.Done():
		logger.Info("received shutdown signal")
	}

	logger.Info("initiating graceful shutdown", slog.Duration("timeout", shutdownTimeout))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	logger.Info("shutdown complete")

	return nil
}
