//go:build integration

package integration

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"golang.org/x/crypto/bcrypt"

	httpadapter "github.com/jsamuelsen/wine-catalog/internal/adapters/http"
	"github.com/jsamuelsen/wine-catalog/internal/adapters/http/handlers"
	"github.com/jsamuelsen/wine-catalog/internal/adapters/storage/memory"
	"github.com/jsamuelsen/wine-catalog/internal/app"
	"github.com/jsamuelsen/wine-catalog/internal/domain"
	"github.com/jsamuelsen/wine-catalog/internal/platform/config"
	"github.com/jsamuelsen/wine-catalog/internal/platform/token"
	"github.com/jsamuelsen/wine-catalog/internal/ports"
)

// newService assembles the service from configuration the same way the
// binary does, over a fresh store, and returns its HTTP handler.
func newService() (http.Handler, error) {
	cfg, err := config.Load("test")
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	cfg.App.Environment = "test"
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	store := memory.NewStore[domain.Wine]("wine-store")
	registry := ports.NewHealthRegistry()
	if err := registry.Register(store); err != nil {
		return nil, fmt.Errorf("registering store: %w", err)
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
		HashCost: bcrypt.MinCost,
	})
	if err != nil {
		return nil, fmt.Errorf("creating auth service: %w", err)
	}

	server := httpadapter.New(&cfg.Server, logger)
	httpadapter.SetupRouter(server.Engine(), httpadapter.RouterConfig{
		Logger:        logger,
		AppConfig:     &cfg.App,
		HealthHandler: handlers.NewHealthHandler(registry, handlers.NewBuildInfo("test", "test", "test")),
		WineHandler:   handlers.NewWineHandler(app.NewWineService(app.WineServiceConfig{Repositories: store, Logger: logger})),
		AuthHandler:   handlers.NewAuthHandler(auth),
		TokenVerifier: tokens,
		Timeout:       cfg.Server.RequestTimeout,
	})

	return server.Engine(), nil
}
