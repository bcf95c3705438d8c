// Package app contains application services that orchestrate use cases.
// This is the application layer in Clean Architecture - it coordinates
// domain logic and infrastructure through ports.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/jsamuelsen/wine-catalog/internal/domain"
	"github.com/jsamuelsen/wine-catalog/internal/platform/logging"
	"github.com/jsamuelsen/wine-catalog/internal/ports"
)

const wineEntity = "wine"

// WineService orchestrates catalog use cases.
// Every call opens its own unit of work and commits it before returning.
type WineService struct {
	repos  ports.WineRepositoryFactory
	logger *slog.Logger
}

// WineServiceConfig contains configuration for the wine service.
type WineServiceConfig struct {
	Repositories ports.WineRepositoryFactory
	Logger       *slog.Logger
}

// NewWineService creates a new wine service with the provided dependencies.
func NewWineService(cfg WineServiceConfig) *WineService {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &WineService{
		repos:  cfg.Repositories,
		logger: logger.With(slog.String("component", "app.WineService")),
	}
}

// List returns every wine in insertion order.
func (s *WineService) List(ctx context.Context) []*domain.Wine {
	return s.repos.Begin(ctx).GetAll(ctx)
}

// Get returns the wine with the given id or a not found error.
func (s *WineService) Get(ctx context.Context, id int) (*domain.Wine, error) {
	wine, ok := s.repos.Begin(ctx).GetByID(ctx, id)
	if !ok {
		return nil, domain.NewNotFoundError(wineEntity, strconv.Itoa(id))
	}

	return wine, nil
}

// Create adds wine to the catalog. On success wine.ID holds the assigned id.
func (s *WineService) Create(ctx context.Context, wine *domain.Wine) error {
	repo := s.repos.Begin(ctx)
	repo.Add(ctx, wine)

	if err := repo.Save(ctx); err != nil {
		return fmt.Errorf("creating wine: %w", err)
	}

	s.log(ctx).InfoContext(ctx, "wine created",
		slog.Int("wine_id", wine.ID),
		slog.String("title", wine.Title),
	)

	return nil
}

// Update overwrites the wine stored under id with the fields of wine.
// The id argument wins over any id carried by wine.
func (s *WineService) Update(ctx context.Context, id int, wine *domain.Wine) error {
	repo := s.repos.Begin(ctx)

	if _, ok := repo.GetByID(ctx, id); !ok {
		return domain.NewNotFoundError(wineEntity, strconv.Itoa(id))
	}

	wine.ID = id
	repo.Update(ctx, wine)

	if err := repo.Save(ctx); err != nil {
		return fmt.Errorf("updating wine %d: %w", id, err)
	}

	s.log(ctx).InfoContext(ctx, "wine updated", slog.Int("wine_id", id))

	return nil
}

// Delete removes the wine stored under id.
func (s *WineService) Delete(ctx context.Context, id int) error {
	repo := s.repos.Begin(ctx)

	if _, ok := repo.GetByID(ctx, id); !ok {
		return domain.NewNotFoundError(wineEntity, strconv.Itoa(id))
	}

	repo.Delete(ctx, id)

	if err := repo.Save(ctx); err != nil {
		return fmt.Errorf("deleting wine %d: %w", id, err)
	}

	s.log(ctx).InfoContext(ctx, "wine deleted", slog.Int("wine_id", id))

	return nil
}

// log prefers the request-scoped logger so entries carry request and correlation ids.
func (s *WineService) log(ctx context.Context) *slog.Logger {
	return logging.FromContextOr(ctx, s.logger)
}
