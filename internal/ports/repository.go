// Package ports defines interfaces for external dependencies.
// Ports are contracts that adapters implement, allowing the application layer
// to depend on abstractions rather than concrete implementations.
//
// Port Design Principles:
//   - Context as first parameter (always) for cancellation and deadlines
//   - Return domain types, never external DTOs or infrastructure types
//   - Absence is a value (ok == false), not an error
//   - Keep interfaces small and focused (Interface Segregation Principle)
package ports

import (
	"context"

	"github.com/jsamuelsen/wine-catalog/internal/domain"
)

// Repository is a unit of work over a collection of entities keyed by integer id.
// Mutations are staged and only become visible to other units of work after Save.
type Repository[T any] interface {
	// GetAll returns every entity in insertion order.
	GetAll(ctx context.Context) []*T

	// GetByID returns the entity with the given id, or ok == false when absent.
	GetByID(ctx context.Context, id int) (entity *T, ok bool)

	// Add assigns the next id to entity and stages its insertion.
	Add(ctx context.Context, entity *T)

	// Update stages an overwrite of every field except the id.
	// It is a silent no-op when no entity with that id exists.
	Update(ctx context.Context, entity *T)

	// Delete stages removal of the entity with the given id.
	// It is a silent no-op when no entity with that id exists.
	Delete(ctx context.Context, id int)

	// Save commits all staged changes.
	Save(ctx context.Context) error
}

// RepositoryFactory opens units of work against a shared store.
// Use one Repository per use case; do not share it across requests.
type RepositoryFactory[T any] interface {
	Begin(ctx context.Context) Repository[T]
}

// WineRepository is the repository for catalog entries.
type WineRepository = Repository[domain.Wine]

// WineRepositoryFactory opens wine units of work.
type WineRepositoryFactory = RepositoryFactory[domain.Wine]
