// Package memory provides a process-lifetime, in-memory entity store.
//
// The store holds committed state shared by all requests. Callers obtain a
// unit of work with Begin, stage Add/Update/Delete calls against it and make
// them visible with Save. Nothing survives a restart.
package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/jsamuelsen/wine-catalog/internal/ports"
)

// Entity is implemented by pointer types the store can key by integer id.
type Entity[T any] interface {
	*T
	EntityID() int
	AssignID(id int)
}

// Store is the committed, shared collection behind every unit of work.
// Entities are kept in insertion order; ids start at 1 and are never reused.
type Store[T any, P Entity[T]] struct {
	name string

	mu     sync.RWMutex
	items  []P
	nextID int
}

// NewStore creates an empty store. The name is used for health checks and metrics.
func NewStore[T any, P Entity[T]](name string) *Store[T, P] {
	return &Store[T, P]{name: name}
}

// Begin opens a unit of work against the store.
func (s *Store[T, P]) Begin(_ context.Context) ports.Repository[T] {
	return &unitOfWork[T, P]{store: s}
}

// Name implements ports.HealthChecker.
func (s *Store[T, P]) Name() string {
	return s.name
}

// Check implements ports.HealthChecker.
// The store has no external dependency, so it is healthy while the caller is.
func (s *Store[T, P]) Check(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", s.name, err)
	}

	return nil
}

// Len returns the number of committed entities.
func (s *Store[T, P]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.items)
}

// RegisterMetrics exposes the committed entity count as a gauge.
func (s *Store[T, P]) RegisterMetrics(reg prometheus.Registerer, metricName string) error {
	gauge := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name:        metricName,
		Help:        "Number of entities committed to the in-memory store.",
		ConstLabels: prometheus.Labels{"store": s.name},
	}, func() float64 {
		return float64(s.Len())
	})

	if err := reg.Register(gauge); err != nil {
		return fmt.Errorf("registering %s gauge: %w", metricName, err)
	}

	return nil
}

// reserveID hands out the next identifier.
func (s *Store[T, P]) reserveID() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++

	return s.nextID
}

// snapshot returns copies of the committed entities.
func (s *Store[T, P]) snapshot() []P {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]P, len(s.items))
	for i, item := range s.items {
		out[i] = clone[T, P](item)
	}

	return out
}

// commit applies changes to the committed state in a single critical section.
func (s *Store[T, P]) commit(changes []change[T, P]) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = apply(s.items, changes)
}

type changeKind int

const (
	changeAdd changeKind = iota
	changeUpdate
	changeDelete
)

// change is one staged mutation. entity is a private copy owned by the unit of work.
type change[T any, P Entity[T]] struct {
	kind   changeKind
	id     int
	entity P
}

// apply replays changes onto items and returns the resulting slice.
// Updates and deletes for ids not present are dropped silently.
func apply[T any, P Entity[T]](items []P, changes []change[T, P]) []P {
	for _, ch := range changes {
		switch ch.kind {
		case changeAdd:
			items = append(items, clone[T, P](ch.entity))

		case changeUpdate:
			idx := indexOf[T, P](items, ch.id)
			if idx < 0 {
				continue
			}

			updated := clone[T, P](ch.entity)
			updated.AssignID(ch.id)
			items[idx] = updated

		case changeDelete:
			idx := indexOf[T, P](items, ch.id)
			if idx < 0 {
				continue
			}

			items = slices.Delete(items, idx, idx+1)
		}
	}

	return items
}

func indexOf[T any, P Entity[T]](items []P, id int) int {
	return slices.IndexFunc(items, func(item P) bool {
		return item.EntityID() == id
	})
}

func clone[T any, P Entity[T]](src P) P {
	dst := new(T)
	*dst = *src

	return dst
}
