package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"go.opentelemetry.io/otel/attribute"

	"github.com/jsamuelsen/wine-catalog/internal/platform/telemetry"
)

// unitOfWork stages changes against a Store until Save.
// Reads see committed state with this unit's own staged changes applied.
type unitOfWork[T any, P Entity[T]] struct {
	store *Store[T, P]

	mu      sync.Mutex
	pending []change[T, P]
}

func (u *unitOfWork[T, P]) GetAll(_ context.Context) []*T {
	view := u.view()

	out := make([]*T, len(view))
	for i, item := range view {
		out[i] = item
	}

	return out
}

func (u *unitOfWork[T, P]) GetByID(_ context.Context, id int) (*T, bool) {
	view := u.view()

	idx := indexOf[T, P](view, id)
	if idx < 0 {
		return nil, false
	}

	return view[idx], true
}

func (u *unitOfWork[T, P]) Add(_ context.Context, entity *T) {
	p := P(entity)
	p.AssignID(u.store.reserveID())

	u.stage(change[T, P]{kind: changeAdd, id: p.EntityID(), entity: clone[T, P](p)})
}

func (u *unitOfWork[T, P]) Update(_ context.Context, entity *T) {
	p := P(entity)

	u.stage(change[T, P]{kind: changeUpdate, id: p.EntityID(), entity: clone[T, P](p)})
}

func (u *unitOfWork[T, P]) Delete(_ context.Context, id int) {
	u.stage(change[T, P]{kind: changeDelete, id: id})
}

// Save commits staged changes. Nothing is committed if ctx is already done.
func (u *unitOfWork[T, P]) Save(ctx context.Context) (err error) {
	_, span := telemetry.StartSpan(ctx, u.store.name+".save", attribute.String("store", u.store.name))
	defer func() { telemetry.EndSpan(span, err) }()

	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("saving %s changes: %w", u.store.name, ctxErr)
	}

	u.mu.Lock()
	pending := u.pending
	u.pending = nil
	u.mu.Unlock()

	span.SetAttributes(attribute.Int("changes", len(pending)))

	if len(pending) > 0 {
		u.store.commit(pending)
	}

	return nil
}

func (u *unitOfWork[T, P]) stage(ch change[T, P]) {
	u.mu.Lock()
	defer u.mu.Unlock()

	u.pending = append(u.pending, ch)
}

// view returns committed state with the staged changes replayed on top.
func (u *unitOfWork[T, P]) view() []P {
	u.mu.Lock()
	pending := slices.Clone(u.pending)
	u.mu.Unlock()

	return apply(u.store.snapshot(), pending)
}
