package ordering

import (
	"context"
	"fmt"
	"slices"

	"github.com/rs/zerolog"

	"github.com/autochef0332/autochef/internal/core/domain"
)

// Config wires a Manager. Only Kind and Repo are required.
type Config[T Record, C, P any] struct {
	Kind           string
	Repo           Repository[T, C, P]
	Locker         Locker
	Cache          Cache[T]
	Workers        int
	ValidateCreate func(C) error
	ValidatePatch  func(P) error
	Logger         zerolog.Logger
}

// Manager is the ordered collection of one record kind. Every method takes the scope
// explicitly; the Manager holds no per-caller state.
type Manager[T Record, C, P any] struct {
	kind           string
	repo           Repository[T, C, P]
	locker         Locker
	cache          Cache[T]
	batch          *BatchWriter
	validateCreate func(C) error
	validatePatch  func(P) error
	log            zerolog.Logger
}

func NewManager[T Record, C, P any](cfg Config[T, C, P]) *Manager[T, C, P] {
	m := &Manager[T, C, P]{
		kind:           cfg.Kind,
		repo:           cfg.Repo,
		locker:         cfg.Locker,
		cache:          cfg.Cache,
		batch:          NewBatchWriter(cfg.Workers, cfg.Logger),
		validateCreate: cfg.ValidateCreate,
		validatePatch:  cfg.ValidatePatch,
		log:            cfg.Logger.With().Str("collection", cfg.Kind).Logger(),
	}
	if m.locker == nil {
		m.locker = NewLocalLocker()
	}
	if m.cache == nil {
		m.cache = NopCache[T]{}
	}
	return m
}

// List returns the scope in canonical order, through the cache.
func (m *Manager[T, C, P]) List(ctx context.Context, scope Scope) ([]T, error) {
	if cached, ok := m.cache.Get(ctx, scope); ok {
		return cached, nil
	}
	gen, cacheable := m.cache.Generation(ctx, scope)
	records, err := m.load(ctx, scope)
	if err != nil {
		return nil, err
	}
	if cacheable {
		m.cache.Set(ctx, scope, gen, records)
	}
	return records, nil
}

func (m *Manager[T, C, P]) load(ctx context.Context, scope Scope) ([]T, error) {
	records, err := m.repo.ListScope(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", m.kind, err)
	}
	Sort(records)
	return records, nil
}

// Append inserts a record at the end of the scope. The read of the current maximum and
// the insert run under the scope lock.
func (m *Manager[T, C, P]) Append(ctx context.Context, scope Scope, fields C) (T, error) {
	var created T
	if m.validateCreate != nil {
		if err := m.validateCreate(fields); err != nil {
			return created, err
		}
	}

	err := m.locker.WithScopeLock(ctx, scope, func(ctx context.Context) error {
		current, err := m.repo.ListScope(ctx, scope)
		if err != nil {
			return fmt.Errorf("list %s: %w", m.kind, err)
		}
		created, err = m.repo.Insert(ctx, scope, NextPosition(current), fields)
		if err != nil {
			return fmt.Errorf("insert %s: %w", m.kind, err)
		}
		return nil
	})
	if err != nil {
		return created, err
	}

	m.Invalidate(ctx, scope)
	m.log.Info().Str("scope", scope.String()).Str("id", created.RecordID()).Int("position", created.RecordPosition()).Msg("record appended")
	return created, nil
}

// Update applies a partial update. Position is never part of a patch.
func (m *Manager[T, C, P]) Update(ctx context.Context, scope Scope, id string, patch P) (T, error) {
	var updated T
	if m.validatePatch != nil {
		if err := m.validatePatch(patch); err != nil {
			return updated, err
		}
	}
	updated, err := m.repo.Update(ctx, scope, id, patch)
	if err != nil {
		return updated, fmt.Errorf("update %s: %w", m.kind, err)
	}
	m.Invalidate(ctx, scope)
	return updated, nil
}

// Remove deletes one record. Remaining positions keep their gap.
func (m *Manager[T, C, P]) Remove(ctx context.Context, scope Scope, id string) error {
	if err := m.repo.Delete(ctx, scope, id); err != nil {
		return fmt.Errorf("delete %s: %w", m.kind, err)
	}
	m.Invalidate(ctx, scope)
	m.log.Info().Str("scope", scope.String()).Str("id", id).Msg("record removed")
	return nil
}

// RemoveAll deletes every record of the scope and returns how many were removed.
func (m *Manager[T, C, P]) RemoveAll(ctx context.Context, scope Scope) (int, error) {
	n, err := m.repo.DeleteScope(ctx, scope)
	if err != nil {
		return 0, fmt.Errorf("delete %s scope: %w", m.kind, err)
	}
	m.Invalidate(ctx, scope)
	return n, nil
}

// Reorder assigns position = index to every id. ids must be a permutation of the whole
// scope. Each position write is independent; when some fail the cache is still
// invalidated and a *domain.PartialBatchError is returned.
func (m *Manager[T, C, P]) Reorder(ctx context.Context, scope Scope, ids []string) error {
	current, err := m.repo.ListScope(ctx, scope)
	if err != nil {
		return fmt.Errorf("list %s: %w", m.kind, err)
	}
	if err := CheckPermutation(IDs(current), ids); err != nil {
		return err
	}

	err = m.batch.Run(ctx, m.kind, Assign(ids), func(ctx context.Context, a Assignment) error {
		return m.repo.SetPosition(ctx, scope, a.ID, a.Position)
	})
	m.Invalidate(ctx, scope)
	if err != nil {
		return err
	}
	m.log.Info().Str("scope", scope.String()).Int("count", len(ids)).Msg("collection reordered")
	return nil
}

// Move drags one record to newIndex of the canonical order and persists the full order.
func (m *Manager[T, C, P]) Move(ctx context.Context, scope Scope, id string, newIndex int) ([]string, error) {
	current, err := m.load(ctx, scope)
	if err != nil {
		return nil, err
	}
	ids := IDs(current)
	if !slices.Contains(ids, id) {
		return nil, fmt.Errorf("move %s %s: %w", m.kind, id, domain.ErrNotFound)
	}
	order, err := ComputeReorder(ids, id, newIndex)
	if err != nil {
		return nil, err
	}
	if err := m.Reorder(ctx, scope, order); err != nil {
		return nil, err
	}
	return order, nil
}

// WithScopeLock runs fn while holding the scope lock.
func (m *Manager[T, C, P]) WithScopeLock(ctx context.Context, scope Scope, fn func(ctx context.Context) error) error {
	return m.locker.WithScopeLock(ctx, scope, fn)
}

// Invalidate drops the cached list of the scope. It runs even if ctx is already done.
func (m *Manager[T, C, P]) Invalidate(ctx context.Context, scope Scope) {
	m.cache.Invalidate(context.WithoutCancel(ctx), scope)
}
