package ordering

import (
	"context"
	"sync"
)

// Repository persists one kind of ordered record. C is the creation payload and P the
// partial update payload. Ids that do not exist under the scope yield domain.ErrNotFound.
type Repository[T Record, C, P any] interface {
	ListScope(ctx context.Context, scope Scope) ([]T, error)
	Insert(ctx context.Context, scope Scope, position int, fields C) (T, error)
	Update(ctx context.Context, scope Scope, id string, patch P) (T, error)
	Delete(ctx context.Context, scope Scope, id string) error
	DeleteScope(ctx context.Context, scope Scope) (int, error)
	SetPosition(ctx context.Context, scope Scope, id string, position int) error
}

// Locker serialises work on one scope. Implementations may run fn inside a transaction
// carried by the context they pass to it.
type Locker interface {
	WithScopeLock(ctx context.Context, scope Scope, fn func(ctx context.Context) error) error
}

// Cache holds the sorted list of a scope. Every Invalidate bumps the scope generation,
// and Set stores records only while the generation still equals gen, so a list loaded
// before a write is never stored after it. Implementations swallow and log their own
// failures; a failing cache behaves as a miss and Generation then reports false.
type Cache[T Record] interface {
	Get(ctx context.Context, scope Scope) ([]T, bool)
	Generation(ctx context.Context, scope Scope) (uint64, bool)
	Set(ctx context.Context, scope Scope, gen uint64, records []T)
	Invalidate(ctx context.Context, scope Scope)
}

// NopCache never hits.
type NopCache[T Record] struct{}

func (NopCache[T]) Get(context.Context, Scope) ([]T, bool)           { return nil, false }
func (NopCache[T]) Generation(context.Context, Scope) (uint64, bool) { return 0, false }
func (NopCache[T]) Set(context.Context, Scope, uint64, []T)          {}
func (NopCache[T]) Invalidate(context.Context, Scope)                {}

// LocalLocker serialises scopes inside one process.
type LocalLocker struct {
	mu    sync.Mutex
	locks map[Scope]*sync.Mutex
}

func NewLocalLocker() *LocalLocker {
	return &LocalLocker{locks: make(map[Scope]*sync.Mutex)}
}

func (l *LocalLocker) WithScopeLock(ctx context.Context, scope Scope, fn func(ctx context.Context) error) error {
	l.mu.Lock()
	m, ok := l.locks[scope]
	if !ok {
		m = &sync.Mutex{}
		l.locks[scope] = m
	}
	l.mu.Unlock()

	m.Lock()
	defer m.Unlock()
	return fn(ctx)
}
