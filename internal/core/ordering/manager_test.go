package ordering

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autochef0332/autochef/internal/core/domain"
)

// ---------------------------------------------------------------------------
// Fakes
// ---------------------------------------------------------------------------

type recFields struct{ name string }
type recPatch struct{ name *string }

type fakeRepo struct {
	mu        sync.Mutex
	rows      map[Scope][]rec
	names     map[string]string
	seq       int
	failIDs   map[string]bool
	listCalls int
	afterList func()
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{rows: map[Scope][]rec{}, names: map[string]string{}, failIDs: map[string]bool{}}
}

func (r *fakeRepo) seed(scope Scope, ids ...string) {
	for i, id := range ids {
		r.rows[scope] = append(r.rows[scope], rec{id: id, pos: i, created: at(i)})
	}
}

func (r *fakeRepo) positions(scope Scope) map[string]int {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := map[string]int{}
	for _, x := range r.rows[scope] {
		out[x.id] = x.pos
	}
	return out
}

func (r *fakeRepo) ListScope(_ context.Context, scope Scope) ([]rec, error) {
	r.mu.Lock()
	r.listCalls++
	out := append([]rec(nil), r.rows[scope]...)
	hook := r.afterList
	r.afterList = nil
	r.mu.Unlock()

	if hook != nil {
		hook()
	}
	return out, nil
}

func (r *fakeRepo) Insert(_ context.Context, scope Scope, position int, f recFields) (rec, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	x := rec{id: fmt.Sprintf("r%d", r.seq), pos: position, created: at(100 + r.seq)}
	r.rows[scope] = append(r.rows[scope], x)
	r.names[x.id] = f.name
	return x, nil
}

func (r *fakeRepo) Update(_ context.Context, scope Scope, id string, p recPatch) (rec, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, x := range r.rows[scope] {
		if x.id == id {
			if p.name != nil {
				r.names[id] = *p.name
			}
			return x, nil
		}
	}
	return rec{}, domain.ErrNotFound
}

func (r *fakeRepo) Delete(_ context.Context, scope Scope, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, x := range r.rows[scope] {
		if x.id == id {
			r.rows[scope] = append(r.rows[scope][:i], r.rows[scope][i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *fakeRepo) DeleteScope(_ context.Context, scope Scope) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := len(r.rows[scope])
	delete(r.rows, scope)
	return n, nil
}

func (r *fakeRepo) SetPosition(_ context.Context, scope Scope, id string, position int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failIDs[id] {
		return domain.ErrBackendUnavailable
	}
	for i, x := range r.rows[scope] {
		if x.id == id {
			r.rows[scope][i].pos = position
			return nil
		}
	}
	return domain.ErrNotFound
}

type fakeCache struct {
	mu          sync.Mutex
	lists       map[Scope][]rec
	gens        map[Scope]uint64
	invalidated []Scope
}

func newFakeCache() *fakeCache {
	return &fakeCache{lists: map[Scope][]rec{}, gens: map[Scope]uint64{}}
}

func (c *fakeCache) Get(_ context.Context, s Scope) ([]rec, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	l, ok := c.lists[s]
	return l, ok
}

func (c *fakeCache) Generation(_ context.Context, s Scope) (uint64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gens[s], true
}

func (c *fakeCache) Set(_ context.Context, s Scope, gen uint64, l []rec) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gens[s] != gen {
		return
	}
	c.lists[s] = l
}

func (c *fakeCache) Invalidate(_ context.Context, s Scope) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gens[s]++
	delete(c.lists, s)
	c.invalidated = append(c.invalidated, s)
}

func newTestManager(repo *fakeRepo, cache Cache[rec]) *Manager[rec, recFields, recPatch] {
	return NewManager(Config[rec, recFields, recPatch]{
		Kind:   "thing",
		Repo:   repo,
		Cache:  cache,
		Logger: zerolog.Nop(),
		ValidateCreate: func(f recFields) error {
			if strings.TrimSpace(f.name) == "" {
				return domain.Invalid("name", "is required")
			}
			return nil
		},
	})
}

var (
	scopeA = Scope{OwnerID: "owner1", ParentID: "restaurant1"}
	scopeB = Scope{OwnerID: "owner1", ParentID: "restaurant2"}
)

// ---------------------------------------------------------------------------
// Append
// ---------------------------------------------------------------------------

func TestManager_AppendIsDense(t *testing.T) {
	repo := newFakeRepo()
	m := newTestManager(repo, nil)
	ctx := context.Background()

	var ids []string
	for i := 0; i < 5; i++ {
		r, err := m.Append(ctx, scopeA, recFields{name: fmt.Sprintf("n%d", i)})
		require.NoError(t, err)
		assert.Equal(t, i, r.pos)
		ids = append(ids, r.id)
	}

	list, err := m.List(ctx, scopeA)
	require.NoError(t, err)
	assert.Equal(t, ids, IDs(list))
}

func TestManager_AppendAfterMaxPosition(t *testing.T) {
	repo := newFakeRepo()
	repo.rows[scopeA] = []rec{{id: "a", pos: 0}, {id: "b", pos: 4}}
	m := newTestManager(repo, nil)

	r, err := m.Append(context.Background(), scopeA, recFields{name: "x"})
	require.NoError(t, err)
	assert.Equal(t, 5, r.pos)

	empty, err := m.Append(context.Background(), scopeB, recFields{name: "y"})
	require.NoError(t, err)
	assert.Equal(t, 0, empty.pos)
}

func TestManager_AppendValidatesBeforeTouchingRepo(t *testing.T) {
	repo := newFakeRepo()
	m := newTestManager(repo, nil)

	_, err := m.Append(context.Background(), scopeA, recFields{name: "  "})

	assert.True(t, errors.Is(err, domain.ErrValidation))
	assert.Zero(t, repo.listCalls)
}

func TestManager_ConcurrentAppendsStayDense(t *testing.T) {
	repo := newFakeRepo()
	m := newTestManager(repo, nil)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := m.Append(context.Background(), scopeA, recFields{name: "x"})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	seen := map[int]bool{}
	for _, pos := range repo.positions(scopeA) {
		assert.False(t, seen[pos], "duplicate position %d", pos)
		seen[pos] = true
	}
	assert.Len(t, seen, 20)
}

// ---------------------------------------------------------------------------
// Reorder
// ---------------------------------------------------------------------------

func TestManager_ReorderAssignsIndexPositions(t *testing.T) {
	repo := newFakeRepo()
	repo.seed(scopeA, "a", "b", "c")
	m := newTestManager(repo, nil)

	require.NoError(t, m.Reorder(context.Background(), scopeA, []string{"c", "a", "b"}))

	assert.Equal(t, map[string]int{"c": 0, "a": 1, "b": 2}, repo.positions(scopeA))
}

func TestManager_ReorderIsIdempotent(t *testing.T) {
	repo := newFakeRepo()
	repo.seed(scopeA, "a", "b", "c", "d")
	m := newTestManager(repo, nil)
	order := []string{"d", "b", "a", "c"}

	require.NoError(t, m.Reorder(context.Background(), scopeA, order))
	once := repo.positions(scopeA)
	require.NoError(t, m.Reorder(context.Background(), scopeA, order))

	assert.Equal(t, once, repo.positions(scopeA))
}

func TestManager_ReorderLeavesOtherScopesAlone(t *testing.T) {
	repo := newFakeRepo()
	repo.seed(scopeA, "a1", "a2", "a3")
	repo.seed(scopeB, "b1", "b2", "b3")
	m := newTestManager(repo, nil)
	before := repo.positions(scopeB)

	require.NoError(t, m.Reorder(context.Background(), scopeA, []string{"a3", "a2", "a1"}))

	assert.Equal(t, before, repo.positions(scopeB))
}

func TestManager_ReorderRejectsPartialList(t *testing.T) {
	repo := newFakeRepo()
	repo.seed(scopeA, "a", "b", "c")
	m := newTestManager(repo, nil)

	err := m.Reorder(context.Background(), scopeA, []string{"b", "a"})

	assert.True(t, errors.Is(err, domain.ErrValidation))
	assert.Equal(t, map[string]int{"a": 0, "b": 1, "c": 2}, repo.positions(scopeA))
}

func TestManager_ReorderPartialFailure(t *testing.T) {
	repo := newFakeRepo()
	repo.seed(scopeA, "a", "b", "c")
	repo.failIDs["b"] = true
	cache := newFakeCache()
	m := newTestManager(repo, cache)

	err := m.Reorder(context.Background(), scopeA, []string{"c", "b", "a"})

	var pbe *domain.PartialBatchError
	require.ErrorAs(t, err, &pbe)
	assert.Equal(t, []string{"b"}, pbe.FailedIDs())
	assert.Equal(t, 3, pbe.Total)
	// Successful writes are not rolled back.
	assert.Equal(t, map[string]int{"c": 0, "b": 1, "a": 2}, repo.positions(scopeA))
	assert.Contains(t, cache.invalidated, scopeA)
}

func TestManager_ReorderSurvivesCallerCancellation(t *testing.T) {
	repo := newFakeRepo()
	repo.seed(scopeA, "a", "b")
	m := newTestManager(repo, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.NoError(t, m.Reorder(ctx, scopeA, []string{"b", "a"}))
	assert.Equal(t, map[string]int{"b": 0, "a": 1}, repo.positions(scopeA))
}

func TestManager_DragScenario(t *testing.T) {
	repo := newFakeRepo()
	repo.seed(scopeA, "s1", "s2")
	m := newTestManager(repo, newFakeCache())
	ctx := context.Background()

	order, err := m.Move(ctx, scopeA, "s2", 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"s2", "s1"}, order)

	list, err := m.List(ctx, scopeA)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "s2", list[0].id)
	assert.Equal(t, 0, list[0].pos)
	assert.Equal(t, "s1", list[1].id)
	assert.Equal(t, 1, list[1].pos)
}

func TestManager_MoveUnknownID(t *testing.T) {
	repo := newFakeRepo()
	repo.seed(scopeA, "a")
	m := newTestManager(repo, nil)

	_, err := m.Move(context.Background(), scopeA, "ghost", 0)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

// ---------------------------------------------------------------------------
// Cache and removal
// ---------------------------------------------------------------------------

func TestManager_ListReadsThroughCache(t *testing.T) {
	repo := newFakeRepo()
	repo.seed(scopeA, "a", "b")
	m := newTestManager(repo, newFakeCache())
	ctx := context.Background()

	_, err := m.List(ctx, scopeA)
	require.NoError(t, err)
	_, err = m.List(ctx, scopeA)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.listCalls)

	_, err = m.Append(ctx, scopeA, recFields{name: "c"})
	require.NoError(t, err)
	list, err := m.List(ctx, scopeA)
	require.NoError(t, err)
	assert.Len(t, list, 3, "append must invalidate the cached list")
}

func TestManager_ListLoadedBeforeReorderIsNotCached(t *testing.T) {
	repo := newFakeRepo()
	repo.seed(scopeA, "a", "b")
	m := newTestManager(repo, newFakeCache())
	ctx := context.Background()

	// The reorder commits and invalidates between the read and the cache fill.
	repo.afterList = func() {
		require.NoError(t, m.Reorder(ctx, scopeA, []string{"b", "a"}))
	}
	slow, err := m.List(ctx, scopeA)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, IDs(slow))
	assert.Equal(t, map[string]int{"a": 1, "b": 0}, repo.positions(scopeA))

	next, err := m.List(ctx, scopeA)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a"}, IDs(next))
}

func TestManager_RemoveKeepsGaps(t *testing.T) {
	repo := newFakeRepo()
	repo.seed(scopeA, "a", "b", "c")
	m := newTestManager(repo, nil)

	require.NoError(t, m.Remove(context.Background(), scopeA, "b"))
	assert.Equal(t, map[string]int{"a": 0, "c": 2}, repo.positions(scopeA))

	r, err := m.Append(context.Background(), scopeA, recFields{name: "d"})
	require.NoError(t, err)
	assert.Equal(t, 3, r.pos)
}

func TestManager_RemoveMissing(t *testing.T) {
	m := newTestManager(newFakeRepo(), nil)
	err := m.Remove(context.Background(), scopeA, "nope")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestManager_RemoveAll(t *testing.T) {
	repo := newFakeRepo()
	repo.seed(scopeA, "a", "b")
	cache := newFakeCache()
	m := newTestManager(repo, cache)

	n, err := m.RemoveAll(context.Background(), scopeA)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Empty(t, repo.positions(scopeA))
	assert.Contains(t, cache.invalidated, scopeA)
}

func TestManager_UpdateInvalidates(t *testing.T) {
	repo := newFakeRepo()
	repo.seed(scopeA, "a")
	cache := newFakeCache()
	m := newTestManager(repo, cache)
	name := "renamed"

	_, err := m.Update(context.Background(), scopeA, "a", recPatch{name: &name})
	require.NoError(t, err)
	assert.Equal(t, "renamed", repo.names["a"])
	assert.Contains(t, cache.invalidated, scopeA)
}
