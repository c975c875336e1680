// Package memory is an in-process backend implementing every repository port.
// It backs tests and local runs without Postgres, and can inject position write
// failures to exercise partial reorders.
package memory

import (
	"sync"
	"time"

	"github.com/autochef0332/autochef/internal/core/domain"
)

// Store holds all tables. Repositories obtained from one Store share its data.
type Store struct {
	mu            sync.Mutex
	restaurants   map[string]domain.Restaurant
	sections      map[string]domain.MenuSection
	items         map[string]domain.MenuItem
	users         map[string]domain.User
	failPositions map[string]bool
	lastTick      time.Time
}

func NewStore() *Store {
	return &Store{
		restaurants:   make(map[string]domain.Restaurant),
		sections:      make(map[string]domain.MenuSection),
		items:         make(map[string]domain.MenuItem),
		users:         make(map[string]domain.User),
		failPositions: make(map[string]bool),
	}
}

// FailPositionWrites makes SetPosition fail for the given ids until cleared.
func (s *Store) FailPositionWrites(ids ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		s.failPositions[id] = true
	}
}

// ClearFailures removes every injected failure.
func (s *Store) ClearFailures() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failPositions = make(map[string]bool)
}

// now returns a strictly increasing timestamp so creation order is always observable.
// Callers must hold mu.
func (s *Store) now() time.Time {
	t := time.Now().UTC()
	if !t.After(s.lastTick) {
		t = s.lastTick.Add(time.Microsecond)
	}
	s.lastTick = t
	return t
}

func (s *Store) Restaurants() *RestaurantRepository { return &RestaurantRepository{s: s} }
func (s *Store) Sections() *SectionRepository       { return &SectionRepository{s: s} }
func (s *Store) Items() *ItemRepository             { return &ItemRepository{s: s} }
func (s *Store) Users() *AuthRepository             { return &AuthRepository{s: s} }
