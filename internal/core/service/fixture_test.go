package service

import (
	"context"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/autochef0332/autochef/internal/core/domain"
	"github.com/autochef0332/autochef/internal/core/ordering"
	"github.com/autochef0332/autochef/internal/core/ports"
	"github.com/autochef0332/autochef/internal/infrastructure/db/memory"
)

// ---------------------------------------------------------------------------
// Stubs shared by the menu service tests
// ---------------------------------------------------------------------------

type recordingChanges struct {
	mu     sync.Mutex
	events []domain.ChangeEvent
	err    error
}

func (r *recordingChanges) Record(_ context.Context, e domain.ChangeEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return r.err
}

func (r *recordingChanges) actions() []domain.ChangeAction {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.ChangeAction, len(r.events))
	for i, e := range r.events {
		out[i] = e.Action
	}
	return out
}

type stubMedia struct {
	mu      sync.Mutex
	deleted []string
}

func (m *stubMedia) UploadImage(context.Context, string, ports.ImageUpload) (string, error) {
	return "", nil
}

func (m *stubMedia) DeleteImage(_ context.Context, _ string, url string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleted = append(m.deleted, url)
}

// ---------------------------------------------------------------------------
// Fixture: memory backend wired the way cmd/api wires Postgres.
// ---------------------------------------------------------------------------

type fixture struct {
	store       *memory.Store
	changes     *recordingChanges
	media       *stubMedia
	restaurants *RestaurantService
	sections    *SectionService
	items       *ItemService
	menu        *MenuService
	sectionMgr  *SectionManager
	itemMgr     *ItemManager
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	changes := &recordingChanges{}
	media := &stubMedia{}
	log := zerolog.Nop()

	deps := ManagerDeps{Locker: ordering.NewLocalLocker(), Workers: 4, Logger: log}
	sectionMgr := NewSectionManager(store.Sections(), nil, deps)
	itemMgr := NewItemManager(store.Items(), nil, deps)
	restaurants := NewRestaurantService(store.Restaurants(), changes, log)

	return &fixture{
		store:       store,
		changes:     changes,
		media:       media,
		restaurants: restaurants,
		sections:    NewSectionService(store.Restaurants(), store.Sections(), sectionMgr, itemMgr, media, changes, log),
		items:       NewItemService(store.Restaurants(), store.Sections(), store.Items(), itemMgr, media, changes, log),
		menu:        NewMenuService(restaurants, sectionMgr, itemMgr),
		sectionMgr:  sectionMgr,
		itemMgr:     itemMgr,
	}
}

// onboard creates the owner's restaurant.
func (f *fixture) onboard(t *testing.T, ownerID string) *domain.Restaurant {
	t.Helper()
	r, err := f.restaurants.Create(context.Background(), ownerID, domain.RestaurantFields{Name: "Casa " + ownerID})
	if err != nil {
		t.Fatalf("onboard %s: %v", ownerID, err)
	}
	return r
}

func (f *fixture) section(t *testing.T, ownerID, name string) *domain.MenuSection {
	t.Helper()
	s, err := f.sections.Create(context.Background(), ownerID, domain.SectionFields{Name: name})
	if err != nil {
		t.Fatalf("create section %s: %v", name, err)
	}
	return s
}

func (f *fixture) item(t *testing.T, ownerID, sectionID, name string) *domain.MenuItem {
	t.Helper()
	i, err := f.items.Create(context.Background(), ownerID, sectionID, domain.ItemFields{Name: name, Price: decimal.RequireFromString("9.90")})
	if err != nil {
		t.Fatalf("create item %s: %v", name, err)
	}
	return i
}

func sectionIDs(list []domain.MenuSection) []string {
	return ordering.IDs(list)
}

func itemIDs(list []domain.MenuItem) []string {
	return ordering.IDs(list)
}
