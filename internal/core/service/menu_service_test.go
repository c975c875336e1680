package service

import (
	"context"
	"errors"
	"testing"

	"github.com/autochef0332/autochef/internal/core/domain"
)

func TestMenuService_Snapshot(t *testing.T) {
	f := newFixture(t)
	r := f.onboard(t, "owner1")
	drinks := f.section(t, "owner1", "Drinks")
	food := f.section(t, "owner1", "Food")
	water := f.item(t, "owner1", drinks.ID, "Water")
	taco := f.item(t, "owner1", food.ID, "Taco")
	soup := f.item(t, "owner1", food.ID, "Soup")
	if _, err := f.sections.Reorder(context.Background(), "owner1", []string{food.ID, drinks.ID}); err != nil {
		t.Fatalf("reorder sections: %v", err)
	}
	if _, err := f.items.Reorder(context.Background(), "owner1", food.ID, []string{soup.ID, taco.ID}); err != nil {
		t.Fatalf("reorder items: %v", err)
	}

	snap, err := f.menu.Snapshot(context.Background(), r.SecretKey)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if snap.Restaurant.ID != r.ID {
		t.Fatalf("unexpected restaurant %s", snap.Restaurant.ID)
	}
	if len(snap.Sections) != 2 || snap.Sections[0].ID != food.ID || snap.Sections[1].ID != drinks.ID {
		t.Fatalf("unexpected section order: %+v", snap.Sections)
	}
	if got := itemIDs(snap.Sections[0].Items); len(got) != 2 || got[0] != soup.ID || got[1] != taco.ID {
		t.Fatalf("unexpected item order: %v", got)
	}
	if got := itemIDs(snap.Sections[1].Items); len(got) != 1 || got[0] != water.ID {
		t.Fatalf("unexpected drinks: %v", got)
	}
}

func TestMenuService_SnapshotEmptySectionHasNoNullItems(t *testing.T) {
	f := newFixture(t)
	r := f.onboard(t, "owner1")
	f.section(t, "owner1", "Empty")

	snap, err := f.menu.Snapshot(context.Background(), r.SecretKey)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if snap.Sections[0].Items == nil {
		t.Fatalf("expected an empty, non-nil item list")
	}
}

func TestMenuService_SnapshotUnknownKey(t *testing.T) {
	f := newFixture(t)
	f.onboard(t, "owner1")

	if _, err := f.menu.Snapshot(context.Background(), "ffffffffffffffffffffffffffffffff"); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}
