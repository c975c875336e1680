package ports

import (
	"context"

	"github.com/autochef0332/autochef/internal/core/domain"
	"github.com/autochef0332/autochef/internal/core/ordering"
)

// SectionRepository persists menu sections. The ordering scope is {owner, restaurant id}.
type SectionRepository interface {
	ordering.Repository[domain.MenuSection, domain.SectionFields, domain.SectionPatch]
	Get(ctx context.Context, scope ordering.Scope, id string) (*domain.MenuSection, error)
}

// ItemRepository persists menu items. The ordering scope is {owner, section id}.
type ItemRepository interface {
	ordering.Repository[domain.MenuItem, domain.ItemFields, domain.ItemPatch]
	Get(ctx context.Context, scope ordering.Scope, id string) (*domain.MenuItem, error)
	// ListByOwner returns every item of the owner ordered by position.
	ListByOwner(ctx context.Context, ownerID string) ([]domain.MenuItem, error)
}
