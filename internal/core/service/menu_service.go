package service

import (
	"context"

	"github.com/autochef0332/autochef/internal/core/domain"
	"github.com/autochef0332/autochef/internal/core/ordering"
	"github.com/autochef0332/autochef/internal/core/ports"
)

// MenuService serves the ordered menu to integrations holding a restaurant secret key.
type MenuService struct {
	restaurants ports.RestaurantService
	sections    *SectionManager
	items       *ItemManager
}

func NewMenuService(restaurants ports.RestaurantService, sections *SectionManager, items *ItemManager) *MenuService {
	return &MenuService{restaurants: restaurants, sections: sections, items: items}
}

func (s *MenuService) Snapshot(ctx context.Context, key string) (*ports.MenuSnapshot, error) {
	r, err := s.restaurants.ResolveByKey(ctx, key)
	if err != nil {
		return nil, err
	}

	sections, err := s.sections.List(ctx, ordering.Scope{OwnerID: r.OwnerID, ParentID: r.ID})
	if err != nil {
		return nil, err
	}

	snapshot := &ports.MenuSnapshot{Restaurant: *r, Sections: make([]ports.SectionWithItems, 0, len(sections))}
	for _, section := range sections {
		items, err := s.items.List(ctx, ordering.Scope{OwnerID: r.OwnerID, ParentID: section.ID})
		if err != nil {
			return nil, err
		}
		if items == nil {
			items = []domain.MenuItem{}
		}
		snapshot.Sections = append(snapshot.Sections, ports.SectionWithItems{MenuSection: section, Items: items})
	}
	return snapshot, nil
}
