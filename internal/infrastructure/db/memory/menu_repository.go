package memory

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/autochef0332/autochef/internal/core/domain"
	"github.com/autochef0332/autochef/internal/core/ordering"
)

// SectionRepository implements ports.SectionRepository.
type SectionRepository struct {
	s *Store
}

func (r *SectionRepository) ListScope(_ context.Context, scope ordering.Scope) ([]domain.MenuSection, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []domain.MenuSection{}
	for _, row := range r.s.sections {
		if inSectionScope(row, scope) {
			out = append(out, row)
		}
	}
	ordering.Sort(out)
	return out, nil
}

func (r *SectionRepository) Get(_ context.Context, scope ordering.Scope, id string) (*domain.MenuSection, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	row, ok := r.s.sections[id]
	if !ok || !inSectionScope(row, scope) {
		return nil, domain.ErrNotFound
	}
	return &row, nil
}

func (r *SectionRepository) Insert(_ context.Context, scope ordering.Scope, position int, f domain.SectionFields) (domain.MenuSection, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	now := r.s.now()
	row := domain.MenuSection{
		ID:           uuid.New().String(),
		RestaurantID: scope.ParentID,
		OwnerID:      scope.OwnerID,
		Name:         strings.TrimSpace(f.Name),
		Description:  nullable(f.Description),
		Position:     position,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	r.s.sections[row.ID] = row
	return row, nil
}

func (r *SectionRepository) Update(_ context.Context, scope ordering.Scope, id string, p domain.SectionPatch) (domain.MenuSection, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	row, ok := r.s.sections[id]
	if !ok || !inSectionScope(row, scope) {
		return domain.MenuSection{}, domain.ErrNotFound
	}
	row = p.Apply(row)
	row.UpdatedAt = r.s.now()
	r.s.sections[id] = row
	return row, nil
}

func (r *SectionRepository) Delete(_ context.Context, scope ordering.Scope, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	row, ok := r.s.sections[id]
	if !ok || !inSectionScope(row, scope) {
		return domain.ErrNotFound
	}
	delete(r.s.sections, id)
	return nil
}

func (r *SectionRepository) DeleteScope(_ context.Context, scope ordering.Scope) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n := 0
	for id, row := range r.s.sections {
		if inSectionScope(row, scope) {
			delete(r.s.sections, id)
			n++
		}
	}
	return n, nil
}

func (r *SectionRepository) SetPosition(_ context.Context, scope ordering.Scope, id string, position int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.failPositions[id] {
		return domain.ErrBackendUnavailable
	}
	row, ok := r.s.sections[id]
	if !ok || !inSectionScope(row, scope) {
		return domain.ErrNotFound
	}
	row.Position = position
	row.UpdatedAt = r.s.now()
	r.s.sections[id] = row
	return nil
}

func inSectionScope(row domain.MenuSection, scope ordering.Scope) bool {
	return row.OwnerID == scope.OwnerID && row.RestaurantID == scope.ParentID
}

// ItemRepository implements ports.ItemRepository.
type ItemRepository struct {
	s *Store
}

func (r *ItemRepository) ListScope(_ context.Context, scope ordering.Scope) ([]domain.MenuItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []domain.MenuItem{}
	for _, row := range r.s.items {
		if inItemScope(row, scope) {
			out = append(out, row)
		}
	}
	ordering.Sort(out)
	return out, nil
}

func (r *ItemRepository) ListByOwner(_ context.Context, ownerID string) ([]domain.MenuItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []domain.MenuItem{}
	for _, row := range r.s.items {
		if row.OwnerID == ownerID {
			out = append(out, row)
		}
	}
	ordering.Sort(out)
	return out, nil
}

func (r *ItemRepository) Get(_ context.Context, scope ordering.Scope, id string) (*domain.MenuItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	row, ok := r.s.items[id]
	if !ok || !inItemScope(row, scope) {
		return nil, domain.ErrNotFound
	}
	return &row, nil
}

func (r *ItemRepository) Insert(_ context.Context, scope ordering.Scope, position int, f domain.ItemFields) (domain.MenuItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	now := r.s.now()
	row := domain.MenuItem{
		ID:          uuid.New().String(),
		SectionID:   scope.ParentID,
		OwnerID:     scope.OwnerID,
		Name:        strings.TrimSpace(f.Name),
		Description: nullable(f.Description),
		Price:       f.Price,
		ImageURL:    nullable(f.ImageURL),
		IsAvailable: f.Available(),
		Position:    position,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	r.s.items[row.ID] = row
	return row, nil
}

func (r *ItemRepository) Update(_ context.Context, scope ordering.Scope, id string, p domain.ItemPatch) (domain.MenuItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	row, ok := r.s.items[id]
	if !ok || !inItemScope(row, scope) {
		return domain.MenuItem{}, domain.ErrNotFound
	}
	row = p.Apply(row)
	row.UpdatedAt = r.s.now()
	r.s.items[id] = row
	return row, nil
}

func (r *ItemRepository) Delete(_ context.Context, scope ordering.Scope, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	row, ok := r.s.items[id]
	if !ok || !inItemScope(row, scope) {
		return domain.ErrNotFound
	}
	delete(r.s.items, id)
	return nil
}

func (r *ItemRepository) DeleteScope(_ context.Context, scope ordering.Scope) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n := 0
	for id, row := range r.s.items {
		if inItemScope(row, scope) {
			delete(r.s.items, id)
			n++
		}
	}
	return n, nil
}

func (r *ItemRepository) SetPosition(_ context.Context, scope ordering.Scope, id string, position int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.failPositions[id] {
		return domain.ErrBackendUnavailable
	}
	row, ok := r.s.items[id]
	if !ok || !inItemScope(row, scope) {
		return domain.ErrNotFound
	}
	row.Position = position
	row.UpdatedAt = r.s.now()
	r.s.items[id] = row
	return nil
}

func inItemScope(row domain.MenuItem, scope ordering.Scope) bool {
	return row.OwnerID == scope.OwnerID && row.SectionID == scope.ParentID
}

func nullable(s *string) *string {
	if s == nil {
		return nil
	}
	return domain.NullableString(*s)
}
