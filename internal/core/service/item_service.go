package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/autochef0332/autochef/internal/core/domain"
	"github.com/autochef0332/autochef/internal/core/ordering"
	"github.com/autochef0332/autochef/internal/core/ports"
)

// ItemService is the item store. Every call names the section explicitly; items never
// move between sections.
type ItemService struct {
	restaurants ports.RestaurantRepository
	sections    ports.SectionRepository
	repo        ports.ItemRepository
	items       *ItemManager
	media       ports.MediaService
	changes     changeLog
	logger      zerolog.Logger
}

func NewItemService(
	restaurants ports.RestaurantRepository,
	sections ports.SectionRepository,
	repo ports.ItemRepository,
	items *ItemManager,
	media ports.MediaService,
	recorder ports.ChangeRecorder,
	logger zerolog.Logger,
) *ItemService {
	return &ItemService{
		restaurants: restaurants,
		sections:    sections,
		repo:        repo,
		items:       items,
		media:       media,
		changes:     changeLog{recorder: recorder, logger: logger},
		logger:      logger,
	}
}

// scope resolves the item collection of a section, checking the section belongs to the
// owner's restaurant. The restaurant id is returned for change events.
func (s *ItemService) scope(ctx context.Context, ownerID, sectionID string) (ordering.Scope, string, error) {
	if ownerID == "" {
		return ordering.Scope{}, "", domain.ErrUnauthorized
	}
	r, err := s.restaurants.FindByOwner(ctx, ownerID)
	if err != nil {
		return ordering.Scope{}, "", fmt.Errorf("resolve restaurant: %w", err)
	}
	if _, err := s.sections.Get(ctx, ordering.Scope{OwnerID: ownerID, ParentID: r.ID}, sectionID); err != nil {
		return ordering.Scope{}, "", fmt.Errorf("resolve section: %w", err)
	}
	return ordering.Scope{OwnerID: ownerID, ParentID: sectionID}, r.ID, nil
}

func (s *ItemService) List(ctx context.Context, ownerID, sectionID string) ([]domain.MenuItem, error) {
	scope, _, err := s.scope(ctx, ownerID, sectionID)
	if err != nil {
		return nil, err
	}
	return s.items.List(ctx, scope)
}

// ListAll returns every item of the owner ordered by position.
func (s *ItemService) ListAll(ctx context.Context, ownerID string) ([]domain.MenuItem, error) {
	if ownerID == "" {
		return nil, domain.ErrUnauthorized
	}
	items, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	return items, nil
}

func (s *ItemService) Create(ctx context.Context, ownerID, sectionID string, fields domain.ItemFields) (*domain.MenuItem, error) {
	if err := fields.Validate(); err != nil {
		return nil, err
	}
	scope, restaurantID, err := s.scope(ctx, ownerID, sectionID)
	if err != nil {
		return nil, err
	}
	created, err := s.items.Append(ctx, scope, fields)
	if err != nil {
		return nil, err
	}
	s.changes.record(ctx, ownerID, restaurantID, domain.EntityItem, created.ID, domain.ActionCreated)
	return &created, nil
}

// Update applies a partial update. A replaced or removed image is deleted from the media
// host once the update has committed.
func (s *ItemService) Update(ctx context.Context, ownerID, sectionID, itemID string, patch domain.ItemPatch) (*domain.MenuItem, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}
	scope, restaurantID, err := s.scope(ctx, ownerID, sectionID)
	if err != nil {
		return nil, err
	}

	var previousImage *string
	if patch.ImageURL != nil {
		current, err := s.repo.Get(ctx, scope, itemID)
		if err != nil {
			return nil, fmt.Errorf("get item: %w", err)
		}
		previousImage = current.ImageURL
	}

	updated, err := s.items.Update(ctx, scope, itemID, patch)
	if err != nil {
		return nil, err
	}
	s.changes.record(ctx, ownerID, restaurantID, domain.EntityItem, itemID, domain.ActionUpdated)

	if previousImage != nil && (updated.ImageURL == nil || *updated.ImageURL != *previousImage) {
		s.deleteImage(ctx, ownerID, *previousImage)
	}
	return &updated, nil
}

// SetAvailability toggles whether an item can be ordered.
func (s *ItemService) SetAvailability(ctx context.Context, ownerID, sectionID, itemID string, available bool) (*domain.MenuItem, error) {
	return s.Update(ctx, ownerID, sectionID, itemID, domain.ItemPatch{IsAvailable: &available})
}

func (s *ItemService) Delete(ctx context.Context, ownerID, sectionID, itemID string) error {
	scope, restaurantID, err := s.scope(ctx, ownerID, sectionID)
	if err != nil {
		return err
	}
	current, err := s.repo.Get(ctx, scope, itemID)
	if err != nil {
		return fmt.Errorf("get item: %w", err)
	}
	if err := s.items.Remove(ctx, scope, itemID); err != nil {
		return err
	}
	s.changes.record(ctx, ownerID, restaurantID, domain.EntityItem, itemID, domain.ActionDeleted)
	if current.ImageURL != nil {
		s.deleteImage(ctx, ownerID, *current.ImageURL)
	}
	return nil
}

// Reorder persists a full permutation of the section's items and returns the new order.
func (s *ItemService) Reorder(ctx context.Context, ownerID, sectionID string, ids []string) ([]domain.MenuItem, error) {
	scope, restaurantID, err := s.scope(ctx, ownerID, sectionID)
	if err != nil {
		return nil, err
	}
	if err := s.items.Reorder(ctx, scope, ids); err != nil {
		return nil, err
	}
	s.changes.record(ctx, ownerID, restaurantID, domain.EntityItem, sectionID, domain.ActionReordered)
	return s.items.List(ctx, scope)
}

// Move drags one item to index within its section.
func (s *ItemService) Move(ctx context.Context, ownerID, sectionID, itemID string, index int) ([]domain.MenuItem, error) {
	scope, restaurantID, err := s.scope(ctx, ownerID, sectionID)
	if err != nil {
		return nil, err
	}
	if _, err := s.items.Move(ctx, scope, itemID, index); err != nil {
		return nil, err
	}
	s.changes.record(ctx, ownerID, restaurantID, domain.EntityItem, itemID, domain.ActionReordered)
	return s.items.List(ctx, scope)
}

func (s *ItemService) deleteImage(ctx context.Context, ownerID, url string) {
	if s.media != nil {
		s.media.DeleteImage(ctx, ownerID, url)
	}
}
