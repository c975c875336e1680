package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/autochef0332/autochef/internal/core/domain"
	"github.com/autochef0332/autochef/internal/core/ordering"
	"github.com/autochef0332/autochef/internal/core/ports"
)

// SectionService is the section store of an owner's restaurant.
type SectionService struct {
	restaurants ports.RestaurantRepository
	repo        ports.SectionRepository
	sections    *SectionManager
	items       *ItemManager
	media       ports.MediaService
	changes     changeLog
	logger      zerolog.Logger
}

func NewSectionService(
	restaurants ports.RestaurantRepository,
	repo ports.SectionRepository,
	sections *SectionManager,
	items *ItemManager,
	media ports.MediaService,
	recorder ports.ChangeRecorder,
	logger zerolog.Logger,
) *SectionService {
	return &SectionService{
		restaurants: restaurants,
		repo:        repo,
		sections:    sections,
		items:       items,
		media:       media,
		changes:     changeLog{recorder: recorder, logger: logger},
		logger:      logger,
	}
}

// scope resolves the section collection of the owner's restaurant.
func (s *SectionService) scope(ctx context.Context, ownerID string) (ordering.Scope, error) {
	if ownerID == "" {
		return ordering.Scope{}, domain.ErrUnauthorized
	}
	r, err := s.restaurants.FindByOwner(ctx, ownerID)
	if err != nil {
		return ordering.Scope{}, fmt.Errorf("resolve restaurant: %w", err)
	}
	return ordering.Scope{OwnerID: ownerID, ParentID: r.ID}, nil
}

func (s *SectionService) List(ctx context.Context, ownerID string) ([]domain.MenuSection, error) {
	scope, err := s.scope(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return s.sections.List(ctx, scope)
}

func (s *SectionService) Create(ctx context.Context, ownerID string, fields domain.SectionFields) (*domain.MenuSection, error) {
	if err := fields.Validate(); err != nil {
		return nil, err
	}
	scope, err := s.scope(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	created, err := s.sections.Append(ctx, scope, fields)
	if err != nil {
		return nil, err
	}
	s.changes.record(ctx, ownerID, scope.ParentID, domain.EntitySection, created.ID, domain.ActionCreated)
	return &created, nil
}

func (s *SectionService) Update(ctx context.Context, ownerID, sectionID string, patch domain.SectionPatch) (*domain.MenuSection, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}
	scope, err := s.scope(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	updated, err := s.sections.Update(ctx, scope, sectionID, patch)
	if err != nil {
		return nil, err
	}
	s.changes.record(ctx, ownerID, scope.ParentID, domain.EntitySection, sectionID, domain.ActionUpdated)
	return &updated, nil
}

// Delete removes the section and every item in it. Both deletes run under the
// section scope lock, which the Postgres locker backs with one transaction.
func (s *SectionService) Delete(ctx context.Context, ownerID, sectionID string) error {
	scope, err := s.scope(ctx, ownerID)
	if err != nil {
		return err
	}
	if _, err := s.repo.Get(ctx, scope, sectionID); err != nil {
		return fmt.Errorf("get section: %w", err)
	}

	itemScope := ordering.Scope{OwnerID: ownerID, ParentID: sectionID}
	doomed, err := s.items.List(ctx, itemScope)
	if err != nil {
		return err
	}

	var removedItems int
	err = s.sections.WithScopeLock(ctx, scope, func(ctx context.Context) error {
		n, err := s.items.RemoveAll(ctx, itemScope)
		if err != nil {
			return err
		}
		removedItems = n
		return s.sections.Remove(ctx, scope, sectionID)
	})
	// Drop both cached lists once the lock, and any transaction behind it, is released.
	s.items.Invalidate(ctx, itemScope)
	s.sections.Invalidate(ctx, scope)
	if err != nil {
		return err
	}

	s.logger.Info().
		Str("owner_id", ownerID).
		Str("section_id", sectionID).
		Int("items_removed", removedItems).
		Msg("section deleted")
	s.changes.record(ctx, ownerID, scope.ParentID, domain.EntitySection, sectionID, domain.ActionDeleted)

	if s.media != nil {
		for _, item := range doomed {
			if item.ImageURL != nil {
				s.media.DeleteImage(ctx, ownerID, *item.ImageURL)
			}
		}
	}
	return nil
}

// Reorder persists a full permutation of the owner's sections and returns the new order.
func (s *SectionService) Reorder(ctx context.Context, ownerID string, ids []string) ([]domain.MenuSection, error) {
	scope, err := s.scope(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if err := s.sections.Reorder(ctx, scope, ids); err != nil {
		return nil, err
	}
	s.changes.record(ctx, ownerID, scope.ParentID, domain.EntitySection, scope.ParentID, domain.ActionReordered)
	return s.sections.List(ctx, scope)
}

// Move drags one section to index and persists the resulting order.
func (s *SectionService) Move(ctx context.Context, ownerID, sectionID string, index int) ([]domain.MenuSection, error) {
	scope, err := s.scope(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if _, err := s.sections.Move(ctx, scope, sectionID, index); err != nil {
		return nil, err
	}
	s.changes.record(ctx, ownerID, scope.ParentID, domain.EntitySection, sectionID, domain.ActionReordered)
	return s.sections.List(ctx, scope)
}
