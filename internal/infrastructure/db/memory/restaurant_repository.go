package memory

import (
	"context"

	"github.com/autochef0332/autochef/internal/core/domain"
)

// RestaurantRepository implements ports.RestaurantRepository. Rows are keyed by owner.
type RestaurantRepository struct {
	s *Store
}

func (r *RestaurantRepository) FindByOwner(_ context.Context, ownerID string) (*domain.Restaurant, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	row, ok := r.s.restaurants[ownerID]
	if !ok {
		return nil, domain.ErrRestaurantNotFound
	}
	return &row, nil
}

func (r *RestaurantRepository) FindBySecretKey(_ context.Context, key string) (*domain.Restaurant, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, row := range r.s.restaurants {
		if row.SecretKey == key {
			return &row, nil
		}
	}
	return nil, domain.ErrRestaurantNotFound
}

func (r *RestaurantRepository) Create(_ context.Context, rest *domain.Restaurant) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, exists := r.s.restaurants[rest.OwnerID]; exists {
		return domain.ErrRestaurantExists
	}
	r.s.restaurants[rest.OwnerID] = *rest
	return nil
}

func (r *RestaurantRepository) Update(_ context.Context, rest *domain.Restaurant) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	current, ok := r.s.restaurants[rest.OwnerID]
	if !ok || current.ID != rest.ID {
		return domain.ErrRestaurantNotFound
	}
	row := *rest
	row.SecretKey = current.SecretKey
	row.CreatedAt = current.CreatedAt
	r.s.restaurants[rest.OwnerID] = row
	return nil
}

func (r *RestaurantRepository) UpdateSecretKey(_ context.Context, ownerID, key string) (*domain.Restaurant, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	row, ok := r.s.restaurants[ownerID]
	if !ok {
		return nil, domain.ErrRestaurantNotFound
	}
	row.SecretKey = key
	row.UpdatedAt = r.s.now()
	r.s.restaurants[ownerID] = row
	return &row, nil
}
