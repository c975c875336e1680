package ports

import (
	"context"

	"github.com/autochef0332/autochef/internal/core/domain"
)

// RestaurantRepository persists restaurant profiles. Lookups that match nothing
// return domain.ErrRestaurantNotFound.
type RestaurantRepository interface {
	FindByOwner(ctx context.Context, ownerID string) (*domain.Restaurant, error)
	FindBySecretKey(ctx context.Context, key string) (*domain.Restaurant, error)
	// Create returns domain.ErrRestaurantExists when the owner already has a restaurant.
	Create(ctx context.Context, r *domain.Restaurant) error
	Update(ctx context.Context, r *domain.Restaurant) error
	// UpdateSecretKey replaces the key in a single-row write.
	UpdateSecretKey(ctx context.Context, ownerID, key string) (*domain.Restaurant, error)
}
