package ports

import (
	"context"

	"github.com/autochef0332/autochef/internal/core/domain"
)

// AuthRepository defines the interface for owner account persistence.
type AuthRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
}
