package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/autochef0332/autochef/internal/core/domain"
	"github.com/autochef0332/autochef/internal/core/ports"
)

// SessionService feeds the route guard. It only reads.
type SessionService struct {
	restaurants ports.RestaurantRepository
}

func NewSessionService(restaurants ports.RestaurantRepository) *SessionService {
	return &SessionService{restaurants: restaurants}
}

// State resolves the guard state of ownerID. Backend failures are returned as errors
// rather than guessed into a state.
func (s *SessionService) State(ctx context.Context, ownerID string) (domain.SessionState, error) {
	if ownerID == "" {
		return domain.ResolveSessionState(false, false), nil
	}
	_, err := s.restaurants.FindByOwner(ctx, ownerID)
	switch {
	case err == nil:
		return domain.ResolveSessionState(true, true), nil
	case errors.Is(err, domain.ErrRestaurantNotFound):
		return domain.ResolveSessionState(true, false), nil
	default:
		return "", fmt.Errorf("resolve session state: %w", err)
	}
}
