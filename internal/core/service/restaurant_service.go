package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/skip2/go-qrcode"

	"github.com/autochef0332/autochef/internal/core/domain"
	"github.com/autochef0332/autochef/internal/core/ports"
	"github.com/autochef0332/autochef/internal/pkg/metrics"
)

const qrSize = 256

// RestaurantService is the ownership resolver and the restaurant profile store.
type RestaurantService struct {
	repo    ports.RestaurantRepository
	changes changeLog
	logger  zerolog.Logger
	newKey  func() (string, error)
}

func NewRestaurantService(repo ports.RestaurantRepository, recorder ports.ChangeRecorder, logger zerolog.Logger) *RestaurantService {
	return &RestaurantService{
		repo:    repo,
		changes: changeLog{recorder: recorder, logger: logger},
		logger:  logger,
		newKey:  domain.NewSecretKey,
	}
}

// Get returns the owner's restaurant or domain.ErrRestaurantNotFound.
func (s *RestaurantService) Get(ctx context.Context, ownerID string) (*domain.Restaurant, error) {
	if ownerID == "" {
		return nil, domain.ErrUnauthorized
	}
	r, err := s.repo.FindByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("find restaurant: %w", err)
	}
	return r, nil
}

// Create completes onboarding. An owner has at most one restaurant.
func (s *RestaurantService) Create(ctx context.Context, ownerID string, fields domain.RestaurantFields) (*domain.Restaurant, error) {
	if ownerID == "" {
		return nil, domain.ErrUnauthorized
	}
	if err := fields.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.repo.FindByOwner(ctx, ownerID)
	switch {
	case err == nil && existing != nil:
		return nil, domain.ErrRestaurantExists
	case err != nil && !errors.Is(err, domain.ErrRestaurantNotFound):
		return nil, fmt.Errorf("find restaurant: %w", err)
	}

	key, err := s.newKey()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	base := domain.Restaurant{ID: uuid.New().String(), OwnerID: ownerID, SecretKey: key, CreatedAt: now, UpdatedAt: now}
	r := domain.RestaurantPatch{
		Name:      &fields.Name,
		Latitude:  fields.Latitude,
		Longitude: fields.Longitude,
	}.Apply(base)
	r.Phone = nullable(fields.Phone)
	r.Address = nullable(fields.Address)

	if err := s.repo.Create(ctx, &r); err != nil {
		s.logger.Error().Err(err).Str("owner_id", ownerID).Msg("failed to create restaurant")
		return nil, fmt.Errorf("create restaurant: %w", err)
	}

	s.logger.Info().Str("owner_id", ownerID).Str("restaurant_id", r.ID).Msg("restaurant created")
	s.changes.record(ctx, ownerID, r.ID, domain.EntityRestaurant, r.ID, domain.ActionCreated)
	return &r, nil
}

// Update applies a partial update from the settings screen.
func (s *RestaurantService) Update(ctx context.Context, ownerID string, patch domain.RestaurantPatch) (*domain.Restaurant, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}
	current, err := s.Get(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	updated := patch.Apply(*current)
	updated.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, &updated); err != nil {
		return nil, fmt.Errorf("update restaurant: %w", err)
	}

	s.logger.Info().Str("owner_id", ownerID).Str("restaurant_id", updated.ID).Msg("restaurant updated")
	s.changes.record(ctx, ownerID, updated.ID, domain.EntityRestaurant, updated.ID, domain.ActionUpdated)
	return &updated, nil
}

// ResetSecretKey replaces the integration key. The previous key stops resolving as soon as
// the write commits; on failure the previous key stays in force.
func (s *RestaurantService) ResetSecretKey(ctx context.Context, ownerID string) (*domain.Restaurant, error) {
	current, err := s.Get(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	key, err := s.newKey()
	if err != nil {
		return nil, err
	}
	if key == current.SecretKey {
		return nil, fmt.Errorf("reset secret key: generator repeated the current key")
	}

	updated, err := s.repo.UpdateSecretKey(ctx, ownerID, key)
	if err != nil {
		s.logger.Error().Err(err).Str("owner_id", ownerID).Msg("secret key rotation failed")
		return nil, fmt.Errorf("reset secret key: %w", err)
	}

	metrics.SecretKeyRotationsTotal.Inc()
	s.logger.Info().Str("owner_id", ownerID).Str("restaurant_id", updated.ID).Msg("secret key rotated")
	s.changes.record(ctx, ownerID, updated.ID, domain.EntityRestaurant, updated.ID, domain.ActionKeyRotated)
	return updated, nil
}

// SecretKeyQR renders the current key as a PNG QR code for pairing kitchen devices.
func (s *RestaurantService) SecretKeyQR(ctx context.Context, ownerID string) ([]byte, error) {
	r, err := s.Get(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	png, err := qrcode.Encode(r.SecretKey, qrcode.Medium, qrSize)
	if err != nil {
		return nil, fmt.Errorf("encode qr: %w", err)
	}
	return png, nil
}

// ResolveByKey authenticates an integration by its secret key.
func (s *RestaurantService) ResolveByKey(ctx context.Context, key string) (*domain.Restaurant, error) {
	if len(key) != domain.SecretKeyLength {
		return nil, domain.ErrUnauthorized
	}
	r, err := s.repo.FindBySecretKey(ctx, key)
	if err != nil {
		if errors.Is(err, domain.ErrRestaurantNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, fmt.Errorf("resolve key: %w", err)
	}
	return r, nil
}

func nullable(s *string) *string {
	if s == nil {
		return nil
	}
	return domain.NullableString(*s)
}
