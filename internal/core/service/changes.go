package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/autochef0332/autochef/internal/core/domain"
	"github.com/autochef0332/autochef/internal/core/ports"
	"github.com/autochef0332/autochef/internal/pkg/metrics"
)

// changeLog counts a committed mutation and hands it to the recorder. A recorder
// failure is logged and never reaches the caller: the mutation already committed.
type changeLog struct {
	recorder ports.ChangeRecorder
	logger   zerolog.Logger
}

func (c changeLog) record(ctx context.Context, ownerID, restaurantID string, entity domain.ChangeEntity, entityID string, action domain.ChangeAction) {
	metrics.MutationsTotal.WithLabelValues(string(entity), string(action)).Inc()
	if c.recorder == nil {
		return
	}
	event := domain.ChangeEvent{
		OwnerID:      ownerID,
		RestaurantID: restaurantID,
		Entity:       entity,
		EntityID:     entityID,
		Action:       action,
		At:           time.Now().UTC(),
	}
	if err := c.recorder.Record(context.WithoutCancel(ctx), event); err != nil {
		c.logger.Warn().Err(err).
			Str("entity", string(entity)).
			Str("entity_id", entityID).
			Str("action", string(action)).
			Msg("change event not recorded")
	}
}
