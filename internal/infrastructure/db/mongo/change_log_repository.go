package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/autochef0332/autochef/internal/core/domain"
	"github.com/autochef0332/autochef/internal/core/ports"
)

const changesCollection = "menu_changes"

var _ ports.ChangeRecorder = (*ChangeLogRepository)(nil)

// ChangeLogRepository appends committed mutations to the menu_changes audit collection.
type ChangeLogRepository struct {
	coll *mongo.Collection
}

func NewChangeLogRepository(db *mongo.Database) *ChangeLogRepository {
	return &ChangeLogRepository{coll: db.Collection(changesCollection)}
}

func (r *ChangeLogRepository) Record(ctx context.Context, event domain.ChangeEvent) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := bson.M{
		"owner_id":      event.OwnerID,
		"restaurant_id": event.RestaurantID,
		"entity":        string(event.Entity),
		"entity_id":     event.EntityID,
		"action":        string(event.Action),
		"at":            event.At.UTC(),
		"recorded_at":   time.Now().UTC(),
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert change: %w", unavailable(err))
	}
	return nil
}

// EnsureIndexes indexes the audit trail by restaurant and time.
func (r *ChangeLogRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "restaurant_id", Value: 1}, {Key: "at", Value: -1}},
	})
	return err
}
