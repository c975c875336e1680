package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/autochef0332/autochef/internal/core/domain"
	"github.com/autochef0332/autochef/internal/core/ports"
)

var _ ports.RestaurantRepository = (*RestaurantRepository)(nil)

const restaurantColumns = `id, owner_id, name, phone, address, latitude, longitude, unique_key, created_at, updated_at`

// RestaurantRepository implements ports.RestaurantRepository over PostgreSQL.
type RestaurantRepository struct {
	db *sql.DB
}

func NewRestaurantRepository(db *sql.DB) *RestaurantRepository {
	return &RestaurantRepository{db: db}
}

func (r *RestaurantRepository) FindByOwner(ctx context.Context, ownerID string) (*domain.Restaurant, error) {
	query := `SELECT ` + restaurantColumns + ` FROM restaurants WHERE owner_id = $1`
	return r.scanOne(conn(ctx, r.db).QueryRowContext(ctx, query, ownerID), "find restaurant by owner")
}

func (r *RestaurantRepository) FindBySecretKey(ctx context.Context, key string) (*domain.Restaurant, error) {
	query := `SELECT ` + restaurantColumns + ` FROM restaurants WHERE unique_key = $1`
	return r.scanOne(conn(ctx, r.db).QueryRowContext(ctx, query, key), "find restaurant by key")
}

func (r *RestaurantRepository) Create(ctx context.Context, rest *domain.Restaurant) error {
	query := `
		INSERT INTO restaurants (id, owner_id, name, phone, address, latitude, longitude, unique_key, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := conn(ctx, r.db).ExecContext(ctx, query,
		rest.ID, rest.OwnerID, rest.Name, rest.Phone, rest.Address,
		rest.Latitude, rest.Longitude, rest.SecretKey, rest.CreatedAt, rest.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert restaurant: %w", translate(err, nil, domain.ErrRestaurantExists))
	}
	return nil
}

// Update writes the profile fields. The secret key is only changed by UpdateSecretKey.
func (r *RestaurantRepository) Update(ctx context.Context, rest *domain.Restaurant) error {
	query := `
		UPDATE restaurants
		SET name = $3, phone = $4, address = $5, latitude = $6, longitude = $7, updated_at = $8
		WHERE id = $1 AND owner_id = $2`
	res, err := conn(ctx, r.db).ExecContext(ctx, query,
		rest.ID, rest.OwnerID, rest.Name, rest.Phone, rest.Address,
		rest.Latitude, rest.Longitude, rest.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update restaurant: %w", translate(err, nil))
	}
	return expectOneRow(res, domain.ErrRestaurantNotFound)
}

func (r *RestaurantRepository) UpdateSecretKey(ctx context.Context, ownerID, key string) (*domain.Restaurant, error) {
	query := `
		UPDATE restaurants SET unique_key = $2, updated_at = NOW()
		WHERE owner_id = $1
		RETURNING ` + restaurantColumns
	return r.scanOne(conn(ctx, r.db).QueryRowContext(ctx, query, ownerID, key), "update secret key")
}

func (r *RestaurantRepository) scanOne(row *sql.Row, op string) (*domain.Restaurant, error) {
	var rest domain.Restaurant
	err := row.Scan(
		&rest.ID, &rest.OwnerID, &rest.Name, &rest.Phone, &rest.Address,
		&rest.Latitude, &rest.Longitude, &rest.SecretKey, &rest.CreatedAt, &rest.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, translate(err, domain.ErrRestaurantNotFound))
	}
	return &rest, nil
}

func expectOneRow(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return notFound
	}
	return nil
}
