package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/autochef0332/autochef/internal/core/domain"
	"github.com/autochef0332/autochef/internal/core/ordering"
	"github.com/autochef0332/autochef/internal/core/ports"
)

var _ ports.ItemRepository = (*ItemRepository)(nil)

const itemColumns = `id, section_id, owner_id, name, description, price, image_url, is_available, position, created_at, updated_at`

// ItemRepository implements ports.ItemRepository. Every statement is scoped by
// owner_id and section_id.
type ItemRepository struct {
	db *sql.DB
}

func NewItemRepository(db *sql.DB) *ItemRepository {
	return &ItemRepository{db: db}
}

func (r *ItemRepository) ListScope(ctx context.Context, scope ordering.Scope) ([]domain.MenuItem, error) {
	query := `
		SELECT ` + itemColumns + `
		FROM menu_items
		WHERE owner_id = $1 AND section_id = $2
		ORDER BY position ASC, created_at ASC, id ASC`
	return r.list(ctx, "list items", query, scope.OwnerID, scope.ParentID)
}

func (r *ItemRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.MenuItem, error) {
	query := `
		SELECT ` + itemColumns + `
		FROM menu_items
		WHERE owner_id = $1
		ORDER BY position ASC, created_at ASC, id ASC`
	return r.list(ctx, "list owner items", query, ownerID)
}

func (r *ItemRepository) list(ctx context.Context, op, query string, args ...any) ([]domain.MenuItem, error) {
	rows, err := conn(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, translate(err, nil))
	}
	defer rows.Close()

	list := []domain.MenuItem{}
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, translate(err, nil))
		}
		list = append(list, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, translate(err, nil))
	}
	return list, nil
}

func (r *ItemRepository) Get(ctx context.Context, scope ordering.Scope, id string) (*domain.MenuItem, error) {
	if uuid.Validate(id) != nil {
		return nil, domain.ErrNotFound
	}
	query := `SELECT ` + itemColumns + ` FROM menu_items WHERE id = $1 AND owner_id = $2 AND section_id = $3`
	it, err := scanItem(conn(ctx, r.db).QueryRowContext(ctx, query, id, scope.OwnerID, scope.ParentID))
	if err != nil {
		return nil, fmt.Errorf("get item: %w", translate(err, domain.ErrNotFound))
	}
	return &it, nil
}

func (r *ItemRepository) Insert(ctx context.Context, scope ordering.Scope, position int, f domain.ItemFields) (domain.MenuItem, error) {
	query := `
		INSERT INTO menu_items (id, section_id, owner_id, name, description, price, image_url, is_available, position)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + itemColumns
	it, err := scanItem(conn(ctx, r.db).QueryRowContext(ctx, query,
		uuid.New().String(), scope.ParentID, scope.OwnerID,
		strings.TrimSpace(f.Name), nullableArg(f.Description), f.Price,
		nullableArg(f.ImageURL), f.Available(), position,
	))
	if err != nil {
		return domain.MenuItem{}, fmt.Errorf("insert item: %w", translate(err, nil))
	}
	return it, nil
}

func (r *ItemRepository) Update(ctx context.Context, scope ordering.Scope, id string, p domain.ItemPatch) (domain.MenuItem, error) {
	if uuid.Validate(id) != nil {
		return domain.MenuItem{}, domain.ErrNotFound
	}
	var b updateBuilder
	if p.Name != nil {
		b.set("name", strings.TrimSpace(*p.Name))
	}
	if p.Description != nil {
		b.set("description", nullableArg(p.Description))
	}
	if p.Price != nil {
		b.set("price", *p.Price)
	}
	if p.ImageURL != nil {
		b.set("image_url", nullableArg(p.ImageURL))
	}
	if p.IsAvailable != nil {
		b.set("is_available", *p.IsAvailable)
	}
	w := b.where(id, scope.OwnerID, scope.ParentID)
	query := fmt.Sprintf(`
		UPDATE menu_items SET %s
		WHERE id = %s AND owner_id = %s AND section_id = %s
		RETURNING %s`, b.clause(), w[0], w[1], w[2], itemColumns)

	it, err := scanItem(conn(ctx, r.db).QueryRowContext(ctx, query, b.args...))
	if err != nil {
		return domain.MenuItem{}, fmt.Errorf("update item: %w", translate(err, domain.ErrNotFound))
	}
	return it, nil
}

func (r *ItemRepository) Delete(ctx context.Context, scope ordering.Scope, id string) error {
	if uuid.Validate(id) != nil {
		return domain.ErrNotFound
	}
	res, err := conn(ctx, r.db).ExecContext(ctx,
		`DELETE FROM menu_items WHERE id = $1 AND owner_id = $2 AND section_id = $3`,
		id, scope.OwnerID, scope.ParentID)
	if err != nil {
		return fmt.Errorf("delete item: %w", translate(err, nil))
	}
	return expectOneRow(res, domain.ErrNotFound)
}

func (r *ItemRepository) DeleteScope(ctx context.Context, scope ordering.Scope) (int, error) {
	res, err := conn(ctx, r.db).ExecContext(ctx,
		`DELETE FROM menu_items WHERE owner_id = $1 AND section_id = $2`,
		scope.OwnerID, scope.ParentID)
	if err != nil {
		return 0, fmt.Errorf("delete items: %w", translate(err, nil))
	}
	n, err := res.RowsAffected()
	return int(n), err
}

func (r *ItemRepository) SetPosition(ctx context.Context, scope ordering.Scope, id string, position int) error {
	res, err := conn(ctx, r.db).ExecContext(ctx,
		`UPDATE menu_items SET position = $1, updated_at = NOW() WHERE id = $2 AND owner_id = $3 AND section_id = $4`,
		position, id, scope.OwnerID, scope.ParentID)
	if err != nil {
		return fmt.Errorf("set item position: %w", translate(err, nil))
	}
	return expectOneRow(res, domain.ErrNotFound)
}

func scanItem(row rowScanner) (domain.MenuItem, error) {
	var it domain.MenuItem
	err := row.Scan(
		&it.ID, &it.SectionID, &it.OwnerID, &it.Name, &it.Description, &it.Price,
		&it.ImageURL, &it.IsAvailable, &it.Position, &it.CreatedAt, &it.UpdatedAt,
	)
	return it, err
}
