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

var _ ports.SectionRepository = (*SectionRepository)(nil)

const sectionColumns = `id, restaurant_id, owner_id, name, description, position, created_at, updated_at`

// SectionRepository implements ports.SectionRepository. Every statement is scoped by
// owner_id and restaurant_id.
type SectionRepository struct {
	db *sql.DB
}

func NewSectionRepository(db *sql.DB) *SectionRepository {
	return &SectionRepository{db: db}
}

func (r *SectionRepository) ListScope(ctx context.Context, scope ordering.Scope) ([]domain.MenuSection, error) {
	query := `
		SELECT ` + sectionColumns + `
		FROM menu_sections
		WHERE owner_id = $1 AND restaurant_id = $2
		ORDER BY position ASC, created_at ASC, id ASC`
	rows, err := conn(ctx, r.db).QueryContext(ctx, query, scope.OwnerID, scope.ParentID)
	if err != nil {
		return nil, fmt.Errorf("list sections: %w", translate(err, nil))
	}
	defer rows.Close()

	list := []domain.MenuSection{}
	for rows.Next() {
		s, err := scanSection(rows)
		if err != nil {
			return nil, fmt.Errorf("scan section: %w", translate(err, nil))
		}
		list = append(list, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list sections: %w", translate(err, nil))
	}
	return list, nil
}

func (r *SectionRepository) Get(ctx context.Context, scope ordering.Scope, id string) (*domain.MenuSection, error) {
	if uuid.Validate(id) != nil {
		return nil, domain.ErrNotFound
	}
	query := `SELECT ` + sectionColumns + ` FROM menu_sections WHERE id = $1 AND owner_id = $2 AND restaurant_id = $3`
	s, err := scanSection(conn(ctx, r.db).QueryRowContext(ctx, query, id, scope.OwnerID, scope.ParentID))
	if err != nil {
		return nil, fmt.Errorf("get section: %w", translate(err, domain.ErrNotFound))
	}
	return &s, nil
}

func (r *SectionRepository) Insert(ctx context.Context, scope ordering.Scope, position int, f domain.SectionFields) (domain.MenuSection, error) {
	query := `
		INSERT INTO menu_sections (id, restaurant_id, owner_id, name, description, position)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + sectionColumns
	s, err := scanSection(conn(ctx, r.db).QueryRowContext(ctx, query,
		uuid.New().String(), scope.ParentID, scope.OwnerID,
		strings.TrimSpace(f.Name), nullableArg(f.Description), position,
	))
	if err != nil {
		return domain.MenuSection{}, fmt.Errorf("insert section: %w", translate(err, nil))
	}
	return s, nil
}

func (r *SectionRepository) Update(ctx context.Context, scope ordering.Scope, id string, p domain.SectionPatch) (domain.MenuSection, error) {
	if uuid.Validate(id) != nil {
		return domain.MenuSection{}, domain.ErrNotFound
	}
	var b updateBuilder
	if p.Name != nil {
		b.set("name", strings.TrimSpace(*p.Name))
	}
	if p.Description != nil {
		b.set("description", nullableArg(p.Description))
	}
	w := b.where(id, scope.OwnerID, scope.ParentID)
	query := fmt.Sprintf(`
		UPDATE menu_sections SET %s
		WHERE id = %s AND owner_id = %s AND restaurant_id = %s
		RETURNING %s`, b.clause(), w[0], w[1], w[2], sectionColumns)

	s, err := scanSection(conn(ctx, r.db).QueryRowContext(ctx, query, b.args...))
	if err != nil {
		return domain.MenuSection{}, fmt.Errorf("update section: %w", translate(err, domain.ErrNotFound))
	}
	return s, nil
}

func (r *SectionRepository) Delete(ctx context.Context, scope ordering.Scope, id string) error {
	if uuid.Validate(id) != nil {
		return domain.ErrNotFound
	}
	res, err := conn(ctx, r.db).ExecContext(ctx,
		`DELETE FROM menu_sections WHERE id = $1 AND owner_id = $2 AND restaurant_id = $3`,
		id, scope.OwnerID, scope.ParentID)
	if err != nil {
		return fmt.Errorf("delete section: %w", translate(err, nil))
	}
	return expectOneRow(res, domain.ErrNotFound)
}

func (r *SectionRepository) DeleteScope(ctx context.Context, scope ordering.Scope) (int, error) {
	res, err := conn(ctx, r.db).ExecContext(ctx,
		`DELETE FROM menu_sections WHERE owner_id = $1 AND restaurant_id = $2`,
		scope.OwnerID, scope.ParentID)
	if err != nil {
		return 0, fmt.Errorf("delete sections: %w", translate(err, nil))
	}
	n, err := res.RowsAffected()
	return int(n), err
}

func (r *SectionRepository) SetPosition(ctx context.Context, scope ordering.Scope, id string, position int) error {
	res, err := conn(ctx, r.db).ExecContext(ctx,
		`UPDATE menu_sections SET position = $1, updated_at = NOW() WHERE id = $2 AND owner_id = $3 AND restaurant_id = $4`,
		position, id, scope.OwnerID, scope.ParentID)
	if err != nil {
		return fmt.Errorf("set section position: %w", translate(err, nil))
	}
	return expectOneRow(res, domain.ErrNotFound)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSection(row rowScanner) (domain.MenuSection, error) {
	var s domain.MenuSection
	err := row.Scan(&s.ID, &s.RestaurantID, &s.OwnerID, &s.Name, &s.Description, &s.Position, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}

// nullableArg maps a nil or blank string to SQL NULL.
func nullableArg(s *string) any {
	if s == nil {
		return nil
	}
	if v := domain.NullableString(*s); v != nil {
		return *v
	}
	return nil
}
