package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autochef0332/autochef/internal/core/domain"
	"github.com/autochef0332/autochef/internal/core/ordering"
)

const (
	sectionA = "6f1c2a9e-1d53-4a55-9a4f-3b3a1f0f8a01"
	sectionB = "6f1c2a9e-1d53-4a55-9a4f-3b3a1f0f8a02"
	itemA    = "0b7e4c1d-5f0e-4d8b-8c61-7d2a9b1e4c01"
)

var scope = ordering.Scope{OwnerID: "owner-1", ParentID: "rest-1"}

func setupMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, mock
}

var sectionCols = []string{"id", "restaurant_id", "owner_id", "name", "description", "position", "created_at", "updated_at"}

var itemCols = []string{
	"id", "section_id", "owner_id", "name", "description", "price",
	"image_url", "is_available", "position", "created_at", "updated_at",
}

// ---- sections

func TestSectionRepository_ListScope(t *testing.T) {
	db, mock := setupMockDB(t)
	now := time.Now()

	mock.ExpectQuery("SELECT (.+) FROM menu_sections").
		WithArgs("owner-1", "rest-1").
		WillReturnRows(sqlmock.NewRows(sectionCols).
			AddRow(sectionA, "rest-1", "owner-1", "Starters", nil, 0, now, now).
			AddRow(sectionB, "rest-1", "owner-1", "Mains", "Hot food", 1, now, now))

	list, err := NewSectionRepository(db).ListScope(context.Background(), scope)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Starters", list[0].Name)
	assert.Nil(t, list[0].Description)
	require.NotNil(t, list[1].Description)
	assert.Equal(t, "Hot food", *list[1].Description)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSectionRepository_Insert(t *testing.T) {
	db, mock := setupMockDB(t)
	now := time.Now()
	desc := "  "

	mock.ExpectQuery("INSERT INTO menu_sections").
		WithArgs(sqlmock.AnyArg(), "rest-1", "owner-1", "Desserts", nil, 3).
		WillReturnRows(sqlmock.NewRows(sectionCols).
			AddRow(sectionA, "rest-1", "owner-1", "Desserts", nil, 3, now, now))

	s, err := NewSectionRepository(db).Insert(context.Background(), scope, 3, domain.SectionFields{Name: " Desserts ", Description: &desc})
	require.NoError(t, err)
	assert.Equal(t, 3, s.Position)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSectionRepository_UpdateBuildsPartialSet(t *testing.T) {
	db, mock := setupMockDB(t)
	now := time.Now()
	name := "Drinks"

	mock.ExpectQuery(`UPDATE menu_sections SET name = \$1, updated_at = NOW\(\)`).
		WithArgs("Drinks", sectionA, "owner-1", "rest-1").
		WillReturnRows(sqlmock.NewRows(sectionCols).
			AddRow(sectionA, "rest-1", "owner-1", "Drinks", nil, 0, now, now))

	s, err := NewSectionRepository(db).Update(context.Background(), scope, sectionA, domain.SectionPatch{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Drinks", s.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSectionRepository_UpdateMissingIsNotFound(t *testing.T) {
	db, mock := setupMockDB(t)
	name := "Drinks"

	mock.ExpectQuery("UPDATE menu_sections").WillReturnError(sql.ErrNoRows)

	_, err := NewSectionRepository(db).Update(context.Background(), scope, sectionA, domain.SectionPatch{Name: &name})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSectionRepository_MalformedIDSkipsQuery(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewSectionRepository(db)

	_, err := repo.Get(context.Background(), scope, "not-a-uuid")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, repo.Delete(context.Background(), scope, "not-a-uuid"), domain.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSectionRepository_SetPositionMissingRow(t *testing.T) {
	db, mock := setupMockDB(t)

	mock.ExpectExec("UPDATE menu_sections SET position").
		WithArgs(2, sectionB, "owner-1", "rest-1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := NewSectionRepository(db).SetPosition(context.Background(), scope, sectionB, 2)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSectionRepository_DeleteScopeCountsRows(t *testing.T) {
	db, mock := setupMockDB(t)

	mock.ExpectExec("DELETE FROM menu_sections").
		WithArgs("owner-1", "rest-1").
		WillReturnResult(sqlmock.NewResult(0, 3))

	n, err := NewSectionRepository(db).DeleteScope(context.Background(), scope)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

// ---- items

func TestItemRepository_GetScansPriceAndImage(t *testing.T) {
	db, mock := setupMockDB(t)
	now := time.Now()
	itemScope := ordering.Scope{OwnerID: "owner-1", ParentID: sectionA}

	mock.ExpectQuery("SELECT (.+) FROM menu_items WHERE id").
		WithArgs(itemA, "owner-1", sectionA).
		WillReturnRows(sqlmock.NewRows(itemCols).
			AddRow(itemA, sectionA, "owner-1", "Soup", nil, "12.50", "https://cdn/x.png", true, 0, now, now))

	it, err := NewItemRepository(db).Get(context.Background(), itemScope, itemA)
	require.NoError(t, err)
	assert.True(t, it.Price.Equal(decimal.RequireFromString("12.5")))
	require.NotNil(t, it.ImageURL)
	assert.Equal(t, "https://cdn/x.png", *it.ImageURL)
	assert.True(t, it.IsAvailable)
}

func TestItemRepository_UpdateClearsImage(t *testing.T) {
	db, mock := setupMockDB(t)
	now := time.Now()
	itemScope := ordering.Scope{OwnerID: "owner-1", ParentID: sectionA}
	empty := ""
	off := false

	mock.ExpectQuery(`UPDATE menu_items SET image_url = \$1, is_available = \$2, updated_at = NOW\(\)`).
		WithArgs(nil, false, itemA, "owner-1", sectionA).
		WillReturnRows(sqlmock.NewRows(itemCols).
			AddRow(itemA, sectionA, "owner-1", "Soup", nil, "4.00", nil, false, 0, now, now))

	it, err := NewItemRepository(db).Update(context.Background(), itemScope, itemA, domain.ItemPatch{ImageURL: &empty, IsAvailable: &off})
	require.NoError(t, err)
	assert.Nil(t, it.ImageURL)
	assert.False(t, it.IsAvailable)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestItemRepository_ListByOwner(t *testing.T) {
	db, mock := setupMockDB(t)
	now := time.Now()

	mock.ExpectQuery("SELECT (.+) FROM menu_items").
		WithArgs("owner-1").
		WillReturnRows(sqlmock.NewRows(itemCols).
			AddRow(itemA, sectionA, "owner-1", "Soup", nil, "4.00", nil, true, 0, now, now))

	list, err := NewItemRepository(db).ListByOwner(context.Background(), "owner-1")
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestItemRepository_InsertIntoDeletedSection(t *testing.T) {
	db, mock := setupMockDB(t)

	mock.ExpectQuery("INSERT INTO menu_items").
		WillReturnError(&pgconn.PgError{Code: "23503", ConstraintName: "menu_items_section_id_fkey"})

	itemScope := ordering.Scope{OwnerID: "owner-1", ParentID: sectionA}
	_, err := NewItemRepository(db).Insert(context.Background(), itemScope, 0, domain.ItemFields{Name: "Soup", Price: decimal.RequireFromString("4")})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

// ---- restaurants

func TestRestaurantRepository_CreateConflict(t *testing.T) {
	db, mock := setupMockDB(t)

	mock.ExpectExec("INSERT INTO restaurants").
		WillReturnError(&pgconn.PgError{Code: "23505", Message: "duplicate key"})

	err := NewRestaurantRepository(db).Create(context.Background(), &domain.Restaurant{ID: "r", OwnerID: "o", Name: "Cafe"})
	assert.ErrorIs(t, err, domain.ErrRestaurantExists)
}

func TestRestaurantRepository_FindByOwnerNotFound(t *testing.T) {
	db, mock := setupMockDB(t)

	mock.ExpectQuery("SELECT (.+) FROM restaurants WHERE owner_id").
		WithArgs("nobody").
		WillReturnError(sql.ErrNoRows)

	_, err := NewRestaurantRepository(db).FindByOwner(context.Background(), "nobody")
	assert.ErrorIs(t, err, domain.ErrRestaurantNotFound)
}

func TestRestaurantRepository_UpdateNoRows(t *testing.T) {
	db, mock := setupMockDB(t)

	mock.ExpectExec("UPDATE restaurants").WillReturnResult(sqlmock.NewResult(0, 0))

	err := NewRestaurantRepository(db).Update(context.Background(), &domain.Restaurant{ID: "r", OwnerID: "o", Name: "Cafe"})
	assert.ErrorIs(t, err, domain.ErrRestaurantNotFound)
}

// ---- locking

func TestScopeLocker_CommitsOnSuccess(t *testing.T) {
	db, mock := setupMockDB(t)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectExec("SELECT pg_advisory_xact_lock").
		WithArgs("menu:owner-1:rest-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT (.+) FROM menu_sections").
		WillReturnRows(sqlmock.NewRows(sectionCols).AddRow(sectionA, "rest-1", "owner-1", "Starters", nil, 0, now, now))
	mock.ExpectCommit()

	repo := NewSectionRepository(db)
	err := NewScopeLocker(db).WithScopeLock(context.Background(), scope, func(ctx context.Context) error {
		_, err := repo.ListScope(ctx, scope)
		return err
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScopeLocker_RollsBackOnError(t *testing.T) {
	db, mock := setupMockDB(t)
	boom := errors.New("boom")

	mock.ExpectBegin()
	mock.ExpectExec("SELECT pg_advisory_xact_lock").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectRollback()

	err := NewScopeLocker(db).WithScopeLock(context.Background(), scope, func(context.Context) error {
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScopeLocker_NestedJoinsOuterTransaction(t *testing.T) {
	db, mock := setupMockDB(t)
	inner := ordering.Scope{OwnerID: "owner-1", ParentID: sectionA}

	mock.ExpectBegin()
	mock.ExpectExec("SELECT pg_advisory_xact_lock").WithArgs("menu:owner-1:rest-1").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("SELECT pg_advisory_xact_lock").WithArgs("menu:owner-1:" + sectionA).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	locker := NewScopeLocker(db)
	err := locker.WithScopeLock(context.Background(), scope, func(ctx context.Context) error {
		return locker.WithScopeLock(ctx, inner, func(context.Context) error { return nil })
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ---- errors

func TestTranslate(t *testing.T) {
	assert.Nil(t, translate(nil, domain.ErrNotFound))
	assert.ErrorIs(t, translate(sql.ErrNoRows, domain.ErrNotFound), domain.ErrNotFound)
	assert.ErrorIs(t, translate(errors.New("dial tcp: refused"), nil), domain.ErrBackendUnavailable)
	assert.ErrorIs(t, translate(&pgconn.PgError{Code: "23514", ColumnName: "price"}, nil), domain.ErrValidation)
	assert.ErrorIs(t, translate(&pgconn.PgError{Code: "22P02"}, nil), domain.ErrValidation)
	assert.ErrorIs(t, translate(&pgconn.PgError{Code: "40001"}, nil), domain.ErrBackendUnavailable)
	assert.ErrorIs(t, translate(&pgconn.PgError{Code: "23505"}, nil, domain.ErrUserExists), domain.ErrUserExists)
	assert.ErrorIs(t, translate(&pgconn.PgError{Code: "23503", ConstraintName: "menu_items_section_id_fkey"}, nil), domain.ErrNotFound)

	unknown := &pgconn.PgError{Code: "42P01"}
	assert.Same(t, unknown, translate(unknown, nil))
}

func TestApplyMigrations_SkipsRecordedVersions(t *testing.T) {
	db, mock := setupMockDB(t)

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS schema_migrations").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("0001_menu.up.sql").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	require.NoError(t, ApplyMigrations(context.Background(), db))
	assert.NoError(t, mock.ExpectationsWereMet())
}
