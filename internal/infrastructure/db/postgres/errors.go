package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/autochef0332/autochef/internal/core/domain"
)

const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeNotNullViolation    = "23502"
	codeCheckViolation      = "23514"
)

// translate maps driver errors onto the domain taxonomy. notFound is returned for
// sql.ErrNoRows and conflict for unique violations; either may be nil when the
// statement cannot produce that outcome. A foreign key violation means the parent row
// is gone, so it is reported as domain.ErrNotFound.
func translate(err error, notFound error, conflict ...error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) && notFound != nil {
		return notFound
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		// Connection, timeout and pool failures never reach the server.
		return fmt.Errorf("%w: %v", domain.ErrBackendUnavailable, err)
	}

	switch {
	case pgErr.Code == codeUniqueViolation && len(conflict) > 0:
		return conflict[0]
	case pgErr.Code == codeForeignKeyViolation:
		return fmt.Errorf("%w: %s", domain.ErrNotFound, pgErr.ConstraintName)
	case pgErr.Code == codeNotNullViolation, pgErr.Code == codeCheckViolation, strings.HasPrefix(pgErr.Code, "22"):
		return &domain.ValidationError{Field: pgErr.ColumnName, Reason: "rejected by the database: " + pgErr.Message}
	case isTransientClass(pgErr.Code):
		return fmt.Errorf("%w: %v", domain.ErrBackendUnavailable, err)
	default:
		return err
	}
}

// isTransientClass reports SQLSTATE classes worth retrying later: connection exceptions,
// transaction rollbacks, insufficient resources and operator intervention.
func isTransientClass(code string) bool {
	if len(code) < 2 {
		return false
	}
	switch code[:2] {
	case "08", "40", "53", "57":
		return true
	}
	return false
}
