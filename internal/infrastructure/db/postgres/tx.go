package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/autochef0332/autochef/internal/core/ordering"
)

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type txKey struct{}

func withTx(ctx context.Context, tx *sql.Tx) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

// conn returns the transaction carried by ctx, or db when there is none.
func conn(ctx context.Context, db *sql.DB) querier {
	if tx, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return tx
	}
	return db
}

var _ ordering.Locker = (*ScopeLocker)(nil)

// ScopeLocker serialises work on one ordered collection with a transaction-scoped
// advisory lock. fn runs inside that transaction; repositories called with the context
// it receives join it.
type ScopeLocker struct {
	db *sql.DB
}

func NewScopeLocker(db *sql.DB) *ScopeLocker {
	return &ScopeLocker{db: db}
}

func (l *ScopeLocker) WithScopeLock(ctx context.Context, scope ordering.Scope, fn func(ctx context.Context) error) error {
	if tx, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		if err := lockScope(ctx, tx, scope); err != nil {
			return err
		}
		return fn(ctx)
	}

	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", translate(err, nil))
	}
	defer func() { _ = tx.Rollback() }()

	if err := lockScope(ctx, tx, scope); err != nil {
		return err
	}
	if err := fn(withTx(ctx, tx)); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", translate(err, nil))
	}
	return nil
}

func lockScope(ctx context.Context, tx *sql.Tx, scope ordering.Scope) error {
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, "menu:"+scope.String()); err != nil {
		return fmt.Errorf("lock scope: %w", translate(err, nil))
	}
	return nil
}
