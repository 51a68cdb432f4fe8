// Package repo contains all database access logic for the starter API.
// Each resource has its own file with an interface and a database/sql
// implementation that works against SQLite, PostgreSQL and MySQL.
// No business logic lives here, only SQL and type mapping.
package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/starter-api/backend/internal/database"
	"github.com/starter-api/backend/internal/domain"
)

// db is the minimal interface satisfied by *sql.DB, *sql.Conn and *sql.Tx.
// Accepting this interface instead of *sql.DB directly allows integration
// tests to pass a transaction that is rolled back after each test.
type db interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// txBeginner is implemented by *sql.DB. Repos use it for multi-row writes
// when they were not handed a transaction.
type txBeginner interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// now returns the creation timestamp stored with new rows, truncated to
// the precision every supported database keeps.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

// insertReturningID runs an INSERT and returns the generated id, using
// RETURNING where the dialect has it and LastInsertId otherwise.
func insertReturningID(ctx context.Context, q db, dialect database.Dialect, stmt string, args ...any) (int64, error) {
	var id int64
	if dialect.SupportsReturning() {
		err := q.QueryRowContext(ctx, dialect.Rebind(stmt+" RETURNING id"), args...).Scan(&id)
		if err != nil {
			return 0, mapErr(err)
		}
		return id, nil
	}

	res, err := q.ExecContext(ctx, stmt, args...)
	if err != nil {
		return 0, mapErr(err)
	}
	if id, err = res.LastInsertId(); err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}
	return id, nil
}

// mapErr translates driver errors into domain sentinels.
func mapErr(err error) error {
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return domain.ErrNotFound
	case database.IsUniqueViolation(err):
		return errors.Join(domain.ErrConflict, err)
	case database.IsForeignKeyViolation(err):
		return errors.Join(domain.ErrNotFound, err)
	}
	return err
}
