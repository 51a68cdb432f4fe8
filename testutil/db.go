// Package testutil provides shared helpers for integration tests.
// SQLite helpers always run against a throwaway file. Postgres helpers skip
// automatically when TEST_DATABASE_URL is not set, so unit tests can run
// without a running database server.
package testutil

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	_ "github.com/jackc/pgx/v5/stdlib" // registers "pgx" driver for database/sql

	"github.com/starter-api/backend/internal/config"
	"github.com/starter-api/backend/internal/database"
)

// NewSQLiteDB opens a migrated SQLite database in a temp directory.
// It is closed automatically when the test finishes.
func NewSQLiteDB(t *testing.T) *database.DB {
	t.Helper()

	db, err := database.Open(context.Background(), config.Database{
		Type:          config.SQLite,
		SQLitePath:    filepath.Join(t.TempDir(), "test.sqlite3"),
		MaxOpenConns:  4,
		MaxIdleConns:  4,
		RetryAttempts: 1,
	})
	if err != nil {
		t.Fatalf("testutil.NewSQLiteDB: open: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := database.Migrate(context.Background(), db, Logger()); err != nil {
		t.Fatalf("testutil.NewSQLiteDB: migrate: %v", err)
	}
	return db
}

// NewPostgresDB opens a *database.DB connected to the database specified by
// the TEST_DATABASE_URL environment variable using the pgx database/sql
// driver. Migrations are expected to have been applied by TestMain.
//
// The test is skipped automatically if TEST_DATABASE_URL is not set, so
// integration tests are opt-in and never break CI environments that lack a DB.
func NewPostgresDB(t *testing.T) *database.DB {
	t.Helper()

	dsn := requireDSN(t)

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Fatalf("testutil.NewPostgresDB: open: %v", err)
	}

	if err := db.PingContext(context.Background()); err != nil {
		db.Close()
		t.Fatalf("testutil.NewPostgresDB: ping: %v", err)
	}

	t.Cleanup(func() { db.Close() })
	return &database.DB{DB: db, Dialect: database.DialectPostgres}
}

// MustOpenPostgresDB opens a *database.DB for the given DSN and panics on
// any error. Use this in TestMain functions where no *testing.T is
// available. Callers are responsible for closing the returned DB.
func MustOpenPostgresDB(dsn string) *database.DB {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		panic("testutil.MustOpenPostgresDB: open: " + err.Error())
	}
	if err := db.PingContext(context.Background()); err != nil {
		db.Close()
		panic("testutil.MustOpenPostgresDB: ping: " + err.Error())
	}
	return &database.DB{DB: db, Dialect: database.DialectPostgres}
}

// Databases returns every database the tests can reach, keyed by dialect.
// SQLite is always present; Postgres only when TEST_DATABASE_URL is set.
func Databases(t *testing.T) map[string]*database.DB {
	t.Helper()

	dbs := map[string]*database.DB{"sqlite": NewSQLiteDB(t)}
	if os.Getenv("TEST_DATABASE_URL") != "" {
		dbs["postgres"] = NewPostgresDB(t)
	}
	return dbs
}

// NewTx begins a transaction on db that is rolled back when the test
// finishes, giving per-test isolation without manual cleanup.
func NewTx(t *testing.T, db *database.DB) *sql.Tx {
	t.Helper()

	tx, err := db.BeginTx(context.Background(), nil)
	if err != nil {
		t.Fatalf("testutil.NewTx: begin: %v", err)
	}
	t.Cleanup(func() { _ = tx.Rollback() })
	return tx
}

// Logger returns a logger that discards everything.
func Logger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// requireDSN returns the TEST_DATABASE_URL environment variable value,
// skipping the test if it is not set.
func requireDSN(t *testing.T) string {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set; skipping integration test")
	}
	return dsn
}
