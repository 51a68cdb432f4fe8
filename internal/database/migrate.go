package database

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pressly/goose/v3"

	"github.com/starter-api/backend/migrations"
)

// Migrate applies every pending migration for db's dialect.
func Migrate(ctx context.Context, db *DB, log *slog.Logger) error {
	provider, err := newProvider(db)
	if err != nil {
		return err
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("database.Migrate: %w", err)
	}
	for _, r := range results {
		log.InfoContext(ctx, "migration applied",
			"version", r.Source.Version,
			"path", r.Source.Path,
			"duration_ms", r.Duration.Milliseconds(),
		)
	}
	return nil
}

// MigrateDownTo rolls back to version. Version 0 removes every table.
func MigrateDownTo(ctx context.Context, db *DB, version int64) error {
	provider, err := newProvider(db)
	if err != nil {
		return err
	}
	if _, err := provider.DownTo(ctx, version); err != nil {
		return fmt.Errorf("database.MigrateDownTo: %w", err)
	}
	return nil
}

// MigrationStatus reports the applied state of each migration.
func MigrationStatus(ctx context.Context, db *DB) ([]*goose.MigrationStatus, error) {
	provider, err := newProvider(db)
	if err != nil {
		return nil, err
	}
	status, err := provider.Status(ctx)
	if err != nil {
		return nil, fmt.Errorf("database.MigrationStatus: %w", err)
	}
	return status, nil
}

func newProvider(db *DB) (*goose.Provider, error) {
	fsys, err := migrations.For(string(db.Dialect))
	if err != nil {
		return nil, err
	}
	provider, err := goose.NewProvider(goose.Dialect(db.Dialect), db.DB, fsys)
	if err != nil {
		return nil, fmt.Errorf("database: create goose provider: %w", err)
	}
	return provider, nil
}
