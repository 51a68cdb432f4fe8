package main

import (
	"context"
	"fmt"
	"log/slog"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/starter-api/backend/internal/config"
	"github.com/starter-api/backend/internal/database"
	"github.com/starter-api/backend/internal/logging"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the database schema",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply every pending migration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withDatabase(cmd.Context(), func(ctx context.Context, db *database.DB, log *slog.Logger) error {
			return database.Migrate(ctx, db, log)
		})
	},
}

var migrateDownTo int64

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back to a schema version (default: remove every table)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withDatabase(cmd.Context(), func(ctx context.Context, db *database.DB, log *slog.Logger) error {
			if err := database.MigrateDownTo(ctx, db, migrateDownTo); err != nil {
				return err
			}
			log.InfoContext(ctx, "migrations rolled back", "version", migrateDownTo)
			return nil
		})
	},
}

var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "List migrations and whether they are applied",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withDatabase(cmd.Context(), func(ctx context.Context, db *database.DB, _ *slog.Logger) error {
			status, err := database.MigrationStatus(ctx, db)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "VERSION\tSTATE\tAPPLIED AT\tSOURCE")
			for _, s := range status {
				applied := "-"
				if !s.AppliedAt.IsZero() {
					applied = s.AppliedAt.UTC().Format(time.RFC3339)
				}
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", s.Source.Version, s.State, applied, s.Source.Path)
			}
			return w.Flush()
		})
	},
}

func init() {
	migrateDownCmd.Flags().Int64Var(&migrateDownTo, "to", 0, "schema version to roll back to")
	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd, migrateStatusCmd)
}

// withDatabase loads settings, opens the database and runs fn with the db
// logger.
func withDatabase(ctx context.Context, fn func(ctx context.Context, db *database.DB, log *slog.Logger) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logs, err := logging.New(cfg.Logging)
	if err != nil {
		return err
	}
	defer logs.Close()

	db, err := database.Open(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	return fn(ctx, db, logs.Logger(logging.DB))
}
