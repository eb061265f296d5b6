package main

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
	_ "modernc.org/sqlite"

	"github.com/binderhq/binder/config"
	"github.com/binderhq/binder/database/postgres"
	"github.com/binderhq/binder/database/sqlite"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	Long: `Run migrations against the configured database.

With --drop, existing tables are removed first. This destroys all data.`,
	RunE: runMigrate,
}

var migrateDrop bool

func init() {
	migrateCmd.Flags().BoolVar(&migrateDrop, "drop", false, "drop existing tables before migrating")

	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := config.FromContext(ctx)
	if err != nil {
		return err
	}

	switch cfg.Database.Type {
	case "sqlite":
		db, openErr := sql.Open("sqlite", cfg.Database.DSN)
		if openErr != nil {
			return fmt.Errorf("open sqlite: %w", openErr)
		}
		defer func() { _ = db.Close() }()

		if migrateDrop {
			if err = sqlite.DropTables(ctx, db, cfg.Database.Tables); err != nil {
				return fmt.Errorf("drop tables: %w", err)
			}
			slog.Info("dropped tables")
		}

		if err = sqlite.Migrate(ctx, db, cfg.Database.Tables); err != nil {
			return fmt.Errorf("migrate sqlite: %w", err)
		}

	case "postgres":
		pool, poolErr := pgxpool.New(ctx, cfg.Database.DSN)
		if poolErr != nil {
			return fmt.Errorf("connect postgres: %w", poolErr)
		}
		defer pool.Close()

		if migrateDrop {
			if err = postgres.DropTables(ctx, pool, cfg.Database.Tables); err != nil {
				return fmt.Errorf("drop tables: %w", err)
			}
			slog.Info("dropped tables")
		}

		if err = postgres.Migrate(ctx, pool, cfg.Database.Tables); err != nil {
			return fmt.Errorf("migrate postgres: %w", err)
		}

		if err = postgres.ValidateSchema(ctx, pool, cfg.Database.Tables); err != nil {
			return fmt.Errorf("validate schema: %w", err)
		}

	default:
		return fmt.Errorf("unsupported database type: %s", cfg.Database.Type)
	}

	slog.Info("migration complete", "type", cfg.Database.Type, "table", cfg.Database.Tables.Items)
	return nil
}
