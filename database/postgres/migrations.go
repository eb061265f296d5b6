package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/binderhq/binder"
)

// Migrate creates the items table and its indexes if they do not exist.
// There is deliberately no unique constraint on (parent_id, item_type,
// title): duplicate prevention is an application-level pre-check, and two
// concurrent identical creates can both land. See DESIGN.md.
func Migrate(ctx context.Context, pool *pgxpool.Pool, tables binder.Tables) error {
	if err := createItemsTable(ctx, pool, tables.Items); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// DropTables removes the items table. Used by tooling and test cleanup.
func DropTables(ctx context.Context, pool *pgxpool.Pool, tables binder.Tables) error {
	quotedTable := pgx.Identifier{tables.Items}.Sanitize()
	sql := fmt.Sprintf("DROP TABLE IF EXISTS %s CASCADE", quotedTable)
	if _, err := pool.Exec(ctx, sql); err != nil {
		return fmt.Errorf("drop tables: %w", err)
	}
	return nil
}

func createItemsTable(ctx context.Context, pool *pgxpool.Pool, tableName string) error {
	quotedTable := pgx.Identifier{tableName}.Sanitize()
	indexChildren := pgx.Identifier{fmt.Sprintf("idx_%s_children", tableName)}.Sanitize()
	indexBin := pgx.Identifier{fmt.Sprintf("idx_%s_bin", tableName)}.Sanitize()

	sql := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
			title TEXT NOT NULL,
			item_type TEXT NOT NULL,
			parent_id BIGINT,
			file_size_kb DOUBLE PRECISION,
			object_url TEXT,
			created_by TEXT NOT NULL DEFAULT 'admin',
			deleted_at TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE INDEX IF NOT EXISTS %s
		ON %s (parent_id, item_type, title)
		WHERE (deleted_at IS NULL);

		CREATE INDEX IF NOT EXISTS %s
		ON %s (deleted_at)
		WHERE (deleted_at IS NOT NULL);
	`,
		quotedTable,
		indexChildren, quotedTable,
		indexBin, quotedTable,
	)

	_, err := pool.Exec(ctx, sql)
	if err != nil {
		return fmt.Errorf("create items table: %w", err)
	}
	return nil
}
