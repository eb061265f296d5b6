package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/binderhq/binder"
)

// quoteIdentifier safely quotes a SQLite identifier
func quoteIdentifier(name string) string {
	return `"` + name + `"`
}

type TableMigration struct {
	TableName string
	Up        func(ctx context.Context, db *sql.DB) error
	Down      func(ctx context.Context, db *sql.DB) error
}

// getTableMigrations returns all table migrations for the app
func getTableMigrations(tables binder.Tables) []TableMigration {
	migrations := []TableMigration{}

	migrations = append(migrations, TableMigration{
		TableName: tables.Items,
		Up:        createItemsTable(tables.Items),
		Down:      dropTable(tables.Items),
	})

	return migrations
}

func Migrate(ctx context.Context, db *sql.DB, tables binder.Tables) error {
	migrations := getTableMigrations(tables)

	for _, migration := range migrations {
		if err := migration.Up(ctx, db); err != nil {
			return fmt.Errorf("migrate up %s: %w", migration.TableName, err)
		}
	}

	return nil
}

func DropTables(ctx context.Context, db *sql.DB, tables binder.Tables) error {
	migrations := getTableMigrations(tables)

	for i := len(migrations) - 1; i >= 0; i-- {
		migration := migrations[i]
		if err := migration.Down(ctx, db); err != nil {
			return fmt.Errorf("migrate down %s: %w", migration.TableName, err)
		}
	}

	return nil
}

func createItemsTable(tableName string) func(context.Context, *sql.DB) error {
	return func(ctx context.Context, db *sql.DB) error {
		quotedTable := quoteIdentifier(tableName)
		indexChildren := quoteIdentifier(fmt.Sprintf("idx_%s_children", tableName))
		indexBin := quoteIdentifier(fmt.Sprintf("idx_%s_bin", tableName))

		stmt := fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				title TEXT NOT NULL,
				item_type TEXT NOT NULL,
				parent_id INTEGER,
				file_size_kb REAL,
				object_url TEXT,
				created_by TEXT NOT NULL DEFAULT 'admin',
				deleted_at TEXT,
				created_at TEXT NOT NULL,
				updated_at TEXT NOT NULL
			);

			CREATE INDEX IF NOT EXISTS %s
			ON %s (parent_id, item_type, title);

			CREATE INDEX IF NOT EXISTS %s
			ON %s (deleted_at);
		`,
			quotedTable,
			indexChildren, quotedTable,
			indexBin, quotedTable,
		)

		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create items table: %w", err)
		}
		return nil
	}
}

func dropTable(tableName string) func(context.Context, *sql.DB) error {
	return func(ctx context.Context, db *sql.DB) error {
		stmt := fmt.Sprintf(`DROP TABLE IF EXISTS %s`, quoteIdentifier(tableName))
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("drop table: %w", err)
		}
		return nil
	}
}
