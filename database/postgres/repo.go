// Package postgres implements the item repo on PostgreSQL
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/binderhq/binder"
)

// itemColumns is the canonical select list; every scan site uses it so
// the column-to-field mapping lives in exactly one place (scanItem).
const itemColumns = "id, title, item_type, parent_id, file_size_kb, object_url, created_by, deleted_at, created_at, updated_at"

// orderFoldersFirst sorts folders ahead of files, then by title. Sorting
// on item_type directly would invert that ('file' < 'folder' as text).
const orderFoldersFirst = "ORDER BY CASE WHEN item_type = 'folder' THEN 0 ELSE 1 END, title ASC"

type Repo struct {
	pool      *pgxpool.Pool
	tableName string
}

func NewRepo(pool *pgxpool.Pool, tables binder.Tables) (*Repo, error) {
	if err := tables.Validate(); err != nil {
		return nil, fmt.Errorf("new repo: %w", err)
	}

	return &Repo{pool: pool, tableName: tables.Items}, nil
}

// Ping verifies database connectivity
func (r *Repo) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanItem maps one snake_case row onto the camelCase entity. This is
// the only place the two naming conventions meet.
func scanItem(row rowScanner) (binder.Item, error) {
	var item binder.Item
	var itemType string

	err := row.Scan(
		&item.ID,
		&item.Title,
		&itemType,
		&item.ParentID,
		&item.FileSizeKB,
		&item.ObjectURL,
		&item.CreatedBy,
		&item.DeletedAt,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if err != nil {
		return binder.Item{}, err
	}

	item.ItemType = binder.ItemType(itemType)
	return item, nil
}

func (r *Repo) GetByID(ctx context.Context, id int64) (binder.Item, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE id = $1 AND deleted_at IS NULL
	`, itemColumns, r.tableName)

	item, err := scanItem(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return binder.Item{}, binder.ErrNotFound
		}
		return binder.Item{}, fmt.Errorf("get by id: %w", err)
	}

	return item, nil
}

func (r *Repo) ListByParent(ctx context.Context, parentID *int64) ([]binder.Item, error) {
	var query string
	var args []any

	if parentID == nil {
		query = fmt.Sprintf(`
			SELECT %s
			FROM %s
			WHERE parent_id IS NULL AND deleted_at IS NULL
			%s
		`, itemColumns, r.tableName, orderFoldersFirst)
	} else {
		query = fmt.Sprintf(`
			SELECT %s
			FROM %s
			WHERE parent_id = $1 AND deleted_at IS NULL
			%s
		`, itemColumns, r.tableName, orderFoldersFirst)
		args = []any{*parentID}
	}

	return r.queryItems(ctx, "list by parent", query, args...)
}

func (r *Repo) SearchByTitle(ctx context.Context, title string) ([]binder.Item, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE title ILIKE '%%' || $1 || '%%' AND deleted_at IS NULL
		%s
	`, itemColumns, r.tableName, orderFoldersFirst)

	return r.queryItems(ctx, "search by title", query, binder.EscapeLikePattern(title))
}

func (r *Repo) FindByTitleParentType(ctx context.Context, title string, parentID *int64, itemType binder.ItemType) ([]binder.Item, error) {
	var query string
	var args []any

	if parentID == nil {
		query = fmt.Sprintf(`
			SELECT %s
			FROM %s
			WHERE title = $1 AND item_type = $2 AND parent_id IS NULL AND deleted_at IS NULL
		`, itemColumns, r.tableName)
		args = []any{title, string(itemType)}
	} else {
		query = fmt.Sprintf(`
			SELECT %s
			FROM %s
			WHERE title = $1 AND item_type = $2 AND parent_id = $3 AND deleted_at IS NULL
		`, itemColumns, r.tableName)
		args = []any{title, string(itemType), *parentID}
	}

	return r.queryItems(ctx, "find by title parent type", query, args...)
}

func (r *Repo) ListDeleted(ctx context.Context) ([]binder.Item, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE deleted_at IS NOT NULL
		%s
	`, itemColumns, r.tableName, orderFoldersFirst)

	return r.queryItems(ctx, "list deleted", query)
}

// Insert writes the row and reads it back in the same statement via
// RETURNING, so the stored defaults (id, timestamps) come from the
// database, not the process clock.
func (r *Repo) Insert(ctx context.Context, item binder.NewItem) (binder.Item, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (title, item_type, parent_id, file_size_kb, object_url, created_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING %s
	`, r.tableName, itemColumns)

	created, err := scanItem(r.pool.QueryRow(ctx, query,
		item.Title,
		string(item.ItemType),
		item.ParentID,
		item.FileSizeKB,
		item.ObjectURL,
		item.CreatedBy,
	))
	if err != nil {
		return binder.Item{}, fmt.Errorf("insert: %w", err)
	}

	return created, nil
}

func (r *Repo) SoftDelete(ctx context.Context, id int64) (bool, error) {
	query := fmt.Sprintf(`
		UPDATE %s
		SET deleted_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`, r.tableName)

	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("soft delete: %w", err)
	}

	return result.RowsAffected() > 0, nil
}

func (r *Repo) Restore(ctx context.Context, id int64) (bool, error) {
	query := fmt.Sprintf(`
		UPDATE %s
		SET deleted_at = NULL, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NOT NULL
	`, r.tableName)

	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("restore: %w", err)
	}

	return result.RowsAffected() > 0, nil
}

func (r *Repo) queryItems(ctx context.Context, opName, query string, args ...any) ([]binder.Item, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opName, err)
	}
	defer rows.Close()

	items := make([]binder.Item, 0)
	for rows.Next() {
		item, scanErr := scanItem(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("%s: scan: %w", opName, scanErr)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows: %w", opName, err)
	}

	return items, nil
}
