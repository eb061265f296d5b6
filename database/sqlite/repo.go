// Package sqlite implements the item repo using SQLite
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/binderhq/binder"
)

const itemColumns = "id, title, item_type, parent_id, file_size_kb, object_url, created_by, deleted_at, created_at, updated_at"

// orderFoldersFirst sorts folders ahead of files, then by title. Sorting
// on item_type directly would invert that ('file' < 'folder' as text).
const orderFoldersFirst = "ORDER BY CASE WHEN item_type = 'folder' THEN 0 ELSE 1 END, title ASC"

type Repo struct {
	db        *sql.DB
	tableName string
}

func NewRepo(db *sql.DB, tables binder.Tables) (*Repo, error) {
	if err := tables.Validate(); err != nil {
		return nil, fmt.Errorf("new repo: %w", err)
	}

	return &Repo{db: db, tableName: tables.Items}, nil
}

// Ping verifies database connectivity
func (r *Repo) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanItem maps one row onto the entity. SQLite stores timestamps as
// RFC3339Nano text, so the time columns are parsed here.
func scanItem(row rowScanner) (binder.Item, error) {
	var item binder.Item
	var itemType string
	var parentID sql.NullInt64
	var fileSizeKB sql.NullFloat64
	var objectURL, deletedAt sql.NullString
	var createdAt, updatedAt string

	err := row.Scan(
		&item.ID,
		&item.Title,
		&itemType,
		&parentID,
		&fileSizeKB,
		&objectURL,
		&item.CreatedBy,
		&deletedAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return binder.Item{}, err
	}

	item.ItemType = binder.ItemType(itemType)
	if parentID.Valid {
		item.ParentID = &parentID.Int64
	}
	if fileSizeKB.Valid {
		item.FileSizeKB = &fileSizeKB.Float64
	}
	if objectURL.Valid {
		item.ObjectURL = &objectURL.String
	}

	if deletedAt.Valid {
		t, parseErr := time.Parse(time.RFC3339Nano, deletedAt.String)
		if parseErr != nil {
			return binder.Item{}, fmt.Errorf("parse deleted_at: %w", parseErr)
		}
		item.DeletedAt = &t
	}

	item.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return binder.Item{}, fmt.Errorf("parse created_at: %w", err)
	}

	item.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedAt)
	if err != nil {
		return binder.Item{}, fmt.Errorf("parse updated_at: %w", err)
	}

	return item, nil
}

func (r *Repo) GetByID(ctx context.Context, id int64) (binder.Item, error) {
	query := fmt.Sprintf( //nolint:gosec // G201: table name is validated
		`SELECT %s
		FROM %s
		WHERE id = ? AND deleted_at IS NULL`, itemColumns, r.tableName)

	item, err := scanItem(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
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
		query = fmt.Sprintf( //nolint:gosec // G201: table name is validated
			`SELECT %s
			FROM %s
			WHERE parent_id IS NULL AND deleted_at IS NULL
			%s`, itemColumns, r.tableName, orderFoldersFirst)
	} else {
		query = fmt.Sprintf( //nolint:gosec // G201: table name is validated
			`SELECT %s
			FROM %s
			WHERE parent_id = ? AND deleted_at IS NULL
			%s`, itemColumns, r.tableName, orderFoldersFirst)
		args = []any{*parentID}
	}

	return r.queryItems(ctx, "list by parent", query, args...)
}

func (r *Repo) SearchByTitle(ctx context.Context, title string) ([]binder.Item, error) {
	query := fmt.Sprintf( //nolint:gosec // G201: table name is validated
		`SELECT %s
		FROM %s
		WHERE title LIKE ? ESCAPE '\' AND deleted_at IS NULL
		%s`, itemColumns, r.tableName, orderFoldersFirst)

	pattern := "%" + binder.EscapeLikePattern(title) + "%"
	return r.queryItems(ctx, "search by title", query, pattern)
}

func (r *Repo) FindByTitleParentType(ctx context.Context, title string, parentID *int64, itemType binder.ItemType) ([]binder.Item, error) {
	var query string
	var args []any

	if parentID == nil {
		query = fmt.Sprintf( //nolint:gosec // G201: table name is validated
			`SELECT %s
			FROM %s
			WHERE title = ? AND item_type = ? AND parent_id IS NULL AND deleted_at IS NULL`,
			itemColumns, r.tableName)
		args = []any{title, string(itemType)}
	} else {
		query = fmt.Sprintf( //nolint:gosec // G201: table name is validated
			`SELECT %s
			FROM %s
			WHERE title = ? AND item_type = ? AND parent_id = ? AND deleted_at IS NULL`,
			itemColumns, r.tableName)
		args = []any{title, string(itemType), *parentID}
	}

	return r.queryItems(ctx, "find by title parent type", query, args...)
}

func (r *Repo) ListDeleted(ctx context.Context) ([]binder.Item, error) {
	query := fmt.Sprintf( //nolint:gosec // G201: table name is validated
		`SELECT %s
		FROM %s
		WHERE deleted_at IS NOT NULL
		%s`, itemColumns, r.tableName, orderFoldersFirst)

	return r.queryItems(ctx, "list deleted", query)
}

// Insert writes the row, then reads it back for the stored values. If the
// read-back fails the row still exists, so a reconstruction from the
// insert values and wall clock is returned instead of an error.
func (r *Repo) Insert(ctx context.Context, item binder.NewItem) (binder.Item, error) {
	now := time.Now().UTC()
	nowStr := now.Format(time.RFC3339Nano)

	query := fmt.Sprintf( //nolint:gosec // G201: table name is validated
		`INSERT INTO %s (title, item_type, parent_id, file_size_kb, object_url, created_by, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`, r.tableName)

	var parentID any
	if item.ParentID != nil {
		parentID = *item.ParentID
	}
	var fileSizeKB any
	if item.FileSizeKB != nil {
		fileSizeKB = *item.FileSizeKB
	}
	var objectURL any
	if item.ObjectURL != nil {
		objectURL = *item.ObjectURL
	}

	result, err := r.db.ExecContext(ctx, query,
		item.Title, string(item.ItemType), parentID, fileSizeKB, objectURL, item.CreatedBy, nowStr, nowStr,
	)
	if err != nil {
		return binder.Item{}, fmt.Errorf("insert: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return binder.Item{}, fmt.Errorf("insert: last insert id: %w", err)
	}

	created, err := r.GetByID(ctx, id)
	if err == nil {
		return created, nil
	}

	return binder.Item{
		ID:         id,
		Title:      item.Title,
		ItemType:   item.ItemType,
		ParentID:   item.ParentID,
		FileSizeKB: item.FileSizeKB,
		ObjectURL:  item.ObjectURL,
		CreatedBy:  item.CreatedBy,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

func (r *Repo) SoftDelete(ctx context.Context, id int64) (bool, error) {
	query := fmt.Sprintf( //nolint:gosec // G201: table name is validated
		`UPDATE %s
		SET deleted_at = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL`, r.tableName)

	now := time.Now().UTC().Format(time.RFC3339Nano)
	result, err := r.db.ExecContext(ctx, query, now, now, id)
	if err != nil {
		return false, fmt.Errorf("soft delete: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("soft delete: rows affected: %w", err)
	}

	return affected > 0, nil
}

func (r *Repo) Restore(ctx context.Context, id int64) (bool, error) {
	query := fmt.Sprintf( //nolint:gosec // G201: table name is validated
		`UPDATE %s
		SET deleted_at = NULL, updated_at = ?
		WHERE id = ? AND deleted_at IS NOT NULL`, r.tableName)

	now := time.Now().UTC().Format(time.RFC3339Nano)
	result, err := r.db.ExecContext(ctx, query, now, id)
	if err != nil {
		return false, fmt.Errorf("restore: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("restore: rows affected: %w", err)
	}

	return affected > 0, nil
}

func (r *Repo) queryItems(ctx context.Context, opName, query string, args ...any) ([]binder.Item, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opName, err)
	}
	defer func() { _ = rows.Close() }()

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
