package binder

import (
	"errors"
	"fmt"
	"regexp"
	"time"
)

// ItemType distinguishes folders from files in the hierarchy.
type ItemType string

const (
	TypeFolder ItemType = "folder"
	TypeFile   ItemType = "file"
)

func (t ItemType) IsValid() bool {
	switch t {
	case TypeFolder, TypeFile:
		return true
	default:
		return false
	}
}

func ParseItemType(s string) (ItemType, error) {
	t := ItemType(s)
	if !t.IsValid() {
		return "", fmt.Errorf("invalid item type: %s (valid types: folder, file)", s)
	}
	return t, nil
}

// Item is a folder or file record in the document hierarchy.
// Columns are snake_case in the store; the JSON shape is camelCase and
// the repositories are the only translation point.
type Item struct {
	ID         int64      `json:"id"`
	Title      string     `json:"title"`
	ItemType   ItemType   `json:"itemType"`
	ParentID   *int64     `json:"parentId"`
	FileSizeKB *float64   `json:"fileSizeKb"`
	ObjectURL  *string    `json:"objectUrl"`
	CreatedBy  string     `json:"createdBy"`
	DeletedAt  *time.Time `json:"deletedAt,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

// CreateItem carries caller-supplied fields for a new item.
type CreateItem struct {
	Title      string   `json:"title"`
	ItemType   ItemType `json:"itemType"`
	ParentID   *int64   `json:"parentId"`
	FileSizeKB *float64 `json:"fileSizeKb"`
	CreatedBy  string   `json:"createdBy"`
}

// NewItem is the row the repository persists. ObjectURL is filled in by
// the service for files before insert, never by callers.
type NewItem struct {
	Title      string
	ItemType   ItemType
	ParentID   *int64
	FileSizeKB *float64
	ObjectURL  *string
	CreatedBy  string
}

// CreateResult pairs the persisted item with the one-time upload URL
// issued for file items. UploadURL is never stored.
type CreateResult struct {
	Item      Item
	UploadURL string
}

// ListFilter selects which listing a caller wants. At most one of Title
// and ParentID may be set; both empty means the root listing.
type ListFilter struct {
	Title    string
	ParentID *int64
}

// SignedUpload is the credential pair returned by an UploadSigner.
type SignedUpload struct {
	ObjectURL string
	UploadURL string
	ExpiresIn time.Duration
}

// Tables holds configurable table names for item storage.
// This allows multi-tenant deployments to use different table names.
type Tables struct {
	Items string `mapstructure:"items"`
}

var validTableNameRegex = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// IsValidTableName checks if a table name is valid (lowercase, alphanumeric with underscores, max 63 chars).
func IsValidTableName(name string) bool {
	return validTableNameRegex.MatchString(name) && len(name) <= 63
}

// Validate checks that all required table names are set and valid.
func (t Tables) Validate() error {
	if t.Items == "" {
		return errors.New("validate tables: items table name cannot be empty")
	}

	if !IsValidTableName(t.Items) {
		return fmt.Errorf("validate tables: invalid items table name: %s (must match ^[a-z_][a-z0-9_]*$ and be <= 63 chars)", t.Items)
	}

	return nil
}
