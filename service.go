package binder

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ItemRepo defines the interface for item persistence. Implementations
// evaluate every predicate in the store itself: the conditional updates
// used for soft delete and restore are the only concurrency guard the
// system has, so they must be atomic at the store layer.
//
// All methods accept a context for cancellation and timeout control.
type ItemRepo interface {
	// GetByID retrieves one active item. Returns ErrNotFound when the id
	// is absent or soft-deleted.
	GetByID(ctx context.Context, id int64) (Item, error)

	// ListByParent returns all active items directly under the given
	// parent (nil means root level), ordered folders first, then title.
	// The ordering is a caller-facing contract, not incidental.
	ListByParent(ctx context.Context, parentID *int64) ([]Item, error)

	// SearchByTitle returns active items whose title contains the given
	// substring (case-insensitive, unanchored), same ordering.
	SearchByTitle(ctx context.Context, title string) ([]Item, error)

	// FindByTitleParentType returns active items matching the exact
	// title, parent scope and type. Used for the create uniqueness check.
	FindByTitleParentType(ctx context.Context, title string, parentID *int64, itemType ItemType) ([]Item, error)

	// ListDeleted returns all soft-deleted items, same ordering.
	ListDeleted(ctx context.Context) ([]Item, error)

	// Insert writes a new row and returns the item as stored. When the
	// backend cannot read the row back after a successful write it
	// returns a best-effort reconstruction instead of failing: the
	// mutation already happened.
	Insert(ctx context.Context, item NewItem) (Item, error)

	// SoftDelete stamps deleted_at, conditioned on the row being active.
	// Reports whether a row actually transitioned.
	SoftDelete(ctx context.Context, id int64) (bool, error)

	// Restore clears deleted_at, conditioned on the row being deleted.
	// Reports whether a row actually transitioned.
	Restore(ctx context.Context, id int64) (bool, error)

	// Ping verifies store connectivity.
	Ping(ctx context.Context) error
}

// UploadSigner issues time-limited upload credentials for an object key.
// Implementations return both the eventual public retrieval URL and the
// short-lived signed upload URL.
type UploadSigner interface {
	Sign(ctx context.Context, key, contentType string) (SignedUpload, error)
}

// ItemService enforces the hierarchy invariants the repository alone
// cannot: parent validity, scoped uniqueness, and the ordering between
// credential issuance and persistence.
type ItemService struct {
	repo   ItemRepo
	signer UploadSigner
	now    func() time.Time
}

func NewItemService(repo ItemRepo, signer UploadSigner) *ItemService {
	return &ItemService{
		repo:   repo,
		signer: signer,
		now:    time.Now,
	}
}

// List resolves a listing request. Supplying both filters is invalid.
// Empty results are an error ("no items found") for the root and title
// paths but not for an explicit parent filter: an empty folder is a
// perfectly valid answer.
func (s *ItemService) List(ctx context.Context, filter ListFilter) ([]Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}

	if filter.Title != "" && filter.ParentID != nil {
		return nil, fmt.Errorf("list items: %w: title and parentId filters are mutually exclusive", ErrInvalidInput)
	}

	switch {
	case filter.Title != "":
		items, err := s.repo.SearchByTitle(ctx, filter.Title)
		if err != nil {
			return nil, fmt.Errorf("list items by title: %w", err)
		}
		if len(items) == 0 {
			return nil, fmt.Errorf("list items by title: %w", ErrNotFound)
		}
		return items, nil

	case filter.ParentID != nil:
		if *filter.ParentID <= 0 {
			return nil, fmt.Errorf("list items: %w: parentId must be a positive integer", ErrInvalidInput)
		}
		items, err := s.repo.ListByParent(ctx, filter.ParentID)
		if err != nil {
			return nil, fmt.Errorf("list items by parent: %w", err)
		}
		return items, nil

	default:
		items, err := s.repo.ListByParent(ctx, nil)
		if err != nil {
			return nil, fmt.Errorf("list root items: %w", err)
		}
		if len(items) == 0 {
			return nil, fmt.Errorf("list root items: %w", ErrNotFound)
		}
		return items, nil
	}
}

// Get fetches one active item by id.
func (s *ItemService) Get(ctx context.Context, id int64) (Item, error) {
	if err := ctx.Err(); err != nil {
		return Item{}, fmt.Errorf("get item: %w", err)
	}

	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Item{}, fmt.Errorf("get item %d: %w", id, err)
	}

	return item, nil
}

// Create validates a new item, issues an upload credential for files, and
// persists the row.
//
// The steps are deliberately ordered: parent and uniqueness checks run
// before the signer is touched so rejected requests never burn a
// credential, and signing runs before the insert so a file row is never
// persisted without its object URL.
func (s *ItemService) Create(ctx context.Context, in CreateItem) (CreateResult, error) {
	if err := ctx.Err(); err != nil {
		return CreateResult{}, fmt.Errorf("create item: %w", err)
	}

	if in.Title == "" {
		return CreateResult{}, fmt.Errorf("create item: %w: title is required", ErrInvalidInput)
	}

	if !in.ItemType.IsValid() {
		return CreateResult{}, fmt.Errorf("create item: %w: itemType must be either \"folder\" or \"file\"", ErrInvalidInput)
	}

	if in.ParentID != nil {
		if *in.ParentID <= 0 {
			return CreateResult{}, fmt.Errorf("create item: %w: parentId must be a positive integer", ErrInvalidInput)
		}

		parent, err := s.repo.GetByID(ctx, *in.ParentID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return CreateResult{}, fmt.Errorf("create item: %w: parent %d does not exist", ErrInvalidParent, *in.ParentID)
			}
			return CreateResult{}, fmt.Errorf("create item: resolve parent: %w", err)
		}

		if parent.ItemType != TypeFolder {
			return CreateResult{}, fmt.Errorf("create item: %w: parent %d is not a folder", ErrInvalidParent, *in.ParentID)
		}
	}

	existing, err := s.repo.FindByTitleParentType(ctx, in.Title, in.ParentID, in.ItemType)
	if err != nil {
		return CreateResult{}, fmt.Errorf("create item: uniqueness check: %w", err)
	}
	if len(existing) > 0 {
		return CreateResult{}, fmt.Errorf("create item '%s': %w: an item with the same title already exists here", in.Title, ErrConflict)
	}

	createdBy := in.CreatedBy
	if createdBy == "" {
		createdBy = "admin"
	}

	row := NewItem{
		Title:      in.Title,
		ItemType:   in.ItemType,
		ParentID:   in.ParentID,
		FileSizeKB: in.FileSizeKB,
		CreatedBy:  createdBy,
	}

	var uploadURL string
	if in.ItemType == TypeFile {
		key := ObjectKey(in.Title, s.now())

		signed, signErr := s.signer.Sign(ctx, key, ContentTypeForTitle(in.Title))
		if signErr != nil {
			return CreateResult{}, fmt.Errorf("create item '%s': issue upload credential: %w", in.Title, signErr)
		}

		row.ObjectURL = &signed.ObjectURL
		uploadURL = signed.UploadURL
	}

	item, err := s.repo.Insert(ctx, row)
	if err != nil {
		return CreateResult{}, fmt.Errorf("create item '%s': %w", in.Title, err)
	}

	return CreateResult{Item: item, UploadURL: uploadURL}, nil
}

// Delete soft-deletes an item. The conditional update in the repo means
// only one of two racing deletes observes the transition; the loser gets
// ErrNotFound, which is also the answer for already-deleted items.
func (s *ItemService) Delete(ctx context.Context, id int64) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("delete item: %w", err)
	}

	deleted, err := s.repo.SoftDelete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete item %d: %w", id, err)
	}
	if !deleted {
		return fmt.Errorf("delete item %d: %w", id, ErrNotFound)
	}

	return nil
}

// ListDeleted returns the bin. An empty bin is not an error.
func (s *ItemService) ListDeleted(ctx context.Context) ([]Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("list deleted items: %w", err)
	}

	items, err := s.repo.ListDeleted(ctx)
	if err != nil {
		return nil, fmt.Errorf("list deleted items: %w", err)
	}

	return items, nil
}

// Restore brings a soft-deleted item back. Items that do not exist or are
// not currently deleted report ErrNotFound.
func (s *ItemService) Restore(ctx context.Context, id int64) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("restore item: %w", err)
	}

	restored, err := s.repo.Restore(ctx, id)
	if err != nil {
		return fmt.Errorf("restore item %d: %w", id, err)
	}
	if !restored {
		return fmt.Errorf("restore item %d: %w", id, ErrNotFound)
	}

	return nil
}
