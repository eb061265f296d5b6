// Package binder manages a hierarchical collection of folders and files
// backed by a relational store, with soft deletion and coordinated
// issuance of time-limited upload credentials for an object store.
//
// Uploads never flow through the service: creating a file item records
// its metadata, provisions an object key, and hands the caller a
// presigned URL so the bytes go straight to object storage.
//
// # Key Components
//
//   - ItemService: validates input, enforces tree and uniqueness
//     invariants, and sequences credential issuance with persistence
//   - ItemRepo: interface for item persistence (PostgreSQL, SQLite)
//   - UploadSigner: interface for presigned upload credential issuance
//     (S3 and S3-compatible endpoints)
//
// # Soft deletion
//
// Items are never physically removed. A deleted_at timestamp is the sole
// visibility switch: active listings exclude stamped rows, the bin view
// shows only stamped rows, and restore clears the stamp. Both
// transitions are conditional updates evaluated atomically by the store.
//
// # Example Usage
//
//	service := binder.NewItemService(repo, signer)
//
//	// Create a folder at root
//	res, err := service.Create(ctx, binder.CreateItem{Title: "Reports", ItemType: binder.TypeFolder})
//
//	// Create a file beneath it; res.UploadURL is the one-time upload credential
//	res, err = service.Create(ctx, binder.CreateItem{
//		Title:    "Q1.pdf",
//		ItemType: binder.TypeFile,
//		ParentID: &res.Item.ID,
//	})
//
// See the http package for the REST API and the database package for the
// persistence backends.
package binder
