// Package database selects and wires an item store backend.
//
// Two backends are supported: PostgreSQL (pgx, pooled) for deployments
// and SQLite (modernc, cgo-free) for embedded or single-node use.
// Connect runs migrations when asked, validates the schema, and hands
// back a binder.ItemRepo plus a cleanup function.
package database
