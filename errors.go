package binder

import "errors"

var (
	// ErrNotFound is returned when a resource is not found
	ErrNotFound = errors.New("not found")
	// ErrInternal is returned when an internal error occurs
	ErrInternal = errors.New("internal error")
	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")
	// ErrInvalidParent is returned when a parent id does not resolve to an active folder
	ErrInvalidParent = errors.New("invalid parent")
	// ErrConflict is returned when an active item with the same title and
	// type already exists under the same parent
	ErrConflict = errors.New("conflict")
)
