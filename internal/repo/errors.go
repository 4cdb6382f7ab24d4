// Package repo implements the generic data-access layer for directory
// records. This file centralizes the repository-level error values
// callers check with errors.Is.
package repo

import "errors"

var (
	// ErrNotFound is returned when no record matches the requested id
	// (for reads and updates, the record must also still be active).
	ErrNotFound = errors.New("record not found")

	// ErrInvalidID is returned before any store call when an id does
	// not have a valid identifier shape.
	ErrInvalidID = errors.New("invalid record id")

	// ErrEmptyUpdate is returned when an update carries no fields to
	// change.
	ErrEmptyUpdate = errors.New("update contains no fields")
)
