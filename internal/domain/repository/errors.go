package repository

import "errors"

// Common repository errors shared across storage implementations.
var (
	// ErrNotFound indicates the requested record was not found.
	ErrNotFound = errors.New("not found")
)
