package storage

import "errors"

// Storage errors shared by all backends.
var (
	// ErrDuplicateKey is returned when a record's key already exists.
	// Journal and observation rows are never updated in place.
	ErrDuplicateKey = errors.New("duplicate key")

	// ErrInvalidInput is returned when input validation fails.
	ErrInvalidInput = errors.New("invalid input")
)
