package engine

import "errors"

// Errors returned by Store operations.
var (
	// ErrInvalidDocument indicates a load candidate that is not an object
	// with an array "sets" field.
	ErrInvalidDocument = errors.New("invalid document")

	// ErrMigration indicates the candidate could not be migrated to the
	// current schema.
	ErrMigration = errors.New("document migration failed")
)
