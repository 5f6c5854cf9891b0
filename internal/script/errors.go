package script

import "errors"

// Errors returned by Host.
var (
	// ErrScript wraps a Lua compile or runtime error.
	ErrScript = errors.New("script failed")

	// ErrTimeout is returned when a script exceeds its time budget or its
	// context is cancelled.
	ErrTimeout = errors.New("script timeout")
)
