package storage

import (
	"errors"
	"fmt"
)

// ErrRejected is returned by Open when the file parses but is not a valid
// document.
var ErrRejected = errors.New("document rejected")

// Loader receives documents read from storage. Both engine.Store and
// app.Session satisfy it.
type Loader interface {
	LoadErr(candidate any) error
	Reset()
}

// Open reads the file and loads it into target. When the file is absent,
// unreadable or invalid, target is reset to a fresh document instead; the
// returned error explains why. loaded is true only if the file was used.
func Open(target Loader, fs *FileStore) (loaded bool, err error) {
	raw, err := fs.Read()
	if err != nil {
		target.Reset()
		return false, err
	}
	if raw == nil {
		target.Reset()
		return false, nil
	}
	if err := target.LoadErr(raw); err != nil {
		target.Reset()
		return false, fmt.Errorf("%w: %s: %w", ErrRejected, fs.Path(), err)
	}
	return true, nil
}
