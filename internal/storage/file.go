package storage

import (
	"bytes"
	"crypto/sha256"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/dshills/setlist/internal/setlist"
	"github.com/dshills/setlist/internal/transport"
)

// FileStore reads and writes one document file. The encoding follows the
// file extension.
type FileStore struct {
	path   string
	format transport.Format

	mu     sync.Mutex
	digest [sha256.Size]byte
	known  bool
}

// NewFileStore creates a store for path.
func NewFileStore(path string) *FileStore {
	return &FileStore{
		path:   filepath.Clean(path),
		format: transport.FormatFromPath(path),
	}
}

// Path returns the document file path.
func (s *FileStore) Path() string {
	return s.path
}

// Format returns the file encoding.
func (s *FileStore) Format() transport.Format {
	return s.format
}

// Read returns the raw parsed file content, or nil, nil if the file does
// not exist.
func (s *FileStore) Read() (any, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading %s: %w", s.path, err)
	}
	s.remember(data)

	raw, err := transport.Decode(data, s.format)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", s.path, err)
	}
	return raw, nil
}

// Write encodes doc and replaces the file atomically.
func (s *FileStore) Write(doc setlist.Document) error {
	data, err := transport.Encode(doc, s.format)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", s.path, err)
	}
	if err := writeAtomic(s.path, data); err != nil {
		return fmt.Errorf("writing %s: %w", s.path, err)
	}
	s.remember(data)
	return nil
}

// Modified reports whether the file content differs from what this store
// last read or wrote. A missing file counts as modified only if the store
// has seen content before.
func (s *FileStore) Modified() (bool, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.mu.Lock()
			defer s.mu.Unlock()
			return s.known, nil
		}
		return false, err
	}
	sum := sha256.Sum256(data)

	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.known || !bytes.Equal(sum[:], s.digest[:]), nil
}

func (s *FileStore) remember(data []byte) {
	sum := sha256.Sum256(data)
	s.mu.Lock()
	s.digest = sum
	s.known = true
	s.mu.Unlock()
}

// writeAtomic writes data to a temp file in the target directory and
// renames it over path.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	f, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmp := f.Name()

	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	if err := os.Chmod(tmp, 0o644); err != nil {
		os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}
