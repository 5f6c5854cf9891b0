package storage

import (
	"log/slog"
	"sync"
	"time"

	"github.com/dshills/setlist/internal/engine"
	"github.com/dshills/setlist/internal/setlist"
)

// DefaultAutosaveDelay is the debounce delay used when none is given.
const DefaultAutosaveDelay = 500 * time.Millisecond

// DocumentSource provides the settled document to save.
type DocumentSource interface {
	Document() setlist.Document
}

// Writer persists a document.
type Writer interface {
	Write(doc setlist.Document) error
}

// Autosaver writes the document a short while after it changes. Rapid
// edits are coalesced into one write of the latest state.
//
// Autosaver implements engine.Observer. The document is captured
// synchronously in OnChange, so the store is never read from the timer
// goroutine.
type Autosaver struct {
	source DocumentSource
	writer Writer
	delay  time.Duration
	logger *slog.Logger

	// writeMu orders writes so an older document never lands last.
	writeMu sync.Mutex

	mu      sync.Mutex
	pending *setlist.Document
	timer   *time.Timer
	closed  bool
	lastErr error
	onSaved func(error)
}

// AutosaveOption configures an Autosaver.
type AutosaveOption func(*Autosaver)

// WithDelay sets the debounce delay.
func WithDelay(d time.Duration) AutosaveOption {
	return func(a *Autosaver) {
		if d > 0 {
			a.delay = d
		}
	}
}

// WithLogger sets the logger used for write failures.
func WithLogger(l *slog.Logger) AutosaveOption {
	return func(a *Autosaver) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithSaveHook registers fn to be called after every write attempt with
// its result.
func WithSaveHook(fn func(error)) AutosaveOption {
	return func(a *Autosaver) {
		a.onSaved = fn
	}
}

// NewAutosaver creates an autosaver that reads from source and writes to w.
func NewAutosaver(source DocumentSource, w Writer, opts ...AutosaveOption) *Autosaver {
	a := &Autosaver{
		source: source,
		writer: w,
		delay:  DefaultAutosaveDelay,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// OnChange implements engine.Observer. Loaded documents came from storage
// and are not written back.
func (a *Autosaver) OnChange(change engine.Change) {
	if change.Kind == engine.ChangeLoad {
		return
	}
	doc := a.source.Document()

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return
	}
	a.pending = &doc
	if a.timer != nil {
		a.timer.Reset(a.delay)
		return
	}
	a.timer = time.AfterFunc(a.delay, a.fire)
}

// Pending reports whether a write is scheduled.
func (a *Autosaver) Pending() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.pending != nil
}

// Err returns the result of the most recent write.
func (a *Autosaver) Err() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.lastErr
}

// Flush writes any pending document immediately.
func (a *Autosaver) Flush() error {
	a.mu.Lock()
	if a.timer != nil {
		a.timer.Stop()
	}
	a.mu.Unlock()
	return a.write()
}

// Close flushes pending state and stops accepting changes.
func (a *Autosaver) Close() error {
	a.mu.Lock()
	a.closed = true
	a.mu.Unlock()
	return a.Flush()
}

func (a *Autosaver) fire() {
	_ = a.write()
}

// write takes the pending document and persists it.
func (a *Autosaver) write() error {
	a.writeMu.Lock()
	defer a.writeMu.Unlock()

	a.mu.Lock()
	doc := a.pending
	a.pending = nil
	a.mu.Unlock()
	if doc == nil {
		return nil
	}

	err := a.writer.Write(*doc)
	if err != nil {
		a.logger.Warn("autosave failed", "error", err)
	}

	a.mu.Lock()
	a.lastErr = err
	hook := a.onSaved
	a.mu.Unlock()
	if hook != nil {
		hook(err)
	}
	return err
}
