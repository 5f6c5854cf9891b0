package app

import (
	"errors"
	"log/slog"

	"github.com/dshills/setlist/internal/config"
	"github.com/dshills/setlist/internal/engine"
	"github.com/dshills/setlist/internal/engine/history"
	"github.com/dshills/setlist/internal/engine/tracking"
	"github.com/dshills/setlist/internal/setlist"
)

// ConfirmFunc asks the user whether unsaved changes may be discarded.
type ConfirmFunc func() bool

// Writer persists a document. storage.FileStore satisfies it.
type Writer interface {
	Write(doc setlist.Document) error
}

// Session is one open set list: a Store with its dirty detector and undo
// history wired together. It is not safe for concurrent use.
type Session struct {
	store    *engine.Store
	detector *tracking.Detector
	history  *history.History
	logger   *slog.Logger

	cfg     *config.Config
	ids     setlist.IDGenerator
	onDirty func(bool)
}

// Option configures a Session.
type Option func(*Session)

// WithConfig applies the history, encore and limits settings of cfg.
func WithConfig(cfg *config.Config) Option {
	return func(s *Session) {
		if cfg != nil {
			s.cfg = cfg
		}
	}
}

// WithLogger sets the session logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithIDGenerator sets the generator for set and song ids.
func WithIDGenerator(ids setlist.IDGenerator) Option {
	return func(s *Session) {
		s.ids = ids
	}
}

// WithDirtyListener registers fn to be called when the dirty state flips.
func WithDirtyListener(fn func(dirty bool)) Option {
	return func(s *Session) {
		s.onDirty = fn
	}
}

// NewSession creates a session holding the default document. The detector
// subscribes before the history, so by the time history records an edit the
// dirty state already reflects it.
func NewSession(opts ...Option) *Session {
	s := &Session{
		cfg:    config.Default(),
		logger: discardLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("component", "session")

	storeOpts := []engine.Option{
		engine.WithEncoreMinSongs(s.cfg.Encore.MinSongs),
		engine.WithLimits(s.cfg.SetlistLimits()),
	}
	if s.ids != nil {
		storeOpts = append(storeOpts, engine.WithIDGenerator(s.ids))
	}
	s.store = engine.New(storeOpts...)

	var detOpts []tracking.Option
	if s.onDirty != nil {
		detOpts = append(detOpts, tracking.WithDirtyListener(s.onDirty))
	}
	s.detector = tracking.New(s.store, detOpts...)
	s.store.Subscribe(s.detector)

	s.history = history.New(s.store, history.WithCapacity(s.cfg.History.Capacity))
	s.history.Attach(s.store.Subscribe(s.history))

	s.store.Subscribe(engine.ObserverFunc(s.logChange))
	return s
}

func (s *Session) logChange(c engine.Change) {
	s.logger.Debug("document changed",
		"kind", c.Kind.String(),
		"op", c.Op,
		"set", c.SetID,
		"dirty", s.detector.IsDirty(),
		"undo", s.history.UndoCount(),
	)
}

// Store returns the underlying store. Observers such as an autosaver
// subscribe here.
func (s *Session) Store() *engine.Store {
	return s.store
}

// History returns the undo history.
func (s *Session) History() *history.History {
	return s.history
}

// Detector returns the dirty-state detector.
func (s *Session) Detector() *tracking.Detector {
	return s.detector
}

// Document returns a deep copy of the live document.
func (s *Session) Document() setlist.Document {
	return s.store.Document()
}

// Sets returns a copy of all sets in order.
func (s *Session) Sets() []setlist.SetItem {
	return s.store.Sets()
}

// HasEncoreMarker reports whether the set holds the encore marker.
func (s *Session) HasEncoreMarker(setID string) bool {
	return s.store.HasEncoreMarker(setID)
}

// DisplayName returns the set's custom or synthesized name.
func (s *Session) DisplayName(setID string) string {
	return s.store.DisplayName(setID)
}

// ============================================================================
// Mutations
// ============================================================================

// AddSet appends an empty set and returns its id.
func (s *Session) AddSet() string { return s.store.AddSet() }

// RemoveSet removes a set.
func (s *Session) RemoveSet(setID string) { s.store.RemoveSet(setID) }

// RenameSet renames a set; a blank name restores the default.
func (s *Session) RenameSet(setID, name string) { s.store.RenameSet(setID, name) }

// AddSongToSet adds a song and returns its id.
func (s *Session) AddSongToSet(setID string, in engine.SongInput) string {
	return s.store.AddSongToSet(setID, in)
}

// RemoveSongFromSet removes a song.
func (s *Session) RemoveSongFromSet(setID, songID string) {
	s.store.RemoveSongFromSet(setID, songID)
}

// ReorderSong moves a song within a set.
func (s *Session) ReorderSong(setID string, fromIndex, toIndex int) {
	s.store.ReorderSong(setID, fromIndex, toIndex)
}

// MoveSong moves a song between sets.
func (s *Session) MoveSong(fromSetID, toSetID string, fromIndex, toIndex int) {
	s.store.MoveSong(fromSetID, toSetID, fromIndex, toIndex)
}

// UpdateSong merges patch into a song.
func (s *Session) UpdateSong(setID, songID string, patch engine.SongPatch) {
	s.store.UpdateSong(setID, songID, patch)
}

// UpdateMetadata merges patch into the metadata.
func (s *Session) UpdateMetadata(patch engine.MetadataPatch) {
	s.store.UpdateMetadata(patch)
}

// ============================================================================
// History and dirty state
// ============================================================================

// Undo steps back one edit. Errors wrap history.ErrNothingToUndo.
func (s *Session) Undo() error {
	if err := s.history.Undo(); err != nil {
		return NewOperationError("undo", "", err)
	}
	return nil
}

// Redo reapplies the most recently undone edit.
func (s *Session) Redo() error {
	if err := s.history.Redo(); err != nil {
		return NewOperationError("redo", "", err)
	}
	return nil
}

// CanUndo reports whether Undo would do anything.
func (s *Session) CanUndo() bool { return s.history.CanUndo() }

// CanRedo reports whether Redo would do anything.
func (s *Session) CanRedo() bool { return s.history.CanRedo() }

// IsDirty reports whether the document differs from the last clean state.
func (s *Session) IsDirty() bool { return s.detector.IsDirty() }

// MarkClean records the live document as saved.
func (s *Session) MarkClean() { s.detector.MarkClean() }

// ConfirmDiscard gates a destructive operation. A clean document passes
// without asking; otherwise confirm decides. A nil confirm declines.
func (s *Session) ConfirmDiscard(confirm ConfirmFunc) bool {
	if !s.detector.IsDirty() {
		return true
	}
	return confirm != nil && confirm()
}

// ============================================================================
// Document lifecycle
// ============================================================================

// Reset replaces the document with a fresh default without asking.
func (s *Session) Reset() {
	s.store.Reset()
	s.logger.Info("document reset")
}

// Load replaces the document with a raw decoded value and reports success.
func (s *Session) Load(candidate any) bool {
	return s.LoadErr(candidate) == nil
}

// LoadErr is Load with the failure reason. The document is untouched on
// failure.
func (s *Session) LoadErr(candidate any) error {
	if err := s.store.LoadErr(candidate); err != nil {
		s.logger.Warn("load rejected", "error", err)
		return err
	}
	s.logger.Info("document loaded", "sets", s.store.SetCount())
	return nil
}

// New starts a fresh document once confirm allows discarding unsaved
// changes.
func (s *Session) New(confirm ConfirmFunc) error {
	if !s.ConfirmDiscard(confirm) {
		return NewOperationError("new", "", ErrUnsavedChanges)
	}
	s.Reset()
	return nil
}

// Import loads candidate once confirm allows discarding unsaved changes.
// source names the origin in errors, e.g. a file path.
func (s *Session) Import(candidate any, source string, confirm ConfirmFunc) error {
	if !s.ConfirmDiscard(confirm) {
		return NewOperationError("import", source, ErrUnsavedChanges)
	}
	if err := s.LoadErr(candidate); err != nil {
		return NewOperationError("import", source, err)
	}
	return nil
}

// Save writes the document and marks it clean on success.
func (s *Session) Save(w Writer) error {
	if w == nil {
		return NewOperationError("save", "", ErrNoWriter)
	}
	if err := w.Write(s.store.Document()); err != nil {
		s.logger.Error("save failed", "error", err)
		return NewOperationError("save", "", err)
	}
	s.detector.MarkClean()
	s.logger.Info("document saved")
	return nil
}

// IsNothingToDo reports whether err came from an undo or redo with an empty
// stack.
func IsNothingToDo(err error) bool {
	return errors.Is(err, history.ErrNothingToUndo) || errors.Is(err, history.ErrNothingToRedo)
}
