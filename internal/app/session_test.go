package app

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/setlist/internal/config"
	"github.com/dshills/setlist/internal/engine"
	"github.com/dshills/setlist/internal/engine/history"
	"github.com/dshills/setlist/internal/setlist"
)

func newTestSession(t *testing.T, opts ...Option) *Session {
	t.Helper()
	opts = append([]Option{WithIDGenerator(setlist.NewSequenceGenerator("id"))}, opts...)
	return NewSession(opts...)
}

func strPtr(s string) *string { return &s }

// memWriter records written documents.
type memWriter struct {
	docs []setlist.Document
	err  error
}

func (w *memWriter) Write(doc setlist.Document) error {
	if w.err != nil {
		return w.err
	}
	w.docs = append(w.docs, doc)
	return nil
}

func TestNewSession(t *testing.T) {
	s := newTestSession(t)
	require.Len(t, s.Sets(), 1)
	assert.Empty(t, s.Sets()[0].Songs)
	assert.False(t, s.IsDirty())
	assert.False(t, s.CanUndo())
	assert.False(t, s.CanRedo())
	assert.Equal(t, "Set 1", s.DisplayName(s.Sets()[0].ID))
}

func TestSessionAppliesConfig(t *testing.T) {
	cfg := config.Default()
	cfg.History.Capacity = 3
	cfg.Encore.MinSongs = 1
	cfg.Limits.Title = 4

	s := newTestSession(t, WithConfig(cfg))
	g1 := s.Sets()[0].ID
	s.AddSongToSet(g1, engine.SongInput{Title: "Longer title"})

	set := s.Sets()[0]
	assert.Equal(t, "Long", set.Songs[0].Title)
	assert.True(t, s.HasEncoreMarker(g1), "one song is enough")
	assert.Equal(t, 3, s.History().Capacity())
}

func TestSessionEncoreScenario(t *testing.T) {
	s := newTestSession(t)
	g1 := s.Sets()[0].ID
	s.AddSongToSet(g1, engine.SongInput{Title: "A"})
	s.AddSongToSet(g1, engine.SongInput{Title: "B"})

	set := s.Sets()[0]
	require.Len(t, set.Songs, 3)
	assert.Equal(t, "A", set.Songs[0].Title)
	assert.Equal(t, "B", set.Songs[1].Title)
	assert.True(t, setlist.IsMarker(set.Songs[2]))
	assert.True(t, s.HasEncoreMarker(g1))

	g2 := s.AddSet()
	assert.False(t, s.HasEncoreMarker(g1), "no longer the last set")
	assert.False(t, s.HasEncoreMarker(g2), "empty set")

	s.AddSongToSet(g2, engine.SongInput{Title: "C"})
	assert.False(t, s.HasEncoreMarker(g2))
	s.AddSongToSet(g2, engine.SongInput{Title: "D"})
	assert.True(t, s.HasEncoreMarker(g2))
	assert.False(t, s.HasEncoreMarker(g1))
}

func TestSessionLoadScenario(t *testing.T) {
	s := newTestSession(t)
	s.AddSet()
	require.True(t, s.IsDirty())

	ok := s.Load(map[string]any{
		"sets": []any{
			map[string]any{"songs": []any{map[string]any{"title": "X"}}},
		},
	})
	require.True(t, ok)

	sets := s.Sets()
	require.Len(t, sets, 1)
	assert.NotEmpty(t, sets[0].ID)
	assert.Equal(t, "Set 1", s.DisplayName(sets[0].ID))
	require.Len(t, sets[0].Songs, 1)
	assert.Equal(t, "X", sets[0].Songs[0].Title)
	assert.False(t, s.HasEncoreMarker(sets[0].ID))
	assert.False(t, s.IsDirty())
	assert.False(t, s.CanUndo(), "history re-anchored at the loaded document")
}

func TestSessionLoadRejected(t *testing.T) {
	s := newTestSession(t)
	s.AddSet()
	before := s.Store().Snapshot()

	for _, candidate := range []any{nil, "text", map[string]any{}, map[string]any{"sets": "no"}} {
		assert.False(t, s.Load(candidate))
	}
	assert.True(t, before.Equal(s.Store().Snapshot()))
	assert.True(t, s.IsDirty())
	assert.Equal(t, 1, s.History().UndoCount())
}

func TestSessionDirtyRevertLaw(t *testing.T) {
	s := newTestSession(t)
	g1 := s.Sets()[0].ID

	s.UpdateMetadata(engine.MetadataPatch{Venue: strPtr("Roundhouse")})
	s.RenameSet(g1, "Main")
	g2 := s.AddSet()
	require.True(t, s.IsDirty())

	// revert in a different order
	s.RemoveSet(g2)
	s.UpdateMetadata(engine.MetadataPatch{Venue: strPtr("")})
	s.RenameSet(g1, "   ")
	assert.False(t, s.IsDirty())
}

func TestSessionUndoDerivesDirty(t *testing.T) {
	s := newTestSession(t)
	s.AddSet()
	require.True(t, s.IsDirty())

	require.NoError(t, s.Undo())
	assert.False(t, s.IsDirty(), "undo landed on the clean snapshot")

	require.NoError(t, s.Redo())
	assert.True(t, s.IsDirty())
}

func TestSessionUndoPastSave(t *testing.T) {
	s := newTestSession(t)
	s.AddSet()
	w := &memWriter{}
	require.NoError(t, s.Save(w))
	require.Len(t, w.docs, 1)
	assert.False(t, s.IsDirty())

	require.NoError(t, s.Undo())
	assert.True(t, s.IsDirty(), "saved state had two sets")
	assert.Len(t, s.Sets(), 1)
}

func TestSessionUndoRedoErrors(t *testing.T) {
	s := newTestSession(t)

	err := s.Undo()
	assert.ErrorIs(t, err, history.ErrNothingToUndo)
	assert.True(t, IsNothingToDo(err))

	var opErr *OperationError
	require.True(t, errors.As(err, &opErr))
	assert.Equal(t, "undo", opErr.Op)

	err = s.Redo()
	assert.ErrorIs(t, err, history.ErrNothingToRedo)
	assert.True(t, IsNothingToDo(err))
	assert.False(t, IsNothingToDo(errors.New("other")))
}

func TestSessionUndoAll(t *testing.T) {
	s := newTestSession(t)
	g1 := s.Sets()[0].ID
	clean := s.Store().Snapshot()

	a := s.AddSongToSet(g1, engine.SongInput{Title: "A", Key: "E"})
	s.AddSongToSet(g1, engine.SongInput{Title: "B"})
	s.AddSongToSet(g1, engine.SongInput{Title: "C"})
	s.ReorderSong(g1, 0, 2)
	s.UpdateSong(g1, a, engine.SongPatch{Key: strPtr("F#")})
	g2 := s.AddSet()
	s.MoveSong(g1, g2, 0, 0)

	for s.CanUndo() {
		require.NoError(t, s.Undo())
	}
	assert.True(t, clean.Equal(s.Store().Snapshot()))
	assert.False(t, s.IsDirty())

	for s.CanRedo() {
		require.NoError(t, s.Redo())
	}
	assert.Len(t, s.Sets(), 2)
	assert.True(t, s.IsDirty())
}

func TestSessionRejectedMarkerMoveIsNoOp(t *testing.T) {
	s := newTestSession(t)
	g1 := s.Sets()[0].ID
	s.AddSongToSet(g1, engine.SongInput{Title: "A"})
	s.AddSongToSet(g1, engine.SongInput{Title: "B"})
	g2 := s.AddSet()
	s.AddSongToSet(g2, engine.SongInput{Title: "C"})
	s.AddSongToSet(g2, engine.SongInput{Title: "D"})
	require.True(t, s.HasEncoreMarker(g2))

	before := s.Store().Snapshot()
	undo := s.History().UndoCount()
	dirty := s.IsDirty()
	s.MoveSong(g2, g1, 2, 0)

	assert.True(t, before.Equal(s.Store().Snapshot()))
	assert.Equal(t, undo, s.History().UndoCount())
	assert.Equal(t, dirty, s.IsDirty())
}

func TestConfirmDiscard(t *testing.T) {
	s := newTestSession(t)
	asked := 0
	confirm := func(answer bool) ConfirmFunc {
		return func() bool {
			asked++
			return answer
		}
	}

	assert.True(t, s.ConfirmDiscard(confirm(false)), "clean document passes")
	assert.Zero(t, asked)

	s.AddSet()
	assert.False(t, s.ConfirmDiscard(confirm(false)))
	assert.True(t, s.ConfirmDiscard(confirm(true)))
	assert.Equal(t, 2, asked)
	assert.False(t, s.ConfirmDiscard(nil))
}

func TestSessionNew(t *testing.T) {
	s := newTestSession(t)
	s.AddSet()

	err := s.New(func() bool { return false })
	assert.ErrorIs(t, err, ErrUnsavedChanges)
	assert.Len(t, s.Sets(), 2)

	require.NoError(t, s.New(func() bool { return true }))
	assert.Len(t, s.Sets(), 1)
	assert.False(t, s.IsDirty())
	assert.False(t, s.CanUndo())
}

func TestSessionImport(t *testing.T) {
	s := newTestSession(t)
	s.AddSet()
	raw := map[string]any{"sets": []any{map[string]any{"id": "x", "songs": []any{}}}}

	err := s.Import(raw, "gig.json", func() bool { return false })
	assert.ErrorIs(t, err, ErrUnsavedChanges)
	assert.Contains(t, err.Error(), "gig.json")
	assert.Len(t, s.Sets(), 2)

	err = s.Import(map[string]any{"metadata": map[string]any{}}, "bad.json", func() bool { return true })
	assert.ErrorIs(t, err, engine.ErrInvalidDocument)
	assert.Len(t, s.Sets(), 2, "failed import leaves the document")

	require.NoError(t, s.Import(raw, "gig.json", func() bool { return true }))
	require.Len(t, s.Sets(), 1)
	assert.Equal(t, "x", s.Sets()[0].ID)
	assert.False(t, s.IsDirty())
}

func TestSessionSave(t *testing.T) {
	s := newTestSession(t)

	assert.ErrorIs(t, s.Save(nil), ErrNoWriter)

	s.AddSet()
	failing := &memWriter{err: errors.New("disk full")}
	err := s.Save(failing)
	assert.EqualError(t, err, "save: disk full")
	assert.True(t, s.IsDirty(), "failed save keeps unsaved changes")

	w := &memWriter{}
	require.NoError(t, s.Save(w))
	require.Len(t, w.docs, 1)
	assert.Len(t, w.docs[0].Sets, 2)
	assert.False(t, s.IsDirty())
}

func TestSessionDirtyListener(t *testing.T) {
	var flips []bool
	s := newTestSession(t, WithDirtyListener(func(d bool) { flips = append(flips, d) }))

	g := s.AddSet()
	s.RenameSet(g, "Encore set")
	s.RemoveSet(g)
	assert.Equal(t, []bool{true, false}, flips)
}

func TestSessionLogsChanges(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(config.LogConfig{Level: "debug", Format: "json"}, &buf)
	s := newTestSession(t, WithLogger(logger))

	s.AddSet()
	assert.Contains(t, buf.String(), `"component":"session"`)
	assert.Contains(t, buf.String(), `"op":"addSet"`)
	assert.Contains(t, buf.String(), `"dirty":true`)

	buf.Reset()
	s.Load("nope")
	assert.Contains(t, buf.String(), `"level":"WARN"`)
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warning", slog.LevelWarn},
		{" error ", slog.LevelError},
		{"bogus", slog.LevelInfo},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseLogLevel(tt.in), tt.in)
	}
}

func TestNewLoggerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(config.LogConfig{Level: "warn", Format: "text"}, &buf)
	logger.Info("hidden")
	logger.Warn("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "msg=shown")
}

func TestOperationError(t *testing.T) {
	base := errors.New("boom")
	err := NewOperationError("save", "gig.json", base).WithContext("autosave")
	assert.Equal(t, "save gig.json (autosave): boom", err.Error())
	assert.ErrorIs(t, err, base)
	assert.True(t, errors.Is(err, err))

	var nilErr *OperationError
	assert.Equal(t, "", nilErr.Error())
	assert.Nil(t, nilErr.Unwrap())
	assert.Nil(t, nilErr.WithContext("x"))
}
