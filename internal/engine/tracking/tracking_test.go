package tracking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/setlist/internal/engine"
	"github.com/dshills/setlist/internal/setlist"
)

func newTracked(t *testing.T, opts ...Option) (*engine.Store, *Detector) {
	t.Helper()
	store := engine.New(engine.WithIDGenerator(setlist.NewSequenceGenerator("id")))
	det := New(store, opts...)
	store.Subscribe(det)
	return store, det
}

func ptr(s string) *string { return &s }

func TestDetectorStartsClean(t *testing.T) {
	_, det := newTracked(t)
	assert.False(t, det.IsDirty())
}

func TestDetectorEditThenRevert(t *testing.T) {
	store, det := newTracked(t)
	g1 := store.Sets()[0].ID

	store.RenameSet(g1, "Openers")
	assert.True(t, det.IsDirty())

	store.RenameSet(g1, "")
	assert.False(t, det.IsDirty(), "reverting the name is clean again")
}

func TestDetectorAddThenRemoveSet(t *testing.T) {
	store, det := newTracked(t)
	id := store.AddSet()
	assert.True(t, det.IsDirty())
	store.RemoveSet(id)
	assert.False(t, det.IsDirty())
}

func TestDetectorReorderIsAChange(t *testing.T) {
	store, det := newTracked(t)
	g1 := store.Sets()[0].ID
	store.AddSet()
	store.AddSongToSet(g1, engine.SongInput{Title: "A"})
	store.AddSongToSet(g1, engine.SongInput{Title: "B"})
	det.MarkClean()

	store.ReorderSong(g1, 0, 1)
	assert.True(t, det.IsDirty(), "same songs in another order is dirty")

	store.ReorderSong(g1, 0, 1)
	assert.False(t, det.IsDirty())
}

func TestDetectorMetadataRevertInAnyOrder(t *testing.T) {
	store, det := newTracked(t)
	store.UpdateMetadata(engine.MetadataPatch{Venue: ptr("V"), ActName: ptr("A")})
	det.MarkClean()

	store.UpdateMetadata(engine.MetadataPatch{Venue: ptr("W")})
	store.UpdateMetadata(engine.MetadataPatch{ActName: ptr("B")})
	assert.True(t, det.IsDirty())

	store.UpdateMetadata(engine.MetadataPatch{ActName: ptr("A")})
	assert.True(t, det.IsDirty())
	store.UpdateMetadata(engine.MetadataPatch{Venue: ptr("V")})
	assert.False(t, det.IsDirty())
}

func TestDetectorIgnoresMetrics(t *testing.T) {
	store, det := newTracked(t)
	g1 := store.Sets()[0].ID
	a := store.AddSongToSet(g1, engine.SongInput{Title: "A"})
	det.MarkClean()

	store.UpdateSong(g1, a, engine.SongPatch{Title: ptr("A much longer title")})
	store.UpdateSong(g1, a, engine.SongPatch{Title: ptr("A")})
	assert.False(t, det.IsDirty())
}

func TestDetectorLoadAndResetMarkClean(t *testing.T) {
	store, det := newTracked(t)
	store.AddSet()
	require.True(t, det.IsDirty())

	store.Reset()
	assert.False(t, det.IsDirty())

	store.AddSet()
	require.True(t, det.IsDirty())
	require.True(t, store.Load(map[string]any{"sets": []any{map[string]any{"songs": []any{}}}}))
	assert.False(t, det.IsDirty())

	clean := det.CleanSnapshot()
	assert.True(t, clean.Equal(store.Snapshot()))
}

func TestDetectorFailedLoadKeepsState(t *testing.T) {
	store, det := newTracked(t)
	store.AddSet()
	assert.False(t, store.Load(map[string]any{}))
	assert.True(t, det.IsDirty())
}

func TestDetectorRestoreRecomputes(t *testing.T) {
	store, det := newTracked(t)
	clean := store.Snapshot()
	store.AddSet()
	require.True(t, det.IsDirty())

	store.Restore(clean)
	assert.False(t, det.IsDirty())
}

func TestDetectorListenerFiresOnTransitions(t *testing.T) {
	var events []bool
	store, _ := newTracked(t, WithDirtyListener(func(d bool) { events = append(events, d) }))
	g1 := store.Sets()[0].ID

	store.RenameSet(g1, "x")
	store.RenameSet(g1, "y")
	store.RenameSet(g1, "")
	assert.Equal(t, []bool{true, false}, events)
}

func TestCleanSnapshotIsACopy(t *testing.T) {
	store, det := newTracked(t)
	snap := det.CleanSnapshot()
	snap.Sets[0].Name = "mutated"
	store.AddSet()
	store.RemoveSet(store.Sets()[1].ID)
	assert.False(t, det.IsDirty())
}
