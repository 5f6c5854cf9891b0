package engine

import (
	"github.com/dshills/setlist/internal/setlist"
)

// SongInput carries the fields of a song being added.
type SongInput struct {
	Title string
	Key   string
}

// SongPatch carries the song fields to update. Nil fields are left alone.
type SongPatch struct {
	Title *string
	Key   *string
}

// MetadataPatch carries the metadata fields to update. Nil fields are left alone.
type MetadataPatch struct {
	SetListName *string
	Venue       *string
	Date        *string
	ActName     *string
}

// Store owns the set list document and its mutation API.
type Store struct {
	doc setlist.Document

	// Configuration
	ids       setlist.IDGenerator
	limits    setlist.Limits
	encoreMin int
	migrator  *setlist.Migrator

	// Observers
	subs      []*Subscription
	nextSubID uint64
}

// New creates a Store holding the default document: blank metadata and a
// single empty set.
func New(opts ...Option) *Store {
	s := &Store{
		ids:       setlist.UUIDGenerator{},
		limits:    setlist.DefaultLimits(),
		encoreMin: setlist.DefaultEncoreMinSongs,
		migrator:  setlist.DefaultMigrator(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.doc = setlist.NewDocument(s.ids)
	s.settle()
	return s
}

// ============================================================================
// Read Operations
// ============================================================================

// Document returns a deep copy of the current document.
func (s *Store) Document() setlist.Document {
	return s.doc.Clone()
}

// Snapshot returns the comparable projection of the current document.
func (s *Store) Snapshot() setlist.Snapshot {
	return setlist.Capture(s.doc)
}

// Sets returns a copy of all sets in order.
func (s *Store) Sets() []setlist.SetItem {
	return s.doc.Clone().Sets
}

// SetCount returns the number of sets.
func (s *Store) SetCount() int {
	return len(s.doc.Sets)
}

// Set returns a copy of the set with the given id.
func (s *Store) Set(setID string) (setlist.SetItem, bool) {
	i := s.doc.SetIndex(setID)
	if i < 0 {
		return setlist.SetItem{}, false
	}
	return s.doc.Sets[i].Clone(), true
}

// Metadata returns the document metadata.
func (s *Store) Metadata() setlist.Metadata {
	return s.doc.Metadata
}

// HasEncoreMarker reports whether the set currently holds an encore marker.
func (s *Store) HasEncoreMarker(setID string) bool {
	i := s.doc.SetIndex(setID)
	return i >= 0 && s.doc.Sets[i].HasMarker()
}

// DisplayName returns the set's name, or its synthesized "Set N" name.
// Unknown ids return "".
func (s *Store) DisplayName(setID string) string {
	i := s.doc.SetIndex(setID)
	if i < 0 {
		return ""
	}
	return setlist.DisplayName(s.doc.Sets[i], i)
}

// Limits returns the field limits applied by the sanitizers.
func (s *Store) Limits() setlist.Limits {
	return s.limits
}

// ============================================================================
// Set Operations
// ============================================================================

// AddSet appends an empty set and returns its id.
func (s *Store) AddSet() string {
	id := s.ids.NewID()
	s.doc.Sets = append(s.doc.Sets, setlist.SetItem{ID: id, Songs: []setlist.Song{}})
	s.commit("addSet", id)
	return id
}

// RemoveSet removes the set with the given id.
func (s *Store) RemoveSet(setID string) {
	i := s.doc.SetIndex(setID)
	if i < 0 {
		return
	}
	s.doc.Sets = append(s.doc.Sets[:i], s.doc.Sets[i+1:]...)
	s.commit("removeSet", setID)
}

// RenameSet sets a custom name. An empty or whitespace-only name clears it.
func (s *Store) RenameSet(setID, name string) {
	i := s.doc.SetIndex(setID)
	if i < 0 {
		return
	}
	s.doc.Sets[i].Name = s.limits.SanitizeSetName(name)
	s.commit("renameSet", setID)
}

// ============================================================================
// Song Operations
// ============================================================================

// AddSongToSet adds a song to the set and returns its id, or "" when the
// set does not exist. A song added to a set whose last entry is the encore
// marker goes in front of the marker.
func (s *Store) AddSongToSet(setID string, in SongInput) string {
	i := s.doc.SetIndex(setID)
	if i < 0 {
		return ""
	}
	set := &s.doc.Sets[i]

	song := setlist.Song{
		ID:    s.ids.NewID(),
		Title: s.songTitle(in.Title, set.RealSongCount()+1),
		Key:   s.limits.SanitizeKey(in.Key),
	}

	if n := len(set.Songs); n > 0 && setlist.IsMarker(set.Songs[n-1]) {
		set.Songs = insertAt(set.Songs, n-1, song)
	} else {
		set.Songs = append(set.Songs, song)
	}

	s.touch(i)
	s.commit("addSong", setID)
	return song.ID
}

// RemoveSongFromSet removes the song from the set.
func (s *Store) RemoveSongFromSet(setID, songID string) {
	i := s.doc.SetIndex(setID)
	if i < 0 {
		return
	}
	j := s.doc.Sets[i].SongIndex(songID)
	if j < 0 {
		return
	}
	s.doc.Sets[i].Songs = removeAt(s.doc.Sets[i].Songs, j)
	s.touch(i)
	s.commit("removeSong", setID)
}

// ReorderSong moves one entry within a set. An out-of-range fromIndex is a
// no-op; toIndex is clamped to the list with the entry removed.
func (s *Store) ReorderSong(setID string, fromIndex, toIndex int) {
	i := s.doc.SetIndex(setID)
	if i < 0 {
		return
	}
	set := &s.doc.Sets[i]
	if fromIndex < 0 || fromIndex >= len(set.Songs) {
		return
	}

	song := set.Songs[fromIndex]
	set.Songs = removeAt(set.Songs, fromIndex)
	set.Songs = insertAt(set.Songs, clamp(toIndex, len(set.Songs)), song)

	s.touch(i)
	s.commit("reorderSong", setID)
}

// MoveSong moves an entry from one set into another. Moves within a single
// set behave like ReorderSong. The encore marker never leaves its set: such a
// move is rejected and the document is not touched.
func (s *Store) MoveSong(fromSetID, toSetID string, fromIndex, toIndex int) {
	if fromSetID == toSetID {
		s.ReorderSong(fromSetID, fromIndex, toIndex)
		return
	}

	src := s.doc.SetIndex(fromSetID)
	dst := s.doc.SetIndex(toSetID)
	if src < 0 || dst < 0 {
		return
	}
	if fromIndex < 0 || fromIndex >= len(s.doc.Sets[src].Songs) {
		return
	}

	song := s.doc.Sets[src].Songs[fromIndex]
	if setlist.IsMarker(song) {
		return
	}

	s.doc.Sets[src].Songs = removeAt(s.doc.Sets[src].Songs, fromIndex)
	to := &s.doc.Sets[dst]
	to.Songs = insertAt(to.Songs, clamp(toIndex, len(to.Songs)), song)

	s.touch(src)
	s.touch(dst)
	s.commit("moveSong", toSetID)
}

// UpdateSong merges the present fields of patch into the song. Encore
// markers are not editable.
func (s *Store) UpdateSong(setID, songID string, patch SongPatch) {
	i := s.doc.SetIndex(setID)
	if i < 0 {
		return
	}
	set := &s.doc.Sets[i]
	j := set.SongIndex(songID)
	if j < 0 || setlist.IsMarker(set.Songs[j]) {
		return
	}

	song := &set.Songs[j]
	if patch.Title != nil {
		song.Title = s.songTitle(*patch.Title, realPosition(set.Songs, j))
	}
	if patch.Key != nil {
		song.Key = s.limits.SanitizeKey(*patch.Key)
	}

	s.touch(i)
	s.commit("updateSong", setID)
}

// ============================================================================
// Document Operations
// ============================================================================

// UpdateMetadata merges the present fields of patch into the metadata.
func (s *Store) UpdateMetadata(patch MetadataPatch) {
	m := s.doc.Metadata
	if patch.SetListName != nil {
		m.SetListName = *patch.SetListName
	}
	if patch.Venue != nil {
		m.Venue = *patch.Venue
	}
	if patch.Date != nil {
		m.Date = *patch.Date
	}
	if patch.ActName != nil {
		m.ActName = *patch.ActName
	}
	s.doc.Metadata = s.limits.SanitizeMetadata(m)
	s.commit("updateMetadata", "")
}

// Reset replaces the document with a fresh default.
func (s *Store) Reset() {
	s.doc = setlist.NewDocument(s.ids)
	s.settle()
	s.notify(Change{Kind: ChangeReset, Op: "reset"})
}

// Restore replaces the document with the contents of a snapshot and
// re-establishes the invariants.
func (s *Store) Restore(snap setlist.Snapshot) {
	s.doc = snap.Document()
	s.settle()
	s.notify(Change{Kind: ChangeRestore, Op: "restore"})
}

// ============================================================================
// Internal helpers
// ============================================================================

// commit settles the document and notifies observers of an edit.
func (s *Store) commit(op, setID string) {
	s.settle()
	s.notify(Change{Kind: ChangeEdit, Op: op, SetID: setID})
}

// settle re-runs encore maintenance across the whole document.
func (s *Store) settle() {
	setlist.MaintainEncore(&s.doc, s.encoreMin, s.ids)
}

// touch rebuilds metrics for the set at index i.
func (s *Store) touch(i int) {
	s.doc.Sets[i].Metrics = setlist.BuildMetrics(s.doc.Sets[i].Songs)
}

// songTitle sanitizes a user title. Empty titles, and titles that would be
// mistaken for the encore marker, become "Song n".
func (s *Store) songTitle(title string, n int) string {
	t := s.limits.SanitizeTitle(title)
	if t == "" || t == setlist.EncoreTitle {
		return setlist.DefaultSongTitle(n)
	}
	return t
}

// realPosition returns the 1-based position of songs[j] among real songs.
func realPosition(songs []setlist.Song, j int) int {
	n := 1
	for _, song := range songs[:j] {
		if !setlist.IsMarker(song) {
			n++
		}
	}
	return n
}

func clamp(i, n int) int {
	if i < 0 {
		return 0
	}
	if i > n {
		return n
	}
	return i
}

func insertAt(songs []setlist.Song, i int, song setlist.Song) []setlist.Song {
	songs = append(songs, setlist.Song{})
	copy(songs[i+1:], songs[i:])
	songs[i] = song
	return songs
}

func removeAt(songs []setlist.Song, i int) []setlist.Song {
	return append(songs[:i], songs[i+1:]...)
}
