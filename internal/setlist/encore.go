package setlist

// NewMarker creates an encore marker song with a fresh id.
func NewMarker(ids IDGenerator) Song {
	return Song{
		ID:             ids.NewID(),
		Title:          EncoreTitle,
		IsEncoreMarker: true,
	}
}

// MaintainEncore enforces the encore rule across the document: only the
// last set may hold a marker, and only while it has at least minSongs real
// songs. A required marker that is missing is appended; markers that are not
// required are removed; duplicates collapse to the first one.
//
// Metrics are rebuilt for every set that was touched. The function is
// idempotent and reports whether it changed anything.
func MaintainEncore(doc *Document, minSongs int, ids IDGenerator) bool {
	if minSongs < 1 {
		minSongs = DefaultEncoreMinSongs
	}

	changed := false
	last := len(doc.Sets) - 1
	for i := range doc.Sets {
		set := &doc.Sets[i]
		want := i == last && set.RealSongCount() >= minSongs

		if maintainSet(set, want, ids) {
			set.Metrics = BuildMetrics(set.Songs)
			changed = true
		}
	}
	return changed
}

// maintainSet brings a single set in line with want.
func maintainSet(set *SetItem, want bool, ids IDGenerator) bool {
	kept := false
	changed := false
	songs := set.Songs[:0:0]
	for _, s := range set.Songs {
		if IsMarker(s) {
			if !want || kept {
				changed = true
				continue
			}
			kept = true
		}
		songs = append(songs, s)
	}

	if want && !kept {
		songs = append(songs, NewMarker(ids))
		changed = true
	}

	if changed {
		set.Songs = songs
	}
	return changed
}
