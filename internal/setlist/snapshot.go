package setlist

// SetSnapshot is the comparable projection of a SetItem.
type SetSnapshot struct {
	ID    string
	Name  string
	Songs []Song
}

// Snapshot is the comparable projection of a Document: everything that
// decides whether two documents look the same to the user. Metrics and the
// schema version are excluded.
type Snapshot struct {
	Metadata Metadata
	Sets     []SetSnapshot
}

// Capture projects doc into a Snapshot. The result shares no memory with doc.
func Capture(doc Document) Snapshot {
	snap := Snapshot{
		Metadata: doc.Metadata,
		Sets:     make([]SetSnapshot, len(doc.Sets)),
	}
	for i, s := range doc.Sets {
		snap.Sets[i] = SetSnapshot{
			ID:    s.ID,
			Name:  s.Name,
			Songs: append([]Song(nil), s.Songs...),
		}
	}
	return snap
}

// Clone returns a deep copy of the snapshot.
func (s Snapshot) Clone() Snapshot {
	out := Snapshot{
		Metadata: s.Metadata,
		Sets:     make([]SetSnapshot, len(s.Sets)),
	}
	for i, set := range s.Sets {
		out.Sets[i] = SetSnapshot{
			ID:    set.ID,
			Name:  set.Name,
			Songs: append([]Song(nil), set.Songs...),
		}
	}
	return out
}

// Equal compares two snapshots field by field. Set order and song order
// are significant.
func (s Snapshot) Equal(other Snapshot) bool {
	if s.Metadata != other.Metadata || len(s.Sets) != len(other.Sets) {
		return false
	}
	for i := range s.Sets {
		a, b := &s.Sets[i], &other.Sets[i]
		if a.ID != b.ID || a.Name != b.Name || len(a.Songs) != len(b.Songs) {
			return false
		}
		for j := range a.Songs {
			if a.Songs[j] != b.Songs[j] {
				return false
			}
		}
	}
	return true
}

// Document rebuilds a Document from the snapshot with fresh metrics.
func (s Snapshot) Document() Document {
	doc := Document{
		SchemaVersion: CurrentSchemaVersion,
		Metadata:      s.Metadata,
		Sets:          make([]SetItem, len(s.Sets)),
	}
	for i, set := range s.Sets {
		songs := append([]Song{}, set.Songs...)
		doc.Sets[i] = SetItem{
			ID:      set.ID,
			Name:    set.Name,
			Songs:   songs,
			Metrics: BuildMetrics(songs),
		}
	}
	return doc
}

// SongCount returns the total number of songs, markers included.
func (s Snapshot) SongCount() int {
	n := 0
	for _, set := range s.Sets {
		n += len(set.Songs)
	}
	return n
}
