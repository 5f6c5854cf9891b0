package setlist

import "strconv"

// CurrentSchemaVersion is the schema version produced by this package.
const CurrentSchemaVersion = 2

// EncoreTitle is the title carried by encore markers. Documents written
// before the isEncoreMarker flag existed identify markers by title alone.
const EncoreTitle = "<encore>"

// DefaultEncoreMinSongs is the number of real songs the last set needs
// before it receives an encore marker.
const DefaultEncoreMinSongs = 2

// Song is a single entry in a set.
type Song struct {
	ID             string `json:"id" yaml:"id"`
	Title          string `json:"title" yaml:"title"`
	Key            string `json:"key,omitempty" yaml:"key,omitempty"`
	IsEncoreMarker bool   `json:"isEncoreMarker,omitempty" yaml:"isEncoreMarker,omitempty"`
}

// IsMarker reports whether s is an encore marker, honoring both the
// explicit flag and the legacy title sentinel.
func IsMarker(s Song) bool {
	return s.IsEncoreMarker || s.Title == EncoreTitle
}

// SetMetrics holds display metrics derived from a set's non-marker songs.
type SetMetrics struct {
	// LongestEntryID is empty when the set has no real songs.
	LongestEntryID    string
	LongestEntryText  string
	LongestEntryWidth int
	TotalRows         int
}

// SetItem is one performance set.
type SetItem struct {
	ID string `json:"id" yaml:"id"`

	// Name is optional. When empty, DisplayName synthesizes "Set N".
	Name  string `json:"name,omitempty" yaml:"name,omitempty"`
	Songs []Song `json:"songs" yaml:"songs"`

	Metrics SetMetrics `json:"-" yaml:"-"`
}

// MarkerIndex returns the index of the first marker in the set, or -1.
func (s *SetItem) MarkerIndex() int {
	for i, song := range s.Songs {
		if IsMarker(song) {
			return i
		}
	}
	return -1
}

// HasMarker reports whether the set contains an encore marker.
func (s *SetItem) HasMarker() bool {
	return s.MarkerIndex() >= 0
}

// RealSongCount returns the number of non-marker songs.
func (s *SetItem) RealSongCount() int {
	n := 0
	for _, song := range s.Songs {
		if !IsMarker(song) {
			n++
		}
	}
	return n
}

// SongIndex returns the index of the song with the given id, or -1.
func (s *SetItem) SongIndex(id string) int {
	for i, song := range s.Songs {
		if song.ID == id {
			return i
		}
	}
	return -1
}

// Clone returns a deep copy of the set.
func (s SetItem) Clone() SetItem {
	s.Songs = append([]Song(nil), s.Songs...)
	return s
}

// DisplayName returns the set's custom name, or "Set N" for the given
// zero-based position when no custom name is stored.
func DisplayName(s SetItem, index int) string {
	if s.Name != "" {
		return s.Name
	}
	return "Set " + strconv.Itoa(index+1)
}

// Metadata describes the whole set list.
type Metadata struct {
	SetListName string `json:"setListName" yaml:"setListName"`
	Venue       string `json:"venue" yaml:"venue"`
	Date        string `json:"date" yaml:"date"`
	ActName     string `json:"actName" yaml:"actName"`
}

// Document is the root aggregate.
type Document struct {
	SchemaVersion int       `json:"schemaVersion" yaml:"schemaVersion"`
	Metadata      Metadata  `json:"metadata" yaml:"metadata"`
	Sets          []SetItem `json:"sets" yaml:"sets"`
}

// NewDocument returns the default document: blank metadata and a single
// empty set with a fresh id.
func NewDocument(ids IDGenerator) Document {
	return Document{
		SchemaVersion: CurrentSchemaVersion,
		Sets:          []SetItem{{ID: ids.NewID(), Songs: []Song{}}},
	}
}

// Clone returns a deep copy of the document.
func (d Document) Clone() Document {
	sets := make([]SetItem, len(d.Sets))
	for i, s := range d.Sets {
		sets[i] = s.Clone()
	}
	d.Sets = sets
	return d
}

// SetIndex returns the index of the set with the given id, or -1.
func (d *Document) SetIndex(id string) int {
	for i := range d.Sets {
		if d.Sets[i].ID == id {
			return i
		}
	}
	return -1
}
