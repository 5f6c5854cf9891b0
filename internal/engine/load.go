package engine

import (
	"fmt"

	"github.com/dshills/setlist/internal/setlist"
)

// Load replaces the document with candidate, the raw decoded form of a
// persisted or imported document. It reports false and leaves the current
// document untouched when candidate is not a valid document.
func (s *Store) Load(candidate any) bool {
	return s.LoadErr(candidate) == nil
}

// LoadErr is Load with the failure reason.
func (s *Store) LoadErr(candidate any) error {
	raw, ok := candidate.(map[string]any)
	if !ok {
		return fmt.Errorf("%w: expected object, got %T", ErrInvalidDocument, candidate)
	}
	if _, ok := raw["sets"].([]any); !ok {
		return fmt.Errorf("%w: missing sets array", ErrInvalidDocument)
	}

	migrated, _, err := s.migrator.Migrate(copyRaw(raw).(map[string]any))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrMigration, err)
	}

	doc := s.normalize(migrated)
	setlist.RefreshMetrics(&doc)

	s.doc = doc
	s.settle()
	s.notify(Change{Kind: ChangeLoad, Op: "load"})
	return nil
}

// normalize builds a Document from a migrated raw value. Missing or
// duplicate ids are regenerated, missing titles get defaults, and every
// text field is sanitized. Entries that are not objects are skipped.
func (s *Store) normalize(raw map[string]any) setlist.Document {
	seen := make(map[string]bool)
	uniqueID := func(v any) string {
		id, _ := v.(string)
		if id == "" || seen[id] {
			id = s.ids.NewID()
			for seen[id] {
				id = s.ids.NewID()
			}
		}
		seen[id] = true
		return id
	}

	doc := setlist.Document{SchemaVersion: setlist.CurrentSchemaVersion}

	if meta, ok := raw["metadata"].(map[string]any); ok {
		doc.Metadata = s.limits.SanitizeMetadata(setlist.Metadata{
			SetListName: stringField(meta, "setListName"),
			Venue:       stringField(meta, "venue"),
			Date:        stringField(meta, "date"),
			ActName:     stringField(meta, "actName"),
		})
	}

	rawSets, _ := raw["sets"].([]any)
	doc.Sets = make([]setlist.SetItem, 0, len(rawSets))
	for _, rs := range rawSets {
		rawSet, ok := rs.(map[string]any)
		if !ok {
			continue
		}

		set := setlist.SetItem{
			ID:    uniqueID(rawSet["id"]),
			Name:  s.limits.SanitizeSetName(stringField(rawSet, "name")),
			Songs: []setlist.Song{},
		}

		rawSongs, _ := rawSet["songs"].([]any)
		for _, rsong := range rawSongs {
			rawSong, ok := rsong.(map[string]any)
			if !ok {
				continue
			}
			set.Songs = append(set.Songs, s.normalizeSong(rawSong, uniqueID(rawSong["id"]), set.RealSongCount()+1))
		}

		doc.Sets = append(doc.Sets, set)
	}

	return doc
}

func (s *Store) normalizeSong(raw map[string]any, id string, n int) setlist.Song {
	title := s.limits.SanitizeTitle(stringField(raw, "title"))
	flag, _ := raw["isEncoreMarker"].(bool)

	if flag || title == setlist.EncoreTitle {
		return setlist.Song{ID: id, Title: setlist.EncoreTitle, IsEncoreMarker: true}
	}
	if title == "" {
		title = setlist.DefaultSongTitle(n)
	}
	return setlist.Song{
		ID:    id,
		Title: title,
		Key:   s.limits.SanitizeKey(stringField(raw, "key")),
	}
}

func stringField(m map[string]any, key string) string {
	v, _ := m[key].(string)
	return v
}

// copyRaw deep-copies the maps and slices of a decoded value so migration
// never mutates the caller's data.
func copyRaw(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = copyRaw(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = copyRaw(val)
		}
		return out
	default:
		return v
	}
}
