// Package setlist defines the set list document model and the pure rules
// that apply to it.
//
// A Document is an ordered list of sets (performance segments), each holding
// an ordered list of songs. The last set may carry a single sentinel song, the
// encore marker, denoting where encore songs begin.
//
// # Derived State
//
// Two pieces of state are derived and never edited by hand:
//
//   - SetMetrics: display metrics over a set's real (non-marker) songs,
//     rebuilt by BuildMetrics.
//   - The encore marker itself, maintained by MaintainEncore.
//
// # Comparable Projection
//
// A Snapshot is the subset of a Document that determines user-visible
// identity: ids, names, song fields and metadata. Metrics are excluded.
// Snapshots are what the dirty detector and the undo history store and
// compare:
//
//	before := setlist.Capture(doc)
//	// ... edits ...
//	changed := !before.Equal(setlist.Capture(doc))
//
// # Migration
//
// Persisted documents carry a schemaVersion. Migrate upgrades a raw decoded
// value (map[string]any) from any prior version to CurrentSchemaVersion.
package setlist
