// Package engine provides the set list document store.
//
// The Store owns exactly one setlist.Document and exposes the structural
// mutation API used by editors. Every mutation sanitizes its input, applies
// the change, rebuilds affected metrics and re-runs encore maintenance before
// it returns, so the document invariants hold between any two calls.
//
// # Basic Usage
//
//	s := engine.New()
//	setID := s.Sets()[0].ID
//
//	s.AddSongToSet(setID, engine.SongInput{Title: "Opener"})
//	s.AddSongToSet(setID, engine.SongInput{Title: "Closer", Key: "E"})
//
//	s.HasEncoreMarker(setID) // true: last set, two real songs
//
// # Observers
//
// Components that react to the document (dirty detection, undo history,
// autosave) subscribe to the Store:
//
//	sub := s.Subscribe(engine.ObserverFunc(func(c engine.Change) {
//	    fmt.Println(c.Kind, c.Op)
//	}))
//
//	sub.Suspend() // stop receiving without losing the registration
//	sub.Resume()
//
// Observers are called synchronously, in subscription order, after the
// mutation has fully settled.
//
// # Loading
//
// Load accepts the raw decoded form of a persisted or imported document
// (typically the result of json.Unmarshal into an any). It validates the
// shape, migrates older schema versions, normalizes every set and song and
// replaces the document. Invalid input leaves the current document untouched:
//
//	if !s.Load(raw) {
//	    // report the failure
//	}
//
// # Error Handling
//
// Mutations never fail. Unknown ids and out-of-range indices are no-ops or
// are clamped. Only Load reports failure:
//
//   - ErrInvalidDocument: candidate is not an object with a sets array
//   - setlist.ErrUnsupportedVersion: candidate is newer than this build
//
// # Thread Safety
//
// A Store is not safe for concurrent use. Callers that persist the document
// from another goroutine must take a copy with Document first.
package engine
