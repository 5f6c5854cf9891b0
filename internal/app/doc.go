// Package app wires the set list document store to its observers.
//
// A Session owns one engine.Store and subscribes, in order, a
// tracking.Detector for unsaved-change detection, a history.History for
// undo/redo and a debug logger. Callers drive every edit through the
// Session (or its Store) and never touch the detector or history state
// directly:
//
//	s := app.NewSession(app.WithConfig(cfg), app.WithLogger(logger))
//	setID := s.Sets()[0].ID
//	s.AddSongToSet(setID, engine.SongInput{Title: "Opener"})
//	s.IsDirty() // true
//	s.Undo()
//	s.IsDirty() // false: back on the clean snapshot
//
// Destructive operations take a ConfirmFunc; the session asks only when
// there are unsaved changes:
//
//	err := s.Import(raw, path, func() bool { return promptUser("Discard changes?") })
//	if errors.Is(err, app.ErrUnsavedChanges) {
//	    // user declined
//	}
package app
