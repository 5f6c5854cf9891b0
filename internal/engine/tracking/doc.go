// Package tracking detects unsaved changes in a set list document.
//
// A Detector keeps a clean snapshot, the comparable projection of the
// document as it was last saved, loaded or reset, and recomputes dirtiness
// from scratch on every change notification. Nothing flips a flag: an edit
// that is later reverted by hand, or a set that is added and then removed,
// compares equal to the clean snapshot and reports clean again.
//
// # Usage
//
//	store := engine.New()
//	det := tracking.New(store)
//	store.Subscribe(det)
//
//	store.AddSet()
//	det.IsDirty() // true
//
//	// after writing the document somewhere
//	det.MarkClean()
//
// Load and reset notifications mark the detector clean automatically.
// Metrics never influence the result.
package tracking
