// Package history provides snapshot-based undo/redo for the set list store.
//
// The History keeps a capped list of comparable snapshots plus a cursor
// pointing at the entry that matches the live document. Key behaviors:
//
// # Recording
//
// History implements engine.Observer. After every edit it captures the live
// snapshot and appends it only when it differs from the entry at the cursor,
// so edits that change nothing visible (writing back the same name, an empty
// reorder) never create entries. Recording after an undo discards the redo
// tail. When the list exceeds its capacity the oldest entries are evicted.
//
//	store := engine.New()
//	h := history.New(store, history.WithCapacity(100))
//	h.Attach(store.Subscribe(h))
//
// # Undo/Redo
//
// Undo and Redo move the cursor and restore the target snapshot into the
// store. While restoring, the history suspends its own subscription so the
// restoration is not recorded as a new edit:
//
//	h.Undo() // previous state
//	h.Redo() // back again
//
// Dirty state is not touched here; a dirty detector subscribed to the same
// store recomputes it from the restore notification.
//
// # Anchoring
//
// Load and reset notifications clear the history and re-anchor it at the
// new document, since undoing past a freshly loaded document is meaningless.
package history
