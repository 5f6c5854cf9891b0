// Package storage persists set list documents to disk.
//
// FileStore reads and atomically writes a single document file, encoded as
// JSON or YAML by extension. Open loads a file into a store or session,
// falling back to a fresh document on first run or when the file is bad.
//
// Autosaver subscribes to a store and writes the document after a debounce
// delay:
//
//	fs := storage.NewFileStore("setlist.json")
//	saver := storage.NewAutosaver(store, fs, storage.WithDelay(time.Second))
//	store.Subscribe(saver)
//	defer saver.Close()
//
// Watcher reports when another process replaces the file so it can be
// reloaded. FileStore.Modified distinguishes those changes from the
// store's own writes.
package storage
