// Package script runs Lua scripts against an open set list.
//
// Scripts are a batch-editing surface: they call into a global "setlist"
// table whose functions map onto the Session mutation API. Each Run gets a
// fresh interpreter with only the base, table, string and math libraries;
// file loading and module loading are removed.
//
//	host := script.NewHost(session, script.WithOutput(os.Stdout))
//	err := host.Run(ctx, "reorder.lua", `
//	    local id = setlist.sets()[1].id
//	    setlist.add_song(id, "Opener", "E")
//	    setlist.reorder(id, 1, 3)
//	`)
//
// Indices are 1-based on the Lua side. Unknown ids are silently ignored,
// exactly as they are by the store.
//
// # Functions
//
//	add_set() -> id
//	remove_set(set_id)
//	rename_set(set_id, name)
//	add_song(set_id, title [, key]) -> id | nil
//	remove_song(set_id, song_id)
//	reorder(set_id, from, to)
//	move(from_set_id, to_set_id, from, to)
//	update_song(set_id, song_id, {title=, key=})
//	set_meta({set_list_name=, venue=, date=, act_name=})
//	meta() -> table
//	sets() -> array of {id, name, display_name, songs={{id, title, key, encore}}}
//	has_encore(set_id) -> bool
//	display_name(set_id) -> string
//	undo() -> bool
//	redo() -> bool
//	dirty() -> bool
package script
