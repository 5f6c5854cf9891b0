package script

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/setlist/internal/app"
	"github.com/dshills/setlist/internal/engine"
	"github.com/dshills/setlist/internal/setlist"
)

// newModule builds the setlist table bound to editor.
func newModule(L *lua.LState, editor Editor) *lua.LTable {
	m := &module{editor: editor}
	return L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"add_set":      m.addSet,
		"remove_set":   m.removeSet,
		"rename_set":   m.renameSet,
		"add_song":     m.addSong,
		"remove_song":  m.removeSong,
		"reorder":      m.reorder,
		"move":         m.move,
		"update_song":  m.updateSong,
		"set_meta":     m.setMeta,
		"meta":         m.meta,
		"sets":         m.sets,
		"has_encore":   m.hasEncore,
		"display_name": m.displayName,
		"undo":         m.undo,
		"redo":         m.redo,
		"dirty":        m.dirty,
	})
}

type module struct {
	editor Editor
}

func (m *module) addSet(L *lua.LState) int {
	L.Push(lua.LString(m.editor.AddSet()))
	return 1
}

func (m *module) removeSet(L *lua.LState) int {
	m.editor.RemoveSet(L.CheckString(1))
	return 0
}

func (m *module) renameSet(L *lua.LState) int {
	m.editor.RenameSet(L.CheckString(1), L.OptString(2, ""))
	return 0
}

func (m *module) addSong(L *lua.LState) int {
	id := m.editor.AddSongToSet(L.CheckString(1), engine.SongInput{
		Title: L.OptString(2, ""),
		Key:   L.OptString(3, ""),
	})
	if id == "" {
		L.Push(lua.LNil)
	} else {
		L.Push(lua.LString(id))
	}
	return 1
}

func (m *module) removeSong(L *lua.LState) int {
	m.editor.RemoveSongFromSet(L.CheckString(1), L.CheckString(2))
	return 0
}

func (m *module) reorder(L *lua.LState) int {
	m.editor.ReorderSong(L.CheckString(1), L.CheckInt(2)-1, L.CheckInt(3)-1)
	return 0
}

func (m *module) move(L *lua.LState) int {
	m.editor.MoveSong(L.CheckString(1), L.CheckString(2), L.CheckInt(3)-1, L.CheckInt(4)-1)
	return 0
}

func (m *module) updateSong(L *lua.LState) int {
	fields := L.CheckTable(3)
	m.editor.UpdateSong(L.CheckString(1), L.CheckString(2), engine.SongPatch{
		Title: optField(fields, "title"),
		Key:   optField(fields, "key"),
	})
	return 0
}

func (m *module) setMeta(L *lua.LState) int {
	fields := L.CheckTable(1)
	m.editor.UpdateMetadata(engine.MetadataPatch{
		SetListName: optField(fields, "set_list_name"),
		Venue:       optField(fields, "venue"),
		Date:        optField(fields, "date"),
		ActName:     optField(fields, "act_name"),
	})
	return 0
}

func (m *module) meta(L *lua.LState) int {
	md := m.editor.Document().Metadata
	t := L.NewTable()
	t.RawSetString("set_list_name", lua.LString(md.SetListName))
	t.RawSetString("venue", lua.LString(md.Venue))
	t.RawSetString("date", lua.LString(md.Date))
	t.RawSetString("act_name", lua.LString(md.ActName))
	L.Push(t)
	return 1
}

func (m *module) sets(L *lua.LState) int {
	doc := m.editor.Document()
	out := L.CreateTable(len(doc.Sets), 0)
	for i, set := range doc.Sets {
		songs := L.CreateTable(len(set.Songs), 0)
		for _, song := range set.Songs {
			st := L.NewTable()
			st.RawSetString("id", lua.LString(song.ID))
			st.RawSetString("title", lua.LString(song.Title))
			if song.Key != "" {
				st.RawSetString("key", lua.LString(song.Key))
			}
			st.RawSetString("encore", lua.LBool(setlist.IsMarker(song)))
			songs.Append(st)
		}

		t := L.NewTable()
		t.RawSetString("id", lua.LString(set.ID))
		if set.Name != "" {
			t.RawSetString("name", lua.LString(set.Name))
		}
		t.RawSetString("display_name", lua.LString(setlist.DisplayName(set, i)))
		t.RawSetString("songs", songs)
		out.Append(t)
	}
	L.Push(out)
	return 1
}

func (m *module) hasEncore(L *lua.LState) int {
	L.Push(lua.LBool(m.editor.HasEncoreMarker(L.CheckString(1))))
	return 1
}

func (m *module) displayName(L *lua.LState) int {
	L.Push(lua.LString(m.editor.DisplayName(L.CheckString(1))))
	return 1
}

func (m *module) undo(L *lua.LState) int {
	return m.step(L, m.editor.Undo())
}

func (m *module) redo(L *lua.LState) int {
	return m.step(L, m.editor.Redo())
}

// step reports whether an undo or redo moved; an empty stack is not an error.
func (m *module) step(L *lua.LState, err error) int {
	if err != nil && !app.IsNothingToDo(err) {
		L.RaiseError("%s", err.Error())
	}
	L.Push(lua.LBool(err == nil))
	return 1
}

func (m *module) dirty(L *lua.LState) int {
	L.Push(lua.LBool(m.editor.IsDirty()))
	return 1
}

// optField returns a pointer to a string field, or nil when the field is
// absent or not a string.
func optField(t *lua.LTable, key string) *string {
	v, ok := t.RawGetString(key).(lua.LString)
	if !ok {
		return nil
	}
	s := string(v)
	return &s
}
