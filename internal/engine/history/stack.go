package history

import (
	"errors"
	"time"

	"github.com/dshills/setlist/internal/engine"
	"github.com/dshills/setlist/internal/setlist"
)

// DefaultCapacity is the default maximum number of stored snapshots.
const DefaultCapacity = 100

// Common errors for history operations.
var (
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNothingToRedo = errors.New("nothing to redo")
)

// Target is the document a History records and restores.
type Target interface {
	Snapshot() setlist.Snapshot
	Restore(snap setlist.Snapshot)
}

// OperationInfo describes a history entry.
type OperationInfo struct {
	Description string
	Timestamp   time.Time
}

// entry is one recorded document state.
type entry struct {
	snap      setlist.Snapshot
	op        string
	timestamp time.Time
}

// History manages undo/redo state for a store.
type History struct {
	target Target
	sub    *engine.Subscription

	entries []entry
	cursor  int

	// restoring is set while a history entry is being applied.
	restoring bool

	capacity int
}

// Option configures a History.
type Option func(*History)

// WithCapacity sets the maximum number of stored snapshots.
func WithCapacity(n int) Option {
	return func(h *History) {
		if n > 0 {
			h.capacity = n
		}
	}
}

// New creates a History anchored at the target's current state.
func New(target Target, opts ...Option) *History {
	h := &History{
		target:   target,
		capacity: DefaultCapacity,
	}
	for _, opt := range opts {
		opt(h)
	}
	h.anchor()
	return h
}

// Attach gives the history its own store subscription so it can suspend
// delivery while restoring.
func (h *History) Attach(sub *engine.Subscription) {
	h.sub = sub
}

// OnChange implements engine.Observer.
func (h *History) OnChange(change engine.Change) {
	if h.restoring {
		return
	}
	switch change.Kind {
	case engine.ChangeLoad, engine.ChangeReset:
		h.Clear()
	case engine.ChangeEdit:
		h.record(change.Op)
	}
}

// record appends the live state if it differs from the current entry.
func (h *History) record(op string) {
	snap := h.target.Snapshot()
	if snap.Equal(h.entries[h.cursor].snap) {
		return
	}

	h.entries = append(h.entries[:h.cursor+1], entry{
		snap:      snap,
		op:        op,
		timestamp: time.Now(),
	})

	if excess := len(h.entries) - h.capacity; excess > 0 {
		h.entries = append(h.entries[:0:0], h.entries[excess:]...)
	}
	h.cursor = len(h.entries) - 1
}

// Undo restores the previous state.
func (h *History) Undo() error {
	if h.cursor == 0 {
		return ErrNothingToUndo
	}
	h.cursor--
	h.apply()
	return nil
}

// Redo restores the state undone most recently.
func (h *History) Redo() error {
	if h.cursor >= len(h.entries)-1 {
		return ErrNothingToRedo
	}
	h.cursor++
	h.apply()
	return nil
}

// apply restores the entry at the cursor with recording suspended. The
// entry is refreshed from the settled document so later comparisons see
// exactly what the store holds.
func (h *History) apply() {
	if h.sub != nil && !h.sub.Suspended() {
		h.sub.Suspend()
		defer h.sub.Resume()
	}
	h.restoring = true
	defer func() { h.restoring = false }()

	h.target.Restore(h.entries[h.cursor].snap.Clone())
	h.entries[h.cursor].snap = h.target.Snapshot()
}

// CanUndo returns true if undo is available.
func (h *History) CanUndo() bool {
	return h.cursor > 0
}

// CanRedo returns true if redo is available.
func (h *History) CanRedo() bool {
	return h.cursor < len(h.entries)-1
}

// UndoCount returns the number of undo steps available.
func (h *History) UndoCount() int {
	return h.cursor
}

// RedoCount returns the number of redo steps available.
func (h *History) RedoCount() int {
	return len(h.entries) - 1 - h.cursor
}

// Len returns the number of stored snapshots, including the anchor.
func (h *History) Len() int {
	return len(h.entries)
}

// Capacity returns the maximum number of stored snapshots.
func (h *History) Capacity() int {
	return h.capacity
}

// SetCapacity changes the capacity. If the list is larger, the oldest
// entries are evicted; the cursor never moves past the live entry.
func (h *History) SetCapacity(n int) {
	if n <= 0 {
		n = DefaultCapacity
	}
	h.capacity = n
	if excess := len(h.entries) - n; excess > 0 {
		drop := min(excess, h.cursor)
		h.entries = append(h.entries[:0:0], h.entries[drop:]...)
		h.cursor -= drop
		if len(h.entries) > n {
			h.entries = h.entries[:n]
		}
	}
}

// Clear discards all entries and re-anchors at the live state.
func (h *History) Clear() {
	h.anchor()
}

func (h *History) anchor() {
	h.entries = []entry{{
		snap:      h.target.Snapshot(),
		op:        "anchor",
		timestamp: time.Now(),
	}}
	h.cursor = 0
}

// PeekUndo describes the edit the next Undo reverts.
func (h *History) PeekUndo() (OperationInfo, bool) {
	if !h.CanUndo() {
		return OperationInfo{}, false
	}
	return h.entries[h.cursor].info(), true
}

// PeekRedo describes the edit the next Redo reapplies.
func (h *History) PeekRedo() (OperationInfo, bool) {
	if !h.CanRedo() {
		return OperationInfo{}, false
	}
	return h.entries[h.cursor+1].info(), true
}

// UndoInfo describes every undoable edit, oldest first.
func (h *History) UndoInfo() []OperationInfo {
	out := make([]OperationInfo, 0, h.cursor)
	for _, e := range h.entries[1 : h.cursor+1] {
		out = append(out, e.info())
	}
	return out
}

func (e entry) info() OperationInfo {
	return OperationInfo{Description: e.op, Timestamp: e.timestamp}
}
