package tracking

import (
	"github.com/dshills/setlist/internal/engine"
	"github.com/dshills/setlist/internal/setlist"
)

// Source provides the live comparable projection.
type Source interface {
	Snapshot() setlist.Snapshot
}

// Detector reports whether the live document differs from the last clean
// snapshot. It implements engine.Observer.
type Detector struct {
	source   Source
	clean    setlist.Snapshot
	dirty    bool
	listener func(dirty bool)
}

// Option configures a Detector.
type Option func(*Detector)

// WithDirtyListener registers fn to be called whenever the dirty state
// flips. It is not called for recomputations that leave the state unchanged.
func WithDirtyListener(fn func(dirty bool)) Option {
	return func(d *Detector) {
		d.listener = fn
	}
}

// New creates a Detector whose clean snapshot is the source's current state.
func New(source Source, opts ...Option) *Detector {
	d := &Detector{
		source: source,
		clean:  source.Snapshot(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// OnChange implements engine.Observer. Load and reset establish a new clean
// baseline; every other change triggers a recomputation.
func (d *Detector) OnChange(change engine.Change) {
	switch change.Kind {
	case engine.ChangeLoad, engine.ChangeReset:
		d.MarkClean()
	default:
		d.Recompute()
	}
}

// IsDirty reports whether the live document differs from the clean snapshot.
func (d *Detector) IsDirty() bool {
	return d.dirty
}

// MarkClean takes the live state as the new clean snapshot.
func (d *Detector) MarkClean() {
	d.clean = d.source.Snapshot()
	d.set(false)
}

// Recompute compares the live state with the clean snapshot and returns
// the result.
func (d *Detector) Recompute() bool {
	d.set(!d.clean.Equal(d.source.Snapshot()))
	return d.dirty
}

// CleanSnapshot returns a copy of the clean snapshot.
func (d *Detector) CleanSnapshot() setlist.Snapshot {
	return d.clean.Clone()
}

func (d *Detector) set(dirty bool) {
	if d.dirty == dirty {
		return
	}
	d.dirty = dirty
	if d.listener != nil {
		d.listener(dirty)
	}
}
