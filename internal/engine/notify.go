package engine

// ChangeKind classifies a document change.
type ChangeKind int

const (
	// ChangeEdit is a structural or field edit made through the mutation API.
	ChangeEdit ChangeKind = iota

	// ChangeLoad indicates the document was replaced by Load.
	ChangeLoad

	// ChangeReset indicates the document was replaced by Reset.
	ChangeReset

	// ChangeRestore indicates the document was restored from a snapshot,
	// typically by undo or redo.
	ChangeRestore
)

// String returns the change kind name.
func (k ChangeKind) String() string {
	switch k {
	case ChangeEdit:
		return "edit"
	case ChangeLoad:
		return "load"
	case ChangeReset:
		return "reset"
	case ChangeRestore:
		return "restore"
	default:
		return "unknown"
	}
}

// Change describes a settled document change.
type Change struct {
	Kind ChangeKind

	// Op names the operation, e.g. "addSet" or "moveSong".
	Op string

	// SetID is the primary set affected, when there is one.
	SetID string
}

// Observer receives document changes.
type Observer interface {
	OnChange(change Change)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(change Change)

// OnChange implements Observer.
func (f ObserverFunc) OnChange(change Change) {
	f(change)
}

// Subscription is an observer registration on a Store.
type Subscription struct {
	id        uint64
	observer  Observer
	suspended bool
	store     *Store
}

// Suspend stops delivery to the observer until Resume is called.
// Changes made while suspended are not replayed.
func (sub *Subscription) Suspend() {
	sub.suspended = true
}

// Resume restarts delivery to the observer.
func (sub *Subscription) Resume() {
	sub.suspended = false
}

// Suspended reports whether delivery is suspended.
func (sub *Subscription) Suspended() bool {
	return sub.suspended
}

// Unsubscribe removes the registration. Safe to call more than once.
func (sub *Subscription) Unsubscribe() {
	if sub.store == nil {
		return
	}
	sub.store.unsubscribe(sub.id)
	sub.store = nil
}

// Subscribe registers an observer for all document changes.
func (s *Store) Subscribe(o Observer) *Subscription {
	s.nextSubID++
	sub := &Subscription{
		id:       s.nextSubID,
		observer: o,
		store:    s,
	}
	s.subs = append(s.subs, sub)
	return sub
}

func (s *Store) unsubscribe(id uint64) {
	for i, sub := range s.subs {
		if sub.id == id {
			s.subs = append(s.subs[:i], s.subs[i+1:]...)
			return
		}
	}
}

// notify delivers change to every active subscription in order.
// The list is copied so observers may unsubscribe during delivery.
func (s *Store) notify(change Change) {
	subs := append([]*Subscription(nil), s.subs...)
	for _, sub := range subs {
		if sub.suspended || sub.store == nil {
			continue
		}
		sub.observer.OnChange(change)
	}
}
