// Package gesture carries the pointer plumbing shared by the drag-driven
// components: a global listener bus for move/up events, a cancellable task
// scheduler, a debouncer built on it, and the drag feedback port through which
// engines change the cursor and text selection.
package gesture

import "sort"

// PointerEvent is a pointer position in px plus modifier state.
type PointerEvent struct {
	X, Y  float64
	Shift bool
	Ctrl  bool
	Alt   bool
}

// Multi reports whether a multi-select modifier is held.
func (e PointerEvent) Multi() bool {
	return e.Shift || e.Ctrl
}

type eventKind int

const (
	kindMove eventKind = iota
	kindUp
)

// Bus delivers global pointer move/up events to every registered listener,
// regardless of which component the pointer is over. Engines register on
// gesture start and remove on every exit path.
type Bus struct {
	nextID    int
	listeners map[eventKind]map[int]func(PointerEvent)
}

// NewBus returns an empty bus.
func NewBus() *Bus {
	return &Bus{listeners: map[eventKind]map[int]func(PointerEvent){
		kindMove: {},
		kindUp:   {},
	}}
}

// OnMove registers fn for pointer-move events.
func (b *Bus) OnMove(fn func(PointerEvent)) *Subscription {
	return b.add(kindMove, fn)
}

// OnUp registers fn for pointer-up events.
func (b *Bus) OnUp(fn func(PointerEvent)) *Subscription {
	return b.add(kindUp, fn)
}

func (b *Bus) add(kind eventKind, fn func(PointerEvent)) *Subscription {
	b.nextID++
	b.listeners[kind][b.nextID] = fn
	return &Subscription{bus: b, kind: kind, id: b.nextID}
}

// Move dispatches a pointer-move to every move listener.
func (b *Bus) Move(ev PointerEvent) {
	b.dispatch(kindMove, ev)
}

// Up dispatches a pointer-up to every up listener.
func (b *Bus) Up(ev PointerEvent) {
	b.dispatch(kindUp, ev)
}

// dispatch snapshots listeners in registration order so handlers may remove
// themselves (or others) while the event is being delivered.
func (b *Bus) dispatch(kind eventKind, ev PointerEvent) {
	set := b.listeners[kind]
	if len(set) == 0 {
		return
	}
	ids := make([]int, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for _, id := range ids {
		fn, ok := set[id]
		if !ok {
			continue
		}
		fn(ev)
	}
}

// Len returns the number of live listeners.
func (b *Bus) Len() int {
	return len(b.listeners[kindMove]) + len(b.listeners[kindUp])
}

// Active reports whether any listener is registered. The UI uses this to
// decide whether a motion event belongs to a gesture in progress.
func (b *Bus) Active() bool {
	return b.Len() > 0
}

// Subscription is a handle to a registered listener.
type Subscription struct {
	bus  *Bus
	kind eventKind
	id   int
}

// Remove unregisters the listener. It is safe to call more than once and on a
// nil subscription.
func (s *Subscription) Remove() {
	if s == nil || s.bus == nil {
		return
	}
	delete(s.bus.listeners[s.kind], s.id)
	s.bus = nil
}

// Listeners groups the move/up pair registered for one gesture.
type Listeners struct {
	move *Subscription
	up   *Subscription
}

// Listen registers the move/up pair for a gesture.
func (b *Bus) Listen(onMove, onUp func(PointerEvent)) Listeners {
	return Listeners{move: b.OnMove(onMove), up: b.OnUp(onUp)}
}

// Remove drops both listeners. Idempotent.
func (l *Listeners) Remove() {
	l.move.Remove()
	l.up.Remove()
	l.move = nil
	l.up = nil
}
