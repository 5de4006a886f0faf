package store

import (
	"sort"

	"github.com/treykane/cli-timeline/internal/logging"
)

const maxUndo = 50

var log = logging.New("store")

// Store holds the current State and notifies subscribers after every
// dispatch. It is used from the UI goroutine only.
type Store struct {
	state  State
	undo   []State
	subs   map[int]func(State)
	nextID int
}

// New returns a store seeded from opts.
func New(opts Options) *Store {
	return &Store{state: newState(opts), subs: map[int]func(State){}}
}

// GetState returns the current snapshot.
func (s *Store) GetState() State {
	return s.state
}

// Dispatch applies a and notifies subscribers.
func (s *Store) Dispatch(a Action) {
	if a == nil {
		return
	}
	if u, ok := a.(undoable); ok {
		s.undo = append(s.undo, s.state)
		if len(s.undo) > maxUndo {
			s.undo = s.undo[len(s.undo)-maxUndo:]
		}
		a = u.Action
	}
	s.state = a.reduce(s.state)
	log.Debug("dispatch", "action", actionName(a))
	s.notify()
}

// Undo restores the state before the last undoable action. The panel layout
// is kept since layout changes are not undoable.
func (s *Store) Undo() bool {
	if len(s.undo) == 0 {
		return false
	}
	prev := s.undo[len(s.undo)-1]
	s.undo = s.undo[:len(s.undo)-1]
	prev.layout = s.state.layout
	s.state = prev
	s.notify()
	return true
}

// CanUndo reports whether Undo has anything to restore.
func (s *Store) CanUndo() bool {
	return len(s.undo) > 0
}

// Subscribe registers fn to run after every state change and returns a
// function that unregisters it. The returned function is idempotent.
func (s *Store) Subscribe(fn func(State)) func() {
	s.nextID++
	id := s.nextID
	s.subs[id] = fn
	return func() { delete(s.subs, id) }
}

func (s *Store) notify() {
	ids := make([]int, 0, len(s.subs))
	for id := range s.subs {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for _, id := range ids {
		if fn, ok := s.subs[id]; ok {
			fn(s.state)
		}
	}
}

func actionName(a Action) string {
	switch a.(type) {
	case SetPanelLayout:
		return "setPanelLayout"
	case ResetPanelLayout:
		return "resetPanelLayout"
	case SetTracks:
		return "setTracks"
	case AddTrack:
		return "addTrack"
	case DeleteTrack:
		return "deleteTrack"
	case UpdateTrack:
		return "updateTrack"
	case ReorderTrack:
		return "reorderTrack"
	case SetPlayheadPosition:
		return "setPlayheadPosition"
	case SetPlaying:
		return "setPlaying"
	case SetZoomLevel:
		return "setZoomLevel"
	case SetDuration:
		return "setDuration"
	case AddShot:
		return "addShot"
	case DeleteShot:
		return "deleteShot"
	case SetSelection:
		return "setSelection"
	case LoadProject:
		return "loadProject"
	default:
		return "unknown"
	}
}
