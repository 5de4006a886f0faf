// Package tracks manages per-track controls: lock, hide, mute and solo
// toggles, vertical resize, drag-to-reorder and hover coordination. Track
// settings are persisted with the same debounced, fail-silent approach as the
// panel layout.
package tracks

import (
	"errors"
	"fmt"
	"time"

	"github.com/treykane/cli-timeline/internal/gesture"
	"github.com/treykane/cli-timeline/internal/logging"
	"github.com/treykane/cli-timeline/internal/model"
	"github.com/treykane/cli-timeline/internal/storage"
	"github.com/treykane/cli-timeline/internal/store"
)

var (
	ErrTrackNotFound = errors.New("track not found")
	ErrTrackHidden   = errors.New("track is hidden")
	ErrTrackLocked   = errors.New("track is locked")
	ErrNotAudioTrack = errors.New("not an audio track")
)

// DefaultSaveDelay is the quiet period before track settings are persisted.
const DefaultSaveDelay = 500 * time.Millisecond

var log = logging.New("tracks")

// Store is the part of the state store the manager depends on.
type Store interface {
	GetState() store.State
	Dispatch(store.Action)
}

// Options configure a Manager. Store is required.
type Options struct {
	Store     Store
	Storage   storage.Storage
	Bus       *gesture.Bus
	Scheduler gesture.Scheduler
	Feedback  gesture.DragFeedbackPort
	SaveDelay time.Duration
	// OnHover receives the hovered track id, or "" when the pointer leaves.
	OnHover func(id string)
}

type resizeSession struct {
	id          string
	startY      float64
	startHeight int
	minHeight   int
	height      int
	listeners   gesture.Listeners
}

// Manager applies track operations to the store.
type Manager struct {
	store    Store
	storage  storage.Storage
	bus      *gesture.Bus
	feedback gesture.DragFeedbackPort
	onHover  func(string)
	saver    *gesture.Debouncer

	resize   *resizeSession
	dragging string
	hovered  string
	mounted  bool
}

// New builds a manager from opts.
func New(opts Options) *Manager {
	if opts.Bus == nil {
		opts.Bus = gesture.NewBus()
	}
	if opts.Feedback == nil {
		opts.Feedback = gesture.NopFeedback{}
	}
	if opts.SaveDelay <= 0 {
		opts.SaveDelay = DefaultSaveDelay
	}
	return &Manager{
		store:    opts.Store,
		storage:  opts.Storage,
		bus:      opts.Bus,
		feedback: opts.Feedback,
		onHover:  opts.OnHover,
		saver:    gesture.NewDebouncer(opts.Scheduler, opts.SaveDelay),
	}
}

func (m *Manager) track(id string) (model.Track, int, error) {
	t, idx, ok := m.store.GetState().Track(id)
	if !ok {
		return model.Track{}, -1, fmt.Errorf("track %q: %w", id, ErrTrackNotFound)
	}
	return t, idx, nil
}

func (m *Manager) update(t model.Track) {
	m.store.Dispatch(store.UpdateTrack{Track: t})
	m.scheduleSave()
}

// ToggleLock flips the lock flag. Hidden tracks refuse the toggle.
func (m *Manager) ToggleLock(id string) error {
	t, _, err := m.track(id)
	if err != nil {
		return err
	}
	if t.Hidden {
		return fmt.Errorf("lock %q: %w", t.Name, ErrTrackHidden)
	}
	t.Locked = !t.Locked
	m.update(t)
	return nil
}

// ToggleHide flips the hidden flag.
func (m *Manager) ToggleHide(id string) error {
	t, _, err := m.track(id)
	if err != nil {
		return err
	}
	t.Hidden = !t.Hidden
	m.update(t)
	return nil
}

// ToggleMute flips the mute flag on an audio track.
func (m *Manager) ToggleMute(id string) error {
	t, _, err := m.track(id)
	if err != nil {
		return err
	}
	if t.Type != model.TrackAudio {
		return fmt.Errorf("mute %q: %w", t.Name, ErrNotAudioTrack)
	}
	t.Muted = !t.Muted
	m.update(t)
	return nil
}

// ToggleSolo flips the solo flag on an audio track.
func (m *Manager) ToggleSolo(id string) error {
	t, _, err := m.track(id)
	if err != nil {
		return err
	}
	if t.Type != model.TrackAudio {
		return fmt.Errorf("solo %q: %w", t.Name, ErrNotAudioTrack)
	}
	t.Solo = !t.Solo
	m.update(t)
	return nil
}

// Control describes one header button.
type Control struct {
	Present bool
	Enabled bool
}

// Capabilities lists which header controls a track shows and which accept
// input.
type Capabilities struct {
	Lock    Control
	Hide    Control
	Mute    Control
	Solo    Control
	Reorder bool
	Resize  bool
}

// TrackCapabilities derives the header controls for t.
func TrackCapabilities(t model.Track) Capabilities {
	audio := t.Type == model.TrackAudio
	return Capabilities{
		Lock:    Control{Present: true, Enabled: !t.Hidden},
		Hide:    Control{Present: true, Enabled: true},
		Mute:    Control{Present: audio, Enabled: audio},
		Solo:    Control{Present: audio, Enabled: audio},
		Reorder: !t.Locked,
		Resize:  true,
	}
}

// Capabilities reports the header controls for the track with id.
func (m *Manager) Capabilities(id string) (Capabilities, error) {
	t, _, err := m.track(id)
	if err != nil {
		return Capabilities{}, err
	}
	return TrackCapabilities(t), nil
}

// AddTrack appends a default track of type t and returns its id.
func (m *Manager) AddTrack(t model.TrackType) (string, error) {
	if !t.Valid() {
		return "", fmt.Errorf("add track %q: unknown type", t)
	}
	id := model.NewID()
	m.store.Dispatch(store.AddTrack{Type: t, ID: id})
	m.scheduleSave()
	return id, nil
}

// DeleteTrack removes the track with id.
func (m *Manager) DeleteTrack(id string) error {
	if _, _, err := m.track(id); err != nil {
		return err
	}
	if m.resize != nil && m.resize.id == id {
		m.endResizeSession(false)
	}
	if m.dragging == id {
		m.dragging = ""
	}
	m.store.Dispatch(store.DeleteTrack{ID: id})
	m.scheduleSave()
	return nil
}

// Hover records the hovered track and reports it through OnHover.
func (m *Manager) Hover(id string) {
	if id == m.hovered {
		return
	}
	m.hovered = id
	if m.onHover != nil {
		m.onHover(id)
	}
}

// Hovered returns the hovered track id.
func (m *Manager) Hovered() string {
	return m.hovered
}
