// Package playhead drives the playhead from handle drags, ruler clicks,
// marker clicks, keyboard seeks and the go-to-time dialog, and produces the
// hover/drag timecode tooltip.
//
// Pointer coordinates are screen px. Options.Origin maps them onto the
// timeline: frame 0 sits at Origin() px, so scrolling moves the origin left.
package playhead

import (
	"time"

	"github.com/treykane/cli-timeline/internal/gesture"
	"github.com/treykane/cli-timeline/internal/logging"
	"github.com/treykane/cli-timeline/internal/model"
	"github.com/treykane/cli-timeline/internal/store"
	"github.com/treykane/cli-timeline/internal/timecode"
)

// Tooltip delays.
const (
	DefaultShowDelay = 300 * time.Millisecond
	DefaultHideDelay = 150 * time.Millisecond
)

var log = logging.New("playhead")

// Store is the part of the state store the engine depends on.
type Store interface {
	GetState() store.State
	Dispatch(store.Action)
}

// Options configure an Engine. Store is required.
type Options struct {
	Store      Store
	Bus        *gesture.Bus
	Feedback   gesture.DragFeedbackPort
	Scheduler  gesture.Scheduler
	SnapToGrid bool
	ShowDelay  time.Duration
	HideDelay  time.Duration
	// Origin returns the screen px of frame 0.
	Origin        func() float64
	OnSeek        func(frame int)
	OnMarkerClick func(marker model.Marker)
}

// Tooltip is the timecode bubble shown above the playhead.
type Tooltip struct {
	Visible  bool
	Text     string
	X        float64 // screen px
	ShowSnap bool
	Snap     bool
}

// Engine is the playhead state machine: Idle -> Dragging -> Idle.
type Engine struct {
	opts      Options
	snap      bool
	dragging  bool
	dragFrame int
	listeners gesture.Listeners

	hovered  bool
	hoverX   float64
	tooltip  Tooltip
	showTask gesture.Task
	hideTask gesture.Task
	ruler    *Ruler
	goTo     *Dialog
}

// New builds an engine from opts.
func New(opts Options) *Engine {
	if opts.Bus == nil {
		opts.Bus = gesture.NewBus()
	}
	if opts.Feedback == nil {
		opts.Feedback = gesture.NopFeedback{}
	}
	if opts.ShowDelay <= 0 {
		opts.ShowDelay = DefaultShowDelay
	}
	if opts.HideDelay <= 0 {
		opts.HideDelay = DefaultHideDelay
	}
	if opts.Origin == nil {
		opts.Origin = func() float64 { return 0 }
	}
	e := &Engine{opts: opts, snap: opts.SnapToGrid}
	e.ruler = newRuler(opts.Scheduler)
	e.goTo = &Dialog{engine: e}
	return e
}

func (e *Engine) state() store.State {
	return e.opts.Store.GetState()
}

// Ruler returns the ruler display state.
func (e *Engine) Ruler() *Ruler {
	return e.ruler
}

// GoTo returns the go-to-time dialog.
func (e *Engine) GoTo() *Dialog {
	return e.goTo
}

// Snap reports whether snap-to-grid is on.
func (e *Engine) Snap() bool {
	return e.snap
}

// SetSnap toggles snap-to-grid.
func (e *Engine) SetSnap(on bool) {
	e.snap = on
}

// Dragging reports whether the handle is being dragged.
func (e *Engine) Dragging() bool {
	return e.dragging
}

// Position returns the displayed frame: the local drag frame while dragging,
// the store position otherwise.
func (e *Engine) Position() int {
	if e.dragging {
		return e.dragFrame
	}
	return e.state().PlayheadPosition()
}

// FrameAt converts a screen x to a clamped frame using the current snap mode.
func (e *Engine) FrameAt(x float64, snap bool) int {
	s := e.state()
	frame := timecode.FrameAtPixel(x-e.opts.Origin(), s.ZoomLevel(), snap)
	return timecode.Clamp(frame, s.Duration())
}

// ScreenX returns the screen px of frame.
func (e *Engine) ScreenX(frame int) float64 {
	return e.opts.Origin() + timecode.FrameToPixel(float64(frame), e.state().ZoomLevel())
}

// Seek moves the playhead to frame (clamped) and reports it through OnSeek.
func (e *Engine) Seek(frame int) int {
	frame = timecode.Clamp(frame, e.state().Duration())
	if e.opts.OnSeek != nil {
		e.opts.OnSeek(frame)
	}
	e.opts.Store.Dispatch(store.SetPlayheadPosition{Frame: frame})
	return frame
}

// PointerDownHandle enters Dragging from a press on the playhead handle.
func (e *Engine) PointerDownHandle(x float64) bool {
	if e.dragging {
		return false
	}
	e.dragging = true
	e.dragFrame = e.FrameAt(x, e.snap)
	e.listeners = e.opts.Bus.Listen(
		func(ev gesture.PointerEvent) { e.dragTo(ev.X) },
		func(ev gesture.PointerEvent) { e.PointerUp(ev.X) },
	)
	e.opts.Feedback.SetCursor(gesture.CursorGrabbing)
	e.opts.Feedback.SetSelectable(false)
	e.cancelTooltipTasks()
	e.showTooltip(e.dragFrame)
	return true
}

func (e *Engine) dragTo(x float64) {
	if !e.dragging {
		return
	}
	e.dragFrame = e.FrameAt(x, e.snap)
	e.showTooltip(e.dragFrame)
}

// PointerUp leaves Dragging and commits the frame under x.
func (e *Engine) PointerUp(x float64) {
	if !e.dragging {
		return
	}
	e.dragFrame = e.FrameAt(x, e.snap)
	frame := e.dragFrame
	e.endDrag()
	e.Seek(frame)
	if e.hovered {
		e.showTooltip(e.FrameAt(e.hoverX, e.snap))
	} else {
		e.tooltip = Tooltip{}
	}
}

func (e *Engine) endDrag() {
	e.dragging = false
	e.listeners.Remove()
	e.opts.Feedback.ClearCursor()
	e.opts.Feedback.SetSelectable(true)
}

// Unmount abandons any drag without seeking and cancels tooltip timers.
func (e *Engine) Unmount() {
	if e.dragging {
		e.endDrag()
	}
	e.cancelTooltipTasks()
	e.tooltip = Tooltip{}
	e.hovered = false
}

// ClickRuler seeks to the frame under x. Two clicks within the
// double-activation window also cycle the ruler granularity.
func (e *Engine) ClickRuler(x float64) int {
	e.ruler.activate()
	return e.Seek(e.FrameAt(x, e.snap))
}

// ClickMarker seeks to marker and reports it through OnMarkerClick.
func (e *Engine) ClickMarker(marker model.Marker) int {
	frame := e.Seek(marker.Frame)
	if e.opts.OnMarkerClick != nil {
		e.opts.OnMarkerClick(marker)
	}
	return frame
}

// MarkerAt returns the marker drawn within tolerance px of screen x.
func (e *Engine) MarkerAt(x, tolerance float64) (model.Marker, bool) {
	for _, m := range e.state().Markers() {
		mx := e.ScreenX(m.Frame)
		if x >= mx-tolerance && x <= mx+tolerance {
			return m, true
		}
	}
	return model.Marker{}, false
}

// HandleKey applies a keyboard seek. It ignores keys while focus is in a text
// input or a drag is live, and reports whether the key was consumed.
func (e *Engine) HandleKey(key string, inTextInput bool) bool {
	if inTextInput || e.dragging {
		return false
	}
	s := e.state()
	pos := s.PlayheadPosition()
	switch key {
	case "left":
		e.Seek(pos - 1)
	case "right":
		e.Seek(pos + 1)
	case "shift+left":
		e.Seek(pos - 10)
	case "shift+right":
		e.Seek(pos + 10)
	case "pgup":
		e.Seek(pos - s.FPS())
	case "pgdown":
		e.Seek(pos + s.FPS())
	case "home":
		e.Seek(0)
	case "end":
		e.Seek(s.Duration())
	default:
		return false
	}
	return true
}

// TogglePlay starts or stops frame-stepping playback. Starting at the end
// rewinds to 0.
func (e *Engine) TogglePlay() bool {
	s := e.state()
	playing := !s.IsPlaying()
	if playing && s.PlayheadPosition() >= s.Duration() {
		e.Seek(0)
	}
	e.opts.Store.Dispatch(store.SetPlaying{Playing: playing})
	return playing
}

// Advance steps a playing transport by frames and stops at the end.
func (e *Engine) Advance(frames int) {
	s := e.state()
	if !s.IsPlaying() || e.dragging {
		return
	}
	next := e.Seek(s.PlayheadPosition() + frames)
	if next >= s.Duration() {
		e.opts.Store.Dispatch(store.SetPlaying{Playing: false})
		log.Debug("playback reached end", "frame", next)
	}
}
