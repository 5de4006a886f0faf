// Package layout implements drag-to-resize for the four editor panels.
//
// Panel sizes live in the store as percentages of the root container. While a
// resize is in progress the engine only pushes pixel sizes to the PanelView;
// the store and durable storage are touched once, when the gesture ends.
package layout

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/treykane/cli-timeline/internal/gesture"
	"github.com/treykane/cli-timeline/internal/logging"
	"github.com/treykane/cli-timeline/internal/model"
	"github.com/treykane/cli-timeline/internal/storage"
	"github.com/treykane/cli-timeline/internal/store"
	"github.com/treykane/cli-timeline/internal/timecode"
)

// StorageKey is the durable-storage key holding the persisted layout.
const StorageKey = "timeline-editor-layout"

// DefaultSaveDelay is the quiet period before a layout change is persisted.
const DefaultSaveDelay = 500 * time.Millisecond

var log = logging.New("layout")

// Size is a pixel size. A zero component means the axis is not resizable.
type Size struct {
	Width, Height float64
}

// Bounds limit a panel's pixel size. Zero fields fall back to the defaults.
type Bounds struct {
	MinWidth, MaxWidth   float64
	MinHeight, MaxHeight float64
}

// DefaultBounds are the per-panel pixel limits.
var DefaultBounds = map[model.PanelID]Bounds{
	model.PanelAssetLibrary: {MinWidth: 120, MaxWidth: 480},
	model.PanelPreview:      {MinWidth: 240, MaxWidth: 1600, MinHeight: 160, MaxHeight: 1200},
	model.PanelShotConfig:   {MinWidth: 200, MaxWidth: 640},
	model.PanelTimeline:     {MinHeight: 120, MaxHeight: 900},
}

// PanelView applies transient sizes to the rendered panels.
type PanelView interface {
	// ApplySize overrides the rendered size of panel until ClearSize.
	ApplySize(panel model.PanelID, size Size)
	ClearSize(panel model.PanelID)
	// RenderedSize reports the size the panel was actually drawn at.
	RenderedSize(panel model.PanelID) Size
}

// Store is the part of the state store the engine depends on.
type Store interface {
	GetState() store.State
	Dispatch(store.Action)
}

// Options configure an Engine. Store and Container are required.
type Options struct {
	Store     Store
	Storage   storage.Storage
	View      PanelView
	Feedback  gesture.DragFeedbackPort
	Bus       *gesture.Bus
	Scheduler gesture.Scheduler
	Container func() Size
	Bounds    map[model.PanelID]Bounds
	SaveDelay time.Duration
}

type session struct {
	panel     model.PanelID
	startX    float64
	startY    float64
	start     Size
	current   Size
	listeners gesture.Listeners
}

// Engine owns the single resize session and the debounced layout save.
type Engine struct {
	store     Store
	storage   storage.Storage
	view      PanelView
	feedback  gesture.DragFeedbackPort
	bus       *gesture.Bus
	container func() Size
	bounds    map[model.PanelID]Bounds
	saver     *gesture.Debouncer
	session   *session
	mounted   bool
}

// New builds an engine from opts.
func New(opts Options) *Engine {
	if opts.Feedback == nil {
		opts.Feedback = gesture.NopFeedback{}
	}
	if opts.Bus == nil {
		opts.Bus = gesture.NewBus()
	}
	if opts.SaveDelay <= 0 {
		opts.SaveDelay = DefaultSaveDelay
	}
	if opts.Container == nil {
		opts.Container = func() Size { return Size{} }
	}
	return &Engine{
		store:     opts.Store,
		storage:   opts.Storage,
		view:      opts.View,
		feedback:  opts.Feedback,
		bus:       opts.Bus,
		container: opts.Container,
		bounds:    mergeBounds(opts.Bounds),
		saver:     gesture.NewDebouncer(opts.Scheduler, opts.SaveDelay),
	}
}

func mergeBounds(overrides map[model.PanelID]Bounds) map[model.PanelID]Bounds {
	out := make(map[model.PanelID]Bounds, len(DefaultBounds))
	for id, b := range DefaultBounds {
		o := overrides[id]
		if o.MinWidth > 0 {
			b.MinWidth = o.MinWidth
		}
		if o.MaxWidth > 0 {
			b.MaxWidth = o.MaxWidth
		}
		if o.MinHeight > 0 {
			b.MinHeight = o.MinHeight
		}
		if o.MaxHeight > 0 {
			b.MaxHeight = o.MaxHeight
		}
		out[id] = b
	}
	return out
}

// Bounds returns the effective limits for panel.
func (e *Engine) Bounds(panel model.PanelID) Bounds {
	return e.bounds[panel]
}

// PixelSize converts the stored percentages for panel into pixels of the
// current container.
func (e *Engine) PixelSize(panel model.PanelID) Size {
	c := e.container()
	w, h := e.store.GetState().Layout().Percent(panel)
	return Size{
		Width:  timecode.PercentToPixels(w, c.Width),
		Height: timecode.PercentToPixels(h, c.Height),
	}
}

// BeginResize starts a session on panel at pointer (x, y). It refuses when a
// session is already live or the panel is unknown.
func (e *Engine) BeginResize(panel model.PanelID, x, y float64) bool {
	if e.session != nil || !panel.Valid() {
		return false
	}
	start := e.PixelSize(panel)
	s := &session{panel: panel, startX: x, startY: y, start: start, current: start}
	s.listeners = e.bus.Listen(
		func(ev gesture.PointerEvent) { e.UpdateResize(ev.X, ev.Y) },
		func(gesture.PointerEvent) { e.EndResize() },
	)
	e.session = s
	e.feedback.SetCursor(cursorFor(panel))
	e.feedback.SetSelectable(false)
	log.Debug("begin resize", "panel", panel, "width", start.Width, "height", start.Height)
	return true
}

func cursorFor(panel model.PanelID) gesture.CursorKind {
	switch panel.Axes() {
	case model.AxisWidth:
		return gesture.CursorColResize
	case model.AxisHeight:
		return gesture.CursorRowResize
	default:
		return gesture.CursorNWSE
	}
}

// UpdateResize applies the clamped size for pointer (x, y) to the view.
func (e *Engine) UpdateResize(x, y float64) {
	s := e.session
	if s == nil {
		return
	}
	dx := x - s.startX
	dy := y - s.startY
	// The shot config handle sits on its left edge.
	if s.panel == model.PanelShotConfig {
		dx = -dx
	}

	b := e.bounds[s.panel]
	axes := s.panel.Axes()
	next := s.start
	if axes&model.AxisWidth != 0 {
		next.Width = clamp(s.start.Width+dx, b.MinWidth, b.MaxWidth)
	}
	if axes&model.AxisHeight != 0 {
		next.Height = clamp(s.start.Height+dy, b.MinHeight, b.MaxHeight)
	}
	s.current = next
	if e.view != nil {
		e.view.ApplySize(s.panel, next)
	}
}

func clamp(v, lo, hi float64) float64 {
	if hi > 0 && v > hi {
		v = hi
	}
	if v < lo {
		v = lo
	}
	return v
}

// EndResize commits the rendered size to the store and schedules a save.
// Calling it without a live session does nothing.
func (e *Engine) EndResize() {
	s := e.session
	if s == nil {
		return
	}
	rendered := s.current
	if e.view != nil {
		rendered = e.view.RenderedSize(s.panel)
	}

	c := e.container()
	layout := e.store.GetState().Layout()
	w, h := layout.Percent(s.panel)
	axes := s.panel.Axes()
	if axes&model.AxisWidth != 0 && c.Width > 0 {
		w = timecode.PixelsToPercent(rendered.Width, c.Width)
	}
	if axes&model.AxisHeight != 0 && c.Height > 0 {
		h = timecode.PixelsToPercent(rendered.Height, c.Height)
	}
	e.store.Dispatch(store.SetPanelLayout{Layout: layout.WithPercent(s.panel, w, h)})
	e.scheduleSave()

	e.teardown()
	log.Debug("end resize", "panel", s.panel, "width_pct", w, "height_pct", h)
}

// teardown drops the live session without touching the store.
func (e *Engine) teardown() {
	s := e.session
	if s == nil {
		return
	}
	if e.view != nil {
		e.view.ClearSize(s.panel)
	}
	s.listeners.Remove()
	e.feedback.ClearCursor()
	e.feedback.SetSelectable(true)
	e.session = nil
}

// Resizing reports the panel of the live session.
func (e *Engine) Resizing() (model.PanelID, bool) {
	if e.session == nil {
		return "", false
	}
	return e.session.panel, true
}

// CurrentSize reports the transient size of the live session.
func (e *Engine) CurrentSize() (Size, bool) {
	if e.session == nil {
		return Size{}, false
	}
	return e.session.current, true
}

// HandleVisible reports whether a resize handle is drawn.
func HandleVisible(hovered, resizing bool) bool {
	return hovered || resizing
}

// HandleState reports whether panel's handle should be visible given hover.
func (e *Engine) HandleState(panel model.PanelID, hovered bool) bool {
	active, ok := e.Resizing()
	return HandleVisible(hovered, ok && active == panel)
}

// ResetLayout restores the default layout and deletes the persisted entry
// immediately.
func (e *Engine) ResetLayout() {
	e.teardown()
	e.saver.Cancel()
	e.store.Dispatch(store.ResetPanelLayout{})
	if err := storage.Remove(e.storage, StorageKey); err != nil {
		log.Warn("remove persisted layout", "error", err)
	}
}

// SavePending reports whether a debounced save is waiting.
func (e *Engine) SavePending() bool {
	return e.saver.Pending()
}

func (e *Engine) scheduleSave() {
	e.saver.Trigger(e.save)
}

func (e *Engine) save() {
	data, err := json.Marshal(e.store.GetState().Layout())
	if err != nil {
		log.Warn("encode layout", "error", err)
		return
	}
	if err := storage.Set(e.storage, StorageKey, string(data)); err != nil {
		log.Warn("persist layout", "error", err)
	}
}

// Mount restores the persisted layout once. Missing, unreadable or malformed
// entries leave the defaults in place.
func (e *Engine) Mount() {
	if e.mounted {
		return
	}
	e.mounted = true

	raw, ok, err := storage.Get(e.storage, StorageKey)
	if err != nil {
		log.Warn("restore layout, using defaults", "error", err)
		return
	}
	if !ok {
		return
	}
	layout, err := ParseLayout([]byte(raw))
	if err != nil {
		log.Warn("restore layout, using defaults", "error", err)
		return
	}
	e.store.Dispatch(store.SetPanelLayout{Layout: layout})
}

// Unmount ends any live session and flushes a pending save.
func (e *Engine) Unmount() {
	e.teardown()
	e.saver.Flush()
}

// layoutShape lists the fields each persisted panel must carry.
var layoutShape = map[model.PanelID][]string{
	model.PanelAssetLibrary: {"width"},
	model.PanelPreview:      {"width", "height"},
	model.PanelShotConfig:   {"width"},
	model.PanelTimeline:     {"height"},
}

// ParseLayout decodes a persisted layout. All four panels and their numeric
// fields must be present, each a percentage in (0, 100]; anything else wraps
// storage.ErrStorageCorrupt.
func ParseLayout(data []byte) (model.Layout, error) {
	var panels map[string]map[string]json.RawMessage
	if err := json.Unmarshal(data, &panels); err != nil {
		return model.Layout{}, fmt.Errorf("parse layout: %w: %w", storage.ErrStorageCorrupt, err)
	}
	for _, panel := range model.Panels {
		fields, ok := panels[string(panel)]
		if !ok || fields == nil {
			return model.Layout{}, fmt.Errorf("layout missing %q: %w", panel, storage.ErrStorageCorrupt)
		}
		for _, name := range layoutShape[panel] {
			var v *float64
			raw, ok := fields[name]
			if !ok {
				return model.Layout{}, fmt.Errorf("layout %s missing %q: %w", panel, name, storage.ErrStorageCorrupt)
			}
			if err := json.Unmarshal(raw, &v); err != nil {
				return model.Layout{}, fmt.Errorf("layout %s.%s: %w: %w", panel, name, storage.ErrStorageCorrupt, err)
			}
			if v == nil {
				return model.Layout{}, fmt.Errorf("layout %s.%s is null: %w", panel, name, storage.ErrStorageCorrupt)
			}
			if *v <= 0 || *v > 100 {
				return model.Layout{}, fmt.Errorf("layout %s.%s = %v outside (0, 100]: %w", panel, name, *v, storage.ErrStorageCorrupt)
			}
		}
	}

	var layout model.Layout
	if err := json.Unmarshal(data, &layout); err != nil {
		return model.Layout{}, fmt.Errorf("decode layout: %w: %w", storage.ErrStorageCorrupt, err)
	}
	return layout, nil
}
