package app

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/treykane/cli-timeline/internal/drop"
	"github.com/treykane/cli-timeline/internal/gesture"
	"github.com/treykane/cli-timeline/internal/model"
	"github.com/treykane/cli-timeline/internal/render"
	"github.com/treykane/cli-timeline/internal/store"
)

// pressKind records what the left button went down on.
type pressKind int

const (
	pressNone pressKind = iota
	pressHandle
	pressPlayhead
	pressTrackResize
	pressTrackDrag
	pressAsset
)

// wheelCols is how many columns one horizontal wheel step scrolls.
const wheelCols = 4

// handleMouse turns terminal mouse events into pointer gestures. Cells map to
// px at the top-left corner of the cell.
func (m *Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.overlay != overlayNone {
		return m, nil
	}
	ev := m.pointerEvent(msg)
	switch {
	case msg.Action == tea.MouseActionPress && isWheel(msg.Button):
		m.handleWheel(msg)
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		m.handlePress(msg, ev)
	case msg.Action == tea.MouseActionMotion:
		m.handleMotion(msg, ev)
	case msg.Action == tea.MouseActionRelease:
		m.handleRelease(msg, ev)
	}
	return m, nil
}

func isWheel(b tea.MouseButton) bool {
	switch b {
	case tea.MouseButtonWheelUp, tea.MouseButtonWheelDown, tea.MouseButtonWheelLeft, tea.MouseButtonWheelRight:
		return true
	}
	return false
}

func (m *Model) pointerEvent(msg tea.MouseMsg) gesture.PointerEvent {
	return gesture.PointerEvent{
		X:     float64(msg.X * m.cellW),
		Y:     float64(msg.Y * m.cellH),
		Shift: msg.Shift,
		Ctrl:  msg.Ctrl,
		Alt:   msg.Alt,
	}
}

// resizeEvent adapts a pointer event for the layout engine. The timeline's
// handle is its top edge, so its vertical axis grows upwards.
func (m *Model) resizeEvent(ev gesture.PointerEvent) gesture.PointerEvent {
	if panel, ok := m.layout.Resizing(); ok && panel == model.PanelTimeline {
		ev.Y = -ev.Y
	}
	return ev
}

func inRulerRows(d LayoutDimensions, y int) bool {
	return y == d.TimelineTop+1 || y == d.TimelineTop+2
}

func inTrackRows(d LayoutDimensions, y int) bool {
	return y >= d.TracksTop() && y < d.TracksTop()+d.TracksHeight()
}

func inBand(d LayoutDimensions, y int) bool {
	return y >= d.ContentTop && y < d.ContentTop+d.TopHeight
}

// slotAtRow returns the track drawn on screen row y and the row within it.
func (m *Model) slotAtRow(d LayoutDimensions, y int) (render.Slot, int, bool) {
	if !inTrackRows(d, y) {
		return render.Slot{}, 0, false
	}
	contentY := float64((y-d.TracksTop())*m.cellH) + m.scrollY
	slot, ok := m.renderInput(d).Window().SlotAt(contentY)
	if !ok {
		return render.Slot{}, 0, false
	}
	return slot, (int(contentY) - slot.Top) / m.cellH, true
}

func (m *Model) handlePress(msg tea.MouseMsg, ev gesture.PointerEvent) {
	d := m.calculateLayout()
	x, y := msg.X, msg.Y
	if panel, ok := d.handleAt(x, y); ok {
		if panel == model.PanelTimeline {
			ev.Y = -ev.Y
		}
		if m.layout.BeginResize(panel, ev.X, ev.Y) {
			m.pressed = pressHandle
		}
		return
	}
	switch {
	case inRulerRows(d, y) && x >= TrackHeaderCols:
		m.pressRuler(x, ev)
	case inTrackRows(d, y):
		m.pressTracks(d, msg, ev)
	case inBand(d, y) && x < d.LeftWidth:
		m.pressAssets(d, y)
	}
}

// pressRuler grabs the playhead, jumps to a marker or seeks.
func (m *Model) pressRuler(x int, ev gesture.PointerEvent) {
	m.focus = focusTimeline
	if x == m.laneCol(m.playhead.ScreenX(m.playhead.Position())) {
		if m.playhead.PointerDownHandle(ev.X) {
			m.pressed = pressPlayhead
		}
		return
	}
	if marker, ok := m.playhead.MarkerAt(ev.X, float64(MarkerTolerance*m.cellW)); ok {
		m.playhead.ClickMarker(marker)
		return
	}
	m.playhead.ClickRuler(ev.X)
}

func (m *Model) pressTracks(d LayoutDimensions, msg tea.MouseMsg, ev gesture.PointerEvent) {
	m.focus = focusTimeline
	slot, r, ok := m.slotAtRow(d, msg.Y)
	if !ok {
		if msg.X >= TrackHeaderCols {
			m.store.Dispatch(store.SetSelection{})
		}
		return
	}
	id := slot.Track.ID
	m.selectedTrack = id

	if msg.X < TrackHeaderCols {
		switch headerHitAt(slot.Height/m.cellH, r, msg.X) {
		case hitLock:
			m.toggleTrack("Lock", m.tracks.ToggleLock)
		case hitHide:
			m.toggleTrack("Hide", m.tracks.ToggleHide)
		case hitMute:
			m.toggleTrack("Mute", m.tracks.ToggleMute)
		case hitSolo:
			m.toggleTrack("Solo", m.tracks.ToggleSolo)
		case hitResize:
			if m.tracks.BeginVerticalResize(id, ev.Y) {
				m.pressed = pressTrackResize
			}
		default:
			if m.tracks.BeginDrag(id) {
				m.pressed = pressTrackDrag
			} else if slot.Track.Locked {
				m.status = "Track is locked"
			}
		}
		return
	}

	laneX := float64((msg.X - TrackHeaderCols) * m.cellW)
	laneY := float64(r * m.cellH)
	multi := ev.Multi() || msg.Alt
	hit := render.Click(m.renderInput(d), id, laneX, laneY, multi, func(shotID string, multi bool) {
		m.store.Dispatch(store.SetSelection{IDs: []string{shotID}, Multi: multi})
	})
	if !hit && !multi {
		m.store.Dispatch(store.SetSelection{})
	}
}

// pressAssets moves the library cursor and starts dragging the asset.
func (m *Model) pressAssets(d LayoutDimensions, y int) {
	m.focus = focusAssets
	idx, ok := m.assetAtRow(d, y)
	if !ok {
		return
	}
	for i, a := range m.assetOrder() {
		if a == idx {
			m.assetCursor = i
			break
		}
	}
	asset := m.store.GetState().Assets()[idx]
	data, err := drop.EncodePayload(asset, asset.CategoryID)
	if err != nil {
		m.setStatusError("Drag failed", err, "asset", asset.ID)
		return
	}
	payload, err := drop.DecodePayload(data)
	if err != nil {
		m.setStatusError("Drag failed", err, "asset", asset.ID)
		return
	}
	m.assetDrag = &payload
	m.assetDragData = data
	m.pressed = pressAsset
	m.feedback.SetCursor(gesture.CursorMove)
}

func (m *Model) handleMotion(msg tea.MouseMsg, ev gesture.PointerEvent) {
	d := m.calculateLayout()
	if m.bus.Active() {
		m.bus.Move(m.resizeEvent(ev))
		return
	}
	if m.pressed == pressAsset || m.pressed == pressTrackDrag {
		m.dragTarget = ""
		if slot, _, ok := m.slotAtRow(d, msg.Y); ok {
			m.dragTarget = slot.Track.ID
		}
		return
	}
	if m.pressed != pressNone {
		return
	}

	m.hoverHandle = ""
	if panel, ok := d.handleAt(msg.X, msg.Y); ok {
		m.hoverHandle = panel
	}

	hovered := ""
	if slot, _, ok := m.slotAtRow(d, msg.Y); ok && msg.X < TrackHeaderCols {
		hovered = slot.Track.ID
	}
	m.tracks.Hover(hovered)

	if inRulerRows(d, msg.Y) && msg.X >= TrackHeaderCols {
		m.playhead.HoverMove(ev.X)
	} else {
		m.playhead.HoverLeave()
	}
}

func (m *Model) handleRelease(msg tea.MouseMsg, ev gesture.PointerEvent) {
	d := m.calculateLayout()
	switch m.pressed {
	case pressAsset:
		m.finishAssetDrop(d, msg, ev)
	case pressTrackDrag:
		if slot, _, ok := m.slotAtRow(d, msg.Y); ok {
			m.tracks.DropDragged(slot.Track.ID)
		} else {
			m.tracks.CancelDrag()
		}
	}
	m.pressed = pressNone
	m.dragTarget = ""
	m.bus.Up(m.resizeEvent(ev))
	m.clampScroll()
}

// finishAssetDrop drops the dragged asset on the lane under the pointer.
func (m *Model) finishAssetDrop(d LayoutDimensions, msg tea.MouseMsg, ev gesture.PointerEvent) {
	data := m.assetDragData
	m.assetDrag = nil
	m.assetDragData = nil
	m.feedback.ClearCursor()

	slot, _, ok := m.slotAtRow(d, msg.Y)
	if !ok || msg.X < TrackHeaderCols {
		m.status = "Drop cancelled"
		return
	}
	m.selectedTrack = slot.Track.ID
	m.reportDrop(m.drop.DropJSON(data, ev.X, m.frameOrigin(), slot.Track))
}

// dropTarget is the id of the track under a live drag, if any.
func (m *Model) dropTarget() string {
	return m.dragTarget
}

func (m *Model) handleWheel(msg tea.MouseMsg) {
	d := m.calculateLayout()
	up := msg.Button == tea.MouseButtonWheelUp
	switch {
	case msg.Ctrl && (up || msg.Button == tea.MouseButtonWheelDown):
		if up {
			m.zoomBy(zoomStep)
		} else {
			m.zoomBy(1 / zoomStep)
		}
	case msg.Button == tea.MouseButtonWheelLeft:
		m.scrollBy(-float64(wheelCols * m.cellW))
	case msg.Button == tea.MouseButtonWheelRight:
		m.scrollBy(float64(wheelCols * m.cellW))
	case inBand(d, msg.Y) && msg.X < d.LeftWidth:
		if up {
			m.moveAssetOffset(-1)
		} else {
			m.moveAssetOffset(1)
		}
	case msg.Shift || inRulerRows(d, msg.Y):
		if up {
			m.scrollBy(-float64(wheelCols * m.cellW))
		} else {
			m.scrollBy(float64(wheelCols * m.cellW))
		}
	case inTrackRows(d, msg.Y):
		if up {
			m.scrollY -= float64(m.cellH)
		} else {
			m.scrollY += float64(m.cellH)
		}
		m.clampScroll()
	}
}

func (m *Model) moveAssetOffset(delta int) {
	rows := len(m.assetRows())
	visible := m.assetListHeight(m.calculateLayout())
	m.assetOffset = clamp(m.assetOffset+delta, 0, max(0, rows-visible))
}
