package tracks

import (
	"github.com/treykane/cli-timeline/internal/gesture"
	"github.com/treykane/cli-timeline/internal/store"
)

// BeginVerticalResize starts resizing the track with id from pointer y.
// Locked tracks may still be resized.
func (m *Manager) BeginVerticalResize(id string, y float64) bool {
	if m.resize != nil {
		return false
	}
	t, _, err := m.track(id)
	if err != nil {
		return false
	}
	s := &resizeSession{id: id, startY: y, startHeight: t.Height, minHeight: t.Type.MinHeight(), height: t.Height}
	s.listeners = m.bus.Listen(
		func(ev gesture.PointerEvent) { m.UpdateVerticalResize(ev.Y) },
		func(gesture.PointerEvent) { m.EndVerticalResize() },
	)
	m.resize = s
	m.feedback.SetCursor(gesture.CursorRowResize)
	m.feedback.SetSelectable(false)
	return true
}

// UpdateVerticalResize moves the session height, never below the type
// minimum captured when the session began.
func (m *Manager) UpdateVerticalResize(y float64) {
	s := m.resize
	if s == nil {
		return
	}
	s.height = max(s.startHeight+int(y-s.startY), s.minHeight)
}

// EndVerticalResize commits the session height to the store.
func (m *Manager) EndVerticalResize() {
	m.endResizeSession(true)
}

func (m *Manager) endResizeSession(commit bool) {
	s := m.resize
	if s == nil {
		return
	}
	s.listeners.Remove()
	m.resize = nil
	m.feedback.ClearCursor()
	m.feedback.SetSelectable(true)
	if !commit {
		return
	}
	t, _, err := m.track(s.id)
	if err != nil || t.Height == s.height {
		return
	}
	t.Height = s.height
	m.update(t)
}

// ResizeHeight reports the in-progress height for the track with id.
func (m *Manager) ResizeHeight(id string) (int, bool) {
	if m.resize == nil || m.resize.id != id {
		return 0, false
	}
	return m.resize.height, true
}

// Resizing reports the id of the track being resized.
func (m *Manager) Resizing() (string, bool) {
	if m.resize == nil {
		return "", false
	}
	return m.resize.id, true
}

// BeginDrag starts a reorder drag. Locked tracks refuse.
func (m *Manager) BeginDrag(id string) bool {
	t, _, err := m.track(id)
	if err != nil || t.Locked {
		return false
	}
	m.dragging = id
	m.feedback.SetCursor(gesture.CursorGrabbing)
	return true
}

// Dragging returns the id of the track being dragged.
func (m *Manager) Dragging() (string, bool) {
	return m.dragging, m.dragging != ""
}

// CancelDrag abandons the reorder drag.
func (m *Manager) CancelDrag() {
	if m.dragging == "" {
		return
	}
	m.dragging = ""
	m.feedback.ClearCursor()
}

// OnDrop handles a drag released over the track targetID. sourceIndex is the
// dragged track's index in the track list.
func (m *Manager) OnDrop(targetID string, sourceIndex int) {
	defer m.CancelDrag()
	_, targetIndex, err := m.track(targetID)
	if err != nil {
		return
	}
	m.Reorder(sourceIndex, targetIndex)
}

// DropDragged drops the current drag onto targetID.
func (m *Manager) DropDragged(targetID string) {
	id, ok := m.Dragging()
	if !ok {
		return
	}
	_, source, err := m.track(id)
	if err != nil {
		m.CancelDrag()
		return
	}
	m.OnDrop(targetID, source)
}

// Reorder moves the track at source to target. Equal indices do nothing.
func (m *Manager) Reorder(source, target int) {
	if source == target {
		return
	}
	n := len(m.store.GetState().Tracks())
	if source < 0 || source >= n || target < 0 || target >= n {
		return
	}
	m.store.Dispatch(store.ReorderTrack{From: source, To: target})
	m.scheduleSave()
}

// SetHeight sets the height of the track with id without a pointer session,
// raised to the type minimum. It returns the stored height.
func (m *Manager) SetHeight(id string, height int) (int, error) {
	t, _, err := m.track(id)
	if err != nil {
		return 0, err
	}
	height = t.ClampHeight(height)
	if height != t.Height {
		t.Height = height
		m.update(t)
	}
	return height, nil
}
