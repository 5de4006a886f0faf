package app

import (
	"errors"
	"fmt"
	"math"
	"unicode"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/treykane/cli-timeline/internal/drop"
	"github.com/treykane/cli-timeline/internal/model"
	"github.com/treykane/cli-timeline/internal/store"
	"github.com/treykane/cli-timeline/internal/timecode"
	"github.com/treykane/cli-timeline/internal/tracks"
)

// zoomStep is the factor applied by one zoom key press.
const zoomStep = 1.25

// handleKey routes a key press: overlays first, then playhead stepping, then
// the rebindable actions.
func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.overlay {
	case overlayGoTo:
		return m.handleGoToKey(msg)
	case overlayHelp:
		if m.actionForKey(msg.String()) == actionQuit {
			return m.quit()
		}
		m.closeOverlay()
		return m, nil
	}

	key := msg.String()
	if m.playhead.HandleKey(key, m.gotoInput.Focused()) {
		return m, nil
	}
	return m.handleAction(m.actionForKey(key))
}

// handleAction runs one rebindable action.
func (m *Model) handleAction(action string) (tea.Model, tea.Cmd) {
	switch action {
	case actionQuit:
		return m.quit()
	case actionHelp:
		m.openOverlay(overlayHelp)
	case actionUndo:
		if m.store.Undo() {
			m.status = "Undone"
		} else {
			m.status = "Nothing to undo"
		}
	case actionSave:
		m.saveProject()
	case actionFocusNext:
		if m.focus == focusTimeline {
			m.focus = focusAssets
		} else {
			m.focus = focusTimeline
		}
	case actionGoTo:
		m.openGoTo()
	case actionPlay:
		return m, m.togglePlayback()
	case actionSnap:
		m.playhead.SetSnap(!m.playhead.Snap())
		m.status = "Snap to grid: " + onOff(m.playhead.Snap())
	case actionRulerCycle:
		m.status = "Ruler: " + m.playhead.Ruler().Cycle().String()
	case actionZoomIn:
		m.zoomBy(zoomStep)
	case actionZoomOut:
		m.zoomBy(1 / zoomStep)
	case actionScrollLeft:
		m.scrollBy(-m.laneWidthPx() / 4)
	case actionScrollRight:
		m.scrollBy(m.laneWidthPx() / 4)
	case actionCursorUp:
		m.moveCursor(-1)
	case actionCursorDown:
		m.moveCursor(1)
	case actionTrackUp:
		m.moveSelectedTrack(-1)
	case actionTrackDown:
		m.moveSelectedTrack(1)
	case actionTrackGrow:
		m.resizeSelectedTrack(m.cellH)
	case actionTrackShrink:
		m.resizeSelectedTrack(-m.cellH)
	case actionTrackLock:
		m.toggleTrack("Lock", m.tracks.ToggleLock)
	case actionTrackHide:
		m.toggleTrack("Hide", m.tracks.ToggleHide)
	case actionTrackMute:
		m.toggleTrack("Mute", m.tracks.ToggleMute)
	case actionTrackSolo:
		m.toggleTrack("Solo", m.tracks.ToggleSolo)
	case actionTrackAdd:
		m.addTrackLikeSelected()
	case actionTrackDelete:
		m.deleteSelectedTrack()
	case actionShotDelete:
		m.deleteSelectedShots()
	case actionSelectClear:
		m.store.Dispatch(store.SetSelection{})
		m.status = "Selection cleared"
	case actionLayoutReset:
		m.layout.ResetLayout()
		m.status = "Layout reset"
	case actionAssetInsert:
		if m.focus == focusAssets {
			m.insertAssetAtPlayhead()
		}
	}
	return m, nil
}

func onOff(on bool) string {
	if on {
		return "on"
	}
	return "off"
}

// zoomBy scales the zoom level and keeps the playhead at the same screen x.
func (m *Model) zoomBy(factor float64) {
	s := m.store.GetState()
	before := m.playhead.ScreenX(s.PlayheadPosition())
	m.store.Dispatch(store.SetZoomLevel{Zoom: s.ZoomLevel() * factor})
	after := m.playhead.ScreenX(s.PlayheadPosition())
	m.scrollX = m.snapScroll(m.scrollX + after - before)
	m.status = fmt.Sprintf("Zoom: %.2f px/frame", m.store.GetState().ZoomLevel())
}

func (m *Model) scrollBy(dx float64) {
	s := m.store.GetState()
	maxX := math.Max(0, timecode.FrameToPixel(float64(s.Duration()), s.ZoomLevel())-m.laneWidthPx()/2)
	m.scrollX = m.snapScroll(math.Min(m.scrollX+dx, maxX))
}

// moveCursor moves the asset cursor or the selected track.
func (m *Model) moveCursor(delta int) {
	if m.focus == focusAssets {
		if n := len(m.assetOrder()); n > 0 {
			m.assetCursor = clamp(m.assetCursor+delta, 0, n-1)
			m.ensureAssetVisible()
		}
		return
	}
	// Hidden tracks stay reachable so they can be shown again.
	s := m.store.GetState()
	all := s.Tracks()
	if len(all) == 0 {
		return
	}
	_, i, ok := s.Track(m.selectedTrack)
	if !ok {
		i = 0
	}
	m.selectedTrack = all[clamp(i+delta, 0, len(all)-1)].ID
	m.revealSelectedTrack()
}

// revealSelectedTrack scrolls vertically until the selected track is drawn.
func (m *Model) revealSelectedTrack() {
	d := m.calculateLayout()
	in := m.renderInput(d)
	in.ScrollY, in.ViewportHeight = 0, 0
	for _, slot := range in.Window().Slots {
		if slot.Track.ID != m.selectedTrack {
			continue
		}
		view := float64(d.TracksHeight() * m.cellH)
		switch {
		case float64(slot.Top) < m.scrollY:
			m.scrollY = float64(slot.Top)
		case float64(slot.Bottom()) > m.scrollY+view:
			m.scrollY = float64(slot.Bottom()) - view
		}
		m.clampScroll()
		return
	}
}

func (m *Model) moveSelectedTrack(delta int) {
	s := m.store.GetState()
	t, idx, ok := s.Track(m.selectedTrack)
	if !ok {
		return
	}
	if t.Locked {
		m.status = "Track is locked"
		return
	}
	target := idx + delta
	if target < 0 || target >= len(s.Tracks()) {
		return
	}
	m.tracks.Reorder(idx, target)
	m.revealSelectedTrack()
}

func (m *Model) resizeSelectedTrack(delta int) {
	t, _, ok := m.store.GetState().Track(m.selectedTrack)
	if !ok {
		return
	}
	h, err := m.tracks.SetHeight(t.ID, m.cellHeight(t)+delta)
	if err != nil {
		m.setStatusError("Resize failed", err, "track", t.ID)
		return
	}
	m.status = fmt.Sprintf("%s height: %dpx", t.Name, h)
	m.clampScroll()
}

// toggleTrack applies one header control to the selected track.
func (m *Model) toggleTrack(label string, toggle func(id string) error) {
	if m.selectedTrack == "" {
		return
	}
	if err := toggle(m.selectedTrack); err != nil {
		switch {
		case errors.Is(err, tracks.ErrTrackHidden):
			m.setStatusError("Hidden tracks cannot be locked", err, "track", m.selectedTrack)
		case errors.Is(err, tracks.ErrNotAudioTrack):
			m.setStatusError(label+" applies to audio tracks only", err, "track", m.selectedTrack)
		default:
			m.setStatusError(label+" failed", err, "track", m.selectedTrack)
		}
		return
	}
	t, _, _ := m.store.GetState().Track(m.selectedTrack)
	m.status = label + ": " + t.Name
	m.clampScroll()
}

func (m *Model) addTrackLikeSelected() {
	typ := model.TrackMedia
	if t, _, ok := m.store.GetState().Track(m.selectedTrack); ok {
		typ = t.Type
	}
	id, err := m.tracks.AddTrack(typ)
	if err != nil {
		m.setStatusError("Add track failed", err, "type", typ)
		return
	}
	m.selectedTrack = id
	m.status = "Added " + typ.DisplayName() + " track"
	m.revealSelectedTrack()
}

func (m *Model) deleteSelectedTrack() {
	t, _, ok := m.store.GetState().Track(m.selectedTrack)
	if !ok {
		return
	}
	if err := m.tracks.DeleteTrack(t.ID); err != nil {
		m.setStatusError("Delete track failed", err, "track", t.ID)
		return
	}
	m.status = "Deleted track " + t.Name
	m.clampScroll()
}

func (m *Model) deleteSelectedShots() {
	s := m.store.GetState()
	n := 0
	for _, shot := range s.Shots() {
		if s.Selected(shot.ID) {
			m.store.Dispatch(store.Undoable(store.DeleteShot{ID: shot.ID}))
			n++
		}
	}
	if n == 0 {
		m.status = "No shot selected"
		return
	}
	m.status = "Deleted " + plural(n, "shot")
}

// insertAssetAtPlayhead drops the asset under the cursor onto the selected
// track at the playhead, the keyboard equivalent of a drag.
func (m *Model) insertAssetAtPlayhead() {
	s := m.store.GetState()
	asset, ok := m.cursorAsset()
	if !ok {
		return
	}
	track, _, ok := s.Track(m.selectedTrack)
	if !ok {
		m.status = "Select a track first"
		return
	}
	payload := drop.Payload{Asset: asset, CategoryID: asset.CategoryID, Type: drop.PayloadTypeAsset}
	origin := m.frameOrigin()
	m.reportDrop(m.drop.Drop(payload, m.playhead.ScreenX(s.PlayheadPosition()), origin, track))
}

// reportDrop turns a drop result into status text.
func (m *Model) reportDrop(res drop.Result, err error) {
	switch {
	case err != nil:
		m.setStatusError("Drop failed", err)
	case res.Accepted:
		m.status = "Added shot at " + timecode.FramesToTimecode(res.Frame, m.store.GetState().FPS())
	case res.Reason != "":
		m.status = "Drop refused: " + res.Reason
	default:
		m.status = "Asset does not fit this track"
	}
}

func (m *Model) openGoTo() {
	m.playhead.GoTo().Open()
	m.gotoInput.SetValue(m.playhead.GoTo().Value())
	m.gotoInput.CursorEnd()
	m.gotoInput.Focus()
	m.openOverlay(overlayGoTo)
}

// handleGoToKey edits the timecode field. Enter submits; an invalid value
// keeps the dialog open with the inline error.
func (m *Model) handleGoToKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.playhead.GoTo().Cancel()
		m.closeOverlay()
		m.status = "Go to cancelled"
		return m, nil
	case "enter":
		frame, err := m.playhead.GoTo().Submit(m.gotoInput.Value())
		if err != nil {
			appLog.Debug("go to rejected", "value", m.gotoInput.Value(), "error", err)
			return m, nil
		}
		m.closeOverlay()
		m.status = "Moved to " + timecode.FramesToTimecode(frame, m.store.GetState().FPS())
		return m, nil
	}
	if msg.Type == tea.KeyRunes && containsControlRunes(msg.Runes) {
		return m, nil
	}
	var cmd tea.Cmd
	m.gotoInput, cmd = m.gotoInput.Update(msg)
	return m, cmd
}

// containsControlRunes reports pasted escape junk that must not reach the
// text field.
func containsControlRunes(runes []rune) bool {
	for _, r := range runes {
		if unicode.IsControl(r) {
			return true
		}
	}
	return false
}
