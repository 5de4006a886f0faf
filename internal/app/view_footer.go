package app

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/treykane/cli-timeline/internal/drop"
)

func (m *Model) renderStatus(width, rows int) string {
	statusRows, _ := m.buildStatusRows(width, rows)
	style := statusStyle
	if m.feedback.Dragging() || m.assetDrag != nil {
		style = dragStatus
	}
	for len(statusRows) < rows {
		statusRows = append(statusRows, "")
	}

	rendered := make([]string, 0, len(statusRows))
	for _, line := range statusRows {
		line = " " + truncate(line, max(0, width-1))
		rendered = append(rendered, style.Width(width).Render(line))
	}
	return strings.Join(rendered, "\n")
}

// buildStatusRows packs the help, context and status segments into at most
// rowLimit rows. It must not depend on calculateLayout, which sizes the
// footer through it.
func (m *Model) buildStatusRows(width, rowLimit int) ([]string, bool) {
	if width <= 0 || rowLimit <= 0 {
		return nil, true
	}

	help := m.statusHelpSegments()
	context := m.statusContextSegments()
	status := m.statusMessageSegment()

	segments := make([]string, 0, len(help)+len(context)+2)
	if len(help) > 0 {
		segments = append(segments, "Keys: "+help[0])
		segments = append(segments, help[1:]...)
	}
	if len(context) > 0 {
		segments = append(segments, "Context: "+context[0])
		segments = append(segments, context[1:]...)
	}
	if status != "" {
		segments = append(segments, "Status: "+status)
	}

	rows := make([]string, 1, rowLimit)
	rowIndex := 0
	fit := true
	for _, seg := range segments {
		seg = strings.TrimSpace(seg)
		if seg == "" {
			continue
		}
		segment := seg
		if lipgloss.Width(segment) > width {
			segment = truncateWithEllipsis(segment, width)
		}

		candidate := segment
		if rows[rowIndex] != "" {
			candidate = rows[rowIndex] + " | " + segment
		}
		if lipgloss.Width(candidate) <= width {
			rows[rowIndex] = candidate
			continue
		}
		if rowIndex+1 < rowLimit {
			rowIndex++
			rows = append(rows, segment)
			continue
		}

		fit = false
		if rows[rowIndex] == "" {
			rows[rowIndex] = truncateWithEllipsis(segment, width)
		} else {
			rows[rowIndex] = truncateWithEllipsis(rows[rowIndex]+" | "+segment, width)
		}
		break
	}
	return rows, fit
}

// keyHint formats "<key> <label>" using the first key bound to action.
func (m *Model) keyHint(action, label string) string {
	key := humanizeKeyLabel(m.primaryActionKey(action, ""))
	if key == "" {
		return ""
	}
	return key + " " + label
}

func (m *Model) statusHelpSegments() []string {
	switch m.overlay {
	case overlayGoTo:
		return []string{"Go to time", "Enter go", "Esc cancel"}
	case overlayHelp:
		return []string{"Help", "any key close"}
	}
	if m.assetDrag != nil {
		return []string{"Release over a track lane to drop", "release elsewhere to cancel"}
	}
	if m.focus == focusAssets {
		return []string{
			m.keyHint(actionCursorDown, "asset"),
			m.keyHint(actionAssetInsert, "insert at playhead"),
			"drag to a track",
			m.keyHint(actionFocusNext, "timeline"),
			m.keyHint(actionHelp, "help"),
			m.keyHint(actionQuit, "quit"),
		}
	}
	return []string{
		"←/→ step",
		m.keyHint(actionPlay, "play"),
		m.keyHint(actionGoTo, "go to"),
		m.keyHint(actionZoomIn, "zoom"),
		m.keyHint(actionCursorDown, "track"),
		m.keyHint(actionTrackLock, "lock"),
		m.keyHint(actionTrackHide, "hide"),
		m.keyHint(actionUndo, "undo"),
		m.keyHint(actionFocusNext, "assets"),
		m.keyHint(actionHelp, "help"),
		m.keyHint(actionQuit, "quit"),
	}
}

func (m *Model) statusContextSegments() []string {
	parts := make([]string, 0, 4)
	s := m.store.GetState()
	if m.assetDrag != nil {
		hint := "Dragging " + m.assetDrag.Asset.Name
		if t, _, ok := s.Track(m.dropTarget()); ok {
			if drop.CanAccept(m.assetDrag.Asset.Type, t.Type) && !t.Locked {
				hint += " → " + t.Name
			} else {
				hint += " ✕ " + t.Name
			}
		}
		parts = append(parts, hint)
	} else if m.feedback.Dragging() {
		parts = append(parts, "Drag: "+string(m.feedback.Cursor))
	}
	if t, _, ok := s.Track(m.selectedTrack); ok {
		label := "Track: " + t.Name
		switch {
		case t.Hidden:
			label += " (hidden)"
		case t.Locked:
			label += " (locked)"
		}
		parts = append(parts, label)
	}
	if m.lastStats.Tracks > 0 {
		parts = append(parts, m.lastStats.String())
	}
	return parts
}

func (m *Model) statusMessageSegment() string {
	return strings.TrimSpace(m.status)
}
