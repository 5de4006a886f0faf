package app

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/treykane/cli-timeline/internal/drop"
	"github.com/treykane/cli-timeline/internal/model"
	"github.com/treykane/cli-timeline/internal/render"
	"github.com/treykane/cli-timeline/internal/timecode"
	"github.com/treykane/cli-timeline/internal/tracks"
)

// Track header geometry, in columns and rows relative to the slot.
const (
	headerControlRow = 1
	headerGripCol    = 10
)

// headerHit is what a press on a track header lands on.
type headerHit int

const (
	hitSelect headerHit = iota
	hitLock
	hitHide
	hitMute
	hitSolo
	hitResize
)

var headerControls = []struct {
	col   int
	label string
	hit   headerHit
}{
	{1, "L", hitLock},
	{3, "H", hitHide},
	{5, "M", hitMute},
	{7, "S", hitSolo},
}

// headerHitAt classifies a press at row r, column col of a slot rows tall.
func headerHitAt(rows, r, col int) headerHit {
	if r == rows-1 && col >= headerGripCol {
		return hitResize
	}
	if r == headerControlRow {
		for _, c := range headerControls {
			if c.col == col {
				return c.hit
			}
		}
	}
	return hitSelect
}

// cellHeight is the px height track t is drawn at: the live resize height or
// the stored height, rounded up to whole rows.
func (m *Model) cellHeight(t model.Track) int {
	h := t.Height
	if rh, ok := m.tracks.ResizeHeight(t.ID); ok {
		h = rh
	}
	h = t.ClampHeight(h)
	rows := max(1, (h+m.cellH-1)/m.cellH)
	return rows * m.cellH
}

// renderInput describes the visible timeline for the renderer.
func (m *Model) renderInput(d LayoutDimensions) render.Input {
	s := m.store.GetState()
	return render.Input{
		Tracks:         s.Tracks(),
		Shots:          s.Shots(),
		Zoom:           s.ZoomLevel(),
		Playhead:       m.playhead.Position(),
		Selected:       s.Selection(),
		ViewportWidth:  d.LaneWidth() * m.cellW,
		ViewportHeight: d.TracksHeight() * m.cellH,
		ScrollX:        m.scrollX,
		ScrollY:        m.scrollY,
		Heights:        m.cellHeight,
		Index:          m.index,
	}
}

// rowBuf is one screen row built cell by cell so differently styled marks
// can be placed at exact columns.
type rowBuf []string

func newRowBuf(width int) rowBuf {
	r := make(rowBuf, max(0, width))
	for i := range r {
		r[i] = " "
	}
	return r
}

// put writes text from col, one rune per column, clipped to the row.
func (r rowBuf) put(col int, text string, style lipgloss.Style) {
	for _, ch := range text {
		if col >= len(r) {
			return
		}
		if col >= 0 {
			r[col] = style.Render(string(ch))
		}
		col++
	}
}

func (r rowBuf) String() string {
	return strings.Join(r, "")
}

// laneCol converts a screen px x to a terminal column.
func (m *Model) laneCol(x float64) int {
	return int(math.Floor(x / float64(m.cellW)))
}

// renderTimeline draws the divider, the ruler and the visible tracks.
func (m *Model) renderTimeline(d LayoutDimensions) string {
	if d.TimelineHeight <= 0 {
		return ""
	}
	rows := make([]string, 0, d.TimelineHeight)
	rows = append(rows, m.renderDivider(d))
	if d.TimelineHeight > 1 {
		rows = append(rows, m.renderRulerLabels(d))
	}
	if d.TimelineHeight > 2 {
		rows = append(rows, m.renderRulerTicks(d))
	}
	rows = append(rows, m.renderTracks(d)...)
	return padBlock(strings.Join(rows, "\n"), d.Width, d.TimelineHeight)
}

func (m *Model) renderDivider(d LayoutDimensions) string {
	line, style := "─", dividerStyle
	if m.handleShown(model.PanelTimeline) {
		line, style = "━", handleStyle
	}
	row := newRowBuf(d.Width)
	row.put(0, strings.Repeat(line, d.Width), style)
	s := m.store.GetState()
	title := fmt.Sprintf(" Timeline · %s · zoom %.2f · snap %s · ruler %s ",
		s.Name(), s.ZoomLevel(), onOff(m.playhead.Snap()), m.playhead.Ruler().Granularity())
	row.put(2, title, titleStyle)
	return row.String()
}

func (m *Model) renderRulerLabels(d LayoutDimensions) string {
	s := m.store.GetState()
	row := newRowBuf(d.Width)
	row.put(1, timecode.FramesToTimecode(m.playhead.Position(), s.FPS()), playheadStyle)

	lane := float64(d.LaneWidth() * m.cellW)
	for _, t := range m.playhead.Ruler().Ticks(m.scrollX, lane, s.ZoomLevel(), s.FPS(), s.Duration()) {
		if t.Label == "" {
			continue
		}
		row.put(TrackHeaderCols+m.laneCol(t.X), t.Label, rulerStyle)
	}

	if tip := m.playhead.Tooltip(); tip.Visible {
		text := " " + tip.Text + " "
		if tip.ShowSnap && tip.Snap {
			text += "⌗ "
		}
		width := lipgloss.Width(text)
		col := clamp(m.laneCol(tip.X)-width/2, TrackHeaderCols, max(TrackHeaderCols, d.Width-width))
		row.put(col, text, tooltipStyle)
	}
	return row.String()
}

func (m *Model) renderRulerTicks(d LayoutDimensions) string {
	s := m.store.GetState()
	row := newRowBuf(d.Width)
	row.put(1, m.playhead.Ruler().Granularity().String(), mutedStyle)

	lane := float64(d.LaneWidth() * m.cellW)
	for _, t := range m.playhead.Ruler().Ticks(m.scrollX, lane, s.ZoomLevel(), s.FPS(), s.Duration()) {
		mark := "·"
		if t.Major {
			mark = "│"
		}
		row.put(TrackHeaderCols+m.laneCol(t.X), mark, rulerStyle)
	}
	for _, mk := range s.Markers() {
		col := m.laneCol(m.playhead.ScreenX(mk.Frame))
		if col < TrackHeaderCols || col >= d.Width {
			continue
		}
		style := markerStyle
		if mk.Color != "" {
			style = style.Foreground(lipgloss.Color(mk.Color))
		}
		row.put(col, "◆", style)
	}
	if col := m.laneCol(m.playhead.ScreenX(m.playhead.Position())); col >= TrackHeaderCols && col < d.Width {
		row.put(col, "▼", playheadStyle)
	}
	return row.String()
}

// renderTracks draws the track headers and lanes, one string per row.
func (m *Model) renderTracks(d LayoutDimensions) []string {
	height := d.TracksHeight()
	rows := make([]string, height)
	if height == 0 {
		return rows
	}
	surfaces, stats := render.Render(m.renderInput(d), render.CellFactory(m.cellW, m.cellH))
	m.lastStats = stats
	if len(surfaces) == 0 {
		rows[0] = mutedStyle.Render("  (no visible tracks)")
		return rows
	}

	scrollRows := int(m.scrollY) / m.cellH
	for _, ts := range surfaces {
		cells, ok := ts.Surface.(*render.CellSurface)
		if !ok {
			continue
		}
		lanes := strings.Split(cells.Render(), "\n")
		slotRows := ts.Slot.Height / m.cellH
		first := ts.Slot.Top/m.cellH - scrollRows
		for r := 0; r < slotRows; r++ {
			screen := first + r
			if screen < 0 || screen >= height {
				continue
			}
			lane := ""
			if r < len(lanes) {
				lane = lanes[r]
			}
			rows[screen] = m.renderTrackHeader(ts.Slot.Track, r, slotRows) + lane
		}
	}
	return rows
}

// renderTrackHeader draws row r of the header column for t.
func (m *Model) renderTrackHeader(t model.Track, r, rows int) string {
	row := newRowBuf(TrackHeaderCols)
	selected := t.ID == m.selectedTrack
	if selected {
		row.put(0, "▌", lipgloss.NewStyle().Foreground(lipgloss.Color(t.Color)))
	}
	switch r {
	case 0:
		style := trackNameStyle
		switch {
		case m.assetDrag != nil && m.dropTarget() == t.ID:
			if drop.CanAccept(m.assetDrag.Asset.Type, t.Type) && !t.Locked {
				style = acceptedStyle
			} else {
				style = rejectedStyle
			}
		case m.isDraggingTrack(t.ID):
			style = dragStatus
		case selected:
			style = selectedStyle
		case m.hoverTrack == t.ID:
			style = style.Underline(true)
		}
		icon := t.Icon
		if icon == "" {
			icon = "•"
		}
		row.put(1, truncateWithEllipsis(icon+" "+t.Name, TrackHeaderCols-2), style)
	case headerControlRow:
		caps := tracks.TrackCapabilities(t)
		states := []struct {
			ctl tracks.Control
			on  bool
		}{
			{caps.Lock, t.Locked},
			{caps.Hide, t.Hidden},
			{caps.Mute, t.Muted},
			{caps.Solo, t.Solo},
		}
		for i, c := range headerControls {
			st := states[i]
			switch {
			case !st.ctl.Present:
				continue
			case !st.ctl.Enabled:
				row.put(c.col, c.label, controlLocked)
			case st.on:
				row.put(c.col, c.label, controlOn)
			default:
				row.put(c.col, c.label, controlOff)
			}
		}
	}
	if r == rows-1 {
		grip := "┄┄┄┄┄┄┄"
		style := mutedStyle
		if id, ok := m.tracks.Resizing(); ok && id == t.ID {
			style = handleStyle
		}
		row.put(headerGripCol, grip, style)
	}
	return row.String()
}

func (m *Model) isDraggingTrack(id string) bool {
	dragging, ok := m.tracks.Dragging()
	return ok && dragging == id
}
