// layout.go centralizes all terminal layout calculations for the editor.
//
// The screen is a title row, a band of three panels (asset library, preview,
// shot config), the timeline panel and the footer. Panel sizes are stored as
// percentages of the content area; the layout engine converts them to px and
// this file snaps px to whole terminal cells. While a resize is live the
// engine pushes px overrides through panelView instead of touching the store.
package app

import (
	"math"

	"github.com/treykane/cli-timeline/internal/layout"
	"github.com/treykane/cli-timeline/internal/model"
)

// LayoutDimensions holds all calculated layout dimensions for the UI, in cells.
type LayoutDimensions struct {
	Width          int // terminal columns
	ContentTop     int // first row below the header
	ContentHeight  int // rows between header and footer
	TopHeight      int // rows of the panel band
	TimelineTop    int // row of the timeline divider
	TimelineHeight int // rows of the timeline, divider and ruler included
	LeftWidth      int // asset library columns
	MiddleWidth    int // preview column
	RightWidth     int // shot config columns
	PreviewWidth   int
	PreviewHeight  int
}

// TracksTop is the first row of the track area.
func (d LayoutDimensions) TracksTop() int {
	return d.TimelineTop + TimelineChromeRows
}

// TracksHeight is the number of rows available to tracks.
func (d LayoutDimensions) TracksHeight() int {
	return max(0, d.TimelineHeight-TimelineChromeRows)
}

// LaneWidth is the number of columns available to shot lanes.
func (d LayoutDimensions) LaneWidth() int {
	return max(0, d.Width-TrackHeaderCols)
}

func (m *Model) contentHeight() int {
	return max(0, m.height-HeaderRows-m.footerHeightForWidth(m.width))
}

// container is the root px size the panel percentages refer to.
func (m *Model) container() layout.Size {
	return layout.Size{
		Width:  float64(m.width * m.cellW),
		Height: float64(m.contentHeight() * m.cellH),
	}
}

func (m *Model) colsFor(px float64) int {
	return int(math.Round(px / float64(m.cellW)))
}

func (m *Model) rowsFor(px float64) int {
	return int(math.Round(px / float64(m.cellH)))
}

// panelSize is the px size panel is drawn at: the live override during a
// resize, the stored percentage otherwise.
func (m *Model) panelSize(panel model.PanelID) layout.Size {
	if size, ok := m.view.overrides[panel]; ok {
		return size
	}
	return m.layout.PixelSize(panel)
}

// calculateLayout computes all UI dimensions from the terminal size and the
// panel sizes. Terminal limits win over stored sizes: side panels leave
// MinMiddleCols for the preview and the timeline leaves MinTopRows above it.
func (m *Model) calculateLayout() LayoutDimensions {
	d := LayoutDimensions{
		Width:         m.width,
		ContentTop:    HeaderRows,
		ContentHeight: m.contentHeight(),
	}

	left := m.colsFor(m.panelSize(model.PanelAssetLibrary).Width)
	right := m.colsFor(m.panelSize(model.PanelShotConfig).Width)
	room := max(0, d.Width-MinMiddleCols)
	left = clamp(left, 0, room)
	right = clamp(right, 0, room-left)
	d.LeftWidth = left
	d.RightWidth = right
	d.MiddleWidth = max(0, d.Width-left-right)

	timeline := m.rowsFor(m.panelSize(model.PanelTimeline).Height)
	d.TimelineHeight = clamp(timeline, min(TimelineChromeRows+1, d.ContentHeight), max(0, d.ContentHeight-MinTopRows))
	d.TimelineHeight = min(d.TimelineHeight, d.ContentHeight)
	d.TopHeight = d.ContentHeight - d.TimelineHeight
	d.TimelineTop = d.ContentTop + d.TopHeight

	preview := m.panelSize(model.PanelPreview)
	d.PreviewWidth = clamp(m.colsFor(preview.Width), 0, d.MiddleWidth)
	d.PreviewHeight = clamp(m.rowsFor(preview.Height), 0, d.TopHeight)
	return d
}

// handleAt returns the panel whose resize handle sits at cell (x, y).
func (d LayoutDimensions) handleAt(x, y int) (model.PanelID, bool) {
	inBand := y >= d.ContentTop && y < d.ContentTop+d.TopHeight
	switch {
	case d.PreviewWidth > 0 && d.PreviewHeight > 0 &&
		x == d.LeftWidth+d.PreviewWidth-1 && y == d.ContentTop+d.PreviewHeight-1:
		return model.PanelPreview, true
	case inBand && d.LeftWidth > 0 && x == d.LeftWidth-1:
		return model.PanelAssetLibrary, true
	case inBand && d.RightWidth > 0 && x == d.Width-d.RightWidth:
		return model.PanelShotConfig, true
	case d.TimelineHeight > 0 && y == d.TimelineTop:
		return model.PanelTimeline, true
	}
	return "", false
}

// panelView implements layout.PanelView for the terminal. Overrides are px;
// rendered sizes are snapped to whole cells.
type panelView struct {
	m         *Model
	overrides map[model.PanelID]layout.Size
}

func newPanelView(m *Model) *panelView {
	return &panelView{m: m, overrides: map[model.PanelID]layout.Size{}}
}

func (v *panelView) ApplySize(panel model.PanelID, size layout.Size) {
	v.overrides[panel] = size
}

func (v *panelView) ClearSize(panel model.PanelID) {
	delete(v.overrides, panel)
}

func (v *panelView) RenderedSize(panel model.PanelID) layout.Size {
	d := v.m.calculateLayout()
	cw, ch := float64(v.m.cellW), float64(v.m.cellH)
	switch panel {
	case model.PanelAssetLibrary:
		return layout.Size{Width: float64(d.LeftWidth) * cw}
	case model.PanelShotConfig:
		return layout.Size{Width: float64(d.RightWidth) * cw}
	case model.PanelPreview:
		return layout.Size{Width: float64(d.PreviewWidth) * cw, Height: float64(d.PreviewHeight) * ch}
	case model.PanelTimeline:
		return layout.Size{Height: float64(d.TimelineHeight) * ch}
	}
	return layout.Size{}
}

// footerHeightForWidth returns how many rows should be reserved for the footer.
func (m *Model) footerHeightForWidth(width int) int {
	_, fit := m.buildStatusRows(width, FooterMinRows)
	if fit {
		return FooterMinRows
	}
	return FooterMaxRows
}
