package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/samber/lo"

	"github.com/treykane/cli-timeline/internal/model"
	"github.com/treykane/cli-timeline/internal/timecode"
)

// assetRow is one line of the asset library list.
type assetRow struct {
	asset    int // index into State.Assets, -1 for a category heading
	category string
}

// assetCategory groups an asset in the library; assets without a category
// id fall back to their type.
func assetCategory(a model.Asset) string {
	if a.CategoryID != "" {
		return a.CategoryID
	}
	return string(a.Type)
}

// assetRows lists category headings and their assets in first-seen order.
func (m *Model) assetRows() []assetRow {
	assets := m.store.GetState().Assets()
	indices := lo.Range(len(assets))
	groups := lo.GroupBy(indices, func(i int) string { return assetCategory(assets[i]) })
	categories := lo.Uniq(lo.Map(assets, func(a model.Asset, _ int) string { return assetCategory(a) }))

	rows := make([]assetRow, 0, len(assets)+len(categories))
	for _, c := range categories {
		rows = append(rows, assetRow{asset: -1, category: c})
		for _, i := range groups[c] {
			rows = append(rows, assetRow{asset: i, category: c})
		}
	}
	return rows
}

// assetOrder lists asset indices in display order; the asset cursor indexes
// into it.
func (m *Model) assetOrder() []int {
	return lo.FilterMap(m.assetRows(), func(r assetRow, _ int) (int, bool) {
		return r.asset, r.asset >= 0
	})
}

// cursorAsset returns the asset under the library cursor.
func (m *Model) cursorAsset() (model.Asset, bool) {
	order := m.assetOrder()
	if m.assetCursor < 0 || m.assetCursor >= len(order) {
		return model.Asset{}, false
	}
	return m.store.GetState().Assets()[order[m.assetCursor]], true
}

// assetListHeight is the number of list lines the library shows.
func (m *Model) assetListHeight(d LayoutDimensions) int {
	return max(0, d.TopHeight-paneStyle.GetVerticalFrameSize()-1)
}

// ensureAssetVisible scrolls the library so the cursor row is shown.
func (m *Model) ensureAssetVisible() {
	rows := m.assetRows()
	visible := m.assetListHeight(m.calculateLayout())
	if visible <= 0 {
		return
	}
	cursorRow := 0
	n := -1
	for i, r := range rows {
		if r.asset < 0 {
			continue
		}
		n++
		if n == m.assetCursor {
			cursorRow = i
			break
		}
	}
	if cursorRow < m.assetOffset {
		m.assetOffset = max(0, cursorRow-1)
	}
	if cursorRow >= m.assetOffset+visible {
		m.assetOffset = cursorRow - visible + 1
	}
	m.assetOffset = clamp(m.assetOffset, 0, max(0, len(rows)-visible))
}

// assetAtRow maps a screen row to an asset index.
func (m *Model) assetAtRow(d LayoutDimensions, y int) (int, bool) {
	line := y - d.ContentTop - 2 // top border and title
	if line < 0 || line >= m.assetListHeight(d) {
		return 0, false
	}
	rows := m.assetRows()
	i := m.assetOffset + line
	if i >= len(rows) || rows[i].asset < 0 {
		return 0, false
	}
	return rows[i].asset, true
}

// paneFor returns the pane style with the given border sides highlighted as
// a visible resize handle.
func paneFor(base lipgloss.Style, right, bottom, left bool) lipgloss.Style {
	if right {
		base = base.BorderRightForeground(accentColor)
	}
	if bottom {
		base = base.BorderBottomForeground(accentColor)
	}
	if left {
		base = base.BorderLeftForeground(accentColor)
	}
	return base
}

// boxed renders lines inside style at exactly width × height cells.
func boxed(style lipgloss.Style, lines []string, width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	innerWidth := max(0, width-style.GetHorizontalFrameSize())
	innerHeight := max(0, height-style.GetVerticalFrameSize())
	for i, line := range lines {
		lines[i] = truncate(line, innerWidth)
	}
	content := padBlock(strings.Join(lines, "\n"), innerWidth, innerHeight)
	out := style.
		Width(max(0, width-style.GetHorizontalBorderSize())).
		Height(max(0, height-style.GetVerticalBorderSize())).
		Render(content)
	return padBlock(out, width, height)
}

func (m *Model) renderAssetLibrary(d LayoutDimensions) string {
	if d.LeftWidth <= 0 || d.TopHeight <= 0 {
		return ""
	}
	style := paneFor(paneStyle, m.handleShown(model.PanelAssetLibrary), false, false)
	title := titleStyle.Render("Assets")
	if m.focus == focusAssets {
		title = handleStyle.Render("Assets")
	}
	lines := []string{title}

	assets := m.store.GetState().Assets()
	rows := m.assetRows()
	visible := m.assetListHeight(d)
	innerWidth := max(0, d.LeftWidth-paneStyle.GetHorizontalFrameSize())
	cursorAsset := -1
	if order := m.assetOrder(); m.assetCursor >= 0 && m.assetCursor < len(order) {
		cursorAsset = order[m.assetCursor]
	}
	for i := m.assetOffset; i < len(rows) && i < m.assetOffset+visible; i++ {
		r := rows[i]
		if r.asset < 0 {
			lines = append(lines, categoryStyle.Render(strings.ToUpper(r.category)))
			continue
		}
		a := assets[r.asset]
		line := truncateWithEllipsis(" "+a.Name, innerWidth)
		switch {
		case m.assetDrag != nil && m.assetDrag.Asset.ID == a.ID:
			line = dragStatus.Render(line)
		case r.asset == cursorAsset && m.focus == focusAssets:
			line = selectedStyle.Width(innerWidth).Render(line)
		case r.asset == cursorAsset:
			line = titleStyle.Render(line)
		}
		lines = append(lines, line)
	}
	if len(assets) == 0 {
		lines = append(lines, mutedStyle.Render("(no assets)"))
	}
	return boxed(style, lines, d.LeftWidth, d.TopHeight)
}

// shotAt returns the first shot spanning frame.
func (m *Model) shotAt(frame int) (model.Shot, bool) {
	return lo.Find(m.store.GetState().Shots(), func(s model.Shot) bool { return s.Contains(frame) })
}

// focusedShot is the first selected shot in timeline order.
func (m *Model) focusedShot() (model.Shot, bool) {
	s := m.store.GetState()
	if len(s.Selection()) == 0 {
		return model.Shot{}, false
	}
	return lo.Find(s.Shots(), func(shot model.Shot) bool { return s.Selected(shot.ID) })
}

// renderMiddle draws the preview box and the project summary beneath it.
func (m *Model) renderMiddle(d LayoutDimensions) string {
	if d.MiddleWidth <= 0 || d.TopHeight <= 0 {
		return ""
	}
	s := m.store.GetState()
	var preview string
	if d.PreviewWidth > 0 && d.PreviewHeight > 0 {
		shown := m.handleShown(model.PanelPreview)
		style := paneFor(previewPane, shown, shown, false)
		pos := m.playhead.Position()
		state := "⏸ paused"
		if s.IsPlaying() {
			state = "▶ playing"
		}
		lines := []string{
			titleStyle.Render("Preview"),
			timecode.FramesToTimecode(pos, s.FPS()) + "  " + mutedStyle.Render(state),
		}
		if shot, ok := m.shotAt(pos); ok {
			lines = append(lines, "", shot.Name)
			if shot.Prompt != "" {
				lines = append(lines, mutedStyle.Render(truncateWithEllipsis(shot.Prompt, max(0, d.PreviewWidth-2))))
			}
		} else {
			lines = append(lines, "", mutedStyle.Render("(no shot at playhead)"))
		}
		preview = boxed(style, lines, d.PreviewWidth, d.PreviewHeight)
	}

	below := max(0, d.TopHeight-d.PreviewHeight)
	summary := padBlock(strings.Join(m.projectSummaryLines(), "\n"), d.MiddleWidth, below)
	if d.PreviewWidth <= 0 || d.PreviewHeight <= 0 {
		return padBlock(summary, d.MiddleWidth, d.TopHeight)
	}
	preview = padBlock(preview, d.MiddleWidth, d.PreviewHeight)
	if below == 0 {
		return preview
	}
	return preview + "\n" + summary
}

func (m *Model) renderShotConfig(d LayoutDimensions) string {
	if d.RightWidth <= 0 || d.TopHeight <= 0 {
		return ""
	}
	style := paneFor(paneStyle, false, false, m.handleShown(model.PanelShotConfig))
	lines := []string{titleStyle.Render("Shot")}
	shot, ok := m.focusedShot()
	if !ok {
		lines = append(lines, mutedStyle.Render("(no shot selected)"))
		return boxed(style, lines, d.RightWidth, d.TopHeight)
	}
	fps := m.store.GetState().FPS()
	p := shot.Parameters
	lines = append(lines,
		trackNameStyle.Render(shot.Name),
		fmt.Sprintf("In   %s", timecode.FramesToTimecode(shot.StartTime, fps)),
		fmt.Sprintf("Out  %s", timecode.FramesToTimecode(shot.EndTime(), fps)),
		fmt.Sprintf("Len  %s", timecode.FormatDuration(shot.Duration, fps)),
		fmt.Sprintf("Status %s", shot.GenerationStatus),
		mutedStyle.Render(fmt.Sprintf("%s · %d steps · cfg %.1f · %s", p.Model, p.Steps, p.Guidance, p.AspectRatio)),
	)
	if n := len(shot.Layers); n > 0 {
		types := lo.Map(shot.Layers, func(l model.Layer, _ int) string { return string(l.Type) })
		lines = append(lines, mutedStyle.Render(plural(n, "layer")+": "+strings.Join(types, ", ")))
	}
	if n := len(shot.ReferenceImages); n > 0 {
		lines = append(lines, mutedStyle.Render(plural(n, "reference")))
	}
	if key, ok := m.promptTarget(); ok {
		lines = append(lines, "")
		lines = append(lines, strings.Split(m.renderedPrompt(key), "\n")...)
	}
	return boxed(style, lines, d.RightWidth, d.TopHeight)
}

// handleShown reports whether panel's resize handle is drawn.
func (m *Model) handleShown(panel model.PanelID) bool {
	return m.layout.HandleState(panel, m.hoverHandle == panel)
}
