package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/treykane/cli-timeline/internal/timecode"
)

// View draws the full UI: header, panel band, timeline and status footer.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	footerHeight := m.footerHeightForWidth(m.width)
	d := m.calculateLayout()

	var body string
	if m.overlay != overlayNone {
		body = m.renderActiveOverlay(m.width, d.ContentHeight)
	} else {
		parts := make([]string, 0, 2)
		if band := m.renderBand(d); band != "" {
			parts = append(parts, band)
		}
		if timeline := m.renderTimeline(d); timeline != "" {
			parts = append(parts, timeline)
		}
		body = strings.Join(parts, "\n")
	}

	rows := []string{m.renderHeader(m.width)}
	if d.ContentHeight > 0 {
		rows = append(rows, padBlock(body, m.width, d.ContentHeight))
	}
	rows = append(rows, m.renderStatus(m.width, footerHeight))
	return padBlock(strings.Join(rows, "\n"), m.width, m.height)
}

// renderBand joins the asset library, preview column and shot config.
func (m *Model) renderBand(d LayoutDimensions) string {
	if d.TopHeight <= 0 {
		return ""
	}
	panes := make([]string, 0, 3)
	for _, pane := range []string{m.renderAssetLibrary(d), m.renderMiddle(d), m.renderShotConfig(d)} {
		if pane != "" {
			panes = append(panes, pane)
		}
	}
	return padBlock(lipgloss.JoinHorizontal(lipgloss.Top, panes...), d.Width, d.TopHeight)
}

func (m *Model) renderHeader(width int) string {
	s := m.store.GetState()
	name := s.Name()
	if name == "" {
		name = "untitled"
	}
	title := fmt.Sprintf(" cli-timeline · %s · %s / %s · %d fps",
		name,
		timecode.FramesToTimecode(m.playhead.Position(), s.FPS()),
		timecode.FramesToTimecode(s.Duration(), s.FPS()),
		s.FPS(),
	)
	if s.IsPlaying() {
		title += " · ▶"
	}
	return headerStyle.Width(width).Render(truncate(title, width))
}
