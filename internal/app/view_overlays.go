package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var overlayRenderers = map[overlayMode]func(*Model, int, int) string{
	overlayHelp: (*Model).renderHelpOverlay,
	overlayGoTo: (*Model).renderGoToOverlay,
}

func (m *Model) renderActiveOverlay(width, height int) string {
	if render, ok := overlayRenderers[m.overlay]; ok {
		return render(m, width, height)
	}
	return ""
}

// renderHelpOverlay lists every binding, grouped, from the live keymap.
func (m *Model) renderHelpOverlay(width, height int) string {
	innerWidth := max(0, width-popupStyle.GetHorizontalFrameSize())
	m.help.Width = innerWidth
	lines := []string{
		titleStyle.Render("Keyboard Shortcuts"),
		"",
		m.help.View(helpKeyMap{m}),
		"",
		mutedStyle.Render("Playhead: ←/→ frame · Shift+←/→ 10 frames · PgUp/PgDn second · Home/End"),
		mutedStyle.Render("Mouse: drag handles to resize · drag assets onto tracks · click ruler to seek"),
		"",
		mutedStyle.Render("Press any key to return."),
	}
	body := strings.Join(lines, "\n")
	box := popupStyle.MaxWidth(width).MaxHeight(height).Render(body)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}

// renderGoToOverlay draws the go-to-timecode dialog.
func (m *Model) renderGoToOverlay(width, height int) string {
	popupWidth := min(GoToPopupWidth, width)
	innerWidth := max(0, popupWidth-popupStyle.GetHorizontalFrameSize())
	m.gotoInput.Width = max(1, innerWidth-lipgloss.Width(m.gotoInput.Prompt)-1)

	s := m.store.GetState()
	lines := []string{
		titleStyle.Render("Go to time"),
		m.gotoInput.View(),
	}
	if msg := m.playhead.GoTo().Error(); msg != "" {
		lines = append(lines, errorStyle.Render(truncateWithEllipsis(msg, innerWidth)))
	} else {
		lines = append(lines, "")
	}
	lines = append(lines, mutedStyle.Render(truncateWithEllipsis(
		fmt.Sprintf("MM:SS:FF at %d fps · Enter go · Esc cancel", s.FPS()), innerWidth)))

	box := popupStyle.Width(max(0, popupWidth-popupStyle.GetHorizontalBorderSize())).Render(strings.Join(lines, "\n"))
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}
