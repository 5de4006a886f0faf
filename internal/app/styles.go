package app

import (
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
)

var (
	accentColor = lipgloss.Color("212")
	borderColor = lipgloss.Color("240")

	paneStyle      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(borderColor).Padding(0, 1)
	popupStyle     = lipgloss.NewStyle().Border(lipgloss.ThickBorder()).BorderForeground(accentColor).Padding(0, 1)
	previewPane    = lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(lipgloss.Color("62"))
	headerStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("230")).Background(lipgloss.Color("57"))
	selectedStyle  = lipgloss.NewStyle().Reverse(true)
	titleStyle     = lipgloss.NewStyle().Bold(true)
	statusStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	dragStatus     = lipgloss.NewStyle().Foreground(accentColor)
	mutedStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	handleStyle    = lipgloss.NewStyle().Foreground(accentColor).Bold(true)
	dividerStyle   = lipgloss.NewStyle().Foreground(borderColor)
	rulerStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
	playheadStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	markerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("215"))
	tooltipStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("230")).Background(lipgloss.Color("196"))
	controlOn      = lipgloss.NewStyle().Foreground(lipgloss.Color("16")).Background(lipgloss.Color("214"))
	controlOff     = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	controlLocked  = lipgloss.NewStyle().Foreground(lipgloss.Color("238")).Strikethrough(true)
	categoryStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("111"))
	rejectedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true)
	acceptedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("114")).Bold(true)
	trackNameStyle = lipgloss.NewStyle().Bold(true)
)

func applyInputTheme(input *textinput.Model) {
	input.Prompt = "▸ "
	input.PromptStyle = lipgloss.NewStyle().Foreground(accentColor)
	input.TextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	input.PlaceholderStyle = mutedStyle
}
