package app

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// applyColorProfile sets Lip Gloss's color profile for the interactive TUI.
//
// preference comes from the color_profile config key: "ascii", "ansi",
// "ansi256", "truecolor", or empty/"auto" to detect. NO_COLOR always wins.
func applyColorProfile(preference string) {
	lipgloss.SetColorProfile(resolveColorProfile(preference, termenv.ColorProfile()))
}

func resolveColorProfile(preference string, detected termenv.Profile) termenv.Profile {
	if strings.TrimSpace(os.Getenv("NO_COLOR")) != "" {
		return termenv.Ascii
	}
	switch strings.ToLower(strings.TrimSpace(preference)) {
	case "ascii", "none":
		return termenv.Ascii
	case "ansi", "16":
		return termenv.ANSI
	case "ansi256", "256":
		return termenv.ANSI256
	case "truecolor", "24bit":
		return termenv.TrueColor
	}

	// termenv can under-report on terminals that do not answer color probes.
	colorterm := strings.ToLower(strings.TrimSpace(os.Getenv("COLORTERM")))
	term := strings.ToLower(strings.TrimSpace(os.Getenv("TERM")))
	switch {
	case strings.Contains(colorterm, "truecolor") || strings.Contains(colorterm, "24bit"):
		if detected != termenv.Ascii {
			return termenv.TrueColor
		}
	case strings.Contains(term, "256color"):
		if detected == termenv.Ascii || detected == termenv.ANSI {
			return termenv.ANSI256
		}
	}
	return detected
}
