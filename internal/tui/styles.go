package tui

import (
	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"
)

var (
	colorAccent = lipgloss.AdaptiveColor{Light: "25", Dark: "39"}
	colorMuted  = lipgloss.AdaptiveColor{Light: "243", Dark: "246"}
	colorError  = lipgloss.AdaptiveColor{Light: "124", Dark: "203"}

	styleTitle  = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	styleMuted  = lipgloss.NewStyle().Foreground(colorMuted)
	styleError  = lipgloss.NewStyle().Foreground(colorError)
	styleStatus = lipgloss.NewStyle().Faint(true)
)

// colorEnabled reports whether the terminal advertises any color support.
// On a dumb terminal the views fall back to plain text labels.
func colorEnabled() bool {
	return termenv.EnvColorProfile() != termenv.Ascii
}

// truncate clips a rendered line to width columns, ANSI-aware.
func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return xansi.Truncate(s, width, "…")
}
