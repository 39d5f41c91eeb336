package tui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme/palette helpers.
//
// The TUI must stay readable on both light and dark terminal backgrounds,
// so colors are adaptive and "faint" styling is reserved for dark themes
// (faint text on light terminals often becomes illegible).

func ac(light, dark string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Light: light, Dark: dark}
}

var darkBackground = termenv.NewOutput(os.Stdout).HasDarkBackground()

func faintIfDark(st lipgloss.Style) lipgloss.Style {
	if darkBackground {
		return st.Faint(true)
	}
	return st
}

var (
	colorMuted    lipgloss.TerminalColor = ac("240", "243")
	colorAccent   lipgloss.TerminalColor = ac("27", "75") // blue
	colorError    lipgloss.TerminalColor = ac("124", "203")
	colorOK       lipgloss.TerminalColor = ac("28", "78")
	colorSelBg    lipgloss.TerminalColor = ac("#e9e9e9", "#262626")
	colorSelFg    lipgloss.TerminalColor = ac("235", "255")
	colorBorder   lipgloss.TerminalColor = ac("250", "243")
	colorBorderOn lipgloss.TerminalColor = ac("232", "255")
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true)
	footerStyle = lipgloss.NewStyle().Foreground(colorMuted)
	errorStyle  = lipgloss.NewStyle().Foreground(colorError)
	okStyle     = lipgloss.NewStyle().Foreground(colorOK)
	mutedStyle  = lipgloss.NewStyle().Foreground(colorMuted)
	selStyle    = lipgloss.NewStyle().Background(colorSelBg).Foreground(colorSelFg)
)

func paneStyle(focused bool) lipgloss.Style {
	st := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	if focused {
		return st.BorderForeground(colorBorderOn)
	}
	return st.BorderForeground(colorBorder)
}
