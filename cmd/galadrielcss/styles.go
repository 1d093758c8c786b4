package main

import "github.com/charmbracelet/lipgloss"

// Terminal styles for the alert renderer. Lipgloss automatically
// degrades colors based on terminal capabilities.
var (
	styleGreen  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("2"))
	styleYellow = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("3"))
	styleRed    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("1"))
	styleCyan   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	styleGray   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// renderStyle applies style to text when colors are enabled, otherwise
// returns text unmodified.
func renderStyle(style lipgloss.Style, text string, useColors bool) string {
	if !useColors {
		return text
	}
	return style.Render(text)
}
