package shell

import "github.com/charmbracelet/lipgloss"

var (
	accentColor = lipgloss.AdaptiveColor{Light: "#0369A1", Dark: "#7DD3FC"}
	mutedColor  = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#9CA3AF"}
	okColor     = lipgloss.AdaptiveColor{Light: "#15803D", Dark: "#86EFAC"}
	errorColor  = lipgloss.AdaptiveColor{Light: "#B91C1C", Dark: "#FCA5A5"}
)

var titleStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(accentColor).
	MarginBottom(1)

var labelStyle = lipgloss.NewStyle().Bold(true)

var promptStyle = lipgloss.NewStyle().Foreground(accentColor)

var placeholderStyle = lipgloss.NewStyle().Foreground(mutedColor)

var helpStyle = lipgloss.NewStyle().Foreground(mutedColor).MarginTop(1)

var statusBarStyle = lipgloss.NewStyle().
	BorderStyle(lipgloss.NormalBorder()).
	BorderTop(true).
	BorderForeground(mutedColor).
	MarginTop(1)

var statusOKStyle = statusBarStyle.Foreground(okColor)

var statusErrorStyle = statusBarStyle.Foreground(errorColor)
