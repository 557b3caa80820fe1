package console

import "github.com/charmbracelet/lipgloss"

// Palette
var (
	colorPrimary = lipgloss.Color("#101F38")
	colorAccent  = lipgloss.Color("#8BC34A")
	colorMuted   = lipgloss.Color("#8A94A6")
	colorDanger  = lipgloss.Color("#E53935")
	colorWarning = lipgloss.Color("#FFC107")
)

type styles struct {
	title     lipgloss.Style
	nav       lipgloss.Style
	navActive lipgloss.Style
	tab       lipgloss.Style
	tabActive lipgloss.Style
	header    lipgloss.Style
	cursor    lipgloss.Style
	selected  lipgloss.Style
	muted     lipgloss.Style
	label     lipgloss.Style
	quoted    lipgloss.Style
	status    lipgloss.Style
	failure   lipgloss.Style
	confirm   lipgloss.Style
}

func defaultStyles() styles {
	return styles{
		title:     lipgloss.NewStyle().Bold(true).Foreground(colorAccent),
		nav:       lipgloss.NewStyle().Foreground(colorMuted).Padding(0, 1),
		navActive: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFFFFF")).Background(colorPrimary).Padding(0, 1),
		tab:       lipgloss.NewStyle().Foreground(colorMuted),
		tabActive: lipgloss.NewStyle().Bold(true).Underline(true).Foreground(colorAccent),
		header:    lipgloss.NewStyle().Bold(true).Foreground(colorMuted),
		cursor:    lipgloss.NewStyle().Reverse(true),
		selected:  lipgloss.NewStyle().Foreground(colorAccent),
		muted:     lipgloss.NewStyle().Foreground(colorMuted),
		label:     lipgloss.NewStyle().Bold(true).Width(28),
		quoted:    lipgloss.NewStyle().Italic(true).Foreground(colorMuted),
		status:    lipgloss.NewStyle().Foreground(colorMuted),
		failure:   lipgloss.NewStyle().Bold(true).Foreground(colorDanger),
		confirm:   lipgloss.NewStyle().Bold(true).Foreground(colorWarning),
	}
}
