package main

import "github.com/charmbracelet/lipgloss"

var (
	colorSun    = lipgloss.Color("#f5be2c")
	colorTeal   = lipgloss.Color("#30b7aa")
	colorCoral  = lipgloss.Color("#f0564a")
	colorMuted  = lipgloss.Color("#8a8f98")
	colorBright = lipgloss.Color("#fefefe")
)

// styles groups every style the form uses
type styles struct {
	Pill      lipgloss.Style
	Title     lipgloss.Style
	Section   lipgloss.Style
	Label     lipgloss.Style
	Muted     lipgloss.Style
	Option    lipgloss.Style
	Cursor    lipgloss.Style
	Selected  lipgloss.Style
	No        lipgloss.Style
	Taunt     lipgloss.Style
	Error     lipgloss.Style
	Button    lipgloss.Style
	Disabled  lipgloss.Style
	Modal     lipgloss.Style
	ResultYes lipgloss.Style
	ResultNo  lipgloss.Style
}

func defaultStyles() styles {
	return styles{
		Pill: lipgloss.NewStyle().
			Foreground(colorBright).
			Background(colorTeal).
			Padding(0, 1),
		Title:    lipgloss.NewStyle().Bold(true).Foreground(colorSun).MarginBottom(1),
		Section:  lipgloss.NewStyle().Bold(true).Underline(true).MarginTop(1),
		Label:    lipgloss.NewStyle().Bold(true),
		Muted:    lipgloss.NewStyle().Foreground(colorMuted).Italic(true),
		Option:   lipgloss.NewStyle().PaddingLeft(2),
		Cursor:   lipgloss.NewStyle().Foreground(colorSun).Bold(true),
		Selected: lipgloss.NewStyle().Foreground(colorTeal).Bold(true),
		No:       lipgloss.NewStyle().Foreground(colorCoral),
		Taunt:    lipgloss.NewStyle().Foreground(colorCoral).Italic(true),
		Error:    lipgloss.NewStyle().Foreground(colorCoral).Bold(true),
		Button: lipgloss.NewStyle().
			Foreground(colorBright).
			Background(colorCoral).
			Padding(0, 2).
			MarginTop(1),
		Disabled: lipgloss.NewStyle().
			Foreground(colorMuted).
			Padding(0, 2).
			MarginTop(1),
		Modal: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorCoral).
			Padding(1, 2).
			Width(64),
		ResultYes: lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(colorSun).
			Padding(1, 2),
		ResultNo: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorMuted).
			Padding(1, 2),
	}
}
