package tui

import (
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Palette
var (
	ColorAccent = lipgloss.Color("#7FB4CA")
	ColorDeep   = lipgloss.Color("#54698A")
	ColorDark   = lipgloss.Color("#1F2430")
	ColorText   = lipgloss.Color("#DCD7BA")
	ColorAlert  = lipgloss.Color("#E46876")
	ColorGood   = lipgloss.Color("#98BB6C")
	ColorWarn   = lipgloss.Color("#E6C384")
	ColorMuted  = lipgloss.Color("#727169")
)

// Styles
var (
	StyleApp = lipgloss.NewStyle().Margin(1, 2)

	StyleHeader = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true).
			Border(lipgloss.NormalBorder(), false, false, true, false).
			BorderForeground(ColorDeep).
			Padding(0, 1)

	StyleTitle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true)

	StyleSubtitle = lipgloss.NewStyle().
			Foreground(ColorMuted).
			Italic(true)

	StyleHelp = lipgloss.NewStyle().Foreground(ColorMuted)

	StyleStatusGood = lipgloss.NewStyle().Foreground(ColorGood).Bold(true)
	StyleStatusBad  = lipgloss.NewStyle().Foreground(ColorAlert).Bold(true)
	StyleStatusWarn = lipgloss.NewStyle().Foreground(ColorWarn).Bold(true)

	StyleCard = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorDeep).
			Padding(0, 1)

	StyleModal = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(ColorAccent).
			Padding(1, 3)

	StyleLabel        = lipgloss.NewStyle().Foreground(ColorDeep).Width(14)
	StyleLabelFocused = lipgloss.NewStyle().Foreground(ColorAccent).Bold(true).Width(14)
	StyleDisabled     = lipgloss.NewStyle().Foreground(ColorMuted).Faint(true)
)

// heading renders a screen title in upper case.
func heading(title string) string {
	return StyleHeader.Render(cases.Upper(language.English).String(title))
}
