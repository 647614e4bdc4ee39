package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// Palette
var (
	ColorPrimary   = lipgloss.Color("#0EA5E9") // Sky
	ColorSecondary = lipgloss.Color("#818CF8") // Periwinkle
	ColorSuccess   = lipgloss.Color("#22C55E") // Green
	ColorWarning   = lipgloss.Color("#F97316") // Orange
	ColorError     = lipgloss.Color("#F43F5E") // Rose
	ColorMuted     = lipgloss.Color("#64748B") // Slate
	ColorText      = lipgloss.Color("#F8FAFC")
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary)
	successStyle = lipgloss.NewStyle().Foreground(ColorSuccess)
	warningStyle = lipgloss.NewStyle().Foreground(ColorWarning)
	errorStyle   = lipgloss.NewStyle().Bold(true).Foreground(ColorError)
	mutedStyle   = lipgloss.NewStyle().Foreground(ColorMuted)
	boldStyle    = lipgloss.NewStyle().Bold(true)
	codeStyle    = lipgloss.NewStyle().
			Foreground(ColorSecondary).
			Background(lipgloss.Color("#1E293B")).
			Padding(0, 1)

	// SubtitleStyle highlights argument and option names in help text
	SubtitleStyle = lipgloss.NewStyle().Foreground(ColorSecondary)

	// BoxStyle frames the demo history
	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorMuted).
			Padding(0, 1)
)

// Device listing
var (
	DeviceIDStyle           = lipgloss.NewStyle().Foreground(ColorSecondary).Bold(true)
	DeviceNameStyle         = lipgloss.NewStyle().Foreground(ColorText)
	DeviceManufacturerStyle = mutedStyle
)

// Hold demo widget. The active and done variants only change the border so
// the button keeps its size for mouse hit testing.
var (
	HoldButtonStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorMuted).
			Width(28).
			Align(lipgloss.Center).
			Padding(1, 2)

	HoldButtonActiveStyle = HoldButtonStyle.
				BorderForeground(ColorPrimary).
				Bold(true)

	HoldButtonDoneStyle = HoldButtonStyle.
				BorderForeground(ColorSuccess)

	PropertyStyle = lipgloss.NewStyle().Foreground(ColorMuted).Italic(true)
)

func Title(text string) string   { return titleStyle.Render(text) }
func Success(text string) string { return successStyle.Render("✓ " + text) }
func Warning(text string) string { return warningStyle.Render("⚠ " + text) }
func Error(text string) string   { return errorStyle.Render("✗ " + text) }
func Muted(text string) string   { return mutedStyle.Render(text) }
func Code(text string) string    { return codeStyle.Render(text) }
func Bold(text string) string    { return boldStyle.Render(text) }
