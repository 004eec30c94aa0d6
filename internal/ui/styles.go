// Package ui implements Component H: the popup/panel/overlay feedback
// surface the router drives through router.Feedback, rendered with a single
// Bubble Tea program.
package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// Color palette, consistent across every rendered surface.
var (
	ColorPrimary = lipgloss.Color("39")  // Bright blue
	ColorAccent  = lipgloss.Color("205") // Pink/magenta
	ColorSuccess = lipgloss.Color("82")  // Green
	ColorWarning = lipgloss.Color("214") // Orange
	ColorError   = lipgloss.Color("196") // Red
	ColorInfo    = lipgloss.Color("86")  // Cyan

	ColorText   = lipgloss.Color("252") // Light gray
	ColorSubtle = lipgloss.Color("241") // Medium gray
	ColorMuted  = lipgloss.Color("238") // Dark gray

	ColorActive = ColorPrimary
)

var (
	TextStyle = lipgloss.NewStyle().
			Foreground(ColorText)

	SubtleStyle = lipgloss.NewStyle().
			Foreground(ColorSubtle)

	MutedStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	BoldStyle = lipgloss.NewStyle().
			Bold(true)

	SubheaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorText)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess)

	WarningStyle = lipgloss.NewStyle().
			Foreground(ColorWarning)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorError)

	InfoStyle = lipgloss.NewStyle().
			Foreground(ColorInfo)

	// BoxStyle is the shared rounded-border frame the popup, drag indicator
	// and settings panel render inside; the margin/jump overlays use the
	// borderless OverlayStyle.
	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorSubtle).
			Padding(0, 2)

	ListItemStyle = lipgloss.NewStyle().
			Foreground(ColorText)

	SpinnerStyle = lipgloss.NewStyle().
			Foreground(ColorAccent)
)

var (
	PanelSelectedStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorPrimary)

	PanelRowNameStyle = lipgloss.NewStyle().
				Foreground(ColorText).
				Width(24)

	PanelRowValueStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorInfo)

	PanelUnitStyle = lipgloss.NewStyle().
			Foreground(ColorSubtle)

	PopupStyle = BoxStyle.Copy().
			Foreground(ColorText)

	DragPopupStyle = BoxStyle.Copy().
			BorderForeground(ColorAccent).
			Foreground(ColorAccent)

	OverlayStyle = lipgloss.NewStyle().
			Foreground(ColorSubtle)
)

// FormatListItem renders a single left-aligned list entry, highlighted when
// active. Panel.View does not use it; it styles its rows itself.
func FormatListItem(item string, active bool) string {
	style := ListItemStyle
	if active {
		style = style.Copy().Foreground(ColorActive)
	}
	return "  " + style.Render(item)
}
