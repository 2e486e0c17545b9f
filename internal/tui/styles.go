// Package tui provides the interactive week/month calendar for eventcal.
package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// Color palette for the calendar.
var (
	ColorPrimary   = lipgloss.Color("#7C3AED") // Purple
	ColorSecondary = lipgloss.Color("#10B981") // Green
	ColorMuted     = lipgloss.Color("#6B7280") // Gray
	ColorWarning   = lipgloss.Color("#F59E0B") // Yellow
	ColorError     = lipgloss.Color("#EF4444") // Red
	ColorNotified  = lipgloss.Color("#B91C1C") // Dark red
	ColorBorder    = lipgloss.Color("#4B5563") // Dark gray
)

var (
	// StyleTitle is used for the header.
	StyleTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary)

	StyleSubtitle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	StyleWarning = lipgloss.NewStyle().
			Foreground(ColorWarning)

	StyleError = lipgloss.NewStyle().
			Foreground(ColorError)

	// StyleSelected marks the cursor row in the event list.
	StyleSelected = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorSecondary)

	// StyleNotified is used for events whose notification fired.
	StyleNotified = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorNotified)

	StyleHelp = lipgloss.NewStyle().
			Foreground(ColorMuted).
			MarginTop(1)

	StyleHelpKey = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorSecondary)

	StyleHelpDesc = lipgloss.NewStyle().
			Foreground(ColorMuted)
)

var (
	// StyleBannerBox frames in-app notification banners.
	StyleBannerBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorWarning).
			Padding(0, 1)

	// StyleListBox frames the event list.
	StyleListBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1)

	// StyleSearchBox frames the search input.
	StyleSearchBox = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(ColorPrimary).
			Padding(0, 1)
)
