// ABOUTME: Shared lipgloss styles for consistent TUI appearance
// ABOUTME: Defines colors, borders, and text styles used across screens

package styles

import "github.com/charmbracelet/lipgloss"

var (
	// Colors - Core palette
	Primary   = lipgloss.Color("#2563EB") // Blue
	Secondary = lipgloss.Color("#10B981") // Green
	Warning   = lipgloss.Color("#F59E0B") // Amber
	Danger    = lipgloss.Color("#EF4444") // Red
	Muted     = lipgloss.Color("#6B7280") // Gray
	Text      = lipgloss.Color("#F9FAFB") // Light
	Surface   = lipgloss.Color("#374151") // Elevated surface background

	// Base styles
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary).
		MarginBottom(1)

	Subtitle = lipgloss.NewStyle().
			Foreground(Muted).
			MarginBottom(1)

	// Notices
	Notice = lipgloss.NewStyle().
		Foreground(Warning).
		Bold(true).
		MarginBottom(1)

	ErrorText = lipgloss.NewStyle().
			Foreground(Danger)

	SuccessText = lipgloss.NewStyle().
			Foreground(Secondary)

	// Panels
	Panel = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Muted).
		Padding(1, 2)

	ActivePanel = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Primary).
			Padding(1, 2)

	// Tabs
	ActiveTab = lipgloss.NewStyle().
			Foreground(Text).
			Background(Primary).
			Padding(0, 2).
			Bold(true)

	InactiveTab = lipgloss.NewStyle().
			Foreground(Muted).
			Background(Surface).
			Padding(0, 2)

	// Help text
	Help = lipgloss.NewStyle().
		Foreground(Muted).
		MarginTop(1)
)
