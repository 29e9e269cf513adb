package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/Iron-Ham/phonebook/internal/rwlock"
)

var (
	// Colors meet WCAG AA contrast on dark backgrounds
	PrimaryColor   = lipgloss.Color("#A78BFA") // Purple
	SecondaryColor = lipgloss.Color("#10B981") // Green
	WarningColor   = lipgloss.Color("#F59E0B") // Amber
	ErrorColor     = lipgloss.Color("#F87171") // Red
	MutedColor     = lipgloss.Color("#9CA3AF") // Gray
	TextColor      = lipgloss.Color("#F9FAFB") // Light text
	BorderColor    = lipgloss.Color("#6B7280") // Gray

	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(PrimaryColor)

	Subtitle = lipgloss.NewStyle().
			Foreground(MutedColor).
			Italic(true)

	Muted = lipgloss.NewStyle().Foreground(MutedColor)
	Error = lipgloss.NewStyle().Foreground(ErrorColor).Bold(true)

	NameStyle  = lipgloss.NewStyle().Foreground(TextColor)
	PhoneStyle = lipgloss.NewStyle().Foreground(SecondaryColor)

	ContentBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(BorderColor).
			Padding(0, 1)

	StatusBadge = lipgloss.NewStyle().
			Padding(0, 1).
			Bold(true).
			Foreground(lipgloss.Color("#111827"))
)

// LockColor returns the badge color for a lock state
func LockColor(s rwlock.State) lipgloss.Color {
	switch s {
	case rwlock.StateIdle:
		return MutedColor
	case rwlock.StateShared:
		return SecondaryColor
	case rwlock.StateExclusive:
		return WarningColor
	default:
		return MutedColor
	}
}
