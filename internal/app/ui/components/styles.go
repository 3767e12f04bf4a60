package components

import "github.com/charmbracelet/lipgloss"

// Common styles shared across UI components
var (
	HeaderStyle = lipgloss.NewStyle().
			PaddingTop(1)

	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(FgPrimary)

	SeparatorStyle = lipgloss.NewStyle().
			Foreground(FgBorder)

	ContentStyle = lipgloss.NewStyle().
			PaddingLeft(1)

	FooterStyle = lipgloss.NewStyle().
			Foreground(FgBorder)

	FooterHelpStyle = lipgloss.NewStyle().
			PaddingTop(0)

	HelpStyle = lipgloss.NewStyle().
			Foreground(FgBorder)

	HelpKeyStyle  = lipgloss.NewStyle().Foreground(FgMuted).Bold(true)
	HelpDescStyle = lipgloss.NewStyle().Foreground(FgBorder)

	// MutedStyle for secondary information such as timestamps and counters
	MutedStyle = lipgloss.NewStyle().
			Foreground(FgMuted)

	BoldStyle = lipgloss.NewStyle().Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(FgStatusError)

	WarningStyle = lipgloss.NewStyle().
			Foreground(FgStatusWarning)

	LiveStyle = lipgloss.NewStyle().
			Foreground(FgStatusLive)

	PausedStyle = lipgloss.NewStyle().
			Foreground(FgStatusWarning).
			Bold(true)

	// ActiveToggleStyle marks an enabled level, source or mode in the footer
	ActiveToggleStyle = lipgloss.NewStyle().
				Foreground(FgPrimary).
				Bold(true)

	InactiveToggleStyle = lipgloss.NewStyle().
				Foreground(FgBorder).
				Strikethrough(true)

	EmptyStateStyle = lipgloss.NewStyle().
			Foreground(FgMuted).
			MarginTop(2)

	// Banner styles used by the stream client
	PanelBorderStyle = lipgloss.NewStyle().Foreground(FgBorder)
	PanelTitleStyle  = lipgloss.NewStyle().Foreground(FgPrimary).Bold(true)
	PanelMutedStyle  = lipgloss.NewStyle().Foreground(FgMuted)
)
