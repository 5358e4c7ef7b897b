package interactive

import "github.com/charmbracelet/lipgloss"

// Styles defines the visual styling for the message editor.
type Styles struct {
	Title  lipgloss.Style
	Subtle lipgloss.Style
	Frame  lipgloss.Style

	// Help bar
	HelpKey  lipgloss.Style
	HelpDesc lipgloss.Style
}

// DefaultStyles returns the default styling.
func DefaultStyles() Styles {
	return Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("252")),
		Subtle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")),
		Frame: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("241")).
			Padding(0, 1),
		HelpKey: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")),
		HelpDesc: lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")),
	}
}
