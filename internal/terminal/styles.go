// Package terminal renders coloured console output and progress spinners.
package terminal

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const separatorWidth = 47

// Styles defines the console colours.
type Styles struct {
	Separator lipgloss.Style
	Title     lipgloss.Style
	Green     lipgloss.Style
	Blue      lipgloss.Style
	Yellow    lipgloss.Style
	Red       lipgloss.Style
	Subtle    lipgloss.Style
	Spinner   lipgloss.Style
}

// DefaultStyles returns the default styling.
func DefaultStyles() Styles {
	return Styles{
		Separator: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("8")),
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("12")),
		Green: lipgloss.NewStyle().
			Foreground(lipgloss.Color("10")),
		Blue: lipgloss.NewStyle().
			Foreground(lipgloss.Color("4")),
		Yellow: lipgloss.NewStyle().
			Foreground(lipgloss.Color("11")),
		Red: lipgloss.NewStyle().
			Foreground(lipgloss.Color("9")),
		Subtle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")),
		Spinner: lipgloss.NewStyle().
			Foreground(lipgloss.Color("212")),
	}
}

// SeparatorLine returns the horizontal rule placed around message previews.
func (s Styles) SeparatorLine() string {
	return s.Separator.Render(strings.Repeat("─", separatorWidth))
}
