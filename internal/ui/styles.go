package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// Styles contains the style definitions for the app frame
type Styles struct {
	Title         lipgloss.Style
	Main          lipgloss.Style
	Status        lipgloss.Style
	StatusError   lipgloss.Style
	StatusSuccess lipgloss.Style
	Help          lipgloss.Style
}

// NewStyles creates a new Styles instance with default values
func NewStyles() *Styles {
	return &Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99")).
			MarginBottom(1),
		Main: lipgloss.NewStyle().
			Padding(1, 2),
		Status: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			MarginTop(1),
		StatusError:   lipgloss.NewStyle().Foreground(lipgloss.Color("203")).MarginTop(1), // red
		StatusSuccess: lipgloss.NewStyle().Foreground(lipgloss.Color("78")).MarginTop(1),  // green
		Help:          lipgloss.NewStyle().Faint(true).MarginTop(1),
	}
}
