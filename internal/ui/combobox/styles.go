package combobox

import "github.com/charmbracelet/lipgloss"

// Styles contains the style definitions for the combobox
type Styles struct {
	Trigger     lipgloss.Style
	TriggerOpen lipgloss.Style
	Placeholder lipgloss.Style
	Panel       lipgloss.Style
	Option      lipgloss.Style
	Cursor      lipgloss.Style
	Selected    lipgloss.Style
	Loading     lipgloss.Style
	Empty       lipgloss.Style
	Error       lipgloss.Style
	Scroll      lipgloss.Style
}

// NewStyles creates a new Styles instance with default values
func NewStyles() *Styles {
	return &Styles{
		Trigger: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("241")).
			Padding(0, 1),
		TriggerOpen: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("99")).
			Padding(0, 1),
		Placeholder: lipgloss.NewStyle().Faint(true),
		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("241")).
			Padding(0, 1),
		Option:   lipgloss.NewStyle(),
		Cursor:   lipgloss.NewStyle().Background(lipgloss.Color("238")).Foreground(lipgloss.Color("226")),
		Selected: lipgloss.NewStyle().Foreground(lipgloss.Color("78")).Bold(true), // green
		Loading:  lipgloss.NewStyle().Foreground(lipgloss.Color("241")),           // gray
		Empty:    lipgloss.NewStyle().Faint(true),
		Error:    lipgloss.NewStyle().Foreground(lipgloss.Color("203")), // red
		Scroll:   lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true),
	}
}
