package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/noborus/ov/oviewer"

	uicombo "select2/internal/ui/combobox"
)

// helpPagerMsg contains the result of a help pager command
type helpPagerMsg struct {
	err error
}

// appKeyMap holds the bindings handled by the app itself
type appKeyMap struct {
	Help      key.Binding
	HelpPager key.Binding
	Quit      key.Binding
	Back      key.Binding
}

func defaultAppKeyMap() appKeyMap {
	return appKeyMap{
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "more help"),
		),
		HelpPager: key.NewBinding(
			key.WithKeys("f1"),
			key.WithHelp("f1", "help pager"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "quit when closed"),
		),
	}
}

// helpKeys merges the combobox and app bindings for the help bar
type helpKeys struct {
	combo uicombo.KeyMap
	app   appKeyMap
}

func (h helpKeys) ShortHelp() []key.Binding {
	return append(h.combo.ShortHelp(), h.app.Help, h.app.Quit)
}

func (h helpKeys) FullHelp() [][]key.Binding {
	return append(h.combo.FullHelp(), []key.Binding{h.app.Help, h.app.HelpPager, h.app.Back, h.app.Quit})
}

// HelpRenderer handles help content rendering
type HelpRenderer struct{}

// NewHelpRenderer creates a new help renderer
func NewHelpRenderer() *HelpRenderer {
	return &HelpRenderer{}
}

// RenderHelpContent renders the key reference shown in the pager
func (r *HelpRenderer) RenderHelpContent(title string, keys helpKeys) string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("99")).
		MarginBottom(1)

	sectionStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("39")).
		MarginTop(1)

	keyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("220"))

	descStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("252"))

	var help strings.Builder

	help.WriteString(titleStyle.Render(title + " Help"))
	help.WriteString("\n")

	writeSection := func(name string, bindings []key.Binding) {
		help.WriteString(sectionStyle.Render(name))
		help.WriteString("\n")
		for _, b := range bindings {
			h := b.Help()
			help.WriteString(fmt.Sprintf("  %s  %s\n", keyStyle.Render(fmt.Sprintf("%-10s", h.Key)), descStyle.Render(h.Desc)))
		}
		help.WriteString("\n")
	}

	writeSection("Picker", []key.Binding{keys.combo.Toggle, keys.combo.Pick, keys.combo.Close})
	writeSection("Navigation", []key.Binding{keys.combo.Up, keys.combo.Down, keys.combo.Home, keys.combo.End})
	writeSection("Other", []key.Binding{keys.app.Help, keys.app.HelpPager, keys.app.Back, keys.app.Quit})

	help.WriteString(lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("241")).Render(
		"  Typing while the picker is open filters the options; unknown names are looked up in the directory"))

	return help.String()
}

// helpPager shows help content in ov. It satisfies tea.ExecCommand so the
// program releases the terminal while ov runs.
type helpPager struct {
	content string
}

func (h *helpPager) Run() error {
	root, err := oviewer.NewRoot(strings.NewReader(h.content))
	if err != nil {
		return fmt.Errorf("failed to open help pager: %w", err)
	}

	// Configure ov to not write on exit (to avoid messing with our screen)
	config := oviewer.NewConfig()
	config.IsWriteOnExit = false
	config.IsWriteOriginal = false
	root.SetConfig(config)

	return root.Run()
}

// ov talks to the terminal directly
func (h *helpPager) SetStdin(io.Reader)  {}
func (h *helpPager) SetStdout(io.Writer) {}
func (h *helpPager) SetStderr(io.Writer) {}

// showHelpPager returns a command running the pager over content
func showHelpPager(content string) tea.Cmd {
	return tea.Exec(&helpPager{content: content}, func(err error) tea.Msg {
		return helpPagerMsg{err: err}
	})
}
