package ui

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	core "select2/internal/combobox"
	"select2/internal/config"
	"select2/internal/domain"
	"select2/internal/eventbus"
	uicombo "select2/internal/ui/combobox"
)

// readyMarker is printed on every frame when SELECT2_E2E_TEST=1
const readyMarker = "__READY__"

// Model represents the UI state
type Model struct {
	config    *config.Config
	configSvc config.ConfigService // nil disables saving on quit

	combo        uicombo.Model[domain.Person]
	help         help.Model
	keys         appKeyMap
	helpRenderer *HelpRenderer
	styles       *Styles

	width  int
	height int

	status    string
	statusErr bool
	e2e       bool
}

// NewModel creates the app model: a people picker over cfg.Options that
// falls back to fetch for names it does not know. fetch may be nil.
func NewModel(ctx context.Context, cfg *config.Config, configSvc config.ConfigService, bus eventbus.Publisher, fetch core.FetchFunc[domain.Person]) (*Model, error) {
	matcher, err := core.MatcherByName(cfg.UI.Matcher)
	if err != nil {
		return nil, fmt.Errorf("failed to build matcher: %w", err)
	}

	opts := core.Options[domain.Person]{
		Items:   cfg.Options,
		Fetch:   fetch,
		Matcher: matcher,
		Bus:     bus,
		// names identify people
		Equal: func(a, b domain.Person) bool { return a.Name == b.Name },
	}
	if p, ok := cfg.SelectedPerson(); ok {
		opts.Selected = &p
	}
	sel := core.New(opts)

	combo := uicombo.New(sel, uicombo.Config[domain.Person]{
		RenderSelected:    func(p domain.Person) string { return p.Name },
		RenderOption:      func(p domain.Person, _ bool) string { return p.Name },
		Placeholder:       cfg.UI.Placeholder,
		SearchPlaceholder: cfg.UI.SearchPlaceholder,
		LoadingText:       cfg.UI.LoadingText,
		EmptyText:         cfg.UI.EmptyText,
		ErrorText:         cfg.UI.ErrorText,
		MaxRows:           cfg.UI.MaxRows,
		Width:             cfg.UI.Width,
		Context:           ctx,
	})

	return &Model{
		config:       cfg,
		configSvc:    configSvc,
		combo:        combo,
		help:         help.New(),
		keys:         defaultAppKeyMap(),
		helpRenderer: NewHelpRenderer(),
		styles:       NewStyles(),
		e2e:          os.Getenv("SELECT2_E2E_TEST") == "1",
	}, nil
}

// Combobox returns the people picker
func (m *Model) Combobox() uicombo.Model[domain.Person] {
	return m.combo
}

// Status returns the status line text and whether it reports an error
func (m *Model) Status() (string, bool) {
	return m.status, m.statusErr
}

// Init returns an initial command
func (m *Model) Init() tea.Cmd {
	return m.combo.Init()
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case EventMsg:
		m.handleEvent(msg.Event)
		return m, nil

	case helpPagerMsg:
		if msg.err != nil {
			log.Printf("Help pager failed: %v", msg.err)
			m.setStatus(fmt.Sprintf("Help pager failed: %v", msg.err), true)
		}
		return m, nil

	case quitMsg:
		if msg.saveConfig {
			m.saveSelection()
		}
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.combo, cmd = m.combo.Update(msg)
	return m, cmd
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return m, quit(true)
	}

	// While the picker is open every other key belongs to it
	if !m.combo.IsOpen() {
		switch {
		case key.Matches(msg, m.keys.Back):
			return m, quit(true)
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(msg, m.keys.HelpPager):
			return m, showHelpPager(m.helpRenderer.RenderHelpContent(m.config.UI.Title, m.helpKeys()))
		}
	}

	var cmd tea.Cmd
	m.combo, cmd = m.combo.Update(msg)
	return m, cmd
}

func quit(save bool) tea.Cmd {
	return func() tea.Msg { return quitMsg{saveConfig: save} }
}

// handleEvent turns bus events for our picker into status line updates
func (m *Model) handleEvent(e eventbus.DomainEvent) {
	switch event := e.(type) {
	case eventbus.OptionPickedEvent:
		if event.ComponentID != m.combo.ID() {
			return
		}
		if p, ok := event.Item.(domain.Person); ok {
			m.setStatus("Selected "+p.Name, false)
		}
	case eventbus.FetchCompletedEvent:
		if event.ComponentID != m.combo.ID() {
			return
		}
		if event.Loaded > 0 {
			m.setStatus(fmt.Sprintf("Loaded %d from directory for %q", event.Loaded, event.Query), false)
		} else {
			m.setStatus(fmt.Sprintf("Nobody in the directory matches %q", event.Query), false)
		}
	case eventbus.FetchFailedEvent:
		if event.ComponentID != m.combo.ID() {
			return
		}
		m.setStatus(fmt.Sprintf("Lookup for %q failed: %v", event.Query, event.Err), true)
	}
}

func (m *Model) setStatus(s string, isErr bool) {
	m.status = s
	m.statusErr = isErr
}

// saveSelection persists the picked person when it differs from the config
func (m *Model) saveSelection() {
	if m.configSvc == nil {
		return
	}
	p, ok := m.combo.Selection().Selected()
	if !ok || p.Name == m.config.Selected {
		return
	}

	m.config.Selected = p.Name
	if err := m.configSvc.Save(m.config); err != nil {
		log.Printf("Failed to save config: %v", err)
		return
	}
	log.Printf("Saved selection %q to %s", p.Name, m.configSvc.Path())
}

func (m *Model) helpKeys() helpKeys {
	return helpKeys{combo: m.combo.KeyMap(), app: m.keys}
}

// View renders the UI
func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(m.styles.Title.Render(m.config.UI.Title))
	b.WriteString("\n")
	b.WriteString(m.combo.View())
	b.WriteString("\n")

	if m.status != "" {
		style := m.styles.StatusSuccess
		if m.statusErr {
			style = m.styles.StatusError
		}
		b.WriteString(style.Render(m.status))
	} else {
		b.WriteString(m.styles.Status.Render(m.describeSelection()))
	}
	b.WriteString("\n")

	b.WriteString(m.styles.Help.Render(m.help.View(m.helpKeys())))

	if m.e2e {
		b.WriteString("\n")
		b.WriteString(readyMarker)
	}

	return m.styles.Main.Render(b.String())
}

func (m *Model) describeSelection() string {
	p, ok := m.combo.Selection().Selected()
	if !ok {
		return "Nobody selected"
	}
	return "Current: " + p.Name
}
