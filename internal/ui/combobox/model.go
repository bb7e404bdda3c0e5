// Package combobox is the terminal rendition of a searchable single-select
// combobox. It wraps a core selection with a search input, a cursor over
// the visible rows and lazy loading through tea commands.
package combobox

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	core "select2/internal/combobox"
)

const (
	defaultPlaceholder = "Select..."
	defaultSearch      = "Search..."
	defaultLoading     = "Loading..."
	defaultEmpty       = "No element found"
	defaultError       = "Error"
	defaultMaxRows     = 8
)

// Config configures a Model. RenderSelected and RenderOption are required.
type Config[T any] struct {
	RenderSelected func(item T) string
	RenderOption   func(item T, selected bool) string

	Placeholder       string // trigger text without a selection
	SearchPlaceholder string
	LoadingText       string
	EmptyText         string
	ErrorText         string // prefix of the fetch error

	MaxRows int // visible rows in the open panel
	Width   int // 0 sizes to content

	KeyMap  *KeyMap
	Styles  *Styles
	Context context.Context // passed to lazy loads
}

// Model is a bubbletea component around a core selection
type Model[T any] struct {
	sel    *core.Selection[T]
	cfg    Config[T]
	keys   KeyMap
	styles *Styles
	ctx    context.Context

	input   textinput.Model
	spinner spinner.Model
	cursor  int // index into the visible rows
	offset  int // first visible row
}

// New creates a terminal combobox over sel. It panics when a required
// render callback is missing.
func New[T any](sel *core.Selection[T], cfg Config[T]) Model[T] {
	if sel == nil {
		panic("combobox: selection is required")
	}
	if cfg.RenderSelected == nil {
		panic("combobox: Config.RenderSelected is required")
	}
	if cfg.RenderOption == nil {
		panic("combobox: Config.RenderOption is required")
	}

	if cfg.Placeholder == "" {
		cfg.Placeholder = defaultPlaceholder
	}
	if cfg.SearchPlaceholder == "" {
		cfg.SearchPlaceholder = defaultSearch
	}
	if cfg.LoadingText == "" {
		cfg.LoadingText = defaultLoading
	}
	if cfg.EmptyText == "" {
		cfg.EmptyText = defaultEmpty
	}
	if cfg.ErrorText == "" {
		cfg.ErrorText = defaultError
	}
	if cfg.MaxRows <= 0 {
		cfg.MaxRows = defaultMaxRows
	}

	keys := DefaultKeyMap()
	if cfg.KeyMap != nil {
		keys = *cfg.KeyMap
	}
	styles := cfg.Styles
	if styles == nil {
		styles = NewStyles()
	}
	ctx := cfg.Context
	if ctx == nil {
		ctx = context.Background()
	}

	ti := textinput.New()
	ti.Placeholder = cfg.SearchPlaceholder
	ti.Prompt = "> "
	ti.Cursor.SetMode(cursor.CursorStatic)
	ti.SetValue(sel.Query())
	if cfg.Width > 0 {
		ti.Width = max(cfg.Width-len(ti.Prompt)-1, 1)
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.Loading

	return Model[T]{
		sel:     sel,
		cfg:     cfg,
		keys:    keys,
		styles:  styles,
		ctx:     ctx,
		input:   ti,
		spinner: sp,
	}
}

// Selection returns the underlying state
func (m Model[T]) Selection() *core.Selection[T] {
	return m.sel
}

// ID returns the component ID carried by fetch results
func (m Model[T]) ID() string {
	return m.sel.ID()
}

// IsOpen reports whether the panel is shown
func (m Model[T]) IsOpen() bool {
	return m.sel.IsOpen()
}

// KeyMap returns the active bindings, for help rendering
func (m Model[T]) KeyMap() KeyMap {
	return m.keys
}

// Cursor returns the index of the highlighted row
func (m Model[T]) Cursor() int {
	return m.cursor
}

// Init implements tea.Model
func (m Model[T]) Init() tea.Cmd {
	return nil
}

// Update handles key presses for this component and fetch results
// addressed to it
func (m Model[T]) Update(msg tea.Msg) (Model[T], tea.Cmd) {
	switch msg := msg.(type) {
	case FetchResultMsg[T]:
		if msg.ComponentID != m.sel.ID() {
			return m, nil
		}
		m.sel.Complete(msg.Token, msg.Items, msg.Err)
		m.clampCursor()
		return m, nil

	case spinner.TickMsg:
		if !m.sel.Loading() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model[T]) handleKey(msg tea.KeyMsg) (Model[T], tea.Cmd) {
	if !m.sel.IsOpen() {
		switch {
		case key.Matches(msg, m.keys.Toggle), key.Matches(msg, m.keys.Pick), key.Matches(msg, m.keys.Down):
			return m.open()
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Toggle), key.Matches(msg, m.keys.Close):
		return m.close(), nil
	case key.Matches(msg, m.keys.Pick):
		m.pickCursor()
		return m, nil
	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)
		return m, nil
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)
		return m, nil
	case key.Matches(msg, m.keys.Home):
		m.cursor = 0
		m.clampCursor()
		return m, nil
	case key.Matches(msg, m.keys.End):
		m.cursor = len(m.sel.Filtered()) - 1
		m.clampCursor()
		return m, nil
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() == before {
		return m, cmd
	}

	req := m.sel.SetQuery(m.input.Value())
	m.cursor = 0
	m.clampCursor()
	return m, tea.Batch(cmd, m.fetchCmd(req))
}

func (m Model[T]) open() (Model[T], tea.Cmd) {
	if m.sel.Open() != core.TransitionOpened {
		return m, nil
	}
	m.cursor = m.selectedIndex()
	m.offset = 0
	m.clampCursor()
	return m, m.input.Focus()
}

func (m Model[T]) close() Model[T] {
	if m.sel.Close() == core.TransitionClosed {
		m.input.Blur()
	}
	return m
}

// fetchCmd runs req off the update loop; nil req means nothing to load
func (m Model[T]) fetchCmd(req *core.Request) tea.Cmd {
	if req == nil {
		return nil
	}
	loader := m.sel.Loader()
	ctx := m.ctx
	id := m.sel.ID()
	fetch := func() tea.Msg {
		items, err := loader.Fetch(ctx, req)
		return FetchResultMsg[T]{ComponentID: id, Token: req.Token, Items: items, Err: err}
	}
	return tea.Batch(fetch, m.spinner.Tick)
}

func (m *Model[T]) pickCursor() {
	rows := m.sel.Filtered()
	if m.cursor < 0 || m.cursor >= len(rows) {
		return
	}
	m.sel.Pick(rows[m.cursor])
}

func (m *Model[T]) moveCursor(delta int) {
	n := len(m.sel.Filtered())
	if n == 0 {
		return
	}
	m.cursor = (m.cursor + delta + n) % n
	m.clampCursor()
}

// clampCursor keeps the cursor on a row and inside the scroll window
func (m *Model[T]) clampCursor() {
	n := len(m.sel.Filtered())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}

	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+m.cfg.MaxRows {
		m.offset = m.cursor - m.cfg.MaxRows + 1
	}
	if maxOffset := max(n-m.cfg.MaxRows, 0); m.offset > maxOffset {
		m.offset = maxOffset
	}
}

func (m Model[T]) selectedIndex() int {
	for i, item := range m.sel.Filtered() {
		if m.sel.IsSelected(item) {
			return i
		}
	}
	return 0
}

func (m Model[T]) renderer() core.Renderer[T, string] {
	return core.Renderer[T, string]{
		Selected: m.cfg.RenderSelected,
		Option:   m.cfg.RenderOption,
		Loading: func() string {
			return m.styles.Loading.Render(m.spinner.View() + " " + m.cfg.LoadingText)
		},
		Empty: func() string {
			return m.styles.Empty.Render(m.cfg.EmptyText)
		},
		Failed: func(err error) string {
			return m.styles.Error.Render(fmt.Sprintf("%s: %v", m.cfg.ErrorText, err))
		},
	}
}

// View renders the trigger and, when open, the panel below it
func (m Model[T]) View() string {
	r := m.renderer()

	label := core.RenderTrigger(m.sel, r, m.styles.Placeholder.Render(m.cfg.Placeholder))
	trigger := m.styles.Trigger
	arrow := "▾"
	if m.sel.IsOpen() {
		trigger = m.styles.TriggerOpen
		arrow = "▴"
	}
	if m.cfg.Width > 0 {
		trigger = trigger.Width(m.cfg.Width)
	}
	head := trigger.Render(label + " " + arrow)

	if !m.sel.IsOpen() {
		return head
	}

	display := m.sel.Display()
	views := core.RenderOptions(display, r)

	var b strings.Builder
	b.WriteString(m.input.View())
	b.WriteString("\n")

	if display.Mode != core.DisplayOptions {
		b.WriteString(strings.Join(views, "\n"))
	} else {
		end := min(m.offset+m.cfg.MaxRows, len(views))
		for i := m.offset; i < end; i++ {
			line := m.rowView(views[i], display.Rows[i].Selected, i == m.cursor)
			b.WriteString(line)
			if i < end-1 {
				b.WriteString("\n")
			}
		}
		if hidden := len(views) - end + m.offset; hidden > 0 {
			b.WriteString("\n")
			b.WriteString(m.styles.Scroll.Render(fmt.Sprintf("%d/%d", m.cursor+1, len(views))))
		}
	}

	panel := m.styles.Panel
	if m.cfg.Width > 0 {
		panel = panel.Width(m.cfg.Width)
	}
	return lipgloss.JoinVertical(lipgloss.Left, head, panel.Render(b.String()))
}

func (m Model[T]) rowView(text string, selected, current bool) string {
	pointer, mark := " ", " "
	style := m.styles.Option
	if selected {
		mark = "✓"
		style = m.styles.Selected
	}
	if current {
		pointer = "›"
		style = m.styles.Cursor
	}
	return style.Render(pointer + mark + " " + text)
}
