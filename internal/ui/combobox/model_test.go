package combobox

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	core "select2/internal/combobox"
	"select2/internal/domain"
)

func demoPeople() []domain.Person {
	return domain.People("Wade Cooper", "Arlene Mccoy", "Devon Webb", "Tom Cook", "Tanya Fox", "Hellen Schmidt")
}

func testConfig() Config[domain.Person] {
	return Config[domain.Person]{
		RenderSelected: func(p domain.Person) string { return p.Name },
		RenderOption:   func(p domain.Person, _ bool) string { return p.Name },
	}
}

func newTestModel(t *testing.T, fetch core.FetchFunc[domain.Person], cfg Config[domain.Person]) Model[domain.Person] {
	t.Helper()
	arlene := domain.Person{Name: "Arlene Mccoy"}
	sel := core.New(core.Options[domain.Person]{
		Items:    demoPeople(),
		Selected: &arlene,
		Fetch:    fetch,
	})
	return New(sel, cfg)
}

func keyMsg(t tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: t}
}

// typeText feeds s one rune at a time and returns the collected commands
func typeText(m Model[domain.Person], s string) (Model[domain.Person], []tea.Cmd) {
	var cmds []tea.Cmd
	for _, r := range s {
		var cmd tea.Cmd
		m, cmd = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return m, cmds
}

// fetchResults runs cmds and keeps the fetch results they produce
func fetchResults(cmds ...tea.Cmd) []FetchResultMsg[domain.Person] {
	var out []FetchResultMsg[domain.Person]
	for _, cmd := range cmds {
		if cmd == nil {
			continue
		}
		switch msg := cmd().(type) {
		case tea.BatchMsg:
			out = append(out, fetchResults(msg...)...)
		case FetchResultMsg[domain.Person]:
			out = append(out, msg)
		}
	}
	return out
}

func TestNewPanicsWithoutRenderCallbacks(t *testing.T) {
	sel := core.New(core.Options[domain.Person]{Items: demoPeople()})

	assert.PanicsWithValue(t, "combobox: Config.RenderOption is required", func() {
		New(sel, Config[domain.Person]{RenderSelected: func(p domain.Person) string { return p.Name }})
	})
	assert.PanicsWithValue(t, "combobox: Config.RenderSelected is required", func() {
		New(sel, Config[domain.Person]{RenderOption: func(p domain.Person, _ bool) string { return p.Name }})
	})
}

func TestClosedViewShowsSelection(t *testing.T) {
	m := newTestModel(t, nil, testConfig())

	view := m.View()
	assert.Contains(t, view, "Arlene Mccoy")
	assert.NotContains(t, view, "Devon Webb")
	assert.False(t, m.IsOpen())
}

func TestClosedViewShowsPlaceholderWithoutSelection(t *testing.T) {
	sel := core.New(core.Options[domain.Person]{})
	cfg := testConfig()
	cfg.Placeholder = "Pick someone"

	m := New(sel, cfg)
	assert.Contains(t, m.View(), "Pick someone")
}

func TestToggleOpensAndCloses(t *testing.T) {
	m := newTestModel(t, nil, testConfig())

	m, _ = m.Update(keyMsg(tea.KeyTab))
	require.True(t, m.IsOpen())
	assert.Equal(t, 1, m.Cursor(), "cursor starts on the selected person")

	view := m.View()
	for _, p := range demoPeople() {
		assert.Contains(t, view, p.Name)
	}

	m, _ = m.Update(keyMsg(tea.KeyTab))
	assert.False(t, m.IsOpen())

	m, _ = m.Update(keyMsg(tea.KeyEnter))
	require.True(t, m.IsOpen())
	m, _ = m.Update(keyMsg(tea.KeyEsc))
	assert.False(t, m.IsOpen())
}

func TestTypingFiltersAndEnterPicks(t *testing.T) {
	m := newTestModel(t, nil, testConfig())
	m, _ = m.Update(keyMsg(tea.KeyTab))

	m, cmds := typeText(m, "dev")
	assert.Empty(t, fetchResults(cmds...))
	assert.Equal(t, "dev", m.Selection().Query())
	assert.Equal(t, domain.People("Devon Webb"), m.Selection().Filtered())

	m, _ = m.Update(keyMsg(tea.KeyEnter))
	picked, ok := m.Selection().Selected()
	require.True(t, ok)
	assert.Equal(t, "Devon Webb", picked.Name)
	assert.True(t, m.IsOpen(), "picking keeps the panel open")
	assert.Equal(t, "dev", m.Selection().Query())
}

func TestCursorWraps(t *testing.T) {
	m := newTestModel(t, nil, testConfig())
	m, _ = m.Update(keyMsg(tea.KeyTab))
	require.Equal(t, 1, m.Cursor())

	m, _ = m.Update(keyMsg(tea.KeyUp))
	assert.Equal(t, 0, m.Cursor())
	m, _ = m.Update(keyMsg(tea.KeyUp))
	assert.Equal(t, 5, m.Cursor())
	m, _ = m.Update(keyMsg(tea.KeyDown))
	assert.Equal(t, 0, m.Cursor())
	m, _ = m.Update(keyMsg(tea.KeyCtrlN))
	assert.Equal(t, 1, m.Cursor())
}

func TestScrollWindow(t *testing.T) {
	cfg := testConfig()
	cfg.MaxRows = 2
	m := newTestModel(t, nil, cfg)
	m, _ = m.Update(keyMsg(tea.KeyTab))

	m, _ = m.Update(keyMsg(tea.KeyEnd))
	assert.Equal(t, 5, m.Cursor())

	view := m.View()
	assert.Contains(t, view, "Hellen Schmidt")
	assert.Contains(t, view, "Tanya Fox")
	assert.NotContains(t, view, "Wade Cooper")
	assert.Contains(t, view, "6/6")

	m, _ = m.Update(keyMsg(tea.KeyHome))
	assert.Equal(t, 0, m.Cursor())
	assert.Contains(t, m.View(), "Wade Cooper")
}

func TestLazyLoadMergesResult(t *testing.T) {
	var calls atomic.Int32
	fetch := func(_ context.Context, q string) ([]domain.Person, error) {
		calls.Add(1)
		return domain.People("Xasan Cilmi"), nil
	}
	m := newTestModel(t, fetch, testConfig())
	m, _ = m.Update(keyMsg(tea.KeyTab))

	// "x" still matches Tanya Fox, "xa" matches nobody, "xas" arrives
	// while the first load is pending
	m, cmds := typeText(m, "xas")
	assert.Contains(t, m.View(), "Loading...")

	results := fetchResults(cmds...)
	require.Len(t, results, 1)
	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, m.ID(), results[0].ComponentID)

	m, _ = m.Update(results[0])
	assert.Len(t, m.Selection().Options(), 7)
	assert.Equal(t, domain.People("Xasan Cilmi"), m.Selection().Filtered())
	assert.False(t, m.Selection().Loading())
	assert.Contains(t, m.View(), "Xasan Cilmi")
}

func TestFetchResultForOtherComponentIgnored(t *testing.T) {
	fetch := func(context.Context, string) ([]domain.Person, error) {
		return domain.People("Xasan Cilmi"), nil
	}
	m := newTestModel(t, fetch, testConfig())
	m, _ = m.Update(keyMsg(tea.KeyTab))
	m, cmds := typeText(m, "zzz")

	results := fetchResults(cmds...)
	require.Len(t, results, 1)

	stray := results[0]
	stray.ComponentID = "someone-else"
	m, _ = m.Update(stray)
	assert.True(t, m.Selection().Loading())
	assert.Len(t, m.Selection().Options(), 6)

	m, _ = m.Update(results[0])
	assert.False(t, m.Selection().Loading())
}

func TestFetchFailureShowsError(t *testing.T) {
	fetch := func(context.Context, string) ([]domain.Person, error) {
		return nil, errors.New("directory offline")
	}
	cfg := testConfig()
	cfg.ErrorText = "Could not load"
	m := newTestModel(t, fetch, cfg)
	m, _ = m.Update(keyMsg(tea.KeyTab))
	m, cmds := typeText(m, "zzz")

	results := fetchResults(cmds...)
	require.Len(t, results, 1)

	m, _ = m.Update(results[0])
	assert.Equal(t, core.FetchFailed, m.Selection().FetchStatus())
	assert.Contains(t, m.View(), "Could not load: directory offline")

	// the next qualifying query retries
	m, cmds = typeText(m, "z")
	assert.Len(t, fetchResults(cmds...), 1)
	assert.Equal(t, 2, m.Selection().Loader().Calls())
}

func TestEmptyResultShowsEmptyText(t *testing.T) {
	m := newTestModel(t, nil, testConfig())
	m, _ = m.Update(keyMsg(tea.KeyTab))
	m, cmds := typeText(m, "zzzz")

	assert.Empty(t, fetchResults(cmds...))
	assert.Contains(t, m.View(), "No element found")
}

func TestKeysIgnoredWhileClosed(t *testing.T) {
	m := newTestModel(t, nil, testConfig())

	m, cmds := typeText(m, "dev")
	assert.Empty(t, cmds)
	assert.Equal(t, "", m.Selection().Query())
	assert.False(t, m.IsOpen())
}

func TestKeyMapHelp(t *testing.T) {
	k := DefaultKeyMap()
	assert.Len(t, k.ShortHelp(), 4)
	assert.Len(t, k.FullHelp(), 2)
}
