package session

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/muurk/envmatch/internal/logging"
	"github.com/muurk/envmatch/internal/store"
)

var t0 = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	backend *store.MemoryBackend
	store   *store.Store
	copied  []string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{backend: store.NewMemoryBackend()}
	f.store = store.New(f.backend)
	require.NoError(t, f.store.Init(""))
	require.NoError(t, f.store.Set("", "DATABASE_URL", "postgres://localhost"))
	require.NoError(t, f.store.Set("", "API_KEY", "dev-key"))
	require.NoError(t, f.store.Set("production", "API_KEY", "prod-key"))
	require.NoError(t, f.store.CreateEnvironment("staging"))
	return f
}

func (f *fixture) options() Options {
	return Options{
		StatusTTL:    3 * time.Second,
		TickInterval: time.Second,
		Clipboard: func(s string) error {
			f.copied = append(f.copied, s)
			return nil
		},
		Now: func() time.Time { return t0 },
	}
}

func (f *fixture) model() Model {
	return New(f.store, f.options())
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "delete":
		return tea.KeyMsg{Type: tea.KeyDelete}
	case "f1":
		return tea.KeyMsg{Type: tea.KeyF1}
	case "f5":
		return tea.KeyMsg{Type: tea.KeyF5}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

// press sends each key in turn and returns the final model and command
func press(t *testing.T, m Model, keys ...string) (Model, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, k := range keys {
		var next tea.Model
		next, cmd = m.Update(keyMsg(k))
		m = next.(Model)
	}
	return m, cmd
}

// typeText sends s one rune at a time
func typeText(t *testing.T, m Model, s string) Model {
	t.Helper()
	for _, r := range s {
		m, _ = press(t, m, string(r))
	}
	return m
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func envNames(rm RenderModel) []string {
	var names []string
	for _, row := range rm.Environments {
		names = append(names, row.Name)
	}
	return names
}

func selectedEnv(rm RenderModel) string {
	for _, row := range rm.Environments {
		if row.Selected {
			return row.Name
		}
	}
	return ""
}

func selectedKey(rm RenderModel) string {
	for _, row := range rm.Variables {
		if row.Selected {
			return row.Key
		}
	}
	return ""
}

func TestNew_LoadsSnapshot(t *testing.T) {
	f := newFixture(t)
	m := f.model()

	assert.Equal(t, StateEnvironmentList, m.State())
	assert.Equal(t, StateEnvironmentList, m.Focus())

	rm := m.RenderModel()
	assert.Equal(t, "development", rm.Current)
	assert.Equal(t, []string{"development", "production", "staging"}, envNames(rm))
	assert.True(t, rm.Environments[0].Current)
	assert.Equal(t, "development", selectedEnv(rm))

	require.Len(t, rm.Variables, 2)
	assert.Equal(t, "API_KEY", rm.Variables[0].Key)
	assert.Equal(t, "dev-key", rm.Variables[0].Value)
	assert.Equal(t, "DATABASE_URL", rm.Variables[1].Key)
	assert.Nil(t, rm.Modal)
}

func TestTabCyclesFocus(t *testing.T) {
	m := newFixture(t).model()

	m, _ = press(t, m, "tab")
	assert.Equal(t, StateVariableList, m.State())
	assert.Equal(t, StateVariableList, m.RenderModel().Focus)

	m, _ = press(t, m, "tab")
	assert.Equal(t, StateEnvironmentList, m.State())
}

func TestCursorClamps(t *testing.T) {
	m := newFixture(t).model()

	m, _ = press(t, m, "up", "k")
	assert.Equal(t, "development", selectedEnv(m.RenderModel()))

	m, _ = press(t, m, "down", "j", "down", "down")
	assert.Equal(t, "staging", selectedEnv(m.RenderModel()))

	m, _ = press(t, m, "tab", "down", "down", "down")
	assert.Equal(t, "DATABASE_URL", selectedKey(m.RenderModel()))
}

func TestSwitchWithEnter(t *testing.T) {
	f := newFixture(t)
	m := f.model()

	m, _ = press(t, m, "down", "enter")

	current, err := f.store.Current()
	require.NoError(t, err)
	assert.Equal(t, "production", current)

	rm := m.RenderModel()
	assert.Equal(t, StateEnvironmentList, rm.State)
	assert.Equal(t, "production", rm.Current)
	assert.Equal(t, "production", selectedEnv(rm), "selection follows the switched environment")
	assert.Equal(t, []string{"production", "development", "staging"}, envNames(rm))
	assert.Equal(t, "Switched to environment 'production'", rm.Status)
	assert.False(t, rm.StatusError)

	require.Len(t, rm.Variables, 1)
	assert.Equal(t, "prod-key", rm.Variables[0].Value)
}

func TestAddVariable(t *testing.T) {
	f := newFixture(t)
	m := f.model()

	m, _ = press(t, m, "tab", "a")
	require.Equal(t, StateInputAdd, m.State())
	rm := m.RenderModel()
	require.NotNil(t, rm.Modal)
	assert.Equal(t, "ADD VARIABLE TO 'development'", rm.Modal.Title)

	m = typeText(t, m, "NEW_KEY")
	m, _ = press(t, m, "enter")
	require.Equal(t, StateInputAdd, m.State())
	assert.Contains(t, m.RenderModel().Modal.Lines, "Key: NEW_KEY")

	m = typeText(t, m, "some value")
	m, _ = press(t, m, "enter")

	assert.Equal(t, StateVariableList, m.State())
	got, err := f.store.Get("", "NEW_KEY")
	require.NoError(t, err)
	assert.Equal(t, "some value", got)

	rm = m.RenderModel()
	assert.Equal(t, "NEW_KEY", selectedKey(rm))
	assert.Equal(t, "Added NEW_KEY to 'development'", rm.Status)
}

func TestAddVariable_EmptyValueAllowed(t *testing.T) {
	f := newFixture(t)
	m := f.model()

	m, _ = press(t, m, "tab", "a")
	m = typeText(t, m, "EMPTY")
	m, _ = press(t, m, "enter", "enter")

	got, err := f.store.Get("", "EMPTY")
	require.NoError(t, err)
	assert.Equal(t, "", got)
}

func TestAddVariable_EmptyKeyShowsInlineError(t *testing.T) {
	f := newFixture(t)
	m := f.model()

	m, _ = press(t, m, "a", "enter")
	require.Equal(t, StateInputAdd, m.State())
	assert.Equal(t, "Key cannot be empty", m.RenderModel().Modal.Error)

	m = typeText(t, m, "A=B")
	m, _ = press(t, m, "enter")
	require.Equal(t, StateInputAdd, m.State())
	assert.NotEmpty(t, m.RenderModel().Modal.Error)

	m, _ = press(t, m, "esc")
	assert.Equal(t, StateEnvironmentList, m.State())

	_, vars, err := f.store.ListVariables("")
	require.NoError(t, err)
	assert.Len(t, vars, 2)
}

func TestAddVariable_TargetsSelectedEnvironment(t *testing.T) {
	f := newFixture(t)
	m := f.model()

	m, _ = press(t, m, "down", "down", "a")
	assert.Equal(t, "ADD VARIABLE TO 'staging'", m.RenderModel().Modal.Title)

	m = typeText(t, m, "REGION")
	m, _ = press(t, m, "enter")
	m = typeText(t, m, "eu-west-1")
	m, _ = press(t, m, "enter")

	got, err := f.store.Get("staging", "REGION")
	require.NoError(t, err)
	assert.Equal(t, "eu-west-1", got)
	assert.Equal(t, StateEnvironmentList, m.State())
}

func TestEditVariable(t *testing.T) {
	f := newFixture(t)
	m := f.model()

	m, _ = press(t, m, "tab", "e")
	require.Equal(t, StateInputEdit, m.State())
	assert.Equal(t, "EDIT API_KEY IN 'development'", m.RenderModel().Modal.Title)

	m = typeText(t, m, "-2")
	m, _ = press(t, m, "enter")

	got, err := f.store.Get("", "API_KEY")
	require.NoError(t, err)
	assert.Equal(t, "dev-key-2", got)
	assert.Equal(t, StateVariableList, m.State())
	assert.Equal(t, "Updated API_KEY in 'development'", m.RenderModel().Status)
}

func TestEditVariable_EnterOpensEditor(t *testing.T) {
	m := newFixture(t).model()

	m, _ = press(t, m, "tab", "enter")
	assert.Equal(t, StateInputEdit, m.State())

	m, _ = press(t, m, "esc")
	assert.Equal(t, StateVariableList, m.State())
}

func TestDeleteVariable(t *testing.T) {
	t.Run("confirm", func(t *testing.T) {
		f := newFixture(t)
		m := f.model()

		m, _ = press(t, m, "tab", "d")
		require.Equal(t, StateConfirmDelete, m.State())
		assert.Contains(t, m.RenderModel().Modal.Lines, "Delete API_KEY from environment 'development'?")

		m, _ = press(t, m, "y")
		assert.Equal(t, StateVariableList, m.State())
		_, err := f.store.Get("", "API_KEY")
		assert.True(t, store.IsKind(err, store.KindKeyNotFound), "%v", err)
		assert.Equal(t, "DATABASE_URL", selectedKey(m.RenderModel()))
	})

	t.Run("cancel leaves variables unchanged", func(t *testing.T) {
		f := newFixture(t)
		m := f.model()

		m, _ = press(t, m, "tab", "d", "n")
		assert.Equal(t, StateVariableList, m.State())

		got, err := f.store.Get("", "API_KEY")
		require.NoError(t, err)
		assert.Equal(t, "dev-key", got)
	})

	t.Run("delete key and escape", func(t *testing.T) {
		f := newFixture(t)
		m := f.model()

		m, _ = press(t, m, "tab", "delete", "esc")
		assert.Equal(t, StateVariableList, m.State())
		_, err := f.store.Get("", "API_KEY")
		assert.NoError(t, err)
	})

	t.Run("other keys are ignored while confirming", func(t *testing.T) {
		m := newFixture(t).model()

		m, _ = press(t, m, "tab", "d", "x", "tab")
		assert.Equal(t, StateConfirmDelete, m.State())
	})
}

func TestDeleteEnvironment(t *testing.T) {
	t.Run("other environment", func(t *testing.T) {
		f := newFixture(t)
		m := f.model()

		m, _ = press(t, m, "down", "down", "d")
		assert.Contains(t, m.RenderModel().Modal.Lines, "Delete environment 'staging' and all of its variables?")

		m, _ = press(t, m, "enter")
		assert.Equal(t, StateEnvironmentList, m.State())
		rm := m.RenderModel()
		assert.Equal(t, []string{"development", "production"}, envNames(rm))
		assert.Equal(t, "production", selectedEnv(rm))
		assert.Equal(t, "Deleted environment 'staging'", rm.Status)
	})

	t.Run("current environment is refused", func(t *testing.T) {
		f := newFixture(t)
		m := f.model()

		m, _ = press(t, m, "d", "y")
		assert.Equal(t, StateEnvironmentList, m.State())

		rm := m.RenderModel()
		assert.True(t, rm.StatusError)
		assert.Contains(t, rm.Status, "Cannot Delete Current")
		assert.Contains(t, envNames(rm), "development")
	})
}

func TestNewEnvironment(t *testing.T) {
	f := newFixture(t)
	m := f.model()

	m, _ = press(t, m, "n", "enter")
	require.Equal(t, StateInputEnvironment, m.State())
	assert.Equal(t, "Environment name cannot be empty", m.RenderModel().Modal.Error)

	m = typeText(t, m, "bad name")
	m, _ = press(t, m, "enter")
	require.Equal(t, StateInputEnvironment, m.State())
	assert.NotEmpty(t, m.RenderModel().Modal.Error)

	m, _ = press(t, m, "esc", "n")
	m = typeText(t, m, "qa")
	m, _ = press(t, m, "enter")

	assert.Equal(t, StateEnvironmentList, m.State())
	rm := m.RenderModel()
	assert.Equal(t, "qa", selectedEnv(rm))
	assert.Equal(t, "Created environment 'qa'", rm.Status)

	m, _ = press(t, m, "n")
	m = typeText(t, m, "qa")
	m, _ = press(t, m, "enter")
	assert.True(t, m.RenderModel().StatusError)
	assert.Contains(t, m.RenderModel().Status, "Environment Exists")
}

func TestHelp(t *testing.T) {
	m := newFixture(t).model()

	for _, k := range []string{"?", "h", "f1"} {
		m, _ = press(t, m, k)
		require.Equal(t, StateHelp, m.State(), "key %q", k)
		rm := m.RenderModel()
		require.NotNil(t, rm.Modal)
		assert.Equal(t, "ENVMATCH HELP", rm.Modal.Title)

		m, _ = press(t, m, "x")
		assert.Equal(t, StateEnvironmentList, m.State())
	}

	m, _ = press(t, m, "tab", "?", "a")
	assert.Equal(t, StateVariableList, m.State(), "help closes without acting on the key")

	m, cmd := press(t, m, "?", "q")
	assert.True(t, isQuit(cmd))
}

func TestQuit(t *testing.T) {
	m := newFixture(t).model()

	_, cmd := press(t, m, "q")
	assert.True(t, isQuit(cmd))

	_, cmd = press(t, m, "tab", "d", "q")
	assert.True(t, isQuit(cmd))

	_, cmd = press(t, m, "a", "ctrl+c")
	assert.True(t, isQuit(cmd))
}

func TestQuitKeyIsLiteralInInput(t *testing.T) {
	f := newFixture(t)
	m := f.model()

	m, _ = press(t, m, "tab", "a")
	m = typeText(t, m, "QUEUE")
	m, _ = press(t, m, "enter")
	m = typeText(t, m, "q")
	require.Equal(t, StateInputAdd, m.State())
	m, _ = press(t, m, "enter")

	got, err := f.store.Get("", "QUEUE")
	require.NoError(t, err)
	assert.Equal(t, "q", got)
}

func TestStatusExpires(t *testing.T) {
	m := newFixture(t).model()

	m, _ = press(t, m, "r")
	require.Equal(t, "Refreshed", m.RenderModel().Status)

	next, cmd := m.Update(tickMsg(t0.Add(time.Second)))
	m = next.(Model)
	assert.NotNil(t, cmd)
	assert.Equal(t, "Refreshed", m.RenderModel().Status)

	next, _ = m.Update(tickMsg(t0.Add(3 * time.Second)))
	m = next.(Model)
	assert.Empty(t, m.RenderModel().Status)
}

func TestTickPicksUpExternalChanges(t *testing.T) {
	f := newFixture(t)
	m := f.model()

	require.NoError(t, f.store.Set("", "ADDED_ELSEWHERE", "1"))
	require.NoError(t, f.store.CreateEnvironment("qa"))

	next, _ := m.Update(tickMsg(t0))
	rm := next.(Model).RenderModel()
	assert.Len(t, rm.Variables, 3)
	assert.Contains(t, envNames(rm), "qa")
}

func TestStoreErrorKeepsSnapshot(t *testing.T) {
	f := newFixture(t)
	m := f.model()

	require.NoError(t, f.backend.Write("environments/development.yaml", []byte("variables: [unclosed")))

	next, _ := m.Update(tickMsg(t0))
	rm := next.(Model).RenderModel()
	assert.True(t, rm.StatusError)
	assert.Contains(t, rm.Status, "Corrupt Store")
	assert.Len(t, rm.Variables, 2, "last good snapshot stays visible")
}

func TestFailedWriteShowsError(t *testing.T) {
	f := newFixture(t)
	m := f.model()
	f.backend.FailWrite = func(string) error { return errors.New("disk full") }

	m, _ = press(t, m, "tab", "d", "y")

	rm := m.RenderModel()
	assert.True(t, rm.StatusError)
	assert.Contains(t, rm.Status, "disk full")
	assert.Len(t, rm.Variables, 2)
}

func TestCopyValue(t *testing.T) {
	f := newFixture(t)
	m := f.model()

	m, _ = press(t, m, "c")
	assert.Empty(t, f.copied, "copy only applies to the variables panel")

	m, _ = press(t, m, "tab", "c")
	assert.Equal(t, []string{"dev-key"}, f.copied)
	assert.Equal(t, "Copied value of API_KEY to clipboard", m.RenderModel().Status)

	opts := f.options()
	opts.Clipboard = func(string) error { return errors.New("no clipboard") }
	m = New(f.store, opts)
	m, _ = press(t, m, "tab", "c")
	assert.True(t, m.RenderModel().StatusError)
}

func TestMaskValues(t *testing.T) {
	f := newFixture(t)

	m := f.model()
	m, _ = press(t, m, "v")
	assert.Equal(t, "dev-key", m.RenderModel().Variables[0].Value, "reveal is disabled without masking")

	opts := f.options()
	opts.MaskValues = true
	m = New(f.store, opts)
	assert.Equal(t, maskGlyph, m.RenderModel().Variables[0].Value)

	m, _ = press(t, m, "v")
	assert.Equal(t, "dev-key", m.RenderModel().Variables[0].Value)
}

func TestMultilineValuesRenderOnOneLine(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.store.Set("", "CERT", "line1\nline2"))

	rm := f.model().RenderModel()
	require.Len(t, rm.Variables, 3)
	assert.Equal(t, "CERT", rm.Variables[1].Key)
	assert.Equal(t, `line1\nline2`, rm.Variables[1].Value)
}

func TestView(t *testing.T) {
	m := newFixture(t).model()
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	m = next.(Model)

	view := m.View()
	assert.Contains(t, view, "ENVMATCH")
	assert.Contains(t, view, "Environments")
	assert.Contains(t, view, "development")
	assert.Contains(t, view, "API_KEY=dev-key")

	m, _ = press(t, m, "?")
	assert.Contains(t, m.View(), "ENVMATCH HELP")
}

func TestTransitionsAreLogged(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logging.SetLogger(zap.New(core))
	t.Cleanup(func() { logging.SetLogger(nil) })

	m := newFixture(t).model()
	press(t, m, "tab", "?")

	entries := logs.FilterMessage("Session state changed").All()
	require.Len(t, entries, 2)
	fields := entries[1].ContextMap()
	assert.Equal(t, "VariableList", fields["from"])
	assert.Equal(t, "Help", fields["to"])
}

func TestRenderTruncatesLongRows(t *testing.T) {
	rm := RenderModel{
		Current:  "development",
		Location: "memory",
		Variables: []VariableRow{
			{Key: "LONG", Value: strings.Repeat("x", 500), Selected: true},
		},
	}
	view := Render(rm, 80, 20)
	assert.NotContains(t, view, strings.Repeat("x", 100))
	assert.Contains(t, view, "…")
}
