package session

import (
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/muurk/envmatch/internal/config"
	"github.com/muurk/envmatch/internal/engine"
	"github.com/muurk/envmatch/internal/logging"
	"github.com/muurk/envmatch/internal/store"
)

type tickMsg time.Time

// Options configures a session
type Options struct {
	StatusTTL    time.Duration      // How long a status message stays visible
	TickInterval time.Duration      // Refresh and status expiry interval
	MaskValues   bool               // Hide values until toggled with v
	Clipboard    func(string) error // Copy target for the c key
	Now          func() time.Time
}

// DefaultOptions returns the options used without a preferences file
func DefaultOptions() Options {
	return OptionsFromPreferences(config.NewPreferences())
}

// OptionsFromPreferences maps user preferences onto session options
func OptionsFromPreferences(p *config.Preferences) Options {
	return Options{
		StatusTTL:    p.StatusTTL(),
		TickInterval: p.TickInterval(),
		MaskValues:   p.MaskValues,
		Clipboard:    clipboard.WriteAll,
		Now:          time.Now,
	}
}

type statusMessage struct {
	text    string
	isError bool
	expires time.Time
}

// Model is the interactive session. It reads a fresh snapshot from the store
// after every event and keeps the last good snapshot when a read fails.
type Model struct {
	store  *store.Store
	engine *engine.Engine
	opts   Options
	keys   keyMap
	help   help.Model

	state State
	focus State // List state restored when a modal closes

	// Last-known-good snapshot
	envs      []store.EnvironmentInfo
	current   string
	variables []store.Variable

	envCursor int
	varCursor int
	selectEnv string // Environment to select after the next reload
	selectKey string // Variable to select after the next reload

	// Modal state
	input         textinput.Model
	inputErr      string
	stage         addStage
	targetEnv     string // Environment an add or edit writes to
	pendingKey    string // Key entered in the first add stage, or the key being edited
	pendingDelete deleteTarget

	revealed bool
	status   statusMessage

	Width  int
	Height int
}

// New creates a session over s and loads the initial snapshot
func New(s *store.Store, opts Options) Model {
	defaults := DefaultOptions()
	if opts.StatusTTL <= 0 {
		opts.StatusTTL = defaults.StatusTTL
	}
	if opts.TickInterval <= 0 {
		opts.TickInterval = defaults.TickInterval
	}
	if opts.Clipboard == nil {
		opts.Clipboard = defaults.Clipboard
	}
	if opts.Now == nil {
		opts.Now = defaults.Now
	}

	keys := defaultKeyMap()
	keys.Reveal.SetEnabled(opts.MaskValues)

	input := textinput.New()
	input.CharLimit = 4096
	input.Width = 50

	m := Model{
		store:  s,
		engine: engine.New(s),
		opts:   opts,
		keys:   keys,
		help:   help.New(),
		state:  StateEnvironmentList,
		focus:  StateEnvironmentList,
		input:  input,
	}
	m.reload()
	return m
}

// State returns the active state
func (m Model) State() State {
	return m.state
}

// Focus returns the focused panel
func (m Model) Focus() State {
	return m.focus
}

// Init starts the refresh tick
func (m Model) Init() tea.Cmd {
	return m.tick()
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.opts.TickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tickMsg:
		m.expireStatus(time.Time(msg))
		m.reload()
		return m, m.tick()

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.ForceQuit) {
			return m, tea.Quit
		}

		prev := m.state
		next, cmd := m.handleKey(msg)
		if next.state != prev {
			logging.LogSessionTransition(prev.String(), next.state.String(), msg.String())
		}
		next.reload()
		return next, cmd
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch m.state {
	case StateHelp:
		return m.updateHelp(msg)
	case StateConfirmDelete:
		return m.updateConfirmDelete(msg)
	case StateInputAdd:
		return m.updateInputAdd(msg)
	case StateInputEdit:
		return m.updateInputEdit(msg)
	case StateInputEnvironment:
		return m.updateInputEnvironment(msg)
	default:
		return m.updateList(msg)
	}
}

// updateList handles input when one of the panels is focused
func (m Model) updateList(msg tea.KeyMsg) (Model, tea.Cmd) {
	envFocused := m.focus == StateEnvironmentList

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.state = StateHelp

	case key.Matches(msg, m.keys.Tab):
		if envFocused {
			m.focus = StateVariableList
		} else {
			m.focus = StateEnvironmentList
		}
		m.state = m.focus

	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)

	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)

	case key.Matches(msg, m.keys.Refresh):
		m.setStatus("Refreshed", false)

	case key.Matches(msg, m.keys.Add):
		return m.openAdd()

	case key.Matches(msg, m.keys.Delete):
		m.openDelete()

	case key.Matches(msg, m.keys.Enter):
		if envFocused {
			m.switchSelected()
			return m, nil
		}
		return m.openEdit()

	case key.Matches(msg, m.keys.Edit):
		if !envFocused {
			return m.openEdit()
		}

	case key.Matches(msg, m.keys.NewEnv):
		if envFocused {
			return m.openNewEnvironment()
		}

	case key.Matches(msg, m.keys.Copy):
		if !envFocused {
			m.copySelected()
		}

	case key.Matches(msg, m.keys.Reveal):
		m.revealed = !m.revealed
	}

	return m, nil
}

// updateHelp closes help on any key except quit
func (m Model) updateHelp(msg tea.KeyMsg) (Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}
	m.state = m.focus
	return m, nil
}

func (m Model) updateConfirmDelete(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		target := m.pendingDelete
		m.closeModal()
		if target.isEnvironment() {
			m.applyOutcome(m.engine.Execute(engine.DeleteEnv{Env: target.env}),
				fmt.Sprintf("Deleted environment '%s'", target.env))
		} else {
			m.applyOutcome(m.engine.Execute(engine.Unset{Key: target.key, Env: target.env}),
				fmt.Sprintf("Deleted %s from '%s'", target.key, target.env))
		}

	case key.Matches(msg, m.keys.Cancel):
		m.closeModal()

	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) updateInputAdd(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		m.closeModal()
		return m, nil

	case key.Matches(msg, m.keys.Submit):
		if m.stage == addStageKey {
			k := strings.TrimSpace(m.input.Value())
			if k == "" {
				m.inputErr = "Key cannot be empty"
				return m, nil
			}
			if err := store.ValidateKey(k); err != nil {
				m.inputErr = "Key cannot contain '=' or line breaks"
				return m, nil
			}
			m.pendingKey = k
			m.stage = addStageValue
			m.inputErr = ""
			m.input.Reset()
			m.input.Placeholder = "value (may be empty)"
			return m, nil
		}

		k, env := m.pendingKey, m.targetEnv
		out := m.engine.Execute(engine.Set{Key: k, Value: m.input.Value(), Env: env})
		m.closeModal()
		if out.OK() && env == m.current {
			m.selectKey = k
		}
		m.applyOutcome(out, fmt.Sprintf("Added %s to '%s'", k, env))
		return m, nil
	}

	return m.updateInput(msg)
}

func (m Model) updateInputEdit(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		m.closeModal()
		return m, nil

	case key.Matches(msg, m.keys.Submit):
		k, env := m.pendingKey, m.targetEnv
		out := m.engine.Execute(engine.Set{Key: k, Value: m.input.Value(), Env: env})
		m.closeModal()
		m.applyOutcome(out, fmt.Sprintf("Updated %s in '%s'", k, env))
		return m, nil
	}

	return m.updateInput(msg)
}

func (m Model) updateInputEnvironment(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		m.closeModal()
		return m, nil

	case key.Matches(msg, m.keys.Submit):
		name := strings.TrimSpace(m.input.Value())
		if name == "" {
			m.inputErr = "Environment name cannot be empty"
			return m, nil
		}
		if err := store.ValidateEnvironmentName(name); err != nil {
			m.inputErr = "Use letters, digits, '_' and '-' only"
			return m, nil
		}
		out := m.engine.Execute(engine.CreateEnv{Env: name})
		m.closeModal()
		if out.OK() {
			m.selectEnv = name
		}
		m.applyOutcome(out, fmt.Sprintf("Created environment '%s'", name))
		return m, nil
	}

	return m.updateInput(msg)
}

// updateInput forwards a key to the text input
func (m Model) updateInput(msg tea.KeyMsg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.inputErr = ""
	return m, cmd
}

func (m Model) openAdd() (Model, tea.Cmd) {
	m.targetEnv = m.current
	if m.focus == StateEnvironmentList {
		if env, ok := m.selectedEnvironment(); ok {
			m.targetEnv = env.Name
		}
	}
	m.stage = addStageKey
	m.pendingKey = ""
	m.state = StateInputAdd
	cmd := m.resetInput("KEY", "")
	return m, cmd
}

func (m Model) openEdit() (Model, tea.Cmd) {
	v, ok := m.selectedVariable()
	if !ok {
		return m, nil
	}
	m.targetEnv = m.current
	m.pendingKey = v.Key
	m.state = StateInputEdit
	cmd := m.resetInput("value", v.Value)
	return m, cmd
}

func (m Model) openNewEnvironment() (Model, tea.Cmd) {
	m.state = StateInputEnvironment
	cmd := m.resetInput("environment name", "")
	return m, cmd
}

func (m *Model) openDelete() {
	if m.focus == StateEnvironmentList {
		env, ok := m.selectedEnvironment()
		if !ok {
			return
		}
		m.pendingDelete = deleteTarget{env: env.Name}
	} else {
		v, ok := m.selectedVariable()
		if !ok {
			return
		}
		m.pendingDelete = deleteTarget{env: m.current, key: v.Key}
	}
	m.state = StateConfirmDelete
}

func (m *Model) resetInput(placeholder, value string) tea.Cmd {
	m.inputErr = ""
	m.input.Reset()
	m.input.Placeholder = placeholder
	if value != "" {
		m.input.SetValue(value)
		m.input.CursorEnd()
	}
	return m.input.Focus()
}

// closeModal returns to the panel that was focused before the modal opened
func (m *Model) closeModal() {
	m.state = m.focus
	m.input.Blur()
	m.inputErr = ""
}

func (m *Model) switchSelected() {
	env, ok := m.selectedEnvironment()
	if !ok {
		return
	}
	m.selectEnv = env.Name
	m.applyOutcome(m.engine.Execute(engine.Switch{Env: env.Name}),
		fmt.Sprintf("Switched to environment '%s'", env.Name))
}

func (m *Model) copySelected() {
	v, ok := m.selectedVariable()
	if !ok {
		return
	}
	if err := m.opts.Clipboard(v.Value); err != nil {
		m.setStatus(fmt.Sprintf("Clipboard unavailable: %v", err), true)
		return
	}
	m.setStatus(fmt.Sprintf("Copied value of %s to clipboard", v.Key), false)
}

// applyOutcome turns a command result into a status message
func (m *Model) applyOutcome(out engine.Outcome, successText string) {
	if !out.OK() {
		m.setStatus(out.Err.Error(), true)
		return
	}
	m.setStatus(successText, false)
}

func (m *Model) setStatus(text string, isError bool) {
	m.status = statusMessage{
		text:    text,
		isError: isError,
		expires: m.opts.Now().Add(m.opts.StatusTTL),
	}
}

func (m *Model) expireStatus(now time.Time) {
	if m.status.text != "" && !now.Before(m.status.expires) {
		m.status = statusMessage{}
	}
}

func (m *Model) moveCursor(delta int) {
	if m.focus == StateEnvironmentList {
		m.envCursor = clamp(m.envCursor+delta, len(m.envs))
	} else {
		m.varCursor = clamp(m.varCursor+delta, len(m.variables))
	}
}

func (m Model) selectedEnvironment() (store.EnvironmentInfo, bool) {
	if m.envCursor < 0 || m.envCursor >= len(m.envs) {
		return store.EnvironmentInfo{}, false
	}
	return m.envs[m.envCursor], true
}

func (m Model) selectedVariable() (store.Variable, bool) {
	if m.varCursor < 0 || m.varCursor >= len(m.variables) {
		return store.Variable{}, false
	}
	return m.variables[m.varCursor], true
}

// reload replaces the snapshot with a fresh store read. Selection follows the
// previously selected names; on failure the previous snapshot is kept.
func (m *Model) reload() {
	wantEnv := m.selectEnv
	if wantEnv == "" {
		if env, ok := m.selectedEnvironment(); ok {
			wantEnv = env.Name
		}
	}
	wantKey := m.selectKey
	if wantKey == "" {
		if v, ok := m.selectedVariable(); ok {
			wantKey = v.Key
		}
	}
	m.selectEnv, m.selectKey = "", ""

	envs, err := m.store.ListEnvironments()
	if err != nil {
		m.setStatus(err.Error(), true)
		return
	}
	current, vars, err := m.store.ListVariables("")
	if err != nil {
		m.setStatus(err.Error(), true)
		return
	}

	currentChanged := current != m.current
	m.envs = envs
	m.current = current
	m.variables = vars.Sorted()

	m.envCursor = clamp(indexOfEnvironment(m.envs, wantEnv, m.envCursor), len(m.envs))
	if currentChanged {
		m.varCursor = 0
	}
	m.varCursor = clamp(indexOfVariable(m.variables, wantKey, m.varCursor), len(m.variables))
}

func indexOfEnvironment(envs []store.EnvironmentInfo, name string, fallback int) int {
	for i, env := range envs {
		if env.Name == name {
			return i
		}
	}
	return fallback
}

func indexOfVariable(vars []store.Variable, key string, fallback int) int {
	for i, v := range vars {
		if v.Key == key {
			return i
		}
	}
	return fallback
}

// clamp bounds i to [0, n-1], or 0 for an empty list
func clamp(i, n int) int {
	if n == 0 || i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
