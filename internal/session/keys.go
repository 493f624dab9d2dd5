package session

import "github.com/charmbracelet/bubbles/key"

// keyMap defines key bindings for the session
type keyMap struct {
	Up        key.Binding
	Down      key.Binding
	Tab       key.Binding
	Enter     key.Binding
	Add       key.Binding
	Edit      key.Binding
	Delete    key.Binding
	NewEnv    key.Binding
	Copy      key.Binding
	Refresh   key.Binding
	Reveal    key.Binding
	Help      key.Binding
	Quit      key.Binding
	ForceQuit key.Binding

	// Modal bindings
	Confirm key.Binding
	Cancel  key.Binding
	Submit  key.Binding
	Back    key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Tab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "switch panel"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "select"),
		),
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d", "delete"),
			key.WithHelp("d/del", "delete"),
		),
		NewEnv: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "new env"),
		),
		Copy: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "copy value"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r", "f5"),
			key.WithHelp("r/F5", "refresh"),
		),
		Reveal: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "show values"),
			key.WithDisabled(),
		),
		Help: key.NewBinding(
			key.WithKeys("h", "?", "f1"),
			key.WithHelp("h/?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		ForceQuit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("y", "Y", "enter"),
			key.WithHelp("y", "confirm"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("n", "N", "esc"),
			key.WithHelp("n/esc", "cancel"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "save"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
	}
}

// bindings is a help.KeyMap over a fixed list of bindings
type bindings struct {
	short []key.Binding
	full  [][]key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (b bindings) ShortHelp() []key.Binding {
	return b.short
}

// FullHelp returns keybindings for the expanded help view
func (b bindings) FullHelp() [][]key.Binding {
	if b.full == nil {
		return [][]key.Binding{b.short}
	}
	return b.full
}

// helpFor returns the bindings relevant in state s
func (k keyMap) helpFor(s State) bindings {
	switch s {
	case StateEnvironmentList:
		enter := k.Enter
		enter.SetHelp("enter", "switch")
		return bindings{short: []key.Binding{k.Up, k.Down, enter, k.Add, k.NewEnv, k.Delete, k.Tab, k.Help, k.Quit}}
	case StateVariableList:
		return bindings{short: []key.Binding{k.Up, k.Down, k.Add, k.Edit, k.Delete, k.Copy, k.Reveal, k.Tab, k.Help, k.Quit}}
	case StateConfirmDelete:
		return bindings{short: []key.Binding{k.Confirm, k.Cancel}}
	case StateInputAdd, StateInputEdit, StateInputEnvironment:
		return bindings{short: []key.Binding{k.Submit, k.Back, k.ForceQuit}}
	case StateHelp:
		closeHelp := key.NewBinding(key.WithKeys("esc"), key.WithHelp("any key", "close"))
		return bindings{short: []key.Binding{closeHelp, k.Quit}}
	}
	return bindings{}
}

// full returns every list-mode binding, grouped for the help screen
func (k keyMap) full() bindings {
	return bindings{full: [][]key.Binding{
		{k.Up, k.Down, k.Tab, k.Enter},
		{k.Add, k.Edit, k.Delete, k.NewEnv},
		{k.Copy, k.Reveal, k.Refresh},
		{k.Help, k.Quit, k.ForceQuit},
	}}
}
