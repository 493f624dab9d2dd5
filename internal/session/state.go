package session

// State is the active state of the interactive session. Exactly one state is
// active at a time; the two list states double as the panel focus.
type State int

const (
	StateEnvironmentList State = iota
	StateVariableList
	StateHelp
	StateConfirmDelete
	StateInputAdd
	StateInputEdit
	StateInputEnvironment
)

func (s State) String() string {
	switch s {
	case StateEnvironmentList:
		return "EnvironmentList"
	case StateVariableList:
		return "VariableList"
	case StateHelp:
		return "Help"
	case StateConfirmDelete:
		return "ConfirmDelete"
	case StateInputAdd:
		return "InputAdd"
	case StateInputEdit:
		return "InputEdit"
	case StateInputEnvironment:
		return "InputEnvironment"
	default:
		return "Unknown"
	}
}

// IsModal reports whether s overlays the panels
func (s State) IsModal() bool {
	return s != StateEnvironmentList && s != StateVariableList
}

// addStage is the step of the two-stage add dialog
type addStage int

const (
	addStageKey addStage = iota
	addStageValue
)

// deleteTarget identifies what a confirmed delete removes
type deleteTarget struct {
	env string
	key string // Empty when deleting the environment itself
}

func (d deleteTarget) isEnvironment() bool {
	return d.key == ""
}
