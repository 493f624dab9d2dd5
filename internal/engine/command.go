package engine

// Command is one resolved CLI request. The set of commands is closed: only
// the types in this file implement it.
type Command interface {
	commandName() string
}

// Init creates the store. An empty Environment selects the default.
type Init struct {
	Environment string
}

// Set upserts a variable. An empty Env targets the current environment.
type Set struct {
	Key   string
	Value string
	Env   string
}

// Get reads a variable
type Get struct {
	Key string
	Env string
}

// Unset removes a variable
type Unset struct {
	Key string
	Env string
}

// Switch changes the current environment
type Switch struct {
	Env string
}

// Current reports the current environment
type Current struct{}

// List shows the variables of an environment
type List struct {
	Env string
}

// Envs shows all known environments
type Envs struct{}

// Validate checks that Required keys are present. With no required keys it
// reports the variable count.
type Validate struct {
	Env      string
	Required []string
}

// CreateEnv creates an empty environment
type CreateEnv struct {
	Env string
}

// DeleteEnv removes a non-current environment
type DeleteEnv struct {
	Env string
}

// Export renders an environment in a loadable format
type Export struct {
	Env    string
	Format Format
}

func (Init) commandName() string      { return "init" }
func (Set) commandName() string       { return "set" }
func (Get) commandName() string       { return "get" }
func (Unset) commandName() string     { return "unset" }
func (Switch) commandName() string    { return "switch" }
func (Current) commandName() string   { return "current" }
func (List) commandName() string      { return "list" }
func (Envs) commandName() string      { return "envs" }
func (Validate) commandName() string  { return "validate" }
func (CreateEnv) commandName() string { return "create-env" }
func (DeleteEnv) commandName() string { return "delete-env" }
func (Export) commandName() string    { return "export" }
