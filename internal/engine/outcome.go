package engine

import (
	"fmt"
	"strings"
)

// Kind tells whether a command succeeded
type Kind int

const (
	KindSuccess Kind = iota
	KindFailure
)

// Outcome is the result of executing one Command.
type Outcome struct {
	Command string
	Kind    Kind
	Title   string   // Headline, empty for commands that only produce Raw
	Lines   []string // Detail lines
	Raw     string   // Machine-readable payload printed verbatim (get, current, export)
	Hint    string   // Follow-up suggestion
	Err     error
}

// ExitCode returns the process exit status for the outcome
func (o Outcome) ExitCode() int {
	if o.Kind == KindFailure {
		return 1
	}
	return 0
}

// OK reports whether the command succeeded
func (o Outcome) OK() bool {
	return o.Kind == KindSuccess
}

func success(name, title string, lines ...string) Outcome {
	return Outcome{Command: name, Kind: KindSuccess, Title: title, Lines: lines}
}

func failure(name string, err error) Outcome {
	return Outcome{Command: name, Kind: KindFailure, Err: err}
}

// MissingVariablesError reports required keys absent from an environment
type MissingVariablesError struct {
	Env  string
	Keys []string
}

func (e *MissingVariablesError) Error() string {
	return fmt.Sprintf("Missing Required Variables: environment '%s' is missing %s",
		e.Env, strings.Join(e.Keys, ", "))
}
