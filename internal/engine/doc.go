// Package engine maps CLI commands onto store operations.
//
// Each Command variant corresponds to one subcommand. Execute performs the
// single store call the command needs and returns an Outcome describing what
// to print and which exit status to use:
//
//	out := engine.New(s).Execute(engine.Set{Key: "API_KEY", Value: "abc", Env: "production"})
//	if !out.OK() {
//	    return out.Err
//	}
//
// Store errors are passed through unchanged so callers can classify them
// with store.KindOf. A validation with missing keys fails with a
// *MissingVariablesError.
package engine
