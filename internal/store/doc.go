// Package store persists environments and their variables for one project.
//
// A project store lives in a .envmatch directory below the project root:
//
//	.envmatch/
//	  config.yaml               # current_environment: <name>
//	  environments/
//	    <name>.yaml             # variables: {KEY: VALUE}
//
// The Store is the only component that reads or writes these records. Each
// operation re-reads what it needs and writes at most one record, replacing it
// atomically, so a failed operation leaves the previous state intact.
//
// The environment named by config.yaml is always considered to exist, even
// without a record; it reads as an environment with no variables. The
// default environment "development" may be switched to at any time.
//
// Records are accessed through a Backend. FSBackend is used in production;
// MemoryBackend supports tests, including injected write failures.
//
// Every failure is returned as an *Error carrying a Kind:
//
//	if _, err := s.Get("production", "API_KEY"); store.IsKind(err, store.KindKeyNotFound) {
//	    ...
//	}
package store
