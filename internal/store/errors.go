package store

import (
	"errors"
	"fmt"
)

// Kind represents the category of a store failure
type Kind int

const (
	// KindUnknown is reported for errors that did not originate in the store
	KindUnknown Kind = iota
	// KindNotInitialized indicates no store exists in the project directory
	KindNotInitialized
	// KindAlreadyInitialized indicates init found a valid existing store
	KindAlreadyInitialized
	// KindCorruptStore indicates a record exists but cannot be decoded or is invalid
	KindCorruptStore
	// KindStorageError wraps an underlying I/O failure
	KindStorageError
	// KindEnvironmentNotFound indicates no record exists for the environment
	KindEnvironmentNotFound
	// KindKeyNotFound indicates the key is absent from the environment
	KindKeyNotFound
	// KindCannotDeleteCurrent indicates an attempt to delete the active environment
	KindCannotDeleteCurrent
	// KindInvalidEnvironmentName indicates an environment name with disallowed characters
	KindInvalidEnvironmentName
	// KindInvalidKey indicates an empty or malformed variable key
	KindInvalidKey
	// KindEnvironmentExists indicates explicit creation of an existing environment
	KindEnvironmentExists
)

// String returns a human-readable name for the error kind
func (k Kind) String() string {
	switch k {
	case KindNotInitialized:
		return "Not Initialized"
	case KindAlreadyInitialized:
		return "Already Initialized"
	case KindCorruptStore:
		return "Corrupt Store"
	case KindStorageError:
		return "Storage Error"
	case KindEnvironmentNotFound:
		return "Environment Not Found"
	case KindKeyNotFound:
		return "Key Not Found"
	case KindCannotDeleteCurrent:
		return "Cannot Delete Current"
	case KindInvalidEnvironmentName:
		return "Invalid Environment Name"
	case KindInvalidKey:
		return "Invalid Key"
	case KindEnvironmentExists:
		return "Environment Exists"
	case KindUnknown:
		return "Unknown Error"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// Error is returned by every failing Store operation
type Error struct {
	Kind Kind   // Category of error
	Env  string // Environment involved (if any)
	Key  string // Variable key involved (if any)
	Path string // Storage path involved (corrupt/storage errors)
	Err  error  // Underlying error (if any)
}

// Error implements the error interface
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.message())
}

func (e *Error) message() string {
	switch e.Kind {
	case KindNotInitialized:
		return "envmatch is not initialized in this directory (run 'envmatch init' first)"
	case KindAlreadyInitialized:
		return "envmatch is already initialized in this directory"
	case KindCorruptStore:
		if e.Err != nil {
			return fmt.Sprintf("record '%s' is malformed: %v", e.Path, e.Err)
		}
		return fmt.Sprintf("record '%s' is malformed", e.Path)
	case KindStorageError:
		return fmt.Sprintf("cannot access '%s': %v", e.Path, e.Err)
	case KindEnvironmentNotFound:
		return fmt.Sprintf("environment '%s' not found", e.Env)
	case KindKeyNotFound:
		return fmt.Sprintf("key '%s' not found in environment '%s'", e.Key, e.Env)
	case KindCannotDeleteCurrent:
		return fmt.Sprintf("environment '%s' is the current environment; switch away before deleting it", e.Env)
	case KindInvalidEnvironmentName:
		return fmt.Sprintf("invalid environment name '%s' (use letters, digits, '_' and '-')", e.Env)
	case KindInvalidKey:
		return fmt.Sprintf("invalid key '%s' (keys must be non-empty and cannot contain '=' or newlines)", e.Key)
	case KindEnvironmentExists:
		return fmt.Sprintf("environment '%s' already exists", e.Env)
	default:
		if e.Err != nil {
			return e.Err.Error()
		}
		return "unknown error"
	}
}

// Unwrap returns the underlying error for error chain inspection
func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the Kind of the first *Error in err's chain, or KindUnknown
func KindOf(err error) Kind {
	var storeErr *Error
	if errors.As(err, &storeErr) {
		return storeErr.Kind
	}
	return KindUnknown
}

// IsKind reports whether err carries the given Kind
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

func errNotInitialized() *Error {
	return &Error{Kind: KindNotInitialized}
}

func errAlreadyInitialized() *Error {
	return &Error{Kind: KindAlreadyInitialized}
}

func errCorrupt(path string, err error) *Error {
	return &Error{Kind: KindCorruptStore, Path: path, Err: err}
}

func errStorage(path string, err error) *Error {
	return &Error{Kind: KindStorageError, Path: path, Err: err}
}

func errEnvironmentNotFound(env string) *Error {
	return &Error{Kind: KindEnvironmentNotFound, Env: env}
}

func errKeyNotFound(env, key string) *Error {
	return &Error{Kind: KindKeyNotFound, Env: env, Key: key}
}

func errCannotDeleteCurrent(env string) *Error {
	return &Error{Kind: KindCannotDeleteCurrent, Env: env}
}

func errEnvironmentExists(env string) *Error {
	return &Error{Kind: KindEnvironmentExists, Env: env}
}
