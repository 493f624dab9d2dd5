package store

import (
	"sort"
	"strings"
	"unicode"
)

// DefaultEnvironment is the environment a new store starts in. It is valid
// even before a record exists for it.
const DefaultEnvironment = "development"

// GlobalConfig is the per-project record naming the active environment.
type GlobalConfig struct {
	CurrentEnvironment string `yaml:"current_environment"`
}

// EnvironmentVariables is the record stored for one environment.
type EnvironmentVariables struct {
	Variables Variables `yaml:"variables"`
}

// Variables maps variable keys to values. Keys are case-sensitive.
type Variables map[string]string

// Keys returns the variable keys in sorted order
func (v Variables) Keys() []string {
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Sorted returns the variables as key/value pairs sorted by key
func (v Variables) Sorted() []Variable {
	vars := make([]Variable, 0, len(v))
	for _, k := range v.Keys() {
		vars = append(vars, Variable{Key: k, Value: v[k]})
	}
	return vars
}

// Variable is a single key/value pair
type Variable struct {
	Key   string
	Value string
}

// EnvironmentInfo describes one known environment.
type EnvironmentInfo struct {
	Name    string
	Current bool // Active environment
	Exists  bool // False only for a virtual current environment with no record yet
}

// ValidateEnvironmentName checks that name is non-empty and made of Unicode
// letters, digits, '_' and '-'.
func ValidateEnvironmentName(name string) error {
	if name == "" {
		return &Error{Kind: KindInvalidEnvironmentName, Env: name}
	}
	for _, r := range name {
		if !isNameRune(r) {
			return &Error{Kind: KindInvalidEnvironmentName, Env: name}
		}
	}
	return nil
}

func isNameRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '-'
}

// ValidateKey checks that key is usable as a variable name. Punctuation is
// allowed; '=' and line breaks are not, since they cannot round-trip through
// KEY=VALUE exports.
func ValidateKey(key string) error {
	if key == "" || strings.ContainsAny(key, "=\r\n") {
		return &Error{Kind: KindInvalidKey, Key: key}
	}
	return nil
}
