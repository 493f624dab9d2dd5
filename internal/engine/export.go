package engine

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/muurk/envmatch/internal/store"
)

// Format selects the export representation
type Format string

const (
	FormatDotenv Format = "dotenv"
	FormatShell  Format = "shell"
	FormatYAML   Format = "yaml"
)

// Formats lists the supported export formats
var Formats = []Format{FormatDotenv, FormatShell, FormatYAML}

// ParseFormat validates a format name. Empty selects dotenv.
func ParseFormat(s string) (Format, error) {
	if s == "" {
		return FormatDotenv, nil
	}
	for _, f := range Formats {
		if string(f) == strings.ToLower(s) {
			return f, nil
		}
	}
	return "", fmt.Errorf("unsupported export format %q (use dotenv, shell or yaml)", s)
}

func render(vars store.Variables, format Format) (string, error) {
	switch format {
	case FormatDotenv, "":
		return renderDotenv(vars), nil
	case FormatShell:
		return renderShell(vars), nil
	case FormatYAML:
		data, err := yaml.Marshal(map[string]string(vars))
		if err != nil {
			return "", fmt.Errorf("failed to encode yaml: %w", err)
		}
		if len(vars) == 0 {
			return "", nil
		}
		return string(data), nil
	default:
		return "", fmt.Errorf("unsupported export format %q (use dotenv, shell or yaml)", format)
	}
}

func renderDotenv(vars store.Variables) string {
	var b strings.Builder
	for _, v := range vars.Sorted() {
		b.WriteString(v.Key)
		b.WriteByte('=')
		b.WriteString(dotenvValue(v.Value))
		b.WriteByte('\n')
	}
	return b.String()
}

// dotenvValue double-quotes values that would not survive a dotenv parser
// unquoted.
func dotenvValue(value string) string {
	if value == "" || !strings.ContainsAny(value, " \t\r\n\"'`$#\\=") {
		return value
	}
	r := strings.NewReplacer(
		`\`, `\\`,
		`"`, `\"`,
		"$", `\$`,
		"`", "\\`",
		"\n", `\n`,
		"\r", `\r`,
	)
	return `"` + r.Replace(value) + `"`
}

func renderShell(vars store.Variables) string {
	var b strings.Builder
	for _, v := range vars.Sorted() {
		if !isShellIdentifier(v.Key) {
			fmt.Fprintf(&b, "# skipped %q: not a valid shell variable name\n", v.Key)
			continue
		}
		fmt.Fprintf(&b, "export %s=%s\n", v.Key, shellQuote(v.Value))
	}
	return b.String()
}

func shellQuote(value string) string {
	return "'" + strings.ReplaceAll(value, "'", `'\''`) + "'"
}

func isShellIdentifier(key string) bool {
	for i, r := range key {
		switch {
		case r == '_', r >= 'A' && r <= 'Z', r >= 'a' && r <= 'z':
		case r >= '0' && r <= '9' && i > 0:
		default:
			return false
		}
	}
	return key != ""
}
