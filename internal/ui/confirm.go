package ui

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Confirm prints question and reads a yes/no answer from in. Anything other
// than "y" or "yes" (case-insensitive), including EOF, counts as no.
func Confirm(in io.Reader, out io.Writer, question string) bool {
	_, _ = fmt.Fprint(out, WarningTitleStyle.Render(WarningMarker+" "+question)+" [y/N]: ")

	reader := bufio.NewReader(in)
	input, err := reader.ReadString('\n')
	if err != nil && input == "" {
		_, _ = fmt.Fprintln(out)
		return false
	}

	switch strings.ToLower(strings.TrimSpace(input)) {
	case "y", "yes":
		return true
	}

	_, _ = fmt.Fprintln(out, HintStyle.Render("Operation cancelled."))
	return false
}
