package ui

import (
	"fmt"
	"io"
	"os"
)

// Printer writes styled command output to a writer.
type Printer struct {
	out   io.Writer
	width int
}

// NewPrinter creates a new Printer that writes to the given writer.
// If w is nil, os.Stdout is used.
func NewPrinter(w io.Writer) *Printer {
	if w == nil {
		w = os.Stdout
	}
	return &Printer{
		out:   w,
		width: GetTerminalWidth(),
	}
}

// Width returns the terminal width used by this printer
func (p *Printer) Width() int {
	return p.width
}

// Writer returns the underlying writer
func (p *Printer) Writer() io.Writer {
	return p.out
}

// Print writes content to the output
func (p *Printer) Print(content string) {
	_, _ = fmt.Fprint(p.out, content)
}

// Println writes content with a newline
func (p *Printer) Println(content string) {
	_, _ = fmt.Fprintln(p.out, content)
}

// PrintLines writes multiple lines
func (p *Printer) PrintLines(lines ...string) {
	for _, line := range lines {
		_, _ = fmt.Fprintln(p.out, line)
	}
}

// Newline prints an empty line
func (p *Printer) Newline() {
	_, _ = fmt.Fprintln(p.out)
}

// Heading prints a section heading
func (p *Printer) Heading(msg string) {
	p.Println(HeadingStyle.Render(msg))
}

// Success prints a single success line
func (p *Printer) Success(msg string) {
	p.Println(SuccessTitleStyle.Render(SuccessMarker + " " + msg))
}

// Warning prints a single warning line
func (p *Printer) Warning(msg string) {
	p.Println(WarningTitleStyle.Render(WarningMarker + " " + msg))
}

// Failure prints a single error line
func (p *Printer) Failure(msg string) {
	p.Println(ErrorTitleStyle.Render(FailureMarker + " " + msg))
}

// Hint prints a muted follow-up suggestion
func (p *Printer) Hint(msg string) {
	p.Println(HintStyle.Render(msg))
}

// PrintResult prints a result box
func (p *Printer) PrintResult(r *Result) {
	p.Println(r.SetWidth(p.width).Render())
}
