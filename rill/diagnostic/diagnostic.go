package diagnostic

import (
	"fmt"
	"strings"

	"github.com/rill-lang/rill/rill/errors"
)

type DiagnosticLevel uint8

const (
	DiagnosticLevelHint DiagnosticLevel = iota
	DiagnosticLevelInfo
	DiagnosticLevelWarning
	DiagnosticLevelError
)

func (self DiagnosticLevel) String() string {
	switch self {
	case DiagnosticLevelHint:
		return "Hint"
	case DiagnosticLevelInfo:
		return "Info"
	case DiagnosticLevelWarning:
		return "Warning"
	case DiagnosticLevelError:
		return "Error"
	default:
		panic("A new diagnostic level was added without updating this code")
	}
}

func (self DiagnosticLevel) ansiColor() uint8 {
	switch self {
	case DiagnosticLevelHint:
		return 35 // magenta
	case DiagnosticLevelInfo:
		return 34 // blue
	case DiagnosticLevelWarning:
		return 33 // yellow
	case DiagnosticLevelError:
		return 31 // red
	default:
		panic("A new diagnostic level was added without updating this code")
	}
}

func (self DiagnosticLevel) marker() string {
	if self == DiagnosticLevelError {
		return "^"
	}
	return "~"
}

//
// Diagnostic
//

type Diagnostic struct {
	Level   DiagnosticLevel `json:"level"`
	Message string          `json:"message"`
	Notes   []string        `json:"notes"`
	Span    errors.Span     `json:"span"`
	// Target is the dependency-tracking unit this diagnostic is attributed to:
	// the enclosing function's fully-qualified name, or the module name.
	Target string `json:"target"`
}

// Display renders the diagnostic with ANSI colors and a source excerpt.
// `program` must be the source text of the file the span points into.
func (self Diagnostic) Display(program string) string {
	var out strings.Builder

	color := self.Level.ansiColor()

	fmt.Fprintf(
		&out,
		"\x1b[1;%dm%s\x1b[39m at %s:%d:%d\x1b[0m",
		color,
		self.Level,
		self.Span.Filename,
		self.Span.Start.Line,
		self.Span.Start.Column,
	)
	if self.Target != "" {
		fmt.Fprintf(&out, " \x1b[90m(in %s)\x1b[0m", self.Target)
	}
	out.WriteString("\n")

	// a zero span means there is no useful source excerpt
	if self.Span.Start.Line != 0 || self.Span.Start.Column != 0 {
		self.writeExcerpt(&out, program, color)
	}

	fmt.Fprintf(&out, "\x1b[1;%dm%s\x1b[0m\n", color, self.Message)

	for _, note := range self.Notes {
		fmt.Fprintf(&out, "\x1b[1;36m - note:\x1b[0m %s\n", note)
	}

	return out.String()
}

// DisplayPlain renders the diagnostic without colors or a source excerpt,
// for non-terminal output.
func (self Diagnostic) DisplayPlain() string {
	var out strings.Builder

	fmt.Fprintf(
		&out,
		"%s at %s:%d:%d",
		self.Level,
		self.Span.Filename,
		self.Span.Start.Line,
		self.Span.Start.Column,
	)
	if self.Target != "" {
		fmt.Fprintf(&out, " (in %s)", self.Target)
	}
	fmt.Fprintf(&out, ": %s", self.Message)

	for _, note := range self.Notes {
		fmt.Fprintf(&out, "\n - note: %s", note)
	}

	return out.String()
}

func (self Diagnostic) writeExcerpt(out *strings.Builder, program string, color uint8) {
	lines := strings.Split(program, "\n")
	lineIdx := int(self.Span.Start.Line) - 1
	if lineIdx < 0 || lineIdx >= len(lines) {
		return
	}

	if lineIdx > 0 {
		fmt.Fprintf(out, " \x1b[90m%-3d | \x1b[0m%s\n", lineIdx, lines[lineIdx-1])
	}
	fmt.Fprintf(out, " \x1b[90m%-3d | \x1b[0m%s\n", lineIdx+1, lines[lineIdx])

	// marker line under the offending span (spans are inclusive)
	width := 1
	if self.Span.End.Line == self.Span.Start.Line && self.Span.End.Column > self.Span.Start.Column {
		width = int(self.Span.End.Column-self.Span.Start.Column) + 1
	}
	fmt.Fprintf(
		out,
		"%s\x1b[1;%dm%s\x1b[0m\n",
		strings.Repeat(" ", int(self.Span.Start.Column)+6),
		color,
		strings.Repeat(self.Level.marker(), width),
	)

	if lineIdx+1 < len(lines) {
		fmt.Fprintf(out, " \x1b[90m%-3d | \x1b[0m%s\n", lineIdx+2, lines[lineIdx+1])
	}
}
