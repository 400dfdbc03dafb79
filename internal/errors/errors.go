// Package errors formats Lat/Tox compiler diagnostics with source context,
// line/column information, and a caret pointing at the offending token.
package errors

import (
	"fmt"
	"strings"

	"github.com/cwbudde/latc/internal/lexer"
)

// Kind names the closed taxonomy of compiler diagnostics.
type Kind int

const (
	LexError Kind = iota
	SyntaxError
	UndeclaredIdentifier
	RedeclaredIdentifier
	RedefinedFunction
	TypeMismatch
	ArityMismatch
	IllegalIndexing
	IllegalBreakContinue
	MissingMain
	UninitializedPointer
	InternalAssertion
)

func (k Kind) String() string {
	switch k {
	case LexError:
		return "LexError"
	case SyntaxError:
		return "SyntaxError"
	case UndeclaredIdentifier:
		return "UndeclaredIdentifier"
	case RedeclaredIdentifier:
		return "RedeclaredIdentifier"
	case RedefinedFunction:
		return "RedefinedFunction"
	case TypeMismatch:
		return "TypeMismatch"
	case ArityMismatch:
		return "ArityMismatch"
	case IllegalIndexing:
		return "IllegalIndexing"
	case IllegalBreakContinue:
		return "IllegalBreakContinue"
	case MissingMain:
		return "MissingMain"
	case UninitializedPointer:
		return "UninitializedPointer"
	case InternalAssertion:
		return "InternalAssertion"
	}
	return "Unknown"
}

// CompilerError is a single fatal compilation diagnostic: every error
// is fatal, so the compiler reports the first one and aborts.
type CompilerError struct {
	Kind    Kind
	Message string
	Source  string
	File    string
	Pos     lexer.Position
}

// NewCompilerError builds a CompilerError at pos.
func NewCompilerError(kind Kind, pos lexer.Position, message, source, file string) *CompilerError {
	return &CompilerError{Kind: kind, Pos: pos, Message: message, Source: source, File: file}
}

// Error implements the error interface.
func (e *CompilerError) Error() string {
	return e.Format(false)
}

// Format renders the error with a source line and caret. If color is true,
// ANSI codes highlight the caret for terminal output; this is the only
// place color is produced.
func (e *CompilerError) Format(color bool) string {
	var sb strings.Builder

	if e.File != "" {
		fmt.Fprintf(&sb, "%s: %s in %s:%d:%d\n", e.Kind, e.Message, e.File, e.Pos.Line, e.Pos.Column)
	} else {
		fmt.Fprintf(&sb, "%s: %s at line %d:%d\n", e.Kind, e.Message, e.Pos.Line, e.Pos.Column)
	}

	line := e.sourceLine(e.Pos.Line)
	if line == "" {
		return strings.TrimRight(sb.String(), "\n")
	}

	lineNumStr := fmt.Sprintf("%4d | ", e.Pos.Line)
	sb.WriteString(lineNumStr)
	sb.WriteString(line)
	sb.WriteString("\n")

	sb.WriteString(strings.Repeat(" ", len(lineNumStr)+e.Pos.Column-1))
	if color {
		sb.WriteString("\033[1;31m")
	}
	sb.WriteString("^")
	if color {
		sb.WriteString("\033[0m")
	}

	return sb.String()
}

func (e *CompilerError) sourceLine(lineNum int) string {
	if e.Source == "" {
		return ""
	}
	lines := strings.Split(e.Source, "\n")
	if lineNum < 1 || lineNum > len(lines) {
		return ""
	}
	return lines[lineNum-1]
}

// FormatErrors joins multiple diagnostics, numbering them. The compiler
// itself only ever surfaces one (the single-error model), but the lexer
// may have accumulated more than one LexError by the time the parser
// gives up, and FormatErrors lets the CLI report all of them at once.
func FormatErrors(errs []*CompilerError, color bool) string {
	if len(errs) == 0 {
		return ""
	}
	if len(errs) == 1 {
		return errs[0].Format(color)
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "compilation failed with %d error(s):\n\n", len(errs))
	for i, err := range errs {
		fmt.Fprintf(&sb, "[%d/%d] ", i+1, len(errs))
		sb.WriteString(err.Format(color))
		if i < len(errs)-1 {
			sb.WriteString("\n\n")
		}
	}
	return sb.String()
}
