package errors

import (
	"testing"

	"github.com/cwbudde/latc/internal/lexer"
	"github.com/stretchr/testify/require"
)

func TestCompilerError_Format(t *testing.T) {
	src := "x: integer = \"s\";\n"
	err := NewCompilerError(TypeMismatch, lexer.Position{Line: 1, Column: 14}, "cannot assign filum to integer", src, "t.lat")
	out := err.Format(false)
	require.Contains(t, out, "TypeMismatch")
	require.Contains(t, out, "t.lat:1:14")
	require.Contains(t, out, src[:len(src)-1])
	require.Contains(t, out, "^")
}

func TestCompilerError_Error(t *testing.T) {
	err := NewCompilerError(MissingMain, lexer.Position{Line: 0, Column: 0}, "no main function defined", "", "")
	require.Equal(t, err.Format(false), err.Error())
}

func TestFormatErrors_Multiple(t *testing.T) {
	a := NewCompilerError(LexError, lexer.Position{Line: 1, Column: 1}, "illegal character: @", "", "")
	b := NewCompilerError(LexError, lexer.Position{Line: 2, Column: 3}, "unterminated string literal", "", "")
	out := FormatErrors([]*CompilerError{a, b}, false)
	require.Contains(t, out, "2 error(s)")
	require.Contains(t, out, "[1/2]")
	require.Contains(t, out, "[2/2]")
}

func TestFormatErrors_Empty(t *testing.T) {
	require.Equal(t, "", FormatErrors(nil, false))
}

func TestKind_String(t *testing.T) {
	require.Equal(t, "TypeMismatch", TypeMismatch.String())
	require.Equal(t, "ArityMismatch", ArityMismatch.String())
}
