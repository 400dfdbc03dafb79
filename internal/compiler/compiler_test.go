package compiler

import (
	"testing"

	"github.com/cwbudde/latc/internal/errors"
	"github.com/gkampitakis/go-snaps/snaps"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestHelloWorld covers the whole program prologue/epilogue around a
// single print statement, checked literally against its exact expected
// emission.
func TestHelloWorld(t *testing.T) {
	asm, err := Compile(`func main() { print("hi"); }`, "hello.lt")
	require.Nil(t, err)
	assert.Equal(t, "start\nPUSHA main\nCALL\nstop\nmain:\nPUSHS \"hi\"\nWRITES\nRETURN\n", asm)
}

// TestArithmetic checks operator precedence compiles to a postfix
// instruction sequence, snapshotted since it is longer than is
// comfortable to inline.
func TestArithmetic(t *testing.T) {
	asm, err := Compile(`func main() { x: integer = 2 + 3 * 4; print(x); }`, "arith.lt")
	require.Nil(t, err)
	snaps.MatchSnapshot(t, asm)
}

// TestLoopWithBreak covers while + if + break, exercising the loop and
// if label-chain machinery together.
func TestLoopWithBreak(t *testing.T) {
	asm, err := Compile(`func main() { i: integer = 0; while i < 5 { if i == 3 { break; } i = i + 1; } print(i); }`, "loop.lt")
	require.Nil(t, err)
	snaps.MatchSnapshot(t, asm)
}

// TestFunctionCall covers the call protocol's return-slot placeholder
// and argument cleanup, checked both literally for the fixed
// substrings and via snapshot for the whole output.
func TestFunctionCall(t *testing.T) {
	asm, err := Compile(`func add(a: integer, b: integer) -> integer { return a + b; } func main() { print(add(2,3)); }`, "call.lt")
	require.Nil(t, err)
	assert.Contains(t, asm, "PUSHI -69\n")
	assert.Contains(t, asm, "PUSHA add\n")
	assert.Contains(t, asm, "CALL\n")
	assert.Contains(t, asm, "POP 2\n")
	snaps.MatchSnapshot(t, asm)
}

// TestTypeError checks that assigning a filum literal to an
// integer-declared variable is a fatal TypeMismatch.
func TestTypeError(t *testing.T) {
	_, err := Compile(`func main() { x: integer = "s"; }`, "typeerr.lt")
	require.NotNil(t, err)
	assert.Equal(t, errors.TypeMismatch, err.Kind)
}

// TestRedefinition checks that a second definition of the same
// function name aborts compilation.
func TestRedefinition(t *testing.T) {
	_, err := Compile(`func f() {} func f() {}`, "redef.lt")
	require.NotNil(t, err)
	assert.Equal(t, errors.RedefinedFunction, err.Kind)
}

func TestMissingMain(t *testing.T) {
	_, err := Compile(`func f() {}`, "nomain.lt")
	require.NotNil(t, err)
	assert.Equal(t, errors.MissingMain, err.Kind)
}

func TestUndeclaredIdentifier(t *testing.T) {
	_, err := Compile(`func main() { print(y); }`, "undecl.lt")
	require.NotNil(t, err)
	assert.Equal(t, errors.UndeclaredIdentifier, err.Kind)
}

func TestArityMismatch(t *testing.T) {
	_, err := Compile(`func add(a: integer, b: integer) -> integer { return a + b; } func main() { print(add(2)); }`, "arity.lt")
	require.NotNil(t, err)
	assert.Equal(t, errors.ArityMismatch, err.Kind)
}

func TestBreakOutsideLoop(t *testing.T) {
	_, err := Compile(`func main() { break; }`, "break.lt")
	require.NotNil(t, err)
	assert.Equal(t, errors.IllegalBreakContinue, err.Kind)
}

func TestContinueInsideDoWhile(t *testing.T) {
	_, err := Compile(`func main() { do { continue; } while 1; }`, "continue.lt")
	require.NotNil(t, err)
	assert.Equal(t, errors.IllegalBreakContinue, err.Kind)
}

func TestVectorDeclarationAndIndexing(t *testing.T) {
	asm, err := Compile(`func main() { v: vec<integer>[3] = [10, 20, 30]; print(v[1]); }`, "vec.lt")
	require.Nil(t, err)
	snaps.MatchSnapshot(t, asm)
}

func TestVectorRangeInit(t *testing.T) {
	asm, err := Compile(`func main() { v: vec<integer> = [1...5]; print(v[0]); }`, "vecrange.lt")
	require.Nil(t, err)
	snaps.MatchSnapshot(t, asm)
}

func TestPointerDecayAndDeref(t *testing.T) {
	asm, err := Compile(`func main() { v: vec<integer>[2] = [1, 2]; p: &integer = v; print(p[0]); }`, "ptr.lt")
	require.Nil(t, err)
	snaps.MatchSnapshot(t, asm)
}

func TestMatchMandatoryDefault(t *testing.T) {
	_, err := Compile(`func main() { x: integer = 1; match x { 1 -> { print(1); } } }`, "matchnodefault.lt")
	require.NotNil(t, err)
	assert.Equal(t, errors.SyntaxError, err.Kind)
}

func TestMatchWithDefault(t *testing.T) {
	asm, err := Compile(`func main() { x: integer = 2; match x { 1 -> { print(1); } default -> { print(0); } } }`, "match.lt")
	require.Nil(t, err)
	snaps.MatchSnapshot(t, asm)
}

func TestCastExpression(t *testing.T) {
	asm, err := Compile(`func main() { x: float = (float) 3; print(x); }`, "cast.lt")
	require.Nil(t, err)
	snaps.MatchSnapshot(t, asm)
}

func TestCompileWithStats(t *testing.T) {
	asm, stats, err := CompileWithStats(`func add(a: integer, b: integer) -> integer { return a + b; } func main() { x: integer = 1; if x == 1 { print(add(1,2)); } }`, "stats.lt")
	require.Nil(t, err)
	assert.NotEmpty(t, asm)
	assert.Equal(t, 2, stats.Functions)
	assert.Equal(t, 0, stats.GlobalCells)
	assert.Equal(t, 1, stats.IfChains)
}

func TestForLoop(t *testing.T) {
	asm, err := Compile(`func main() { for (i: integer = 0; i < 3; i = i + 1) { print(i); } }`, "for.lt")
	require.Nil(t, err)
	snaps.MatchSnapshot(t, asm)
}
