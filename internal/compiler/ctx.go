// Package compiler is the grammar-directed single-pass Lat/Tox compiler:
// each parse function both validates semantics (consulting the scope
// stack and type-check stack) and returns the EWVM assembly fragment for
// the production it reduced. There is no separate AST pass -- parsing
// IS code generation.
package compiler

import (
	"github.com/cwbudde/latc/internal/scope"
)

// LoopKind names which looping construct a loopFrame belongs to, used to
// reject `continue` inside `do...while`.
type LoopKind int

const (
	LoopFor LoopKind = iota
	LoopWhile
	LoopDo
)

// loopFrame is one entry of the loop stack: its kind and the label id
// assigned when it was opened. break/continue always target the
// *innermost* loop's id, which is why this is carried per-frame rather
// than read off the monotonic counter directly.
type loopFrame struct {
	kind LoopKind
	id   int
}

// ifChain threads the rel_if_count that ties an if/else-if/else chain's
// arms to a single shared FINISHIF terminator label.
type ifChain struct {
	rel int
}

// ctx is the single mutable compile-session value threaded through every
// reduction, eliminating any cross-module global parser state. The
// parser holds the only reference to it.
type ctx struct {
	scopes *scope.Stack
	types  *TypeStack
	funcs  *FuncTable

	ifCount       int
	relIfCount    int
	loopCount     int
	matchCount    int
	relMatchCount int

	loopStack []loopFrame
	ifStack   []ifChain
	numArgs   []int

	arrayAssignItems int

	currentFunction *FuncData
}

func newCtx() *ctx {
	return &ctx{
		scopes: scope.New(),
		types:  &TypeStack{},
		funcs:  NewFuncTable(),
	}
}

func (c *ctx) pushLoop(kind LoopKind) loopFrame {
	c.loopCount++
	f := loopFrame{kind: kind, id: c.loopCount}
	c.loopStack = append(c.loopStack, f)
	return f
}

func (c *ctx) popLoop() {
	c.loopStack = c.loopStack[:len(c.loopStack)-1]
}

func (c *ctx) currentLoop() (loopFrame, bool) {
	if len(c.loopStack) == 0 {
		return loopFrame{}, false
	}
	return c.loopStack[len(c.loopStack)-1], true
}

func (c *ctx) pushIf() ifChain {
	c.relIfCount++
	chain := ifChain{rel: c.relIfCount}
	c.ifStack = append(c.ifStack, chain)
	return chain
}

func (c *ctx) popIf() {
	c.ifStack = c.ifStack[:len(c.ifStack)-1]
}

func (c *ctx) nextIfLabel() int {
	c.ifCount++
	return c.ifCount
}

func (c *ctx) nextMatchLabel() int {
	c.matchCount++
	return c.matchCount
}

func (c *ctx) nextMatchRel() int {
	c.relMatchCount++
	return c.relMatchCount
}

func (c *ctx) pushCallArgs() {
	c.numArgs = append(c.numArgs, 0)
}

func (c *ctx) countCallArg() {
	c.numArgs[len(c.numArgs)-1]++
}

func (c *ctx) popCallArgs() int {
	n := c.numArgs[len(c.numArgs)-1]
	c.numArgs = c.numArgs[:len(c.numArgs)-1]
	return n
}
