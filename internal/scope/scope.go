// Package scope implements the Lat/Tox lexical scope stack: nested
// symbol tables with frame/global offset allocation and scope
// entry/exit emission.
//
// Scopes form a linked spine, child to parent, implemented as a stack
// of owned scope records in an arena slice; a child holds its parent's
// integer index, not a pointer, so there is never a reference cycle to
// reason about.
package scope

import (
	"strconv"

	"github.com/cwbudde/latc/internal/types"
)

// Symbol is a declared name's metadata: its type, its cell range in
// the frame/global segment, and whether a pointer has been
// materialized yet.
type Symbol struct {
	Name        string
	Type        types.Type
	Lo, Hi      int
	Initialized bool
}

// NumCells is hi - lo + 1, the slots this symbol occupies.
func (s *Symbol) NumCells() int { return s.Hi - s.Lo + 1 }

// Scope is one lexical block: a name, its nesting level, its parent's
// arena index (-1 for the global scope), whether it lives inside a
// function body, and its local symbol table.
type Scope struct {
	Name      string
	Level     int
	ParentIdx int
	InFunction bool
	table     map[string]*Symbol
}

// NumCells sums the cell count of every symbol declared directly in
// this scope; End() uses it as the POP operand.
func (s *Scope) NumCells() int {
	n := 0
	for _, sym := range s.table {
		n += sym.NumCells()
	}
	return n
}

// Stack is the compiler's scope stack: an arena of every scope ever
// opened plus the index of the currently active one.
type Stack struct {
	arena       []*Scope
	currentIdx  int
	FrameCount  int
	GlobalCount int
}

// New creates a scope stack with only the global scope (level 0,
// no parent, not inside a function) open.
func New() *Stack {
	s := &Stack{}
	s.arena = append(s.arena, &Scope{Name: "global", Level: 0, ParentIdx: -1, table: map[string]*Symbol{}})
	s.currentIdx = 0
	return s
}

// Current returns the innermost open scope.
func (s *Stack) Current() *Scope {
	return s.arena[s.currentIdx]
}

// InFunction reports whether the innermost open scope is inside a
// function body.
func (s *Stack) InFunction() bool {
	return s.Current().InFunction
}

// Depth is the current scope stack depth (0 == only the global scope
// is open).
func (s *Stack) Depth() int {
	d := 0
	for idx := s.currentIdx; s.arena[idx].ParentIdx != -1; idx = s.arena[idx].ParentIdx {
		d++
	}
	return d
}

// Start pushes a new child scope onto the stack, inheriting
// in_function from the scope it nests inside unless overridden (a
// function body's own top scope sets inFunction explicitly true; every
// scope nested inside it inherits true automatically via Start).
func (s *Stack) Start(name string) *Scope {
	parent := s.Current()
	child := &Scope{
		Name:       name,
		Level:      parent.Level + 1,
		ParentIdx:  s.currentIdx,
		InFunction: parent.InFunction,
		table:      map[string]*Symbol{},
	}
	s.arena = append(s.arena, child)
	s.currentIdx = len(s.arena) - 1
	return child
}

// StartFunction pushes a new child scope marked as the top of a
// function body, regardless of the parent's in_function flag (there
// are no nested function declarations, so this always transitions
// Global -> InFunction).
func (s *Stack) StartFunction(name string) *Scope {
	parent := s.Current()
	child := &Scope{
		Name:       name,
		Level:      parent.Level + 1,
		ParentIdx:  s.currentIdx,
		InFunction: true,
		table:      map[string]*Symbol{},
	}
	s.arena = append(s.arena, child)
	s.currentIdx = len(s.arena) - 1
	return child
}

// End closes the innermost scope and returns the "POP n" fragment to
// emit (empty if n == 0), decrementing FrameCount (if the scope was
// inside a function) or GlobalCount (otherwise) by the cells it held.
func (s *Stack) End() string {
	cur := s.Current()
	n := cur.NumCells()
	if cur.InFunction {
		s.FrameCount -= n
	} else {
		s.GlobalCount -= n
	}
	s.currentIdx = cur.ParentIdx
	if n == 0 {
		return ""
	}
	return emitPop(n)
}

func emitPop(n int) string {
	return "POP " + strconv.Itoa(n) + "\n"
}

// Declare allocates size cells for a new symbol of type t in the
// current scope. It fails with ok=false if name already exists in the
// *current* scope only -- shadowing an outer declaration is allowed.
func (s *Stack) Declare(name string, t types.Type, size int) (*Symbol, bool) {
	cur := s.Current()
	if _, exists := cur.table[name]; exists {
		return nil, false
	}
	var lo int
	if cur.InFunction {
		lo = s.FrameCount
		s.FrameCount += size
	} else {
		lo = s.GlobalCount
		s.GlobalCount += size
	}
	sym := &Symbol{Name: name, Type: t, Lo: lo, Hi: lo + size - 1, Initialized: true}
	cur.table[name] = sym
	return sym, true
}

// Lookup walks from the innermost scope outward via ParentIdx,
// returning the symbol, whether its owning scope is inside a function,
// and the owning scope's name.
func (s *Stack) Lookup(name string) (sym *Symbol, inFunction bool, owner string, ok bool) {
	for idx := s.currentIdx; ; {
		sc := s.arena[idx]
		if found, present := sc.table[name]; present {
			return found, sc.InFunction, sc.Name, true
		}
		if sc.ParentIdx == -1 {
			return nil, false, "", false
		}
		idx = sc.ParentIdx
	}
}
