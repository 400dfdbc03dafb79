package compiler

import "github.com/cwbudde/latc/internal/types"

// FuncData is a function-table row: a declared name's parameter types,
// optional return type, and whether it has been declared and/or
// defined yet. Forward reference is not allowed, so Declared and
// Defined always flip together at the point the `func` statement
// itself is parsed.
type FuncData struct {
	Name        string
	InputTypes  []types.Type
	OutputType  *types.Type
	Declared    bool
	Defined     bool
}

// FuncTable is the whole-program function namespace, separate from the
// scope stack's variable namespace: functions and variables never
// collide because they live in different tables.
type FuncTable struct {
	funcs map[string]*FuncData
}

// NewFuncTable returns an empty function table.
func NewFuncTable() *FuncTable {
	return &FuncTable{funcs: map[string]*FuncData{}}
}

// Lookup returns the named function's row, if any.
func (t *FuncTable) Lookup(name string) (*FuncData, bool) {
	fd, ok := t.funcs[name]
	return fd, ok
}

// Len reports how many functions have been declared.
func (t *FuncTable) Len() int { return len(t.funcs) }

// Declare registers fd, overwriting any previous row for the same name
// (the caller is responsible for rejecting redefinition first via
// Lookup).
func (t *FuncTable) Declare(fd *FuncData) {
	t.funcs[fd.Name] = fd
}

// MungeName strips underscores from a Lat/Tox function name to produce
// its EWVM label, so `read_file` becomes label `readfile`.
func MungeName(name string) string {
	out := make([]byte, 0, len(name))
	for i := 0; i < len(name); i++ {
		if name[i] != '_' {
			out = append(out, name[i])
		}
	}
	return string(out)
}
