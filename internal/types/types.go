// Package types implements the Lat/Tox type system as an explicit
// discriminated union, rather than stringly-typed `"integer"`/
// `"&integer"` forms. The string form survives only in String().
package types

import "fmt"

// Prim is one of the three primitive kinds a pointer or vector may be
// built from; Primitive types also carry a Prim.
type Prim int

const (
	Integer Prim = iota
	Float
	Filum
)

func (p Prim) String() string {
	switch p {
	case Integer:
		return "integer"
	case Float:
		return "float"
	case Filum:
		return "filum"
	}
	return "?"
}

// shape discriminates the four Type variants.
type shape int

const (
	shapePrimitive shape = iota
	shapePointer
	shapeVector
	shapeNone
)

// Type is a value describing a Lat/Tox type: Primitive(Prim) |
// Pointer(Prim) | Vector(Prim, size) | None. None only ever appears as
// the sentinel popped from an empty type-check stack; it never unifies
// with anything, which is what makes popping-when-empty a clear,
// localized error instead of a nil panic.
type Type struct {
	shape shape
	prim  Prim
	size  int // Vector only; 0 for unsized/unknown
}

// None is the sentinel produced by popping an empty type-check stack.
var None = Type{shape: shapeNone}

// NewPrimitive builds a primitive type.
func NewPrimitive(p Prim) Type { return Type{shape: shapePrimitive, prim: p} }

// NewPointer builds a &T pointer-to-primitive type.
func NewPointer(p Prim) Type { return Type{shape: shapePointer, prim: p} }

// NewVector builds a vec<T> fixed-size vector-of-primitive type.
func NewVector(p Prim, size int) Type { return Type{shape: shapeVector, prim: p, size: size} }

var (
	IntegerType = NewPrimitive(Integer)
	FloatType   = NewPrimitive(Float)
	FilumType   = NewPrimitive(Filum)
)

func (t Type) IsNone() bool      { return t.shape == shapeNone }
func (t Type) IsPrimitive() bool { return t.shape == shapePrimitive }
func (t Type) IsPointer() bool   { return t.shape == shapePointer }
func (t Type) IsVector() bool    { return t.shape == shapeVector }

// Elem returns the primitive a Pointer or Vector is built from.
func (t Type) Elem() Prim { return t.prim }

// Prim returns the primitive of a Primitive type.
func (t Type) Prim() Prim { return t.prim }

// Size returns a Vector's element count (0 if not a Vector).
func (t Type) Size() int { return t.size }

// SizeInCells is the number of VM stack cells this type occupies when
// stored as a variable: 1 for primitives and pointers, Size() for
// vectors.
func (t Type) SizeInCells() int {
	if t.shape == shapeVector {
		return t.size
	}
	return 1
}

// Equal reports structural equality.
func (t Type) Equal(other Type) bool {
	if t.shape != other.shape {
		return false
	}
	switch t.shape {
	case shapeNone:
		return false // None never unifies with anything, including None.
	case shapePrimitive, shapePointer:
		return t.prim == other.prim
	case shapeVector:
		return t.prim == other.prim && t.size == other.size
	}
	return false
}

// DecaysTo reports whether t (expected to be a Vector) decays to the
// pointer type want when used to initialize/assign a &T.
func (t Type) DecaysTo(want Type) bool {
	return t.shape == shapeVector && want.shape == shapePointer && t.prim == want.prim
}

func (t Type) String() string {
	switch t.shape {
	case shapeNone:
		return "None"
	case shapePrimitive:
		return t.prim.String()
	case shapePointer:
		return "&" + t.prim.String()
	case shapeVector:
		if t.size > 0 {
			return fmt.Sprintf("vec<%s>[%d]", t.prim, t.size)
		}
		return fmt.Sprintf("vec<%s>", t.prim)
	}
	return "?"
}
