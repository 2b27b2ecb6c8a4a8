package types

import "fmt"

// TypeID uniquely identifies a type inside the interner.
type TypeID uint32

// NoTypeID marks the absence of a type.
const NoTypeID TypeID = 0

// Kind enumerates all supported kinds of types.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindPrimitive
	KindUserDefined
	KindArray
	KindTuple
	KindPointer
	KindUnresolved
)

func (k Kind) String() string {
	switch k {
	case KindPrimitive:
		return "primitive"
	case KindUserDefined:
		return "user-defined"
	case KindArray:
		return "array"
	case KindTuple:
		return "tuple"
	case KindPointer:
		return "pointer"
	case KindUnresolved:
		return "unresolved"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// PrimKind enumerates the primitive value types.
type PrimKind uint8

const (
	PrimInt PrimKind = iota
	PrimFloat
	PrimBool
	PrimString
	PrimVoid
)

func (p PrimKind) String() string {
	switch p {
	case PrimInt:
		return "int"
	case PrimFloat:
		return "float"
	case PrimBool:
		return "bool"
	case PrimString:
		return "string"
	case PrimVoid:
		return "void"
	default:
		return "unknown"
	}
}

// IsNumeric reports whether the primitive participates in arithmetic.
func (p PrimKind) IsNumeric() bool {
	switch p {
	case PrimString, PrimVoid:
		return false
	default:
		return true
	}
}

// IsInteger reports whether the primitive is valid for bitwise operators.
func (p PrimKind) IsInteger() bool {
	return p == PrimInt
}

// BoxClass returns the synthesized wrapper class name used for a pointer to
// this primitive on the target VM.
func (p PrimKind) BoxClass() string {
	switch p {
	case PrimInt:
		return "IntReference"
	case PrimFloat:
		return "FloatReference"
	case PrimBool:
		return "BoolReference"
	case PrimString:
		return "StringReference"
	case PrimVoid:
		return "VoidReference"
	default:
		return "UnknownReference"
	}
}

// SymbolRef is an opaque reference to a type symbol in the symbol arena.
// Kept as a raw index to avoid an ownership cycle between packages.
type SymbolRef uint32

const NoSymbolRef SymbolRef = 0

// Type is a compact structural descriptor for any supported type.
type Type struct {
	Kind Kind
	Prim PrimKind  // for primitives
	Elem TypeID    // array element / pointer pointee
	Ref  SymbolRef // user-defined: owning type symbol
	Name string    // user-defined / unresolved: printable name
}
