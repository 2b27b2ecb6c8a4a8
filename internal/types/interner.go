package types

import (
	"fmt"
	"strings"

	"fortio.org/safecast"
)

// Builtins stores TypeIDs for the primitive types and the null-pointer type.
type Builtins struct {
	Int     TypeID
	Float   TypeID
	Bool    TypeID
	String  TypeID
	Void    TypeID
	NullPtr TypeID // Pointer{void}, the type of nullptr
}

// Interner provides stable TypeIDs by hashing structural descriptors.
// Structural equality of the spec's type model collapses to TypeID equality.
type Interner struct {
	types    []Type
	elems    [][]TypeID // tuple element lists, parallel to types
	index    map[typeKey]TypeID
	builtins Builtins
}

type typeKey struct {
	Kind     Kind
	Prim     PrimKind
	Elem     TypeID
	Ref      SymbolRef
	Name     string
	TupleKey string
}

// NewInterner constructs an interner seeded with the built-in primitives.
func NewInterner() *Interner {
	in := &Interner{
		index: make(map[typeKey]TypeID, 64),
	}
	// index 0 reserved for NoTypeID
	in.types = append(in.types, Type{Kind: KindInvalid})
	in.elems = append(in.elems, nil)
	in.builtins.Int = in.Primitive(PrimInt)
	in.builtins.Float = in.Primitive(PrimFloat)
	in.builtins.Bool = in.Primitive(PrimBool)
	in.builtins.String = in.Primitive(PrimString)
	in.builtins.Void = in.Primitive(PrimVoid)
	in.builtins.NullPtr = in.Pointer(in.builtins.Void)
	return in
}

// Builtins returns TypeIDs for primitive types.
func (in *Interner) Builtins() Builtins {
	return in.builtins
}

func (in *Interner) intern(t Type, tupleElems []TypeID) TypeID {
	key := typeKey{Kind: t.Kind, Prim: t.Prim, Elem: t.Elem, Ref: t.Ref, Name: t.Name}
	if len(tupleElems) > 0 {
		var sb strings.Builder
		for _, e := range tupleElems {
			fmt.Fprintf(&sb, "%d,", e)
		}
		key.TupleKey = sb.String()
	}
	if id, ok := in.index[key]; ok {
		return id
	}
	lenTypes, err := safecast.Conv[uint32](len(in.types))
	if err != nil {
		panic(fmt.Errorf("len(types) overflow: %w", err))
	}
	id := TypeID(lenTypes)
	in.types = append(in.types, t)
	in.elems = append(in.elems, tupleElems)
	in.index[key] = id
	return id
}

// Primitive interns a primitive type.
func (in *Interner) Primitive(p PrimKind) TypeID {
	return in.intern(Type{Kind: KindPrimitive, Prim: p}, nil)
}

// Pointer interns a pointer to the given pointee.
func (in *Interner) Pointer(elem TypeID) TypeID {
	return in.intern(Type{Kind: KindPointer, Elem: elem}, nil)
}

// Array interns an array of the given element type.
func (in *Interner) Array(elem TypeID) TypeID {
	return in.intern(Type{Kind: KindArray, Elem: elem}, nil)
}

// Tuple interns an ordered element type sequence.
func (in *Interner) Tuple(elems []TypeID) TypeID {
	cpy := make([]TypeID, len(elems))
	copy(cpy, elems)
	return in.intern(Type{Kind: KindTuple}, cpy)
}

// User interns a user-defined type for the given type symbol.
func (in *Interner) User(ref SymbolRef, name string) TypeID {
	return in.intern(Type{Kind: KindUserDefined, Ref: ref, Name: name}, nil)
}

// Unresolved interns a named placeholder used during symbol collection.
func (in *Interner) Unresolved(name string) TypeID {
	return in.intern(Type{Kind: KindUnresolved, Name: name}, nil)
}

// Lookup returns the descriptor for a TypeID.
func (in *Interner) Lookup(id TypeID) (Type, bool) {
	if id == NoTypeID || int(id) >= len(in.types) {
		return Type{}, false
	}
	return in.types[id], true
}

// MustLookup panics when id is invalid.
func (in *Interner) MustLookup(id TypeID) Type {
	tt, ok := in.Lookup(id)
	if !ok {
		panic("types: invalid TypeID")
	}
	return tt
}

// TupleElems returns the element list of a tuple type.
func (in *Interner) TupleElems(id TypeID) []TypeID {
	if id == NoTypeID || int(id) >= len(in.elems) {
		return nil
	}
	return in.elems[id]
}
