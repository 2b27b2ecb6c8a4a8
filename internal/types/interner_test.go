package types

import (
	"testing"
)

func TestInternIdentity(t *testing.T) {
	in := NewInterner()
	a := in.Pointer(in.Primitive(PrimInt))
	b := in.Pointer(in.Primitive(PrimInt))
	if a != b {
		t.Fatalf("structurally equal pointers interned to %d and %d", a, b)
	}
	if a == in.Pointer(in.Primitive(PrimFloat)) {
		t.Fatal("distinct pointee types must not share a TypeID")
	}
}

func TestTupleInterning(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()
	x := in.Tuple([]TypeID{b.Int, b.String})
	y := in.Tuple([]TypeID{b.Int, b.String})
	z := in.Tuple([]TypeID{b.String, b.Int})
	if x != y {
		t.Fatalf("equal tuples interned separately: %d vs %d", x, y)
	}
	if x == z {
		t.Fatal("tuple element order must matter")
	}
	if got := in.String(x); got != "tuple<int, string>" {
		t.Fatalf("tuple printable form: %q", got)
	}
}

func TestPointerPrintableForms(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()
	cases := []struct {
		id   TypeID
		want string
	}{
		{in.Pointer(b.Int), "IntReference"},
		{in.Pointer(b.Float), "FloatReference"},
		{in.Pointer(b.Bool), "BoolReference"},
		{in.Pointer(b.String), "StringReference"},
		{in.Pointer(in.User(1, "Point")), "Point"},
		{in.Array(b.Int), "int[]"},
		{in.Unresolved("Wat"), "unresolved<Wat>"},
	}
	for _, tc := range cases {
		if got := in.String(tc.id); got != tc.want {
			t.Fatalf("String(%d) = %q, want %q", tc.id, got, tc.want)
		}
	}
}

func TestNumericPredicates(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()
	if !in.IsNumeric(b.Int) || !in.IsNumeric(b.Float) || !in.IsNumeric(b.Bool) {
		t.Fatal("int, float, and bool are numeric")
	}
	if in.IsNumeric(b.String) || in.IsNumeric(b.Void) {
		t.Fatal("string and void are not numeric")
	}
	if !in.IsInteger(b.Int) || in.IsInteger(b.Float) || in.IsInteger(b.Bool) {
		t.Fatal("only int is integer")
	}
}

func TestNullPtr(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()
	if !in.IsNullPtr(b.NullPtr) {
		t.Fatal("builtin nullptr type must be Pointer{void}")
	}
	if in.IsNullPtr(in.Pointer(b.Int)) {
		t.Fatal("int* is not the null pointer type")
	}
}
