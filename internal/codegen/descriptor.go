package codegen

import (
	"cgull/internal/types"
)

// jvmType renders the target's type descriptor: I, F, Z, V,
// java/lang/String, a bare class name for user types and wrappers, and a
// [ prefix per array dimension.
func jvmType(tys *types.Interner, id types.TypeID) string {
	tt, ok := tys.Lookup(id)
	if !ok {
		return "V"
	}
	switch tt.Kind {
	case types.KindPrimitive:
		switch tt.Prim {
		case types.PrimInt:
			return "I"
		case types.PrimFloat:
			return "F"
		case types.PrimBool:
			return "Z"
		case types.PrimVoid:
			return "V"
		case types.PrimString:
			return "java/lang/String"
		}
	case types.KindPointer:
		return tys.String(id)
	case types.KindArray:
		return "[" + jvmType(tys, tt.Elem)
	}
	return tys.String(id)
}

// loadPrefix selects the instruction family for loads/stores and returns:
// i for int and bool, f for float, a for references.
func loadPrefix(tys *types.Interner, id types.TypeID) string {
	tt, ok := tys.Lookup(id)
	if !ok {
		return "a"
	}
	if tt.Kind == types.KindPrimitive {
		switch tt.Prim {
		case types.PrimInt, types.PrimBool:
			return "i"
		case types.PrimFloat:
			return "f"
		}
	}
	return "a"
}

// primPrefix is loadPrefix for a bare primitive kind.
func primPrefix(p types.PrimKind) string {
	switch p {
	case types.PrimInt, types.PrimBool:
		return "i"
	case types.PrimFloat:
		return "f"
	default:
		return "a"
	}
}

// primDescriptor is the field descriptor of a primitive.
func primDescriptor(p types.PrimKind) string {
	switch p {
	case types.PrimInt:
		return "I"
	case types.PrimFloat:
		return "F"
	case types.PrimBool:
		return "Z"
	case types.PrimString:
		return "java/lang/String"
	default:
		return "V"
	}
}
