package types

// Kind returns the kind for a TypeID, KindInvalid when unknown.
func (in *Interner) Kind(id TypeID) Kind {
	t, ok := in.Lookup(id)
	if !ok {
		return KindInvalid
	}
	return t.Kind
}

// IsPrimitive reports whether id names a primitive of the given kind.
func (in *Interner) IsPrimitive(id TypeID, p PrimKind) bool {
	t, ok := in.Lookup(id)
	return ok && t.Kind == KindPrimitive && t.Prim == p
}

// IsVoid reports whether id is the void sentinel.
func (in *Interner) IsVoid(id TypeID) bool { return in.IsPrimitive(id, PrimVoid) }

// IsString reports whether id is the string primitive.
func (in *Interner) IsString(id TypeID) bool { return in.IsPrimitive(id, PrimString) }

// IsBool reports whether id is the bool primitive.
func (in *Interner) IsBool(id TypeID) bool { return in.IsPrimitive(id, PrimBool) }

// IsNumeric reports whether id is a numeric primitive.
func (in *Interner) IsNumeric(id TypeID) bool {
	t, ok := in.Lookup(id)
	return ok && t.Kind == KindPrimitive && t.Prim.IsNumeric()
}

// IsInteger reports whether id is an integer primitive.
func (in *Interner) IsInteger(id TypeID) bool {
	t, ok := in.Lookup(id)
	return ok && t.Kind == KindPrimitive && t.Prim.IsInteger()
}

// IsPointer reports whether id is any pointer type.
func (in *Interner) IsPointer(id TypeID) bool { return in.Kind(id) == KindPointer }

// IsNullPtr reports whether id is Pointer{void}, the type of nullptr.
func (in *Interner) IsNullPtr(id TypeID) bool {
	t, ok := in.Lookup(id)
	return ok && t.Kind == KindPointer && in.IsVoid(t.Elem)
}

// Pointee returns the pointed-to type of a pointer, NoTypeID otherwise.
func (in *Interner) Pointee(id TypeID) TypeID {
	t, ok := in.Lookup(id)
	if !ok || t.Kind != KindPointer {
		return NoTypeID
	}
	return t.Elem
}

// Elem returns the element type of an array, NoTypeID otherwise.
func (in *Interner) Elem(id TypeID) TypeID {
	t, ok := in.Lookup(id)
	if !ok || t.Kind != KindArray {
		return NoTypeID
	}
	return t.Elem
}

// String renders the canonical printable form used in diagnostics and in
// mangled names. Pointer-to-primitive prints as the boxed wrapper class name
// because the target VM represents it as the corresponding reference box;
// pointer-to-struct prints as the struct name (descriptor form).
func (in *Interner) String(id TypeID) string {
	t, ok := in.Lookup(id)
	if !ok {
		return "unknown"
	}
	switch t.Kind {
	case KindPrimitive:
		return t.Prim.String()
	case KindUserDefined:
		return t.Name
	case KindArray:
		return in.String(t.Elem) + "[]"
	case KindTuple:
		elems := in.TupleElems(id)
		parts := make([]string, len(elems))
		for i, e := range elems {
			parts[i] = in.String(e)
		}
		out := "tuple<"
		for i, p := range parts {
			if i > 0 {
				out += ", "
			}
			out += p
		}
		return out + ">"
	case KindPointer:
		pointee, ok := in.Lookup(t.Elem)
		if !ok {
			return "UnknownReference"
		}
		if pointee.Kind == KindPrimitive {
			return pointee.Prim.BoxClass()
		}
		return in.String(t.Elem)
	case KindUnresolved:
		return "unresolved<" + t.Name + ">"
	default:
		return "unknown"
	}
}
