package codegen

import (
	"cgull/internal/ir"
	"cgull/internal/types"
)

// wrapperClass synthesizes a primitive box: a private value field, a one-arg
// constructor, getValue, and setValue. The target VM has no raw pointer to a
// primitive, so Pointer{Primitive} lowers to one of these.
func wrapperClass(tys *types.Interner, prim types.PrimKind) *Class {
	className := prim.BoxClass()
	prefix := primPrefix(prim)
	desc := primDescriptor(prim)
	primType := tys.Primitive(prim)
	voidType := tys.Builtins().Void

	ctor := &Method{
		EmitName: "<init>",
		Params:   []types.TypeID{primType},
		Return:   voidType,
		Instructions: []ir.Instruction{
			ir.Raw("aload 0"),
			ir.Raw("invokespecial java/lang/Object.<init>()V"),
			ir.Raw("aload 0"),
			ir.Raw(prefix + "load 1"),
			ir.Raw("putfield " + className + ".value " + desc),
			ir.Raw("return"),
		},
	}
	getter := &Method{
		EmitName: "getValue",
		Return:   primType,
		Instructions: []ir.Instruction{
			ir.Raw("aload 0"),
			ir.Raw("getfield " + className + ".value " + desc),
			ir.Raw(prefix + "return"),
		},
	}
	setter := &Method{
		EmitName: "setValue",
		Params:   []types.TypeID{primType},
		Return:   voidType,
		Instructions: []ir.Instruction{
			ir.Raw("aload 0"),
			ir.Raw(prefix + "load 1"),
			ir.Raw("putfield " + className + ".value " + desc),
			ir.Raw("return"),
		},
	}

	return &Class{
		Name:        className,
		Wrapper:     true,
		WrapperPrim: prim,
		Methods:     []*Method{ctor, getter, setter},
	}
}
