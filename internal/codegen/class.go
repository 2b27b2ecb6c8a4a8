// Package codegen lowers the checked parse tree to per-method stack-machine
// instruction lists and serializes each generated class to a textual .jasm
// assembly file.
package codegen

import (
	"cgull/internal/ir"
	"cgull/internal/types"
)

// Field is one emitted class field.
type Field struct {
	Name    string
	Type    types.TypeID
	Private bool
}

// Method is one emitted method, self-contained for the writer: the emit name
// is already "main", "<init>", a mangled user name, or a wrapper accessor.
type Method struct {
	EmitName     string
	Static       bool
	Params       []types.TypeID
	Return       types.TypeID
	Instructions []ir.Instruction
}

// Class is one generated class file.
type Class struct {
	Name        string
	Wrapper     bool
	WrapperPrim types.PrimKind
	Fields      []Field
	Methods     []*Method
}

// Method returns a method by emit name, nil if absent.
func (c *Class) Method(name string) *Method {
	for _, m := range c.Methods {
		if m.EmitName == name {
			return m
		}
	}
	return nil
}
