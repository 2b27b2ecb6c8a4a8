package sema

import (
	"sort"

	"cgull/internal/ast"
	"cgull/internal/diag"
	"cgull/internal/symbols"
)

// synthesizeConstructors is the second pass: every struct gets a constructor
// whose parameter list mirrors its public fields in declaration order. The
// constructor lives in the struct's parent scope under the struct's name.
func synthesizeConstructors(a analysis, file *ast.File) {
	for _, itemID := range file.Items {
		item := a.builder.Item(itemID)
		if item == nil || item.Kind != ast.ItemStruct {
			continue
		}
		structID, ok := a.res.StructSymbols[itemID]
		if !ok {
			continue
		}
		structSym := a.table.Sym(structID)
		structScope := a.table.Scope(structSym.MemberScope)
		if structScope == nil {
			a.errorf(diag.SemaUnresolvedReference, item.NameSpan, "unresolved reference to struct")
			continue
		}

		// public member fields, ordered by declaration position
		var fields []symbols.SymbolID
		for _, memberID := range structScope.Symbols {
			member := a.table.Sym(memberID)
			if member != nil && member.Kind == symbols.SymbolVariable && member.StructMember && !member.Private {
				fields = append(fields, memberID)
			}
		}
		sort.Slice(fields, func(i, j int) bool {
			fi, fj := a.table.Sym(fields[i]), a.table.Sym(fields[j])
			if fi.Line != fj.Line {
				return fi.Line < fj.Line
			}
			return fi.Column < fj.Column
		})

		pos := a.position(item.NameSpan)
		ctor := &symbols.Symbol{
			Name:         structSym.Name,
			Kind:         symbols.SymbolFunction,
			Scope:        structSym.MemberScope,
			Span:         item.NameSpan,
			Line:         pos.Line,
			Column:       pos.Column,
			Defined:      true,
			StructMethod: true,
		}
		ctorID := a.table.Symbols.New(ctor)
		for _, fieldID := range fields {
			field := a.table.Sym(fieldID)
			param := &symbols.Symbol{
				Name:       field.Name,
				Kind:       symbols.SymbolParameter,
				Scope:      structSym.MemberScope,
				Span:       field.Span,
				Line:       field.Line,
				Column:     field.Column,
				Defined:    true,
				DataType:   field.DataType,
				HasDefault: field.Defined,
				LocalIndex: -1,
			}
			paramID := a.table.Symbols.New(param)
			sym := a.table.Sym(ctorID)
			sym.Params = append(sym.Params, paramID)
		}
		a.table.Sym(ctorID).Returns = append(a.table.Sym(ctorID).Returns, structSym.TypeRep)

		a.res.Constructors[structSym.Name] = ctorID
		if !a.table.Add(structScope.Parent, ctorID) {
			// a user function at the program level already took the name
			a.errorf(diag.SemaRedefinition, item.NameSpan,
				"redefinition of function '%s'", a.name(structSym.Name))
		}
	}
}
