package sema

import (
	"strings"

	"cgull/internal/ast"
	"cgull/internal/diag"
	"cgull/internal/symbols"
	"cgull/internal/types"
)

// validateSpecialMethods is the third pass: $-prefixed members must be one of
// the supported special methods with the exact expected signature, and every
// struct without a $toString gets a default stub appended to its scope.
func validateSpecialMethods(a analysis, file *ast.File) {
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
			continue
		}
		structName := a.name(item.Name)

		hasToString := false
		for _, symID := range structScope.Symbols {
			sym := a.table.Sym(symID)
			if sym == nil {
				continue
			}
			name := a.name(sym.Name)
			if !strings.HasPrefix(name, "$") {
				continue
			}
			switch name {
			case "$toString":
				hasToString = true
				a.validateToString(sym, structName, item)
			case "$destruct":
				a.validateDestruct(sym, structName, item)
			default:
				a.errorf(diag.SemaUnresolvedReference, item.NameSpan,
					"unsupported special method '%s' in struct %s", name, structName)
			}
		}

		if !hasToString {
			addDefaultToString(a, structSym.MemberScope)
		}
	}
}

func (a *analysis) validateToString(sym *symbols.Symbol, structName string, item *ast.Item) {
	if sym.Kind != symbols.SymbolFunction {
		a.errorf(diag.SemaTypeMismatch, item.NameSpan,
			"$toString in struct %s must be a method", structName)
		return
	}
	if len(sym.Params) != 0 {
		a.errorf(diag.SemaTypeMismatch, item.NameSpan,
			"$toString in struct %s must take no parameters", structName)
	}
	if len(sym.Returns) != 1 {
		a.errorf(diag.SemaTypeMismatch, item.NameSpan,
			"$toString in struct %s must return a single value", structName)
		return
	}
	if !a.types.IsString(sym.Returns[0]) {
		a.errorf(diag.SemaTypeMismatch, item.NameSpan,
			"$toString in struct %s must return string", structName)
	}
}

func (a *analysis) validateDestruct(sym *symbols.Symbol, structName string, item *ast.Item) {
	if sym.Kind != symbols.SymbolFunction {
		a.errorf(diag.SemaTypeMismatch, item.NameSpan,
			"$destruct in struct %s must be a method", structName)
		return
	}
	valid := true
	if len(sym.Params) != 0 {
		a.errorf(diag.SemaTypeMismatch, item.NameSpan,
			"$destruct in struct %s must take no parameters", structName)
		valid = false
	}
	if len(sym.Returns) != 1 || !a.types.IsVoid(sym.Returns[0]) {
		a.errorf(diag.SemaTypeMismatch, item.NameSpan,
			"$destruct in struct %s must return void", structName)
		valid = false
	}
	if valid {
		// the target VM reclaims objects itself and no site ever calls the
		// destructor; the declaration is accepted but inert
		a.warnf(diag.SemaDestructNeverRuns, item.NameSpan,
			"$destruct in struct %s is never invoked automatically", structName)
	}
}

// addDefaultToString synthesizes the stub whose body is the VM's default
// Object.toString behavior; codegen recognizes the builtin flag.
func addDefaultToString(a analysis, structScope symbols.ScopeID) {
	stub := &symbols.Symbol{
		Name:         a.builder.Strings.Intern("$toString"),
		Kind:         symbols.SymbolFunction,
		Scope:        structScope,
		Defined:      true,
		Builtin:      true,
		StructMethod: true,
		Returns:      []types.TypeID{a.types.Builtins().String},
	}
	a.table.AddFunction(structScope, a.table.Symbols.New(stub))
}
