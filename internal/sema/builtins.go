package sema

import (
	"cgull/internal/symbols"
	"cgull/internal/types"
)

// declareBuiltins registers the built-in function set in the global scope.
// Everything is marked defined and builtin; bodies are supplied by codegen.
func declareBuiltins(table *symbols.Table) {
	b := table.Types.Builtins()

	add := func(name string, params []types.TypeID, ret types.TypeID) {
		fn := &symbols.Symbol{
			Name:    table.Strings.Intern(name),
			Kind:    symbols.SymbolFunction,
			Scope:   table.Global,
			Defined: true,
			Builtin: true,
			Returns: []types.TypeID{ret},
		}
		fnID := table.Symbols.New(fn)
		for _, paramType := range params {
			param := &symbols.Symbol{
				Name:       table.Strings.Intern("value"),
				Kind:       symbols.SymbolParameter,
				Scope:      table.Global,
				Defined:    true,
				Builtin:    true,
				DataType:   paramType,
				LocalIndex: -1,
			}
			paramID := table.Symbols.New(param)
			sym := table.Sym(fnID)
			sym.Params = append(sym.Params, paramID)
		}
		table.AddFunction(table.Global, fnID)
	}

	add("println", []types.TypeID{b.String}, b.Void)
	add("print", []types.TypeID{b.String}, b.Void)
	add("print", []types.TypeID{b.String, b.String}, b.Void)
	add("readline", nil, b.String)
	add("read", nil, b.String)
	add("read", []types.TypeID{b.String}, b.String)
	add("read", []types.TypeID{b.String, b.Int}, b.String)

	// math functions, eventually will be moved to a math library
	add("sqrt", []types.TypeID{b.Float}, b.Float)
}
