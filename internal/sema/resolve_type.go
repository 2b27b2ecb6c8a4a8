package sema

import (
	"cgull/internal/ast"
	"cgull/internal/symbols"
	"cgull/internal/types"
)

// resolveType maps a syntactic type node to an interned type descriptor.
// Returns NoTypeID when any referenced name does not resolve; the caller
// decides which diagnostic to attach and substitutes the void placeholder.
func resolveType(a *analysis, scope symbols.ScopeID, id ast.TypeID) types.TypeID {
	node := a.builder.Type(id)
	if node == nil {
		return types.NoTypeID
	}

	var base types.TypeID
	switch node.Kind {
	case ast.TypeName:
		base = a.resolveBaseName(scope, node)
	case ast.TypeTuple:
		elems := make([]types.TypeID, 0, len(node.Elems))
		for _, elem := range node.Elems {
			resolved := resolveType(a, scope, elem)
			if resolved == types.NoTypeID {
				return types.NoTypeID
			}
			elems = append(elems, resolved)
		}
		base = a.types.Tuple(elems)
	default:
		return types.NoTypeID
	}
	if base == types.NoTypeID {
		return types.NoTypeID
	}

	for range node.Stars {
		base = a.types.Pointer(base)
	}
	for range node.ArraySuffixes {
		base = a.types.Array(base)
	}
	return base
}

func (a *analysis) resolveBaseName(scope symbols.ScopeID, node *ast.TypeNode) types.TypeID {
	name := a.name(node.Name)
	if prim, ok := primitiveByName(name); ok {
		return a.types.Primitive(prim)
	}
	symID := a.table.Resolve(scope, node.Name)
	sym := a.table.Sym(symID)
	if sym == nil || sym.Kind != symbols.SymbolType {
		return types.NoTypeID
	}
	return sym.TypeRep
}

func primitiveByName(name string) (types.PrimKind, bool) {
	switch name {
	case "int":
		return types.PrimInt, true
	case "float":
		return types.PrimFloat, true
	case "bool":
		return types.PrimBool, true
	case "string":
		return types.PrimString, true
	case "void":
		return types.PrimVoid, true
	default:
		return 0, false
	}
}
