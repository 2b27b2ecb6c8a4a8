package symbols

import (
	"cgull/internal/source"
	"cgull/internal/types"
)

// Hints provide optional capacity suggestions for the symbol table arenas.
type Hints struct{ Scopes, Symbols uint32 }

// Table aggregates the symbol arenas and shared resources. The global scope
// is the root of the ownership graph; all back-references are plain IDs.
type Table struct {
	Scopes  *Scopes
	Symbols *Symbols
	Strings *source.Interner
	Types   *types.Interner
	Global  ScopeID
}

// NewTable builds a fresh table with a pre-allocated global scope.
// If strings or interner are nil, fresh ones are allocated.
func NewTable(h Hints, strings *source.Interner, interner *types.Interner) *Table {
	if strings == nil {
		strings = source.NewInterner()
	}
	if interner == nil {
		interner = types.NewInterner()
	}
	t := &Table{
		Scopes:  NewScopes(h.Scopes),
		Symbols: NewSymbols(h.Symbols),
		Strings: strings,
		Types:   interner,
	}
	t.Global = t.Scopes.New(ScopeGlobal, NoScopeID, source.Span{})
	return t
}

// NewScope allocates a child scope.
func (t *Table) NewScope(kind ScopeKind, parent ScopeID, span source.Span) ScopeID {
	return t.Scopes.New(kind, parent, span)
}

// Sym returns the symbol for an ID, nil when invalid.
func (t *Table) Sym(id SymbolID) *Symbol {
	return t.Symbols.Get(id)
}

// Scope returns the scope for an ID, nil when invalid.
func (t *Table) Scope(id ScopeID) *Scope {
	return t.Scopes.Get(id)
}

// Name resolves an interned symbol name.
func (t *Table) Name(id source.StringID) string {
	s, _ := t.Strings.Lookup(id)
	return s
}

// MangledName decorates a function's base name with its parameter types:
// base + "_", then each parameter type followed by "_" (add_int_int_; a
// function without parameters becomes base + "_"). Used as the scope key so that
// overloads of one base name never collide.
func (t *Table) MangledName(fn SymbolID) string {
	sym := t.Sym(fn)
	if sym == nil {
		return ""
	}
	mangled := t.Name(sym.Name) + "_"
	for _, paramID := range sym.Params {
		param := t.Sym(paramID)
		if param != nil && param.DataType != types.NoTypeID {
			mangled += t.Types.String(param.DataType)
		} else {
			mangled += "unknown"
		}
		mangled += "_"
	}
	return mangled
}

// Resolve looks a name up in the scope, then up the parent chain; the first
// match of any kind wins. When the name appears only as a function overload
// base name, an arbitrary overload is returned (legacy behavior kept for
// non-call lookups).
func (t *Table) Resolve(scope ScopeID, name source.StringID) SymbolID {
	for scope.IsValid() {
		sc := t.Scope(scope)
		if sc == nil {
			return NoSymbolID
		}
		if id, ok := sc.Symbols[name]; ok {
			return id
		}
		if overloads, ok := sc.Overloads[name]; ok && len(overloads) > 0 {
			return overloads[0]
		}
		scope = sc.Parent
	}
	return NoSymbolID
}

// Add inserts a symbol into the scope, refusing duplicate keys.
// Functions are delegated to AddFunction.
func (t *Table) Add(scope ScopeID, id SymbolID) bool {
	sym := t.Sym(id)
	sc := t.Scope(scope)
	if sym == nil || sc == nil {
		return false
	}
	if sym.Kind == SymbolFunction {
		return t.AddFunction(scope, id)
	}
	if _, exists := sc.Symbols[sym.Name]; exists {
		return false
	}
	sc.Symbols[sym.Name] = id
	return true
}

// AddFunction inserts a function under its mangled key and appends it to the
// overload set of its base name. Returns false on a mangled-name collision.
func (t *Table) AddFunction(scope ScopeID, id SymbolID) bool {
	sym := t.Sym(id)
	sc := t.Scope(scope)
	if sym == nil || sc == nil {
		return false
	}
	mangled := t.Strings.Intern(t.MangledName(id))
	if _, exists := sc.Symbols[mangled]; exists {
		return false
	}
	sc.Symbols[mangled] = id
	sc.Overloads[sym.Name] = append(sc.Overloads[sym.Name], id)
	return true
}

// ResolveFunctionCall searches overload sets name-by-name up the chain.
// Match order inside the first scope that knows the base name:
// exact arity with exact types on every argument, then exact arity with any
// types. Implicit conversions are not considered here even though they are
// considered for argument compatibility once the overload is chosen.
func (t *Table) ResolveFunctionCall(scope ScopeID, name source.StringID, argTypes []types.TypeID) SymbolID {
	for scope.IsValid() {
		sc := t.Scope(scope)
		if sc == nil {
			return NoSymbolID
		}
		overloads, ok := sc.Overloads[name]
		if !ok {
			scope = sc.Parent
			continue
		}
		for _, fnID := range overloads {
			fn := t.Sym(fnID)
			if fn == nil || len(fn.Params) != len(argTypes) {
				continue
			}
			match := true
			for i, argType := range argTypes {
				param := t.Sym(fn.Params[i])
				if param == nil || argType == types.NoTypeID || param.DataType != argType {
					match = false
					break
				}
			}
			if match {
				return fnID
			}
		}
		// no exact match: take any overload with the right arity
		for _, fnID := range overloads {
			fn := t.Sym(fnID)
			if fn != nil && len(fn.Params) == len(argTypes) {
				return fnID
			}
		}
		return NoSymbolID
	}
	return NoSymbolID
}

// StructScopeOf returns the struct type symbol owning the given scope, if the
// scope is a struct member scope.
func (t *Table) StructScopeOf(scope ScopeID) SymbolID {
	sc := t.Scope(scope)
	if sc == nil || sc.Kind != ScopeStruct {
		return NoSymbolID
	}
	parent := t.Scope(sc.Parent)
	if parent == nil {
		return NoSymbolID
	}
	for _, id := range parent.Symbols {
		sym := t.Sym(id)
		if sym != nil && sym.Kind == SymbolType && sym.MemberScope == scope {
			return id
		}
	}
	return NoSymbolID
}
