package symbols

import (
	"cgull/internal/source"
)

// ScopeKind enumerates supported scope categories.
type ScopeKind uint8

const (
	ScopeInvalid ScopeKind = iota
	ScopeGlobal
	ScopeProgram
	ScopeStruct
	ScopeFunction
	ScopeLoop
	ScopeBlock
)

func (k ScopeKind) String() string {
	switch k {
	case ScopeGlobal:
		return "global"
	case ScopeProgram:
		return "program"
	case ScopeStruct:
		return "struct"
	case ScopeFunction:
		return "function"
	case ScopeLoop:
		return "loop"
	case ScopeBlock:
		return "block"
	default:
		return "invalid"
	}
}

// Scope models a lexical scope with a parent-child hierarchy.
// Symbols maps plain names for variables and type symbols and mangled names
// for functions; Overloads groups functions by their base name.
type Scope struct {
	Kind      ScopeKind
	Parent    ScopeID
	Span      source.Span
	Symbols   map[source.StringID]SymbolID
	Overloads map[source.StringID][]SymbolID
	Children  []ScopeID
}
