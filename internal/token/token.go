package token

import (
	"cgull/internal/source"
)

// Token represents a single source token with its location.
type Token struct {
	Kind Kind
	Span source.Span
	Text string
}

// IsLiteral reports whether the token is a numeric, boolean, string, or nullptr literal.
func (t Token) IsLiteral() bool {
	switch t.Kind {
	case IntLit, HexLit, BinLit, FloatLit, StringLit, KwTrue, KwFalse, KwNullptr:
		return true
	default:
		return false
	}
}

// IsPrimitiveTypeName reports whether the token spells a primitive type name.
func (t Token) IsPrimitiveTypeName() bool {
	if t.Kind != Ident {
		return false
	}
	switch t.Text {
	case "int", "float", "bool", "string", "void":
		return true
	default:
		return false
	}
}
