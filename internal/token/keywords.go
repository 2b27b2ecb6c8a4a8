package token

var keywords = map[string]Kind{
	"fn":      KwFn,
	"var":     KwVar,
	"const":   KwConst,
	"struct":  KwStruct,
	"if":      KwIf,
	"then":    KwThen,
	"else":    KwElse,
	"while":   KwWhile,
	"until":   KwUntil,
	"for":     KwFor,
	"loop":    KwLoop,
	"break":   KwBreak,
	"return":  KwReturn,
	"new":     KwNew,
	"as":      KwAs,
	"bits_as": KwBitsAs,
	"public":  KwPublic,
	"private": KwPrivate,
	"true":    KwTrue,
	"false":   KwFalse,
	"nullptr": KwNullptr,
	// float special forms lex as literals, not keywords
	"inf": FloatLit,
	"nan": FloatLit,
}

// LookupKeyword maps an identifier spelling to its keyword kind, if any.
func LookupKeyword(text string) (Kind, bool) {
	k, ok := keywords[text]
	return k, ok
}
