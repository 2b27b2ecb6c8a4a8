package lexer

import (
	"cgull/internal/diag"
	"cgull/internal/token"
)

// scanString consumes a double-quoted string literal. The token text keeps
// the surrounding quotes: the back end emits the literal verbatim via ldc.
func (lx *Lexer) scanString() token.Token {
	start := lx.cursor.Offset()
	lx.cursor.Advance() // opening quote
	for !lx.cursor.EOF() {
		ch := lx.cursor.Peek()
		if ch == '\\' {
			lx.cursor.Advance()
			if !lx.cursor.EOF() {
				lx.cursor.Advance()
			}
			continue
		}
		if ch == '\n' {
			break
		}
		lx.cursor.Advance()
		if ch == '"' {
			return token.Token{
				Kind: token.StringLit,
				Span: lx.cursor.Span(start),
				Text: string(lx.cursor.Slice(start, lx.cursor.Offset())),
			}
		}
	}
	sp := lx.cursor.Span(start)
	diag.Error(lx.reporter, diag.LexUnterminatedString, sp, "unterminated string literal")
	return token.Token{Kind: token.Invalid, Span: sp, Text: string(lx.cursor.Slice(start, lx.cursor.Offset()))}
}
