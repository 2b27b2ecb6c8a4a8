package lexer

import (
	"cgull/internal/diag"
	"cgull/internal/token"
)

// scanNumber consumes decimal, hex (0x), binary (0b), and float literals.
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Offset()

	if lx.cursor.Peek() == '0' {
		next := lx.cursor.PeekAt(1)
		if next == 'x' || next == 'X' {
			lx.cursor.Advance()
			lx.cursor.Advance()
			digits := 0
			for !lx.cursor.EOF() && isHexDigit(lx.cursor.Peek()) {
				lx.cursor.Advance()
				digits++
			}
			sp := lx.cursor.Span(start)
			text := string(lx.cursor.Slice(start, lx.cursor.Offset()))
			if digits == 0 {
				diag.Error(lx.reporter, diag.LexBadNumber, sp, "hex literal without digits")
				return token.Token{Kind: token.Invalid, Span: sp, Text: text}
			}
			return token.Token{Kind: token.HexLit, Span: sp, Text: text}
		}
		if next == 'b' || next == 'B' {
			lx.cursor.Advance()
			lx.cursor.Advance()
			digits := 0
			for !lx.cursor.EOF() && (lx.cursor.Peek() == '0' || lx.cursor.Peek() == '1') {
				lx.cursor.Advance()
				digits++
			}
			sp := lx.cursor.Span(start)
			text := string(lx.cursor.Slice(start, lx.cursor.Offset()))
			if digits == 0 {
				diag.Error(lx.reporter, diag.LexBadNumber, sp, "binary literal without digits")
				return token.Token{Kind: token.Invalid, Span: sp, Text: text}
			}
			return token.Token{Kind: token.BinLit, Span: sp, Text: text}
		}
	}

	for !lx.cursor.EOF() && isDigitByte(lx.cursor.Peek()) {
		lx.cursor.Advance()
	}

	kind := token.IntLit
	// дробная часть: точка, но не оператор доступа к полю кортежа (.0 после идента)
	if lx.cursor.Peek() == '.' && isDigitByte(lx.cursor.PeekAt(1)) {
		kind = token.FloatLit
		lx.cursor.Advance()
		for !lx.cursor.EOF() && isDigitByte(lx.cursor.Peek()) {
			lx.cursor.Advance()
		}
	}

	return token.Token{
		Kind: kind,
		Span: lx.cursor.Span(start),
		Text: string(lx.cursor.Slice(start, lx.cursor.Offset())),
	}
}

func isHexDigit(b byte) bool {
	return isDigitByte(b) || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}
