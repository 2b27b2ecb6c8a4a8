package lexer

import (
	"fmt"

	"cgull/internal/diag"
	"cgull/internal/token"
)

// scanOperator consumes punctuation and operator tokens, longest match first.
func (lx *Lexer) scanOperator() token.Token {
	start := lx.cursor.Offset()
	ch := lx.cursor.Peek()
	next := lx.cursor.PeekAt(1)

	two := map[[2]byte]token.Kind{
		{'<', '<'}: token.Shl,
		{'>', '>'}: token.Shr,
		{'&', '&'}: token.AndAnd,
		{'|', '|'}: token.OrOr,
		{'+', '+'}: token.PlusPlus,
		{'-', '-'}: token.MinusMin,
		{'=', '='}: token.EqEq,
		{'!', '='}: token.BangEq,
		{'<', '='}: token.LtEq,
		{'>', '='}: token.GtEq,
		{'-', '>'}: token.Arrow,
	}
	if kind, ok := two[[2]byte{ch, next}]; ok {
		lx.cursor.Advance()
		lx.cursor.Advance()
		return lx.opToken(kind, start)
	}

	var kind token.Kind
	switch ch {
	case '+':
		kind = token.Plus
	case '-':
		kind = token.Minus
	case '*':
		kind = token.Star
	case '/':
		kind = token.Slash
	case '%':
		kind = token.Percent
	case '&':
		kind = token.Amp
	case '|':
		kind = token.Pipe
	case '^':
		kind = token.Caret
	case '~':
		kind = token.Tilde
	case '!':
		kind = token.Bang
	case '<':
		kind = token.Lt
	case '>':
		kind = token.Gt
	case '=':
		kind = token.Assign
	case '.':
		kind = token.Dot
	case ',':
		kind = token.Comma
	case ':':
		kind = token.Colon
	case ';':
		kind = token.Semi
	case '(':
		kind = token.LParen
	case ')':
		kind = token.RParen
	case '{':
		kind = token.LBrace
	case '}':
		kind = token.RBrace
	case '[':
		kind = token.LBracket
	case ']':
		kind = token.RBracket
	default:
		lx.cursor.Advance()
		sp := lx.cursor.Span(start)
		diag.Error(lx.reporter, diag.LexUnknownChar, sp, fmt.Sprintf("unknown character %q", rune(ch)))
		return token.Token{Kind: token.Invalid, Span: sp, Text: string(ch)}
	}
	lx.cursor.Advance()
	return lx.opToken(kind, start)
}

func (lx *Lexer) opToken(kind token.Kind, start uint32) token.Token {
	return token.Token{
		Kind: kind,
		Span: lx.cursor.Span(start),
		Text: string(lx.cursor.Slice(start, lx.cursor.Offset())),
	}
}
