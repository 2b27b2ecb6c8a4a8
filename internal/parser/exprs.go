package parser

import (
	"fmt"

	"cgull/internal/ast"
	"cgull/internal/diag"
	"cgull/internal/token"
)

var binOps = map[token.Kind]struct {
	op   ast.BinOp
	prec int
}{
	token.OrOr:     {ast.BinLogicalOr, 1},
	token.AndAnd:   {ast.BinLogicalAnd, 2},
	token.Pipe:     {ast.BinOr, 3},
	token.Caret:    {ast.BinXor, 4},
	token.Amp:      {ast.BinAnd, 5},
	token.EqEq:     {ast.BinEq, 6},
	token.BangEq:   {ast.BinNe, 6},
	token.Lt:       {ast.BinLt, 7},
	token.Gt:       {ast.BinGt, 7},
	token.LtEq:     {ast.BinLe, 7},
	token.GtEq:     {ast.BinGe, 7},
	token.Shl:      {ast.BinShl, 8},
	token.Shr:      {ast.BinShr, 8},
	token.Plus:     {ast.BinAdd, 9},
	token.Minus:    {ast.BinSub, 9},
	token.Star:     {ast.BinMul, 10},
	token.Slash:    {ast.BinDiv, 10},
	token.Percent:  {ast.BinRem, 10},
}

func (p *Parser) parseExpr() ast.ExprID {
	return p.parseBinary(1)
}

func (p *Parser) parseBinary(minPrec int) ast.ExprID {
	left := p.parseUnary()
	for {
		entry, ok := binOps[p.tok.Kind]
		if !ok || entry.prec < minPrec {
			return left
		}
		p.advance()
		right := p.parseBinary(entry.prec + 1)
		span := p.builder.Expr(left).Span
		if r := p.builder.Expr(right); r != nil {
			span = span.Cover(r.Span)
		}
		left = p.builder.NewExpr(ast.Expr{
			Kind: ast.ExprBinary,
			Span: span,
			Bin:  entry.op,
			X:    left,
			Y:    right,
		})
	}
}

func (p *Parser) parseUnary() ast.ExprID {
	start := p.tok.Span
	switch p.tok.Kind {
	case token.Plus, token.Minus, token.Bang, token.Tilde, token.PlusPlus, token.MinusMin:
		op := map[token.Kind]ast.UnaryOp{
			token.Plus:     ast.UnaryPlus,
			token.Minus:    ast.UnaryMinus,
			token.Bang:     ast.UnaryNot,
			token.Tilde:    ast.UnaryBitNot,
			token.PlusPlus: ast.UnaryInc,
			token.MinusMin: ast.UnaryDec,
		}[p.tok.Kind]
		p.advance()
		operand := p.parseUnary()
		return p.builder.NewExpr(ast.Expr{
			Kind: ast.ExprUnary, Span: start, Unary: op, X: operand,
		})
	case token.Star:
		p.advance()
		operand := p.parseUnary()
		return p.builder.NewExpr(ast.Expr{Kind: ast.ExprDeref, Span: start, X: operand})
	case token.Amp:
		p.advance()
		operand := p.parseUnary()
		return p.builder.NewExpr(ast.Expr{Kind: ast.ExprRef, Span: start, X: operand})
	default:
		return p.parsePostfix()
	}
}

// parsePostfix parses a primary followed by field access hops, indexing,
// postfix ++/--, and as/bits_as casts.
func (p *Parser) parsePostfix() ast.ExprID {
	expr := p.parsePrimary()
	for {
		switch p.tok.Kind {
		case token.Dot, token.Arrow:
			expr = p.parseFieldAccess(expr)
		case token.LBracket:
			start := p.builder.Expr(expr).Span
			p.advance()
			index := p.parseExpr()
			p.expect(token.RBracket, diag.SynUnclosedDelimiter)
			expr = p.builder.NewExpr(ast.Expr{
				Kind: ast.ExprIndex, Span: start, X: expr, Y: index,
			})
		case token.PlusPlus, token.MinusMin:
			op := ast.PostfixInc
			if p.tok.Kind == token.MinusMin {
				op = ast.PostfixDec
			}
			span := p.builder.Expr(expr).Span.Cover(p.tok.Span)
			p.advance()
			expr = p.builder.NewExpr(ast.Expr{
				Kind: ast.ExprPostfix, Span: span, Post: op, X: expr,
			})
		case token.KwAs, token.KwBitsAs:
			bits := p.tok.Kind == token.KwBitsAs
			span := p.builder.Expr(expr).Span
			p.advance()
			target := p.parseType()
			expr = p.builder.NewExpr(ast.Expr{
				Kind: ast.ExprCast, Span: span, X: expr, Type: target, Bits: bits,
			})
		default:
			return expr
		}
	}
}

// parseFieldAccess consumes one or more `.`/`->` hops after the head.
func (p *Parser) parseFieldAccess(head ast.ExprID) ast.ExprID {
	span := p.builder.Expr(head).Span
	var hops []ast.FieldHop
	for p.at(token.Dot) || p.at(token.Arrow) {
		arrow := p.at(token.Arrow)
		p.advance()

		// числовой индекс кортежа: `.0`
		if p.at(token.IntLit) {
			hops = append(hops, ast.FieldHop{
				Arrow: arrow,
				Name:  p.intern(p.tok.Text),
				Span:  p.tok.Span,
			})
			p.advance()
			continue
		}

		nameTok, ok := p.expect(token.Ident, diag.SynExpectIdentifier)
		if !ok {
			break
		}
		hop := ast.FieldHop{
			Arrow: arrow,
			Name:  p.intern(nameTok.Text),
			Span:  nameTok.Span,
		}
		switch p.tok.Kind {
		case token.LParen:
			hop.Call = p.parseCallTail(nameTok)
		case token.LBracket:
			p.advance()
			hop.Index = p.parseExpr()
			p.expect(token.RBracket, diag.SynUnclosedDelimiter)
		}
		hops = append(hops, hop)
	}
	return p.builder.NewExpr(ast.Expr{
		Kind: ast.ExprFieldAccess,
		Span: span.Cover(p.tok.Span),
		X:    head,
		Hops: hops,
	})
}

// parseCallTail parses the argument list of a call whose name is already consumed.
func (p *Parser) parseCallTail(nameTok token.Token) ast.ExprID {
	p.expect(token.LParen, diag.SynUnexpectedToken)
	var args []ast.ExprID
	for !p.at(token.RParen) && !p.at(token.EOF) {
		args = append(args, p.parseExpr())
		if !p.eat(token.Comma) {
			break
		}
	}
	end := p.tok.Span
	p.expect(token.RParen, diag.SynUnclosedDelimiter)
	return p.builder.NewExpr(ast.Expr{
		Kind: ast.ExprCall,
		Span: nameTok.Span.Cover(end),
		Text: p.intern(nameTok.Text),
		List: args,
	})
}

func (p *Parser) parsePrimary() ast.ExprID {
	tok := p.tok
	switch tok.Kind {
	case token.IntLit:
		p.advance()
		return p.newLit(ast.LitInt, tok)
	case token.HexLit:
		p.advance()
		return p.newLit(ast.LitHex, tok)
	case token.BinLit:
		p.advance()
		return p.newLit(ast.LitBin, tok)
	case token.FloatLit:
		p.advance()
		return p.newLit(ast.LitFloat, tok)
	case token.StringLit:
		p.advance()
		return p.newLit(ast.LitString, tok)
	case token.KwTrue:
		p.advance()
		return p.newLit(ast.LitTrue, tok)
	case token.KwFalse:
		p.advance()
		return p.newLit(ast.LitFalse, tok)
	case token.KwNullptr:
		p.advance()
		return p.newLit(ast.LitNullptr, tok)
	case token.Ident:
		p.advance()
		if p.at(token.LParen) {
			return p.parseCallTail(tok)
		}
		return p.builder.NewExpr(ast.Expr{
			Kind: ast.ExprIdent, Span: tok.Span, Text: p.intern(tok.Text),
		})
	case token.KwIf:
		// if-expression: `if cond then a else b`
		p.advance()
		cond := p.parseExpr()
		p.expect(token.KwThen, diag.SynUnexpectedToken)
		thenExpr := p.parseExpr()
		p.expect(token.KwElse, diag.SynUnexpectedToken)
		elseExpr := p.parseExpr()
		return p.builder.NewExpr(ast.Expr{
			Kind: ast.ExprIfExpr, Span: tok.Span, X: cond, Y: thenExpr, Z: elseExpr,
		})
	case token.KwNew:
		return p.parseAllocation()
	case token.LParen:
		p.advance()
		first := p.parseExpr()
		if p.eat(token.Comma) {
			elems := []ast.ExprID{first}
			for !p.at(token.RParen) && !p.at(token.EOF) {
				elems = append(elems, p.parseExpr())
				if !p.eat(token.Comma) {
					break
				}
			}
			p.expect(token.RParen, diag.SynUnclosedDelimiter)
			return p.builder.NewExpr(ast.Expr{
				Kind: ast.ExprTuple, Span: tok.Span, List: elems,
			})
		}
		p.expect(token.RParen, diag.SynUnclosedDelimiter)
		return first
	case token.LBrace:
		p.advance()
		var elems []ast.ExprID
		for !p.at(token.RBrace) && !p.at(token.EOF) {
			elems = append(elems, p.parseExpr())
			if !p.eat(token.Comma) {
				break
			}
		}
		p.expect(token.RBrace, diag.SynUnclosedDelimiter)
		return p.builder.NewExpr(ast.Expr{
			Kind: ast.ExprArrayLit, Span: tok.Span, List: elems,
		})
	default:
		diag.Error(p.reporter, diag.SynExpectExpression, tok.Span,
			fmt.Sprintf("expected expression, got %s", describe(tok)))
		p.advance()
		return p.builder.NewExpr(ast.Expr{Kind: ast.ExprInvalid, Span: tok.Span})
	}
}

func (p *Parser) newLit(kind ast.LitKind, tok token.Token) ast.ExprID {
	return p.builder.NewExpr(ast.Expr{
		Kind: ast.ExprLiteral,
		Span: tok.Span,
		Lit:  kind,
		Text: p.intern(tok.Text),
	})
}

// parseAllocation parses the `new` forms: primitive box, array, struct.
func (p *Parser) parseAllocation() ast.ExprID {
	start := p.tok.Span
	p.advance() // new
	nameTok, ok := p.expect(token.Ident, diag.SynExpectIdentifier)
	if !ok {
		return p.builder.NewExpr(ast.Expr{Kind: ast.ExprInvalid, Span: start})
	}

	if p.at(token.LParen) {
		if nameTok.IsPrimitiveTypeName() {
			// new int(expr): boxed primitive
			typ := p.builder.NewType(ast.TypeNode{
				Kind: ast.TypeName,
				Name: p.intern(nameTok.Text),
				Span: nameTok.Span,
			})
			p.advance()
			init := p.parseExpr()
			p.expect(token.RParen, diag.SynUnclosedDelimiter)
			return p.builder.NewExpr(ast.Expr{
				Kind: ast.ExprNewPrim, Span: start, Type: typ, X: init,
			})
		}
		// new Struct(args)
		p.advance()
		var args []ast.ExprID
		for !p.at(token.RParen) && !p.at(token.EOF) {
			args = append(args, p.parseExpr())
			if !p.eat(token.Comma) {
				break
			}
		}
		p.expect(token.RParen, diag.SynUnclosedDelimiter)
		return p.builder.NewExpr(ast.Expr{
			Kind: ast.ExprNewStruct, Span: start,
			Text: p.intern(nameTok.Text), List: args,
		})
	}

	// new T[d1, d2, ...]: array allocation; T may carry pointer stars
	node := ast.TypeNode{Kind: ast.TypeName, Name: p.intern(nameTok.Text), Span: nameTok.Span}
	for p.eat(token.Star) {
		node.Stars++
	}
	typ := p.builder.NewType(node)
	p.expect(token.LBracket, diag.SynUnexpectedToken)
	var dims []ast.ExprID
	for !p.at(token.RBracket) && !p.at(token.EOF) {
		dims = append(dims, p.parseExpr())
		if !p.eat(token.Comma) {
			break
		}
	}
	p.expect(token.RBracket, diag.SynUnclosedDelimiter)
	return p.builder.NewExpr(ast.Expr{
		Kind: ast.ExprNewArray, Span: start, Type: typ, List: dims,
	})
}
