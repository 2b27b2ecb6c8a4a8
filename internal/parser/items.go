package parser

import (
	"fmt"

	"cgull/internal/ast"
	"cgull/internal/diag"
	"cgull/internal/token"
)

// parseFn parses `fn name(params) [-> types] { ... }`.
// Special method names ($toString, $destruct) arrive as one identifier token.
func (p *Parser) parseFn() ast.ItemID {
	start := p.tok.Span
	p.expect(token.KwFn, diag.SynUnexpectedToken)

	nameTok, ok := p.expect(token.Ident, diag.SynExpectIdentifier)
	if !ok {
		p.syncStmt()
		return ast.NoItemID
	}

	p.expect(token.LParen, diag.SynUnexpectedToken)
	var params []ast.Param
	for !p.at(token.RParen) && !p.at(token.EOF) {
		paramTok, ok := p.expect(token.Ident, diag.SynExpectIdentifier)
		if !ok {
			break
		}
		p.expect(token.Colon, diag.SynUnexpectedToken)
		typ := p.parseType()
		params = append(params, ast.Param{
			Name: p.intern(paramTok.Text),
			Type: typ,
			Span: paramTok.Span,
		})
		if !p.eat(token.Comma) {
			break
		}
	}
	p.expect(token.RParen, diag.SynUnclosedDelimiter)

	var returns []ast.TypeID
	multi := false
	if p.eat(token.Arrow) {
		if p.at(token.LParen) {
			p.advance()
			for !p.at(token.RParen) && !p.at(token.EOF) {
				returns = append(returns, p.parseType())
				if !p.eat(token.Comma) {
					break
				}
			}
			p.expect(token.RParen, diag.SynUnclosedDelimiter)
			multi = len(returns) > 1
		} else {
			returns = append(returns, p.parseType())
		}
	}

	body := p.parseBlock()

	return p.builder.NewItem(ast.Item{
		Kind:        ast.ItemFn,
		Span:        start.Cover(p.builder.Block(body).Span),
		Name:        p.intern(nameTok.Text),
		NameSpan:    nameTok.Span,
		Params:      params,
		Returns:     returns,
		MultiReturn: multi,
		Body:        body,
	})
}

// parseStruct parses a struct definition with access blocks and members.
func (p *Parser) parseStruct() ast.ItemID {
	start := p.tok.Span
	p.expect(token.KwStruct, diag.SynUnexpectedToken)
	nameTok, ok := p.expect(token.Ident, diag.SynExpectIdentifier)
	if !ok {
		p.syncStmt()
		return ast.NoItemID
	}
	p.expect(token.LBrace, diag.SynUnexpectedToken)

	var members []ast.StructMember
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		before := p.tok
		switch p.tok.Kind {
		case token.KwPublic, token.KwPrivate:
			private := p.tok.Kind == token.KwPrivate
			p.advance()
			if p.eat(token.LBrace) {
				// access block: every member inside shares the visibility
				for !p.at(token.RBrace) && !p.at(token.EOF) {
					inner := p.tok
					if m, ok := p.parseStructMember(private); ok {
						members = append(members, m)
					}
					if p.tok == inner {
						p.advance()
					}
				}
				p.expect(token.RBrace, diag.SynUnclosedDelimiter)
			} else {
				if m, ok := p.parseStructMember(private); ok {
					members = append(members, m)
				}
			}
		default:
			if m, ok := p.parseStructMember(false); ok {
				members = append(members, m)
			}
		}
		if p.tok == before {
			p.advance()
		}
	}
	end := p.tok.Span
	p.expect(token.RBrace, diag.SynUnclosedDelimiter)

	return p.builder.NewItem(ast.Item{
		Kind:     ast.ItemStruct,
		Span:     start.Cover(end),
		Name:     p.intern(nameTok.Text),
		NameSpan: nameTok.Span,
		Members:  members,
	})
}

func (p *Parser) parseStructMember(private bool) (ast.StructMember, bool) {
	switch p.tok.Kind {
	case token.KwFn:
		fn := p.parseFn()
		if !fn.IsValid() {
			return ast.StructMember{}, false
		}
		p.builder.Item(fn).Private = private
		return ast.StructMember{IsFn: true, Fn: fn, Private: private}, true
	case token.KwVar, token.KwConst:
		decl := p.parseVarDeclStmt()
		if !decl.IsValid() {
			return ast.StructMember{}, false
		}
		return ast.StructMember{Decl: decl, Private: private}, true
	case token.Ident:
		// short member form: `x: int;`
		nameTok := p.tok
		p.advance()
		p.expect(token.Colon, diag.SynUnexpectedToken)
		typ := p.parseType()
		var init ast.ExprID
		if p.eat(token.Assign) {
			init = p.parseExpr()
		}
		p.expect(token.Semi, diag.SynExpectSemicolon)
		decl := p.builder.NewStmt(ast.Stmt{
			Kind:     ast.StmtVarDecl,
			Span:     nameTok.Span,
			Name:     p.intern(nameTok.Text),
			NameSpan: nameTok.Span,
			Type:     typ,
			Value:    init,
		})
		return ast.StructMember{Decl: decl, Private: private}, true
	default:
		diag.Error(p.reporter, diag.SynUnexpectedToken, p.tok.Span,
			fmt.Sprintf("expected struct member, got %s", describe(p.tok)))
		p.syncStmt()
		return ast.StructMember{}, false
	}
}
