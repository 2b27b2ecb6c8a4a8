package parser

import (
	"cgull/internal/ast"
	"cgull/internal/diag"
	"cgull/internal/token"
)

func (p *Parser) parseBlock() ast.BlockID {
	start := p.tok.Span
	p.expect(token.LBrace, diag.SynUnexpectedToken)
	var stmts []ast.StmtID
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		before := p.tok
		if id := p.parseStmt(); id.IsValid() {
			stmts = append(stmts, id)
		}
		if p.tok == before {
			p.advance()
		}
	}
	end := p.tok.Span
	p.expect(token.RBrace, diag.SynUnclosedDelimiter)
	return p.builder.NewBlock(ast.Block{Stmts: stmts, Span: start.Cover(end)})
}

func (p *Parser) parseStmt() ast.StmtID {
	switch p.tok.Kind {
	case token.KwVar, token.KwConst:
		if p.lx.Peek().Kind == token.LParen {
			return p.parseDestructure()
		}
		return p.parseVarDeclStmt()
	case token.KwReturn:
		start := p.tok.Span
		p.advance()
		var value ast.ExprID
		if !p.at(token.Semi) {
			value = p.parseExpr()
		}
		p.expect(token.Semi, diag.SynExpectSemicolon)
		return p.builder.NewStmt(ast.Stmt{Kind: ast.StmtReturn, Span: start, Value: value})
	case token.KwIf:
		return p.parseIf()
	case token.KwWhile:
		start := p.tok.Span
		p.advance()
		p.expect(token.LParen, diag.SynUnexpectedToken)
		cond := p.parseExpr()
		p.expect(token.RParen, diag.SynUnclosedDelimiter)
		body := p.parseBlock()
		return p.builder.NewStmt(ast.Stmt{Kind: ast.StmtWhile, Span: start, Cond: cond, Body: body})
	case token.KwUntil:
		start := p.tok.Span
		p.advance()
		p.expect(token.LParen, diag.SynUnexpectedToken)
		cond := p.parseExpr()
		p.expect(token.RParen, diag.SynUnclosedDelimiter)
		body := p.parseBlock()
		return p.builder.NewStmt(ast.Stmt{Kind: ast.StmtUntil, Span: start, Cond: cond, Body: body})
	case token.KwFor:
		return p.parseFor()
	case token.KwLoop:
		start := p.tok.Span
		p.advance()
		body := p.parseBlock()
		return p.builder.NewStmt(ast.Stmt{Kind: ast.StmtLoop, Span: start, Body: body})
	case token.KwBreak:
		start := p.tok.Span
		p.advance()
		p.expect(token.Semi, diag.SynExpectSemicolon)
		return p.builder.NewStmt(ast.Stmt{Kind: ast.StmtBreak, Span: start})
	default:
		stmt := p.parseSimpleStmt()
		if stmt.IsValid() {
			p.expect(token.Semi, diag.SynExpectSemicolon)
		}
		return stmt
	}
}

// parseSimpleStmt parses an assignment or expression statement without the
// trailing semicolon (shared with the for-loop header).
func (p *Parser) parseSimpleStmt() ast.StmtID {
	if p.at(token.KwVar) || p.at(token.KwConst) {
		return p.parseVarDeclNoSemi()
	}
	start := p.tok.Span
	expr := p.parseExpr()
	if !expr.IsValid() {
		p.syncStmt()
		return ast.NoStmtID
	}
	if p.eat(token.Assign) {
		value := p.parseExpr()
		if !isAssignable(p.builder, expr) {
			diag.Error(p.reporter, diag.SynUnexpectedToken, start,
				"invalid assignment target")
		}
		return p.builder.NewStmt(ast.Stmt{
			Kind:   ast.StmtAssign,
			Span:   start,
			Target: expr,
			Value:  value,
		})
	}
	return p.builder.NewStmt(ast.Stmt{Kind: ast.StmtExpr, Span: start, Value: expr})
}

func isAssignable(b *ast.Builder, id ast.ExprID) bool {
	expr := b.Expr(id)
	if expr == nil {
		return false
	}
	switch expr.Kind {
	case ast.ExprIdent, ast.ExprIndex, ast.ExprDeref, ast.ExprFieldAccess:
		return true
	default:
		return false
	}
}

func (p *Parser) parseVarDeclStmt() ast.StmtID {
	stmt := p.parseVarDeclNoSemi()
	if stmt.IsValid() {
		p.expect(token.Semi, diag.SynExpectSemicolon)
	}
	return stmt
}

// parseVarDeclNoSemi parses `(var|const) name: type [= expr]`.
func (p *Parser) parseVarDeclNoSemi() ast.StmtID {
	start := p.tok.Span
	isConst := p.at(token.KwConst)
	p.advance() // var | const
	nameTok, ok := p.expect(token.Ident, diag.SynExpectIdentifier)
	if !ok {
		p.syncStmt()
		return ast.NoStmtID
	}
	p.expect(token.Colon, diag.SynUnexpectedToken)
	typ := p.parseType()
	var init ast.ExprID
	if p.eat(token.Assign) {
		init = p.parseExpr()
	}
	return p.builder.NewStmt(ast.Stmt{
		Kind:     ast.StmtVarDecl,
		Span:     start,
		Name:     p.intern(nameTok.Text),
		NameSpan: nameTok.Span,
		IsConst:  isConst,
		Type:     typ,
		Value:    init,
	})
}

// parseDestructure parses `(var|const) (a: int, b: string) = expr;`.
func (p *Parser) parseDestructure() ast.StmtID {
	start := p.tok.Span
	isConst := p.at(token.KwConst)
	p.advance()
	p.expect(token.LParen, diag.SynUnexpectedToken)
	var items []ast.DestrItem
	for !p.at(token.RParen) && !p.at(token.EOF) {
		nameTok, ok := p.expect(token.Ident, diag.SynExpectIdentifier)
		if !ok {
			break
		}
		p.expect(token.Colon, diag.SynUnexpectedToken)
		typ := p.parseType()
		items = append(items, ast.DestrItem{
			Name: p.intern(nameTok.Text),
			Type: typ,
			Span: nameTok.Span,
		})
		if !p.eat(token.Comma) {
			break
		}
	}
	p.expect(token.RParen, diag.SynUnclosedDelimiter)
	p.expect(token.Assign, diag.SynUnexpectedToken)
	value := p.parseExpr()
	p.expect(token.Semi, diag.SynExpectSemicolon)
	return p.builder.NewStmt(ast.Stmt{
		Kind:    ast.StmtDestructure,
		Span:    start,
		IsConst: isConst,
		Items:   items,
		Value:   value,
	})
}

func (p *Parser) parseIf() ast.StmtID {
	start := p.tok.Span
	stmt := ast.Stmt{Kind: ast.StmtIf, Span: start}
	p.advance() // if
	p.expect(token.LParen, diag.SynUnexpectedToken)
	stmt.Conds = append(stmt.Conds, p.parseExpr())
	p.expect(token.RParen, diag.SynUnclosedDelimiter)
	stmt.Blocks = append(stmt.Blocks, p.parseBlock())

	for p.at(token.KwElse) {
		p.advance()
		if p.eat(token.KwIf) {
			p.expect(token.LParen, diag.SynUnexpectedToken)
			stmt.Conds = append(stmt.Conds, p.parseExpr())
			p.expect(token.RParen, diag.SynUnclosedDelimiter)
			stmt.Blocks = append(stmt.Blocks, p.parseBlock())
			continue
		}
		stmt.Else = p.parseBlock()
		break
	}
	return p.builder.NewStmt(stmt)
}

// parseFor parses `for (init; cond; update) { ... }`.
func (p *Parser) parseFor() ast.StmtID {
	start := p.tok.Span
	p.advance()
	p.expect(token.LParen, diag.SynUnexpectedToken)
	stmt := ast.Stmt{Kind: ast.StmtFor, Span: start}
	if !p.at(token.Semi) {
		stmt.Init = p.parseSimpleStmt()
	}
	p.expect(token.Semi, diag.SynExpectSemicolon)
	if !p.at(token.Semi) {
		stmt.Cond = p.parseExpr()
	}
	p.expect(token.Semi, diag.SynExpectSemicolon)
	if !p.at(token.RParen) {
		stmt.Update = p.parseExpr()
	}
	p.expect(token.RParen, diag.SynUnclosedDelimiter)
	stmt.Body = p.parseBlock()
	return p.builder.NewStmt(stmt)
}
