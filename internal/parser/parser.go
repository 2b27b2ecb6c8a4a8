package parser

import (
	"fmt"

	"cgull/internal/ast"
	"cgull/internal/diag"
	"cgull/internal/lexer"
	"cgull/internal/source"
	"cgull/internal/token"
)

// Parser builds the arena AST for one file from the token stream.
type Parser struct {
	lx       *lexer.Lexer
	builder  *ast.Builder
	reporter diag.Reporter
	tok      token.Token
}

// ParseFile parses one source file into the builder and returns its FileID.
func ParseFile(file *source.File, builder *ast.Builder, reporter diag.Reporter) ast.FileID {
	p := &Parser{
		lx:       lexer.New(file, reporter),
		builder:  builder,
		reporter: reporter,
	}
	p.advance()
	return p.parseProgram()
}

func (p *Parser) advance() {
	p.tok = p.lx.Next()
}

func (p *Parser) at(kind token.Kind) bool {
	return p.tok.Kind == kind
}

// eat consumes the current token if it matches.
func (p *Parser) eat(kind token.Kind) bool {
	if p.at(kind) {
		p.advance()
		return true
	}
	return false
}

// expect consumes a token of the given kind or reports a syntax error.
func (p *Parser) expect(kind token.Kind, code diag.Code) (token.Token, bool) {
	tok := p.tok
	if p.at(kind) {
		p.advance()
		return tok, true
	}
	diag.Error(p.reporter, code, tok.Span,
		fmt.Sprintf("expected %s, got %s", kind, describe(tok)))
	return tok, false
}

func describe(tok token.Token) string {
	if tok.Kind == token.EOF {
		return "end of file"
	}
	if tok.Text != "" {
		return fmt.Sprintf("'%s'", tok.Text)
	}
	return tok.Kind.String()
}

func (p *Parser) intern(text string) source.StringID {
	return p.builder.Strings.Intern(text)
}

// syncStmt skips tokens until a statement boundary after a syntax error.
func (p *Parser) syncStmt() {
	for !p.at(token.EOF) {
		if p.eat(token.Semi) {
			return
		}
		if p.at(token.RBrace) {
			return
		}
		p.advance()
	}
}

func (p *Parser) parseProgram() ast.FileID {
	start := p.tok.Span
	var items []ast.ItemID
	for !p.at(token.EOF) {
		before := p.tok
		if id := p.parseTopLevelItem(); id.IsValid() {
			items = append(items, id)
		}
		// гарантируем прогресс при ошибках
		if p.tok == before {
			p.advance()
		}
	}
	return p.builder.NewFile(ast.File{
		Items: items,
		Span:  start.Cover(p.tok.Span),
	})
}

func (p *Parser) parseTopLevelItem() ast.ItemID {
	switch p.tok.Kind {
	case token.KwStruct:
		return p.parseStruct()
	case token.KwFn:
		return p.parseFn()
	case token.KwVar, token.KwConst:
		declSpan := p.tok.Span
		decl := p.parseVarDeclStmt()
		if !decl.IsValid() {
			return ast.NoItemID
		}
		stmt := p.builder.Stmt(decl)
		return p.builder.NewItem(ast.Item{
			Kind: ast.ItemVar,
			Span: declSpan.Cover(stmt.Span),
			Name: stmt.Name,
			Decl: decl,
		})
	default:
		diag.Error(p.reporter, diag.SynUnexpectedToken, p.tok.Span,
			fmt.Sprintf("expected declaration, got %s", describe(p.tok)))
		p.syncStmt()
		return ast.NoItemID
	}
}
