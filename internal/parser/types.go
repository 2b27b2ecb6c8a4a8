package parser

import (
	"fmt"

	"cgull/internal/ast"
	"cgull/internal/diag"
	"cgull/internal/token"
)

// parseType parses `base '*'* ('[' ']')*` where base is a type name or a
// parenthesized tuple of types.
func (p *Parser) parseType() ast.TypeID {
	start := p.tok.Span
	node := ast.TypeNode{Span: start}

	switch p.tok.Kind {
	case token.Ident:
		node.Kind = ast.TypeName
		node.Name = p.intern(p.tok.Text)
		p.advance()
	case token.LParen:
		p.advance()
		node.Kind = ast.TypeTuple
		for !p.at(token.RParen) && !p.at(token.EOF) {
			node.Elems = append(node.Elems, p.parseType())
			if !p.eat(token.Comma) {
				break
			}
		}
		p.expect(token.RParen, diag.SynUnclosedDelimiter)
	default:
		diag.Error(p.reporter, diag.SynExpectType, p.tok.Span,
			fmt.Sprintf("expected type, got %s", describe(p.tok)))
		node.Kind = ast.TypeInvalid
		return p.builder.NewType(node)
	}

	for p.eat(token.Star) {
		node.Stars++
	}
	for p.at(token.LBracket) && p.lx.Peek().Kind == token.RBracket {
		p.advance()
		p.advance()
		node.ArraySuffixes++
	}
	node.Span = start.Cover(p.tok.Span)
	return p.builder.NewType(node)
}
