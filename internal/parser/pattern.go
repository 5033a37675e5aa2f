package parser

import (
	"deducels/internal/ast"
	"deducels/internal/diag"
	"deducels/internal/token"
)

// parsePattern: CTOR | CTOR(x, ...) | literal | []
// Голова — ссылка на конструктор, аргументы — связывания.
func (p *Parser) parsePattern() *ast.Node {
	b := newBuilder(ast.KindPattern)
	switch p.peek().Kind {
	case token.Ident:
		b.add(ast.NewNode(ast.KindName, p.advance()))
		if p.at(token.LParen) {
			open := p.advance()
			b.add(open)
			p.parseDelimited(b, token.RParen, p.parseBinder)
			p.expectClose(b, token.RParen, open)
		}
	case token.IntLit, token.KwTrue, token.KwFalse:
		b.add(ast.NewNode(ast.KindLiteral, p.advance()))
	case token.LBracket:
		open := p.advance()
		b.add(open)
		p.expectClose(b, token.RBracket, open)
	default:
		return p.missing(diag.SynExpectPattern, "expected pattern, got "+p.describe())
	}
	return b.finish()
}
