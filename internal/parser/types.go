package parser

import (
	"deducels/internal/ast"
	"deducels/internal/diag"
	"deducels/internal/token"
)

// parseType: fn T, ... -> T | NAME [< T, ... >] | ( T )
func (p *Parser) parseType() *ast.Node {
	leave, deep, ok := p.descend()
	if !ok {
		return deep
	}
	defer leave()

	switch p.peek().Kind {
	case token.KwFn:
		b := newBuilder(ast.KindTypeFn)
		b.add(p.advance())
		func() {
			defer p.withSync(setOf(token.Arrow))()
			if !p.at(token.Arrow) {
				p.parseCommaList(b, p.parseType)
			}
		}()
		if p.expect(b, token.Arrow, "'->' in function type") {
			b.add(p.parseType())
		}
		return b.finish()

	case token.Ident:
		name := ast.NewNode(ast.KindTypeName, ast.NewNode(ast.KindName, p.advance()))
		if !p.atOp("<") {
			return name
		}
		b := newBuilder(ast.KindTypeApp)
		b.add(name, p.advance())
		p.parseCommaList(b, p.parseType)
		p.expectOp(b, ">")
		return b.finish()

	case token.LParen:
		b := newBuilder(ast.KindTypeParen)
		open := p.advance()
		b.add(open)
		func() {
			defer p.withSync(setOf(token.RParen))()
			b.add(p.parseType())
		}()
		p.expectClose(b, token.RParen, open)
		return b.finish()

	default:
		return p.missing(diag.SynExpectType, "expected type, got "+p.describe())
	}
}

// parseTypeList: ( T, ... ) для recursive и конструкторов.
func (p *Parser) parseTypeList(b *builder) {
	open := p.advance()
	b.add(open)
	p.parseDelimited(b, token.RParen, p.parseType)
	p.expectClose(b, token.RParen, open)
}
