package parser

import (
	"deducels/internal/ast"
	"deducels/internal/diag"
	"deducels/internal/token"
)

// builder накапливает детей узла и диагностики, которые к нему относятся.
type builder struct {
	kind  ast.Kind
	kids  []*ast.Node
	diags []diag.Diagnostic
}

func newBuilder(kind ast.Kind) *builder {
	return &builder{kind: kind}
}

func (b *builder) add(nodes ...*ast.Node) {
	for _, n := range nodes {
		if n != nil {
			b.kids = append(b.kids, n)
		}
	}
}

func (b *builder) empty() bool { return len(b.kids) == 0 }

// finish собирает узел; пустой builder даёт nil.
func (b *builder) finish() *ast.Node {
	n := ast.NewNode(b.kind, b.kids...)
	if n != nil {
		n.Diags = b.diags
	}
	return n
}

// eat съедает токен вида k, если он текущий.
func (p *Parser) eat(b *builder, k token.Kind) bool {
	if !p.at(k) {
		return false
	}
	b.add(p.advance())
	return true
}

// eatOp съедает оператор с данным написанием.
func (p *Parser) eatOp(b *builder, op string) bool {
	if !p.atOp(op) {
		return false
	}
	b.add(p.advance())
	return true
}

// expect — ожидаем конкретный токен. Если нет — репортим, ничего не съедая.
func (p *Parser) expect(b *builder, k token.Kind, what string) bool {
	if p.eat(b, k) {
		return true
	}
	p.errHere(b, diag.SynExpectToken, "expected "+what+", got "+p.describe())
	return false
}

func (p *Parser) expectOp(b *builder, op string) bool {
	if p.eatOp(b, op) {
		return true
	}
	p.errHere(b, diag.SynExpectToken, "expected '"+op+"', got "+p.describe())
	return false
}

// expectClose закрывает скобку; при ошибке указывает на открывающую.
func (p *Parser) expectClose(b *builder, k token.Kind, open *ast.Node) bool {
	if p.eat(b, k) {
		return true
	}
	msg := "expected '" + closeText(k) + "', got " + p.describe()
	var notes []diag.Note
	if open != nil {
		notes = append(notes, diag.Note{Span: open.Span, Msg: "unclosed delimiter opened here"})
	}
	d := p.report(diag.SynUnclosedDelimiter, diag.SevError, p.diagSpan(), msg, notes)
	b.diags = append(b.diags, d)
	return false
}

func closeText(k token.Kind) string {
	switch k {
	case token.RParen:
		return ")"
	case token.RBracket:
		return "]"
	case token.RBrace:
		return "}"
	case token.KwEnd:
		return "end"
	default:
		return k.String()
	}
}

// parseBinder: IDENT | operator OP.
func (p *Parser) parseBinder() *ast.Node {
	return p.parseNameLike(ast.KindBinder)
}

// parseName: ссылка IDENT | operator OP.
func (p *Parser) parseName() *ast.Node {
	return p.parseNameLike(ast.KindName)
}

func (p *Parser) parseNameLike(kind ast.Kind) *ast.Node {
	switch p.peek().Kind {
	case token.Ident:
		return ast.NewNode(kind, p.advance())
	case token.KwOperator:
		b := newBuilder(kind)
		b.add(p.advance())
		if !p.eat(b, token.Operator) {
			p.errHere(b, diag.SynExpectToken, "expected operator after 'operator', got "+p.describe())
		}
		return b.finish()
	default:
		p.errHere(nil, diag.SynExpectIdentifier, "expected identifier, got "+p.describe())
		return nil
	}
}

// parseCommaList разбирает item (, item)* и кладёт всё в b.
func (p *Parser) parseCommaList(b *builder, item func() *ast.Node) {
	for {
		start := p.pos
		b.add(item())
		if !p.eat(b, token.Comma) || p.pos == start {
			return
		}
	}
}

// parseParam: IDENT [: TYPE]
func (p *Parser) parseParam() *ast.Node {
	binder := p.parseBinder()
	if binder == nil {
		return nil
	}
	b := newBuilder(ast.KindParam)
	b.add(binder)
	if p.eat(b, token.Colon) {
		b.add(p.parseType())
	}
	return b.finish()
}

// parseTypeParams: < T, ... > после имени объявления.
func (p *Parser) parseTypeParams() *ast.Node {
	if !p.atOp("<") {
		return nil
	}
	b := newBuilder(ast.KindTypeParams)
	b.add(p.advance())
	p.parseCommaList(b, p.parseBinder)
	p.expectOp(b, ">")
	return b.finish()
}
