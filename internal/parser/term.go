package parser

import (
	"deducels/internal/ast"
	"deducels/internal/diag"
	"deducels/internal/token"
)

// parseTerm - главная точка входа для термов (precedence climbing).
// nil возвращается только после репорта диагностики.
func (p *Parser) parseTerm(minPrec int) *ast.Node {
	leave, deep, ok := p.descend()
	if !ok {
		return deep
	}
	defer leave()

	left := p.parsePrefixTerm()
	if left == nil {
		return nil
	}
	for {
		prec, right := binaryPrec(p.peek())
		if prec < 0 || prec < minPrec {
			break
		}
		b := newBuilder(ast.KindBinary)
		b.add(left, p.advance())

		next := prec + 1
		if right {
			next = prec
		}
		b.add(p.parseTerm(next))
		left = b.finish()
	}
	return left
}

// parsePrefixTerm обрабатывает not, ¬ и унарный минус.
func (p *Parser) parsePrefixTerm() *ast.Node {
	if !isPrefixOp(p.peek()) {
		return p.parsePostfixTerm()
	}
	b := newBuilder(ast.KindPrefix)
	b.add(p.advance())
	b.add(p.parseTerm(precPrefix))
	return b.finish()
}

// parsePostfixTerm: применение f(…) и инстанцирование t[…].
func (p *Parser) parsePostfixTerm() *ast.Node {
	t := p.parsePrimary()
	if t == nil {
		return nil
	}
	for {
		switch p.peek().Kind {
		case token.LParen:
			t = p.parseArgs(ast.KindCall, t, token.RParen)
		case token.LBracket:
			t = p.parseArgs(ast.KindInstantiate, t, token.RBracket)
		default:
			return t
		}
	}
}

// parseArgs разбирает "( term, ... )" или "[ term, ... ]" после callee.
func (p *Parser) parseArgs(kind ast.Kind, callee *ast.Node, closeKind token.Kind) *ast.Node {
	b := newBuilder(kind)
	open := p.advance()
	b.add(callee, open)
	p.parseDelimited(b, closeKind, func() *ast.Node { return p.parseTerm(0) })
	p.expectClose(b, closeKind, open)
	return b.finish()
}

// parseDelimited разбирает элементы через запятую до closeKind (не съедая его).
func (p *Parser) parseDelimited(b *builder, closeKind token.Kind, item func() *ast.Node) {
	defer p.withSync(setOf(closeKind, token.Comma))()
	for !p.at(closeKind) && !p.at(token.EOF) {
		b.add(item())
		if p.eat(b, token.Comma) || p.at(closeKind) {
			continue
		}
		if p.stopsAt(kindSet{}) {
			return
		}
		p.recover(b, diag.SynUnexpectedToken, "expected ',' or '"+closeText(closeKind)+"', got "+p.describe(), kindSet{})
		p.eat(b, token.Comma)
	}
}

func (p *Parser) parsePrimary() *ast.Node {
	tok := p.peek()
	switch tok.Kind {
	case token.Ident, token.KwOperator:
		return p.parseName()
	case token.IntLit, token.StringLit, token.KwTrue, token.KwFalse:
		return ast.NewNode(ast.KindLiteral, p.advance())
	case token.Question:
		return ast.NewNode(ast.KindHole, p.advance())
	case token.LParen:
		b := newBuilder(ast.KindParen)
		open := p.advance()
		b.add(open)
		func() {
			defer p.withSync(setOf(token.RParen))()
			b.add(p.parseTerm(0))
		}()
		p.expectClose(b, token.RParen, open)
		return b.finish()
	case token.LBracket:
		b := newBuilder(ast.KindList)
		open := p.advance()
		b.add(open)
		p.parseDelimited(b, token.RBracket, func() *ast.Node { return p.parseTerm(0) })
		p.expectClose(b, token.RBracket, open)
		return b.finish()
	case token.KwIf:
		return p.parseIf()
	case token.KwSwitch:
		return p.parseSwitch(false)
	case token.KwFun, token.KwLambda:
		return p.parseLambda()
	case token.KwAll, token.KwSome:
		return p.parseQuantifier()
	case token.LBrace:
		b := newBuilder(ast.KindBlock)
		p.parseBlockBody(b)
		return b.finish()
	case token.At:
		return p.parseTypeInst()
	default:
		return p.missing(diag.SynExpectTerm, "expected term, got "+p.describe())
	}
}

// missing репортит отсутствующую конструкцию. Токен, не являющийся точкой
// синхронизации или закрывающей скобкой, уходит в Error-узел.
func (p *Parser) missing(code diag.Code, msg string) *ast.Node {
	d := p.report(code, diag.SevError, p.diagSpan(), msg, nil)
	k := p.peek().Kind
	if k == token.EOF || p.sync.has(k) || isCloser(k) || k == token.Comma {
		return nil
	}
	n := ast.NewNode(ast.KindError, p.advance())
	n.Diags = append(n.Diags, d)
	return n
}

// if T then T [else T]
func (p *Parser) parseIf() *ast.Node {
	b := newBuilder(ast.KindIf)
	b.add(p.advance())
	func() {
		defer p.withSync(setOf(token.KwThen, token.KwElse))()
		b.add(p.parseTerm(0))
		if p.expect(b, token.KwThen, "'then'") {
			b.add(p.parseTerm(0))
		}
	}()
	if p.eat(b, token.KwElse) {
		b.add(p.parseTerm(0))
	}
	return b.finish()
}

// switch T { case PATTERN [assume L] { TERM | PROOF } ... }
func (p *Parser) parseSwitch(proof bool) *ast.Node {
	b := newBuilder(ast.KindSwitch)
	b.add(p.advance())
	func() {
		defer p.withSync(setOf(token.LBrace))()
		b.add(p.parseTerm(0))
	}()
	if !p.at(token.LBrace) {
		p.errHere(b, diag.SynExpectToken, "expected '{' after switch subject, got "+p.describe())
		return b.finish()
	}
	open := p.advance()
	b.add(open)
	func() {
		defer p.withSync(braceSet.union(setOf(token.KwCase)))()
		for !p.at(token.RBrace) && !p.at(token.EOF) {
			if p.at(token.KwCase) {
				b.add(p.parseCase(ast.KindSwitchCase, proof))
				continue
			}
			if p.stopsAt(kindSet{}) {
				break
			}
			p.recover(b, diag.SynUnexpectedToken, "expected 'case', got "+p.describe(), kindSet{})
		}
	}()
	p.expectClose(b, token.RBrace, open)
	return b.finish()
}

// parseCase: case PATTERN [assume L, ...] { TERM | PROOF }
func (p *Parser) parseCase(kind ast.Kind, proof bool) *ast.Node {
	b := newBuilder(kind)
	b.add(p.advance())
	b.add(p.parsePattern())
	if proof && p.at(token.KwAssume) {
		b.add(p.parseAssumeList())
	}
	if !p.at(token.LBrace) {
		p.errHere(b, diag.SynExpectToken, "expected '{' after case pattern, got "+p.describe())
		return b.finish()
	}
	open := p.advance()
	b.add(open)
	func() {
		defer p.withSync(braceSet)()
		if proof {
			defer p.withSync(proofSet)()
			b.add(p.parseProofSeq())
		} else {
			b.add(p.parseTerm(0))
		}
		if !p.at(token.RBrace) && !p.stopsAt(kindSet{}) {
			p.recover(b, diag.SynUnexpectedToken, "unexpected "+p.describe()+" in case body", kindSet{})
		}
	}()
	p.expectClose(b, token.RBrace, open)
	return b.finish()
}

// fun x:T, y:T { body } | λ x { body } | fun (x:T) { body }
func (p *Parser) parseLambda() *ast.Node {
	b := newBuilder(ast.KindLambda)
	b.add(p.advance())
	if p.at(token.LParen) {
		b.add(p.parseParamList())
	} else if !p.at(token.LBrace) {
		params := newBuilder(ast.KindParamList)
		func() {
			defer p.withSync(setOf(token.LBrace))()
			p.parseCommaList(params, p.parseParam)
		}()
		b.add(params.finish())
	}
	if !p.at(token.LBrace) {
		p.errHere(b, diag.SynExpectToken, "expected '{' before lambda body, got "+p.describe())
		return b.finish()
	}
	p.parseBlockBody(b)
	return b.finish()
}

// all|some x:T, ... . TERM
func (p *Parser) parseQuantifier() *ast.Node {
	b := newBuilder(ast.KindQuantifier)
	b.add(p.advance())
	params := newBuilder(ast.KindParamList)
	func() {
		defer p.withSync(setOf(token.Dot))()
		p.parseCommaList(params, p.parseParam)
	}()
	b.add(params.finish())
	if p.expect(b, token.Dot, "'.' after quantified variables") {
		b.add(p.parseTerm(0))
	}
	return b.finish()
}

// parseBlockBody: { (let|define NAME [: T] = TERM [;])* TERM }
// Дети складываются прямо в b: '{', LetBinding..., терм, '}'.
func (p *Parser) parseBlockBody(b *builder) {
	open := p.advance()
	b.add(open)
	func() {
		defer p.withSync(braceSet)()
		for p.at(token.KwLet) || p.at(token.KwDefine) {
			start := p.pos
			b.add(p.parseLetBinding())
			if p.pos == start {
				break
			}
		}
		if !p.at(token.RBrace) {
			b.add(p.parseTerm(0))
		}
		if !p.at(token.RBrace) && !p.stopsAt(kindSet{}) {
			p.recover(b, diag.SynUnexpectedToken, "unexpected "+p.describe()+" in block", kindSet{})
		}
	}()
	p.expectClose(b, token.RBrace, open)
}

// let|define NAME [: T] = TERM [;]
func (p *Parser) parseLetBinding() *ast.Node {
	b := newBuilder(ast.KindLetBinding)
	b.add(p.advance())
	b.add(p.parseBinder())
	if p.eat(b, token.Colon) {
		b.add(p.parseType())
	}
	if p.expectOp(b, "=") {
		func() {
			defer p.withSync(setOf(token.Semicolon, token.KwLet))()
			b.add(p.parseTerm(0))
		}()
	}
	p.eat(b, token.Semicolon)
	return b.finish()
}

// @f<T, ...>
func (p *Parser) parseTypeInst() *ast.Node {
	b := newBuilder(ast.KindTypeInst)
	b.add(p.advance())
	b.add(p.parseName())
	if p.eatOp(b, "<") {
		p.parseCommaList(b, p.parseType)
		p.expectOp(b, ">")
	}
	return b.finish()
}
