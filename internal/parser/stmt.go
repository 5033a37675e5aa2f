package parser

import (
	"deducels/internal/ast"
	"deducels/internal/diag"
	"deducels/internal/token"
)

// parseStatement выбирает по первому токену нужный распознаватель.
// Модификаторы private/opaque становятся первыми детьми оператора.
func (p *Parser) parseStatement() *ast.Node {
	var mods []*ast.Node
	for p.at(token.KwPrivate) || p.at(token.KwOpaque) {
		mods = append(mods, ast.NewNode(ast.KindModifier, p.advance()))
	}

	var st *ast.Node
	switch p.peek().Kind {
	case token.KwImport:
		st = p.parseImport()
	case token.KwUnion:
		st = p.parseUnion()
	case token.KwDefine:
		st = p.parseDefine()
	case token.KwFun:
		st = p.parseFun()
	case token.KwRecursive:
		st = p.parseRecursive()
	case token.KwTheorem, token.KwLemma, token.KwPostulate:
		st = p.parseTheorem()
	case token.KwPrint, token.KwAssert:
		b := newBuilder(ast.KindPrint)
		if p.at(token.KwAssert) {
			b.kind = ast.KindAssert
		}
		b.add(p.advance())
		b.add(p.parseTerm(0))
		st = b.finish()
	default:
		if len(mods) > 0 {
			b := newBuilder(ast.KindError)
			b.add(mods...)
			p.errHere(b, diag.SynUnexpectedToken, "expected declaration after modifier, got "+p.describe())
			return b.finish()
		}
		b := newBuilder(ast.KindError)
		p.recover(b, diag.SynUnexpectedTopLevel, "unexpected "+p.describe()+" at top level", kindSet{})
		return b.finish()
	}
	if len(mods) == 0 || st == nil {
		return st
	}
	st.Children = append(mods, st.Children...)
	st.Span = mods[0].Span.Cover(st.Span)
	return st
}

// import NAME
func (p *Parser) parseImport() *ast.Node {
	b := newBuilder(ast.KindImport)
	b.add(p.advance())
	if p.at(token.Ident) {
		b.add(ast.NewNode(ast.KindImportPath, p.advance()))
	} else {
		p.errHere(b, diag.SynExpectIdentifier, "expected module name after 'import', got "+p.describe())
	}
	return b.finish()
}

// union NAME [<T,...>] { CTOR [(T, ...)] ... }
func (p *Parser) parseUnion() *ast.Node {
	b := newBuilder(ast.KindUnion)
	b.add(p.advance())
	b.add(p.parseBinder())
	b.add(p.parseTypeParams())
	if !p.at(token.LBrace) {
		p.errHere(b, diag.SynExpectToken, "expected '{' after union name, got "+p.describe())
		return b.finish()
	}
	open := p.advance()
	b.add(open)
	func() {
		defer p.withSync(braceSet)()
		for !p.at(token.RBrace) && !p.at(token.EOF) {
			if p.at(token.Ident) {
				ctor := newBuilder(ast.KindConstructor)
				ctor.add(p.parseBinder())
				if p.at(token.LParen) {
					p.parseTypeList(ctor)
				}
				b.add(ctor.finish())
				continue
			}
			if p.stopsAt(kindSet{}) {
				break
			}
			p.recover(b, diag.SynUnexpectedToken, "expected constructor, got "+p.describe(), setOf(token.Ident))
		}
	}()
	p.expectClose(b, token.RBrace, open)
	return b.finish()
}

// define NAME [<T,...>] [: TYPE] = TERM
func (p *Parser) parseDefine() *ast.Node {
	b := newBuilder(ast.KindDefine)
	b.add(p.advance())
	b.add(p.parseBinder())
	b.add(p.parseTypeParams())
	if p.eat(b, token.Colon) {
		b.add(p.parseType())
	}
	if p.expectOp(b, "=") {
		b.add(p.parseTerm(0))
	}
	return b.finish()
}

// fun NAME [<T,...>] (PARAM, ...) [-> TYPE] { BODY }
func (p *Parser) parseFun() *ast.Node {
	b := newBuilder(ast.KindFun)
	b.add(p.advance())
	b.add(p.parseBinder())
	b.add(p.parseTypeParams())
	if p.at(token.LParen) {
		b.add(p.parseParamList())
	} else {
		p.errHere(b, diag.SynExpectToken, "expected '(' before parameters, got "+p.describe())
	}
	if p.eat(b, token.Arrow) {
		b.add(p.parseResultType())
	}
	if !p.at(token.LBrace) {
		p.errHere(b, diag.SynExpectToken, "expected '{' before function body, got "+p.describe())
		return b.finish()
	}
	body := newBuilder(ast.KindBody)
	p.parseBlockBody(body)
	b.add(body.finish())
	return b.finish()
}

// (PARAM, ...)
func (p *Parser) parseParamList() *ast.Node {
	b := newBuilder(ast.KindParamList)
	open := p.advance()
	b.add(open)
	func() {
		defer p.withSync(setOf(token.LBrace, token.Arrow))()
		p.parseDelimited(b, token.RParen, p.parseParam)
	}()
	p.expectClose(b, token.RParen, open)
	return b.finish()
}

// recursive NAME [<T,...>] (TYPE, ...) -> TYPE { EQUATION ... }
func (p *Parser) parseRecursive() *ast.Node {
	b := newBuilder(ast.KindRecursive)
	b.add(p.advance())
	b.add(p.parseBinder())
	b.add(p.parseTypeParams())
	if p.at(token.LParen) {
		p.parseTypeList(b)
	} else {
		p.errHere(b, diag.SynExpectToken, "expected '(' before parameter types, got "+p.describe())
	}
	if p.expect(b, token.Arrow, "'->' before result type") {
		b.add(p.parseResultType())
	}
	if !p.at(token.LBrace) {
		p.errHere(b, diag.SynExpectToken, "expected '{' before equations, got "+p.describe())
		return b.finish()
	}
	open := p.advance()
	b.add(open)
	func() {
		defer p.withSync(braceSet)()
		for !p.at(token.RBrace) && !p.at(token.EOF) {
			if p.at(token.Ident) || p.at(token.KwOperator) {
				b.add(p.parseEquation())
				continue
			}
			if p.stopsAt(kindSet{}) {
				break
			}
			p.recover(b, diag.SynUnexpectedToken, "expected equation, got "+p.describe(), setOf(token.Ident, token.KwOperator))
		}
	}()
	p.expectClose(b, token.RBrace, open)
	return b.finish()
}

// NAME ( PATTERN {, IDENT} ) = TERM, NAME может быть `operator OP`
func (p *Parser) parseEquation() *ast.Node {
	b := newBuilder(ast.KindEquation)
	b.add(p.parseName())
	if !p.at(token.LParen) {
		p.errHere(b, diag.SynExpectToken, "expected '(' after function name, got "+p.describe())
		return b.finish()
	}
	open := p.advance()
	b.add(open)
	func() {
		defer p.withSync(setOf(token.RParen, token.Comma))()
		b.add(p.parsePattern())
		for p.eat(b, token.Comma) {
			b.add(p.parseBinder())
		}
	}()
	if !p.expectClose(b, token.RParen, open) {
		b.add(p.skipTo(setOf(token.RParen, token.Ident)))
		p.eat(b, token.RParen)
	}
	if p.expectOp(b, "=") {
		b.add(p.parseTerm(0))
	}
	return b.finish()
}

// theorem|lemma|postulate NAME [<T,...>] : TERM [proof PROOF end]
func (p *Parser) parseTheorem() *ast.Node {
	b := newBuilder(ast.KindTheorem)
	kw := p.advance()
	b.add(kw)
	b.add(p.parseBinder())
	b.add(p.parseTypeParams())
	if p.expect(b, token.Colon, "':' before theorem statement") {
		func() {
			defer p.withSync(setOf(token.KwProof))()
			b.add(p.parseTerm(0))
		}()
	}
	if !p.at(token.KwProof) {
		if kw.Token.Kind != token.KwPostulate {
			p.errHere(b, diag.SynExpectToken, "expected 'proof', got "+p.describe())
		}
		return b.finish()
	}
	open := p.advance()
	b.add(open)
	func() {
		defer p.withSync(proofSet)()
		saved := p.outerAtCol0
		p.outerAtCol0 = p.atLineStart(*kw.Token)
		defer func() { p.outerAtCol0 = saved }()
		b.add(p.parseProofSeq())
		for p.at(token.RBrace) || p.at(token.KwCase) {
			// лишние '}' или 'case' внутри доказательства
			d := p.report(diag.SynUnexpectedToken, diag.SevError, p.diagSpan(), "unexpected "+p.describe()+" in proof", nil)
			skipped := ast.NewNode(ast.KindError, p.advance())
			skipped.Diags = append(skipped.Diags, d)
			b.add(skipped)
			b.add(p.parseProofSeq())
		}
	}()
	if !p.eat(b, token.KwEnd) {
		d := p.report(diag.SynMissingEnd, diag.SevError, p.diagSpan(), "missing 'end' after proof",
			[]diag.Note{{Span: open.Span, Msg: "proof starts here"}})
		b.diags = append(b.diags, d)
	}
	return b.finish()
}

// parseResultType — тип результата перед '{' тела.
func (p *Parser) parseResultType() *ast.Node {
	defer p.withSync(setOf(token.LBrace))()
	return p.parseType()
}
