package parser

import (
	"deducels/internal/ast"
	"deducels/internal/diag"
	"deducels/internal/token"
)

// parseProofSeq разбирает последовательность шагов доказательства до
// end, '}', case, EOF или начала следующего объявления. define внутри
// доказательства локален, кроме define без отступа под объявлением без
// отступа: это уже следующее объявление модуля.
func (p *Parser) parseProofSeq() *ast.Node {
	b := newBuilder(ast.KindProof)
	for {
		tok := p.peek()
		k := tok.Kind
		if k == token.EOF || k == token.KwEnd || k == token.RBrace || k == token.KwCase {
			break
		}
		if topLevelSet.has(k) && k != token.KwDefine {
			break
		}
		if k == token.KwDefine && p.outerAtCol0 && p.atLineStart(tok) {
			break
		}
		start := p.pos
		b.add(p.parseProofStmt())
		if p.pos == start {
			break
		}
	}
	return b.finish()
}

// parseProofStmt: шаги, которые вводят имена или факты; остальное — proof term.
func (p *Parser) parseProofStmt() *ast.Node {
	leave, deep, ok := p.descend()
	if !ok {
		return deep
	}
	defer leave()

	switch p.peek().Kind {
	case token.KwHave:
		return p.parseHave()
	case token.KwSuppose, token.KwAssume:
		b := newBuilder(ast.KindSuppose)
		b.add(p.advance())
		if p.at(token.Ident) {
			b.add(p.parseBinder())
		}
		if p.eat(b, token.Colon) {
			b.add(p.parseTerm(0))
		}
		return b.finish()
	case token.KwArbitrary:
		b := newBuilder(ast.KindArbitrary)
		b.add(p.advance())
		p.parseCommaList(b, p.parseParam)
		return b.finish()
	case token.KwChoose:
		b := newBuilder(ast.KindChoose)
		b.add(p.advance())
		p.parseCommaList(b, func() *ast.Node { return p.parseTerm(0) })
		return b.finish()
	case token.KwObtain:
		return p.parseObtain()
	case token.KwDefine:
		b := newBuilder(ast.KindProofDefine)
		b.add(p.advance())
		b.add(p.parseBinder())
		if p.eat(b, token.Colon) {
			b.add(p.parseType())
		}
		if p.expectOp(b, "=") {
			b.add(p.parseTerm(0))
		}
		return b.finish()
	case token.KwConclude:
		b := newBuilder(ast.KindConclude)
		b.add(p.advance())
		p.parseFactBy(b)
		return b.finish()
	case token.KwInduction:
		return p.parseInduction()
	case token.KwSwitch:
		return p.parseSwitch(true)
	case token.KwCases:
		return p.parseCases()
	default:
		return p.parseProofTerm()
	}
}

// have [LABEL] : TERM [by PROOF]
func (p *Parser) parseHave() *ast.Node {
	b := newBuilder(ast.KindHave)
	b.add(p.advance())
	if p.at(token.Ident) {
		b.add(p.parseBinder())
	}
	if p.expect(b, token.Colon, "':' after have label") {
		p.parseFactBy(b)
	}
	return b.finish()
}

// parseFactBy: TERM [by PROOF]
func (p *Parser) parseFactBy(b *builder) {
	func() {
		defer p.withSync(setOf(token.KwBy))()
		b.add(p.parseTerm(0))
	}()
	if p.eat(b, token.KwBy) {
		b.add(p.parseProofTerm())
	}
}

// obtain x, ... where LABEL : TERM from PROOF
func (p *Parser) parseObtain() *ast.Node {
	b := newBuilder(ast.KindObtain)
	b.add(p.advance())
	func() {
		defer p.withSync(setOf(token.KwWhere, token.KwFrom))()
		p.parseCommaList(b, p.parseBinder)
		if !p.expect(b, token.KwWhere, "'where' after obtained names") {
			return
		}
		b.add(p.parseBinder())
		if p.expect(b, token.Colon, "':' after label") {
			b.add(p.parseTerm(0))
		}
	}()
	if p.expect(b, token.KwFrom, "'from'") {
		b.add(p.parseProofTerm())
	}
	return b.finish()
}

// induction TYPE case PATTERN [assume IH, ...] { PROOF } ...
func (p *Parser) parseInduction() *ast.Node {
	b := newBuilder(ast.KindInduction)
	b.add(p.advance())
	func() {
		defer p.withSync(setOf(token.KwCase))()
		b.add(p.parseType())
	}()
	for p.at(token.KwCase) {
		b.add(p.parseCase(ast.KindInductionCase, true))
	}
	return b.finish()
}

// assume L, ...
func (p *Parser) parseAssumeList() *ast.Node {
	b := newBuilder(ast.KindAssumeList)
	b.add(p.advance())
	p.parseCommaList(b, p.parseAssumption)
	return b.finish()
}

// LABEL [: TERM]
func (p *Parser) parseAssumption() *ast.Node {
	binder := p.parseBinder()
	if binder == nil || !p.at(token.Colon) {
		return binder
	}
	b := newBuilder(ast.KindParam)
	b.add(binder, p.advance())
	func() {
		defer p.withSync(setOf(token.LBrace))()
		b.add(p.parseTerm(0))
	}()
	return b.finish()
}

// cases PROOF case LABEL : TERM { PROOF } ...
func (p *Parser) parseCases() *ast.Node {
	b := newBuilder(ast.KindCases)
	b.add(p.advance())
	func() {
		defer p.withSync(setOf(token.KwCase))()
		b.add(p.parseProofTerm())
	}()
	for p.at(token.KwCase) {
		br := newBuilder(ast.KindCasesBranch)
		br.add(p.advance())
		br.add(p.parseBinder())
		if p.expect(br, token.Colon, "':' after case label") {
			func() {
				defer p.withSync(setOf(token.LBrace))()
				br.add(p.parseTerm(0))
			}()
		}
		if p.at(token.LBrace) {
			br.add(p.parseProofBlock())
		} else {
			p.errHere(br, diag.SynExpectToken, "expected '{' before case proof, got "+p.describe())
		}
		b.add(br.finish())
	}
	return b.finish()
}

// { PROOF }
func (p *Parser) parseProofBlock() *ast.Node {
	b := newBuilder(ast.KindProofBlock)
	open := p.advance()
	b.add(open)
	func() {
		defer p.withSync(proofSet)()
		b.add(p.parseProofSeq())
	}()
	p.expectClose(b, token.RBrace, open)
	return b.finish()
}

// parseProofTerm — одиночное доказательство (то, что стоит после by/from/to).
func (p *Parser) parseProofTerm() *ast.Node {
	leave, deep, ok := p.descend()
	if !ok {
		return deep
	}
	defer leave()

	tok := p.peek()
	switch tok.Kind {
	case token.Dot:
		return ast.NewNode(ast.KindTruth, p.advance())
	case token.LBrace:
		return p.parseProofBlock()
	case token.LParen:
		b := newBuilder(ast.KindParen)
		open := p.advance()
		b.add(open)
		func() {
			defer p.withSync(setOf(token.RParen))()
			b.add(p.parseProofTerm())
		}()
		p.expectClose(b, token.RParen, open)
		return b.finish()
	case token.Ident:
		name := p.parseName()
		if !p.at(token.LBracket) {
			return name
		}
		return p.parseArgs(ast.KindInstantiate, name, token.RBracket)
	case token.KwApply:
		b := newBuilder(ast.KindApply)
		b.add(p.advance())
		func() {
			defer p.withSync(setOf(token.KwTo))()
			b.add(p.parseProofTerm())
		}()
		if p.expect(b, token.KwTo, "'to'") {
			b.add(p.parseProofTerm())
		}
		return b.finish()
	case token.KwEquations:
		return p.parseEquations()
	case token.KwDefinition:
		b := newBuilder(ast.KindDefinition)
		b.add(p.advance())
		if p.at(token.LBrace) {
			open := p.advance()
			b.add(open)
			p.parseDelimited(b, token.RBrace, p.parseName)
			p.expectClose(b, token.RBrace, open)
		} else {
			b.add(p.parseName())
		}
		p.parseInClause(b)
		return b.finish()
	case token.KwRewrite, token.KwReplace, token.KwExpand:
		b := newBuilder(ast.KindRewrite)
		b.add(p.advance())
		b.add(p.parseProofTerm())
		for p.eat(b, token.Pipe) {
			b.add(p.parseProofTerm())
		}
		p.parseInClause(b)
		return b.finish()
	case token.KwEvaluate:
		b := newBuilder(ast.KindProofOp)
		b.add(p.advance())
		p.parseInClause(b)
		return b.finish()
	case token.KwRecall:
		b := newBuilder(ast.KindRecall)
		b.add(p.advance())
		p.parseCommaList(b, func() *ast.Node { return p.parseTerm(0) })
		return b.finish()
	case token.KwReflexive, token.KwExtensionality, token.KwSorry:
		return ast.NewNode(ast.KindProofOp, p.advance())
	case token.KwSymmetric, token.KwHelp:
		b := newBuilder(ast.KindProofOp)
		b.add(p.advance())
		b.add(p.parseProofTerm())
		return b.finish()
	case token.KwTransitive:
		b := newBuilder(ast.KindProofOp)
		b.add(p.advance())
		b.add(p.parseProofTerm())
		b.add(p.parseProofTerm())
		return b.finish()
	case token.KwInjective:
		b := newBuilder(ast.KindProofOp)
		b.add(p.advance())
		b.add(p.parseTerm(0))
		return b.finish()
	case token.KwConjunct:
		b := newBuilder(ast.KindConjunct)
		b.add(p.advance())
		p.expect(b, token.IntLit, "conjunct index")
		if p.expect(b, token.KwOf, "'of'") {
			b.add(p.parseProofTerm())
		}
		return b.finish()
	case token.KwTerm:
		b := newBuilder(ast.KindTermProof)
		b.add(p.advance())
		p.parseFactBy(b)
		return b.finish()
	default:
		if p.stopsAt(kindSet{}) {
			p.errHere(nil, diag.SynExpectProof, "expected proof, got "+p.describe())
			return nil
		}
		// съедаем хотя бы текущий токен, даже если это лишняя скобка
		d := p.report(diag.SynExpectProof, diag.SevError, p.diagSpan(), "expected proof, got "+p.describe(), nil)
		b := newBuilder(ast.KindError)
		b.add(p.advance())
		for !p.stopsAt(setOf(token.RParen, token.RBracket)) {
			b.add(p.advance())
		}
		n := b.finish()
		n.Diags = append(n.Diags, d)
		return n
	}
}

// [in PROOF]
func (p *Parser) parseInClause(b *builder) {
	if p.eat(b, token.KwIn) {
		b.add(p.parseProofTerm())
	}
}

// equations A = B by P ... = C by Q
func (p *Parser) parseEquations() *ast.Node {
	b := newBuilder(ast.KindEquations)
	b.add(p.advance())
	first := newBuilder(ast.KindEquationStep)
	p.parseFactBy(first)
	b.add(first.finish())
	for p.at(token.Ellipsis) {
		step := newBuilder(ast.KindEquationStep)
		step.add(p.advance())
		if !p.eat(step, token.Operator) {
			p.errHere(step, diag.SynExpectToken, "expected '=' after '...', got "+p.describe())
		}
		p.parseFactBy(step)
		b.add(step.finish())
	}
	return b.finish()
}
