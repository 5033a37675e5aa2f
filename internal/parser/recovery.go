package parser

import (
	"deducels/internal/ast"
	"deducels/internal/diag"
	"deducels/internal/token"
)

// kindSet — битовое множество token.Kind.
type kindSet [4]uint64

func setOf(kinds ...token.Kind) kindSet {
	var s kindSet
	for _, k := range kinds {
		s[k>>6] |= 1 << (k & 63)
	}
	return s
}

func (s kindSet) has(k token.Kind) bool {
	return s[k>>6]&(1<<(k&63)) != 0
}

func (s kindSet) union(o kindSet) kindSet {
	for i := range s {
		s[i] |= o[i]
	}
	return s
}

var (
	topLevelSet = setOf(
		token.KwImport, token.KwUnion, token.KwDefine, token.KwFun, token.KwRecursive,
		token.KwTheorem, token.KwLemma, token.KwPostulate, token.KwPrint, token.KwAssert,
		token.KwPrivate, token.KwOpaque,
	)
	braceSet = setOf(token.RBrace)
	proofSet = setOf(
		token.KwHave, token.KwSuppose, token.KwAssume, token.KwArbitrary, token.KwChoose,
		token.KwObtain, token.KwDefine, token.KwConclude, token.KwApply, token.KwInduction,
		token.KwSwitch, token.KwCases, token.KwEquations, token.KwDefinition, token.KwRewrite,
		token.KwReplace, token.KwExpand, token.KwEvaluate, token.KwRecall, token.KwReflexive,
		token.KwSymmetric, token.KwTransitive, token.KwInjective, token.KwExtensionality,
		token.KwSorry, token.KwHelp, token.KwConjunct, token.KwTerm,
		token.KwCase, token.KwEnd, token.RBrace,
	)
)

// withSync расширяет множество синхронизации; вызывать как defer p.withSync(s)().
func (p *Parser) withSync(s kindSet) func() {
	old := p.sync
	p.sync = p.sync.union(s)
	return func() { p.sync = old }
}

// stopsAt — токен, на котором восстановление должно остановиться.
func (p *Parser) stopsAt(extra kindSet) bool {
	k := p.peek().Kind
	return k == token.EOF || p.sync.has(k) || extra.has(k)
}

// skipTo съедает токены до точки синхронизации в Error-узел (или nil).
func (p *Parser) skipTo(extra kindSet) *ast.Node {
	b := newBuilder(ast.KindError)
	for !p.stopsAt(extra) {
		b.add(p.advance())
	}
	return b.finish()
}

// recover репортит ошибку на текущем токене и пропускает до синхронизации.
// Диагностика прикрепляется к Error-узлу, если что-то было пропущено, иначе к b.
func (p *Parser) recover(b *builder, code diag.Code, msg string, extra kindSet) {
	d := p.report(code, diag.SevError, p.diagSpan(), msg, nil)
	skipped := p.skipTo(extra)
	if skipped != nil {
		skipped.Diags = append(skipped.Diags, d)
		b.add(skipped)
		return
	}
	b.diags = append(b.diags, d)
}

func isOpener(k token.Kind) bool {
	return k == token.LParen || k == token.LBracket || k == token.LBrace
}

func isCloser(k token.Kind) bool {
	return k == token.RParen || k == token.RBracket || k == token.RBrace
}

// descend увеличивает глубину. Если лимит превышен, пропускает остаток
// конструкции (сбалансированно по скобкам) и возвращает Error-узел.
func (p *Parser) descend() (leave func(), tooDeep *ast.Node, ok bool) {
	if p.depth >= p.opts.MaxDepth {
		return nil, p.skipTooDeep(), false
	}
	p.depth++
	return func() { p.depth-- }, nil, true
}

func (p *Parser) skipTooDeep() *ast.Node {
	var d []diag.Diagnostic
	if !p.tooDeep {
		p.tooDeep = true
		d = append(d, p.report(diag.SynNestingTooDeep, diag.SevError, p.diagSpan(), "nesting too deep", nil))
	}
	b := newBuilder(ast.KindError)
	b.diags = d
	level := 0
	for !p.at(token.EOF) {
		k := p.peek().Kind
		if level == 0 && (isCloser(k) || p.sync.has(k)) {
			break
		}
		switch {
		case isOpener(k):
			level++
		case isCloser(k):
			level--
		}
		b.add(p.advance())
	}
	return b.finish()
}
