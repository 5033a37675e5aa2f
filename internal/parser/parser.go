package parser

import (
	"deducels/internal/ast"
	"deducels/internal/diag"
	"deducels/internal/lexer"
	"deducels/internal/source"
	"deducels/internal/token"
)

const defaultMaxDepth = 256

type Options struct {
	// Reporter получает копию каждой диагностики (может быть nil).
	Reporter diag.Reporter
	// MaxDepth ограничивает вложенность термов, типов и доказательств; 0 — значение по умолчанию.
	MaxDepth int
}

type Result struct {
	Root  *ast.Node
	Diags []diag.Diagnostic
}

// Parser — состояние парсера на один файл
type Parser struct {
	file    *source.File
	toks    []token.Token
	pos     int
	opts    Options
	diags   []diag.Diagnostic
	sync    kindSet // текущее множество токенов синхронизации
	depth   int
	tooDeep bool // SynNestingTooDeep репортится один раз на файл
	// outerAtCol0: объявление, чьё доказательство разбирается, начинается
	// с первой колонки; тогда define с первой колонки закрывает доказательство.
	outerAtCol0 bool
}

// ParseFile лексит и парсит файл; диагностики лексера идут первыми.
func ParseFile(file *source.File, opts Options) Result {
	col := &diag.Collector{Next: opts.Reporter}
	toks := lexer.Tokenize(file, lexer.Options{Reporter: col})
	res := Parse(file, toks, opts)
	res.Diags = append(col.Items, res.Diags...)
	return res
}

// Parse строит дерево по готовому потоку токенов. Никогда не останавливается
// раньше EOF: ошибки превращаются в Error-узлы и диагностики.
func Parse(file *source.File, toks []token.Token, opts Options) Result {
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = defaultMaxDepth
	}
	if len(toks) == 0 || toks[len(toks)-1].Kind != token.EOF {
		end := file.Len()
		toks = append(toks, token.Token{Kind: token.EOF, Span: source.Span{File: file.ID, Start: end, End: end}})
	}
	p := &Parser{
		file: file,
		toks: toks,
		opts: opts,
		sync: topLevelSet,
	}
	return Result{Root: p.parseModule(), Diags: p.diags}
}

// parseModule — основной цикл верхнего уровня: пока не EOF — parseStatement.
func (p *Parser) parseModule() *ast.Node {
	root := &ast.Node{
		Kind: ast.KindModule,
		Span: source.Span{File: p.file.ID, Start: 0, End: p.file.Len()},
	}
	for !p.at(token.EOF) {
		start := p.pos
		if st := p.parseStatement(); st != nil {
			root.Children = append(root.Children, st)
		}
		if p.pos == start {
			// гарантия прогресса: хотя бы один токен уходит в Error
			root.Children = append(root.Children, ast.NewNode(ast.KindError, p.advance()))
		}
	}
	return root
}

// atLineStart сообщает, стоит ли tok первым в строке без отступа.
func (p *Parser) atLineStart(tok token.Token) bool {
	return p.file.PositionAt(tok.Span.Start).Character == 0
}

func (p *Parser) peek() token.Token {
	return p.toks[p.pos]
}

func (p *Parser) peekAt(n int) token.Token {
	if p.pos+n >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.pos+n]
}

func (p *Parser) at(k token.Kind) bool {
	return p.toks[p.pos].Kind == k
}

func (p *Parser) atOp(op string) bool {
	return p.toks[p.pos].IsOp(op)
}

// advance съедает текущий токен и возвращает его лист. На EOF — nil.
func (p *Parser) advance() *ast.Node {
	tok := p.toks[p.pos]
	if tok.Kind == token.EOF {
		return nil
	}
	p.pos++
	return ast.NewLeaf(tok)
}

// diagSpan — span для диагностики на текущем токене; на EOF — точка после
// последнего съеденного токена.
func (p *Parser) diagSpan() source.Span {
	tok := p.peek()
	if tok.Kind == token.EOF && p.pos > 0 {
		end := p.toks[p.pos-1].Span.End
		return source.Span{File: tok.Span.File, Start: end, End: end}
	}
	return tok.Span
}

func (p *Parser) report(code diag.Code, sev diag.Severity, sp source.Span, msg string, notes []diag.Note) diag.Diagnostic {
	d := diag.Diagnostic{Severity: sev, Code: code, Message: msg, Primary: sp, Notes: notes}
	p.diags = append(p.diags, d)
	if p.opts.Reporter != nil {
		p.opts.Reporter.Report(code, sev, sp, msg, notes)
	}
	return d
}

// errHere репортит ошибку на текущем токене и прикрепляет её к узлу.
func (p *Parser) errHere(b *builder, code diag.Code, msg string) {
	d := p.report(code, diag.SevError, p.diagSpan(), msg, nil)
	if b != nil {
		b.diags = append(b.diags, d)
	}
}

// describe — как показать текущий токен в сообщении.
func (p *Parser) describe() string {
	tok := p.peek()
	if tok.Kind == token.EOF {
		return "end of file"
	}
	return "'" + tok.Text + "'"
}
