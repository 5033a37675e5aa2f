// Package analysis turns one document text into an immutable Snapshot: the
// token stream, the syntax tree, the symbol table and every diagnostic, plus
// the position lookups the query handlers share.
package analysis

import (
	"fmt"

	"deducels/internal/ast"
	"deducels/internal/diag"
	"deducels/internal/lexer"
	"deducels/internal/observ"
	"deducels/internal/parser"
	"deducels/internal/source"
	"deducels/internal/symbols"
	"deducels/internal/token"
)

// Options tunes a single analysis run.
type Options struct {
	// MaxDepth bounds parser nesting; 0 keeps the parser default.
	MaxDepth int
	// Reporter receives each diagnostic as it is produced (may be nil).
	Reporter diag.Reporter
}

// Import is one `import NAME` statement of the document.
type Import struct {
	Name string
	Span source.Span
}

// Snapshot is the result of one full analysis pass over one document text.
// Nothing in it is mutated after Analyze returns, so readers may share it.
type Snapshot struct {
	URI     string
	Path    string
	File    *source.File
	Tokens  []token.Token // включая завершающий EOF
	Root    *ast.Node
	Table   *symbols.Table
	Diags   []diag.Diagnostic // lex, parse and resolve, sorted by position
	Imports []Import
	Timings observ.Report
}

// Analyze runs lexer, parser and resolver over text. It never fails: malformed
// input produces a partial tree and diagnostics.
func Analyze(uri, text string, opts Options) *Snapshot {
	path := source.PathFromURI(uri)
	name := path
	if name == "" {
		name = uri
	}
	fs := source.NewFileSet()
	file := fs.Get(fs.AddText(name, []byte(text), source.FileVirtual))

	timer := observ.NewTimer()
	col := &diag.Collector{}
	if opts.Reporter != nil {
		// поток вызывающему дедуплицируется так же, как Diags снимка
		col.Next = diag.NewDedupReporter(opts.Reporter)
	}

	var toks []token.Token
	timer.Measure("lex", func() string {
		toks = lexer.Tokenize(file, lexer.Options{Reporter: col})
		return fmt.Sprintf("%d tokens", len(toks))
	})

	var parsed parser.Result
	timer.Measure("parse", func() string {
		parsed = parser.Parse(file, toks, parser.Options{Reporter: col, MaxDepth: opts.MaxDepth})
		return fmt.Sprintf("%d statements", len(parsed.Root.Children))
	})

	var resolved symbols.Result
	timer.Measure("resolve", func() string {
		resolved = symbols.Resolve(file, parsed.Root, symbols.Options{Reporter: col})
		return fmt.Sprintf("%d symbols, %d refs", resolved.Table.Symbols.Len(), len(resolved.Table.Refs))
	})

	bag := diag.NewBag(len(col.Items))
	for _, d := range col.Items {
		bag.Add(d)
	}
	bag.Dedup()
	bag.Sort()

	return &Snapshot{
		URI:     uri,
		Path:    path,
		File:    file,
		Tokens:  toks,
		Root:    parsed.Root,
		Table:   resolved.Table,
		Diags:   bag.Items(),
		Imports: collectImports(parsed.Root),
		Timings: timer.Report(),
	}
}

func collectImports(root *ast.Node) []Import {
	var out []Import
	for _, st := range root.AllOf(ast.KindImport) {
		p := st.FirstOf(ast.KindImportPath)
		if p == nil || len(p.Children) == 0 {
			continue
		}
		tok := p.Children[0].Token
		out = append(out, Import{Name: tok.Text, Span: tok.Span})
	}
	return out
}

// HasErrors reports whether any diagnostic is error-severity.
func (s *Snapshot) HasErrors() bool {
	for _, d := range s.Diags {
		if d.Severity >= diag.SevError {
			return true
		}
	}
	return false
}
