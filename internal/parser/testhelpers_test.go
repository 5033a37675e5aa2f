package parser

import (
	"strings"
	"testing"

	"deducels/internal/ast"
	"deducels/internal/diag"
	"deducels/internal/lexer"
	"deducels/internal/source"
	"deducels/internal/token"
)

func parseSnippet(t *testing.T, src string) (Result, *source.File) {
	t.Helper()
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("snippet.pf", []byte(src)))
	return ParseFile(file, Options{}), file
}

func errorsOf(diags []diag.Diagnostic) []string {
	var out []string
	for _, d := range diags {
		if d.Severity == diag.SevError {
			out = append(out, d.Code.ID()+" "+d.Primary.String()+": "+d.Message)
		}
	}
	return out
}

// leafTexts — тексты листьев в порядке обхода.
func leafTexts(root *ast.Node) []string {
	var out []string
	for l := range root.Leaves() {
		out = append(out, l.Token.Text)
	}
	return out
}

func tokenTexts(file *source.File) []string {
	var out []string
	for _, tok := range lexer.Tokenize(file, lexer.Options{}) {
		if tok.Kind != token.EOF {
			out = append(out, tok.Text)
		}
	}
	return out
}

// checkSpans проверяет, что каждый узел покрывает ровно своих детей.
func checkSpans(t *testing.T, n *ast.Node) {
	t.Helper()
	ast.Walk(n, func(m *ast.Node) bool {
		if m.Kind == ast.KindToken {
			if m.Token == nil || m.Span != m.Token.Span {
				t.Fatalf("leaf span mismatch at %v", m.Span)
			}
			return false
		}
		if len(m.Children) == 0 {
			if m.Kind != ast.KindModule {
				t.Fatalf("%v node without children", m.Kind)
			}
			return false
		}
		if m.Kind != ast.KindModule {
			first, last := m.Children[0], m.Children[len(m.Children)-1]
			if m.Span.Start != first.Span.Start || m.Span.End != last.Span.End {
				t.Fatalf("%v span %v does not match children %v..%v", m.Kind, m.Span, first.Span, last.Span)
			}
		}
		prev := m.Span.Start
		for _, c := range m.Children {
			if c.Span.Start < prev || !m.Span.Encloses(c.Span) {
				t.Fatalf("%v child %v out of order or outside %v", m.Kind, c.Span, m.Span)
			}
			prev = c.Span.End
		}
		return true
	})
}

func findAll(root *ast.Node, kind ast.Kind) []*ast.Node {
	var out []*ast.Node
	ast.Walk(root, func(n *ast.Node) bool {
		if n.Kind == kind {
			out = append(out, n)
		}
		return true
	})
	return out
}

func joinTexts(xs []string) string { return strings.Join(xs, " ") }
