package analysis

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"deducels/internal/ast"
	"deducels/internal/diag"
	"deducels/internal/symbols"
)

const natProgram = `import Base

union Nat { zero suc(Nat) }

recursive operator +(Nat, Nat) -> Nat {
  operator +(zero, m) = m
  operator +(suc(n), m) = suc(n + m)
}

fun twice(x: Nat) -> Nat {
  let y = x + x;
  y
}

theorem zero_plus: all n:Nat. zero + n = n
proof
  arbitrary n:Nat
  definition operator +
end
`

// shape — сравнимая проекция снимка без неэкспортируемых полей.
type shape struct {
	Nodes   []string
	Symbols []string
	Refs    []string
	Diags   []string
}

func shapeOf(s *Snapshot) shape {
	var out shape
	ast.Walk(s.Root, func(n *ast.Node) bool {
		out.Nodes = append(out.Nodes, n.Kind.String()+" "+n.Span.String())
		return true
	})
	for _, sym := range s.Table.Symbols.All() {
		out.Symbols = append(out.Symbols, sym.Kind.String()+" "+sym.Name+" "+sym.Span.String()+" "+s.Table.Describe(sym.Scope))
	}
	for _, ref := range s.Table.Refs {
		target := "unresolved"
		if sym := s.Table.Symbol(ref.Symbol); sym != nil {
			target = sym.Span.String()
		}
		out.Refs = append(out.Refs, ref.Name+" "+ref.Span.String()+" -> "+target)
	}
	for _, d := range s.Diags {
		out.Diags = append(out.Diags, d.Code.ID()+" "+d.Primary.String())
	}
	return out
}

func TestAnalyzeIsDeterministic(t *testing.T) {
	inputs := []string{natProgram, "fun f( { let = ; } theorem", "}}} ((( λ ≤≤ \"open"}
	for _, src := range inputs {
		a := Analyze("file:///tmp/a.pf", src, Options{})
		b := Analyze("file:///tmp/a.pf", src, Options{})
		if diff := cmp.Diff(shapeOf(a), shapeOf(b)); diff != "" {
			t.Fatalf("re-analysis differs (-first +second):\n%s", diff)
		}
	}
}

func TestVerifyHoldsOnValidAndBrokenInput(t *testing.T) {
	inputs := []string{
		natProgram,
		"",
		"theorem t: all x:Nat. x = x proof",
		"union { zero suc( }\nfun (x: { y",
		"define f = fun x { switch x { case zero { 1 } case suc(n) { n",
		strings.Repeat("(", 600) + "x",
		"have h: . by\ncase } end ) ]",
	}
	for _, src := range inputs {
		s := Analyze("file:///tmp/v.pf", src, Options{})
		if err := s.Verify(); err != nil {
			t.Errorf("Verify(%q): %v", src, err)
		}
	}
}

func TestAnalyzeValidProgram(t *testing.T) {
	s := Analyze("file:///work/nat.pf", natProgram, Options{})
	for _, d := range s.Diags {
		if d.Severity == diag.SevError {
			t.Errorf("unexpected error %s at %s: %s", d.Code.ID(), d.Primary, d.Message)
		}
	}
	if diff := cmp.Diff([]Import{{Name: "Base", Span: s.Imports[0].Span}}, s.Imports); diff != "" {
		t.Errorf("imports mismatch (-want +got):\n%s", diff)
	}
	if s.Path == "" || !strings.HasSuffix(s.Path, "nat.pf") {
		t.Errorf("path = %q", s.Path)
	}
	var phases []string
	for _, p := range s.Timings.Phases {
		phases = append(phases, p.Name)
	}
	if diff := cmp.Diff([]string{"lex", "parse", "resolve"}, phases); diff != "" {
		t.Errorf("timings mismatch (-want +got):\n%s", diff)
	}
}

func TestTokenAtOperatorBoundary(t *testing.T) {
	src := "define b = 1 <= 2"
	s := Analyze("file:///tmp/op.pf", src, Options{})
	start := uint32(strings.Index(src, "<="))
	for off := start; off < start+2; off++ {
		tok, ok := s.TokenAt(off)
		if !ok || tok.Text != "<=" {
			t.Fatalf("TokenAt(%d) = %q, %v", off, tok.Text, ok)
		}
	}
	// курсор сразу после "b" попадает на b, а не на пробел
	tok, ok := s.TokenAt(uint32(strings.Index(src, "b") + 1))
	if !ok || tok.Text != "b" {
		t.Fatalf("TokenAt after b = %q, %v", tok.Text, ok)
	}
	if _, ok := s.TokenAt(uint32(len(src) + 5)); ok {
		t.Fatalf("no token expected past the end")
	}
}

func TestScopeAt(t *testing.T) {
	src := "fun f(y:Nat) -> Nat { y }\ndefine z = 1"
	s := Analyze("file:///tmp/s.pf", src, Options{})

	inside := uint32(strings.Index(src, "{ y") + 2)
	if got := s.Table.Describe(s.ScopeAt(inside)); got != "function f" {
		t.Errorf("scope inside body = %q", got)
	}
	after := uint32(strings.Index(src, "}") + 1)
	if got := s.ScopeAt(after); got != s.Table.Root {
		t.Errorf("scope right after the closing brace = %q", s.Table.Describe(got))
	}

	open := "fun g(y:Nat) { y"
	u := Analyze("file:///tmp/u.pf", open, Options{})
	if got := u.Table.Describe(u.ScopeAt(uint32(len(open)))); got != "function g" {
		t.Errorf("scope at the end of an unclosed body = %q", got)
	}
}

func TestLeafAt(t *testing.T) {
	src := "fun operator <= (a:Nat, b:Nat) -> Nat { a }"
	s := Analyze("file:///tmp/l.pf", src, Options{})
	leaf, path := s.LeafAt(uint32(strings.Index(src, "<=") + 1))
	if leaf == nil || leaf.Token.Text != "<=" {
		t.Fatalf("leaf = %+v", leaf)
	}
	if parent := path[len(path)-1]; parent.Kind != ast.KindBinder {
		t.Fatalf("parent = %s", parent.Kind)
	}
	id := s.Table.DeclaredAt(leaf.Span)
	if sym := s.Table.Symbol(id); sym == nil || sym.Kind != symbols.SymbolOperator {
		t.Fatalf("declared symbol = %+v", sym)
	}
}

func TestDefinesAfterUnfinishedProofStayInModule(t *testing.T) {
	s := Analyze("file:///w/a.pf", "theorem t: true\nproof\n  .\n\ndefine y = 1\ndefine z = y\n", Options{})
	var names []string
	for _, id := range s.Table.ModuleSymbols() {
		names = append(names, s.Table.Symbol(id).Name)
	}
	if diff := cmp.Diff([]string{"t", "y", "z"}, names); diff != "" {
		t.Fatalf("module symbols (-want +got):\n%s", diff)
	}
	for _, ref := range s.Table.Refs {
		if ref.Name == "y" && !ref.Resolved() {
			t.Fatalf("reference to y is unresolved")
		}
	}
}

func TestStreamingReporterMatchesSnapshot(t *testing.T) {
	var col diag.Collector
	src := "define = \nunion U { a ( } \ntheorem t: x = \nproof\n  have h: by .\nend\ndefine a = 1\ndefine a = 2\n"
	s := Analyze("file:///w/a.pf", src, Options{Reporter: &col})
	if len(s.Diags) == 0 {
		t.Fatal("expected diagnostics")
	}
	key := func(d diag.Diagnostic) string { return d.Code.ID() + " " + d.Primary.String() }
	streamed := make(map[string]int)
	for _, d := range col.Items {
		streamed[key(d)]++
	}
	stored := make(map[string]int)
	for _, d := range s.Diags {
		stored[key(d)]++
	}
	if diff := cmp.Diff(stored, streamed); diff != "" {
		t.Fatalf("streamed diagnostics differ from snapshot (-snapshot +stream):\n%s", diff)
	}
}
