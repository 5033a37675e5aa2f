package query

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"deducels/internal/analysis"
	"deducels/internal/diag"
	"deducels/internal/source"
)

func analyze(t *testing.T, uri, src string) *analysis.Snapshot {
	t.Helper()
	s := analysis.Analyze(uri, src, analysis.Options{})
	if err := s.Verify(); err != nil {
		t.Fatalf("snapshot invariants: %v", err)
	}
	return s
}

func envOf(t *testing.T, src string) Env {
	t.Helper()
	return Env{Doc: analyze(t, "file:///work/test.pf", src)}
}

func posAt(e Env, off int) source.Position {
	return e.Doc.File.PositionAt(uint32(off))
}

func labels(items []CompletionItem) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.Label)
	}
	return out
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func empty() *string {
	s := ""
	return &s
}

func TestOperatorBoundary(t *testing.T) {
	src := `fun operator <= (a:Nat, b:Nat) -> Nat { a }
fun operator < (a:Nat, b:Nat) -> Nat { b }
define t = 1 <= 2
define u = 1 < 2`
	e := envOf(t, src)
	le := strings.Index(src, "<=")
	lt := strings.Index(src, "< (")
	use := strings.LastIndex(src, "<=")
	for off := use; off < use+2; off++ {
		loc, ok := Definition(e, posAt(e, off))
		if !ok || loc.Span.Start != uint32(le) || loc.Span.End != uint32(le+2) {
			t.Fatalf("definition at offset %d = %+v, %v; want the <= binder", off, loc, ok)
		}
		h, ok := HoverAt(e, posAt(e, off))
		if !ok || h.Name != "<=" || h.Kind != "operator" {
			t.Fatalf("hover at offset %d = %+v, %v", off, h, ok)
		}
		if h.Signature != "operator <=(a: Nat, b: Nat) -> Nat" {
			t.Errorf("hover signature = %q", h.Signature)
		}
	}
	loc, ok := Definition(e, posAt(e, strings.LastIndex(src, "<")))
	if !ok || loc.Span.Start != uint32(lt) {
		t.Fatalf("definition of < = %+v, %v", loc, ok)
	}
	// курсор на ключевом слове operator ведёт к самому оператору
	loc, ok = Definition(e, posAt(e, strings.Index(src, "operator")))
	if !ok || loc.Span.Start != uint32(le) {
		t.Fatalf("definition on the operator keyword = %+v, %v", loc, ok)
	}
}

func TestDefinitionFixedPoint(t *testing.T) {
	src := `union Nat { zero suc(Nat) }
recursive operator +(Nat, Nat) -> Nat {
  operator +(zero, m) = m
  operator +(suc(n), m) = suc(n + m)
}
fun double(x: Nat) -> Nat {
  let y = x + x;
  y
}
theorem plus_zero: all n:Nat. n + zero = n
proof
  arbitrary n:Nat
  induction Nat
  case zero {
    conclude zero + zero = zero by definition operator +
  }
  case suc(k) assume IH: k + zero = k {
    have step: suc(k) + zero = suc(k + zero) by definition operator +
    rewrite step | IH
  }
end
`
	e := envOf(t, src)
	checked := 0
	for _, ref := range e.Doc.Table.Refs {
		if !ref.Resolved() {
			continue
		}
		decl := e.Doc.Table.Symbol(ref.Symbol).Span
		loc, ok := Definition(e, e.Doc.File.PositionAt(ref.Span.Start))
		if !ok || loc.Span != decl {
			t.Fatalf("definition of %q at %s = %+v, %v; want %s", ref.Name, ref.Span, loc.Span, ok, decl)
		}
		again, ok := Definition(e, loc.Range.Start)
		if !ok || again.Span != decl {
			t.Fatalf("definition at declaration %s = %+v, %v", decl, again.Span, ok)
		}
		checked++
	}
	if checked < 20 {
		t.Fatalf("only %d resolved references checked", checked)
	}
	if _, ok := Definition(e, posAt(e, strings.Index(src, "proof"))); ok {
		t.Fatalf("keywords have no definition")
	}
}

func TestShadowedLocal(t *testing.T) {
	src := "fun f(y:Nat) -> Nat { let x = 1; let x = 2; x }"
	e := envOf(t, src)
	second := strings.Index(src, "let x = 2") + 4
	use := strings.LastIndex(src, "x")

	loc, ok := Definition(e, posAt(e, use))
	if !ok || loc.Span.Start != uint32(second) {
		t.Fatalf("definition = %+v, %v", loc, ok)
	}
	h, ok := HoverAt(e, posAt(e, use))
	if !ok || h.Kind != "local-variable" || h.Scope != "function f" {
		t.Fatalf("hover = %+v, %v", h, ok)
	}
	if md := h.Markdown(); !strings.Contains(md, "local-variable x") || !strings.Contains(md, "declared in function f") {
		t.Errorf("markdown:\n%s", md)
	}

	items := Completion(e, posAt(e, use+1), nil, DefaultCompletionOptions())
	var xs []CompletionItem
	for _, it := range items {
		if it.Label == "x" {
			xs = append(xs, it)
		}
	}
	if len(xs) != 1 || items[0].Label != "x" {
		t.Fatalf("completion = %v", labels(items))
	}

	var warnings int
	for _, d := range Diagnostics(e.Doc, 0) {
		if d.Code == diag.SemaDuplicateSymbol.ID() && d.Severity == diag.SevWarning {
			warnings++
			if len(d.Notes) != 1 {
				t.Errorf("shadowing warning without note: %+v", d)
			}
		}
	}
	if warnings != 1 {
		t.Fatalf("expected one shadowing warning, got %d", warnings)
	}
}

func TestCompletionScoping(t *testing.T) {
	src := "fun f(x:Nat) -> Nat {\n  let y = x;\n  y\n}\ndefine z = y\n"
	e := envOf(t, src)
	end := strings.Index(src, "}") + 1
	for off := 0; off <= len(src); off++ {
		got := labels(Completion(e, posAt(e, off), empty(), CompletionOptions{}))
		inside := off < end
		if contains(got, "y") != inside || contains(got, "x") != inside {
			t.Fatalf("offset %d (inside=%v): completion %v", off, inside, got)
		}
		if !contains(got, "f") {
			t.Fatalf("offset %d: module function missing from %v", off, got)
		}
	}
}

func TestCompletionFilteringAndKeywords(t *testing.T) {
	src := "define natural_total = 1\ndefine Nested = 2\ndefine other = 3\ndefine q = "
	e := envOf(t, src)
	pos := posAt(e, len(src))

	prefix := "N"
	got := labels(Completion(e, pos, &prefix, CompletionOptions{}))
	want := []string{"Nested", "natural_total"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("case-folded prefix (-want +got):\n%s", diff)
	}

	prefix = "ntt"
	if got := labels(Completion(e, pos, &prefix, CompletionOptions{})); len(got) != 0 {
		t.Errorf("prefix matching must not be fuzzy: %v", got)
	}
	got = labels(Completion(e, pos, &prefix, CompletionOptions{Fuzzy: true}))
	if !contains(got, "natural_total") {
		t.Errorf("fuzzy completion = %v", got)
	}

	prefix = "ind"
	got = labels(Completion(e, pos, &prefix, DefaultCompletionOptions()))
	if !contains(got, "induction") {
		t.Errorf("keyword missing: %v", got)
	}
	got = labels(Completion(e, pos, empty(), DefaultCompletionOptions()))
	if !contains(got, "<=") || !contains(got, "theorem") {
		t.Errorf("builtin operators or keywords missing")
	}
}

func TestPrefixAt(t *testing.T) {
	s := analyze(t, "file:///p.pf", "define a = suc(natu")
	if got := PrefixAt(s, s.File.Len()); got != "natu" {
		t.Fatalf("PrefixAt = %q", got)
	}
	if got := PrefixAt(s, 10); got != "" {
		t.Fatalf("PrefixAt after '=' = %q", got)
	}
	// смещение за концом файла прижимается к концу
	if got := PrefixAt(s, s.File.Len()+100); got != "natu" {
		t.Fatalf("PrefixAt past end = %q", got)
	}
}

func TestInductionAdvice(t *testing.T) {
	src := "union Nat { zero suc(Nat) }\nunion Tree { leaf node(Tree, Nat, Tree) }\n" +
		"theorem t: all n:Nat. n = n\nproof\n  arbitrary n:Nat\n  induction\nend\n"
	e := envOf(t, src)
	off := strings.Index(src, "  induction\n") + len("  induction")
	items := InductionAdvice(e, posAt(e, off))
	if diff := cmp.Diff([]string{"induction Nat", "induction Tree"}, labels(items)); diff != "" {
		t.Fatalf("advice labels (-want +got):\n%s", diff)
	}
	want := "induction Nat\n" +
		"  case zero {\n    ?\n  }\n" +
		"  case suc(n1) assume IH1 {\n    ?\n  }\n"
	if items[0].InsertText != want {
		t.Errorf("Nat skeleton:\n%s\nwant\n%s", items[0].InsertText, want)
	}
	if !strings.Contains(items[1].InsertText, "case node(t1, n2, t3) assume IH1, IH2 {") {
		t.Errorf("Tree skeleton:\n%s", items[1].InsertText)
	}
	r := items[0].Replace
	if r == nil || r.Start.Character != 2 || r.End.Character != len("  induction") {
		t.Errorf("replace range = %+v", r)
	}

	// на обычной строке совета нет
	if got := InductionAdvice(e, posAt(e, strings.Index(src, "arbitrary"))); len(got) != 0 {
		t.Errorf("unexpected advice: %v", labels(got))
	}
	items = Completion(e, posAt(e, off), nil, DefaultCompletionOptions())
	if len(items) == 0 || items[0].Kind != ItemSnippet {
		t.Errorf("snippets must lead completion: %v", labels(items))
	}
}

func TestSignatureHelp(t *testing.T) {
	src := "fun f(a:Nat, b:Nat, c:Nat) -> Nat { a }\ndefine r = f(1, 2, 3)\n"
	e := envOf(t, src)
	two := strings.Index(src, "2, 3")

	help, ok := Signature(e, posAt(e, two))
	if !ok {
		t.Fatalf("no signature help")
	}
	if help.Active != 1 || help.Label != "f(a: Nat, b: Nat, c: Nat) -> Nat" {
		t.Fatalf("help = %+v", help)
	}
	if diff := cmp.Diff([]string{"a: Nat", "b: Nat", "c: Nat"}, help.Params); diff != "" {
		t.Errorf("params (-want +got):\n%s", diff)
	}
	if help, _ := Signature(e, posAt(e, strings.Index(src, "(1")+1)); help.Active != 0 {
		t.Errorf("active after '(' = %d", help.Active)
	}
	if _, ok := Signature(e, posAt(e, strings.Index(src, "define"))); ok {
		t.Errorf("no application outside parentheses")
	}
	if _, ok := Signature(e, posAt(e, strings.LastIndex(src, ")")+1)); ok {
		t.Errorf("no application after the closing parenthesis")
	}
}

func TestSignatureHelpUnclosedAndTheorem(t *testing.T) {
	src := "postulate comm: all x:Nat, y:Nat. x = y\ndefine unknown = g(1, 2)\ndefine r = f(1, "
	src = "fun f(a:Nat, b:Nat) -> Nat { a }\n" + src
	e := envOf2(t, src)

	help, ok := Signature(e, posAt(e, len(src)))
	if !ok || help.Active != 1 {
		t.Fatalf("unclosed call: %+v, %v", help, ok)
	}
	if _, ok := Signature(e, posAt(e, strings.Index(src, "2)"))); ok {
		t.Fatalf("unresolved callee must give no help")
	}

	thm := "postulate comm: all x:Nat, y:Nat. x = y\ntheorem u: zero = zero\nproof\n  conclude zero = zero by comm[zero, zero]\nend\n"
	te := envOf(t, thm)
	help, ok = Signature(te, posAt(te, strings.LastIndex(thm, "zero]")))
	if !ok || help.Active != 1 || help.Label != "comm[x: Nat, y: Nat]: x = y" {
		t.Fatalf("theorem instantiation: %+v, %v", help, ok)
	}
}

// envOf2 — для заведомо незаконченного текста (без проверки ошибок).
func envOf2(t *testing.T, src string) Env {
	t.Helper()
	return Env{Doc: analyze(t, "file:///work/broken.pf", src)}
}

func TestImportsParticipate(t *testing.T) {
	lib := analyze(t, "file:///work/lib/Nat.pf", "union Nat { zero suc(Nat) }\nfun pred(n: Nat) -> Nat { n }\n")
	src := "import Nat\ndefine one = suc(zero)\ndefine p = pred(one)\n"
	e := Env{Doc: analyze(t, "file:///work/main.pf", src), Imports: []*analysis.Snapshot{lib}}

	loc, ok := Definition(e, posAt(e, strings.Index(src, "suc")))
	if !ok || loc.URI != lib.URI {
		t.Fatalf("definition across import = %+v, %v", loc, ok)
	}
	h, ok := HoverAt(e, posAt(e, strings.Index(src, "zero")))
	if !ok || h.Kind != "constructor" || h.URI != lib.URI {
		t.Fatalf("hover across import = %+v, %v", h, ok)
	}
	help, ok := Signature(e, posAt(e, strings.Index(src, "one)")))
	if !ok || help.Label != "pred(n: Nat) -> Nat" {
		t.Fatalf("signature across import = %+v, %v", help, ok)
	}
	prefix := "pr"
	got := labels(Completion(e, posAt(e, len(src)), &prefix, CompletionOptions{}))
	if diff := cmp.Diff([]string{"pred"}, got); diff != "" {
		t.Errorf("completion across import (-want +got):\n%s", diff)
	}
}

func TestDiagnosticsLimitAndRanges(t *testing.T) {
	src := "define = 1\ndefine = 2\ndefine = 3\n"
	s := analysis.Analyze("file:///d.pf", src, analysis.Options{})
	all := Diagnostics(s, 0)
	if len(all) < 3 {
		t.Fatalf("expected at least 3 diagnostics, got %+v", all)
	}
	if got := Diagnostics(s, 2); len(got) != 2 {
		t.Fatalf("limit ignored: %d", len(got))
	}
	if all[1].Range.Start.Line != 1 {
		t.Errorf("second diagnostic on line %d", all[1].Range.Start.Line)
	}
}
