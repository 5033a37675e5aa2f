package parser

import (
	"strings"
	"testing"

	"deducels/internal/ast"
	"deducels/internal/diag"
	"deducels/internal/source"
)

const validProgram = `import Nat

union Nat {
  zero
  suc(Nat)
}

union List<T> {
  empty
  node(T, List<T>)
}

recursive length<T>(List<T>) -> Nat {
  length(empty) = zero
  length(node(n, ls)) = suc(length(ls))
}

define one : Nat = suc(zero)

private fun add_one(x : Nat) -> Nat {
  let y = suc(x);
  y
}

define pick = λ a, b { a }
define sw = fun x:Nat { switch x { case zero { one } case suc(k) { k } } }
define operator ++ = fun a:Nat, b:Nat { [a, b] }

theorem one_eq: one = suc(zero)
proof
  definition one
end

theorem length_empty: all T:type. length(@empty<T>) = zero
proof
  arbitrary T:type
  reflexive
end

theorem add_zero: all n:Nat. n + zero = n
proof
  arbitrary n:Nat
  induction Nat
  case zero {
    conclude zero + zero = zero by definition operator +
  }
  case suc(m) assume IH: m + zero = m {
    have step: suc(m) + zero = suc(m + zero) by definition operator +
    rewrite step | IH
  }
end

lemma or_intro: all P:bool, Q:bool. if P then P or Q
proof
  arbitrary P:bool, Q:bool
  suppose p: P
  conclude P or Q by p
end

theorem ex: some n:Nat. n = zero
proof
  choose zero
  .
end

theorem chain: all a:Nat. a + zero = a
proof
  arbitrary a:Nat
  equations
    a + zero = a   by add_zero[a]
         ... = a   by .
end

postulate trust: all x:Nat. x ≤ x

print length(node(one, empty))
assert not (one = zero)
`

func TestValidProgramHasNoErrors(t *testing.T) {
	res, file := parseSnippet(t, validProgram)
	if errs := errorsOf(res.Diags); len(errs) != 0 {
		t.Fatalf("unexpected errors:\n%s", strings.Join(errs, "\n"))
	}
	if got, want := joinTexts(leafTexts(res.Root)), joinTexts(tokenTexts(file)); got != want {
		t.Fatalf("leaves do not reconstruct the token stream:\n%s\n%s", got, want)
	}
	checkSpans(t, res.Root)

	var kinds []string
	for _, st := range res.Root.Children {
		kinds = append(kinds, st.Kind.String())
	}
	want := "Import Union Union Recursive Define Fun Define Define Define Theorem Theorem Theorem Theorem Theorem Theorem Theorem Print Assert"
	if strings.Join(kinds, " ") != want {
		t.Fatalf("statements:\n%s\nwant\n%s", strings.Join(kinds, " "), want)
	}
	if fn := res.Root.Children[5]; fn.Child(0).Kind != ast.KindModifier {
		t.Fatalf("modifier must be the first child of fun, got %v", fn.Child(0).Kind)
	}
}

func TestPrecedence(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"print a + b * c", "(a + (b * c))"},
		{"print a - b - c", "((a - b) - c)"},
		{"print a ^ b ^ c", "(a ^ (b ^ c))"},
		{"print a => b => c", "(a => (b => c))"},
		{"print a or b and c", "(a or (b and c))"},
		{"print a = b <=> c = d", "((a = b) <=> (c = d))"},
		{"print not a and b", "((not a) and b)"},
		{"print a <= b + c", "(a <= (b + c))"},
		{"print - f(x)[y]", "(- f(x)[y])"},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			res, _ := parseSnippet(t, tt.src)
			if errs := errorsOf(res.Diags); len(errs) != 0 {
				t.Fatalf("errors: %v", errs)
			}
			term := res.Root.Children[0].Child(1)
			if got := render(term); got != tt.want {
				t.Fatalf("got %s, want %s", got, tt.want)
			}
		})
	}
}

// render печатает терм со скобками вокруг операторов.
func render(n *ast.Node) string {
	switch n.Kind {
	case ast.KindBinary:
		return "(" + render(n.Child(0)) + " " + n.Child(1).Token.Text + " " + render(n.Child(2)) + ")"
	case ast.KindPrefix:
		return "(" + n.Child(0).Token.Text + " " + render(n.Child(1)) + ")"
	case ast.KindParen:
		return render(n.Child(1))
	default:
		var b strings.Builder
		for l := range n.Leaves() {
			b.WriteString(l.Token.Text)
		}
		return b.String()
	}
}

func TestRecoverySynchronizes(t *testing.T) {
	src := "define = \n" +
		"union U { a ( } \n" +
		"theorem t: x = \n" +
		"proof\n" +
		"  have h: by .\n" +
		"  foo ) bar\n" +
		"end\n" +
		"fun g(x { x }\n" +
		"print ok"
	res, file := parseSnippet(t, src)
	if len(errorsOf(res.Diags)) == 0 {
		t.Fatal("expected syntax errors")
	}
	if got, want := joinTexts(leafTexts(res.Root)), joinTexts(tokenTexts(file)); got != want {
		t.Fatalf("tokens lost during recovery:\n%s\n%s", got, want)
	}
	checkSpans(t, res.Root)
	last := res.Root.Children[len(res.Root.Children)-1]
	if last.Kind != ast.KindPrint {
		t.Fatalf("parser did not resynchronize at 'print', last = %v", last.Kind)
	}
	if len(findAll(res.Root, ast.KindTheorem)) != 1 {
		t.Fatal("theorem lost")
	}
}

func TestMissingEnd(t *testing.T) {
	res, _ := parseSnippet(t, "theorem t: P\nproof\n  .\ntheorem u: Q\nproof . end")
	var codes []diag.Code
	for _, d := range res.Diags {
		codes = append(codes, d.Code)
	}
	if len(codes) != 1 || codes[0] != diag.SynMissingEnd {
		t.Fatalf("codes = %v", codes)
	}
	if len(res.Root.Children) != 2 {
		t.Fatalf("statements = %d", len(res.Root.Children))
	}
	th := res.Root.Children[0]
	if len(th.Diags) != 1 || th.Diags[0].Code != diag.SynMissingEnd {
		t.Fatalf("diagnostic not attached to theorem: %+v", th.Diags)
	}
}

func TestUnclosedDelimiterNote(t *testing.T) {
	res, _ := parseSnippet(t, "print f(a, b\nprint c")
	var found bool
	for _, d := range res.Diags {
		if d.Code == diag.SynUnclosedDelimiter {
			found = true
			if len(d.Notes) != 1 || d.Notes[0].Span.Start != 7 {
				t.Fatalf("note = %+v", d.Notes)
			}
		}
	}
	if !found {
		t.Fatalf("no unclosed delimiter diagnostic: %v", errorsOf(res.Diags))
	}
	if len(res.Root.Children) != 2 {
		t.Fatalf("statements = %d", len(res.Root.Children))
	}
}

func TestGarbageTerminatesAndCovers(t *testing.T) {
	inputs := []string{
		"",
		"}}}}",
		")))(((",
		"end end case case",
		"theorem proof proof end",
		"union { { { (",
		"define x = fun fun fun",
		"\"unterminated",
		"/* open",
		"$%&§ ☃ λ λ λ",
		"print [1, 2, , ] ( ] }",
		"recursive f(Nat) -> { f(zero = }",
		"theorem t: all x. proof induction Nat case case { } end",
		"private private",
		"switch { case",
		"obtain where from",
		"equations ... = ... by by",
	}
	for _, src := range inputs {
		t.Run(src, func(t *testing.T) {
			res, file := parseSnippet(t, src)
			if res.Root.Span.Start != 0 || res.Root.Span.End != file.Len() {
				t.Fatalf("root span %v does not cover the file (len %d)", res.Root.Span, file.Len())
			}
			if got, want := joinTexts(leafTexts(res.Root)), joinTexts(tokenTexts(file)); got != want {
				t.Fatalf("tokens lost:\n%q\n%q", got, want)
			}
			checkSpans(t, res.Root)
		})
	}
}

func TestDeepNestingIsBounded(t *testing.T) {
	const n = 5000
	for _, src := range []string{
		"print " + strings.Repeat("(", n) + "x" + strings.Repeat(")", n),
		"print " + strings.Repeat("not ", n) + "x",
		"print " + strings.Repeat("a ^ ", n) + "a",
		"define t : " + strings.Repeat("fn ", n) + "Nat",
	} {
		res, file := parseSnippet(t, src)
		var deep int
		for _, d := range res.Diags {
			if d.Code == diag.SynNestingTooDeep {
				deep++
			}
		}
		if deep != 1 {
			t.Fatalf("nesting diagnostics = %d for %.20q", deep, src)
		}
		if got, want := len(leafTexts(res.Root)), len(tokenTexts(file)); got != want {
			t.Fatalf("leaves = %d, tokens = %d", got, want)
		}
	}
}

func TestParseWithoutTrailingEOF(t *testing.T) {
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("x.pf", []byte("print x")))
	res := Parse(file, nil, Options{})
	if res.Root == nil || len(res.Root.Children) != 0 {
		t.Fatalf("unexpected tree for empty token stream: %+v", res.Root)
	}
}

func TestMissingEndStopsAtUnindentedDefine(t *testing.T) {
	res, file := parseSnippet(t, "theorem t: true\nproof\n  .\n\ndefine y = 1\ndefine z = y\n")
	var codes []diag.Code
	for _, d := range res.Diags {
		codes = append(codes, d.Code)
	}
	if len(codes) != 1 || codes[0] != diag.SynMissingEnd {
		t.Fatalf("codes = %v", codes)
	}
	var kinds []ast.Kind
	for _, st := range res.Root.Children {
		kinds = append(kinds, st.Kind)
	}
	want := []ast.Kind{ast.KindTheorem, ast.KindDefine, ast.KindDefine}
	if len(kinds) != len(want) {
		t.Fatalf("statements = %v", kinds)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Fatalf("statements = %v", kinds)
		}
	}
	if n := len(findAll(res.Root, ast.KindProofDefine)); n != 0 {
		t.Fatalf("proof-local defines = %d", n)
	}
	if got, want := joinTexts(leafTexts(res.Root)), joinTexts(tokenTexts(file)); got != want {
		t.Fatalf("tokens lost:\n%s\n%s", got, want)
	}
}

func TestIndentedDefineStaysInProof(t *testing.T) {
	res, _ := parseSnippet(t, "theorem t: true\nproof\n  define x = 1\n  .\nend\n")
	if errs := errorsOf(res.Diags); len(errs) != 0 {
		t.Fatalf("errors = %v", errs)
	}
	if len(res.Root.Children) != 1 {
		t.Fatalf("statements = %d", len(res.Root.Children))
	}
	if n := len(findAll(res.Root, ast.KindProofDefine)); n != 1 {
		t.Fatalf("proof-local defines = %d", n)
	}
}
