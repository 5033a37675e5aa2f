package token_test

import (
	"testing"

	"deducels/internal/token"
)

func TestCategory(t *testing.T) {
	cases := []struct {
		kind token.Kind
		want token.Category
	}{
		{token.Ident, token.CategoryIdentifier},
		{token.IntLit, token.CategoryLiteral},
		{token.StringLit, token.CategoryLiteral},
		{token.Operator, token.CategoryOperator},
		{token.KwTheorem, token.CategoryKeyword},
		{token.KwTerm, token.CategoryKeyword},
		{token.LParen, token.CategoryPunctuation},
		{token.Hash, token.CategoryPunctuation},
		{token.EOF, token.CategoryEOF},
		{token.Invalid, token.CategoryInvalid},
	}
	for _, tc := range cases {
		if got := tc.kind.Category(); got != tc.want {
			t.Errorf("%v.Category() = %v, want %v", tc.kind, got, tc.want)
		}
	}
}

func TestKindString(t *testing.T) {
	if got := token.KwInduction.String(); got != "Kw(induction)" {
		t.Fatalf("KwInduction.String() = %q", got)
	}
	if got := token.Ellipsis.String(); got != "Ellipsis" {
		t.Fatalf("Ellipsis.String() = %q", got)
	}
}

func TestMatchOperatorLongest(t *testing.T) {
	cases := map[string]string{
		"<= y":  "<=",
		"<=> q": "<=>",
		"< y":   "<",
		"≤ y":   "≤",
		"++ys":  "++",
		"/= 0":  "/=",
		"=> b":  "=>",
		"= b":   "=",
	}
	for src, want := range cases {
		got, ok := token.MatchOperator([]byte(src))
		if !ok || got != want {
			t.Errorf("MatchOperator(%q) = %q, %v; want %q", src, got, ok, want)
		}
	}
	if _, ok := token.MatchOperator([]byte("abc")); ok {
		t.Error("identifier text must not match an operator")
	}
}

func TestTokenPredicates(t *testing.T) {
	le := token.Token{Kind: token.Operator, Text: "<="}
	if !le.IsOperator() || !le.IsOp("<=") || le.IsOp("<") {
		t.Fatal("operator predicates mismatch")
	}
	if !(token.Token{Kind: token.KwTrue}).IsLiteral() {
		t.Fatal("true is a literal")
	}
	if !(token.Token{Kind: token.Comma}).IsPunct() || (token.Token{Kind: token.Ident}).IsPunct() {
		t.Fatal("punct predicate mismatch")
	}
}
