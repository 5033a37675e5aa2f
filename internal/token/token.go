package token

import (
	"deducels/internal/source"
)

// Token represents a single source token with its location and trivia.
type Token struct {
	Kind    Kind
	Span    source.Span
	Text    string
	Leading []Trivia
}

// IsLiteral reports whether the token is a numeric, boolean, or string literal.
func (t Token) IsLiteral() bool {
	switch t.Kind {
	case IntLit, StringLit, KwTrue, KwFalse:
		return true
	default:
		return false
	}
}

// IsOperator reports whether the token is a symbolic operator.
func (t Token) IsOperator() bool { return t.Kind == Operator }

// IsOp reports whether the token is the given operator spelling.
func (t Token) IsOp(op string) bool { return t.Kind == Operator && t.Text == op }

// IsPunct reports whether the token is punctuation.
func (t Token) IsPunct() bool { return t.Kind.Category() == CategoryPunctuation }

// IsKeyword reports whether the token is a language keyword.
func (t Token) IsKeyword() bool { return t.Kind.Category() == CategoryKeyword }

// IsIdent reports whether the token is an identifier.
func (t Token) IsIdent() bool { return t.Kind == Ident }
