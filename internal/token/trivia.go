package token

import "deducels/internal/source"

// TriviaKind classifies non-significant source text.
type TriviaKind uint8

const (
	TriviaSpace TriviaKind = iota
	TriviaNewline
	TriviaLineComment
	TriviaBlockComment
)

func (k TriviaKind) String() string {
	switch k {
	case TriviaSpace:
		return "Space"
	case TriviaNewline:
		return "Newline"
	case TriviaLineComment:
		return "LineComment"
	case TriviaBlockComment:
		return "BlockComment"
	}
	return "Trivia(?)"
}

// IsComment reports whether the trivia is a comment.
func (k TriviaKind) IsComment() bool {
	return k == TriviaLineComment || k == TriviaBlockComment
}

type Trivia struct {
	Kind TriviaKind
	Span source.Span
	Text string
}
