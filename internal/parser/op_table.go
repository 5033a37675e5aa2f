package parser

import (
	"deducels/internal/token"
)

// Таблица приоритетов для термов, от самого слабого к самому сильному.
// Чем больше число, тем выше приоритет.
const (
	precIff     = 1  // <=> ⇔        правоассоциативно
	precImplies = 2  // => ⇒         правоассоциативно
	precOr      = 3  // or ∨
	precAnd     = 4  // and ∧
	precEqual   = 5  // = ≠ /=
	precCompare = 6  // < ≤ <= > ≥ >= ⊆ ∈
	precAdd     = 7  // + - ∪ ++ ⨄ ∸
	precMult    = 8  // * / % ∩ ∘
	precExpt    = 9  // ^            правоассоциативно
	precPrefix  = 10 // not ¬ -
)

// binaryPrec возвращает приоритет и ассоциативность бинарного оператора.
// Возвращает (приоритет, правоассоциативный); -1 — не бинарный оператор.
func binaryPrec(tok token.Token) (int, bool) {
	switch tok.Kind {
	case token.KwOr:
		return precOr, false
	case token.KwAnd:
		return precAnd, false
	case token.Operator:
	default:
		return -1, false
	}
	switch tok.Text {
	case "<=>", "⇔":
		return precIff, true
	case "=>", "⇒":
		return precImplies, true
	case "∨":
		return precOr, false
	case "∧":
		return precAnd, false
	case "=", "≠", "/=":
		return precEqual, false
	case "<", "≤", "<=", ">", "≥", ">=", "⊆", "∈":
		return precCompare, false
	case "+", "-", "∪", "++", "⨄", "∸":
		return precAdd, false
	case "*", "/", "%", "∩", "∘":
		return precMult, false
	case "^":
		return precExpt, true
	default:
		return -1, false
	}
}

// isPrefixOp — not, ¬ и унарный минус.
func isPrefixOp(tok token.Token) bool {
	return tok.Kind == token.KwNot || tok.IsOp("¬") || tok.IsOp("-")
}
