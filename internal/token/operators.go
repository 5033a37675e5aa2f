package token

import (
	"sort"
	"strings"
)

// operatorSpellings lists every symbolic operator. Matching is greedy, so the
// table is kept sorted by byte length (longest first) in operatorsByLen.
var operatorSpellings = []string{
	"<=>", "⇔",
	"=>", "⇒",
	"∨", "∧", "¬",
	"=", "≠", "/=",
	"<", "≤", "<=", ">", "≥", ">=", "⊆", "∈",
	"+", "-", "∪", "++", "⨄", "∸",
	"*", "/", "%", "∩", "∘",
	"^",
}

var operatorsByLen = func() []string {
	out := append([]string(nil), operatorSpellings...)
	sort.SliceStable(out, func(i, j int) bool { return len(out[i]) > len(out[j]) })
	return out
}()

// MatchOperator returns the longest operator that prefixes src.
func MatchOperator(src []byte) (string, bool) {
	for _, op := range operatorsByLen {
		if len(src) >= len(op) && string(src[:len(op)]) == op {
			return op, true
		}
	}
	return "", false
}

// IsOperatorSpelling reports whether s is exactly one operator.
func IsOperatorSpelling(s string) bool {
	for _, op := range operatorSpellings {
		if op == s {
			return true
		}
	}
	return false
}

// Operators returns every operator spelling in table order.
func Operators() []string {
	return append([]string(nil), operatorSpellings...)
}

// IsOperatorStart reports whether b can begin an ASCII operator.
func IsOperatorStart(b byte) bool {
	return strings.IndexByte("<=>/+-*%^", b) >= 0
}
