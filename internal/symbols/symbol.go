package symbols

import (
	"strings"

	"deducels/internal/source"
)

// SymbolKind classifies the semantic meaning of a symbol.
type SymbolKind uint8

const (
	SymbolInvalid SymbolKind = iota
	SymbolFunction
	SymbolTheorem
	SymbolParam
	SymbolLocal
	SymbolConstructor
	SymbolType
	SymbolOperator
)

func (k SymbolKind) String() string {
	switch k {
	case SymbolFunction:
		return "function"
	case SymbolTheorem:
		return "theorem"
	case SymbolParam:
		return "parameter"
	case SymbolLocal:
		return "local-variable"
	case SymbolConstructor:
		return "constructor"
	case SymbolType:
		return "type"
	case SymbolOperator:
		return "operator"
	default:
		return "invalid"
	}
}

// Symbol is one binding occurrence. Span is the span of the name token
// (the operator token for `operator OP` binders).
type Symbol struct {
	ID        SymbolID
	Name      string
	Kind      SymbolKind
	Scope     ScopeID
	Span      source.Span
	Decl      source.Span // весь объявляющий узел
	Type      string      // объявленный тип или формула, если есть
	Signature *Signature
}

// Param is one entry of a signature; Name is empty for positional types.
type Param struct {
	Name string
	Type string
}

func (p Param) String() string {
	switch {
	case p.Name == "":
		return p.Type
	case p.Type == "":
		return p.Name
	default:
		return p.Name + ": " + p.Type
	}
}

// Signature is the ordered parameter/result shape of a callable symbol.
// Open/Close are the delimiters used at call sites: "(" ")" for functions
// and constructors, "[" "]" for theorem instantiation.
type Signature struct {
	Params []Param
	Result string
	Open   string
	Close  string
}

// Label renders name(p1, p2) -> R, or name[p1, p2]: R for theorems.
func (s *Signature) Label(name string) string {
	if s == nil {
		return name
	}
	var b strings.Builder
	b.WriteString(name)
	b.WriteString(s.Open)
	for i, p := range s.Params {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(p.String())
	}
	b.WriteString(s.Close)
	if s.Result != "" {
		if s.Open == "[" {
			b.WriteString(": ")
		} else {
			b.WriteString(" -> ")
		}
		b.WriteString(s.Result)
	}
	return b.String()
}
