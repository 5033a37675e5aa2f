package symbols

import (
	"deducels/internal/ast"
	"deducels/internal/source"
)

// ScopeKind enumerates supported scope categories.
type ScopeKind uint8

const (
	ScopeInvalid  ScopeKind = iota
	ScopeModule             // top-level declarations of one document
	ScopeFunction           // fun, recursive, generic define
	ScopeTheorem            // theorem statement and proof
	ScopeType               // union type parameters
	ScopeCase               // induction/switch case, equation, cases branch
	ScopeBlock              // lambda, quantifier, { let ...; term }
)

func (k ScopeKind) String() string {
	switch k {
	case ScopeModule:
		return "module"
	case ScopeFunction:
		return "function"
	case ScopeTheorem:
		return "theorem"
	case ScopeType:
		return "type"
	case ScopeCase:
		return "case"
	case ScopeBlock:
		return "block"
	default:
		return "invalid"
	}
}

// Scope models a lexical scope. Owner is the governing node: every symbol of
// the scope is declared inside Owner.Span.
type Scope struct {
	ID        ScopeID
	Kind      ScopeKind
	Parent    ScopeID
	Owner     *ast.Node
	Name      string // имя объявления или текст образца case
	Span      source.Span
	NameIndex map[string][]SymbolID
	Symbols   []SymbolID
	Children  []ScopeID
}

// Latest returns the binding that wins for name in this scope alone.
func (s *Scope) Latest(name string) SymbolID {
	ids := s.NameIndex[name]
	if len(ids) == 0 {
		return NoSymbolID
	}
	return ids[len(ids)-1]
}
