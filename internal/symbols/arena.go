package symbols

import (
	"fmt"

	"fortio.org/safecast"

	"deducels/internal/ast"
	"deducels/internal/source"
)

// Scopes stores all allocated scopes in a compact slice-based arena.
type Scopes struct {
	data []Scope
}

// NewScopes creates an arena with optional capacity hint.
func NewScopes(capacity uint32) *Scopes {
	if capacity == 0 {
		capacity = 32
	}
	return &Scopes{
		data: make([]Scope, 1, capacity+1), // index 0 reserved for NoScopeID
	}
}

// New allocates a new scope and returns its ID.
func (s *Scopes) New(kind ScopeKind, parent ScopeID, owner *ast.Node, name string) ScopeID {
	value, err := safecast.Conv[uint32](len(s.data))
	if err != nil {
		panic(fmt.Errorf("scopes arena overflow: %w", err))
	}
	id := ScopeID(value)
	var span source.Span
	if owner != nil {
		span = owner.Span
	}
	s.data = append(s.data, Scope{
		ID:        id,
		Kind:      kind,
		Parent:    parent,
		Owner:     owner,
		Name:      name,
		Span:      span,
		NameIndex: make(map[string][]SymbolID),
	})
	if parent.IsValid() {
		if parentScope := s.Get(parent); parentScope != nil {
			parentScope.Children = append(parentScope.Children, id)
		}
	}
	return id
}

// Get returns the scope pointer or nil if ID is invalid.
func (s *Scopes) Get(id ScopeID) *Scope {
	if !id.IsValid() || int(id) >= len(s.data) {
		return nil
	}
	return &s.data[id]
}

// Len reports total number of scopes excluding the sentinel.
func (s *Scopes) Len() int { return len(s.data) - 1 }

// Symbols stores declared symbols; index 0 is the NoSymbolID sentinel.
type Symbols struct {
	data []Symbol
}

func NewSymbols(capacity uint32) *Symbols {
	if capacity == 0 {
		capacity = 64
	}
	return &Symbols{data: make([]Symbol, 1, capacity+1)}
}

// New appends sym and assigns its ID.
func (s *Symbols) New(sym *Symbol) SymbolID {
	value, err := safecast.Conv[uint32](len(s.data))
	if err != nil {
		panic(fmt.Errorf("symbols arena overflow: %w", err))
	}
	id := SymbolID(value)
	sym.ID = id
	s.data = append(s.data, *sym)
	return id
}

// Get returns the symbol pointer or nil if ID is invalid.
func (s *Symbols) Get(id SymbolID) *Symbol {
	if !id.IsValid() || int(id) >= len(s.data) {
		return nil
	}
	return &s.data[id]
}

// Len reports total number of symbols excluding the sentinel.
func (s *Symbols) Len() int { return len(s.data) - 1 }

// All returns every symbol in declaration order.
func (s *Symbols) All() []Symbol { return s.data[1:] }
