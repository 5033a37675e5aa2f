package symbols

import (
	"sort"

	"deducels/internal/ast"
	"deducels/internal/source"
)

// Reference is one use occurrence. Symbol is NoSymbolID when nothing
// visible matched; unresolved references are not errors.
type Reference struct {
	Span   source.Span
	Name   string
	Symbol SymbolID
	Scope  ScopeID
}

// Resolved reports whether the reference points at a symbol.
func (r Reference) Resolved() bool { return r.Symbol.IsValid() }

// Table aggregates the scope tree, symbols and references of one document.
// It is never mutated after Resolve returns.
type Table struct {
	Scopes  *Scopes
	Symbols *Symbols
	Refs    []Reference // sorted by span start
	Root    ScopeID

	scopeOf  map[*ast.Node]ScopeID
	declByAt map[source.Span]SymbolID
	refByAt  map[source.Span]int
}

func newTable() *Table {
	return &Table{
		Scopes:   NewScopes(0),
		Symbols:  NewSymbols(0),
		scopeOf:  make(map[*ast.Node]ScopeID),
		declByAt: make(map[source.Span]SymbolID),
		refByAt:  make(map[source.Span]int),
	}
}

// Symbol returns the symbol or nil.
func (t *Table) Symbol(id SymbolID) *Symbol { return t.Symbols.Get(id) }

// Scope returns the scope or nil.
func (t *Table) Scope(id ScopeID) *Scope { return t.Scopes.Get(id) }

// ScopeOf returns the scope owned by n, if n introduces one.
func (t *Table) ScopeOf(n *ast.Node) (ScopeID, bool) {
	id, ok := t.scopeOf[n]
	return id, ok
}

// ScopeAt walks a root..leaf path upward to the nearest scope owner.
func (t *Table) ScopeAt(path []*ast.Node) ScopeID {
	for i := len(path) - 1; i >= 0; i-- {
		if id, ok := t.scopeOf[path[i]]; ok {
			return id
		}
	}
	return t.Root
}

// Lookup resolves name from scope outward; inner bindings win and within
// one scope the latest declaration wins.
func (t *Table) Lookup(scope ScopeID, name string) SymbolID {
	for id := scope; id.IsValid(); {
		s := t.Scopes.Get(id)
		if s == nil {
			break
		}
		if sym := s.Latest(name); sym.IsValid() {
			return sym
		}
		id = s.Parent
	}
	return NoSymbolID
}

// Visible returns every symbol visible from scope, one per name,
// innermost first and by name within a scope.
func (t *Table) Visible(scope ScopeID) []SymbolID {
	seen := make(map[string]struct{})
	var out []SymbolID
	for id := scope; id.IsValid(); {
		s := t.Scopes.Get(id)
		if s == nil {
			break
		}
		names := make([]string, 0, len(s.NameIndex))
		for name := range s.NameIndex {
			if _, dup := seen[name]; !dup {
				names = append(names, name)
			}
		}
		sort.Strings(names)
		for _, name := range names {
			seen[name] = struct{}{}
			out = append(out, s.Latest(name))
		}
		id = s.Parent
	}
	return out
}

// DeclaredAt returns the symbol whose name token has exactly this span.
func (t *Table) DeclaredAt(span source.Span) SymbolID {
	return t.declByAt[span]
}

// ReferenceAt returns the reference whose token has exactly this span.
func (t *Table) ReferenceAt(span source.Span) (Reference, bool) {
	i, ok := t.refByAt[span]
	if !ok {
		return Reference{}, false
	}
	return t.Refs[i], true
}

// ModuleSymbols returns the winning binding of every module-level name.
func (t *Table) ModuleSymbols() []SymbolID {
	root := t.Scopes.Get(t.Root)
	if root == nil {
		return nil
	}
	names := make([]string, 0, len(root.NameIndex))
	for name := range root.NameIndex {
		names = append(names, name)
	}
	sort.Strings(names)
	out := make([]SymbolID, 0, len(names))
	for _, name := range names {
		out = append(out, root.Latest(name))
	}
	return out
}

// Describe renders a scope for hover: "module", "function add", "case suc(n)".
func (t *Table) Describe(id ScopeID) string {
	s := t.Scopes.Get(id)
	if s == nil {
		return ""
	}
	if s.Name == "" {
		return s.Kind.String()
	}
	return s.Kind.String() + " " + s.Name
}

// finish сортирует ссылки и строит индексы; после него таблица read-only.
func (t *Table) finish() {
	sort.SliceStable(t.Refs, func(i, j int) bool {
		return t.Refs[i].Span.Start < t.Refs[j].Span.Start
	})
	for i, ref := range t.Refs {
		t.refByAt[ref.Span] = i
	}
	for _, sym := range t.Symbols.All() {
		if _, taken := t.declByAt[sym.Span]; !taken {
			t.declByAt[sym.Span] = sym.ID
		}
	}
}
