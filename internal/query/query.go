// Package query answers editor requests over analysis snapshots. Every
// function here is pure: it reads immutable snapshots and allocates its
// result, so queries may run concurrently with each other.
package query

import (
	"deducels/internal/analysis"
	"deducels/internal/ast"
	"deducels/internal/source"
	"deducels/internal/symbols"
	"deducels/internal/token"
)

// Env is the input of a query: the document itself plus the snapshots of
// the open documents it imports, in import order.
type Env struct {
	Doc     *analysis.Snapshot
	Imports []*analysis.Snapshot
}

// Location is a span inside a particular document.
type Location struct {
	URI   string       `json:"uri"`
	Range source.Range `json:"range"`
	Span  source.Span  `json:"-"`
}

// target — символ под курсором и документ, в котором он объявлен.
type target struct {
	snap *analysis.Snapshot
	sym  *symbols.Symbol
	at   source.Span // токен под курсором
}

func locationOf(s *analysis.Snapshot, span source.Span) Location {
	return Location{URI: s.URI, Range: s.Range(span), Span: span}
}

// nameLeafAt находит лист-имя под курсором. Курсор на `operator` в
// `operator <=` переносится на сам оператор.
func nameLeafAt(s *analysis.Snapshot, off uint32) *ast.Node {
	leaf, path := s.LeafAt(off)
	if leaf == nil {
		return nil
	}
	switch leaf.Token.Kind {
	case token.Ident, token.Operator:
		return leaf
	case token.KwOperator:
		if len(path) == 0 {
			return nil
		}
		parent := path[len(path)-1]
		for _, c := range parent.Children {
			if c.IsLeaf() && c.Token.Kind == token.Operator {
				return c
			}
		}
	}
	return nil
}

// symbolAt resolves the name under off: a declaration resolves to itself, a
// reference to its binding, and an unresolved reference to a module-level
// symbol of the first import that declares it.
func (e Env) symbolAt(off uint32) (target, bool) {
	if e.Doc == nil {
		return target{}, false
	}
	leaf := nameLeafAt(e.Doc, off)
	if leaf == nil {
		return target{}, false
	}
	table := e.Doc.Table
	if id := table.DeclaredAt(leaf.Span); id.IsValid() {
		return target{snap: e.Doc, sym: table.Symbol(id), at: leaf.Span}, true
	}
	ref, ok := table.ReferenceAt(leaf.Span)
	if !ok {
		return target{}, false
	}
	if ref.Resolved() {
		return target{snap: e.Doc, sym: table.Symbol(ref.Symbol), at: leaf.Span}, true
	}
	if snap, sym := e.importedSymbol(ref.Name); sym != nil {
		return target{snap: snap, sym: sym, at: leaf.Span}, true
	}
	return target{}, false
}

func (e Env) importedSymbol(name string) (*analysis.Snapshot, *symbols.Symbol) {
	for _, imp := range e.Imports {
		if imp == nil {
			continue
		}
		if id := imp.Table.Lookup(imp.Table.Root, name); id.IsValid() {
			return imp, imp.Table.Symbol(id)
		}
	}
	return nil, nil
}
