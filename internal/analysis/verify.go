package analysis

import (
	"errors"
	"fmt"

	"deducels/internal/ast"
	"deducels/internal/source"
	"deducels/internal/symbols"
	"deducels/internal/token"
)

// Verify checks the structural invariants of a snapshot. Any error is an
// engine defect, not a problem with the user's text.
func (s *Snapshot) Verify() error {
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	if s.Root == nil || s.Root.Kind != ast.KindModule {
		return errors.New("snapshot has no module root")
	}
	if s.Root.Span.Start != 0 || s.Root.Span.End != s.File.Len() {
		fail("module spans %s, file length is %d", s.Root.Span, s.File.Len())
	}
	verifyNode(s.Root, fail)

	// каждый токен кроме EOF — ровно один лист, в исходном порядке
	toks := s.Tokens
	if n := len(toks); n > 0 && toks[n-1].Kind == token.EOF {
		toks = toks[:n-1]
	}
	i := 0
	for leaf := range s.Root.Leaves() {
		if i >= len(toks) {
			fail("extra leaf %q at %s", leaf.Token.Text, leaf.Span)
			break
		}
		if leaf.Span != toks[i].Span {
			fail("leaf %d spans %s, token spans %s", i, leaf.Span, toks[i].Span)
			break
		}
		i++
	}
	if i < len(toks) {
		fail("tokens from %d (%q at %s) are missing from the tree", i, toks[i].Text, toks[i].Span)
	}

	verifyTable(s.Table, fail)
	return errors.Join(errs...)
}

func verifyNode(n *ast.Node, fail func(string, ...any)) {
	if n.IsLeaf() {
		if n.Token == nil || n.Token.Span != n.Span {
			fail("leaf at %s does not carry its token span", n.Span)
		}
		return
	}
	if n.Kind != ast.KindModule && len(n.Children) == 0 {
		fail("%s node at %s has no children", n.Kind, n.Span)
		return
	}
	var prev source.Span
	for i, c := range n.Children {
		if c == nil {
			fail("%s node at %s has a nil child", n.Kind, n.Span)
			continue
		}
		if !n.Span.Encloses(c.Span) {
			fail("%s child %s escapes parent %s %s", c.Kind, c.Span, n.Kind, n.Span)
		}
		if i > 0 && c.Span.Start < prev.End {
			fail("%s child %s overlaps its left sibling %s", c.Kind, c.Span, prev)
		}
		prev = c.Span
		verifyNode(c, fail)
	}
	if n.Kind != ast.KindModule && len(n.Children) > 0 {
		want := n.Children[0].Span.Cover(n.Children[len(n.Children)-1].Span)
		if n.Span != want {
			fail("%s spans %s, children cover %s", n.Kind, n.Span, want)
		}
	}
}

func verifyTable(t *symbols.Table, fail func(string, ...any)) {
	if t == nil {
		fail("snapshot has no symbol table")
		return
	}
	root := t.Scope(t.Root)
	if root == nil || root.Kind != symbols.ScopeModule || root.Parent.IsValid() {
		fail("root scope is missing or not a module scope")
	}
	for id := symbols.ScopeID(1); int(id) <= t.Scopes.Len(); id++ {
		sc := t.Scope(id)
		if id == t.Root {
			continue
		}
		parent := t.Scope(sc.Parent)
		switch {
		case parent == nil:
			fail("scope %d (%s) has no parent", id, sc.Kind)
		case sc.Parent >= id:
			fail("scope %d has parent %d created after it", id, sc.Parent)
		case !parent.Span.Encloses(sc.Span):
			fail("scope %d %s escapes parent scope %d %s", id, sc.Span, sc.Parent, parent.Span)
		}
	}
	for _, sym := range t.Symbols.All() {
		sc := t.Scope(sym.Scope)
		if sc == nil {
			fail("symbol %q has no scope", sym.Name)
			continue
		}
		if !sc.Span.Encloses(sym.Span) {
			fail("symbol %q at %s lies outside its %s scope %s", sym.Name, sym.Span, sc.Kind, sc.Span)
		}
	}
	for _, ref := range t.Refs {
		if ref.Resolved() && t.Symbol(ref.Symbol) == nil {
			fail("reference %q at %s points to missing symbol %d", ref.Name, ref.Span, ref.Symbol)
		}
	}
}
