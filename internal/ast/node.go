package ast

import (
	"iter"

	"deducels/internal/diag"
	"deducels/internal/source"
	"deducels/internal/token"
)

// Node is one vertex of the syntax tree. Leaves (KindToken) carry Token and
// take its span; every other node spans exactly its first..last child.
// Diags holds the syntax diagnostics produced while building this node.
type Node struct {
	Kind     Kind
	Span     source.Span
	Token    *token.Token
	Children []*Node
	Diags    []diag.Diagnostic
}

// NewLeaf wraps a single token.
func NewLeaf(tok token.Token) *Node {
	t := tok
	return &Node{Kind: KindToken, Span: tok.Span, Token: &t}
}

// NewNode builds an interior node; nil children are dropped.
// Returns nil when nothing is left, an interior node never has an empty span.
func NewNode(kind Kind, children ...*Node) *Node {
	kids := make([]*Node, 0, len(children))
	for _, c := range children {
		if c != nil {
			kids = append(kids, c)
		}
	}
	if len(kids) == 0 {
		return nil
	}
	return &Node{
		Kind:     kind,
		Span:     kids[0].Span.Cover(kids[len(kids)-1].Span),
		Children: kids,
	}
}

func (n *Node) IsLeaf() bool { return n != nil && n.Kind == KindToken }

// TokenKind returns the kind of a leaf's token or token.Invalid.
func (n *Node) TokenKind() token.Kind {
	if n == nil || n.Token == nil {
		return token.Invalid
	}
	return n.Token.Kind
}

// Child returns the i-th child or nil.
func (n *Node) Child(i int) *Node {
	if n == nil || i < 0 || i >= len(n.Children) {
		return nil
	}
	return n.Children[i]
}

// FirstOf returns the first direct child of the given kind.
func (n *Node) FirstOf(kind Kind) *Node {
	if n == nil {
		return nil
	}
	for _, c := range n.Children {
		if c.Kind == kind {
			return c
		}
	}
	return nil
}

// AllOf returns direct children of the given kind in order.
func (n *Node) AllOf(kind Kind) []*Node {
	if n == nil {
		return nil
	}
	var out []*Node
	for _, c := range n.Children {
		if c.Kind == kind {
			out = append(out, c)
		}
	}
	return out
}

// LeafOf returns the first direct leaf child whose token kind is k.
func (n *Node) LeafOf(k token.Kind) *Node {
	if n == nil {
		return nil
	}
	for _, c := range n.Children {
		if c.IsLeaf() && c.Token.Kind == k {
			return c
		}
	}
	return nil
}

// NameToken returns the token a Binder or Name is known by: the identifier,
// or the operator after `operator`.
func (n *Node) NameToken() *token.Token {
	if n == nil || (n.Kind != KindBinder && n.Kind != KindName) {
		return nil
	}
	for _, c := range n.Children {
		if c.IsLeaf() && (c.Token.Kind == token.Ident || c.Token.Kind == token.Operator) {
			return c.Token
		}
	}
	return nil
}

// Walk visits n and its descendants in pre-order. Returning false from
// visit skips the children of that node.
func Walk(n *Node, visit func(*Node) bool) {
	if n == nil || !visit(n) {
		return
	}
	for _, c := range n.Children {
		Walk(c, visit)
	}
}

// Leaves yields the leaves of n in source order.
func (n *Node) Leaves() iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		var rec func(*Node) bool
		rec = func(m *Node) bool {
			if m.IsLeaf() {
				return yield(m)
			}
			for _, c := range m.Children {
				if !rec(c) {
					return false
				}
			}
			return true
		}
		if n != nil {
			rec(n)
		}
	}
}

// PathTo returns the chain root..innermost of nodes whose span contains off.
// Containment is half-open; when no child contains off, a child ending
// exactly at off is taken so that a cursor right after a name still lands on it.
func PathTo(root *Node, off uint32) []*Node {
	if root == nil {
		return nil
	}
	path := []*Node{root}
	cur := root
	for len(cur.Children) > 0 {
		next := childAt(cur, off)
		if next == nil {
			break
		}
		path = append(path, next)
		cur = next
	}
	return path
}

func childAt(n *Node, off uint32) *Node {
	var touching *Node
	for _, c := range n.Children {
		if c.Span.Contains(off) {
			return c
		}
		if c.Span.End == off && !c.Span.Empty() {
			touching = c
		}
		if c.Span.Start > off {
			break
		}
	}
	return touching
}
