package analysis

import (
	"sort"

	"deducels/internal/ast"
	"deducels/internal/source"
	"deducels/internal/symbols"
	"deducels/internal/token"
)

// Offset converts an editor position (zero-based line, UTF-16 column).
func (s *Snapshot) Offset(pos source.Position) uint32 {
	return s.File.OffsetAt(pos)
}

// Range converts a span back to an editor range.
func (s *Snapshot) Range(span source.Span) source.Range {
	return s.File.RangeOf(span)
}

// TokenAt returns the token whose span contains off. A cursor sitting right
// after a token (off == End) still selects it when no token starts at off.
// The EOF token is never returned.
func (s *Snapshot) TokenAt(off uint32) (token.Token, bool) {
	toks := s.Tokens
	if n := len(toks); n > 0 && toks[n-1].Kind == token.EOF {
		toks = toks[:n-1]
	}
	idx := sort.Search(len(toks), func(i int) bool { return toks[i].Span.End > off })
	if idx < len(toks) {
		tok := toks[idx]
		if tok.Span.Start <= off && off < tok.Span.End {
			return tok, true
		}
	}
	if idx > 0 {
		prev := toks[idx-1]
		if prev.Span.End == off && !prev.Span.Empty() {
			return prev, true
		}
	}
	return token.Token{}, false
}

// PathAt returns the root..innermost chain of nodes at off.
func (s *Snapshot) PathAt(off uint32) []*ast.Node {
	return ast.PathTo(s.Root, off)
}

// NodeAt returns the innermost node containing off (the root at worst).
func (s *Snapshot) NodeAt(off uint32) *ast.Node {
	path := s.PathAt(off)
	if len(path) == 0 {
		return nil
	}
	return path[len(path)-1]
}

// LeafAt returns the leaf for TokenAt(off) together with its ancestors.
func (s *Snapshot) LeafAt(off uint32) (leaf *ast.Node, path []*ast.Node) {
	tok, ok := s.TokenAt(off)
	if !ok {
		return nil, nil
	}
	path = ast.PathTo(s.Root, tok.Span.Start)
	if n := len(path); n > 0 && path[n-1].IsLeaf() && path[n-1].Span == tok.Span {
		return path[n-1], path[:n-1]
	}
	return nil, nil
}

// ScopeAt returns the innermost scope whose owner encloses off. An owner
// ending exactly at off still encloses it unless it was closed by a
// delimiter, so typing at the end of an unfinished body stays inside it.
func (s *Snapshot) ScopeAt(off uint32) symbols.ScopeID {
	path := s.PathAt(off)
	for i := len(path) - 1; i >= 0; i-- {
		n := path[i]
		id, ok := s.Table.ScopeOf(n)
		if !ok {
			continue
		}
		if n.Span.Contains(off) || (n.Span.End == off && !closedByDelimiter(n)) {
			return id
		}
	}
	return s.Table.Root
}

func closedByDelimiter(n *ast.Node) bool {
	var last *ast.Node
	for l := range n.Leaves() {
		last = l
	}
	if last == nil {
		return false
	}
	switch last.Token.Kind {
	case token.RBrace, token.RParen, token.RBracket, token.KwEnd:
		return true
	}
	return false
}
