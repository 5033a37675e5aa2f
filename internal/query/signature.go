package query

import (
	"sort"

	"deducels/internal/analysis"
	"deducels/internal/ast"
	"deducels/internal/source"
	"deducels/internal/token"
)

// SignatureHelp is the shape of the callable around the cursor.
type SignatureHelp struct {
	Label  string   `json:"label"`
	Params []string `json:"params"`
	Active int      `json:"active"`
}

// Signature finds the innermost application `f(…)` or instantiation
// `thm[…]` whose argument list holds the cursor, resolves its callee and
// reports the parameter under the cursor: the number of argument commas
// between the opening delimiter and the cursor. It returns ok == false when
// the callee is unresolved or has no recorded signature.
func Signature(e Env, pos source.Position) (SignatureHelp, bool) {
	if e.Doc == nil {
		return SignatureHelp{}, false
	}
	off := e.Doc.Offset(pos)
	app := applicationAt(e.Doc, off)
	if app == nil {
		return SignatureHelp{}, false
	}
	name := calleeName(app.Child(0))
	if name == nil {
		return SignatureHelp{}, false
	}
	t, ok := e.symbolAt(name.Span.Start)
	if !ok || t.sym == nil || t.sym.Signature == nil {
		return SignatureHelp{}, false
	}
	sig := t.sym.Signature
	help := SignatureHelp{
		Label:  sig.Label(displayName(t.sym)),
		Params: make([]string, 0, len(sig.Params)),
	}
	for _, p := range sig.Params {
		help.Params = append(help.Params, p.String())
	}
	for _, c := range app.Children[2:] {
		if c.IsLeaf() && c.Token.Kind == token.Comma && c.Span.End <= off {
			help.Active++
		}
	}
	if n := len(help.Params); n > 0 && help.Active >= n {
		help.Active = n - 1
	}
	return help, true
}

// calleeName достаёт лист-имя из f, operator OP или @f<T>.
func calleeName(callee *ast.Node) *ast.Node {
	switch callee.Kind {
	case ast.KindTypeInst:
		callee = callee.FirstOf(ast.KindName)
	case ast.KindName:
	default:
		return nil
	}
	for _, c := range callee.Children {
		if c.IsLeaf() && (c.Token.Kind == token.Ident || c.Token.Kind == token.Operator) {
			return c
		}
	}
	return nil
}

// applicationAt ищет самое внутреннее применение, в скобках которого стоит
// курсор. У незакрытого применения скобка тянется до следующего токена.
func applicationAt(s *analysis.Snapshot, off uint32) *ast.Node {
	var best *ast.Node
	ast.Walk(s.Root, func(n *ast.Node) bool {
		if n.Span.Start > off {
			return false
		}
		if (n.Kind == ast.KindCall || n.Kind == ast.KindInstantiate) && insideArgs(s, n, off) {
			best = n // Walk идёт сверху вниз, последний найденный — самый внутренний
		}
		return n.Span.End >= off || !closedByDelimiterLeaf(n)
	})
	return best
}

func insideArgs(s *analysis.Snapshot, app *ast.Node, off uint32) bool {
	open := app.Child(1)
	if open == nil || !open.IsLeaf() || open.Span.End > off {
		return false
	}
	last := app.Children[len(app.Children)-1]
	if last.IsLeaf() && isCloser(last.Token.Kind) && last != open {
		return off <= last.Span.Start
	}
	// незакрыто: курсор не дальше начала следующего токена
	next, ok := nextTokenAfter(s, app.Span.End)
	return !ok || off <= next.Span.Start
}

func isCloser(k token.Kind) bool {
	return k == token.RParen || k == token.RBracket
}

func closedByDelimiterLeaf(n *ast.Node) bool {
	if len(n.Children) == 0 {
		return true
	}
	last := n.Children[len(n.Children)-1]
	if last.IsLeaf() {
		return isCloser(last.Token.Kind) || last.Token.Kind == token.RBrace
	}
	return closedByDelimiterLeaf(last)
}

func nextTokenAfter(s *analysis.Snapshot, end uint32) (token.Token, bool) {
	i := sort.Search(len(s.Tokens), func(i int) bool { return s.Tokens[i].Span.Start >= end })
	if i >= len(s.Tokens) || s.Tokens[i].Kind == token.EOF {
		return token.Token{}, false
	}
	return s.Tokens[i], true
}
