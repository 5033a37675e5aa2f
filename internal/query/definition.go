package query

import "deducels/internal/source"

// Definition returns the declaration of the name at pos. Invoking it on a
// declaration returns that declaration, so the result is a fixed point.
// Unresolved names and non-name positions give ok == false.
func Definition(e Env, pos source.Position) (Location, bool) {
	if e.Doc == nil {
		return Location{}, false
	}
	t, ok := e.symbolAt(e.Doc.Offset(pos))
	if !ok || t.sym == nil {
		return Location{}, false
	}
	return locationOf(t.snap, t.sym.Span), true
}
