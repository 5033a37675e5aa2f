package query

import (
	"strings"

	"deducels/internal/source"
	"deducels/internal/symbols"
)

// Hover describes the symbol under the cursor.
type Hover struct {
	Kind      string       `json:"kind"`
	Name      string       `json:"name"`
	Signature string       `json:"signature,omitempty"`
	Type      string       `json:"type,omitempty"`
	Scope     string       `json:"scope"`
	URI       string       `json:"uri,omitempty"` // где объявлен, если не в этом документе
	Range     source.Range `json:"range"`
}

// HoverAt returns ok == false when pos is not on a name that resolves.
func HoverAt(e Env, pos source.Position) (Hover, bool) {
	if e.Doc == nil {
		return Hover{}, false
	}
	t, ok := e.symbolAt(e.Doc.Offset(pos))
	if !ok || t.sym == nil {
		return Hover{}, false
	}
	sym := t.sym
	h := Hover{
		Kind:  sym.Kind.String(),
		Name:  sym.Name,
		Type:  sym.Type,
		Scope: t.snap.Table.Describe(sym.Scope),
		Range: e.Doc.Range(t.at),
	}
	if sym.Signature != nil {
		h.Signature = sym.Signature.Label(displayName(sym))
	}
	if t.snap != e.Doc {
		h.URI = t.snap.URI
	}
	return h, true
}

// displayName — операторы показываются так, как их объявляют.
func displayName(sym *symbols.Symbol) string {
	if sym.Kind == symbols.SymbolOperator {
		return "operator " + sym.Name
	}
	return sym.Name
}

// Markdown renders the hover the way editors show it.
func (h Hover) Markdown() string {
	var b strings.Builder
	b.WriteString("```deduce\n")
	b.WriteString(h.Kind)
	b.WriteByte(' ')
	switch {
	case h.Signature != "":
		b.WriteString(h.Signature)
	case h.Type != "" && h.Kind != symbols.SymbolType.String():
		b.WriteString(h.Name + ": " + h.Type)
	default:
		b.WriteString(h.Name)
	}
	b.WriteString("\n```\n")
	b.WriteString("declared in " + h.Scope)
	if h.URI != "" {
		b.WriteString(" of " + h.URI)
	}
	return b.String()
}
