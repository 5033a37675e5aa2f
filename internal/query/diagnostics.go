package query

import (
	"deducels/internal/analysis"
	"deducels/internal/diag"
	"deducels/internal/source"
)

// Diagnostic is a snapshot diagnostic mapped to editor ranges.
type Diagnostic struct {
	Range    source.Range  `json:"range"`
	Severity diag.Severity `json:"severity"`
	Code     string        `json:"code"`
	Message  string        `json:"message"`
	Notes    []Note        `json:"notes,omitempty"`
}

// Note is a secondary location of a Diagnostic.
type Note struct {
	Range   source.Range `json:"range"`
	Message string       `json:"message"`
}

// Diagnostics returns the parser and resolver diagnostics of s in position
// order, at most limit of them (limit <= 0 means all).
func Diagnostics(s *analysis.Snapshot, limit int) []Diagnostic {
	if s == nil {
		return nil
	}
	items := s.Diags
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	out := make([]Diagnostic, 0, len(items))
	for _, d := range items {
		qd := Diagnostic{
			Range:    s.Range(d.Primary),
			Severity: d.Severity,
			Code:     d.Code.ID(),
			Message:  d.Message,
		}
		for _, n := range d.Notes {
			qd.Notes = append(qd.Notes, Note{Range: s.Range(n.Span), Message: n.Msg})
		}
		out = append(out, qd)
	}
	return out
}
