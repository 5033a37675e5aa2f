package diag

import "deducels/internal/source"

// dedupKey: повтор — тот же код на том же primary span; текст сообщения
// не учитывается, восстановление парсера может формулировать его по-разному.
type dedupKey struct {
	code Code
	span source.Span
}

func keyOf(code Code, primary source.Span) dedupKey {
	return dedupKey{code: code, span: primary}
}

// DedupReporter forwards each (code, primary span) pair once. analysis wraps
// a caller's streaming Reporter with it so the stream matches the deduplicated
// snapshot.
type DedupReporter struct {
	next    Reporter
	seen    map[dedupKey]struct{}
	dropped int
}

func NewDedupReporter(next Reporter) *DedupReporter {
	return &DedupReporter{next: next, seen: make(map[dedupKey]struct{})}
}

func (r *DedupReporter) Report(code Code, sev Severity, primary source.Span, msg string, notes []Note) {
	key := keyOf(code, primary)
	if _, dup := r.seen[key]; dup {
		r.dropped++
		return
	}
	r.seen[key] = struct{}{}
	if r.next != nil {
		r.next.Report(code, sev, primary, msg, notes)
	}
}

// Dropped returns how many repeats were suppressed.
func (r *DedupReporter) Dropped() int { return r.dropped }
