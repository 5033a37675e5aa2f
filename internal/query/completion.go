package query

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"golang.org/x/text/cases"

	"deducels/internal/analysis"
	"deducels/internal/source"
	"deducels/internal/symbols"
	"deducels/internal/token"
)

// Completion item kinds that are not symbol kinds.
const (
	ItemKeyword  = "keyword"
	ItemOperator = "builtin-operator"
	ItemSnippet  = "snippet"
)

// CompletionOptions mirror the [completion] configuration section.
type CompletionOptions struct {
	Keywords bool // предлагать ключевые слова и встроенные операторы
	Snippets bool // induction-скелеты
	Fuzzy    bool // fuzzy вместо префикса
}

// DefaultCompletionOptions enables keywords and snippets with prefix matching.
func DefaultCompletionOptions() CompletionOptions {
	return CompletionOptions{Keywords: true, Snippets: true}
}

// CompletionItem is one candidate. Kind is a symbol kind name or one of the
// Item* constants.
type CompletionItem struct {
	Label      string        `json:"label"`
	Kind       string        `json:"kind"`
	Detail     string        `json:"detail,omitempty"`
	InsertText string        `json:"insertText,omitempty"`
	Replace    *source.Range `json:"replace,omitempty"` // диапазон, который заменяет InsertText
}

// Completion lists the names visible at pos. Local symbols come first
// (innermost scope first, one per name), then module symbols of imports,
// then keywords and builtin operators. prefix filters candidates; when it is
// nil the identifier fragment right before the cursor is used.
func Completion(e Env, pos source.Position, prefix *string, opts CompletionOptions) []CompletionItem {
	if e.Doc == nil {
		return nil
	}
	off := e.Doc.Offset(pos)
	typed := PrefixAt(e.Doc, off)
	if prefix != nil {
		typed = *prefix
	}
	m := newMatcher(typed, opts.Fuzzy)

	var items []CompletionItem
	seen := make(map[string]struct{})
	add := func(it CompletionItem) {
		if _, dup := seen[it.Label]; dup || !m.match(it.Label) {
			return
		}
		seen[it.Label] = struct{}{}
		items = append(items, it)
	}

	table := e.Doc.Table
	for _, id := range table.Visible(e.Doc.ScopeAt(off)) {
		add(symbolItem(table.Symbol(id)))
	}
	for _, imp := range e.Imports {
		if imp == nil {
			continue
		}
		for _, id := range imp.Table.ModuleSymbols() {
			it := symbolItem(imp.Table.Symbol(id))
			it.Detail = strings.TrimSpace(it.Detail + " (" + imp.URI + ")")
			add(it)
		}
	}
	if opts.Keywords {
		for _, kw := range token.Keywords() {
			add(CompletionItem{Label: kw, Kind: ItemKeyword})
		}
		for _, op := range token.Operators() {
			add(CompletionItem{Label: op, Kind: ItemOperator})
		}
	}
	m.rank(items)

	if opts.Snippets {
		// скелеты идут первыми: ради них и набирали `induction`
		items = append(InductionAdvice(e, pos), items...)
	}
	return items
}

func symbolItem(sym *symbols.Symbol) CompletionItem {
	it := CompletionItem{Label: sym.Name, Kind: sym.Kind.String()}
	switch {
	case sym.Signature != nil:
		it.Detail = sym.Signature.Label(displayName(sym))
	case sym.Type != "":
		it.Detail = sym.Type
	}
	return it
}

// PrefixAt returns the identifier fragment that ends at off.
func PrefixAt(s *analysis.Snapshot, off uint32) string {
	text := s.File.Content
	off = min(off, s.File.Len())
	start := int(off)
	for start > 0 {
		r, size := utf8.DecodeLastRune(text[:start])
		if !isNameRune(r) {
			break
		}
		start -= size
	}
	return string(text[start:off])
}

func isNameRune(r rune) bool {
	if r == 'λ' {
		return false
	}
	return r == '_' || r == '\'' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// matcher фильтрует и ранжирует кандидатов по набранному префиксу.
type matcher struct {
	prefix string
	folded string
	fuzzy  bool
	fold   cases.Caser
}

func newMatcher(prefix string, fuzzy bool) *matcher {
	m := &matcher{prefix: prefix, fuzzy: fuzzy, fold: cases.Fold()}
	m.folded = m.fold.String(prefix)
	return m
}

func (m *matcher) match(label string) bool {
	if m.prefix == "" {
		return true
	}
	if m.fuzzy {
		return fuzzy.MatchFold(m.prefix, label)
	}
	return strings.HasPrefix(m.fold.String(label), m.folded)
}

// rank orders candidates by edit distance to the prefix. Ties keep the
// scope order, so inner bindings stay ahead of outer ones.
func (m *matcher) rank(items []CompletionItem) {
	if m.prefix == "" {
		return
	}
	dist := make(map[string]int, len(items))
	for _, it := range items {
		dist[it.Label] = levenshtein.ComputeDistance(m.prefix, it.Label)
	}
	sort.SliceStable(items, func(i, j int) bool {
		return dist[items[i].Label] < dist[items[j].Label]
	})
}
