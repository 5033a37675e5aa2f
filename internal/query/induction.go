package query

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"deducels/internal/analysis"
	"deducels/internal/source"
	"deducels/internal/symbols"
)

// InductionAdvice offers, on a line that starts with `induction`, one case
// skeleton per union type visible from the cursor. Each item replaces the
// typed line with
//
//	induction T
//	case C(x1, ..., xn) assume IH1, ... {
//	  ?
//	}
//
// where xi is the first letter of the i-th parameter type plus i, and one IH
// label is produced per parameter whose type is T itself.
func InductionAdvice(e Env, pos source.Position) []CompletionItem {
	if e.Doc == nil {
		return nil
	}
	off := e.Doc.Offset(pos)
	line := lineBefore(e.Doc, off)
	typed := strings.TrimSpace(line)
	if !strings.HasPrefix(typed, "induction") {
		return nil
	}
	want := strings.TrimSpace(strings.TrimPrefix(typed, "induction"))
	indent := line[:len(line)-len(strings.TrimLeft(line, " \t"))]

	start := off - uint32(len(line)-len(indent))
	replace := e.Doc.Range(source.Span{File: e.Doc.File.ID, Start: start, End: off})

	var items []CompletionItem
	seen := make(map[string]struct{})
	emit := func(snap *analysis.Snapshot, sym *symbols.Symbol) {
		if _, dup := seen[sym.Name]; dup || !strings.HasPrefix(sym.Name, want) {
			return
		}
		seen[sym.Name] = struct{}{}
		items = append(items, CompletionItem{
			Label:      "induction " + sym.Name,
			Kind:       ItemSnippet,
			Detail:     "case skeleton for " + sym.Name,
			InsertText: skeleton(snap, sym, indent),
			Replace:    &replace,
		})
	}

	for _, id := range e.Doc.Table.Visible(e.Doc.ScopeAt(off)) {
		if sym := e.Doc.Table.Symbol(id); isUnionType(e.Doc.Table, sym) {
			emit(e.Doc, sym)
		}
	}
	for _, imp := range e.Imports {
		if imp == nil {
			continue
		}
		for _, id := range imp.Table.ModuleSymbols() {
			if sym := imp.Table.Symbol(id); isUnionType(imp.Table, sym) {
				emit(imp, sym)
			}
		}
	}
	return items
}

// isUnionType: типы модульного уровня — это union; параметры типов живут глубже.
func isUnionType(table *symbols.Table, sym *symbols.Symbol) bool {
	return sym != nil && sym.Kind == symbols.SymbolType && sym.Scope == table.Root
}

func lineBefore(s *analysis.Snapshot, off uint32) string {
	text := s.File.Content[:off]
	if i := strings.LastIndexByte(string(text), '\n'); i >= 0 {
		text = text[i+1:]
	}
	return string(text)
}

// constructorsOf возвращает конструкторы union в порядке объявления.
func constructorsOf(snap *analysis.Snapshot, union *symbols.Symbol) []*symbols.Symbol {
	var out []*symbols.Symbol
	all := snap.Table.Symbols.All()
	for i := range all {
		sym := &all[i]
		if sym.Kind == symbols.SymbolConstructor && union.Decl.Encloses(sym.Decl) {
			out = append(out, sym)
		}
	}
	return out
}

func skeleton(snap *analysis.Snapshot, union *symbols.Symbol, indent string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "induction %s\n", union.Name) // отступ первой строки уже набран
	for _, ctor := range constructorsOf(snap, union) {
		fmt.Fprintf(&b, "%scase %s", indent, ctor.Name)
		var names, ihs []string
		if ctor.Signature != nil {
			for i, p := range ctor.Signature.Params {
				name := fmt.Sprintf("%s%d", firstLetter(p.Type), i+1)
				names = append(names, name)
				if isRecursiveParam(union.Name, p.Type) {
					ihs = append(ihs, fmt.Sprintf("IH%d", len(ihs)+1))
				}
			}
		}
		if len(names) > 0 {
			b.WriteString("(" + strings.Join(names, ", ") + ")")
		}
		if len(ihs) > 0 {
			b.WriteString(" assume " + strings.Join(ihs, ", "))
		}
		fmt.Fprintf(&b, " {\n%s  ?\n%s}\n", indent, indent)
	}
	return b.String()
}

// firstLetter — строчная первая буква имени типа (List<T> -> l).
func firstLetter(typ string) string {
	r, _ := utf8.DecodeRuneInString(strings.TrimLeft(typ, "( "))
	if r == utf8.RuneError || !unicode.IsLetter(r) {
		return "x"
	}
	return string(unicode.ToLower(r))
}

// isRecursiveParam: тип параметра — сам union (возможно, с аргументами).
func isRecursiveParam(union, typ string) bool {
	typ = strings.TrimSpace(typ)
	return typ == union || strings.HasPrefix(typ, union+"<")
}
