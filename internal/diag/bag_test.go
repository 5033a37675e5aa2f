package diag

import (
	"testing"

	"deducels/internal/source"
)

func TestBagRespectsLimit(t *testing.T) {
	bag := NewBag(2)
	for i := 0; i < 3; i++ {
		bag.Add(Diagnostic{Severity: SevWarning, Code: SemaDuplicateSymbol})
	}
	if bag.Len() != 2 {
		t.Fatalf("expected 2 diagnostics, got %d", bag.Len())
	}
	if bag.Add(Diagnostic{Code: SynExpectTerm}) {
		t.Fatal("Add must refuse past the limit")
	}
}

func TestBagSortAndDedup(t *testing.T) {
	bag := NewBag(10)
	bag.Add(Diagnostic{Severity: SevWarning, Code: SemaDuplicateSymbol, Primary: source.Span{Start: 9, End: 10}})
	bag.Add(Diagnostic{Severity: SevError, Code: SynExpectTerm, Primary: source.Span{Start: 1, End: 2}})
	bag.Add(Diagnostic{Severity: SevError, Code: SynExpectTerm, Primary: source.Span{Start: 1, End: 2}, Message: "reworded"})
	bag.Add(Diagnostic{Severity: SevWarning, Code: LexUnknownChar, Primary: source.Span{Start: 1, End: 2}})

	bag.Sort()
	bag.Dedup()

	items := bag.Items()
	if len(items) != 3 {
		t.Fatalf("expected 3 diagnostics after dedup, got %d", len(items))
	}
	if items[0].Code != SynExpectTerm || items[1].Code != LexUnknownChar || items[2].Code != SemaDuplicateSymbol {
		t.Fatalf("unexpected order: %v, %v, %v", items[0].Code, items[1].Code, items[2].Code)
	}
	if items[0].Message != "" {
		t.Fatalf("dedup must keep the first occurrence, got %q", items[0].Message)
	}
}

func TestReportBuilderAndDedupReporter(t *testing.T) {
	var col Collector
	rep := NewDedupReporter(&col)

	sp := source.Span{Start: 4, End: 5}
	b := ReportWarning(rep, SemaDuplicateSymbol, sp, "x declared twice").
		WithNote(source.Span{Start: 0, End: 1}, "first declared here")
	b.Emit()
	b.Emit()
	// тот же код и span с другим текстом — всё равно повтор
	ReportWarning(rep, SemaDuplicateSymbol, sp, "x declared again").Emit()
	// другой span проходит
	ReportWarning(rep, SemaDuplicateSymbol, source.Span{Start: 6, End: 7}, "x declared twice").Emit()

	if len(col.Items) != 2 {
		t.Fatalf("expected 2 diagnostics, got %d", len(col.Items))
	}
	if rep.Dropped() != 1 {
		t.Fatalf("dropped = %d", rep.Dropped())
	}
	d := col.Items[0]
	if len(d.Notes) != 1 || d.Notes[0].Msg != "first declared here" {
		t.Fatalf("note lost: %+v", d.Notes)
	}
}

func TestCodeID(t *testing.T) {
	cases := map[Code]string{
		LexUnknownChar:      "LEX1001",
		SynExpectTerm:       "SYN2003",
		SemaDuplicateSymbol: "SEM3002",
		UnknownCode:         "E0000",
	}
	for code, want := range cases {
		if got := code.ID(); got != want {
			t.Errorf("%d.ID() = %q, want %q", code, got, want)
		}
	}
	if SynMissingEnd.Title() == UnknownCode.Title() {
		t.Error("SynMissingEnd needs a description")
	}
}
