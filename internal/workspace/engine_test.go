package workspace

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"deducels/internal/config"
	"deducels/internal/source"
)

func openFile(t *testing.T, e *Engine, path, text string) string {
	t.Helper()
	uri := source.URIFromPath(path)
	if _, err := e.Analyze(uri, 1, text); err != nil {
		t.Fatalf("Analyze %s: %v", path, err)
	}
	return uri
}

func posIn(t *testing.T, e *Engine, uri, text, needle string) source.Position {
	t.Helper()
	doc, err := e.Store().Get(uri)
	if err != nil {
		t.Fatal(err)
	}
	off := strings.Index(text, needle)
	if off < 0 {
		t.Fatalf("%q not in text", needle)
	}
	return doc.Snapshot.File.PositionAt(uint32(off))
}

func TestImportsResolveAgainstOpenDocuments(t *testing.T) {
	dir := t.TempDir()
	e := NewEngine(OptionsFromConfig(config.Default()))

	mainText := "import Nat\nimport Missing\ndefine two = suc(suc(zero))\n"
	mainURI := openFile(t, e, filepath.Join(dir, "main.pf"), mainText)

	// Nat ещё не открыт — имя не разрешается, и это не ошибка
	if _, ok, err := e.Definition(mainURI, posIn(t, e, mainURI, mainText, "suc")); err != nil || ok {
		t.Fatalf("definition before the import is open: ok=%v err=%v", ok, err)
	}

	libURI := openFile(t, e, filepath.Join(dir, "lib", "Nat.pf"), "union Nat { zero suc(Nat) }\n")
	loc, ok, err := e.Definition(mainURI, posIn(t, e, mainURI, mainText, "suc"))
	if err != nil || !ok || loc.URI != libURI {
		t.Fatalf("definition through lib/Nat.pf = %+v, %v, %v", loc, ok, err)
	}
	h, ok, err := e.Hover(mainURI, posIn(t, e, mainURI, mainText, "zero"))
	if err != nil || !ok || h.Kind != "constructor" {
		t.Fatalf("hover = %+v, %v, %v", h, ok, err)
	}

	// файл рядом важнее lib/
	siblingURI := openFile(t, e, filepath.Join(dir, "Nat.pf"), "union Nat { zero suc(Nat) }\n")
	loc, _, _ = e.Definition(mainURI, posIn(t, e, mainURI, mainText, "suc"))
	if loc.URI != siblingURI {
		t.Fatalf("sibling file must win, got %s", loc.URI)
	}
}

func TestSearchDirectories(t *testing.T) {
	dir := t.TempDir()
	shared := filepath.Join(dir, "shared")
	if err := os.MkdirAll(shared, 0o755); err != nil {
		t.Fatal(err)
	}
	opts := OptionsFromConfig(config.Default())
	opts.ImportSearch = []string{shared}
	e := NewEngine(opts)

	mainText := "import Bool\ndefine t = yes\n"
	mainURI := openFile(t, e, filepath.Join(dir, "proj", "main.pf"), mainText)
	openFile(t, e, filepath.Join(shared, "Bool.pf"), "union Bool { yes no }\n")

	if _, ok, err := e.Definition(mainURI, posIn(t, e, mainURI, mainText, "yes")); err != nil || !ok {
		t.Fatalf("definition through search dir: ok=%v err=%v", ok, err)
	}
}

func TestEngineQueriesAndErrors(t *testing.T) {
	opts := OptionsFromConfig(config.Default())
	opts.MaxDiagnostics = 1
	e := NewEngine(opts)
	uri := "file:///work/q.pf"
	text := "fun f(a:Nat, b:Nat) -> Nat { a }\ndefine r = f(1, 2)\ndefine = 1\ndefine = 2\n"
	if _, err := e.Analyze(uri, 1, text); err != nil {
		t.Fatal(err)
	}

	diags, err := e.Diagnostics(uri)
	if err != nil || len(diags) != 1 {
		t.Fatalf("diagnostics = %+v, %v", diags, err)
	}
	help, ok, err := e.SignatureHelp(uri, posIn(t, e, uri, text, "2)"))
	if err != nil || !ok || help.Active != 1 {
		t.Fatalf("signature help = %+v, %v, %v", help, ok, err)
	}
	prefix := "f"
	items, err := e.Completion(uri, posIn(t, e, uri, text, "define r"), &prefix)
	if err != nil || len(items) == 0 || items[0].Label != "f" {
		t.Fatalf("completion = %+v, %v", items, err)
	}

	e.SetOptions(Options{MaxDiagnostics: 0})
	if diags, _ := e.Diagnostics(uri); len(diags) < 2 {
		t.Fatalf("limit 0 must return everything, got %d", len(diags))
	}

	const missing = "file:///work/none.pf"
	if _, err := e.Diagnostics(missing); !errors.Is(err, ErrUnknownDocument) {
		t.Fatalf("Diagnostics on unknown document: %v", err)
	}
	if _, _, err := e.Hover(missing, source.Position{}); !errors.Is(err, ErrUnknownDocument) {
		t.Fatalf("Hover on unknown document: %v", err)
	}
	if err := e.Close(uri); err != nil {
		t.Fatal(err)
	}
	if _, err := e.Completion(uri, source.Position{}, nil); !errors.Is(err, ErrUnknownDocument) {
		t.Fatalf("Completion after close: %v", err)
	}
}
