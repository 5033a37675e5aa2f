package diagfmt

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/vmihailenco/msgpack/v5"

	"deducels/internal/analysis"
	"deducels/internal/diag"
	"deducels/internal/source"
)

func virtualFile(path, content string) *source.File {
	fs := source.NewFileSet()
	return fs.Get(fs.AddVirtual(path, []byte(content)))
}

func unterminated(f *source.File) FileDiagnostics {
	return FileDiagnostics{File: f, Diags: []diag.Diagnostic{{
		Severity: diag.SevError,
		Code:     diag.LexUnterminatedString,
		Message:  "Unterminated string literal",
		Primary:  source.Span{File: f.ID, Start: 11, End: 24},
	}}}
}

// TestPathModes проверяет различные режимы форматирования путей
func TestPathModes(t *testing.T) {
	f := virtualFile("/home/user/project/src/test.pf", "define x = \"unterminated\n")

	tests := []struct {
		name     string
		mode     PathMode
		contains string
	}{
		{"Absolute path", PathModeAbsolute, "/home/user/project/src/test.pf"},
		{"Relative path", PathModeRelative, "src/test.pf:1:12"},
		{"Basename only", PathModeBasename, "test.pf:1:12"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			Pretty(&buf, unterminated(f), PrettyOpts{PathMode: tt.mode, BaseDir: "/home/user/project"})
			output := buf.String()
			if !strings.Contains(output, tt.contains) {
				t.Errorf("expected output to contain %q, got:\n%s", tt.contains, output)
			}
			for _, want := range []string{"ERROR", "LEX1002", "Unterminated string"} {
				if !strings.Contains(output, want) {
					t.Errorf("expected %q in output:\n%s", want, output)
				}
			}
		})
	}
}

func TestFormatPathAuto(t *testing.T) {
	if got := FormatPath("test.pf", PathModeAuto, ""); got != "test.pf" {
		t.Errorf("short path = %q", got)
	}
	long := "/very/long/absolute/path/to/some/nested/directory/file.pf"
	if got := FormatPath(long, PathModeAuto, ""); got != "file.pf" {
		t.Errorf("long path = %q", got)
	}
	if got := FormatPath("/elsewhere/a.pf", PathModeRelative, "/home"); got != "/elsewhere/a.pf" {
		t.Errorf("relative outside base = %q", got)
	}
}

func TestPrettyUnderlineUsesDisplayWidth(t *testing.T) {
	// 世界 занимает четыре колонки терминала
	f := virtualFile("w.pf", "define 世界 = \tzz\n")
	start := uint32(strings.Index(string(f.Content), "zz"))
	fd := FileDiagnostics{File: f, Diags: []diag.Diagnostic{{
		Severity: diag.SevWarning,
		Code:     diag.SemaDuplicateSymbol,
		Message:  "dup",
		Primary:  source.Span{File: f.ID, Start: start, End: start + 2},
	}}}
	var buf bytes.Buffer
	Pretty(&buf, fd, PrettyOpts{})
	lines := strings.Split(buf.String(), "\n")
	if len(lines) < 3 {
		t.Fatalf("output:\n%s", buf.String())
	}
	if !strings.HasPrefix(lines[0], "w.pf:1:14: WARNING SEM3002: dup") {
		t.Errorf("header = %q", lines[0])
	}
	src, marks := lines[1], lines[2]
	bar := strings.Index(src, "| ") + 2
	if marks[bar:] != strings.Repeat(" ", 18)+"^~" {
		t.Errorf("underline misplaced:\n%s\n%s", src, marks)
	}
}

func TestPrettyNotesAndContext(t *testing.T) {
	s := analysis.Analyze("file:///n.pf", "define a = 1\ndefine a = 2\n", analysis.Options{})
	var buf bytes.Buffer
	Pretty(&buf, FileDiagnostics{File: s.File, Diags: s.Diags}, PrettyOpts{ShowNotes: true, Context: 1})
	out := buf.String()
	if !strings.Contains(out, "note:") || !strings.Contains(out, "previous declaration here") {
		t.Fatalf("notes missing:\n%s", out)
	}
	if !strings.Contains(out, " 1 | define a = 1") || !strings.Contains(out, " 2 | define a = 2") {
		t.Fatalf("context lines missing:\n%s", out)
	}
}

func TestJSONAndMsgPackAgree(t *testing.T) {
	f := virtualFile("/p/test.pf", "define x = \"unterminated\n")
	files := []FileDiagnostics{unterminated(f)}
	opts := JSONOpts{IncludePositions: true, PathMode: PathModeBasename, IncludeNotes: true}

	var jbuf bytes.Buffer
	if err := JSON(&jbuf, files, opts); err != nil {
		t.Fatalf("json: %v", err)
	}
	var fromJSON DiagnosticsOutput
	if err := json.Unmarshal(jbuf.Bytes(), &fromJSON); err != nil {
		t.Fatalf("decode json: %v", err)
	}

	var mbuf bytes.Buffer
	if err := MsgPack(&mbuf, files, opts); err != nil {
		t.Fatalf("msgpack: %v", err)
	}
	var fromMsgPack DiagnosticsOutput
	if err := msgpack.Unmarshal(mbuf.Bytes(), &fromMsgPack); err != nil {
		t.Fatalf("decode msgpack: %v", err)
	}

	if diff := cmp.Diff(fromJSON, fromMsgPack); diff != "" {
		t.Fatalf("json and msgpack differ (-json +msgpack):\n%s", diff)
	}
	if fromJSON.Count != 1 || fromJSON.Files != 1 {
		t.Fatalf("output = %+v", fromJSON)
	}
	d := fromJSON.Diagnostics[0]
	if d.Code != "LEX1002" || d.Location.File != "test.pf" || d.Location.StartCol == nil || *d.Location.StartCol != 11 {
		t.Fatalf("diagnostic = %+v", d)
	}
}

func TestJSONMaxPerFile(t *testing.T) {
	s := analysis.Analyze("file:///d.pf", "define = 1\ndefine = 2\ndefine = 3\n", analysis.Options{})
	out := BuildDiagnosticsOutput([]FileDiagnostics{{File: s.File, Diags: s.Diags}}, JSONOpts{Max: 2})
	if out.Count != 2 {
		t.Fatalf("count = %d", out.Count)
	}
	if out.Diagnostics[0].Location.StartLine != nil {
		t.Errorf("positions must be omitted by default")
	}
}

func TestTokensAndTree(t *testing.T) {
	s := analysis.Analyze("file:///t.pf", "define x = 1\n", analysis.Options{})

	var tok bytes.Buffer
	if err := FormatTokensPretty(&tok, s.Tokens, s.File); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(tok.String(), `"define" at 1:1-1:7`) || !strings.Contains(tok.String(), "EOF") {
		t.Fatalf("tokens:\n%s", tok.String())
	}

	var tree bytes.Buffer
	if err := FormatTree(&tree, s.Root, s.File); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(tree.String()), "\n")
	if !strings.HasPrefix(lines[0], "Module ") || !strings.HasPrefix(lines[1], "  Define ") {
		t.Fatalf("tree:\n%s", tree.String())
	}

	var js bytes.Buffer
	if err := FormatTreeJSON(&js, s.Root, s.File); err != nil {
		t.Fatal(err)
	}
	var node TreeNode
	if err := json.Unmarshal(js.Bytes(), &node); err != nil {
		t.Fatalf("decode tree: %v", err)
	}
	if node.Kind != "Module" || len(node.Children) != 1 || node.Children[0].Kind != "Define" {
		t.Fatalf("tree json = %+v", node)
	}
}
