package driver

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"deducels/internal/analysis"
	"deducels/internal/diag"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}
}

func TestCollectFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "b.pf"), "")
	writeFile(t, filepath.Join(dir, "a.pf"), "")
	writeFile(t, filepath.Join(dir, "lib", "c.pf"), "")
	writeFile(t, filepath.Join(dir, "notes.txt"), "")

	got, err := CollectFiles([]string{dir, filepath.Join(dir, "a.pf")})
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	want := []string{
		filepath.Join(dir, "a.pf"),
		filepath.Join(dir, "b.pf"),
		filepath.Join(dir, "lib", "c.pf"),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("files (-want +got):\n%s", diff)
	}

	empty := t.TempDir()
	if _, err := CollectFiles([]string{empty}); !errors.Is(err, ErrNoFiles) {
		t.Fatalf("expected ErrNoFiles, got %v", err)
	}
	if _, err := CollectFiles([]string{filepath.Join(dir, "missing.pf")}); err == nil {
		t.Fatalf("expected stat error")
	}
}

func TestDiagnoseFilesParallel(t *testing.T) {
	dir := t.TempDir()
	var files []string
	for _, name := range []string{"ok1.pf", "bad.pf", "ok2.pf", "dup.pf"} {
		files = append(files, filepath.Join(dir, name))
	}
	writeFile(t, files[0], "define a = 1\n")
	writeFile(t, files[1], "define = 1\n")
	writeFile(t, files[2], "fun f(x:Nat) -> Nat { x }\n")
	writeFile(t, files[3], "define a = 1\ndefine a = 2\n")
	files = append(files, filepath.Join(dir, "gone.pf"))

	events := make(chan Event, 64)
	res, err := DiagnoseFiles(context.Background(), files, DiagnoseOptions{Jobs: 2, Progress: events})
	if err != nil {
		t.Fatalf("diagnose: %v", err)
	}

	var finished []string
	for ev := range events {
		if ev.Stage == StageAnalyze && (ev.Status == StatusDone || ev.Status == StatusError) {
			finished = append(finished, ev.File)
		}
	}
	if len(finished) != len(files) {
		t.Fatalf("finished events = %v", finished)
	}

	if len(res.Files) != len(files) {
		t.Fatalf("results = %d", len(res.Files))
	}
	for i, r := range res.Files {
		if r.Path != files[i] {
			t.Fatalf("result %d is %s, want input order", i, r.Path)
		}
	}
	if res.Files[0].Snapshot == nil || len(res.Files[0].Snapshot.Diags) != 0 {
		t.Errorf("ok1 diagnostics: %+v", res.Files[0])
	}
	if res.Files[4].Err == nil || res.Files[4].Snapshot != nil {
		t.Errorf("missing file must carry an error: %+v", res.Files[4])
	}
	if !res.HasErrors() {
		t.Errorf("HasErrors must be true")
	}
	counts := res.Count()
	if counts[diag.SevError] == 0 || counts[diag.SevWarning] != 1 {
		t.Errorf("counts = %v", counts)
	}
	if len(res.Timings.Phases) != 3 {
		t.Errorf("merged phases = %+v", res.Timings.Phases)
	}
}

func TestDiagnoseFilesCanceled(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.pf")
	writeFile(t, path, "define a = 1\n")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := DiagnoseFiles(ctx, []string{path}, DiagnoseOptions{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestAnalyzeFileUsesFileURI(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "m.pf")
	writeFile(t, path, "define a = 1\n")
	snap, err := AnalyzeFile(path, analysis.Options{})
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if snap.Path != path {
		t.Fatalf("path = %q, uri = %q", snap.Path, snap.URI)
	}
}
