// Package driver runs the analysis over files on disk for the command line:
// single-file helpers and the parallel batch used by `deducels diagnose`.
package driver

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"deducels/internal/analysis"
	"deducels/internal/diag"
	"deducels/internal/observ"
	"deducels/internal/source"
)

// Ext is the extension of Deduce sources.
const Ext = ".pf"

// ErrNoFiles is returned when the given paths contain no Deduce sources.
var ErrNoFiles = errors.New("no " + Ext + " files found")

// DiagnoseOptions configures DiagnoseFiles.
type DiagnoseOptions struct {
	Jobs int // 0 — GOMAXPROCS
	// Progress receives per-file events and is closed when DiagnoseFiles
	// returns. May be nil.
	Progress chan<- Event
}

// FileResult is the outcome for one file. Err is set when the file could not
// be read; Snapshot is nil then.
type FileResult struct {
	Path     string
	Snapshot *analysis.Snapshot
	Err      error
	Elapsed  time.Duration
}

// DiagnoseResult keeps results in the order of the input files.
type DiagnoseResult struct {
	Files   []FileResult
	Timings observ.Report
}

// HasErrors reports whether any file failed to load or has an error-severity
// diagnostic.
func (r *DiagnoseResult) HasErrors() bool {
	for _, f := range r.Files {
		if f.Err != nil || (f.Snapshot != nil && f.Snapshot.HasErrors()) {
			return true
		}
	}
	return false
}

// Count returns the number of diagnostics per severity.
func (r *DiagnoseResult) Count() map[diag.Severity]int {
	out := make(map[diag.Severity]int)
	for _, f := range r.Files {
		if f.Snapshot == nil {
			continue
		}
		for _, d := range f.Snapshot.Diags {
			out[d.Severity]++
		}
	}
	return out
}

// CollectFiles expands directories into their *.pf files (recursively,
// sorted) and keeps plain files as given. Duplicates are dropped.
func CollectFiles(paths []string) ([]string, error) {
	var files []string
	seen := make(map[string]struct{})
	add := func(p string) {
		clean := filepath.Clean(p)
		if _, dup := seen[clean]; dup {
			return
		}
		seen[clean] = struct{}{}
		files = append(files, clean)
	}
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("failed to stat %q: %w", p, err)
		}
		if !info.IsDir() {
			add(p)
			continue
		}
		var found []string
		err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && strings.HasSuffix(path, Ext) {
				found = append(found, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
		// Сортируем для детерминированного порядка
		sort.Strings(found)
		for _, f := range found {
			add(f)
		}
	}
	if len(files) == 0 {
		return nil, ErrNoFiles
	}
	return files, nil
}

// AnalyzeFile reads path and analyzes it as a document with a file:// URI.
func AnalyzeFile(path string, opts analysis.Options) (*analysis.Snapshot, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %q: %w", path, err)
	}
	content, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("failed to read %q: %w", path, err)
	}
	return analysis.Analyze(source.URIFromPath(abs), string(content), opts), nil
}

// DiagnoseFiles analyzes files in parallel. Unreadable files are reported in
// their FileResult and do not stop the batch; only cancellation of ctx does.
func DiagnoseFiles(ctx context.Context, files []string, opts DiagnoseOptions) (*DiagnoseResult, error) {
	if opts.Progress != nil {
		defer close(opts.Progress)
	}
	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	for _, f := range files {
		emit(opts.Progress, Event{File: f, Stage: StageLoad, Status: StatusQueued})
	}

	// индексы уникальны для каждой горутины, мьютекс не нужен
	results := make([]FileResult, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, min(jobs, len(files))))
	for i, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			start := time.Now()
			emit(opts.Progress, Event{File: path, Stage: StageAnalyze, Status: StatusWorking})
			snap, err := AnalyzeFile(path, analysis.Options{})
			elapsed := time.Since(start)
			results[i] = FileResult{Path: path, Snapshot: snap, Err: err, Elapsed: elapsed}
			status := StatusDone
			if err != nil || snap.HasErrors() {
				status = StatusError
			}
			emit(opts.Progress, Event{File: path, Stage: StageAnalyze, Status: status, Err: err, Elapsed: elapsed})
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	res := &DiagnoseResult{Files: results}
	for _, r := range results {
		if r.Snapshot != nil {
			res.Timings = res.Timings.Merge(r.Snapshot.Timings)
		}
	}
	return res, nil
}
