package main

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"deducels/internal/diag"
	"deducels/internal/diagfmt"
	"deducels/internal/driver"
	"deducels/internal/ui"
)

func newDiagnoseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "diagnose [flags] PATH...",
		Short: "Report diagnostics for Deduce files and directories",
		Long:  `Diagnose analyzes every .pf file under the given paths in parallel and prints lexical, syntax and name-resolution diagnostics`,
		Args:  cobra.MinimumNArgs(1),
		RunE:  runDiagnose,
	}
	cmd.Flags().String("format", "pretty", "output format (pretty|json|msgpack)")
	cmd.Flags().Int("jobs", 0, "max parallel workers (0=auto)")
	cmd.Flags().String("ui", "auto", "progress UI mode (auto|on|off)")
	return cmd
}

func runDiagnose(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	switch format {
	case "pretty", "json", "msgpack":
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}
	uiValue, err := cmd.Flags().GetString("ui")
	if err != nil {
		return fmt.Errorf("failed to get ui flag: %w", err)
	}
	mode, err := readUIMode(uiValue)
	if err != nil {
		return err
	}
	g, err := readGlobalFlags(cmd, os.Stdout)
	if err != nil {
		return err
	}
	wd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get working directory: %w", err)
	}
	cfg, err := loadConfig(cmd, g, wd)
	if err != nil {
		return err
	}

	files, err := driver.CollectFiles(args)
	if err != nil {
		return err
	}

	opts := driver.DiagnoseOptions{Jobs: jobs}
	var res *driver.DiagnoseResult
	if !g.quiet && format == "pretty" && shouldUseTUI(mode) {
		events := make(chan driver.Event, len(files)*3)
		opts.Progress = events
		type outcome struct {
			res *driver.DiagnoseResult
			err error
		}
		done := make(chan outcome, 1)
		go func() {
			r, err := driver.DiagnoseFiles(cmd.Context(), files, opts)
			done <- outcome{r, err}
		}()
		if uiErr := ui.Run("diagnose", files, events, os.Stderr); uiErr != nil {
			// UI упал: дочитываем канал, чтобы воркеры не заблокировались
			for range events {
			}
		}
		out := <-done
		res, err = out.res, out.err
	} else {
		res, err = driver.DiagnoseFiles(cmd.Context(), files, opts)
	}
	if err != nil {
		return err
	}

	maxPerFile := cfg.Server.MaxDiagnostics
	var fds []diagfmt.FileDiagnostics
	var loadErrs []error
	for _, fr := range res.Files {
		if fr.Err != nil {
			loadErrs = append(loadErrs, fr.Err)
			continue
		}
		fds = append(fds, diagfmt.FileDiagnostics{File: fr.Snapshot.File, Diags: fr.Snapshot.Diags})
	}

	stdout := cmd.OutOrStdout()
	stderr := cmd.ErrOrStderr()
	for _, e := range loadErrs {
		fmt.Fprintln(stderr, "error:", e)
	}
	switch format {
	case "pretty":
		for _, fd := range fds {
			if len(fd.Diags) == 0 {
				continue
			}
			if maxPerFile > 0 && len(fd.Diags) > maxPerFile {
				fd.Diags = fd.Diags[:maxPerFile]
			}
			diagfmt.Pretty(stdout, fd, diagfmt.PrettyOpts{
				Color:     g.color,
				Context:   1,
				PathMode:  diagfmt.PathModeRelative,
				BaseDir:   wd,
				ShowNotes: true,
			})
		}
		if !g.quiet {
			printSummary(stderr, len(files), res.Count())
		}
	case "json":
		err = diagfmt.JSON(stdout, fds, diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         diagfmt.PathModeRelative,
			BaseDir:          wd,
			Max:              maxPerFile,
			IncludeNotes:     true,
		})
	case "msgpack":
		err = diagfmt.MsgPack(stdout, fds, diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         diagfmt.PathModeAbsolute,
			Max:              maxPerFile,
			IncludeNotes:     true,
		})
	}
	if err != nil {
		return err
	}

	if g.timings {
		fmt.Fprint(stderr, res.Timings.Summary())
	}
	if res.HasErrors() {
		return errDiagnosticsFound
	}
	return nil
}

func printSummary(w io.Writer, files int, counts map[diag.Severity]int) {
	sevs := make([]diag.Severity, 0, len(counts))
	for sev := range counts {
		sevs = append(sevs, sev)
	}
	sort.Slice(sevs, func(i, j int) bool { return sevs[i] > sevs[j] })
	fmt.Fprintf(w, "%d file(s) checked", files)
	for _, sev := range sevs {
		fmt.Fprintf(w, ", %d %s", counts[sev], sev)
	}
	fmt.Fprintln(w)
}
