package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"deducels/internal/analysis"
	"deducels/internal/diagfmt"
	"deducels/internal/driver"
)

func newParseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse [flags] file.pf",
		Short: "Parse a Deduce source file and print its syntax tree",
		Args:  cobra.ExactArgs(1),
		RunE:  runParse,
	}
	cmd.Flags().String("format", "tree", "output format (tree|json)")
	cmd.Flags().Bool("verify", false, "check the structural invariants of the tree and symbol table")
	return cmd
}

func runParse(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	verify, err := cmd.Flags().GetBool("verify")
	if err != nil {
		return fmt.Errorf("failed to get verify flag: %w", err)
	}
	g, err := readGlobalFlags(cmd, os.Stderr)
	if err != nil {
		return err
	}

	snap, err := driver.AnalyzeFile(args[0], analysis.Options{})
	if err != nil {
		return fmt.Errorf("parse failed: %w", err)
	}
	if len(snap.Diags) > 0 && !g.quiet {
		diags := snap.Diags
		if g.maxDiagnostics > 0 && len(diags) > g.maxDiagnostics {
			diags = diags[:g.maxDiagnostics]
		}
		diagfmt.Pretty(cmd.ErrOrStderr(), diagfmt.FileDiagnostics{File: snap.File, Diags: diags}, diagfmt.PrettyOpts{
			Color:     g.color,
			Context:   1,
			ShowNotes: true,
		})
	}
	if g.timings {
		fmt.Fprint(cmd.ErrOrStderr(), snap.Timings.Summary())
	}

	out := cmd.OutOrStdout()
	switch format {
	case "tree":
		err = diagfmt.FormatTree(out, snap.Root, snap.File)
	case "json":
		err = diagfmt.FormatTreeJSON(out, snap.Root, snap.File)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
	if err != nil {
		return err
	}
	if verify {
		if err := snap.Verify(); err != nil {
			return fmt.Errorf("invariant check failed: %w", err)
		}
		if !g.quiet {
			fmt.Fprintln(cmd.ErrOrStderr(), "invariants hold")
		}
	}
	return nil
}
