package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"deducels/internal/analysis"
	"deducels/internal/diag"
	"deducels/internal/diagfmt"
	"deducels/internal/driver"
)

func newTokenizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tokenize [flags] file.pf",
		Short: "Tokenize a Deduce source file",
		Long:  `Tokenize breaks a Deduce source file down into its tokens with their leading trivia`,
		Args:  cobra.ExactArgs(1),
		RunE:  runTokenize,
	}
	cmd.Flags().String("format", "pretty", "output format (pretty|json|msgpack)")
	return cmd
}

func runTokenize(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	g, err := readGlobalFlags(cmd, os.Stderr)
	if err != nil {
		return err
	}

	snap, err := driver.AnalyzeFile(args[0], analysis.Options{})
	if err != nil {
		return fmt.Errorf("tokenization failed: %w", err)
	}

	// лексические диагностики в stderr, если есть
	var lexDiags []diag.Diagnostic
	for _, d := range snap.Diags {
		if d.Code >= diag.LexInfo && d.Code < diag.SynInfo {
			lexDiags = append(lexDiags, d)
		}
	}
	if len(lexDiags) > 0 && !g.quiet {
		diagfmt.Pretty(cmd.ErrOrStderr(), diagfmt.FileDiagnostics{File: snap.File, Diags: lexDiags}, diagfmt.PrettyOpts{
			Color:   g.color,
			Context: 2,
		})
	}
	if g.timings {
		fmt.Fprint(cmd.ErrOrStderr(), snap.Timings.Summary())
	}

	out := cmd.OutOrStdout()
	switch format {
	case "pretty":
		return diagfmt.FormatTokensPretty(out, snap.Tokens, snap.File)
	case "json":
		return diagfmt.FormatTokensJSON(out, snap.Tokens, snap.File)
	case "msgpack":
		return diagfmt.FormatTokensMsgPack(out, snap.Tokens, snap.File)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}
