package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"deducels/internal/version"
)

// errDiagnosticsFound завершает процесс с кодом 1 без сообщения:
// сами диагностики уже напечатаны.
var errDiagnosticsFound = errors.New("diagnostics contain errors")

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "deducels",
		Short:         "Language intelligence for the Deduce proof language",
		Long:          `deducels analyzes Deduce (.pf) sources: a language server plus tokenizer, parser and diagnostic tools`,
		Version:       version.Version,
		SilenceErrors: true,
		SilenceUsage:  true,

		PersistentPreRunE:  startProfiling,
		PersistentPostRunE: stopProfiling,
	}

	// Добавляем команды
	rootCmd.AddCommand(newLSPCmd())
	rootCmd.AddCommand(newTokenizeCmd())
	rootCmd.AddCommand(newParseCmd())
	rootCmd.AddCommand(newDiagnoseCmd())
	rootCmd.AddCommand(newVersionCmd())

	// Глобальные флаги
	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().Bool("timings", false, "show timing information")
	rootCmd.PersistentFlags().Int("max-diagnostics", 100, "maximum number of diagnostics to show per file")
	rootCmd.PersistentFlags().String("config", "", "path to deducels.toml")
	rootCmd.PersistentFlags().String("cpu-profile", "", "write CPU profile to file")
	rootCmd.PersistentFlags().String("mem-profile", "", "write heap profile to file")
	rootCmd.PersistentFlags().String("runtime-trace", "", "write runtime trace to file")
	return rootCmd
}

// main wires the command tree and exits with status 1 when a command fails
// or reports error diagnostics.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if profErr := stopProfiling(nil, nil); profErr != nil {
		fmt.Fprintln(os.Stderr, "error:", profErr)
	}
	if err != nil {
		if !errors.Is(err, errDiagnosticsFound) {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
		os.Exit(1)
	}
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
