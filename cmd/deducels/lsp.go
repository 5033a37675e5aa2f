package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"deducels/internal/config"
	"deducels/internal/lsp"
)

func newLSPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lsp",
		Short: "Run the Deduce language server over stdio",
		Args:  cobra.NoArgs,
		RunE:  runLSP,
	}
	cmd.Flags().Bool("trace", false, "log every analysis to stderr")
	return cmd
}

func runLSP(cmd *cobra.Command, _ []string) error {
	g, err := readGlobalFlags(cmd, os.Stderr)
	if err != nil {
		return err
	}
	trace, err := cmd.Flags().GetBool("trace")
	if err != nil {
		return fmt.Errorf("failed to get trace flag: %w", err)
	}
	// без --config сервер сам ищет deducels.toml от корня workspace
	cfg := config.Default()
	if g.configPath != "" {
		if cfg, err = loadConfig(cmd, g, ""); err != nil {
			return err
		}
	} else if cmd.Root().PersistentFlags().Changed("max-diagnostics") {
		cfg.Server.MaxDiagnostics = g.maxDiagnostics
	}

	server := lsp.NewServer(os.Stdin, os.Stdout, lsp.ServerOptions{
		Config:     cfg,
		ConfigPath: g.configPath,
		Trace:      trace,
	})
	if err := server.Run(cmd.Context()); err != nil {
		if errors.Is(err, lsp.ErrExit) {
			return nil
		}
		if errors.Is(err, lsp.ErrExitWithoutShutdown) {
			return fmt.Errorf("lsp exit without shutdown")
		}
		return err
	}
	return nil
}
