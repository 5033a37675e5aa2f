package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"deducels/internal/config"
)

type globalFlags struct {
	color          bool
	quiet          bool
	timings        bool
	maxDiagnostics int
	configPath     string
}

// readGlobalFlags собирает persistent-флаги; цвет в auto-режиме зависит от out.
func readGlobalFlags(cmd *cobra.Command, out *os.File) (globalFlags, error) {
	flags := cmd.Root().PersistentFlags()
	colorFlag, err := flags.GetString("color")
	if err != nil {
		return globalFlags{}, fmt.Errorf("failed to get color flag: %w", err)
	}
	useColor, err := colorEnabled(colorFlag, func() bool { return isTerminal(out) })
	if err != nil {
		return globalFlags{}, err
	}
	quiet, err := flags.GetBool("quiet")
	if err != nil {
		return globalFlags{}, fmt.Errorf("failed to get quiet flag: %w", err)
	}
	timings, err := flags.GetBool("timings")
	if err != nil {
		return globalFlags{}, fmt.Errorf("failed to get timings flag: %w", err)
	}
	maxDiagnostics, err := flags.GetInt("max-diagnostics")
	if err != nil {
		return globalFlags{}, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	configPath, err := flags.GetString("config")
	if err != nil {
		return globalFlags{}, fmt.Errorf("failed to get config flag: %w", err)
	}
	return globalFlags{
		color:          useColor,
		quiet:          quiet,
		timings:        timings,
		maxDiagnostics: maxDiagnostics,
		configPath:     configPath,
	}, nil
}

func colorEnabled(value string, terminal func() bool) (bool, error) {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "on", "always":
		return true, nil
	case "off", "never":
		return false, nil
	case "", "auto":
		return terminal(), nil
	default:
		return false, fmt.Errorf("invalid --color value %q (expected auto|on|off)", value)
	}
}

// loadConfig reads --config when given, otherwise the nearest deducels.toml
// above startDir. A changed --max-diagnostics overrides the file.
func loadConfig(cmd *cobra.Command, g globalFlags, startDir string) (config.Config, error) {
	var (
		cfg config.Config
		err error
	)
	if g.configPath != "" {
		cfg, err = config.Load(g.configPath)
	} else {
		cfg, err = config.Discover(startDir)
	}
	if err != nil {
		return config.Config{}, err
	}
	if cmd.Root().PersistentFlags().Changed("max-diagnostics") {
		cfg.Server.MaxDiagnostics = g.maxDiagnostics
	}
	return cfg, nil
}
