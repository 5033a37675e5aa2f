package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"deducels/internal/prof"
)

// activeProfile останавливается в PersistentPostRunE или в main при ошибке.
var activeProfile *prof.Session

func startProfiling(cmd *cobra.Command, _ []string) error {
	flags := cmd.Root().PersistentFlags()
	var opts prof.Options
	var err error
	if opts.CPU, err = flags.GetString("cpu-profile"); err != nil {
		return fmt.Errorf("failed to get cpu-profile flag: %w", err)
	}
	if opts.Mem, err = flags.GetString("mem-profile"); err != nil {
		return fmt.Errorf("failed to get mem-profile flag: %w", err)
	}
	if opts.Trace, err = flags.GetString("runtime-trace"); err != nil {
		return fmt.Errorf("failed to get runtime-trace flag: %w", err)
	}
	if !opts.Enabled() {
		return nil
	}
	activeProfile, err = prof.Start(opts)
	return err
}

func stopProfiling(*cobra.Command, []string) error {
	err := activeProfile.Stop()
	activeProfile = nil
	return err
}
