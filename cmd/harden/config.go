package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ancients-collective/harden/internal/config"
)

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:               "config",
		Short:             "Inspect harden configuration",
		Args:              cobra.NoArgs,
		PersistentPreRunE: skipSetup,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	validate := &cobra.Command{
		Use:   "validate <path>",
		Short: "Validate a configuration file without touching the host",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if _, err := config.New(knownIDs()).Load(path); err != nil {
				a.errorf("%v", err)
				a.exitCode = exitError
				return nil
			}
			fmt.Fprintf(a.stdout, "  ✓ %s is valid\n", path)
			return nil
		},
	}

	cmd.AddCommand(validate)
	return cmd
}
