package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newRulesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List available rules",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	var quiet bool
	list := &cobra.Command{
		Use:   "list",
		Short: "List the rules of the selected profile",
		Long: `List the rules of the selected profile in evaluation order, after
disabled rules and category filters from the configuration are applied.

Examples:
  harden rules list
  harden rules list --profile baseline -q`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			profile, rs, err := a.catalogue()
			if err != nil {
				return err
			}

			if quiet {
				for _, r := range rs {
					fmt.Fprintln(a.stdout, r.ID)
				}
				return nil
			}

			bold := color.New(color.Bold).SprintFunc()
			fmt.Fprintf(a.stdout, "\n  %s (%d):\n\n", bold(fmt.Sprintf("Rules for profile %s", profile)), len(rs))

			tw := tabwriter.NewWriter(a.stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "    ID\tCATEGORY\tFIX\tTITLE")
			for _, r := range rs {
				fix := "-"
				if r.HasFix() {
					fix = "yes"
				}
				fmt.Fprintf(tw, "    %s\t%s\t%s\t%s\n", r.ID, r.Category, fix, r.Title)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			fmt.Fprintln(a.stdout)
			return nil
		},
	}
	list.Flags().BoolVarP(&quiet, "quiet", "q", false, "Only print rule IDs")

	cmd.AddCommand(list)
	return cmd
}
