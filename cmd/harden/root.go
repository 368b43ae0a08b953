package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "harden",
		Short: "Check, fix and report Linux host hardening",
		Long: `harden evaluates a catalogue of hardening rules against the local host,
applies individual remediations through non-interactive sudo, and renders
a plain-text report.

Examples:
  # Audit the general hardening profile
  harden audit

  # Audit the CIS baseline for RED OS / RHEL hosts as JSON
  harden audit --profile baseline --format json

  # Fix one rule and re-check it
  harden fix ssh-root

  # Write the text report to hardening-report-YYYY-MM-DD.txt
  harden report --output auto

Exit codes:
  0  no failing rules
  1  at least one failing rule, or an error
  2  no failures, but some rules could not be evaluated`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "Path to config file (default: /etc/harden/config.yaml if present)")
	pf.StringVarP(&a.profile, "profile", "p", "", "Rule profile: hardening, baseline, all")
	pf.BoolVar(&a.noColor, "no-color", false, "Disable colored output")
	pf.StringVar(&a.logLevel, "log-level", "", "Log level: debug, info, warn, error")

	root.AddCommand(
		newAuditCmd(a),
		newFixCmd(a),
		newReportCmd(a),
		newRulesCmd(a),
		newConfigCmd(a),
		newVersionCmd(a),
	)
	return root
}

// skipSetup overrides the root pre-run for commands that do not need
// configuration or host access.
func skipSetup(*cobra.Command, []string) error {
	return nil
}
