package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ancients-collective/harden/internal/engine"
	"github.com/ancients-collective/harden/internal/output"
)

func newAuditCmd(a *app) *cobra.Command {
	var (
		format  string
		show    string
		outPath string
	)

	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Evaluate every rule and print the results",
		Long: `Evaluate every rule of the selected profile once and print the results.
Checks only read the host; nothing is changed.

Formats:
  console  colored, grouped output (default on a terminal)
  text     the plain report, identical to 'harden report'
  json     one JSON document
  jsonl    a header line followed by one line per rule`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if show != output.ShowAll && show != output.ShowFindings {
				return fmt.Errorf("invalid --show value %q (must be all or findings)", show)
			}

			profile, rs, err := a.catalogue()
			if err != nil {
				return err
			}
			if len(rs) == 0 {
				return fmt.Errorf("no rules selected (check disabled and categories in the configuration)")
			}

			if format == "" {
				format = a.cfg.Report.Format
			}
			if format == "" {
				format = output.FormatText
				if a.terminal() && outPath == "" {
					format = output.FormatConsole
				}
			}
			if outPath != "" {
				color.NoColor = true
			}
			f, err := output.ForName(format, output.ConsoleFormatter{
				Show:  show,
				Width: a.width(),
				Dumb:  output.IsDumbTerm(),
			})
			if err != nil {
				return err
			}

			s := engine.Evaluate(rs)
			report := a.report(profile, rs, s)

			if err := a.emit(outPath, func(w io.Writer) error { return f.Write(w, report) }); err != nil {
				return err
			}
			a.exitCode = exitCodeFor(report.Summary)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "Output format: console, text, json, jsonl")
	cmd.Flags().StringVarP(&show, "show", "s", output.ShowAll, "Console output filter: all, findings")
	cmd.Flags().StringVarP(&outPath, "output", "o", "", "Write output to file (default: stdout)")
	return cmd
}
