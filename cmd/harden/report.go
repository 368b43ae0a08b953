package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ancients-collective/harden/internal/engine"
	"github.com/ancients-collective/harden/internal/output"
	"github.com/ancients-collective/harden/internal/rules"
)

// autoOutput asks for the dated default report file name.
const autoOutput = "auto"

func newReportCmd(a *app) *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Evaluate every rule and write the plain-text report",
		Long: `Evaluate every rule of the selected profile and write the plain UTF-8
report. With --output auto the report is saved as
<profile>-report-YYYY-MM-DD.txt in the current directory.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			profile, rs, err := a.catalogue()
			if err != nil {
				return err
			}

			s := engine.Evaluate(rs)
			report := a.report(profile, rs, s)

			if outPath == autoOutput {
				outPath = reportFileName(profile, a.now())
			}
			if err := a.emit(outPath, func(w io.Writer) error {
				return (&output.TextFormatter{}).Write(w, report)
			}); err != nil {
				return err
			}

			if outPath != "" {
				fmt.Fprintf(a.stderr, "  ✓ Report written to %s (%s)\n", outPath, output.SummaryLine(report.Summary))
			}
			a.exitCode = exitCodeFor(report.Summary)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outPath, "output", "o", "", "Write report to file, or 'auto' for a dated file name")
	return cmd
}

// reportFileName is the dated default export name for a profile.
func reportFileName(profile rules.Profile, now time.Time) string {
	return fmt.Sprintf("%s-report-%s.txt", profile, now.Format("2006-01-02"))
}

// unsafeOutputPrefixes are path prefixes where writing output files is rejected.
// Prevents accidental overwrite of system files when running as root.
var unsafeOutputPrefixes = []string{"/etc/", "/proc/", "/sys/", "/dev/", "/boot/", "/sbin/", "/bin/", "/usr/"}

// validateOutputPath checks that the output file path is safe to write to.
func validateOutputPath(path string) error {
	cleaned := filepath.Clean(path)
	if filepath.IsAbs(cleaned) {
		for _, prefix := range unsafeOutputPrefixes {
			if strings.HasPrefix(cleaned, prefix) {
				return fmt.Errorf("refusing to write to system path %q", cleaned)
			}
		}
	}
	return nil
}

// emit runs write against stdout, or against a new file at path.
func (a *app) emit(path string, write func(w io.Writer) error) error {
	if path == "" {
		return write(a.stdout)
	}

	if err := validateOutputPath(path); err != nil {
		return fmt.Errorf("unsafe output path: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()

	if err := write(f); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return f.Close()
}
