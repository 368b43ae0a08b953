package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/ancients-collective/harden/internal/types"
)

// Render produces the plain UTF-8 report. Unknown rules are listed in their
// sections but have no counter in the closing line.
func Render(r *types.Report) string {
	var b strings.Builder

	host := r.Host
	if host == "" {
		host = UnknownHost
	}

	fmt.Fprintf(&b, "=== %s ===\n", r.Title)
	fmt.Fprintf(&b, "Дата: %s\n", r.Timestamp)
	fmt.Fprintf(&b, "Хост: %s\n", host)
	b.WriteString("\n")

	for _, sec := range r.Sections {
		fmt.Fprintf(&b, "── %s ──\n", sec.Title)
		for _, l := range sec.Lines {
			b.WriteString(l)
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	b.WriteString(SummaryLine(r.Summary))
	b.WriteString("\n")
	return b.String()
}

// SummaryLine is the closing tally of the text report.
func SummaryLine(s types.Summary) string {
	return fmt.Sprintf("Итого: %s %d пройдено  %s %d не пройдено  %s %d предупреждений",
		types.StatusPass.Icon(), s.Passed,
		types.StatusFail.Icon(), s.Failed,
		types.StatusWarn.Icon(), s.Warned)
}

// TextFormatter writes the plain report produced by Render.
type TextFormatter struct{}

// Write renders the report as plain text.
func (f *TextFormatter) Write(w io.Writer, report *types.Report) error {
	_, err := io.WriteString(w, Render(report))
	return err
}
