package output

import (
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"

	"github.com/ancients-collective/harden/internal/types"
)

// ─── Layout constants ────────────────────────────────────────────────
//
//     col 0    4   6                                        maxLine
//     │margin│ I │ TITLE ...                         [FIX]  │
//
// Detail blocks start at colDetail and use labelWidth-padded labels
// so every value begins at colValue.
const (
	colMargin  = 4
	colTitle   = 6
	colDetail  = 6
	labelWidth = 9
	colValue   = 15
	maxLine    = 110
	ruleWidth  = 64
)

// Show modes for ConsoleFormatter.
const (
	ShowAll      = "all"
	ShowFindings = "findings"
)

// ConsoleFormatter writes a colored, human-readable report for terminals.
type ConsoleFormatter struct {
	Show  string // "all" (default) or "findings" (non-pass only)
	Width int    // terminal width for text wrapping; 0 = unknown
	Dumb  bool   // TERM=dumb, use single-char ASCII fallback icons
}

// Color helpers; each returns a sprint function.
var (
	cBold   = color.New(color.Bold).SprintFunc()
	cGreen  = color.New(color.FgGreen).SprintFunc()
	cRed    = color.New(color.FgRed).SprintFunc()
	cYellow = color.New(color.FgYellow).SprintFunc()
	cCyan   = color.New(color.FgCyan).SprintFunc()
	cGray   = color.New(color.FgHiBlack).SprintFunc()
	cDim    = color.New(color.Faint).SprintFunc()

	cRedBold   = color.New(color.FgRed, color.Bold).SprintFunc()
	cGreenBold = color.New(color.FgGreen, color.Bold).SprintFunc()
)

// IsDumbTerm returns true when the terminal doesn't support Unicode.
func IsDumbTerm() bool {
	t := os.Getenv("TERM")
	return t == "dumb" || t == ""
}

func (f *ConsoleFormatter) wrapWidth() int {
	if f.Width > 0 && f.Width < maxLine {
		return f.Width
	}
	return maxLine
}

func (f *ConsoleFormatter) show() string {
	if f.Show == "" {
		return ShowAll
	}
	return f.Show
}

// Write renders the console report.
func (f *ConsoleFormatter) Write(w io.Writer, r *types.Report) error {
	f.writeHeader(w, r)
	f.writeSystem(w, r)
	f.writeSections(w, r)
	f.writeSummary(w, r)
	f.writeHints(w, r)
	fmt.Fprintln(w)
	return nil
}

func (f *ConsoleFormatter) writeHeader(w io.Writer, r *types.Report) {
	host := r.Host
	if host == "" {
		host = UnknownHost
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %s\n", cBold(r.Title))
	fmt.Fprintf(w, "  %s %s  %s %s\n", cDim("Host:"), host, cDim("Date:"), r.Timestamp)
	if r.SessionID != "" {
		fmt.Fprintf(w, "  %s %s\n", cDim("Session:"), cDim(r.SessionID))
	}
	fmt.Fprintln(w)
}

func (f *ConsoleFormatter) writeSystem(w io.Writer, r *types.Report) {
	sys := r.System
	if sys == nil {
		return
	}
	fmt.Fprintf(w, "  %s\n", cBold(f.icon("section")+" System"))
	fmt.Fprintf(w, "    OS:      %s %s (%s)\n", sys.OS, sys.OSVersion, sys.Arch)
	if sys.DistroID != "" {
		fmt.Fprintf(w, "    Distro:  %s %s (%s)\n", sys.DistroID, sys.DistroVersion, sys.DistroFamily)
	}
	if sys.EnvType != "" {
		env := sys.EnvType
		if sys.EnvRuntime != "" {
			env += fmt.Sprintf(" (%s)", sys.EnvRuntime)
		}
		fmt.Fprintf(w, "    Env:     %s\n", env)
	}
	fmt.Fprintln(w)
	if !sys.IsRoot {
		fmt.Fprintf(w, "  %s %s\n", cYellow(f.icon("warn")),
			f.wrap("Running as non-root: some checks may be unknown and fixes need non-interactive sudo", 4, 4))
		fmt.Fprintln(w)
	}
}

func (f *ConsoleFormatter) writeSections(w io.Writer, r *types.Report) {
	shown := 0
	for _, sec := range r.Sections {
		var results []types.RuleResult
		for _, res := range sec.Results {
			if f.show() == ShowFindings && res.Status == types.StatusPass {
				continue
			}
			results = append(results, res)
		}
		if len(results) == 0 {
			continue
		}

		f.writeCategoryHeader(w, sec.Title)
		for _, res := range results {
			f.writeResultLine(w, res)
			f.writeDetailBlock(w, res)
			shown++
		}
	}
	if shown == 0 {
		fmt.Fprintf(w, "%s(nothing to show)\n", colPad(colMargin))
	}
	fmt.Fprintln(w)
}

func (f *ConsoleFormatter) writeCategoryHeader(w io.Writer, category string) {
	fill := ruleWidth - 4 - utf8.RuneCountInString(category)
	if fill < 1 {
		fill = 1
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s%s %s %s\n", colPad(colMargin), cDim("──"), cBold(category), cDim(strings.Repeat("─", fill)))
}

func (f *ConsoleFormatter) writeResultLine(w io.Writer, res types.RuleResult) {
	var tag string
	if res.Fixable && res.Status != types.StatusPass {
		tag = "  " + cCyan("["+res.ID+"]")
	} else {
		tag = "  " + cDim(res.ID)
	}
	fmt.Fprintf(w, "%s%s %s%s\n", colPad(colMargin), f.statusIcon(res.Status), res.Title, tag)
}

func (f *ConsoleFormatter) writeDetailBlock(w io.Writer, res types.RuleResult) {
	p := colPad(colDetail)

	if res.Status == types.StatusUnknown && res.Reason != "" {
		f.writeLabel(w, p, "Unknown:", cGray, res.Reason)
	}
	if res.Status != types.StatusPass && res.Hint != "" {
		f.writeLabel(w, p, "Fix:", cGreen, res.Hint)
	}
	if res.LastFix != nil {
		colorFn, label := cGreen, "Applied:"
		if !res.LastFix.OK {
			colorFn, label = cRed, "Failed:"
		}
		for i, line := range strings.Split(res.LastFix.Message, "\n") {
			if i > 0 {
				label = ""
			}
			f.writeLabel(w, p, label, colorFn, line)
		}
	}
}

// writeLabel emits one detail line: prefix + colored label (padded to labelWidth) + wrapped value.
func (f *ConsoleFormatter) writeLabel(w io.Writer, prefix, label string, colorFn func(a ...interface{}) string, value string) {
	colored := colorFn(fmt.Sprintf("%-*s", labelWidth, label))
	fmt.Fprintf(w, "%s%s%s\n", prefix, colored, f.wrap(value, colValue, colValue))
}

func (f *ConsoleFormatter) writeSummary(w io.Writer, r *types.Report) {
	rule := cDim(strings.Repeat("─", ruleWidth))
	fmt.Fprintf(w, "  %s\n", rule)

	s := r.Summary
	if s.Failed == 0 && s.Warned == 0 && s.Unknown == 0 {
		fmt.Fprintf(w, "  %s %s\n", cGreenBold(f.icon("pass")), cGreenBold("All checks pass"))
	} else if s.Failed > 0 {
		fmt.Fprintf(w, "  %s %s\n", cRedBold(f.icon("fail")),
			cRedBold(fmt.Sprintf("%d rule(s) require attention", s.Failed)))
	}

	fmt.Fprintf(w, "  %s  %s · %s · %s · %s\n",
		cBold("Summary:"),
		cGreenBold(fmt.Sprintf("%d passed", s.Passed)),
		cRedBold(fmt.Sprintf("%d failed", s.Failed)),
		cYellow(fmt.Sprintf("%d warnings", s.Warned)),
		cGray(fmt.Sprintf("%d unknown", s.Unknown)))
	fmt.Fprintf(w, "  %s\n", rule)
}

func (f *ConsoleFormatter) writeHints(w io.Writer, r *types.Report) {
	var hints []string
	if hasFixable(r) {
		hints = append(hints, "Run 'harden fix <rule-id>' to remediate a rule marked [id]")
	}
	if f.show() == ShowFindings && r.Summary.Passed > 0 {
		hints = append(hints, "Use --show all to see passing rules")
	}
	if len(hints) == 0 {
		return
	}

	fmt.Fprintln(w)
	for _, h := range hints {
		fmt.Fprintf(w, "  %s %s\n", cDim("›"), cDim(h))
	}
}

func hasFixable(r *types.Report) bool {
	for _, sec := range r.Sections {
		for _, res := range sec.Results {
			if res.Fixable && res.Status != types.StatusPass {
				return true
			}
		}
	}
	return false
}

func (f *ConsoleFormatter) wrap(text string, startCol, wrapCol int) string {
	w := f.wrapWidth()
	if startCol+utf8.RuneCountInString(text) <= w {
		return text
	}

	avail := w - startCol
	if avail < 20 {
		return text
	}

	wrapPad := strings.Repeat(" ", wrapCol)
	words := strings.Fields(text)
	if len(words) == 0 {
		return text
	}

	var b strings.Builder
	lineLen := 0

	for i, word := range words {
		n := utf8.RuneCountInString(word)
		if i == 0 {
			b.WriteString(word)
			lineLen = n
			continue
		}
		if lineLen+1+n > avail {
			b.WriteByte('\n')
			b.WriteString(wrapPad)
			b.WriteString(word)
			lineLen = n
			avail = w - wrapCol
		} else {
			b.WriteByte(' ')
			b.WriteString(word)
			lineLen += 1 + n
		}
	}

	return b.String()
}

func (f *ConsoleFormatter) icon(name string) string {
	if f.Dumb {
		switch name {
		case "pass":
			return "+"
		case "fail":
			return "x"
		case "warn":
			return "!"
		case "section":
			return ">"
		default:
			return "?"
		}
	}
	switch name {
	case "pass":
		return types.StatusPass.Icon()
	case "fail":
		return types.StatusFail.Icon()
	case "warn":
		return types.StatusWarn.Icon()
	case "section":
		return "▸"
	default:
		return types.StatusUnknown.Icon()
	}
}

func (f *ConsoleFormatter) statusIcon(s types.Status) string {
	switch s {
	case types.StatusPass:
		return cGreen(f.icon("pass"))
	case types.StatusFail:
		return cRed(f.icon("fail"))
	case types.StatusWarn:
		return cYellow(f.icon("warn"))
	default:
		return cGray(f.icon("unknown"))
	}
}

func colPad(n int) string {
	return strings.Repeat(" ", n)
}
