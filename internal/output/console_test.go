package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ancients-collective/harden/internal/types"
)

func init() {
	color.NoColor = true
}

func consoleOutput(t *testing.T, f *ConsoleFormatter, r *types.Report) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf, r))
	return buf.String()
}

func TestConsole_HeaderAndCategories(t *testing.T) {
	out := consoleOutput(t, &ConsoleFormatter{}, newTestReport(t))

	assert.Contains(t, out, "Отчёт харденинга Linux")
	assert.Contains(t, out, "Host: test-host")
	assert.Contains(t, out, "Date: 15.01.2026, 10:30:00")
	assert.Contains(t, out, "── SSH ")
	assert.Contains(t, out, "── Ядро ")
	assert.Contains(t, out, "── Сервисы ")

	ssh := strings.Index(out, "── SSH ")
	kernel := strings.Index(out, "── Ядро ")
	services := strings.Index(out, "── Сервисы ")
	assert.Less(t, ssh, kernel)
	assert.Less(t, kernel, services)
}

func TestConsole_ShowAllListsPassing(t *testing.T) {
	out := consoleOutput(t, &ConsoleFormatter{}, newTestReport(t))
	assert.Contains(t, out, "✓ Root login disabled")
	assert.Contains(t, out, "✗ Password authentication disabled")
	assert.Contains(t, out, "⚠ CUPS disabled")
	assert.Contains(t, out, "? SELinux enforcing")
}

func TestConsole_ShowFindingsHidesPassing(t *testing.T) {
	out := consoleOutput(t, &ConsoleFormatter{Show: ShowFindings}, newTestReport(t))
	assert.NotContains(t, out, "Root login disabled")
	assert.Contains(t, out, "Password authentication disabled")
	assert.Contains(t, out, "Use --show all")
}

func TestConsole_UnknownReasonAndHint(t *testing.T) {
	out := consoleOutput(t, &ConsoleFormatter{}, newTestReport(t))
	assert.Contains(t, out, "Unknown:")
	assert.Contains(t, out, "getenforce not found")
	assert.Contains(t, out, "Fix:     PasswordAuthentication no")
}

func TestConsole_Summary(t *testing.T) {
	out := consoleOutput(t, &ConsoleFormatter{}, newTestReport(t))
	assert.Contains(t, out, "2 rule(s) require attention")
	assert.Contains(t, out, "6 passed · 2 failed · 1 warnings · 1 unknown")
}

func TestConsole_CleanReport(t *testing.T) {
	out := consoleOutput(t, &ConsoleFormatter{}, newCleanReport(t))
	assert.Contains(t, out, "All checks pass")
	assert.NotContains(t, out, "harden fix")
}

func TestConsole_EmptyReport(t *testing.T) {
	out := consoleOutput(t, &ConsoleFormatter{Show: ShowFindings}, newEmptyReport(t))
	assert.Contains(t, out, "(nothing to show)")
	assert.Contains(t, out, "Host: неизвестно")
}

func TestConsole_FixableTagAndHint(t *testing.T) {
	r := newTestReport(t)
	r.Sections[0].Results[1].Fixable = true

	out := consoleOutput(t, &ConsoleFormatter{}, r)
	assert.Contains(t, out, "[ssh-passauth]")
	assert.Contains(t, out, "harden fix <rule-id>")
}

func TestConsole_LastFixLines(t *testing.T) {
	r := newTestReport(t)
	r.Sections[0].Results[1].LastFix = &types.FixOutcome{
		OK:      false,
		Message: "elevated privilege required\nre-run as administrator",
	}

	out := consoleOutput(t, &ConsoleFormatter{}, r)
	assert.Contains(t, out, "Failed:  elevated privilege required")
	assert.Contains(t, out, "re-run as administrator")
}

func TestConsole_NonRootNotice(t *testing.T) {
	r := newTestReport(t)
	r.System = &types.ReportSystem{OS: "linux", Arch: "amd64", IsRoot: false}
	out := consoleOutput(t, &ConsoleFormatter{}, r)
	assert.Contains(t, out, "Running as non-root")

	r.System.IsRoot = true
	out = consoleOutput(t, &ConsoleFormatter{}, r)
	assert.NotContains(t, out, "Running as non-root")
}

func TestConsole_DumbIcons(t *testing.T) {
	out := consoleOutput(t, &ConsoleFormatter{Dumb: true}, newTestReport(t))
	assert.Contains(t, out, "+ Root login disabled")
	assert.Contains(t, out, "x Password authentication disabled")
	assert.Contains(t, out, "! CUPS disabled")
	assert.NotContains(t, out, "✓")
}

func TestConsole_WrapRespectsWidth(t *testing.T) {
	f := &ConsoleFormatter{Width: 40}
	long := strings.Repeat("word ", 20)
	wrapped := f.wrap(strings.TrimSpace(long), colValue, colValue)
	for _, line := range strings.Split(wrapped, "\n") {
		assert.LessOrEqual(t, len(line), 40)
	}
	assert.Contains(t, wrapped, "\n")
}

func TestIsDumbTerm(t *testing.T) {
	t.Setenv("TERM", "dumb")
	assert.True(t, IsDumbTerm())
	t.Setenv("TERM", "xterm-256color")
	assert.False(t, IsDumbTerm())
}
