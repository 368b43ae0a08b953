package output

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ancients-collective/harden/internal/engine"
	"github.com/ancients-collective/harden/internal/types"
)

// Fixed values for deterministic test output.
const (
	testTimestamp = "15.01.2026, 10:30:00"
	testHost      = "test-host"
	testSession   = "00000000-0000-4000-8000-000000000000"
)

func fixedRule(id, category, title, hint string, st types.Status) types.Rule {
	return types.Rule{
		ID:       id,
		Category: category,
		Title:    title,
		Hint:     hint,
		Check:    func() (types.Status, error) { return st, nil },
	}
}

func brokenRule(id, category, title, hint string) types.Rule {
	return types.Rule{
		ID:       id,
		Category: category,
		Title:    title,
		Hint:     hint,
		Check: func() (types.Status, error) {
			return types.StatusUnknown, errors.New("getenforce not found")
		},
	}
}

// scenarioRules is a ten-rule registry: six pass, two fail, one warn and
// one unknown, spread over three categories.
func scenarioRules() []types.Rule {
	return []types.Rule{
		fixedRule("ssh-root", "SSH", "Root login disabled", "PermitRootLogin no", types.StatusPass),
		fixedRule("ssh-passauth", "SSH", "Password authentication disabled", "PasswordAuthentication no", types.StatusFail),
		fixedRule("ssh-maxauth", "SSH", "MaxAuthTries ≤ 4", "MaxAuthTries 4", types.StatusPass),
		fixedRule("kernel-aslr", "Ядро", "ASLR enabled", "kernel.randomize_va_space = 2", types.StatusPass),
		fixedRule("kernel-syncookies", "Ядро", "TCP SYN cookies enabled", "net.ipv4.tcp_syncookies = 1", types.StatusPass),
		fixedRule("usb-blocked", "Ядро", "USB storage blocked", "install usb-storage /bin/false", types.StatusFail),
		fixedRule("firewall", "Сервисы", "Firewall installed", "dnf install firewalld", types.StatusPass),
		brokenRule("selinux-enforcing", "Сервисы", "SELinux enforcing", "SELINUX=enforcing"),
		fixedRule("svc-cups", "Сервисы", "CUPS disabled", "systemctl disable --now cups", types.StatusWarn),
		fixedRule("auditd", "Сервисы", "auditd running", "systemctl enable --now auditd", types.StatusPass),
	}
}

// newTestReport evaluates scenarioRules into a report with fixed metadata.
func newTestReport(t *testing.T) *types.Report {
	t.Helper()
	rules := scenarioRules()
	s := engine.Evaluate(rules)
	require.Equal(t, len(rules), s.Len())

	r := NewReport("Отчёт харденинга Linux", testTimestamp, testHost, rules, s)
	r.SessionID = testSession
	return r
}

// newCleanReport builds a report where every rule passes.
func newCleanReport(t *testing.T) *types.Report {
	t.Helper()
	rules := []types.Rule{
		fixedRule("a", "Test", "Check A", "do A", types.StatusPass),
		fixedRule("b", "Test", "Check B", "do B", types.StatusPass),
	}
	r := NewReport("CIS Baseline — РедОС / RHEL", testTimestamp, "clean-host", rules, engine.Evaluate(rules))
	r.SessionID = testSession
	return r
}

// newEmptyReport builds a report with zero rules.
func newEmptyReport(t *testing.T) *types.Report {
	t.Helper()
	r := NewReport("Отчёт харденинга Linux", testTimestamp, "", nil, engine.Evaluate(nil))
	r.SessionID = testSession
	return r
}
