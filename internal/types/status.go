package types

// Status represents the outcome of evaluating a rule.
type Status string

const (
	// StatusPass means the rule is satisfied.
	StatusPass Status = "pass"
	// StatusFail means the rule is violated in a known, actionable way.
	StatusFail Status = "fail"
	// StatusWarn means the state is ambiguous or depends on distro defaults.
	StatusWarn Status = "warn"
	// StatusUnknown means the evaluation could not complete (tool or file missing).
	StatusUnknown Status = "unknown"
)

// AllStatuses lists every status in report order.
var AllStatuses = []Status{StatusPass, StatusFail, StatusWarn, StatusUnknown}

// Icon returns the single-character report icon for the status.
func (s Status) Icon() string {
	switch s {
	case StatusPass:
		return "✓"
	case StatusFail:
		return "✗"
	case StatusWarn:
		return "⚠"
	default:
		return "?"
	}
}

// Valid reports whether s is one of the four defined statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPass, StatusFail, StatusWarn, StatusUnknown:
		return true
	}
	return false
}
