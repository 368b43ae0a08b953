// Package types defines shared type definitions used across all harden packages.
package types

// CheckFunc inspects system state and reports a Status.
// It must not mutate anything. An error means the evaluation could not
// complete; the engine collapses it to StatusUnknown.
type CheckFunc func() (Status, error)

// FixFunc mutates system state so that the owning rule is satisfied.
type FixFunc func() FixOutcome

// Rule is a single compliance assertion with a check and an optional fix.
type Rule struct {
	// ID is the unique, stable rule identifier (e.g., "ssh-root").
	ID string

	// Category groups related rules. Display order follows first appearance
	// in the registry, not alphabetical order.
	Category string

	// Title is the human-readable assertion shown in reports.
	Title string

	// Hint is the manual remediation guidance shown for non-passing rules.
	Hint string

	// Check evaluates the rule. Required.
	Check CheckFunc

	// Fix applies the remediation. Nil when remediation is unsafe to automate
	// (e.g., editing PAM stacks).
	Fix FixFunc
}

// HasFix reports whether the rule carries an automated remediation.
func (r Rule) HasFix() bool {
	return r.Fix != nil
}

// FixOutcome is the result of a remediation or a privileged operation.
// Message may span several lines. When OK is false, Message always tells the
// operator what to do next.
type FixOutcome struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}

// Applied returns a successful outcome with the given message.
func Applied(msg string) FixOutcome {
	return FixOutcome{OK: true, Message: msg}
}

// Failed returns an unsuccessful outcome with the given message.
func Failed(msg string) FixOutcome {
	return FixOutcome{OK: false, Message: msg}
}
