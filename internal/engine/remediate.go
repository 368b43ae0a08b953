package engine

import (
	"fmt"

	"github.com/ancients-collective/harden/internal/log"
	"github.com/ancients-collective/harden/internal/types"
)

// Messages returned by ApplyFix without running a remediation.
const (
	MsgAlreadyCompliant = "already compliant"
	MsgStillFailing     = "remediation reported success but the rule still fails"
	MsgNoSession        = "no evaluation session"
)

// ApplyFix remediates one rule and re-checks it. The session status is
// always replaced by the re-check result, whatever the fix reported.
func ApplyFix(rule types.Rule, s *Session) types.FixOutcome {
	if s == nil {
		return types.Failed(MsgNoSession)
	}
	if !rule.HasFix() {
		return types.Failed(fmt.Sprintf("no automated remediation for %s; %s", rule.ID, rule.Hint))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.statuses[rule.ID] == types.StatusPass {
		return types.Applied(MsgAlreadyCompliant)
	}

	s.attempts++
	attempt := s.attempts

	out := runFix(rule)

	st, err := runCheck(rule)
	s.record(rule.ID, st, err)

	if out.OK && st == types.StatusFail {
		out = types.Failed(out.Message + "\n" + MsgStillFailing)
	}
	s.lastFix[rule.ID] = out

	log.Logger().Debug().
		Str("session", s.id).
		Int("attempt", attempt).
		Str("rule", rule.ID).
		Bool("ok", out.OK).
		Str("status", string(st)).
		Msg("fix")

	return out
}

// runFix isolates a remediation so a panic becomes a failed outcome.
func runFix(rule types.Rule) (out types.FixOutcome) {
	defer func() {
		if p := recover(); p != nil {
			out = types.Failed(fmt.Sprintf("remediation panicked: %v", p))
		}
	}()

	out = rule.Fix()
	if !out.OK && out.Message == "" {
		out.Message = "remediation failed"
	}
	return out
}
