package output

import (
	"github.com/ancients-collective/harden/internal/engine"
	"github.com/ancients-collective/harden/internal/types"
)

// Labels used in the text report.
const (
	HintLabel   = "Рекомендация"
	UnknownHost = "неизвестно"
)

// Aggregate groups rules by category, in order of first appearance, and
// projects the session status of each. A rule missing from the session is
// shown as unknown.
func Aggregate(rules []types.Rule, s *engine.Session) []types.Section {
	index := make(map[string]int)
	var sections []types.Section

	for _, r := range rules {
		i, ok := index[r.Category]
		if !ok {
			i = len(sections)
			index[r.Category] = i
			sections = append(sections, types.Section{Title: r.Category})
		}

		res := result(r, s)
		sec := &sections[i]
		sec.Results = append(sec.Results, res)
		sec.Lines = append(sec.Lines, ruleLines(res)...)
	}
	return sections
}

// Tally counts statuses over rules as the session currently sees them.
func Tally(rules []types.Rule, s *engine.Session) types.Summary {
	sum := types.Summary{Total: len(rules)}
	for _, r := range rules {
		switch status(r.ID, s) {
		case types.StatusPass:
			sum.Passed++
		case types.StatusFail:
			sum.Failed++
		case types.StatusWarn:
			sum.Warned++
		default:
			sum.Unknown++
		}
	}
	return sum
}

// NewReport assembles a report. Timestamp and host are supplied by the
// caller; an empty host renders as unknown.
func NewReport(title, timestamp, host string, rules []types.Rule, s *engine.Session) *types.Report {
	return &types.Report{
		Title:     title,
		Timestamp: timestamp,
		Host:      host,
		SessionID: s.ID(),
		Sections:  Aggregate(rules, s),
		Summary:   Tally(rules, s),
	}
}

func status(id string, s *engine.Session) types.Status {
	st, ok := s.Status(id)
	if !ok {
		return types.StatusUnknown
	}
	return st
}

func result(r types.Rule, s *engine.Session) types.RuleResult {
	res := types.RuleResult{
		ID:       r.ID,
		Category: r.Category,
		Title:    r.Title,
		Hint:     r.Hint,
		Status:   status(r.ID, s),
		Fixable:  r.HasFix(),
	}
	if res.Status == types.StatusUnknown {
		res.Reason = s.Reason(r.ID)
	}
	if out, ok := s.LastOutcome(r.ID); ok {
		res.LastFix = &out
	}
	return res
}

func ruleLines(res types.RuleResult) []string {
	lines := []string{"  [" + res.Status.Icon() + "] " + res.Title}
	if res.Status != types.StatusPass {
		lines = append(lines, "       "+HintLabel+": "+res.Hint)
	}
	return lines
}
