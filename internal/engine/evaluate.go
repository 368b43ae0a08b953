package engine

import (
	"fmt"

	"github.com/ancients-collective/harden/internal/log"
	"github.com/ancients-collective/harden/internal/types"
)

// Evaluate runs every check once, in order, and returns the resulting
// session. A check that errors or panics yields unknown for that rule only.
func Evaluate(rules []types.Rule) *Session {
	s := NewSession()

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range rules {
		st, err := runCheck(r)
		s.record(r.ID, st, err)
	}

	log.Logger().Debug().
		Str("session", s.id).
		Int("rules", len(rules)).
		Msg("evaluation complete")

	return s
}

// runCheck isolates a single check. Errors, panics, a nil check and
// out-of-range statuses all collapse to unknown.
func runCheck(r types.Rule) (st types.Status, err error) {
	defer func() {
		if p := recover(); p != nil {
			st = types.StatusUnknown
			err = fmt.Errorf("check panicked: %v", p)
		}
		event := log.Logger().Debug().Str("rule", r.ID).Str("status", string(st))
		if err != nil {
			event = event.Err(err)
		}
		event.Msg("check")
	}()

	if r.Check == nil {
		return types.StatusUnknown, fmt.Errorf("rule %s has no check", r.ID)
	}

	st, err = r.Check()
	if err != nil {
		return types.StatusUnknown, err
	}
	if !st.Valid() {
		return types.StatusUnknown, fmt.Errorf("check returned invalid status %q", st)
	}
	return st, nil
}
