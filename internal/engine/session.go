// Package engine evaluates rules into a session and applies remediations
// with a mandatory re-check.
package engine

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ancients-collective/harden/internal/types"
)

// Session holds the statuses of one evaluation. It is built by Evaluate and
// changed only by ApplyFix, one rule at a time.
type Session struct {
	mu sync.Mutex

	id      string
	started time.Time

	order    []string
	statuses map[string]types.Status
	reasons  map[string]string
	lastFix  map[string]types.FixOutcome

	// attempts counts fix attempts in this session.
	attempts int
}

// NewSession creates an empty session with a fresh identifier.
func NewSession() *Session {
	return &Session{
		id:       uuid.NewString(),
		started:  time.Now(),
		statuses: make(map[string]types.Status),
		reasons:  make(map[string]string),
		lastFix:  make(map[string]types.FixOutcome),
	}
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// Started returns when the session was created.
func (s *Session) Started() time.Time {
	return s.started
}

// Status returns the current status of a rule.
func (s *Session) Status(id string) (types.Status, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.statuses[id]
	return st, ok
}

// Reason returns why a rule evaluated to unknown, if a cause was recorded.
func (s *Session) Reason(id string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reasons[id]
}

// LastOutcome returns the most recent fix outcome for a rule.
func (s *Session) LastOutcome(id string) (types.FixOutcome, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out, ok := s.lastFix[id]
	return out, ok
}

// Attempts returns how many fixes were attempted in this session.
func (s *Session) Attempts() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.attempts
}

// Len returns the number of evaluated rules.
func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.order)
}

// Summary tallies statuses over every evaluated rule.
func (s *Session) Summary() types.Summary {
	s.mu.Lock()
	defer s.mu.Unlock()

	sum := types.Summary{Total: len(s.order)}
	for _, id := range s.order {
		switch s.statuses[id] {
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

// record stores a status; callers hold s.mu.
func (s *Session) record(id string, st types.Status, err error) {
	if _, seen := s.statuses[id]; !seen {
		s.order = append(s.order, id)
	}
	s.statuses[id] = st
	if err != nil {
		s.reasons[id] = err.Error()
	} else {
		delete(s.reasons, id)
	}
}
