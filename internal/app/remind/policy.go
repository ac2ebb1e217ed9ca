// Package remind holds the idle-reminder timing policy. The policy only
// decides whether a nudge is due; running the periodic job that asks is the
// scheduler's problem, not ours.
package remind

import "time"

// Policy decides when an inactive manager should be nudged.
type Policy struct {
	// IdleAfter is how long a manager can stay silent mid-session before a
	// reminder is due.
	IdleAfter time.Duration
}

// DefaultPolicy nudges after four hours of silence.
func DefaultPolicy() Policy {
	return Policy{IdleAfter: 4 * time.Hour}
}

// Due reports whether a reminder should be sent given the manager's last
// inbound activity. A zero lastActivity means the manager was never seen
// and is never nudged.
func (p Policy) Due(lastActivity, now time.Time) bool {
	if lastActivity.IsZero() || p.IdleAfter <= 0 {
		return false
	}
	return now.Sub(lastActivity) >= p.IdleAfter
}
