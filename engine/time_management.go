package engine

import (
	"sync/atomic"
	"time"
)

// TimePolicy converts a clock reading into a per-move budget. It is a plain
// proportional controller: a fixed share of what is left, clamped.
type TimePolicy struct {
	Divisor        int // spend remaining/Divisor per move
	IncrementShare int // percent of the increment added on top
	MinMoveMillis  int
	MaxMoveMillis  int
	OverheadMillis int // kept in reserve for I/O jitter
	LowTimeMillis  int // below this the bot searches one ply shallower
}

func DefaultTimePolicy() TimePolicy {
	return TimePolicy{
		Divisor:        100,
		IncrementShare: 50,
		MinMoveMillis:  5,
		MaxMoveMillis:  1000,
		OverheadMillis: 30,
		LowTimeMillis:  15000,
	}
}

// MoveMillis returns how many milliseconds to spend on one move.
func (p TimePolicy) MoveMillis(remainingMillis, incrementMillis int) int {
	divisor := Max(p.Divisor, 1)
	moveTime := remainingMillis/divisor + incrementMillis*p.IncrementShare/100
	if p.MaxMoveMillis > 0 {
		moveTime = Min(moveTime, p.MaxMoveMillis)
	}
	// never plan past the flag
	moveTime = Min(moveTime, remainingMillis-p.OverheadMillis)
	return Max(moveTime, p.MinMoveMillis)
}

// TimeHandler owns the deadline of the running search.
type TimeHandler struct {
	policy   TimePolicy
	deadline time.Time
	stop     atomic.Bool
}

func NewTimeHandler(policy TimePolicy) *TimeHandler {
	return &TimeHandler{policy: policy}
}

// Budget converts the remaining clock into an absolute deadline. A
// non-positive clock means there is no clock; the zero time is returned and
// only the depth limit applies.
func (th *TimeHandler) Budget(remainingMillis, incrementMillis int) time.Time {
	if remainingMillis <= 0 {
		return time.Time{}
	}
	ms := th.policy.MoveMillis(remainingMillis, incrementMillis)
	return time.Now().Add(time.Duration(ms) * time.Millisecond)
}

// StartTime arms the handler for a search ending at deadline.
func (th *TimeHandler) StartTime(deadline time.Time) {
	th.deadline = deadline
	th.stop.Store(false)
}

// Stop requests the running search to end at its next time check.
func (th *TimeHandler) Stop() {
	th.stop.Store(true)
}

/*
  - True if a stop was requested or the deadline has passed
  - False if we still got time
*/
func (th *TimeHandler) TimeStatus() bool {
	if th.stop.Load() {
		return true
	}
	return !th.deadline.IsZero() && time.Now().After(th.deadline)
}

// Deadline returns the armed deadline; zero when unlimited.
func (th *TimeHandler) Deadline() time.Time {
	return th.deadline
}
