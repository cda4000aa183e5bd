package github

import (
	"sync/atomic"
	"time"

	"github.com/google/go-github/v80/github"
)

// RateLimitState tracks the REST quota across requests. The whole value is
// swapped atomically on every response, so concurrent readers never observe
// a torn remaining/reset pair. One state can be shared by many clients.
type RateLimitState struct {
	current atomic.Pointer[github.Rate]
}

func NewRateLimitState() *RateLimitState {
	s := &RateLimitState{}
	s.current.Store(&github.Rate{})
	return s
}

// Snapshot returns the most recently observed quota. Before the first
// response it is the zero value, which never blocks.
func (s *RateLimitState) Snapshot() github.Rate {
	return *s.current.Load()
}

// Update replaces the state with the rate headers of one response.
// Responses without rate headers parse to a zero Limit and are ignored.
func (s *RateLimitState) Update(rate github.Rate) {
	if rate.Limit == 0 {
		return
	}
	r := rate
	s.current.Store(&r)
}

// BlockedUntil reports whether the quota is exhausted at now and, if so,
// when it resets.
func (s *RateLimitState) BlockedUntil(now time.Time) (time.Time, bool) {
	rate := s.Snapshot()
	if rate.Limit == 0 || rate.Remaining > 0 {
		return time.Time{}, false
	}
	reset := rate.Reset.Time
	if !now.Before(reset) {
		return time.Time{}, false
	}
	return reset, true
}
