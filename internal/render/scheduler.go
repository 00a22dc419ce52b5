// Package render coalesces view recomputation: any number of MarkDirty calls
// between two ticks of the injected Clock produce exactly one recompute.
package render

import (
	"sync"
	"time"
)

// Scheduler is idle until marked dirty, then pending until its callback
// fires. While pending further marks are absorbed and the timer is not reset.
type Scheduler struct {
	mu      sync.Mutex
	pending bool

	clock     Clock
	delay     time.Duration
	recompute func()
}

// NewScheduler returns an idle scheduler that calls recompute at most once per
// delay through clock.
func NewScheduler(clock Clock, delay time.Duration, recompute func()) *Scheduler {
	return &Scheduler{clock: clock, delay: delay, recompute: recompute}
}

func (s *Scheduler) MarkDirty() {
	s.mu.Lock()
	if s.pending {
		s.mu.Unlock()
		return
	}
	s.pending = true
	s.mu.Unlock()

	s.clock.AfterFunc(s.delay, s.fire)
}

// Pending reports whether a recompute is scheduled.
func (s *Scheduler) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}

// fire clears the pending flag before recomputing, so a mark issued during
// the recompute schedules the next one.
func (s *Scheduler) fire() {
	s.mu.Lock()
	s.pending = false
	s.mu.Unlock()

	s.recompute()
}
