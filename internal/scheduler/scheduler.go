// Package scheduler fires one-shot callbacks after a fixed delay. It backs
// the simulated completion of long-running platform operations: a service
// applies an initial state change, schedules a transition here, and the
// callback performs the terminal mutation when the delay elapses.
package scheduler

import (
	"sync"
	"time"
)

// Handle refers to a single scheduled transition.
type Handle interface {
	// Cancel prevents the callback from firing. It reports whether the
	// callback was still pending when cancelled.
	Cancel() bool
}

// Scheduler runs callbacks once after a delay. Callbacks fire on their own
// goroutine and may schedule further transitions.
type Scheduler interface {
	After(delay time.Duration, fn func()) Handle
	Now() time.Time
	// Stop cancels every pending transition. Used at shutdown so torn-down
	// coordinators do not mutate state from stray timers.
	Stop()
}

// Timer is the production Scheduler backed by time.AfterFunc.
type Timer struct {
	mu      sync.Mutex
	stopped bool
	pending map[*timerHandle]struct{}
}

// NewTimer returns a running Timer scheduler.
func NewTimer() *Timer {
	return &Timer{pending: make(map[*timerHandle]struct{})}
}

type timerHandle struct {
	owner *Timer
	timer *time.Timer
	fired bool
	done  bool
}

// After schedules fn to run once after delay.
func (t *Timer) After(delay time.Duration, fn func()) Handle {
	h := &timerHandle{owner: t}
	t.mu.Lock()
	if t.stopped {
		t.mu.Unlock()
		h.done = true
		return h
	}
	h.timer = time.AfterFunc(delay, func() {
		t.mu.Lock()
		if h.done {
			t.mu.Unlock()
			return
		}
		h.fired = true
		h.done = true
		delete(t.pending, h)
		t.mu.Unlock()
		fn()
	})
	t.pending[h] = struct{}{}
	t.mu.Unlock()
	return h
}

// Now returns the wall clock.
func (t *Timer) Now() time.Time {
	return time.Now()
}

// Stop cancels all pending transitions.
func (t *Timer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopped = true
	for h := range t.pending {
		h.done = true
		if h.timer != nil {
			h.timer.Stop()
		}
		delete(t.pending, h)
	}
}

func (h *timerHandle) Cancel() bool {
	h.owner.mu.Lock()
	defer h.owner.mu.Unlock()
	if h.done {
		return false
	}
	h.done = true
	if h.timer != nil {
		h.timer.Stop()
	}
	delete(h.owner.pending, h)
	return true
}
