package scheduler

import (
	"sort"
	"sync"
	"time"
)

// Manual is a Scheduler for tests. Nothing fires until Advance moves the
// simulated clock; due callbacks then run synchronously in due order, so
// tests observe deterministic transition interleavings.
type Manual struct {
	mu   sync.Mutex
	now  time.Time
	seq  int
	jobs []*manualJob
}

type manualJob struct {
	owner *Manual
	due   time.Time
	seq   int
	fn    func()
	done  bool
}

// NewManual returns a Manual scheduler starting at the given instant.
func NewManual(start time.Time) *Manual {
	return &Manual{now: start}
}

// After schedules fn at now+delay on the simulated clock.
func (m *Manual) After(delay time.Duration, fn func()) Handle {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	job := &manualJob{owner: m, due: m.now.Add(delay), seq: m.seq, fn: fn}
	m.jobs = append(m.jobs, job)
	return job
}

// Now returns the simulated clock.
func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Advance moves the clock forward by d, firing every due callback in order.
// Callbacks may schedule follow-up transitions; those fire too when they
// come due within the same advance.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	target := m.now.Add(d)
	for {
		job := m.nextDueLocked(target)
		if job == nil {
			break
		}
		if job.due.After(m.now) {
			m.now = job.due
		}
		job.done = true
		fn := job.fn
		m.mu.Unlock()
		fn()
		m.mu.Lock()
	}
	m.now = target
	m.mu.Unlock()
}

// nextDueLocked returns the earliest pending job due at or before target,
// breaking ties by scheduling order.
func (m *Manual) nextDueLocked(target time.Time) *manualJob {
	pending := m.jobs[:0]
	for _, job := range m.jobs {
		if !job.done {
			pending = append(pending, job)
		}
	}
	m.jobs = pending
	sort.SliceStable(m.jobs, func(i, j int) bool {
		if m.jobs[i].due.Equal(m.jobs[j].due) {
			return m.jobs[i].seq < m.jobs[j].seq
		}
		return m.jobs[i].due.Before(m.jobs[j].due)
	})
	for _, job := range m.jobs {
		if !job.due.After(target) {
			return job
		}
	}
	return nil
}

// Pending reports how many transitions have not fired or been cancelled.
func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, job := range m.jobs {
		if !job.done {
			n++
		}
	}
	return n
}

// Stop cancels all pending transitions.
func (m *Manual) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, job := range m.jobs {
		job.done = true
	}
}

func (j *manualJob) Cancel() bool {
	j.owner.mu.Lock()
	defer j.owner.mu.Unlock()
	if j.done {
		return false
	}
	j.done = true
	return true
}
