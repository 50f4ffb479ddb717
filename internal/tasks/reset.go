package tasks

import (
	"sync"
	"time"
)

// NextMidnight returns the first local midnight strictly after now.
func NextMidnight(now time.Time) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d+1, 0, 0, 0, 0, now.Location())
}

// Resetter schedules the daily reset of persistent tasks. Each task has at
// most one pending single-shot timer, always computed from the clock's
// current time so a clock change never accumulates drift.
//
// When a timer fires, the Resetter only notifies; the owner of the registry
// performs the reset on its own goroutine and calls Schedule again.
type Resetter struct {
	clock  Clock
	notify func(index int)

	mu      sync.Mutex
	timers  map[int]armed
	gen     uint64
	stopped bool
}

type armed struct {
	timer Timer
	gen   uint64
}

// NewResetter creates a Resetter that calls notify with the task index when
// a reset is due. notify runs on the timer's goroutine.
func NewResetter(clock Clock, notify func(index int)) *Resetter {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Resetter{
		clock:  clock,
		notify: notify,
		timers: make(map[int]armed),
	}
}

// Schedule arms the reset timer for a task at the next local midnight,
// replacing any timer already armed for it. It returns the deadline, or the
// zero time after Stop.
func (r *Resetter) Schedule(index int) time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stopped {
		return time.Time{}
	}

	if a, ok := r.timers[index]; ok {
		a.timer.Stop()
	}

	r.gen++
	gen := r.gen
	now := r.clock.Now()
	deadline := NextMidnight(now)
	timer := r.clock.AfterFunc(deadline.Sub(now), func() {
		r.fire(index, gen)
	})
	r.timers[index] = armed{timer: timer, gen: gen}
	return deadline
}

// Scheduled reports whether a timer is armed for the task.
func (r *Resetter) Scheduled(index int) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.timers[index]
	return ok
}

// Stop cancels every timer. Nothing is notified afterwards.
func (r *Resetter) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stopped = true
	for i, a := range r.timers {
		a.timer.Stop()
		delete(r.timers, i)
	}
}

func (r *Resetter) fire(index int, gen uint64) {
	r.mu.Lock()
	if a, ok := r.timers[index]; r.stopped || !ok || a.gen != gen {
		r.mu.Unlock()
		return
	}
	delete(r.timers, index)
	r.mu.Unlock()

	r.notify(index)
}
