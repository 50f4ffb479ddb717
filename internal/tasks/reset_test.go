package tasks

import (
	"sync"
	"testing"
	"time"
)

type notifications struct {
	mu  sync.Mutex
	got []int
}

func (n *notifications) add(i int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.got = append(n.got, i)
}

func (n *notifications) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.got)
}

func TestNextMidnight(t *testing.T) {
	loc := time.FixedZone("KST", 9*60*60)
	tests := []struct {
		now  time.Time
		want time.Time
	}{
		{time.Date(2026, 3, 14, 15, 30, 0, 0, loc), time.Date(2026, 3, 15, 0, 0, 0, 0, loc)},
		{time.Date(2026, 3, 14, 0, 0, 0, 0, loc), time.Date(2026, 3, 15, 0, 0, 0, 0, loc)},
		{time.Date(2026, 12, 31, 23, 59, 59, 0, loc), time.Date(2027, 1, 1, 0, 0, 0, 0, loc)},
	}
	for _, tt := range tests {
		if got := NextMidnight(tt.now); !got.Equal(tt.want) {
			t.Errorf("NextMidnight(%v) = %v, want %v", tt.now, got, tt.want)
		}
	}
}

func TestResetter_FiresAtMidnight(t *testing.T) {
	clock := NewManualClock(time.Date(2026, 3, 14, 21, 0, 0, 0, time.Local))
	var n notifications
	r := NewResetter(clock, n.add)

	deadline := r.Schedule(2)
	if !deadline.Equal(time.Date(2026, 3, 15, 0, 0, 0, 0, time.Local)) {
		t.Fatalf("deadline = %v", deadline)
	}

	clock.Advance(2*time.Hour + 59*time.Minute)
	if n.count() != 0 {
		t.Fatal("fired before midnight")
	}

	clock.Advance(time.Minute)
	if n.count() != 1 || n.got[0] != 2 {
		t.Fatalf("notifications = %v, want [2]", n.got)
	}
	if r.Scheduled(2) {
		t.Error("fired timer still reported as scheduled")
	}
}

func TestResetter_RescheduleReplacesTimer(t *testing.T) {
	clock := NewManualClock(time.Date(2026, 3, 14, 8, 0, 0, 0, time.Local))
	var n notifications
	r := NewResetter(clock, n.add)

	r.Schedule(0)
	r.Schedule(0)
	if clock.Pending() != 1 {
		t.Fatalf("pending timers = %d, want 1", clock.Pending())
	}

	clock.Advance(24 * time.Hour)
	if n.count() != 1 {
		t.Fatalf("notified %d times, want 1", n.count())
	}
}

func TestResetter_ReschedulesRelativeToNow(t *testing.T) {
	clock := NewManualClock(time.Date(2026, 3, 14, 8, 0, 0, 0, time.Local))
	var n notifications
	r := NewResetter(clock, n.add)
	r.Schedule(1)

	// A missed wake: the clock jumps three days at once.
	clock.Set(time.Date(2026, 3, 17, 10, 0, 0, 0, time.Local))
	if n.count() != 1 {
		t.Fatalf("notified %d times, want 1", n.count())
	}

	deadline := r.Schedule(1)
	if !deadline.Equal(time.Date(2026, 3, 18, 0, 0, 0, 0, time.Local)) {
		t.Fatalf("rescheduled deadline = %v, want next midnight after now", deadline)
	}
}

func TestResetter_StopCancelsTimers(t *testing.T) {
	clock := NewManualClock(time.Date(2026, 3, 14, 8, 0, 0, 0, time.Local))
	var n notifications
	r := NewResetter(clock, n.add)
	r.Schedule(0)
	r.Schedule(1)

	r.Stop()
	clock.Advance(48 * time.Hour)
	if n.count() != 0 {
		t.Fatalf("notified %d times after stop", n.count())
	}
	if !r.Schedule(2).IsZero() {
		t.Error("schedule after stop should be a no-op")
	}
	if clock.Pending() != 0 {
		t.Errorf("pending timers = %d, want 0", clock.Pending())
	}
}

func TestResetter_SystemClock(t *testing.T) {
	r := NewResetter(nil, func(int) {})
	r.Schedule(0)
	if !r.Scheduled(0) {
		t.Fatal("expected timer to be armed")
	}
	r.Stop()
	if r.Scheduled(0) {
		t.Fatal("expected timer to be cancelled")
	}
}
