package schedule

import (
	"sync/atomic"
	"testing"
	"time"
)

var start = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func TestScheduleFiresAfterDelay(t *testing.T) {
	clock := NewManualClock(start)
	s := New(clock)

	var fired int
	s.Schedule("chat", time.Second, func() { fired++ })

	clock.Advance(999 * time.Millisecond)
	if fired != 0 {
		t.Fatalf("fired early")
	}
	clock.Advance(time.Millisecond)
	if fired != 1 {
		t.Fatalf("fired = %d, want 1", fired)
	}
	clock.Advance(time.Hour)
	if fired != 1 {
		t.Fatalf("fired = %d after more time, want 1", fired)
	}
	if n := s.Pending("chat"); n != 0 {
		t.Errorf("Pending() = %d, want 0", n)
	}
}

func TestNestedScheduleRunsInOneAdvance(t *testing.T) {
	clock := NewManualClock(start)
	s := New(clock)

	var order []string
	s.Schedule("chat", time.Second, func() {
		order = append(order, "typing at "+clock.Now().Sub(start).String())
		s.Schedule("chat", 2*time.Second, func() {
			order = append(order, "reply at "+clock.Now().Sub(start).String())
		})
	})
	clock.Advance(3 * time.Second)

	want := []string{"typing at 1s", "reply at 3s"}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("order[%d] = %q, want %q", i, order[i], want[i])
		}
	}
}

func TestHandleCancel(t *testing.T) {
	clock := NewManualClock(start)
	s := New(clock)

	var fired bool
	h := s.Schedule("chat", time.Second, func() { fired = true })
	if !h.Cancel() {
		t.Error("first Cancel() = false, want true")
	}
	if h.Cancel() {
		t.Error("second Cancel() = true, want false")
	}
	clock.Advance(time.Minute)
	if fired {
		t.Error("cancelled callback fired")
	}
	if clock.Pending() != 0 {
		t.Errorf("clock has %d pending timers, want 0", clock.Pending())
	}
}

func TestCancelByKey(t *testing.T) {
	clock := NewManualClock(start)
	s := New(clock)

	var a, b int
	s.Schedule("a", time.Second, func() { a++ })
	s.Schedule("a", 2*time.Second, func() { a++ })
	s.Schedule("b", time.Second, func() { b++ })

	if n := s.Cancel("a"); n != 2 {
		t.Errorf("Cancel(a) = %d, want 2", n)
	}
	if n := s.Cancel("missing"); n != 0 {
		t.Errorf("Cancel(missing) = %d, want 0", n)
	}
	clock.Advance(time.Minute)
	if a != 0 || b != 1 {
		t.Errorf("a, b = %d, %d, want 0, 1", a, b)
	}
}

func TestCloseCancelsAndRejects(t *testing.T) {
	clock := NewManualClock(start)
	s := New(clock)

	var fired int
	s.Schedule("a", time.Second, func() { fired++ })
	s.Close()
	h := s.Schedule("a", time.Second, func() { fired++ })
	if h.Cancel() {
		t.Error("Cancel() on handle created after Close = true")
	}
	clock.Advance(time.Minute)
	if fired != 0 {
		t.Errorf("fired = %d after Close, want 0", fired)
	}
}

func TestRealClock(t *testing.T) {
	s := New(nil)
	defer s.Close()

	var fired atomic.Bool
	done := make(chan struct{})
	s.Schedule("k", 10*time.Millisecond, func() {
		fired.Store(true)
		close(done)
	})
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("callback did not fire")
	}
	if !fired.Load() {
		t.Error("fired = false")
	}
}
