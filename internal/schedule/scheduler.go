// Package schedule runs delayed callbacks that can be cancelled individually
// or by key.
package schedule

import (
	"sync"
	"time"
)

// Scheduler runs callbacks after a delay. Callbacks are grouped by key so all
// work belonging to, say, one chat can be cancelled together.
type Scheduler struct {
	clock Clock

	mu      sync.Mutex
	pending map[string]map[*Handle]struct{}
	closed  bool
}

// Handle refers to one scheduled callback.
type Handle struct {
	s     *Scheduler
	key   string
	timer Timer
}

// New creates a scheduler. A nil clock means RealClock.
func New(clock Clock) *Scheduler {
	if clock == nil {
		clock = RealClock{}
	}
	return &Scheduler{
		clock:   clock,
		pending: make(map[string]map[*Handle]struct{}),
	}
}

// Now returns the scheduler clock's current time.
func (s *Scheduler) Now() time.Time { return s.clock.Now() }

// Schedule runs fn once after delay unless cancelled first. After Close it
// returns a handle that never fires.
func (s *Scheduler) Schedule(key string, delay time.Duration, fn func()) *Handle {
	h := &Handle{s: s, key: key}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return h
	}
	if s.pending[key] == nil {
		s.pending[key] = make(map[*Handle]struct{})
	}
	s.pending[key][h] = struct{}{}
	h.timer = s.clock.AfterFunc(delay, func() {
		if !s.release(h) {
			return
		}
		fn()
	})
	return h
}

// Cancel stops the callback. It reports whether the callback was still pending.
func (h *Handle) Cancel() bool {
	if h.timer == nil || !h.s.release(h) {
		return false
	}
	h.timer.Stop()
	return true
}

// Cancel stops every pending callback scheduled under key and returns how many
// were stopped.
func (s *Scheduler) Cancel(key string) int {
	s.mu.Lock()
	handles := s.pending[key]
	delete(s.pending, key)
	s.mu.Unlock()

	for h := range handles {
		h.timer.Stop()
	}
	return len(handles)
}

// Pending returns the number of callbacks waiting under key.
func (s *Scheduler) Pending(key string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending[key])
}

// Close cancels everything and rejects further scheduling.
func (s *Scheduler) Close() {
	s.mu.Lock()
	s.closed = true
	all := s.pending
	s.pending = make(map[string]map[*Handle]struct{})
	s.mu.Unlock()

	for _, handles := range all {
		for h := range handles {
			h.timer.Stop()
		}
	}
}

// release removes h from the pending set and reports whether it was there.
// Exactly one of firing and cancelling wins.
func (s *Scheduler) release(h *Handle) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	handles, ok := s.pending[h.key]
	if !ok {
		return false
	}
	if _, ok := handles[h]; !ok {
		return false
	}
	delete(handles, h)
	if len(handles) == 0 {
		delete(s.pending, h.key)
	}
	return true
}
