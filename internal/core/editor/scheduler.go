package editor

import (
	"sync"
	"time"
)

// Scheduler is a cancellable fire-once timer with last-write-wins
// semantics: Schedule replaces any pending callback instead of queuing a
// second one. The session owns one scheduler per deferred concern
// (snapshots, renders, autosave) so closing a document can cancel them all.
type Scheduler interface {
	Schedule(d time.Duration, fn func())
	Cancel()
}

// TimerScheduler is the wall-clock Scheduler backed by time.AfterFunc.
type TimerScheduler struct {
	mu    sync.Mutex
	timer *time.Timer
}

// NewTimerScheduler returns an idle wall-clock scheduler.
func NewTimerScheduler() *TimerScheduler {
	return &TimerScheduler{}
}

// Schedule arms the timer, replacing any pending fire.
func (s *TimerScheduler) Schedule(d time.Duration, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(d, fn)
}

// Cancel stops any pending fire.
func (s *TimerScheduler) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

// ManualScheduler is a Scheduler driven by explicit Fire calls. The TUI
// pumps it from its own tick messages and tests pump it directly, keeping
// the core free of real timers.
type ManualScheduler struct {
	pending func()
	due     time.Duration
}

// NewManualScheduler returns an idle manual scheduler.
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

// Schedule stores the callback, replacing any pending one.
func (s *ManualScheduler) Schedule(d time.Duration, fn func()) {
	s.pending = fn
	s.due = d
}

// Cancel drops the pending callback.
func (s *ManualScheduler) Cancel() {
	s.pending = nil
	s.due = 0
}

// Pending reports whether a callback is armed and its delay.
func (s *ManualScheduler) Pending() (time.Duration, bool) {
	return s.due, s.pending != nil
}

// Fire runs and clears the pending callback, if any.
func (s *ManualScheduler) Fire() {
	fn := s.pending
	s.pending = nil
	s.due = 0
	if fn != nil {
		fn()
	}
}
