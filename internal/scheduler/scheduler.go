// Package scheduler owns the periodic tick that drives a snake run and
// re-paces it as the score grows.
//
// The Scheduler is the only component that starts, stops or rebinds the tick
// driver. Changing the interval cancels the running periodic task and starts
// a new one in a single locked step, so two tick loops never overlap and the
// new pace applies from the very next tick.
package scheduler

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// Pace describes the speed ramp.
type Pace struct {
	Base time.Duration // Interval at the start of a run
	Step time.Duration // Decrease per score increase
	Min  time.Duration // Floor
}

// DefaultPace starts at 120ms and speeds up by 2ms per food down to 70ms.
func DefaultPace() Pace {
	return Pace{
		Base: 120 * time.Millisecond,
		Step: 2 * time.Millisecond,
		Min:  70 * time.Millisecond,
	}
}

// Next returns the interval after one score increase from current.
// It never goes below Min and never slows the game down.
func (p Pace) Next(current time.Duration) time.Duration {
	if p.Step <= 0 || current <= p.Min {
		return current
	}
	return max(current-p.Step, p.Min)
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithClock replaces the system clock.
func WithClock(c Clock) Option {
	return func(s *Scheduler) {
		if c != nil {
			s.clock = c
		}
	}
}

// WithLogger sets the scheduler logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Scheduler) {
		if l != nil {
			s.logger = l
		}
	}
}

// Scheduler runs a tick callback at the current interval.
type Scheduler struct {
	pace   Pace
	clock  Clock
	logger *log.Logger

	mu       sync.Mutex
	interval time.Duration
	fn       func()
	cancel   context.CancelFunc
	gen      uint64

	// fire serializes tick callbacks across generations
	fire sync.Mutex
}

// New creates a stopped scheduler at the base interval.
func New(pace Pace, opts ...Option) *Scheduler {
	if pace.Base <= 0 {
		pace.Base = DefaultPace().Base
	}
	if pace.Min <= 0 {
		pace.Min = time.Millisecond
	}
	if pace.Min > pace.Base {
		pace.Min = pace.Base
	}

	s := &Scheduler{
		pace:     pace,
		clock:    SystemClock{},
		logger:   log.New(io.Discard),
		interval: pace.Base,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Pace returns the configured ramp.
func (s *Scheduler) Pace() Pace {
	return s.pace
}

// Start begins calling fn at the current interval, replacing any previous
// callback. fn runs on the scheduler's goroutine; calls never overlap.
func (s *Scheduler) Start(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.fn = fn
	s.rebindLocked()
}

// Stop cancels the periodic task. A tick already in flight finishes, but no
// further ticks are delivered.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cancelLocked()
	s.fn = nil
}

// Running reports whether a periodic task is active.
func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancel != nil
}

// Interval returns the current tick interval.
func (s *Scheduler) Interval() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.interval
}

// OnScoreIncrease shortens the interval by one step, down to the floor.
// When the interval changes while running, the task is rebound at once.
func (s *Scheduler) OnScoreIncrease() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.pace.Next(s.interval)
	if next == s.interval {
		return false
	}
	s.logger.Debug("speeding up", "from", s.interval, "to", next)
	s.interval = next
	if s.cancel != nil {
		s.rebindLocked()
	}
	return true
}

// Reset restores the base interval, rebinding a running task if needed.
func (s *Scheduler) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.interval == s.pace.Base {
		return
	}
	s.interval = s.pace.Base
	if s.cancel != nil {
		s.rebindLocked()
	}
}

func (s *Scheduler) cancelLocked() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.gen++
}

// rebindLocked cancels the current task and, if a callback is set, starts a
// new one at the current interval. Caller holds s.mu.
func (s *Scheduler) rebindLocked() {
	s.cancelLocked()
	if s.fn == nil {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	t := s.clock.NewTicker(s.interval)
	go s.loop(ctx, t, s.gen, s.fn)
}

func (s *Scheduler) loop(ctx context.Context, t Ticker, gen uint64, fn func()) {
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C():
			s.fire.Lock()
			if s.current(gen) {
				fn()
			}
			s.fire.Unlock()
		}
	}
}

// current reports whether gen is still the live task.
func (s *Scheduler) current(gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gen == gen && s.cancel != nil
}
