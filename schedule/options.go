package schedule

import (
	"log/slog"
	"time"
)

type Option func(s *Scheduler)

// WithLogger specifies the logger for the scheduler
func WithLogger(l *slog.Logger) Option {
	return func(s *Scheduler) {
		s.logger = l
	}
}

// WithInterval specifies the time between two cycles.
// Defaults to 30min
func WithInterval(d time.Duration) Option {
	return func(s *Scheduler) {
		if d > 0 {
			s.interval = d
		}
	}
}

// WithQueryInterval specifies how often the queue is checked for due cycles.
// Defaults to 1s
func WithQueryInterval(q time.Duration) Option {
	return func(s *Scheduler) {
		if q > 0 {
			s.queryInterval = q
		}
	}
}

// WithCycleTimeout bounds the resolution phase of a single cycle.
// Defaults to 2min, and is capped at the cycle interval
func WithCycleTimeout(d time.Duration) Option {
	return func(s *Scheduler) {
		if d > 0 {
			s.cycleTimeout = d
		}
	}
}

// WithMaxFailures specifies after how many consecutive failed cycles
// a degraded alert is published. Defaults to 5
func WithMaxFailures(n int) Option {
	return func(s *Scheduler) {
		if n > 0 {
			s.maxFailures = n
		}
	}
}

// WithAnnounce enables the start message on Start
func WithAnnounce(announce bool) Option {
	return func(s *Scheduler) {
		s.announce = announce
	}
}

// WithClock overrides the scheduler clock
func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) {
		if now != nil {
			s.now = now
		}
	}
}
