package resolve

import (
	"log/slog"
	"time"
)

type Option func(r *Resolver)

// WithLogger specifies the logger for the resolver
func WithLogger(l *slog.Logger) Option {
	return func(r *Resolver) {
		r.logger = l
	}
}

// WithConcurrency specifies how many categories can be resolved at once.
// Defaults to 1 (sequential).
// Sources within a single category are always tried sequentially
func WithConcurrency(n int) Option {
	return func(r *Resolver) {
		if n > 0 {
			r.concurrency = n
		}
	}
}

// WithClock overrides the clock used to timestamp resolved prices
func WithClock(now func() time.Time) Option {
	return func(r *Resolver) {
		if now != nil {
			r.now = now
		}
	}
}
