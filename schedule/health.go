package schedule

import (
	"sync"
	"time"
)

// Health is the scheduler's view of the last cycles
type Health struct {
	LastCycle           time.Time `json:"last_cycle"`
	LastSuccess         time.Time `json:"last_success"`
	ConsecutiveFailures int       `json:"consecutive_failures"`
	Degraded            bool      `json:"degraded"`
}

// transition is the alert triggered by a recorded cycle, if any
type transition int

const (
	transitionNone transition = iota
	transitionDegraded
	transitionRecovered
)

// healthTracker counts consecutive cycles in which nothing resolved
type healthTracker struct {
	state       Health
	maxFailures int

	mux sync.RWMutex
}

// record accounts for a finished cycle and returns the failure count
// to report, along with the alert to send
func (h *healthTracker) record(at time.Time, resolved int) (int, transition) {
	h.mux.Lock()
	defer h.mux.Unlock()

	h.state.LastCycle = at

	if resolved == 0 {
		h.state.ConsecutiveFailures++

		if h.state.ConsecutiveFailures == h.maxFailures {
			h.state.Degraded = true

			return h.state.ConsecutiveFailures, transitionDegraded
		}

		return h.state.ConsecutiveFailures, transitionNone
	}

	wasDegraded := h.state.Degraded

	h.state.ConsecutiveFailures = 0
	h.state.Degraded = false
	h.state.LastSuccess = at

	if wasDegraded {
		return 0, transitionRecovered
	}

	return 0, transitionNone
}

func (h *healthTracker) snapshot() Health {
	h.mux.RLock()
	defer h.mux.RUnlock()

	return h.state
}
