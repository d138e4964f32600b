package schedule

import (
	"context"
	"time"

	"github.com/rs/xid"

	"github.com/sig-0/pricecast/registry"
	"github.com/sig-0/pricecast/resolve"
	"github.com/sig-0/pricecast/storage/types"
)

// scheduledCycle is a single scheduled resolution cycle
type scheduledCycle struct {
	at time.Time
	id xid.ID
}

// Less is utilized to sort scheduled cycles by their due-time (earliest == first)
func (a scheduledCycle) Less(b scheduledCycle) bool {
	return a.at.Before(b.at)
}

// workerInfo is the work context for the cycle routine
type workerInfo struct {
	resolver   Resolver
	resCh      chan<- *workerResponse
	categories []registry.Category
	cycle      scheduledCycle
	timeout    time.Duration
}

// workerResponse is the cycle routine response
type workerResponse struct {
	startedAt   time.Time
	resolutions []resolve.Resolution
	cycle       scheduledCycle
}

// handleCycle runs the cycle and hands the response to the collector
func handleCycle(
	ctx context.Context,
	info *workerInfo,
	now func() time.Time,
) {
	response := runCycle(ctx, info, now)

	select {
	case <-ctx.Done():
	case info.resCh <- response:
	}
}

// runCycle resolves every category, bounded by the cycle timeout
func runCycle(
	ctx context.Context,
	info *workerInfo,
	now func() time.Time,
) *workerResponse {
	startedAt := now()

	cycleCtx, cancelFn := context.WithTimeout(ctx, info.timeout)
	defer cancelFn()

	return &workerResponse{
		startedAt:   startedAt,
		resolutions: info.resolver.ResolveAll(cycleCtx, info.categories),
		cycle:       info.cycle,
	}
}

// CycleReport is the outcome of a single completed cycle
type CycleReport struct {
	StartedAt  time.Time
	FinishedAt time.Time

	// PublishErr is the report publish failure, if any
	PublishErr error

	// Snapshot is nil if nothing resolved in the cycle
	Snapshot *types.Snapshot

	Message     string
	Resolutions []resolve.Resolution

	ID xid.ID

	ConsecutiveFailures int
	Published           bool
}

// Resolved returns the number of categories that resolved to a price
func (r *CycleReport) Resolved() int {
	var n int

	for _, res := range r.Resolutions {
		if res.Available() {
			n++
		}
	}

	return n
}

// buildSnapshot collects the resolved prices of a cycle
func buildSnapshot(id xid.ID, at time.Time, resolutions []resolve.Resolution) *types.Snapshot {
	snap := &types.Snapshot{
		ID:          id.String(),
		Timestamp:   at.UTC(),
		Prices:      make(map[string]types.PriceEntry, len(resolutions)),
		Unavailable: make([]string, 0),
	}

	for _, res := range resolutions {
		if !res.Available() {
			snap.Unavailable = append(snap.Unavailable, res.Category.ID)

			continue
		}

		snap.Prices[res.Category.ID] = types.PriceEntry{
			ResolvedAt: res.Price.ResolvedAt,
			Value:      res.Price.Value,
			Change:     res.Price.Change,
			Name:       res.Category.Name,
			Group:      res.Category.Group.String(),
			Unit:       res.Price.Unit.String(),
			Source:     res.Price.Source,
			Display:    res.Price.Display,
		}
	}

	return snap
}
