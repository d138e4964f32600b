package schedule

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/rs/xid"
	"github.com/sig-0/iq"

	"github.com/sig-0/pricecast/publish"
	"github.com/sig-0/pricecast/registry"
	"github.com/sig-0/pricecast/report"
	"github.com/sig-0/pricecast/resolve"
	"github.com/sig-0/pricecast/storage"
)

const (
	DefaultInterval     = 30 * time.Minute
	DefaultCycleTimeout = 2 * time.Minute
	DefaultMaxFailures  = 5

	publishTimeout = 30 * time.Second
	saveTimeout    = 10 * time.Second
)

var errNoCategories = errors.New("no categories to resolve")

// Resolver resolves a batch of categories, keeping their order
type Resolver interface {
	ResolveAll(context.Context, []registry.Category) []resolve.Resolution
}

// Scheduler runs resolution cycles at a fixed interval, then publishes
// and persists their outcome
type Scheduler struct {
	resolver  Resolver
	composer  *report.Composer
	publisher publish.Publisher
	storage   storage.Storage
	logger    *slog.Logger
	now       func() time.Time

	health *healthTracker

	q    iq.Queue[scheduledCycle]
	qMux sync.Mutex

	categories []registry.Category

	interval      time.Duration
	queryInterval time.Duration
	cycleTimeout  time.Duration
	maxFailures   int
	announce      bool

	// completeMux serializes cycle completion
	completeMux sync.Mutex
}

// New creates a new Scheduler instance
func New(
	reg *registry.Registry,
	resolver Resolver,
	composer *report.Composer,
	publisher publish.Publisher,
	storage storage.Storage,
	opts ...Option,
) (*Scheduler, error) {
	if reg == nil || len(reg.Categories()) == 0 {
		return nil, errNoCategories
	}

	s := &Scheduler{
		resolver:      resolver,
		composer:      composer,
		publisher:     publisher,
		storage:       storage,
		logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:           time.Now,
		q:             iq.NewQueue[scheduledCycle](),
		categories:    reg.Categories(),
		interval:      DefaultInterval,
		queryInterval: time.Second, // every second
		cycleTimeout:  DefaultCycleTimeout,
		maxFailures:   DefaultMaxFailures,
	}

	// Apply the options
	for _, opt := range opts {
		opt(s)
	}

	if s.cycleTimeout > s.interval {
		s.cycleTimeout = s.interval
	}

	s.health = &healthTracker{maxFailures: s.maxFailures}

	return s, nil
}

// Health returns the current cycle health
func (s *Scheduler) Health() Health {
	return s.health.snapshot()
}

// Start starts the cycle loop [BLOCKING].
// The first cycle runs immediately
func (s *Scheduler) Start(ctx context.Context) error {
	collectorCh := make(chan *workerResponse, 10)

	if s.announce {
		s.publishStatus(ctx, s.composer.Started(s.now()))
	}

	s.scheduleCycle(s.now().UTC())

	ticker := time.NewTicker(s.queryInterval)
	defer ticker.Stop()

	// handleDue dispatches all cycles that are due
	handleDue := func() {
		for {
			select {
			case <-ctx.Done():
				return
			default:
				next := s.nextCycle()
				if next == nil {
					return // nothing is due
				}

				s.logger.Info(
					"starting cycle",
					"id", next.id.String(),
				)

				// Schedule the following cycle right away,
				// so a stalled cycle can't hold it up
				s.scheduleCycle(s.followingCycle(next.at))

				info := &workerInfo{
					resolver:   s.resolver,
					resCh:      collectorCh,
					categories: s.categories,
					cycle:      *next,
					timeout:    s.cycleTimeout,
				}

				go handleCycle(ctx, info, s.now)
			}
		}
	}

	handleDue()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("scheduler service shut down")

			return nil
		case <-ticker.C:
			handleDue()
		case response := <-collectorCh:
			s.complete(ctx, response)
		}
	}
}

// RunOnce runs a single cycle synchronously. The returned error is
// the report publish failure, if any
func (s *Scheduler) RunOnce(ctx context.Context) (*CycleReport, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("unable to run cycle: %w", err)
	}

	cycle := scheduledCycle{
		at: s.now().UTC(),
		id: xid.New(),
	}

	response := runCycle(
		ctx,
		&workerInfo{
			resolver:   s.resolver,
			categories: s.categories,
			cycle:      cycle,
			timeout:    s.cycleTimeout,
		},
		s.now,
	)

	cr := s.complete(ctx, response)

	return cr, cr.PublishErr
}

// complete publishes and persists the outcome of a finished cycle
func (s *Scheduler) complete(ctx context.Context, response *workerResponse) *CycleReport {
	s.completeMux.Lock()
	defer s.completeMux.Unlock()

	cr := &CycleReport{
		ID:          response.cycle.id,
		StartedAt:   response.startedAt,
		FinishedAt:  s.now(),
		Resolutions: response.resolutions,
	}

	resolved := cr.Resolved()

	failures, alert := s.health.record(cr.FinishedAt, resolved)
	cr.ConsecutiveFailures = failures

	if resolved == 0 {
		s.logger.Error(
			"no category resolved",
			"id", cr.ID.String(),
			"consecutive_failures", failures,
		)
	}

	if alert == transitionRecovered {
		s.logger.Info("prices available again")
		s.publishStatus(ctx, s.composer.Recovered(cr.FinishedAt))
	}

	cr.Message = s.composer.Compose(
		cr.Resolutions,
		report.Meta{
			At:                  cr.FinishedAt,
			ConsecutiveFailures: failures,
		},
	)

	cr.PublishErr = s.publish(ctx, cr.Message)
	cr.Published = cr.PublishErr == nil

	if alert == transitionDegraded {
		s.publishStatus(ctx, s.composer.Degraded(cr.FinishedAt, failures))
	}

	if resolved > 0 {
		cr.Snapshot = buildSnapshot(cr.ID, cr.FinishedAt, cr.Resolutions)

		saveCtx, cancelFn := context.WithTimeout(ctx, saveTimeout)

		if err := s.storage.SaveSnapshot(saveCtx, cr.Snapshot); err != nil {
			s.logger.Error(
				"unable to save snapshot",
				"id", cr.ID.String(),
				"err", err,
			)
		}

		cancelFn()
	}

	s.logger.Info(
		"cycle finished",
		"id", cr.ID.String(),
		"resolved", resolved,
		"unavailable", len(cr.Resolutions)-resolved,
		"published", cr.Published,
		"duration", cr.FinishedAt.Sub(cr.StartedAt).String(),
	)

	return cr
}

func (s *Scheduler) publish(ctx context.Context, text string) error {
	publishCtx, cancelFn := context.WithTimeout(ctx, publishTimeout)
	defer cancelFn()

	if err := s.publisher.Publish(publishCtx, text); err != nil {
		s.logger.Error(
			"unable to publish message",
			"err", err,
		)

		return err
	}

	return nil
}

// publishStatus sends a status message. Failures are only logged
func (s *Scheduler) publishStatus(ctx context.Context, text string) {
	_ = s.publish(ctx, text)
}

// followingCycle returns the due time of the cycle after the one at the
// given time. Missed cycles are skipped instead of run back to back
func (s *Scheduler) followingCycle(at time.Time) time.Time {
	next := at.Add(s.interval)

	if now := s.now().UTC(); next.Before(now) {
		return now.Add(s.interval)
	}

	return next
}

// scheduleCycle schedules a new cycle
func (s *Scheduler) scheduleCycle(at time.Time) {
	s.qMux.Lock()
	defer s.qMux.Unlock()

	s.q.Push(scheduledCycle{
		at: at,
		id: xid.New(),
	})
}

// nextCycle fetches the next due cycle, as of the moment of calling
func (s *Scheduler) nextCycle() *scheduledCycle {
	s.qMux.Lock()
	defer s.qMux.Unlock()

	now := s.now().UTC()

	// Check if anything needs to be scheduled
	if s.q.Len() == 0 {
		return nil
	}

	// Check if the top element is due
	if s.q.Index(0).at.After(now) {
		return nil // next cycle is in the future
	}

	return s.q.PopFront()
}
