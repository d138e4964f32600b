package resolve

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/sig-0/pricecast/extract"
	"github.com/sig-0/pricecast/price"
	"github.com/sig-0/pricecast/registry"
)

// Resolver walks a category's sources in priority order and settles
// on the first value that survives extraction, normalization and the
// plausibility filter
type Resolver struct {
	fetcher Fetcher
	logger  *slog.Logger
	now     func() time.Time

	concurrency int
}

// New creates a new Resolver instance
func New(fetcher Fetcher, opts ...Option) *Resolver {
	r := &Resolver{
		fetcher:     fetcher,
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:         time.Now,
		concurrency: 1,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// ResolveAll resolves every category, preserving the given order
// in the output. Categories are independent of one another
func (r *Resolver) ResolveAll(ctx context.Context, categories []registry.Category) []Resolution {
	out := make([]Resolution, len(categories))

	if r.concurrency <= 1 {
		for i, c := range categories {
			out[i] = r.Resolve(ctx, c)
		}

		return out
	}

	var g errgroup.Group

	g.SetLimit(r.concurrency)

	for i, c := range categories {
		g.Go(func() error {
			out[i] = r.Resolve(ctx, c)

			return nil
		})
	}

	_ = g.Wait()

	return out
}

// Resolve tries the category's sources in order. Once a source yields
// a plausible value the remaining sources are not contacted
func (r *Resolver) Resolve(ctx context.Context, c registry.Category) Resolution {
	res := Resolution{
		Category: c,
		Attempts: make([]Attempt, 0, len(c.Sources)),
	}

	for _, src := range c.Sources {
		if err := ctx.Err(); err != nil {
			res.Err = fmt.Errorf("%w: %s: %w", ErrCategoryUnavailable, c.ID, err)

			return res
		}

		attempt, resolved := r.attempt(ctx, c, src)
		res.Attempts = append(res.Attempts, attempt)

		if resolved != nil {
			res.Price = resolved

			r.logger.Info(
				"resolved price",
				"category", c.ID,
				"source", src.Name,
				"value", resolved.Value.String(),
				"unit", resolved.Unit.String(),
			)

			return res
		}
	}

	r.logger.Warn(
		"all sources exhausted",
		"category", c.ID,
		"sources", len(c.Sources),
	)

	res.Err = fmt.Errorf("%w: %s", ErrCategoryUnavailable, c.ID)

	return res
}

// attempt performs the full pipeline for a single source
func (r *Resolver) attempt(
	ctx context.Context,
	c registry.Category,
	src registry.Source,
) (Attempt, *price.ResolvedPrice) {
	start := r.now()

	a := Attempt{Source: src.Name}

	body, err := r.fetcher.Fetch(ctx, src)
	if err != nil {
		a.Status = StatusUnreachable
		a.Err = fmt.Errorf("%w: %s: %w", ErrSourceUnreachable, src.Name, err)
		a.Elapsed = r.now().Sub(start)

		r.logger.Warn(
			"source unreachable",
			"category", c.ID,
			"source", src.Name,
			"err", err,
		)

		return a, nil
	}

	a.Candidates = extract.Candidates(body, src)
	if len(a.Candidates) == 0 {
		a.Status = StatusNotFound
		a.Err = fmt.Errorf("%w: %s", ErrExtractionMiss, src.Name)
		a.Elapsed = r.now().Sub(start)

		r.logger.Debug(
			"no candidates extracted",
			"category", c.ID,
			"source", src.Name,
		)

		return a, nil
	}

	for _, text := range a.Candidates {
		raw := price.RawValue{
			Text:     text,
			Source:   src.Name,
			Category: c.ID,
		}

		value, ok := r.evaluate(raw, src, c)
		if !ok {
			continue
		}

		a.Status = StatusFound
		a.Value = value
		a.Elapsed = r.now().Sub(start)

		resolved := &price.ResolvedPrice{
			ResolvedAt: r.now().UTC(),
			Value:      value,
			Category:   c.ID,
			Source:     src.Name,
			Display:    price.Format(value, c.Precision),
			Unit:       c.Unit,
		}

		if change, ok := extract.Change(body, src); ok {
			resolved.Change = &change
		}

		return a, resolved
	}

	a.Status = StatusImplausible
	a.Err = fmt.Errorf("%w: %s", ErrImplausibleValue, src.Name)
	a.Elapsed = r.now().Sub(start)

	r.logger.Debug(
		"no plausible candidate",
		"category", c.ID,
		"source", src.Name,
		"candidates", len(a.Candidates),
	)

	return a, nil
}

// evaluate parses and normalizes a single candidate, then checks it
// against the category range in the canonical unit
func (r *Resolver) evaluate(
	raw price.RawValue,
	src registry.Source,
	c registry.Category,
) (decimal.Decimal, bool) {
	parsed, err := price.Parse(raw.Text)
	if err != nil {
		r.logger.Debug(
			"discarding non-numeric candidate",
			"category", raw.Category,
			"source", raw.Source,
			"candidate", raw.Text,
		)

		return decimal.Zero, false
	}

	value, err := price.Normalize(parsed, src.Unit, c)
	if err != nil {
		r.logger.Error(
			"unable to normalize candidate",
			"category", raw.Category,
			"source", raw.Source,
			"err", err,
		)

		return decimal.Zero, false
	}

	if !price.InRange(value, c) {
		r.logger.Debug(
			"discarding implausible candidate",
			"category", raw.Category,
			"source", raw.Source,
			"candidate", raw.Text,
			"normalized", value.String(),
			"min", c.Min.String(),
			"max", c.Max.String(),
		)

		return decimal.Zero, false
	}

	return value, true
}
