// Package runner drives one tracking run: fan out over the source
// adapters with bounded concurrency, gather their candidates, and fold
// everything into the store in a single locked merge.
package runner

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/rxwatch/catalyst/internal/merge"
	"github.com/rxwatch/catalyst/internal/model"
	"github.com/rxwatch/catalyst/internal/sources"
	"github.com/rxwatch/catalyst/internal/store"
	"github.com/rxwatch/catalyst/internal/worker"
)

// SourceCount is one adapter's contribution to a run.
type SourceCount struct {
	Source string
	Events int
	Err    error
}

// Summary describes a completed run.
type Summary struct {
	Sources  []SourceCount
	Added    int
	Total    int
	Duration time.Duration
}

// Runner executes tracking runs against a fixed source list and store.
type Runner struct {
	sources []sources.Source
	store   *store.Store
	cutoff  string
	workers int
	logger  *zap.Logger
}

// New creates a runner.
func New(srcs []sources.Source, st *store.Store, cutoff string, workers int, logger *zap.Logger) *Runner {
	return &Runner{
		sources: srcs,
		store:   st,
		cutoff:  cutoff,
		workers: workers,
		logger:  logger,
	}
}

// fetchJob runs one source on the pool.
type fetchJob struct {
	source sources.Source
}

// fetchResult carries one source's candidates, or its failure.
type fetchResult struct {
	name   string
	events []model.Event
	err    error
}

func (r *fetchResult) GetError() error { return r.err }

func (j *fetchJob) Execute(ctx context.Context) worker.Result {
	events, err := j.source.Fetch(ctx)
	return &fetchResult{name: j.source.Name(), events: events, err: err}
}

// Run executes every source and merges the combined batch into the store.
// A failing source contributes zero candidates; only a store failure
// aborts the run.
func (r *Runner) Run(ctx context.Context) (*Summary, error) {
	start := time.Now()

	pool := worker.NewPool(r.workers)
	pool.Start()
	for _, src := range r.sources {
		pool.Submit(&fetchJob{source: src})
	}
	results := pool.Wait()

	summary := &Summary{}
	var candidates []model.Event
	for _, res := range results {
		fr := res.(*fetchResult)
		if fr.err != nil {
			r.logger.Warn("source failed, contributing no events",
				zap.String("source", fr.name), zap.Error(fr.err))
			summary.Sources = append(summary.Sources, SourceCount{Source: fr.name, Err: fr.err})
			continue
		}
		r.logger.Info("source complete",
			zap.String("source", fr.name), zap.Int("events", len(fr.events)))
		summary.Sources = append(summary.Sources, SourceCount{Source: fr.name, Events: len(fr.events)})
		candidates = append(candidates, fr.events...)
	}

	err := r.store.Update(func(existing []model.Event) ([]model.Event, error) {
		updated, added := merge.Merge(existing, candidates, r.cutoff)
		summary.Added = added
		summary.Total = len(updated)
		return updated, nil
	})
	if err != nil {
		return nil, err
	}

	summary.Duration = time.Since(start)
	r.logger.Info("run complete",
		zap.Int("added", summary.Added),
		zap.Int("total", summary.Total),
		zap.Duration("duration", summary.Duration))
	return summary, nil
}
