package crawling

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/careers-sync/internal/events"
	"github.com/jonathan/careers-sync/internal/lock"
	"github.com/jonathan/careers-sync/internal/sources"
	"github.com/jonathan/careers-sync/internal/store"
	"github.com/jonathan/careers-sync/internal/types"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var tracer = otel.Tracer("github.com/jonathan/careers-sync/internal/crawling")

// RunRecorder persists run history.
type RunRecorder interface {
	StartRun(ctx context.Context, summary *types.RunSummary) error
	FinishRun(ctx context.Context, summary *types.RunSummary) error
}

type noopRecorder struct{}

func (noopRecorder) StartRun(context.Context, *types.RunSummary) error  { return nil }
func (noopRecorder) FinishRun(context.Context, *types.RunSummary) error { return nil }

// Options controls how sources are reconciled.
type Options struct {
	Workers int
	// TreatDiscoveryFailureAsEmpty continues with zero URLs when discovery fails.
	TreatDiscoveryFailureAsEmpty bool
	// MinDiscoveryRatio aborts a source when discovery returns fewer than
	// ratio × live URLs. Zero disables the guard.
	MinDiscoveryRatio float64
	// Force disables the discovery guard.
	Force              bool
	DryRun             bool
	ParallelSources    bool
	MaxParallelSources int
}

// Deps are the collaborators of a Runner. Nil fields get no-op defaults,
// except Store which is required.
type Deps struct {
	Store     store.Store
	Recorder  RunRecorder
	Publisher events.Publisher
	Locker    lock.Locker
	Logger    *zap.Logger
}

// Job pairs a source adapter with the enricher for its postings.
type Job struct {
	Adapter  sources.Adapter
	Enricher *Enricher
}

// Runner reconciles sources with the store.
type Runner struct {
	store     store.Store
	recorder  RunRecorder
	publisher events.Publisher
	locker    lock.Locker
	logger    *zap.Logger
	opts      Options
	now       func() time.Time
}

// NewRunner creates a Runner.
func NewRunner(deps Deps, opts Options) *Runner {
	r := &Runner{
		store:     deps.Store,
		recorder:  deps.Recorder,
		publisher: deps.Publisher,
		locker:    deps.Locker,
		logger:    deps.Logger,
		opts:      opts,
		now:       time.Now,
	}
	if r.recorder == nil {
		r.recorder = noopRecorder{}
	}
	if r.publisher == nil {
		r.publisher = events.Noop{}
	}
	if r.locker == nil {
		r.locker = lock.Noop{}
	}
	if r.logger == nil {
		r.logger = zap.NewNop()
	}
	r.logger = r.logger.Named("runner")
	return r
}

// RunAll runs every job and returns one summary per job, in job order. One
// source's failure never stops another.
func (r *Runner) RunAll(ctx context.Context, jobs []Job) []*types.RunSummary {
	summaries := make([]*types.RunSummary, len(jobs))

	if !r.opts.ParallelSources || len(jobs) < 2 {
		for i, job := range jobs {
			summaries[i] = r.Run(ctx, job)
		}
		return summaries
	}

	var g errgroup.Group
	if r.opts.MaxParallelSources > 0 {
		g.SetLimit(r.opts.MaxParallelSources)
	}
	for i, job := range jobs {
		g.Go(func() error {
			summaries[i] = r.Run(ctx, job)
			return nil
		})
	}
	_ = g.Wait()
	return summaries
}

// Run reconciles one source. Aborts are reported in the summary's Err.
func (r *Runner) Run(ctx context.Context, job Job) *types.RunSummary {
	source := job.Adapter.Name()
	summary := &types.RunSummary{
		RunID:     uuid.New(),
		Source:    source,
		StartedAt: r.now(),
		DryRun:    r.opts.DryRun,
	}
	logger := r.logger.With(zap.String("source", source), zap.String("run_id", summary.RunID.String()))

	ctx, span := tracer.Start(ctx, "crawl.source", trace.WithAttributes(
		attribute.String("source", source),
		attribute.String("run_id", summary.RunID.String()),
	))
	defer span.End()

	release, err := r.locker.Acquire(ctx, source)
	if err != nil {
		if errors.Is(err, lock.ErrHeld) {
			err = &LockHeldError{Source: source}
		}
		return r.finish(ctx, span, logger, summary, err, nil)
	}
	defer func() {
		if err := release(context.WithoutCancel(ctx)); err != nil {
			logger.Warn("failed to release source lock", zap.Error(err))
		}
	}()

	if err := r.store.EnsureSource(ctx, source); err != nil {
		return r.finish(ctx, span, logger, summary, &StoreError{Op: "ensure", Source: source, Message: "failed to ensure source table", Cause: err}, nil)
	}
	if err := r.recorder.StartRun(ctx, summary); err != nil {
		logger.Warn("failed to record run start", zap.Error(err))
	}

	changes, err := r.reconcile(ctx, job, summary, logger)
	return r.finish(ctx, span, logger, summary, err, changes)
}

func (r *Runner) reconcile(ctx context.Context, job Job, summary *types.RunSummary, logger *zap.Logger) (*events.Changes, error) {
	source := summary.Source

	current, err := r.discover(ctx, job.Adapter, logger)
	if err != nil {
		return nil, err
	}
	summary.Discovered = current.Len()

	known, err := r.store.LiveURLs(ctx, source)
	if err != nil {
		return nil, &StoreError{Op: "live_urls", Source: source, Message: "failed to load live URLs", Cause: err}
	}

	if err := r.guard(source, current.Len(), known.Len()); err != nil {
		return nil, err
	}

	_, diffSpan := tracer.Start(ctx, "crawl.diff")
	diff := Diff(current, known)
	diffSpan.SetAttributes(
		attribute.Int("new", len(diff.New)),
		attribute.Int("expired", len(diff.Expired)),
		attribute.Int("unchanged", len(diff.Unchanged)),
	)
	diffSpan.End()

	summary.New = len(diff.New)
	summary.Unchanged = len(diff.Unchanged)
	logger.Info("diffed source",
		zap.Int("discovered", summary.Discovered),
		zap.Int("known", known.Len()),
		zap.Int("new", summary.New),
		zap.Int("expired", len(diff.Expired)),
		zap.Int("unchanged", summary.Unchanged))

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if len(diff.Expired) > 0 {
		expireCtx, expireSpan := tracer.Start(ctx, "crawl.expire")
		n, err := r.store.MarkExpired(expireCtx, source, diff.Expired)
		expireSpan.End()
		if err != nil {
			return nil, &StoreError{Op: "mark_expired", Source: source, Message: "failed to mark postings expired", Cause: err}
		}
		summary.Expired = int(n)
	}

	if err := ctx.Err(); err != nil {
		return &events.Changes{Expired: diff.Expired}, err
	}

	fetchCtx, fetchSpan := tracer.Start(ctx, "crawl.fetch", trace.WithAttributes(attribute.Int("urls", len(diff.New))))
	pool := NewPool(job.Adapter, job.Enricher, PoolOptions{Workers: r.opts.Workers, Logger: logger})
	report := pool.Run(fetchCtx, source, diff.New, func(ctx context.Context, p *types.JobPosting) error {
		return r.store.Upsert(ctx, source, p)
	})
	fetchSpan.SetAttributes(
		attribute.Int("stored", report.Succeeded),
		attribute.Int("failed", report.Failed),
		attribute.Int("store_failed", report.StoreFailed),
		attribute.Int("skipped", report.Skipped),
	)
	fetchSpan.End()

	summary.Stored = report.Succeeded
	summary.Failed = report.Failed
	summary.StoreFailed = report.StoreFailed
	summary.Skipped = report.Skipped

	return &events.Changes{New: report.Stored, Expired: diff.Expired}, ctx.Err()
}

func (r *Runner) discover(ctx context.Context, adapter sources.Adapter, logger *zap.Logger) (types.URLSet, error) {
	ctx, span := tracer.Start(ctx, "crawl.discover")
	defer span.End()

	urls, err := adapter.DiscoverURLs(ctx)
	if err != nil {
		derr := &DiscoveryError{Source: adapter.Name(), Message: "failed to discover URLs", Cause: err}
		span.RecordError(derr)
		if !r.opts.TreatDiscoveryFailureAsEmpty {
			return nil, derr
		}
		logger.Warn("discovery failed, continuing with no URLs", zap.Error(derr))
		return types.NewURLSet(), nil
	}
	if urls == nil {
		urls = types.NewURLSet()
	}
	span.SetAttributes(attribute.Int("discovered", urls.Len()))
	return urls, nil
}

func (r *Runner) guard(source string, discovered, known int) error {
	if r.opts.Force || r.opts.MinDiscoveryRatio <= 0 || known == 0 {
		return nil
	}
	if float64(discovered) < r.opts.MinDiscoveryRatio*float64(known) {
		return &DiscoveryGuardError{Source: source, Discovered: discovered, Known: known, MinRatio: r.opts.MinDiscoveryRatio}
	}
	return nil
}

func (r *Runner) finish(ctx context.Context, span trace.Span, logger *zap.Logger, summary *types.RunSummary, err error, changes *events.Changes) *types.RunSummary {
	// bookkeeping must happen even when the run itself was cancelled
	bg := context.WithoutCancel(ctx)

	summary.Err = err
	summary.FinishedAt = r.now()

	var held *LockHeldError
	if !errors.As(err, &held) {
		if stats, serr := r.store.Stats(bg, summary.Source); serr == nil {
			summary.Stats = stats
		} else {
			logger.Warn("failed to load store stats", zap.Error(serr))
		}
		if rerr := r.recorder.FinishRun(bg, summary); rerr != nil {
			logger.Warn("failed to record run", zap.Error(rerr))
		}
	}

	if changes != nil {
		changes.Source = summary.Source
		changes.RunID = summary.RunID
		changes.At = summary.FinishedAt
		if !changes.Empty() {
			if perr := r.publisher.Publish(bg, changes); perr != nil {
				logger.Warn("failed to publish changes", zap.Error(perr))
			}
		}
	}

	span.SetAttributes(attribute.String("status", summary.Status()))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		logger.Error("run aborted", zap.Error(err), zap.Duration("elapsed", summary.Duration()))
		return summary
	}

	logger.Info("run completed",
		zap.String("status", summary.Status()),
		zap.Int("new", summary.New),
		zap.Int("stored", summary.Stored),
		zap.Int("expired", summary.Expired),
		zap.Int("failed", summary.Failed),
		zap.Int("store_failed", summary.StoreFailed),
		zap.Int("skipped", summary.Skipped),
		zap.Duration("elapsed", summary.Duration()))
	return summary
}

// Aborted returns the summaries whose run did not complete.
func Aborted(summaries []*types.RunSummary) []*types.RunSummary {
	var out []*types.RunSummary
	for _, s := range summaries {
		if s.Aborted() {
			out = append(out, s)
		}
	}
	return out
}

// AbortError joins the abort reasons of summaries, or returns nil.
func AbortError(summaries []*types.RunSummary) error {
	aborted := Aborted(summaries)
	if len(aborted) == 0 {
		return nil
	}
	errs := make([]error, 0, len(aborted))
	for _, s := range aborted {
		errs = append(errs, fmt.Errorf("%s: %w", s.Source, s.Err))
	}
	return errors.Join(errs...)
}
