package crawling

import (
	"context"
	"sort"
	"sync/atomic"

	"github.com/jonathan/careers-sync/internal/types"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DefaultWorkers is the fetch pool width when none is configured.
const DefaultWorkers = 8

// DetailFetcher fetches the raw record behind one posting URL.
type DetailFetcher interface {
	FetchDetail(ctx context.Context, url string) (*types.RawRecord, error)
}

// Sink receives each enriched posting. It must be safe for concurrent use.
type Sink func(ctx context.Context, posting *types.JobPosting) error

// OutcomeKind classifies what happened to one URL in the pool.
type OutcomeKind int

// Outcome kinds
const (
	OutcomeStored OutcomeKind = iota
	OutcomeFetchFailed
	OutcomeStoreFailed
	OutcomeSkipped
)

// Outcome is the result of processing one URL.
type Outcome struct {
	URL     string
	Kind    OutcomeKind
	Posting *types.JobPosting
	Err     error
}

// PoolReport aggregates the outcomes of one pool run.
type PoolReport struct {
	Succeeded   int
	Failed      int
	StoreFailed int
	Skipped     int

	// Stored lists the URLs that reached the sink successfully, sorted.
	Stored        []string
	Failures      []*FetchError
	StoreFailures []*StoreError
}

// PoolOptions configures a Pool.
type PoolOptions struct {
	Workers int
	Logger  *zap.Logger
}

// Pool fetches and enriches postings with a fixed number of workers.
type Pool struct {
	fetcher  DetailFetcher
	enricher *Enricher
	workers  int
	logger   *zap.Logger
}

// NewPool creates a Pool. Workers defaults to DefaultWorkers.
func NewPool(fetcher DetailFetcher, enricher *Enricher, opts PoolOptions) *Pool {
	workers := opts.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pool{
		fetcher:  fetcher,
		enricher: enricher,
		workers:  workers,
		logger:   logger.Named("pool"),
	}
}

// Run processes urls and hands every enriched posting to sink. A failing URL
// never stops the others. Once ctx is done, remaining URLs are skipped.
func (p *Pool) Run(ctx context.Context, source string, urls []string, sink Sink) *PoolReport {
	var succeeded, failed, storeFailed, skipped atomic.Int64

	outcomes := make(chan Outcome, p.workers)
	report := &PoolReport{}
	collected := make(chan struct{})
	go func() {
		defer close(collected)
		for o := range outcomes {
			switch o.Kind {
			case OutcomeStored:
				report.Stored = append(report.Stored, o.URL)
			case OutcomeFetchFailed:
				if fe, ok := o.Err.(*FetchError); ok {
					report.Failures = append(report.Failures, fe)
				}
			case OutcomeStoreFailed:
				if se, ok := o.Err.(*StoreError); ok {
					report.StoreFailures = append(report.StoreFailures, se)
				}
			}
		}
	}()

	// A plain group: workers never return errors, so one failure cannot cancel the rest.
	var g errgroup.Group
	g.SetLimit(p.workers)

	for _, url := range urls {
		if ctx.Err() != nil {
			skipped.Add(1)
			continue
		}
		g.Go(func() error {
			o := p.process(ctx, source, url, sink)
			switch o.Kind {
			case OutcomeStored:
				succeeded.Add(1)
			case OutcomeFetchFailed:
				failed.Add(1)
				p.logger.Warn("failed to fetch posting",
					zap.String("source", source), zap.String("url", url), zap.Error(o.Err))
			case OutcomeStoreFailed:
				storeFailed.Add(1)
				p.logger.Error("failed to store posting",
					zap.String("source", source), zap.String("url", url), zap.Error(o.Err))
			case OutcomeSkipped:
				skipped.Add(1)
			}
			outcomes <- o
			return nil
		})
	}

	_ = g.Wait()
	close(outcomes)
	<-collected

	report.Succeeded = int(succeeded.Load())
	report.Failed = int(failed.Load())
	report.StoreFailed = int(storeFailed.Load())
	report.Skipped = int(skipped.Load())
	sort.Strings(report.Stored)
	sort.Slice(report.Failures, func(i, j int) bool { return report.Failures[i].URL < report.Failures[j].URL })
	sort.Slice(report.StoreFailures, func(i, j int) bool { return report.StoreFailures[i].Message < report.StoreFailures[j].Message })

	return report
}

func (p *Pool) process(ctx context.Context, source, url string, sink Sink) Outcome {
	if ctx.Err() != nil {
		return Outcome{URL: url, Kind: OutcomeSkipped, Err: ctx.Err()}
	}

	raw, err := p.fetcher.FetchDetail(ctx, url)
	if err != nil {
		return Outcome{URL: url, Kind: OutcomeFetchFailed, Err: &FetchError{URL: url, Message: "failed to fetch detail", Cause: err}}
	}
	if raw == nil {
		return Outcome{URL: url, Kind: OutcomeFetchFailed, Err: &FetchError{URL: url, Message: "empty record"}}
	}
	// the discovered URL is the store key
	raw.URL = url

	posting, err := p.enricher.Enrich(raw)
	if err != nil {
		return Outcome{URL: url, Kind: OutcomeFetchFailed, Err: &FetchError{URL: url, Message: "failed to enrich record", Cause: err}}
	}

	if err := sink(ctx, posting); err != nil {
		return Outcome{URL: url, Kind: OutcomeStoreFailed, Posting: posting, Err: &StoreError{Op: "upsert", Source: source, Message: url, Cause: err}}
	}
	return Outcome{URL: url, Kind: OutcomeStored, Posting: posting}
}
