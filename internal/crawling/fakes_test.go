package crawling

import (
	"context"
	"errors"
	"sync"

	"github.com/jonathan/careers-sync/internal/classify"
	"github.com/jonathan/careers-sync/internal/events"
	"github.com/jonathan/careers-sync/internal/normalize"
	"github.com/jonathan/careers-sync/internal/types"
)

var errBoom = errors.New("boom")

type fakeAdapter struct {
	name        string
	urls        []string
	discoverErr error
	failing     map[string]bool

	mu      sync.Mutex
	fetched []string
}

func (a *fakeAdapter) Name() string { return a.name }

func (a *fakeAdapter) DiscoverURLs(context.Context) (types.URLSet, error) {
	if a.discoverErr != nil {
		return nil, a.discoverErr
	}
	return types.NewURLSet(a.urls...), nil
}

func (a *fakeAdapter) FetchDetail(_ context.Context, url string) (*types.RawRecord, error) {
	a.mu.Lock()
	a.fetched = append(a.fetched, url)
	a.mu.Unlock()

	if a.failing[url] {
		return nil, errBoom
	}
	raw := types.NewRawRecord(url)
	raw.Set(types.FieldTitle, "Data Engineer")
	raw.Set(types.FieldExternalID, "ref-"+url)
	raw.Set(types.FieldLocation, "Paris - France")
	return raw, nil
}

func (a *fakeAdapter) fetchedCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.fetched)
}

type recordingPublisher struct {
	mu        sync.Mutex
	published []*events.Changes
}

func (p *recordingPublisher) Publish(_ context.Context, c *events.Changes) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.published = append(p.published, c)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

type recordingRecorder struct {
	mu       sync.Mutex
	started  int
	finished []*types.RunSummary
}

func (r *recordingRecorder) StartRun(context.Context, *types.RunSummary) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.started++
	return nil
}

func (r *recordingRecorder) FinishRun(_ context.Context, s *types.RunSummary) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.finished = append(r.finished, s)
	return nil
}

func testEnricher() *Enricher {
	return NewEnricher(normalize.Default(), classify.Default(), "Banque Test")
}
