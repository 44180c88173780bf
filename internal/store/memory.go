package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/jonathan/careers-sync/internal/types"
)

// Memory is a mutex-guarded Store. It backs dry runs and tests.
type Memory struct {
	mu      sync.RWMutex
	sources map[string]map[string]*types.JobPosting
	now     func() time.Time
}

// NewMemory returns an empty Memory store using the wall clock.
func NewMemory() *Memory {
	return &Memory{
		sources: make(map[string]map[string]*types.JobPosting),
		now:     time.Now,
	}
}

// WithClock replaces the store's clock and returns the store.
func (m *Memory) WithClock(now func() time.Time) *Memory {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = now
	return m
}

// EnsureSource implements Store.
func (m *Memory) EnsureSource(_ context.Context, source string) error {
	if err := ValidateSourceName(source); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sources[source]; !ok {
		m.sources[source] = make(map[string]*types.JobPosting)
	}
	return nil
}

// table must be called with m.mu held.
func (m *Memory) table(source string) (map[string]*types.JobPosting, error) {
	t, ok := m.sources[source]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSource, source)
	}
	return t, nil
}

// LiveURLs implements Store.
func (m *Memory) LiveURLs(_ context.Context, source string) (types.URLSet, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	t, err := m.table(source)
	if err != nil {
		return nil, err
	}
	urls := types.NewURLSet()
	for url, p := range t {
		if p.Status == types.StatusLive && p.IsValid {
			urls.Add(url)
		}
	}
	return urls, nil
}

// MarkExpired implements Store. The whole batch is applied under one lock.
func (m *Memory) MarkExpired(_ context.Context, source string, urls []string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, err := m.table(source)
	if err != nil {
		return 0, err
	}
	now := m.now()
	var n int64
	for _, url := range urls {
		p, ok := t[url]
		if !ok {
			continue
		}
		p.Status = types.StatusExpired
		p.LastUpdated = later(p.FirstSeen, now)
		n++
	}
	return n, nil
}

// Upsert implements Store.
func (m *Memory) Upsert(_ context.Context, source string, posting *types.JobPosting) error {
	if posting == nil || posting.URL == "" {
		return fmt.Errorf("posting URL is required")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	t, err := m.table(source)
	if err != nil {
		return err
	}

	now := m.now()
	next := posting.Clone()
	next.Status = types.StatusLive
	next.IsValid = next.ComputeValidity()

	if prev, ok := t[posting.URL]; ok {
		next.FirstSeen = prev.FirstSeen
		next.LastUpdated = later(prev.FirstSeen, now)
		next.ScrapeAttempts = prev.ScrapeAttempts + 1
	} else {
		next.FirstSeen = now
		next.LastUpdated = now
		next.ScrapeAttempts = 0
	}

	t[posting.URL] = &next
	return nil
}

// Load replaces the records of source with copies of records, keeping their
// lifecycle fields as given. It is used to seed dry runs from another store.
func (m *Memory) Load(source string, records []types.JobPosting) error {
	if err := ValidateSourceName(source); err != nil {
		return err
	}
	t := make(map[string]*types.JobPosting, len(records))
	for i := range records {
		if records[i].URL == "" {
			continue
		}
		c := records[i].Clone()
		t[c.URL] = &c
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.sources[source] = t
	return nil
}

// ValidRecords implements Store.
func (m *Memory) ValidRecords(_ context.Context, source string) ([]types.JobPosting, error) {
	return m.records(source, true)
}

// AllRecords implements Store.
func (m *Memory) AllRecords(_ context.Context, source string) ([]types.JobPosting, error) {
	return m.records(source, false)
}

func (m *Memory) records(source string, validOnly bool) ([]types.JobPosting, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	t, err := m.table(source)
	if err != nil {
		return nil, err
	}
	out := make([]types.JobPosting, 0, len(t))
	for _, p := range t {
		if validOnly && !p.IsValid {
			continue
		}
		out = append(out, p.Clone())
	}
	SortByRecency(out)
	return out, nil
}

// Stats implements Store.
func (m *Memory) Stats(_ context.Context, source string) (*types.StoreStats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	t, err := m.table(source)
	if err != nil {
		return nil, err
	}
	stats := &types.StoreStats{Total: int64(len(t))}
	for _, p := range t {
		switch p.Status {
		case types.StatusLive:
			stats.Live++
		case types.StatusExpired:
			stats.Expired++
		}
		if !p.IsValid {
			stats.Invalid++
		}
	}
	return stats, nil
}

// UpdateNormalized implements Store.
func (m *Memory) UpdateNormalized(_ context.Context, source, url string, fields types.NormalizedFields) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, err := m.table(source)
	if err != nil {
		return false, err
	}
	p, ok := t[url]
	if !ok {
		return false, nil
	}
	p.Location = fields.Location
	p.EducationLevel = fields.EducationLevel
	p.ExperienceLevel = fields.ExperienceLevel
	p.JobFamily = fields.JobFamily
	p.IsValid = p.ComputeValidity()
	return true, nil
}

// SortByRecency orders postings by LastUpdated descending, then URL ascending.
func SortByRecency(postings []types.JobPosting) {
	sort.SliceStable(postings, func(i, j int) bool {
		a, b := postings[i], postings[j]
		if !a.LastUpdated.Equal(b.LastUpdated) {
			return a.LastUpdated.After(b.LastUpdated)
		}
		return a.URL < b.URL
	})
}

func later(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}
