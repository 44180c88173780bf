package types

import (
	"time"

	"github.com/google/uuid"
)

// StoreStats are the per-source record counts reported at the end of a run.
type StoreStats struct {
	Total   int64 `json:"total"`
	Live    int64 `json:"live"`
	Expired int64 `json:"expired"`
	Invalid int64 `json:"invalid"`
}

// RunSummary reports what one crawl run did to one source.
type RunSummary struct {
	RunID      uuid.UUID `json:"run_id"`
	Source     string    `json:"source"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	DryRun     bool      `json:"dry_run,omitempty"`

	Discovered  int `json:"discovered"`
	Unchanged   int `json:"unchanged"`
	New         int `json:"new"`
	Expired     int `json:"expired"`
	Failed      int `json:"failed"`
	StoreFailed int `json:"store_failed"`
	Skipped     int `json:"skipped"`
	Stored      int `json:"stored"`

	Stats *StoreStats `json:"stats,omitempty"`
	Err   error       `json:"-"`
}

// Aborted reports whether the run stopped before completing.
func (s *RunSummary) Aborted() bool {
	return s.Err != nil
}

// Status returns the persisted run status string.
func (s *RunSummary) Status() string {
	switch {
	case s.Err != nil:
		return "failed"
	case s.Failed > 0 || s.StoreFailed > 0:
		return "partial"
	default:
		return "completed"
	}
}

// Duration returns the wall-clock run time.
func (s *RunSummary) Duration() time.Duration {
	if s.FinishedAt.IsZero() {
		return 0
	}
	return s.FinishedAt.Sub(s.StartedAt)
}
