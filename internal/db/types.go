package db

import (
	"time"

	"github.com/google/uuid"
)

// Run represents a crawl_runs record
type Run struct {
	ID          uuid.UUID  `json:"id"`
	Source      string     `json:"source"`
	Status      string     `json:"status"`
	DryRun      bool       `json:"dry_run"`
	Discovered  int        `json:"discovered"`
	New         int        `json:"new"`
	Expired     int        `json:"expired"`
	Unchanged   int        `json:"unchanged"`
	Stored      int        `json:"stored"`
	Failed      int        `json:"failed"`
	StoreFailed int        `json:"store_failed"`
	Skipped     int        `json:"skipped"`
	Error       *string    `json:"error,omitempty"`
	StartedAt   time.Time  `json:"started_at"`
	FinishedAt  *time.Time `json:"finished_at,omitempty"`
}

// Run status values
const (
	RunStatusRunning   = "running"
	RunStatusCompleted = "completed"
	RunStatusPartial   = "partial"
	RunStatusFailed    = "failed"
)

// RunFilters holds optional filters for listing runs
type RunFilters struct {
	Source string
	Status string
	Limit  int
}

// DefaultRunLimit is used when RunFilters.Limit is zero
const DefaultRunLimit = 50
