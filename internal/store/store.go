// Package store defines the per-source posting store contract and an
// in-memory implementation of it.
package store

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/jonathan/careers-sync/internal/types"
)

// Store persists job postings, one logical table per source. Implementations
// must be safe for concurrent use: the fetch pool upserts different URLs of the
// same source in parallel.
type Store interface {
	// EnsureSource creates the source's table if it does not exist yet.
	EnsureSource(ctx context.Context, source string) error
	// LiveURLs returns the URLs of valid postings whose status is Live.
	LiveURLs(ctx context.Context, source string) (types.URLSet, error)
	// MarkExpired sets status Expired on every known URL in urls as one batch
	// and returns how many rows changed. Unknown URLs are ignored.
	MarkExpired(ctx context.Context, source string, urls []string) (int64, error)
	// Upsert inserts the posting or overwrites the stored one with the same URL.
	Upsert(ctx context.Context, source string, posting *types.JobPosting) error
	// ValidRecords returns valid postings of any status, most recently updated first.
	ValidRecords(ctx context.Context, source string) ([]types.JobPosting, error)
	// AllRecords returns every posting including invalid ones, in ValidRecords order.
	AllRecords(ctx context.Context, source string) ([]types.JobPosting, error)
	// Stats returns the source's record counts.
	Stats(ctx context.Context, source string) (*types.StoreStats, error)
	// UpdateNormalized rewrites the derived fields of one posting in place
	// without touching its lifecycle columns. It reports whether a row matched.
	UpdateNormalized(ctx context.Context, source, url string, fields types.NormalizedFields) (bool, error)
}

// ErrUnknownSource is returned for operations on a source that was never ensured.
var ErrUnknownSource = errors.New("unknown source")

var sourceNamePattern = regexp.MustCompile(`^[a-z0-9_]+$`)

// ValidateSourceName checks that name can be used as a table suffix.
func ValidateSourceName(name string) error {
	if !sourceNamePattern.MatchString(name) {
		return fmt.Errorf("invalid source name %q: must match %s", name, sourceNamePattern.String())
	}
	return nil
}
