package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jonathan/careers-sync/internal/types"
)

const runColumns = `id, source, status, dry_run, discovered, new_count, expired_count, unchanged,
	stored, failed, store_failed, skipped, error, started_at, finished_at`

// StartRun records a run in the running state
func (db *DB) StartRun(ctx context.Context, s *types.RunSummary) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO crawl_runs (id, source, status, dry_run, started_at)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (id) DO NOTHING`,
		s.RunID, s.Source, RunStatusRunning, s.DryRun, s.StartedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create run: %w", err)
	}
	return nil
}

// FinishRun stores the final counters and status of a run. Runs that were
// never started are inserted.
func (db *DB) FinishRun(ctx context.Context, s *types.RunSummary) error {
	var errText *string
	if s.Err != nil {
		msg := s.Err.Error()
		errText = &msg
	}

	_, err := db.pool.Exec(ctx,
		`INSERT INTO crawl_runs (`+runColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		 ON CONFLICT (id) DO UPDATE SET
			status = EXCLUDED.status,
			discovered = EXCLUDED.discovered,
			new_count = EXCLUDED.new_count,
			expired_count = EXCLUDED.expired_count,
			unchanged = EXCLUDED.unchanged,
			stored = EXCLUDED.stored,
			failed = EXCLUDED.failed,
			store_failed = EXCLUDED.store_failed,
			skipped = EXCLUDED.skipped,
			error = EXCLUDED.error,
			finished_at = EXCLUDED.finished_at`,
		s.RunID, s.Source, s.Status(), s.DryRun, s.Discovered, s.New, s.Expired, s.Unchanged,
		s.Stored, s.Failed, s.StoreFailed, s.Skipped, errText, s.StartedAt, s.FinishedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to complete run: %w", err)
	}
	return nil
}

// GetRun retrieves a run by ID, or nil when absent
func (db *DB) GetRun(ctx context.Context, id uuid.UUID) (*Run, error) {
	run, err := scanRun(db.pool.QueryRow(ctx,
		`SELECT `+runColumns+` FROM crawl_runs WHERE id = $1`, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return &run, nil
}

// ListRuns retrieves recent runs with optional filters
func (db *DB) ListRuns(ctx context.Context, filters RunFilters) ([]Run, error) {
	if filters.Limit <= 0 {
		filters.Limit = DefaultRunLimit
	}

	query := `SELECT ` + runColumns + ` FROM crawl_runs WHERE 1=1`
	args := []any{}
	argNum := 1

	if filters.Source != "" {
		query += fmt.Sprintf(" AND source = $%d", argNum)
		args = append(args, filters.Source)
		argNum++
	}
	if filters.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", argNum)
		args = append(args, filters.Status)
		argNum++
	}

	query += fmt.Sprintf(" ORDER BY started_at DESC LIMIT $%d", argNum)
	args = append(args, filters.Limit)

	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

func scanRun(row pgx.Row) (Run, error) {
	var r Run
	err := row.Scan(&r.ID, &r.Source, &r.Status, &r.DryRun, &r.Discovered, &r.New, &r.Expired,
		&r.Unchanged, &r.Stored, &r.Failed, &r.StoreFailed, &r.Skipped, &r.Error, &r.StartedAt, &r.FinishedAt)
	return r, err
}
