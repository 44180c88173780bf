package db

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jonathan/careers-sync/internal/store"
	"github.com/jonathan/careers-sync/internal/types"
)

var _ store.Store = (*DB)(nil)

// postgres error code for a missing relation
const undefinedTable = "42P01"

// TableName returns the unquoted table name for a source.
func TableName(source string) string {
	return "jobs_" + source
}

func table(source string) (string, error) {
	if err := store.ValidateSourceName(source); err != nil {
		return "", err
	}
	return pgx.Identifier{TableName(source)}.Sanitize(), nil
}

// wrap maps a missing table to store.ErrUnknownSource.
func wrap(err error, source, action string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == undefinedTable {
		return fmt.Errorf("%w: %s", store.ErrUnknownSource, source)
	}
	return fmt.Errorf("failed to %s for %s: %w", action, source, err)
}

// postingColumns is the column order used by every SELECT.
const postingColumns = `url, external_id, title, contract_type, publication_date, location,
	job_family, duration, management_flag, education_level, experience_level,
	training_specialization, technical_skills, behavioral_skills, tools, languages,
	description, employer_name, employer_description,
	status, is_valid, first_seen, last_updated, scrape_attempts`

// CreateTableSQL returns the DDL for a source's table.
func CreateTableSQL(source string) (string, error) {
	t, err := table(source)
	if err != nil {
		return "", err
	}
	statusIdx := pgx.Identifier{TableName(source) + "_status_idx"}.Sanitize()
	updatedIdx := pgx.Identifier{TableName(source) + "_last_updated_idx"}.Sanitize()

	return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %[1]s (
	url                     TEXT PRIMARY KEY,
	external_id             TEXT NOT NULL DEFAULT '',
	title                   TEXT NOT NULL DEFAULT '',
	contract_type           TEXT NOT NULL DEFAULT '',
	publication_date        TEXT NOT NULL DEFAULT '',
	location                TEXT NOT NULL DEFAULT '',
	job_family              TEXT NOT NULL DEFAULT '',
	duration                TEXT NOT NULL DEFAULT '',
	management_flag         TEXT NOT NULL DEFAULT '',
	education_level         TEXT NOT NULL DEFAULT '',
	experience_level        TEXT NOT NULL DEFAULT '',
	training_specialization TEXT NOT NULL DEFAULT '',
	technical_skills        TEXT[] NOT NULL DEFAULT '{}',
	behavioral_skills       TEXT[] NOT NULL DEFAULT '{}',
	tools                   TEXT[] NOT NULL DEFAULT '{}',
	languages               TEXT[] NOT NULL DEFAULT '{}',
	description             TEXT NOT NULL DEFAULT '',
	employer_name           TEXT NOT NULL DEFAULT '',
	employer_description    TEXT NOT NULL DEFAULT '',
	status                  TEXT NOT NULL DEFAULT 'Live' CHECK (status IN ('Live', 'Expired')),
	is_valid                BOOLEAN NOT NULL DEFAULT FALSE,
	first_seen              TIMESTAMPTZ NOT NULL,
	last_updated            TIMESTAMPTZ NOT NULL,
	scrape_attempts         INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS %[2]s ON %[1]s (status);
CREATE INDEX IF NOT EXISTS %[3]s ON %[1]s (last_updated DESC, url);`, t, statusIdx, updatedIdx), nil
}

// EnsureSource creates the source's table and indexes if missing
func (db *DB) EnsureSource(ctx context.Context, source string) error {
	ddl, err := CreateTableSQL(source)
	if err != nil {
		return err
	}
	if _, err := db.pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("failed to create table for %s: %w", source, err)
	}
	return nil
}

// ListSources returns the sources that have a table, sorted by name
func (db *DB) ListSources(ctx context.Context) ([]string, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT table_name FROM information_schema.tables
		 WHERE table_schema = current_schema() AND table_name LIKE 'jobs\_%'
		 ORDER BY table_name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list sources: %w", err)
	}
	defer rows.Close()

	var sources []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan table name: %w", err)
		}
		source := strings.TrimPrefix(name, "jobs_")
		if store.ValidateSourceName(source) == nil {
			sources = append(sources, source)
		}
	}
	return sources, rows.Err()
}

// LiveURLs returns the URLs of valid Live postings
func (db *DB) LiveURLs(ctx context.Context, source string) (types.URLSet, error) {
	t, err := table(source)
	if err != nil {
		return nil, err
	}
	rows, err := db.pool.Query(ctx,
		fmt.Sprintf(`SELECT url FROM %s WHERE status = 'Live' AND is_valid`, t))
	if err != nil {
		return nil, wrap(err, source, "load live URLs")
	}
	defer rows.Close()

	urls := types.NewURLSet()
	for rows.Next() {
		var url string
		if err := rows.Scan(&url); err != nil {
			return nil, fmt.Errorf("failed to scan url: %w", err)
		}
		urls.Add(url)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap(err, source, "load live URLs")
	}
	return urls, nil
}

// MarkExpired expires every known URL in urls with a single statement
func (db *DB) MarkExpired(ctx context.Context, source string, urls []string) (int64, error) {
	t, err := table(source)
	if err != nil {
		return 0, err
	}
	if len(urls) == 0 {
		return 0, nil
	}
	result, err := db.pool.Exec(ctx,
		fmt.Sprintf(`UPDATE %s
		 SET status = 'Expired', last_updated = GREATEST(first_seen, $2)
		 WHERE url = ANY($1)`, t),
		urls, db.now().UTC())
	if err != nil {
		return 0, wrap(err, source, "mark postings expired")
	}
	return result.RowsAffected(), nil
}

// Upsert inserts a posting or overwrites the stored one with the same URL
func (db *DB) Upsert(ctx context.Context, source string, p *types.JobPosting) error {
	if p == nil || p.URL == "" {
		return fmt.Errorf("posting URL is required")
	}
	t, err := table(source)
	if err != nil {
		return err
	}

	now := db.now().UTC()
	_, err = db.pool.Exec(ctx,
		fmt.Sprintf(`INSERT INTO %s AS j (
			url, external_id, title, contract_type, publication_date, location,
			job_family, duration, management_flag, education_level, experience_level,
			training_specialization, technical_skills, behavioral_skills, tools, languages,
			description, employer_name, employer_description,
			status, is_valid, first_seen, last_updated, scrape_attempts)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16,
		         $17, $18, $19, 'Live', $20, $21, $21, 0)
		 ON CONFLICT (url) DO UPDATE SET
			external_id = EXCLUDED.external_id,
			title = EXCLUDED.title,
			contract_type = EXCLUDED.contract_type,
			publication_date = EXCLUDED.publication_date,
			location = EXCLUDED.location,
			job_family = EXCLUDED.job_family,
			duration = EXCLUDED.duration,
			management_flag = EXCLUDED.management_flag,
			education_level = EXCLUDED.education_level,
			experience_level = EXCLUDED.experience_level,
			training_specialization = EXCLUDED.training_specialization,
			technical_skills = EXCLUDED.technical_skills,
			behavioral_skills = EXCLUDED.behavioral_skills,
			tools = EXCLUDED.tools,
			languages = EXCLUDED.languages,
			description = EXCLUDED.description,
			employer_name = EXCLUDED.employer_name,
			employer_description = EXCLUDED.employer_description,
			status = 'Live',
			is_valid = EXCLUDED.is_valid,
			last_updated = GREATEST(j.first_seen, EXCLUDED.last_updated),
			scrape_attempts = j.scrape_attempts + 1`, t),
		p.URL, p.ExternalID, p.Title, p.ContractType, p.PublicationDate, p.Location,
		p.JobFamily, p.Duration, p.ManagementFlag, p.EducationLevel, p.ExperienceLevel,
		p.TrainingSpecialization, nonNil(p.TechnicalSkills), nonNil(p.BehavioralSkills),
		nonNil(p.Tools), nonNil(p.Languages),
		p.Description, p.EmployerName, p.EmployerDescription,
		p.ComputeValidity(), now,
	)
	if err != nil {
		return wrap(err, source, "upsert posting")
	}
	return nil
}

// ValidRecords returns valid postings, most recently updated first
func (db *DB) ValidRecords(ctx context.Context, source string) ([]types.JobPosting, error) {
	return db.records(ctx, source, "WHERE is_valid")
}

// AllRecords returns every posting, most recently updated first
func (db *DB) AllRecords(ctx context.Context, source string) ([]types.JobPosting, error) {
	return db.records(ctx, source, "")
}

// PostingFilters holds optional filters for listing postings
type PostingFilters struct {
	Status types.Status
	Limit  int
}

// ListPostings returns valid postings filtered by status, most recent first
func (db *DB) ListPostings(ctx context.Context, source string, filters PostingFilters) ([]types.JobPosting, error) {
	t, err := table(source)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`SELECT %s FROM %s WHERE is_valid`, postingColumns, t)
	args := []any{}
	argNum := 1

	if filters.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", argNum)
		args = append(args, string(filters.Status))
		argNum++
	}
	query += " ORDER BY last_updated DESC, url ASC"
	if filters.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argNum)
		args = append(args, filters.Limit)
	}

	return db.queryPostings(ctx, source, query, args...)
}

func (db *DB) records(ctx context.Context, source, where string) ([]types.JobPosting, error) {
	t, err := table(source)
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf(`SELECT %s FROM %s %s ORDER BY last_updated DESC, url ASC`, postingColumns, t, where)
	return db.queryPostings(ctx, source, query)
}

func (db *DB) queryPostings(ctx context.Context, source, query string, args ...any) ([]types.JobPosting, error) {
	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, wrap(err, source, "load postings")
	}
	defer rows.Close()

	postings := []types.JobPosting{}
	for rows.Next() {
		p, err := scanPosting(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan posting: %w", err)
		}
		postings = append(postings, p)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap(err, source, "load postings")
	}
	return postings, nil
}

func scanPosting(row pgx.Row) (types.JobPosting, error) {
	var p types.JobPosting
	var status string
	err := row.Scan(&p.URL, &p.ExternalID, &p.Title, &p.ContractType, &p.PublicationDate, &p.Location,
		&p.JobFamily, &p.Duration, &p.ManagementFlag, &p.EducationLevel, &p.ExperienceLevel,
		&p.TrainingSpecialization, &p.TechnicalSkills, &p.BehavioralSkills, &p.Tools, &p.Languages,
		&p.Description, &p.EmployerName, &p.EmployerDescription,
		&status, &p.IsValid, &p.FirstSeen, &p.LastUpdated, &p.ScrapeAttempts)
	p.Status = types.Status(status)
	return p, err
}

// GetPosting retrieves one posting by URL, or nil when absent
func (db *DB) GetPosting(ctx context.Context, source, url string) (*types.JobPosting, error) {
	t, err := table(source)
	if err != nil {
		return nil, err
	}
	p, err := scanPosting(db.pool.QueryRow(ctx,
		fmt.Sprintf(`SELECT %s FROM %s WHERE url = $1`, postingColumns, t), url))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, wrap(err, source, "get posting")
	}
	return &p, nil
}

// Stats returns the record counts of a source
func (db *DB) Stats(ctx context.Context, source string) (*types.StoreStats, error) {
	t, err := table(source)
	if err != nil {
		return nil, err
	}
	var s types.StoreStats
	err = db.pool.QueryRow(ctx,
		fmt.Sprintf(`SELECT COUNT(*),
			COUNT(*) FILTER (WHERE status = 'Live'),
			COUNT(*) FILTER (WHERE status = 'Expired'),
			COUNT(*) FILTER (WHERE NOT is_valid)
		 FROM %s`, t),
	).Scan(&s.Total, &s.Live, &s.Expired, &s.Invalid)
	if err != nil {
		return nil, wrap(err, source, "count postings")
	}
	return &s, nil
}

// UpdateNormalized rewrites the derived fields of one posting. Lifecycle
// columns other than is_valid are untouched.
func (db *DB) UpdateNormalized(ctx context.Context, source, url string, f types.NormalizedFields) (bool, error) {
	t, err := table(source)
	if err != nil {
		return false, err
	}
	result, err := db.pool.Exec(ctx,
		fmt.Sprintf(`UPDATE %s SET
			location = $2, education_level = $3, experience_level = $4, job_family = $5,
			is_valid = (btrim(external_id) <> '' OR btrim(title) <> '' OR btrim(description) <> '')
		 WHERE url = $1`, t),
		url, f.Location, f.EducationLevel, f.ExperienceLevel, f.JobFamily)
	if err != nil {
		return false, wrap(err, source, "update normalized fields")
	}
	return result.RowsAffected() > 0, nil
}

// Load replaces all postings of a source in one transaction, keeping the
// lifecycle fields as given. It backs the import command.
func (db *DB) Load(ctx context.Context, source string, postings []types.JobPosting) (int64, error) {
	t, err := table(source)
	if err != nil {
		return 0, err
	}
	if err := db.EnsureSource(ctx, source); err != nil {
		return 0, err
	}

	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, fmt.Sprintf(`TRUNCATE %s`, t)); err != nil {
		return 0, wrap(err, source, "truncate postings")
	}

	rows := make([][]any, 0, len(postings))
	seen := make(map[string]struct{}, len(postings))
	for i := range postings {
		p := &postings[i]
		if p.URL == "" {
			continue
		}
		if _, dup := seen[p.URL]; dup {
			continue
		}
		seen[p.URL] = struct{}{}
		status := p.Status
		if !status.Valid() {
			status = types.StatusLive
		}
		lastUpdated := p.LastUpdated
		if lastUpdated.Before(p.FirstSeen) {
			lastUpdated = p.FirstSeen
		}
		rows = append(rows, []any{
			p.URL, p.ExternalID, p.Title, p.ContractType, p.PublicationDate, p.Location,
			p.JobFamily, p.Duration, p.ManagementFlag, p.EducationLevel, p.ExperienceLevel,
			p.TrainingSpecialization, nonNil(p.TechnicalSkills), nonNil(p.BehavioralSkills),
			nonNil(p.Tools), nonNil(p.Languages),
			p.Description, p.EmployerName, p.EmployerDescription,
			string(status), p.ComputeValidity(), p.FirstSeen, lastUpdated, p.ScrapeAttempts,
		})
	}

	columns := strings.Split(strings.Join(strings.Fields(postingColumns), ""), ",")
	n, err := tx.CopyFrom(ctx, pgx.Identifier{TableName(source)}, columns, pgx.CopyFromRows(rows))
	if err != nil {
		return 0, wrap(err, source, "copy postings")
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit import: %w", err)
	}
	return n, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
