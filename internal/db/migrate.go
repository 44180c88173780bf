package db

import (
	"context"
	"embed"
	"fmt"
	"io/fs"

	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// MigrationResult describes one applied migration
type MigrationResult struct {
	Version int64  `json:"version"`
	Source  string `json:"source"`
}

func (db *DB) provider() (*goose.Provider, func() error, error) {
	fsys, err := fs.Sub(migrationsFS, "migrations")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open migrations: %w", err)
	}
	sqlDB := stdlib.OpenDBFromPool(db.pool)
	p, err := goose.NewProvider(goose.DialectPostgres, sqlDB, fsys)
	if err != nil {
		_ = sqlDB.Close()
		return nil, nil, fmt.Errorf("failed to create migration provider: %w", err)
	}
	return p, sqlDB.Close, nil
}

// Migrate applies all pending migrations and returns the ones it ran
func (db *DB) Migrate(ctx context.Context) ([]MigrationResult, error) {
	p, closeDB, err := db.provider()
	if err != nil {
		return nil, err
	}
	defer func() { _ = closeDB() }()

	results, err := p.Up(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to apply migrations: %w", err)
	}

	applied := make([]MigrationResult, 0, len(results))
	for _, r := range results {
		applied = append(applied, MigrationResult{Version: r.Source.Version, Source: r.Source.Path})
	}
	return applied, nil
}

// SchemaVersion returns the current migration version
func (db *DB) SchemaVersion(ctx context.Context) (int64, error) {
	p, closeDB, err := db.provider()
	if err != nil {
		return 0, err
	}
	defer func() { _ = closeDB() }()

	v, err := p.GetDBVersion(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	return v, nil
}
