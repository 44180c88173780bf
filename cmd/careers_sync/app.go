package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonathan/careers-sync/internal/classify"
	"github.com/jonathan/careers-sync/internal/config"
	"github.com/jonathan/careers-sync/internal/crawling"
	"github.com/jonathan/careers-sync/internal/db"
	"github.com/jonathan/careers-sync/internal/normalize"
	"github.com/jonathan/careers-sync/internal/observability"
	"github.com/jonathan/careers-sync/internal/sources"
	"github.com/jonathan/careers-sync/internal/store"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// app bundles what every command needs after startup
type app struct {
	cfg     *config.Config
	logger  *zap.Logger
	printer *observability.Printer
}

func loadApp(cmd *cobra.Command) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := observability.NewLogger(verbose, cfg.LogFormat)
	if err != nil {
		return nil, err
	}
	logger.Debug("loaded config", zap.String("path", configPath), zap.Int("sources", len(cfg.Sources)))

	return &app{
		cfg:     cfg,
		logger:  logger,
		printer: observability.NewPrinter(cmd.OutOrStdout()),
	}, nil
}

func (a *app) close() {
	_ = a.logger.Sync()
}

// connect opens the Postgres store
func (a *app) connect(ctx context.Context) (*db.DB, error) {
	if a.cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("database_url in config or DATABASE_URL environment variable is required")
	}
	database, err := db.Connect(ctx, a.cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	return database, nil
}

// signalContext is cancelled on SIGINT or SIGTERM
func signalContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
}

// sourceLister is implemented by stores that can enumerate their sources
type sourceLister interface {
	ListSources(ctx context.Context) ([]string, error)
}

// resolveSources returns the named sources, or every source the store knows
func resolveSources(ctx context.Context, lister sourceLister, names []string) ([]string, error) {
	if len(names) == 0 {
		return lister.ListSources(ctx)
	}
	for _, name := range names {
		if err := store.ValidateSourceName(name); err != nil {
			return nil, err
		}
	}
	return names, nil
}

// jobBuilder turns source configs into runnable jobs. Normalizers are
// compiled once per default country.
type jobBuilder struct {
	registry       *sources.Registry
	classifier     *classify.Classifier
	normalizers    map[string]*normalize.Normalizer
	defaultCountry string
	logger         *zap.Logger
}

func newJobBuilder(cfg *config.Config, logger *zap.Logger) *jobBuilder {
	return &jobBuilder{
		registry:       sources.NewRegistry(),
		classifier:     classify.Default(),
		normalizers:    make(map[string]*normalize.Normalizer),
		defaultCountry: cfg.DefaultCountry,
		logger:         logger,
	}
}

func (b *jobBuilder) enricher(src sources.Config) (*crawling.Enricher, error) {
	country := src.DefaultCountry
	if country == "" {
		country = b.defaultCountry
	}
	n, ok := b.normalizers[country]
	if !ok {
		var err error
		n, err = normalize.New(normalize.DefaultTables(), normalize.Options{DefaultCountry: country})
		if err != nil {
			return nil, fmt.Errorf("failed to build normalizer: %w", err)
		}
		b.normalizers[country] = n
	}
	return crawling.NewEnricher(n, b.classifier, src.EmployerName), nil
}

func (b *jobBuilder) jobs(srcs []sources.Config) ([]crawling.Job, error) {
	jobs := make([]crawling.Job, 0, len(srcs))
	for _, src := range srcs {
		adapter, err := b.registry.Build(src, b.logger)
		if err != nil {
			return nil, err
		}
		enricher, err := b.enricher(src)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, crawling.Job{Adapter: adapter, Enricher: enricher})
	}
	return jobs, nil
}
