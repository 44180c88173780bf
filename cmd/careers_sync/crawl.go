package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/jonathan/careers-sync/internal/config"
	"github.com/jonathan/careers-sync/internal/crawling"
	"github.com/jonathan/careers-sync/internal/events"
	"github.com/jonathan/careers-sync/internal/lock"
	"github.com/jonathan/careers-sync/internal/observability"
	"github.com/jonathan/careers-sync/internal/sources"
	"github.com/jonathan/careers-sync/internal/store"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	crawlSources   []string
	crawlWorkers   int
	crawlDryRun    bool
	crawlForce     bool
	crawlExport    bool
	crawlExportDir string
)

var crawlCmd = &cobra.Command{
	Use:   "crawl",
	Short: "Reconcile sources with their career sites",
	Long: `Discovers the current posting URLs of every configured source (or the selected ones),
marks postings that disappeared as expired, then fetches, normalizes and stores new ones.

With --dry-run the store is an in-memory copy: nothing is written to Postgres, no run is
recorded and no event is published.`,
	RunE: runCrawl,
}

func init() {
	crawlCmd.Flags().StringSliceVarP(&crawlSources, "source", "s", nil, "Source to crawl (repeatable; default: all enabled sources)")
	crawlCmd.Flags().IntVarP(&crawlWorkers, "workers", "w", 0, "Concurrent detail fetches per source (default: workers from config)")
	crawlCmd.Flags().BoolVar(&crawlDryRun, "dry-run", false, "Crawl against an in-memory copy of the store")
	crawlCmd.Flags().BoolVar(&crawlForce, "force", false, "Disable the discovery guard")
	crawlCmd.Flags().BoolVar(&crawlExport, "export", false, "Export artifacts of crawled sources afterwards")
	crawlCmd.Flags().StringVar(&crawlExportDir, "export-dir", "", "Export directory (default: export_dir from config)")
	rootCmd.AddCommand(crawlCmd)
}

func runCrawl(cmd *cobra.Command, _ []string) error {
	ctx, stop := signalContext(cmd)
	defer stop()

	a, err := loadApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	if cmd.Flags().Changed("workers") {
		if crawlWorkers < 1 || crawlWorkers > config.MaxWorkers {
			return fmt.Errorf("--workers must be between 1 and %d", config.MaxWorkers)
		}
		a.cfg.Workers = crawlWorkers
	}
	if crawlExportDir != "" {
		a.cfg.ExportDir = crawlExportDir
	}

	selected, err := a.cfg.SelectSources(crawlSources)
	if err != nil {
		return err
	}
	if len(selected) == 0 {
		return fmt.Errorf("no sources selected: configure sources in %s or pass --source", configPath)
	}

	shutdownTracing, err := observability.InitTracing(ctx, a.cfg.OTLPEndpoint, version, a.logger)
	if err != nil {
		return err
	}
	defer func() { _ = shutdownTracing(context.WithoutCancel(ctx)) }()

	deps := crawling.Deps{Logger: a.logger}
	if crawlDryRun {
		mem, err := dryRunStore(ctx, a, selected)
		if err != nil {
			return err
		}
		deps.Store = mem
	} else {
		database, err := a.connect(ctx)
		if err != nil {
			return err
		}
		defer database.Close()
		deps.Store = database
		deps.Recorder = database

		if a.cfg.NATSURL != "" {
			pub, err := events.NewNATSPublisher(a.cfg.NATSURL, a.cfg.EventPrefix, a.logger)
			if err != nil {
				return err
			}
			defer func() { _ = pub.Close() }()
			deps.Publisher = pub
		}

		if a.cfg.RedisAddr != "" {
			locker := lock.NewRedis(lock.Options{
				Addr:     a.cfg.RedisAddr,
				Password: a.cfg.RedisPassword,
				DB:       a.cfg.RedisDB,
				TTL:      a.cfg.LockTTLDuration(),
			})
			defer func() { _ = locker.Close() }()
			deps.Locker = locker
		}
	}

	jobs, err := newJobBuilder(a.cfg, a.logger).jobs(selected)
	if err != nil {
		return err
	}

	runner := crawling.NewRunner(deps, crawling.Options{
		Workers:                      a.cfg.Workers,
		TreatDiscoveryFailureAsEmpty: a.cfg.TreatDiscoveryFailureAsEmpty,
		MinDiscoveryRatio:            a.cfg.MinDiscoveryRatio,
		Force:                        crawlForce,
		DryRun:                       crawlDryRun,
		ParallelSources:              a.cfg.ParallelSources,
		MaxParallelSources:           a.cfg.MaxParallelSources,
	})
	summaries := runner.RunAll(ctx, jobs)

	for _, s := range summaries {
		a.printer.PrintRunSummary(s)
	}
	if len(summaries) > 1 {
		a.printer.PrintRunTotals(summaries)
	}

	if crawlExport {
		var names []string
		for _, s := range summaries {
			if !s.Aborted() {
				names = append(names, s.Source)
			}
		}
		artifacts, err := materialize(ctx, deps.Store, names, a.cfg.ExportDir, len(names) > 1, a.logger)
		if err != nil {
			return err
		}
		a.printer.PrintArtifacts(artifacts)
	}

	return crawling.AbortError(summaries)
}

// dryRunStore returns an in-memory store holding a copy of the selected
// sources. Without a database the copy starts empty.
func dryRunStore(ctx context.Context, a *app, selected []sources.Config) (*store.Memory, error) {
	mem := store.NewMemory()
	if a.cfg.DatabaseURL == "" {
		a.logger.Info("dry run without database: every discovered URL is new")
		return mem, nil
	}

	database, err := a.connect(ctx)
	if err != nil {
		return nil, err
	}
	defer database.Close()

	for _, src := range selected {
		records, err := database.AllRecords(ctx, src.Name)
		if errors.Is(err, store.ErrUnknownSource) {
			continue
		}
		if err != nil {
			return nil, err
		}
		if err := mem.Load(src.Name, records); err != nil {
			return nil, err
		}
		a.logger.Debug("copied source for dry run", zap.String("source", src.Name), zap.Int("records", len(records)))
	}
	return mem, nil
}
