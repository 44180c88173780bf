package main

import (
	"context"
	"fmt"

	"github.com/jonathan/careers-sync/internal/export"
	"github.com/jonathan/careers-sync/internal/types"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	exportSources []string
	exportOut     string
	exportMerge   bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write CSV and JSON artifacts from the store",
	Long: `Materializes <source>_jobs.csv, <source>_jobs.json and <source>_jobs_live.json for every
selected source, or for every source in the store. With --merge, all_jobs.* combines them.`,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringSliceVarP(&exportSources, "source", "s", nil, "Source to export (repeatable; default: all sources in the store)")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "Output directory (default: export_dir from config)")
	exportCmd.Flags().BoolVar(&exportMerge, "merge", false, "Also write merged all_jobs.* artifacts")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, _ []string) error {
	ctx, stop := signalContext(cmd)
	defer stop()

	a, err := loadApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	database, err := a.connect(ctx)
	if err != nil {
		return err
	}
	defer database.Close()

	names, err := resolveSources(ctx, database, exportSources)
	if err != nil {
		return err
	}

	dir := a.cfg.ExportDir
	if exportOut != "" {
		dir = exportOut
	}

	artifacts, err := materialize(ctx, database, names, dir, exportMerge, a.logger)
	if err != nil {
		return err
	}
	a.printer.PrintArtifacts(artifacts)
	return nil
}

// recordReader is the part of a store the exporter reads
type recordReader interface {
	ValidRecords(ctx context.Context, source string) ([]types.JobPosting, error)
}

// materialize writes each source's artifacts and, when merge is set, the
// merged artifacts.
func materialize(ctx context.Context, st recordReader, names []string, dir string, merge bool, logger *zap.Logger) ([]*export.Artifacts, error) {
	artifacts := make([]*export.Artifacts, 0, len(names)+1)
	bySource := make(map[string][]types.JobPosting, len(names))

	for _, name := range names {
		records, err := st.ValidRecords(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("failed to load records of %s: %w", name, err)
		}
		a, err := export.Materialize(dir, name, records)
		if err != nil {
			return nil, err
		}
		logger.Info("exported source", zap.String("source", name), zap.Int("records", a.Records), zap.Int("live", a.Live))
		artifacts = append(artifacts, a)
		bySource[name] = records
	}

	if merge {
		a, err := export.MaterializeMerged(dir, bySource)
		if err != nil {
			return nil, err
		}
		artifacts = append(artifacts, a)
	}
	return artifacts, nil
}
