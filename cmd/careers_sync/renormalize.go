package main

import (
	"github.com/jonathan/careers-sync/internal/crawling"
	"github.com/spf13/cobra"
)

var (
	renormalizeSources []string
	renormalizeDryRun  bool
)

var renormalizeCmd = &cobra.Command{
	Use:   "renormalize",
	Short: "Re-apply normalization and classification to stored records",
	Long: `Recomputes location, education level, experience level and job family of every stored
record from its stored values, without re-fetching. Only changed records are written, and
lifecycle fields are left untouched. Running it twice changes nothing the second time.`,
	RunE: runRenormalize,
}

func init() {
	renormalizeCmd.Flags().StringSliceVarP(&renormalizeSources, "source", "s", nil, "Source to renormalize (repeatable; default: all sources in the store)")
	renormalizeCmd.Flags().BoolVar(&renormalizeDryRun, "dry-run", false, "Report what would change without writing")
	rootCmd.AddCommand(renormalizeCmd)
}

func runRenormalize(cmd *cobra.Command, _ []string) error {
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

	names, err := resolveSources(ctx, database, renormalizeSources)
	if err != nil {
		return err
	}

	builder := newJobBuilder(a.cfg, a.logger)
	reports := make([]*crawling.RenormalizeReport, 0, len(names))
	for _, name := range names {
		// Sources missing from the config still get the default tables.
		src, _ := a.cfg.Source(name)
		enricher, err := builder.enricher(src)
		if err != nil {
			return err
		}

		report, err := crawling.Renormalize(ctx, database, name, enricher, renormalizeDryRun, a.logger)
		if err != nil {
			return err
		}
		reports = append(reports, report)
	}

	a.printer.PrintRenormalizeReports(reports)
	return nil
}
