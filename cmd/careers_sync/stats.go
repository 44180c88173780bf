package main

import (
	"github.com/jonathan/careers-sync/internal/types"
	"github.com/spf13/cobra"
)

var statsSources []string

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print record counts per source",
	RunE:  runStats,
}

func init() {
	statsCmd.Flags().StringSliceVarP(&statsSources, "source", "s", nil, "Source to report (repeatable; default: all sources in the store)")
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, _ []string) error {
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

	names, err := resolveSources(ctx, database, statsSources)
	if err != nil {
		return err
	}

	stats := make(map[string]*types.StoreStats, len(names))
	for _, name := range names {
		s, err := database.Stats(ctx, name)
		if err != nil {
			return err
		}
		stats[name] = s
	}

	a.printer.PrintStats(stats)
	return nil
}
