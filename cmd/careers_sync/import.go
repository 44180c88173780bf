package main

import (
	"fmt"
	"os"

	"github.com/jonathan/careers-sync/internal/db"
	"github.com/jonathan/careers-sync/internal/export"
	"github.com/jonathan/careers-sync/internal/store"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	importSource string
	importFile   string
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Replace a source's records with those of a CSV artifact",
	Long: `Reads a <source>_jobs.csv artifact and replaces every stored record of the source with it.
Status, first_seen, last_updated and scrape_attempts are kept as written in the file;
values are not re-normalized.`,
	RunE: runImport,
}

func init() {
	importCmd.Flags().StringVarP(&importSource, "source", "s", "", "Source to import into (required)")
	importCmd.Flags().StringVarP(&importFile, "file", "f", "", "CSV artifact to import (required)")
	_ = importCmd.MarkFlagRequired("source")
	_ = importCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, _ []string) error {
	ctx, stop := signalContext(cmd)
	defer stop()

	if err := store.ValidateSourceName(importSource); err != nil {
		return err
	}

	f, err := os.Open(importFile)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", importFile, err)
	}
	defer f.Close() //nolint:errcheck

	records, err := export.ReadCSV(f)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", importFile, err)
	}

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

	n, err := database.Load(ctx, importSource, records)
	if err != nil {
		return err
	}
	a.logger.Info("imported records", zap.String("source", importSource), zap.Int64("rows", n), zap.Int("read", len(records)))

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Imported %d records into %s\n", n, db.TableName(importSource))
	return nil
}
