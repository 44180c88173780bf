package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	RunE:  runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, _ []string) error {
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

	results, err := database.Migrate(ctx)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, r := range results {
		a.logger.Info("applied migration", zap.Int64("version", r.Version), zap.String("source", r.Source))
		_, _ = fmt.Fprintf(out, "Applied %s\n", r.Source)
	}

	version, err := database.SchemaVersion(ctx)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(out, "Schema at version %d\n", version)
	return nil
}
