package crawling

import (
	"context"

	"github.com/jonathan/careers-sync/internal/store"
	"go.uber.org/zap"
)

// RenormalizeReport counts what a renormalize pass did to one source.
type RenormalizeReport struct {
	Source   string `json:"source"`
	Examined int    `json:"examined"`
	Changed  int    `json:"changed"`
	DryRun   bool   `json:"dry_run,omitempty"`
}

// Renormalize re-applies the current normalization tables and taxonomy to the
// stored postings of source without re-fetching them. Only the derived fields
// are rewritten; lifecycle columns are untouched. With dryRun set, changes are
// counted but not written.
func Renormalize(ctx context.Context, st store.Store, source string, enricher *Enricher, dryRun bool, logger *zap.Logger) (*RenormalizeReport, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("renormalize").With(zap.String("source", source))

	records, err := st.AllRecords(ctx, source)
	if err != nil {
		return nil, &StoreError{Op: "all_records", Source: source, Message: "failed to load records", Cause: err}
	}

	report := &RenormalizeReport{Source: source, DryRun: dryRun}
	for i := range records {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		p := &records[i]
		report.Examined++

		next := enricher.Rederive(p)
		if next == p.Normalized() {
			continue
		}
		report.Changed++

		logger.Debug("derived fields changed",
			zap.String("url", p.URL),
			zap.String("location", next.Location),
			zap.String("job_family", next.JobFamily))
		if dryRun {
			continue
		}
		if _, err := st.UpdateNormalized(ctx, source, p.URL, next); err != nil {
			return report, &StoreError{Op: "update_normalized", Source: source, Message: p.URL, Cause: err}
		}
	}

	logger.Info("renormalized source",
		zap.Int("examined", report.Examined),
		zap.Int("changed", report.Changed),
		zap.Bool("dry_run", dryRun))
	return report, nil
}
