package observability

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/careers-sync/internal/crawling"
	"github.com/jonathan/careers-sync/internal/export"
	"github.com/jonathan/careers-sync/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestPrintRunSummary(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	start := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	p.PrintRunSummary(&types.RunSummary{
		RunID:      uuid.New(),
		Source:     "bnp_paribas",
		StartedAt:  start,
		FinishedAt: start.Add(1500 * time.Millisecond),
		Discovered: 120,
		New:        4,
		Stored:     3,
		Expired:    2,
		Unchanged:  116,
		Failed:     1,
		Stats:      &types.StoreStats{Total: 300, Live: 119, Expired: 181},
	})
	output := buf.String()

	assert.Contains(t, output, "CRAWL BNP_PARIBAS")
	assert.Contains(t, output, "partial")
	assert.Contains(t, output, "1.5s")
	assert.Contains(t, output, "New:        4 (stored 3)")
	assert.Contains(t, output, "1 fetch, 0 store, 0 skipped")
	assert.Contains(t, output, "Total 300")
}

func TestPrintRunSummary_Aborted(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintRunSummary(&types.RunSummary{Source: "ubs", Err: errors.New("discovery failed")})

	assert.Contains(t, buf.String(), "failed")
	assert.Contains(t, buf.String(), "⚠ discovery failed")
}

func TestPrintRunSummary_Nil(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintRunSummary(nil)
	assert.Empty(t, buf.String())
}

func TestPrintRunTotals(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintRunTotals([]*types.RunSummary{
		{Source: "a", Stored: 2, Expired: 1},
		{Source: "b", Err: errors.New("boom")},
	})
	output := buf.String()

	assert.Contains(t, output, "✓ a")
	assert.Contains(t, output, "✗ b")
	assert.Contains(t, output, "Stored 2, expired 1, failed 0")
	assert.Contains(t, output, "1 of 2 sources aborted")
}

func TestPrintStats(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintStats(map[string]*types.StoreStats{
		"zurich": {Total: 1, Live: 1},
		"alpha":  {Total: 2, Expired: 2},
	})
	output := buf.String()

	assert.Less(t, strings.Index(output, "alpha"), strings.Index(output, "zurich"))
	assert.Contains(t, output, "Expired 2")

	buf.Reset()
	NewPrinter(&buf).PrintStats(nil)
	assert.Contains(t, buf.String(), "No sources")
}

func TestPrintRenormalizeReports(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintRenormalizeReports([]*crawling.RenormalizeReport{
		{Source: "bank", Examined: 10, Changed: 3, DryRun: true},
	})
	assert.Contains(t, buf.String(), "RENORMALIZE (DRY RUN)")
	assert.Contains(t, buf.String(), "3 of 10 changed")
}

func TestPrintArtifacts(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintArtifacts([]*export.Artifacts{
		{Source: "bank", CSV: "out/bank_jobs.csv", JSON: "out/bank_jobs.json", LiveJSON: "out/bank_jobs_live.json", Records: 5, Live: 4},
	})
	assert.Contains(t, buf.String(), "bank: 5 records, 4 live")
	assert.Contains(t, buf.String(), "out/bank_jobs_live.json")
}

func TestPrintBox_TruncatesByRune(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)
	p.printBox("T", strings.Repeat("é", 100))

	for _, line := range strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n") {
		assert.Equal(t, boxWidth, len([]rune(line)), line)
	}
	assert.Contains(t, buf.String(), "...")
}

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name    string
		verbose bool
		format  string
		wantErr bool
	}{
		{name: "defaults", format: ""},
		{name: "json verbose", verbose: true, format: "json"},
		{name: "console", format: "CONSOLE"},
		{name: "bad format", format: "xml", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := NewLogger(tt.verbose, tt.format)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, logger)
		})
	}
}

func TestNewLogger_Level(t *testing.T) {
	logger, err := NewLogger(false, "json")
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zap.DebugLevel))
	assert.True(t, logger.Core().Enabled(zap.InfoLevel))

	verbose, err := NewLogger(true, "")
	require.NoError(t, err)
	assert.True(t, verbose.Core().Enabled(zap.DebugLevel))
}

func TestInitTracing_Disabled(t *testing.T) {
	shutdown, err := InitTracing(context.Background(), "", "test", zap.NewNop())
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}
