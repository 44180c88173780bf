// Package observability provides logging, tracing and formatted CLI output.
package observability

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/jonathan/careers-sync/internal/crawling"
	"github.com/jonathan/careers-sync/internal/export"
	"github.com/jonathan/careers-sync/internal/types"
)

// boxWidth is the default width for formatted output boxes
const boxWidth = 60

// Printer handles formatted output for the CLI
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(title))
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// truncate shortens a line to the box width, counting runes
func truncate(line string) string {
	if utf8.RuneCountInString(line) <= boxWidth-4 {
		return line
	}
	r := []rune(line)
	return string(r[:boxWidth-7]) + "..."
}

// PrintRunSummary outputs the result of one source's crawl run.
func (p *Printer) PrintRunSummary(s *types.RunSummary) {
	if s == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Run:        %s\n", s.RunID))
	sb.WriteString(fmt.Sprintf("Status:     %s\n", s.Status()))
	if s.DryRun {
		sb.WriteString("Mode:       dry run\n")
	}
	sb.WriteString(fmt.Sprintf("Duration:   %s\n", s.Duration().Round(time.Millisecond)))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("Discovered: %d\n", s.Discovered))
	sb.WriteString(fmt.Sprintf("New:        %d (stored %d)\n", s.New, s.Stored))
	sb.WriteString(fmt.Sprintf("Expired:    %d\n", s.Expired))
	sb.WriteString(fmt.Sprintf("Unchanged:  %d\n", s.Unchanged))
	if s.Failed > 0 || s.StoreFailed > 0 || s.Skipped > 0 {
		sb.WriteString(fmt.Sprintf("Failed:     %d fetch, %d store, %d skipped\n", s.Failed, s.StoreFailed, s.Skipped))
	}
	if s.Stats != nil {
		sb.WriteString("\n")
		sb.WriteString(statsLines(s.Stats))
	}
	if s.Err != nil {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("⚠ %s\n", s.Err))
	}

	p.printBox("CRAWL "+strings.ToUpper(s.Source), strings.TrimSuffix(sb.String(), "\n"))
}

// PrintRunTotals outputs one line per source and the overall totals.
func (p *Printer) PrintRunTotals(summaries []*types.RunSummary) {
	if len(summaries) == 0 {
		return
	}

	var sb strings.Builder
	var newTotal, expiredTotal, failedTotal, aborted int
	for _, s := range summaries {
		mark := "✓"
		if s.Aborted() {
			mark = "✗"
			aborted++
		} else if s.Status() == "partial" {
			mark = "~"
		}
		sb.WriteString(fmt.Sprintf("%s %-20s +%d -%d\n", mark, s.Source, s.Stored, s.Expired))
		newTotal += s.Stored
		expiredTotal += s.Expired
		failedTotal += s.Failed + s.StoreFailed
	}
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("Stored %d, expired %d, failed %d\n", newTotal, expiredTotal, failedTotal))
	if aborted > 0 {
		sb.WriteString(fmt.Sprintf("%d of %d sources aborted\n", aborted, len(summaries)))
	}

	p.printBox("CRAWL TOTALS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintStats outputs the record counts of each source, sorted by name.
func (p *Printer) PrintStats(stats map[string]*types.StoreStats) {
	if len(stats) == 0 {
		p.printBox("STORE STATS", "No sources")
		return
	}

	names := make([]string, 0, len(stats))
	for name := range stats {
		names = append(names, name)
	}
	sort.Strings(names)

	var sb strings.Builder
	for i, name := range names {
		sb.WriteString(name + "\n")
		sb.WriteString(statsLines(stats[name]))
		if i < len(names)-1 {
			sb.WriteString("\n")
		}
	}
	p.printBox("STORE STATS", strings.TrimSuffix(sb.String(), "\n"))
}

func statsLines(s *types.StoreStats) string {
	return fmt.Sprintf("  Total %d  Live %d  Expired %d  Invalid %d\n", s.Total, s.Live, s.Expired, s.Invalid)
}

// PrintRenormalizeReports outputs what a renormalize pass changed.
func (p *Printer) PrintRenormalizeReports(reports []*crawling.RenormalizeReport) {
	if len(reports) == 0 {
		return
	}

	var sb strings.Builder
	dryRun := false
	for _, r := range reports {
		sb.WriteString(fmt.Sprintf("%-20s %d of %d changed\n", r.Source, r.Changed, r.Examined))
		dryRun = dryRun || r.DryRun
	}
	title := "RENORMALIZE"
	if dryRun {
		title += " (DRY RUN)"
	}
	p.printBox(title, strings.TrimSuffix(sb.String(), "\n"))
}

// PrintArtifacts lists the files written by an export.
func (p *Printer) PrintArtifacts(artifacts []*export.Artifacts) {
	if len(artifacts) == 0 {
		return
	}

	var sb strings.Builder
	for i, a := range artifacts {
		sb.WriteString(fmt.Sprintf("%s: %d records, %d live\n", a.Source, a.Records, a.Live))
		for _, f := range []string{a.CSV, a.JSON, a.LiveJSON} {
			sb.WriteString(fmt.Sprintf("  • %s\n", f))
		}
		if i < len(artifacts)-1 {
			sb.WriteString("\n")
		}
	}
	p.printBox("EXPORTED ARTIFACTS", strings.TrimSuffix(sb.String(), "\n"))
}
