package normalize

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	dateLabel = regexp.MustCompile(`(?i)^\s*(?:date\s+de\s+publication|publication\s+date|publi[ée]e?\s+le|posted\s+on|date\s+de\s+d[ée]but|start\s+date)\s*:?\s*`)
	dayFirst  = regexp.MustCompile(`^(\d{1,2})[/.\-](\d{1,2})[/.\-](\d{4})$`)
	yearFirst = regexp.MustCompile(`^(\d{4})[/.\-](\d{1,2})[/.\-](\d{1,2})$`)
)

// PublicationDate strips date labels and rewrites numeric dates as YYYY-MM-DD.
// Values that are not a recognizable date (e.g. "ASAP") are returned trimmed.
func PublicationDate(raw string) string {
	s := collapseSpaces(dateLabel.ReplaceAllString(raw, ""))
	if s == "" {
		return ""
	}
	if m := dayFirst.FindStringSubmatch(s); m != nil {
		if iso, ok := isoDate(m[3], m[2], m[1]); ok {
			return iso
		}
	}
	if m := yearFirst.FindStringSubmatch(s); m != nil {
		if iso, ok := isoDate(m[1], m[2], m[3]); ok {
			return iso
		}
	}
	return strings.TrimSpace(s)
}

func isoDate(year, month, day string) (string, bool) {
	y, _ := strconv.Atoi(year)
	m, _ := strconv.Atoi(month)
	d, _ := strconv.Atoi(day)
	t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	if t.Year() != y || int(t.Month()) != m || t.Day() != d {
		return "", false
	}
	return fmt.Sprintf("%04d-%02d-%02d", y, m, d), true
}
