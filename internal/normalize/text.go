package normalize

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	whitespaceRun = regexp.MustCompile(`\s+`)
	blankLines    = regexp.MustCompile(`\n{3,}`)
	inlineSpace   = regexp.MustCompile(`[ \t\x{00A0}]+`)
)

// fold lowercases s and strips combining marks, so "Genève" and "geneve" compare equal.
func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, strings.ToLower(s))
	if err != nil {
		return strings.ToLower(s)
	}
	return out
}

func collapseSpaces(s string) string {
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(s, " "))
}

// titleCase capitalizes the first letter of every word, where words are separated
// by spaces, hyphens or apostrophes, and lowercases everything else.
func titleCase(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	upperNext := true
	for _, r := range s {
		switch {
		case r == ' ' || r == '-' || r == '\'' || r == '’':
			sb.WriteRune(r)
			upperNext = true
		case upperNext && unicode.IsLetter(r):
			sb.WriteRune(unicode.ToUpper(r))
			upperNext = false
		default:
			sb.WriteRune(unicode.ToLower(r))
			upperNext = false
		}
	}
	return sb.String()
}

// Description normalizes line endings, collapses runs of spaces and keeps at most one
// blank line between paragraphs.
func Description(raw string) string {
	if raw == "" {
		return ""
	}
	s := strings.ReplaceAll(raw, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")

	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(inlineSpace.ReplaceAllString(line, " "))
	}
	s = strings.Join(lines, "\n")
	s = blankLines.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

// Text collapses all whitespace in a single-line field.
func Text(raw string) string {
	return collapseSpaces(raw)
}

// List trims items, drops blanks and removes case-insensitive duplicates, keeping order.
func List(items []string) []string {
	if len(items) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		item = collapseSpaces(strings.Trim(item, "•-–*· \t\n"))
		if item == "" {
			continue
		}
		key := strings.ToLower(item)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, item)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
