// Package classify assigns a job family to a posting by scoring its title and
// description against an ordered taxonomy of keyword patterns.
package classify

import (
	"fmt"
	"regexp"
	"strings"
)

// Other is returned when no category pattern matches.
const Other = "Other"

// Scoring weights
const (
	TitleWeight       = 3
	DescriptionWeight = 1
)

// Unicode-aware replacements for \b, which RE2 restricts to ASCII word characters.
const (
	wordStart = `(?:^|[^\pL\pN_])`
	wordEnd   = `(?:[^\pL\pN_]|$)`
)

// Score is the score of one category for one input.
type Score struct {
	Category string
	Score    int
}

// Classifier scores inputs against a compiled Taxonomy. It is safe for concurrent use.
type Classifier struct {
	categories []compiledCategory
}

type compiledCategory struct {
	name     string
	patterns []*regexp.Regexp
}

// New compiles a taxonomy. Patterns are matched case-insensitively and a leading
// or trailing \b is treated as a Unicode word boundary.
func New(taxonomy Taxonomy) (*Classifier, error) {
	c := &Classifier{categories: make([]compiledCategory, 0, len(taxonomy))}
	seen := make(map[string]bool, len(taxonomy))

	for _, cat := range taxonomy {
		if cat.Name == "" {
			return nil, fmt.Errorf("category name is required")
		}
		if seen[cat.Name] {
			return nil, fmt.Errorf("duplicate category %q", cat.Name)
		}
		seen[cat.Name] = true

		cc := compiledCategory{name: cat.Name, patterns: make([]*regexp.Regexp, 0, len(cat.Patterns))}
		for _, p := range cat.Patterns {
			re, err := compilePattern(p)
			if err != nil {
				return nil, fmt.Errorf("category %q: invalid pattern %q: %w", cat.Name, p, err)
			}
			cc.patterns = append(cc.patterns, re)
		}
		c.categories = append(c.categories, cc)
	}

	return c, nil
}

// Default returns a Classifier over DefaultTaxonomy.
func Default() *Classifier {
	c, err := New(DefaultTaxonomy())
	if err != nil {
		panic(fmt.Sprintf("default taxonomy does not compile: %v", err))
	}
	return c
}

func compilePattern(p string) (*regexp.Regexp, error) {
	expr := p
	prefix, suffix := "", ""
	if strings.HasPrefix(expr, `\b`) {
		expr = expr[2:]
		prefix = wordStart
	}
	if strings.HasSuffix(expr, `\b`) {
		expr = expr[:len(expr)-2]
		suffix = wordEnd
	}
	return regexp.Compile(`(?i)` + prefix + `(?:` + expr + `)` + suffix)
}

// Classify returns the category with the strictly highest score, the first one in
// taxonomy order on ties, or Other when nothing matches.
func (c *Classifier) Classify(title, description string) string {
	best, bestScore := Other, 0
	for _, s := range c.Scores(title, description) {
		if s.Score > bestScore {
			best, bestScore = s.Category, s.Score
		}
	}
	return best
}

// Scores returns every category's score in taxonomy order.
func (c *Classifier) Scores(title, description string) []Score {
	combined := title + " " + description
	scores := make([]Score, 0, len(c.categories))

	for _, cat := range c.categories {
		score := 0
		for _, re := range cat.patterns {
			switch {
			case re.MatchString(title):
				score += TitleWeight
			case re.MatchString(combined):
				score += DescriptionWeight
			}
		}
		scores = append(scores, Score{Category: cat.name, Score: score})
	}

	return scores
}

// Categories returns the category names in taxonomy order.
func (c *Classifier) Categories() []string {
	names := make([]string, len(c.categories))
	for i, cat := range c.categories {
		names[i] = cat.name
	}
	return names
}
