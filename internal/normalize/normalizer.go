// Package normalize maps noisy scraped strings (locations, countries, education and
// experience requirements) to the canonical values stored with each posting.
package normalize

import (
	"fmt"
	"regexp"
	"strings"
)

// DefaultCountry is used when a location carries no recognizable country.
const DefaultCountry = "France"

// maxCityLength is the longest residual accepted as a city name, in runes.
const maxCityLength = 30

// Options configures a Normalizer.
type Options struct {
	// DefaultCountry replaces numeric or missing country values. Defaults to DefaultCountry.
	DefaultCountry string
}

// Normalizer applies a compiled Tables to raw field values. It is safe for concurrent use.
type Normalizer struct {
	version        string
	defaultCountry string

	cityAliases       map[string]string
	foldedCityAliases map[string]string
	countryAliases    map[string]string
	foldedCountries   map[string]string
	countryWords      map[string]struct{}
	locationCountries []*regexp.Regexp
	locationNames     []string

	addressPatterns []*regexp.Regexp
	companyPatterns []*regexp.Regexp
	rejectPatterns  []*regexp.Regexp
	salvageCities   []string
	noiseWords      map[string]struct{}
	streetWords     map[string]struct{}
	invalidWords    map[string]struct{}
	invalidKeywords []string

	educationRules       []compiledRule
	educationInference   []compiledRule
	experienceKeywords   []compiledRule
	earlyCareerContracts []*regexp.Regexp
}

type compiledRule struct {
	re    *regexp.Regexp
	value string
}

// New compiles tables into a Normalizer. The tables are copied.
func New(tables *Tables, opts Options) (*Normalizer, error) {
	if tables == nil {
		return nil, fmt.Errorf("normalization tables are required")
	}
	if opts.DefaultCountry == "" {
		opts.DefaultCountry = DefaultCountry
	}

	n := &Normalizer{
		version:           tables.Version,
		defaultCountry:    opts.DefaultCountry,
		cityAliases:       make(map[string]string, len(tables.CityAliases)),
		foldedCityAliases: make(map[string]string, len(tables.CityAliases)),
		countryAliases:    make(map[string]string, len(tables.CountryAliases)),
		foldedCountries:   make(map[string]string, len(tables.CountryAliases)),
		countryWords:      make(map[string]struct{}),
		noiseWords:        toSet(tables.NoiseWords),
		streetWords:       toSet(tables.StreetWords),
		invalidWords:      toSet(tables.InvalidWords),
		invalidKeywords:   lowerAll(tables.InvalidKeywords),
		salvageCities:     lowerAll(tables.SalvageCities),
	}

	for variant, canonical := range tables.CityAliases {
		addAlias(n.cityAliases, n.foldedCityAliases, variant, canonical)
	}
	// Canonical forms map to themselves so normalization is idempotent.
	for _, canonical := range tables.CityAliases {
		addAlias(n.cityAliases, n.foldedCityAliases, canonical, canonical)
	}
	for variant, canonical := range tables.CountryAliases {
		addAlias(n.countryAliases, n.foldedCountries, variant, canonical)
		n.countryWords[strings.ToLower(variant)] = struct{}{}
	}
	for _, canonical := range tables.CountryAliases {
		addAlias(n.countryAliases, n.foldedCountries, canonical, canonical)
		n.countryWords[strings.ToLower(canonical)] = struct{}{}
	}
	for _, w := range tables.CountryWords {
		n.countryWords[strings.ToLower(w)] = struct{}{}
	}

	for _, name := range tables.LocationCountries {
		re, err := regexp.Compile(`(?i)(?:^|[^\pL-])(` + regexp.QuoteMeta(name) + `)(?:[^\pL-]|$)`)
		if err != nil {
			return nil, fmt.Errorf("invalid location country %q: %w", name, err)
		}
		n.locationCountries = append(n.locationCountries, re)
		n.locationNames = append(n.locationNames, name)
	}

	var err error
	if n.addressPatterns, err = compileAll(tables.AddressPatterns); err != nil {
		return nil, fmt.Errorf("invalid address pattern: %w", err)
	}
	if n.companyPatterns, err = compileAll(tables.CompanyPatterns); err != nil {
		return nil, fmt.Errorf("invalid company pattern: %w", err)
	}
	if n.rejectPatterns, err = compileAll(tables.RejectPatterns); err != nil {
		return nil, fmt.Errorf("invalid reject pattern: %w", err)
	}
	if n.educationRules, err = compileRules(tables.EducationRules); err != nil {
		return nil, fmt.Errorf("invalid education rule: %w", err)
	}
	if n.educationInference, err = compileRules(tables.EducationInferenceRules); err != nil {
		return nil, fmt.Errorf("invalid education inference rule: %w", err)
	}
	if n.experienceKeywords, err = compileRules(tables.ExperienceKeywords); err != nil {
		return nil, fmt.Errorf("invalid experience rule: %w", err)
	}
	for _, c := range tables.EarlyCareerContracts {
		re, err := regexp.Compile(`(?i)(?:^|[^\pL])` + regexp.QuoteMeta(c) + `(?:[^\pL]|$)`)
		if err != nil {
			return nil, fmt.Errorf("invalid contract keyword %q: %w", c, err)
		}
		n.earlyCareerContracts = append(n.earlyCareerContracts, re)
	}

	return n, nil
}

// Default returns a Normalizer over DefaultTables with the default country.
func Default() *Normalizer {
	n, err := New(DefaultTables(), Options{})
	if err != nil {
		panic(fmt.Sprintf("default normalization tables do not compile: %v", err))
	}
	return n
}

// Version returns the version of the tables the Normalizer was built from.
func (n *Normalizer) Version() string {
	return n.version
}

// DefaultCountry returns the configured fallback country.
func (n *Normalizer) DefaultCountry() string {
	return n.defaultCountry
}

func addAlias(exact, folded map[string]string, variant, canonical string) {
	key := strings.ToLower(strings.TrimSpace(variant))
	if key == "" {
		return
	}
	if _, ok := exact[key]; !ok {
		exact[key] = canonical
	}
	fk := fold(key)
	if _, ok := folded[fk]; !ok {
		folded[fk] = canonical
	}
}

func lookup(exact, folded map[string]string, key string) (string, bool) {
	if v, ok := exact[key]; ok {
		return v, true
	}
	v, ok := folded[fold(key)]
	return v, ok
}

func compileAll(patterns []string) ([]*regexp.Regexp, error) {
	out := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile(`(?i)` + p)
		if err != nil {
			return nil, fmt.Errorf("%q: %w", p, err)
		}
		out = append(out, re)
	}
	return out, nil
}

func compileRules(rules []Rule) ([]compiledRule, error) {
	out := make([]compiledRule, 0, len(rules))
	for _, r := range rules {
		re, err := regexp.Compile(`(?i)` + r.Pattern)
		if err != nil {
			return nil, fmt.Errorf("%q: %w", r.Pattern, err)
		}
		out = append(out, compiledRule{re: re, value: r.Value})
	}
	return out, nil
}

func matchRule(rules []compiledRule, s string) string {
	for _, r := range rules {
		if r.re.MatchString(s) {
			return r.value
		}
	}
	return ""
}

func toSet(words []string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[strings.ToLower(w)] = struct{}{}
	}
	return set
}

func lowerAll(words []string) []string {
	out := make([]string, len(words))
	for i, w := range words {
		out[i] = strings.ToLower(w)
	}
	return out
}
