package normalize

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	locationLabel    = regexp.MustCompile(`(?i)^\s*(?:lieu|location|localisation|localization|ville|city)\s*:\s*`)
	postalCity       = regexp.MustCompile(`\b(\d{4,6})\s+(\pL[\pL'-]*(?:\s+\pL[\pL'-]*)?)\s*$`)
	parenthetical    = regexp.MustCompile(`\([^)]*\)`)
	standalonePostal = regexp.MustCompile(`\b\d{5,6}\b`)
	specialChars     = regexp.MustCompile(`[#º"“”«»]`)
	trailingClause   = regexp.MustCompile(`\s+(?:with|and|or|avec|des|et|ou)(?:\s.*)?$|\s*[–—].*$|\s+-\s.*$`)
	digitRun         = regexp.MustCompile(`\d{4,}`)
	onlyDigits       = regexp.MustCompile(`^\d+$`)
	digitsThenWord   = regexp.MustCompile(`^\d+\s+\S+$`)
	digitsThenLetter = regexp.MustCompile(`^\d+[a-z]?$`)
	hasDigit         = regexp.MustCompile(`\d`)
	parenCountry     = regexp.MustCompile(`^(.*?)\s*\(([^)]+)\)\s*$`)
	quoteChars       = `"'“”«»`
)

// City canonicalizes a raw city string. The second result is false when the value
// is rejected, in which case the caller falls back to the country.
func (n *Normalizer) City(raw string) (string, bool) {
	s := strings.Trim(strings.TrimSpace(raw), quoteChars)
	s = locationLabel.ReplaceAllString(s, "")
	s = strings.ToLower(collapseSpaces(s))
	if s == "" {
		return "", false
	}

	if canonical, ok := n.cityAliases[s]; ok {
		return canonical, true
	}
	if _, isCountry := n.countryWords[s]; isCountry {
		return "", false
	}

	// A trailing postal code followed by a name resolves the city and wins over
	// every address heuristic.
	postalMatched := false
	if m := postalCity.FindStringSubmatch(s); m != nil {
		s = m[2]
		postalMatched = true
	}

	if !postalMatched {
		for _, re := range n.rejectPatterns {
			if re.MatchString(s) {
				return "", false
			}
		}

		isAddress := matchesAny(n.addressPatterns, s)
		isCompany := matchesAny(n.companyPatterns, s)
		if isAddress || isCompany {
			salvaged, ok := n.salvage(s, isCompany)
			if !ok {
				return "", false
			}
			s = salvaged
		}
	}

	s = parenthetical.ReplaceAllString(s, "")
	if !postalMatched {
		s = standalonePostal.ReplaceAllString(s, "")
	}
	s = specialChars.ReplaceAllString(s, "")
	if i := strings.IndexAny(s, "/,"); i >= 0 {
		s = s[:i]
	}
	s = trailingClause.ReplaceAllString(s, "")
	s = strings.Trim(collapseSpaces(s), " -.;:")
	if s == "" {
		return "", false
	}

	if canonical, ok := lookup(n.cityAliases, n.foldedCityAliases, s); ok {
		return canonical, true
	}

	if !n.plausibleCity(s) {
		return "", false
	}
	return titleCase(s), true
}

// salvage recovers a city from an address or company string.
func (n *Normalizer) salvage(s string, isCompany bool) (string, bool) {
	tokens := strings.Fields(strings.NewReplacer(",", " ", "/", " ", "(", " ", ")", " ").Replace(s))

	for _, city := range n.salvageCities {
		words := strings.Fields(city)
		for i := 0; i+len(words) <= len(tokens); i++ {
			if !tokensEqual(tokens[i:i+len(words)], words) {
				continue
			}
			found := strings.Join(words, " ")
			// Keep a following word only when it forms a known multi-word city.
			if next := i + len(words); next < len(tokens) {
				if _, ok := n.cityAliases[found+" "+tokens[next]]; ok {
					found += " " + tokens[next]
				}
			}
			return found, true
		}
	}

	for i := range tokens {
		for size := 3; size >= 1; size-- {
			if i+size > len(tokens) {
				continue
			}
			key := strings.Trim(strings.Join(tokens[i:i+size], " "), ".;:")
			if _, ok := n.cityAliases[key]; ok {
				return key, true
			}
		}
	}

	if isCompany {
		return "", false
	}

	residual := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		// Without a known city, a street name is never a city.
		if _, street := n.streetWords[strings.Trim(tok, ".;:")]; street {
			return "", false
		}
		if hasDigit.MatchString(tok) {
			continue
		}
		if _, noise := n.noiseWords[tok]; noise {
			continue
		}
		residual = append(residual, tok)
	}
	if len(residual) == 0 || len(residual) > 2 {
		return "", false
	}
	return strings.Join(residual, " "), true
}

func (n *Normalizer) plausibleCity(s string) bool {
	if utf8.RuneCountInString(s) > maxCityLength {
		return false
	}
	if digitRun.MatchString(s) || onlyDigits.MatchString(s) ||
		digitsThenWord.MatchString(s) || digitsThenLetter.MatchString(s) {
		return false
	}
	if _, invalid := n.invalidWords[s]; invalid {
		return false
	}
	for _, kw := range n.invalidKeywords {
		if strings.Contains(s, kw) {
			return false
		}
	}
	if _, isCountry := n.countryWords[s]; isCountry {
		return false
	}
	// A surviving address or company marker means the value is still noise.
	return !matchesAny(n.rejectPatterns, s) &&
		!matchesAny(n.addressPatterns, s) &&
		!matchesAny(n.companyPatterns, s)
}

// Country canonicalizes a raw country string to its French display name.
// Numeric codes map to the default country; unknown names are Title-Cased.
func (n *Normalizer) Country(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "- ")
	s = collapseSpaces(strings.Trim(s, quoteChars+" -"))
	if s == "" {
		return ""
	}
	if onlyDigits.MatchString(s) {
		return n.defaultCountry
	}
	if i := strings.LastIndex(s, ","); i >= 0 {
		s = strings.TrimSpace(s[i+1:])
		if s == "" {
			return ""
		}
	}
	if canonical, ok := lookup(n.countryAliases, n.foldedCountries, strings.ToLower(s)); ok {
		return canonical
	}
	return titleCase(s)
}

// Combine applies the display rule for a location: "City - Country" when a city
// survived, otherwise the country in both slots.
func (n *Normalizer) Combine(city string, ok bool, country string) string {
	if country == "" {
		country = n.defaultCountry
	}
	if !ok || city == "" {
		return country + " - " + country
	}
	return city + " - " + country
}

// LocationParts normalizes separately scraped city and country values.
func (n *Normalizer) LocationParts(rawCity, rawCountry string) string {
	city, ok := n.City(rawCity)
	return n.Combine(city, ok, n.Country(rawCountry))
}

// Location parses a single free-text location such as "Paris - France",
// "Milan (Italie)" or "Luxembourg" and returns its canonical display form.
func (n *Normalizer) Location(raw string) string {
	s := strings.Trim(strings.TrimSpace(raw), quoteChars)
	s = collapseSpaces(locationLabel.ReplaceAllString(s, ""))
	if s == "" {
		return n.Combine("", false, "")
	}

	var cityPart, countryPart string
	switch {
	case strings.Contains(s, " - "):
		parts := strings.Split(s, " - ")
		cityPart = parts[0]
		countryPart = parts[len(parts)-1]
	case parenCountry.MatchString(s):
		m := parenCountry.FindStringSubmatch(s)
		cityPart, countryPart = m[1], m[2]
	default:
		cityPart = s
		for i, re := range n.locationCountries {
			loc := re.FindStringSubmatchIndex(s)
			if loc == nil {
				continue
			}
			countryPart = n.locationNames[i]
			cityPart = strings.Trim(s[:loc[2]]+" "+s[loc[3]:], " ,-")
			break
		}
	}

	city, ok := n.City(cityPart)
	return n.Combine(city, ok, n.Country(countryPart))
}

func matchesAny(res []*regexp.Regexp, s string) bool {
	for _, re := range res {
		if re.MatchString(s) {
			return true
		}
	}
	return false
}

func tokensEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if strings.Trim(a[i], ".;:") != b[i] {
			return false
		}
	}
	return true
}
