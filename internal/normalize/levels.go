package normalize

import (
	"regexp"
	"strconv"
	"strings"
)

const yearsUnit = `\s*(?:ans?|years?|yrs?)\b`

var (
	yearsRange    = regexp.MustCompile(`(?i)(\d{1,2})\s*(?:-|–|à|a|to)\s*(\d{1,2})\s*\+?` + yearsUnit)
	yearsMoreThan = regexp.MustCompile(`(?i)(?:plus\s+de|more\s+than|over)\s*(\d{1,2})\s*\+?` + yearsUnit)
	yearsAtLeast  = regexp.MustCompile(`(?i)(?:au\s+moins|at\s+least|minimum|min\.?)\s*(\d{1,2})\s*\+?` + yearsUnit)
	yearsLessThan = regexp.MustCompile(`(?i)(?:moins\s+de|less\s+than|under)\s*\d{1,2}` + yearsUnit)
	yearsSingle   = regexp.MustCompile(`(?i)(\d{1,2})\s*\+?` + yearsUnit)
	seniorTitle   = regexp.MustCompile(`(?i)senior\s+manager|manager\s+senior|director|directeur|directrice`)
)

// Education maps a structured education requirement to the education vocabulary.
// Unrecognized values yield "".
func (n *Normalizer) Education(raw string) string {
	s := collapseSpaces(raw)
	if s == "" {
		return ""
	}
	for _, level := range EducationLevels {
		if strings.EqualFold(s, level) {
			return level
		}
	}
	return matchRule(n.educationRules, s)
}

// InferEducation scans free text (typically the description) for an explicit
// degree requirement. It is narrower than Education to avoid false positives.
func (n *Normalizer) InferEducation(text string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}
	return matchRule(n.educationInference, text)
}

// Experience maps an experience requirement to the experience vocabulary.
// Early-career contracts always map to the junior bucket; otherwise years are
// read from raw, then seniority words from raw and title.
func (n *Normalizer) Experience(raw, title, contractType string) string {
	if n.IsEarlyCareer(contractType) {
		return ExperienceJunior
	}

	s := collapseSpaces(raw)
	for _, level := range ExperienceLevels {
		if strings.EqualFold(s, level) {
			return level
		}
	}

	if level := yearsLevel(s); level != "" {
		return level
	}

	level := matchRule(n.experienceKeywords, s)
	if level == "" {
		level = matchRule(n.experienceKeywords, title)
	}
	if level == ExperienceSenior && seniorTitle.MatchString(title) {
		return ExperienceExpert
	}
	return level
}

// IsEarlyCareer reports whether a contract type is an internship, apprenticeship or VIE.
func (n *Normalizer) IsEarlyCareer(contractType string) bool {
	if strings.TrimSpace(contractType) == "" {
		return false
	}
	return matchesAny(n.earlyCareerContracts, contractType)
}

func yearsLevel(s string) string {
	if s == "" {
		return ""
	}
	if m := yearsRange.FindStringSubmatch(s); m != nil {
		lo, _ := strconv.Atoi(m[1])
		hi, _ := strconv.Atoi(m[2])
		if hi < lo {
			lo, hi = hi, lo
		}
		return bucketYears((lo + hi) / 2)
	}
	if m := yearsMoreThan.FindStringSubmatch(s); m != nil {
		years, _ := strconv.Atoi(m[1])
		return bucketYears(years + 1)
	}
	if m := yearsAtLeast.FindStringSubmatch(s); m != nil {
		years, _ := strconv.Atoi(m[1])
		return bucketYears(years)
	}
	if yearsLessThan.MatchString(s) {
		return ExperienceJunior
	}
	if m := yearsSingle.FindStringSubmatch(s); m != nil {
		years, _ := strconv.Atoi(m[1])
		return bucketYears(years)
	}
	return ""
}

func bucketYears(years int) string {
	switch {
	case years <= 2:
		return ExperienceJunior
	case years <= 5:
		return ExperienceMid
	case years <= 10:
		return ExperienceSenior
	default:
		return ExperienceExpert
	}
}
