// Package types provides type definitions for structured data shared across the careers-sync pipeline.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"strings"
	"time"
)

// Status is the lifecycle state of a stored posting.
type Status string

// Posting lifecycle states
const (
	StatusLive    Status = "Live"
	StatusExpired Status = "Expired"
)

// Valid reports whether s is a known lifecycle state.
func (s Status) Valid() bool {
	return s == StatusLive || s == StatusExpired
}

// JobPosting is one normalized job listing, keyed by URL within its source.
type JobPosting struct {
	URL                    string   `json:"url"`
	ExternalID             string   `json:"external_id"`
	Title                  string   `json:"title"`
	ContractType           string   `json:"contract_type"`
	PublicationDate        string   `json:"publication_date"`
	Location               string   `json:"location"`
	JobFamily              string   `json:"job_family"`
	Duration               string   `json:"duration"`
	ManagementFlag         string   `json:"management_flag"`
	EducationLevel         string   `json:"education_level"`
	ExperienceLevel        string   `json:"experience_level"`
	TrainingSpecialization string   `json:"training_specialization"`
	TechnicalSkills        []string `json:"technical_skills"`
	BehavioralSkills       []string `json:"behavioral_skills"`
	Tools                  []string `json:"tools"`
	Languages              []string `json:"languages"`
	Description            string   `json:"description"`
	EmployerName           string   `json:"employer_name"`
	EmployerDescription    string   `json:"employer_description"`

	// Lifecycle, owned by the store
	Status         Status    `json:"status"`
	IsValid        bool      `json:"is_valid"`
	FirstSeen      time.Time `json:"first_seen"`
	LastUpdated    time.Time `json:"last_updated"`
	ScrapeAttempts int       `json:"scrape_attempts"`
}

// ComputeValidity reports whether the posting carries enough content to be usable:
// at least one of external ID, title or description must be non-blank.
func (p *JobPosting) ComputeValidity() bool {
	return strings.TrimSpace(p.ExternalID) != "" ||
		strings.TrimSpace(p.Title) != "" ||
		strings.TrimSpace(p.Description) != ""
}

// Clone returns a deep copy of the posting.
func (p *JobPosting) Clone() JobPosting {
	c := *p
	c.TechnicalSkills = cloneStrings(p.TechnicalSkills)
	c.BehavioralSkills = cloneStrings(p.BehavioralSkills)
	c.Tools = cloneStrings(p.Tools)
	c.Languages = cloneStrings(p.Languages)
	return c
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

// NormalizedFields are the derived columns a re-normalization pass may rewrite in place.
type NormalizedFields struct {
	Location        string
	EducationLevel  string
	ExperienceLevel string
	JobFamily       string
}

// Normalized returns the derived fields of the posting.
func (p *JobPosting) Normalized() NormalizedFields {
	return NormalizedFields{
		Location:        p.Location,
		EducationLevel:  p.EducationLevel,
		ExperienceLevel: p.ExperienceLevel,
		JobFamily:       p.JobFamily,
	}
}
