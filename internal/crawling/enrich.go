package crawling

import (
	"fmt"

	"github.com/jonathan/careers-sync/internal/classify"
	"github.com/jonathan/careers-sync/internal/normalize"
	"github.com/jonathan/careers-sync/internal/types"
)

// Enricher turns scraped records into normalized, classified postings.
type Enricher struct {
	normalizer   *normalize.Normalizer
	classifier   *classify.Classifier
	categories   map[string]struct{}
	employerName string
}

// NewEnricher creates an Enricher. employerName is used when a record does not
// name its employer.
func NewEnricher(n *normalize.Normalizer, c *classify.Classifier, employerName string) *Enricher {
	categories := make(map[string]struct{})
	for _, name := range c.Categories() {
		categories[name] = struct{}{}
	}
	categories[classify.Other] = struct{}{}
	return &Enricher{normalizer: n, classifier: c, categories: categories, employerName: employerName}
}

// Enrich builds a posting from a raw record. Lifecycle fields are left for the store.
func (e *Enricher) Enrich(raw *types.RawRecord) (*types.JobPosting, error) {
	if raw == nil || raw.URL == "" {
		return nil, fmt.Errorf("record has no URL")
	}

	p := &types.JobPosting{
		URL:                    raw.URL,
		ExternalID:             normalize.Text(raw.Get(types.FieldExternalID)),
		Title:                  normalize.Text(raw.Get(types.FieldTitle)),
		ContractType:           normalize.Text(raw.Get(types.FieldContractType)),
		PublicationDate:        normalize.PublicationDate(raw.Get(types.FieldPublicationDate)),
		Duration:               normalize.Text(raw.Get(types.FieldDuration)),
		ManagementFlag:         normalize.Text(raw.Get(types.FieldManagementFlag)),
		TrainingSpecialization: normalize.Text(raw.Get(types.FieldTrainingSpecialization)),
		TechnicalSkills:        normalize.List(raw.List(types.ListTechnicalSkills)),
		BehavioralSkills:       normalize.List(raw.List(types.ListBehavioralSkills)),
		Tools:                  normalize.List(raw.List(types.ListTools)),
		Languages:              normalize.List(raw.List(types.ListLanguages)),
		Description:            normalize.Description(raw.Get(types.FieldDescription)),
		EmployerName:           normalize.Text(raw.Get(types.FieldEmployerName)),
		EmployerDescription:    normalize.Description(raw.Get(types.FieldEmployerDescription)),
		Status:                 types.StatusLive,
	}
	if p.EmployerName == "" {
		p.EmployerName = e.employerName
	}

	p.Location = e.location(raw)
	p.EducationLevel = e.education(raw.Get(types.FieldEducationLevel), p.Description)
	p.ExperienceLevel = e.normalizer.Experience(raw.Get(types.FieldExperienceLevel), p.Title, p.ContractType)
	p.JobFamily = e.jobFamily(p.Title, p.Description, normalize.Text(raw.Get(types.FieldJobFamily)))
	p.IsValid = p.ComputeValidity()

	return p, nil
}

// Rederive recomputes the derived fields of a stored posting from its stored
// values. Applying it to its own output changes nothing.
func (e *Enricher) Rederive(p *types.JobPosting) types.NormalizedFields {
	f := types.NormalizedFields{
		EducationLevel:  e.education(p.EducationLevel, p.Description),
		ExperienceLevel: e.normalizer.Experience(p.ExperienceLevel, p.Title, p.ContractType),
		JobFamily:       e.jobFamily(p.Title, p.Description, e.sourceFamily(p.JobFamily)),
	}
	if p.Location != "" {
		f.Location = e.normalizer.Location(p.Location)
	}
	return f
}

func (e *Enricher) location(raw *types.RawRecord) string {
	if loc := raw.Get(types.FieldLocation); loc != "" {
		return e.normalizer.Location(loc)
	}
	city, country := raw.Get(types.FieldCity), raw.Get(types.FieldCountry)
	if city == "" && country == "" {
		return ""
	}
	return e.normalizer.LocationParts(city, country)
}

func (e *Enricher) education(field, description string) string {
	if level := e.normalizer.Education(field); level != "" {
		return level
	}
	return e.normalizer.InferEducation(description)
}

// jobFamily prefers the taxonomy and keeps the source's own family when
// nothing in the taxonomy matched.
func (e *Enricher) jobFamily(title, description, sourceFamily string) string {
	family := e.classifier.Classify(title, description)
	if family == classify.Other && sourceFamily != "" {
		return sourceFamily
	}
	return family
}

// sourceFamily returns a stored family only when it came from the source. A
// taxonomy category must be re-earned by the current taxonomy.
func (e *Enricher) sourceFamily(stored string) string {
	if _, ok := e.categories[stored]; ok {
		return ""
	}
	return stored
}
