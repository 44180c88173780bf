package types

import "strings"

// Raw field keys produced by source adapters
const (
	FieldExternalID             = "external_id"
	FieldTitle                  = "title"
	FieldContractType           = "contract_type"
	FieldPublicationDate        = "publication_date"
	FieldLocation               = "location"
	FieldCity                   = "city"
	FieldCountry                = "country"
	FieldJobFamily              = "job_family"
	FieldDuration               = "duration"
	FieldManagementFlag         = "management_flag"
	FieldEducationLevel         = "education_level"
	FieldExperienceLevel        = "experience_level"
	FieldTrainingSpecialization = "training_specialization"
	FieldDescription            = "description"
	FieldEmployerName           = "employer_name"
	FieldEmployerDescription    = "employer_description"

	ListTechnicalSkills  = "technical_skills"
	ListBehavioralSkills = "behavioral_skills"
	ListTools            = "tools"
	ListLanguages        = "languages"
)

// RawRecord is the un-normalized field map an adapter extracts from a detail page.
type RawRecord struct {
	URL    string              `json:"url"`
	Fields map[string]string   `json:"fields"`
	Lists  map[string][]string `json:"lists,omitempty"`
}

// NewRawRecord returns an empty record for url.
func NewRawRecord(url string) *RawRecord {
	return &RawRecord{
		URL:    url,
		Fields: make(map[string]string),
		Lists:  make(map[string][]string),
	}
}

// Get returns the trimmed value of a scalar field.
func (r *RawRecord) Get(key string) string {
	if r == nil || r.Fields == nil {
		return ""
	}
	return strings.TrimSpace(r.Fields[key])
}

// Set stores a scalar field, ignoring blank values so the first non-empty extraction wins.
func (r *RawRecord) Set(key, value string) {
	value = strings.TrimSpace(value)
	if value == "" {
		return
	}
	if r.Fields == nil {
		r.Fields = make(map[string]string)
	}
	if _, exists := r.Fields[key]; exists {
		return
	}
	r.Fields[key] = value
}

// List returns a list field.
func (r *RawRecord) List(key string) []string {
	if r == nil || r.Lists == nil {
		return nil
	}
	return r.Lists[key]
}

// Append adds items to a list field.
func (r *RawRecord) Append(key string, items ...string) {
	if r.Lists == nil {
		r.Lists = make(map[string][]string)
	}
	r.Lists[key] = append(r.Lists[key], items...)
}
