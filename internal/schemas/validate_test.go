package schemas

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validPosting = `{
	"url": "https://jobs.example.com/1",
	"external_id": "REF-1",
	"title": "Data Engineer",
	"location": "Paris - France",
	"job_family": "IT, Digital et Data",
	"education_level": "Bac + 5 / M2 et plus",
	"experience_level": "3 - 5 ans",
	"technical_skills": ["SQL", "Python"],
	"behavioral_skills": [],
	"status": "Live",
	"is_valid": true,
	"first_seen": "2025-03-01T10:00:00Z",
	"last_updated": "2025-03-02T10:00:00Z",
	"scrape_attempts": 1
}`

func TestValidateJobPostings(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr bool
	}{
		{name: "empty export", doc: `[]`},
		{name: "one posting", doc: `[` + validPosting + `]`},
		{name: "not an array", doc: validPosting, wantErr: true},
		{name: "missing url", doc: `[{"title": "x"}]`, wantErr: true},
		{name: "unknown status", doc: `[{"url": "u", "title": "", "location": "", "job_family": "", "education_level": "", "experience_level": "", "status": "Gone", "is_valid": true, "first_seen": "2025-03-01T10:00:00Z", "last_updated": "2025-03-01T10:00:00Z", "scrape_attempts": 0}]`, wantErr: true},
		{name: "non canonical education", doc: `[{"url": "u", "title": "", "location": "", "job_family": "", "education_level": "Master", "experience_level": "", "status": "Live", "is_valid": true, "first_seen": "2025-03-01T10:00:00Z", "last_updated": "2025-03-01T10:00:00Z", "scrape_attempts": 0}]`, wantErr: true},
		{name: "null list", doc: `[{"url": "u", "title": "", "location": "", "job_family": "", "education_level": "", "experience_level": "", "tools": null, "status": "Live", "is_valid": true, "first_seen": "2025-03-01T10:00:00Z", "last_updated": "2025-03-01T10:00:00Z", "scrape_attempts": 0}]`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateJobPostings([]byte(tt.doc))
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.NotEmpty(t, verr.Errors)
		})
	}
}

func TestValidateJobPostings_Malformed(t *testing.T) {
	err := ValidateJobPostings([]byte("{ invalid json }"))
	require.Error(t, err)
	var verr *ValidationError
	assert.False(t, errors.As(err, &verr), "a parse failure is not a validation error")
}

func TestValidateJobPostingsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bank_jobs.json")
	require.NoError(t, os.WriteFile(path, []byte(`[`+validPosting+`]`), 0644))

	assert.NoError(t, ValidateJobPostingsFile(path))

	err := ValidateJobPostingsFile(filepath.Join(dir, "missing.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestValidateJSONString_Valid(t *testing.T) {
	schemaContent := `{
		"$schema": "http://json-schema.org/draft-07/schema#",
		"type": "object",
		"required": ["name"],
		"properties": {
			"name": {"type": "string"}
		}
	}`

	err := ValidateJSONString(schemaContent, `{"name": "test"}`)
	assert.NoError(t, err)
}

func TestValidateJSONString_Invalid(t *testing.T) {
	schemaContent := `{
		"$schema": "http://json-schema.org/draft-07/schema#",
		"type": "object",
		"required": ["name"],
		"properties": {
			"name": {"type": "string"}
		}
	}`

	err := ValidateJSONString(schemaContent, `{"age": 30}`)
	require.Error(t, err)

	validationErr, ok := err.(*ValidationError)
	require.True(t, ok)
	assert.Greater(t, len(validationErr.Errors), 0)
}

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{
		Errors: []FieldError{
			{Field: "url", Message: "is required"},
			{Field: "status", Message: "must be one of the following"},
		},
	}

	errorMsg := err.Error()
	assert.Contains(t, errorMsg, "validation failed")
	assert.Contains(t, errorMsg, "url")
	assert.Contains(t, errorMsg, "status")
}
