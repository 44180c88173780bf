package crawling

import (
	"testing"

	"github.com/jonathan/careers-sync/internal/classify"
	"github.com/jonathan/careers-sync/internal/normalize"
	"github.com/jonathan/careers-sync/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnricher_Enrich(t *testing.T) {
	raw := types.NewRawRecord("https://bank.example/offres/1")
	raw.Set(types.FieldTitle, "  Data   Engineer ")
	raw.Set(types.FieldExternalID, "REF-1")
	raw.Set(types.FieldContractType, "CDI")
	raw.Set(types.FieldPublicationDate, "Date de publication : 15/03/2025")
	raw.Set(types.FieldLocation, "85609 Aschheim - Allemagne")
	raw.Set(types.FieldEducationLevel, "bac+5")
	raw.Set(types.FieldExperienceLevel, "5-10 years")
	raw.Set(types.FieldJobFamily, "Technologies")
	raw.Set(types.FieldDescription, "Line 1\n\n\n\nLine 2")
	raw.Append(types.ListTechnicalSkills, " SQL ", "sql", "", "Python")

	p, err := testEnricher().Enrich(raw)
	require.NoError(t, err)

	assert.Equal(t, "Data Engineer", p.Title)
	assert.Equal(t, "REF-1", p.ExternalID)
	assert.Equal(t, "2025-03-15", p.PublicationDate)
	assert.Equal(t, "Aschheim - Allemagne", p.Location)
	assert.Equal(t, normalize.EducationBac5, p.EducationLevel)
	assert.Equal(t, normalize.ExperienceSenior, p.ExperienceLevel)
	assert.Equal(t, "IT, Digital et Data", p.JobFamily)
	assert.Equal(t, "Line 1\n\nLine 2", p.Description)
	assert.Equal(t, []string{"SQL", "Python"}, p.TechnicalSkills)
	assert.Equal(t, "Banque Test", p.EmployerName)
	assert.Equal(t, types.StatusLive, p.Status)
	assert.True(t, p.IsValid)
}

func TestEnricher_Fallbacks(t *testing.T) {
	e := testEnricher()

	tests := []struct {
		name   string
		fields map[string]string
		check  func(t *testing.T, p *types.JobPosting)
	}{
		{
			name:   "source family kept when taxonomy has no match",
			fields: map[string]string{types.FieldTitle: "Chef de cuisine", types.FieldJobFamily: "Restauration"},
			check: func(t *testing.T, p *types.JobPosting) {
				assert.Equal(t, "Restauration", p.JobFamily)
			},
		},
		{
			name:   "other when nothing matches",
			fields: map[string]string{types.FieldTitle: "Chef de cuisine"},
			check: func(t *testing.T, p *types.JobPosting) {
				assert.Equal(t, classify.Other, p.JobFamily)
			},
		},
		{
			name:   "education inferred from description",
			fields: map[string]string{types.FieldTitle: "Analyste", types.FieldDescription: "Vous êtes titulaire d'un Bac+3 en gestion"},
			check: func(t *testing.T, p *types.JobPosting) {
				assert.Equal(t, normalize.EducationBac3, p.EducationLevel)
			},
		},
		{
			name:   "city and country scraped separately",
			fields: map[string]string{types.FieldTitle: "Analyste", types.FieldCity: "1010 Lausanne", types.FieldCountry: "Switzerland"},
			check: func(t *testing.T, p *types.JobPosting) {
				assert.Equal(t, "Lausanne - Suisse", p.Location)
			},
		},
		{
			name:   "no location at all stays empty",
			fields: map[string]string{types.FieldTitle: "Analyste"},
			check: func(t *testing.T, p *types.JobPosting) {
				assert.Equal(t, "", p.Location)
			},
		},
		{
			name:   "internship forces junior",
			fields: map[string]string{types.FieldTitle: "Stagiaire Audit", types.FieldContractType: "Stage", types.FieldExperienceLevel: "5 ans"},
			check: func(t *testing.T, p *types.JobPosting) {
				assert.Equal(t, normalize.ExperienceJunior, p.ExperienceLevel)
			},
		},
		{
			name:   "empty record is invalid",
			fields: map[string]string{types.FieldContractType: "CDI"},
			check: func(t *testing.T, p *types.JobPosting) {
				assert.False(t, p.IsValid)
			},
		},
		{
			name:   "scraped employer wins over default",
			fields: map[string]string{types.FieldTitle: "Analyste", types.FieldEmployerName: "CACIB"},
			check: func(t *testing.T, p *types.JobPosting) {
				assert.Equal(t, "CACIB", p.EmployerName)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := types.NewRawRecord("https://bank.example/offres/1")
			for k, v := range tt.fields {
				raw.Set(k, v)
			}
			p, err := e.Enrich(raw)
			require.NoError(t, err)
			tt.check(t, p)
		})
	}
}

func TestEnricher_RequiresURL(t *testing.T) {
	_, err := testEnricher().Enrich(types.NewRawRecord(""))
	assert.Error(t, err)

	_, err = testEnricher().Enrich(nil)
	assert.Error(t, err)
}

func TestEnricher_RederiveIsIdempotent(t *testing.T) {
	e := testEnricher()
	stored := &types.JobPosting{
		URL:             "https://bank.example/offres/1",
		Title:           "Senior Manager Audit",
		ContractType:    "CDI",
		Location:        "Milano (Italia)",
		EducationLevel:  "Master",
		ExperienceLevel: "Senior",
		JobFamily:       "Audit interne",
	}

	first := e.Rederive(stored)
	assert.Equal(t, types.NormalizedFields{
		Location:        e.normalizer.Location("Milano (Italia)"),
		EducationLevel:  normalize.EducationBac5,
		ExperienceLevel: normalize.ExperienceExpert,
		JobFamily:       "Inspection / Audit",
	}, first)

	next := *stored
	next.Location = first.Location
	next.EducationLevel = first.EducationLevel
	next.ExperienceLevel = first.ExperienceLevel
	next.JobFamily = first.JobFamily
	assert.Equal(t, first, e.Rederive(&next))
}

func TestEnricher_RederiveClearsStaleCategory(t *testing.T) {
	e := testEnricher()

	tests := []struct {
		name   string
		family string
		want   string
	}{
		{name: "category from an older taxonomy is dropped", family: "Inspection / Audit", want: classify.Other},
		{name: "source family is kept", family: "Restauration", want: "Restauration"},
		{name: "other stays other", family: classify.Other, want: classify.Other},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stored := &types.JobPosting{URL: "https://bank.example/offres/1", Title: "Chef de cuisine", JobFamily: tt.family}
			got := e.Rederive(stored)
			assert.Equal(t, tt.want, got.JobFamily)

			stored.JobFamily = got.JobFamily
			assert.Equal(t, got, e.Rederive(stored))
		})
	}
}
