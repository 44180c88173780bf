package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	c := Default()

	tests := []struct {
		name        string
		title       string
		description string
		want        string
	}{
		{name: "data engineer title", title: "Data Engineer", want: "IT, Digital et Data"},
		{name: "no match falls back", title: "Unrelated Title", want: Other},
		{name: "empty input", want: Other},
		{name: "accented keyword in description", title: "Analyste", description: "Vous travaillerez sur la conformité KYC", want: "Conformité / Sécurité financière"},
		{name: "tie keeps taxonomy order", title: "Audit Risk", want: "Risques / Contrôles permanents"},
		{name: "case insensitive", title: "CONTRÔLEUR DE GESTION", want: "Finances / Comptabilité / Contrôle de gestion"},
		{name: "human resources", title: "Chargé de recrutement RH", want: "Ressources Humaines"},
		{name: "purchasing", title: "Acheteur IT", description: "sourcing fournisseurs", want: "Achat"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Classify(tt.title, tt.description))
		})
	}
}

func TestScores_TitleOutweighsDescription(t *testing.T) {
	c, err := New(Taxonomy{
		{Name: "A", Patterns: []string{`\balpha\b`}},
		{Name: "B", Patterns: []string{`\bbeta\b`, `\bgamma\b`}},
	})
	require.NoError(t, err)

	scores := c.Scores("alpha", "beta gamma")
	assert.Equal(t, []Score{{Category: "A", Score: 3}, {Category: "B", Score: 2}}, scores)
	assert.Equal(t, "A", c.Classify("alpha", "beta gamma"))
}

func TestScores_MonotoneInMatches(t *testing.T) {
	c := Default()

	base := c.Scores("Analyste", "suivi des dossiers")
	more := c.Scores("Analyste", "suivi des dossiers compliance")

	require.Len(t, more, len(base))
	for i := range base {
		assert.GreaterOrEqual(t, more[i].Score, base[i].Score, base[i].Category)
	}
	assert.Greater(t, more[4].Score, base[4].Score)
}

func TestNew_Errors(t *testing.T) {
	tests := []struct {
		name     string
		taxonomy Taxonomy
	}{
		{name: "empty name", taxonomy: Taxonomy{{Name: "", Patterns: []string{"x"}}}},
		{name: "duplicate name", taxonomy: Taxonomy{{Name: "A"}, {Name: "A"}}},
		{name: "bad pattern", taxonomy: Taxonomy{{Name: "A", Patterns: []string{"("}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.taxonomy)
			assert.Error(t, err)
		})
	}
}

func TestDefault_Categories(t *testing.T) {
	names := Default().Categories()
	require.Len(t, names, 14)
	assert.Equal(t, "IT, Digital et Data", names[0])
	assert.Equal(t, "Achat", names[13])
}

func TestCompilePattern_UnicodeBoundaries(t *testing.T) {
	re, err := compilePattern(`\bqualité\b`)
	require.NoError(t, err)

	assert.True(t, re.MatchString("démarche qualité groupe"))
	assert.True(t, re.MatchString("Qualité"))
	assert.False(t, re.MatchString("qualités"))
}
