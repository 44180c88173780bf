package export

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jonathan/careers-sync/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

func samplePostings() []types.JobPosting {
	return []types.JobPosting{
		{
			URL:             "https://bank.example/offres/2",
			Title:           "Analyste, \"KYC\"",
			Location:        "Lausanne - Suisse",
			EducationLevel:  "Bac + 3 / L3",
			ExperienceLevel: "0 - 2 ans",
			JobFamily:       "Conformité / Sécurité financière",
			TechnicalSkills: []string{"SQL", "Excel"},
			Description:     "Ligne 1\nLigne 2",
			Status:          types.StatusLive,
			IsValid:         true,
			FirstSeen:       t0,
			LastUpdated:     t0.Add(2 * time.Hour),
			ScrapeAttempts:  2,
		},
		{
			URL:             "https://bank.example/offres/1",
			Title:           "Data Engineer",
			Location:        "Paris - France",
			EducationLevel:  "Bac + 5 / M2 et plus",
			ExperienceLevel: "3 - 5 ans",
			Status:          types.StatusExpired,
			IsValid:         true,
			FirstSeen:       t0,
			LastUpdated:     t0.Add(time.Hour),
		},
	}
}

func TestCSV_RoundTrip(t *testing.T) {
	in := samplePostings()

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, in))

	out, err := ReadCSV(&buf)
	require.NoError(t, err)
	require.Len(t, out, len(in))

	for i := range in {
		assert.Equal(t, in[i].URL, out[i].URL)
		assert.Equal(t, in[i].Title, out[i].Title)
		assert.Equal(t, in[i].Location, out[i].Location)
		assert.Equal(t, in[i].EducationLevel, out[i].EducationLevel)
		assert.Equal(t, in[i].ExperienceLevel, out[i].ExperienceLevel)
		assert.Equal(t, in[i].Description, out[i].Description)
		assert.Equal(t, in[i].TechnicalSkills, out[i].TechnicalSkills)
		assert.Equal(t, in[i].Status, out[i].Status)
		assert.Equal(t, in[i].ScrapeAttempts, out[i].ScrapeAttempts)
		assert.True(t, in[i].FirstSeen.Equal(out[i].FirstSeen))
		assert.True(t, in[i].LastUpdated.Equal(out[i].LastUpdated))
	}
}

func TestWriteCSV_Format(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, samplePostings()[:1]))

	lines := strings.SplitN(buf.String(), "\n", 2)
	assert.Equal(t, strings.Join(Columns, ","), lines[0])
	assert.Contains(t, lines[1], "SQL; Excel")
	assert.Contains(t, lines[1], "2025-03-01T10:00:00Z")
}

func TestCSV_ListItemsKeepSemicolons(t *testing.T) {
	in := samplePostings()[:1]
	in[0].Tools = []string{"T-SQL;PL/SQL", "Excel"}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, in))

	out, err := ReadCSV(&buf)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, []string{"T-SQL;PL/SQL", "Excel"}, out[0].Tools)
}

func TestReadCSV_Errors(t *testing.T) {
	tests := []struct {
		name string
		csv  string
	}{
		{name: "no url column", csv: "title\nx\n"},
		{name: "empty url", csv: "url,title\n,x\n"},
		{name: "bad status", csv: "url,status\nhttps://x/1,Gone\n"},
		{name: "bad timestamp", csv: "url,first_seen\nhttps://x/1,yesterday\n"},
		{name: "ragged row", csv: "url,title\nhttps://x/1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadCSV(strings.NewReader(tt.csv))
			assert.Error(t, err)
		})
	}
}

func TestReadCSV_MinimalColumns(t *testing.T) {
	out, err := ReadCSV(strings.NewReader("url,title,tools\nhttps://x/1,Analyste,\n"))
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, types.StatusLive, out[0].Status)
	assert.True(t, out[0].IsValid)
	assert.Nil(t, out[0].Tools)

	empty, err := ReadCSV(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestWriteLiveJSON_ExcludesExpired(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteLiveJSON(&buf, samplePostings()))

	var out []types.JobPosting
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	require.Len(t, out, 1)
	assert.Equal(t, types.StatusLive, out[0].Status)
}

func TestWriteJSON_EmptyListsAreArrays(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, samplePostings()[1:]))
	assert.Contains(t, buf.String(), `"tools": []`)
	assert.NotContains(t, buf.String(), "null")

	buf.Reset()
	require.NoError(t, WriteJSON(&buf, nil))
	assert.Equal(t, "[]\n", buf.String())
}

func TestMaterialize(t *testing.T) {
	dir := t.TempDir()
	records := append(samplePostings(), types.JobPosting{URL: "https://bank.example/offres/3", Status: types.StatusLive})

	a, err := Materialize(dir, "bank", records)
	require.NoError(t, err)
	assert.Equal(t, 2, a.Records, "invalid records are not exported")
	assert.Equal(t, 1, a.Live)
	assert.Equal(t, filepath.Join(dir, "bank_jobs.csv"), a.CSV)

	for _, path := range []string{a.CSV, a.JSON, a.LiveJSON} {
		_, err := os.Stat(path)
		assert.NoError(t, err, path)
	}

	data, err := os.ReadFile(a.JSON)
	require.NoError(t, err)
	var out []types.JobPosting
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, "https://bank.example/offres/2", out[0].URL, "order is preserved")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 3, "no temp files are left behind")
}

func TestMaterialize_RejectsNonCanonicalValues(t *testing.T) {
	records := []types.JobPosting{{URL: "https://x/1", Title: "t", EducationLevel: "Master", Status: types.StatusLive, IsValid: true}}
	_, err := Materialize(t.TempDir(), "bank", records)
	assert.Error(t, err)
}

func TestMerge(t *testing.T) {
	a := samplePostings()
	dup := a[1]
	dup.LastUpdated = t0.Add(5 * time.Hour)
	dup.Title = "newer copy"

	merged := Merge(map[string][]types.JobPosting{
		"bank":  a,
		"other": {dup, {URL: "https://other.example/9", LastUpdated: t0}},
	})

	require.Len(t, merged, 3)
	assert.Equal(t, "newer copy", merged[0].Title)
	assert.Equal(t, "https://bank.example/offres/2", merged[1].URL)
	assert.Equal(t, "https://other.example/9", merged[2].URL)
}

func TestMaterializeMerged(t *testing.T) {
	dir := t.TempDir()
	a, err := MaterializeMerged(dir, map[string][]types.JobPosting{"bank": samplePostings()})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "all_jobs.json"), a.JSON)
}
