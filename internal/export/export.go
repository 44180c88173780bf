// Package export materializes stored postings as CSV and JSON artifacts and
// reads CSV artifacts back.
package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/jonathan/careers-sync/internal/schemas"
	"github.com/jonathan/careers-sync/internal/store"
	"github.com/jonathan/careers-sync/internal/types"
)

// ListDelimiter joins list-valued fields in CSV cells. An item that itself
// contains the delimiter is split on import.
const ListDelimiter = "; "

// MergedName is the file stem of merged artifacts.
const MergedName = "all"

// Columns is the CSV header, in order.
var Columns = []string{
	"url", "external_id", "title", "contract_type", "publication_date", "location",
	"job_family", "duration", "management_flag", "education_level", "experience_level",
	"training_specialization", "technical_skills", "behavioral_skills", "tools", "languages",
	"description", "employer_name", "employer_description",
	"status", "is_valid", "first_seen", "last_updated", "scrape_attempts",
}

// Artifacts lists the files written for one source.
type Artifacts struct {
	Source   string `json:"source"`
	CSV      string `json:"csv"`
	JSON     string `json:"json"`
	LiveJSON string `json:"live_json"`
	Records  int    `json:"records"`
	Live     int    `json:"live"`
}

// WriteCSV writes one row per record with a header row.
func WriteCSV(w io.Writer, records []types.JobPosting) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for i := range records {
		if err := cw.Write(row(&records[i])); err != nil {
			return fmt.Errorf("failed to write CSV row %s: %w", records[i].URL, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}
	return nil
}

func row(p *types.JobPosting) []string {
	return []string{
		p.URL, p.ExternalID, p.Title, p.ContractType, p.PublicationDate, p.Location,
		p.JobFamily, p.Duration, p.ManagementFlag, p.EducationLevel, p.ExperienceLevel,
		p.TrainingSpecialization,
		strings.Join(p.TechnicalSkills, ListDelimiter),
		strings.Join(p.BehavioralSkills, ListDelimiter),
		strings.Join(p.Tools, ListDelimiter),
		strings.Join(p.Languages, ListDelimiter),
		p.Description, p.EmployerName, p.EmployerDescription,
		string(p.Status), strconv.FormatBool(p.IsValid),
		formatTime(p.FirstSeen), formatTime(p.LastUpdated),
		strconv.Itoa(p.ScrapeAttempts),
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

// ReadCSV parses a CSV artifact. Values are taken as they are: no
// normalization is applied.
func ReadCSV(r io.Reader) ([]types.JobPosting, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err == io.EOF {
		return []types.JobPosting{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))] = i
	}
	if _, ok := index["url"]; !ok {
		return nil, fmt.Errorf("CSV header has no url column")
	}
	cr.FieldsPerRecord = len(header)

	records := []types.JobPosting{}
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV line %d: %w", line, err)
		}
		p, err := parseRow(rec, index)
		if err != nil {
			return nil, fmt.Errorf("invalid CSV line %d: %w", line, err)
		}
		records = append(records, p)
	}
	return records, nil
}

func parseRow(rec []string, index map[string]int) (types.JobPosting, error) {
	get := func(col string) string {
		if i, ok := index[col]; ok {
			return rec[i]
		}
		return ""
	}

	p := types.JobPosting{
		URL:                    get("url"),
		ExternalID:             get("external_id"),
		Title:                  get("title"),
		ContractType:           get("contract_type"),
		PublicationDate:        get("publication_date"),
		Location:               get("location"),
		JobFamily:              get("job_family"),
		Duration:               get("duration"),
		ManagementFlag:         get("management_flag"),
		EducationLevel:         get("education_level"),
		ExperienceLevel:        get("experience_level"),
		TrainingSpecialization: get("training_specialization"),
		TechnicalSkills:        splitList(get("technical_skills")),
		BehavioralSkills:       splitList(get("behavioral_skills")),
		Tools:                  splitList(get("tools")),
		Languages:              splitList(get("languages")),
		Description:            get("description"),
		EmployerName:           get("employer_name"),
		EmployerDescription:    get("employer_description"),
		Status:                 types.Status(get("status")),
	}
	if p.URL == "" {
		return p, fmt.Errorf("empty url")
	}
	if p.Status == "" {
		p.Status = types.StatusLive
	}
	if !p.Status.Valid() {
		return p, fmt.Errorf("unknown status %q", p.Status)
	}

	var err error
	if v := get("is_valid"); v != "" {
		if p.IsValid, err = strconv.ParseBool(v); err != nil {
			return p, fmt.Errorf("is_valid: %w", err)
		}
	} else {
		p.IsValid = p.ComputeValidity()
	}
	if p.FirstSeen, err = parseTime(get("first_seen")); err != nil {
		return p, fmt.Errorf("first_seen: %w", err)
	}
	if p.LastUpdated, err = parseTime(get("last_updated")); err != nil {
		return p, fmt.Errorf("last_updated: %w", err)
	}
	if v := get("scrape_attempts"); v != "" {
		if p.ScrapeAttempts, err = strconv.Atoi(v); err != nil {
			return p, fmt.Errorf("scrape_attempts: %w", err)
		}
	}
	return p, nil
}

func parseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339, s)
}

func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ListDelimiter)
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if v := strings.TrimSpace(part); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// jsonPosting renders nil lists as empty arrays.
func jsonPosting(p types.JobPosting) types.JobPosting {
	c := p.Clone()
	for _, l := range []*[]string{&c.TechnicalSkills, &c.BehavioralSkills, &c.Tools, &c.Languages} {
		if *l == nil {
			*l = []string{}
		}
	}
	return c
}

// WriteJSON writes records as an indented JSON array.
func WriteJSON(w io.Writer, records []types.JobPosting) error {
	out := make([]types.JobPosting, 0, len(records))
	for _, p := range records {
		out = append(out, jsonPosting(p))
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// WriteLiveJSON writes only the Live records.
func WriteLiveJSON(w io.Writer, records []types.JobPosting) error {
	return WriteJSON(w, Live(records))
}

// Live filters records down to those with status Live.
func Live(records []types.JobPosting) []types.JobPosting {
	out := make([]types.JobPosting, 0, len(records))
	for _, p := range records {
		if p.Status == types.StatusLive {
			out = append(out, p)
		}
	}
	return out
}

// Materialize writes <name>_jobs.csv, <name>_jobs.json and
// <name>_jobs_live.json into dir. Invalid records are dropped. Both JSON
// artifacts are validated against the export schema before they replace
// existing files.
func Materialize(dir, name string, records []types.JobPosting) (*Artifacts, error) {
	valid := make([]types.JobPosting, 0, len(records))
	for _, p := range records {
		if p.IsValid {
			valid = append(valid, p)
		}
	}
	live := Live(valid)

	var csvBuf, jsonBuf, liveBuf bytes.Buffer
	if err := WriteCSV(&csvBuf, valid); err != nil {
		return nil, err
	}
	if err := WriteJSON(&jsonBuf, valid); err != nil {
		return nil, err
	}
	if err := WriteJSON(&liveBuf, live); err != nil {
		return nil, err
	}
	if err := schemas.ValidateJobPostings(jsonBuf.Bytes()); err != nil {
		return nil, fmt.Errorf("export for %s does not match schema: %w", name, err)
	}
	if err := schemas.ValidateJobPostings(liveBuf.Bytes()); err != nil {
		return nil, fmt.Errorf("live export for %s does not match schema: %w", name, err)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create export directory: %w", err)
	}
	a := &Artifacts{
		Source:   name,
		CSV:      filepath.Join(dir, name+"_jobs.csv"),
		JSON:     filepath.Join(dir, name+"_jobs.json"),
		LiveJSON: filepath.Join(dir, name+"_jobs_live.json"),
		Records:  len(valid),
		Live:     len(live),
	}
	for path, data := range map[string][]byte{a.CSV: csvBuf.Bytes(), a.JSON: jsonBuf.Bytes(), a.LiveJSON: liveBuf.Bytes()} {
		if err := writeFileAtomic(path, data); err != nil {
			return nil, err
		}
	}
	return a, nil
}

// Merge combines the records of several sources, most recently updated
// first. A URL present in several sources is kept once, from its most recent
// record.
func Merge(bySource map[string][]types.JobPosting) []types.JobPosting {
	var all []types.JobPosting
	for _, records := range bySource {
		all = append(all, records...)
	}
	store.SortByRecency(all)

	seen := make(map[string]struct{}, len(all))
	out := make([]types.JobPosting, 0, len(all))
	for _, p := range all {
		if _, dup := seen[p.URL]; dup {
			continue
		}
		seen[p.URL] = struct{}{}
		out = append(out, p)
	}
	return out
}

// MaterializeMerged writes the all_jobs.* artifacts.
func MaterializeMerged(dir string, bySource map[string][]types.JobPosting) (*Artifacts, error) {
	return Materialize(dir, MergedName, Merge(bySource))
}

func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create temp file for %s: %w", path, err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to move %s into place: %w", path, err)
	}
	return nil
}
