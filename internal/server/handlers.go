package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/jonathan/careers-sync/internal/db"
	"github.com/jonathan/careers-sync/internal/store"
	"github.com/jonathan/careers-sync/internal/types"
)

// Paging bounds for list endpoints
const (
	defaultPostingLimit = 100
	maxPostingLimit     = 1000
	maxRunLimit         = 500
)

// ListSourcesResponse represents the response for listing sources
type ListSourcesResponse struct {
	Sources []string `json:"sources"`
	Count   int      `json:"count"`
}

// ListPostingsResponse represents the response for listing a source's postings
type ListPostingsResponse struct {
	Source   string             `json:"source"`
	Status   string             `json:"status,omitempty"`
	Postings []types.JobPosting `json:"postings"`
	Count    int                `json:"count"`
	Limit    int                `json:"limit"`
}

// StatsResponse represents the response for a source's record counts
type StatsResponse struct {
	Source string `json:"source"`
	*types.StoreStats
}

// ListRunsResponse represents the response for listing runs
type ListRunsResponse struct {
	Runs  []db.Run `json:"runs"`
	Count int      `json:"count"`
}

// parseQueryInt reads a non-negative integer query parameter, capped at maxValue when positive
func parseQueryInt(r *http.Request, key string, defaultValue, maxValue int) (int, error) {
	valStr := r.URL.Query().Get(key)
	if valStr == "" {
		return defaultValue, nil
	}
	val, err := strconv.Atoi(valStr)
	if err != nil || val < 0 {
		return 0, &ErrValidation{Field: key, Message: "must be a non-negative integer"}
	}
	if maxValue > 0 && val > maxValue {
		return maxValue, nil
	}
	return val, nil
}

// parseStatus maps the status query parameter to a posting status
func parseStatus(raw string) (types.Status, error) {
	switch strings.ToLower(raw) {
	case "":
		return "", nil
	case "live":
		return types.StatusLive, nil
	case "expired":
		return types.StatusExpired, nil
	default:
		return "", &ErrValidation{Field: "status", Message: "must be live or expired"}
	}
}

// sourceParam reads and validates the {source} path value
func sourceParam(r *http.Request) (string, error) {
	source := r.PathValue("source")
	if err := store.ValidateSourceName(source); err != nil {
		return "", &ErrValidation{Field: "source", Message: err.Error()}
	}
	return source, nil
}

// handleListSources lists every source that has a table
func (s *Server) handleListSources(w http.ResponseWriter, r *http.Request) {
	names, err := s.postings.ListSources(r.Context())
	if err != nil {
		s.fail(w, err)
		return
	}
	if names == nil {
		names = []string{}
	}
	s.jsonResponse(w, http.StatusOK, ListSourcesResponse{Sources: names, Count: len(names)})
}

// handleListPostings lists a source's valid postings, most recent first
func (s *Server) handleListPostings(w http.ResponseWriter, r *http.Request) {
	source, err := sourceParam(r)
	if err != nil {
		s.fail(w, err)
		return
	}
	status, err := parseStatus(r.URL.Query().Get("status"))
	if err != nil {
		s.fail(w, err)
		return
	}
	limit, err := parseQueryInt(r, "limit", defaultPostingLimit, maxPostingLimit)
	if err != nil {
		s.fail(w, err)
		return
	}

	postings, err := s.postings.ListPostings(r.Context(), source, db.PostingFilters{Status: status, Limit: limit})
	if err != nil {
		s.fail(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, ListPostingsResponse{
		Source:   source,
		Status:   string(status),
		Postings: postings,
		Count:    len(postings),
		Limit:    limit,
	})
}

// handleGetPosting retrieves one posting by its URL
func (s *Server) handleGetPosting(w http.ResponseWriter, r *http.Request) {
	source, err := sourceParam(r)
	if err != nil {
		s.fail(w, err)
		return
	}
	url := r.URL.Query().Get("url")
	if url == "" {
		s.fail(w, &ErrValidation{Field: "url", Message: "is required"})
		return
	}

	posting, err := s.postings.GetPosting(r.Context(), source, url)
	if err != nil {
		s.fail(w, err)
		return
	}
	if posting == nil {
		s.fail(w, &ErrNotFound{Kind: "posting", Key: url})
		return
	}
	s.jsonResponse(w, http.StatusOK, posting)
}

// handleStats returns a source's record counts
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	source, err := sourceParam(r)
	if err != nil {
		s.fail(w, err)
		return
	}
	stats, err := s.postings.Stats(r.Context(), source)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, StatsResponse{Source: source, StoreStats: stats})
}

// handleListRuns lists recent crawl runs
func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	if s.runs == nil {
		s.fail(w, &ErrUnavailable{What: "run history"})
		return
	}
	limit, err := parseQueryInt(r, "limit", db.DefaultRunLimit, maxRunLimit)
	if err != nil {
		s.fail(w, err)
		return
	}

	filters := db.RunFilters{
		Source: r.URL.Query().Get("source"),
		Status: r.URL.Query().Get("status"),
		Limit:  limit,
	}
	runs, err := s.runs.ListRuns(r.Context(), filters)
	if err != nil {
		s.fail(w, err)
		return
	}
	if runs == nil {
		runs = []db.Run{}
	}
	s.jsonResponse(w, http.StatusOK, ListRunsResponse{Runs: runs, Count: len(runs)})
}

// handleGetRun retrieves a run by ID
func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	if s.runs == nil {
		s.fail(w, &ErrUnavailable{What: "run history"})
		return
	}
	idStr := r.PathValue("id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		s.fail(w, &ErrValidation{Field: "id", Message: "must be a UUID"})
		return
	}

	run, err := s.runs.GetRun(r.Context(), id)
	if err != nil {
		s.fail(w, err)
		return
	}
	if run == nil {
		s.fail(w, &ErrNotFound{Kind: "run", Key: idStr})
		return
	}
	s.jsonResponse(w, http.StatusOK, run)
}
