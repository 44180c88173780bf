package crawling

import "github.com/jonathan/careers-sync/internal/types"

// DiffResult partitions current ∪ known. All slices are sorted.
type DiffResult struct {
	New       []string
	Expired   []string
	Unchanged []string
}

// Diff compares the URLs discovered in this run with the URLs known to be live.
// New URLs must be fetched, expired URLs must be marked expired and unchanged
// URLs are left alone.
func Diff(current, known types.URLSet) DiffResult {
	var res DiffResult
	for _, u := range current.Sorted() {
		if known.Has(u) {
			res.Unchanged = append(res.Unchanged, u)
		} else {
			res.New = append(res.New, u)
		}
	}
	for _, u := range known.Sorted() {
		if !current.Has(u) {
			res.Expired = append(res.Expired, u)
		}
	}
	return res
}
