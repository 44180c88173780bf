package types

import "sort"

// URLSet is an unordered set of posting URLs.
type URLSet map[string]struct{}

// NewURLSet builds a set from urls, ignoring empty strings.
func NewURLSet(urls ...string) URLSet {
	s := make(URLSet, len(urls))
	for _, u := range urls {
		s.Add(u)
	}
	return s
}

// Add inserts u. Empty strings are ignored.
func (s URLSet) Add(u string) {
	if u == "" {
		return
	}
	s[u] = struct{}{}
}

// Has reports whether u is in the set.
func (s URLSet) Has(u string) bool {
	_, ok := s[u]
	return ok
}

// Len returns the number of URLs.
func (s URLSet) Len() int {
	return len(s)
}

// Sorted returns the members in lexical order.
func (s URLSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for u := range s {
		out = append(out, u)
	}
	sort.Strings(out)
	return out
}
