// Package crawling reconciles the postings published by a source with the
// postings already stored: it discovers URLs, diffs them against the live set,
// expires what disappeared and fetches, enriches and stores what is new.
package crawling

import "fmt"

// DiscoveryError represents a failure to enumerate a source's posting URLs
type DiscoveryError struct {
	Source  string
	Message string
	Cause   error
}

func (e *DiscoveryError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("discovery error for %s: %s: %v", e.Source, e.Message, e.Cause)
	}
	return fmt.Sprintf("discovery error for %s: %s", e.Source, e.Message)
}

func (e *DiscoveryError) Unwrap() error {
	return e.Cause
}

// DiscoveryGuardError is returned when discovery found suspiciously few URLs
// compared to the live set, which would otherwise expire most of the source.
type DiscoveryGuardError struct {
	Source     string
	Discovered int
	Known      int
	MinRatio   float64
}

func (e *DiscoveryGuardError) Error() string {
	return fmt.Sprintf("discovery guard for %s: discovered %d URLs, below %.2f of %d known",
		e.Source, e.Discovered, e.MinRatio, e.Known)
}

// FetchError represents a failure to fetch or enrich a single posting
type FetchError struct {
	URL     string
	Message string
	Cause   error
}

func (e *FetchError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("fetch error for %s: %s: %v", e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("fetch error for %s: %s", e.URL, e.Message)
}

func (e *FetchError) Unwrap() error {
	return e.Cause
}

// StoreError represents a failed store operation
type StoreError struct {
	Op      string
	Source  string
	Message string
	Cause   error
}

func (e *StoreError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("store error (%s %s): %s: %v", e.Op, e.Source, e.Message, e.Cause)
	}
	return fmt.Sprintf("store error (%s %s): %s", e.Op, e.Source, e.Message)
}

func (e *StoreError) Unwrap() error {
	return e.Cause
}

// LockHeldError is returned when another run owns the source
type LockHeldError struct {
	Source string
}

func (e *LockHeldError) Error() string {
	return fmt.Sprintf("source %s is locked by another run", e.Source)
}
