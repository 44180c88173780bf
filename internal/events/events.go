// Package events publishes per-run change sets so downstream consumers can
// react to new and expired postings without polling the store.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// DefaultPrefix is the subject prefix used when none is configured.
const DefaultPrefix = "careers"

// Changes is the payload published after a run.
type Changes struct {
	Source  string    `json:"source"`
	RunID   uuid.UUID `json:"run_id"`
	New     []string  `json:"new"`
	Expired []string  `json:"expired"`
	At      time.Time `json:"at"`
}

// Empty reports whether the run changed nothing.
func (c *Changes) Empty() bool {
	return len(c.New) == 0 && len(c.Expired) == 0
}

// Publisher sends change sets somewhere.
type Publisher interface {
	Publish(ctx context.Context, changes *Changes) error
	Close() error
}

// Subject returns the subject a source's changes are published on.
func Subject(prefix, source string) string {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return fmt.Sprintf("%s.%s.changes", prefix, source)
}

// Encode marshals a change set, normalizing nil slices to empty arrays.
func Encode(changes *Changes) ([]byte, error) {
	c := *changes
	if c.New == nil {
		c.New = []string{}
	}
	if c.Expired == nil {
		c.Expired = []string{}
	}
	data, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal changes: %w", err)
	}
	return data, nil
}

// Noop discards every change set.
type Noop struct{}

// Publish implements Publisher.
func (Noop) Publish(context.Context, *Changes) error { return nil }

// Close implements Publisher.
func (Noop) Close() error { return nil }
