// Package sources turns career sites into posting URLs and raw records.
// Adapters are built from configuration by a Registry.
package sources

import (
	"context"
	"fmt"
	"time"

	"github.com/jonathan/careers-sync/internal/fetch"
	"github.com/jonathan/careers-sync/internal/types"
)

// Adapter enumerates and fetches one source's postings.
type Adapter interface {
	Name() string
	DiscoverURLs(ctx context.Context) (types.URLSet, error)
	FetchDetail(ctx context.Context, url string) (*types.RawRecord, error)
}

// KindSelector is the adapter kind driven by CSS selectors.
const KindSelector = "selector"

// PageToken is replaced by the page number in paginated listing URLs.
const PageToken = "{page}"

// Config describes one source.
type Config struct {
	Name           string `json:"name" validate:"required"`
	Kind           string `json:"kind,omitempty" validate:"omitempty,oneof=selector"`
	EmployerName   string `json:"employer_name,omitempty"`
	DefaultCountry string `json:"default_country,omitempty"`
	Disabled       bool   `json:"disabled,omitempty"`

	Discovery Discovery                `json:"discovery" validate:"required"`
	Fields    map[string]FieldSelector `json:"fields,omitempty" validate:"dive"`
	Lists     map[string]FieldSelector `json:"lists,omitempty" validate:"dive"`
	Labels    *Labels                  `json:"labels,omitempty"`

	UseBrowser        bool              `json:"use_browser,omitempty"`
	Timeout           string            `json:"timeout,omitempty"`
	UserAgent         string            `json:"user_agent,omitempty"`
	Headers           map[string]string `json:"headers,omitempty"`
	RequestsPerSecond float64           `json:"requests_per_second,omitempty" validate:"gte=0"`
	Burst             int               `json:"burst,omitempty" validate:"gte=0"`
}

// Discovery configures how listing pages are walked.
type Discovery struct {
	// ListingURLs may contain PageToken to walk numbered pages.
	ListingURLs []string `json:"listing_urls" validate:"required,min=1,dive,required"`
	StartPage   int      `json:"start_page,omitempty" validate:"gte=0"`
	MaxPages    int      `json:"max_pages,omitempty" validate:"gte=0"`
	// LinkSelector selects the anchors that point at posting pages.
	LinkSelector string `json:"link_selector" validate:"required"`
	// HrefContains keeps only links containing one of these substrings.
	HrefContains []string `json:"href_contains,omitempty"`
}

// FieldSelector extracts one value from a detail page.
type FieldSelector struct {
	Selector string `json:"selector" validate:"required"`
	// Attr reads an attribute instead of the element text.
	Attr string `json:"attr,omitempty"`
}

// Labels extracts label/value pairs such as <dt>/<dd> definition lists.
type Labels struct {
	LabelSelector string      `json:"label_selector,omitempty"`
	ValueSelector string      `json:"value_selector,omitempty"`
	Rules         []LabelRule `json:"rules" validate:"dive"`
}

// LabelRule maps a label, matched by case-insensitive substring, to a record key.
type LabelRule struct {
	Contains string `json:"contains" validate:"required"`
	Field    string `json:"field" validate:"required"`
	List     bool   `json:"list,omitempty"`
}

// FetchOptions converts the transport settings to fetch options.
func (c *Config) FetchOptions() (*fetch.Options, error) {
	opts := fetch.DefaultOptions()
	if c.Timeout != "" {
		d, err := time.ParseDuration(c.Timeout)
		if err != nil {
			return nil, fmt.Errorf("invalid timeout %q: %w", c.Timeout, err)
		}
		opts.Timeout = d
	}
	if c.UserAgent != "" {
		opts.UserAgent = c.UserAgent
	}
	opts.Headers = c.Headers
	opts.RequestsPerSecond = c.RequestsPerSecond
	opts.Burst = c.Burst
	opts.UseBrowser = c.UseBrowser
	return opts, nil
}
