// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jonathan/careers-sync/internal/sources"
	"github.com/jonathan/careers-sync/internal/store"
)

// DefaultPath is the config file read when --config is not given.
const DefaultPath = "careers_sync.json"

// Defaults applied by ApplyDefaults
const (
	DefaultWorkers            = 8
	DefaultMaxParallelSources = 4
	DefaultEventPrefix        = "careers"
	DefaultExportDir          = "out"
	DefaultPort               = 8080
	DefaultLockTTL            = "2h"
	MaxWorkers                = 64
)

// Config represents the configuration loaded from a JSON file.
// Connection settings may be overridden by the environment, see ApplyEnv.
type Config struct {
	// Connections
	DatabaseURL   string `json:"database_url,omitempty"`   // PostgreSQL connection URL
	NATSURL       string `json:"nats_url,omitempty"`       // NATS server; empty disables events
	EventPrefix   string `json:"event_prefix,omitempty"`   // Subject prefix for change events
	RedisAddr     string `json:"redis_addr,omitempty"`     // Redis address; empty disables run locks
	RedisPassword string `json:"redis_password,omitempty"` // Redis password
	RedisDB       int    `json:"redis_db,omitempty" validate:"gte=0"`
	LockTTL       string `json:"lock_ttl,omitempty"`      // Upper bound on a crashed run's lock
	OTLPEndpoint  string `json:"otlp_endpoint,omitempty"` // OTLP/gRPC collector; empty disables tracing

	// Crawl behavior
	Workers                      int     `json:"workers,omitempty" validate:"gte=1,lte=64"`
	MinDiscoveryRatio            float64 `json:"min_discovery_ratio,omitempty" validate:"gte=0,lte=1"`
	TreatDiscoveryFailureAsEmpty bool    `json:"treat_discovery_failure_as_empty,omitempty"`
	ParallelSources              bool    `json:"parallel_sources,omitempty"`
	MaxParallelSources           int     `json:"max_parallel_sources,omitempty" validate:"gte=1"`
	DefaultCountry               string  `json:"default_country,omitempty"`

	// Output
	ExportDir string `json:"export_dir,omitempty"`
	LogFormat string `json:"log_format,omitempty" validate:"omitempty,oneof=console json"`
	Port      int    `json:"port,omitempty" validate:"gte=1,lte=65535"`

	Sources []sources.Config `json:"sources" validate:"dive"`
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Load reads path, applies environment overrides and defaults, and validates
// the result.
func Load(path string) (*Config, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(os.Getenv); err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides connection settings from the environment. Unset or empty
// variables leave the file values alone.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	if v := getenv("DATABASE_URL"); v != "" {
		c.DatabaseURL = v
	}
	if v := getenv("NATS_URL"); v != "" {
		c.NATSURL = v
	}
	if v := getenv("REDIS_ADDR"); v != "" {
		c.RedisAddr = v
	}
	if v := getenv("OTEL_EXPORTER_OTLP_ENDPOINT"); v != "" {
		c.OTLPEndpoint = v
	}
	if v := getenv("CAREERS_SYNC_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config error: CAREERS_SYNC_WORKERS must be an integer: %w", err)
		}
		c.Workers = n
	}
	return nil
}

// ApplyDefaults fills zero values.
func (c *Config) ApplyDefaults() {
	if c.Workers == 0 {
		c.Workers = DefaultWorkers
	}
	if c.MaxParallelSources == 0 {
		c.MaxParallelSources = DefaultMaxParallelSources
	}
	if c.EventPrefix == "" {
		c.EventPrefix = DefaultEventPrefix
	}
	if c.ExportDir == "" {
		c.ExportDir = DefaultExportDir
	}
	if c.Port == 0 {
		c.Port = DefaultPort
	}
	if c.LockTTL == "" {
		c.LockTTL = DefaultLockTTL
	}
}

// Validate checks struct tags, then the rules tags cannot express: source
// names are unique table suffixes and every duration parses.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("'%s' failed '%s'", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("config error: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("config error: %w", err)
	}

	if _, err := time.ParseDuration(c.LockTTL); c.LockTTL != "" && err != nil {
		return fmt.Errorf("config error: 'lock_ttl' is not a duration: %w", err)
	}

	seen := make(map[string]bool, len(c.Sources))
	for _, s := range c.Sources {
		if err := store.ValidateSourceName(s.Name); err != nil {
			return fmt.Errorf("config error: %w", err)
		}
		if seen[s.Name] {
			return fmt.Errorf("config error: duplicate source name %q", s.Name)
		}
		seen[s.Name] = true
		if _, err := s.FetchOptions(); err != nil {
			return fmt.Errorf("config error: source %s: %w", s.Name, err)
		}
	}

	return nil
}

// LockTTLDuration returns the parsed lock TTL, or zero if unset.
func (c *Config) LockTTLDuration() time.Duration {
	d, err := time.ParseDuration(c.LockTTL)
	if err != nil {
		return 0
	}
	return d
}

// Source returns the configured source with the given name.
func (c *Config) Source(name string) (sources.Config, bool) {
	for _, s := range c.Sources {
		if s.Name == name {
			return s, true
		}
	}
	return sources.Config{}, false
}

// SelectSources returns the named sources in the given order, or every
// enabled source when names is empty. Naming a disabled source selects it.
func (c *Config) SelectSources(names []string) ([]sources.Config, error) {
	if len(names) == 0 {
		var selected []sources.Config
		for _, s := range c.Sources {
			if !s.Disabled {
				selected = append(selected, s)
			}
		}
		return selected, nil
	}

	selected := make([]sources.Config, 0, len(names))
	for _, name := range names {
		s, ok := c.Source(name)
		if !ok {
			return nil, fmt.Errorf("unknown source %q", name)
		}
		selected = append(selected, s)
	}
	return selected, nil
}

// SourceNames returns the names of every configured source.
func (c *Config) SourceNames() []string {
	names := make([]string, len(c.Sources))
	for i, s := range c.Sources {
		names[i] = s.Name
	}
	return names
}
