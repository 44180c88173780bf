package sources

import (
	"fmt"
	"sort"

	"github.com/jonathan/careers-sync/internal/fetch"
	"go.uber.org/zap"
)

// Factory builds an adapter for one source.
type Factory func(cfg Config, logger *zap.Logger) (Adapter, error)

// Registry maps adapter kinds to factories.
type Registry struct {
	factories map[string]Factory
}

// NewRegistry returns a registry with the built-in kinds registered.
func NewRegistry() *Registry {
	r := &Registry{factories: make(map[string]Factory)}
	r.Register(KindSelector, newSelectorFromConfig)
	return r
}

// Register adds or replaces the factory for kind.
func (r *Registry) Register(kind string, f Factory) {
	r.factories[kind] = f
}

// Kinds returns the registered kinds, sorted.
func (r *Registry) Kinds() []string {
	kinds := make([]string, 0, len(r.factories))
	for k := range r.factories {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}

// Build creates the adapter for cfg. An empty kind means KindSelector.
func (r *Registry) Build(cfg Config, logger *zap.Logger) (Adapter, error) {
	kind := cfg.Kind
	if kind == "" {
		kind = KindSelector
	}
	f, ok := r.factories[kind]
	if !ok {
		return nil, fmt.Errorf("unknown adapter kind %q for source %s", kind, cfg.Name)
	}
	a, err := f(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to build adapter for source %s: %w", cfg.Name, err)
	}
	return a, nil
}

func newSelectorFromConfig(cfg Config, logger *zap.Logger) (Adapter, error) {
	opts, err := cfg.FetchOptions()
	if err != nil {
		return nil, err
	}
	return NewSelectorAdapter(cfg, fetch.NewClient(opts, logger), logger), nil
}
