package provider

import (
	"fmt"
	"sort"
	"strings"
)

// Registry maps adapter names to their factories. The set of adapters is
// fixed at startup; there is no dynamic discovery.
type Registry struct {
	factories map[string]Factory
}

// NewRegistry builds a registry over an explicit factory map.
func NewRegistry(factories map[string]Factory) *Registry {
	return &Registry{factories: factories}
}

// New constructs the named adapter.
func (r *Registry) New(name string, config *Config) (Provider, error) {
	factory, ok := r.factories[name]
	if !ok {
		return nil, fmt.Errorf("unknown provider %q (available: %s)",
			name, strings.Join(r.Names(), ", "))
	}
	return factory(config)
}

// Names returns the registered adapter names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
