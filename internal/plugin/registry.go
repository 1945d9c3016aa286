package plugin

import (
	"fmt"
	"slices"
	"sync"

	"github.com/samber/lo"

	"git.home.luguber.info/inful/sitebuilder/internal/config"
	"git.home.luguber.info/inful/sitebuilder/internal/foundation/errors"
)

// Factory creates a plugin instance for one configured plugin entry.
type Factory func(InitContext) (Plugin, error)

// Registry maps plugin names to factories.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry creates a new empty plugin registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]Factory),
	}
}

// Register adds a factory under name.
// Returns an error if a factory with the same name already exists.
func (r *Registry) Register(name string, factory Factory) error {
	if name == "" {
		return fmt.Errorf("plugin name is required")
	}
	if factory == nil {
		return fmt.Errorf("cannot register nil factory for plugin %s", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[name]; exists {
		return fmt.Errorf("plugin %s already registered", name)
	}
	r.factories[name] = factory
	return nil
}

// MustRegister is Register for static setup code.
func (r *Registry) MustRegister(name string, factory Factory) {
	if err := r.Register(name, factory); err != nil {
		panic(err)
	}
}

// Has checks if a plugin with the given name exists.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.factories[name]
	return ok
}

// Names returns the registered plugin names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := lo.Keys(r.factories)
	slices.Sort(names)
	return names
}

// instantiate creates the plugin for pc. An unknown name is a configuration error.
func (r *Registry) instantiate(ic InitContext, pc config.PluginConfig) (Plugin, error) {
	r.mu.RLock()
	factory, ok := r.factories[pc.Name]
	r.mu.RUnlock()
	if !ok {
		return nil, errors.ConfigError(fmt.Sprintf("unknown plugin %q (available: %v)", pc.Name, r.Names())).
			WithContext("plugin", ic.Identifier.String()).
			Build()
	}

	p, err := factory(ic)
	if err != nil {
		return nil, lifecycleError(ic.Identifier, PhaseInit, err)
	}
	return p, nil
}
