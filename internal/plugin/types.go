package plugin

import (
	"fmt"

	"github.com/samber/lo"

	"git.home.luguber.info/inful/sitebuilder/internal/routes"
)

// Lifecycle phases reported in errors.
const (
	PhaseInit          = "init"
	PhaseLoadContent   = "loadContent"
	PhaseContentLoaded = "contentLoaded"
	PhaseTranslations  = "translations"
	PhaseHTMLTags      = "htmlTags"
)

// LoadedPlugin is a plugin instance together with what its lifecycle produced.
type LoadedPlugin struct {
	Identifier   Identifier
	Version      VersionInfo
	Plugin       Plugin
	Content      any
	Routes       []routes.Route
	GlobalData   any
	PathsToWatch []string
}

// GlobalData maps each loaded plugin to the data it exposes to the client bundle.
type GlobalData map[Identifier]any

// Result is the pooled outcome of loading the plugin set.
type Result struct {
	Plugins    []*LoadedPlugin
	Routes     []routes.Route
	GlobalData GlobalData
}

// newResult pools routes in plugin order and keys global data by every loaded plugin.
func newResult(plugins []*LoadedPlugin) *Result {
	gd := make(GlobalData, len(plugins))
	for _, p := range plugins {
		gd[p.Identifier] = p.GlobalData
	}
	return &Result{
		Plugins: plugins,
		Routes: lo.FlatMap(plugins, func(p *LoadedPlugin, _ int) []routes.Route {
			return p.Routes
		}),
		GlobalData: gd,
	}
}

// Find returns the loaded plugin with the given identifier.
func Find(plugins []*LoadedPlugin, id Identifier) (*LoadedPlugin, int, bool) {
	return lo.FindIndexOf(plugins, func(p *LoadedPlugin) bool {
		return p.Identifier == id
	})
}

// PluginError represents an error that occurred within a plugin.
type PluginError struct {
	// Identifier identifies which plugin failed.
	Identifier Identifier

	// Phase describes what the plugin was doing when it failed.
	Phase string

	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *PluginError) Error() string {
	return fmt.Sprintf("plugin %s failed during %s: %v", e.Identifier, e.Phase, e.Err)
}

// Unwrap returns the underlying error for error inspection.
func (e *PluginError) Unwrap() error {
	return e.Err
}

// NewPluginError creates a new plugin error.
func NewPluginError(id Identifier, phase string, err error) *PluginError {
	return &PluginError{
		Identifier: id,
		Phase:      phase,
		Err:        err,
	}
}
