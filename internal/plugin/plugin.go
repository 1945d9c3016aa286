// Package plugin defines the plugin contract of a site and loads the configured plugin set.
//
// Every plugin implements Plugin. The remaining capabilities (client modules, HTML tags,
// default code translations, watched paths, version information) are optional interfaces
// discovered with type assertions.
package plugin

import (
	"context"
	"fmt"
	"sync"

	"git.home.luguber.info/inful/sitebuilder/internal/config"
	"git.home.luguber.info/inful/sitebuilder/internal/routes"
)

// Plugin is the required lifecycle of a plugin instance.
type Plugin interface {
	// Name returns the plugin implementation name, e.g. "pages".
	Name() string

	// LoadContent reads whatever the plugin needs from disk or elsewhere.
	LoadContent(ctx context.Context) (any, error)

	// ContentLoaded turns the loaded content into routes and global data through actions.
	ContentLoaded(ctx context.Context, content any, actions *Actions) error
}

// ClientModuleProvider contributes modules loaded on every page of the client bundle.
type ClientModuleProvider interface {
	ClientModules() []string
}

// HTMLTagInjector contributes tags to the page shell.
type HTMLTagInjector interface {
	InjectHTMLTags() InjectedTags
}

// TranslationProvider supplies default code translation messages for a locale.
type TranslationProvider interface {
	DefaultCodeTranslationMessages(ctx context.Context) (map[string]string, error)
}

// Watcher lists the paths whose changes should reload the plugin.
type Watcher interface {
	PathsToWatch() []string
}

// Versioned reports where the plugin implementation comes from.
type Versioned interface {
	Version() VersionInfo
}

// InjectedTags groups tag descriptors by page position.
type InjectedTags struct {
	HeadTags     []config.HTMLTag
	PreBodyTags  []config.HTMLTag
	PostBodyTags []config.HTMLTag
}

// VersionInfo describes a plugin implementation.
type VersionInfo struct {
	// Type is one of "package", "project", "local" or "synthetic".
	Type    string `json:"type"`
	Name    string `json:"name,omitempty"`
	Version string `json:"version,omitempty"`
}

// Identifier names one plugin instance. Several instances of one implementation
// may coexist under different IDs.
type Identifier struct {
	Name string
	ID   string
}

// String returns name@id.
func (i Identifier) String() string {
	return fmt.Sprintf("%s@%s", i.Name, i.ID)
}

// IdentifierFor builds the identifier of a configured plugin.
func IdentifierFor(pc config.PluginConfig) Identifier {
	id := pc.ID
	if id == "" {
		id = config.DefaultPluginID
	}
	return Identifier{Name: pc.Name, ID: id}
}

// Actions is handed to ContentLoaded. It is scoped to one plugin and safe for concurrent use.
type Actions struct {
	mu         sync.Mutex
	identifier Identifier
	routes     []routes.Route
	globalData any
}

func newActions(id Identifier) *Actions {
	return &Actions{identifier: id}
}

// AddRoute registers a route owned by the plugin.
func (a *Actions) AddRoute(r routes.Route) {
	a.mu.Lock()
	defer a.mu.Unlock()
	r.Plugin = a.identifier.String()
	a.routes = append(a.routes, r)
}

// SetGlobalData replaces the plugin's global data.
func (a *Actions) SetGlobalData(data any) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.globalData = data
}

func (a *Actions) snapshot() ([]routes.Route, any) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]routes.Route(nil), a.routes...), a.globalData
}

// BasePlugin provides no-op lifecycle methods.
// Plugins can embed this to implement only what they need.
type BasePlugin struct{}

// LoadContent is a no-op default implementation.
func (BasePlugin) LoadContent(context.Context) (any, error) {
	return nil, nil
}

// ContentLoaded is a no-op default implementation.
func (BasePlugin) ContentLoaded(context.Context, any, *Actions) error {
	return nil
}
