// Package headtags is the built-in plugin injecting configured tags, client modules
// and default code translations.
package headtags

import (
	"context"
	"fmt"
	"maps"

	"git.home.luguber.info/inful/sitebuilder/internal/config"
	"git.home.luguber.info/inful/sitebuilder/internal/plugin"
	"git.home.luguber.info/inful/sitebuilder/internal/version"
)

// Name is the name the plugin is registered under.
const Name = "headtags"

// Options configure the plugin.
type Options struct {
	HeadTags      []config.HTMLTag `yaml:"headTags"`
	PreBodyTags   []config.HTMLTag `yaml:"preBodyTags"`
	PostBodyTags  []config.HTMLTag `yaml:"postBodyTags"`
	ClientModules []string         `yaml:"clientModules"`
	// Translations maps locale to message key to message.
	Translations map[string]map[string]string `yaml:"translations"`
}

// GlobalData is exposed to the client bundle.
type GlobalData struct {
	TagCount int `json:"tagCount"`
}

// Plugin has no content of its own.
type Plugin struct {
	plugin.BasePlugin
	opts   Options
	locale string
}

// New is the plugin.Factory of the headtags plugin. Tags are validated eagerly.
func New(ic plugin.InitContext) (plugin.Plugin, error) {
	var opts Options
	if err := ic.Options.Decode(&opts); err != nil {
		return nil, fmt.Errorf("invalid headtags options: %w", err)
	}
	for _, group := range [][]config.HTMLTag{opts.HeadTags, opts.PreBodyTags, opts.PostBodyTags} {
		for _, tag := range group {
			if _, err := plugin.RenderTag(tag); err != nil {
				return nil, err
			}
		}
	}

	var locale string
	if ic.Context.I18n != nil {
		locale = ic.Context.I18n.CurrentLocale
	}
	return &Plugin{opts: opts, locale: locale}, nil
}

// Register adds the plugin to reg.
func Register(reg *plugin.Registry) error {
	return reg.Register(Name, New)
}

func (p *Plugin) Name() string { return Name }

// ContentLoaded publishes the number of injected tags.
func (p *Plugin) ContentLoaded(_ context.Context, _ any, actions *plugin.Actions) error {
	actions.SetGlobalData(GlobalData{
		TagCount: len(p.opts.HeadTags) + len(p.opts.PreBodyTags) + len(p.opts.PostBodyTags),
	})
	return nil
}

func (p *Plugin) InjectHTMLTags() plugin.InjectedTags {
	return plugin.InjectedTags{
		HeadTags:     p.opts.HeadTags,
		PreBodyTags:  p.opts.PreBodyTags,
		PostBodyTags: p.opts.PostBodyTags,
	}
}

func (p *Plugin) ClientModules() []string {
	return p.opts.ClientModules
}

// DefaultCodeTranslationMessages returns the messages configured for the current locale.
func (p *Plugin) DefaultCodeTranslationMessages(context.Context) (map[string]string, error) {
	return maps.Clone(p.opts.Translations[p.locale]), nil
}

func (p *Plugin) Version() plugin.VersionInfo {
	return plugin.VersionInfo{Type: "synthetic", Name: "sitebuilder-plugin-headtags", Version: version.Current()}
}
