package plugin

import (
	"log/slog"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/sitebuilder/internal/config"
	"git.home.luguber.info/inful/sitebuilder/internal/sitecontext"
)

// InitContext is passed to a Factory when a configured plugin is instantiated.
type InitContext struct {
	// Context is the resolved site context the plugin is loaded against.
	Context sitecontext.Context

	// Identifier is the identity assigned to the new instance.
	Identifier Identifier

	// Options are the plugin options from the site configuration.
	Options Options

	// Fs is the filesystem the plugin reads its content from.
	Fs afero.Fs

	// Logger provides structured logging for plugin operations.
	Logger *slog.Logger
}

func newInitContext(sc sitecontext.Context, pc config.PluginConfig, fs afero.Fs, logger *slog.Logger) InitContext {
	id := IdentifierFor(pc)
	if logger == nil {
		logger = slog.Default()
	}
	return InitContext{
		Context:    sc,
		Identifier: id,
		Options:    Options(pc.Options),
		Fs:         fs,
		Logger:     logger.With(slog.String("plugin", id.String())),
	}
}

// Options are raw plugin options as decoded from the site configuration.
type Options map[string]any

// GetString returns a string option or def when missing or not a string.
func (o Options) GetString(key, def string) string {
	if v, ok := o[key].(string); ok {
		return v
	}
	return def
}

// Decode converts the options into out, a pointer to a struct with yaml tags.
func (o Options) Decode(out any) error {
	raw, err := yaml.Marshal(map[string]any(o))
	if err != nil {
		return err
	}
	return yaml.Unmarshal(raw, out)
}
