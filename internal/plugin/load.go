package plugin

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"

	"git.home.luguber.info/inful/sitebuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/sitebuilder/internal/logfields"
	"git.home.luguber.info/inful/sitebuilder/internal/sitecontext"
)

// LoadArgs are the inputs of Load.
type LoadArgs struct {
	Context sitecontext.Context
	Fs      afero.Fs
	Logger  *slog.Logger
}

// ReloadArgs are the inputs of Reload.
type ReloadArgs struct {
	Identifier Identifier
	Plugins    []*LoadedPlugin
	// Context is the context the plugins were originally loaded against.
	Context sitecontext.Context
	Logger  *slog.Logger
}

// Load instantiates every configured plugin in configuration order and runs their lifecycles
// concurrently. It returns only once every plugin has finished; any failure discards the
// whole result.
func Load(ctx context.Context, reg *Registry, args LoadArgs) (*Result, error) {
	logger := args.Logger
	if logger == nil {
		logger = slog.Default()
	}

	if args.Context.SiteConfig == nil {
		return nil, errors.InternalError("plugin load requires a resolved site config").Build()
	}
	pluginConfigs := args.Context.SiteConfig.Plugins
	instances := make([]*LoadedPlugin, 0, len(pluginConfigs))
	for _, pc := range pluginConfigs {
		ic := newInitContext(args.Context, pc, args.Fs, logger)
		p, err := reg.instantiate(ic, pc)
		if err != nil {
			return nil, err
		}
		instances = append(instances, &LoadedPlugin{Identifier: ic.Identifier, Plugin: p})
	}

	loaded := make([]*LoadedPlugin, len(instances))
	g, gctx := errgroup.WithContext(ctx)
	for i, inst := range instances {
		g.Go(func() error {
			lp, err := runLifecycle(gctx, inst.Identifier, inst.Plugin)
			if err != nil {
				return err
			}
			loaded[i] = lp
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	logger.Debug("Plugins loaded", slog.Int("plugins", len(loaded)))
	return newResult(loaded), nil
}

// Reload reruns the lifecycle of exactly one plugin and returns the re-pooled result.
// Every other LoadedPlugin is carried over by reference; the input slice is not modified.
func Reload(ctx context.Context, args ReloadArgs) (*Result, error) {
	current, idx, ok := Find(args.Plugins, args.Identifier)
	if !ok {
		return nil, errors.PluginLifecycleError(fmt.Sprintf("cannot reload unknown plugin %s", args.Identifier)).
			WithContext("plugin", args.Identifier.String()).
			Build()
	}

	lp, err := runLifecycle(ctx, current.Identifier, current.Plugin)
	if err != nil {
		return nil, err
	}

	plugins := slices.Clone(args.Plugins)
	plugins[idx] = lp

	if args.Logger != nil {
		args.Logger.Debug("Plugin reloaded", logfields.Plugin(args.Identifier.String()), logfields.Routes(len(lp.Routes)))
	}
	return newResult(plugins), nil
}

func runLifecycle(ctx context.Context, id Identifier, p Plugin) (*LoadedPlugin, error) {
	content, err := p.LoadContent(ctx)
	if err != nil {
		return nil, lifecycleError(id, PhaseLoadContent, err)
	}

	actions := newActions(id)
	if err := p.ContentLoaded(ctx, content, actions); err != nil {
		return nil, lifecycleError(id, PhaseContentLoaded, err)
	}
	rs, data := actions.snapshot()

	lp := &LoadedPlugin{
		Identifier: id,
		Plugin:     p,
		Content:    content,
		Routes:     rs,
		GlobalData: data,
		Version:    VersionInfo{Type: "local"},
	}
	if v, ok := p.(Versioned); ok {
		lp.Version = v.Version()
	}
	if w, ok := p.(Watcher); ok {
		lp.PathsToWatch = slices.Clone(w.PathsToWatch())
	}
	return lp, nil
}

func lifecycleError(id Identifier, phase string, err error) error {
	return errors.PluginLifecycleError("plugin lifecycle failed").
		WithCause(NewPluginError(id, phase, err)).
		WithContext("plugin", id.String()).
		WithContext("phase", phase).
		Build()
}
