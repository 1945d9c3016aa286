// Package site implements the lifecycle of a loaded site: cold load, full reload and
// single-plugin reload. Every transition returns a new Site or an error; the Site passed
// in is never modified.
//
// Transitions against the same site directory must be serialized by the caller: they
// share the generated-files directory.
package site

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/spf13/afero"

	"git.home.luguber.info/inful/sitebuilder/internal/codegen"
	ferrors "git.home.luguber.info/inful/sitebuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/sitebuilder/internal/logfields"
	"git.home.luguber.info/inful/sitebuilder/internal/metrics"
	"git.home.luguber.info/inful/sitebuilder/internal/observability"
	"git.home.luguber.info/inful/sitebuilder/internal/plugin"
	"git.home.luguber.info/inful/sitebuilder/internal/props"
	"git.home.luguber.info/inful/sitebuilder/internal/routes"
	"git.home.luguber.info/inful/sitebuilder/internal/sitecontext"
)

// Site is the externally visible state of a loaded site. Params are kept so Reload can
// rebuild from scratch.
type Site struct {
	Props      *props.Props
	GlobalData plugin.GlobalData
	Params     sitecontext.Params
}

// Controller runs lifecycle transitions. It holds no site state of its own.
type Controller struct {
	fs       afero.Fs
	registry *plugin.Registry
	writer   *codegen.Writer
	logger   *slog.Logger
	tracer   observability.Tracer
	recorder metrics.Recorder
}

// Option configures a Controller.
type Option func(*Controller)

// WithFs sets the filesystem sites are read from and generated files are written to.
func WithFs(fs afero.Fs) Option { return func(c *Controller) { c.fs = fs } }

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option { return func(c *Controller) { c.logger = l } }

// WithTracer sets the tracer wrapping every stage in a span.
func WithTracer(t observability.Tracer) Option { return func(c *Controller) { c.tracer = t } }

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option { return func(c *Controller) { c.recorder = r } }

// NewController creates a controller instantiating plugins from reg.
func NewController(reg *plugin.Registry, opts ...Option) (*Controller, error) {
	c := &Controller{
		fs:       afero.NewOsFs(),
		registry: reg,
		logger:   slog.Default(),
		tracer:   observability.NoopTracer{},
		recorder: metrics.NoopRecorder{},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.registry == nil {
		return nil, ferrors.InternalError("site controller requires a plugin registry").Build()
	}
	w, err := codegen.NewWriter(c.fs, codegen.DefaultHashCacheSize)
	if err != nil {
		return nil, ferrors.InternalError("failed to create generated file writer").WithCause(err).Build()
	}
	c.writer = w
	return c, nil
}

// Load builds a Site from scratch.
func (c *Controller) Load(ctx context.Context, params sitecontext.Params) (*Site, error) {
	return c.load(ctx, params, metrics.TransitionLoad)
}

// Reload discards all prior state and loads again with site.Params.
func (c *Controller) Reload(ctx context.Context, site *Site) (*Site, error) {
	return c.load(ctx, site.Params, metrics.TransitionReload)
}

// ReloadPlugin reruns one plugin against the existing props and regenerates the site files.
// The config and i18n context are not re-resolved: a changed config file requires Reload.
func (c *Controller) ReloadPlugin(ctx context.Context, site *Site, id plugin.Identifier) (*Site, error) {
	bs := &buildState{
		params:   cloneParams(site.Params),
		prior:    site,
		pluginID: id,
		context:  site.Props.Context,
	}
	ctx = observability.WithPlugin(ctx, id.String())

	stages := NewPipeline().
		Add(StageReloadPlugin, c.stageReloadPlugin).
		Add(StageCreateProps, c.stageCreateProps).
		Add(StageGenerateFiles, c.stageGenerateFiles).
		Build()
	return c.transition(ctx, metrics.TransitionReloadPlugin, bs, stages)
}

func (c *Controller) load(ctx context.Context, params sitecontext.Params, transition string) (*Site, error) {
	bs := &buildState{params: cloneParams(params)}
	stages := NewPipeline().
		Add(StageLoadContext, c.stageLoadContext).
		Add(StageLoadPlugins, c.stageLoadPlugins).
		Add(StageCreateProps, c.stageCreateProps).
		Add(StageGenerateFiles, c.stageGenerateFiles).
		Build()
	return c.transition(ctx, transition, bs, stages)
}

func (c *Controller) transition(ctx context.Context, name string, bs *buildState, stages []StageDef) (*Site, error) {
	bs.buildID = observability.NewBuildID()
	ctx = observability.WithBuildID(ctx, bs.buildID)
	logger := observability.Logger(ctx, c.logger).With(logfields.Operation(name), logfields.SiteDir(bs.params.SiteDir))

	start := time.Now()
	err := c.runStages(ctx, bs, stages)
	dur := time.Since(start)
	c.recorder.ObserveTransitionDuration(name, dur)

	if err != nil {
		result := metrics.ResultFailed
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			result = metrics.ResultCanceled
		}
		c.recorder.IncTransitionOutcome(name, result)
		logger.Error("Site transition failed", logfields.Duration(dur), logfields.Error(err))
		return nil, err
	}

	c.recorder.IncTransitionOutcome(name, metrics.ResultSuccess)
	c.recorder.SetLoadedPlugins(len(bs.props.Plugins))
	c.recorder.SetRoutes(routes.Count(bs.props.Routes))
	logger.Info("Site ready",
		logfields.Duration(dur),
		logfields.Locale(bs.props.I18n.CurrentLocale),
		logfields.Routes(len(bs.props.RoutesPaths)))

	return &Site{
		Props:      bs.props,
		GlobalData: bs.plugins.GlobalData,
		Params:     bs.params,
	}, nil
}

func (c *Controller) stageLoadContext(ctx context.Context, bs *buildState) error {
	sc, err := sitecontext.Load(ctx, c.fs, bs.params)
	if err != nil {
		return err
	}
	bs.context = sc
	return nil
}

func (c *Controller) stageLoadPlugins(ctx context.Context, bs *buildState) error {
	res, err := plugin.Load(ctx, c.registry, plugin.LoadArgs{
		Context: bs.context,
		Fs:      c.fs,
		Logger:  observability.Logger(ctx, c.logger),
	})
	if err != nil {
		return err
	}
	bs.plugins = res
	annotate(ctx, "plugins", len(res.Plugins))
	return nil
}

func (c *Controller) stageReloadPlugin(ctx context.Context, bs *buildState) error {
	res, err := plugin.Reload(ctx, plugin.ReloadArgs{
		Identifier: bs.pluginID,
		Plugins:    bs.prior.Props.Plugins,
		Context:    bs.context,
		Logger:     observability.Logger(ctx, c.logger),
	})
	if err != nil {
		return err
	}
	bs.plugins = res
	return nil
}

func (c *Controller) stageCreateProps(ctx context.Context, bs *buildState) error {
	p, err := props.Create(ctx, props.Args{
		Plugins: bs.plugins.Plugins,
		Routes:  bs.plugins.Routes,
		Context: bs.context,
		Fs:      c.fs,
		Logger:  observability.Logger(ctx, c.logger),
		Tracer:  c.tracer,
	})
	if err != nil {
		return err
	}
	bs.props = p
	annotate(ctx, "routes", len(p.RoutesPaths))
	return nil
}

func (c *Controller) stageGenerateFiles(ctx context.Context, bs *buildState) error {
	p := bs.props
	return codegen.Generate(ctx, c.writer, codegen.Args{
		GeneratedFilesDir: p.GeneratedFilesDir,
		ClientModules:     plugin.ClientModules(p.SiteConfig, p.Plugins),
		SiteConfig:        p.SiteConfig,
		SiteMetadata:      p.SiteMetadata,
		I18n:              p.I18n,
		CodeTranslations:  p.CodeTranslations,
		GlobalData:        bs.plugins.GlobalData,
		Routes:            p.Routes,
		BaseURL:           p.BaseURL,
		Logger:            observability.Logger(ctx, c.logger),
	})
}

// annotate sets an attribute on the stage span carried by ctx.
func annotate(ctx context.Context, key string, value any) {
	if span, ok := observability.SpanFromContext(ctx); ok {
		span.SetAttribute(key, value)
	}
}

func cloneParams(p sitecontext.Params) sitecontext.Params {
	if p.Localize != nil {
		v := *p.Localize
		p.Localize = &v
	}
	return p
}
