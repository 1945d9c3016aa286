// Package props assembles the complete description of a loaded site from its context
// and plugin set.
package props

import (
	"context"
	"log/slog"
	"maps"
	"slices"

	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"

	"git.home.luguber.info/inful/sitebuilder/internal/observability"
	"git.home.luguber.info/inful/sitebuilder/internal/plugin"
	"git.home.luguber.info/inful/sitebuilder/internal/routes"
	"git.home.luguber.info/inful/sitebuilder/internal/sitecontext"
	"git.home.luguber.info/inful/sitebuilder/internal/sitemeta"
)

// Props is the read-only model handed to code generation and to dev-server consumers.
// The embedded Context carries the already localized BaseURL and OutDir.
type Props struct {
	sitecontext.Context

	SiteMetadata sitemeta.Metadata
	Routes       []routes.Route
	// RoutesPaths is derived from Routes and BaseURL on every Create.
	RoutesPaths  []string
	Plugins      []*plugin.LoadedPlugin
	HeadTags     string
	PreBodyTags  string
	PostBodyTags string
	// CodeTranslations are plugin defaults overlaid with the site's own translations.
	// It shadows Context.CodeTranslations, which holds the site translations only.
	CodeTranslations map[string]string
}

// Args are the inputs of Create.
type Args struct {
	Plugins []*plugin.LoadedPlugin
	Routes  []routes.Route
	Context sitecontext.Context
	Fs      afero.Fs
	Logger  *slog.Logger
	Tracer  observability.Tracer
}

// Create derives tags, translations, metadata and route paths. Translations and metadata
// are computed concurrently; duplicate routes are checked only after both finish.
func Create(ctx context.Context, args Args) (*Props, error) {
	logger := args.Logger
	if logger == nil {
		logger = slog.Default()
	}
	tracer := args.Tracer
	if tracer == nil {
		tracer = observability.NoopTracer{}
	}
	fsys := args.Fs
	if fsys == nil {
		fsys = afero.NewOsFs()
	}

	tags, err := plugin.HTMLTags(args.Context.SiteConfig, args.Plugins)
	if err != nil {
		return nil, err
	}

	var (
		translations map[string]string
		metadata     sitemeta.Metadata
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		sctx, span := tracer.StartSpan(gctx, "props.translations")
		defaults, err := plugin.DefaultCodeTranslations(sctx, args.Plugins)
		observability.EndSpan(span, err)
		if err != nil {
			return err
		}
		translations = mergeTranslations(defaults, args.Context.CodeTranslations)
		return nil
	})
	g.Go(func() error {
		sctx, span := tracer.StartSpan(gctx, "props.metadata")
		md, err := sitemeta.Load(sctx, fsys, sitemeta.Args{
			Plugins: args.Plugins,
			SiteDir: args.Context.SiteDir,
			Logger:  logger,
		})
		observability.EndSpan(span, err)
		if err != nil {
			return err
		}
		metadata = md
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	baseURL := args.Context.BaseURL
	policy := routes.PolicyWarn
	if args.Context.SiteConfig != nil {
		if policy, err = routes.ParseDuplicatePolicy(args.Context.SiteConfig.OnDuplicateRoutes); err != nil {
			return nil, err
		}
	}
	if err := routes.HandleDuplicates(args.Routes, baseURL, policy, logger); err != nil {
		return nil, err
	}

	return &Props{
		Context:          args.Context,
		SiteMetadata:     metadata,
		Routes:           slices.Clone(args.Routes),
		RoutesPaths:      routes.Paths(args.Routes, baseURL),
		Plugins:          slices.Clone(args.Plugins),
		HeadTags:         tags.HeadTags,
		PreBodyTags:      tags.PreBodyTags,
		PostBodyTags:     tags.PostBodyTags,
		CodeTranslations: translations,
	}, nil
}

// mergeTranslations overlays site translations on plugin defaults. Site entries win.
func mergeTranslations(defaults, site map[string]string) map[string]string {
	out := make(map[string]string, len(defaults)+len(site))
	maps.Copy(out, defaults)
	maps.Copy(out, site)
	return out
}
