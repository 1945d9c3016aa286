// Package commands implements the sitebuilder CLI commands.
package commands

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
	"github.com/spf13/afero"

	ferrors "git.home.luguber.info/inful/sitebuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/sitebuilder/internal/plugin"
	"git.home.luguber.info/inful/sitebuilder/internal/plugin/headtags"
	"git.home.luguber.info/inful/sitebuilder/internal/plugin/pages"
	"git.home.luguber.info/inful/sitebuilder/internal/site"
	"git.home.luguber.info/inful/sitebuilder/internal/sitecontext"
)

// Global is passed to every command.
type Global struct {
	Logger *slog.Logger
	Out    io.Writer
}

// CLI definition & global flags.
type CLI struct {
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Build  BuildCmd  `cmd:"" help:"Load the site once and write its generated files"`
	Start  StartCmd  `cmd:"" help:"Load the site and reload it whenever its sources change"`
	Config ConfigCmd `cmd:"" help:"Print the resolved site configuration"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return nil
}

// SiteFlags select the site and the locale to load.
type SiteFlags struct {
	SiteDir  string `arg:"" optional:"" default:"." type:"path" help:"Site directory."`
	Config   string `short:"c" help:"Site configuration file, relative to the site directory."`
	Locale   string `short:"l" help:"Locale to load. Defaults to i18n.defaultLocale."`
	OutDir   string `short:"o" name:"out-dir" help:"Output directory. Defaults to <site>/build."`
	Localize string `name:"localize" enum:"auto,always,never" default:"auto" help:"Prefix baseUrl and the output directory with the locale path (auto|always|never)."`
}

// Params converts the flags into load parameters.
func (f *SiteFlags) Params() (sitecontext.Params, error) {
	dir, err := filepath.Abs(f.SiteDir)
	if err != nil {
		return sitecontext.Params{}, ferrors.FileSystemError("invalid site directory").
			WithCause(err).
			WithContext("site_dir", f.SiteDir).
			Build()
	}

	var localize *bool
	switch f.Localize {
	case "always":
		v := true
		localize = &v
	case "never":
		v := false
		localize = &v
	case "", "auto":
	default:
		return sitecontext.Params{}, ferrors.ValidationError("localize must be auto, always or never").
			WithContext("localize", f.Localize).
			Build()
	}

	return sitecontext.Params{
		SiteDir:  dir,
		OutDir:   f.OutDir,
		Config:   f.Config,
		Locale:   f.Locale,
		Localize: localize,
	}, nil
}

// newRegistry registers the built-in plugins.
func newRegistry() (*plugin.Registry, error) {
	reg := plugin.NewRegistry()
	for _, register := range []func(*plugin.Registry) error{pages.Register, headtags.Register} {
		if err := register(reg); err != nil {
			return nil, ferrors.InternalError("failed to register built-in plugin").WithCause(err).Build()
		}
	}
	return reg, nil
}

func newController(g *Global, opts ...site.Option) (*site.Controller, error) {
	reg, err := newRegistry()
	if err != nil {
		return nil, err
	}
	base := []site.Option{site.WithFs(afero.NewOsFs()), site.WithLogger(logger(g))}
	return site.NewController(reg, append(base, opts...)...)
}

func logger(g *Global) *slog.Logger {
	if g != nil && g.Logger != nil {
		return g.Logger
	}
	return slog.Default()
}

func out(g *Global) io.Writer {
	if g != nil && g.Out != nil {
		return g.Out
	}
	return os.Stdout
}
