// Package sitecontext resolves the immutable configuration and locale snapshot a site
// load starts from.
package sitecontext

import (
	"context"
	"maps"
	"path/filepath"

	"github.com/spf13/afero"

	"git.home.luguber.info/inful/sitebuilder/internal/config"
	"git.home.luguber.info/inful/sitebuilder/internal/i18n"
)

// GeneratedFilesDirName is the subdirectory of the site root receiving generated files.
const GeneratedFilesDirName = ".sitebuilder"

// DefaultOutDirName is the output directory used when Params.OutDir is empty.
const DefaultOutDirName = "build"

// Params are the caller-supplied inputs of a load. They are kept on the Site so a full
// reload can rebuild without the caller supplying them again.
type Params struct {
	SiteDir string
	OutDir  string
	Config  string
	Locale  string
	// Localize forces (true) or suppresses (false) locale prefixes.
	// Nil prefixes only non-default locales.
	Localize *bool
}

// Context is the resolved config and locale snapshot of one load. BaseURL, OutDir and
// SiteConfig.BaseURL are already localized.
type Context struct {
	SiteDir           string
	GeneratedFilesDir string
	LocalizationDir   string
	SiteConfigPath    string
	SiteConfig        *config.SiteConfig
	OutDir            string
	BaseURL           string
	I18n              *i18n.I18n
	CodeTranslations  map[string]string
}

// Load builds a Context from params. It only reads files.
func Load(ctx context.Context, fsys afero.Fs, params Params) (Context, error) {
	siteDir := filepath.Clean(params.SiteDir)
	generatedFilesDir := filepath.Join(siteDir, GeneratedFilesDirName)

	loaded, configPath, err := config.LoadSiteConfig(fsys, siteDir, params.Config)
	if err != nil {
		return Context{}, err
	}
	if err := ctx.Err(); err != nil {
		return Context{}, err
	}

	locale, err := i18n.Load(loaded, params.Locale)
	if err != nil {
		return Context{}, err
	}

	baseURL := i18n.LocalizePath(i18n.LocalizeArgs{
		Path:     loaded.BaseURL,
		I18n:     locale,
		Localize: params.Localize,
		Type:     i18n.PathTypeURL,
	})

	outDir := params.OutDir
	if outDir == "" {
		outDir = DefaultOutDirName
	}
	if !filepath.IsAbs(outDir) {
		outDir = filepath.Join(siteDir, outDir)
	}
	outDir = i18n.LocalizePath(i18n.LocalizeArgs{
		Path:     outDir,
		I18n:     locale,
		Localize: params.Localize,
		Type:     i18n.PathTypeFS,
	})

	localizationDir := filepath.Join(siteDir, locale.Path, locale.CurrentLocaleConfig().Path)

	codeTranslations, err := i18n.LoadSiteCodeTranslations(fsys, localizationDir, locale.CurrentLocale)
	if err != nil {
		return Context{}, err
	}

	siteConfig := *loaded
	siteConfig.BaseURL = baseURL

	return Context{
		SiteDir:           siteDir,
		GeneratedFilesDir: generatedFilesDir,
		LocalizationDir:   localizationDir,
		SiteConfigPath:    configPath,
		SiteConfig:        &siteConfig,
		OutDir:            outDir,
		BaseURL:           baseURL,
		I18n:              locale,
		CodeTranslations:  codeTranslations,
	}, nil
}

// Clone returns a copy whose maps and pointers can be handed out without sharing.
func (c Context) Clone() Context {
	out := c
	out.I18n = c.I18n.Clone()
	out.CodeTranslations = maps.Clone(c.CodeTranslations)
	if c.SiteConfig != nil {
		cfg := *c.SiteConfig
		out.SiteConfig = &cfg
	}
	return out
}
