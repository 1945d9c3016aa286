// Package codegen writes the files a bundler consumes into the generated-files directory.
package codegen

import (
	"context"
	"encoding/json"
	"log/slog"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"git.home.luguber.info/inful/sitebuilder/internal/config"
	"git.home.luguber.info/inful/sitebuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/sitebuilder/internal/i18n"
	"git.home.luguber.info/inful/sitebuilder/internal/logfields"
	"git.home.luguber.info/inful/sitebuilder/internal/plugin"
	"git.home.luguber.info/inful/sitebuilder/internal/routes"
	"git.home.luguber.info/inful/sitebuilder/internal/sitemeta"
)

// Generated file names, relative to the generated-files directory.
const (
	ConfigFile           = "sitebuilder.config.json"
	MetadataFile         = "site-metadata.json"
	I18nFile             = "i18n.json"
	CodeTranslationsFile = "code-translations.json"
	GlobalDataFile       = "global-data.json"
	RoutesFile           = "routes.json"
	ClientModulesFile    = "client-modules.json"
	ReadmeFile           = "DONT-EDIT-THIS-FOLDER"
)

const readme = `This folder stores temp files that sitebuilder's client bundler accesses.

DO NOT hand-modify files in this folder because they will be overwritten in the
next build. You can clear all build artifacts (including this folder) by deleting it.
`

// Args are the inputs of Generate.
type Args struct {
	GeneratedFilesDir string
	ClientModules     []string
	SiteConfig        *config.SiteConfig
	SiteMetadata      sitemeta.Metadata
	I18n              *i18n.I18n
	CodeTranslations  map[string]string
	GlobalData        plugin.GlobalData
	Routes            []routes.Route
	BaseURL           string
	Logger            *slog.Logger
}

// RoutesDocument is the content of RoutesFile.
type RoutesDocument struct {
	BaseURL string         `json:"baseUrl"`
	Routes  []routes.Route `json:"routes"`
}

// Generate writes every generated file. Files are written concurrently; the first failure
// is returned as a codegen error once all writes have finished.
func Generate(ctx context.Context, w *Writer, args Args) error {
	logger := args.Logger
	if logger == nil {
		logger = slog.Default()
	}

	routeList := args.Routes
	if routeList == nil {
		routeList = []routes.Route{}
	}
	modules := args.ClientModules
	if modules == nil {
		modules = []string{}
	}
	translations := args.CodeTranslations
	if translations == nil {
		translations = map[string]string{}
	}

	files := []struct {
		name  string
		value any
	}{
		{ConfigFile, args.SiteConfig},
		{MetadataFile, args.SiteMetadata},
		{I18nFile, args.I18n},
		{CodeTranslationsFile, translations},
		{GlobalDataFile, NestGlobalData(args.GlobalData)},
		{RoutesFile, RoutesDocument{BaseURL: args.BaseURL, Routes: routeList}},
		{ClientModulesFile, modules},
	}

	g, gctx := errgroup.WithContext(ctx)
	written := make([]bool, len(files)+1)
	g.Go(func() error {
		ok, err := w.WriteFile(filepath.Join(args.GeneratedFilesDir, ReadmeFile), []byte(readme))
		written[len(files)] = ok
		return wrapWriteError(ReadmeFile, err)
	})
	for i, f := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			data, err := json.MarshalIndent(f.value, "", "  ")
			if err != nil {
				return errors.CodegenError("failed to encode generated file").
					WithCause(err).
					WithContext("file", f.name).
					Build()
			}
			ok, err := w.WriteFile(filepath.Join(args.GeneratedFilesDir, f.name), append(data, '\n'))
			written[i] = ok
			return wrapWriteError(f.name, err)
		})
	}
	if err := g.Wait(); err != nil {
		if _, ok := errors.AsClassified(err); ok {
			return err
		}
		return errors.CodegenError("generation aborted").WithCause(err).Build()
	}

	n := 0
	for _, ok := range written {
		if ok {
			n++
		}
	}
	logger.Debug("Generated site files",
		logfields.Path(args.GeneratedFilesDir),
		slog.Int("written", n),
		slog.Int("unchanged", len(written)-n))
	return nil
}

func wrapWriteError(name string, err error) error {
	if err == nil {
		return nil
	}
	return errors.CodegenError("failed to write generated file").
		WithCause(err).
		WithContext("file", name).
		Build()
}

// NestGlobalData converts identifier keys into name -> id -> data.
func NestGlobalData(gd plugin.GlobalData) map[string]map[string]any {
	out := make(map[string]map[string]any)
	for id, data := range gd {
		if out[id.Name] == nil {
			out[id.Name] = make(map[string]any)
		}
		out[id.Name][id.ID] = data
	}
	return out
}
