// Package sitemeta collects version information about the builder, the site and its plugins.
package sitemeta

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/spf13/afero"

	"git.home.luguber.info/inful/sitebuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/sitebuilder/internal/logfields"
	"git.home.luguber.info/inful/sitebuilder/internal/plugin"
	"git.home.luguber.info/inful/sitebuilder/internal/version"
)

// VersionFile, when present in the site root, pins the site version.
const VersionFile = "version"

const shortHashLen = 12

// Metadata describes the versions a site was built with.
type Metadata struct {
	BuilderVersion string                        `json:"builderVersion"`
	SiteVersion    string                        `json:"siteVersion,omitempty"`
	PluginVersions map[string]plugin.VersionInfo `json:"pluginVersions"`
}

// Args are the inputs of Load.
type Args struct {
	Plugins []*plugin.LoadedPlugin
	SiteDir string
	Logger  *slog.Logger
}

// Load gathers site metadata. The site version comes from VersionFile, then from the
// HEAD commit of an enclosing git repository, and is empty otherwise. The git lookup
// reads the host filesystem, so it only runs when fsys is an *afero.OsFs.
func Load(ctx context.Context, fsys afero.Fs, args Args) (Metadata, error) {
	logger := args.Logger
	if logger == nil {
		logger = slog.Default()
	}

	siteVersion, err := readVersionFile(fsys, args.SiteDir)
	if err != nil {
		return Metadata{}, err
	}
	if _, onDisk := fsys.(*afero.OsFs); onDisk && siteVersion == "" && ctx.Err() == nil {
		siteVersion = gitVersion(args.SiteDir, logger)
	}

	pv := make(map[string]plugin.VersionInfo, len(args.Plugins))
	for _, p := range args.Plugins {
		pv[p.Identifier.String()] = p.Version
	}

	return Metadata{
		BuilderVersion: version.Current(),
		SiteVersion:    siteVersion,
		PluginVersions: pv,
	}, nil
}

func readVersionFile(fsys afero.Fs, siteDir string) (string, error) {
	p := filepath.Join(siteDir, VersionFile)
	data, err := afero.ReadFile(fsys, p)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", errors.FileSystemError("failed to read site version file").
			WithCause(err).
			WithContext("path", p).
			Build()
	}
	return strings.TrimSpace(string(data)), nil
}

func gitVersion(siteDir string, logger *slog.Logger) string {
	repo, err := git.PlainOpenWithOptions(siteDir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		logger.Debug("Site is not inside a git repository", logfields.SiteDir(siteDir), logfields.Error(err))
		return ""
	}
	head, err := repo.Head()
	if err != nil {
		logger.Debug("Unable to resolve git HEAD", logfields.SiteDir(siteDir), logfields.Error(err))
		return ""
	}
	hash := head.Hash().String()
	if len(hash) > shortHashLen {
		hash = hash[:shortHashLen]
	}
	return hash
}
