package devserver

import (
	"path/filepath"
	"slices"
	"strings"

	"git.home.luguber.info/inful/sitebuilder/internal/plugin"
	"git.home.luguber.info/inful/sitebuilder/internal/site"
)

// envFiles are the dotenv files read alongside the site configuration.
var envFiles = []string{".env", ".env.local"}

// batch accumulates the reload work implied by a burst of file changes.
type batch struct {
	full    bool
	plugins []plugin.Identifier
	paths   int
}

func (b *batch) empty() bool { return !b.full && len(b.plugins) == 0 }

// add merges one change. It reports whether the change mattered.
func (b *batch) add(c change) bool {
	if c.full {
		b.full = true
		b.paths++
		return true
	}
	if len(c.plugins) == 0 {
		return false
	}
	for _, id := range c.plugins {
		if !slices.Contains(b.plugins, id) {
			b.plugins = append(b.plugins, id)
		}
	}
	b.paths++
	return true
}

// change is the classification of a single changed path.
type change struct {
	full    bool
	plugins []plugin.Identifier
}

// classify maps a changed path to the reload it requires against s. Changes to the
// site config, dotenv files or the localization directory need a full reload; changes
// under a plugin's watched paths need that plugin reloaded. Generated files and build
// output are ignored.
func classify(s *site.Site, path string) change {
	p := s.Props
	path = filepath.Clean(path)

	if within(path, p.GeneratedFilesDir) || within(path, p.OutDir) {
		return change{}
	}
	if path == filepath.Clean(p.SiteConfigPath) || within(path, p.LocalizationDir) {
		return change{full: true}
	}
	for _, name := range envFiles {
		if path == filepath.Join(p.SiteDir, name) {
			return change{full: true}
		}
	}

	var c change
	for _, lp := range p.Plugins {
		for _, watched := range lp.PathsToWatch {
			if within(path, watched) {
				c.plugins = append(c.plugins, lp.Identifier)
				break
			}
		}
	}
	return c
}

// within reports whether path equals root or lies below it.
func within(path, root string) bool {
	if root == "" {
		return false
	}
	root = filepath.Clean(root)
	if path == root {
		return true
	}
	return strings.HasPrefix(path, root+string(filepath.Separator))
}

// watchRoot is a path to watch. Recursive roots include every subdirectory.
type watchRoot struct {
	path      string
	recursive bool
}

// watchRoots returns the paths that must be watched for s, in a stable order.
func watchRoots(s *site.Site) []watchRoot {
	p := s.Props
	roots := []watchRoot{{path: p.SiteDir}}
	if p.SiteConfigPath != "" {
		roots = append(roots, watchRoot{path: filepath.Dir(p.SiteConfigPath)})
	}
	if p.LocalizationDir != "" {
		roots = append(roots, watchRoot{path: p.LocalizationDir, recursive: true})
	}
	for _, lp := range p.Plugins {
		for _, path := range lp.PathsToWatch {
			roots = append(roots, watchRoot{path: path, recursive: true})
		}
	}

	out := make([]watchRoot, 0, len(roots))
	for _, r := range roots {
		r.path = filepath.Clean(r.path)
		if i := slices.IndexFunc(out, func(o watchRoot) bool { return o.path == r.path }); i >= 0 {
			out[i].recursive = out[i].recursive || r.recursive
			continue
		}
		out = append(out, r)
	}
	return out
}
