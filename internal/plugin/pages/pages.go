// Package pages is the built-in plugin turning a directory of markdown files into routes.
package pages

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"git.home.luguber.info/inful/sitebuilder/internal/frontmatter"
	"git.home.luguber.info/inful/sitebuilder/internal/logfields"
	"git.home.luguber.info/inful/sitebuilder/internal/plugin"
	"git.home.luguber.info/inful/sitebuilder/internal/routes"
	"git.home.luguber.info/inful/sitebuilder/internal/version"
)

// Name is the name the plugin is registered under.
const Name = "pages"

// Options configure one pages instance.
type Options struct {
	Path          string   `yaml:"path"`
	RouteBasePath string   `yaml:"routeBasePath"`
	Component     string   `yaml:"component"`
	Exclude       []string `yaml:"exclude"`
}

func (o *Options) applyDefaults() {
	if o.Path == "" {
		o.Path = "src/pages"
	}
	if o.RouteBasePath == "" {
		o.RouteBasePath = "/"
	}
	if o.Component == "" {
		o.Component = "@theme/MarkdownPage"
	}
	if o.Exclude == nil {
		o.Exclude = []string{"_*", ".*"}
	}
}

// Page is one markdown page found in the content directory.
type Page struct {
	Source      string `json:"source"`
	Permalink   string `json:"permalink"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Fingerprint string `json:"fingerprint"`
}

// Content is what LoadContent returns.
type Content struct {
	Pages []Page
}

// PageSummary is the per-page global data entry.
type PageSummary struct {
	Path        string `json:"path"`
	Title       string `json:"title"`
	Fingerprint string `json:"fingerprint"`
}

// GlobalData is exposed to the client bundle.
type GlobalData struct {
	Pages []PageSummary `json:"pages"`
}

// Plugin loads markdown pages from one directory.
type Plugin struct {
	fs         afero.Fs
	siteDir    string
	contentDir string
	baseURL    string
	opts       Options
	logger     *slog.Logger
}

// New is the plugin.Factory of the pages plugin.
func New(ic plugin.InitContext) (plugin.Plugin, error) {
	var opts Options
	if err := ic.Options.Decode(&opts); err != nil {
		return nil, fmt.Errorf("invalid pages options: %w", err)
	}
	opts.applyDefaults()
	for _, pattern := range opts.Exclude {
		if _, err := path.Match(pattern, ""); err != nil {
			return nil, fmt.Errorf("invalid exclude pattern %q: %w", pattern, err)
		}
	}

	contentDir := opts.Path
	if !filepath.IsAbs(contentDir) {
		contentDir = filepath.Join(ic.Context.SiteDir, contentDir)
	}
	fsys := ic.Fs
	if fsys == nil {
		fsys = afero.NewOsFs()
	}
	logger := ic.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Plugin{
		fs:         fsys,
		siteDir:    ic.Context.SiteDir,
		contentDir: contentDir,
		baseURL:    ic.Context.BaseURL,
		opts:       opts,
		logger:     logger,
	}, nil
}

// Register adds the plugin to reg.
func Register(reg *plugin.Registry) error {
	return reg.Register(Name, New)
}

func (p *Plugin) Name() string { return Name }

// LoadContent walks the content directory. A missing directory yields no pages.
func (p *Plugin) LoadContent(ctx context.Context) (any, error) {
	if ok, err := afero.DirExists(p.fs, p.contentDir); err != nil || !ok {
		if err != nil && !os.IsNotExist(err) {
			return nil, err
		}
		p.logger.Debug("Pages directory missing, no pages loaded", logfields.Path(p.contentDir))
		return &Content{}, nil
	}

	content := &Content{}
	err := afero.Walk(p.fs, p.contentDir, func(file string, info fs.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if file != p.contentDir && p.excluded(info.Name()) {
			if info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if info.IsDir() || !isMarkdown(file) {
			return nil
		}
		page, err := p.loadPage(file)
		if err != nil {
			return fmt.Errorf("%s: %w", file, err)
		}
		content.Pages = append(content.Pages, page)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return content, nil
}

func (p *Plugin) loadPage(file string) (Page, error) {
	raw, err := afero.ReadFile(p.fs, file)
	if err != nil {
		return Page{}, err
	}
	doc, err := frontmatter.Parse(raw)
	if err != nil {
		return Page{}, err
	}
	fp, err := frontmatter.Fingerprint(doc)
	if err != nil {
		return Page{}, err
	}

	rel, err := filepath.Rel(p.contentDir, file)
	if err != nil {
		return Page{}, err
	}
	rel = filepath.ToSlash(rel)

	title := doc.String("title")
	if title == "" {
		title = FirstHeading(doc.Body)
	}

	slug := doc.String("slug")
	if slug == "" {
		slug = fileToPath(rel)
	}

	source, err := filepath.Rel(p.siteDir, file)
	if err != nil {
		source = file
	}

	return Page{
		Source:      "@site/" + filepath.ToSlash(source),
		Permalink:   joinURL(p.baseURL, p.opts.RouteBasePath, slug),
		Title:       title,
		Description: doc.String("description"),
		Fingerprint: fp,
	}, nil
}

// ContentLoaded adds one exact route per page and publishes the page list.
func (p *Plugin) ContentLoaded(_ context.Context, content any, actions *plugin.Actions) error {
	c, ok := content.(*Content)
	if !ok {
		return fmt.Errorf("unexpected content type %T", content)
	}

	data := GlobalData{Pages: make([]PageSummary, 0, len(c.Pages))}
	for _, page := range c.Pages {
		actions.AddRoute(routes.Route{
			Path:      page.Permalink,
			Component: p.opts.Component,
			Exact:     true,
			Modules:   map[string]string{"content": page.Source},
			Metadata:  map[string]string{"sourceFilePath": page.Source, "fingerprint": page.Fingerprint},
		})
		data.Pages = append(data.Pages, PageSummary{Path: page.Permalink, Title: page.Title, Fingerprint: page.Fingerprint})
	}
	actions.SetGlobalData(data)
	return nil
}

// PathsToWatch returns the content directory.
func (p *Plugin) PathsToWatch() []string {
	return []string{p.contentDir}
}

// Version reports the plugin as shipped with the builder.
func (p *Plugin) Version() plugin.VersionInfo {
	return plugin.VersionInfo{Type: "synthetic", Name: "sitebuilder-plugin-pages", Version: version.Current()}
}

func (p *Plugin) excluded(name string) bool {
	for _, pattern := range p.opts.Exclude {
		if ok, _ := path.Match(pattern, name); ok {
			return true
		}
	}
	return false
}

func isMarkdown(file string) bool {
	switch strings.ToLower(filepath.Ext(file)) {
	case ".md", ".markdown", ".mdx":
		return true
	}
	return false
}

// fileToPath maps a relative source file to its URL path: index files map to their directory.
func fileToPath(rel string) string {
	trimmed := strings.TrimSuffix(rel, path.Ext(rel))
	if trimmed == "index" {
		return "/"
	}
	if strings.HasSuffix(trimmed, "/index") {
		return "/" + strings.TrimSuffix(trimmed, "index")
	}
	return "/" + trimmed
}

// joinURL joins URL segments with single slashes, keeping a trailing slash on the last one.
func joinURL(parts ...string) string {
	var segs []string
	for _, part := range parts {
		for _, s := range strings.Split(part, "/") {
			if s != "" {
				segs = append(segs, s)
			}
		}
	}
	out := "/" + strings.Join(segs, "/")
	last := parts[len(parts)-1]
	if strings.HasSuffix(last, "/") && out != "/" {
		out += "/"
	}
	return out
}
