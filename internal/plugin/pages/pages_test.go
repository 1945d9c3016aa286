package pages

import (
	"context"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/sitebuilder/internal/config"
	"git.home.luguber.info/inful/sitebuilder/internal/plugin"
	"git.home.luguber.info/inful/sitebuilder/internal/routes"
	"git.home.luguber.info/inful/sitebuilder/internal/sitecontext"
)

func newSiteFs(t *testing.T, files map[string]string) afero.Fs {
	t.Helper()
	fsys := afero.NewMemMapFs()
	for name, content := range files {
		require.NoError(t, afero.WriteFile(fsys, name, []byte(content), 0o644))
	}
	return fsys
}

func loadPages(t *testing.T, fsys afero.Fs, baseURL string, opts map[string]any) *plugin.Result {
	t.Helper()
	reg := plugin.NewRegistry()
	require.NoError(t, Register(reg))

	cfg := &config.SiteConfig{Title: "t", URL: "https://example.com", Plugins: []config.PluginConfig{{Name: Name, Options: opts}}}
	config.ApplyDefaults(cfg)
	res, err := plugin.Load(context.Background(), reg, plugin.LoadArgs{
		Context: sitecontext.Context{SiteDir: "/site", BaseURL: baseURL, SiteConfig: cfg},
		Fs:      fsys,
	})
	require.NoError(t, err)
	return res
}

func TestPages_RoutesAndGlobalData(t *testing.T) {
	fsys := newSiteFs(t, map[string]string{
		"/site/src/pages/index.md":       "# Home\n",
		"/site/src/pages/about.md":       "---\ntitle: About us\n---\nText\n",
		"/site/src/pages/blog/index.md":  "# Blog\n",
		"/site/src/pages/custom.md":      "---\nslug: /hello\n---\n# Hi\n",
		"/site/src/pages/_draft.md":      "# Draft\n",
		"/site/src/pages/styles.css":     "body{}",
		"/site/src/pages/_partials/x.md": "# Partial\n",
	})

	res := loadPages(t, fsys, "/", nil)

	require.ElementsMatch(t, []string{"/", "/about", "/blog/", "/hello"}, routes.Paths(res.Routes, "/"))
	require.Equal(t, "@theme/MarkdownPage", res.Routes[0].Component)

	data := res.GlobalData[plugin.Identifier{Name: Name, ID: "default"}].(GlobalData)
	titles := map[string]string{}
	for _, p := range data.Pages {
		titles[p.Path] = p.Title
		require.NotEmpty(t, p.Fingerprint)
	}
	require.Equal(t, map[string]string{"/": "Home", "/about": "About us", "/blog/": "Blog", "/hello": "Hi"}, titles)
}

func TestPages_BaseURLAndRouteBasePath(t *testing.T) {
	fsys := newSiteFs(t, map[string]string{
		"/site/content/guide.md": "# Guide\n",
	})

	res := loadPages(t, fsys, "/docs/", map[string]any{"path": "content", "routeBasePath": "/help"})

	require.Equal(t, []string{"/docs/help/guide"}, routes.Paths(res.Routes, "/docs/"))
	require.Equal(t, "@site/content/guide.md", res.Routes[0].Modules["content"])
	require.Equal(t, []string{"/site/content"}, res.Plugins[0].PathsToWatch)
}

func TestPages_MissingDirectoryIsEmpty(t *testing.T) {
	res := loadPages(t, afero.NewMemMapFs(), "/", nil)

	require.Empty(t, res.Routes)
	data := res.GlobalData[plugin.Identifier{Name: Name, ID: "default"}].(GlobalData)
	require.Empty(t, data.Pages)
}

func TestPages_BrokenFrontMatterFails(t *testing.T) {
	fsys := newSiteFs(t, map[string]string{"/site/src/pages/bad.md": "---\ntitle: x\n"})

	reg := plugin.NewRegistry()
	require.NoError(t, Register(reg))
	cfg := &config.SiteConfig{Plugins: []config.PluginConfig{{Name: Name, ID: "default"}}}
	_, err := plugin.Load(context.Background(), reg, plugin.LoadArgs{
		Context: sitecontext.Context{SiteDir: "/site", BaseURL: "/", SiteConfig: cfg},
		Fs:      fsys,
	})
	var pe *plugin.PluginError
	require.ErrorAs(t, err, &pe)
	require.Equal(t, plugin.PhaseLoadContent, pe.Phase)
}

func TestFileToPath(t *testing.T) {
	require.Equal(t, "/", fileToPath("index.md"))
	require.Equal(t, "/a/b", fileToPath("a/b.md"))
	require.Equal(t, "/a/", fileToPath("a/index.mdx"))
}

func TestFirstHeading(t *testing.T) {
	require.Equal(t, "Hello code world", FirstHeading([]byte("intro\n\n## Sub\n\n# Hello `code` *world*\n")))
	require.Equal(t, "", FirstHeading([]byte("no heading")))
}
