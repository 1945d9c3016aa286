package devserver

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/sitebuilder/internal/plugin"
	"git.home.luguber.info/inful/sitebuilder/internal/props"
	"git.home.luguber.info/inful/sitebuilder/internal/site"
	"git.home.luguber.info/inful/sitebuilder/internal/sitecontext"
)

var (
	pagesID = plugin.Identifier{Name: "pages", ID: "default"}
	blogID  = plugin.Identifier{Name: "pages", ID: "blog"}
)

func testSite(dir string) *site.Site {
	return &site.Site{
		Props: &props.Props{
			Context: sitecontext.Context{
				SiteDir:           dir,
				SiteConfigPath:    filepath.Join(dir, "sitebuilder.config.yaml"),
				GeneratedFilesDir: filepath.Join(dir, sitecontext.GeneratedFilesDirName),
				LocalizationDir:   filepath.Join(dir, "i18n", "en"),
				OutDir:            filepath.Join(dir, "build"),
			},
			Plugins: []*plugin.LoadedPlugin{
				{Identifier: pagesID, PathsToWatch: []string{filepath.Join(dir, "src", "pages")}},
				{Identifier: blogID, PathsToWatch: []string{filepath.Join(dir, "blog")}},
				{Identifier: plugin.Identifier{Name: "headtags", ID: "default"}},
			},
		},
		Params: sitecontext.Params{SiteDir: dir},
	}
}

func TestClassify(t *testing.T) {
	dir := "/site"
	s := testSite(dir)

	tests := []struct {
		name string
		path string
		want change
	}{
		{"config file", "/site/sitebuilder.config.yaml", change{full: true}},
		{"dotenv", "/site/.env", change{full: true}},
		{"dotenv local", "/site/.env.local", change{full: true}},
		{"translations", "/site/i18n/en/code.json", change{full: true}},
		{"other locale", "/site/i18n/fr/code.json", change{}},
		{"page", "/site/src/pages/guide/intro.md", change{plugins: []plugin.Identifier{pagesID}}},
		{"plugin root itself", "/site/blog", change{plugins: []plugin.Identifier{blogID}}},
		{"sibling prefix", "/site/blogroll/x.md", change{}},
		{"generated files", "/site/.sitebuilder/routes.json", change{}},
		{"build output", "/site/build/index.html", change{}},
		{"unrelated", "/site/README.md", change{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, classify(s, tt.path))
		})
	}
}

func TestClassify_OverlappingWatchPaths(t *testing.T) {
	s := testSite("/site")
	s.Props.Plugins[1].PathsToWatch = []string{"/site/src"}

	c := classify(s, "/site/src/pages/a.md")
	require.False(t, c.full)
	require.Equal(t, []plugin.Identifier{pagesID, blogID}, c.plugins)
}

func TestBatch_MergesAndDeduplicates(t *testing.T) {
	var b batch
	require.True(t, b.empty())
	require.False(t, b.add(change{}))
	require.True(t, b.empty())

	require.True(t, b.add(change{plugins: []plugin.Identifier{blogID}}))
	require.True(t, b.add(change{plugins: []plugin.Identifier{pagesID, blogID}}))
	require.Equal(t, []plugin.Identifier{blogID, pagesID}, b.plugins)
	require.False(t, b.full)

	require.True(t, b.add(change{full: true}))
	require.True(t, b.full)
	require.Equal(t, 3, b.paths)
}

func TestWatchRoots(t *testing.T) {
	s := testSite("/site")
	roots := watchRoots(s)

	require.Equal(t, []watchRoot{
		{path: "/site"},
		{path: "/site/i18n/en", recursive: true},
		{path: "/site/src/pages", recursive: true},
		{path: "/site/blog", recursive: true},
	}, roots)
}

func TestWatchDirs(t *testing.T) {
	dir := t.TempDir()
	for _, d := range []string{"src/pages/guide", "src/pages/.hidden", "src/pages/node_modules/x"} {
		require.NoError(t, mkdirAll(filepath.Join(dir, d)))
	}
	require.NoError(t, writeFile(filepath.Join(dir, "src/pages/index.md"), "# Home\n"))

	pages := filepath.Join(dir, "src", "pages")
	require.ElementsMatch(t,
		[]string{pages, filepath.Join(pages, "guide")},
		watchDirs(watchRoot{path: pages, recursive: true}))
	require.Equal(t, []string{pages}, watchDirs(watchRoot{path: pages}))
	require.Equal(t, []string{pages}, watchDirs(watchRoot{path: filepath.Join(pages, "index.md")}))
	require.Equal(t, []string{filepath.Join(dir, "src")}, watchDirs(watchRoot{path: filepath.Join(dir, "src", "blog", "posts"), recursive: true}))
}
