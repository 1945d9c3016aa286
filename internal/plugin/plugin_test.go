package plugin

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/sitebuilder/internal/config"
	"git.home.luguber.info/inful/sitebuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/sitebuilder/internal/routes"
	"git.home.luguber.info/inful/sitebuilder/internal/sitecontext"
)

// fakePlugin contributes one route per path and exposes its paths as global data.
type fakePlugin struct {
	name      string
	paths     []string
	loadErr   error
	loadedErr error
	started   chan<- string
	waitFor   <-chan string
	modules   []string
	tags      InjectedTags
	messages  map[string]string
	watch     []string
}

func (f *fakePlugin) Name() string { return f.name }

func (f *fakePlugin) LoadContent(ctx context.Context) (any, error) {
	if f.started != nil {
		f.started <- f.name
	}
	if f.waitFor != nil {
		select {
		case <-f.waitFor:
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(2 * time.Second):
			return nil, fmt.Errorf("%s: peer never started", f.name)
		}
	}
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return append([]string(nil), f.paths...), nil
}

func (f *fakePlugin) ContentLoaded(_ context.Context, content any, actions *Actions) error {
	if f.loadedErr != nil {
		return f.loadedErr
	}
	paths := content.([]string)
	for _, p := range paths {
		actions.AddRoute(routes.Route{Path: p, Component: f.name})
	}
	actions.SetGlobalData(map[string]any{"paths": paths})
	return nil
}

func (f *fakePlugin) ClientModules() []string     { return f.modules }
func (f *fakePlugin) InjectHTMLTags() InjectedTags { return f.tags }
func (f *fakePlugin) PathsToWatch() []string      { return f.watch }
func (f *fakePlugin) Version() VersionInfo        { return VersionInfo{Type: "synthetic", Name: f.name} }
func (f *fakePlugin) DefaultCodeTranslationMessages(context.Context) (map[string]string, error) {
	return f.messages, nil
}

func registryWith(plugins map[string]*fakePlugin) *Registry {
	reg := NewRegistry()
	for name, p := range plugins {
		reg.MustRegister(name, func(InitContext) (Plugin, error) { return p, nil })
	}
	return reg
}

func contextWith(pcs ...config.PluginConfig) sitecontext.Context {
	cfg := &config.SiteConfig{Title: "t", URL: "https://example.com", Plugins: pcs}
	config.ApplyDefaults(cfg)
	return sitecontext.Context{SiteDir: "/site", BaseURL: "/", SiteConfig: cfg}
}

func loadAB(t *testing.T) (*Result, *fakePlugin, *fakePlugin) {
	t.Helper()
	a := &fakePlugin{name: "a", paths: []string{"/a"}}
	b := &fakePlugin{name: "b", paths: []string{"/b"}}
	res, err := Load(context.Background(), registryWith(map[string]*fakePlugin{"a": a, "b": b}), LoadArgs{
		Context: contextWith(config.PluginConfig{Name: "a"}, config.PluginConfig{Name: "b"}),
		Fs:      afero.NewMemMapFs(),
	})
	require.NoError(t, err)
	return res, a, b
}

func TestLoad_PoolsRoutesInRegistrationOrder(t *testing.T) {
	res, _, _ := loadAB(t)

	require.Len(t, res.Plugins, 2)
	require.Equal(t, []string{"/a", "/b"}, routes.Paths(res.Routes, "/"))
	require.Equal(t, "a@default", res.Routes[0].Plugin)
	require.Equal(t, "synthetic", res.Plugins[0].Version.Type)
}

func TestLoad_GlobalDataKeyedByEveryPlugin(t *testing.T) {
	res, _, _ := loadAB(t)

	require.Len(t, res.GlobalData, 2)
	require.Contains(t, res.GlobalData, Identifier{Name: "a", ID: "default"})
	require.Contains(t, res.GlobalData, Identifier{Name: "b", ID: "default"})
}

func TestLoad_SameImplementationTwice(t *testing.T) {
	reg := NewRegistry()
	reg.MustRegister("pages", func(ic InitContext) (Plugin, error) {
		return &fakePlugin{name: "pages", paths: []string{"/" + ic.Identifier.ID}}, nil
	})
	res, err := Load(context.Background(), reg, LoadArgs{
		Context: contextWith(config.PluginConfig{Name: "pages"}, config.PluginConfig{Name: "pages", ID: "blog"}),
	})
	require.NoError(t, err)
	require.Equal(t, []string{"/default", "/blog"}, routes.Paths(res.Routes, "/"))
	require.Len(t, res.GlobalData, 2)
}

func TestLoad_RunsPluginsConcurrently(t *testing.T) {
	aStarted := make(chan string, 1)
	bStarted := make(chan string, 1)
	a := &fakePlugin{name: "a", paths: []string{"/a"}, started: aStarted, waitFor: bStarted}
	b := &fakePlugin{name: "b", paths: []string{"/b"}, started: bStarted, waitFor: aStarted}

	_, err := Load(context.Background(), registryWith(map[string]*fakePlugin{"a": a, "b": b}), LoadArgs{
		Context: contextWith(config.PluginConfig{Name: "a"}, config.PluginConfig{Name: "b"}),
	})
	require.NoError(t, err)
}

func TestLoad_UnknownPlugin(t *testing.T) {
	_, err := Load(context.Background(), NewRegistry(), LoadArgs{
		Context: contextWith(config.PluginConfig{Name: "missing"}),
	})
	require.True(t, errors.HasCategory(err, errors.CategoryConfig))
}

func TestLoad_LifecycleFailure(t *testing.T) {
	boom := stderrors.New("boom")
	a := &fakePlugin{name: "a", paths: []string{"/a"}}
	b := &fakePlugin{name: "b", loadedErr: boom}

	res, err := Load(context.Background(), registryWith(map[string]*fakePlugin{"a": a, "b": b}), LoadArgs{
		Context: contextWith(config.PluginConfig{Name: "a"}, config.PluginConfig{Name: "b", ID: "x"}),
	})
	require.Nil(t, res)
	require.True(t, errors.HasCategory(err, errors.CategoryPlugin))
	require.ErrorIs(t, err, boom)

	var pe *PluginError
	require.ErrorAs(t, err, &pe)
	require.Equal(t, Identifier{Name: "b", ID: "x"}, pe.Identifier)
	require.Equal(t, PhaseContentLoaded, pe.Phase)
	require.Equal(t, 1, strings.Count(err.Error(), "b@x failed during"), err.Error())
}

func TestLoad_FactoryFailure(t *testing.T) {
	reg := NewRegistry()
	reg.MustRegister("bad", func(InitContext) (Plugin, error) { return nil, stderrors.New("bad options") })

	_, err := Load(context.Background(), reg, LoadArgs{Context: contextWith(config.PluginConfig{Name: "bad"})})
	var pe *PluginError
	require.ErrorAs(t, err, &pe)
	require.Equal(t, PhaseInit, pe.Phase)
}

func TestReload_ReplacesOnlyTargetPlugin(t *testing.T) {
	res, _, b := loadAB(t)
	before := res.Plugins[0]
	beforeData := res.GlobalData[Identifier{Name: "a", ID: "default"}]

	b.paths = []string{"/b2"}
	got, err := Reload(context.Background(), ReloadArgs{
		Identifier: Identifier{Name: "b", ID: "default"},
		Plugins:    res.Plugins,
	})
	require.NoError(t, err)

	require.Equal(t, []string{"/a", "/b2"}, routes.Paths(got.Routes, "/"))
	require.Same(t, before, got.Plugins[0])
	require.Equal(t, fmt.Sprintf("%p", beforeData), fmt.Sprintf("%p", got.GlobalData[Identifier{Name: "a", ID: "default"}]))
	require.Equal(t, []string{"/a", "/b"}, routes.Paths(res.Routes, "/"), "input result must not change")
}

func TestReload_UnknownIdentifier(t *testing.T) {
	res, _, _ := loadAB(t)

	_, err := Reload(context.Background(), ReloadArgs{Identifier: Identifier{Name: "c", ID: "default"}, Plugins: res.Plugins})
	require.True(t, errors.HasCategory(err, errors.CategoryPlugin))
}

func TestReload_FailureLeavesInputIntact(t *testing.T) {
	res, _, b := loadAB(t)
	original := res.Plugins[1]

	b.loadErr = stderrors.New("disk gone")
	_, err := Reload(context.Background(), ReloadArgs{Identifier: Identifier{Name: "b", ID: "default"}, Plugins: res.Plugins})
	require.Error(t, err)
	require.Same(t, original, res.Plugins[1])
}
