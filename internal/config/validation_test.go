package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func validConfig() *SiteConfig {
	cfg := &SiteConfig{Title: "Site", URL: "https://example.com"}
	ApplyDefaults(cfg)
	return cfg
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*SiteConfig)
		wantErr string
	}{
		{name: "valid", mutate: func(*SiteConfig) {}},
		{name: "missing title", mutate: func(c *SiteConfig) { c.Title = "" }, wantErr: "title is required"},
		{name: "missing url", mutate: func(c *SiteConfig) { c.URL = "" }, wantErr: "url is required"},
		{name: "url scheme", mutate: func(c *SiteConfig) { c.URL = "ftp://example.com" }, wantErr: "http or https"},
		{name: "url with path", mutate: func(c *SiteConfig) { c.URL = "https://example.com/docs" }, wantErr: "must not contain a path"},
		{name: "baseUrl no leading slash", mutate: func(c *SiteConfig) { c.BaseURL = "docs/" }, wantErr: "baseUrl"},
		{name: "baseUrl no trailing slash", mutate: func(c *SiteConfig) { c.BaseURL = "/docs" }, wantErr: "baseUrl"},
		{name: "unknown policy", mutate: func(c *SiteConfig) { c.OnDuplicateRoutes = "explode" }, wantErr: "onDuplicateRoutes"},
		{name: "throw policy accepted", mutate: func(c *SiteConfig) { c.OnDuplicateRoutes = "throw" }},
		{name: "duplicate locale", mutate: func(c *SiteConfig) { c.I18n.Locales = []string{"en", "en"} }, wantErr: "twice"},
		{
			name: "locale config for unknown locale",
			mutate: func(c *SiteConfig) {
				c.I18n.LocaleConfigs = map[string]LocaleConfig{"de": {}}
			},
			wantErr: "not in i18n.locales",
		},
		{
			name: "bad direction",
			mutate: func(c *SiteConfig) {
				c.I18n.LocaleConfigs = map[string]LocaleConfig{"en": {Direction: "up"}}
			},
			wantErr: "direction",
		},
		{
			name: "duplicate plugin identifier",
			mutate: func(c *SiteConfig) {
				c.Plugins = []PluginConfig{{Name: "pages", ID: "default"}, {Name: "pages", ID: "default"}}
			},
			wantErr: "declared twice",
		},
		{
			name: "same plugin different ids",
			mutate: func(c *SiteConfig) {
				c.Plugins = []PluginConfig{{Name: "pages", ID: "default"}, {Name: "pages", ID: "blog"}}
			},
		},
		{name: "head tag without name", mutate: func(c *SiteConfig) { c.HeadTags = []HTMLTag{{}} }, wantErr: "tagName"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := ValidateConfig(cfg)
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestApplyDefaults_KeepsExplicitValues(t *testing.T) {
	cfg := &SiteConfig{
		BaseURL:           "/docs/",
		OnDuplicateRoutes: "ignore",
		StaticDirectories: []string{},
		I18n:              I18nConfig{DefaultLocale: "fr", Path: "translations"},
	}
	ApplyDefaults(cfg)

	require.Equal(t, "/docs/", cfg.BaseURL)
	require.Equal(t, "ignore", cfg.OnDuplicateRoutes)
	require.Empty(t, cfg.StaticDirectories)
	require.Equal(t, []string{"fr"}, cfg.I18n.Locales)
	require.Equal(t, "translations", cfg.I18n.Path)
}
