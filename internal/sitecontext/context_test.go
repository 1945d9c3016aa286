package sitecontext

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/sitebuilder/internal/foundation/errors"
)

const siteYAML = `title: Docs
url: https://example.com
baseUrl: /docs/
i18n:
  defaultLocale: en
  locales: [en, fr]
`

func newSite(t *testing.T) afero.Fs {
	t.Helper()
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "/site/sitebuilder.config.yaml", []byte(siteYAML), 0o644))
	return fsys
}

func boolPtr(b bool) *bool { return &b }

func TestLoad_DefaultLocale(t *testing.T) {
	got, err := Load(context.Background(), newSite(t), Params{SiteDir: "/site"})
	require.NoError(t, err)

	require.Equal(t, "/site", got.SiteDir)
	require.Equal(t, filepath.Join("/site", ".sitebuilder"), got.GeneratedFilesDir)
	require.Equal(t, filepath.Join("/site", "sitebuilder.config.yaml"), got.SiteConfigPath)
	require.Equal(t, "/docs/", got.BaseURL)
	require.Equal(t, "/docs/", got.SiteConfig.BaseURL)
	require.Equal(t, filepath.Join("/site", "build"), got.OutDir)
	require.Equal(t, filepath.Join("/site", "i18n", "en"), got.LocalizationDir)
	require.Equal(t, "en", got.I18n.CurrentLocale)
}

func TestLoad_NonDefaultLocalePrefixed(t *testing.T) {
	got, err := Load(context.Background(), newSite(t), Params{SiteDir: "/site", Locale: "fr"})
	require.NoError(t, err)

	require.Equal(t, "/docs/fr/", got.BaseURL)
	require.Equal(t, "/docs/fr/", got.SiteConfig.BaseURL)
	require.Equal(t, filepath.Join("/site", "build", "fr"), got.OutDir)
	require.Equal(t, filepath.Join("/site", "i18n", "fr"), got.LocalizationDir)
}

func TestLoad_LocalizeFlag(t *testing.T) {
	tests := []struct {
		name     string
		locale   string
		localize *bool
		prefixed bool
	}{
		{"default unset", "en", nil, false},
		{"default forced", "en", boolPtr(true), true},
		{"default suppressed", "en", boolPtr(false), false},
		{"non-default unset", "fr", nil, true},
		{"non-default forced", "fr", boolPtr(true), true},
		{"non-default suppressed", "fr", boolPtr(false), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Load(context.Background(), newSite(t), Params{SiteDir: "/site", Locale: tt.locale, Localize: tt.localize})
			require.NoError(t, err)
			wantURL, wantOut := "/docs/", filepath.Join("/site", "build")
			if tt.prefixed {
				wantURL = "/docs/" + tt.locale + "/"
				wantOut = filepath.Join(wantOut, tt.locale)
			}
			require.Equal(t, wantURL, got.BaseURL)
			require.Equal(t, wantOut, got.OutDir)
		})
	}
}

func TestLoad_OutDirOverride(t *testing.T) {
	got, err := Load(context.Background(), newSite(t), Params{SiteDir: "/site", OutDir: "dist", Locale: "fr"})
	require.NoError(t, err)
	require.Equal(t, filepath.Join("/site", "dist", "fr"), got.OutDir)

	got, err = Load(context.Background(), newSite(t), Params{SiteDir: "/site", OutDir: "/tmp/out"})
	require.NoError(t, err)
	require.Equal(t, "/tmp/out", got.OutDir)
}

func TestLoad_CodeTranslations(t *testing.T) {
	fsys := newSite(t)
	require.NoError(t, afero.WriteFile(fsys, "/site/i18n/fr/code.json", []byte(`{"hello": "Bonjour"}`), 0o644))

	got, err := Load(context.Background(), fsys, Params{SiteDir: "/site", Locale: "fr"})
	require.NoError(t, err)
	require.Equal(t, map[string]string{"hello": "Bonjour"}, got.CodeTranslations)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(context.Background(), afero.NewMemMapFs(), Params{SiteDir: "/site"})
	require.True(t, errors.HasCategory(err, errors.CategoryConfig))

	_, err = Load(context.Background(), newSite(t), Params{SiteDir: "/site", Locale: "de"})
	require.True(t, errors.HasCategory(err, errors.CategoryI18n))
}

func TestLoad_DefaultLocaleNotConfigured(t *testing.T) {
	fsys := afero.NewMemMapFs()
	cfg := "title: Docs\nurl: https://example.com\ni18n:\n  defaultLocale: de\n  locales: [en]\n"
	require.NoError(t, afero.WriteFile(fsys, "/site/sitebuilder.config.yaml", []byte(cfg), 0o644))

	_, err := Load(context.Background(), fsys, Params{SiteDir: "/site"})
	require.True(t, errors.HasCategory(err, errors.CategoryI18n))
	require.False(t, errors.HasCategory(err, errors.CategoryConfig))
}

func TestLoad_NoWrites(t *testing.T) {
	fsys := newSite(t)
	_, err := Load(context.Background(), fsys, Params{SiteDir: "/site"})
	require.NoError(t, err)

	exists, err := afero.DirExists(fsys, "/site/.sitebuilder")
	require.NoError(t, err)
	require.False(t, exists)
}
