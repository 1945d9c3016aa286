package i18n

import (
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/sitebuilder/internal/config"
	"git.home.luguber.info/inful/sitebuilder/internal/foundation/errors"
)

func siteConfig(defaultLocale string, locales ...string) *config.SiteConfig {
	cfg := &config.SiteConfig{Title: "t", URL: "https://example.com"}
	cfg.I18n.DefaultLocale = defaultLocale
	cfg.I18n.Locales = locales
	config.ApplyDefaults(cfg)
	return cfg
}

func TestLoad_DefaultsToDefaultLocale(t *testing.T) {
	got, err := Load(siteConfig("en", "en", "fr"), "")
	require.NoError(t, err)
	require.Equal(t, "en", got.CurrentLocale)
	require.Equal(t, "en", got.DefaultLocale)
	require.Equal(t, "i18n", got.Path)
	require.Len(t, got.LocaleConfigs, 2)
}

func TestLoad_UnknownLocale(t *testing.T) {
	_, err := Load(siteConfig("en", "en", "fr"), "de")
	require.Error(t, err)
	require.True(t, errors.HasCategory(err, errors.CategoryI18n))
	require.Contains(t, err.Error(), "en, fr")
}

func TestLoad_DefaultLocaleNotConfigured(t *testing.T) {
	for _, locale := range []string{"", "en"} {
		_, err := Load(siteConfig("de", "en"), locale)
		require.Error(t, err)
		require.True(t, errors.HasCategory(err, errors.CategoryI18n))
		require.Contains(t, err.Error(), `"de"`)
	}
}

func TestLoad_DerivesLocaleConfig(t *testing.T) {
	got, err := Load(siteConfig("en", "en", "ar", "fr"), "ar")
	require.NoError(t, err)

	ar := got.CurrentLocaleConfig()
	require.Equal(t, "rtl", ar.Direction)
	require.Equal(t, "ar", ar.HTMLLang)
	require.Equal(t, "ar", ar.Path)
	require.Equal(t, "gregory", ar.Calendar)
	require.NotEmpty(t, ar.Label)

	fr := got.LocaleConfigs["fr"]
	require.Equal(t, "ltr", fr.Direction)
	require.Equal(t, "français", fr.Label)
}

func TestLoad_ExplicitLocaleConfigWins(t *testing.T) {
	cfg := siteConfig("en", "en", "fr")
	cfg.I18n.LocaleConfigs = map[string]config.LocaleConfig{
		"fr": {Label: "Français", Path: "francais"},
	}
	got, err := Load(cfg, "fr")
	require.NoError(t, err)
	require.Equal(t, "Français", got.CurrentLocaleConfig().Label)
	require.Equal(t, "francais", got.CurrentLocaleConfig().Path)
	require.Equal(t, "ltr", got.CurrentLocaleConfig().Direction)
}

func TestLoad_DoesNotShareConfigSlices(t *testing.T) {
	cfg := siteConfig("en", "en", "fr")
	got, err := Load(cfg, "")
	require.NoError(t, err)
	cfg.I18n.Locales[1] = "de"
	require.Equal(t, []string{"en", "fr"}, got.Locales)
}
