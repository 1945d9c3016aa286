package i18n

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/sitebuilder/internal/foundation/errors"
)

func TestLoadSiteCodeTranslations_MissingDirIsEmpty(t *testing.T) {
	got, err := LoadSiteCodeTranslations(afero.NewMemMapFs(), "/site/i18n/fr", "fr")
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestLoadSiteCodeTranslations_JSONForms(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "/site/i18n/fr/code.json", []byte(`{
  "theme.title": {"message": "Titre", "description": "page title"},
  "theme.short": "Court"
}`), 0o644))

	got, err := LoadSiteCodeTranslations(fsys, "/site/i18n/fr", "fr")
	require.NoError(t, err)
	require.Equal(t, map[string]string{"theme.title": "Titre", "theme.short": "Court"}, got)
}

func TestLoadSiteCodeTranslations_TOMLOverridesJSON(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "/l/code.json", []byte(`{"greeting": "Salut", "farewell": "Adieu"}`), 0o644))
	require.NoError(t, afero.WriteFile(fsys, "/l/code.toml", []byte(`greeting = "Bonjour"

[welcome]
description = "shown on the home page"
other = "Bienvenue"
`), 0o644))

	got, err := LoadSiteCodeTranslations(fsys, "/l", "fr")
	require.NoError(t, err)
	require.Equal(t, "Bonjour", got["greeting"])
	require.Equal(t, "Adieu", got["farewell"])
	require.Equal(t, "Bienvenue", got["welcome"])
}

func TestLoadSiteCodeTranslations_ParseFailure(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "/l/code.json", []byte(`{"broken": `), 0o644))

	_, err := LoadSiteCodeTranslations(fsys, "/l", "fr")
	require.Error(t, err)
	require.True(t, errors.HasCategory(err, errors.CategoryI18n))
}
