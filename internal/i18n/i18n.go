// Package i18n resolves the locale context of a site, localizes URL and filesystem paths,
// and loads the site's code translation overrides.
package i18n

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"

	"git.home.luguber.info/inful/sitebuilder/internal/config"
	"git.home.luguber.info/inful/sitebuilder/internal/foundation/errors"
)

// I18n is the resolved locale context for one load.
type I18n struct {
	DefaultLocale string                         `json:"defaultLocale"`
	CurrentLocale string                         `json:"currentLocale"`
	Locales       []string                       `json:"locales"`
	Path          string                         `json:"path"`
	LocaleConfigs map[string]config.LocaleConfig `json:"localeConfigs"`
}

// CurrentLocaleConfig returns the configuration of the current locale.
func (i *I18n) CurrentLocaleConfig() config.LocaleConfig {
	return i.LocaleConfigs[i.CurrentLocale]
}

var rtlScripts = map[string]struct{}{
	"Arab": {}, "Hebr": {}, "Syrc": {}, "Thaa": {}, "Nkoo": {}, "Adlm": {},
}

// Load resolves the i18n context for locale. An empty locale selects the default locale.
func Load(cfg *config.SiteConfig, locale string) (*I18n, error) {
	if !slices.Contains(cfg.I18n.Locales, cfg.I18n.DefaultLocale) {
		return nil, errors.I18nError(fmt.Sprintf(
			"default locale %q is not in the configured locales (available: %s)",
			cfg.I18n.DefaultLocale, strings.Join(cfg.I18n.Locales, ", "))).
			WithContext("locale", cfg.I18n.DefaultLocale).
			WithContext("locales", cfg.I18n.Locales).
			Build()
	}
	if locale == "" {
		locale = cfg.I18n.DefaultLocale
	}
	if !slices.Contains(cfg.I18n.Locales, locale) {
		return nil, errors.I18nError(fmt.Sprintf(
			"unable to load locale %q: it is not in the configured locales (available: %s)",
			locale, strings.Join(cfg.I18n.Locales, ", "))).
			WithContext("locale", locale).
			WithContext("locales", cfg.I18n.Locales).
			Build()
	}

	configs := make(map[string]config.LocaleConfig, len(cfg.I18n.Locales))
	for _, l := range cfg.I18n.Locales {
		configs[l] = localeConfigFor(l, cfg.I18n.LocaleConfigs[l])
	}

	return &I18n{
		DefaultLocale: cfg.I18n.DefaultLocale,
		CurrentLocale: locale,
		Locales:       slices.Clone(cfg.I18n.Locales),
		Path:          cfg.I18n.Path,
		LocaleConfigs: configs,
	}, nil
}

// localeConfigFor fills the fields of lc left empty by the site configuration.
func localeConfigFor(locale string, lc config.LocaleConfig) config.LocaleConfig {
	tag, err := language.Parse(locale)
	if lc.Label == "" {
		lc.Label = locale
		if err == nil {
			if name := display.Self.Name(tag); name != "" {
				lc.Label = name
			}
		}
	}
	if lc.Direction == "" {
		lc.Direction = "ltr"
		if err == nil {
			script, _ := tag.Script()
			if _, ok := rtlScripts[script.String()]; ok {
				lc.Direction = "rtl"
			}
		}
	}
	if lc.HTMLLang == "" {
		lc.HTMLLang = locale
		if err == nil {
			lc.HTMLLang = tag.String()
		}
	}
	if lc.Calendar == "" {
		lc.Calendar = "gregory"
	}
	if lc.Path == "" {
		lc.Path = locale
	}
	return lc
}

// Clone returns a deep copy.
func (i *I18n) Clone() *I18n {
	if i == nil {
		return nil
	}
	c := *i
	c.Locales = slices.Clone(i.Locales)
	c.LocaleConfigs = maps.Clone(i.LocaleConfigs)
	return &c
}
