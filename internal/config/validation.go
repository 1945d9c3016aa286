package config

import (
	"fmt"
	"net/url"
	"strings"

	"git.home.luguber.info/inful/sitebuilder/internal/routes"
)

// ValidateConfig checks a defaulted configuration.
func ValidateConfig(cfg *SiteConfig) error {
	return newConfigurationValidator(cfg).validate()
}

type configurationValidator struct {
	config *SiteConfig
}

func newConfigurationValidator(cfg *SiteConfig) *configurationValidator {
	return &configurationValidator{config: cfg}
}

func (cv *configurationValidator) validate() error {
	if err := cv.validateSite(); err != nil {
		return err
	}
	if err := cv.validateI18n(); err != nil {
		return err
	}
	if err := cv.validatePlugins(); err != nil {
		return err
	}
	return cv.validateHeadTags()
}

func (cv *configurationValidator) validateSite() error {
	c := cv.config
	if strings.TrimSpace(c.Title) == "" {
		return fmt.Errorf("title is required")
	}
	if strings.TrimSpace(c.URL) == "" {
		return fmt.Errorf("url is required")
	}
	u, err := url.Parse(c.URL)
	if err != nil {
		return fmt.Errorf("url %q is invalid: %w", c.URL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("url %q must use http or https", c.URL)
	}
	if u.Path != "" && u.Path != "/" {
		return fmt.Errorf("url %q must not contain a path, use baseUrl instead", c.URL)
	}
	if !strings.HasPrefix(c.BaseURL, "/") || !strings.HasSuffix(c.BaseURL, "/") {
		return fmt.Errorf("baseUrl %q must start and end with a slash", c.BaseURL)
	}
	if _, err := routes.ParseDuplicatePolicy(c.OnDuplicateRoutes); err != nil {
		return fmt.Errorf("onDuplicateRoutes: %w", err)
	}
	return nil
}

func (cv *configurationValidator) validateI18n() error {
	i := cv.config.I18n
	seen := make(map[string]struct{}, len(i.Locales))
	for _, l := range i.Locales {
		if strings.TrimSpace(l) == "" {
			return fmt.Errorf("i18n.locales must not contain empty entries")
		}
		if _, dup := seen[l]; dup {
			return fmt.Errorf("i18n.locales contains %q twice", l)
		}
		seen[l] = struct{}{}
	}
	for l, lc := range i.LocaleConfigs {
		if _, ok := seen[l]; !ok {
			return fmt.Errorf("i18n.localeConfigs has an entry for %q which is not in i18n.locales", l)
		}
		if lc.Direction != "" && lc.Direction != "ltr" && lc.Direction != "rtl" {
			return fmt.Errorf("i18n.localeConfigs.%s.direction must be ltr or rtl, got %q", l, lc.Direction)
		}
		if strings.Contains(lc.Path, "..") {
			return fmt.Errorf("i18n.localeConfigs.%s.path must stay inside the site", l)
		}
	}
	return nil
}

func (cv *configurationValidator) validatePlugins() error {
	seen := make(map[string]struct{}, len(cv.config.Plugins))
	for i, p := range cv.config.Plugins {
		if strings.TrimSpace(p.Name) == "" {
			return fmt.Errorf("plugins[%d].name is required", i)
		}
		key := p.Name + "@" + p.ID
		if _, dup := seen[key]; dup {
			return fmt.Errorf("plugin %q is declared twice with id %q; give each instance a distinct id", p.Name, p.ID)
		}
		seen[key] = struct{}{}
	}
	return nil
}

func (cv *configurationValidator) validateHeadTags() error {
	for i, t := range cv.config.HeadTags {
		if strings.TrimSpace(t.TagName) == "" {
			return fmt.Errorf("headTags[%d].tagName is required", i)
		}
	}
	return nil
}
