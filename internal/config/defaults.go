package config

// DefaultApplier applies defaults for a specific configuration domain.
type DefaultApplier interface {
	ApplyDefaults(cfg *SiteConfig)
	Domain() string
}

// SiteDefaultApplier handles top-level site defaults.
type SiteDefaultApplier struct{}

func (SiteDefaultApplier) Domain() string { return "site" }

func (SiteDefaultApplier) ApplyDefaults(cfg *SiteConfig) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "/"
	}
	if cfg.OnDuplicateRoutes == "" {
		cfg.OnDuplicateRoutes = "warn"
	}
	if cfg.StaticDirectories == nil {
		cfg.StaticDirectories = []string{"static"}
	}
}

// I18nDefaultApplier fills the i18n section.
type I18nDefaultApplier struct{}

func (I18nDefaultApplier) Domain() string { return "i18n" }

func (I18nDefaultApplier) ApplyDefaults(cfg *SiteConfig) {
	if cfg.I18n.DefaultLocale == "" {
		cfg.I18n.DefaultLocale = "en"
	}
	if len(cfg.I18n.Locales) == 0 {
		cfg.I18n.Locales = []string{cfg.I18n.DefaultLocale}
	}
	if cfg.I18n.Path == "" {
		cfg.I18n.Path = "i18n"
	}
}

// PluginDefaultApplier assigns default plugin ids.
type PluginDefaultApplier struct{}

func (PluginDefaultApplier) Domain() string { return "plugins" }

func (PluginDefaultApplier) ApplyDefaults(cfg *SiteConfig) {
	for i := range cfg.Plugins {
		if cfg.Plugins[i].ID == "" {
			cfg.Plugins[i].ID = DefaultPluginID
		}
	}
}

func defaultAppliers() []DefaultApplier {
	return []DefaultApplier{SiteDefaultApplier{}, I18nDefaultApplier{}, PluginDefaultApplier{}}
}

// ApplyDefaults runs every domain applier over cfg.
func ApplyDefaults(cfg *SiteConfig) {
	for _, a := range defaultAppliers() {
		a.ApplyDefaults(cfg)
	}
}
