// Package config loads and validates the site configuration file.
package config

// SiteConfig is the validated site configuration. Its zero value is not usable;
// obtain one through LoadSiteConfig or Parse.
type SiteConfig struct {
	Title             string         `yaml:"title" toml:"title" json:"title"`
	Tagline           string         `yaml:"tagline,omitempty" toml:"tagline" json:"tagline,omitempty"`
	URL               string         `yaml:"url" toml:"url" json:"url"`
	BaseURL           string         `yaml:"baseUrl" toml:"baseUrl" json:"baseUrl"`
	TrailingSlash     *bool          `yaml:"trailingSlash,omitempty" toml:"trailingSlash" json:"trailingSlash,omitempty"`
	OnDuplicateRoutes string         `yaml:"onDuplicateRoutes,omitempty" toml:"onDuplicateRoutes" json:"onDuplicateRoutes"`
	I18n              I18nConfig     `yaml:"i18n,omitempty" toml:"i18n" json:"i18n"`
	Plugins           []PluginConfig `yaml:"plugins,omitempty" toml:"plugins" json:"plugins,omitempty"`
	StaticDirectories []string       `yaml:"staticDirectories,omitempty" toml:"staticDirectories" json:"staticDirectories"`
	CustomFields      map[string]any `yaml:"customFields,omitempty" toml:"customFields" json:"customFields,omitempty"`
	HeadTags          []HTMLTag      `yaml:"headTags,omitempty" toml:"headTags" json:"headTags,omitempty"`
	ClientModules     []string       `yaml:"clientModules,omitempty" toml:"clientModules" json:"clientModules,omitempty"`
}

// I18nConfig configures the available locales.
type I18nConfig struct {
	DefaultLocale string                  `yaml:"defaultLocale" toml:"defaultLocale" json:"defaultLocale"`
	Locales       []string                `yaml:"locales" toml:"locales" json:"locales"`
	Path          string                  `yaml:"path,omitempty" toml:"path" json:"path"`
	LocaleConfigs map[string]LocaleConfig `yaml:"localeConfigs,omitempty" toml:"localeConfigs" json:"localeConfigs,omitempty"`
}

// LocaleConfig holds per-locale presentation settings. Empty fields are derived by the i18n loader.
type LocaleConfig struct {
	Label     string `yaml:"label,omitempty" toml:"label" json:"label"`
	Direction string `yaml:"direction,omitempty" toml:"direction" json:"direction"`
	HTMLLang  string `yaml:"htmlLang,omitempty" toml:"htmlLang" json:"htmlLang"`
	Calendar  string `yaml:"calendar,omitempty" toml:"calendar" json:"calendar"`
	Path      string `yaml:"path,omitempty" toml:"path" json:"path"`
}

// PluginConfig declares one plugin instance. Several instances of the same plugin may
// coexist as long as their IDs differ.
type PluginConfig struct {
	Name    string         `yaml:"name" toml:"name" json:"name"`
	ID      string         `yaml:"id,omitempty" toml:"id" json:"id"`
	Options map[string]any `yaml:"options,omitempty" toml:"options" json:"options,omitempty"`
}

// HTMLTag describes an element injected into the page shell.
type HTMLTag struct {
	TagName    string            `yaml:"tagName" toml:"tagName" json:"tagName"`
	Attributes map[string]string `yaml:"attributes,omitempty" toml:"attributes" json:"attributes,omitempty"`
	InnerHTML  string            `yaml:"innerHTML,omitempty" toml:"innerHTML" json:"innerHTML,omitempty"`
}

// DefaultPluginID is used when a plugin entry has no explicit id.
const DefaultPluginID = "default"
