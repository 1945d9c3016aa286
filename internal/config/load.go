package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/sitebuilder/internal/foundation/errors"
)

// DefaultConfigFiles lists the file names probed in the site directory, in order.
var DefaultConfigFiles = []string{
	"sitebuilder.config.yaml",
	"sitebuilder.config.yml",
	"sitebuilder.config.toml",
}

// LoadSiteConfig locates, parses, defaults and validates the site configuration.
// customPath, when set, is resolved against siteDir unless absolute. It returns the
// configuration and the path it was read from.
func LoadSiteConfig(fsys afero.Fs, siteDir, customPath string) (*SiteConfig, string, error) {
	path, err := resolveConfigPath(fsys, siteDir, customPath)
	if err != nil {
		return nil, "", err
	}

	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return nil, path, errors.ConfigError("failed to read site config").
			WithCause(err).
			WithContext("path", path).
			Build()
	}

	vars, err := loadSiteEnv(fsys, siteDir)
	if err != nil {
		return nil, path, errors.ConfigError("failed to read site .env file").
			WithCause(err).
			WithContext("site_dir", siteDir).
			Build()
	}

	cfg, err := Parse(path, []byte(expandEnv(string(data), vars)))
	if err != nil {
		return nil, path, err
	}
	return cfg, path, nil
}

// Parse decodes raw configuration bytes. The format is picked from the file extension;
// anything that is not .toml is treated as YAML. Unknown keys are rejected.
func Parse(path string, data []byte) (*SiteConfig, error) {
	var cfg SiteConfig
	var err error
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		err = dec.Decode(&cfg)
	} else {
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		err = dec.Decode(&cfg)
	}
	if err != nil {
		return nil, errors.ConfigError("failed to parse site config").
			WithCause(err).
			WithContext("path", path).
			Build()
	}

	ApplyDefaults(&cfg)
	if err := ValidateConfig(&cfg); err != nil {
		return nil, errors.ConfigError("invalid site config").
			WithCause(err).
			WithContext("path", path).
			Build()
	}
	return &cfg, nil
}

func resolveConfigPath(fsys afero.Fs, siteDir, customPath string) (string, error) {
	if customPath != "" {
		p := customPath
		if !filepath.IsAbs(p) {
			p = filepath.Join(siteDir, p)
		}
		if _, err := fsys.Stat(p); err != nil {
			if os.IsNotExist(err) {
				return "", errors.ConfigError("site config file not found").
					WithCause(err).
					WithContext("path", p).
					Build()
			}
			return "", errors.ConfigError("failed to stat site config").WithCause(err).WithContext("path", p).Build()
		}
		return p, nil
	}
	for _, name := range DefaultConfigFiles {
		p := filepath.Join(siteDir, name)
		if ok, _ := afero.Exists(fsys, p); ok {
			return p, nil
		}
	}
	return "", errors.ConfigError(fmt.Sprintf("no site config found in %s (looked for %s)", siteDir, strings.Join(DefaultConfigFiles, ", "))).
		WithContext("site_dir", siteDir).
		Build()
}
