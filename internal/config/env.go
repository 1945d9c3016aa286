package config

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/afero"
)

// envFiles are read in order; later files override earlier ones.
var envFiles = []string{".env", ".env.local"}

// loadSiteEnv collects variables from the site's .env files without touching the process
// environment. Missing files are skipped.
func loadSiteEnv(fsys afero.Fs, siteDir string) (map[string]string, error) {
	vars := make(map[string]string)
	for _, name := range envFiles {
		data, err := afero.ReadFile(fsys, filepath.Join(siteDir, name))
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, err
		}
		parsed, err := godotenv.Parse(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		for k, v := range parsed {
			vars[k] = v
		}
	}
	return vars, nil
}

// expandEnv replaces ${VAR} and $VAR references. Process environment wins over site .env values.
func expandEnv(data string, siteVars map[string]string) string {
	return os.Expand(data, func(key string) string {
		if v, ok := os.LookupEnv(key); ok {
			return v
		}
		return siteVars[key]
	})
}
