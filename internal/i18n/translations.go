package i18n

import (
	"encoding/json"
	"fmt"
	"maps"
	"os"
	"path/filepath"

	goi18n "github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/afero"

	"git.home.luguber.info/inful/sitebuilder/internal/foundation/errors"
)

const (
	codeJSONFile = "code.json"
	codeTOMLFile = "code.toml"
)

var unmarshalFuncs = map[string]goi18n.UnmarshalFunc{"toml": toml.Unmarshal}

// LoadSiteCodeTranslations reads the site's code translation overrides from localizationDir.
// code.json and code.toml are both optional; keys in code.toml win over code.json.
func LoadSiteCodeTranslations(fsys afero.Fs, localizationDir, locale string) (map[string]string, error) {
	out := make(map[string]string)

	fromJSON, err := readCodeJSON(fsys, filepath.Join(localizationDir, codeJSONFile))
	if err != nil {
		return nil, err
	}
	maps.Copy(out, fromJSON)

	fromTOML, err := readCodeTOML(fsys, filepath.Join(localizationDir, codeTOMLFile), locale)
	if err != nil {
		return nil, err
	}
	maps.Copy(out, fromTOML)

	return out, nil
}

func readOptional(fsys afero.Fs, path string) ([]byte, error) {
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.I18nError("failed to read code translations").
			WithCause(err).
			WithContext("path", path).
			Build()
	}
	return data, nil
}

type jsonMessage struct {
	Message     string `json:"message"`
	Description string `json:"description,omitempty"`
}

func readCodeJSON(fsys afero.Fs, path string) (map[string]string, error) {
	data, err := readOptional(fsys, path)
	if err != nil || data == nil {
		return nil, err
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, parseError(path, err)
	}
	out := make(map[string]string, len(raw))
	for key, value := range raw {
		var s string
		if err := json.Unmarshal(value, &s); err == nil {
			out[key] = s
			continue
		}
		var m jsonMessage
		if err := json.Unmarshal(value, &m); err != nil {
			return nil, parseError(path, fmt.Errorf("key %q: %w", key, err))
		}
		out[key] = m.Message
	}
	return out, nil
}

func readCodeTOML(fsys afero.Fs, path, locale string) (map[string]string, error) {
	data, err := readOptional(fsys, path)
	if err != nil || data == nil {
		return nil, err
	}

	// go-i18n derives the language from the file name.
	mf, err := goi18n.ParseMessageFileBytes(data, fmt.Sprintf("code.%s.toml", locale), unmarshalFuncs)
	if err != nil {
		return nil, parseError(path, err)
	}
	out := make(map[string]string, len(mf.Messages))
	for _, m := range mf.Messages {
		out[m.ID] = m.Other
	}
	return out, nil
}

func parseError(path string, err error) error {
	return errors.I18nError("failed to parse code translations").
		WithCause(err).
		WithContext("path", path).
		Build()
}
