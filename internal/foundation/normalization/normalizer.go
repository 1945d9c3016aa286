// Package normalization maps free-form configuration strings onto typed enum values.
package normalization

import (
	"fmt"
	"sort"
	"strings"
)

// EnumNormalizer converts raw strings (case and whitespace insensitive) into values of T.
// Several spellings may map to the same value ("error" and "throw", for example).
type EnumNormalizer[T comparable] struct {
	enumName     string
	validValues  map[string]T
	defaultValue T
	validKeys    []string
}

// NewEnumNormalizer creates an enum normalizer with descriptive error messages.
func NewEnumNormalizer[T comparable](enumName string, values map[string]T, defaultValue T) *EnumNormalizer[T] {
	normalized := make(map[string]T, len(values))
	validKeys := make([]string, 0, len(values))
	for k, v := range values {
		key := normalize(k)
		normalized[key] = v
		validKeys = append(validKeys, key)
	}
	sort.Strings(validKeys)

	return &EnumNormalizer[T]{
		enumName:     enumName,
		validValues:  normalized,
		defaultValue: defaultValue,
		validKeys:    validKeys,
	}
}

// NormalizeWithValidation converts raw to an enum value. Empty input yields the default;
// unknown input is an error naming the valid spellings.
func (e *EnumNormalizer[T]) NormalizeWithValidation(raw string) (T, error) {
	cleaned := normalize(raw)
	if cleaned == "" {
		return e.defaultValue, nil
	}
	if value, ok := e.validValues[cleaned]; ok {
		return value, nil
	}
	var zero T
	return zero, fmt.Errorf("invalid %s %q, valid options: %v", e.enumName, raw, e.validKeys)
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
