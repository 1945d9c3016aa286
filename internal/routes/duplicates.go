package routes

import (
	"fmt"
	"log/slog"
	"strings"

	"git.home.luguber.info/inful/sitebuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/sitebuilder/internal/foundation/normalization"
	"git.home.luguber.info/inful/sitebuilder/internal/logfields"
)

// DuplicatePolicy decides what happens when two final routes resolve to the same path.
type DuplicatePolicy string

const (
	PolicyIgnore DuplicatePolicy = "ignore"
	PolicyLog    DuplicatePolicy = "log"
	PolicyWarn   DuplicatePolicy = "warn"
	PolicyError  DuplicatePolicy = "error"
)

var policyNormalizer = normalization.NewEnumNormalizer("duplicate route policy", map[string]DuplicatePolicy{
	"ignore": PolicyIgnore,
	"log":    PolicyLog,
	"warn":   PolicyWarn,
	"error":  PolicyError,
	"throw":  PolicyError,
}, PolicyWarn)

// ParseDuplicatePolicy parses a configured policy. Empty input means warn.
func ParseDuplicatePolicy(raw string) (DuplicatePolicy, error) {
	return policyNormalizer.NormalizeWithValidation(raw)
}

// FindDuplicates returns every final route path that repeats an earlier one,
// once per repeated occurrence, in route order.
func FindDuplicates(rs []Route, baseURL string) []string {
	seen := make(map[string]struct{})
	var dups []string
	for _, p := range Paths(rs, baseURL) {
		if _, ok := seen[p]; ok {
			dups = append(dups, p)
			continue
		}
		seen[p] = struct{}{}
	}
	return dups
}

// HandleDuplicates applies policy to the duplicate paths of rs. It never modifies rs.
// Only PolicyError returns an error.
func HandleDuplicates(rs []Route, baseURL string, policy DuplicatePolicy, logger *slog.Logger) error {
	if policy == PolicyIgnore {
		return nil
	}
	dups := FindDuplicates(rs, baseURL)
	if len(dups) == 0 {
		return nil
	}
	if logger == nil {
		logger = slog.Default()
	}

	msg := duplicateMessage(dups)
	switch policy {
	case PolicyError:
		return errors.DuplicateRouteError(msg).
			WithContext("duplicates", dups).
			Build()
	case PolicyLog:
		logger.Info(msg, logfields.Routes(len(dups)))
	default:
		logger.Warn(msg, logfields.Routes(len(dups)))
	}
	return nil
}

func duplicateMessage(dups []string) string {
	var b strings.Builder
	b.WriteString("Duplicate routes found!\n")
	for _, p := range dups {
		fmt.Fprintf(&b, "- Attempting to create page at %s, but a page already exists at this route.\n", p)
	}
	b.WriteString("This could lead to non-deterministic routing behavior.")
	return b.String()
}
