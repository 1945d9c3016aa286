// Package routes holds the route model shared by plugins, props assembly and code generation,
// plus the helpers that derive final paths and police duplicate paths.
package routes

import (
	"strings"

	"github.com/samber/lo"
)

// Route is a path entry contributed by one plugin. Routes with children are layout routes:
// only leaf routes are final and reachable.
type Route struct {
	Path      string            `json:"path"`
	Component string            `json:"component"`
	Exact     bool              `json:"exact,omitempty"`
	Modules   map[string]string `json:"modules,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	Routes    []Route           `json:"routes,omitempty"`
	// Plugin is the identifier of the contributing plugin, set by the plugin loader.
	Plugin string `json:"plugin,omitempty"`
}

// Flatten returns the final (leaf) routes of rs in depth-first, declaration order.
func Flatten(rs []Route) []Route {
	return lo.FlatMap(rs, func(r Route, _ int) []Route {
		if len(r.Routes) == 0 {
			return []Route{r}
		}
		return Flatten(r.Routes)
	})
}

// Paths derives the final route paths from rs, resolving relative paths against baseURL.
// The result has one entry per final route, in route order.
func Paths(rs []Route, baseURL string) []string {
	return lo.Map(Flatten(rs), func(r Route, _ int) string {
		return ResolvePath(r.Path, baseURL)
	})
}

// ResolvePath returns p unchanged when absolute, otherwise p joined onto baseURL.
func ResolvePath(p, baseURL string) string {
	if strings.HasPrefix(p, "/") {
		return p
	}
	if baseURL == "" {
		baseURL = "/"
	}
	return strings.TrimSuffix(baseURL, "/") + "/" + strings.TrimPrefix(p, "./")
}

// Count returns the number of final routes in rs.
func Count(rs []Route) int {
	return len(Flatten(rs))
}
