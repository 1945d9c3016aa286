package logfields

import (
	"log/slog"
	"time"
)

// Canonical log field name constants to avoid drift across packages.
const (
	KeyBuildID    = "build_id"
	KeyStage      = "stage"
	KeyDurationMS = "duration_ms"
	KeySiteDir    = "site_dir"
	KeyLocale     = "locale"
	KeyPlugin     = "plugin"
	KeyRoute      = "route"
	KeyRoutes     = "routes"
	KeyPath       = "path"
	KeyFile       = "file"
	KeyOperation  = "operation"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func BuildID(id string) slog.Attr     { return slog.String(KeyBuildID, id) }
func Stage(name string) slog.Attr     { return slog.String(KeyStage, name) }
func SiteDir(dir string) slog.Attr    { return slog.String(KeySiteDir, dir) }
func Locale(l string) slog.Attr       { return slog.String(KeyLocale, l) }
func Plugin(id string) slog.Attr      { return slog.String(KeyPlugin, id) }
func Route(p string) slog.Attr        { return slog.String(KeyRoute, p) }
func Routes(n int) slog.Attr          { return slog.Int(KeyRoutes, n) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func File(f string) slog.Attr         { return slog.String(KeyFile, f) }
func Operation(op string) slog.Attr   { return slog.String(KeyOperation, op) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }

// Duration converts d to a millisecond attribute.
func Duration(d time.Duration) slog.Attr {
	return DurationMS(float64(d.Microseconds()) / 1000)
}

func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
