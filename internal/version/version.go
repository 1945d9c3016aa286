// Package version reports the sitebuilder build version.
package version

import "runtime/debug"

// Version contains the application version information.
// This should be set via build-time ldflags in production:
// go build -ldflags "-X git.home.luguber.info/inful/sitebuilder/internal/version.Version=v0.3.0".
var Version = "unknown"

// BuildInfo contains additional build metadata.
var (
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// Current returns Version, falling back to the main module version recorded by the
// Go toolchain when no ldflags were set.
func Current() string {
	if Version != "unknown" && Version != "" {
		return Version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return Version
}

// String renders version, commit and build time on one line.
func String() string {
	return Current() + " (commit " + GitCommit + ", built " + BuildTime + ")"
}
