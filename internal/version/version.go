// Package version reports the build version of the stackdocs binary.
package version

import "runtime/debug"

// Version is set at build time:
// go build -ldflags "-X github.com/fullstackmenu/stackdocs/internal/version.Version=v1.0.0".
var Version = "unknown"

// Build metadata, also set via ldflags.
var (
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// String returns the version, falling back to the module version recorded
// by `go install` when ldflags were not used.
func String() string {
	if Version != "unknown" && Version != "" {
		return Version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return Version
}

// Info returns the version line printed by `stackdocs version`.
func Info() string {
	return "stackdocs " + String() + " (commit " + GitCommit + ", built " + BuildTime + ")"
}
