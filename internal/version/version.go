// Package version reports build metadata stamped via -ldflags.
package version

import (
	"runtime"
	"runtime/debug"
)

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// Short returns the release version, falling back to the module version recorded
// by `go install` when no ldflags were applied.
func Short() string {
	if Version != "dev" {
		return Version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return Version
}

// String renders the full version line printed by `mediaosd version`.
func String() string {
	return "mediaosd " + Short() + " (commit=" + Commit + ", date=" + Date + ", go=" + runtime.Version() + ")"
}
