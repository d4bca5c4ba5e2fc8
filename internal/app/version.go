package app

import (
	"fmt"
	"runtime/debug"
)

// Version, Commit, and BuildTime are set via ldflags at build time.
// Example: go build -ldflags "-X github.com/heartmarshall/transcribe-dashboard/internal/app.Version=1.0.0"
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// BuildVersion returns a formatted version string for startup logs and health endpoints.
// Without ldflags the commit falls back to the VCS revision embedded by the toolchain.
func BuildVersion() string {
	commit := Commit
	if commit == "unknown" {
		commit = vcsRevision()
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, commit, BuildTime)
}

func vcsRevision() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown"
	}
	for _, s := range info.Settings {
		if s.Key == "vcs.revision" && s.Value != "" {
			if len(s.Value) > 12 {
				return s.Value[:12]
			}
			return s.Value
		}
	}
	return "unknown"
}
