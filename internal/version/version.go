// Package version reports build metadata for the floor binary.
package version

import (
	"fmt"
	"runtime"
)

// Set at build time via -ldflags "-X github.com/example/floor/internal/version.Commit=...".
var (
	Release   = "0.1.0-dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// Info is the build metadata served by /health and `floor version`.
type Info struct {
	Release   string `json:"release"`
	Commit    string `json:"commit"`
	BuildTime string `json:"buildTime"`
	GoVersion string `json:"goVersion"`
}

// Get returns the build metadata of the running binary.
func Get() Info {
	return Info{
		Release:   Release,
		Commit:    shortCommit(),
		BuildTime: BuildTime,
		GoVersion: runtime.Version(),
	}
}

// String returns a one-line version banner.
func String() string {
	return fmt.Sprintf("floor %s (commit: %s, built: %s)", Release, shortCommit(), BuildTime)
}

func shortCommit() string {
	if len(Commit) > 7 {
		return Commit[:7]
	}
	return Commit
}
