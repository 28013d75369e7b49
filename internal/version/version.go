// Package version provides build metadata for the hatch CLI.
//
// Overview:
//   - Responsibility: CLI version metadata (version, commit, build time)
//   - Key Types: Version variables and formatting functions
//   - Concurrency Model: Set at link time, read-only afterwards
//   - Error Semantics: No errors
//   - Performance Notes: Zero-cost variables
//
// Usage:
//
//	go build -ldflags "-X go.eggybyte.com/hatch/internal/version.Version=v0.2.0" ./cmd/hatch
//	version.String()
package version

import (
	"fmt"
	"runtime"
)

// Version is the CLI version, overridden at link time for releases.
var Version = "v0.1.0-dev"

// Commit is the git commit hash, overridden at link time for releases.
var Commit = "unknown"

// BuildTime is the build timestamp in RFC3339 format, overridden at link time.
var BuildTime = "unknown"

// String returns the one-line version string:
// hatch version v0.1.0 (commit 4a9b2c1, built 2025-10-31T12:10:00Z)
func String() string {
	return fmt.Sprintf("hatch version %s (commit %s, built %s)", Version, Commit, BuildTime)
}

// Full returns the version string followed by the Go runtime line.
func Full() string {
	return fmt.Sprintf("%s\ngo version %s (%s/%s)", String(), runtime.Version(), runtime.GOOS, runtime.GOARCH)
}

// Info is the JSON form of the version output.
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"build_time"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

// Get returns the build metadata.
func Get() Info {
	return Info{
		Version:   Version,
		Commit:    Commit,
		BuildTime: BuildTime,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
}
