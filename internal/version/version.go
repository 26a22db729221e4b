// Package version provides build-time version information for issuecast.
package version

import (
	"fmt"
	"runtime"
)

// Build-time variables set via ldflags.
// Example: go build -ldflags="-X github.com/andywolf/issuecast/internal/version.Version=v0.3.0"
var (
	// Version is the semantic version (e.g., "v0.3.0"). Set via ldflags.
	Version = "dev"

	// Commit is the git commit SHA. Set via ldflags.
	Commit = "unknown"

	// BuildDate is the RFC3339 timestamp of the build. Set via ldflags.
	BuildDate = "unknown"
)

// Short returns the version string (e.g., "v0.3.0" or "dev").
func Short() string {
	return Version
}

// Info returns a single-line version string.
// Format: "issuecast v0.3.0 (commit: abc1234, built: 2026-01-15T10:30:00Z, go: go1.24.x)"
func Info() string {
	return fmt.Sprintf("issuecast %s (commit: %s, built: %s, go: %s)",
		Version, shortCommit(), BuildDate, runtime.Version())
}

// Full returns a multi-line verbose version output.
func Full() string {
	return fmt.Sprintf(`issuecast %s
  Commit:     %s
  Built:      %s
  Go version: %s
  OS/Arch:    %s/%s`,
		Version, Commit, BuildDate, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}

// UserAgent is sent with every Linear API request.
func UserAgent() string {
	return fmt.Sprintf("issuecast/%s (%s/%s)", Version, runtime.GOOS, runtime.GOARCH)
}

func shortCommit() string {
	if len(Commit) > 7 {
		return Commit[:7]
	}
	return Commit
}
