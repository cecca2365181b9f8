// Package version holds the build metadata reported by the CLI, the HTTP
// health endpoints and outgoing requests. Values are set with ldflags:
//
//	-ldflags "-X github.com/Fifi-Huo/UI-Color-Bot/internal/version.Version=x.y.z
//	          -X github.com/Fifi-Huo/UI-Color-Bot/internal/version.Commit=$(git rev-parse HEAD)
//	          -X github.com/Fifi-Huo/UI-Color-Bot/internal/version.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
package version

import (
	"fmt"
	"runtime"
)

// Name is the application name used in banners and the User-Agent.
const Name = "colorbot"

var (
	// Version is the semantic version of the application.
	Version = "dev"

	// Commit is the git commit hash of the build.
	Commit = "unknown"

	// Date is the build date in RFC3339 format.
	Date = "unknown"

	// GoVersion is the Go version used to build the binary.
	GoVersion = runtime.Version()
)

// Info is the build metadata as served by `colorbot version --json`.
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	Date      string `json:"date"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

// GetInfo returns the build metadata.
func GetInfo() Info {
	return Info{
		Version:   Version,
		Commit:    Commit,
		Date:      Date,
		GoVersion: GoVersion,
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
}

// ShortCommit is the first 8 characters of the commit, or "" for untagged builds.
func (i Info) ShortCommit() string {
	if i.Commit == "unknown" || i.Commit == "" {
		return ""
	}
	return i.Commit[:min(len(i.Commit), 8)]
}

// String returns a human-readable version line.
func String() string {
	info := GetInfo()
	if commit := info.ShortCommit(); commit != "" && info.Date != "unknown" {
		return fmt.Sprintf("%s version %s (commit: %s, built: %s, %s, %s)",
			Name, info.Version, commit, info.Date, info.GoVersion, info.Platform)
	}
	return fmt.Sprintf("%s version %s (%s, %s)", Name, info.Version, info.GoVersion, info.Platform)
}

// UserAgent is sent on outgoing HTTP requests, e.g. "colorbot/1.2.0 (linux/amd64)".
func UserAgent() string {
	return fmt.Sprintf("%s/%s (%s/%s)", Name, Version, runtime.GOOS, runtime.GOARCH)
}
