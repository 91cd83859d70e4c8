// Package version carries build metadata injected with -ldflags.
package version

import (
	"fmt"
	"strings"
)

// Set at build time:
//
//	go build -ldflags "-X github.com/fylo-cloud/fylo/internal/shared/version.Version=1.4.0"
var (
	Version   = "dev"
	Commit    = ""
	BuildTime = ""
)

// Normalize ensures version string has "v" prefix.
// Examples: "1.2.3" -> "v1.2.3", "v1.2.3" -> "v1.2.3", "dev" -> "dev"
func Normalize(version string) string {
	version = strings.TrimSpace(version)
	if version == "" || version == "dev" {
		return version
	}
	if !strings.HasPrefix(version, "v") {
		return "v" + version
	}
	return version
}

// String returns the normalized version with the short commit when known.
func String() string {
	v := Normalize(Version)
	if Commit == "" {
		return v
	}
	commit := Commit
	if len(commit) > 7 {
		commit = commit[:7]
	}
	return fmt.Sprintf("%s (%s)", v, commit)
}
