// Package version reports build information for the api and trainer binaries.
package version

import (
	"runtime"
	"runtime/debug"
)

// BuildInfo holds version information about a build
type BuildInfo struct {
	Service   string `json:"service"`
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	Date      string `json:"date"`
	GoVersion string `json:"go_version"`
}

// Set via -ldflags "-X 'custintel/internal/core/version.version=v0.1.0'
// -X 'custintel/internal/core/version.commit=abcd' -X 'custintel/internal/core/version.date=2025-09-02'"
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// readBuildInfo is a seam for tests
var readBuildInfo = debug.ReadBuildInfo

// Info returns the build information for service
// commit and date fall back to the vcs stamp the go toolchain embeds
func Info(service string) BuildInfo {
	bi := BuildInfo{
		Service:   service,
		Version:   version,
		Commit:    commit,
		Date:      date,
		GoVersion: runtime.Version(),
	}
	info, ok := readBuildInfo()
	if !ok {
		return bi
	}
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			if bi.Commit == "none" {
				bi.Commit = s.Value
			}
		case "vcs.time":
			if bi.Date == "unknown" {
				bi.Date = s.Value
			}
		}
	}
	return bi
}
