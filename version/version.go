// Package version exposes build-time version information.
package version

import "fmt"

// Set via -ldflags at build time.
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// Info describes the running build.
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"build_time"`
}

// Get returns the build information for the running binary.
func Get() Info {
	return Info{Version: Version, Commit: Commit, BuildTime: BuildTime}
}

// Short returns an abbreviated commit hash suitable for banners and logs.
func (i Info) Short() string {
	if len(i.Commit) >= 8 {
		return i.Commit[:8]
	}
	return i.Commit
}

// String renders the version line shown by `tanya version`.
func (i Info) String() string {
	return fmt.Sprintf("tanya %s (commit %s, built %s)", i.Version, i.Short(), i.BuildTime)
}
