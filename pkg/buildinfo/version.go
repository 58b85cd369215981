// Package buildinfo reports the version of the running binary.
//
// Release builds stamp the values with -ldflags, e.g.
//
//	-X github.com/matzehuels/regionmap/pkg/buildinfo.version=v1.0.0
//	-X github.com/matzehuels/regionmap/pkg/buildinfo.commit=$(git rev-parse HEAD)
//	-X github.com/matzehuels/regionmap/pkg/buildinfo.date=$(date -u +%Y-%m-%dT%H:%M:%SZ)
//
// Unstamped binaries fall back to what the Go toolchain recorded: the
// module version for "go install", the VCS revision for local builds.
package buildinfo

import (
	"fmt"
	"runtime/debug"
	"sync"
)

var (
	version = ""
	commit  = ""
	date    = ""
)

// Info is the resolved build information.
type Info struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
}

var resolve = sync.OnceValue(func() Info {
	info := Info{Version: version, Commit: commit, Date: date}
	if bi, ok := debug.ReadBuildInfo(); ok {
		fill(&info, bi)
	}
	if info.Version == "" {
		info.Version = "dev"
	}
	if info.Commit == "" {
		info.Commit = "none"
	}
	if info.Date == "" {
		info.Date = "unknown"
	}
	return info
})

// fill sets the fields left empty by ldflags from the toolchain's
// build info.
func fill(info *Info, bi *debug.BuildInfo) {
	if info.Version == "" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		info.Version = bi.Main.Version
	}
	for _, s := range bi.Settings {
		switch {
		case s.Key == "vcs.revision" && info.Commit == "":
			info.Commit = s.Value
		case s.Key == "vcs.time" && info.Date == "":
			info.Date = s.Value
		}
	}
}

// Get returns the build information.
func Get() Info { return resolve() }

// Version returns the release version, or "dev".
func Version() string { return resolve().Version }

// Template is the cobra version template.
func Template() string {
	i := resolve()
	return fmt.Sprintf("{{.Name}} %s\ncommit: %s\nbuilt:  %s\n", i.Version, i.Commit, i.Date)
}
