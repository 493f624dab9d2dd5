// Package version reports the build version of envmatch.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
)

// Set at build time:
//
//	go build -ldflags="-X github.com/muurk/envmatch/internal/version.Version=v0.3.0 \
//	                   -X github.com/muurk/envmatch/internal/version.Commit=abc123"
//
// Unset values are filled from the module build info when available.
var (
	Version = ""
	Commit  = ""
	Date    = ""
)

// Info is a snapshot of the build metadata
type Info struct {
	Version   string
	Commit    string
	Date      string
	GoVersion string
	Platform  string
}

// Get returns the build metadata, falling back to debug.ReadBuildInfo for
// anything not injected via ldflags.
func Get() Info {
	info := Info{
		Version:   Version,
		Commit:    Commit,
		Date:      Date,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}

	if bi, ok := debug.ReadBuildInfo(); ok {
		fillFromBuildInfo(&info, bi)
	}

	if info.Version == "" {
		info.Version = "dev"
	}
	if info.Commit == "" {
		info.Commit = "unknown"
	}
	return info
}

func fillFromBuildInfo(info *Info, bi *debug.BuildInfo) {
	if info.Version == "" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		info.Version = bi.Main.Version
	}

	var revision, modified string
	for _, setting := range bi.Settings {
		switch setting.Key {
		case "vcs.revision":
			revision = setting.Value
		case "vcs.modified":
			modified = setting.Value
		case "vcs.time":
			if info.Date == "" {
				info.Date = setting.Value
			}
		}
	}

	if info.Commit == "" && revision != "" {
		if len(revision) > 7 {
			revision = revision[:7]
		}
		info.Commit = revision
		if modified == "true" {
			info.Commit += "-dirty"
		}
	}
}

// Short returns the version followed by the commit
func (i Info) Short() string {
	return fmt.Sprintf("%s (commit: %s)", i.Version, i.Commit)
}

// String renders all fields, one per line
func (i Info) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "envmatch %s\n", i.Version)
	fmt.Fprintf(&b, "  commit:   %s\n", i.Commit)
	if i.Date != "" {
		fmt.Fprintf(&b, "  built:    %s\n", i.Date)
	}
	fmt.Fprintf(&b, "  go:       %s\n", i.GoVersion)
	fmt.Fprintf(&b, "  platform: %s", i.Platform)
	return b.String()
}
