// Package buildinfo reports which erdlayout build is running.
//
// Release builds stamp the variables with ldflags:
//
//	go build -ldflags "-X github.com/matzehuels/erdlayout/pkg/buildinfo.Version=v0.3.0 \
//	    -X github.com/matzehuels/erdlayout/pkg/buildinfo.Commit=$(git rev-parse --short HEAD) \
//	    -X github.com/matzehuels/erdlayout/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
//
// Binaries built with "go install" carry no ldflags; [Get] then falls back to
// the module version and VCS stamp recorded by the Go toolchain.
package buildinfo

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
)

var (
	Version = "dev"
	Commit  = ""
	Date    = ""
)

// Info describes a build. The HTTP service returns it from /healthz.
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit,omitempty"`
	Date      string `json:"date,omitempty"`
	GoVersion string `json:"go"`
}

// Get returns the stamped build information, completed from the embedded
// module data where ldflags left gaps.
func Get() Info {
	info := Info{Version: Version, Commit: Commit, Date: Date, GoVersion: runtime.Version()}
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}
	return info.fill(bi)
}

func (i Info) fill(bi *debug.BuildInfo) Info {
	if i.Version == "dev" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		i.Version = bi.Main.Version
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if i.Commit == "" {
				i.Commit = s.Value[:min(len(s.Value), 12)]
			}
		case "vcs.time":
			if i.Date == "" {
				i.Date = s.Value
			}
		case "vcs.modified":
			if s.Value == "true" && i.Commit != "" && !strings.HasSuffix(i.Commit, "-dirty") {
				i.Commit += "-dirty"
			}
		}
	}
	return i
}

// String formats i for --version output.
func (i Info) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "version %s", i.Version)
	if i.Commit != "" {
		fmt.Fprintf(&b, "\ncommit: %s", i.Commit)
	}
	if i.Date != "" {
		fmt.Fprintf(&b, "\nbuilt: %s", i.Date)
	}
	fmt.Fprintf(&b, "\ngo: %s", i.GoVersion)
	return b.String()
}

// Template returns the cobra version template.
func Template() string {
	return "{{.Name}} " + Get().String() + "\n"
}
