// Package version carries build metadata injected with -ldflags.
package version

import (
	"fmt"
	"runtime"
)

// Set at build time, e.g.
//
//	go build -ldflags "-X github.com/r9s-ai/lpdb-go/internal/version.Version=v0.3.0"
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// Info is the build metadata of the running binary.
type Info struct {
	Version string
	Commit  string
	Date    string
	Go      string
}

func (i Info) String() string {
	return fmt.Sprintf("lpdb %s (commit=%s date=%s go=%s)", i.Version, i.Commit, i.Date, i.Go)
}

// Get returns the current build metadata.
func Get() Info {
	return Info{Version: Version, Commit: Commit, Date: Date, Go: runtime.Version()}
}

// UserAgent is the default User-Agent sent to the LPDB API.
func UserAgent() string {
	return "lpdb-go/" + Version
}
