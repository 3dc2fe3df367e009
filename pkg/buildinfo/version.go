// Package buildinfo holds version information stamped in at build time:
//
//	go build -ldflags "-X github.com/matzehuels/importchain/pkg/buildinfo.Version=v0.3.0 \
//	    -X github.com/matzehuels/importchain/pkg/buildinfo.Commit=$(git rev-parse HEAD) \
//	    -X github.com/matzehuels/importchain/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
package buildinfo

import "fmt"

var (
	// Version is the release tag, "dev" for local builds.
	Version = "dev"
	// Commit is the git commit SHA.
	Commit = "none"
	// Date is the UTC build timestamp.
	Date = "unknown"
)

// Info is build information in a form suitable for JSON responses.
type Info struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
}

// Get returns the current build information.
func Get() Info {
	return Info{Version: Version, Commit: Commit, Date: Date}
}

// Template returns the cobra version template.
func Template() string {
	return fmt.Sprintf("{{.Name}} %s (commit %s, built %s)\n", Version, Commit, Date)
}
