// Package buildinfo provides build-time version information.
//
// Variables are set via ldflags during build:
//
//	go build -ldflags "-X github.com/benjaminlong/mergify-algos/pkg/buildinfo.Version=v1.0.0 \
//	    -X github.com/benjaminlong/mergify-algos/pkg/buildinfo.Commit=$(git rev-parse HEAD) \
//	    -X github.com/benjaminlong/mergify-algos/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
package buildinfo

import "fmt"

var (
	Version = "dev"     // semantic version, e.g. "v1.2.3"
	Commit  = "none"    // git commit SHA
	Date    = "unknown" // build timestamp
)

// Template returns the version template string for cobra.
func Template() string {
	return fmt.Sprintf("{{.Name}} version %s\ncommit: %s\nbuilt: %s\n", Version, Commit, Date)
}

// UserAgent identifies outbound API requests, e.g. "starneighbours/v1.2.3".
func UserAgent() string {
	return "starneighbours/" + Version
}
