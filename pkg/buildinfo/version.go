// Package buildinfo holds the version stamped into the lineage binary.
//
// Release builds set the variables with ldflags:
//
//	go build -ldflags "-X github.com/matzehuels/lineage/pkg/buildinfo.Version=v0.3.0 \
//	    -X github.com/matzehuels/lineage/pkg/buildinfo.Commit=$(git rev-parse --short HEAD) \
//	    -X github.com/matzehuels/lineage/pkg/buildinfo.Date=$(date -u +%Y-%m-%d)" ./cmd/lineage
package buildinfo

import (
	"fmt"
	"runtime"
)

// Stamped at build time; local builds report "dev".
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// Template is the cobra version template printed by `lineage --version`.
func Template() string {
	return fmt.Sprintf("lineage %s (%s, built %s, %s)\n", Version, Commit, Date, runtime.Version())
}
