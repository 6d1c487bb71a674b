// Package buildinfo holds the version stamped into the binary.
package buildinfo

import "fmt"

// Set at link time with -ldflags "-X".
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// String returns the line printed by --version.
func String() string {
	return fmt.Sprintf("fitslic %s (commit=%s, date=%s)", Version, Commit, Date)
}
