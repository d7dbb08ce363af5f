// Package version carries build metadata injected at link time.
package version

// Build metadata. Overridden via -ldflags at release time.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)
