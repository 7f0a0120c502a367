// Package version exposes build metadata injected at link time via
// -ldflags "-X ...".
package version

// Build metadata, overridden at build time.
var (
	Version = "dev"
	Commit  = "unknown"
)
