// Package constant defines immutable application-level identifiers and configuration defaults.
package constant

const (
	// Marquee is the canonical application identifier used for filesystem paths and CLI branding.
	Marquee = "marquee"

	// Version is the current application semantic version string.
	Version = "0.3.0"
)

// Build metadata, injected with -ldflags "-X" at release time.
var (
	BuiltAt  = "unknown"
	BuiltBy  = "unknown"
	Revision = "unknown"
)

// runtime.GOOS values that select player binaries and install hints.
const (
	Windows = "windows"
	Darwin  = "darwin"
	Linux   = "linux"
)
