// Package settings holds build metadata and the per-invocation options of
// the skinkit CLI, and carries them through a context.
package settings

import "image"

// CliBinaryName is the canonical binary name for this tool.
const CliBinaryName = "skinkit"

// VersionInformation is populated at build time via ldflags.
var VersionInformation = VersionInfo{
	Commit:       "unknown",
	BuildVersion: "v0.0.0-nightly",
	BuildTime:    "unknown",
}

// VersionInfo holds the commit hash, version and build timestamp of the
// running binary.
type VersionInfo struct {
	Commit       string
	BuildVersion string
	BuildTime    string
}

// Run holds the options of a single invocation. Zero fields mean "use the
// configuration file value".
type Run struct {
	MinLogLevel int8
	NoColor     bool
	ConfigPath  string
	SkinDir     string
	Resolution  image.Point
}

// NewCliParams returns the options a bare invocation starts with.
func NewCliParams() *Run {
	return &Run{}
}

// LogLevel folds the --debug flag into the configured level. zap levels
// grow more verbose as they decrease, so debug wins when it is lower.
func (r *Run) LogLevel(configured int8) int8 {
	if r.MinLogLevel < configured {
		return r.MinLogLevel
	}
	return configured
}
