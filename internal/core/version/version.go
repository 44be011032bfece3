// Package version exposes build metadata stamped in with -ldflags
package version

// BuildInfo describes the running binary
type BuildInfo struct {
	Service string `json:"service" example:"bluebird-api"`
	Version string `json:"version" example:"v1.4.0"`
	Commit  string `json:"commit"  example:"3f2a9c1"`
	Date    string `json:"date"    example:"2026-05-02"`
}

// Service is the reported service name
const Service = "bluebird-api"

// set with -ldflags "-X bluebird/internal/core/version.version=v1.4.0 ..."
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// Info returns the build metadata
func Info() BuildInfo {
	return BuildInfo{Service: Service, Version: version, Commit: commit, Date: date}
}
