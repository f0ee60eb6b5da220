// Package version exposes agentcore's own build version, distinct from
// the coreAgentVersion config property (internal/coreagentversion),
// which names the external agent binary's version instead.
package version

import (
	"fmt"
	"runtime"
)

var (
	// Version is the agentcore library's semantic version (set by build flags).
	Version = "dev"

	// GitCommit is the git commit hash (set by build flags).
	GitCommit = "unknown"

	// BuildDate is the build timestamp (set by build flags).
	BuildDate = "unknown"

	// GoVersion is the Go toolchain version used to build.
	GoVersion = runtime.Version()
)

// String renders a single-line identifier for logs and CLI output.
func String() string {
	return fmt.Sprintf("agentcore %s (commit %s, built %s, %s)", Version, GitCommit, BuildDate, GoVersion)
}
