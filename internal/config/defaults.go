package config

import "os"

// Default values, exact per spec.md §4.A.
const (
	DefaultDownloadURL = "https://s3-us-west-1.amazonaws.com/scout-public-downloads/apm_core_agent/release"
	// DefaultCoreAgentPermissions is the octal integer 0700.
	DefaultCoreAgentPermissions = 0700
	DefaultCoreAgentVersion     = "v1.2.7"
	// DefaultCoreAgentDir matches the directory scout_apm core agents have
	// historically been cached under.
	DefaultCoreAgentDir = "/tmp/scout_apm_core"
)

// DefaultSource is the static table of last-resort values (spec.md §4.A).
type DefaultSource struct {
	values map[Property]any
}

// NewDefaultSource builds the default table. revisionSHA reads
// HEROKU_SLUG_COMMIT once at construction time, per spec.md's exact rule
// "revisionSHA=env(HEROKU_SLUG_COMMIT) or \"\"" -- this is a dynamic
// default computed from the environment, not a Env-source lookup (it has
// no SCOUT_ env var of its own).
func NewDefaultSource() *DefaultSource {
	hostname, _ := os.Hostname()

	return &DefaultSource{values: map[Property]any{
		PropCoreAgentDownload:    true,
		PropCoreAgentLaunch:      true,
		PropCoreAgentLogLevel:    LogLevelInfo,
		PropCoreAgentPermissions: DefaultCoreAgentPermissions,
		PropCoreAgentVersion:     DefaultCoreAgentVersion,
		PropDownloadURL:          DefaultDownloadURL,
		PropURIReporting:         URIReportingFilteredParams,
		PropMonitor:              false,
		PropRevisionSHA:          os.Getenv("HEROKU_SLUG_COMMIT"),
		PropLogLevel:             LogLevelInfo,
		PropAllowShutdown:        false,
		PropCollectRemoteIP:      true,
		PropCoreAgentDir:         DefaultCoreAgentDir,
		PropHostname:             hostname,
		PropAPIVersion:           "1.0",
		PropIgnore:               []string{},
		PropDisabledInstruments:  []string{},
	}}
}

func (d *DefaultSource) Get(prop Property) (any, bool) {
	v, ok := d.values[prop]
	return v, ok
}
