// Package agentcore is the public API surface of the instrumentation
// runtime (spec.md §6): an Engine wiring the Config Resolver, Agent
// Lifecycle, Tracing Engine, and Stats Ticker into a single embeddable
// client.
package agentcore

import (
	"time"

	"github.com/scout-apm/agentcore/internal/appmeta"
	"github.com/scout-apm/agentcore/internal/config"
	"github.com/scout-apm/agentcore/internal/lifecycle"
	"github.com/scout-apm/agentcore/internal/tracing"
)

// Request is spec.md §3's identity `req-<uuid-v4>` record, returned by
// GetCurrentRequest.
type Request = tracing.Request

// Span is spec.md §3's identity `span-<uuid-v4>` record, returned by
// GetCurrentSpan.
type Span = tracing.Span

// Property identifies one field of the configuration record (spec.md
// §3). Re-exported so embedding programs can build a Values map without
// importing an internal package.
type Property = config.Property

// The full closed set of configuration properties, re-exported from
// internal/config for embedders constructing an Options.Values map.
const (
	PropName            = config.PropName
	PropKey             = config.PropKey
	PropRevisionSHA     = config.PropRevisionSHA
	PropApplicationRoot = config.PropApplicationRoot

	PropLogLevel      = config.PropLogLevel
	PropSocketPath    = config.PropSocketPath
	PropLogFilePath   = config.PropLogFilePath
	PropAllowShutdown = config.PropAllowShutdown
	PropMonitor       = config.PropMonitor

	PropFramework        = config.PropFramework
	PropFrameworkVersion = config.PropFrameworkVersion

	PropAPIVersion           = config.PropAPIVersion
	PropDownloadURL          = config.PropDownloadURL
	PropCoreAgentDownload    = config.PropCoreAgentDownload
	PropCoreAgentLaunch      = config.PropCoreAgentLaunch
	PropCoreAgentDir         = config.PropCoreAgentDir
	PropCoreAgentLogLevel    = config.PropCoreAgentLogLevel
	PropCoreAgentPermissions = config.PropCoreAgentPermissions
	PropCoreAgentVersion     = config.PropCoreAgentVersion

	PropHostname = config.PropHostname

	PropIgnore          = config.PropIgnore
	PropCollectRemoteIP = config.PropCollectRemoteIP
	PropURIReporting    = config.PropURIReporting

	PropDisabledInstruments = config.PropDisabledInstruments
)

// LogLevel is the {Debug, Info, Warn, Error} enum shared by logLevel and
// coreAgentLogLevel.
type LogLevel = config.LogLevel

const (
	LogLevelDebug = config.LogLevelDebug
	LogLevelInfo  = config.LogLevelInfo
	LogLevelWarn  = config.LogLevelWarn
	LogLevelError = config.LogLevelError
)

// URIReporting is the policy for scrubbing a URL before recording it.
type URIReporting = config.URIReporting

const (
	URIReportingNone           = config.URIReportingNone
	URIReportingPath           = config.URIReportingPath
	URIReportingFilteredParams = config.URIReportingFilteredParams
)

// Metadata is the frozen ApplicationMetadata record captured at
// registration (spec.md §3).
type Metadata = appmeta.Metadata

// Library identifies one dependency of the instrumented application,
// reported alongside Metadata.
type Library = appmeta.Library

// NewMetadata captures a Metadata record with the given server time
// (spec.md §3).
func NewMetadata(serverTime time.Time) Metadata {
	return appmeta.New(serverTime)
}

// Downloader is the out-of-scope binary-download collaborator spec.md §1
// names: "the core requires a Downloader capability with method
// fetch(version, options) -> local binary path."
type Downloader = lifecycle.Downloader

// DownloadOptions parameterizes a Downloader.Fetch call.
type DownloadOptions = lifecycle.DownloadOptions

// Logger is the out-of-scope log-sink collaborator spec.md §1 names:
// "the core requires a Log(message, level) capability."
type Logger interface {
	Log(message string, level LogLevel)
}

// PathScrubber supplies the out-of-scope URI-reporting collaborators
// spec.md §1 names: "the core requires two pure functions: scrubPath(s),
// scrubPathParams(s)."
type PathScrubber struct {
	ScrubPath       func(string) string
	ScrubPathParams func(string) string
}
