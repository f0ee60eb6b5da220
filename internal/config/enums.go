package config

import "strings"

// LogLevel is the {Debug, Info, Warn, Error} enum used for both logLevel
// and coreAgentLogLevel.
type LogLevel int

const (
	LogLevelDebug LogLevel = iota
	LogLevelInfo
	LogLevelWarn
	LogLevelError
)

func (l LogLevel) String() string {
	switch l {
	case LogLevelDebug:
		return "debug"
	case LogLevelWarn:
		return "warn"
	case LogLevelError:
		return "error"
	default:
		return "info"
	}
}

// ParseLogLevel parses a case-insensitive level name. Unknown input yields
// (LogLevelInfo, false).
func ParseLogLevel(s string) (LogLevel, bool) {
	switch strings.ToLower(s) {
	case "debug":
		return LogLevelDebug, true
	case "info":
		return LogLevelInfo, true
	case "warn", "warning":
		return LogLevelWarn, true
	case "error":
		return LogLevelError, true
	default:
		return LogLevelInfo, false
	}
}

// URIReporting is the policy for scrubbing a URL before recording it
// (spec.md §3, §4.G filterRequestPath).
type URIReporting int

const (
	// URIReportingNone records the path verbatim.
	URIReportingNone URIReporting = iota
	// URIReportingPath scrubs the path only (scrubPath).
	URIReportingPath
	// URIReportingFilteredParams scrubs both path and query params
	// (scrubPathParams). This is the default.
	URIReportingFilteredParams
)

func (u URIReporting) String() string {
	switch u {
	case URIReportingNone:
		return "None"
	case URIReportingPath:
		return "Path"
	default:
		return "FilteredParams"
	}
}

// ParseURIReporting parses the three enum values, case-sensitively as they
// appear in spec.md.
func ParseURIReporting(s string) (URIReporting, bool) {
	switch s {
	case "None":
		return URIReportingNone, true
	case "Path":
		return URIReportingPath, true
	case "FilteredParams":
		return URIReportingFilteredParams, true
	default:
		return URIReportingFilteredParams, false
	}
}
