package config

// Property identifies a single field of the configuration record. Resolver
// exposes one typed entry point, Get(Property), instead of mimicking
// transparent field-access magic (see DESIGN.md's proxy-over-flat-record
// note).
type Property string

// The full closed set of configuration properties (spec.md §3).
const (
	PropName            Property = "name"
	PropKey             Property = "key"
	PropRevisionSHA     Property = "revisionSHA"
	PropApplicationRoot Property = "applicationRoot"

	PropLogLevel      Property = "logLevel"
	PropSocketPath    Property = "socketPath"
	PropLogFilePath   Property = "logFilePath"
	PropAllowShutdown Property = "allowShutdown"
	PropMonitor       Property = "monitor"

	PropFramework        Property = "framework"
	PropFrameworkVersion Property = "frameworkVersion"

	PropAPIVersion           Property = "apiVersion"
	PropDownloadURL          Property = "downloadUrl"
	PropCoreAgentDownload    Property = "coreAgentDownload"
	PropCoreAgentLaunch      Property = "coreAgentLaunch"
	PropCoreAgentDir         Property = "coreAgentDir"
	PropCoreAgentLogLevel    Property = "coreAgentLogLevel"
	PropCoreAgentPermissions Property = "coreAgentPermissions"
	PropCoreAgentVersion     Property = "coreAgentVersion"

	PropHostname Property = "hostname"

	PropIgnore          Property = "ignore"
	PropCollectRemoteIP Property = "collectRemoteIP"
	PropURIReporting    Property = "uriReporting"

	PropDisabledInstruments Property = "disabledInstruments"

	// Derived-only: never written via Set, always produced by DerivedSource.
	PropCoreAgentTriple   Property = "coreAgentTriple"
	PropCoreAgentFullName Property = "coreAgentFullName"
)

// AllProperties lists every known property, used by Resolver.Snapshot.
var AllProperties = []Property{
	PropName, PropKey, PropRevisionSHA, PropApplicationRoot,
	PropLogLevel, PropSocketPath, PropLogFilePath, PropAllowShutdown, PropMonitor,
	PropFramework, PropFrameworkVersion,
	PropAPIVersion, PropDownloadURL, PropCoreAgentDownload, PropCoreAgentLaunch,
	PropCoreAgentDir, PropCoreAgentLogLevel, PropCoreAgentPermissions, PropCoreAgentVersion,
	PropHostname,
	PropIgnore, PropCollectRemoteIP, PropURIReporting,
	PropDisabledInstruments,
	PropCoreAgentTriple, PropCoreAgentFullName,
}

// derivedOnly is the set of properties that are never writable through Set,
// because they only ever come from DerivedSource.
var derivedOnly = map[Property]bool{
	PropCoreAgentTriple:   true,
	PropCoreAgentFullName: true,
}

// Kind classifies a property's value type, driving both env-var parsing and
// Set-time type checks. Mirrors the teacher's envloader.go reflect.Kind
// dispatch, but table-driven instead of reflection-driven since properties
// are keys into ordered sources, not struct fields.
type Kind int

const (
	KindString Kind = iota
	KindBool
	KindInt
	KindStringSlice
	KindLogLevel
	KindURIReporting
)

var propertyKinds = map[Property]Kind{
	PropName:                 KindString,
	PropKey:                  KindString,
	PropRevisionSHA:          KindString,
	PropApplicationRoot:      KindString,
	PropLogLevel:             KindLogLevel,
	PropSocketPath:           KindString,
	PropLogFilePath:          KindString,
	PropAllowShutdown:        KindBool,
	PropMonitor:              KindBool,
	PropFramework:            KindString,
	PropFrameworkVersion:     KindString,
	PropAPIVersion:           KindString,
	PropDownloadURL:          KindString,
	PropCoreAgentDownload:    KindBool,
	PropCoreAgentLaunch:      KindBool,
	PropCoreAgentDir:         KindString,
	PropCoreAgentLogLevel:    KindLogLevel,
	PropCoreAgentPermissions: KindInt,
	PropCoreAgentVersion:     KindString,
	PropHostname:             KindString,
	PropIgnore:               KindStringSlice,
	PropCollectRemoteIP:      KindBool,
	PropURIReporting:         KindURIReporting,
	PropDisabledInstruments:  KindStringSlice,
	PropCoreAgentTriple:      KindString,
	PropCoreAgentFullName:    KindString,
}
