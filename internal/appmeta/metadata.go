// Package appmeta implements the frozen ApplicationMetadata record captured
// once at agent registration (spec.md §3). Grounded on the teacher's plain
// data-record style (internal/config's Configuration-adjacent value types)
// generalized here to a single immutable struct with a ToMap serializer
// rather than a reflected/tagged struct, since the wire payload is a flat
// key/value map, not a nested JSON document.
package appmeta

import "time"

// Metadata is captured once, at registration, and never mutated afterward.
type Metadata struct {
	Language         string
	LanguageVersion  string
	ServerTime       time.Time
	Framework        string
	FrameworkVersion string
	Environment      string
	AppServer        string
	Hostname         string
	DatabaseEngine   string
	DatabaseAdapter  string
	ApplicationName  string
	Libraries        []Library
	PaaS             string
	GitSHA           string
}

// Library identifies one dependency of the instrumented application,
// reported alongside ApplicationMetadata for core-agent diagnostics.
type Library struct {
	Name    string
	Version string
}

// New captures a Metadata record. serverTime is passed in rather than
// computed with time.Now() so the record stays deterministic for tests and
// for callers that want a single wall-clock snapshot shared across
// several subsystems.
func New(serverTime time.Time) Metadata {
	return Metadata{
		Language:   "go",
		ServerTime: serverTime,
	}
}

// ToMap serializes Metadata to the flat key/value representation the
// ScoutMetadata ApplicationEvent carries as its event_value, sent right
// after Register (spec.md §3: "Serializable to a key/value
// map"). Libraries are flattened to "name@version" strings since the wire
// protocol's map values are scalars or arrays thereof, not nested objects.
func (m Metadata) ToMap() map[string]any {
	libs := make([]string, 0, len(m.Libraries))
	for _, lib := range m.Libraries {
		libs = append(libs, lib.Name+"@"+lib.Version)
	}

	return map[string]any{
		"language":          m.Language,
		"language_version":  m.LanguageVersion,
		"server_time":       m.ServerTime.UTC().Format(time.RFC3339),
		"framework":         m.Framework,
		"framework_version": m.FrameworkVersion,
		"environment":       m.Environment,
		"app_server":        m.AppServer,
		"hostname":          m.Hostname,
		"database_engine":   m.DatabaseEngine,
		"database_adapter":  m.DatabaseAdapter,
		"application_name":  m.ApplicationName,
		"libraries":         libs,
		"paas":              m.PaaS,
		"git_sha":           m.GitSHA,
	}
}
