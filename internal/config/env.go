package config

import (
	"os"
	"strconv"
	"strings"
	"unicode"
)

// EnvSource resolves properties from process environment variables. Env
// var names are derived from property names by converting camelCase to
// UPPER_SNAKE and prefixing "SCOUT_" (spec.md §4.A). Parsing dispatches on
// the property's Kind, mirroring the teacher's envloader.go
// reflect.Kind-driven setFieldValue, but table-driven rather than
// reflection-driven since there is no single config struct to walk.
type EnvSource struct {
	// lookup allows tests to stub environment access; nil means os.LookupEnv.
	lookup func(string) (string, bool)
}

// NewEnvSource creates an EnvSource reading from the real process
// environment.
func NewEnvSource() *EnvSource {
	return &EnvSource{lookup: os.LookupEnv}
}

func (e *EnvSource) Get(prop Property) (any, bool) {
	name := EnvVarName(prop)
	raw, ok := e.lookupEnv(name)
	if !ok || raw == "" {
		return nil, false
	}
	return parseEnvValue(propertyKinds[prop], raw)
}

func (e *EnvSource) lookupEnv(name string) (string, bool) {
	if e.lookup != nil {
		return e.lookup(name)
	}
	return os.LookupEnv(name)
}

func parseEnvValue(kind Kind, raw string) (any, bool) {
	switch kind {
	case KindBool:
		return strings.EqualFold(raw, "true"), true
	case KindInt:
		// coreAgentPermissions: "decimal integer" whose digits are the
		// octal permission bits (e.g. "700" means 0700), matching the
		// DefaultCoreAgentPermissions default of 0700.
		v, err := strconv.ParseInt(raw, 8, 32)
		if err != nil {
			return nil, false
		}
		return int(v), true
	case KindStringSlice:
		// "comma split, no trimming" per spec.md §4.A.
		return strings.Split(raw, ","), true
	case KindLogLevel:
		lvl, ok := ParseLogLevel(raw)
		if !ok {
			return nil, false
		}
		return lvl, true
	case KindURIReporting:
		v, ok := ParseURIReporting(raw)
		if !ok {
			return nil, false
		}
		return v, true
	default:
		return raw, true
	}
}

// EnvVarName converts a property name to its SCOUT_-prefixed UPPER_SNAKE
// environment variable name, e.g. "coreAgentLogLevel" -> "SCOUT_CORE_AGENT_LOG_LEVEL".
func EnvVarName(prop Property) string {
	var b strings.Builder
	b.WriteString("SCOUT_")
	runes := []rune(string(prop))
	for i, r := range runes {
		if i > 0 && unicode.IsUpper(r) && unicode.IsLower(runes[i-1]) {
			b.WriteByte('_')
		}
		b.WriteRune(unicode.ToUpper(r))
	}
	return b.String()
}
