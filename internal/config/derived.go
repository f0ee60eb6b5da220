package config

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/scout-apm/agentcore/internal/coreagentversion"
	"github.com/scout-apm/agentcore/internal/platform"
)

// maxDerivedDepth caps recursive derivation lookups (spec.md §9: "Derived
// never depends on itself for the same key"; "2 levels suffice for the
// rules given"). SocketPath -> CoreAgentFullName -> CoreAgentTriple is the
// deepest chain the rules define.
const maxDerivedDepth = 4

// DerivedSource computes composite values from other properties via
// recursive lookup through the owning Resolver (spec.md §4.A).
type DerivedSource struct {
	resolve func(prop Property, depth int) (any, bool)
	logger  zerolog.Logger
}

// NewDerivedSource creates a DerivedSource. resolve is the Resolver's
// depth-aware lookup, wired after construction since Resolver and
// DerivedSource reference each other.
func NewDerivedSource(resolve func(prop Property, depth int) (any, bool), logger zerolog.Logger) *DerivedSource {
	return &DerivedSource{resolve: resolve, logger: logger.With().Str("component", "config_derived").Logger()}
}

func (d *DerivedSource) Get(prop Property) (any, bool) {
	return d.getAt(prop, 0)
}

func (d *DerivedSource) getAt(prop Property, depth int) (any, bool) {
	if depth > maxDerivedDepth {
		return nil, false
	}

	switch prop {
	case PropCoreAgentTriple:
		triple := platform.DetectTriple()
		if !platform.ValidTriple(triple) {
			d.logger.Warn().Str("triple", triple).Msg("detected core agent triple is not in the known set")
		}
		return triple, true

	case PropCoreAgentFullName:
		rawVersion, ok := d.resolve(PropCoreAgentVersion, depth+1)
		if !ok {
			return nil, false
		}
		version, ok := asString(rawVersion)
		if !ok {
			return nil, false
		}
		rawTriple, ok := d.resolve(PropCoreAgentTriple, depth+1)
		if !ok {
			return nil, false
		}
		triple, ok := asString(rawTriple)
		if !ok {
			return nil, false
		}
		v := coreagentversion.New(version)
		return fmt.Sprintf("scout_apm_core-%s-%s", v.Stripped(), triple), true

	case PropSocketPath:
		rawDir, ok := d.resolve(PropCoreAgentDir, depth+1)
		if !ok {
			return nil, false
		}
		dir, ok := asString(rawDir)
		if !ok {
			return nil, false
		}
		rawName, ok := d.resolve(PropCoreAgentFullName, depth+1)
		if !ok {
			return nil, false
		}
		name, ok := asString(rawName)
		if !ok {
			return nil, false
		}
		return strings.TrimRight(dir, "/") + "/" + name + "/core-agent.sock", true

	default:
		return nil, false
	}
}

func asString(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}
