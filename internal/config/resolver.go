// Package config implements the layered configuration resolver (spec.md
// §4.A): four ordered sources -- Env, Node, Derived, Default -- queried in
// that fixed order, generalized from the teacher's
// internal/config/{layered,resolver,envloader,defaults}.go four-layer
// design (defaults/file/env/flags) down to the spec's four sources.
package config

import (
	"github.com/rs/zerolog"

	"github.com/scout-apm/agentcore/internal/apmerrors"
)

// Resolver implements spec.md §4.A's get/set/snapshot contract: an
// explicit object with a Get(Property) method, not a transparent
// get/set proxy (see DESIGN.md).
type Resolver struct {
	env     *EnvSource
	node    *NodeSource
	derived *DerivedSource
	def     *DefaultSource
}

// NewResolver builds a Resolver. seed supplies initial Node values (the
// values an embedding program passes to the Engine constructor).
func NewResolver(seed map[Property]any, logger zerolog.Logger) *Resolver {
	r := &Resolver{
		env:  NewEnvSource(),
		node: NewNodeSource(seed),
		def:  NewDefaultSource(),
	}
	r.derived = NewDerivedSource(r.getAt, logger)
	return r
}

// Get returns the first non-absent value across [Env, Node, Derived,
// Default], or (nil, false) if no source defines prop.
func (r *Resolver) Get(prop Property) (any, bool) {
	return r.getAt(prop, 0)
}

// GetExplicit returns prop's value only if Env or Node define it directly,
// skipping Derived and Default. The Agent Connection's socket-selection
// rule (spec.md §4.D) needs to distinguish "the caller configured
// socketPath literally" from "socketPath fell through to its derived
// default," a distinction Get alone cannot make once Derived has already
// produced a value.
func (r *Resolver) GetExplicit(prop Property) (any, bool) {
	if v, ok := r.env.Get(prop); ok {
		return v, true
	}
	if v, ok := r.node.Get(prop); ok {
		return v, true
	}
	return nil, false
}

func (r *Resolver) getAt(prop Property, depth int) (any, bool) {
	if v, ok := r.env.Get(prop); ok {
		return v, true
	}
	if v, ok := r.node.Get(prop); ok {
		return v, true
	}
	if v, ok := r.derived.getAt(prop, depth); ok {
		return v, true
	}
	if v, ok := r.def.Get(prop); ok {
		return v, true
	}
	return nil, false
}

// Set writes value to the Node source. Returns apmerrors.ErrNotSupported
// if prop is derived-only (spec.md §4.A invariant: "set(prop, v) mutates
// only the Node source"; §7: NotSupported "Write to read-only config
// source").
func (r *Resolver) Set(prop Property, value any) error {
	if derivedOnly[prop] {
		return apmerrors.ErrNotSupported
	}
	r.node.Set(prop, value)
	return nil
}

// Snapshot materializes every known property by calling Get on each.
func (r *Resolver) Snapshot() map[Property]any {
	out := make(map[Property]any, len(AllProperties))
	for _, p := range AllProperties {
		if v, ok := r.Get(p); ok {
			out[p] = v
		}
	}
	return out
}

// GetString is a typed convenience wrapper over Get.
func (r *Resolver) GetString(prop Property) string {
	v, ok := r.Get(prop)
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}

// GetBool is a typed convenience wrapper over Get.
func (r *Resolver) GetBool(prop Property) bool {
	v, ok := r.Get(prop)
	if !ok {
		return false
	}
	b, _ := v.(bool)
	return b
}

// GetInt is a typed convenience wrapper over Get.
func (r *Resolver) GetInt(prop Property) int {
	v, ok := r.Get(prop)
	if !ok {
		return 0
	}
	i, _ := v.(int)
	return i
}

// GetStringSlice is a typed convenience wrapper over Get.
func (r *Resolver) GetStringSlice(prop Property) []string {
	v, ok := r.Get(prop)
	if !ok {
		return nil
	}
	s, _ := v.([]string)
	return s
}

// GetLogLevel is a typed convenience wrapper over Get.
func (r *Resolver) GetLogLevel(prop Property) LogLevel {
	v, ok := r.Get(prop)
	if !ok {
		return LogLevelInfo
	}
	lvl, _ := v.(LogLevel)
	return lvl
}

// GetURIReporting is a typed convenience wrapper over Get.
func (r *Resolver) GetURIReporting() URIReporting {
	v, ok := r.Get(PropURIReporting)
	if !ok {
		return URIReportingFilteredParams
	}
	u, _ := v.(URIReporting)
	return u
}
