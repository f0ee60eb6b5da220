package lifecycle

import "sync"

// globalMu and active implement spec.md §9's "one active engine per
// process is an optional convenience... the global slot uses
// first-writer-wins to avoid surprise replacement."
var (
	globalMu sync.Mutex
	active   *Manager
)

// registerGlobal installs m as the process-global active instance iff
// none is registered yet (spec.md §4.E step 6). Returns whether m became
// the active instance.
func registerGlobal(m *Manager) bool {
	globalMu.Lock()
	defer globalMu.Unlock()
	if active != nil {
		return false
	}
	active = m
	return true
}

// clearGlobalIfSelf removes m from the global slot iff it is currently
// installed there (spec.md §4.E shutdown: "clear the active instance").
func clearGlobalIfSelf(m *Manager) {
	globalMu.Lock()
	defer globalMu.Unlock()
	if active == m {
		active = nil
	}
}

// Active returns the process-global active Manager, if one is registered.
func Active() (*Manager, bool) {
	globalMu.Lock()
	defer globalMu.Unlock()
	return active, active != nil
}
