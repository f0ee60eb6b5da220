package asynccontext

import "sync"

// SyncState holds the synchronous fallback fields spec.md §4.F requires
// (syncCurrentRequest, syncCurrentSpan), used when a caller explicitly
// invokes the synchronous instrumentation API and no async frame is
// available. One SyncState is owned per tracing engine instance, not per
// frame.
type SyncState struct {
	mu      sync.RWMutex
	request any
	span    any
}

// Request returns the synchronous fallback request, or (nil, false) if
// unset.
func (s *SyncState) Request() (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.request, s.request != nil
}

// SetRequest sets or clears (nil) the synchronous fallback request.
func (s *SyncState) SetRequest(request any) {
	s.mu.Lock()
	s.request = request
	s.mu.Unlock()
}

// Span returns the synchronous fallback span, or (nil, false) if unset.
func (s *SyncState) Span() (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.span, s.span != nil
}

// SetSpan sets or clears (nil) the synchronous fallback span.
func (s *SyncState) SetSpan(span any) {
	s.mu.Lock()
	s.span = span
	s.mu.Unlock()
}
