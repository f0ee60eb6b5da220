// Package tracing implements the Tracing Engine (spec.md §4.G): starts and
// stops Requests and Spans, flushes framed telemetry to the Agent
// Connection, and applies the ignore/filter policies. Grounded on the
// teacher's internal/agent/telemetry span/request accumulation shape
// (aggregator.go, storage.go) generalized from OTLP pdata spans to this
// spec's flat Request/Span pair with parentId-only linkage.
package tracing

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Request is spec.md §3's identity `req-<uuid-v4>` record: a top-level
// traced transaction owning an ordered list of child spans and a tag map.
type Request struct {
	mu sync.Mutex

	id        string
	startedAt time.Time
	endedAt   *time.Time
	spans     []*Span
	tags      map[string]any
	ignored   bool
	onStop    func()
}

// ID returns the request's req-<uuid-v4> identity.
func (r *Request) ID() string { return r.id }

// Ignored reports whether this request (and therefore every descendant
// span) is excluded from wire emission.
func (r *Request) Ignored() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ignored
}

func (r *Request) setTag(tag string, value any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tags[tag] = value
}

func (r *Request) addSpan(s *Span) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.spans = append(r.spans, s)
}

func newRequest(ignored bool, onStop func()) *Request {
	return &Request{
		id:        "req-" + uuid.NewString(),
		startedAt: time.Now(),
		tags:      make(map[string]any),
		ignored:   ignored,
		onStop:    onStop,
	}
}

// Span is spec.md §3's identity `span-<uuid-v4>` record. Children are not
// stored directly; parenthood is recorded by ParentID only, avoiding
// reference cycles between spans and their request (spec.md §9: "a span
// holds requestId... and a parentId..., not the parent span").
type Span struct {
	mu sync.Mutex

	id        string
	requestID string
	parentID  *string
	operation string
	startedAt time.Time
	endedAt   *time.Time
	tags      map[string]any
	ignored   bool
	onStop    func()
}

// ID returns the span's span-<uuid-v4> identity.
func (s *Span) ID() string { return s.id }

// RequestID returns the owning request's identity.
func (s *Span) RequestID() string { return s.requestID }

// ParentID returns the parent span's identity, or nil if the request
// itself is the parent.
func (s *Span) ParentID() *string { return s.parentID }

// Ignored reports whether this span is excluded from wire emission,
// inherited from its owning request.
func (s *Span) Ignored() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ignored
}

func (s *Span) setTag(tag string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tags[tag] = value
}

func newSpan(requestID string, parentID *string, operation string, ignored bool, onStop func()) *Span {
	return &Span{
		id:        "span-" + uuid.NewString(),
		requestID: requestID,
		parentID:  parentID,
		operation: operation,
		startedAt: time.Now(),
		tags:      make(map[string]any),
		ignored:   ignored,
		onStop:    onStop,
	}
}
