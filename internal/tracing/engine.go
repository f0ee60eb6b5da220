package tracing

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/scout-apm/agentcore/internal/asynccontext"
	"github.com/scout-apm/agentcore/internal/config"
	"github.com/scout-apm/agentcore/internal/protocol"
)

// Sender is the narrow slice of the Agent Connection (internal/transport)
// the Tracing Engine is given. The engine itself only uses SendAsync
// (fire-and-forget); the Register/ScoutMetadata handshake is sent with
// Send by internal/lifecycle, not by the engine. Accepting this
// interface rather than a concrete *transport.Connection keeps the two
// packages decoupled and the engine trivially fakeable in tests.
type Sender interface {
	Send(ctx context.Context, msg protocol.Message) (protocol.Response, error)
	SendAsync(msg protocol.Message)
}

// PathScrubber supplies the out-of-scope URI-reporting collaborators
// spec.md §1 names ("the core requires two pure functions: scrubPath(s),
// scrubPathParams(s)"). A nil field is treated as identity.
type PathScrubber struct {
	ScrubPath       func(string) string
	ScrubPathParams func(string) string
}

// Engine implements spec.md §4.G's public tracing operations.
type Engine struct {
	resolver *config.Resolver
	sender   Sender
	scrubber PathScrubber
	logger   zerolog.Logger

	sync syncState

	// slowThresholdMS is a supplemented feature (SPEC_FULL.md's
	// slowRequestThresholdMs engine option, whose semantics spec.md
	// leaves unspecified): a request or span whose duration meets or
	// exceeds this threshold is auto-tagged "slow"=true before its tags
	// flush. Zero disables the feature.
	slowThresholdMS int64

	subMu       sync.Mutex
	subscribers []chan Event
}

// syncState is the narrow subset of asynccontext.SyncState the engine
// needs; declared as an interface so tests can substitute a fake.
type syncState interface {
	Request() (any, bool)
	SetRequest(any)
	Span() (any, bool)
	SetSpan(any)
}

// New builds an Engine. sender may be nil until the Agent Connection is
// Ready; sends attempted before then are logged and dropped (error
// isolation, spec.md §4.G).
func New(resolver *config.Resolver, sender Sender, scrubber PathScrubber, logger zerolog.Logger) *Engine {
	return &Engine{
		resolver: resolver,
		sender:   sender,
		scrubber: scrubber,
		logger:   logger.With().Str("component", "tracing_engine").Logger(),
		sync:     &asynccontext.SyncState{},
	}
}

// SetSender rewires the engine's Agent Connection, used once Setup
// reaches Ready (the engine may be constructed before the connection
// exists).
func (e *Engine) SetSender(sender Sender) {
	e.sender = sender
}

// SetSlowThreshold enables the slow-request/span auto-tag feature at the
// given millisecond threshold. A non-positive value disables it.
func (e *Engine) SetSlowThreshold(ms int) {
	e.slowThresholdMS = int64(ms)
}

// TagCurrentRequestError satisfies lifecycle.ErrorTagger: it tags the
// request active in ctx's frame (or the engine's synchronous fallback
// request, if ctx carries none) with error=true, even when a span is open.
func (e *Engine) TagCurrentRequestError(ctx context.Context) {
	if ctx != nil {
		if req, ok := asynccontext.GetRequest(ctx); ok {
			e.AddContext(ctx, "error", true, req)
			return
		}
	}
	if req, ok := e.sync.Request(); ok {
		e.AddContext(ctx, "error", true, req)
	}
}

func (e *Engine) startRequest(path string) *Request {
	ignored := path != "" && e.IgnoresPath(path)
	req := newRequest(ignored, nil)
	if ignored {
		return req
	}
	e.sendAsync(protocol.NewStartRequest(req.id, req.startedAt))
	return req
}

func (e *Engine) stopRequest(req *Request) {
	now := time.Now()
	req.mu.Lock()
	req.endedAt = &now
	onStop := req.onStop
	ignored := req.ignored
	req.mu.Unlock()

	if onStop != nil {
		onStop()
	}

	if ignored {
		e.publish(Event{Kind: EventIgnoredRequestProcessingSkipped, RequestID: req.id})
		return
	}

	if e.slowThresholdMS > 0 && now.Sub(req.startedAt).Milliseconds() >= e.slowThresholdMS {
		req.setTag("slow", true)
	}

	req.mu.Lock()
	for tag, value := range req.tags {
		e.sendAsync(protocol.NewTagRequest(req.id, tag, value, now))
	}
	req.mu.Unlock()

	// FinishRequest is always the last message for a given request_id
	// (spec.md §4.G ordering invariant).
	e.sendAsync(protocol.NewFinishRequest(req.id, now))
	e.publish(Event{Kind: EventRequestSent, RequestID: req.id})
}

func (e *Engine) startSpan(requestID string, parentID *string, operation string, ignored bool) *Span {
	span := newSpan(requestID, parentID, operation, ignored, nil)
	if ignored {
		return span
	}
	e.sendAsync(protocol.NewStartSpan(requestID, span.id, parentID, operation, span.startedAt))
	return span
}

func (e *Engine) stopSpan(span *Span) {
	now := time.Now()
	span.mu.Lock()
	span.endedAt = &now
	onStop := span.onStop
	ignored := span.ignored
	requestID := span.requestID
	id := span.id
	span.mu.Unlock()

	if onStop != nil {
		onStop()
	}
	if ignored {
		return
	}

	if e.slowThresholdMS > 0 {
		span.mu.Lock()
		startedAt := span.startedAt
		span.mu.Unlock()
		if now.Sub(startedAt).Milliseconds() >= e.slowThresholdMS {
			span.setTag("slow", true)
		}
	}

	span.mu.Lock()
	for tag, value := range span.tags {
		e.sendAsync(protocol.NewTagSpan(requestID, id, tag, value, now))
	}
	span.mu.Unlock()

	// Every StartSpan precedes its StopSpan on the wire (spec.md §4.G
	// ordering invariant).
	e.sendAsync(protocol.NewStopSpan(requestID, id, now))
}

// sendAsync forwards to the Agent Connection without surfacing errors to
// callers (spec.md §4.G: "a failure to send any message must not throw
// into the caller's stack").
func (e *Engine) sendAsync(msg protocol.Message) {
	if !e.resolver.GetBool(config.PropMonitor) {
		e.logger.Warn().Str("type", string(msg.Type)).Msg("dropping message: monitoring disabled")
		return
	}
	if e.sender == nil {
		e.logger.Debug().Str("type", string(msg.Type)).Msg("dropping message: no agent connection")
		return
	}
	e.sender.SendAsync(msg)
}

// IgnoresPath reports whether path matches a configured ignore prefix
// (spec.md §4.G). Emits IgnoredPathDetected when true.
func (e *Engine) IgnoresPath(path string) bool {
	for _, prefix := range e.resolver.GetStringSlice(config.PropIgnore) {
		if prefix != "" && strings.HasPrefix(path, prefix) {
			e.publish(Event{Kind: EventIgnoredPathDetected, Path: path})
			return true
		}
	}
	return false
}

// FilterRequestPath scrubs path per the configured uriReporting policy
// (spec.md §4.G).
func (e *Engine) FilterRequestPath(path string) string {
	switch e.resolver.GetURIReporting() {
	case config.URIReportingFilteredParams:
		if e.scrubber.ScrubPathParams != nil {
			return e.scrubber.ScrubPathParams(path)
		}
	case config.URIReportingPath:
		if e.scrubber.ScrubPath != nil {
			return e.scrubber.ScrubPath(path)
		}
	}
	return path
}
