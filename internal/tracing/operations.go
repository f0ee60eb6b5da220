package tracing

import (
	"context"
	"sync"

	"github.com/scout-apm/agentcore/internal/apmerrors"
	"github.com/scout-apm/agentcore/internal/asynccontext"
)

// Transaction is the asynchronous top-level entry point (spec.md §4.G).
// It pushes a fresh async frame, starts a Request, and invokes fn with a
// done func that stops the Request. fn may call done explicitly or simply
// return; either satisfies the "done() called (or cb returns a resolved
// result)" duality, implemented here with sync.Once so both paths are
// safe to mix.
//
// name is advisory, matching spec.md's note that the current
// implementation does not attach it to the request body automatically.
//
// Transaction returns ErrNoAgentPresent, without invoking fn, if no
// Agent Connection has been wired via SetSender yet (spec.md §7's
// NoAgentPresent, exercised by a transaction attempted before Setup
// reaches Ready).
func (e *Engine) Transaction(ctx context.Context, name string, fn func(ctx context.Context, done func())) error {
	if e.sender == nil {
		e.logger.Warn().Str("name", name).Msg("transaction rejected: no agent connection")
		return apmerrors.ErrNoAgentPresent
	}
	asynccontext.RunInNewFrame(ctx, func(frameCtx context.Context) {
		req := e.startRequest("")
		asynccontext.SetRequest(frameCtx, req)

		var once sync.Once
		done := func() {
			once.Do(func() { e.stopRequest(req) })
		}

		fn(frameCtx, done)
		done()
	})
	return nil
}

// TransactionSync is the synchronous variant using the engine's fallback
// fields rather than an async frame. It shares Transaction's
// ErrNoAgentPresent rejection.
func (e *Engine) TransactionSync(name string, fn func()) error {
	if e.sender == nil {
		e.logger.Warn().Str("name", name).Msg("transaction rejected: no agent connection")
		return apmerrors.ErrNoAgentPresent
	}
	req := e.startRequest("")
	e.sync.SetRequest(req)
	defer func() {
		e.sync.SetRequest(nil)
		e.stopRequest(req)
	}()
	fn()
	return nil
}

// currentParent resolves the active span-or-request from ctx's async
// frame, per spec.md §4.G: "child span of the current parent (current
// span if any, else current request)".
func (e *Engine) currentParent(ctx context.Context) (requestID string, parentSpanID *string, ok bool) {
	if span, present := asynccontext.GetSpan(ctx); present {
		s := span.(*Span)
		return s.requestID, &s.id, true
	}
	if req, present := asynccontext.GetRequest(ctx); present {
		r := req.(*Request)
		return r.id, nil, true
	}
	return "", nil, false
}

// Instrument starts a child span of the current parent found in ctx's
// frame. If no parent is present it auto-creates a wrapping Transaction
// (spec.md §4.G) so every span always has an owning request; that
// Transaction's ErrNoAgentPresent rejection propagates here in the same
// case.
func (e *Engine) Instrument(ctx context.Context, operation string, fn func(ctx context.Context, done func())) error {
	requestID, parentSpanID, ok := e.currentParent(ctx)
	if !ok {
		return e.Transaction(ctx, operation, func(frameCtx context.Context, finishTxn func()) {
			e.Instrument(frameCtx, operation, func(spanCtx context.Context, doneSpan func()) {
				fn(spanCtx, doneSpan)
			})
			finishTxn()
		})
	}

	req, reqPresent := asynccontext.GetRequest(ctx)
	parentWasRequest := parentSpanID == nil && reqPresent

	span := e.startSpan(requestID, parentSpanID, operation, isIgnoredParent(ctx))
	asynccontext.SetSpan(ctx, span)

	var once sync.Once
	done := func() {
		once.Do(func() {
			e.stopSpan(span)
			// restore the parent span (or clear) on completion.
			asynccontext.SetSpan(ctx, nil)
			if parentSpanID != nil {
				if r, present := asynccontext.GetRequest(ctx); present {
					for _, s := range r.(*Request).spans {
						if s.id == *parentSpanID {
							asynccontext.SetSpan(ctx, s)
							break
						}
					}
				}
			}
			if parentWasRequest {
				// the frame is closing for this parent; clear the
				// request slot too (spec.md §4.G).
				asynccontext.SetRequest(ctx, nil)
			}
		})
	}

	if reqPresent {
		req.(*Request).addSpan(span)
	}

	fn(ctx, done)
	done()
	return nil
}

func isIgnoredParent(ctx context.Context) bool {
	if span, ok := asynccontext.GetSpan(ctx); ok {
		return span.(*Span).Ignored()
	}
	if req, ok := asynccontext.GetRequest(ctx); ok {
		return req.(*Request).Ignored()
	}
	return false
}

// InstrumentSync is the synchronous variant. Parent resolution follows
// spec.md §4.G's fallback chain: parentOverride, then the engine's
// synchronous fallback fields, then (if ctx is non-nil) the async frame.
// With no parent resolvable it falls back to TransactionSync, whose
// ErrNoAgentPresent rejection propagates here in the same case.
func (e *Engine) InstrumentSync(ctx context.Context, operation string, fn func(), parentOverride any) error {
	parent := parentOverride

	if parent == nil {
		if span, ok := e.sync.Span(); ok {
			parent = span
		}
	}
	if parent == nil {
		if req, ok := e.sync.Request(); ok {
			parent = req
		}
	}
	if parent == nil && ctx != nil {
		if span, ok := asynccontext.GetSpan(ctx); ok {
			parent = span
		} else if req, ok := asynccontext.GetRequest(ctx); ok {
			parent = req
		}
	}

	if parent == nil {
		return e.TransactionSync(operation, func() {
			e.InstrumentSync(ctx, operation, fn, nil)
		})
	}

	var requestID string
	var parentSpanID *string
	switch p := parent.(type) {
	case *Span:
		requestID = p.requestID
		parentSpanID = &p.id
	case *Request:
		requestID = p.id
	}

	span := e.startSpan(requestID, parentSpanID, operation, isIgnoredParentValue(parent))
	e.sync.SetSpan(span)
	defer func() {
		e.sync.SetSpan(nil)
		e.stopSpan(span)
	}()
	fn()
	return nil
}

func isIgnoredParentValue(parent any) bool {
	switch p := parent.(type) {
	case *Span:
		return p.Ignored()
	case *Request:
		return p.Ignored()
	default:
		return false
	}
}

// AddContext attaches a tag to the current or given parent (spec.md
// §4.G). Tag updates flush asynchronously on the owning request/span's
// next TagRequest/TagSpan message.
func (e *Engine) AddContext(ctx context.Context, name string, value any, parentOverride any) {
	parent := parentOverride
	if parent == nil && ctx != nil {
		if span, ok := asynccontext.GetSpan(ctx); ok {
			parent = span
		} else if req, ok := asynccontext.GetRequest(ctx); ok {
			parent = req
		}
	}
	if parent == nil {
		if span, ok := e.sync.Span(); ok {
			parent = span
		} else if req, ok := e.sync.Request(); ok {
			parent = req
		}
	}

	switch p := parent.(type) {
	case *Span:
		p.setTag(name, value)
	case *Request:
		p.setTag(name, value)
	default:
		e.logger.Debug().Str("tag", name).Msg("addContext called with no active request or span")
	}
}

// GetCurrentRequest returns the active request from ctx's async frame.
func (e *Engine) GetCurrentRequest(ctx context.Context) (*Request, bool) {
	if req, ok := asynccontext.GetRequest(ctx); ok {
		return req.(*Request), true
	}
	return nil, false
}

// GetCurrentSpan returns the active span from ctx's async frame.
func (e *Engine) GetCurrentSpan(ctx context.Context) (*Span, bool) {
	if span, ok := asynccontext.GetSpan(ctx); ok {
		return span.(*Span), true
	}
	return nil, false
}
