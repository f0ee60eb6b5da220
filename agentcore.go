package agentcore

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/scout-apm/agentcore/internal/apmerrors"
	"github.com/scout-apm/agentcore/internal/config"
	"github.com/scout-apm/agentcore/internal/lifecycle"
	"github.com/scout-apm/agentcore/internal/statsticker"
	"github.com/scout-apm/agentcore/internal/tracing"
)

// Re-exported sentinel errors (internal/apmerrors), so embedders can
// classify a failed Setup with errors.Is without importing an internal
// package.
var (
	ErrNotSupported         = apmerrors.ErrNotSupported
	ErrInvalidConfiguration = apmerrors.ErrInvalidConfiguration
	ErrNoAgentPresent       = apmerrors.ErrNoAgentPresent
	ErrDisconnected         = apmerrors.ErrDisconnected
	ErrMonitoringDisabled   = apmerrors.ErrMonitoringDisabled
	ErrConnectionFailed     = apmerrors.ErrConnectionFailed
	ErrInstanceNotReady     = apmerrors.ErrInstanceNotReady
	ErrUnknownSocketType    = apmerrors.ErrUnknownSocketType
)

// Options configures a new Engine (spec.md §1's collaborator list plus
// §3's configuration record). Values seeds the Node configuration
// source; any Property not present falls through to Derived, then
// Default (spec.md §4.A).
type Options struct {
	Values map[Property]any
	Logger zerolog.Logger

	Downloader Downloader
	Metadata   Metadata
	Scrubber   PathScrubber

	// SlowRequestThresholdMs auto-tags a request or span "slow"=true when
	// its duration meets or exceeds this many milliseconds. Zero
	// disables the feature (a supplemented feature resolving spec.md
	// §6's otherwise-unspecified slowRequestThresholdMs).
	SlowRequestThresholdMs int

	// StatisticsIntervalMS overrides the Stats Ticker's sampling period.
	// Zero selects statsticker.DefaultInterval.
	StatisticsIntervalMS int
}

// Engine is the embeddable instrumentation runtime client (spec.md §6):
// it wires the Config Resolver, Agent Lifecycle, Tracing Engine, and
// Stats Ticker into one API surface.
type Engine struct {
	resolver *config.Resolver
	lifecyc  *lifecycle.Manager
	tracer   *tracing.Engine
	ticker   *statsticker.Ticker
	meta     Metadata

	subMu       sync.Mutex
	subscribers []chan Event
}

// New constructs an Engine. No connection is opened and no process is
// spawned until Setup succeeds (spec.md §4.E).
func New(opts Options) *Engine {
	resolver := config.NewResolver(opts.Values, opts.Logger)

	tracer := tracing.New(resolver, nil, tracing.PathScrubber{
		ScrubPath:       opts.Scrubber.ScrubPath,
		ScrubPathParams: opts.Scrubber.ScrubPathParams,
	}, opts.Logger)
	if opts.SlowRequestThresholdMs > 0 {
		tracer.SetSlowThreshold(opts.SlowRequestThresholdMs)
	}

	mgr := lifecycle.New(resolver, opts.Downloader, opts.Logger)

	interval := time.Duration(opts.StatisticsIntervalMS) * time.Millisecond
	ticker := statsticker.New(nil, connectionProber{mgr}, interval, opts.Logger)

	e := &Engine{
		resolver: resolver,
		lifecyc:  mgr,
		tracer:   tracer,
		ticker:   ticker,
		meta:     opts.Metadata,
	}
	return e
}

// connectionProber adapts *lifecycle.Manager to statsticker.Prober: the
// ticker must ask "is the connection up right now," but Manager itself
// exposes the connection only via Connection(), not a Connected() bool.
type connectionProber struct {
	mgr *lifecycle.Manager
}

func (p connectionProber) Connected() bool {
	conn := p.mgr.Connection()
	return conn != nil && conn.Connected()
}

// Setup drives the Agent Lifecycle to Ready (spec.md §4.E): launches or
// attaches to the core agent, opens the connection, registers the
// application, and starts the Stats Ticker. Concurrent callers share one
// initialization; a caller arriving after Ready returns immediately.
func (e *Engine) Setup(ctx context.Context) error {
	if err := e.lifecyc.Setup(ctx, e.meta, e.tracer, e.ticker); err != nil {
		return err
	}
	conn := e.lifecyc.Connection()
	e.tracer.SetSender(conn)
	e.ticker.SetSender(conn)
	return nil
}

// SetupNonBlocking is spec.md §4.E's fail-fast variant: it returns
// ErrInstanceNotReady instead of waiting when initialization is already
// in progress on another goroutine.
func (e *Engine) SetupNonBlocking(ctx context.Context) error {
	if err := e.lifecyc.SetupNonBlocking(ctx, e.meta, e.tracer, e.ticker); err != nil {
		return err
	}
	conn := e.lifecyc.Connection()
	e.tracer.SetSender(conn)
	e.ticker.SetSender(conn)
	return nil
}

// Shutdown reverses Setup (spec.md §4.E): stops the ticker, disconnects,
// optionally stops the core agent process, and clears the global active
// instance.
func (e *Engine) Shutdown(ctx context.Context) error {
	err := e.lifecyc.Shutdown(ctx)
	e.publishShutdown()
	return err
}

// HasAgent reports whether Setup has completed and the Agent Connection
// is Ready.
func (e *Engine) HasAgent() bool {
	return e.lifecyc.State() == lifecycle.StateReady
}

// IsShutdown reports whether the engine has been torn down.
func (e *Engine) IsShutdown() bool {
	switch e.lifecyc.State() {
	case lifecycle.StateShuttingDown, lifecycle.StateClosed:
		return true
	default:
		return false
	}
}

// Transaction runs fn as a new top-level Request (spec.md §4.G). It
// returns ErrNoAgentPresent, without invoking fn, if Setup has not yet
// wired an Agent Connection (spec.md §7).
func (e *Engine) Transaction(ctx context.Context, name string, fn func(ctx context.Context, done func())) error {
	return e.tracer.Transaction(ctx, name, fn)
}

// TransactionSync is Transaction's synchronous-fallback counterpart
// (spec.md §4.G), for call sites with no context.Context to thread.
func (e *Engine) TransactionSync(name string, fn func()) error {
	return e.tracer.TransactionSync(name, fn)
}

// Instrument runs fn as a new Span nested under ctx's current frame,
// auto-creating a wrapping Transaction if none is active (spec.md §4.G).
// It returns ErrNoAgentPresent under the same condition as Transaction.
func (e *Engine) Instrument(ctx context.Context, operation string, fn func(ctx context.Context, done func())) error {
	return e.tracer.Instrument(ctx, operation, fn)
}

// InstrumentSync is Instrument's synchronous-fallback counterpart
// (spec.md §4.G). parentOverride, if non-nil, takes priority over every
// other parent-resolution tier.
func (e *Engine) InstrumentSync(ctx context.Context, operation string, fn func(), parentOverride any) error {
	return e.tracer.InstrumentSync(ctx, operation, fn, parentOverride)
}

// AddContext tags the request or span active in ctx's frame (or
// parentOverride, if non-nil) with name=value (spec.md §4.G).
func (e *Engine) AddContext(ctx context.Context, name string, value any, parentOverride any) {
	e.tracer.AddContext(ctx, name, value, parentOverride)
}

// GetCurrentRequest returns the Request active in ctx's frame, if any.
func (e *Engine) GetCurrentRequest(ctx context.Context) (*Request, bool) {
	return e.tracer.GetCurrentRequest(ctx)
}

// GetCurrentSpan returns the Span active in ctx's frame, if any.
func (e *Engine) GetCurrentSpan(ctx context.Context) (*Span, bool) {
	return e.tracer.GetCurrentSpan(ctx)
}

// IgnoresPath reports whether path matches a configured ignore prefix
// (spec.md §4.G).
func (e *Engine) IgnoresPath(path string) bool {
	return e.tracer.IgnoresPath(path)
}

// FilterRequestPath scrubs path per the configured uriReporting policy
// (spec.md §4.G).
func (e *Engine) FilterRequestPath(path string) string {
	return e.tracer.FilterRequestPath(path)
}

// WithRequestErrorTagging recovers a panic escaping fn, tags the active
// request error=true through the process-global active engine (if any),
// and re-panics (spec.md §7).
func WithRequestErrorTagging(ctx context.Context, fn func()) {
	lifecycle.WithRequestErrorTagging(ctx, fn)
}
