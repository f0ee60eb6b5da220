package agentcore

import "github.com/scout-apm/agentcore/internal/tracing"

// EventKind discriminates the Engine's unified event stream, bridging
// internal/tracing's event stream with the engine's own lifecycle
// transitions so embedders subscribe to one channel instead of one per
// component.
type EventKind int

const (
	EventRequestSent EventKind = iota
	EventIgnoredPathDetected
	EventIgnoredRequestProcessingSkipped
	EventShutdown
)

func (k EventKind) String() string {
	switch k {
	case EventIgnoredPathDetected:
		return "IgnoredPathDetected"
	case EventIgnoredRequestProcessingSkipped:
		return "IgnoredRequestProcessingSkipped"
	case EventShutdown:
		return "Shutdown"
	default:
		return "RequestSent"
	}
}

// Event is published on the Engine's unified event stream.
type Event struct {
	Kind      EventKind
	RequestID string
	Path      string
}

// Subscribe registers a new listener on the Engine's unified event
// stream: every Tracing Engine event, plus a Shutdown event emitted once
// Shutdown completes.
func (e *Engine) Subscribe() <-chan Event {
	src := e.tracer.Subscribe()
	out := make(chan Event, 32)

	go func() {
		for evt := range src {
			out <- translateTracingEvent(evt)
		}
	}()

	e.subMu.Lock()
	e.subscribers = append(e.subscribers, out)
	e.subMu.Unlock()

	return out
}

func translateTracingEvent(evt tracing.Event) Event {
	out := Event{RequestID: evt.RequestID, Path: evt.Path}
	switch evt.Kind {
	case tracing.EventIgnoredPathDetected:
		out.Kind = EventIgnoredPathDetected
	case tracing.EventIgnoredRequestProcessingSkipped:
		out.Kind = EventIgnoredRequestProcessingSkipped
	default:
		out.Kind = EventRequestSent
	}
	return out
}

func (e *Engine) publishShutdown() {
	e.subMu.Lock()
	defer e.subMu.Unlock()
	for _, ch := range e.subscribers {
		select {
		case ch <- Event{Kind: EventShutdown}:
		default:
		}
	}
}
