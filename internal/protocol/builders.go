package protocol

import "time"

// NewRegister builds a Register request (spec.md §4.C).
func NewRegister(app, key, apiVersion string) Message {
	return Message{Type: TypeRegister, App: app, Key: key, APIVersion: apiVersion}
}

// NewApplicationEvent builds an ApplicationEvent request.
func NewApplicationEvent(eventType, source string, value any, at time.Time) Message {
	return Message{
		Type:       TypeApplicationEvent,
		EventType:  eventType,
		EventValue: value,
		Source:     source,
		Timestamp:  FormatTimestamp(at),
	}
}

// NewStartRequest builds a StartRequest request.
func NewStartRequest(requestID string, at time.Time) Message {
	return Message{Type: TypeStartRequest, RequestID: requestID, Timestamp: FormatTimestamp(at)}
}

// NewFinishRequest builds a FinishRequest request.
func NewFinishRequest(requestID string, at time.Time) Message {
	return Message{Type: TypeFinishRequest, RequestID: requestID, Timestamp: FormatTimestamp(at)}
}

// NewTagRequest builds a TagRequest request.
func NewTagRequest(requestID, tag string, value any, at time.Time) Message {
	return Message{
		Type:      TypeTagRequest,
		RequestID: requestID,
		Tag:       tag,
		Value:     value,
		Timestamp: FormatTimestamp(at),
	}
}

// NewStartSpan builds a StartSpan request. parentID is nil for a root span.
func NewStartSpan(requestID, spanID string, parentID *string, operation string, at time.Time) Message {
	return Message{
		Type:      TypeStartSpan,
		RequestID: requestID,
		SpanID:    spanID,
		ParentID:  parentID,
		Operation: operation,
		Timestamp: FormatTimestamp(at),
	}
}

// NewStopSpan builds a StopSpan request.
func NewStopSpan(requestID, spanID string, at time.Time) Message {
	return Message{Type: TypeStopSpan, RequestID: requestID, SpanID: spanID, Timestamp: FormatTimestamp(at)}
}

// NewShutdown builds a Shutdown request.
func NewShutdown() Message {
	return Message{Type: TypeShutdown}
}

// NewTagSpan builds a TagSpan request.
func NewTagSpan(requestID, spanID, tag string, value any, at time.Time) Message {
	return Message{
		Type:      TypeTagSpan,
		RequestID: requestID,
		SpanID:    spanID,
		Tag:       tag,
		Value:     value,
		Timestamp: FormatTimestamp(at),
	}
}
