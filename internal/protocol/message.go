// Package protocol implements the Message Codec (spec.md §4.C): a
// 4-byte-big-endian-length-prefixed UTF-8 JSON framing with a "type"
// discriminator field, generalized from the teacher's
// internal/discovery registration protocol (length-prefixed framed
// messages over a socket) to this spec's request/response message shapes.
package protocol

import "encoding/json"

// Type is the wire discriminator carried by every request and response.
type Type string

const (
	TypeRegister         Type = "Register"
	TypeApplicationEvent Type = "ApplicationEvent"
	TypeStartRequest     Type = "StartRequest"
	TypeFinishRequest    Type = "FinishRequest"
	TypeTagRequest       Type = "TagRequest"
	TypeStartSpan        Type = "StartSpan"
	TypeStopSpan         Type = "StopSpan"
	TypeTagSpan          Type = "TagSpan"
	// TypeShutdown requests the core agent process exit. Not part of
	// spec.md §4.C's core-emitted table but required by §4.D's
	// stopProcess operation; gated by allowShutdown at the call site.
	TypeShutdown Type = "Shutdown"
)

// Result is the outcome field of a Response.
type Result string

const (
	ResultSuccess Result = "Success"
	ResultFailure Result = "Failure"
)

// Message is a request the core emits to the agent. Field is a pointer
// so that "field omitted" (parent_id on a root span) round-trips as
// JSON-absent rather than an empty string.
type Message struct {
	Type Type `json:"type"`

	App        string `json:"app,omitempty"`
	Key        string `json:"key,omitempty"`
	APIVersion string `json:"api_version,omitempty"`

	EventValue any    `json:"event_value,omitempty"`
	EventType  string `json:"event_type,omitempty"`
	Source     string `json:"source,omitempty"`

	RequestID string  `json:"request_id,omitempty"`
	SpanID    string  `json:"span_id,omitempty"`
	ParentID  *string `json:"parent_id,omitempty"`
	Operation string  `json:"operation,omitempty"`

	Tag   string `json:"tag,omitempty"`
	Value any    `json:"value,omitempty"`

	Timestamp string `json:"timestamp,omitempty"`
}

// Response is what the agent replies with. Unknown discriminators still
// decode into this shape; callers treat them as success iff Result is
// ResultSuccess (spec.md §4.C: "the caller treats them as success iff
// result == Success").
type Response struct {
	Type    Type   `json:"type"`
	Result  Result `json:"result"`
	Message string `json:"message,omitempty"`
}

// IsSuccess reports whether the response indicates success, including for
// unrecognized discriminators.
func (r Response) IsSuccess() bool {
	return r.Result == ResultSuccess
}

// Encode serializes msg to its JSON payload (without the length prefix;
// WriteMessage adds that).
func Encode(msg Message) ([]byte, error) {
	return json.Marshal(msg)
}

// DecodeResponse parses a JSON payload into a Response.
func DecodeResponse(payload []byte) (Response, error) {
	var resp Response
	if err := json.Unmarshal(payload, &resp); err != nil {
		return Response{}, err
	}
	return resp, nil
}
