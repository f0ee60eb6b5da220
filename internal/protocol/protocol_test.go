package protocol

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrame_RoundTripsThroughWriteAndRead(t *testing.T) {
	var buf bytes.Buffer
	at := time.Date(2026, 1, 2, 3, 4, 5, 123000000, time.UTC)
	msg := NewStartRequest("req-abc", at)

	require.NoError(t, WriteMessage(&buf, msg))

	payload, err := ReadFrame(&buf)
	require.NoError(t, err)

	var decoded Message
	require.NoError(t, json.Unmarshal(payload, &decoded))
	assert.Equal(t, TypeStartRequest, decoded.Type)
	assert.Equal(t, "req-abc", decoded.RequestID)
	assert.Equal(t, "2026-01-02T03:04:05.123Z", decoded.Timestamp)
}

func TestReadResponse_DecodesSuccessAndFailure(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteFrame(&buf, []byte(`{"type":"StartRequest","result":"Success"}`)))

	resp, err := ReadResponse(&buf)
	require.NoError(t, err)
	assert.True(t, resp.IsSuccess())

	buf.Reset()
	require.NoError(t, WriteFrame(&buf, []byte(`{"type":"StartRequest","result":"Failure","message":"boom"}`)))
	resp, err = ReadResponse(&buf)
	require.NoError(t, err)
	assert.False(t, resp.IsSuccess())
	assert.Equal(t, "boom", resp.Message)
}

func TestReadResponse_UnknownDiscriminatorTreatedBySuccessField(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteFrame(&buf, []byte(`{"type":"SomethingNew","result":"Success"}`)))

	resp, err := ReadResponse(&buf)
	require.NoError(t, err)
	assert.True(t, resp.IsSuccess())
	assert.Equal(t, Type("SomethingNew"), resp.Type)
}

func TestReadFrame_RejectsOversizedLength(t *testing.T) {
	var buf bytes.Buffer
	buf.Write([]byte{0xFF, 0xFF, 0xFF, 0xFF})

	_, err := ReadFrame(&buf)
	assert.Error(t, err)
}

func TestNewStartSpan_OmitsParentIDWhenNil(t *testing.T) {
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	msg := NewStartSpan("req-1", "span-1", nil, "db.query", at)

	payload, err := Encode(msg)
	require.NoError(t, err)
	assert.NotContains(t, string(payload), "parent_id")
}

func TestNewStartSpan_IncludesParentIDWhenSet(t *testing.T) {
	parent := "span-0"
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	msg := NewStartSpan("req-1", "span-1", &parent, "db.query", at)

	payload, err := Encode(msg)
	require.NoError(t, err)
	assert.Contains(t, string(payload), `"parent_id":"span-0"`)
}

func TestFormatTimestamp_IsISO8601WithMilliseconds(t *testing.T) {
	at := time.Date(2026, 6, 15, 12, 30, 0, 5000000, time.UTC)
	assert.Equal(t, "2026-06-15T12:30:00.005Z", FormatTimestamp(at))
}
