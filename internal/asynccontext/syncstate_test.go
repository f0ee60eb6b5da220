package asynccontext

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSyncState_RequestRoundTrip(t *testing.T) {
	var s SyncState

	_, ok := s.Request()
	assert.False(t, ok)

	s.SetRequest("req-sync")
	v, ok := s.Request()
	assert.True(t, ok)
	assert.Equal(t, "req-sync", v)

	s.SetRequest(nil)
	_, ok = s.Request()
	assert.False(t, ok)
}

func TestSyncState_SpanRoundTrip(t *testing.T) {
	var s SyncState

	s.SetSpan("span-sync")
	v, ok := s.Span()
	assert.True(t, ok)
	assert.Equal(t, "span-sync", v)
}
