package transport

import (
	"context"
	"encoding/json"
	"net"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scout-apm/agentcore/internal/protocol"
)

// startFakeAgent listens on a Unix socket and replies Success to every
// framed request it receives, recording the order types arrived in.
func startFakeAgent(t *testing.T) (Endpoint, *[]protocol.Type, func()) {
	t.Helper()
	sockPath := filepath.Join(t.TempDir(), "core-agent.sock")
	ln, err := net.Listen("unix", sockPath)
	require.NoError(t, err)

	received := make([]protocol.Type, 0)
	done := make(chan struct{})

	go func() {
		defer close(done)
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		for {
			payload, err := protocol.ReadFrame(conn)
			if err != nil {
				return
			}
			var msg protocol.Message
			if err := json.Unmarshal(payload, &msg); err != nil {
				return
			}
			received = append(received, msg.Type)
			_ = protocol.WriteFrame(conn, []byte(`{"type":"`+string(msg.Type)+`","result":"Success"}`))
		}
	}()

	cleanup := func() {
		ln.Close()
		<-done
	}
	return Endpoint{Network: NetworkUnix, Address: sockPath}, &received, cleanup
}

func TestConnection_ConnectSendDisconnect(t *testing.T) {
	ep, _, cleanup := startFakeAgent(t)
	defer cleanup()

	conn := NewConnection(ep, true, zerolog.Nop())
	require.NoError(t, conn.Connect(context.Background()))
	assert.True(t, conn.Connected())

	resp, err := conn.Send(context.Background(), protocol.NewRegister("demo", "key", "1.0"))
	require.NoError(t, err)
	assert.True(t, resp.IsSuccess())

	require.NoError(t, conn.Disconnect())
	assert.False(t, conn.Connected())
}

func TestConnection_SendWithoutConnectReturnsDisconnected(t *testing.T) {
	conn := NewConnection(Endpoint{Network: NetworkUnix, Address: "/nonexistent"}, false, zerolog.Nop())
	_, err := conn.Send(context.Background(), protocol.NewRegister("demo", "key", "1.0"))
	assert.Error(t, err)
}

func TestConnection_ConnectFailsOnUnreachableEndpoint(t *testing.T) {
	conn := NewConnection(Endpoint{Network: NetworkUnix, Address: filepath.Join(t.TempDir(), "missing.sock")}, false, zerolog.Nop())
	err := conn.Connect(context.Background())
	assert.Error(t, err)
}

func TestConnection_SendAsyncPreservesOrder(t *testing.T) {
	ep, received, cleanup := startFakeAgent(t)
	defer cleanup()

	conn := NewConnection(ep, true, zerolog.Nop())
	require.NoError(t, conn.Connect(context.Background()))

	conn.SendAsync(protocol.NewStartSpan("req-1", "span-1", nil, "a", time.Now()))
	conn.SendAsync(protocol.NewStartSpan("req-1", "span-2", nil, "b", time.Now()))
	conn.SendAsync(protocol.NewStopSpan("req-1", "span-1", time.Now()))

	require.NoError(t, conn.Disconnect())

	require.Len(t, *received, 3)
	assert.Equal(t, protocol.TypeStartSpan, (*received)[0])
	assert.Equal(t, protocol.TypeStartSpan, (*received)[1])
	assert.Equal(t, protocol.TypeStopSpan, (*received)[2])
}

func TestConnection_StopProcessRejectedWithoutAllowShutdown(t *testing.T) {
	ep, _, cleanup := startFakeAgent(t)
	defer cleanup()

	conn := NewConnection(ep, false, zerolog.Nop())
	require.NoError(t, conn.Connect(context.Background()))
	defer conn.Disconnect()

	err := conn.StopProcess(context.Background())
	assert.Error(t, err)
}

func TestConnection_EventsPublishedOnConnectAndDisconnect(t *testing.T) {
	ep, _, cleanup := startFakeAgent(t)
	defer cleanup()

	conn := NewConnection(ep, false, zerolog.Nop())
	events := conn.Subscribe()

	require.NoError(t, conn.Connect(context.Background()))
	select {
	case evt := <-events:
		assert.Equal(t, EventConnected, evt.Kind)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for Connected event")
	}

	require.NoError(t, conn.Disconnect())
	select {
	case evt := <-events:
		assert.Equal(t, EventDisconnected, evt.Kind)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for Disconnected event")
	}
}
