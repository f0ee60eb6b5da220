package lifecycle

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

	"github.com/scout-apm/agentcore/internal/apmerrors"
	"github.com/scout-apm/agentcore/internal/appmeta"
	"github.com/scout-apm/agentcore/internal/config"
	"github.com/scout-apm/agentcore/internal/protocol"
)

type fakeTicker struct {
	started, stopped int
}

func (f *fakeTicker) Start() { f.started++ }
func (f *fakeTicker) Stop()  { f.stopped++ }

type fakeTagger struct {
	tagged int
}

func (f *fakeTagger) TagCurrentRequestError(ctx context.Context) { f.tagged++ }

type nilDownloader struct{}

func (nilDownloader) Fetch(ctx context.Context, version string, opts DownloadOptions) (string, error) {
	return "", nil
}

// startFakeAgent listens on a Unix socket, answering every request with
// Success, and returns the listen address plus a shutdown func.
func startFakeAgent(t *testing.T) (string, func()) {
	t.Helper()
	sockPath := filepath.Join(t.TempDir(), "core-agent.sock")
	ln, err := net.Listen("unix", sockPath)
	require.NoError(t, err)

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
			_ = json.Unmarshal(payload, &msg)
			_ = protocol.WriteFrame(conn, []byte(`{"type":"`+string(msg.Type)+`","result":"Success"}`))
		}
	}()

	return sockPath, func() { ln.Close(); <-done }
}

func newAttachResolver(t *testing.T, sockPath string) *config.Resolver {
	t.Helper()
	return config.NewResolver(map[config.Property]any{
		config.PropName:           "demo",
		config.PropKey:            "secret",
		config.PropSocketPath:     sockPath,
		config.PropCoreAgentLaunch: false,
		config.PropAllowShutdown:  true,
	}, zerolog.Nop())
}

func TestManager_SetupReachesReadyOnAttach(t *testing.T) {
	sockPath, cleanup := startFakeAgent(t)
	defer cleanup()

	resolver := newAttachResolver(t, sockPath)
	m := New(resolver, nilDownloader{}, zerolog.Nop())

	ticker := &fakeTicker{}
	tagger := &fakeTagger{}

	err := m.Setup(context.Background(), appmeta.New(time.Now()), tagger, ticker)
	require.NoError(t, err)
	assert.Equal(t, StateReady, m.State())
	assert.Equal(t, 1, ticker.started)
	assert.NotNil(t, m.Connection())

	require.NoError(t, m.Shutdown(context.Background()))
	assert.Equal(t, StateClosed, m.State())
	assert.Equal(t, 1, ticker.stopped)
}

func TestManager_SetupIsIdempotentUnderConcurrency(t *testing.T) {
	sockPath, cleanup := startFakeAgent(t)
	defer cleanup()

	resolver := newAttachResolver(t, sockPath)
	m := New(resolver, nilDownloader{}, zerolog.Nop())

	const callers = 8
	errs := make(chan error, callers)
	for i := 0; i < callers; i++ {
		go func() {
			errs <- m.Setup(context.Background(), appmeta.New(time.Now()), nil, &fakeTicker{})
		}()
	}
	for i := 0; i < callers; i++ {
		require.NoError(t, <-errs)
	}
	assert.Equal(t, StateReady, m.State())
}

func TestManager_SetupFailsWhenAttachTargetAbsent(t *testing.T) {
	resolver := config.NewResolver(map[config.Property]any{
		config.PropSocketPath:      filepath.Join(t.TempDir(), "missing.sock"),
		config.PropCoreAgentLaunch: false,
	}, zerolog.Nop())

	m := New(resolver, nilDownloader{}, zerolog.Nop())
	err := m.Setup(context.Background(), appmeta.New(time.Now()), nil, &fakeTicker{})
	assert.Error(t, err)
	assert.Equal(t, StateFailed, m.State())
}

func TestManager_SetupNonBlockingFailsFastWhileConnecting(t *testing.T) {
	resolver := config.NewResolver(map[config.Property]any{
		config.PropSocketPath:      filepath.Join(t.TempDir(), "missing.sock"),
		config.PropCoreAgentLaunch: false,
	}, zerolog.Nop())

	m := New(resolver, nilDownloader{}, zerolog.Nop())
	m.setState(StateConnecting)

	err := m.SetupNonBlocking(context.Background(), appmeta.New(time.Now()), nil, &fakeTicker{})
	assert.ErrorIs(t, err, apmerrors.ErrInstanceNotReady)
}

func TestManager_RegistersAsGlobalActiveInstance(t *testing.T) {
	sockPath, cleanup := startFakeAgent(t)
	defer cleanup()

	resolver := newAttachResolver(t, sockPath)
	m := New(resolver, nilDownloader{}, zerolog.Nop())
	require.NoError(t, m.Setup(context.Background(), appmeta.New(time.Now()), nil, &fakeTicker{}))

	got, ok := Active()
	require.True(t, ok)
	assert.Same(t, m, got)

	require.NoError(t, m.Shutdown(context.Background()))
	_, ok = Active()
	assert.False(t, ok)
}
