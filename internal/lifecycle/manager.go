package lifecycle

import (
	"context"
	"os/exec"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/scout-apm/agentcore/internal/apmerrors"
	"github.com/scout-apm/agentcore/internal/appmeta"
	"github.com/scout-apm/agentcore/internal/config"
	"github.com/scout-apm/agentcore/internal/protocol"
	"github.com/scout-apm/agentcore/internal/retry"
	"github.com/scout-apm/agentcore/internal/transport"
)

// launchProbeRetry bounds how long Setup waits for a freshly spawned
// core agent process to open its listening socket before giving up with
// ConnectionFailed. Attach mode (coreAgentLaunch=false) never retries:
// spec.md §4.E requires an immediate InvalidConfiguration there.
var launchProbeRetry = retry.Config{
	MaxRetries:     10,
	InitialBackoff: 50 * time.Millisecond,
	MaxBackoff:     500 * time.Millisecond,
	Jitter:         0.2,
}

// StatsTicker is the narrow interface Manager needs from the Stats Ticker
// component (spec.md §4.E step 7 / §4.H); accepted as an interface so this
// package never imports internal/statsticker directly.
type StatsTicker interface {
	Start()
	Stop()
}

// Manager drives spec.md §4.E's state machine.
type Manager struct {
	resolver   *config.Resolver
	downloader Downloader
	logger     zerolog.Logger

	mu          sync.RWMutex
	state       State
	conn        *transport.Connection
	cmd         *exec.Cmd
	errorTagger ErrorTagger
	ticker      StatsTicker

	sf singleflight.Group
}

// New builds a Manager. downloader may be nil if coreAgentLaunch is false
// (attach-only mode never needs to fetch a binary).
func New(resolver *config.Resolver, downloader Downloader, logger zerolog.Logger) *Manager {
	return &Manager{
		resolver:   resolver,
		downloader: downloader,
		logger:     logger.With().Str("component", "agent_lifecycle").Logger(),
	}
}

// State returns the current lifecycle state.
func (m *Manager) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

func (m *Manager) setState(s State) {
	m.mu.Lock()
	m.state = s
	m.mu.Unlock()
}

// Connection returns the underlying Agent Connection once Ready, or nil
// beforehand.
func (m *Manager) Connection() *transport.Connection {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.conn
}

// Setup orchestrates the path to Ready (spec.md §4.E). Concurrent Setup
// calls share one initialization (idempotence via singleflight); a caller
// that arrives after Ready observes the already-completed result
// immediately.
func (m *Manager) Setup(ctx context.Context, appMeta appmeta.Metadata, tagger ErrorTagger, ticker StatsTicker) error {
	if m.State() == StateReady {
		return nil
	}
	_, err, _ := m.sf.Do("setup", func() (any, error) {
		// A caller that checked State just before an earlier flight finished
		// lands here after it; it must not initialize a second time.
		if m.State() == StateReady {
			return nil, nil
		}
		return nil, m.setupOnce(ctx, appMeta, tagger, ticker)
	})
	return err
}

// SetupNonBlocking is spec.md §4.E's "non-blocking variant" that fails
// fast with InstanceNotReady instead of waiting for an initialization
// already in progress.
func (m *Manager) SetupNonBlocking(ctx context.Context, appMeta appmeta.Metadata, tagger ErrorTagger, ticker StatsTicker) error {
	if m.State() == StateConnecting {
		return apmerrors.ErrInstanceNotReady
	}
	return m.Setup(ctx, appMeta, tagger, ticker)
}

func (m *Manager) setupOnce(ctx context.Context, appMeta appmeta.Metadata, tagger ErrorTagger, ticker StatsTicker) error {
	m.setState(StateConnecting)

	endpoint, cmd, err := m.acquireEndpoint(ctx)
	if err != nil {
		m.setState(StateFailed)
		return err
	}
	m.mu.Lock()
	m.cmd = cmd
	m.mu.Unlock()

	if cmd != nil {
		// A freshly spawned process needs a moment to open its listening
		// socket; attach mode already probed synchronously in
		// acquireEndpoint and never reaches here with cmd != nil.
		if err := retry.Do(ctx, launchProbeRetry, func() error {
			if !transport.Probe(endpoint) {
				return apmerrors.ErrConnectionFailed
			}
			return nil
		}, func(err error) bool { return true }); err != nil {
			m.setState(StateFailed)
			return apmerrors.ErrConnectionFailed
		}
	}

	allowShutdown := m.resolver.GetBool(config.PropAllowShutdown)
	conn := transport.NewConnection(endpoint, allowShutdown, m.logger)
	if err := conn.Connect(ctx); err != nil {
		m.setState(StateFailed)
		return err
	}

	name := m.resolver.GetString(config.PropName)
	key := m.resolver.GetString(config.PropKey)
	if name == "" || key == "" {
		m.logger.Warn().Msg("name or key is empty; agent registration will likely be rejected upstream")
	}

	apiVersion := m.resolver.GetString(config.PropAPIVersion)
	if _, err := conn.Send(ctx, protocol.NewRegister(name, key, apiVersion)); err != nil {
		m.setState(StateFailed)
		return err
	}
	if _, err := conn.Send(ctx, protocol.NewApplicationEvent("ScoutMetadata", "agentcore", appMeta.ToMap(), time.Now())); err != nil {
		m.setState(StateFailed)
		return err
	}

	m.mu.Lock()
	m.conn = conn
	m.errorTagger = tagger
	m.ticker = ticker
	m.mu.Unlock()

	registerGlobal(m)
	if ticker != nil {
		ticker.Start()
	}

	m.setState(StateReady)
	return nil
}

// acquireEndpoint implements spec.md §4.E step 1: launch-and-derive when
// coreAgentLaunch is true, otherwise probe for an already-listening agent.
func (m *Manager) acquireEndpoint(ctx context.Context) (transport.Endpoint, *exec.Cmd, error) {
	socketPath := m.resolver.GetString(config.PropSocketPath)
	coreAgentVersion := m.resolver.GetString(config.PropCoreAgentVersion)

	var configuredSocketPath string
	if v, ok := m.resolver.GetExplicit(config.PropSocketPath); ok {
		configuredSocketPath, _ = v.(string)
	}
	endpoint, err := transport.ResolveEndpoint(configuredSocketPath, socketPath, coreAgentVersion)
	if err != nil {
		return transport.Endpoint{}, nil, err
	}

	if !m.resolver.GetBool(config.PropCoreAgentLaunch) {
		if !transport.Probe(endpoint) {
			return transport.Endpoint{}, nil, apmerrors.ErrInvalidConfiguration
		}
		return endpoint, nil, nil
	}

	if m.downloader == nil {
		return transport.Endpoint{}, nil, apmerrors.ErrInvalidConfiguration
	}

	opts := DownloadOptions{
		CacheDir:         m.resolver.GetString(config.PropCoreAgentDir),
		DownloadURL:      m.resolver.GetString(config.PropDownloadURL),
		DisallowDownload: !m.resolver.GetBool(config.PropCoreAgentDownload),
	}
	binaryPath, err := m.downloader.Fetch(ctx, coreAgentVersion, opts)
	if err != nil {
		return transport.Endpoint{}, nil, err
	}

	cmd, err := spawnProcess(
		binaryPath,
		socketPath,
		m.resolver.GetLogLevel(config.PropCoreAgentLogLevel),
		m.resolver.GetInt(config.PropCoreAgentPermissions),
		m.logger,
	)
	if err != nil {
		return transport.Endpoint{}, nil, err
	}
	return endpoint, cmd, nil
}

// Shutdown reverses Setup: stops the ticker, removes the error handler,
// disconnects, optionally stops the agent process, and clears the global
// active instance (spec.md §4.E).
func (m *Manager) Shutdown(ctx context.Context) error {
	m.setState(StateShuttingDown)

	m.mu.Lock()
	ticker := m.ticker
	conn := m.conn
	cmd := m.cmd
	m.ticker = nil
	m.errorTagger = nil
	m.conn = nil
	m.cmd = nil
	m.mu.Unlock()

	if ticker != nil {
		ticker.Stop()
	}
	clearGlobalIfSelf(m)

	var err error
	if conn != nil {
		if m.resolver.GetBool(config.PropAllowShutdown) {
			_ = conn.StopProcess(ctx)
		}
		err = conn.Disconnect()
	}
	if cmd != nil {
		stopProcess(cmd, m.logger)
	}

	m.setState(StateClosed)
	return err
}
