// Package statsticker implements the Stats Ticker (spec.md §4.H): a
// periodic timer that samples process RSS and CPU utilization and emits
// them as ApplicationEvent messages over the Agent Connection.
//
// Grounded on the teacher's internal/agent/collector.SystemCollector,
// generalized from its multi-metric (CPU/memory/disk/network), storage
// backed sampling loop to this spec's narrower two-metric,
// emit-over-the-wire loop. Each tick's sample runs behind
// internal/errors.Recover so a single bad sample cannot take down the
// background goroutine.
package statsticker

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v4/process"

	agentcoreerrors "github.com/scout-apm/agentcore/internal/errors"
	"github.com/scout-apm/agentcore/internal/protocol"
)

// DefaultInterval is spec.md §4.H's default tick period.
const DefaultInterval = 60 * time.Second

const (
	eventMemoryUsageMB         = "MemoryUsageMB"
	eventCPUUtilizationPercent = "CPUUtilizationPercent"
)

// Sender is the narrow slice of the Agent Connection the ticker needs.
type Sender interface {
	SendAsync(msg protocol.Message)
}

// Prober reports whether the Agent Connection is currently up, so the
// ticker can self-disable per spec.md §4.H ("if the connection is absent
// at tick time the ticker self-disables").
type Prober interface {
	Connected() bool
}

// Ticker samples process RSS (MB) and CPU percentage on a fixed
// interval and emits ApplicationEvent messages for each.
type Ticker struct {
	prober   Prober
	interval time.Duration
	logger   zerolog.Logger
	proc     *process.Process

	senderMu sync.RWMutex
	sender   Sender

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// New builds a Ticker for the current process. interval <= 0 selects
// DefaultInterval. sender may be nil if the Agent Connection is not yet
// open; call SetSender once it is (lifecycle.Manager.Setup completes
// after the ticker is constructed, since agentcore wires both from the
// same Options at Engine-construction time).
func New(sender Sender, prober Prober, interval time.Duration, logger zerolog.Logger) *Ticker {
	if interval <= 0 {
		interval = DefaultInterval
	}
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		logger.Warn().Err(err).Msg("stats ticker: failed to open self process handle")
	}
	return &Ticker{
		sender:   sender,
		prober:   prober,
		interval: interval,
		logger:   logger.With().Str("component", "stats_ticker").Logger(),
		proc:     proc,
	}
}

// SetSender rewires the ticker's Agent Connection.
func (t *Ticker) SetSender(sender Sender) {
	t.senderMu.Lock()
	t.sender = sender
	t.senderMu.Unlock()
}

func (t *Ticker) currentSender() Sender {
	t.senderMu.RLock()
	defer t.senderMu.RUnlock()
	return t.sender
}

// Start begins the periodic sampling loop in a background goroutine.
// Calling Start twice without an intervening Stop is a no-op.
func (t *Ticker) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	t.cancel = cancel
	done := make(chan struct{})
	t.done = done

	go t.run(ctx, done)
}

// Stop halts the sampling loop and waits for it to exit.
func (t *Ticker) Stop() {
	t.mu.Lock()
	cancel := t.cancel
	done := t.done
	t.cancel = nil
	t.done = nil
	t.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

func (t *Ticker) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if t.prober != nil && !t.prober.Connected() {
				t.logger.Debug().Msg("agent connection absent, skipping sample")
				continue
			}
			t.sampleGuarded()
		}
	}
}

// sampleGuarded isolates a panic inside a single tick's sample from
// killing the ticker's whole background goroutine (e.g. an unexpected
// gopsutil failure on an unsupported platform).
func (t *Ticker) sampleGuarded() {
	defer agentcoreerrors.Recover(t.logger, "stats_ticker.sample")
	t.sample()
}

func (t *Ticker) sample() {
	if t.proc == nil {
		return
	}
	sender := t.currentSender()
	if sender == nil {
		t.logger.Debug().Msg("no agent connection wired yet, skipping sample")
		return
	}
	now := time.Now()

	if rssMB, err := t.residentSetMB(); err != nil {
		t.logger.Warn().Err(err).Msg("failed to sample RSS")
	} else {
		sender.SendAsync(protocol.NewApplicationEvent(eventMemoryUsageMB, "statsticker", rssMB, now))
	}

	if cpuPct, err := t.proc.Percent(0); err != nil {
		t.logger.Warn().Err(err).Msg("failed to sample CPU percent")
	} else {
		sender.SendAsync(protocol.NewApplicationEvent(eventCPUUtilizationPercent, "statsticker", cpuPct, now))
	}
}

func (t *Ticker) residentSetMB() (float64, error) {
	info, err := t.proc.MemoryInfo()
	if err != nil {
		return 0, err
	}
	return float64(info.RSS) / (1024 * 1024), nil
}
