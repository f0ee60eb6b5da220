package transport

import (
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/scout-apm/agentcore/internal/apmerrors"
	"github.com/scout-apm/agentcore/internal/protocol"
)

// asyncQueueDepth bounds how many fire-and-forget sends may be buffered
// before SendAsync starts blocking the caller.
const asyncQueueDepth = 256

// Connection owns one socket to the core agent and serializes all
// request/response traffic through it, matching spec.md §4.D's half-duplex
// contract: "each send occupies the connection until its response is
// received."
type Connection struct {
	endpoint      Endpoint
	allowShutdown bool
	logger        zerolog.Logger

	// sendMu serializes every frame exchange (sync or async) in FIFO
	// order over the single underlying conn.
	sendMu sync.Mutex
	connMu sync.RWMutex
	conn   net.Conn

	asyncQueue chan protocol.Message
	asyncDone  chan struct{}

	subMu       sync.Mutex
	subscribers []chan Event
}

// NewConnection creates a Connection bound to endpoint. Connect must be
// called before Send/SendAsync will succeed.
func NewConnection(endpoint Endpoint, allowShutdown bool, logger zerolog.Logger) *Connection {
	return &Connection{
		endpoint:      endpoint,
		allowShutdown: allowShutdown,
		logger:        logger.With().Str("component", "agent_connection").Logger(),
	}
}

// Connect opens the socket. Returns apmerrors.ErrConnectionFailed wrapping
// the dial error if the endpoint is unreachable.
func (c *Connection) Connect(ctx context.Context) error {
	dialer := net.Dialer{}
	conn, err := dialer.DialContext(ctx, string(c.endpoint.Network), c.endpoint.Address)
	if err != nil {
		return fmt.Errorf("%w: %w", apmerrors.ErrConnectionFailed, err)
	}

	c.connMu.Lock()
	c.conn = conn
	c.connMu.Unlock()

	c.asyncQueue = make(chan protocol.Message, asyncQueueDepth)
	c.asyncDone = make(chan struct{})
	go c.runAsyncWorker()

	c.publish(Event{Kind: EventConnected})
	return nil
}

// Connected reports whether the socket is currently open.
func (c *Connection) Connected() bool {
	c.connMu.RLock()
	defer c.connMu.RUnlock()
	return c.conn != nil
}

// Send writes msg and awaits its matching framed response, serialized
// against every other in-flight send (spec.md §4.D).
func (c *Connection) Send(ctx context.Context, msg protocol.Message) (protocol.Response, error) {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()

	conn, ok := c.currentConn()
	if !ok {
		return protocol.Response{}, apmerrors.ErrDisconnected
	}
	if deadline, hasDeadline := ctx.Deadline(); hasDeadline {
		_ = conn.SetDeadline(deadline)
	} else {
		_ = conn.SetDeadline(time.Time{})
	}

	if err := protocol.WriteMessage(conn, msg); err != nil {
		c.publish(Event{Kind: EventErrorReceived, Err: err})
		return protocol.Response{}, err
	}
	resp, err := protocol.ReadResponse(conn)
	if err != nil {
		c.publish(Event{Kind: EventErrorReceived, Err: err})
		return protocol.Response{}, err
	}
	return resp, nil
}

// SendAsync enqueues msg for fire-and-forget delivery; delivery order is
// preserved and failures are logged but never surfaced to the caller
// (spec.md §4.D).
func (c *Connection) SendAsync(msg protocol.Message) {
	if c.asyncQueue == nil {
		c.logger.Warn().Str("type", string(msg.Type)).Msg("dropping async send: not connected")
		return
	}
	c.asyncQueue <- msg
}

func (c *Connection) runAsyncWorker() {
	defer close(c.asyncDone)
	for msg := range c.asyncQueue {
		if _, err := c.Send(context.Background(), msg); err != nil {
			c.logger.Warn().Err(err).Str("type", string(msg.Type)).Msg("async send failed")
		}
	}
}

// Disconnect drains any queued async sends, then closes the socket.
func (c *Connection) Disconnect() error {
	if c.asyncQueue != nil {
		close(c.asyncQueue)
		<-c.asyncDone
		// A later SendAsync then logs and drops instead of sending on the
		// closed queue.
		c.asyncQueue = nil
	}

	c.connMu.Lock()
	conn := c.conn
	c.conn = nil
	c.connMu.Unlock()

	var err error
	if conn != nil {
		err = conn.Close()
	}
	c.publish(Event{Kind: EventDisconnected, Err: err})
	return err
}

// StopProcess requests the agent exit. Only meaningful when allowShutdown
// is configured true; otherwise it sends nothing and returns
// apmerrors.ErrNotSupported (spec.md §4.D).
func (c *Connection) StopProcess(ctx context.Context) error {
	if !c.allowShutdown {
		return apmerrors.ErrNotSupported
	}
	_, err := c.Send(ctx, protocol.NewShutdown())
	return err
}

// Subscribe registers a new event-stream listener. The returned channel is
// buffered; slow subscribers only risk missing events, never blocking the
// connection.
func (c *Connection) Subscribe() <-chan Event {
	ch := make(chan Event, 16)
	c.subMu.Lock()
	c.subscribers = append(c.subscribers, ch)
	c.subMu.Unlock()
	return ch
}

func (c *Connection) publish(evt Event) {
	c.subMu.Lock()
	defer c.subMu.Unlock()
	for _, ch := range c.subscribers {
		select {
		case ch <- evt:
		default:
			c.logger.Warn().Str("event", evt.Kind.String()).Msg("subscriber channel full, dropping event")
		}
	}
}

func (c *Connection) currentConn() (net.Conn, bool) {
	c.connMu.RLock()
	defer c.connMu.RUnlock()
	return c.conn, c.conn != nil
}
