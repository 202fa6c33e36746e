package transport

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/shadowlink/shadowlink-go/pkg/log"
	"github.com/shadowlink/shadowlink-go/pkg/status"
	"github.com/shadowlink/shadowlink-go/pkg/timer"
)

// Capture is a Network decorator that records every operation as a
// capture event. Each connect attempt starts a new connection id.
type Capture struct {
	next     Network
	logger   log.Logger
	clientID string
	clock    timer.Clock

	mu     sync.Mutex
	connID string
	remote string
}

// NewCapture wraps next. A nil logger discards events.
func NewCapture(next Network, logger log.Logger, clientID string) *Capture {
	if logger == nil {
		logger = log.NoopLogger{}
	}
	return &Capture{
		next:     next,
		logger:   logger,
		clientID: clientID,
		clock:    timer.Real(),
	}
}

// ConnectionID returns the id of the latest connect attempt.
func (c *Capture) ConnectionID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connID
}

func (c *Capture) event(dir log.Direction, cat log.Category) log.Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	return log.Event{
		Timestamp:    c.clock.Now(),
		ConnectionID: c.connID,
		Direction:    dir,
		Layer:        log.LayerTransport,
		Category:     cat,
		RemoteAddr:   c.remote,
		ClientID:     c.clientID,
	}
}

func (c *Capture) logState(from, to State, reason string) {
	e := c.event(log.DirectionOut, log.CategoryState)
	e.StateChange = &log.StateChangeEvent{
		OldState: from.String(),
		NewState: to.String(),
		Reason:   reason,
	}
	c.logger.Log(e)
}

func (c *Capture) logError(dir log.Direction, op string, err error) {
	e := c.event(dir, log.CategoryError)
	e.Error = &log.ErrorEventData{
		Layer:   log.LayerTransport,
		Message: err.Error(),
		Context: op,
	}
	if code, ok := status.Of(err); ok {
		e.Error.Code = code.String()
	}
	c.logger.Log(e)
}

func (c *Capture) logFrame(dir log.Direction, data []byte, requested int) {
	e := c.event(dir, log.CategoryMessage)
	clipped, cut := log.Clip(data)
	e.Frame = &log.FrameEvent{
		Size:      len(data),
		Data:      append([]byte(nil), clipped...),
		Truncated: cut,
		Requested: requested,
	}
	c.logger.Log(e)
}

// Connect records the attempt under a fresh connection id. A call made
// while a session is held keeps that session's id and only records the
// rejection.
func (c *Capture) Connect(ctx context.Context, params ConnectParams) error {
	from := c.stateOf()
	if from == StateConnected {
		err := c.next.Connect(ctx, params)
		if err != nil {
			c.logError(log.DirectionOut, "connect", err)
		}
		return err
	}

	c.mu.Lock()
	c.connID = uuid.New().String()
	c.remote = params.Addr()
	c.mu.Unlock()

	c.logState(from, StateConnecting, "")
	if err := c.next.Connect(ctx, params); err != nil {
		c.logError(log.DirectionOut, "connect", err)
		c.logState(StateConnecting, from, "connect failed")
		return err
	}
	c.logState(StateConnecting, StateConnected, "")
	return nil
}

// Write records the bytes actually written.
func (c *Capture) Write(buf []byte, timeout time.Duration) (int, error) {
	n, err := c.next.Write(buf, timeout)
	if n > 0 || err == nil {
		c.logFrame(log.DirectionOut, buf[:n], len(buf))
	}
	if err != nil {
		c.logError(log.DirectionOut, "write", err)
	}
	return n, err
}

// Read records the bytes actually read.
func (c *Capture) Read(buf []byte, timeout time.Duration) (int, error) {
	n, err := c.next.Read(buf, timeout)
	if n > 0 || err == nil {
		c.logFrame(log.DirectionIn, buf[:n], len(buf))
	}
	if err != nil {
		c.logError(log.DirectionIn, "read", err)
	}
	return n, err
}

// Disconnect records the teardown of a held session.
func (c *Capture) Disconnect() {
	connected := c.next.IsConnected()
	c.next.Disconnect()
	if connected {
		c.logState(StateConnected, StateDisconnected, "")
	}
}

// IsConnected delegates to the wrapped Network.
func (c *Capture) IsConnected() bool {
	return c.next.IsConnected()
}

// Destroy records the release of the TLS context.
func (c *Capture) Destroy() error {
	from := c.stateOf()
	if err := c.next.Destroy(); err != nil {
		c.logError(log.DirectionOut, "destroy", err)
		return err
	}
	c.logState(from, StateDestroyed, "")
	return nil
}

// stateOf reports the wrapped network's state when it exposes one.
func (c *Capture) stateOf() State {
	if s, ok := c.next.(interface{ State() State }); ok {
		return s.State()
	}
	if c.next.IsConnected() {
		return StateConnected
	}
	return StateInitialized
}

var _ Network = (*Capture)(nil)
