package transport

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"io"
	"log/slog"
	"net"
	"os"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/shadowlink/shadowlink-go/pkg/status"
	"github.com/shadowlink/shadowlink-go/pkg/timer"
)

// TLSNetwork is a Network backed by crypto/tls over TCP.
//
// Every blocking step is bounded by a timer.Timer: socket deadlines are set
// to exactly the remaining budget, so a deadline error means the budget is
// spent. A Write that times out leaves the TLS stream unusable; the caller
// must Disconnect.
type TLSNetwork struct {
	base     *tls.Config
	clock    timer.Clock
	logger   *slog.Logger
	resolver *net.Resolver
	dial     DialFunc

	state atomic.Int32

	mu      sync.Mutex // guards the session fields
	readMu  sync.Mutex
	writeMu sync.Mutex

	conn    net.Conn
	tlsConn *tls.Conn
	host    string
	peer    *x509.Certificate
}

// NewTLSNetwork creates the TLS context. It fails with status.TLSInit when
// cfg describes an unusable context.
func NewTLSNetwork(cfg Config) (*TLSNetwork, error) {
	base, err := newBaseTLSConfig(cfg)
	if err != nil {
		return nil, status.Wrap(status.TLSInit, err)
	}

	n := &TLSNetwork{
		base:     base,
		clock:    cfg.Clock,
		logger:   cfg.Logger,
		resolver: cfg.Resolver,
		dial:     cfg.Dial,
	}
	if n.clock == nil {
		n.clock = timer.Real()
	}
	if n.logger == nil {
		n.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if n.resolver == nil {
		n.resolver = net.DefaultResolver
	}
	if n.dial == nil {
		d := &net.Dialer{}
		n.dial = d.DialContext
	}
	n.state.Store(int32(StateInitialized))
	return n, nil
}

// State returns the current lifecycle state.
func (n *TLSNetwork) State() State {
	return State(n.state.Load())
}

func (n *TLSNetwork) setState(s State) State {
	old := State(n.state.Swap(int32(s)))
	if old != s {
		n.logger.Debug("transport state", "from", old, "to", s, "host", n.host)
	}
	return old
}

// IsConnected reports whether a session is held.
func (n *TLSNetwork) IsConnected() bool {
	return n.State() == StateConnected
}

// PeerCertificate returns the leaf certificate of the current session, or
// nil when not connected.
func (n *TLSNetwork) PeerCertificate() *x509.Certificate {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.peer
}

// ConnectionState returns the TLS state of the current session.
func (n *TLSNetwork) ConnectionState() (tls.ConnectionState, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.tlsConn == nil {
		return tls.ConnectionState{}, false
	}
	return n.tlsConn.ConnectionState(), true
}

// RemoteAddr returns the peer address of the current session, or nil.
func (n *TLSNetwork) RemoteAddr() net.Addr {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.conn == nil {
		return nil
	}
	return n.conn.RemoteAddr()
}

// Connect resolves params.Host, opens a TCP connection and completes the
// TLS handshake, all within params.Timeout. On failure no session is held.
func (n *TLSNetwork) Connect(ctx context.Context, params ConnectParams) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	switch n.State() {
	case StateDestroyed:
		return status.Errorf(status.TLSInit, "network destroyed")
	case StateConnecting, StateConnected:
		return ErrAlreadyConnected
	case StateUninitialized:
		return status.Errorf(status.TLSInit, "network not initialized")
	}

	n.host = params.Host
	prev := n.setState(StateConnecting)
	if err := n.connect(ctx, params); err != nil {
		n.teardown()
		n.setState(prev)
		n.logger.Debug("connect failed", "host", params.Host, "port", params.Port, "error", err)
		return err
	}
	n.setState(StateConnected)
	return nil
}

func (n *TLSNetwork) connect(ctx context.Context, params ConnectParams) error {
	t := timer.New(n.clock)
	t.Countdown(params.Timeout)

	conf, err := sessionTLSConfig(n.base, params, n.clock)
	if err != nil {
		return err
	}

	addrs, err := n.resolve(ctx, t, params.Host)
	if err != nil {
		return err
	}

	conn, err := n.dialAny(ctx, t, addrs, params.Port)
	if err != nil {
		return err
	}
	n.conn = conn

	tc := tls.Client(conn, conf)
	n.tlsConn = tc
	if err := n.handshake(ctx, t, tc); err != nil {
		return err
	}

	peers := tc.ConnectionState().PeerCertificates
	if len(peers) == 0 {
		return status.Errorf(status.TLSConnect, "server presented no certificate")
	}
	n.peer = peers[0]
	return nil
}

func (n *TLSNetwork) resolve(ctx context.Context, t *timer.Timer, host string) ([]string, error) {
	if host == "" {
		return nil, status.Errorf(status.TCPSetup, "empty host")
	}
	if ip := net.ParseIP(host); ip != nil {
		return []string{ip.String()}, nil
	}
	if t.Expired() {
		return nil, status.Errorf(status.TLSConnectTimeout, "budget spent before resolving %s", host)
	}

	rctx, cancel := context.WithTimeout(ctx, t.Left())
	defer cancel()
	addrs, err := n.resolver.LookupHost(rctx, host)
	if err != nil {
		return nil, status.Wrap(status.TCPSetup, err)
	}
	if len(addrs) == 0 {
		return nil, status.Errorf(status.TCPSetup, "no addresses for %s", host)
	}
	return addrs, nil
}

// dialAny tries each address in order until one connects.
func (n *TLSNetwork) dialAny(ctx context.Context, t *timer.Timer, addrs []string, port uint16) (net.Conn, error) {
	var lastErr error
	for _, addr := range addrs {
		if t.Expired() {
			return nil, status.Errorf(status.TLSConnectTimeout, "budget spent while connecting")
		}
		dctx, cancel := context.WithTimeout(ctx, t.Left())
		conn, err := n.dial(dctx, "tcp", net.JoinHostPort(addr, strconv.Itoa(int(port))))
		cancel()
		if err == nil {
			return conn, nil
		}
		n.logger.Debug("dial failed", "addr", addr, "port", port, "error", err)
		lastErr = err
	}
	if t.Expired() {
		return nil, status.Wrap(status.TLSConnectTimeout, lastErr)
	}
	return nil, status.Wrap(status.TCPConnect, lastErr)
}

// handshake runs the TLS handshake with the socket deadline set to the
// remaining budget; the net poller does the waiting for readiness, so a
// deadline error means the budget is spent. crypto/tls keeps the first
// handshake error, so there is no retry.
func (n *TLSNetwork) handshake(ctx context.Context, t *timer.Timer, tc *tls.Conn) error {
	left := t.Left()
	if left <= 0 {
		return status.Errorf(status.TLSConnectTimeout, "handshake budget spent")
	}
	if err := tc.SetDeadline(time.Now().Add(left)); err != nil {
		return status.Wrap(status.TLSConnect, err)
	}

	if err := tc.HandshakeContext(ctx); err != nil {
		if isTimeout(err) || errors.Is(err, context.DeadlineExceeded) {
			return status.Wrap(status.TLSConnectTimeout, err)
		}
		return status.Wrap(status.TLSConnect, err)
	}
	if err := tc.SetDeadline(time.Time{}); err != nil {
		return status.Wrap(status.TLSConnect, err)
	}
	return nil
}

// Write sends all of buf within timeout.
func (n *TLSNetwork) Write(buf []byte, timeout time.Duration) (int, error) {
	n.writeMu.Lock()
	defer n.writeMu.Unlock()

	tc := n.session()
	if tc == nil {
		return 0, ErrNotConnected
	}

	t := timer.New(n.clock)
	t.Countdown(timeout)

	written := 0
	for written < len(buf) {
		left := t.Left()
		if left <= 0 {
			return written, status.Errorf(status.TLSWriteTimeout, "wrote %d of %d bytes", written, len(buf))
		}
		if err := tc.SetWriteDeadline(time.Now().Add(left)); err != nil {
			return written, status.Wrap(status.TLSWrite, err)
		}

		m, err := tc.Write(buf[written:])
		written += m
		if err != nil {
			if isTimeout(err) {
				return written, status.Wrap(status.TLSWriteTimeout, err)
			}
			return written, status.Wrap(status.TLSWrite, err)
		}
	}
	return written, nil
}

// Read fills buf within timeout. A peer that closes the stream before buf
// is full yields status.TLSRead.
func (n *TLSNetwork) Read(buf []byte, timeout time.Duration) (int, error) {
	n.readMu.Lock()
	defer n.readMu.Unlock()

	tc := n.session()
	if tc == nil {
		return 0, ErrNotConnected
	}

	t := timer.New(n.clock)
	t.Countdown(timeout)

	read := 0
	for read < len(buf) {
		left := t.Left()
		if left <= 0 {
			return read, status.Errorf(status.TLSReadTimeout, "read %d of %d bytes", read, len(buf))
		}
		if err := tc.SetReadDeadline(time.Now().Add(left)); err != nil {
			return read, status.Wrap(status.TLSRead, err)
		}

		m, err := tc.Read(buf[read:])
		read += m
		if err != nil {
			switch {
			case isTimeout(err):
				return read, status.Wrap(status.TLSReadTimeout, err)
			case errors.Is(err, io.EOF):
				return read, status.Errorf(status.TLSRead, "connection closed by peer after %d of %d bytes", read, len(buf))
			default:
				return read, status.Wrap(status.TLSRead, err)
			}
		}
	}
	return read, nil
}

func (n *TLSNetwork) session() *tls.Conn {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.State() != StateConnected {
		return nil
	}
	return n.tlsConn
}

// Disconnect sends close_notify and closes the socket. Errors are logged
// and dropped.
func (n *TLSNetwork) Disconnect() {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.State() != StateConnected {
		return
	}
	n.teardown()
	n.setState(StateDisconnected)
}

// teardown releases the session handles. Callers hold mu.
func (n *TLSNetwork) teardown() {
	if n.tlsConn != nil {
		// close_notify must not block on a stalled peer.
		_ = n.tlsConn.SetWriteDeadline(time.Now().Add(closeNotifyTimeout))
		if err := n.tlsConn.CloseWrite(); err != nil {
			n.logger.Debug("close_notify failed", "host", n.host, "error", err)
		}
		if err := n.tlsConn.Close(); err != nil {
			n.logger.Debug("close failed", "host", n.host, "error", err)
		}
	} else if n.conn != nil {
		if err := n.conn.Close(); err != nil {
			n.logger.Debug("close failed", "host", n.host, "error", err)
		}
	}
	n.conn = nil
	n.tlsConn = nil
	n.peer = nil
}

// closeNotifyTimeout bounds the close_notify write during teardown.
const closeNotifyTimeout = 250 * time.Millisecond

// Destroy releases the TLS context, disconnecting first when needed.
// Calling it again returns ErrAlreadyDestroyed.
func (n *TLSNetwork) Destroy() error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.State() == StateDestroyed {
		return ErrAlreadyDestroyed
	}
	n.teardown()
	n.base = nil
	n.setState(StateDestroyed)
	return nil
}

func isTimeout(err error) bool {
	if errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

var _ Network = (*TLSNetwork)(nil)
