package transport

import (
	"context"
	"errors"
	"net"
	"strconv"
	"time"
)

// DefaultPort is the standard port for TLS-secured device connections.
const DefaultPort = 8883

// State is the lifecycle state of a Network.
type State int32

const (
	// StateUninitialized indicates no TLS context exists.
	StateUninitialized State = iota

	// StateInitialized indicates a TLS context exists but no session.
	StateInitialized

	// StateConnecting indicates a connect attempt is in progress.
	StateConnecting

	// StateConnected indicates an established TLS session.
	StateConnected

	// StateDisconnected indicates the session was torn down.
	StateDisconnected

	// StateDestroyed indicates the TLS context was released.
	StateDestroyed
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "UNINITIALIZED"
	case StateInitialized:
		return "INITIALIZED"
	case StateConnecting:
		return "CONNECTING"
	case StateConnected:
		return "CONNECTED"
	case StateDisconnected:
		return "DISCONNECTED"
	case StateDestroyed:
		return "DESTROYED"
	default:
		return "UNKNOWN"
	}
}

// State misuse errors.
var (
	ErrNotConnected     = errors.New("not connected")
	ErrAlreadyConnected = errors.New("already connected")
	ErrAlreadyDestroyed = errors.New("already destroyed")
)

// ConnectParams describes one connect attempt.
type ConnectParams struct {
	// Host is the destination host name; it is also the name the server
	// certificate must carry when VerifyHostname is set.
	Host string

	// Port is the destination TCP port.
	Port uint16

	// RootCAPath is a PEM file of trusted root certificates.
	RootCAPath string

	// DeviceCertPath and DeviceKeyPath hold the client credentials.
	DeviceCertPath string
	DeviceKeyPath  string

	// VerifyHostname enables validation of the server certificate name.
	VerifyHostname bool

	// Timeout bounds the whole handshake. A non-positive value is already
	// expired.
	Timeout time.Duration
}

// Addr returns host:port.
func (p ConnectParams) Addr() string {
	return net.JoinHostPort(p.Host, strconv.Itoa(int(p.Port)))
}

// Network is the capability set the messaging engine drives.
//
// Read and Write always return the number of bytes actually transferred,
// including when they fail. Implementations are not safe for use by more
// than one caller at a time.
type Network interface {
	// Connect establishes a TLS session within params.Timeout.
	Connect(ctx context.Context, params ConnectParams) error

	// Read fills buf completely or fails once timeout elapses.
	Read(buf []byte, timeout time.Duration) (int, error)

	// Write sends all of buf or fails once timeout elapses.
	Write(buf []byte, timeout time.Duration) (int, error)

	// Disconnect tears down the session. It never fails and is idempotent.
	Disconnect()

	// IsConnected reports whether a session is held. It does not probe the
	// peer, so a silently dropped connection still reports true.
	IsConnected() bool

	// Destroy releases the TLS context.
	Destroy() error
}
