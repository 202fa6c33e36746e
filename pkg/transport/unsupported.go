package transport

import (
	"context"
	"time"

	"github.com/shadowlink/shadowlink-go/pkg/status"
)

// Unsupported is the Network for platforms without a TLS backend. Every
// operation fails with status.Unsupported.
type Unsupported struct {
	Platform string
}

func (u Unsupported) err() error {
	return status.Errorf(status.Unsupported, "no TLS transport for platform %q", u.Platform)
}

// Connect always fails.
func (u Unsupported) Connect(context.Context, ConnectParams) error { return u.err() }

// Read always fails without transferring data.
func (u Unsupported) Read([]byte, time.Duration) (int, error) { return 0, u.err() }

// Write always fails without transferring data.
func (u Unsupported) Write([]byte, time.Duration) (int, error) { return 0, u.err() }

// Disconnect does nothing.
func (Unsupported) Disconnect() {}

// IsConnected is always false.
func (Unsupported) IsConnected() bool { return false }

// Destroy always fails.
func (u Unsupported) Destroy() error { return u.err() }

var _ Network = Unsupported{}
