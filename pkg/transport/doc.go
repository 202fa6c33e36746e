// Package transport provides the secure transport a device uses to reach
// its message broker.
//
// The transport handles:
//   - TLS 1.2+ client sessions with mutual authentication
//   - Server chain verification against a configured root CA file
//   - Optional server hostname validation (see cert.Validate)
//   - Timeout-bounded connect, read and write
//
// # Capability Interface
//
// The messaging engine drives any Network:
//
//	nw, err := transport.NewTLSNetwork(transport.Config{Logger: logger})
//	err = nw.Connect(ctx, transport.ConnectParams{
//	    Host:           "broker.example.com",
//	    Port:           transport.DefaultPort,
//	    RootCAPath:     "root-ca.pem",
//	    DeviceCertPath: "device.pem",
//	    DeviceKeyPath:  "device.key",
//	    VerifyHostname: true,
//	    Timeout:        10 * time.Second,
//	})
//	n, err := nw.Write(packet, 5*time.Second)
//
// Read and Write report the bytes actually transferred even when they fail,
// and errors carry a status.Code that distinguishes timeouts from other
// failures:
//
//	if errors.Is(err, status.TLSReadTimeout) { ... }
//
// Unsupported stands in on platforms without a TLS backend and fails every
// call. Capture wraps any Network and records its traffic with pkg/log.
//
// # Timeouts
//
// Each operation arms one timer.Timer and sets socket deadlines to exactly
// the remaining budget. A zero or negative timeout is already expired.
// After a Write timeout the TLS stream is unusable and the session must be
// disconnected.
package transport
