package transport

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net"

	"github.com/shadowlink/shadowlink-go/pkg/cert"
	"github.com/shadowlink/shadowlink-go/pkg/status"
	"github.com/shadowlink/shadowlink-go/pkg/timer"
)

// DialFunc opens the TCP connection for a session.
type DialFunc func(ctx context.Context, network, address string) (net.Conn, error)

// Config configures a TLSNetwork.
type Config struct {
	// MinVersion is the lowest TLS version offered (default: TLS 1.2).
	MinVersion uint16

	// MaxVersion is the highest TLS version offered (0: highest supported).
	MaxVersion uint16

	// Clock drives every timeout budget (default: the system clock).
	Clock timer.Clock

	// Logger receives operational logs (default: discarded).
	Logger *slog.Logger

	// Resolver resolves destination hosts (default: net.DefaultResolver).
	Resolver *net.Resolver

	// Dial opens TCP connections (default: a net.Dialer).
	Dial DialFunc
}

// newBaseTLSConfig creates the client TLS configuration shared by every
// session of a TLSNetwork.
func newBaseTLSConfig(cfg Config) (*tls.Config, error) {
	minVersion := cfg.MinVersion
	if minVersion == 0 {
		minVersion = tls.VersionTLS12
	}
	if minVersion < tls.VersionTLS12 || minVersion > tls.VersionTLS13 {
		return nil, fmt.Errorf("minimum version %#04x is not TLS 1.2 or 1.3", minVersion)
	}
	if cfg.MaxVersion != 0 && (cfg.MaxVersion < minVersion || cfg.MaxVersion > tls.VersionTLS13) {
		return nil, fmt.Errorf("maximum version %#04x is outside [%#04x, %#04x]",
			cfg.MaxVersion, minVersion, tls.VersionTLS13)
	}

	return &tls.Config{
		MinVersion: minVersion,
		MaxVersion: cfg.MaxVersion,

		CurvePreferences: []tls.CurveID{
			tls.X25519,
			tls.CurveP256,
		},

		SessionTicketsDisabled: true,

		// Chain and hostname checks run in VerifyPeerCertificate, which each
		// session installs on its clone of this config.
		InsecureSkipVerify: true,
	}, nil
}

// sessionTLSConfig clones base with the credentials and peer verification
// for one connect attempt.
func sessionTLSConfig(base *tls.Config, params ConnectParams, clk timer.Clock) (*tls.Config, error) {
	roots, err := cert.LoadRootCAs(params.RootCAPath)
	if err != nil {
		return nil, status.Wrap(status.TLSCert, err)
	}
	pair, err := cert.LoadKeyPair(params.DeviceCertPath, params.DeviceKeyPath)
	if err != nil {
		return nil, status.Wrap(status.TLSCert, err)
	}

	verifier := &cert.PeerVerifier{
		Roots:         roots,
		Hostname:      params.Host,
		CheckHostname: params.VerifyHostname,
		Now:           clk.Now,
	}

	conf := base.Clone()
	conf.Certificates = []tls.Certificate{pair}
	conf.RootCAs = roots
	conf.VerifyPeerCertificate = verifier.Verify
	if net.ParseIP(params.Host) == nil {
		conf.ServerName = params.Host // SNI only
	}
	return conf, nil
}
