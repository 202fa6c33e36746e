package commands

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/shadowlink/shadowlink-go/pkg/cert"
	"github.com/shadowlink/shadowlink-go/pkg/config"
	"github.com/shadowlink/shadowlink-go/pkg/log"
	"github.com/shadowlink/shadowlink-go/pkg/transport"
)

// ProbeOptions configures the probe command.
type ProbeOptions struct {
	Config *config.Config

	// Logger receives transport logs (optional).
	Logger *slog.Logger

	// Capture records the session (optional).
	Capture log.Logger
}

// RunProbe connects to the configured endpoint, reports the negotiated
// session and the peer certificate, then disconnects.
func RunProbe(ctx context.Context, opts ProbeOptions, w io.Writer) error {
	cfg := opts.Config
	tc := cfg.TransportConfig()
	tc.Logger = opts.Logger

	tn, err := transport.NewTLSNetwork(tc)
	if err != nil {
		return fmt.Errorf("failed to create TLS context: %w", err)
	}
	var n transport.Network = tn
	if opts.Capture != nil {
		n = transport.NewCapture(tn, opts.Capture, cfg.ClientID)
	}
	defer n.Destroy()

	params := cfg.ConnectParams()
	fmt.Fprintf(w, "Endpoint:    %s\n", params.Addr())
	if own, err := cert.ReadCertFile(cfg.Credentials.Cert); err == nil {
		fmt.Fprintf(w, "Client CN:   %s\n", own.Subject.CommonName)
	}

	start := time.Now()
	if err := n.Connect(ctx, params); err != nil {
		return fmt.Errorf("connect failed: %w", err)
	}
	defer n.Disconnect()
	elapsed := time.Since(start)

	if addr := tn.RemoteAddr(); addr != nil {
		fmt.Fprintf(w, "Remote:      %s\n", addr)
	}
	fmt.Fprintf(w, "Connected:   %s\n", elapsed.Round(time.Millisecond))
	if cs, ok := tn.ConnectionState(); ok {
		fmt.Fprintf(w, "TLS version: %s\n", tls.VersionName(cs.Version))
		fmt.Fprintf(w, "Cipher:      %s\n", tls.CipherSuiteName(cs.CipherSuite))
	}

	peer := tn.PeerCertificate()
	if peer == nil {
		return nil
	}
	fmt.Fprintf(w, "Peer CN:     %s\n", peer.Subject.CommonName)
	fmt.Fprintf(w, "Issuer:      %s\n", peer.Issuer.CommonName)
	fmt.Fprintf(w, "Not after:   %s\n", peer.NotAfter.UTC().Format(time.RFC3339))
	fmt.Fprintf(w, "Hostname:    %s", cert.Validate(params.Host, peer))
	if !params.VerifyHostname {
		fmt.Fprint(w, " (not enforced)")
	}
	fmt.Fprintln(w)
	return nil
}
