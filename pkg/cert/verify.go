package cert

import (
	"crypto/x509"
	"errors"
	"fmt"
	"time"
)

// Verification errors.
var (
	ErrNoPeerCertificate = errors.New("no peer certificate")
	ErrInvalidChain      = errors.New("invalid certificate chain")
)

// HostnameError reports a failed hostname validation.
type HostnameError struct {
	Host   string
	Result Result
}

func (e *HostnameError) Error() string {
	return fmt.Sprintf("hostname %q not verified: %s", e.Host, e.Result)
}

// PeerVerifier builds the VerifyPeerCertificate callback used during the
// TLS handshake.
type PeerVerifier struct {
	// Roots is the trusted root pool. Nil uses the system pool.
	Roots *x509.CertPool

	// Hostname is the destination host the leaf must name.
	Hostname string

	// CheckHostname enables leaf hostname validation.
	CheckHostname bool

	// Now overrides the verification time. Nil uses time.Now.
	Now func() time.Time
}

// Verify checks the presented chain against Roots and, when enabled,
// validates the leaf against Hostname.
func (v *PeerVerifier) Verify(rawCerts [][]byte, _ [][]*x509.Certificate) error {
	if len(rawCerts) == 0 {
		return ErrNoPeerCertificate
	}

	leaf, err := x509.ParseCertificate(rawCerts[0])
	if err != nil {
		return fmt.Errorf("parse peer certificate: %w", err)
	}

	intermediates := x509.NewCertPool()
	for _, raw := range rawCerts[1:] {
		c, err := x509.ParseCertificate(raw)
		if err != nil {
			continue
		}
		intermediates.AddCert(c)
	}

	now := time.Now()
	if v.Now != nil {
		now = v.Now()
	}
	opts := x509.VerifyOptions{
		Roots:         v.Roots,
		Intermediates: intermediates,
		CurrentTime:   now,
		KeyUsages:     []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
	}
	if _, err := leaf.Verify(opts); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidChain, err)
	}

	if v.CheckHostname {
		if result := Validate(v.Hostname, leaf); result != MatchFound {
			return &HostnameError{Host: v.Hostname, Result: result}
		}
	}
	return nil
}
