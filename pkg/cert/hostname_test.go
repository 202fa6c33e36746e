package cert_test

import (
	"crypto/x509"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shadowlink/shadowlink-go/internal/testpki"
	"github.com/shadowlink/shadowlink-go/pkg/cert"
)

func TestHostMatch(t *testing.T) {
	tests := []struct {
		pattern  string
		hostname string
		want     bool
	}{
		{"device.example.com", "device.example.com", true},
		{"Device.Example.COM", "device.example.com", true},
		{"device.example.com.", "device.example.com", true},
		{"device.example.com", "other.example.com", false},
		{"*.example.com", "device.example.com", true},
		{"*.example.com", "DEVICE.EXAMPLE.COM", true},
		{"*.example.com", "example.com", false},
		{"*.example.com", "a.b.example.com", false},
		{"*.example.com", ".example.com", false},
		{"*.com", "example.com", false},
		{"*", "example", false},
		{"a.*.example.com", "a.b.example.com", false},
		{"f*.example.com", "foo.example.com", false},
		{"*.1.2.3", "4.1.2.3", false},
		{"", "example.com", false},
		{"example.com", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.pattern+"|"+tt.hostname, func(t *testing.T) {
			assert.Equal(t, tt.want, cert.HostMatch(tt.pattern, tt.hostname))
		})
	}
}

func TestValidateCommonName(t *testing.T) {
	ca := testpki.NewCA(t, "Test Root")

	tests := []struct {
		name     string
		cn       string
		hostname string
		want     cert.Result
	}{
		{"exact", "iot.example.com", "iot.example.com", cert.MatchFound},
		{"case insensitive", "IoT.Example.com", "iot.example.com", cert.MatchFound},
		{"wildcard", "*.iot.example.com", "a1b2.iot.example.com", cert.MatchFound},
		{"mismatch", "iot.example.com", "evil.example.com", cert.MatchNotFound},
		{"embedded NUL", "example.com\x00evil.com", "example.com", cert.MalformedCertificate},
		{"embedded NUL other host", "example.com\x00evil.com", "evil.com", cert.MalformedCertificate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			leaf := ca.Issue(t, testpki.LeafOptions{CommonName: tt.cn})
			assert.Equal(t, tt.want, cert.Validate(tt.hostname, leaf.Cert))
		})
	}
}

func TestValidateIgnoresSubjectAltNames(t *testing.T) {
	ca := testpki.NewCA(t, "Test Root")
	leaf := ca.Issue(t, testpki.LeafOptions{
		CommonName: "cn.example.com",
		DNSNames:   []string{"san.example.com"},
	})

	assert.Equal(t, cert.MatchNotFound, cert.Validate("san.example.com", leaf.Cert))
	assert.Equal(t, cert.MatchFound, cert.Validate("cn.example.com", leaf.Cert))
}

func TestValidateErrors(t *testing.T) {
	ca := testpki.NewCA(t, "Test Root")
	leaf := ca.Issue(t, testpki.LeafOptions{CommonName: "iot.example.com"})

	assert.Equal(t, cert.Error, cert.Validate("", leaf.Cert))
	assert.Equal(t, cert.Error, cert.Validate("iot.example.com", nil))

	noCN := ca.Issue(t, testpki.LeafOptions{DNSNames: []string{"iot.example.com"}})
	assert.Equal(t, cert.Error, cert.Validate("iot.example.com", noCN.Cert))

	garbage := &x509.Certificate{RawSubject: []byte{0x30, 0x05, 0x01}}
	assert.Equal(t, cert.Error, cert.Validate("iot.example.com", garbage))
}

func TestCommonNameBMPString(t *testing.T) {
	// SEQUENCE { SET { SEQUENCE { OID 2.5.4.3, BMPString "ab" } } }
	subject := []byte{
		0x30, 0x0f,
		0x31, 0x0d,
		0x30, 0x0b,
		0x06, 0x03, 0x55, 0x04, 0x03,
		0x1e, 0x04, 0x00, 'a', 0x00, 'b',
	}

	cn, err := cert.CommonName(subject)
	require.NoError(t, err)
	assert.Equal(t, "ab", cn)
}

func TestResultString(t *testing.T) {
	assert.Equal(t, "MATCH_FOUND", cert.MatchFound.String())
	assert.Equal(t, "MALFORMED_CERTIFICATE", cert.MalformedCertificate.String())
	assert.Equal(t, "NO_SAN_PRESENT", cert.NoSANPresent.String())
	assert.Equal(t, "UNKNOWN", cert.Result(99).String())
}
