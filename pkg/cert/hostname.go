package cert

import (
	"crypto/x509"
	"encoding/asn1"
	"errors"
	"net"
	"strings"
	"unicode/utf16"

	"golang.org/x/crypto/cryptobyte"
	cbasn1 "golang.org/x/crypto/cryptobyte/asn1"
)

// Result is the outcome of a hostname validation.
type Result uint8

const (
	// MatchFound indicates the certificate names the expected host.
	MatchFound Result = iota

	// MatchNotFound indicates no certificate name matched.
	MatchNotFound

	// MalformedCertificate indicates a candidate name carried an embedded NUL.
	MalformedCertificate

	// NoSANPresent indicates the Subject Alternative Name stage had no names.
	NoSANPresent

	// Error indicates the inputs or certificate could not be examined.
	Error
)

// String returns the result name.
func (r Result) String() string {
	switch r {
	case MatchFound:
		return "MATCH_FOUND"
	case MatchNotFound:
		return "MATCH_NOT_FOUND"
	case MalformedCertificate:
		return "MALFORMED_CERTIFICATE"
	case NoSANPresent:
		return "NO_SAN_PRESENT"
	case Error:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

var oidCommonName = asn1.ObjectIdentifier{2, 5, 4, 3}

// bmpStringTag is the universal tag for BMPString (UTF-16BE).
const bmpStringTag = cbasn1.Tag(30)

var errNoCommonName = errors.New("certificate has no common name")

// Validate checks that c identifies hostname.
//
// The Subject Alternative Name extension is consulted first; when it yields
// NoSANPresent the subject Common Name decides. SAN matching is currently
// disabled, so the Common Name is always the deciding field.
func Validate(hostname string, c *x509.Certificate) Result {
	if hostname == "" || c == nil {
		return Error
	}

	result := matchSubjectAltName(hostname, c)
	if result == NoSANPresent {
		result = matchCommonName(hostname, c)
	}
	return result
}

// matchSubjectAltName is disabled and always reports NoSANPresent.
func matchSubjectAltName(string, *x509.Certificate) Result {
	return NoSANPresent
}

func matchCommonName(hostname string, c *x509.Certificate) Result {
	raw, err := CommonName(c.RawSubject)
	if err != nil {
		return Error
	}

	// The encoded length must agree with the NUL-terminated length.
	if strings.IndexByte(raw, 0) >= 0 {
		return MalformedCertificate
	}

	if HostMatch(raw, hostname) {
		return MatchFound
	}
	return MatchNotFound
}

// CommonName returns the first Common Name in a DER-encoded RDN sequence,
// decoded from its ASN.1 string type without any validation of its bytes.
func CommonName(rawSubject []byte) (string, error) {
	input := cryptobyte.String(rawSubject)
	var rdnSeq cryptobyte.String
	if !input.ReadASN1(&rdnSeq, cbasn1.SEQUENCE) {
		return "", errors.New("malformed subject")
	}

	for !rdnSeq.Empty() {
		var set cryptobyte.String
		if !rdnSeq.ReadASN1(&set, cbasn1.SET) {
			return "", errors.New("malformed relative distinguished name")
		}
		for !set.Empty() {
			var atv cryptobyte.String
			var oid asn1.ObjectIdentifier
			var value cryptobyte.String
			var tag cbasn1.Tag
			if !set.ReadASN1(&atv, cbasn1.SEQUENCE) ||
				!atv.ReadASN1ObjectIdentifier(&oid) ||
				!atv.ReadAnyASN1(&value, &tag) {
				return "", errors.New("malformed attribute")
			}
			if oid.Equal(oidCommonName) {
				return decodeDirectoryString(value, tag)
			}
		}
	}
	return "", errNoCommonName
}

func decodeDirectoryString(value []byte, tag cbasn1.Tag) (string, error) {
	switch tag {
	case cbasn1.UTF8String, cbasn1.PrintableString, cbasn1.IA5String, cbasn1.T61String:
		return string(value), nil
	case bmpStringTag:
		if len(value)%2 != 0 {
			return "", errors.New("odd-length BMPString")
		}
		units := make([]uint16, len(value)/2)
		for i := range units {
			units[i] = uint16(value[2*i])<<8 | uint16(value[2*i+1])
		}
		return string(utf16.Decode(units)), nil
	default:
		return "", errors.New("unsupported common name string type")
	}
}

// HostMatch reports whether pattern, a certificate name, matches hostname.
//
// Comparison is case-insensitive and ignores a trailing dot. The left-most
// label of pattern may be "*", which matches exactly one non-empty label,
// provided at least two labels follow it and hostname is not an IP literal.
func HostMatch(pattern, hostname string) bool {
	pattern = strings.TrimSuffix(pattern, ".")
	hostname = strings.TrimSuffix(hostname, ".")
	if pattern == "" || hostname == "" {
		return false
	}

	if !strings.HasPrefix(pattern, "*.") {
		if strings.Contains(pattern, "*") {
			return false
		}
		return strings.EqualFold(pattern, hostname)
	}

	suffix := pattern[1:] // ".example.com"
	if strings.Contains(suffix, "*") || strings.Count(suffix, ".") < 2 {
		return false
	}
	if net.ParseIP(hostname) != nil {
		return false
	}

	dot := strings.IndexByte(hostname, '.')
	if dot <= 0 {
		return false
	}
	return strings.EqualFold(hostname[dot:], suffix)
}
