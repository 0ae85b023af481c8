package keys

import (
	"fmt"
	"runtime"
	"strings"
)

// Encoding selects the DER sub-encoding of an RSA private key. The two
// encodings are not interchangeable: a reader expecting one rejects the other.
type Encoding int

const (
	// PKCS1 is the traditional RSAPrivateKey structure with no algorithm
	// identifier.
	PKCS1 Encoding = iota + 1
	// PKCS8 wraps the key in a PrivateKeyInfo carrying an algorithm
	// identifier.
	PKCS8
)

func (e Encoding) String() string {
	switch e {
	case PKCS1:
		return "pkcs1"
	case PKCS8:
		return "pkcs8"
	default:
		return fmt.Sprintf("Encoding(%d)", int(e))
	}
}

// Describe returns a human-readable name for reports.
func (e Encoding) Describe() string {
	switch e {
	case PKCS1:
		return "PKCS#1 DER (traditional)"
	case PKCS8:
		return "PKCS#8 DER (algorithm-identifier wrapped)"
	default:
		return e.String()
	}
}

// ParseEncoding parses "pkcs1" or "pkcs8", ignoring case and surrounding
// whitespace.
func ParseEncoding(s string) (Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pkcs1":
		return PKCS1, nil
	case "pkcs8":
		return PKCS8, nil
	default:
		return 0, fmt.Errorf("unknown key encoding %q (want pkcs1 or pkcs8)", s)
	}
}

// DefaultEncoding returns the encoding used when the caller does not choose
// one. goos is a runtime.GOOS value: darwin hosts default to PKCS1, every
// other host to PKCS8.
func DefaultEncoding(goos string) Encoding {
	switch goos {
	case "darwin", "ios":
		return PKCS1
	default:
		return PKCS8
	}
}

// HostEncoding is DefaultEncoding for the running host.
func HostEncoding() Encoding {
	return DefaultEncoding(runtime.GOOS)
}
