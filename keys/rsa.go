package keys

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"errors"
	"fmt"
	"io"
)

const (
	// DefaultBits is the RSA modulus size used when none is requested.
	DefaultBits = 2048
	// MinBits is the smallest modulus GenerateRSA accepts.
	MinBits = 1024
)

// ErrGeneration marks failures of key generation or DER encoding.
var ErrGeneration = errors.New("keys: generation failed")

// GenerateRSA returns a fresh RSA private key with public exponent 65537.
// A nil random falls back to crypto/rand.Reader; bits <= 0 means DefaultBits.
func GenerateRSA(random io.Reader, bits int) (*rsa.PrivateKey, error) {
	if bits <= 0 {
		bits = DefaultBits
	}
	if bits < MinBits {
		return nil, fmt.Errorf("%w: rsa modulus must be at least %d bits, got %d", ErrGeneration, MinBits, bits)
	}
	if random == nil {
		random = rand.Reader
	}
	key, err := rsa.GenerateKey(random, bits)
	if err != nil {
		return nil, fmt.Errorf("%w: rsa: %w", ErrGeneration, err)
	}
	return key, nil
}

// EncodeDER renders key in the requested encoding.
func EncodeDER(key *rsa.PrivateKey, enc Encoding) ([]byte, error) {
	if key == nil {
		return nil, fmt.Errorf("%w: nil private key", ErrGeneration)
	}
	switch enc {
	case PKCS1:
		return x509.MarshalPKCS1PrivateKey(key), nil
	case PKCS8:
		der, err := x509.MarshalPKCS8PrivateKey(key)
		if err != nil {
			return nil, fmt.Errorf("%w: pkcs8: %w", ErrGeneration, err)
		}
		return der, nil
	default:
		return nil, fmt.Errorf("%w: unsupported encoding %v", ErrGeneration, enc)
	}
}

// DecodeDER parses der strictly as enc. A PKCS#8 payload that wraps a
// non-RSA key is rejected.
func DecodeDER(der []byte, enc Encoding) (*rsa.PrivateKey, error) {
	switch enc {
	case PKCS1:
		return x509.ParsePKCS1PrivateKey(der)
	case PKCS8:
		k, err := x509.ParsePKCS8PrivateKey(der)
		if err != nil {
			return nil, err
		}
		key, ok := k.(*rsa.PrivateKey)
		if !ok {
			return nil, fmt.Errorf("keys: pkcs8 payload holds %T, not an RSA key", k)
		}
		return key, nil
	default:
		return nil, fmt.Errorf("keys: unsupported encoding %v", enc)
	}
}

// DecodeAnyDER detects the encoding of der and parses it.
func DecodeAnyDER(der []byte) (*rsa.PrivateKey, Encoding, error) {
	enc, err := DetectEncoding(der)
	if err != nil {
		return nil, 0, err
	}
	key, err := DecodeDER(der, enc)
	if err != nil {
		return nil, 0, err
	}
	return key, enc, nil
}
