package keys

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/cryptobyte"
	"golang.org/x/crypto/cryptobyte/asn1"
)

// Verdict is the outcome of Sniff.
type Verdict int

const (
	Likely Verdict = iota
	Suspicious
)

func (v Verdict) String() string {
	if v == Likely {
		return "likely"
	}
	return "suspicious"
}

// derSequence is the identifier octet of a constructed ASN.1 SEQUENCE.
const derSequence = 0x30

// Sniff reports whether b starts the way a DER-encoded key does. It looks at
// the first byte only.
func Sniff(b []byte) Verdict {
	if len(b) > 0 && b[0] == derSequence {
		return Likely
	}
	return Suspicious
}

// ErrUnknownEncoding is returned by DetectEncoding for DER that is neither an
// RSAPrivateKey nor a PrivateKeyInfo.
var ErrUnknownEncoding = errors.New("keys: unrecognized private key structure")

// DetectEncoding reads the outer structure of der to decide which encoding it
// uses. RSAPrivateKey continues with INTEGER modulus after the version,
// PrivateKeyInfo with an AlgorithmIdentifier SEQUENCE. Nothing beyond that is
// checked.
func DetectEncoding(der []byte) (Encoding, error) {
	input := cryptobyte.String(der)
	var seq cryptobyte.String
	if !input.ReadASN1(&seq, asn1.SEQUENCE) {
		return 0, fmt.Errorf("%w: no outer SEQUENCE", ErrUnknownEncoding)
	}
	var version int64
	if !seq.ReadASN1Integer(&version) {
		return 0, fmt.Errorf("%w: missing version", ErrUnknownEncoding)
	}
	switch {
	case seq.PeekASN1Tag(asn1.INTEGER):
		return PKCS1, nil
	case seq.PeekASN1Tag(asn1.SEQUENCE):
		return PKCS8, nil
	default:
		return 0, fmt.Errorf("%w: unexpected element after version", ErrUnknownEncoding)
	}
}
