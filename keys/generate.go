package keys

import (
	"crypto/rsa"
	"io"

	"xdao.co/p2pkey/envelope"
)

// Options controls Generate. The zero value generates a DefaultBits key in
// the host's default encoding using crypto/rand.
type Options struct {
	Bits     int
	Encoding Encoding
	Rand     io.Reader
}

// Generated is the result of Generate.
type Generated struct {
	Key      *rsa.PrivateKey
	Encoding Encoding
	// DER is the inner key encoding carried in the envelope.
	DER []byte
	// Envelope is the serialized private key envelope, ready to be stored.
	Envelope []byte
	PeerID   PeerID
}

// Generate creates an RSA key, encodes it and wraps it in a private key
// envelope tagged RSA.
func Generate(opts Options) (*Generated, error) {
	enc := opts.Encoding
	if enc == 0 {
		enc = HostEncoding()
	}
	key, err := GenerateRSA(opts.Rand, opts.Bits)
	if err != nil {
		return nil, err
	}
	return Wrap(key, enc)
}

// Wrap encodes an existing key in enc and builds its envelope.
func Wrap(key *rsa.PrivateKey, enc Encoding) (*Generated, error) {
	der, err := EncodeDER(key, enc)
	if err != nil {
		return nil, err
	}
	id, err := PeerIDFromPublicKey(&key.PublicKey)
	if err != nil {
		return nil, err
	}
	return &Generated{
		Key:      key,
		Encoding: enc,
		DER:      der,
		Envelope: envelope.Marshal(envelope.RSA, der),
		PeerID:   id,
	}, nil
}
