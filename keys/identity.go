package keys

import (
	"crypto/rsa"
	"crypto/x509"
	"fmt"

	"github.com/ipfs/go-cid"
	"github.com/mr-tron/base58"
	"github.com/multiformats/go-multihash"

	"xdao.co/p2pkey/cidutil"
	"xdao.co/p2pkey/envelope"
)

// PeerID is a multihash of a marshalled public key envelope, the identifier
// libp2p derives for a node.
type PeerID []byte

// String renders the peer ID in base58btc.
func (id PeerID) String() string {
	return base58.Encode(id)
}

// CID renders the peer ID as a CIDv1 with the libp2p-key codec.
func (id PeerID) CID() (cid.Cid, error) {
	mh, err := multihash.Cast(id)
	if err != nil {
		return cid.Undef, err
	}
	return cidutil.PeerCID(mh), nil
}

// ParsePeerID decodes the base58btc form produced by String.
func ParsePeerID(s string) (PeerID, error) {
	b, err := base58.Decode(s)
	if err != nil {
		return nil, fmt.Errorf("keys: peer id: %w", err)
	}
	if _, err := multihash.Cast(b); err != nil {
		return nil, fmt.Errorf("keys: peer id: %w", err)
	}
	return PeerID(b), nil
}

// MarshalPublicKey returns the public key envelope for pub: kind RSA around
// the PKIX (SubjectPublicKeyInfo) DER.
func MarshalPublicKey(pub *rsa.PublicKey) ([]byte, error) {
	der, err := x509.MarshalPKIXPublicKey(pub)
	if err != nil {
		return nil, fmt.Errorf("keys: marshal public key: %w", err)
	}
	return envelope.Marshal(envelope.RSA, der), nil
}

// PeerIDFromPublicKey derives the peer ID of pub.
func PeerIDFromPublicKey(pub *rsa.PublicKey) (PeerID, error) {
	b, err := MarshalPublicKey(pub)
	if err != nil {
		return nil, err
	}
	mh, err := cidutil.PeerIDHash(b)
	if err != nil {
		return nil, fmt.Errorf("keys: peer id: %w", err)
	}
	return PeerID(mh), nil
}

// PeerIDFromEnvelope decodes the RSA private key carried by env, in either
// encoding, and derives its peer ID.
func PeerIDFromEnvelope(env *envelope.Envelope) (PeerID, Encoding, error) {
	if env.Kind != envelope.RSA {
		return nil, 0, fmt.Errorf("keys: key kind %s has no supported decoder", env.Kind)
	}
	key, enc, err := DecodeAnyDER(env.Data)
	if err != nil {
		return nil, 0, err
	}
	id, err := PeerIDFromPublicKey(&key.PublicKey)
	if err != nil {
		return nil, 0, err
	}
	return id, enc, nil
}
