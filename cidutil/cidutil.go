// Package cidutil holds the multihash and CID helpers used to fingerprint key
// files and derive peer identifiers.
package cidutil

import (
	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"
)

// MaxInlineKeyLength is the largest marshalled public key that is embedded in
// a peer ID with the identity hash instead of being hashed.
const MaxInlineKeyLength = 42

// CIDv1RawSHA256 returns a CIDv1 string using the "raw" multicodec
// and a sha2-256 multihash.
func CIDv1RawSHA256(data []byte) string {
	sum, err := multihash.Sum(data, multihash.SHA2_256, -1)
	if err != nil {
		// multihash.Sum only errors for invalid inputs; with SHA2_256 and -1 length,
		// this should be unreachable.
		return ""
	}
	return cid.NewCidV1(cid.Raw, sum).String()
}

// PeerIDHash returns the multihash identifying a marshalled public key:
// the identity hash for keys up to MaxInlineKeyLength bytes, sha2-256 above.
func PeerIDHash(pubEnvelope []byte) (multihash.Multihash, error) {
	code := uint64(multihash.SHA2_256)
	if len(pubEnvelope) <= MaxInlineKeyLength {
		code = multihash.IDENTITY
	}
	return multihash.Sum(pubEnvelope, code, -1)
}

// PeerCID wraps a peer ID multihash in a CIDv1 with the libp2p-key codec.
func PeerCID(mh multihash.Multihash) cid.Cid {
	return cid.NewCidV1(cid.Libp2pKey, mh)
}
