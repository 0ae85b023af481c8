// Package envelope implements the two-field key container used to persist a
// private (or public) key together with a tag naming its algorithm.
//
// The serialized form is fixed:
//
//	varint(0x08) || varint(kind) || varint(0x12) || varint(len(data)) || data
//
// That is protobuf field 1 (varint) followed by field 2 (length-delimited).
// Parse is deliberately narrower than protobuf: field order is fixed, unknown
// fields are rejected and the declared payload length must consume exactly the
// rest of the input. ParseLenient provides general protobuf semantics for
// inputs produced by other encoders.
package envelope

import (
	"bytes"
	"errors"
	"fmt"

	"xdao.co/p2pkey/varint"
)

// KeyKind identifies the algorithm of the key carried in an envelope.
type KeyKind uint64

const (
	RSA       KeyKind = 0
	Ed25519   KeyKind = 1
	Secp256k1 KeyKind = 2
	ECDSA     KeyKind = 3
)

func (k KeyKind) String() string {
	switch k {
	case RSA:
		return "RSA"
	case Ed25519:
		return "Ed25519"
	case Secp256k1:
		return "Secp256k1"
	case ECDSA:
		return "ECDSA"
	default:
		return fmt.Sprintf("unknown(%d)", uint64(k))
	}
}

// Known reports whether k is one of the reserved key kinds.
func (k KeyKind) Known() bool {
	return k <= ECDSA
}

// Wire types used by the two fields.
const (
	WireVarint = 0
	WireBytes  = 2
)

// Field numbers.
const (
	FieldKind = 1
	FieldData = 2
)

var (
	tagKind = uint64(FieldKind<<3 | WireVarint)
	tagData = uint64(FieldData<<3 | WireBytes)
)

// Envelope is a parsed key container. Values returned by Parse own their Data.
type Envelope struct {
	Kind KeyKind
	Data []byte
}

// Marshal returns the serialized envelope for kind and data. It never fails.
func Marshal(kind KeyKind, data []byte) []byte {
	n := varint.Len(tagKind) + varint.Len(uint64(kind)) +
		varint.Len(tagData) + varint.Len(uint64(len(data))) + len(data)
	out := make([]byte, 0, n)
	out = varint.Append(out, tagKind)
	out = varint.Append(out, uint64(kind))
	out = varint.Append(out, tagData)
	out = varint.Append(out, uint64(len(data)))
	return append(out, data...)
}

// Marshal returns the serialized form of e.
func (e Envelope) Marshal() []byte {
	return Marshal(e.Kind, e.Data)
}

// Equal reports whether two envelopes carry the same kind and bytes.
func (e Envelope) Equal(o Envelope) bool {
	return e.Kind == o.Kind && bytes.Equal(e.Data, o.Data)
}

// Parse decodes b as a strict two-field envelope.
//
// Every failure is an *Error; see Kind and RuleID for the failed check.
func Parse(b []byte) (*Envelope, error) {
	h, err := ParseHeader(b)
	if err != nil {
		return nil, err
	}
	return &Envelope{
		Kind: h.Kind,
		Data: bytes.Clone(b[h.DataOffset:]),
	}, nil
}

// Header describes the framing of a strictly parsed envelope. Offsets index
// into the input passed to ParseHeader.
type Header struct {
	KindTag    uint64
	Kind       KeyKind
	DataTag    uint64
	DataLen    uint64
	DataOffset int
}

// FieldNumber splits a tag into its field number.
func FieldNumber(tag uint64) uint64 { return tag >> 3 }

// WireType splits a tag into its wire type.
func WireType(tag uint64) uint64 { return tag & 0x7 }

// ParseHeader runs every framing check Parse does and reports the decoded
// tags and offsets without copying the payload.
func ParseHeader(b []byte) (*Header, error) {
	if len(b) == 0 {
		return nil, newError(KindTruncated, RuleEmptyInput, "envelope: input is empty")
	}
	var h Header

	tag, off, err := readVarint(b, 0, "field 1 tag")
	if err != nil {
		return nil, err
	}
	h.KindTag = tag
	if FieldNumber(tag) != FieldKind || WireType(tag) != WireVarint {
		return nil, newError(KindBadFieldTag, RuleField1Tag, fmt.Sprintf(
			"envelope: expected field 1 wire type 0, got field %d wire type %d", FieldNumber(tag), WireType(tag)))
	}
	kind, off, err := readVarint(b, off, "key kind")
	if err != nil {
		return nil, err
	}
	h.Kind = KeyKind(kind)

	if off >= len(b) {
		return nil, newError(KindTruncated, RuleMissingKeyField, "envelope: missing key data field")
	}
	tag, off, err = readVarint(b, off, "field 2 tag")
	if err != nil {
		return nil, err
	}
	h.DataTag = tag
	if FieldNumber(tag) != FieldData || WireType(tag) != WireBytes {
		return nil, newError(KindBadFieldTag, RuleField2Tag, fmt.Sprintf(
			"envelope: expected field 2 wire type 2, got field %d wire type %d", FieldNumber(tag), WireType(tag)))
	}
	n, off, err := readVarint(b, off, "key data length")
	if err != nil {
		return nil, err
	}
	h.DataLen = n
	h.DataOffset = off

	remaining := uint64(len(b) - off)
	switch {
	case n > remaining:
		return nil, newError(KindTruncated, RuleShortPayload, fmt.Sprintf(
			"envelope: declared key data length %d, only %d bytes remain", n, remaining))
	case n < remaining:
		return nil, newError(KindLengthMismatch, RuleTrailingBytes, fmt.Sprintf(
			"envelope: declared key data length %d, %d bytes remain", n, remaining))
	}
	return &h, nil
}

func readVarint(b []byte, off int, what string) (uint64, int, error) {
	v, next, err := varint.Decode(b, off)
	if err == nil {
		return v, next, nil
	}
	rule := RuleVarintPastEnd
	if errors.Is(err, varint.ErrOverflow) {
		rule = RuleVarintOverflow
	}
	return 0, next, wrapError(KindMalformed, rule, fmt.Sprintf("envelope: %s at offset %d: %v", what, off, err), err)
}
