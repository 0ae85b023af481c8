package envelope

import (
	"bytes"
	"errors"
	"testing"

	"google.golang.org/protobuf/encoding/protowire"

	"xdao.co/p2pkey/varint"
)

func TestMarshal_Layout(t *testing.T) {
	got := Marshal(RSA, []byte{0x30, 0x01, 0x00})
	want := []byte{0x08, 0x00, 0x12, 0x03, 0x30, 0x01, 0x00}
	if !bytes.Equal(got, want) {
		t.Fatalf("Marshal = %x, want %x", got, want)
	}
}

func TestMarshal_EmptyPayload(t *testing.T) {
	got := Marshal(Ed25519, nil)
	want := []byte{0x08, 0x01, 0x12, 0x00}
	if !bytes.Equal(got, want) {
		t.Fatalf("Marshal = %x, want %x", got, want)
	}
	env, err := Parse(got)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if env.Kind != Ed25519 || len(env.Data) != 0 {
		t.Fatalf("unexpected envelope: %+v", env)
	}
}

func TestMarshal_MatchesProtowire(t *testing.T) {
	data := bytes.Repeat([]byte{0xab}, 300)
	var want []byte
	want = protowire.AppendTag(want, FieldKind, protowire.VarintType)
	want = protowire.AppendVarint(want, 2)
	want = protowire.AppendTag(want, FieldData, protowire.BytesType)
	want = protowire.AppendBytes(want, data)

	if got := Marshal(Secp256k1, data); !bytes.Equal(got, want) {
		t.Fatalf("Marshal differs from protowire encoding")
	}
}

func TestParse_RoundTrip(t *testing.T) {
	payloads := [][]byte{
		{},
		{0x30},
		bytes.Repeat([]byte{0x5a}, 127),
		bytes.Repeat([]byte{0x5a}, 128),
		bytes.Repeat([]byte{0x01, 0x02, 0x03}, 1000),
	}
	kinds := []KeyKind{RSA, Ed25519, Secp256k1, ECDSA, 127, 128, 16383, 16384, 1<<21 - 1}

	for _, k := range kinds {
		for _, p := range payloads {
			env, err := Parse(Marshal(k, p))
			if err != nil {
				t.Fatalf("Parse(Marshal(%d, %d bytes)): %v", k, len(p), err)
			}
			if !env.Equal(Envelope{Kind: k, Data: p}) {
				t.Fatalf("round trip mismatch for kind %d, %d bytes", k, len(p))
			}
		}
	}
}

func TestParse_CopiesPayload(t *testing.T) {
	b := Marshal(RSA, []byte{0x30, 0x00})
	env, err := Parse(b)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	b[len(b)-1] = 0xff
	if env.Data[1] != 0x00 {
		t.Fatalf("parsed envelope aliases its input")
	}
}

func TestParse_RejectsEveryTruncation(t *testing.T) {
	full := Marshal(RSA, bytes.Repeat([]byte{0x30}, 200))
	for n := 0; n < len(full); n++ {
		_, err := Parse(full[:n])
		if err == nil {
			t.Fatalf("Parse accepted envelope truncated to %d of %d bytes", n, len(full))
		}
		if !IsTruncation(err) {
			t.Fatalf("truncated to %d bytes: expected truncation-class error, got %v (rule %s)", n, err, RuleID(err))
		}
	}
}

func TestParse_RejectsTrailingByte(t *testing.T) {
	for _, extra := range []byte{0x00, 0x30, 0xff} {
		b := append(Marshal(RSA, []byte{0x30, 0x00}), extra)
		_, err := Parse(b)
		if !IsKind(err, KindLengthMismatch) {
			t.Fatalf("trailing 0x%02x: expected KindLengthMismatch, got %v", extra, err)
		}
		if RuleID(err) != RuleTrailingBytes {
			t.Fatalf("trailing 0x%02x: expected %s, got %s", extra, RuleTrailingBytes, RuleID(err))
		}
	}
}

func TestParse_Field1WrongWireType(t *testing.T) {
	// Tag byte 0x0a is field 1 with wire type 2.
	b := []byte{0x0a, 0x00, 0x12, 0x01, 0x30}
	_, err := Parse(b)
	if !IsKind(err, KindBadFieldTag) {
		t.Fatalf("expected KindBadFieldTag, got %v", err)
	}
	if RuleID(err) != RuleField1Tag {
		t.Fatalf("expected %s, got %s", RuleField1Tag, RuleID(err))
	}
}

func TestParse_Field2WrongNumber(t *testing.T) {
	// Tag byte 0x1a is field 3 with wire type 2.
	b := []byte{0x08, 0x00, 0x1a, 0x01, 0x30}
	_, err := Parse(b)
	if RuleID(err) != RuleField2Tag {
		t.Fatalf("expected %s, got %v", RuleField2Tag, err)
	}
}

func TestParse_MalformedVarintWrapsSentinel(t *testing.T) {
	_, err := Parse([]byte{0x08, 0x80})
	if !IsKind(err, KindMalformed) {
		t.Fatalf("expected KindMalformed, got %v", err)
	}
	if !errors.Is(err, varint.ErrMalformed) {
		t.Fatalf("expected error to wrap varint.ErrMalformed")
	}
}

func TestParse_HugeDeclaredLength(t *testing.T) {
	b := []byte{0x08, 0x00, 0x12}
	b = varint.Append(b, 1<<40)
	b = append(b, 0x30)
	_, err := Parse(b)
	if RuleID(err) != RuleShortPayload {
		t.Fatalf("expected %s, got %v", RuleShortPayload, err)
	}
}

func TestParseHeader_Offsets(t *testing.T) {
	data := bytes.Repeat([]byte{0x30}, 200)
	b := Marshal(RSA, data)
	h, err := ParseHeader(b)
	if err != nil {
		t.Fatalf("ParseHeader: %v", err)
	}
	if h.KindTag != 0x08 || h.DataTag != 0x12 {
		t.Fatalf("unexpected tags: %#x %#x", h.KindTag, h.DataTag)
	}
	if h.DataLen != 200 || h.DataOffset != 5 {
		t.Fatalf("unexpected framing: len=%d off=%d", h.DataLen, h.DataOffset)
	}
	if !bytes.Equal(b[h.DataOffset:], data) {
		t.Fatalf("payload offset does not point at the data")
	}
}

func TestKeyKind_String(t *testing.T) {
	cases := map[KeyKind]string{
		RSA:       "RSA",
		Ed25519:   "Ed25519",
		Secp256k1: "Secp256k1",
		ECDSA:     "ECDSA",
		9:         "unknown(9)",
	}
	for k, want := range cases {
		if got := k.String(); got != want {
			t.Fatalf("KeyKind(%d).String() = %q, want %q", uint64(k), got, want)
		}
	}
	if KeyKind(4).Known() {
		t.Fatalf("KeyKind(4) should not be known")
	}
}
