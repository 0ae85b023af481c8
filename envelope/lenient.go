package envelope

import (
	"bytes"
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

// ParseLenient decodes b with ordinary protobuf rules: fields may appear in
// any order, unknown fields are skipped and the last occurrence of a field
// wins. Both fields must still be present with the expected wire types.
//
// Use this for key files written by a general protobuf encoder that may add
// fields Parse would reject.
func ParseLenient(b []byte) (*Envelope, error) {
	if len(b) == 0 {
		return nil, newError(KindTruncated, RuleEmptyInput, "envelope: input is empty")
	}
	var (
		env             Envelope
		haveKind, haveD bool
	)
	for off := 0; off < len(b); {
		num, typ, n := protowire.ConsumeTag(b[off:])
		if n < 0 {
			return nil, protowireError("field tag", off, n)
		}
		off += n

		switch {
		case num == FieldKind && typ == protowire.VarintType:
			v, m := protowire.ConsumeVarint(b[off:])
			if m < 0 {
				return nil, protowireError("key kind", off, m)
			}
			env.Kind = KeyKind(v)
			haveKind = true
			off += m
		case num == FieldData && typ == protowire.BytesType:
			v, m := protowire.ConsumeBytes(b[off:])
			if m < 0 {
				return nil, protowireError("key data", off, m)
			}
			env.Data = bytes.Clone(v)
			haveD = true
			off += m
		case num == FieldKind:
			return nil, newError(KindBadFieldTag, RuleField1Tag, fmt.Sprintf(
				"envelope: field 1 has wire type %d, want 0", typ))
		case num == FieldData:
			return nil, newError(KindBadFieldTag, RuleField2Tag, fmt.Sprintf(
				"envelope: field 2 has wire type %d, want 2", typ))
		default:
			m := protowire.ConsumeFieldValue(num, typ, b[off:])
			if m < 0 {
				return nil, protowireError(fmt.Sprintf("field %d", num), off, m)
			}
			off += m
		}
	}
	if !haveKind || !haveD {
		return nil, newError(KindBadFieldTag, RuleMissingField, "envelope: key kind and key data fields are both required")
	}
	if env.Data == nil {
		env.Data = []byte{}
	}
	return &env, nil
}

// Field is one raw field as seen by a general protobuf reader.
type Field struct {
	Number   protowire.Number
	WireType protowire.Type
	Offset   int
	// Varint holds the value of varint fields.
	Varint uint64
	// Bytes holds the payload of length-delimited fields.
	Bytes []byte
	// Len is the encoded size of the field, tag included.
	Len int
}

// Fields lists every top-level field in b. It is meant for diagnostics on
// files that fail Parse.
func Fields(b []byte) ([]Field, error) {
	var out []Field
	for off := 0; off < len(b); {
		num, typ, n := protowire.ConsumeTag(b[off:])
		if n < 0 {
			return out, protowireError("field tag", off, n)
		}
		f := Field{Number: num, WireType: typ, Offset: off}
		var m int
		switch typ {
		case protowire.VarintType:
			f.Varint, m = protowire.ConsumeVarint(b[off+n:])
		case protowire.BytesType:
			var v []byte
			v, m = protowire.ConsumeBytes(b[off+n:])
			f.Bytes = bytes.Clone(v)
		default:
			m = protowire.ConsumeFieldValue(num, typ, b[off+n:])
		}
		if m < 0 {
			return out, protowireError(fmt.Sprintf("field %d", num), off, m)
		}
		f.Len = n + m
		out = append(out, f)
		off += f.Len
	}
	return out, nil
}

func protowireError(what string, off, code int) error {
	cause := protowire.ParseError(code)
	msg := fmt.Sprintf("envelope: %s at offset %d: %v", what, off, cause)
	switch code {
	case -1: // unexpected EOF
		return wrapError(KindTruncated, RuleShortPayload, msg, cause)
	case -3:
		return wrapError(KindMalformed, RuleVarintOverflow, msg, cause)
	default:
		return wrapError(KindMalformed, RuleProtobuf, msg, cause)
	}
}
