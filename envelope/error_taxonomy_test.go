package envelope

import (
	"errors"
	"testing"
)

func TestParse_ErrorTaxonomy(t *testing.T) {
	cases := []struct {
		name string
		in   []byte
		kind Kind
		rule string
	}{
		{"empty", nil, KindTruncated, RuleEmptyInput},
		{"field1 varint past end", []byte{0x88}, KindMalformed, RuleVarintPastEnd},
		{"field1 wire type", []byte{0x09, 0x00}, KindBadFieldTag, RuleField1Tag},
		{"field1 number", []byte{0x10, 0x00}, KindBadFieldTag, RuleField1Tag},
		{"kind past end", []byte{0x08}, KindMalformed, RuleVarintPastEnd},
		{"kind overflow", []byte{0x08, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0x7f}, KindMalformed, RuleVarintOverflow},
		{"no data field", []byte{0x08, 0x00}, KindTruncated, RuleMissingKeyField},
		{"field2 wire type", []byte{0x08, 0x00, 0x10, 0x00}, KindBadFieldTag, RuleField2Tag},
		{"length past end", []byte{0x08, 0x00, 0x12}, KindMalformed, RuleVarintPastEnd},
		{"short payload", []byte{0x08, 0x00, 0x12, 0x02, 0x30}, KindTruncated, RuleShortPayload},
		{"trailing bytes", []byte{0x08, 0x00, 0x12, 0x00, 0x00}, KindLengthMismatch, RuleTrailingBytes},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse(tc.in)
			if err == nil {
				t.Fatalf("expected error")
			}
			var e *Error
			if !errors.As(err, &e) {
				t.Fatalf("expected structured *envelope.Error, got %T", err)
			}
			if e.Kind != tc.kind {
				t.Fatalf("expected %s, got %s", tc.kind, e.Kind)
			}
			if e.RuleID != tc.rule {
				t.Fatalf("expected RuleID %s, got %s", tc.rule, e.RuleID)
			}
			if e.Error() == "" {
				t.Fatalf("empty message")
			}
		})
	}
}

func TestError_NilSafe(t *testing.T) {
	var e *Error
	if e.Error() != "<nil>" {
		t.Fatalf("nil Error() = %q", e.Error())
	}
	if e.Unwrap() != nil {
		t.Fatalf("nil Unwrap() should be nil")
	}
	if IsKind(errors.New("plain"), KindMalformed) {
		t.Fatalf("plain error should not match a Kind")
	}
	if RuleID(errors.New("plain")) != "" {
		t.Fatalf("plain error should have no RuleID")
	}
}
