package envelope

import "errors"

// Kind groups parse failures by what went wrong with the framing. Kinds and
// rule IDs do not change between releases; messages may.
type Kind string

const (
	// KindMalformed: a varint ran past the end of the input or could not be
	// decoded.
	KindMalformed Kind = "Malformed"
	// KindBadFieldTag: wrong field number or wire type at field 1 or field 2.
	KindBadFieldTag Kind = "BadFieldTag"
	// KindLengthMismatch: bytes remain after the declared payload.
	KindLengthMismatch Kind = "LengthMismatch"
	// KindTruncated: the input ends before a field or before the declared payload.
	KindTruncated Kind = "Truncated"
)

// Rule IDs name the individual framing check that failed.
const (
	RuleVarintPastEnd   = "ENV-VARINT-001"
	RuleVarintOverflow  = "ENV-VARINT-002"
	RuleField1Tag       = "ENV-TAG-001"
	RuleField2Tag       = "ENV-TAG-002"
	RuleMissingField    = "ENV-TAG-003"
	RuleTrailingBytes   = "ENV-LEN-001"
	RuleShortPayload    = "ENV-LEN-002"
	RuleEmptyInput      = "ENV-STR-001"
	RuleMissingKeyField = "ENV-STR-002"
	RuleProtobuf        = "ENV-PB-001"
)

// Error is returned by every parser in this package. Branch on Kind or
// RuleID; Message is for display only. Cause holds the underlying varint or
// protowire error when there is one.
type Error struct {
	Kind    Kind
	RuleID  string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e != nil {
		return e.Message
	}
	return "<nil>"
}

func (e *Error) Unwrap() error {
	if e != nil {
		return e.Cause
	}
	return nil
}

func newError(kind Kind, rule, msg string) error {
	return wrapError(kind, rule, msg, nil)
}

func wrapError(kind Kind, rule, msg string, cause error) error {
	return &Error{Kind: kind, RuleID: rule, Message: msg, Cause: cause}
}

// IsKind reports whether err carries an *Error of the given kind anywhere in
// its chain.
func IsKind(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}

// IsTruncation reports whether err belongs to the truncation class: the input
// ended early, either inside a varint or before the declared payload.
func IsTruncation(err error) bool {
	return IsKind(err, KindTruncated) || IsKind(err, KindMalformed)
}

// RuleID extracts the rule ID from err's chain. Errors that did not come from
// this package yield "".
func RuleID(err error) string {
	if e := (*Error)(nil); errors.As(err, &e) {
		return e.RuleID
	}
	return ""
}
