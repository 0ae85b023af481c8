package envelope

// Mode selects how much protobuf latitude a parser allows.
//
// Strict mode prefers explicit failure over silent acceptance and is the
// default for key files. Lenient mode follows general protobuf rules.
type Mode int

const (
	Strict Mode = iota
	Lenient
)

func (m Mode) String() string {
	if m == Lenient {
		return "lenient"
	}
	return "strict"
}

// ParseMode parses b with the parser m selects.
func ParseMode(b []byte, m Mode) (*Envelope, error) {
	if m == Lenient {
		return ParseLenient(b)
	}
	return Parse(b)
}
