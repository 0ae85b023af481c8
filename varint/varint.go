// Package varint implements the unsigned base-128 varint used to frame key
// envelopes.
//
// Values are written least-significant group first. Every byte except the last
// carries the continuation bit (0x80). The encoding produced by Append is
// minimal: it never carries trailing zero groups.
package varint

import "errors"

// MaxLen is the longest encoding of a uint64.
const MaxLen = 10

var (
	// ErrMalformed is returned when the input ends before a terminating byte.
	ErrMalformed = errors.New("varint: input ends inside a varint")
	// ErrOverflow is returned when a varint does not fit in 64 bits.
	ErrOverflow = errors.New("varint: value overflows 64 bits")
)

// Append appends the encoding of v to b and returns the extended slice.
func Append(b []byte, v uint64) []byte {
	for v >= 0x80 {
		b = append(b, byte(v)|0x80)
		v >>= 7
	}
	return append(b, byte(v))
}

// Encode returns the encoding of v.
func Encode(v uint64) []byte {
	return Append(make([]byte, 0, Len(v)), v)
}

// Len returns the number of bytes Encode(v) produces.
func Len(v uint64) int {
	n := 1
	for v >= 0x80 {
		v >>= 7
		n++
	}
	return n
}

// Decode reads one varint from b starting at off and returns the value and the
// offset of the first byte after it.
func Decode(b []byte, off int) (uint64, int, error) {
	var v uint64
	for i := 0; i < MaxLen; i++ {
		if off < 0 || off >= len(b) {
			return 0, off, ErrMalformed
		}
		c := b[off]
		off++
		if i == MaxLen-1 && c > 1 {
			// The last group may only contribute the top bit.
			return 0, off, ErrOverflow
		}
		v |= uint64(c&0x7f) << (7 * i)
		if c&0x80 == 0 {
			return v, off, nil
		}
	}
	return 0, off, ErrOverflow
}
