package largeint

import (
	"encoding/hex"
	"strings"

	"github.com/pkg/errors"
)

// Int is an immutable arbitrary-precision signed integer.
//
// The value is held as a big-endian two's-complement byte sequence: the high
// bit of the first byte is the sign. The zero value is the integer 0. Every
// operation returns a new Int; the backing bytes are never modified after
// construction, so Ints may be shared freely between goroutines.
type Int struct {
	b []byte
}

var zeroBytes = []byte{0x00}

var (
	zero     = Int{b: []byte{0x00}}
	one      = Int{b: []byte{0x01}}
	two      = Int{b: []byte{0x02}}
	minusOne = Int{b: []byte{0xff}}
)

// New returns an Int holding a copy of the given two's-complement bytes.
// An empty slice yields zero.
func New(twos []byte) Int {
	if len(twos) == 0 {
		return zero
	}
	b := make([]byte, len(twos))
	copy(b, twos)
	return Int{b: b}
}

// SetBytes interprets buf as an unsigned big-endian integer and returns it
// in normalized form.
func SetBytes(buf []byte) Int {
	if len(buf) == 0 {
		return zero
	}
	b := make([]byte, len(buf)+1)
	copy(b[1:], buf)
	return Int{b: b}.Normalize()
}

// FromInt64 returns the Int with value v.
func FromInt64(v int64) Int {
	b := make([]byte, 8)
	for i := 7; i >= 0; i-- {
		b[i] = byte(v)
		v >>= 8
	}
	return Int{b: b}.Normalize()
}

func (x Int) val() []byte {
	if len(x.b) == 0 {
		return zeroBytes
	}
	return x.b
}

// Len returns the number of bytes in the current encoding of x.
func (x Int) Len() int {
	return len(x.val())
}

// IsNegative reports whether the sign bit of x is set.
func (x Int) IsNegative() bool {
	return x.val()[0]&0x80 != 0
}

// IsZero reports whether x == 0.
func (x Int) IsZero() bool {
	for _, c := range x.val() {
		if c != 0 {
			return false
		}
	}
	return true
}

// Sign returns -1, 0 or +1 depending on the sign of x.
func (x Int) Sign() int {
	switch {
	case x.IsNegative():
		return -1
	case x.IsZero():
		return 0
	default:
		return 1
	}
}

// signFill is the byte that sign-extends x.
func (x Int) signFill() byte {
	if x.IsNegative() {
		return 0xff
	}
	return 0x00
}

// extend returns x one byte longer with fill as the new most significant byte.
func (x Int) extend(fill byte) Int {
	v := x.val()
	b := make([]byte, len(v)+1)
	b[0] = fill
	copy(b[1:], v)
	return Int{b: b}
}

// Normalize returns x without redundant sign-extension bytes. A leading 0x00
// is redundant when the next byte's high bit is clear, a leading 0xFF when it
// is set. The result is never shorter than one byte.
func (x Int) Normalize() Int {
	v := x.val()
	i := 0
	for len(v)-i > 1 && redundant(v[i], v[i+1]) {
		i++
	}
	return Int{b: v[i:]}
}

func redundant(lead, next byte) bool {
	return (lead == 0x00 && next&0x80 == 0) || (lead == 0xff && next&0x80 != 0)
}

// Bytes returns the normalized two's-complement encoding of x.
func (x Int) Bytes() []byte {
	v := x.Normalize().val()
	out := make([]byte, len(v))
	copy(out, v)
	return out
}

// Resize returns x as an unsigned big-endian integer of exactly width bytes,
// left-padded with zeros.
//
// It fails with ErrOverflow when x is negative or its magnitude needs more
// than width bytes; the value is never truncated.
func (x Int) Resize(width int) ([]byte, error) {
	if x.IsNegative() {
		return nil, errors.WithMessage(ErrOverflow, "negative value has no unsigned encoding")
	}
	v := x.Normalize().val()
	if len(v) > 1 && v[0] == 0x00 {
		v = v[1:]
	}
	if len(v) > width {
		return nil, errors.Wrapf(ErrOverflow, "%d byte value into %d byte field", len(v), width)
	}
	out := make([]byte, width)
	copy(out[width-len(v):], v)
	return out, nil
}

// Bit returns bit i (0 = least significant) of the two's-complement encoding
// of x, sign-extended past its length.
func (x Int) Bit(i int) uint {
	v := x.val()
	idx := len(v) - 1 - i/8
	if idx < 0 {
		if x.IsNegative() {
			return 1
		}
		return 0
	}
	return uint(v[idx]>>(uint(i)%8)) & 1
}

// BitLen returns the length of the absolute value of x in bits. The bit
// length of 0 is 0.
func (x Int) BitLen() int {
	v := x.Abs().Normalize().val()
	for i, c := range v {
		if c == 0 {
			continue
		}
		n := 0
		for ; c != 0; c >>= 1 {
			n++
		}
		return (len(v)-1-i)*8 + n
	}
	return 0
}

// String returns x in hexadecimal with a 0x prefix, e.g. "-0x1f".
func (x Int) String() string {
	mag, _ := x.Abs().Resize(x.Len() + 1)
	s := strings.TrimLeft(hex.EncodeToString(mag), "0")
	if s == "" {
		s = "0"
	}
	if x.IsNegative() {
		return "-0x" + s
	}
	return "0x" + s
}
