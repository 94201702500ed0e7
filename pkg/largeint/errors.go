package largeint

import "github.com/pkg/errors"

var (
	// ErrDivisionByZero is returned by Div, Mod, QuoRem and ModExp when the
	// divisor or modulus is zero.
	ErrDivisionByZero = errors.New("largeint: division by zero")

	// ErrNegativeExponent is returned by ModExp for any negative exponent
	// other than -1 (which requests a modular inverse).
	ErrNegativeExponent = errors.New("largeint: negative exponent")

	// ErrNotInvertible is returned when a modular inverse does not exist,
	// i.e. gcd(a, m) != 1.
	ErrNotInvertible = errors.New("largeint: value is not invertible")

	// ErrOverflow is returned by Resize when the value cannot be encoded
	// as an unsigned integer of the requested width.
	ErrOverflow = errors.New("largeint: value does not fit")
)
