package largeint

import "github.com/pkg/errors"

// XGCD runs the extended Euclidean algorithm on a and b.
//
// Returns:
//   - g: gcd(a, b)
//   - x, y: Bezout coefficients such that a*x + b*y == g
func XGCD(a, b Int) (g, x, y Int) {
	if b.IsZero() {
		return a.Normalize(), one, zero
	}
	q, r := a.quoRem(b)
	g, x1, y1 := XGCD(b, r)
	return g, y1.Normalize(), x1.Sub(q.Mul(y1)).Normalize()
}

// ModInverse returns the inverse of a modulo m in [0, m).
//
// The inverse is the second Bezout coefficient of XGCD(m, a), shifted into
// range when negative. ErrNotInvertible is returned when gcd(m, a) != 1.
func ModInverse(a, m Int) (Int, error) {
	if m.IsZero() {
		return Int{}, ErrDivisionByZero
	}
	g, _, y := XGCD(m, a)
	if !g.Equal(one) && !g.Equal(minusOne) {
		return Int{}, errors.Wrapf(ErrNotInvertible, "gcd is %s", g)
	}
	if g.IsNegative() {
		y = y.Neg()
	}
	if y.IsNegative() {
		y = y.Add(m.Abs())
	}
	return y.Normalize(), nil
}

// ModExp returns base^exp mod m by square-and-multiply.
//
// An exponent of exactly -1 requests the modular inverse of base. Any other
// negative exponent is rejected with ErrNegativeExponent. For a positive
// modulus the result lies in [0, m).
func ModExp(base, exp, m Int) (Int, error) {
	if m.IsZero() {
		return Int{}, ErrDivisionByZero
	}
	if exp.Equal(minusOne) {
		return ModInverse(base, m)
	}
	if exp.IsNegative() {
		return Int{}, errors.Wrapf(ErrNegativeExponent, "exponent %s", exp)
	}

	result := reduce(one, m)
	value := reduce(base, m)
	for pow := exp.Normalize(); !pow.IsZero(); {
		if pow.Bit(0) == 1 {
			result = reduce(result.Mul(value), m)
		}
		pow = pow.Rsh()
		if !pow.IsZero() {
			value = reduce(value.Mul(value), m)
		}
	}
	return result.Normalize(), nil
}

// reduce returns x mod m moved into [0, |m|). m must be non-zero.
func reduce(x, m Int) Int {
	_, r := x.quoRem(m)
	if r.IsNegative() {
		r = r.Add(m.Abs()).Normalize()
	}
	return r
}
