// Package largeint implements an arbitrary-precision signed integer built
// from first principles, together with the number theory RSA needs.
//
// Values are immutable big-endian two's-complement byte sequences. Addition
// and subtraction may leave one redundant guard byte; call Normalize when the
// canonical (shortest) encoding matters. Equal and Cmp compare values, so
// they are insensitive to guard bytes.
//
// # Quick Start
//
//	a := largeint.FromInt64(17)
//	b := largeint.FromInt64(5)
//
//	q, _ := a.Div(b)      // 3
//	r, _ := a.Mod(b)      // 2
//	p := a.Mul(b.Neg())   // -85
//
//	g, x, y := largeint.XGCD(largeint.FromInt64(35), largeint.FromInt64(15))
//	// g = 5, x = 1, y = -2
//
// # Modular Arithmetic
//
// ModExp uses square-and-multiply. An exponent of -1 asks for the modular
// inverse:
//
//	inv, err := largeint.ModExp(e, largeint.FromInt64(-1), phi)
//
// Division truncates toward zero and the remainder keeps the sign of the
// dividend, so Mod(-7, 3) == -1. Division by zero returns ErrDivisionByZero.
//
// # Primes
//
// ProbablyPrime screens by trial division and then runs Miller-Rabin with
// random bases; DefaultPrimeRounds gives a 2^-100 false positive bound.
//
// The implementation favors clarity over speed: multiplication is
// shift-and-add and division is restoring long division.
package largeint
