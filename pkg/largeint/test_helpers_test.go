package largeint

import (
	"math/big"
	"math/rand"
)

// toBig converts x through its two's-complement bytes. Tests only use
// math/big as an oracle.
func toBig(x Int) *big.Int {
	b := x.Bytes()
	v := new(big.Int).SetBytes(b)
	if x.IsNegative() {
		v.Sub(v, new(big.Int).Lsh(big.NewInt(1), uint(len(b)*8)))
	}
	return v
}

// bigString renders x in decimal through the oracle.
func bigString(x Int) string {
	return toBig(x).String()
}

// randomInt returns a signed Int of 1..maxLen random two's-complement bytes.
func randomInt(rng *rand.Rand, maxLen int) Int {
	buf := make([]byte, 1+rng.Intn(maxLen))
	rng.Read(buf)
	return New(buf)
}

// randomNonZero is randomInt that never returns zero.
func randomNonZero(rng *rand.Rand, maxLen int) Int {
	for {
		if x := randomInt(rng, maxLen); !x.IsZero() {
			return x
		}
	}
}

func newTestRand() *rand.Rand {
	return rand.New(rand.NewSource(20240601))
}
