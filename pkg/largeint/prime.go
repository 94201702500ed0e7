package largeint

import (
	"io"

	"github.com/pkg/errors"
)

// DefaultPrimeRounds bounds the Miller-Rabin false positive rate by 4^-50 = 2^-100.
const DefaultPrimeRounds = 50

var smallPrimes = []uint32{
	2, 3, 5, 7, 11, 13, 17, 19, 23, 29, 31, 37, 41, 43, 47, 53,
	59, 61, 67, 71, 73, 79, 83, 89, 97, 101, 103, 107, 109, 113, 127, 131,
	137, 139, 149, 151, 157, 163, 167, 173, 179, 181, 191, 193, 197, 199, 211, 223,
	227, 229, 233, 239, 241, 251,
}

// modWord returns x mod d for a non-negative x.
func (x Int) modWord(d uint32) uint32 {
	var r uint64
	for _, c := range x.val() {
		r = (r<<8 | uint64(c)) % uint64(d)
	}
	return uint32(r)
}

// ProbablyPrime reports whether x is probably prime.
//
// Candidates are first screened by trial division with the primes below 256,
// then tested with the given number of Miller-Rabin rounds using random bases
// read from rnd. A composite passes with probability at most 4^-rounds.
func (x Int) ProbablyPrime(rounds int, rnd io.Reader) (bool, error) {
	if rounds < 0 {
		return false, errors.Errorf("largeint: negative round count %d", rounds)
	}
	if x.Sign() <= 0 {
		return false, nil
	}
	n := x.Normalize()

	for _, p := range smallPrimes {
		if n.modWord(p) == 0 {
			return n.Equal(FromInt64(int64(p))), nil
		}
	}
	if n.BitLen() <= 16 {
		// no factor below 256 and n < 65536 = 256^2
		return !n.Equal(one), nil
	}

	nm1 := n.Sub(one).Normalize()
	d, s := nm1, 0
	for d.Bit(0) == 0 {
		d = d.Rsh()
		s++
	}
	// bases are drawn from [2, n-2]
	baseRange := n.Sub(FromInt64(3)).Normalize()

	for i := 0; i < rounds; i++ {
		r, err := RandomBelow(rnd, baseRange)
		if err != nil {
			return false, errors.WithMessage(err, "failed to draw Miller-Rabin base")
		}
		a := r.Add(two)

		y, err := ModExp(a, d, n)
		if err != nil {
			return false, err
		}
		if y.Equal(one) || y.Equal(nm1) {
			continue
		}
		witness := true
		for j := 1; j < s; j++ {
			y = reduce(y.Mul(y), n)
			if y.Equal(nm1) {
				witness = false
				break
			}
			if y.Equal(one) {
				break
			}
		}
		if witness {
			return false, nil
		}
	}
	return true, nil
}
