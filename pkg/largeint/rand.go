package largeint

import (
	"io"

	"github.com/pkg/errors"
)

// maxRejections bounds RandomBelow against readers that never produce an
// in-range value.
const maxRejections = 1000

// Random returns a uniformly random non-negative Int below 2^bits, read from rnd.
func Random(rnd io.Reader, bits int) (Int, error) {
	if bits <= 0 {
		return zero, nil
	}
	buf := make([]byte, (bits+7)/8)
	if _, err := io.ReadFull(rnd, buf); err != nil {
		return Int{}, errors.Wrap(err, "failed to read random bytes")
	}
	if extra := len(buf)*8 - bits; extra > 0 {
		buf[0] &= 0xff >> uint(extra)
	}
	return SetBytes(buf), nil
}

// RandomCandidate returns a random odd Int of exactly bits bits whose two top
// bits are set, so that the product of two candidates has exactly 2*bits bits.
func RandomCandidate(rnd io.Reader, bits int) (Int, error) {
	if bits < 2 {
		return Int{}, errors.Errorf("largeint: candidate needs at least 2 bits, got %d", bits)
	}
	buf := make([]byte, (bits+7)/8)
	if _, err := io.ReadFull(rnd, buf); err != nil {
		return Int{}, errors.Wrap(err, "failed to read random bytes")
	}
	if extra := len(buf)*8 - bits; extra > 0 {
		buf[0] &= 0xff >> uint(extra)
	}
	setBit(buf, bits-1)
	setBit(buf, bits-2)
	buf[len(buf)-1] |= 1
	return SetBytes(buf), nil
}

// setBit sets bit i (0 = least significant) of the big-endian buffer.
func setBit(buf []byte, i int) {
	buf[len(buf)-1-i/8] |= 1 << uint(i%8)
}

// RandomBelow returns a uniformly random Int in [0, n). n must be positive.
func RandomBelow(rnd io.Reader, n Int) (Int, error) {
	if n.Sign() <= 0 {
		return Int{}, errors.Errorf("largeint: random bound %s is not positive", n)
	}
	bits := n.BitLen()
	for i := 0; i < maxRejections; i++ {
		r, err := Random(rnd, bits)
		if err != nil {
			return Int{}, err
		}
		if r.Cmp(n) < 0 {
			return r, nil
		}
	}
	return Int{}, errors.Errorf("largeint: no value below %s after %d draws", n, maxRejections)
}
