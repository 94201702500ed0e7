package rsasign

import (
	"crypto/sha256"

	"github.com/pkg/errors"

	"github.com/mahdiidarabi/largeint-rsa/pkg/largeint"
)

// DigestSize is the size of a SHA-256 digest.
const DigestSize = sha256.Size

// HashFunc computes the digest that gets signed.
type HashFunc func(data []byte) [DigestSize]byte

// Digest hashes a message using SHA-256.
func Digest(message []byte) [DigestSize]byte {
	return sha256.Sum256(message)
}

// digestInt reads the digest as an unsigned big-endian integer reduced mod n.
func digestInt(digest []byte, n largeint.Int) (largeint.Int, error) {
	c, err := largeint.SetBytes(digest).Mod(n)
	if err != nil {
		return largeint.Int{}, errors.WithMessage(err, "invalid modulus")
	}
	return c, nil
}

// Sign computes c^d mod n, where c is the digest mod n.
//
// Args:
//   - priv: Private key
//   - digest: Message digest, usually from Digest
//
// Returns:
//   - Signature in [0, n)
func Sign(priv *PrivateKey, digest []byte) (largeint.Int, error) {
	if priv.N.Cmp(largeint.FromInt64(1)) <= 0 {
		return largeint.Int{}, errors.Errorf("modulus %s is not usable", priv.N)
	}
	c, err := digestInt(digest, priv.N)
	if err != nil {
		return largeint.Int{}, err
	}
	sig, err := largeint.ModExp(c, priv.D, priv.N)
	if err != nil {
		return largeint.Int{}, errors.WithMessage(err, "failed to sign digest")
	}
	return sig, nil
}

// Verify reports whether sig^e mod n equals the digest mod n.
// Signatures outside [0, n) never verify.
func Verify(pub *PublicKey, digest []byte, sig largeint.Int) bool {
	if pub.N.Cmp(largeint.FromInt64(1)) <= 0 {
		return false
	}
	if sig.IsNegative() || sig.Cmp(pub.N) >= 0 {
		return false
	}
	c, err := digestInt(digest, pub.N)
	if err != nil {
		return false
	}
	m, err := largeint.ModExp(sig, pub.E, pub.N)
	if err != nil {
		return false
	}
	return m.Equal(c)
}
