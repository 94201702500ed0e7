package rsasign

import "github.com/mahdiidarabi/largeint-rsa/pkg/largeint"

// PublicKey is the verification key (e, n).
type PublicKey struct {
	E largeint.Int // public exponent
	N largeint.Int // modulus
}

// PrivateKey is the signing key (d, n).
type PrivateKey struct {
	D largeint.Int // private exponent, e^-1 mod phi(n)
	N largeint.Int // modulus
}

// KeyPair holds both halves of a generated key.
type KeyPair struct {
	Public  PublicKey
	Private PrivateKey
}
