// Package selftest cross-checks the largeint arithmetic against the
// fixed-width modular arithmetic of the secp256k1 implementation.
//
// Both secp256k1 moduli are 256 bits wide, the same size as an RSA prime
// factor, so every check exercises the multiplication, reduction and
// inversion paths used by key generation and signing.
package selftest

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	"io"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/mahdiidarabi/largeint-rsa/pkg/largeint"
)

// ErrMismatch is returned when largeint disagrees with the reference.
var ErrMismatch = errors.New("selftest: arithmetic mismatch")

// DefaultRounds is the number of random operand pairs checked by default.
const DefaultRounds = 4

var (
	// curve group order
	orderN = mustHex("fffffffffffffffffffffffffffffffebaaedce6af48a03bbfd25e8cd0364141")

	// field prime
	primeP = mustHex("fffffffffffffffffffffffffffffffffffffffffffffffffffffffefffffc2f")
)

func mustHex(s string) largeint.Int {
	b, err := hex.DecodeString(s)
	if err != nil {
		panic(err)
	}
	return largeint.SetBytes(b)
}

// Config configures a self-test run.
type Config struct {
	Rounds int       // 0 = DefaultRounds
	Rand   io.Reader // nil = crypto/rand.Reader
	Logger *zap.Logger
}

// Run checks random products, inverses and Fermat exponentiations modulo
// both the secp256k1 group order and field prime.
func Run(ctx context.Context, cfg Config) error {
	if cfg.Rounds <= 0 {
		cfg.Rounds = DefaultRounds
	}
	if cfg.Rand == nil {
		cfg.Rand = rand.Reader
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	for i := 0; i < cfg.Rounds; i++ {
		if err := ctx.Err(); err != nil {
			return errors.Wrap(err, "selftest interrupted")
		}

		a, err := largeint.Random(cfg.Rand, 256)
		if err != nil {
			return err
		}
		b, err := largeint.Random(cfg.Rand, 256)
		if err != nil {
			return err
		}

		if err := CheckScalar(a, b); err != nil {
			return errors.WithMessagef(err, "round %d", i)
		}
		if err := CheckField(a, b); err != nil {
			return errors.WithMessagef(err, "round %d", i)
		}
		cfg.Logger.Debug("selftest round passed", zap.Int("round", i))
	}

	cfg.Logger.Info("arithmetic selftest passed", zap.Int("rounds", cfg.Rounds))
	return nil
}

// CheckScalar compares a*b, a^-1 and a^(N-2) modulo the group order N.
// Operands must be non-negative and at most 256 bits.
func CheckScalar(a, b largeint.Int) error {
	ab, bb, err := operands(a, b)
	if err != nil {
		return err
	}

	var sa, sb secp256k1.ModNScalar
	sa.SetBytes(ab)
	sb.SetBytes(bb)

	product := new(secp256k1.ModNScalar).Mul2(&sa, &sb).Bytes()
	if err := compare("scalar mul", a.Mul(b), orderN, product[:]); err != nil {
		return err
	}

	if sa.IsZero() {
		return nil
	}
	inverse := new(secp256k1.ModNScalar).Set(&sa).InverseNonConst().Bytes()
	got, err := largeint.ModInverse(a, orderN)
	if err != nil {
		return errors.WithMessage(err, "scalar inverse")
	}
	if err := compare("scalar inverse", got, orderN, inverse[:]); err != nil {
		return err
	}

	// Fermat: a^(N-2) == a^-1
	got, err = largeint.ModExp(a, orderN.Sub(largeint.FromInt64(2)), orderN)
	if err != nil {
		return errors.WithMessage(err, "scalar exp")
	}
	return compare("scalar exp", got, orderN, inverse[:])
}

// CheckField compares a*b, a^-1 and a^(P-2) modulo the field prime P.
// Operands must be non-negative and at most 256 bits.
func CheckField(a, b largeint.Int) error {
	ab, bb, err := operands(a, b)
	if err != nil {
		return err
	}

	var fa, fb secp256k1.FieldVal
	fa.SetBytes(ab)
	fb.SetBytes(bb)
	fa.Normalize()
	fb.Normalize()

	product := new(secp256k1.FieldVal).Mul2(&fa, &fb).Normalize().Bytes()
	if err := compare("field mul", a.Mul(b), primeP, product[:]); err != nil {
		return err
	}

	if fa.IsZero() {
		return nil
	}
	inverse := new(secp256k1.FieldVal).Set(&fa).Inverse().Normalize().Bytes()
	got, err := largeint.ModInverse(a, primeP)
	if err != nil {
		return errors.WithMessage(err, "field inverse")
	}
	if err := compare("field inverse", got, primeP, inverse[:]); err != nil {
		return err
	}

	got, err = largeint.ModExp(a, primeP.Sub(largeint.FromInt64(2)), primeP)
	if err != nil {
		return errors.WithMessage(err, "field exp")
	}
	return compare("field exp", got, primeP, inverse[:])
}

func operands(a, b largeint.Int) (*[32]byte, *[32]byte, error) {
	ab, err := a.Resize(32)
	if err != nil {
		return nil, nil, errors.WithMessage(err, "selftest operand")
	}
	bb, err := b.Resize(32)
	if err != nil {
		return nil, nil, errors.WithMessage(err, "selftest operand")
	}
	var x, y [32]byte
	copy(x[:], ab)
	copy(y[:], bb)
	return &x, &y, nil
}

// compare reduces got modulo m and checks it against the 32-byte reference.
func compare(op string, got, m largeint.Int, want []byte) error {
	r, err := got.Mod(m)
	if err != nil {
		return err
	}
	enc, err := r.Resize(32)
	if err != nil {
		return err
	}
	if !bytes.Equal(enc, want) {
		return errors.Wrapf(ErrMismatch, "%s: got %x, want %x", op, enc, want)
	}
	return nil
}
