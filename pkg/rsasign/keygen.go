package rsasign

import (
	"context"
	"crypto/rand"
	"io"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/mahdiidarabi/largeint-rsa/internal/primegen"
	"github.com/mahdiidarabi/largeint-rsa/pkg/largeint"
)

// MaxPrimeBits is the largest supported prime size. The modulus of two such
// primes fills exactly one 64-byte key file field.
const MaxPrimeBits = 256

// KeyGenConfig bounds and tunes key generation.
type KeyGenConfig struct {
	// PrimeBits is the exact size of p and q; n has twice as many bits.
	PrimeBits int

	// Rounds is the number of Miller-Rabin rounds per prime candidate
	Rounds int

	// MaxAttempts limits how many public exponents are drawn before giving up
	MaxAttempts int

	// MaxCandidates limits the candidates drawn per prime
	MaxCandidates int

	// NumWorkers controls parallelization of the prime search (0 = auto-detect)
	NumWorkers int

	// Timeout bounds the whole generation (0 = no limit)
	Timeout time.Duration
}

// DefaultKeyGenConfig returns the configuration for 512-bit moduli with a
// 2^-100 bound on accepting a composite.
func DefaultKeyGenConfig() KeyGenConfig {
	return KeyGenConfig{
		PrimeBits:     MaxPrimeBits,
		Rounds:        largeint.DefaultPrimeRounds,
		MaxAttempts:   1000,
		MaxCandidates: 100000,
		NumWorkers:    0, // Auto-detect
	}
}

func (c KeyGenConfig) validate() error {
	switch {
	case c.PrimeBits < 4 || c.PrimeBits > MaxPrimeBits:
		return errors.Errorf("prime size must be between 4 and %d bits, got %d", MaxPrimeBits, c.PrimeBits)
	case c.Rounds < 1:
		return errors.Errorf("primality rounds must be positive, got %d", c.Rounds)
	case c.MaxAttempts < 1 || c.MaxCandidates < 1:
		return errors.New("sampling limits must be positive")
	}
	return nil
}

// KeyGenerator produces RSA key pairs.
type KeyGenerator struct {
	config KeyGenConfig
	rand   io.Reader
	logger *zap.Logger
}

// NewKeyGenerator creates a generator with DefaultKeyGenConfig.
func NewKeyGenerator() *KeyGenerator {
	return &KeyGenerator{
		config: DefaultKeyGenConfig(),
		rand:   rand.Reader,
		logger: zap.NewNop(),
	}
}

// WithConfig sets the generation limits.
func (g *KeyGenerator) WithConfig(config KeyGenConfig) *KeyGenerator {
	g.config = config
	return g
}

// WithRand sets the randomness source.
func (g *KeyGenerator) WithRand(r io.Reader) *KeyGenerator {
	g.rand = r
	return g
}

// WithLogger sets the logger.
func (g *KeyGenerator) WithLogger(logger *zap.Logger) *KeyGenerator {
	g.logger = logger
	return g
}

// Config returns the generation limits in use.
func (g *KeyGenerator) Config() KeyGenConfig {
	return g.config
}

// Generate creates a key pair.
//
// p and q are distinct probable primes of PrimeBits bits, n = p*q and
// phi = (p-1)(q-1). The public exponent e is drawn as a random odd value of
// 2*PrimeBits bits and redrawn, keeping p and q, until 1 < e < phi and
// gcd(phi, e) == 1. The private exponent is d = e^-1 mod phi.
//
// Exceeding MaxCandidates for a prime or MaxAttempts for e fails with
// ErrSamplingExhausted. Cancellation of ctx or the configured Timeout stops
// the search with the context error.
func (g *KeyGenerator) Generate(ctx context.Context) (*KeyPair, error) {
	cfg := g.config
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}
	start := time.Now()

	p, err := g.prime(ctx, "p")
	if err != nil {
		return nil, err
	}
	q, err := g.prime(ctx, "q")
	for attempt := 1; err == nil && q.Equal(p); attempt++ {
		if attempt >= cfg.MaxAttempts {
			return nil, errors.Wrap(ErrSamplingExhausted, "second prime kept repeating the first")
		}
		g.logger.Debug("second prime equals first, resampling")
		q, err = g.prime(ctx, "q")
	}
	if err != nil {
		return nil, err
	}

	one := largeint.FromInt64(1)
	n := p.Mul(q)
	phi := p.Sub(one).Mul(q.Sub(one))

	e, d, err := g.exponents(ctx, phi)
	if err != nil {
		return nil, err
	}

	g.logger.Info("key pair generated",
		zap.Int("modulus_bits", n.BitLen()),
		zap.Duration("elapsed", time.Since(start)))

	return &KeyPair{
		Public:  PublicKey{E: e, N: n},
		Private: PrivateKey{D: d, N: n},
	}, nil
}

func (g *KeyGenerator) prime(ctx context.Context, name string) (largeint.Int, error) {
	res, err := primegen.Search(ctx, primegen.Config{
		Bits:          g.config.PrimeBits,
		Rounds:        g.config.Rounds,
		MaxCandidates: g.config.MaxCandidates,
		NumWorkers:    g.config.NumWorkers,
		Rand:          g.rand,
		Logger:        g.logger.With(zap.String("prime", name)),
	})
	if err != nil {
		if errors.Is(err, primegen.ErrExhausted) {
			return largeint.Int{}, errors.Wrapf(ErrSamplingExhausted, "prime %s: %v", name, err)
		}
		return largeint.Int{}, errors.WithMessagef(err, "failed to generate prime %s", name)
	}
	g.logger.Debug("prime generated",
		zap.String("prime", name),
		zap.Int64("candidates", res.Candidates),
		zap.Duration("elapsed", res.Elapsed))
	return res.Prime, nil
}

// exponents draws e until it is a unit modulo phi and returns (e, e^-1 mod phi).
func (g *KeyGenerator) exponents(ctx context.Context, phi largeint.Int) (largeint.Int, largeint.Int, error) {
	one := largeint.FromInt64(1)
	minusOne := largeint.FromInt64(-1)

	for attempt := 0; attempt < g.config.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return largeint.Int{}, largeint.Int{}, errors.Wrap(err, "key generation interrupted")
		}

		e, err := largeint.Random(g.rand, 2*g.config.PrimeBits)
		if err != nil {
			return largeint.Int{}, largeint.Int{}, err
		}
		if e.Bit(0) == 0 {
			e = e.Add(one).Normalize()
		}
		if e.Cmp(one) <= 0 || e.Cmp(phi) >= 0 {
			continue
		}
		if gcd, _, _ := largeint.XGCD(phi, e); !gcd.Abs().Equal(one) {
			continue
		}

		d, err := largeint.ModExp(e, minusOne, phi)
		if err != nil {
			return largeint.Int{}, largeint.Int{}, errors.WithMessage(err, "failed to invert public exponent")
		}
		g.logger.Debug("public exponent selected", zap.Int("attempts", attempt+1))
		return e, d, nil
	}
	return largeint.Int{}, largeint.Int{}, errors.Wrapf(ErrSamplingExhausted, "no public exponent coprime to phi after %d attempts", g.config.MaxAttempts)
}
