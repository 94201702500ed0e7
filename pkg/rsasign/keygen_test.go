package rsasign

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/mahdiidarabi/largeint-rsa/pkg/largeint"
)

// checkKeyPair verifies the algebraic relations of a generated pair.
func checkKeyPair(t *testing.T, pair *KeyPair, primeBits int) {
	t.Helper()
	one := largeint.FromInt64(1)

	assert.True(t, pair.Public.N.Equal(pair.Private.N), "public and private modulus differ")
	assert.Equal(t, 2*primeBits, pair.Public.N.BitLen())
	assert.True(t, pair.Public.E.Cmp(one) > 0, "e must exceed 1")
	assert.Equal(t, uint(1), pair.Public.E.Bit(0), "e must be odd")
	assert.True(t, pair.Public.E.Cmp(pair.Public.N) < 0)
	assert.False(t, pair.Private.D.IsNegative())

	// m^(e*d) == m for a few m
	for _, v := range []int64{2, 3, 65537, 123456789} {
		m := largeint.FromInt64(v)
		c, err := largeint.ModExp(m, pair.Public.E, pair.Public.N)
		require.NoError(t, err)
		back, err := largeint.ModExp(c, pair.Private.D, pair.Private.N)
		require.NoError(t, err)
		assert.True(t, back.Equal(m), "round trip of %d gave %s", v, back)
	}
}

func TestGenerate(t *testing.T) {
	gen := NewKeyGenerator().
		WithConfig(testKeyGenConfig()).
		WithLogger(zaptest.NewLogger(t))

	pair, err := gen.Generate(context.Background())
	require.NoError(t, err)
	checkKeyPair(t, pair, 32)
}

func TestGenerate_SmallPrimes(t *testing.T) {
	cfg := testKeyGenConfig()
	cfg.PrimeBits = 16
	cfg.NumWorkers = 1

	for i := 0; i < 5; i++ {
		pair, err := NewKeyGenerator().WithConfig(cfg).Generate(context.Background())
		require.NoError(t, err)
		checkKeyPair(t, pair, 16)
	}
}

func TestGenerate_FullSize(t *testing.T) {
	if testing.Short() {
		t.Skip("full-size key generation is slow")
	}

	pair, err := NewKeyGenerator().Generate(context.Background())
	require.NoError(t, err)
	checkKeyPair(t, pair, MaxPrimeBits)

	digest := Digest([]byte("full size"))
	sig, err := Sign(&pair.Private, digest[:])
	require.NoError(t, err)
	assert.True(t, Verify(&pair.Public, digest[:], sig))
}

func TestGenerate_SamplingExhausted(t *testing.T) {
	cfg := testKeyGenConfig()
	cfg.MaxCandidates = 3

	// every candidate is 2^32 - 1, which is divisible by 3
	_, err := NewKeyGenerator().
		WithConfig(cfg).
		WithRand(constReader(0xff)).
		Generate(context.Background())
	require.ErrorIs(t, err, ErrSamplingExhausted)
}

func TestGenerate_Timeout(t *testing.T) {
	cfg := DefaultKeyGenConfig()
	cfg.Timeout = time.Nanosecond

	_, err := NewKeyGenerator().WithConfig(cfg).Generate(context.Background())
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestGenerate_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewKeyGenerator().WithConfig(testKeyGenConfig()).Generate(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestGenerate_InvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*KeyGenConfig)
	}{
		{"primes too large", func(c *KeyGenConfig) { c.PrimeBits = 512 }},
		{"primes too small", func(c *KeyGenConfig) { c.PrimeBits = 2 }},
		{"no rounds", func(c *KeyGenConfig) { c.Rounds = 0 }},
		{"no attempts", func(c *KeyGenConfig) { c.MaxAttempts = 0 }},
		{"no candidates", func(c *KeyGenConfig) { c.MaxCandidates = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultKeyGenConfig()
			tt.mutate(&cfg)
			_, err := NewKeyGenerator().WithConfig(cfg).Generate(context.Background())
			require.Error(t, err)
			assert.NotErrorIs(t, err, ErrSamplingExhausted)
		})
	}
}

func TestDefaultKeyGenConfig(t *testing.T) {
	cfg := DefaultKeyGenConfig()
	assert.Equal(t, 256, cfg.PrimeBits)
	assert.Equal(t, 50, cfg.Rounds)
	assert.Equal(t, 1000, cfg.MaxAttempts)
	assert.Equal(t, 100000, cfg.MaxCandidates)
	assert.Equal(t, cfg, NewKeyGenerator().Config())
}
