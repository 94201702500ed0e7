package primegen

import (
	"context"
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// constReader yields the same byte forever; candidates drawn from it are
// all 2^bits - 1, which is divisible by 3 for even bit lengths.
type constReader byte

func (c constReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = byte(c)
	}
	return len(p), nil
}

func TestSearch(t *testing.T) {
	res, err := Search(context.Background(), Config{
		Bits:          64,
		Rounds:        20,
		MaxCandidates: 10000,
		NumWorkers:    4,
		Logger:        zaptest.NewLogger(t),
	})
	require.NoError(t, err)
	require.NotNil(t, res)

	assert.Equal(t, 64, res.Prime.BitLen())
	assert.GreaterOrEqual(t, res.Candidates, int64(1))

	ok, err := res.Prime.ProbablyPrime(20, rand.Reader)
	require.NoError(t, err)
	assert.True(t, ok, "%s should be prime", res.Prime)
}

func TestSearch_SingleWorker(t *testing.T) {
	res, err := Search(context.Background(), Config{
		Bits:          32,
		MaxCandidates: 10000,
		NumWorkers:    1,
	})
	require.NoError(t, err)
	assert.Equal(t, 32, res.Prime.BitLen())
}

func TestSearch_Exhausted(t *testing.T) {
	_, err := Search(context.Background(), Config{
		Bits:          64,
		MaxCandidates: 5,
		NumWorkers:    2,
		Rand:          constReader(0xff),
	})
	require.ErrorIs(t, err, ErrExhausted)
}

func TestSearch_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Search(ctx, Config{
		Bits:          64,
		MaxCandidates: 1000,
		NumWorkers:    2,
		Rand:          constReader(0xff),
	})
	require.ErrorIs(t, err, context.Canceled)
}

func TestSearch_InvalidLimit(t *testing.T) {
	_, err := Search(context.Background(), Config{Bits: 64})
	require.Error(t, err)
}
