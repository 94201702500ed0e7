package rsasign

import (
	"context"
	"sync"
	"testing"

	"github.com/mahdiidarabi/largeint-rsa/pkg/largeint"
)

// textbookKey is the classic p=61, q=53, e=17 key.
var textbookKey = KeyPair{
	Public:  PublicKey{E: largeint.FromInt64(17), N: largeint.FromInt64(3233)},
	Private: PrivateKey{D: largeint.FromInt64(2753), N: largeint.FromInt64(3233)},
}

// testKeyGenConfig generates 64-bit moduli, fast enough for unit tests.
func testKeyGenConfig() KeyGenConfig {
	cfg := DefaultKeyGenConfig()
	cfg.PrimeBits = 32
	cfg.Rounds = 20
	cfg.NumWorkers = 2
	return cfg
}

var (
	sharedPairOnce sync.Once
	sharedPair     *KeyPair
	sharedPairErr  error
)

// loadTestKeyPair returns a 64-bit key pair shared by all tests in the package.
func loadTestKeyPair(t *testing.T) *KeyPair {
	t.Helper()
	sharedPairOnce.Do(func() {
		sharedPair, sharedPairErr = NewKeyGenerator().WithConfig(testKeyGenConfig()).Generate(context.Background())
	})
	if sharedPairErr != nil {
		t.Fatalf("Failed to generate test key pair: %v", sharedPairErr)
	}
	return sharedPair
}

// constReader yields the same byte forever.
type constReader byte

func (c constReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = byte(c)
	}
	return len(p), nil
}
