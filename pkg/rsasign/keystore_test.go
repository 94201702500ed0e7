package rsasign

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mahdiidarabi/largeint-rsa/internal/keyfile"
	"github.com/mahdiidarabi/largeint-rsa/pkg/largeint"
)

func TestFileKeyStore_RoundTrip(t *testing.T) {
	pair := loadTestKeyPair(t)
	store := NewFileKeyStore(t.TempDir())

	require.NoError(t, store.Store(pair))

	for _, path := range []string{store.PublicPath, store.PrivatePath} {
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, int64(keyfile.PairSize), info.Size(), path)
	}
	info, err := os.Stat(store.PrivatePath)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	pub, err := store.LoadPublic()
	require.NoError(t, err)
	assert.True(t, pub.E.Equal(pair.Public.E))
	assert.True(t, pub.N.Equal(pair.Public.N))

	priv, err := store.LoadPrivate()
	require.NoError(t, err)
	assert.True(t, priv.D.Equal(pair.Private.D))
	assert.True(t, priv.N.Equal(pair.Private.N))
}

func TestFileKeyStore_HighBitModulus(t *testing.T) {
	// a full 512-bit modulus has its top bit set and must not read back negative
	raw := make([]byte, keyfile.PairSize)
	raw[keyfile.FieldSize-1] = 3
	for i := keyfile.FieldSize; i < keyfile.PairSize; i++ {
		raw[i] = 0xc5
	}
	dir := t.TempDir()
	store := NewFileKeyStore(dir)
	require.NoError(t, os.WriteFile(store.PublicPath, raw, 0644))

	pub, err := store.LoadPublic()
	require.NoError(t, err)
	assert.False(t, pub.N.IsNegative())
	assert.Equal(t, 512, pub.N.BitLen())
	assert.True(t, pub.E.Equal(largeint.FromInt64(3)))
}

func TestFileKeyStore_Missing(t *testing.T) {
	store := NewFileKeyStore(t.TempDir())

	_, err := store.LoadPublic()
	require.ErrorIs(t, err, ErrKeyFileMissing)

	_, err = store.LoadPrivate()
	require.ErrorIs(t, err, ErrKeyFileMissing)
}

func TestFileKeyStore_Malformed(t *testing.T) {
	store := NewFileKeyStore(t.TempDir())

	require.NoError(t, os.WriteFile(store.PublicPath, make([]byte, 127), 0644))
	_, err := store.LoadPublic()
	require.ErrorIs(t, err, ErrKeyFileMalformed)

	// right size, but a zero modulus
	require.NoError(t, os.WriteFile(store.PrivatePath, make([]byte, keyfile.PairSize), 0600))
	_, err = store.LoadPrivate()
	require.ErrorIs(t, err, ErrKeyFileMalformed)
}

func TestFileKeyStore_StoreFailureLeavesNothing(t *testing.T) {
	dir := t.TempDir()
	store := &FileKeyStore{
		PublicPath:  filepath.Join(dir, DefaultPublicKeyFile),
		PrivatePath: filepath.Join(dir, "missing", DefaultPrivateKeyFile),
	}

	require.Error(t, store.Store(loadTestKeyPair(t)))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
