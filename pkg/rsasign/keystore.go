package rsasign

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/mahdiidarabi/largeint-rsa/internal/keyfile"
	"github.com/mahdiidarabi/largeint-rsa/pkg/largeint"
)

const (
	// DefaultPublicKeyFile is the public key file name.
	DefaultPublicKeyFile = "pubkey.rsa"

	// DefaultPrivateKeyFile is the private key file name.
	DefaultPrivateKeyFile = "privkey.rsa"
)

// KeyStore defines where keys are loaded from and saved to.
// Implement this interface to keep keys somewhere other than files.
type KeyStore interface {
	// LoadPublic returns the verification key.
	LoadPublic() (*PublicKey, error)

	// LoadPrivate returns the signing key.
	LoadPrivate() (*PrivateKey, error)

	// Store persists both keys. On error neither key may be left half written.
	Store(pair *KeyPair) error
}

// FileKeyStore keeps each key as a 128-byte file: exponent then modulus,
// both 64-byte unsigned big-endian.
type FileKeyStore struct {
	PublicPath  string
	PrivatePath string
}

// NewFileKeyStore uses the default key file names inside dir.
func NewFileKeyStore(dir string) *FileKeyStore {
	return &FileKeyStore{
		PublicPath:  filepath.Join(dir, DefaultPublicKeyFile),
		PrivatePath: filepath.Join(dir, DefaultPrivateKeyFile),
	}
}

// LoadPublic reads (e, n) from PublicPath.
func (s *FileKeyStore) LoadPublic() (*PublicKey, error) {
	e, n, err := readKeyFile(s.PublicPath)
	if err != nil {
		return nil, err
	}
	return &PublicKey{E: e, N: n}, nil
}

// LoadPrivate reads (d, n) from PrivatePath.
func (s *FileKeyStore) LoadPrivate() (*PrivateKey, error) {
	d, n, err := readKeyFile(s.PrivatePath)
	if err != nil {
		return nil, err
	}
	return &PrivateKey{D: d, N: n}, nil
}

// Store writes both key files, the private one readable by the owner only.
func (s *FileKeyStore) Store(pair *KeyPair) error {
	pub, err := keyfile.EncodePair(pair.Public.E, pair.Public.N)
	if err != nil {
		return errors.WithMessage(err, "failed to encode public key")
	}
	priv, err := keyfile.EncodePair(pair.Private.D, pair.Private.N)
	if err != nil {
		return errors.WithMessage(err, "failed to encode private key")
	}
	return keyfile.WriteAll(
		keyfile.File{Path: s.PublicPath, Data: pub, Perm: 0644},
		keyfile.File{Path: s.PrivatePath, Data: priv, Perm: 0600},
	)
}

func readKeyFile(path string) (largeint.Int, largeint.Int, error) {
	exp, n, err := keyfile.ReadPair(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return largeint.Int{}, largeint.Int{}, errors.Wrapf(ErrKeyFileMissing, "%s", path)
	case errors.Is(err, keyfile.ErrMalformed):
		return largeint.Int{}, largeint.Int{}, errors.Wrapf(ErrKeyFileMalformed, "%v", err)
	case err != nil:
		return largeint.Int{}, largeint.Int{}, err
	}
	if n.Cmp(largeint.FromInt64(1)) <= 0 {
		return largeint.Int{}, largeint.Int{}, errors.Wrapf(ErrKeyFileMalformed, "%s: modulus %s", path, n)
	}
	return exp, n, nil
}
