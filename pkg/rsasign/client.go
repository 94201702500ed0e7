package rsasign

import (
	"context"
	"encoding/hex"
	"os"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/mahdiidarabi/largeint-rsa/internal/keyfile"
)

// DefaultSignatureSuffix is appended to a file name to form its signature file name.
const DefaultSignatureSuffix = ".sig"

// Client provides a high-level API for file signing operations.
type Client struct {
	store     KeyStore
	generator *KeyGenerator
	hash      HashFunc
	suffix    string
	logger    *zap.Logger
}

// NewClient creates a new client with default settings: key files in the
// working directory, SHA-256 and the default key generator.
func NewClient() *Client {
	return &Client{
		store:     NewFileKeyStore("."),
		generator: NewKeyGenerator(),
		hash:      Digest,
		suffix:    DefaultSignatureSuffix,
		logger:    zap.NewNop(),
	}
}

// WithKeyStore sets where keys are loaded from and saved to.
func (c *Client) WithKeyStore(store KeyStore) *Client {
	c.store = store
	return c
}

// WithGenerator sets a custom key generator.
func (c *Client) WithGenerator(generator *KeyGenerator) *Client {
	c.generator = generator
	return c
}

// WithHasher sets the digest function.
func (c *Client) WithHasher(hash HashFunc) *Client {
	c.hash = hash
	return c
}

// WithSignatureSuffix sets the suffix of signature files.
func (c *Client) WithSignatureSuffix(suffix string) *Client {
	c.suffix = suffix
	return c
}

// WithLogger sets the logger.
func (c *Client) WithLogger(logger *zap.Logger) *Client {
	c.logger = logger
	return c
}

// SignaturePath returns the signature file path for a file.
func (c *Client) SignaturePath(path string) string {
	return path + c.suffix
}

// GenerateKeys creates a new key pair and stores it. Nothing is stored
// unless generation succeeds.
func (c *Client) GenerateKeys(ctx context.Context) (*KeyPair, error) {
	pair, err := c.generator.Generate(ctx)
	if err != nil {
		return nil, errors.WithMessage(err, "failed to generate keys")
	}
	if err := c.store.Store(pair); err != nil {
		return nil, errors.WithMessage(err, "failed to store keys")
	}
	if fs, ok := c.store.(*FileKeyStore); ok {
		c.logger.Info("keys written",
			zap.String("public", fs.PublicPath),
			zap.String("private", fs.PrivatePath))
	}
	return pair, nil
}

// SignFile signs the contents of path with the private key and writes the
// signature next to it.
//
// Returns:
//   - Path of the signature file
func (c *Client) SignFile(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	digest, err := c.digestFile(path)
	if err != nil {
		return "", err
	}

	priv, err := c.store.LoadPrivate()
	if err != nil {
		return "", err
	}

	sig, err := Sign(priv, digest)
	if err != nil {
		return "", err
	}

	sigPath := c.SignaturePath(path)
	if err := keyfile.WriteAll(keyfile.File{Path: sigPath, Data: keyfile.EncodeSignature(sig), Perm: 0644}); err != nil {
		return "", errors.WithMessage(err, "failed to write signature")
	}
	c.logger.Info("file signed", zap.String("path", path), zap.String("signature", sigPath))
	return sigPath, nil
}

// VerifyFile checks the signature file of path against the public key.
// A mismatch is reported as false, not as an error.
func (c *Client) VerifyFile(ctx context.Context, path string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	digest, err := c.digestFile(path)
	if err != nil {
		return false, err
	}

	pub, err := c.store.LoadPublic()
	if err != nil {
		return false, err
	}

	sigPath := c.SignaturePath(path)
	sig, err := keyfile.ReadSignature(sigPath)
	if err != nil {
		return false, errors.Wrapf(ErrMalformedInput, "signature %s: %v", sigPath, err)
	}

	valid := Verify(pub, digest, sig)
	c.logger.Debug("signature checked", zap.String("path", path), zap.Bool("valid", valid))
	return valid, nil
}

// HashFile returns the hex digest of the contents of path.
func (c *Client) HashFile(path string) (string, error) {
	digest, err := c.digestFile(path)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(digest), nil
}

func (c *Client) digestFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(ErrMalformedInput, "%v", err)
	}
	digest := c.hash(data)
	return digest[:], nil
}
