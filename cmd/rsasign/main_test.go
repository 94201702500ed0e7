package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mahdiidarabi/largeint-rsa/pkg/rsasign"
)

// setupKeys writes a small key pair into a fresh directory.
func setupKeys(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	cfg := rsasign.DefaultKeyGenConfig()
	cfg.PrimeBits = 32
	cfg.Rounds = 20
	gen := rsasign.NewKeyGenerator().WithConfig(cfg)
	_, err := rsasign.NewClient().
		WithKeyStore(rsasign.NewFileKeyStore(dir)).
		WithGenerator(gen).
		GenerateKeys(context.Background())
	require.NoError(t, err)
	return dir
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	out := &bytes.Buffer{}
	cmd := newRootCmd(out)
	cmd.SetArgs(args)
	cmd.SetErr(&bytes.Buffer{})
	err := cmd.Execute()
	return out.String(), err
}

func TestSignVerify(t *testing.T) {
	dir := setupKeys(t)
	target := filepath.Join(dir, "message.txt")
	require.NoError(t, os.WriteFile(target, []byte("hello world"), 0644))

	out, err := run(t, "sign", target, "--key-dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, target+".sig")

	out, err = run(t, "v", target, "--key-dir", dir)
	require.NoError(t, err)
	assert.Equal(t, "signature is valid\n", out)

	require.NoError(t, os.WriteFile(target, []byte("hello world!"), 0644))
	out, err = run(t, "verify", target, "--key-dir", dir)
	require.ErrorIs(t, err, errNotValid)
	assert.Equal(t, "signature is not valid\n", out)
}

func TestHash(t *testing.T) {
	target := filepath.Join(t.TempDir(), "abc.txt")
	require.NoError(t, os.WriteFile(target, []byte("abc"), 0644))

	out, err := run(t, "h", target)
	require.NoError(t, err)
	assert.Equal(t, "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad\n", out)
}

func TestErrors(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "message.txt")
	require.NoError(t, os.WriteFile(target, []byte("data"), 0644))

	_, err := run(t, "sign", target, "--key-dir", dir)
	require.ErrorIs(t, err, rsasign.ErrKeyFileMissing)

	_, err = run(t, "hash", filepath.Join(dir, "absent"))
	require.ErrorIs(t, err, rsasign.ErrMalformedInput)

	_, err = run(t, "encrypt", target)
	require.Error(t, err)

	_, err = run(t, "sign")
	require.Error(t, err)
}
