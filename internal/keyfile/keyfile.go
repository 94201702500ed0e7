package keyfile

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/mahdiidarabi/largeint-rsa/pkg/largeint"
)

const (
	// FieldSize is the width of one key component: 512 bits.
	FieldSize = 64

	// PairSize is the size of a key file: exponent followed by modulus.
	PairSize = 2 * FieldSize
)

// ErrMalformed indicates a key file of the wrong size.
var ErrMalformed = errors.New("keyfile: malformed key file")

// EncodePair encodes two non-negative values as consecutive 64-byte unsigned
// big-endian fields.
func EncodePair(first, second largeint.Int) ([]byte, error) {
	a, err := first.Resize(FieldSize)
	if err != nil {
		return nil, errors.WithMessage(err, "failed to encode exponent")
	}
	b, err := second.Resize(FieldSize)
	if err != nil {
		return nil, errors.WithMessage(err, "failed to encode modulus")
	}
	return append(a, b...), nil
}

// DecodePair splits a 128-byte key file into its two unsigned fields.
func DecodePair(raw []byte) (largeint.Int, largeint.Int, error) {
	if len(raw) != PairSize {
		return largeint.Int{}, largeint.Int{}, errors.Wrapf(ErrMalformed, "got %d bytes, expected %d", len(raw), PairSize)
	}
	return largeint.SetBytes(raw[:FieldSize]), largeint.SetBytes(raw[FieldSize:]), nil
}

// ReadPair reads and decodes a key file.
func ReadPair(path string) (largeint.Int, largeint.Int, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return largeint.Int{}, largeint.Int{}, errors.Wrapf(err, "failed to read key file %s", path)
	}
	first, second, err := DecodePair(raw)
	if err != nil {
		return largeint.Int{}, largeint.Int{}, errors.WithMessage(err, path)
	}
	return first, second, nil
}

// ReadSignature reads a signature file. Signatures are non-negative, so the
// bytes are read as an unsigned integer whether or not a sign byte was written.
func ReadSignature(path string) (largeint.Int, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return largeint.Int{}, errors.Wrapf(err, "failed to read signature file %s", path)
	}
	if len(raw) == 0 {
		return largeint.Int{}, errors.Errorf("signature file %s is empty", path)
	}
	return largeint.SetBytes(raw), nil
}

// EncodeSignature returns the raw normalized bytes of a signature.
func EncodeSignature(sig largeint.Int) []byte {
	return sig.Bytes()
}

// File is one entry of an atomic multi-file write.
type File struct {
	Path string
	Data []byte
	Perm os.FileMode
}

// WriteAll writes every file to a temporary sibling first and renames them
// into place only after all of them were written and synced, so a failure
// never leaves a partial set behind.
func WriteAll(files ...File) (err error) {
	staged := make([]string, 0, len(files))
	defer func() {
		if err != nil {
			for _, tmp := range staged {
				os.Remove(tmp)
			}
		}
	}()

	for _, f := range files {
		tmp, werr := writeTemp(f)
		if werr != nil {
			return werr
		}
		staged = append(staged, tmp)
	}

	for i, f := range files {
		if err = os.Rename(staged[i], f.Path); err != nil {
			return errors.Wrapf(err, "failed to move %s into place", f.Path)
		}
	}
	return nil
}

func writeTemp(f File) (string, error) {
	dir, base := filepath.Split(f.Path)
	if dir == "" {
		dir = "."
	}
	tmp, err := os.CreateTemp(dir, "."+base+".tmp*")
	if err != nil {
		return "", errors.Wrapf(err, "failed to create temporary file for %s", f.Path)
	}
	name := tmp.Name()

	fail := func(err error, msg string) (string, error) {
		tmp.Close()
		os.Remove(name)
		return "", errors.Wrapf(err, msg, f.Path)
	}
	if err := tmp.Chmod(f.Perm); err != nil {
		return fail(err, "failed to set permissions for %s")
	}
	if _, err := tmp.Write(f.Data); err != nil {
		return fail(err, "failed to write %s")
	}
	if err := tmp.Sync(); err != nil {
		return fail(err, "failed to sync %s")
	}
	if err := tmp.Close(); err != nil {
		os.Remove(name)
		return "", errors.Wrapf(err, "failed to close %s", f.Path)
	}
	return name, nil
}
