package rsasign

import "github.com/pkg/errors"

var (
	// ErrMalformedInput is returned when a file to sign, verify or hash, or
	// its signature file, cannot be read.
	ErrMalformedInput = errors.New("rsasign: unreadable input")

	// ErrKeyFileMissing is returned when a key file does not exist.
	ErrKeyFileMissing = errors.New("rsasign: key file missing")

	// ErrKeyFileMalformed is returned when a key file has the wrong size or
	// holds an unusable modulus.
	ErrKeyFileMalformed = errors.New("rsasign: malformed key file")

	// ErrSamplingExhausted is returned when key generation exceeds its
	// sampling limits. No key files are written in that case.
	ErrSamplingExhausted = errors.New("rsasign: key sampling exhausted")
)
