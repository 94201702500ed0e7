// Package rsasign implements RSA key generation, signing and verification on
// top of the largeint arithmetic.
//
// Keys use two 256-bit probable primes, giving a 512-bit modulus. Messages are
// hashed with SHA-256 and the digest, read as an unsigned big-endian integer
// and reduced modulo n, is raised to the private exponent. There is no
// padding scheme.
//
// WARNING: The arithmetic is not constant time and 512-bit moduli are far
// too small for real use. This package is for teaching and testing only.
//
// Basic Usage:
//
//	client := rsasign.NewClient().WithKeyStore(rsasign.NewFileKeyStore("keys"))
//	if _, err := client.GenerateKeys(ctx); err != nil {
//		// handle error
//	}
//	sigPath, err := client.SignFile(ctx, "message.txt")
//	ok, err := client.VerifyFile(ctx, "message.txt")
//
// Customizing key generation (defaults are sensible; override as needed):
//
//	gen := rsasign.NewKeyGenerator().
//		WithConfig(rsasign.KeyGenConfig{
//			PrimeBits:     128,
//			Rounds:        40,
//			MaxAttempts:   500,
//			MaxCandidates: 50000,
//			NumWorkers:    4,
//			Timeout:       time.Minute,
//		})
//	client = rsasign.NewClient().WithGenerator(gen)
//
// Working with keys in memory:
//
//	pair, err := rsasign.NewKeyGenerator().Generate(ctx)
//	digest := rsasign.Digest(message)
//	sig, err := rsasign.Sign(&pair.Private, digest[:])
//	valid := rsasign.Verify(&pair.Public, digest[:], sig)
package rsasign
