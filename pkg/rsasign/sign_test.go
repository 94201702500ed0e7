package rsasign

import (
	"testing"

	"github.com/mahdiidarabi/largeint-rsa/pkg/largeint"
)

func TestSign_TextbookKey(t *testing.T) {
	// 2790 = 65^17 mod 3233, so its signature is 65
	digest := []byte{0x0a, 0xe6}

	sig, err := Sign(&textbookKey.Private, digest)
	if err != nil {
		t.Fatalf("Failed to sign: %v", err)
	}
	if !sig.Equal(largeint.FromInt64(65)) {
		t.Errorf("Signature mismatch. Got: %s, Expected: 0x41", sig)
	}

	if !Verify(&textbookKey.Public, digest, sig) {
		t.Error("Signature should verify")
	}
}

func TestSign_DigestReducedModN(t *testing.T) {
	// 2790 + 3233 reduces to the same representative
	digest := []byte{0x17, 0x87}

	sig, err := Sign(&textbookKey.Private, digest)
	if err != nil {
		t.Fatalf("Failed to sign: %v", err)
	}
	if !sig.Equal(largeint.FromInt64(65)) {
		t.Errorf("Signature mismatch. Got: %s, Expected: 0x41", sig)
	}
}

func TestSignVerify_RoundTrip(t *testing.T) {
	pair := loadTestKeyPair(t)

	messages := []string{"", "hello", "The quick brown fox jumps over the lazy dog"}
	for _, msg := range messages {
		digest := Digest([]byte(msg))

		sig, err := Sign(&pair.Private, digest[:])
		if err != nil {
			t.Fatalf("Failed to sign %q: %v", msg, err)
		}
		if sig.IsNegative() || sig.Cmp(pair.Public.N) >= 0 {
			t.Errorf("Signature %s out of range for %q", sig, msg)
		}
		if !Verify(&pair.Public, digest[:], sig) {
			t.Errorf("Signature for %q should verify", msg)
		}
	}
}

func TestVerify_Rejects(t *testing.T) {
	pair := loadTestKeyPair(t)
	digest := Digest([]byte("original message"))

	sig, err := Sign(&pair.Private, digest[:])
	if err != nil {
		t.Fatalf("Failed to sign: %v", err)
	}

	other := Digest([]byte("tampered message"))
	if Verify(&pair.Public, other[:], sig) {
		t.Error("Signature should not verify a different digest")
	}

	bumped := sig.Add(largeint.FromInt64(1))
	if Verify(&pair.Public, digest[:], bumped) {
		t.Error("Modified signature should not verify")
	}

	if Verify(&pair.Public, digest[:], sig.Add(pair.Public.N)) {
		t.Error("Signature outside [0, n) should not verify")
	}

	if Verify(&pair.Public, digest[:], sig.Neg()) {
		t.Error("Negative signature should not verify")
	}

	if Verify(&PublicKey{E: pair.Public.E, N: largeint.FromInt64(0)}, digest[:], sig) {
		t.Error("Zero modulus should not verify")
	}
}

func TestSign_InvalidModulus(t *testing.T) {
	digest := Digest([]byte("message"))
	for _, n := range []int64{0, 1, -3233} {
		_, err := Sign(&PrivateKey{D: largeint.FromInt64(3), N: largeint.FromInt64(n)}, digest[:])
		if err == nil {
			t.Errorf("Expected error for modulus %d", n)
		}
	}
}

func TestDigest(t *testing.T) {
	digest := Digest([]byte("abc"))
	// FIPS 180-2 test vector
	want := "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"
	got := largeint.SetBytes(digest[:]).String()
	if got != "0x"+want {
		t.Errorf("Digest mismatch. Got: %s, Expected: 0x%s", got, want)
	}
}
