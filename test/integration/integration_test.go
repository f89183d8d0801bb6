// Package integration exercises kMOSAIC's core surface end-to-end: full
// KEM and signature life cycles across both frozen parameter levels,
// combined in the sequence an external caller would actually use them.
package integration

import (
	"bytes"
	"testing"

	"github.com/kmosaic/kmosaic/internal/constants"
	"github.com/kmosaic/kmosaic/pkg/kem"
	"github.com/kmosaic/kmosaic/pkg/mosaic"
	"github.com/kmosaic/kmosaic/pkg/sig"
)

// TestFullKEMAndSignatureLifecycle generates one key pair per level, runs a
// KEM round trip, signs and verifies a message under the multi-witness
// variant, and confirms the Go-compatible variant agrees.
func TestFullKEMAndSignatureLifecycle(t *testing.T) {
	for _, level := range []constants.ParamLevel{constants.MOS128, constants.MOS256} {
		level := level
		t.Run(string(level), func(t *testing.T) {
			pk, sk, err := kem.KeyGen(level)
			if err != nil {
				t.Fatalf("KeyGen: %v", err)
			}

			ss, ct, err := kem.Encapsulate(pk)
			if err != nil {
				t.Fatalf("Encapsulate: %v", err)
			}
			got := kem.Decapsulate(ct, sk, pk)
			if !bytes.Equal(got, ss) {
				t.Fatal("decapsulated shared secret does not match encapsulated one")
			}

			encoded := kem.SerializeCiphertext(ct)
			decoded, err := kem.DeserializeCiphertext(level, encoded)
			if err != nil {
				t.Fatalf("DeserializeCiphertext: %v", err)
			}
			if got2 := kem.Decapsulate(decoded, sk, pk); !bytes.Equal(got2, ss) {
				t.Fatal("decapsulating a re-parsed ciphertext produced a different shared secret")
			}

			message := []byte("integration test message for " + string(level))
			signature, err := sig.Sign(message, sk, pk)
			if err != nil {
				t.Fatalf("Sign: %v", err)
			}
			if !sig.Verify(message, signature, pk) {
				t.Fatal("Verify rejected a freshly produced signature")
			}

			goSignature, err := sig.SignGo(message, sk, pk)
			if err != nil {
				t.Fatalf("SignGo: %v", err)
			}
			if !sig.VerifyGo(message, goSignature, pk) {
				t.Fatal("VerifyGo rejected a freshly produced signature")
			}
		})
	}
}

// TestCrossLevelKeyPairsAreIndependent confirms that key material generated
// at one level never accidentally validates against the other.
func TestCrossLevelKeyPairsAreIndependent(t *testing.T) {
	seed := make([]byte, 32)
	for i := range seed {
		seed[i] = 0x2A
	}

	p128 := constants.MOS128Params()
	p256 := constants.MOS256Params()

	pk128, _, err := mosaic.KeyGenFromSeed(p128, seed)
	if err != nil {
		t.Fatalf("KeyGenFromSeed(128): %v", err)
	}
	pk256, _, err := mosaic.KeyGenFromSeed(p256, seed)
	if err != nil {
		t.Fatalf("KeyGenFromSeed(256): %v", err)
	}
	if bytes.Equal(pk128.Binding, pk256.Binding) {
		t.Fatal("identical seeds at different levels produced identical bindings")
	}
}
