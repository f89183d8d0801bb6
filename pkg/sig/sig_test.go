package sig

import (
	"bytes"
	"testing"

	"github.com/kmosaic/kmosaic/internal/constants"
	qerrors "github.com/kmosaic/kmosaic/internal/errors"
	"github.com/kmosaic/kmosaic/pkg/mosaic"
)

func bytesOf(n int, b byte) []byte {
	out := make([]byte, n)
	for i := range out {
		out[i] = b
	}
	return out
}

func TestMultiWitnessSignVerifyRoundtripMessageSensitivity(t *testing.T) {
	p := constants.MOS128Params()
	masterSeed := bytesOf(32, 0x03)

	pk, sk, err := mosaic.KeyGenFromSeed(p, masterSeed)
	if err != nil {
		t.Fatalf("KeyGenFromSeed: %v", err)
	}

	signature, err := Sign([]byte("hello"), sk, pk)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	if !Verify([]byte("hello"), signature, pk) {
		t.Fatal("Verify rejected a valid signature")
	}
	if Verify([]byte("hellp"), signature, pk) {
		t.Fatal("Verify accepted a signature under a different message")
	}
}

func TestMultiWitnessRejectsWrongKey(t *testing.T) {
	p := constants.MOS128Params()
	pk1, sk1, err := mosaic.KeyGenFromSeed(p, bytesOf(32, 0x11))
	if err != nil {
		t.Fatalf("KeyGenFromSeed: %v", err)
	}
	pk2, _, err := mosaic.KeyGenFromSeed(p, bytesOf(32, 0x22))
	if err != nil {
		t.Fatalf("KeyGenFromSeed: %v", err)
	}

	signature, err := Sign([]byte("payload"), sk1, pk1)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	if Verify([]byte("payload"), signature, pk2) {
		t.Fatal("Verify accepted a signature under the wrong public key")
	}
}

func TestMultiWitnessTamperedResponseRejected(t *testing.T) {
	p := constants.MOS128Params()
	pk, sk, err := mosaic.KeyGenFromSeed(p, bytesOf(32, 0x33))
	if err != nil {
		t.Fatalf("KeyGenFromSeed: %v", err)
	}
	signature, err := Sign([]byte("payload"), sk, pk)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	signature.Z1[0] += uint32(sk.Params.SLSS.Q) / 2
	if Verify([]byte("payload"), signature, pk) {
		t.Fatal("Verify accepted a response tampered out of bounds")
	}
}

func TestMultiWitnessTamperedChallengeRejected(t *testing.T) {
	p := constants.MOS128Params()
	pk, sk, err := mosaic.KeyGenFromSeed(p, bytesOf(32, 0x44))
	if err != nil {
		t.Fatalf("KeyGenFromSeed: %v", err)
	}
	signature, err := Sign([]byte("payload"), sk, pk)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	signature.Challenge[0] ^= 0xFF
	if Verify([]byte("payload"), signature, pk) {
		t.Fatal("Verify accepted a flipped challenge")
	}
}

func TestSignatureSerializeRoundtrip(t *testing.T) {
	p := constants.MOS128Params()
	pk, sk, err := mosaic.KeyGenFromSeed(p, bytesOf(32, 0x55))
	if err != nil {
		t.Fatalf("KeyGenFromSeed: %v", err)
	}
	signature, err := Sign([]byte("payload"), sk, pk)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	encoded := SerializeSignature(signature)
	decoded, err := DeserializeSignature(encoded)
	if err != nil {
		t.Fatalf("DeserializeSignature: %v", err)
	}
	if !Verify([]byte("payload"), decoded, pk) {
		t.Fatal("decoded signature failed to verify")
	}
	if !bytes.Equal(SerializeSignature(decoded), encoded) {
		t.Error("re-encoding decoded signature does not match original bytes")
	}
}

func TestSignatureDeserializeRejectsTrailingBytes(t *testing.T) {
	p := constants.MOS128Params()
	pk, sk, err := mosaic.KeyGenFromSeed(p, bytesOf(32, 0x66))
	if err != nil {
		t.Fatalf("KeyGenFromSeed: %v", err)
	}
	signature, err := Sign([]byte("payload"), sk, pk)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	encoded := append(SerializeSignature(signature), 0x00)
	if _, err := DeserializeSignature(encoded); err == nil {
		t.Error("expected rejection of trailing byte")
	}
}

func TestGoCompatibleSignVerifyRoundtrip(t *testing.T) {
	p := constants.MOS128Params()
	masterSeed := bytesOf(32, 0x03)

	pk, sk, err := mosaic.KeyGenFromSeed(p, masterSeed)
	if err != nil {
		t.Fatalf("KeyGenFromSeed: %v", err)
	}

	signature, err := SignGo([]byte("hello"), sk, pk)
	if err != nil {
		t.Fatalf("SignGo: %v", err)
	}
	if !VerifyGo([]byte("hello"), signature, pk) {
		t.Fatal("VerifyGo rejected a valid signature")
	}
	if VerifyGo([]byte("hellp"), signature, pk) {
		t.Fatal("VerifyGo accepted a signature under a different message")
	}
}

func TestGoCompatibleRejectsWrongKey(t *testing.T) {
	p := constants.MOS128Params()
	pk1, sk1, err := mosaic.KeyGenFromSeed(p, bytesOf(32, 0x77))
	if err != nil {
		t.Fatalf("KeyGenFromSeed: %v", err)
	}
	pk2, _, err := mosaic.KeyGenFromSeed(p, bytesOf(32, 0x88))
	if err != nil {
		t.Fatalf("KeyGenFromSeed: %v", err)
	}
	signature, err := SignGo([]byte("payload"), sk1, pk1)
	if err != nil {
		t.Fatalf("SignGo: %v", err)
	}
	if VerifyGo([]byte("payload"), signature, pk2) {
		t.Fatal("VerifyGo accepted a signature under the wrong public key")
	}
}

func TestGoSignatureFixedSize(t *testing.T) {
	p := constants.MOS128Params()
	pk, sk, err := mosaic.KeyGenFromSeed(p, bytesOf(32, 0x99))
	if err != nil {
		t.Fatalf("KeyGenFromSeed: %v", err)
	}
	signature, err := SignGo([]byte("payload"), sk, pk)
	if err != nil {
		t.Fatalf("SignGo: %v", err)
	}
	encoded := SerializeGoSignature(signature)
	if len(encoded) != GoSignatureSize {
		t.Fatalf("encoded length = %d, want %d", len(encoded), GoSignatureSize)
	}
	decoded, err := DeserializeGoSignature(encoded)
	if err != nil {
		t.Fatalf("DeserializeGoSignature: %v", err)
	}
	if !VerifyGo([]byte("payload"), decoded, pk) {
		t.Fatal("decoded Go-compatible signature failed to verify")
	}
}

func TestGoSignatureDeserializeRejectsWrongLength(t *testing.T) {
	if _, err := DeserializeGoSignature(bytesOf(127, 0x00)); err == nil {
		t.Error("expected rejection of short Go-compatible signature")
	}
	if _, err := DeserializeGoSignature(bytesOf(129, 0x00)); err == nil {
		t.Error("expected rejection of over-long Go-compatible signature")
	}
}

func TestSignRejectsDisposedKey(t *testing.T) {
	p := constants.MOS128Params()
	pk, sk, err := mosaic.KeyGenFromSeed(p, bytesOf(32, 0x06))
	if err != nil {
		t.Fatalf("KeyGenFromSeed: %v", err)
	}
	sk.Dispose()

	if _, err := Sign([]byte("hello"), sk, pk); !qerrors.Is(err, qerrors.ErrInvalidKeyState) {
		t.Fatalf("Sign on disposed key: got %v, want ErrInvalidKeyState", err)
	}
	if _, err := SignGo([]byte("hello"), sk, pk); !qerrors.Is(err, qerrors.ErrInvalidKeyState) {
		t.Fatalf("SignGo on disposed key: got %v, want ErrInvalidKeyState", err)
	}
}
