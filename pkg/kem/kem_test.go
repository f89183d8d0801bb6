package kem

import (
	"bytes"
	"testing"

	"github.com/kmosaic/kmosaic/internal/constants"
)

func bytesOf(n int, b byte) []byte {
	out := make([]byte, n)
	for i := range out {
		out[i] = b
	}
	return out
}

func TestKeyGenEncapsulateDecapsulateRoundtripFixedSeed(t *testing.T) {
	p := constants.MOS128Params()
	masterSeed := bytesOf(32, 0x01)
	m := bytesOf(32, 0x02)

	pk, sk, err := KeyGenFromSeed(p, masterSeed)
	if err != nil {
		t.Fatalf("KeyGenFromSeed: %v", err)
	}

	ss, ct, err := EncapsulateDet(pk, m)
	if err != nil {
		t.Fatalf("EncapsulateDet: %v", err)
	}

	got := Decapsulate(ct, sk, pk)
	if !bytes.Equal(got, ss) {
		t.Fatalf("decap shared secret mismatch: got %x want %x", got, ss)
	}
}

func TestDecapsulateRejectsTamperedCiphertext(t *testing.T) {
	p := constants.MOS128Params()
	masterSeed := bytesOf(32, 0x01)
	m := bytesOf(32, 0x02)

	pk, sk, err := KeyGenFromSeed(p, masterSeed)
	if err != nil {
		t.Fatalf("KeyGenFromSeed: %v", err)
	}
	ss, ct, err := EncapsulateDet(pk, m)
	if err != nil {
		t.Fatalf("EncapsulateDet: %v", err)
	}

	ct.C1.U[0] = 0
	got := Decapsulate(ct, sk, pk)
	if bytes.Equal(got, ss) {
		t.Fatal("tampered ciphertext decapsulated to the original shared secret")
	}
	if len(got) != 32 {
		t.Fatalf("tampered decap returned %d bytes, want 32", len(got))
	}
}

func TestEncapsulateDetDeterministic(t *testing.T) {
	p := constants.MOS128Params()
	pk, _, err := KeyGenFromSeed(p, bytesOf(32, 0x10))
	if err != nil {
		t.Fatalf("KeyGenFromSeed: %v", err)
	}
	m := bytesOf(32, 0x20)

	ss1, ct1, err := EncapsulateDet(pk, m)
	if err != nil {
		t.Fatalf("EncapsulateDet: %v", err)
	}
	ss2, ct2, err := EncapsulateDet(pk, m)
	if err != nil {
		t.Fatalf("EncapsulateDet: %v", err)
	}
	if !bytes.Equal(ss1, ss2) {
		t.Error("EncapsulateDet shared secret not deterministic")
	}
	if !bytes.Equal(SerializeCiphertext(ct1), SerializeCiphertext(ct2)) {
		t.Error("EncapsulateDet ciphertext not deterministic")
	}
}

func TestEncapsulateFreshness(t *testing.T) {
	p := constants.MOS128Params()
	pk, _, err := KeyGenFromSeed(p, bytesOf(32, 0x30))
	if err != nil {
		t.Fatalf("KeyGenFromSeed: %v", err)
	}

	ss1, ct1, err := Encapsulate(pk)
	if err != nil {
		t.Fatalf("Encapsulate: %v", err)
	}
	ss2, ct2, err := Encapsulate(pk)
	if err != nil {
		t.Fatalf("Encapsulate: %v", err)
	}
	if bytes.Equal(ss1, ss2) {
		t.Error("two Encapsulate calls yielded identical shared secrets")
	}
	if bytes.Equal(SerializeCiphertext(ct1), SerializeCiphertext(ct2)) {
		t.Error("two Encapsulate calls yielded identical ciphertexts")
	}
}

func TestTamperProofByteFlipsSharedSecret(t *testing.T) {
	p := constants.MOS128Params()
	pk, sk, err := KeyGenFromSeed(p, bytesOf(32, 0x40))
	if err != nil {
		t.Fatalf("KeyGenFromSeed: %v", err)
	}
	m := bytesOf(32, 0x50)
	ss, ct, err := EncapsulateDet(pk, m)
	if err != nil {
		t.Fatalf("EncapsulateDet: %v", err)
	}

	ct.Proof.Commitments[0][0] ^= 0xFF
	got := Decapsulate(ct, sk, pk)
	if bytes.Equal(got, ss) {
		t.Error("tampered proof decapsulated to the original shared secret")
	}
}

func TestTamperBindingFlipsSharedSecret(t *testing.T) {
	p := constants.MOS128Params()
	pk, sk, err := KeyGenFromSeed(p, bytesOf(32, 0x60))
	if err != nil {
		t.Fatalf("KeyGenFromSeed: %v", err)
	}
	m := bytesOf(32, 0x70)
	ss, ct, err := EncapsulateDet(pk, m)
	if err != nil {
		t.Fatalf("EncapsulateDet: %v", err)
	}

	tamperedPK := *pk
	tamperedBinding := append([]byte(nil), pk.Binding...)
	tamperedBinding[0] ^= 0xFF
	tamperedPK.Binding = tamperedBinding

	got := Decapsulate(ct, sk, &tamperedPK)
	if bytes.Equal(got, ss) {
		t.Error("decap under a tampered binding still produced the original shared secret")
	}
}

func TestCiphertextSerializeRoundtrip(t *testing.T) {
	p := constants.MOS128Params()
	pk, _, err := KeyGenFromSeed(p, bytesOf(32, 0x80))
	if err != nil {
		t.Fatalf("KeyGenFromSeed: %v", err)
	}
	_, ct, err := EncapsulateDet(pk, bytesOf(32, 0x90))
	if err != nil {
		t.Fatalf("EncapsulateDet: %v", err)
	}

	encoded := SerializeCiphertext(ct)
	decoded, err := DeserializeCiphertext(constants.MOS128, encoded)
	if err != nil {
		t.Fatalf("DeserializeCiphertext: %v", err)
	}
	if !bytes.Equal(SerializeCiphertext(decoded), encoded) {
		t.Error("re-encoding decoded ciphertext does not match original bytes")
	}
}

func TestCiphertextDeserializeRejectsTrailingBytes(t *testing.T) {
	p := constants.MOS128Params()
	pk, _, err := KeyGenFromSeed(p, bytesOf(32, 0xA0))
	if err != nil {
		t.Fatalf("KeyGenFromSeed: %v", err)
	}
	_, ct, err := EncapsulateDet(pk, bytesOf(32, 0xB0))
	if err != nil {
		t.Fatalf("EncapsulateDet: %v", err)
	}
	encoded := append(SerializeCiphertext(ct), 0x00)
	if _, err := DeserializeCiphertext(constants.MOS128, encoded); err == nil {
		t.Error("expected rejection of trailing byte")
	}
}

func TestDecapsulateWithDisposedKeyFallsBackToImplicitReject(t *testing.T) {
	p := constants.MOS128Params()
	pk, sk, err := KeyGenFromSeed(p, bytesOf(32, 0x07))
	if err != nil {
		t.Fatalf("KeyGenFromSeed: %v", err)
	}
	ss, ct, err := EncapsulateDet(pk, bytesOf(32, 0x08))
	if err != nil {
		t.Fatalf("EncapsulateDet: %v", err)
	}

	sk.Dispose()

	got := Decapsulate(ct, sk, pk)
	if len(got) != 32 {
		t.Fatalf("decap on disposed key returned %d bytes, want 32", len(got))
	}
	if bytes.Equal(got, ss) {
		t.Fatal("decap on disposed key returned the original shared secret")
	}
}
