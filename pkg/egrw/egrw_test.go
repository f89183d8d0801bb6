package egrw

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

func descendingBytes(n int, start byte) []byte {
	out := make([]byte, n)
	for i := range out {
		out[i] = start - byte(i)
	}
	return out
}

func TestKeyGenEncryptDecryptRoundtripFixedSeed(t *testing.T) {
	p := constants.MOS128Params().EGRW
	seed := bytesOf(32, 0xE1)
	rnd := bytesOf(32, 0xF7)
	msg := descendingBytes(32, 255)

	pk, _, err := KeyGen(p, seed)
	if err != nil {
		t.Fatalf("KeyGen: %v", err)
	}
	ct, err := Encrypt(msg, pk, rnd)
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	out, err := Decrypt(ct, pk)
	if err != nil {
		t.Fatalf("Decrypt: %v", err)
	}
	if !bytes.Equal(out, msg) {
		t.Fatalf("roundtrip mismatch: got %x want %x", out, msg)
	}
}

func TestKeyGenDeterministic(t *testing.T) {
	p := constants.MOS128Params().EGRW
	seed := bytesOf(32, 0x4B)

	pk1, sk1, err := KeyGen(p, seed)
	if err != nil {
		t.Fatalf("KeyGen: %v", err)
	}
	pk2, sk2, err := KeyGen(p, seed)
	if err != nil {
		t.Fatalf("KeyGen: %v", err)
	}
	if pk1.VStart != pk2.VStart || pk1.VEnd != pk2.VEnd {
		t.Error("KeyGen not deterministic for public key")
	}
	if !bytes.Equal(sk1.Walk, sk2.Walk) {
		t.Error("KeyGen not deterministic for walk")
	}
}

func TestKeyGenProducesDeterminantOne(t *testing.T) {
	p := constants.MOS128Params().EGRW
	pk, _, err := KeyGen(p, bytesOf(32, 0x6D))
	if err != nil {
		t.Fatalf("KeyGen: %v", err)
	}
	if Determinant(pk.VStart, p.P) != 1 {
		t.Errorf("v_start determinant = %d, want 1", Determinant(pk.VStart, p.P))
	}
	if Determinant(pk.VEnd, p.P) != 1 {
		t.Errorf("v_end determinant = %d, want 1", Determinant(pk.VEnd, p.P))
	}
}

func TestWalkEntriesInRange(t *testing.T) {
	p := constants.MOS128Params().EGRW
	_, sk, err := KeyGen(p, bytesOf(32, 0x2F))
	if err != nil {
		t.Fatalf("KeyGen: %v", err)
	}
	if len(sk.Walk) != p.K {
		t.Fatalf("walk length = %d, want %d", len(sk.Walk), p.K)
	}
	for _, step := range sk.Walk {
		if step > 3 {
			t.Fatalf("walk step %d out of range [0,3]", step)
		}
	}
}

func TestGeneratorsAreInverses(t *testing.T) {
	p := uint32(7919)
	gens := computeGenerators(p)
	s, sInv, tm, tInv := gens[0], gens[1], gens[2], gens[3]

	if prod := Mul(s, sInv, p); prod != Identity() {
		t.Errorf("S * S^-1 != I, got %+v", prod)
	}
	if prod := Mul(tm, tInv, p); prod != Identity() {
		t.Errorf("T * T^-1 != I, got %+v", prod)
	}
}

func TestGeneratorCacheEvictsLRU(t *testing.T) {
	cache := NewGeneratorCache()
	primes := []uint32{7919, 7927, 7933, 7937, 7949, 7951, 7963, 7993,
		8009, 8011, 8017, 8039, 8053, 8059, 8069, 8081, 8087}
	for _, p := range primes {
		cache.Get(p)
	}
	if cache.Len() > constants.EGRWGeneratorCacheSize {
		t.Errorf("cache grew to %d entries, want <= %d", cache.Len(), constants.EGRWGeneratorCacheSize)
	}
}

func TestEncryptRejectsWrongFragmentSize(t *testing.T) {
	p := constants.MOS128Params().EGRW
	pk, _, err := KeyGen(p, bytesOf(32, 0x33))
	if err != nil {
		t.Fatalf("KeyGen: %v", err)
	}
	if _, err := Encrypt(bytesOf(5, 0x01), pk, bytesOf(32, 0xF7)); err == nil {
		t.Error("expected error for undersized fragment")
	}
}

func TestDifferentSeedsProduceDifferentKeys(t *testing.T) {
	p := constants.MOS128Params().EGRW
	pk1, _, err := KeyGen(p, bytesOf(32, 0x11))
	if err != nil {
		t.Fatalf("KeyGen: %v", err)
	}
	pk2, _, err := KeyGen(p, bytesOf(32, 0x22))
	if err != nil {
		t.Fatalf("KeyGen: %v", err)
	}
	if pk1.VStart == pk2.VStart && pk1.VEnd == pk2.VEnd {
		t.Error("distinct seeds produced identical public keys")
	}
}
