// Package benchmark measures kMOSAIC's per-primitive and composite
// operation costs.
//
// Run with:
//
//	go test -bench=. -benchmem ./test/benchmark/
package benchmark

import (
	"testing"

	"github.com/kmosaic/kmosaic/internal/constants"
	"github.com/kmosaic/kmosaic/pkg/crypto"
	"github.com/kmosaic/kmosaic/pkg/egrw"
	"github.com/kmosaic/kmosaic/pkg/kem"
	"github.com/kmosaic/kmosaic/pkg/mosaic"
	"github.com/kmosaic/kmosaic/pkg/sig"
	"github.com/kmosaic/kmosaic/pkg/slss"
	"github.com/kmosaic/kmosaic/pkg/tdd"
)

func bytesOf(n int, b byte) []byte {
	out := make([]byte, n)
	for i := range out {
		out[i] = b
	}
	return out
}

// --- Primitive benchmarks ---

func BenchmarkSecureRandom32(b *testing.B) {
	buf := make([]byte, 32)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		crypto.SecureRandom(buf)
	}
}

func BenchmarkXOF32(b *testing.B) {
	input := bytesOf(32, 0x01)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		crypto.XOF(input, 32)
	}
}

// --- SLSS benchmarks ---

func BenchmarkSLSSKeyGen(b *testing.B) {
	p := constants.MOS128Params().SLSS
	seed := bytesOf(32, 0x02)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, _, err := slss.KeyGen(p, seed); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkSLSSEncrypt(b *testing.B) {
	p := constants.MOS128Params().SLSS
	pk, _, err := slss.KeyGen(p, bytesOf(32, 0x03))
	if err != nil {
		b.Fatal(err)
	}
	msg := bytesOf(32, 0x04)
	rand := bytesOf(32, 0x05)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := slss.Encrypt(msg, pk, rand); err != nil {
			b.Fatal(err)
		}
	}
}

// --- TDD benchmarks ---

func BenchmarkTDDKeyGen(b *testing.B) {
	p := constants.MOS128Params().TDD
	seed := bytesOf(32, 0x06)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, _, err := tdd.KeyGen(p, seed); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkTDDEncrypt(b *testing.B) {
	p := constants.MOS128Params().TDD
	pk, _, err := tdd.KeyGen(p, bytesOf(32, 0x07))
	if err != nil {
		b.Fatal(err)
	}
	msg := bytesOf(32, 0x08)
	rand := bytesOf(32, 0x09)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := tdd.Encrypt(msg, pk, rand); err != nil {
			b.Fatal(err)
		}
	}
}

// --- EGRW benchmarks ---

func BenchmarkEGRWKeyGen(b *testing.B) {
	p := constants.MOS128Params().EGRW
	seed := bytesOf(32, 0x0A)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, _, err := egrw.KeyGen(p, seed); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkEGRWEncrypt(b *testing.B) {
	p := constants.MOS128Params().EGRW
	pk, _, err := egrw.KeyGen(p, bytesOf(32, 0x0B))
	if err != nil {
		b.Fatal(err)
	}
	msg := bytesOf(32, 0x0C)
	rand := bytesOf(32, 0x0D)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := egrw.Encrypt(msg, pk, rand); err != nil {
			b.Fatal(err)
		}
	}
}

// --- Composite KEM benchmarks ---

func BenchmarkKEMKeyGen(b *testing.B) {
	level := constants.MOS128
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, _, err := kem.KeyGen(level); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkKEMEncapsulate(b *testing.B) {
	p := constants.MOS128Params()
	pk, _, err := mosaic.KeyGenFromSeed(p, bytesOf(32, 0x0E))
	if err != nil {
		b.Fatal(err)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, _, err := kem.Encapsulate(pk); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkKEMDecapsulate(b *testing.B) {
	p := constants.MOS128Params()
	pk, sk, err := mosaic.KeyGenFromSeed(p, bytesOf(32, 0x0F))
	if err != nil {
		b.Fatal(err)
	}
	_, ct, err := kem.EncapsulateDet(pk, bytesOf(32, 0x10))
	if err != nil {
		b.Fatal(err)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		kem.Decapsulate(ct, sk, pk)
	}
}

// --- Signature benchmarks ---

func BenchmarkSignMultiWitness(b *testing.B) {
	p := constants.MOS128Params()
	pk, sk, err := mosaic.KeyGenFromSeed(p, bytesOf(32, 0x11))
	if err != nil {
		b.Fatal(err)
	}
	msg := []byte("benchmark payload")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := sig.Sign(msg, sk, pk); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkVerifyMultiWitness(b *testing.B) {
	p := constants.MOS128Params()
	pk, sk, err := mosaic.KeyGenFromSeed(p, bytesOf(32, 0x12))
	if err != nil {
		b.Fatal(err)
	}
	msg := []byte("benchmark payload")
	s, err := sig.Sign(msg, sk, pk)
	if err != nil {
		b.Fatal(err)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		sig.Verify(msg, s, pk)
	}
}

func BenchmarkSignGoCompatible(b *testing.B) {
	p := constants.MOS128Params()
	pk, sk, err := mosaic.KeyGenFromSeed(p, bytesOf(32, 0x13))
	if err != nil {
		b.Fatal(err)
	}
	msg := []byte("benchmark payload")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := sig.SignGo(msg, sk, pk); err != nil {
			b.Fatal(err)
		}
	}
}
