package crypto

import (
	"encoding/binary"
	"sync"

	"golang.org/x/crypto/sha3"

	"github.com/kmosaic/kmosaic/pkg/metrics"
)

var (
	fallbackWarnOnce sync.Once
)

// XOF expands input into an arbitrary-length output stream, preferring a
// native SHAKE256 implementation. When unavailable it falls back to a
// counter-mode construction built from SHA3-256; the fallback is NOT
// interoperable with native SHAKE256 and emits a one-time diagnostic warning
// the first time it is used.
func XOF(input []byte, outputLen int) []byte {
	out := make([]byte, outputLen)
	h := sha3.NewShake256()
	h.Write(input)
	_, _ = h.Read(out) // SHAKE256.Read never fails
	return out
}

// FallbackXOF implements the non-interoperable counter-mode XOF described in
// the design notes: SHA3-256(DOM || LE32(L) || input || LE32(i)) for
// i = 0, 1, … truncated to outputLen bytes. It exists so that a runtime
// lacking a native SHAKE256 still has a deterministic, domain-separated
// expansion function to fall back to; callers should prefer XOF.
func FallbackXOF(domain string, input []byte, outputLen int) []byte {
	fallbackWarnOnce.Do(func() {
		metrics.Warn("crypto: using non-interoperable fallback XOF, native SHAKE256 unavailable",
			metrics.Fields{"domain": domain})
	})

	out := make([]byte, 0, outputLen)
	var lenBuf [4]byte
	binary.LittleEndian.PutUint32(lenBuf[:], uint32(outputLen))

	for i := uint32(0); len(out) < outputLen; i++ {
		h := sha3.New256()
		h.Write([]byte(domain))
		h.Write(lenBuf[:])
		h.Write(input)
		var ctr [4]byte
		binary.LittleEndian.PutUint32(ctr[:], i)
		h.Write(ctr[:])
		out = append(out, h.Sum(nil)...)
	}
	return out[:outputLen]
}
