package crypto

import (
	"encoding/binary"

	"golang.org/x/crypto/sha3"
)

// le32 appends the little-endian 4-byte encoding of n to buf.
func le32(buf []byte, n int) []byte {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], uint32(n))
	return append(buf, tmp[:]...)
}

// HashConcat computes SHA3-256(DOM_CONCAT || LE32(count) || (LE32(len(x_i)) || x_i)...).
// Plain concatenation of the inputs is forbidden because it admits
// cross-input collisions; every component is length-prefixed so the mapping
// from output to input segmentation is unambiguous.
func HashConcat(xs ...[]byte) []byte {
	h := sha3.New256()
	h.Write([]byte(domainConcat))

	var lenBuf []byte
	lenBuf = le32(lenBuf[:0], len(xs))
	h.Write(lenBuf)

	for _, x := range xs {
		lenBuf = le32(lenBuf[:0], len(x))
		h.Write(lenBuf)
		h.Write(x)
	}
	return h.Sum(nil)
}

// domainConcat tags HashConcat's own framing, distinct from any caller-chosen
// domain string passed to HashWithDomain.
const domainConcat = "kmosaic-hash-concat-v1"

// HashWithDomain computes SHA3-256(LE32(len(tag)) || tag || LE32(len(x)) || x).
func HashWithDomain(tag string, x []byte) []byte {
	h := sha3.New256()
	tagBytes := []byte(tag)

	var lenBuf []byte
	lenBuf = le32(lenBuf[:0], len(tagBytes))
	h.Write(lenBuf)
	h.Write(tagBytes)

	lenBuf = le32(lenBuf[:0], len(x))
	h.Write(lenBuf)
	h.Write(x)

	return h.Sum(nil)
}

// Hash256 computes the fixed 256-bit domain hash H_256 used for pk_hash and
// ciphertext-component hashes: plain SHA3-256 over the raw bytes (callers
// that need domain separation use HashWithDomain or HashConcat instead).
func Hash256(x []byte) []byte {
	h := sha3.New256()
	h.Write(x)
	return h.Sum(nil)
}
