package egrw

// Matrix is an element of SL(2,Z_p): (a,b,c,d) with ad - bc = 1 mod p.
type Matrix struct {
	A, B, C, D uint32
}

func mulMod(x, y, p uint32) uint32 {
	return uint32((uint64(x) * uint64(y)) % uint64(p))
}

func addMod(x, y, p uint32) uint32 {
	return uint32((uint64(x) + uint64(y)) % uint64(p))
}

func negMod(x, p uint32) uint32 {
	if x == 0 {
		return 0
	}
	return p - x
}

// Mul returns m*n mod p, standard 2x2 matrix multiplication.
func Mul(m, n Matrix, p uint32) Matrix {
	return Matrix{
		A: addMod(mulMod(m.A, n.A, p), mulMod(m.B, n.C, p), p),
		B: addMod(mulMod(m.A, n.B, p), mulMod(m.B, n.D, p), p),
		C: addMod(mulMod(m.C, n.A, p), mulMod(m.D, n.C, p), p),
		D: addMod(mulMod(m.C, n.B, p), mulMod(m.D, n.D, p), p),
	}
}

// Inverse returns m^-1 mod p using the SL(2) adjugate identity (d,-b,-c,a).
func Inverse(m Matrix, p uint32) Matrix {
	return Matrix{A: m.D, B: negMod(m.B, p), C: negMod(m.C, p), D: m.A}
}

// Identity returns the 2x2 identity matrix.
func Identity() Matrix {
	return Matrix{A: 1, B: 0, C: 0, D: 1}
}

// Determinant returns ad - bc mod p.
func Determinant(m Matrix, p uint32) uint32 {
	ad := mulMod(m.A, m.D, p)
	bc := mulMod(m.B, m.C, p)
	return uint32((uint64(ad) + uint64(p) - uint64(bc)) % uint64(p))
}

// modPow computes base^exp mod m via square-and-multiply.
func modPow(base, exp, m uint64) uint64 {
	result := uint64(1)
	base %= m
	for exp > 0 {
		if exp&1 == 1 {
			result = (result * base) % m
		}
		exp >>= 1
		base = (base * base) % m
	}
	return result
}

// modInverse returns a^-1 mod p for prime p via Fermat's little theorem.
func modInverse(a, p uint32) uint32 {
	return uint32(modPow(uint64(a), uint64(p)-2, uint64(p)))
}

// bytesLE encodes m as four little-endian uint32 words (16 bytes), matching
// the wire format's "vertex = (a,b,c,d) as four int32 LE".
func bytesLE(m Matrix) []byte {
	out := make([]byte, 16)
	putU32(out[0:4], m.A)
	putU32(out[4:8], m.B)
	putU32(out[8:12], m.C)
	putU32(out[12:16], m.D)
	return out
}

// MatrixBytes encodes m as the wire format's four little-endian uint32
// words, for callers outside this package that need to hash or serialize a
// vertex (e.g. the signature layer's w3 = bytes(v_start)).
func MatrixBytes(m Matrix) []byte {
	return bytesLE(m)
}

// MatrixFromBytes decodes a 16-byte vertex encoding produced by MatrixBytes.
func MatrixFromBytes(b []byte) Matrix {
	return matrixFromBytesLE(b)
}

func matrixFromBytesLE(b []byte) Matrix {
	return Matrix{
		A: getU32(b[0:4]),
		B: getU32(b[4:8]),
		C: getU32(b[8:12]),
		D: getU32(b[12:16]),
	}
}

func putU32(dst []byte, v uint32) {
	dst[0] = byte(v)
	dst[1] = byte(v >> 8)
	dst[2] = byte(v >> 16)
	dst[3] = byte(v >> 24)
}

func getU32(src []byte) uint32 {
	return uint32(src[0]) | uint32(src[1])<<8 | uint32(src[2])<<16 | uint32(src[3])<<24
}
