// Package slss implements the sparse-secret LWE-style primitive (C3): a
// dual-Regev-style key pair and fragment encryption/decryption built around
// a ternary secret of fixed Hamming weight.
package slss

import (
	"github.com/kmosaic/kmosaic/internal/constants"
	qerrors "github.com/kmosaic/kmosaic/internal/errors"
	"github.com/kmosaic/kmosaic/pkg/crypto"
)

// PublicKey is the matrix/target pair (A, t = A·s + e mod q).
type PublicKey struct {
	Params constants.SLSSParams
	A      []uint32 // row-major, m rows x n cols
	T      []uint32 // length m
}

// SecretKey is the ternary vector s of exact Hamming weight w.
type SecretKey struct {
	Params constants.SLSSParams
	S      []int8 // length n, entries in {-1,0,1}
}

// Dispose zeroizes the secret vector s in place. Best-effort: Go offers no
// guaranteed-cleanup hook on scope exit, so callers that hold a SecretKey
// past its last use must call Dispose explicitly.
func (sk *SecretKey) Dispose() {
	for i := range sk.S {
		sk.S[i] = 0
	}
}

// Ciphertext is the dual-Regev-style encryption of a 32-byte fragment.
type Ciphertext struct {
	U []uint32 // length n
	V []uint32 // length 8 * constants.FragmentSize
}

// KeyGen derives an SLSS key pair deterministically from a 32-byte seed.
// seed is not entropy-validated here: this entry point exists precisely so
// callers can reproduce a key pair from a fixed, caller-chosen seed (see
// mosaic.KeyGen for the validated, truly-random entry point).
func KeyGen(p constants.SLSSParams, seed []byte) (*PublicKey, *SecretKey, error) {
	if len(seed) < crypto.MinSeedSize {
		return nil, nil, qerrors.NewCryptoError("slss.KeyGen", qerrors.ErrInvalidSeed)
	}

	matrixSeed := crypto.HashWithDomain(constants.DomainSLSSMatrix, seed)
	secretSeed := crypto.HashWithDomain(constants.DomainSLSSSecret, seed)
	errorSeed := crypto.HashWithDomain(constants.DomainSLSSError, seed)

	a := crypto.SampleUniformMod(constants.DomainSLSSMatrix, matrixSeed, p.Q, p.M*p.N)
	s := crypto.SampleSparseTernary(constants.DomainSLSSSecret, secretSeed, p.N, p.W)
	e := crypto.SampleGaussianVector(constants.DomainSLSSError, errorSeed, p.M, p.Sigma)

	t := make([]uint32, p.M)
	for row := 0; row < p.M; row++ {
		var acc int64
		for col := 0; col < p.N; col++ {
			acc += int64(a[row*p.N+col]) * int64(s[col])
		}
		acc += int64(e[row])
		t[row] = reduceMod(acc, p.Q)
	}

	return &PublicKey{Params: p, A: a, T: t}, &SecretKey{Params: p, S: s}, nil
}

// Encrypt performs dual-Regev-style encryption of a 32-byte fragment under
// pk, using randomness of at least 32 bytes.
func Encrypt(fragment []byte, pk *PublicKey, randomness []byte) (*Ciphertext, error) {
	if len(fragment) != constants.FragmentSize {
		return nil, qerrors.NewCryptoError("slss.Encrypt", qerrors.ErrEncodingError)
	}
	if len(randomness) < crypto.MinSeedSize {
		return nil, qerrors.NewCryptoError("slss.Encrypt", qerrors.ErrInvalidRandomness)
	}

	p := pk.Params
	rWeight := p.W
	if p.M < rWeight {
		rWeight = p.M
	}
	r := crypto.SampleSparseTernary(constants.DomainSLSSEncR, randomness, p.M, rWeight)
	e1 := crypto.SampleGaussianVector(constants.DomainSLSSEncE1, randomness, p.N, p.Sigma)
	bitCount := 8 * constants.FragmentSize
	e2 := crypto.SampleGaussianVector(constants.DomainSLSSEncE2, randomness, bitCount, p.Sigma)

	u := make([]uint32, p.N)
	for col := 0; col < p.N; col++ {
		var acc int64
		for row := 0; row < p.M; row++ {
			acc += int64(pk.A[row*p.N+col]) * int64(r[row])
		}
		acc += int64(e1[col])
		u[col] = reduceMod(acc, p.Q)
	}

	var tDotR int64
	for row := 0; row < p.M; row++ {
		tDotR += int64(pk.T[row]) * int64(r[row])
	}
	tDotR = int64(reduceMod(tDotR, p.Q))

	half := int64(p.Q) / 2
	v := make([]uint32, bitCount)
	for i := 0; i < bitCount; i++ {
		bit := (fragment[i/8] >> uint(i%8)) & 1
		m := int64(bit) * half
		acc := tDotR + int64(e2[i]) + m
		v[i] = reduceMod(acc, p.Q)
	}

	return &Ciphertext{U: u, V: v}, nil
}

// Decrypt recovers the 32-byte fragment from ct using sk.
func Decrypt(ct *Ciphertext, sk *SecretKey) ([]byte, error) {
	p := sk.Params
	if len(ct.U) != p.N || len(ct.V) != 8*constants.FragmentSize {
		return nil, qerrors.NewCryptoError("slss.Decrypt", qerrors.ErrEncodingError)
	}

	var sDotU int64
	for col := 0; col < p.N; col++ {
		sDotU += int64(ct.U[col]) * int64(sk.S[col])
	}
	sDotU = int64(reduceMod(sDotU, p.Q))

	quarter := int64(p.Q) / 4
	out := make([]byte, constants.FragmentSize)
	for i, v := range ct.V {
		centered := crypto.CenteredMod(int64(v)-sDotU, p.Q)
		var bit byte
		if abs64(centered) > quarter {
			bit = 1
		}
		out[i/8] |= bit << uint(i%8)
	}
	return out, nil
}

func reduceMod(x int64, q uint32) uint32 {
	qi := int64(q)
	r := x % qi
	if r < 0 {
		r += qi
	}
	return uint32(r)
}

func abs64(x int64) int64 {
	if x < 0 {
		return -x
	}
	return x
}
