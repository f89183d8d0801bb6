// Package tdd implements the noisy low-rank tensor-decomposition primitive
// (C4): a rank-r 3-tensor secret with Gaussian noise, fragment encryption by
// tensor-vector contraction plus additive masking, and a SHAKE-derived
// keystream XOR.
package tdd

import (
	"fmt"

	"github.com/kmosaic/kmosaic/internal/constants"
	qerrors "github.com/kmosaic/kmosaic/internal/errors"
	"github.com/kmosaic/kmosaic/pkg/crypto"
)

// PublicKey is the published tensor T = sum_i a_i⊗b_i⊗c_i + E mod q, stored
// row-major with index (i,j,k) at i*n*n + j*n + k.
type PublicKey struct {
	Params constants.TDDParams
	T      []uint32
}

// SecretKey is the three length-r lists of factor vectors, each of length n.
type SecretKey struct {
	Params constants.TDDParams
	A      [][]uint32
	B      [][]uint32
	C      [][]uint32
}

// Dispose zeroizes the three factor-vector lists in place. Best-effort: Go
// offers no guaranteed-cleanup hook on scope exit, so callers that hold a
// SecretKey past its last use must call Dispose explicitly.
func (sk *SecretKey) Dispose() {
	for _, rows := range [][][]uint32{sk.A, sk.B, sk.C} {
		for _, row := range rows {
			for i := range row {
				row[i] = 0
			}
		}
	}
}

// Ciphertext packs the masked contraction matrix M (n*n words) followed by
// the 32-byte masked message (8 words) as a flat int array of length
// n*n+8.
type Ciphertext struct {
	Data []uint32
}

func factorSeed(mode string, index int, seed []byte) []byte {
	tag := fmt.Sprintf("%s-%s-%d", constants.DomainTDDFactor, mode, index)
	return crypto.HashWithDomain(tag, seed)
}

// KeyGen derives a TDD key pair deterministically from a 32-byte seed. seed
// is not entropy-validated here: this entry point exists precisely so
// callers can reproduce a key pair from a fixed, caller-chosen seed (see
// mosaic.KeyGen for the validated, truly-random entry point).
func KeyGen(p constants.TDDParams, seed []byte) (*PublicKey, *SecretKey, error) {
	if len(seed) < crypto.MinSeedSize {
		return nil, nil, qerrors.NewCryptoError("tdd.KeyGen", qerrors.ErrInvalidSeed)
	}

	a := make([][]uint32, p.R)
	b := make([][]uint32, p.R)
	c := make([][]uint32, p.R)
	for i := 0; i < p.R; i++ {
		aSeed := factorSeed("a", i, seed)
		bSeed := factorSeed("b", i, seed)
		cSeed := factorSeed("c", i, seed)
		a[i] = crypto.SampleUniformMod(constants.DomainTDDFactor, aSeed, p.Q, p.N)
		b[i] = crypto.SampleUniformMod(constants.DomainTDDFactor, bSeed, p.Q, p.N)
		c[i] = crypto.SampleUniformMod(constants.DomainTDDFactor, cSeed, p.Q, p.N)
	}

	noiseSeed := crypto.HashWithDomain(constants.DomainTDDNoise, seed)
	n3 := p.N * p.N * p.N
	e := crypto.SampleGaussianVector(constants.DomainTDDNoise, noiseSeed, n3, p.Sigma)

	t := make([]uint32, n3)
	for f := 0; f < p.R; f++ {
		af, bf, cf := a[f], b[f], c[f]
		for i := 0; i < p.N; i++ {
			if af[i] == 0 {
				continue
			}
			base := i * p.N * p.N
			for j := 0; j < p.N; j++ {
				aibj := int64(af[i]) * int64(bf[j])
				if aibj == 0 {
					continue
				}
				row := base + j*p.N
				for k := 0; k < p.N; k++ {
					t[row+k] = reduceMod(int64(t[row+k])+aibj*int64(cf[k]), p.Q)
				}
			}
		}
	}
	for idx := range t {
		t[idx] = reduceMod(int64(t[idx])+int64(e[idx]), p.Q)
	}

	return &PublicKey{Params: p, T: t}, &SecretKey{Params: p, A: a, B: b, C: c}, nil
}

// Encrypt contracts the public tensor along its first mode with a
// message-derived vector, masks the result, and XORs the fragment against a
// SHAKE-derived keystream of the masked matrix.
func Encrypt(fragment []byte, pk *PublicKey, randomness []byte) (*Ciphertext, error) {
	if len(fragment) != constants.FragmentSize {
		return nil, qerrors.NewCryptoError("tdd.Encrypt", qerrors.ErrEncodingError)
	}
	if len(randomness) < crypto.MinSeedSize {
		return nil, qerrors.NewCryptoError("tdd.Encrypt", qerrors.ErrInvalidRandomness)
	}

	p := pk.Params
	lambdaLen := p.R
	if lambdaLen > constants.FragmentSize {
		lambdaLen = constants.FragmentSize
	}
	qOver256 := int64(p.Q) / 256
	lambda := make([]uint32, lambdaLen)
	for i := 0; i < lambdaLen; i++ {
		lambda[i] = reduceMod(int64(fragment[i])*qOver256, p.Q)
	}

	n := p.N
	c := make([]uint32, n*n)
	for i := 0; i < lambdaLen; i++ {
		if lambda[i] == 0 {
			continue
		}
		base := i * n * n
		for jk := 0; jk < n*n; jk++ {
			c[jk] = reduceMod(int64(c[jk])+int64(pk.T[base+jk])*int64(lambda[i]), p.Q)
		}
	}

	maskSeed := crypto.HashWithDomain(constants.DomainTDDMask, randomness)
	r := crypto.SampleUniformMod(constants.DomainTDDMask, maskSeed, p.Q, n*n)

	m := make([]uint32, n*n)
	for i := range m {
		m[i] = reduceMod(int64(c[i])+int64(r[i]), p.Q)
	}

	k := deriveKeystream(m)
	eMsg := make([]byte, constants.FragmentSize)
	for i := range eMsg {
		eMsg[i] = fragment[i] ^ k[i]
	}

	data := make([]uint32, n*n+8)
	copy(data, m)
	copy(data[n*n:], bytesToWords(eMsg))

	return &Ciphertext{Data: data}, nil
}

// Decrypt recomputes the keystream from the masked matrix and XORs it back
// against the masked message; it never consults the secret tensor factors.
func Decrypt(ct *Ciphertext, sk *SecretKey) ([]byte, error) {
	n := sk.Params.N
	expected := n*n + 8
	if len(ct.Data) != expected {
		return nil, qerrors.NewCryptoError("tdd.Decrypt", qerrors.ErrEncodingError)
	}

	m := ct.Data[:n*n]
	eMsgWords := ct.Data[n*n:]
	k := deriveKeystream(m)
	eMsg := wordsToBytes(eMsgWords)

	out := make([]byte, constants.FragmentSize)
	for i := range out {
		out[i] = eMsg[i] ^ k[i]
	}
	return out, nil
}

func deriveKeystream(m []uint32) []byte {
	mBytes := wordsToBytesLE(m)
	seed := crypto.HashWithDomain(constants.DomainTDDHint, mBytes)
	return crypto.XOF(seed, constants.FragmentSize)
}

func wordsToBytesLE(words []uint32) []byte {
	out := make([]byte, 4*len(words))
	for i, w := range words {
		out[4*i] = byte(w)
		out[4*i+1] = byte(w >> 8)
		out[4*i+2] = byte(w >> 16)
		out[4*i+3] = byte(w >> 24)
	}
	return out
}

func bytesToWords(b []byte) []uint32 {
	out := make([]uint32, len(b)/4)
	for i := range out {
		out[i] = uint32(b[4*i]) | uint32(b[4*i+1])<<8 | uint32(b[4*i+2])<<16 | uint32(b[4*i+3])<<24
	}
	return out
}

func wordsToBytes(words []uint32) []byte {
	return wordsToBytesLE(words)
}

func reduceMod(x int64, q uint32) uint32 {
	qi := int64(q)
	r := x % qi
	if r < 0 {
		r += qi
	}
	return uint32(r)
}
