// Package egrw implements the Cayley-graph random-walk primitive (C5): a
// walk in SL(2,Z_p) generated by (S, S^-1, T, T^-1), fragment encryption via
// an ephemeral walk endpoint, and a SHAKE-derived one-time pad bound to the
// public-key endpoints.
package egrw

import (
	"github.com/kmosaic/kmosaic/internal/constants"
	qerrors "github.com/kmosaic/kmosaic/internal/errors"
	"github.com/kmosaic/kmosaic/pkg/crypto"
)

const maxNonZeroAttempts = 64

// PublicKey is the pair (v_start, v_end) of SL(2,Z_p) matrices.
type PublicKey struct {
	Params constants.EGRWParams
	VStart Matrix
	VEnd   Matrix
}

// SecretKey is the walk (w_0,...,w_{k-1}) taking v_start to v_end.
type SecretKey struct {
	Params constants.EGRWParams
	Walk   []byte // entries in {0,1,2,3}
}

// Dispose zeroizes the secret walk in place. Best-effort: Go offers no
// guaranteed-cleanup hook on scope exit, so callers that hold a SecretKey
// past its last use must call Dispose explicitly.
func (sk *SecretKey) Dispose() {
	for i := range sk.Walk {
		sk.Walk[i] = 0
	}
}

// Ciphertext is the ephemeral walk endpoint plus the masked fragment.
type Ciphertext struct {
	VEph       Matrix
	Commitment []byte // 32 bytes
}

// KeyGen derives an EGRW key pair deterministically from a 32-byte seed.
func KeyGen(p constants.EGRWParams, seed []byte) (*PublicKey, *SecretKey, error) {
	return KeyGenWithCache(p, seed, DefaultGeneratorCache)
}

// KeyGenWithCache is KeyGen parameterized by an explicit generator cache.
// seed is not entropy-validated here: this entry point exists precisely so
// callers can reproduce a key pair from a fixed, caller-chosen seed (see
// mosaic.KeyGen for the validated, truly-random entry point).
func KeyGenWithCache(p constants.EGRWParams, seed []byte, cache *GeneratorCache) (*PublicKey, *SecretKey, error) {
	if len(seed) < crypto.MinSeedSize {
		return nil, nil, qerrors.NewCryptoError("egrw.KeyGen", qerrors.ErrInvalidSeed)
	}

	aSeed := crypto.HashWithDomain(constants.DomainEGRWWalk+"-a", seed)
	a, err := sampleNonZeroMod(constants.DomainEGRWWalk+"-a", aSeed, p.P)
	if err != nil {
		return nil, nil, qerrors.NewCryptoError("egrw.KeyGen", err)
	}
	bSeed := crypto.HashWithDomain(constants.DomainEGRWWalk+"-b", seed)
	b := crypto.SampleUniformMod(constants.DomainEGRWWalk+"-b", bSeed, p.P, 1)[0]
	cSeed := crypto.HashWithDomain(constants.DomainEGRWWalk+"-c", seed)
	c := crypto.SampleUniformMod(constants.DomainEGRWWalk+"-c", cSeed, p.P, 1)[0]

	aInv := modInverse(a, p.P)
	bc := mulMod(b, c, p.P)
	d := mulMod(addMod(1, bc, p.P), aInv, p.P)
	vStart := Matrix{A: a, B: b, C: c, D: d}

	walkSeed := crypto.HashWithDomain(constants.DomainEGRWWalk, seed)
	walk := sampleWalk(constants.DomainEGRWWalk, walkSeed, p.K)

	gens := cache.Get(p.P)
	vEnd := vStart
	for _, step := range walk {
		vEnd = Mul(vEnd, gens[step], p.P)
	}

	return &PublicKey{Params: p, VStart: vStart, VEnd: vEnd},
		&SecretKey{Params: p, Walk: walk}, nil
}

// Encrypt masks a 32-byte fragment with a keystream bound to an ephemeral
// walk endpoint and both public-key endpoints.
func Encrypt(fragment []byte, pk *PublicKey, randomness []byte) (*Ciphertext, error) {
	return EncryptWithCache(fragment, pk, randomness, DefaultGeneratorCache)
}

// EncryptWithCache is Encrypt parameterized by an explicit generator cache.
func EncryptWithCache(fragment []byte, pk *PublicKey, randomness []byte, cache *GeneratorCache) (*Ciphertext, error) {
	if len(fragment) != constants.FragmentSize {
		return nil, qerrors.NewCryptoError("egrw.Encrypt", qerrors.ErrEncodingError)
	}
	if len(randomness) < crypto.MinSeedSize {
		return nil, qerrors.NewCryptoError("egrw.Encrypt", qerrors.ErrInvalidRandomness)
	}

	p := pk.Params
	ephSeed := crypto.HashWithDomain(constants.DomainEGRWEphWalk, randomness)
	walk := sampleWalk(constants.DomainEGRWEphWalk, ephSeed, p.K)

	gens := cache.Get(p.P)
	vEph := pk.VStart
	for _, step := range walk {
		vEph = Mul(vEph, gens[step], p.P)
	}

	k := deriveKeystream(vEph, pk.VStart, pk.VEnd)
	commitment := make([]byte, constants.FragmentSize)
	for i := range commitment {
		commitment[i] = fragment[i] ^ k[i]
	}

	return &Ciphertext{VEph: vEph, Commitment: commitment}, nil
}

// Decrypt recomputes the keystream from the three recipient-public masks
// (v_eph, v_start, v_end); the secret walk is not used.
func Decrypt(ct *Ciphertext, pk *PublicKey) ([]byte, error) {
	if len(ct.Commitment) != constants.FragmentSize {
		return nil, qerrors.NewCryptoError("egrw.Decrypt", qerrors.ErrEncodingError)
	}
	k := deriveKeystream(ct.VEph, pk.VStart, pk.VEnd)
	out := make([]byte, constants.FragmentSize)
	for i := range out {
		out[i] = ct.Commitment[i] ^ k[i]
	}
	return out, nil
}

func deriveKeystream(vEph, vStart, vEnd Matrix) []byte {
	hEph := crypto.HashWithDomain(constants.DomainEGRWMask, bytesLE(vEph))
	hStart := crypto.HashWithDomain(constants.DomainEGRWMask, bytesLE(vStart))
	hEnd := crypto.HashWithDomain(constants.DomainEGRWMask, bytesLE(vEnd))
	input := make([]byte, 0, len(hEph)+len(hStart)+len(hEnd))
	input = append(input, hEph...)
	input = append(input, hStart...)
	input = append(input, hEnd...)
	return crypto.XOF(input, constants.FragmentSize)
}

func sampleWalk(domain string, seed []byte, k int) []byte {
	vals := crypto.SampleUniformMod(domain, seed, 4, k)
	walk := make([]byte, k)
	for i, v := range vals {
		walk[i] = byte(v)
	}
	return walk
}

func sampleNonZeroMod(domain string, seed []byte, q uint32) (uint32, error) {
	s := seed
	for attempt := 0; attempt < maxNonZeroAttempts; attempt++ {
		v := crypto.SampleUniformMod(domain, s, q, 1)[0]
		if v != 0 {
			return v, nil
		}
		s = crypto.HashWithDomain(domain, s)
	}
	return 0, qerrors.NewCryptoError("egrw.sampleNonZeroMod", qerrors.ErrInvalidSeed)
}
