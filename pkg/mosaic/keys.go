// Package mosaic holds the composite key types shared by the KEM and
// signature layers: a public key entangling an SLSS, TDD, and EGRW public
// key under a binding hash, and the matching secret key retaining the
// master seed for implicit rejection.
package mosaic

import (
	"github.com/kmosaic/kmosaic/internal/constants"
	qerrors "github.com/kmosaic/kmosaic/internal/errors"
	"github.com/kmosaic/kmosaic/pkg/crypto"
	"github.com/kmosaic/kmosaic/pkg/egrw"
	"github.com/kmosaic/kmosaic/pkg/entangle"
	"github.com/kmosaic/kmosaic/pkg/params"
	"github.com/kmosaic/kmosaic/pkg/slss"
	"github.com/kmosaic/kmosaic/pkg/tdd"
)

// PublicKey entangles the three primitive public keys under a binding hash.
type PublicKey struct {
	Params  constants.MOSAICParams
	SLSS    *slss.PublicKey
	TDD     *tdd.PublicKey
	EGRW    *egrw.PublicKey
	Binding []byte
}

// SecretKey retains the three primitive secret keys plus the master seed
// (needed for KEM implicit rejection) and the public key's hash.
type SecretKey struct {
	Params   constants.MOSAICParams
	SLSS     *slss.SecretKey
	TDD      *tdd.SecretKey
	EGRW     *egrw.SecretKey
	Seed     []byte
	PKHash   []byte
	disposed bool
}

// Dispose zeroizes every secret component (master seed and the three
// primitive secret keys) and marks sk as disposed. Best-effort: Go offers no
// guaranteed-cleanup hook on scope exit, so the caller that owns a
// SecretKey's lifetime must call Dispose explicitly once it is done signing
// or decapsulating with it. Operations on a disposed key fail with
// errors.ErrInvalidKeyState instead of operating on zeroized material.
func (sk *SecretKey) Dispose() {
	crypto.Zeroize(sk.Seed)
	crypto.Zeroize(sk.PKHash)
	sk.SLSS.Dispose()
	sk.TDD.Dispose()
	sk.EGRW.Dispose()
	sk.disposed = true
}

// Disposed reports whether Dispose has been called on sk.
func (sk *SecretKey) Disposed() bool {
	return sk.disposed
}

func componentSeed(tag string, master []byte) []byte {
	return crypto.HashWithDomain(tag, master)
}

// ComputePKHash returns the 256-bit hash of pk's canonical serialization.
// Both the signer (cached on the secret key at generation time) and the
// verifier (recomputed fresh from the public key) must arrive at the same
// value.
func ComputePKHash(pk *PublicKey) []byte {
	return crypto.Hash256(SerializePublicKeyCanonical(pk))
}

// KeyGen draws a fresh 32-byte master seed via the OS RNG and derives a
// composite key pair for level. The drawn seed is entropy-validated as a
// sanity check on the RNG output; KeyGenFromSeed, and the primitive KeyGen
// entry points it calls, accept any caller-chosen seed without this check
// so reproducible key generation from a fixed seed is not rejected.
func KeyGen(level constants.ParamLevel) (*PublicKey, *SecretKey, error) {
	p, err := params.Get(level)
	if err != nil {
		return nil, nil, qerrors.NewCryptoError("mosaic.KeyGen", err)
	}
	seed := make([]byte, 32)
	if err := crypto.SecureRandomWithCST(seed); err != nil {
		return nil, nil, qerrors.NewCryptoError("mosaic.KeyGen", err)
	}
	defer crypto.Zeroize(seed)
	if err := crypto.ValidateSeedEntropy(seed); err != nil {
		return nil, nil, qerrors.NewCryptoError("mosaic.KeyGen", err)
	}
	return KeyGenFromSeed(p, seed)
}

// KeyGenFromSeed deterministically derives a composite key pair from a
// 32-byte master seed. seed is only length-checked, not entropy-validated:
// this is the reproducible entry point §6 exposes for fixed test/deployment
// seeds, including all-equal-byte ones.
func KeyGenFromSeed(p constants.MOSAICParams, seed []byte) (*PublicKey, *SecretKey, error) {
	if len(seed) < crypto.MinSeedSize {
		return nil, nil, qerrors.NewCryptoError("mosaic.KeyGenFromSeed", qerrors.ErrInvalidSeed)
	}
	if err := params.Validate(p); err != nil {
		return nil, nil, qerrors.NewCryptoError("mosaic.KeyGenFromSeed", err)
	}

	slssSeed := componentSeed(constants.DomainKEMSeedSLSS, seed)
	tddSeed := componentSeed(constants.DomainKEMSeedTDD, seed)
	egrwSeed := componentSeed(constants.DomainKEMSeedEGRW, seed)

	slssPK, slssSK, err := slss.KeyGen(p.SLSS, slssSeed)
	if err != nil {
		return nil, nil, qerrors.NewCryptoError("mosaic.KeyGenFromSeed", err)
	}
	tddPK, tddSK, err := tdd.KeyGen(p.TDD, tddSeed)
	if err != nil {
		return nil, nil, qerrors.NewCryptoError("mosaic.KeyGenFromSeed", err)
	}
	egrwPK, egrwSK, err := egrw.KeyGen(p.EGRW, egrwSeed)
	if err != nil {
		return nil, nil, qerrors.NewCryptoError("mosaic.KeyGenFromSeed", err)
	}

	binding := entangle.ComputeBinding(
		slss.SerializePublicKey(slssPK),
		tdd.SerializePublicKey(tddPK),
		egrw.SerializePublicKey(egrwPK),
	)

	pk := &PublicKey{Params: p, SLSS: slssPK, TDD: tddPK, EGRW: egrwPK, Binding: binding}
	pkHash := ComputePKHash(pk)

	seedCopy := append([]byte(nil), seed...)
	sk := &SecretKey{Params: p, SLSS: slssSK, TDD: tddSK, EGRW: egrwSK, Seed: seedCopy, PKHash: pkHash}
	return pk, sk, nil
}
