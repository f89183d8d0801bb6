// Package kem composes the SLSS, TDD, and EGRW primitives under a
// Fujisaki-Okamoto transform (C7): fragment-encrypt a 3-of-3 share of an
// ephemeral secret under each primitive, bind the shares with a NIZK proof,
// and decapsulate with constant-time implicit rejection on any mismatch.
package kem

import (
	"time"

	"github.com/kmosaic/kmosaic/internal/constants"
	qerrors "github.com/kmosaic/kmosaic/internal/errors"
	"github.com/kmosaic/kmosaic/pkg/crypto"
	"github.com/kmosaic/kmosaic/pkg/egrw"
	"github.com/kmosaic/kmosaic/pkg/entangle"
	"github.com/kmosaic/kmosaic/pkg/metrics"
	"github.com/kmosaic/kmosaic/pkg/mosaic"
	"github.com/kmosaic/kmosaic/pkg/params"
	"github.com/kmosaic/kmosaic/pkg/slss"
	"github.com/kmosaic/kmosaic/pkg/tdd"
)

// PublicKey and SecretKey are the composite mosaic keys, re-exported here so
// callers need only import this package for the KEM surface.
type PublicKey = mosaic.PublicKey
type SecretKey = mosaic.SecretKey

// Ciphertext is the composite KEM ciphertext: one fragment ciphertext per
// primitive plus the NIZK proof binding them to the shared secret.
type Ciphertext struct {
	C1    *slss.Ciphertext
	C2    *tdd.Ciphertext
	C3    *egrw.Ciphertext
	Proof *entangle.Proof
}

// NewHealthCheck builds a metrics.HealthCheck wired to this package's
// operational counters plus a liveness check on the OS RNG backing KeyGen
// and Encapsulate, satisfying §6's requirement that a secure RNG's absence
// be a fatal, observable condition rather than a silent one.
func NewHealthCheck(version string) *metrics.HealthCheck {
	h := metrics.NewHealthCheck(metrics.Global(), version)
	h.AddCheck("rng", func() error {
		result := crypto.RNGHealthCheck()
		if !result.Passed {
			return result.Error
		}
		return nil
	})
	h.AddCheck("conditional-self-test", func() error {
		if !crypto.CSTEnabled() {
			return qerrors.NewCryptoError("kem.NewHealthCheck", qerrors.ErrInvalidParameter)
		}
		cfg := crypto.GetCSTConfig()
		if !cfg.EnableKeyGenConsistency {
			return qerrors.NewCryptoError("kem.NewHealthCheck", qerrors.ErrInvalidParameter)
		}
		return nil
	})
	return h
}

// ConfigureCST installs a non-default conditional self-test configuration,
// e.g. to disable the per-KeyGen pairwise consistency check in a context
// that already verifies it out of band, or to tune the RNG health-check
// interval. Must be called before KeyGen if non-default behavior is needed.
func ConfigureCST(config crypto.CSTConfig) {
	crypto.InitCST(config)
}

// KeyGen draws a fresh master seed and derives a composite KEM key pair,
// then runs a pairwise consistency check (FIPS-style conditional self-test)
// on the freshly generated pair before returning it: a broken KeyGen is
// caught here, in-band, rather than surfacing as a silent decapsulation
// failure later.
func KeyGen(level constants.ParamLevel) (*PublicKey, *SecretKey, error) {
	start := time.Now()
	pk, sk, err := mosaic.KeyGen(level)
	if err != nil {
		metrics.Global().KeyGenFailed()
		return nil, nil, err
	}
	if cstErr := runPairwiseConsistencyCheck(pk, sk); cstErr != nil {
		metrics.Global().KeyGenFailed()
		return nil, nil, qerrors.NewCryptoError("kem.KeyGen", cstErr)
	}
	metrics.Global().KeyGenSucceeded(time.Since(start))
	return pk, sk, nil
}

// runPairwiseConsistencyCheck encapsulates and decapsulates with a freshly
// generated key pair and verifies the shared secrets match.
func runPairwiseConsistencyCheck(pk *PublicKey, sk *SecretKey) error {
	return crypto.RunKeyGenConsistencyCheck(
		func() (ct, ss []byte, err error) {
			ss, c, err := Encapsulate(pk)
			if err != nil {
				return nil, nil, err
			}
			return SerializeCiphertext(c), ss, nil
		},
		func(ctBytes []byte) ([]byte, error) {
			c, err := DeserializeCiphertext(pk.Params.Level, ctBytes)
			if err != nil {
				return nil, err
			}
			return Decapsulate(c, sk, pk), nil
		},
	)
}

// KeyGenFromSeed deterministically derives a composite KEM key pair.
func KeyGenFromSeed(p constants.MOSAICParams, seed []byte) (*PublicKey, *SecretKey, error) {
	return mosaic.KeyGenFromSeed(p, seed)
}

// Encapsulate draws a fresh 32-byte ephemeral secret and encapsulates it.
func Encapsulate(pk *PublicKey) (ss []byte, ct *Ciphertext, err error) {
	m := make([]byte, constants.FragmentSize)
	if err := crypto.SecureRandomWithCST(m); err != nil {
		return nil, nil, qerrors.NewCryptoError("kem.Encapsulate", err)
	}
	defer crypto.Zeroize(m)
	return EncapsulateDet(pk, m)
}

// EncapsulateDet deterministically encapsulates the 32-byte ephemeral
// secret m, so that repeated calls with the same (pk, m) yield identical
// ciphertexts and shared secrets.
func EncapsulateDet(pk *PublicKey, m []byte) ([]byte, *Ciphertext, error) {
	start := time.Now()
	ss, ct, err := encapsulateDet(pk, m)
	if err != nil {
		metrics.Global().EncapsulateFailed()
		return nil, nil, err
	}
	metrics.Global().EncapsulateSucceeded(time.Since(start))
	return ss, ct, nil
}

func encapsulateDet(pk *PublicKey, m []byte) ([]byte, *Ciphertext, error) {
	if len(m) != constants.FragmentSize {
		return nil, nil, qerrors.NewCryptoError("kem.EncapsulateDet", qerrors.ErrEncodingError)
	}

	rand := crypto.HashConcat(m, pk.Binding)
	shares, err := entangle.ShareDeterministic(m, 3, rand)
	if err != nil {
		return nil, nil, qerrors.NewCryptoError("kem.EncapsulateDet", err)
	}

	c1, err := slss.Encrypt(shares[0], pk.SLSS, crypto.HashWithDomain(constants.DomainKEMSLSSRand, rand))
	if err != nil {
		return nil, nil, qerrors.NewCryptoError("kem.EncapsulateDet", err)
	}
	c2, err := tdd.Encrypt(shares[1], pk.TDD, crypto.HashWithDomain(constants.DomainKEMTDDRand, rand))
	if err != nil {
		return nil, nil, qerrors.NewCryptoError("kem.EncapsulateDet", err)
	}
	c3, err := egrw.Encrypt(shares[2], pk.EGRW, crypto.HashWithDomain(constants.DomainKEMEGRWRand, rand))
	if err != nil {
		return nil, nil, qerrors.NewCryptoError("kem.EncapsulateDet", err)
	}

	ctHashes := fragmentHashes(c1, c2, c3)

	var sharesArr [3][]byte
	copy(sharesArr[:], shares)
	proof, err := entangle.Prove(m, sharesArr, ctHashes, crypto.HashWithDomain(constants.DomainKEMNIZK, rand))
	if err != nil {
		return nil, nil, qerrors.NewCryptoError("kem.EncapsulateDet", err)
	}

	ct := &Ciphertext{C1: c1, C2: c2, C3: c3, Proof: proof}
	ss := sharedSecret(m, ct)
	return ss, ct, nil
}

// Decapsulate recovers the shared secret, falling back to a pseudorandom
// implicit-reject value (derived from the secret-key seed and the
// ciphertext) on any re-encapsulation mismatch or NIZK failure. It always
// returns a 32-byte value for a structurally valid ciphertext; it never
// surfaces a cryptographic failure to the caller.
func Decapsulate(ct *Ciphertext, sk *SecretKey, pk *PublicKey) []byte {
	start := time.Now()
	ss, rejected := decapsulate(ct, sk, pk)
	metrics.Global().DecapsulateObserved(time.Since(start), rejected)
	return ss
}

func decapsulate(ct *Ciphertext, sk *SecretKey, pk *PublicKey) (ss []byte, rejected bool) {
	ctBytes := SerializeCiphertext(ct)
	reject := crypto.XOF(crypto.HashWithDomain(constants.DomainKEMReject, crypto.HashConcat(sk.Seed, ctBytes)), 32)
	defer crypto.Zeroize(reject)

	// A disposed key's secret components are zeroized; Decapsulate's return
	// type is fixed at a 32-byte value per §6, so errors.ErrInvalidKeyState
	// cannot be surfaced here. Fall back to the same implicit-reject path any
	// other decapsulation failure takes, rather than operating on zeroized
	// secret material and returning a misleadingly "successful" result.
	if sk.Disposed() {
		return append([]byte(nil), reject...), true
	}

	s1, err1 := slss.Decrypt(ct.C1, sk.SLSS)
	s2, err2 := tdd.Decrypt(ct.C2, sk.TDD)
	s3, err3 := egrw.Decrypt(ct.C3, pk.EGRW)
	decryptOK := err1 == nil && err2 == nil && err3 == nil
	if !decryptOK {
		s1 = make([]byte, constants.FragmentSize)
		s2 = make([]byte, constants.FragmentSize)
		s3 = make([]byte, constants.FragmentSize)
	}
	defer crypto.ZeroizeMultiple(s1, s2, s3)

	mPrime := entangle.Reconstruct([][]byte{s1, s2, s3})
	defer crypto.Zeroize(mPrime)

	_, ctPrime, reErr := encapsulateDet(pk, mPrime)
	ok1 := reErr == nil && decryptOK && crypto.ConstantTimeCompare(ctBytes, SerializeCiphertext(ctPrime))

	ctHashes := fragmentHashes(ct.C1, ct.C2, ct.C3)
	ok2 := decryptOK && entangle.Verify(ct.Proof, ctHashes, mPrime)

	ssReal := sharedSecret(mPrime, ct)
	defer crypto.Zeroize(ssReal)

	accepted := ok1 && ok2
	return crypto.Select(accepted, ssReal, reject), !accepted
}

func fragmentHashes(c1 *slss.Ciphertext, c2 *tdd.Ciphertext, c3 *egrw.Ciphertext) [3][]byte {
	return [3][]byte{
		crypto.Hash256(slss.SerializeCiphertext(c1)),
		crypto.Hash256(tdd.SerializeCiphertext(c2)),
		crypto.Hash256(egrw.SerializeCiphertext(c3)),
	}
}

func sharedSecret(m []byte, ct *Ciphertext) []byte {
	ctHash := crypto.Hash256(SerializeCiphertext(ct))
	return crypto.XOF(crypto.HashWithDomain(constants.DomainKEMSharedSecret, crypto.HashConcat(m, ctHash)), 32)
}

// paramsForLevel is a convenience used by the wire layer to resolve a
// parameter set when only a level is available.
func paramsForLevel(level constants.ParamLevel) (constants.MOSAICParams, error) {
	return params.Get(level)
}
