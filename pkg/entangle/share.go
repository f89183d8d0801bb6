// Package entangle implements the cross-primitive entanglement layer (C6):
// XOR n-of-n secret sharing, the binding hash over the three primitive
// public keys, a commitment scheme, and the Fiat-Shamir NIZK proof of
// well-formedness that ties a shared secret to its per-primitive encryptions.
package entangle

import (
	"fmt"

	qerrors "github.com/kmosaic/kmosaic/internal/errors"
	"github.com/kmosaic/kmosaic/pkg/crypto"
)

const shareDomainPrefix = "kmosaic-share-v1-"

// Share splits secret into n uniformly random shares whose XOR reconstructs
// it, using the OS RNG for the first n-1 shares.
func Share(secret []byte, n int) ([][]byte, error) {
	if n < 2 || n > 255 {
		return nil, qerrors.NewCryptoError("entangle.Share", qerrors.ErrInvalidParameter)
	}
	shares := make([][]byte, n)
	acc := make([]byte, len(secret))
	for i := 0; i < n-1; i++ {
		share, err := crypto.SecureRandomBytes(len(secret))
		if err != nil {
			return nil, qerrors.NewCryptoError("entangle.Share", err)
		}
		shares[i] = share
		xorInto(acc, share)
	}
	last := make([]byte, len(secret))
	for i := range last {
		last[i] = secret[i] ^ acc[i]
	}
	shares[n-1] = last
	return shares, nil
}

// ShareDeterministic splits secret into n shares derived entirely from seed,
// so that the same (secret, n, seed) always produces the same shares.
func ShareDeterministic(secret []byte, n int, seed []byte) ([][]byte, error) {
	if n < 2 || n > 255 {
		return nil, qerrors.NewCryptoError("entangle.ShareDeterministic", qerrors.ErrInvalidParameter)
	}
	if len(seed) < 16 {
		return nil, qerrors.NewCryptoError("entangle.ShareDeterministic", qerrors.ErrInvalidSeed)
	}
	shares := make([][]byte, n)
	acc := make([]byte, len(secret))
	for i := 0; i < n-1; i++ {
		tag := fmt.Sprintf("%s%d", shareDomainPrefix, i)
		h := crypto.HashWithDomain(tag, seed)
		share := crypto.XOF(h, len(secret))
		shares[i] = share
		xorInto(acc, share)
	}
	last := make([]byte, len(secret))
	for i := range last {
		last[i] = secret[i] ^ acc[i]
	}
	shares[n-1] = last
	return shares, nil
}

// Reconstruct XORs all shares back into the original secret.
func Reconstruct(shares [][]byte) []byte {
	if len(shares) == 0 {
		return nil
	}
	out := make([]byte, len(shares[0]))
	for _, s := range shares {
		xorInto(out, s)
	}
	return out
}

func xorInto(acc, b []byte) {
	for i := range acc {
		acc[i] ^= b[i]
	}
}
