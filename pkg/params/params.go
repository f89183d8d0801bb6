// Package params exposes kMOSAIC's two frozen parameter sets, MOS-128 and
// MOS-256, and the validator that enforces their dimensional, primality, and
// security-margin invariants.
package params

import (
	"math/big"

	"github.com/kmosaic/kmosaic/internal/constants"
	qerrors "github.com/kmosaic/kmosaic/internal/errors"
)

// Params is an alias for the frozen parameter tuple type, re-exported here
// so callers need only import this package for parameter handling.
type Params = constants.MOSAICParams

// Get returns the frozen parameter tuple for level, or an error if level
// names neither MOS-128 nor MOS-256.
func Get(level constants.ParamLevel) (Params, error) {
	switch level {
	case constants.MOS128:
		return constants.MOS128Params(), nil
	case constants.MOS256:
		return constants.MOS256Params(), nil
	default:
		return Params{}, qerrors.NewCryptoError("params.Get", qerrors.ErrInvalidParameter)
	}
}

// Validate enforces every invariant from the data model: SLSS dimensions
// and weight, TDD rank and modulus, and EGRW primality and walk length.
func Validate(p Params) error {
	if p.SLSS.N <= 0 || p.SLSS.M <= 0 {
		return invalid("slss dimensions must be positive")
	}
	if p.SLSS.W > p.SLSS.N {
		return invalid("slss weight must not exceed dimension n")
	}
	if !isPrimeUint32(p.SLSS.Q) {
		return invalid("slss modulus must be prime")
	}
	if p.SLSS.M*2 < p.SLSS.N {
		return invalid("slss m must be >= n/2")
	}
	if p.SLSS.Sigma < 3.0 {
		return invalid("slss sigma must be >= 3.0")
	}

	if p.TDD.N <= 0 || p.TDD.R <= 0 {
		return invalid("tdd dimensions must be positive")
	}
	if p.TDD.R > p.TDD.N {
		return invalid("tdd rank must not exceed dimension n")
	}
	if !isPrimeUint32(p.TDD.Q) {
		return invalid("tdd modulus must be prime")
	}

	if !isPrimeUint32(p.EGRW.P) {
		return invalid("egrw modulus must be prime")
	}
	if p.EGRW.P < 1000 {
		return invalid("egrw modulus must be >= 1000")
	}
	if p.EGRW.K < 64 {
		return invalid("egrw walk length must be >= 64")
	}

	return nil
}

func invalid(reason string) error {
	return qerrors.NewCryptoError("params.Validate: "+reason, qerrors.ErrInvalidParameter)
}

func isPrimeUint32(n uint32) bool {
	return new(big.Int).SetUint64(uint64(n)).ProbablyPrime(20)
}
