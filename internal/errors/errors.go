// Package errors defines the typed error kinds used across kMOSAIC.
// Errors carry enough structure for callers to branch on kind via errors.Is
// and errors.As without string matching, while never leaking which internal
// check produced a cryptographic failure.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors, one per error kind named by the design.
var (
	// ErrInvalidParameter indicates a parameter set failed validation.
	ErrInvalidParameter = errors.New("kmosaic: invalid parameter")

	// ErrInvalidSeed indicates a seed was too short or failed entropy validation.
	ErrInvalidSeed = errors.New("kmosaic: invalid seed")

	// ErrInvalidRandomness indicates supplied randomness was too short.
	ErrInvalidRandomness = errors.New("kmosaic: invalid randomness")

	// ErrEncodingError indicates a serialized value was truncated, over-long,
	// or mis-typed.
	ErrEncodingError = errors.New("kmosaic: encoding error")

	// ErrSigningFailure indicates the rejection-sampling loop in Sign
	// exhausted MAX_ATTEMPTS without producing a valid response.
	ErrSigningFailure = errors.New("kmosaic: signing failed after max attempts")

	// ErrInvalidKeyState indicates an operation was attempted on a key that
	// has already been disposed (its secret material zeroized).
	ErrInvalidKeyState = errors.New("kmosaic: invalid key state")
)

// CryptoError wraps one of the sentinel kinds above with the operation that
// produced it, so the chain remains inspectable via errors.Is/errors.As
// without embedding secret material in the message.
type CryptoError struct {
	Op  string // Operation that failed, e.g. "slss.KeyGen"
	Err error  // One of the sentinel errors, or a wrapped lower-level error
}

func (e *CryptoError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *CryptoError) Unwrap() error {
	return e.Err
}

// NewCryptoError creates a new CryptoError.
func NewCryptoError(op string, err error) *CryptoError {
	return &CryptoError{Op: op, Err: err}
}

// Is reports whether any error in err's chain matches target.
// Convenience wrapper around errors.Is.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
// Convenience wrapper around errors.As.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
