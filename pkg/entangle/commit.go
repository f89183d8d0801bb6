package entangle

import (
	"github.com/kmosaic/kmosaic/internal/constants"
	qerrors "github.com/kmosaic/kmosaic/internal/errors"
	"github.com/kmosaic/kmosaic/pkg/crypto"
)

// commitRandomnessSize is |r| = 256 bits of fresh commitment randomness.
const commitRandomnessSize = 32

// CreateCommitment binds x to fresh randomness r and returns the commitment
// and r; the caller must retain r to later open the commitment.
func CreateCommitment(x []byte) (commitment, r []byte, err error) {
	r, err = crypto.SecureRandomBytes(commitRandomnessSize)
	if err != nil {
		return nil, nil, qerrors.NewCryptoError("entangle.CreateCommitment", err)
	}
	commitment = crypto.HashWithDomain(constants.DomainCommit, crypto.HashConcat(x, r))
	return commitment, r, nil
}

// VerifyCommitment recomputes the commitment from (x, r) and compares it in
// constant time against the stored value.
func VerifyCommitment(commitment, x, r []byte) bool {
	expected := crypto.HashWithDomain(constants.DomainCommit, crypto.HashConcat(x, r))
	return crypto.ConstantTimeCompare(commitment, expected)
}
