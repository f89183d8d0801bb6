package entangle

import (
	"fmt"

	"github.com/kmosaic/kmosaic/internal/constants"
	qerrors "github.com/kmosaic/kmosaic/internal/errors"
	"github.com/kmosaic/kmosaic/pkg/crypto"
)

const nizkPartCount = 3

// Proof is the Fiat-Shamir NIZK proof that three fragment shares and their
// ciphertext hashes are jointly well-formed with respect to a shared secret.
type Proof struct {
	Challenge   []byte    // 32 bytes
	Commitments [3][]byte // C_0, C_1, C_2, each 32 bytes
	Responses   [3][]byte // (share_i xor mask_i) || r_i
}

// Prove constructs a NIZK proof that shares[0..2] and ctHashes[0..2] are
// consistent with secret, using randomness of at least 32 bytes.
func Prove(secret []byte, shares [3][]byte, ctHashes [3][]byte, randomness []byte) (*Proof, error) {
	if len(randomness) < crypto.MinSeedSize {
		return nil, qerrors.NewCryptoError("entangle.Prove", qerrors.ErrInvalidRandomness)
	}

	var r [3][]byte
	var commitments [3][]byte
	for i := 0; i < nizkPartCount; i++ {
		tag := fmt.Sprintf("%s%d", constants.DomainNIZKCommitPrefix, i)
		r[i] = crypto.XOF(crypto.HashWithDomain(tag, randomness), 32)
		commitments[i] = crypto.HashWithDomain(constants.DomainNIZKCom,
			crypto.HashConcat(shares[i], r[i], ctHashes[i]))
	}

	challenge := computeChallenge(secret, commitments, ctHashes)

	var responses [3][]byte
	for i := 0; i < nizkPartCount; i++ {
		tag := fmt.Sprintf("%s%d", constants.DomainNIZKMaskPrefix, i)
		mask := crypto.XOF(crypto.HashWithDomain(tag, challenge), len(shares[i]))
		masked := make([]byte, len(shares[i]))
		for j := range masked {
			masked[j] = shares[i][j] ^ mask[j]
		}
		responses[i] = append(masked, r[i]...)
	}

	return &Proof{Challenge: challenge, Commitments: commitments, Responses: responses}, nil
}

// Verify checks proof against the supplied ciphertext hashes and the message
// (the shared secret the shares were derived from). It never short-circuits:
// every sub-check runs and is accumulated into the final boolean result, and
// any internal inconsistency (malformed response lengths) yields false
// rather than a panic or error.
func Verify(proof *Proof, ctHashes [3][]byte, message []byte) bool {
	if len(proof.Challenge) != constants.HashSize {
		return false
	}

	expectedChallenge := computeChallenge(message, proof.Commitments, ctHashes)
	okChallenge := crypto.ConstantTimeCompare(proof.Challenge, expectedChallenge)

	ok0 := verifyPart(0, proof, ctHashes[0])
	ok1 := verifyPart(1, proof, ctHashes[1])
	ok2 := verifyPart(2, proof, ctHashes[2])

	return boolToInt(okChallenge)&boolToInt(ok0)&boolToInt(ok1)&boolToInt(ok2) == 1
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func verifyPart(i int, proof *Proof, ctHash []byte) bool {
	resp := proof.Responses[i]
	if len(resp) < 32 {
		return false
	}
	masked := resp[:len(resp)-32]
	r := resp[len(resp)-32:]

	tag := fmt.Sprintf("%s%d", constants.DomainNIZKMaskPrefix, i)
	mask := crypto.XOF(crypto.HashWithDomain(tag, proof.Challenge), len(masked))
	candidate := make([]byte, len(masked))
	for j := range candidate {
		candidate[j] = masked[j] ^ mask[j]
	}

	recomputed := crypto.HashWithDomain(constants.DomainNIZKCom,
		crypto.HashConcat(candidate, r, ctHash))
	return crypto.ConstantTimeCompare(recomputed, proof.Commitments[i])
}

func computeChallenge(secret []byte, commitments [3][]byte, ctHashes [3][]byte) []byte {
	msgHash := crypto.HashWithDomain(constants.DomainNIZKMsg, secret)
	concat := crypto.HashConcat(
		msgHash,
		commitments[0], commitments[1], commitments[2],
		ctHashes[0], ctHashes[1], ctHashes[2],
	)
	return crypto.Hash256(concat)
}
