package entangle

import (
	"github.com/kmosaic/kmosaic/internal/constants"
	qerrors "github.com/kmosaic/kmosaic/internal/errors"
	"github.com/kmosaic/kmosaic/pkg/wire"
)

// nizkPartTotal is challenge + 3 commitments + 3 responses.
const nizkPartTotal = 7

// SerializeNIZK encodes proof as [u32 count=7][len0][bytes0]...[len6][bytes6].
func SerializeNIZK(proof *Proof) []byte {
	w := wire.NewWriter()
	w.WriteU32(nizkPartTotal)
	w.WriteBytes(proof.Challenge)
	for _, c := range proof.Commitments {
		w.WriteBytes(c)
	}
	for _, r := range proof.Responses {
		w.WriteBytes(r)
	}
	return w.Bytes()
}

// DeserializeNIZK decodes a proof, rejecting a part count other than 7, a
// challenge of any length but 32 bytes, over-long parts, truncation, and
// trailing bytes.
func DeserializeNIZK(b []byte) (*Proof, error) {
	r := wire.NewReader(b)
	count, err := r.ReadU32()
	if err != nil {
		return nil, qerrors.NewCryptoError("entangle.DeserializeNIZK", qerrors.ErrEncodingError)
	}
	if count != nizkPartTotal {
		return nil, qerrors.NewCryptoError("entangle.DeserializeNIZK", qerrors.ErrEncodingError)
	}

	challenge, err := r.ReadBytes()
	if err != nil {
		return nil, qerrors.NewCryptoError("entangle.DeserializeNIZK", qerrors.ErrEncodingError)
	}
	if len(challenge) != constants.HashSize {
		return nil, qerrors.NewCryptoError("entangle.DeserializeNIZK", qerrors.ErrEncodingError)
	}

	var commitments [3][]byte
	for i := range commitments {
		c, err := r.ReadBytes()
		if err != nil {
			return nil, qerrors.NewCryptoError("entangle.DeserializeNIZK", qerrors.ErrEncodingError)
		}
		if len(c) != constants.HashSize {
			return nil, qerrors.NewCryptoError("entangle.DeserializeNIZK", qerrors.ErrEncodingError)
		}
		commitments[i] = c
	}

	var responses [3][]byte
	for i := range responses {
		resp, err := r.ReadBytes()
		if err != nil {
			return nil, qerrors.NewCryptoError("entangle.DeserializeNIZK", qerrors.ErrEncodingError)
		}
		responses[i] = resp
	}

	if err := r.RequireDone(); err != nil {
		return nil, err
	}

	return &Proof{Challenge: challenge, Commitments: commitments, Responses: responses}, nil
}
