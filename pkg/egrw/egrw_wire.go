package egrw

import (
	"github.com/kmosaic/kmosaic/internal/constants"
	qerrors "github.com/kmosaic/kmosaic/internal/errors"
	"github.com/kmosaic/kmosaic/pkg/wire"
)

// SerializePublicKey encodes pk as v_start(16) || v_end(16).
func SerializePublicKey(pk *PublicKey) []byte {
	out := make([]byte, 0, 32)
	out = append(out, bytesLE(pk.VStart)...)
	out = append(out, bytesLE(pk.VEnd)...)
	return out
}

// DeserializePublicKey decodes a public key for the given parameter set.
func DeserializePublicKey(p constants.EGRWParams, b []byte) (*PublicKey, error) {
	if len(b) != 32 {
		return nil, qerrors.NewCryptoError("egrw.DeserializePublicKey", qerrors.ErrEncodingError)
	}
	return &PublicKey{
		Params: p,
		VStart: matrixFromBytesLE(b[0:16]),
		VEnd:   matrixFromBytesLE(b[16:32]),
	}, nil
}

// SerializeSecretKey encodes the walk as one byte per step.
func SerializeSecretKey(sk *SecretKey) []byte {
	w := wire.NewWriter()
	w.WriteBytes(sk.Walk)
	return w.Bytes()
}

// DeserializeSecretKey decodes a secret key for the given parameter set.
func DeserializeSecretKey(p constants.EGRWParams, b []byte) (*SecretKey, error) {
	r := wire.NewReader(b)
	walk, err := r.ReadBytes()
	if err != nil {
		return nil, qerrors.NewCryptoError("egrw.DeserializeSecretKey", qerrors.ErrEncodingError)
	}
	if err := r.RequireDone(); err != nil {
		return nil, err
	}
	if len(walk) != p.K {
		return nil, qerrors.NewCryptoError("egrw.DeserializeSecretKey", qerrors.ErrEncodingError)
	}
	return &SecretKey{Params: p, Walk: walk}, nil
}

// SerializeCiphertext encodes ct as vertex(16) || len(commitment)||commitment,
// matching the wire format's "c3 = vertex(16) || commitment(var)".
func SerializeCiphertext(ct *Ciphertext) []byte {
	w := wire.NewWriter()
	w.WriteRaw(bytesLE(ct.VEph))
	w.WriteBytes(ct.Commitment)
	return w.Bytes()
}

// DeserializeCiphertext decodes a ciphertext, validating the commitment
// length against the fixed fragment size.
func DeserializeCiphertext(b []byte) (*Ciphertext, error) {
	if len(b) < 16 {
		return nil, qerrors.NewCryptoError("egrw.DeserializeCiphertext", qerrors.ErrEncodingError)
	}
	vEph := matrixFromBytesLE(b[0:16])
	r := wire.NewReader(b[16:])
	commitment, err := r.ReadBytes()
	if err != nil {
		return nil, qerrors.NewCryptoError("egrw.DeserializeCiphertext", qerrors.ErrEncodingError)
	}
	if err := r.RequireDone(); err != nil {
		return nil, err
	}
	if len(commitment) != constants.FragmentSize {
		return nil, qerrors.NewCryptoError("egrw.DeserializeCiphertext", qerrors.ErrEncodingError)
	}
	return &Ciphertext{VEph: vEph, Commitment: commitment}, nil
}
