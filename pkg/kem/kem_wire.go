package kem

import (
	"github.com/kmosaic/kmosaic/internal/constants"
	qerrors "github.com/kmosaic/kmosaic/internal/errors"
	"github.com/kmosaic/kmosaic/pkg/egrw"
	"github.com/kmosaic/kmosaic/pkg/entangle"
	"github.com/kmosaic/kmosaic/pkg/slss"
	"github.com/kmosaic/kmosaic/pkg/tdd"
	"github.com/kmosaic/kmosaic/pkg/wire"
)

// SerializeCiphertext encodes ct per the bit-exact wire format:
// [len(c1)][c1] [len(c2)][c2] [len(c3)][c3] [proof bytes].
func SerializeCiphertext(ct *Ciphertext) []byte {
	w := wire.NewWriter()
	w.WriteBytes(slss.SerializeCiphertext(ct.C1))
	w.WriteBytes(tdd.SerializeCiphertext(ct.C2))
	w.WriteBytes(egrw.SerializeCiphertext(ct.C3))
	w.WriteRaw(entangle.SerializeNIZK(ct.Proof))
	return w.Bytes()
}

// DeserializeCiphertext decodes a ciphertext for the given parameter level.
func DeserializeCiphertext(level constants.ParamLevel, b []byte) (*Ciphertext, error) {
	p, err := paramsForLevel(level)
	if err != nil {
		return nil, qerrors.NewCryptoError("kem.DeserializeCiphertext", err)
	}

	r := wire.NewReader(b)
	c1Bytes, err := r.ReadBytes()
	if err != nil {
		return nil, qerrors.NewCryptoError("kem.DeserializeCiphertext", qerrors.ErrEncodingError)
	}
	c2Bytes, err := r.ReadBytes()
	if err != nil {
		return nil, qerrors.NewCryptoError("kem.DeserializeCiphertext", qerrors.ErrEncodingError)
	}
	c3Bytes, err := r.ReadBytes()
	if err != nil {
		return nil, qerrors.NewCryptoError("kem.DeserializeCiphertext", qerrors.ErrEncodingError)
	}
	proofBytes := r.Remaining()

	c1, err := slss.DeserializeCiphertext(p.SLSS, c1Bytes)
	if err != nil {
		return nil, err
	}
	c2, err := tdd.DeserializeCiphertext(p.TDD, c2Bytes)
	if err != nil {
		return nil, err
	}
	c3, err := egrw.DeserializeCiphertext(c3Bytes)
	if err != nil {
		return nil, err
	}
	proof, err := entangle.DeserializeNIZK(proofBytes)
	if err != nil {
		return nil, err
	}

	return &Ciphertext{C1: c1, C2: c2, C3: c3, Proof: proof}, nil
}
