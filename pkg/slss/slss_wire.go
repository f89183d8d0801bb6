package slss

import (
	"github.com/kmosaic/kmosaic/internal/constants"
	qerrors "github.com/kmosaic/kmosaic/internal/errors"
	"github.com/kmosaic/kmosaic/pkg/wire"
)

// SerializePublicKey encodes pk as [A array][T array].
func SerializePublicKey(pk *PublicKey) []byte {
	w := wire.NewWriter()
	w.WriteUint32Array(pk.A)
	w.WriteUint32Array(pk.T)
	return w.Bytes()
}

// DeserializePublicKey decodes a public key for the given parameter set,
// validating that A and T have the dimensions p implies.
func DeserializePublicKey(p constants.SLSSParams, b []byte) (*PublicKey, error) {
	r := wire.NewReader(b)
	a, err := r.ReadUint32Array()
	if err != nil {
		return nil, qerrors.NewCryptoError("slss.DeserializePublicKey", qerrors.ErrEncodingError)
	}
	t, err := r.ReadUint32Array()
	if err != nil {
		return nil, qerrors.NewCryptoError("slss.DeserializePublicKey", qerrors.ErrEncodingError)
	}
	if err := r.RequireDone(); err != nil {
		return nil, err
	}
	if len(a) != p.M*p.N || len(t) != p.M {
		return nil, qerrors.NewCryptoError("slss.DeserializePublicKey", qerrors.ErrEncodingError)
	}
	return &PublicKey{Params: p, A: a, T: t}, nil
}

// SerializeSecretKey encodes sk's ternary vector as a packed int32 array
// (each entry widened to uint32 via two's complement).
func SerializeSecretKey(sk *SecretKey) []byte {
	w := wire.NewWriter()
	vals := make([]uint32, len(sk.S))
	for i, v := range sk.S {
		vals[i] = uint32(int32(v))
	}
	w.WriteUint32Array(vals)
	return w.Bytes()
}

// DeserializeSecretKey decodes a secret key for the given parameter set.
func DeserializeSecretKey(p constants.SLSSParams, b []byte) (*SecretKey, error) {
	r := wire.NewReader(b)
	vals, err := r.ReadUint32Array()
	if err != nil {
		return nil, qerrors.NewCryptoError("slss.DeserializeSecretKey", qerrors.ErrEncodingError)
	}
	if err := r.RequireDone(); err != nil {
		return nil, err
	}
	if len(vals) != p.N {
		return nil, qerrors.NewCryptoError("slss.DeserializeSecretKey", qerrors.ErrEncodingError)
	}
	s := make([]int8, len(vals))
	for i, v := range vals {
		signed := int32(v)
		if signed < -1 || signed > 1 {
			return nil, qerrors.NewCryptoError("slss.DeserializeSecretKey", qerrors.ErrEncodingError)
		}
		s[i] = int8(signed)
	}
	return &SecretKey{Params: p, S: s}, nil
}

// SerializeCiphertext encodes ct as [U array][V array].
func SerializeCiphertext(ct *Ciphertext) []byte {
	w := wire.NewWriter()
	w.WriteUint32Array(ct.U)
	w.WriteUint32Array(ct.V)
	return w.Bytes()
}

// DeserializeCiphertext decodes a ciphertext, validating U and V lengths
// against the given parameter set.
func DeserializeCiphertext(p constants.SLSSParams, b []byte) (*Ciphertext, error) {
	r := wire.NewReader(b)
	u, err := r.ReadUint32Array()
	if err != nil {
		return nil, qerrors.NewCryptoError("slss.DeserializeCiphertext", qerrors.ErrEncodingError)
	}
	v, err := r.ReadUint32Array()
	if err != nil {
		return nil, qerrors.NewCryptoError("slss.DeserializeCiphertext", qerrors.ErrEncodingError)
	}
	if err := r.RequireDone(); err != nil {
		return nil, err
	}
	if len(u) != p.N || len(v) != 8*constants.FragmentSize {
		return nil, qerrors.NewCryptoError("slss.DeserializeCiphertext", qerrors.ErrEncodingError)
	}
	return &Ciphertext{U: u, V: v}, nil
}
