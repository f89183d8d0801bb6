package tdd

import (
	"github.com/kmosaic/kmosaic/internal/constants"
	qerrors "github.com/kmosaic/kmosaic/internal/errors"
	"github.com/kmosaic/kmosaic/pkg/wire"
)

// SerializePublicKey encodes pk as a single flat int32 array.
func SerializePublicKey(pk *PublicKey) []byte {
	w := wire.NewWriter()
	w.WriteUint32Array(pk.T)
	return w.Bytes()
}

// DeserializePublicKey decodes a public key for the given parameter set.
func DeserializePublicKey(p constants.TDDParams, b []byte) (*PublicKey, error) {
	r := wire.NewReader(b)
	t, err := r.ReadUint32Array()
	if err != nil {
		return nil, qerrors.NewCryptoError("tdd.DeserializePublicKey", qerrors.ErrEncodingError)
	}
	if err := r.RequireDone(); err != nil {
		return nil, err
	}
	if len(t) != p.N*p.N*p.N {
		return nil, qerrors.NewCryptoError("tdd.DeserializePublicKey", qerrors.ErrEncodingError)
	}
	return &PublicKey{Params: p, T: t}, nil
}

// SerializeSecretKey encodes the three factor-list vectors in A, B, C order.
func SerializeSecretKey(sk *SecretKey) []byte {
	w := wire.NewWriter()
	w.WriteU32(uint32(len(sk.A)))
	for _, v := range sk.A {
		w.WriteUint32Array(v)
	}
	for _, v := range sk.B {
		w.WriteUint32Array(v)
	}
	for _, v := range sk.C {
		w.WriteUint32Array(v)
	}
	return w.Bytes()
}

// DeserializeSecretKey decodes a secret key for the given parameter set.
func DeserializeSecretKey(p constants.TDDParams, b []byte) (*SecretKey, error) {
	r := wire.NewReader(b)
	rank, err := r.ReadU32()
	if err != nil {
		return nil, qerrors.NewCryptoError("tdd.DeserializeSecretKey", qerrors.ErrEncodingError)
	}
	if int(rank) != p.R {
		return nil, qerrors.NewCryptoError("tdd.DeserializeSecretKey", qerrors.ErrEncodingError)
	}
	readList := func() ([][]uint32, error) {
		out := make([][]uint32, rank)
		for i := range out {
			v, err := r.ReadUint32Array()
			if err != nil {
				return nil, qerrors.NewCryptoError("tdd.DeserializeSecretKey", qerrors.ErrEncodingError)
			}
			if len(v) != p.N {
				return nil, qerrors.NewCryptoError("tdd.DeserializeSecretKey", qerrors.ErrEncodingError)
			}
			out[i] = v
		}
		return out, nil
	}
	a, err := readList()
	if err != nil {
		return nil, err
	}
	b, err := readList()
	if err != nil {
		return nil, err
	}
	c, err := readList()
	if err != nil {
		return nil, err
	}
	if err := r.RequireDone(); err != nil {
		return nil, err
	}
	return &SecretKey{Params: p, A: a, B: b, C: c}, nil
}

// SerializeCiphertext encodes ct's flat data array.
func SerializeCiphertext(ct *Ciphertext) []byte {
	w := wire.NewWriter()
	w.WriteUint32Array(ct.Data)
	return w.Bytes()
}

// DeserializeCiphertext decodes a ciphertext, validating the data length
// against the given parameter set's expected n*n+8 words.
func DeserializeCiphertext(p constants.TDDParams, b []byte) (*Ciphertext, error) {
	r := wire.NewReader(b)
	data, err := r.ReadUint32Array()
	if err != nil {
		return nil, qerrors.NewCryptoError("tdd.DeserializeCiphertext", qerrors.ErrEncodingError)
	}
	if err := r.RequireDone(); err != nil {
		return nil, err
	}
	if len(data) != p.N*p.N+8 {
		return nil, qerrors.NewCryptoError("tdd.DeserializeCiphertext", qerrors.ErrEncodingError)
	}
	return &Ciphertext{Data: data}, nil
}
