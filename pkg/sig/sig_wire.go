package sig

import (
	qerrors "github.com/kmosaic/kmosaic/internal/errors"
	"github.com/kmosaic/kmosaic/pkg/wire"
)

// SerializeSignature encodes sig as:
// challenge(32) || z1 || comm1 || z2 || comm2 || z3 || hints(32),
// each variable-length part length-prefixed.
func SerializeSignature(sig *Signature) []byte {
	w := wire.NewWriter()
	w.WriteRaw(sig.Challenge)
	w.WriteUint32Array(sig.Z1)
	w.WriteBytes(sig.Comm1)
	w.WriteUint32Array(sig.Z2)
	w.WriteBytes(sig.Comm2)
	w.WriteBytes(sig.Z3)
	w.WriteRaw(sig.Hints)
	return w.Bytes()
}

// DeserializeSignature decodes a signature produced by SerializeSignature.
func DeserializeSignature(b []byte) (*Signature, error) {
	r := wire.NewReader(b)
	challenge, err := r.ReadRaw(32)
	if err != nil {
		return nil, qerrors.NewCryptoError("sig.DeserializeSignature", err)
	}
	z1, err := r.ReadUint32Array()
	if err != nil {
		return nil, qerrors.NewCryptoError("sig.DeserializeSignature", err)
	}
	comm1, err := r.ReadBytes()
	if err != nil {
		return nil, qerrors.NewCryptoError("sig.DeserializeSignature", err)
	}
	z2, err := r.ReadUint32Array()
	if err != nil {
		return nil, qerrors.NewCryptoError("sig.DeserializeSignature", err)
	}
	comm2, err := r.ReadBytes()
	if err != nil {
		return nil, qerrors.NewCryptoError("sig.DeserializeSignature", err)
	}
	z3, err := r.ReadBytes()
	if err != nil {
		return nil, qerrors.NewCryptoError("sig.DeserializeSignature", err)
	}
	hints, err := r.ReadRaw(32)
	if err != nil {
		return nil, qerrors.NewCryptoError("sig.DeserializeSignature", err)
	}
	if err := r.RequireDone(); err != nil {
		return nil, qerrors.NewCryptoError("sig.DeserializeSignature", err)
	}
	return &Signature{
		Challenge: challenge,
		Z1:        z1,
		Comm1:     comm1,
		Z2:        z2,
		Comm2:     comm2,
		Z3:        z3,
		Hints:     hints,
	}, nil
}
