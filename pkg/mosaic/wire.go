package mosaic

import (
	"github.com/kmosaic/kmosaic/internal/constants"
	qerrors "github.com/kmosaic/kmosaic/internal/errors"
	"github.com/kmosaic/kmosaic/pkg/egrw"
	"github.com/kmosaic/kmosaic/pkg/params"
	"github.com/kmosaic/kmosaic/pkg/slss"
	"github.com/kmosaic/kmosaic/pkg/tdd"
	"github.com/kmosaic/kmosaic/pkg/wire"
)

// SerializePublicKeyCanonical encodes pk without its parameter level, the
// form used internally to compute pk_hash: slss||tdd||egrw||binding(32).
func SerializePublicKeyCanonical(pk *PublicKey) []byte {
	w := wire.NewWriter()
	w.WriteBytes(slss.SerializePublicKey(pk.SLSS))
	w.WriteBytes(tdd.SerializePublicKey(pk.TDD))
	w.WriteBytes(egrw.SerializePublicKey(pk.EGRW))
	w.WriteRaw(pk.Binding)
	return w.Bytes()
}

// DeserializePublicKeyCanonical decodes a canonical public key for the given
// parameter level.
func DeserializePublicKeyCanonical(level constants.ParamLevel, b []byte) (*PublicKey, error) {
	p, err := params.Get(level)
	if err != nil {
		return nil, qerrors.NewCryptoError("mosaic.DeserializePublicKeyCanonical", err)
	}

	r := wire.NewReader(b)
	slssBytes, err := r.ReadBytes()
	if err != nil {
		return nil, qerrors.NewCryptoError("mosaic.DeserializePublicKeyCanonical", qerrors.ErrEncodingError)
	}
	tddBytes, err := r.ReadBytes()
	if err != nil {
		return nil, qerrors.NewCryptoError("mosaic.DeserializePublicKeyCanonical", qerrors.ErrEncodingError)
	}
	egrwBytes, err := r.ReadBytes()
	if err != nil {
		return nil, qerrors.NewCryptoError("mosaic.DeserializePublicKeyCanonical", qerrors.ErrEncodingError)
	}
	binding, err := r.ReadRaw(constants.HashSize)
	if err != nil {
		return nil, qerrors.NewCryptoError("mosaic.DeserializePublicKeyCanonical", qerrors.ErrEncodingError)
	}
	if err := r.RequireDone(); err != nil {
		return nil, err
	}

	slssPK, err := slss.DeserializePublicKey(p.SLSS, slssBytes)
	if err != nil {
		return nil, err
	}
	tddPK, err := tdd.DeserializePublicKey(p.TDD, tddBytes)
	if err != nil {
		return nil, err
	}
	egrwPK, err := egrw.DeserializePublicKey(p.EGRW, egrwBytes)
	if err != nil {
		return nil, err
	}

	return &PublicKey{Params: p, SLSS: slssPK, TDD: tddPK, EGRW: egrwPK, Binding: binding}, nil
}

// SerializePublicKeyCLI prepends a length-prefixed level string to the
// canonical encoding, the form used at the CLI/file-format boundary.
func SerializePublicKeyCLI(pk *PublicKey) []byte {
	w := wire.NewWriter()
	w.WriteBytes([]byte(pk.Params.Level))
	w.WriteRaw(SerializePublicKeyCanonical(pk))
	return w.Bytes()
}

// DeserializePublicKeyCLI reads the level string before delegating to the
// canonical decoder.
func DeserializePublicKeyCLI(b []byte) (*PublicKey, error) {
	r := wire.NewReader(b)
	levelBytes, err := r.ReadBytes()
	if err != nil {
		return nil, qerrors.NewCryptoError("mosaic.DeserializePublicKeyCLI", qerrors.ErrEncodingError)
	}
	rest := b[len(levelBytes)+4:]
	return DeserializePublicKeyCanonical(constants.ParamLevel(levelBytes), rest)
}
