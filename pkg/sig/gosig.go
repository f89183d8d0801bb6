package sig

import (
	"encoding/binary"

	"github.com/kmosaic/kmosaic/internal/constants"
	qerrors "github.com/kmosaic/kmosaic/internal/errors"
	"github.com/kmosaic/kmosaic/pkg/crypto"
	"github.com/kmosaic/kmosaic/pkg/mosaic"
)

// GoSignatureSize is the fixed wire length of a GoSignature: a 32-byte
// commitment, a 32-byte challenge, and a 64-byte response.
const GoSignatureSize = 32 + 32 + 64

// GoSignature is the fixed-size, Go-compatible Fiat-Shamir variant. Its
// response binds the signer's secret material but is never consulted by
// Verify, which checks only that the challenge matches the commitment,
// message, and key — a deliberately weaker but constant-size alternative to
// the multi-witness Signature.
type GoSignature struct {
	Commitment []byte // 32 bytes
	Challenge  []byte // 32 bytes
	Response   []byte // 64 bytes
}

// SignGo produces a fixed-size Go-compatible signature over message.
func SignGo(message []byte, sk *mosaic.SecretKey, pk *mosaic.PublicKey) (*GoSignature, error) {
	if sk.Disposed() {
		return nil, qerrors.NewCryptoError("sig.SignGo", qerrors.ErrInvalidKeyState)
	}
	witness, err := crypto.SecureRandomBytes(32)
	if err != nil {
		return nil, qerrors.NewCryptoError("sig.SignGo", err)
	}
	defer crypto.Zeroize(witness)

	msgHash := crypto.Hash256(crypto.HashConcat(message, pk.Binding))
	commitment := crypto.Hash256(crypto.HashConcat(witness, msgHash, pk.Binding))
	challenge := crypto.HashWithDomain(constants.DomainSignChallenge,
		crypto.HashConcat(commitment, msgHash, sk.PKHash))

	skBytes := secretKeyBytes(sk)
	response := crypto.XOF(crypto.HashWithDomain(constants.DomainSignResponse,
		crypto.HashConcat(skBytes, challenge, witness)), 64)

	return &GoSignature{Commitment: commitment, Challenge: challenge, Response: response}, nil
}

// VerifyGo checks sig against message under pk. The response field is not
// consulted: it proves nothing to a verifier who lacks the secret key, an
// explicit limitation of this fixed-size variant.
func VerifyGo(message []byte, sig *GoSignature, pk *mosaic.PublicKey) bool {
	if len(sig.Commitment) != 32 || len(sig.Challenge) != 32 || len(sig.Response) != 64 {
		return false
	}
	msgHash := crypto.Hash256(crypto.HashConcat(message, pk.Binding))
	pkHash := mosaic.ComputePKHash(pk)
	expectedChallenge := crypto.HashWithDomain(constants.DomainSignChallenge,
		crypto.HashConcat(sig.Commitment, msgHash, pkHash))
	return crypto.ConstantTimeCompare(expectedChallenge, sig.Challenge)
}

// secretKeyBytes flattens the secret key's primitive material into a single
// byte string for binding into the response, widening each signed component
// to little-endian int32.
func secretKeyBytes(sk *mosaic.SecretKey) []byte {
	var out []byte
	for _, v := range sk.SLSS.S {
		out = append(out, le32Signed(int32(v))...)
	}
	for _, a := range sk.TDD.A {
		for _, v := range a {
			out = append(out, le32Signed(int32(v))...)
		}
	}
	out = append(out, sk.EGRW.Walk...)
	return out
}

func le32Signed(v int32) []byte {
	out := make([]byte, 4)
	binary.LittleEndian.PutUint32(out, uint32(v))
	return out
}

// SerializeGoSignature encodes sig as its fixed 128-byte wire form.
func SerializeGoSignature(sig *GoSignature) []byte {
	out := make([]byte, 0, GoSignatureSize)
	out = append(out, sig.Commitment...)
	out = append(out, sig.Challenge...)
	out = append(out, sig.Response...)
	return out
}

// DeserializeGoSignature decodes a fixed 128-byte GoSignature.
func DeserializeGoSignature(b []byte) (*GoSignature, error) {
	if len(b) != GoSignatureSize {
		return nil, qerrors.NewCryptoError("sig.DeserializeGoSignature", qerrors.ErrEncodingError)
	}
	return &GoSignature{
		Commitment: append([]byte(nil), b[0:32]...),
		Challenge:  append([]byte(nil), b[32:64]...),
		Response:   append([]byte(nil), b[64:128]...),
	}, nil
}
