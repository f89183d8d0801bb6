// Package sig implements the two kMOSAIC signature variants (C8): a
// multi-witness Fiat-Shamir construction with rejection sampling across the
// SLSS, TDD, and EGRW secrets, and a simpler Go-compatible Fiat-Shamir
// variant that only binds a challenge to the message and key.
package sig

import (
	"encoding/binary"
	"time"

	"github.com/kmosaic/kmosaic/internal/constants"
	qerrors "github.com/kmosaic/kmosaic/internal/errors"
	"github.com/kmosaic/kmosaic/pkg/crypto"
	"github.com/kmosaic/kmosaic/pkg/egrw"
	"github.com/kmosaic/kmosaic/pkg/metrics"
	"github.com/kmosaic/kmosaic/pkg/mosaic"
)

// Signature is the multi-witness Fiat-Shamir signature: a challenge plus a
// response/commitment pair per primitive (SLSS, TDD) and a combined walk
// response with hint bytes for EGRW.
type Signature struct {
	Challenge []byte // 32 bytes

	Z1    []uint32 // length n (SLSS secret dimension)
	Comm1 []byte   // bytes(w1), length 4*m

	Z2    []uint32 // length r (TDD rank)
	Comm2 []byte   // bytes(w2), length 4*n*n

	Z3    []byte // combined walk, length k, entries in {0,1,2,3}
	Hints []byte // 32 bytes
}

type rejectionBounds struct {
	gamma1, gamma2, beta uint32
	minDuration          time.Duration
}

func boundsFor(level constants.ParamLevel) rejectionBounds {
	if level == constants.MOS256 {
		return rejectionBounds{
			gamma1:      constants.Gamma1MOS256,
			gamma2:      constants.Gamma2MOS256,
			beta:        constants.BetaMOS256,
			minDuration: constants.MinSignDurationMOS256Millis * time.Millisecond,
		}
	}
	return rejectionBounds{
		gamma1:      constants.Gamma1MOS128,
		gamma2:      constants.Gamma2MOS128,
		beta:        constants.BetaMOS128,
		minDuration: constants.MinSignDurationMOS128Millis * time.Millisecond,
	}
}

// Sign produces a multi-witness signature over message under sk/pk, retrying
// the rejection-sampling loop up to constants.MaxAttempts times and
// enforcing the per-level minimum wall-clock floor regardless of how many
// attempts were needed.
func Sign(message []byte, sk *mosaic.SecretKey, pk *mosaic.PublicKey) (*Signature, error) {
	if sk.Disposed() {
		return nil, qerrors.NewCryptoError("sig.Sign", qerrors.ErrInvalidKeyState)
	}
	start := time.Now()
	bounds := boundsFor(sk.Params.Level)
	pkHash := mosaic.ComputePKHash(pk)
	mu := crypto.HashConcat(pkHash, message)

	var result *Signature
	var signErr error
	attempt := 0
	for ; attempt < constants.MaxAttempts; attempt++ {
		sig, ok := signAttempt(mu, sk, pk, bounds, attempt)
		if ok {
			result = sig
			break
		}
	}
	if result == nil {
		signErr = qerrors.NewCryptoError("sig.Sign", qerrors.ErrSigningFailure)
	}

	if elapsed := time.Since(start); elapsed < bounds.minDuration {
		time.Sleep(bounds.minDuration - elapsed)
	}

	if signErr != nil {
		metrics.Global().SignFailed(uint64(attempt + 1))
	} else {
		metrics.Global().SignSucceeded(uint64(attempt+1), time.Since(start))
	}
	return result, signErr
}

func signAttempt(mu []byte, sk *mosaic.SecretKey, pk *mosaic.PublicKey, bounds rejectionBounds, attempt int) (*Signature, bool) {
	attemptSeed := crypto.HashWithDomain(constants.DomainSignAttempt,
		crypto.HashConcat(mu, sk.Seed, le32(attempt)))

	n := sk.Params.SLSS.N
	r := sk.Params.TDD.R
	k := sk.Params.EGRW.K
	qSLSS := sk.Params.SLSS.Q
	qTDD := sk.Params.TDD.Q

	y1Seed := crypto.HashWithDomain(constants.DomainSignMaskSLSS, attemptSeed)
	y1 := sampleSignedRange(constants.DomainSignMaskSLSS, y1Seed, bounds.gamma1, n)

	y2Seed := crypto.HashWithDomain(constants.DomainSignMaskTDD, attemptSeed)
	y2 := sampleSignedRange(constants.DomainSignMaskTDD, y2Seed, bounds.gamma2, r)

	y3Seed := crypto.HashWithDomain(constants.DomainSignMaskEGRW, attemptSeed)
	y3 := crypto.SampleUniformMod(constants.DomainSignMaskEGRW, y3Seed, 4, k)

	w1 := matVecMod(pk.SLSS.A, y1, n, sk.Params.SLSS.M, qSLSS)

	y2Bytes := wordsToBytesLE(toUint32Signed(y2, qTDD))
	tBytes := wordsToBytesLE(pk.TDD.T)
	w2Raw := crypto.XOF(crypto.HashConcat(y2Bytes, tBytes), 4*sk.Params.TDD.N*sk.Params.TDD.N)
	w2 := reduceWordsMod(w2Raw, qTDD)

	w3 := egrw.MatrixBytes(pk.EGRW.VStart)

	hChal := crypto.Hash256(crypto.HashConcat(wordsToBytesLE(w1), wordsToBytesLE(w2), w3, mu))
	c := challengeScalar(hChal)

	z1 := make([]uint32, n)
	for i := 0; i < n; i++ {
		z1[i] = addSignedMod(y1[i], int64(c)*int64(sk.SLSS.S[i]), qSLSS)
	}
	z2 := make([]uint32, r)
	for i := 0; i < r; i++ {
		combined := int64(sk.TDD.A[i][0]) + int64(sk.TDD.B[i][0]) + int64(sk.TDD.C[i][0])
		z2[i] = addSignedMod(y2[i], int64(c)*combined, qTDD)
	}
	z3 := make([]byte, k)
	for i := 0; i < k; i++ {
		z3[i] = byte((uint32(y3[i]) + c*uint32(sk.EGRW.Walk[i])) % 4)
	}

	if !boundsOK(z1, qSLSS, bounds.gamma1-bounds.beta) || !boundsOK(z2, qTDD, bounds.gamma2-bounds.beta) {
		return nil, false
	}

	hints := crypto.XOF(attemptSeed, 32)
	return &Signature{
		Challenge: hChal,
		Z1:        z1,
		Comm1:     wordsToBytesLE(w1),
		Z2:        z2,
		Comm2:     wordsToBytesLE(w2),
		Z3:        z3,
		Hints:     hints,
	}, true
}

// Verify checks sig against message under pk. Bounds on z1/z2 are checked
// first; the final result is the AND of every sub-check, none of which
// short-circuits the others or leaks which one failed.
func Verify(message []byte, sig *Signature, pk *mosaic.PublicKey) bool {
	start := time.Now()
	ok := verify(message, sig, pk)
	metrics.Global().VerifyObserved(time.Since(start), ok)
	return ok
}

func verify(message []byte, sig *Signature, pk *mosaic.PublicKey) bool {
	if len(sig.Challenge) != constants.HashSize || len(sig.Hints) != 32 {
		return false
	}

	bounds := boundsFor(pk.Params.Level)
	qSLSS := pk.Params.SLSS.Q
	qTDD := pk.Params.TDD.Q

	boundsOK1 := boundsOK(sig.Z1, qSLSS, bounds.gamma1-bounds.beta)
	boundsOK2 := boundsOK(sig.Z2, qTDD, bounds.gamma2-bounds.beta)

	pkHash := mosaic.ComputePKHash(pk)
	mu := crypto.HashConcat(pkHash, message)
	w3 := egrw.MatrixBytes(pk.EGRW.VStart)

	expectedChallenge := crypto.Hash256(crypto.HashConcat(sig.Comm1, sig.Comm2, w3, mu))
	challengeOK := crypto.ConstantTimeCompare(expectedChallenge, sig.Challenge)

	return boundsOK1 && boundsOK2 && challengeOK
}

func boundsOK(z []uint32, q uint32, bound uint32) bool {
	ok := true
	for _, v := range z {
		c := crypto.CenteredMod(int64(v), q)
		if c < 0 {
			c = -c
		}
		if uint32(c) > bound {
			ok = false
		}
	}
	return ok
}

func sampleSignedRange(domain string, seed []byte, gamma uint32, count int) []int64 {
	width := 2*uint64(gamma) + 1
	vals := crypto.SampleUniformMod(domain, seed, uint32(width), count)
	out := make([]int64, count)
	for i, v := range vals {
		out[i] = int64(v) - int64(gamma)
	}
	return out
}

func addSignedMod(y int64, delta int64, q uint32) uint32 {
	total := y + delta
	m := int64(q)
	r := total % m
	if r < 0 {
		r += m
	}
	return uint32(r)
}

func toUint32Signed(vals []int64, q uint32) []uint32 {
	out := make([]uint32, len(vals))
	for i, v := range vals {
		out[i] = addSignedMod(v, 0, q)
	}
	return out
}

func matVecMod(a []uint32, y []int64, n, m int, q uint32) []uint32 {
	out := make([]uint32, m)
	for row := 0; row < m; row++ {
		var acc int64
		base := row * n
		for col := 0; col < n; col++ {
			acc += int64(a[base+col]) * y[col]
		}
		out[row] = addSignedMod(acc, 0, q)
	}
	return out
}

func reduceWordsMod(raw []byte, q uint32) []uint32 {
	count := len(raw) / 4
	out := make([]uint32, count)
	for i := 0; i < count; i++ {
		w := binary.LittleEndian.Uint32(raw[4*i : 4*i+4])
		out[i] = w % q
	}
	return out
}

func challengeScalar(hChal []byte) uint32 {
	v := binary.LittleEndian.Uint64(hChal[0:8])
	return uint32(v % (1 << 16))
}

func wordsToBytesLE(words []uint32) []byte {
	out := make([]byte, 4*len(words))
	for i, w := range words {
		binary.LittleEndian.PutUint32(out[4*i:4*i+4], w)
	}
	return out
}

func bytesToWordsLE(b []byte) []uint32 {
	out := make([]uint32, len(b)/4)
	for i := range out {
		out[i] = binary.LittleEndian.Uint32(b[4*i : 4*i+4])
	}
	return out
}

func le32(n int) []byte {
	out := make([]byte, 4)
	binary.LittleEndian.PutUint32(out, uint32(n))
	return out
}
