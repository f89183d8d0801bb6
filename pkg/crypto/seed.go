package crypto

import qerrors "github.com/kmosaic/kmosaic/internal/errors"

// MinSeedSize is the minimum acceptable seed length in bytes.
const MinSeedSize = 32

// ValidateSeedEntropy rejects seeds that are too short or show a pattern a
// real CSPRNG would essentially never produce: all-equal bytes, a
// sequential ±1 walk, a short repeating period, or too few distinct byte
// values. It is a cheap sanity check, not an entropy estimator — it exists
// to catch obviously-wrong test fixtures and misuse, not adversarial seeds.
func ValidateSeedEntropy(seed []byte) error {
	if len(seed) < MinSeedSize {
		return qerrors.NewCryptoError("ValidateSeedEntropy", qerrors.ErrInvalidSeed)
	}

	if allEqual(seed) {
		return qerrors.NewCryptoError("ValidateSeedEntropy", qerrors.ErrInvalidSeed)
	}

	if isSequentialWalk(seed) {
		return qerrors.NewCryptoError("ValidateSeedEntropy", qerrors.ErrInvalidSeed)
	}

	for period := 2; period <= 8; period++ {
		if hasRepeatingPeriod(seed, period) {
			return qerrors.NewCryptoError("ValidateSeedEntropy", qerrors.ErrInvalidSeed)
		}
	}

	if countDistinct(seed) < 8 {
		return qerrors.NewCryptoError("ValidateSeedEntropy", qerrors.ErrInvalidSeed)
	}

	return nil
}

func allEqual(b []byte) bool {
	for i := 1; i < len(b); i++ {
		if b[i] != b[0] {
			return false
		}
	}
	return true
}

// isSequentialWalk reports whether every step between consecutive bytes is
// a constant +1 or a constant -1 (mod 256).
func isSequentialWalk(b []byte) bool {
	if len(b) < 2 {
		return false
	}
	stepUp := byte(1)
	stepDown := byte(255)
	up, down := true, true
	for i := 1; i < len(b); i++ {
		d := b[i] - b[i-1]
		if d != stepUp {
			up = false
		}
		if d != stepDown {
			down = false
		}
	}
	return up || down
}

func hasRepeatingPeriod(b []byte, period int) bool {
	if len(b) < period*2 {
		return false
	}
	for i := period; i < len(b); i++ {
		if b[i] != b[i%period] {
			return false
		}
	}
	return true
}

func countDistinct(b []byte) int {
	seen := make(map[byte]bool, len(b))
	for _, v := range b {
		seen[v] = true
	}
	return len(seen)
}
