// Conditional self-tests, adapted from FIPS 140-3's conditional self-test
// discipline: checks that run during specific operations rather than once
// at startup, verifying that key generation and the RNG are behaving
// consistently. kMOSAIC makes no compliance claim; the pattern is kept
// because it catches a broken KeyGen or a stuck RNG cheaply, in-band.
package crypto

import (
	"bytes"
	"fmt"
	"sync"
)

// CSTConfig configures which conditional self-tests run.
type CSTConfig struct {
	// EnableKeyGenConsistency runs an encapsulate/decapsulate round-trip
	// immediately after key generation.
	EnableKeyGenConsistency bool

	// EnableRNGHealthCheck enables periodic health checks on RNG output.
	EnableRNGHealthCheck bool

	// RNGHealthCheckInterval is how often to run a full RNG health check
	// (number of SecureRandomWithCST calls between checks).
	RNGHealthCheckInterval uint64
}

// DefaultCSTConfig returns conservative defaults: key-generation consistency
// checks on, periodic RNG health checks on.
func DefaultCSTConfig() CSTConfig {
	return CSTConfig{
		EnableKeyGenConsistency: true,
		EnableRNGHealthCheck:    true,
		RNGHealthCheckInterval:  1000,
	}
}

var (
	cstConfig     CSTConfig
	cstConfigOnce sync.Once
	rngCallCount  uint64
	rngCallMu     sync.Mutex
	lastRNGOutput []byte
	lastRNGMutex  sync.Mutex
)

// InitCST installs a custom CST configuration. Must be called before any
// cryptographic operations if non-default behavior is needed; otherwise
// DefaultCSTConfig applies.
func InitCST(config CSTConfig) {
	cstConfigOnce.Do(func() {
		cstConfig = config
	})
}

func getConfig() CSTConfig {
	cstConfigOnce.Do(func() {
		cstConfig = DefaultCSTConfig()
	})
	return cstConfig
}

// CSTResult is the outcome of a conditional self-test.
type CSTResult struct {
	Passed bool
	Error  error
}

// KEMPairwiseConsistencyTest verifies that a freshly generated key pair is
// internally consistent by encapsulating and decapsulating with it and
// checking that the resulting shared secrets match.
func KEMPairwiseConsistencyTest(encapsulate func() (ct, ss []byte, err error), decapsulate func(ct []byte) (ss []byte, err error)) *CSTResult {
	ct, ss1, err := encapsulate()
	if err != nil {
		return &CSTResult{Passed: false, Error: fmt.Errorf("encapsulation failed: %w", err)}
	}

	ss2, err := decapsulate(ct)
	if err != nil {
		return &CSTResult{Passed: false, Error: fmt.Errorf("decapsulation failed: %w", err)}
	}

	if !ConstantTimeCompare(ss1, ss2) {
		return &CSTResult{Passed: false, Error: fmt.Errorf("shared secrets do not match")}
	}
	if allZeroBytes(ss1) {
		return &CSTResult{Passed: false, Error: fmt.Errorf("shared secret is all zeros")}
	}

	return &CSTResult{Passed: true}
}

// RunKeyGenConsistencyCheck runs KEMPairwiseConsistencyTest if enabled in the
// active CST configuration; otherwise it is a no-op.
func RunKeyGenConsistencyCheck(encapsulate func() (ct, ss []byte, err error), decapsulate func(ct []byte) (ss []byte, err error)) error {
	if !getConfig().EnableKeyGenConsistency {
		return nil
	}
	result := KEMPairwiseConsistencyTest(encapsulate, decapsulate)
	if !result.Passed {
		return result.Error
	}
	return nil
}

func allZeroBytes(b []byte) bool {
	for _, v := range b {
		if v != 0 {
			return false
		}
	}
	return true
}

// RNGHealthCheck verifies that the RNG produces non-zero, non-repeating,
// non-constant output across two fresh samples.
func RNGHealthCheck() *CSTResult {
	sample1 := make([]byte, 32)
	sample2 := make([]byte, 32)

	if err := SecureRandom(sample1); err != nil {
		return &CSTResult{Passed: false, Error: fmt.Errorf("RNG read 1 failed: %w", err)}
	}
	if err := SecureRandom(sample2); err != nil {
		return &CSTResult{Passed: false, Error: fmt.Errorf("RNG read 2 failed: %w", err)}
	}

	if allZeroBytes(sample1) {
		return &CSTResult{Passed: false, Error: fmt.Errorf("RNG produced all-zero sample 1")}
	}
	if allZeroBytes(sample2) {
		return &CSTResult{Passed: false, Error: fmt.Errorf("RNG produced all-zero sample 2")}
	}
	if bytes.Equal(sample1, sample2) {
		return &CSTResult{Passed: false, Error: fmt.Errorf("RNG produced identical consecutive samples")}
	}

	if allSameByte(sample1) {
		return &CSTResult{Passed: false, Error: fmt.Errorf("RNG sample 1 has no variation")}
	}
	if allSameByte(sample2) {
		return &CSTResult{Passed: false, Error: fmt.Errorf("RNG sample 2 has no variation")}
	}

	return &CSTResult{Passed: true}
}

func allSameByte(b []byte) bool {
	for i := 1; i < len(b); i++ {
		if b[i] != b[0] {
			return false
		}
	}
	return true
}

// ContinuousRNGTest compares output against the previous RNG output and
// fails if they match, catching a CSPRNG stuck at a fixed value.
func ContinuousRNGTest(output []byte) *CSTResult {
	lastRNGMutex.Lock()
	defer lastRNGMutex.Unlock()

	if lastRNGOutput == nil {
		lastRNGOutput = append([]byte(nil), output...)
		return &CSTResult{Passed: true}
	}

	if len(output) == len(lastRNGOutput) && bytes.Equal(output, lastRNGOutput) {
		return &CSTResult{Passed: false, Error: fmt.Errorf("RNG produced repeated output")}
	}

	if len(lastRNGOutput) != len(output) {
		lastRNGOutput = make([]byte, len(output))
	}
	copy(lastRNGOutput, output)

	return &CSTResult{Passed: true}
}

// SecureRandomWithCST reads cryptographically secure random bytes and runs
// the continuous RNG test plus a periodic full health check.
func SecureRandomWithCST(b []byte) error {
	if err := SecureRandom(b); err != nil {
		return err
	}

	if result := ContinuousRNGTest(b); !result.Passed {
		return result.Error
	}

	config := getConfig()
	if !config.EnableRNGHealthCheck {
		return nil
	}

	rngCallMu.Lock()
	rngCallCount++
	count := rngCallCount
	rngCallMu.Unlock()

	if count%config.RNGHealthCheckInterval == 0 {
		if result := RNGHealthCheck(); !result.Passed {
			return result.Error
		}
	}

	return nil
}

// CSTEnabled returns true if any conditional self-test is enabled.
func CSTEnabled() bool {
	config := getConfig()
	return config.EnableKeyGenConsistency || config.EnableRNGHealthCheck
}

// GetCSTConfig returns the current CST configuration.
func GetCSTConfig() CSTConfig {
	return getConfig()
}
