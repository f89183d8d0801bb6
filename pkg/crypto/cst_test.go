package crypto

import (
	"bytes"
	"testing"
)

func TestKEMPairwiseConsistencyTestPasses(t *testing.T) {
	secret := []byte("0123456789abcdef0123456789abcdef")
	encapsulate := func() ([]byte, []byte, error) {
		return []byte("ciphertext"), secret, nil
	}
	decapsulate := func(ct []byte) ([]byte, error) {
		if !bytes.Equal(ct, []byte("ciphertext")) {
			t.Fatal("decapsulate received unexpected ciphertext")
		}
		return secret, nil
	}

	result := KEMPairwiseConsistencyTest(encapsulate, decapsulate)
	if !result.Passed {
		t.Errorf("expected pass, got error: %v", result.Error)
	}
}

func TestKEMPairwiseConsistencyTestDetectsMismatch(t *testing.T) {
	encapsulate := func() ([]byte, []byte, error) {
		return []byte("ct"), []byte("secret-a-secret-a-secret-a-secre"), nil
	}
	decapsulate := func(ct []byte) ([]byte, error) {
		return []byte("secret-b-secret-b-secret-b-secre"), nil
	}

	result := KEMPairwiseConsistencyTest(encapsulate, decapsulate)
	if result.Passed {
		t.Error("expected failure when shared secrets mismatch")
	}
}

func TestRNGHealthCheckPasses(t *testing.T) {
	result := RNGHealthCheck()
	if !result.Passed {
		t.Errorf("expected healthy RNG, got: %v", result.Error)
	}
}

func TestContinuousRNGTestDetectsRepeat(t *testing.T) {
	lastRNGMutex.Lock()
	lastRNGOutput = nil
	lastRNGMutex.Unlock()

	sample := []byte{1, 2, 3, 4}
	first := ContinuousRNGTest(sample)
	if !first.Passed {
		t.Fatal("first call should always pass (nothing to compare against)")
	}

	second := ContinuousRNGTest(sample)
	if second.Passed {
		t.Error("expected failure on repeated output")
	}
}

func TestDefaultCSTConfig(t *testing.T) {
	cfg := DefaultCSTConfig()
	if !cfg.EnableKeyGenConsistency {
		t.Error("expected key-gen consistency enabled by default")
	}
	if !cfg.EnableRNGHealthCheck {
		t.Error("expected RNG health check enabled by default")
	}
	if cfg.RNGHealthCheckInterval == 0 {
		t.Error("expected non-zero health check interval")
	}
}
