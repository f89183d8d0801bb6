// Package metrics provides observability primitives for the kMOSAIC library.
//
// The package includes:
//   - Counter, Gauge, and Histogram metric types
//   - Prometheus-compatible metrics export
//   - OpenTelemetry tracing support
//   - Structured logging with levels
//   - Health check functionality
package metrics

import (
	"sync"
	"sync/atomic"
	"time"
)

// Collector aggregates metrics from kMOSAIC key generation, encapsulation,
// decapsulation, signing, and verification operations.
type Collector struct {
	// Key generation metrics
	keygensTotal    atomic.Uint64
	keygensFailed   atomic.Uint64
	keygenLatency   *Histogram

	// KEM metrics
	encapsTotal      atomic.Uint64
	encapsFailed     atomic.Uint64
	decapsTotal      atomic.Uint64
	decapsRejected   atomic.Uint64
	encapLatency     *Histogram
	decapLatency     *Histogram

	// Signature metrics
	signsTotal       atomic.Uint64
	signsFailed      atomic.Uint64
	signAttempts     atomic.Uint64
	verifiesTotal    atomic.Uint64
	verifiesFailed   atomic.Uint64
	signLatency      *Histogram
	verifyLatency    *Histogram

	// Entanglement / NIZK metrics
	nizkProofsTotal    atomic.Uint64
	nizkVerifyFailures atomic.Uint64

	// Error metrics
	paramErrors    atomic.Uint64
	seedErrors     atomic.Uint64
	encodingErrors atomic.Uint64

	// Creation time for uptime tracking
	createdAt time.Time

	// Labels for this collector instance
	labels Labels
}

// Labels represents key-value pairs for metric labeling.
type Labels map[string]string

// NewCollector creates a new metrics collector.
func NewCollector(labels Labels) *Collector {
	if labels == nil {
		labels = make(Labels)
	}

	return &Collector{
		keygenLatency: NewHistogram(KeyOpLatencyBuckets),
		encapLatency:  NewHistogram(LatencyBuckets),
		decapLatency:  NewHistogram(LatencyBuckets),
		signLatency:   NewHistogram(KeyOpLatencyBuckets),
		verifyLatency: NewHistogram(LatencyBuckets),
		createdAt:     time.Now(),
		labels:        labels,
	}
}

// Default bucket configurations for histograms.
var (
	// KeyOpLatencyBuckets for key generation and multi-witness signing
	// (milliseconds); signing has a mandatory wall-clock floor (§4.8) so the
	// upper buckets matter.
	KeyOpLatencyBuckets = []float64{10, 25, 50, 100, 250, 500, 1000, 2500, 5000}

	// LatencyBuckets for encapsulate/decapsulate/verify (microseconds).
	LatencyBuckets = []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000}
)

// --- Key Generation Metrics ---

// KeyGenSucceeded records a successful key generation and its latency.
func (c *Collector) KeyGenSucceeded(d time.Duration) {
	c.keygensTotal.Add(1)
	c.keygenLatency.Observe(float64(d.Milliseconds()))
}

// KeyGenFailed records a failed key generation attempt.
func (c *Collector) KeyGenFailed() {
	c.keygensTotal.Add(1)
	c.keygensFailed.Add(1)
}

// --- KEM Metrics ---

// EncapsulateSucceeded records a successful encapsulation and its latency.
func (c *Collector) EncapsulateSucceeded(d time.Duration) {
	c.encapsTotal.Add(1)
	c.encapLatency.Observe(float64(d.Microseconds()))
}

// EncapsulateFailed records a failed encapsulation attempt.
func (c *Collector) EncapsulateFailed() {
	c.encapsTotal.Add(1)
	c.encapsFailed.Add(1)
}

// DecapsulateObserved records a decapsulation call. rejected indicates the
// implicit-reject path was taken (ciphertext mismatch or NIZK failure), not
// a returned error: decapsulation never fails outwardly except on a
// structurally unparseable ciphertext.
func (c *Collector) DecapsulateObserved(d time.Duration, rejected bool) {
	c.decapsTotal.Add(1)
	c.decapLatency.Observe(float64(d.Microseconds()))
	if rejected {
		c.decapsRejected.Add(1)
	}
}

// --- Signature Metrics ---

// SignSucceeded records a successful signing operation, its rejection-sampling
// attempt count, and its latency (subject to the per-level minimum floor).
func (c *Collector) SignSucceeded(attempts uint64, d time.Duration) {
	c.signsTotal.Add(1)
	c.signAttempts.Add(attempts)
	c.signLatency.Observe(float64(d.Milliseconds()))
}

// SignFailed records a signing operation that exhausted MAX_ATTEMPTS.
func (c *Collector) SignFailed(attempts uint64) {
	c.signsTotal.Add(1)
	c.signsFailed.Add(1)
	c.signAttempts.Add(attempts)
}

// VerifyObserved records a verification call and its outcome.
func (c *Collector) VerifyObserved(d time.Duration, ok bool) {
	c.verifiesTotal.Add(1)
	c.verifyLatency.Observe(float64(d.Microseconds()))
	if !ok {
		c.verifiesFailed.Add(1)
	}
}

// --- Entanglement / NIZK Metrics ---

// NIZKProofGenerated records a generated NIZK proof.
func (c *Collector) NIZKProofGenerated() {
	c.nizkProofsTotal.Add(1)
}

// NIZKVerifyFailed records a NIZK verification failure.
func (c *Collector) NIZKVerifyFailed() {
	c.nizkVerifyFailures.Add(1)
}

// --- Error Metrics ---

// RecordParamError increments the parameter validation error counter.
func (c *Collector) RecordParamError() {
	c.paramErrors.Add(1)
}

// RecordSeedError increments the seed validation error counter.
func (c *Collector) RecordSeedError() {
	c.seedErrors.Add(1)
}

// RecordEncodingError increments the serialization error counter.
func (c *Collector) RecordEncodingError() {
	c.encodingErrors.Add(1)
}

// --- Snapshot ---

// Snapshot returns a point-in-time snapshot of all metrics.
type Snapshot struct {
	Timestamp time.Time
	Uptime    time.Duration

	KeyGensTotal  uint64
	KeyGensFailed uint64

	EncapsTotal    uint64
	EncapsFailed   uint64
	DecapsTotal    uint64
	DecapsRejected uint64

	SignsTotal     uint64
	SignsFailed    uint64
	SignAttempts   uint64
	VerifiesTotal  uint64
	VerifiesFailed uint64

	NIZKProofsTotal    uint64
	NIZKVerifyFailures uint64

	ParamErrors    uint64
	SeedErrors     uint64
	EncodingErrors uint64

	KeyGenLatency HistogramSummary
	EncapLatency  HistogramSummary
	DecapLatency  HistogramSummary
	SignLatency   HistogramSummary
	VerifyLatency HistogramSummary

	Labels Labels
}

// Snapshot returns a point-in-time snapshot of all metrics.
func (c *Collector) Snapshot() Snapshot {
	return Snapshot{
		Timestamp:          time.Now(),
		Uptime:             time.Since(c.createdAt),
		KeyGensTotal:       c.keygensTotal.Load(),
		KeyGensFailed:      c.keygensFailed.Load(),
		EncapsTotal:        c.encapsTotal.Load(),
		EncapsFailed:       c.encapsFailed.Load(),
		DecapsTotal:        c.decapsTotal.Load(),
		DecapsRejected:     c.decapsRejected.Load(),
		SignsTotal:         c.signsTotal.Load(),
		SignsFailed:        c.signsFailed.Load(),
		SignAttempts:       c.signAttempts.Load(),
		VerifiesTotal:      c.verifiesTotal.Load(),
		VerifiesFailed:     c.verifiesFailed.Load(),
		NIZKProofsTotal:    c.nizkProofsTotal.Load(),
		NIZKVerifyFailures: c.nizkVerifyFailures.Load(),
		ParamErrors:        c.paramErrors.Load(),
		SeedErrors:         c.seedErrors.Load(),
		EncodingErrors:     c.encodingErrors.Load(),
		KeyGenLatency:      c.keygenLatency.Summary(),
		EncapLatency:       c.encapLatency.Summary(),
		DecapLatency:       c.decapLatency.Summary(),
		SignLatency:        c.signLatency.Summary(),
		VerifyLatency:      c.verifyLatency.Summary(),
		Labels:             c.labels,
	}
}

// Reset clears all metrics (useful for testing).
func (c *Collector) Reset() {
	c.keygensTotal.Store(0)
	c.keygensFailed.Store(0)
	c.encapsTotal.Store(0)
	c.encapsFailed.Store(0)
	c.decapsTotal.Store(0)
	c.decapsRejected.Store(0)
	c.signsTotal.Store(0)
	c.signsFailed.Store(0)
	c.signAttempts.Store(0)
	c.verifiesTotal.Store(0)
	c.verifiesFailed.Store(0)
	c.nizkProofsTotal.Store(0)
	c.nizkVerifyFailures.Store(0)
	c.paramErrors.Store(0)
	c.seedErrors.Store(0)
	c.encodingErrors.Store(0)
	c.keygenLatency.Reset()
	c.encapLatency.Reset()
	c.decapLatency.Reset()
	c.signLatency.Reset()
	c.verifyLatency.Reset()
	c.createdAt = time.Now()
}

// --- Global Collector ---

var (
	globalCollector     *Collector
	globalCollectorOnce sync.Once
)

// Global returns the global metrics collector.
// Creates one with default settings if not already initialized.
func Global() *Collector {
	globalCollectorOnce.Do(func() {
		globalCollector = NewCollector(Labels{"instance": "default"})
	})
	return globalCollector
}

// SetGlobal sets the global metrics collector.
// Should be called during initialization before any metrics are recorded.
func SetGlobal(c *Collector) {
	globalCollector = c
}
