package metrics

import (
	"fmt"
	"io"
	"math"
	"net/http"
	"sort"
	"strings"
)

// PrometheusExporter exports metrics in Prometheus text format.
type PrometheusExporter struct {
	collector *Collector
	namespace string
}

// NewPrometheusExporter creates a new Prometheus exporter for the given collector.
// The namespace is prepended to all metric names (e.g., "kmosaic").
func NewPrometheusExporter(c *Collector, namespace string) *PrometheusExporter {
	return &PrometheusExporter{
		collector: c,
		namespace: namespace,
	}
}

// Handler returns an http.Handler that serves Prometheus metrics.
func (e *PrometheusExporter) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")
		e.WriteMetrics(w)
	})
}

// WriteMetrics writes all metrics in Prometheus text format to the writer.
func (e *PrometheusExporter) WriteMetrics(w io.Writer) {
	snap := e.collector.Snapshot()
	labels := e.formatLabels(snap.Labels)

	// --- Key Generation Metrics ---
	e.writeHelp(w, "keygens_total", "Total number of key generations performed")
	e.writeType(w, "keygens_total", "counter")
	e.writeMetric(w, "keygens_total", labels, float64(snap.KeyGensTotal))

	e.writeHelp(w, "keygens_failed_total", "Total number of failed key generations")
	e.writeType(w, "keygens_failed_total", "counter")
	e.writeMetric(w, "keygens_failed_total", labels, float64(snap.KeyGensFailed))

	// --- KEM Metrics ---
	e.writeHelp(w, "encapsulations_total", "Total KEM encapsulations performed")
	e.writeType(w, "encapsulations_total", "counter")
	e.writeMetric(w, "encapsulations_total", labels, float64(snap.EncapsTotal))

	e.writeHelp(w, "encapsulations_failed_total", "Total failed KEM encapsulations")
	e.writeType(w, "encapsulations_failed_total", "counter")
	e.writeMetric(w, "encapsulations_failed_total", labels, float64(snap.EncapsFailed))

	e.writeHelp(w, "decapsulations_total", "Total KEM decapsulations performed")
	e.writeType(w, "decapsulations_total", "counter")
	e.writeMetric(w, "decapsulations_total", labels, float64(snap.DecapsTotal))

	e.writeHelp(w, "decapsulations_rejected_total", "Total decapsulations that took the implicit-reject path")
	e.writeType(w, "decapsulations_rejected_total", "counter")
	e.writeMetric(w, "decapsulations_rejected_total", labels, float64(snap.DecapsRejected))

	// --- Signature Metrics ---
	e.writeHelp(w, "signs_total", "Total sign operations performed")
	e.writeType(w, "signs_total", "counter")
	e.writeMetric(w, "signs_total", labels, float64(snap.SignsTotal))

	e.writeHelp(w, "signs_failed_total", "Total sign operations that exhausted MAX_ATTEMPTS")
	e.writeType(w, "signs_failed_total", "counter")
	e.writeMetric(w, "signs_failed_total", labels, float64(snap.SignsFailed))

	e.writeHelp(w, "sign_attempts_total", "Cumulative rejection-sampling attempts across all sign calls")
	e.writeType(w, "sign_attempts_total", "counter")
	e.writeMetric(w, "sign_attempts_total", labels, float64(snap.SignAttempts))

	e.writeHelp(w, "verifies_total", "Total verify operations performed")
	e.writeType(w, "verifies_total", "counter")
	e.writeMetric(w, "verifies_total", labels, float64(snap.VerifiesTotal))

	e.writeHelp(w, "verifies_failed_total", "Total verify operations that returned false")
	e.writeType(w, "verifies_failed_total", "counter")
	e.writeMetric(w, "verifies_failed_total", labels, float64(snap.VerifiesFailed))

	// --- Entanglement / NIZK Metrics ---
	e.writeHelp(w, "nizk_proofs_total", "Total NIZK proofs generated")
	e.writeType(w, "nizk_proofs_total", "counter")
	e.writeMetric(w, "nizk_proofs_total", labels, float64(snap.NIZKProofsTotal))

	e.writeHelp(w, "nizk_verify_failures_total", "Total NIZK verification failures")
	e.writeType(w, "nizk_verify_failures_total", "counter")
	e.writeMetric(w, "nizk_verify_failures_total", labels, float64(snap.NIZKVerifyFailures))

	// --- Error Metrics ---
	e.writeHelp(w, "param_errors_total", "Total parameter validation errors")
	e.writeType(w, "param_errors_total", "counter")
	e.writeMetric(w, "param_errors_total", labels, float64(snap.ParamErrors))

	e.writeHelp(w, "seed_errors_total", "Total seed validation errors")
	e.writeType(w, "seed_errors_total", "counter")
	e.writeMetric(w, "seed_errors_total", labels, float64(snap.SeedErrors))

	e.writeHelp(w, "encoding_errors_total", "Total serialization/deserialization errors")
	e.writeType(w, "encoding_errors_total", "counter")
	e.writeMetric(w, "encoding_errors_total", labels, float64(snap.EncodingErrors))

	// --- Uptime ---
	e.writeHelp(w, "uptime_seconds", "Time since the collector was created")
	e.writeType(w, "uptime_seconds", "gauge")
	e.writeMetric(w, "uptime_seconds", labels, snap.Uptime.Seconds())

	// --- Histograms ---
	e.writeHistogram(w, "keygen_duration_milliseconds", "Key generation duration in milliseconds", labels, snap.KeyGenLatency)
	e.writeHistogram(w, "encapsulate_duration_microseconds", "Encapsulation duration in microseconds", labels, snap.EncapLatency)
	e.writeHistogram(w, "decapsulate_duration_microseconds", "Decapsulation duration in microseconds", labels, snap.DecapLatency)
	e.writeHistogram(w, "sign_duration_milliseconds", "Signing duration in milliseconds", labels, snap.SignLatency)
	e.writeHistogram(w, "verify_duration_microseconds", "Verification duration in microseconds", labels, snap.VerifyLatency)
}

// writeHelp writes a HELP line.
func (e *PrometheusExporter) writeHelp(w io.Writer, name, help string) {
	fmt.Fprintf(w, "# HELP %s_%s %s\n", e.namespace, name, help)
}

// writeType writes a TYPE line.
func (e *PrometheusExporter) writeType(w io.Writer, name, typ string) {
	fmt.Fprintf(w, "# TYPE %s_%s %s\n", e.namespace, name, typ)
}

// writeMetric writes a single metric line.
func (e *PrometheusExporter) writeMetric(w io.Writer, name, labels string, value float64) {
	if labels != "" {
		fmt.Fprintf(w, "%s_%s{%s} %g\n", e.namespace, name, labels, value)
	} else {
		fmt.Fprintf(w, "%s_%s %g\n", e.namespace, name, value)
	}
}

// writeHistogram writes a histogram in Prometheus format.
func (e *PrometheusExporter) writeHistogram(w io.Writer, name, help, labels string, h HistogramSummary) {
	e.writeHelp(w, name, help)
	e.writeType(w, name, "histogram")

	fullName := e.namespace + "_" + name

	// Write bucket counts
	for _, b := range h.Buckets {
		le := fmt.Sprintf("%g", b.UpperBound)
		if math.IsInf(b.UpperBound, 1) {
			le = "+Inf"
		}
		if labels != "" {
			fmt.Fprintf(w, "%s_bucket{%s,le=\"%s\"} %d\n", fullName, labels, le, b.Count)
		} else {
			fmt.Fprintf(w, "%s_bucket{le=\"%s\"} %d\n", fullName, le, b.Count)
		}
	}

	// Write sum and count
	if labels != "" {
		fmt.Fprintf(w, "%s_sum{%s} %g\n", fullName, labels, h.Sum)
		fmt.Fprintf(w, "%s_count{%s} %d\n", fullName, labels, h.Count)
	} else {
		fmt.Fprintf(w, "%s_sum %g\n", fullName, h.Sum)
		fmt.Fprintf(w, "%s_count %d\n", fullName, h.Count)
	}
}

// formatLabels converts Labels to Prometheus label format.
func (e *PrometheusExporter) formatLabels(labels Labels) string {
	if len(labels) == 0 {
		return ""
	}

	// Sort keys for consistent output
	keys := make([]string, 0, len(labels))
	for k := range labels {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		// Escape label values
		v := escapePromValue(labels[k])
		parts = append(parts, fmt.Sprintf("%s=\"%s\"", k, v))
	}

	return strings.Join(parts, ",")
}

// escapePromValue escapes a string for use as a Prometheus label value.
func escapePromValue(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "\"", "\\\"")
	s = strings.ReplaceAll(s, "\n", "\\n")
	return s
}

// --- Convenience Functions ---

// ServePrometheus starts an HTTP server serving Prometheus metrics.
// This is a convenience function for simple use cases.
func ServePrometheus(addr string, c *Collector, namespace string) error {
	exp := NewPrometheusExporter(c, namespace)
	http.Handle("/metrics", exp.Handler())
	return http.ListenAndServe(addr, nil)
}
