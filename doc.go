// Package kmosaic implements kMOSAIC, an experimental post-quantum key
// encapsulation mechanism and signature scheme built by entangling three
// independent hardness assumptions: a sparse-secret lattice problem (SLSS),
// a noisy tensor decomposition (TDD), and a Cayley-graph random walk in
// SL(2,Z_p) (EGRW).
//
// No single primitive's secret is ever sufficient to recover a kMOSAIC
// shared secret or forge a signature: the KEM's ephemeral secret is split
// into three shares, each fragment-encrypted under a different primitive,
// and bound together with a NIZK proof and a domain-separated binding hash.
//
// # Quick Start
//
// For a KEM round trip:
//
//	import (
//		"github.com/kmosaic/kmosaic/internal/constants"
//		"github.com/kmosaic/kmosaic/pkg/kem"
//	)
//
//	pk, sk, _ := kem.KeyGen(constants.MOS128)
//	ss, ct, _ := kem.Encapsulate(pk)
//	recovered := kem.Decapsulate(ct, sk, pk)
//
// For signing:
//
//	import "github.com/kmosaic/kmosaic/pkg/sig"
//
//	s, _ := sig.Sign(message, sk, pk)
//	ok := sig.Verify(message, s, pk)
//
// # Package Structure
//
//   - pkg/slss: sparse-secret lattice primitive (C3)
//   - pkg/tdd: noisy tensor decomposition primitive (C4)
//   - pkg/egrw: Cayley-graph random-walk primitive (C5)
//   - pkg/entangle: secret sharing, commitments, and the cross-primitive NIZK (C6)
//   - pkg/mosaic: composite key types shared by the KEM and signature layers
//   - pkg/kem: Fujisaki-Okamoto KEM composition with implicit rejection (C7)
//   - pkg/sig: multi-witness and Go-compatible Fiat-Shamir signatures (C8)
//   - pkg/wire: canonical length-prefixed serialization (C9)
//   - pkg/crypto: domain-separated hashing, XOF, rejection sampling, constant-time helpers
//   - pkg/params: the frozen MOS-128 / MOS-256 parameter sets
//   - pkg/metrics: counters, histograms, tracing, and structured logging
//   - internal/constants: numeric invariants and domain-separation tags
//   - internal/errors: sentinel error kinds shared across every package
//
// # Security status
//
// kMOSAIC is an experimental construction entangling assumptions that have
// not individually undergone the scrutiny of standardized schemes such as
// ML-KEM. Several components carry deliberate, documented weaknesses (see
// DESIGN.md) rather than hidden ones: this library is for research and
// protocol experimentation, not production deployment.
//
// # Testing
//
//	go test ./...                                             # all tests
//	go test -run TestKeyGenEncapsulateDecapsulateRoundtrip ./pkg/kem  # fixed-seed known-answer scenario
//	go test -bench=. ./...                                    # benchmarks
package kmosaic
