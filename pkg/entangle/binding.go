package entangle

import (
	"github.com/kmosaic/kmosaic/internal/constants"
	"github.com/kmosaic/kmosaic/pkg/crypto"
)

// ComputeBinding ties the three primitive public-key serializations together
// into a single 32-byte hash that cannot be recomputed from any proper
// subset of them.
func ComputeBinding(slssPKBytes, tddPKBytes, egrwPKBytes []byte) []byte {
	hSLSS := crypto.HashWithDomain(constants.DomainBindSLSS, slssPKBytes)
	hTDD := crypto.HashWithDomain(constants.DomainBindTDD, tddPKBytes)
	hEGRW := crypto.HashWithDomain(constants.DomainBindEGRW, egrwPKBytes)

	concat := make([]byte, 0, len(hSLSS)+len(hTDD)+len(hEGRW))
	concat = append(concat, hSLSS...)
	concat = append(concat, hTDD...)
	concat = append(concat, hEGRW...)
	return crypto.HashWithDomain(constants.DomainBindFinal, concat)
}
