package egrw

import (
	"sync"

	"github.com/kmosaic/kmosaic/internal/constants"
)

// Generators is the fixed-order generator set (S, S^-1, T, T^-1) for a given
// prime field modulus.
type Generators [4]Matrix

func computeGenerators(p uint32) Generators {
	s := Matrix{A: 0, B: p - 1, C: 1, D: 0}
	t := Matrix{A: 1, B: 1, C: 0, D: 1}
	return Generators{s, Inverse(s, p), t, Inverse(t, p)}
}

type cacheEntry struct {
	gens     Generators
	lastUsed uint64
}

// GeneratorCache is a thread-safe, LRU-bounded cache of generator sets keyed
// by prime field modulus, capped at constants.EGRWGeneratorCacheSize entries.
// It is the only process-wide mutable state in kMOSAIC.
type GeneratorCache struct {
	mu      sync.Mutex
	entries map[uint32]*cacheEntry
	clock   uint64
}

// NewGeneratorCache creates an empty cache.
func NewGeneratorCache() *GeneratorCache {
	return &GeneratorCache{entries: make(map[uint32]*cacheEntry)}
}

// Get returns the generator set for p, computing and caching it on miss and
// evicting the least-recently-used entry if the cache is at capacity.
func (gc *GeneratorCache) Get(p uint32) Generators {
	gc.mu.Lock()
	defer gc.mu.Unlock()

	gc.clock++
	if e, ok := gc.entries[p]; ok {
		e.lastUsed = gc.clock
		return e.gens
	}

	if len(gc.entries) >= constants.EGRWGeneratorCacheSize {
		var lruKey uint32
		var lruVal uint64
		first := true
		for k, e := range gc.entries {
			if first || e.lastUsed < lruVal {
				lruKey, lruVal, first = k, e.lastUsed, false
			}
		}
		delete(gc.entries, lruKey)
	}

	gens := computeGenerators(p)
	gc.entries[p] = &cacheEntry{gens: gens, lastUsed: gc.clock}
	return gens
}

// Len reports the current number of cached entries.
func (gc *GeneratorCache) Len() int {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	return len(gc.entries)
}

// DefaultGeneratorCache is the process-wide cache used by KeyGen, Encrypt,
// and Decrypt unless a caller supplies its own via the *WithCache variants.
var DefaultGeneratorCache = NewGeneratorCache()
