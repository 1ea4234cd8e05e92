// Package simdops provides the whole-array bitwise operations used by the
// Bloom filter's bonus set operations (Union, Intersection, Clear,
// PopCount) — the same operations shaia-BloomFilter exposed through its
// simd.Operations interface and greatroar/blobloom exposes as
// Union/Intersect/Cardinality/Clear on top of per-block loops.
//
// Unlike the teacher's version, these are portable Go over []uint64 with
// no architecture-specific assembly: the spec's SIMD-unroll contract
// governs the per-key batch-probe loop (internal/probe), not these
// whole-array reductions, and a hand-rolled assembly kernel here would add
// risk without being part of any tested contract. See DESIGN.md.
package simdops

import "math/bits"

// PopCount returns the number of set bits across words.
func PopCount(words []uint64) uint64 {
	var n uint64
	for _, w := range words {
		n += uint64(bits.OnesCount64(w))
	}
	return n
}

// Or computes dst[i] |= src[i] for every word, requiring len(dst) == len(src).
func Or(dst, src []uint64) {
	if len(dst) == 0 {
		return
	}
	_ = src[len(dst)-1] // bounds-check hint, mirrors teacher's fixed-size unrolled loops
	for i := range dst {
		dst[i] |= src[i]
	}
}

// And computes dst[i] &= src[i] for every word, requiring len(dst) == len(src).
func And(dst, src []uint64) {
	if len(dst) == 0 {
		return
	}
	_ = src[len(dst)-1]
	for i := range dst {
		dst[i] &= src[i]
	}
}

// Clear zeroes every word.
func Clear(words []uint64) {
	for i := range words {
		words[i] = 0
	}
}
