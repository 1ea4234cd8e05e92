// Package bloomblock implements the Bloom block kernel (C2-bloom): the
// per-block, k-bit-set insert/contains primitives, sectored across a
// single cache-line-resident block so that every key touches exactly one
// block (the "blocked" in blocked Bloom filter, per Putze, Sanders and
// Singler, as implemented by greatroar/blobloom and
// codeGROOVE-dev-bdcache's blockBloomFilter).
package bloomblock

import (
	"fmt"
	"math/bits"
)

// Word is the machine word a block is built from.
type Word interface{ ~uint32 | ~uint64 }

// maxK bounds k independent of any shape's per-sector budget: positions
// stack-allocates its scratch buffer at this width, so a k beyond it
// would index out of bounds rather than fail a capacity check.
const maxK = 16

// Kernel is the stateless, immutable per-block Bloom logic for a given
// (word width, words per block, sector count, k) tuple. A Kernel carries
// no mutable state; all mutable state lives in the caller-owned block
// passed to Insert/Contains.
type Kernel[W Word] struct {
	wordBits        int
	wordsPerBlock   int
	sectorCnt       int
	k               int
	blockBits       int
	sectorWidth     int
	requiredHashLog int // bits needed to address one in-block position
}

// New builds a Kernel. wordBits must be 32 or 64, wordsPerBlock a power of
// two in {1,2,4,8,16}, sectorCnt in [1, wordsPerBlock], and k such that
// k <= wordsPerBlock*wordBits/sectorCnt (the same validity rule the
// top-level Config enforces).
func New[W Word](wordBits, wordsPerBlock, sectorCnt, k int) (*Kernel[W], error) {
	if wordBits != 32 && wordBits != 64 {
		return nil, fmt.Errorf("bloomblock: word width must be 32 or 64, got %d", wordBits)
	}
	blockBits := wordsPerBlock * wordBits
	if sectorCnt < 1 || sectorCnt > wordsPerBlock {
		return nil, fmt.Errorf("bloomblock: sector count %d out of range [1,%d]", sectorCnt, wordsPerBlock)
	}
	if blockBits%sectorCnt != 0 {
		return nil, fmt.Errorf("bloomblock: sector count %d does not divide block bit width %d evenly", sectorCnt, blockBits)
	}
	sectorWidth := blockBits / sectorCnt
	if k < 1 || k > wordsPerBlock*wordBits/sectorCnt {
		return nil, fmt.Errorf("bloomblock: k=%d exceeds budget for sectorCnt=%d, blockBits=%d", k, sectorCnt, blockBits)
	}
	if k > maxK {
		return nil, fmt.Errorf("bloomblock: k=%d exceeds the fixed position-buffer width of %d", k, maxK)
	}
	return &Kernel[W]{
		wordBits:        wordBits,
		wordsPerBlock:   wordsPerBlock,
		sectorCnt:       sectorCnt,
		k:               k,
		blockBits:       blockBits,
		sectorWidth:     sectorWidth,
		requiredHashLog: bitsFor(uint32(blockBits)),
	}, nil
}

// NeedsSecondaryHash reports whether, for a descriptor that consumes
// addressingBits high bits of the primary hash, this kernel's in-block
// position derivation needs the secondary hasher because too few bits of
// the primary hash remain. This is a one-time, construction-time decision
// (never evaluated per key), per the spec's "hot path decision lifted
// entirely out of the probe loop".
func (k *Kernel[W]) NeedsSecondaryHash(addressingBits uint32) bool {
	return int(addressingBits)+k.requiredHashLog > 32
}

// K returns the number of hash functions (bit sets) per key.
func (k *Kernel[W]) K() int { return k.k }

// WordsPerBlock returns the number of W-sized words making up one block.
func (k *Kernel[W]) WordsPerBlock() int { return k.wordsPerBlock }

// positions computes the k bit positions (absolute within the block) for
// one key given an in-block seed (already shifted clear of any addressing
// bits) and a fallback seed. Enhanced double hashing (Dillinger & Manolios
// / the h1+i*h2+i^2*c construction used by codeGROOVE-dev-bdcache's
// blockBloomFilter and OrlovEvgeny's bloomFilterSIMD) generates one
// pseudo-random stream per key from two 32-bit seeds; each of the k draws
// is then split into a sector index and an in-sector bit offset, without
// hand-slicing the hash into literal bit ranges. The k (sector, offset)
// pairs are not guaranteed to be distinct: two draws may select the same
// bit.
func (k *Kernel[W]) positions(seed1, seed2 uint32, dst []int) {
	const mixConst = 0x9e3779b1
	for i := 0; i < k.k; i++ {
		mixed := seed1 + uint32(i)*seed2 + uint32(i*i)*mixConst
		sector := int(mixed % uint32(k.sectorCnt))
		offset := int((mixed / uint32(k.sectorCnt)) % uint32(k.sectorWidth))
		dst[i] = sector*k.sectorWidth + offset
	}
}

// Insert ORs the k derived bits for (seed1, seed2) into block, which must
// have at least WordsPerBlock() elements.
func (k *Kernel[W]) Insert(block []W, seed1, seed2 uint32) {
	var posBuf [16]int
	positions := posBuf[:k.k]
	k.positions(seed1, seed2, positions)
	for _, pos := range positions {
		wordIdx := pos / k.wordBits
		bitIdx := uint(pos % k.wordBits)
		block[wordIdx] |= W(1) << bitIdx
	}
}

// Contains branchlessly AND-combines the k derived bits: every bit must
// be set for the result to be true, computed without a per-bit
// conditional jump via an accumulate-then-compare reduction.
func (k *Kernel[W]) Contains(block []W, seed1, seed2 uint32) bool {
	var posBuf [16]int
	positions := posBuf[:k.k]
	k.positions(seed1, seed2, positions)

	ok := true
	for _, pos := range positions {
		wordIdx := pos / k.wordBits
		bitIdx := uint(pos % k.wordBits)
		bit := (block[wordIdx] >> bitIdx) & 1
		ok = ok && bit == 1
	}
	return ok
}

// bitsFor returns ceil(log2(n)) for n >= 1.
func bitsFor(n uint32) int {
	if n <= 1 {
		return 0
	}
	return bits.Len32(n - 1)
}
