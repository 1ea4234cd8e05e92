package blockfilter

import (
	"math"

	"github.com/shaia/blockfilter/internal/addr"
	"github.com/shaia/blockfilter/internal/bloomblock"
	"github.com/shaia/blockfilter/internal/keyhash"
	"github.com/shaia/blockfilter/internal/simdops"
)

// bloomImpl32 backs a KindBloom Handle whose blocks are made of uint32
// words.
type bloomImpl32 struct {
	descriptor     addr.Descriptor
	kernel         *bloomblock.Kernel[uint32]
	hasher         keyhash.Hasher
	words          []uint32
	wpb            int
	needsSecondary bool
}

func newBloomImpl32(descriptor addr.Descriptor, wordsPerBlock, sectorCnt, k int, hasher keyhash.Hasher) (*bloomImpl32, error) {
	kernel, err := bloomblock.New[uint32](32, wordsPerBlock, sectorCnt, k)
	if err != nil {
		return nil, &InvalidConfigError{Field: "WordsPerBlock/SectorCnt/K", Reason: err.Error()}
	}
	return &bloomImpl32{
		descriptor:     descriptor,
		kernel:         kernel,
		hasher:         hasher,
		words:          make([]uint32, int(descriptor.BlockCount())*wordsPerBlock),
		wpb:            wordsPerBlock,
		needsSecondary: kernel.NeedsSecondaryHash(descriptor.AddressingBits()),
	}, nil
}

func (b *bloomImpl32) seeds(key uint32) (uint32, uint32) {
	h := b.hasher.Primary(key)
	if b.needsSecondary {
		s1 := b.hasher.Secondary(key)
		return s1, rotl32(s1, 16) ^ 0x85ebca6b
	}
	inBlock := h << b.descriptor.AddressingBits()
	return inBlock, rotl32(h, 16) ^ 0x9e3779b9
}

func (b *bloomImpl32) blockOf(key uint32) []uint32 {
	idx := b.descriptor.GetBlockIdx(b.hasher.Primary(key))
	base := int(idx) * b.wpb
	return b.words[base : base+b.wpb]
}

func (b *bloomImpl32) insert(key uint32) {
	s1, s2 := b.seeds(key)
	b.kernel.Insert(b.blockOf(key), s1, s2)
}

func (b *bloomImpl32) contains(key uint32) bool {
	s1, s2 := b.seeds(key)
	return b.kernel.Contains(b.blockOf(key), s1, s2)
}

func (b *bloomImpl32) wordsPerBlock() int { return b.wpb }

// bloomImpl64 backs a KindBloom Handle whose blocks are made of uint64
// words; its backing array additionally supports the bonus whole-filter
// operations (Union, Intersection, PopCount, ClearBits) via internal/simdops.
type bloomImpl64 struct {
	descriptor     addr.Descriptor
	kernel         *bloomblock.Kernel[uint64]
	hasher         keyhash.Hasher
	words          []uint64
	wpb            int
	needsSecondary bool
}

func newBloomImpl64(descriptor addr.Descriptor, wordsPerBlock, sectorCnt, k int, hasher keyhash.Hasher) (*bloomImpl64, error) {
	kernel, err := bloomblock.New[uint64](64, wordsPerBlock, sectorCnt, k)
	if err != nil {
		return nil, &InvalidConfigError{Field: "WordsPerBlock/SectorCnt/K", Reason: err.Error()}
	}
	return &bloomImpl64{
		descriptor:     descriptor,
		kernel:         kernel,
		hasher:         hasher,
		words:          make([]uint64, int(descriptor.BlockCount())*wordsPerBlock),
		wpb:            wordsPerBlock,
		needsSecondary: kernel.NeedsSecondaryHash(descriptor.AddressingBits()),
	}, nil
}

func (b *bloomImpl64) seeds(key uint32) (uint32, uint32) {
	h := b.hasher.Primary(key)
	if b.needsSecondary {
		s1 := b.hasher.Secondary(key)
		return s1, rotl32(s1, 16) ^ 0x85ebca6b
	}
	inBlock := h << b.descriptor.AddressingBits()
	return inBlock, rotl32(h, 16) ^ 0x9e3779b9
}

func (b *bloomImpl64) blockOf(key uint32) []uint64 {
	idx := b.descriptor.GetBlockIdx(b.hasher.Primary(key))
	base := int(idx) * b.wpb
	return b.words[base : base+b.wpb]
}

func (b *bloomImpl64) insert(key uint32) {
	s1, s2 := b.seeds(key)
	b.kernel.Insert(b.blockOf(key), s1, s2)
}

func (b *bloomImpl64) contains(key uint32) bool {
	s1, s2 := b.seeds(key)
	return b.kernel.Contains(b.blockOf(key), s1, s2)
}

func (b *bloomImpl64) wordsPerBlock() int { return b.wpb }

// Union ORs other's bits into h in place. Both handles must share the
// same Config shape (word width 64, identical block count). Only the
// word width and the backing-array lengths are checked: a length mismatch
// returns an error rather than silently truncating, while other shape
// differences (words per block, K, addressing mode) are not detected.
func (h *Handle) Union(other *Handle) error {
	a, ok := h.impl.(*bloomImpl64)
	if !ok {
		return &InvalidConfigError{Field: "Kind", Reason: "Union requires two 64-bit bloom filters"}
	}
	b, ok := other.impl.(*bloomImpl64)
	if !ok || len(b.words) != len(a.words) {
		return &InvalidConfigError{Field: "other", Reason: "Union requires matching filter shapes"}
	}
	simdops.Or(a.words, b.words)
	return nil
}

// Intersection ANDs other's bits into h in place, under the same shape
// constraints as Union.
func (h *Handle) Intersection(other *Handle) error {
	a, ok := h.impl.(*bloomImpl64)
	if !ok {
		return &InvalidConfigError{Field: "Kind", Reason: "Intersection requires two 64-bit bloom filters"}
	}
	b, ok := other.impl.(*bloomImpl64)
	if !ok || len(b.words) != len(a.words) {
		return &InvalidConfigError{Field: "other", Reason: "Intersection requires matching filter shapes"}
	}
	simdops.And(a.words, b.words)
	return nil
}

// PopCount returns the number of set bits across the whole backing
// array, available only for 64-bit bloom filters.
func (h *Handle) PopCount() (uint64, error) {
	a, ok := h.impl.(*bloomImpl64)
	if !ok {
		return 0, &InvalidConfigError{Field: "Kind", Reason: "PopCount requires a 64-bit bloom filter"}
	}
	return simdops.PopCount(a.words), nil
}

// ClearBits zeroes every bit in the filter, available only for 64-bit
// bloom filters.
func (h *Handle) ClearBits() error {
	a, ok := h.impl.(*bloomImpl64)
	if !ok {
		return &InvalidConfigError{Field: "Kind", Reason: "ClearBits requires a 64-bit bloom filter"}
	}
	simdops.Clear(a.words)
	return nil
}

// EstimateCardinality estimates the number of distinct keys inserted so
// far from the filter's current bit density, inverting the expected
// fraction of set bits for a blocked Bloom filter (the same estimator
// greatroar/blobloom's Filter.Cardinality uses).
func (h *Handle) EstimateCardinality() (float64, error) {
	a, ok := h.impl.(*bloomImpl64)
	if !ok {
		return 0, &InvalidConfigError{Field: "Kind", Reason: "EstimateCardinality requires a 64-bit bloom filter"}
	}
	nbits := float64(len(a.words)) * 64
	ones := float64(simdops.PopCount(a.words))
	if ones >= nbits {
		return 0, nil
	}
	k := float64(a.kernel.K())
	return -nbits / k * math.Log1p(-ones/nbits), nil
}

func rotl32(x uint32, n uint) uint32 {
	return x<<n | x>>(32-n)
}
