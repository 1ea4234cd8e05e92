package blockfilter

import (
	"github.com/shaia/blockfilter/internal/addr"
	"github.com/shaia/blockfilter/internal/cuckooblock"
	"github.com/shaia/blockfilter/internal/keyhash"
)

// cuckooImpl backs a KindCuckoo Handle.
type cuckooImpl struct {
	descriptor addr.Descriptor
	kernel     *cuckooblock.Kernel
	hasher     keyhash.Hasher
	slots      []uint32
	spb        int // slots per block
}

func newCuckooImpl(descriptor addr.Descriptor, bucketsPerBlock, tagsPerBucket, bitsPerTag, maxKicks int, hasher keyhash.Hasher) (*cuckooImpl, error) {
	kernel, err := cuckooblock.New(bucketsPerBlock, tagsPerBucket, bitsPerTag, maxKicks)
	if err != nil {
		return nil, &InvalidConfigError{Field: "WordsPerBlock/TagsPerBucket/BitsPerTag", Reason: err.Error()}
	}
	spb := kernel.SlotCount()
	return &cuckooImpl{
		descriptor: descriptor,
		kernel:     kernel,
		hasher:     hasher,
		slots:      make([]uint32, int(descriptor.BlockCount())*spb),
		spb:        spb,
	}, nil
}

func (c *cuckooImpl) blockOf(key uint32) []uint32 {
	idx := c.descriptor.GetBlockIdx(c.hasher.Primary(key))
	base := int(idx) * c.spb
	return c.slots[base : base+c.spb]
}

func (c *cuckooImpl) buckets(key uint32) (b1, b2 int, fp uint32) {
	h := c.hasher.Primary(key)
	fp = c.kernel.Fingerprint(c.hasher.Secondary(key))
	b1 = c.kernel.Bucket1(h)
	b2 = c.kernel.Bucket2(b1, fp)
	return
}

func (c *cuckooImpl) insert(key uint32) {
	b1, b2, fp := c.buckets(key)
	c.kernel.Insert(c.blockOf(key), b1, b2, fp)
}

func (c *cuckooImpl) contains(key uint32) bool {
	b1, b2, fp := c.buckets(key)
	return c.kernel.Contains(c.blockOf(key), b1, b2, fp)
}

func (c *cuckooImpl) wordsPerBlock() int { return c.kernel.BucketsPerBlock() }

// Delete removes key from a KindCuckoo Handle. It is a no-op, returning
// false, for a KindBloom Handle (Bloom filters cannot support
// unsynchronized deletion without a counting variant, which this package
// does not implement).
func (h *Handle) Delete(key uint32) bool {
	c, ok := h.impl.(*cuckooImpl)
	if !ok {
		return false
	}
	b1, b2, fp := c.buckets(key)
	return c.kernel.Delete(c.blockOf(key), b1, b2, fp)
}

// LoadFactor returns the fraction of occupied fingerprint slots across
// the whole filter, available only for KindCuckoo handles.
func (h *Handle) LoadFactor() (float64, error) {
	c, ok := h.impl.(*cuckooImpl)
	if !ok {
		return 0, &InvalidConfigError{Field: "Kind", Reason: "LoadFactor requires a cuckoo filter"}
	}
	occupied := 0
	for _, s := range c.slots {
		if s != 0 {
			occupied++
		}
	}
	if len(c.slots) == 0 {
		return 0, nil
	}
	return float64(occupied) / float64(len(c.slots)), nil
}

// InsertChecked inserts key into a KindCuckoo Handle and reports whether
// the bounded kick chain found room, returning CuckooInsertFullError
// when it did not. For a KindBloom Handle it always succeeds (a Bloom
// filter cannot reject an insert).
func (h *Handle) InsertChecked(key uint32) error {
	c, ok := h.impl.(*cuckooImpl)
	if !ok {
		h.impl.insert(key)
		return nil
	}
	b1, b2, fp := c.buckets(key)
	if !c.kernel.Insert(c.blockOf(key), b1, b2, fp) {
		return &CuckooInsertFullError{Key: key}
	}
	return nil
}
