package blockfilter

import (
	"github.com/shaia/blockfilter/internal/addr"
	"github.com/shaia/blockfilter/internal/dispatch"
	"github.com/shaia/blockfilter/internal/keyhash"
	"github.com/shaia/blockfilter/internal/probe"
)

// cuckooTargetLoadFactor is the occupancy Construct sizes a cuckoo
// filter's block count for: high enough to be space-efficient, low
// enough that inserts rarely need a long kick chain, matching the
// occupancy ranges used in practice for 4-way bucketed cuckoo filters.
const cuckooTargetLoadFactor = 0.90

// prober is the minimal surface a block kernel instantiation exposes to
// Handle, regardless of whether it backs a Bloom or a cuckoo filter.
type prober interface {
	insert(key uint32)
	contains(key uint32) bool
	wordsPerBlock() int
}

// Handle is a constructed filter: an immutable shape (kernel, addressing
// descriptor, hasher) bound to the backing storage Construct allocates.
// The Handle owns that storage; callers cannot supply or access the word
// array themselves. A Handle is
// safe for concurrent Contains/BatchContains; Insert/BatchInsert must be
// externally synchronized against any concurrent Insert or Contains
// (the same data race contract the teacher's data-parallel kernels
// carry).
type Handle struct {
	cfg    Config
	impl   prober
	engine *probe.Engine
	hasher keyhash.Hasher
}

// Construct validates cfg, sizes and allocates backing storage, and
// returns a ready-to-use Handle.
func Construct(cfg Config) (*Handle, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	hasher := keyhash.Default()

	var (
		impl  prober
		shape dispatch.Shape
	)

	switch cfg.Kind {
	case KindBloom:
		blockCnt := cfg.BlockCnt
		k := cfg.K
		if blockCnt == 0 {
			var err error
			blockCnt, k, err = BitsRequired(cfg.NKeys, cfg.FPRate, cfg.WordWidth, cfg.WordsPerBlock)
			if err != nil {
				return nil, err
			}
		}
		descriptor, err := addr.New(cfg.AddrMode, blockCnt)
		if err != nil {
			return nil, &InvalidConfigError{Field: "BlockCnt", Reason: err.Error()}
		}

		shape = dispatch.Shape{WordWidth: cfg.WordWidth, WordsPerBlock: cfg.WordsPerBlock, SectorCnt: cfg.SectorCnt, K: k}
		if err := dispatch.Lookup(shape, unrollOrDefault(cfg.UnrollFactor)); err != nil {
			return nil, &UnsupportedConfigError{Detail: err.Error()}
		}

		if cfg.WordWidth == 64 {
			bi, err := newBloomImpl64(descriptor, cfg.WordsPerBlock, cfg.SectorCnt, k, hasher)
			if err != nil {
				return nil, err
			}
			impl = bi
		} else {
			bi, err := newBloomImpl32(descriptor, cfg.WordsPerBlock, cfg.SectorCnt, k, hasher)
			if err != nil {
				return nil, err
			}
			impl = bi
		}

	case KindCuckoo:
		blockCnt := cfg.BlockCnt
		if blockCnt == 0 {
			slotsPerBlock := cfg.WordsPerBlock * cfg.TagsPerBucket
			blockCnt = cuckooBlocksRequired(cfg.NKeys, slotsPerBlock)
		}
		descriptor, err := addr.New(cfg.AddrMode, blockCnt)
		if err != nil {
			return nil, &InvalidConfigError{Field: "BlockCnt", Reason: err.Error()}
		}

		shape = dispatch.Shape{WordWidth: 32, WordsPerBlock: cfg.WordsPerBlock, SectorCnt: 1, K: 2}
		if err := dispatch.Lookup(shape, unrollOrDefault(cfg.UnrollFactor)); err != nil {
			return nil, &UnsupportedConfigError{Detail: err.Error()}
		}

		ci, err := newCuckooImpl(descriptor, cfg.WordsPerBlock, cfg.TagsPerBucket, cfg.BitsPerTag, cfg.MaxKicks, hasher)
		if err != nil {
			return nil, err
		}
		impl = ci
	}

	engine, err := probe.New(unrollOrDefault(cfg.UnrollFactor), impl.contains)
	if err != nil {
		return nil, &UnsupportedConfigError{Detail: err.Error()}
	}

	return &Handle{cfg: cfg, impl: impl, engine: engine, hasher: hasher}, nil
}

func unrollOrDefault(u int) int {
	if u == 0 {
		return dispatch.DefaultUnrollFactor
	}
	return u
}

func cuckooBlocksRequired(nKeys uint64, slotsPerBlock int) uint32 {
	if slotsPerBlock < 1 {
		slotsPerBlock = 1
	}
	usable := float64(slotsPerBlock) * cuckooTargetLoadFactor
	n := float64(nKeys)
	if n == 0 {
		n = 1
	}
	blocks := n / usable
	if blocks < 1 {
		blocks = 1
	}
	return uint32(blocks + 0.999999) // ceil without importing math here
}
