package blockfilter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructBloomAndRoundTrip(t *testing.T) {
	h, err := Construct(validBloomConfig())
	require.NoError(t, err)
	require.Equal(t, KindBloom, h.Kind())

	keys := make([]uint32, 2000)
	for i := range keys {
		keys[i] = uint32(i * 104729)
	}
	h.BatchInsert(keys)

	for _, k := range keys {
		assert.True(t, h.Contains(k), "inserted key must never be reported absent")
	}
}

func TestConstructCuckooAndRoundTrip(t *testing.T) {
	h, err := Construct(validCuckooConfig())
	require.NoError(t, err)
	require.Equal(t, KindCuckoo, h.Kind())

	keys := make([]uint32, 500)
	for i := range keys {
		keys[i] = uint32(i*2654435761 + 17)
	}
	for _, k := range keys {
		require.NoError(t, h.InsertChecked(k))
	}
	for _, k := range keys {
		assert.True(t, h.Contains(k))
	}
}

func TestBatchContainsReturnsOnlyMatches(t *testing.T) {
	h, err := Construct(validBloomConfig())
	require.NoError(t, err)

	present := []uint32{1, 2, 3, 4, 5}
	h.BatchInsert(present)

	probe := append(append([]uint32{}, present...), 1000001, 1000002)
	got := h.BatchContains(probe)

	for _, p := range present {
		assert.Contains(t, got, p)
	}
}

func TestBatchContainsAtReportsOffsetPositions(t *testing.T) {
	h, err := Construct(validBloomConfig())
	require.NoError(t, err)

	present := []uint32{1, 2, 3, 4, 5}
	h.BatchInsert(present)

	probe := append(append([]uint32{}, present...), 1000001, 1000002)
	const outOffset = 100
	out := make([]uint32, len(probe))
	n := h.BatchContainsAt(probe, out, outOffset)
	require.Equal(t, len(present), n)

	for i := 0; i < n; i++ {
		pos := int(out[i]) - outOffset
		assert.Contains(t, present, probe[pos])
	}
}

func TestCuckooDeleteRemovesMembership(t *testing.T) {
	h, err := Construct(validCuckooConfig())
	require.NoError(t, err)

	require.NoError(t, h.InsertChecked(42))
	require.True(t, h.Contains(42))
	assert.True(t, h.Delete(42))
}

func TestDeleteOnBloomIsNoop(t *testing.T) {
	h, err := Construct(validBloomConfig())
	require.NoError(t, err)
	assert.False(t, h.Delete(1))
}

func TestBloomBonusOpsRequire64Bit(t *testing.T) {
	cfg := validBloomConfig()
	cfg.WordWidth = 32
	h, err := Construct(cfg)
	require.NoError(t, err)

	_, err = h.PopCount()
	assert.Error(t, err)
}

func TestBloomUnionAndPopCount(t *testing.T) {
	cfg := validBloomConfig()
	a, err := Construct(cfg)
	require.NoError(t, err)
	b, err := Construct(cfg)
	require.NoError(t, err)

	a.Insert(10)
	b.Insert(20)

	before, err := a.PopCount()
	require.NoError(t, err)

	require.NoError(t, a.Union(b))
	assert.True(t, a.Contains(20))

	after, err := a.PopCount()
	require.NoError(t, err)
	assert.GreaterOrEqual(t, after, before)
}

func TestConstructHonorsCustomMaxKicks(t *testing.T) {
	cfg := validCuckooConfig()
	cfg.BlockCnt = 1
	cfg.WordsPerBlock = 1
	cfg.TagsPerBucket = 2
	cfg.MaxKicks = 1
	h, err := Construct(cfg)
	require.NoError(t, err)

	require.NoError(t, h.InsertChecked(11))
	require.NoError(t, h.InsertChecked(22))
	// Both candidate buckets collapse to bucket 0 (one bucket per block),
	// so a third distinct key needs an eviction chain; MaxKicks=1 should
	// make that fail rather than silently keep kicking.
	err = h.InsertChecked(33)
	assert.Error(t, err)
}

func TestConstructRejectsUnsupportedUnroll(t *testing.T) {
	cfg := validBloomConfig()
	cfg.WordsPerBlock = 1 // unroll 8 cannot exceed 1 word per block
	cfg.SectorCnt = 1
	cfg.K = 1
	cfg.UnrollFactor = 8
	_, err := Construct(cfg)
	require.Error(t, err)
}
