package cuckooblock

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewValidation(t *testing.T) {
	_, err := New(0, 4, 8, DefaultMaxKicks)
	require.Error(t, err)
	_, err = New(4, 0, 8, DefaultMaxKicks)
	require.Error(t, err)
	_, err = New(4, 4, 0, DefaultMaxKicks)
	require.Error(t, err)
	_, err = New(4, 4, 33, DefaultMaxKicks)
	require.Error(t, err)

	k, err := New(4, 4, 8, DefaultMaxKicks)
	require.NoError(t, err)
	assert.Equal(t, 16, k.SlotCount())
}

func TestFingerprintNeverZero(t *testing.T) {
	k, err := New(4, 4, 4, DefaultMaxKicks) // tagMask = 0xf
	require.NoError(t, err)
	for _, h := range []uint32{0, 16, 32, 0xfffffff0} {
		assert.NotEqual(t, uint32(0), k.Fingerprint(h))
	}
}

func TestInsertThenContains(t *testing.T) {
	k, err := New(8, 4, 8, DefaultMaxKicks)
	require.NoError(t, err)
	block := make([]uint32, k.SlotCount())

	for key := uint32(0); key < 20; key++ {
		fp := k.Fingerprint(key*2654435761 + 1)
		b1 := k.Bucket1(key)
		b2 := k.Bucket2(b1, fp)
		ok := k.Insert(block, b1, b2, fp)
		require.True(t, ok, "insert should succeed while well under capacity")
		assert.True(t, k.Contains(block, b1, b2, fp))
	}
}

func TestDeleteRemovesMembership(t *testing.T) {
	k, err := New(4, 4, 8, DefaultMaxKicks)
	require.NoError(t, err)
	block := make([]uint32, k.SlotCount())

	fp := k.Fingerprint(12345)
	b1 := k.Bucket1(99)
	b2 := k.Bucket2(b1, fp)
	require.True(t, k.Insert(block, b1, b2, fp))
	require.True(t, k.Contains(block, b1, b2, fp))

	assert.True(t, k.Delete(block, b1, b2, fp))
	assert.False(t, k.Contains(block, b1, b2, fp))
}

func TestBucket2IsInvolutionOfBucket1(t *testing.T) {
	k, err := New(16, 4, 8, DefaultMaxKicks)
	require.NoError(t, err)
	fp := k.Fingerprint(777)
	b1 := k.Bucket1(42)
	b2 := k.Bucket2(b1, fp)
	// Partial-key cuckoo hashing requires bucket2(bucket1) == bucket1
	// recovered via bucket2 applied again (XOR is its own inverse).
	assert.Equal(t, b1, k.Bucket2(b2, fp))
}

func TestInsertFailsWhenFull(t *testing.T) {
	k, err := New(1, 2, 8, DefaultMaxKicks) // 2 slots total, force quick saturation with distinct fingerprints
	require.NoError(t, err)
	block := make([]uint32, k.SlotCount())

	ok1 := k.Insert(block, 0, 0, 11)
	ok2 := k.Insert(block, 0, 0, 22)
	require.True(t, ok1)
	require.True(t, ok2)

	// A third, distinct fingerprint has nowhere to go: both candidate
	// buckets collapse to bucket 0 since there is only one bucket.
	ok3 := k.Insert(block, 0, 0, 33)
	assert.False(t, ok3)
}

func TestMaxKicksBoundsEvictionChain(t *testing.T) {
	// A single bucket with 2 slots and maxKicks=1 must fail after a single
	// eviction once both slots are occupied: bucket1 == bucket2 here, so
	// no kick can ever find a free slot.
	k, err := New(1, 2, 8, 1)
	require.NoError(t, err)
	block := make([]uint32, k.SlotCount())

	require.True(t, k.Insert(block, 0, 0, 11))
	require.True(t, k.Insert(block, 0, 0, 22))
	assert.False(t, k.Insert(block, 0, 0, 33))
}

func TestNewDefaultsNonPositiveMaxKicks(t *testing.T) {
	k, err := New(4, 4, 8, 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultMaxKicks, k.maxKicks)
}

func TestLoadFactor(t *testing.T) {
	k, err := New(2, 2, 8, DefaultMaxKicks)
	require.NoError(t, err)
	block := make([]uint32, k.SlotCount())
	assert.Equal(t, 0.0, k.LoadFactor(block))

	require.True(t, k.Insert(block, 0, 1, 5))
	assert.InDelta(t, 0.25, k.LoadFactor(block), 1e-9)
}
