package dispatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ ticks int64 }

func (c *fakeClock) Now() int64 {
	c.ticks++
	return c.ticks
}

func TestTunePicksFastestCandidate(t *testing.T) {
	shape := Shape{WordWidth: 64, WordsPerBlock: 8, SectorCnt: 4, K: 7}
	tuner := NewTuner(&fakeClock{})

	// Deterministic "cost" table: lower is faster. Unroll 4 wins.
	cost := map[int]int64{0: 100, 1: 50, 2: 30, 4: 10, 8: 20}
	run := func(u int) (int64, error) { return cost[u], nil }

	got, err := tuner.Tune(shape, run)
	require.NoError(t, err)
	assert.Equal(t, 4, got)
}

func TestTuneSkipsUnsupportedCandidatesViaMatrix(t *testing.T) {
	// WordsPerBlock=2 means the matrix only carries 0,1,2 for this shape.
	shape := Shape{WordWidth: 32, WordsPerBlock: 2, SectorCnt: 1, K: 1}
	tuner := NewTuner(&fakeClock{})

	seen := map[int]bool{}
	run := func(u int) (int64, error) {
		seen[u] = true
		return int64(10 - u), nil
	}

	_, err := tuner.Tune(shape, run)
	require.NoError(t, err)
	assert.False(t, seen[4], "unroll 4 is wider than the block and must not be probed")
	assert.False(t, seen[8])
}

func TestTuneFailsWhenEveryRunErrors(t *testing.T) {
	shape := Shape{WordWidth: 64, WordsPerBlock: 8, SectorCnt: 4, K: 7}
	tuner := NewTuner(&fakeClock{})

	run := func(u int) (int64, error) { return 0, assert.AnError }
	_, err := tuner.Tune(shape, run)
	require.Error(t, err)
	var failed *TuningFailedError
	assert.ErrorAs(t, err, &failed)
}

func TestSuggestReturnsUntunedDefault(t *testing.T) {
	assert.Equal(t, 1, Suggest(Shape{WordWidth: 64, WordsPerBlock: 16, SectorCnt: 1, K: 3}))
}
