package dispatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupRejectsUnknownUnroll(t *testing.T) {
	err := Lookup(Shape{WordWidth: 64, WordsPerBlock: 8, SectorCnt: 4, K: 7}, 3)
	require.Error(t, err)
	var unsupported *UnsupportedConfigError
	assert.ErrorAs(t, err, &unsupported)
}

func TestLookupRejectsUnrollWiderThanBlock(t *testing.T) {
	err := Lookup(Shape{WordWidth: 32, WordsPerBlock: 2, SectorCnt: 1, K: 1}, 8)
	require.Error(t, err)
}

func TestLookupAcceptsUnrollOneForAnyShape(t *testing.T) {
	err := Lookup(Shape{WordWidth: 32, WordsPerBlock: 1, SectorCnt: 1, K: 1}, 1)
	assert.NoError(t, err)
}

func TestSupportedUnrollsAlwaysIncludesOne(t *testing.T) {
	got := SupportedUnrolls(Shape{WordWidth: 32, WordsPerBlock: 1, SectorCnt: 1, K: 1})
	assert.Contains(t, got, 1)
}

func TestSupportedUnrollsScalesWithBlockWidth(t *testing.T) {
	got := SupportedUnrolls(Shape{WordWidth: 64, WordsPerBlock: 16, SectorCnt: 4, K: 7})
	assert.Equal(t, []int{0, 1, 2, 4, 8}, got)
}
