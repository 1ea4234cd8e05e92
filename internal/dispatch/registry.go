// Package dispatch implements the precompiled instantiation matrix
// (C5): the lookup that decides whether a given (block shape, unroll
// factor) combination has a compiled probe kernel available, and the
// tuner that picks the fastest available unroll factor for a shape.
// This mirrors blocked_bloomfilter_tune.hpp's get_unroll_factor /
// set_unroll_factor contract: tuning is an optimization layered on top
// of a filter that is already fully functional at unroll factor 1.
package dispatch

import "fmt"

// Shape identifies a block kernel instantiation independent of which
// filter kind (Bloom or cuckoo) it backs.
type Shape struct {
	WordWidth     int
	WordsPerBlock int
	SectorCnt     int
	K             int
}

// UnsupportedConfigError reports that the instantiation matrix has no
// compiled kernel for the requested (shape, unroll) pair.
type UnsupportedConfigError struct {
	Shape  Shape
	Unroll int
	Reason string
}

func (e *UnsupportedConfigError) Error() string {
	return fmt.Sprintf("dispatch: no compiled kernel for shape %+v at unroll=%d: %s", e.Shape, e.Unroll, e.Reason)
}

// supportedUnrolls is the full set of unroll factors the probe engine
// understands at all; Lookup narrows this further per shape.
var supportedUnrolls = map[int]bool{0: true, 1: true, 2: true, 4: true, 8: true}

// Lookup reports whether the instantiation matrix carries a compiled
// kernel for shape at the given unroll factor. The matrix is
// deliberately incomplete: an unroll factor wider than the block itself
// has no instantiation, since there would be nothing for the extra
// lanes to do. Construct rejects a config that hits a gap with an
// UnsupportedConfigError; Tune only tries the factors SupportedUnrolls
// lists.
func Lookup(shape Shape, unroll int) error {
	if !supportedUnrolls[unroll] {
		return &UnsupportedConfigError{Shape: shape, Unroll: unroll, Reason: "not one of 0,1,2,4,8"}
	}
	if unroll > shape.WordsPerBlock {
		return &UnsupportedConfigError{
			Shape:  shape,
			Unroll: unroll,
			Reason: fmt.Sprintf("unroll factor exceeds words per block (%d)", shape.WordsPerBlock),
		}
	}
	return nil
}

// SupportedUnrolls returns, in ascending order, every unroll factor the
// matrix carries a compiled kernel for at the given shape. It always
// includes at least 1 for any valid shape (WordsPerBlock >= 1).
func SupportedUnrolls(shape Shape) []int {
	var out []int
	for _, u := range []int{0, 1, 2, 4, 8} {
		if Lookup(shape, u) == nil {
			out = append(out, u)
		}
	}
	return out
}
