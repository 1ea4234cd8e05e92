// Package probe implements the branchless batch-probe engine (C4): given
// a single-key containment test, it evaluates a slice of keys and
// compacts the indices of the keys that hit into an output slice without
// a per-key conditional branch, processing fixed 16-key mini-batches with
// a scalar tail for the remainder. This mirrors
// blocked_cuckoofilter::batch_contains's mini_batch_size = 16 structure
// and its match_writer += is_contained pointer-advance idiom.
package probe

// ContainsFunc tests a single key against an already-constructed filter.
type ContainsFunc func(key uint32) bool

// miniBatchSize is the fixed granularity batch_contains partitions work
// into, regardless of unroll factor: large enough to amortize dispatch,
// small enough to keep per-batch state in registers.
const miniBatchSize = 16

// Engine runs ContainsFunc over batches of keys using a given unroll
// factor. Every unroll factor in {0,1,2,4,8} produces byte-identical
// output for the same keys and ContainsFunc: the factor only changes how
// the inner loop is shaped, never what it computes (dispatcher
// consistency). Zero means "untuned", and is treated the same as 1.
type Engine struct {
	unroll int
	fn     ContainsFunc
}

// New builds an Engine for the given ContainsFunc and unroll factor. The
// factor must be one of 0, 1, 2, 4, 8.
func New(unroll int, fn ContainsFunc) (*Engine, error) {
	switch unroll {
	case 0, 1, 2, 4, 8:
	default:
		return nil, unsupportedUnrollError(unroll)
	}
	return &Engine{unroll: unroll, fn: fn}, nil
}

// UnrollFactor returns the engine's configured factor.
func (e *Engine) UnrollFactor() int { return e.unroll }

// BatchContains evaluates every key in keys and writes the positions
// (into keys, plus outOffset) of the ones the filter reports present into
// out, which must have capacity >= len(keys). It returns the number of
// positions written. This mirrors blocked_cuckoofilter::batch_contains's
// (data, keys, out, offset) -> match count signature, where offset lets a
// caller probing successive chunks of a larger keystream write into one
// shared out array without post-hoc index arithmetic.
func (e *Engine) BatchContains(keys []uint32, out []uint32, outOffset int) int {
	if len(keys) == 0 {
		return 0
	}
	writer := 0
	idx := 0
	step := e.step()

	for idx+miniBatchSize <= len(keys) {
		writer = e.miniBatch(keys[idx:idx+miniBatchSize], idx, outOffset, out, writer, step)
		idx += miniBatchSize
	}
	// Scalar tail: whatever doesn't fill a full mini-batch.
	for ; idx < len(keys); idx++ {
		out[writer] = uint32(outOffset + idx)
		writer += b2i(e.fn(keys[idx]))
	}
	return writer
}

// step maps the unroll factor to an inner grouping width; 0 behaves as 1.
func (e *Engine) step() int {
	if e.unroll == 0 {
		return 1
	}
	return e.unroll
}

// miniBatch processes exactly miniBatchSize keys (chunk), grouped into
// runs of `step` at a time to mirror a SIMD-unrolled kernel's lane width,
// using the branchless accumulate-then-advance write: every slot in out
// is written unconditionally, and the writer cursor only advances on a
// hit, so a miss is silently overwritten by the next key's index. idx is
// chunk's starting index into the original keys slice; outOffset shifts
// every written position by a caller-supplied base.
func (e *Engine) miniBatch(chunk []uint32, idx, outOffset int, out []uint32, writer, step int) int {
	for i := 0; i < len(chunk); i += step {
		end := i + step
		if end > len(chunk) {
			end = len(chunk)
		}
		for j := i; j < end; j++ {
			out[writer] = uint32(outOffset + idx + j)
			writer += b2i(e.fn(chunk[j]))
		}
	}
	return writer
}

// b2i converts a bool to 0/1 without a branch, matching
// match_writer += is_contained from blocked_cuckoofilter::batch_contains.
func b2i(b bool) int {
	if b {
		return 1
	}
	return 0
}

type unsupportedUnrollError int

func (e unsupportedUnrollError) Error() string {
	return "probe: unsupported unroll factor (must be 0, 1, 2, 4, or 8)"
}
