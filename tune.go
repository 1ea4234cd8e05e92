package blockfilter

import (
	"github.com/shaia/blockfilter/internal/dispatch"
	"github.com/shaia/blockfilter/internal/probe"
)

// Clock abstracts a monotonic tick source for Tune, letting tests supply
// a deterministic counter instead of a wall clock.
type Clock = dispatch.Clock

// Tune measures every unroll factor the instantiation matrix supports
// for this filter's shape against keystream, using clock to time each
// run, and switches the handle's batch-probe engine to the fastest one
// found. An un-tuned filter already runs correctly at unroll factor 1
// (or whatever UnrollFactor was set to in Config); Tune only changes
// performance, never correctness (property 7).
func (h *Handle) Tune(keystream []uint32, clock Clock) error {
	shape := dispatch.Shape{
		WordWidth:     h.cfg.WordWidth,
		WordsPerBlock: h.impl.wordsPerBlock(),
		SectorCnt: func() int {
			if h.cfg.Kind == KindBloom {
				return h.cfg.SectorCnt
			}
			return 1
		}(),
		K: h.cfg.K,
	}

	tuner := dispatch.NewTuner(clock)
	best, err := tuner.Tune(shape, func(unroll int) (int64, error) {
		eng, err := probe.New(unroll, h.impl.contains)
		if err != nil {
			return 0, err
		}
		start := clock.Now()
		out := make([]uint32, len(keystream))
		eng.BatchContains(keystream, out, 0)
		return clock.Now() - start, nil
	})
	if err != nil {
		return &TuningFailedError{Detail: err.Error()}
	}

	eng, err := probe.New(best, h.impl.contains)
	if err != nil {
		return &TuningFailedError{Detail: err.Error()}
	}
	h.engine = eng
	h.cfg.UnrollFactor = best
	return nil
}
