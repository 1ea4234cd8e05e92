package dispatch

import "fmt"

// TuningFailedError reports that no candidate unroll factor could be
// measured for a shape (the matrix carried no supported factors at all,
// which should not happen for a valid shape, or every probe run
// errored).
type TuningFailedError struct {
	Shape Shape
}

func (e *TuningFailedError) Error() string {
	return fmt.Sprintf("dispatch: tuning failed for shape %+v: no measurable candidate", e.Shape)
}

// Clock abstracts a monotonic tick source so tuning is reproducible in
// tests: production code wires in a real clock, tests wire in a counter.
type Clock interface {
	Now() int64
}

// DefaultUnrollFactor is what an un-tuned filter runs at, matching
// blocked_bloomfilter_tune.hpp's get_unroll_factor, which returns 1
// unless a subclass overrides tune_unroll_factor.
const DefaultUnrollFactor = 1

// ProbeRun measures the cost of running unroll against a fixed,
// deterministic keystream and returns an opaque duration in Clock ticks.
type ProbeRun func(unroll int) (elapsedTicks int64, err error)

// Tuner picks an unroll factor for a shape by invoking ProbeRun against
// every candidate the instantiation matrix supports for that shape and
// keeping the fastest.
type Tuner struct {
	Clock Clock
}

// NewTuner builds a Tuner. A nil Clock is valid only if Tune is never
// called with a ProbeRun that reads it.
func NewTuner(clock Clock) *Tuner {
	return &Tuner{Clock: clock}
}

// Tune measures every unroll factor the matrix supports for shape via
// run and returns the fastest one. Candidates the matrix does not
// support for shape are skipped rather than attempted, and so are
// candidates whose run returns an error. If run errors for every
// candidate, Tune returns 0 and a TuningFailedError.
func (t *Tuner) Tune(shape Shape, run ProbeRun) (int, error) {
	candidates := SupportedUnrolls(shape)
	if len(candidates) == 0 {
		return 0, &TuningFailedError{Shape: shape}
	}

	best := -1
	var bestTicks int64
	for _, u := range candidates {
		ticks, err := run(u)
		if err != nil {
			continue
		}
		if best == -1 || ticks < bestTicks {
			best = u
			bestTicks = ticks
		}
	}
	if best == -1 {
		return 0, &TuningFailedError{Shape: shape}
	}
	return best, nil
}

// Suggest returns the untuned default, mirroring
// blocked_bloomfilter_tune.hpp's base-class behavior: an unroll factor
// of 1 always works, and tuning is purely an optimization on top of it.
func Suggest(Shape) int {
	return DefaultUnrollFactor
}
