// Package cpufeature reports the SIMD-relevant CPU features available on
// the current machine, using the portable golang.org/x/sys/cpu detector in
// place of the hand-rolled per-arch cpuid probing the teacher library
// used to carry (see DESIGN.md). It is informational only: Construct,
// the dispatcher and Tune do not read it (the example program prints
// it), so it reports what the hardware *could* do; the probe kernels themselves are
// portable Go and behave identically regardless of what this package
// reports (property 7, dispatcher consistency).
package cpufeature

import (
	"runtime"

	"golang.org/x/sys/cpu"
)

// HasAVX2 reports whether the current amd64 CPU supports AVX2.
func HasAVX2() bool {
	return runtime.GOARCH == "amd64" && cpu.X86.HasAVX2
}

// HasNEON reports whether the current arm64 CPU supports NEON. All arm64
// CPUs implement NEON per the ARMv8 spec, so this is true whenever we are
// running on arm64.
func HasNEON() bool {
	return runtime.GOARCH == "arm64" && cpu.ARM64.HasASIMD
}

// HasAny reports whether any recognized SIMD feature is available.
func HasAny() bool {
	return HasAVX2() || HasNEON()
}

// SuggestedUnroll returns a default unroll factor for a config before it
// has been tuned, biased by what the hardware advertises. This is a
// heuristic starting point only -- Tune always takes precedence once run,
// and an un-tuned filter is fully functional at unroll factor 1.
func SuggestedUnroll() int {
	switch {
	case HasAVX2():
		return 4
	case HasNEON():
		return 2
	default:
		return 1
	}
}
