// Package resample adapts the SID core's ~1MHz cycle clock down to a host
// audio sample rate. The core engine only knows how to advance by whole
// cycles and read back the current output level; turning that into an
// evenly spaced sample stream at an arbitrary rate is this package's job.
package resample

import (
	sid "github.com/beachviking/resid-core/sid"
)

// Method selects how a sample is derived once the accumulated cycle offset
// crosses a sample boundary.
type Method int

const (
	// Fast takes the chip's output at the cycle the boundary was crossed.
	Fast Method = iota
	// Interpolate blends that output with the previous sample, smoothing
	// out the aliasing nearest-neighbor resampling introduces at low
	// output rates.
	Interpolate
)

// Resampler tracks fractional cycles-per-sample with a 16.16 fixed-point
// accumulator, the same scheme the core engine itself used before this
// concern was pulled out into its own collaborator.
type Resampler struct {
	chip   *sid.Sid
	method Method

	cyclesPerSample sid.CycleCount
	sampleOffset    sid.CycleCount
	prevSample      int
}

// New builds a Resampler driving chip, converting from clockFreq (Hz, the
// emulated chip's clock) to sampleFreq (Hz, the host output rate).
func New(chip *sid.Sid, clockFreq, sampleFreq float64, method Method) *Resampler {
	return &Resampler{
		chip:            chip,
		method:          method,
		cyclesPerSample: sid.CycleCount(clockFreq/sampleFreq*65536.0 + 0.5),
	}
}

// Resample clocks the chip through n cycles total, returning one output
// sample for every cyclesPerSample cycles consumed. Cycles left over at the
// end of n (not enough to complete another sample) are still applied to the
// chip and carried into the offset accumulator for the next call.
func (r *Resampler) Resample(n sid.CycleCount) []int {
	var out []int

	for n > 0 {
		cyclesToBoundary := (r.cyclesPerSample - r.sampleOffset + 0xffff) >> 16
		if cyclesToBoundary < 1 {
			cyclesToBoundary = 1
		}

		step := cyclesToBoundary
		if step > n {
			step = n
		}

		r.chip.Clock(step)
		r.sampleOffset += step << 16
		n -= step

		if r.sampleOffset < r.cyclesPerSample {
			continue
		}
		r.sampleOffset -= r.cyclesPerSample

		sample := r.chip.Output()
		if r.method == Interpolate {
			sample = (sample + r.prevSample) / 2
		}
		r.prevSample = sample
		out = append(out, sample)
	}

	return out
}

// Reset clears the fractional cycle accumulator and interpolation history,
// e.g. after the underlying chip has been reset.
func (r *Resampler) Reset() {
	r.sampleOffset = 0
	r.prevSample = 0
}
