package resid

import "math"

// externalFilterCoefficients holds the fixed-point (mul, shift) pair that
// approximates 1-exp(-w0*T) for one RC stage over a span of T seconds.
// Cutoff accuracy (4 bits) is traded for filter state accuracy (27 bits),
// since w0lp and w0hp sit three orders of magnitude apart.
type externalFilterCoefficients struct {
	shiftlp, shifthp int
	mullp, mulhp     int
}

func newExternalFilterCoefficients(w0lp, w0hp, T float64) externalFilterCoefficients {
	shiftlp := int(math.Log2(15.0 / (1.0 - math.Exp(-w0lp*T))))
	shifthp := int(math.Log2(15.0 / (1.0 - math.Exp(-w0hp*T))))
	mullp := int((1.0-math.Exp(-w0lp*T))*float64(int(1)<<uint(shiftlp)) + 0.5)
	mulhp := int((1.0-math.Exp(-w0hp*T))*float64(int(1)<<uint(shifthp)) + 0.5)
	return externalFilterCoefficients{shiftlp, shifthp, mullp, mulhp}
}

const (
	// w0lp = 1/(R8*C74) = 1/(10e3*1e-9), w0hp = 1/(Rload*C77) = 1/(1e3*10e-6).
	extW0lp = 1.0 / (10e3 * 1e-9)
	extW0hp = 1.0 / (1e3 * 10e-6)
	// Assume a 1MHz clock.
	extT = 1.0 / 1e6
	// MAX_CYCLES is the widest delta_t the multi-cycle coefficients stay
	// accurate for; below this, clock one cycle at a time with extCoeffT1.
	extMaxCycles CycleCount = 10
)

var (
	extCoeffT1   = newExternalFilterCoefficients(extW0lp, extW0hp, extT)
	extCoeffTmax = newExternalFilterCoefficients(extW0lp, extW0hp, float64(extMaxCycles)*extT)
)

// ExternalFilter models the two cascaded first-order RC stages following
// the SID's audio output pin on a C64 mainboard: a 16kHz low-pass followed
// by a 16Hz high-pass, connected through an emitter-follower buffer that is
// modeled as unity gain.
type ExternalFilter struct {
	enabled bool

	// Filter states (27 bits).
	vlp, vhp sound_sample
}

func NewExternalFilter() *ExternalFilter {
	f := &ExternalFilter{}
	f.EnableFilter(true)
	f.Reset()
	return f
}

func (f *ExternalFilter) Reset() {
	f.vlp = 0
	f.vhp = 0
}

func (f *ExternalFilter) EnableFilter(enable bool) {
	f.enabled = enable
}

// clock1 advances the filter state by exactly one cycle.
func (f *ExternalFilter) clock1(vi sound_sample) {
	if !f.enabled {
		f.vlp = vi << 11
		f.vhp = 0
		return
	}

	f.vhp += sound_sample(extCoeffT1.mulhp) * (f.vlp - f.vhp) >> uint(extCoeffT1.shifthp)
	f.vlp += sound_sample(extCoeffT1.mullp) * ((vi << 11) - f.vlp) >> uint(extCoeffT1.shiftlp)
}

// Clock advances the filter state by delta_t cycles, stepping extMaxCycles
// at a time while a whole multi-cycle span remains, then one cycle at a
// time for the rest.
func (f *ExternalFilter) Clock(delta_t CycleCount, vi sound_sample) {
	if !f.enabled {
		f.vlp = vi << 11
		f.vhp = 0
		return
	}

	for delta_t != 0 {
		if delta_t < extMaxCycles {
			for ; delta_t != 0; delta_t-- {
				f.clock1(vi)
			}
			break
		}

		f.vhp += sound_sample(extCoeffTmax.mulhp) * (f.vlp - f.vhp) >> uint(extCoeffTmax.shifthp)
		f.vlp += sound_sample(extCoeffTmax.mullp) * ((vi << 11) - f.vlp) >> uint(extCoeffTmax.shiftlp)

		delta_t -= extMaxCycles
	}
}

// Output returns the audio output, shifted down 11 bits from the 27-bit
// internal filter state. The result is not clamped to 16 bits.
func (f *ExternalFilter) Output() sound_sample {
	return (f.vlp - f.vhp) >> 11
}
