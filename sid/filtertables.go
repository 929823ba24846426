package resid

import "math"

// filter6581 and filter8580 map the 11-bit filter cutoff register value
// (0..2047) to a cutoff frequency in Hz, indexed directly by SidFilter.Fc.
//
// The real reSID engine fills these from cutoff frequencies measured off
// actual 6581/8580 silicon -- a non-linear curve with chip-specific kinks
// that no closed-form expression reproduces exactly. That measurement data
// isn't available here, so these tables are generated at init time from a
// smooth monotonic approximation instead: an exponential sweep between the
// chip's documented low and high cutoff bounds, with the sweep position
// raised to a per-chip power that makes the low end of the range steeper
// (6581) or flatter (8580). The curve has no S-shape: it does not flatten
// out at the top of the range. See DESIGN.md.
var (
	filter6581 []int16
	filter8580 []int16
)

func init() {
	filter6581 = buildCutoffTable(220.0, 10000.0, 0.7)
	filter8580 = buildCutoffTable(30.0, 12500.0, 1.3)
}

// buildCutoffTable sweeps fcMin..fcMax across the 2048 possible Fc values
// using an exponential curve whose position is raised to shape, which makes
// the low end of the range steeper (shape < 1) or flatter (shape > 1) than
// a plain exponential sweep.
func buildCutoffTable(fcMin, fcMax, shape float64) []int16 {
	const n = 2048
	t := make([]int16, n)
	logMin := math.Log(fcMin)
	logMax := math.Log(fcMax)
	for i := 0; i < n; i++ {
		x := math.Pow(float64(i)/float64(n-1), shape)
		hz := math.Exp(logMin + x*(logMax-logMin))
		t[i] = int16(math.Round(hz))
	}
	return t
}
