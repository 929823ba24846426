package resid

import "math"

// BuildDAC computes the output table for an R-2R ladder DAC of the given
// bit width.
//
// The MOS 6581 DACs are missing the termination resistor at bit 0
// ("terminated=false"), which causes the well known discontinuities in the
// lower 4-5 bits; the MOS 8580 DACs are correctly terminated
// ("terminated=true") and close to ideal. twoRdivR is the measured 2R/R
// ratio of the ladder (6581 ~2.20, 8580 ~2.00).
//
// Ported from the bit-superposition algorithm in reSID's dac.h: first the
// voltage contribution of each individual bit is found by repeated
// source-transformation of the ladder's "tail" resistance, then the output
// for every one of the 2^bits input combinations is found by summing the
// contributing bit voltages. The sums are scaled by the all-ones sum, so the
// all-ones input maps to 2^bits-1 for both ladder types.
func BuildDAC(bits int, twoRdivR float64, terminated bool) []uint16 {
	vbit := make([]float64, bits)

	for setBit := 0; setBit < bits; setBit++ {
		bit := 0

		Vn := 1.0
		R := 1.0
		twoR := twoRdivR * R
		var Rn float64
		if terminated {
			Rn = twoR
		} else {
			Rn = math.Inf(1)
		}

		for ; bit < setBit; bit++ {
			if math.IsInf(Rn, 1) {
				Rn = R + twoR
			} else {
				Rn = R + twoR*Rn/(twoR+Rn)
			}
		}

		if math.IsInf(Rn, 1) {
			Rn = twoR
		} else {
			Rn = twoR * Rn / (twoR + Rn)
			Vn = Vn * Rn / twoR
		}

		for bit++; bit < bits; bit++ {
			Rn += R
			I := Vn / Rn
			Rn = twoR * Rn / (twoR + Rn)
			Vn = Rn * I
		}

		vbit[setBit] = Vn
	}

	var vsum float64
	for _, v := range vbit {
		vsum += v
	}

	size := 1 << uint(bits)
	max := float64(size - 1)
	table := make([]uint16, size)
	for i := 0; i < size; i++ {
		x := i
		var Vo float64
		for j := 0; j < bits; j++ {
			if x&0x1 != 0 {
				Vo += vbit[j]
			}
			x >>= 1
		}
		table[i] = uint16(max*Vo/vsum + 0.5)
	}

	return table
}
