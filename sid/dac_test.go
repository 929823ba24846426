package resid

import "testing"

func TestBuildDACBinaryWeightedAndBounded(t *testing.T) {
	for _, tc := range []struct {
		name        string
		bits        int
		twoRdivR    float64
		terminated  bool
	}{
		{"6581-12bit", 12, 2.20, false},
		{"8580-12bit", 12, 2.00, true},
		{"6581-8bit", 8, 2.20, false},
		{"8580-8bit", 8, 2.00, true},
	} {
		t.Run(tc.name, func(t *testing.T) {
			table := BuildDAC(tc.bits, tc.twoRdivR, tc.terminated)
			size := 1 << uint(tc.bits)

			if len(table) != size {
				t.Fatalf("len(table) = %d, want %d", len(table), size)
			}
			if table[0] != 0 {
				t.Errorf("table[0] = %d, want 0", table[0])
			}

			max := uint16((1 << uint(tc.bits)) - 1)
			if table[size-1] != max {
				t.Errorf("table[size-1] = %d, want %d (all-ones input at full scale)", table[size-1], max)
			}

			// Each more significant bit must contribute more voltage on its
			// own than the next bit down, the basic binary-weighting
			// invariant of an R-2R ladder.
			prev := uint16(0)
			for bit := 0; bit < tc.bits; bit++ {
				v := table[1<<uint(bit)]
				if v <= prev {
					t.Errorf("bit %d alone (table[%#x]=%d) does not exceed bit %d alone (%d)",
						bit, 1<<uint(bit), v, bit-1, prev)
				}
				prev = v
			}
		})
	}
}
