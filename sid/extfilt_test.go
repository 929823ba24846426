package resid

import "testing"

// TestExternalFilterRemovesDC reproduces scenario S6: a constant input held
// long enough for both RC stages to settle must leave the output near
// zero, since the high-pass stage strips any steady DC component.
func TestExternalFilterRemovesDC(t *testing.T) {
	f := NewExternalFilter()

	f.Clock(1_000_000, 0x4000)

	if out := f.Output(); out < -4 || out > 4 {
		t.Errorf("Output() = %d after settling on constant input, want within +/-4 of 0", out)
	}
}

func TestExternalFilterDisabledPassesInputThrough(t *testing.T) {
	f := NewExternalFilter()
	f.EnableFilter(false)

	f.Clock(1, 0x1234)

	want := sound_sample(0x1234)
	if got := f.Output(); got != want {
		t.Errorf("Output() = %#x with filter disabled, want %#x", got, want)
	}
}
