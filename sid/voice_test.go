package resid

import "testing"

// TestVoiceSilentAtReset checks that a freshly reset voice contributes
// nothing to the mix: the envelope counter starts at 0 regardless of the
// waveform generator's state, and (wave-wave_zero)*0 is always 0.
func TestVoiceSilentAtReset(t *testing.T) {
	v := NewVoice()
	v.Wave.freq = 0x1234
	v.Wave.waveform = 0x2 // sawtooth, non-zero output

	if got := v.Output(); got != 0 {
		t.Errorf("Output() = %d at reset, want 0 (envelope has not been gated on)", got)
	}
}

// TestVoiceMuteOverridesOutput checks that Mute silences a voice
// regardless of the envelope/waveform state underneath it.
func TestVoiceMuteOverridesOutput(t *testing.T) {
	v := NewVoice()
	v.Wave.freq = 0x1234
	v.Wave.waveform = 0x2
	v.Envelope.WriteATTACK_DECAY(0x00)
	v.Envelope.WriteCONTROL_REG(0x01)
	v.Envelope.Clock(CycleCount(9 * 255)) // envelope_counter -> 0xff

	if v.Output() == 0 {
		t.Fatalf("test setup: voice should be audible before muting")
	}

	v.Mute(true)
	if got := v.Output(); got != 0 {
		t.Errorf("Output() = %d while muted, want 0", got)
	}

	v.Mute(false)
	if v.Output() == 0 {
		t.Errorf("Output() = 0 after unmuting, want the pre-mute value back")
	}
}

// TestVoiceSetModelSwapsDACTables checks that switching chip models
// rebuilds distinct waveform and envelope DAC tables, since the 6581's
// unterminated bit-0 resistor and the 8580's terminated one produce
// different ladder voltages.
func TestVoiceSetModelSwapsDACTables(t *testing.T) {
	// Full scale (all bits set) is normalized to the same value on both
	// ladders by construction; bit 0 alone is where the unterminated
	// 6581 ladder's mismatch actually shows up.
	v := NewVoice()
	v.SetModel(MOS6581)
	bit0at6581 := v.wave_dac[1]

	v.SetModel(MOS8580)
	bit0at8580 := v.wave_dac[1]

	if bit0at6581 == bit0at8580 {
		t.Errorf("wave_dac[1] identical (%d) across MOS6581 and MOS8580, want distinct ladder voltages", bit0at6581)
	}

	if v.wave_zero != sound_sample(v.wave_dac[0x800]) {
		t.Errorf("wave_zero = %d, want wave_dac[0x800] = %d", v.wave_zero, v.wave_dac[0x800])
	}
}
