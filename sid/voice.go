package resid

// Voice combines one WaveformGenerator and one EnvelopeGenerator into the
// 20-bit signed sample the filter and mixer see: (wave - 0x800) * env,
// passed through the model-specific waveform/envelope DACs.
type Voice struct {
	Wave     *WaveformGenerator
	Envelope *EnvelopeGenerator

	wave_zero    sound_sample
	wave_dac     []uint16
	envelope_dac []uint16

	muted bool
}

func NewVoice() *Voice {
	v := &Voice{
		Wave:     NewWaveformGenerator(),
		Envelope: NewEnvelopeGenerator(),
	}
	v.SetModel(MOS6581)
	return v
}

func (v *Voice) Reset() {
	v.Wave.Reset()
	v.Envelope.Reset()
	v.muted = false
}

// SetSyncSource wires this voice's waveform generator to synchronize from
// source's waveform generator, forming the three-voice sync ring.
func (v *Voice) SetSyncSource(source *Voice) {
	v.Wave.SetSyncSource(source.Wave)
}

func (v *Voice) SetModel(model Model) {
	v.Wave.SetModel(model)

	if model == MOS6581 {
		// 6581 DACs are missing the bit-0 termination resistor; the ladder
		// mismatch is baked into the lookup table rather than modeled
		// transistor-by-transistor.
		v.wave_dac = BuildDAC(12, 2.20, false)
		v.envelope_dac = BuildDAC(8, 2.20, false)
	} else {
		v.wave_dac = BuildDAC(12, 2.00, true)
		v.envelope_dac = BuildDAC(8, 2.00, true)
	}

	// wave_zero is the DAC's output for the waveform generator's mid-scale
	// value; subtracting it (instead of a plain 0x800) carries the 6581
	// ladder's bit-0-termination mismatch into the AC-coupled sample.
	v.wave_zero = sound_sample(v.wave_dac[0x800])
}

func (v *Voice) Mute(mute bool) {
	v.muted = mute
}

// WriteCONTROL_REG dispatches the shared voice CONTROL byte: the waveform
// bits go to the waveform generator, the gate bit to the envelope
// generator.
func (v *Voice) WriteCONTROL_REG(control reg8) {
	v.Wave.WriteCONTROL_REG(control)
	v.Envelope.WriteCONTROL_REG(control)
}

// Output returns the signed 20-bit mixed sample for this voice.
func (v *Voice) Output() sound_sample {
	if v.muted {
		return 0
	}

	wave := sound_sample(v.wave_dac[v.Wave.Output()])
	env := sound_sample(v.envelope_dac[v.Envelope.Output()])

	return (wave - v.wave_zero) * env
}
