package resid

// WaveformGenerator is the 24-bit phase accumulator, 23-bit noise LFSR, and
// waveform-select logic for one voice.
type WaveformGenerator struct {
	syncDest   *WaveformGenerator
	syncSource *WaveformGenerator
	msbRising  bool

	accumulator reg24
	shiftreg    reg24
	freq        reg16
	pw          reg12
	waveform    reg8
	test        reg8
	ringmod     reg8
	sync        reg8

	// outputFuncs mirrors reSID's output_function[] dispatch table: one
	// closure per waveform-select value, rebuilt whenever the model-
	// specific combined-waveform tables change.
	outputFuncs [16]func() reg12

	wave__ST *[]reg8
	wave_P_T *[]reg8
	wave_PS  *[]reg8
	wave_PST *[]reg8

	model Model
}

func NewWaveformGenerator() *WaveformGenerator {
	w := &WaveformGenerator{}
	w.syncSource = w
	w.SetModel(MOS6581)
	w.Reset()
	return w
}

func (w *WaveformGenerator) Reset() {
	w.accumulator = 0
	w.shiftreg = 0x7ffff8
	w.freq = 0
	w.pw = 0

	w.test = 0
	w.ringmod = 0
	w.sync = 0

	w.msbRising = false
}

func (w *WaveformGenerator) SetSyncSource(source *WaveformGenerator) {
	w.syncSource = source
	source.syncDest = w
}

func (w *WaveformGenerator) SetModel(model Model) {
	w.model = model

	if w.model == MOS6581 {
		w.wave_PS = &wave6581_PS_
		w.wave_PST = &wave6581_PST
		w.wave_P_T = &wave6581_P_T
		w.wave__ST = &wave6581__ST
	} else {
		w.wave_PS = &wave8580_PS_
		w.wave_PST = &wave8580_PST
		w.wave_P_T = &wave8580_P_T
		w.wave__ST = &wave8580__ST
	}

	w.outputFuncs = [16]func() reg12{
		0x0: w.output____,
		0x1: w.output___T,
		0x2: w.output__S_,
		0x3: w.output__ST,
		0x4: w.output_P__,
		0x5: w.output_P_T,
		0x6: w.output_PS_,
		0x7: w.output_PST,
		0x8: w.outputN___,
		0x9: w.outputNxxx,
		0xa: w.outputNxxx,
		0xb: w.outputNxxx,
		0xc: w.outputNxxx,
		0xd: w.outputNxxx,
		0xe: w.outputNxxx,
		0xf: w.outputNxxx,
	}
}

// Clock advances the accumulator by delta_t*freq, shifting the noise LFSR
// once for every 2^20 the accumulator crosses rather than stepping
// cycle-by-cycle: delta_accumulator is divided by the shift period up
// front, with a one-off correction for the boundary the division floors
// away, mirroring wave.h's clock().
func (w *WaveformGenerator) Clock(delta_t CycleCount) {
	if w.test != 0 {
		return
	}

	var deltaAccumulator reg24 = reg24(delta_t) * reg24(w.freq)
	accumulatorNext := (w.accumulator + deltaAccumulator) & 0xffffff

	const shiftPeriod reg24 = 0x100000
	shifts := deltaAccumulator / shiftPeriod
	accumulatorPrev := w.accumulator + shiftPeriod*shifts

	if (accumulatorPrev&0x080000) == 0 && (accumulatorNext&0x080000) != 0 {
		shifts++
	}

	for i := reg24(0); i < shifts; i++ {
		bit0 := ((w.shiftreg >> 22) ^ (w.shiftreg >> 17)) & 0x1
		w.shiftreg <<= 1
		w.shiftreg &= 0x7fffff
		w.shiftreg |= bit0
	}

	w.msbRising = (w.accumulator&0x800000) == 0 && (accumulatorNext&0x800000) != 0
	w.accumulator = accumulatorNext
}

// Synchronize applies hard sync: a voice with its sync bit set clears its
// own accumulator the instant its sync source's accumulator MSB rises.
// Must run after every voice in the ring has been clocked for the window,
// since the ring operates in parallel.
func (w *WaveformGenerator) Synchronize() {
	if w.sync != 0 && w.syncSource.msbRising {
		w.accumulator = 0
	}
}

func (w *WaveformGenerator) output____() reg12 {
	return 0x000
}

// Triangle: accumulator bits 22..11, all inverted while the MSB (bit 23)
// is set, which folds the ramp into a falling edge. Ring modulation
// substitutes the MSB with MSB XOR sync_source MSB before the fold.
func (w *WaveformGenerator) output___T() reg12 {
	msb := w.accumulator
	if w.ringmod != 0 {
		msb ^= w.syncSource.accumulator
	}
	msb &= 0x800000

	if msb != 0 {
		return reg12((^w.accumulator)>>11) & 0xfff
	}
	return reg12(w.accumulator>>11) & 0xfff
}

// Sawtooth: the upper 12 bits of the accumulator, unmodified.
func (w *WaveformGenerator) output__S_() reg12 {
	return reg12(w.accumulator >> 12)
}

// Pulse: the upper 12 bits of the accumulator compared against the pulse
// width register by a 12-bit digital comparator. The test bit forces the
// output high regardless of the comparison.
func (w *WaveformGenerator) output_P__() reg12 {
	if w.test != 0 || (w.accumulator>>12) >= reg24(w.pw) {
		return 0xfff
	}
	return 0x000
}

// Noise: taken from fixed bit positions of the 23-bit LFSR, clocked by
// accumulator bit 19, left-shifted 4 to fill the 12-bit waveform range.
func (w *WaveformGenerator) outputN___() reg12 {
	res := ((w.shiftreg & 0x400000) >> 11) |
		((w.shiftreg & 0x100000) >> 10) |
		((w.shiftreg & 0x010000) >> 7) |
		((w.shiftreg & 0x002000) >> 5) |
		((w.shiftreg & 0x000800) >> 4) |
		((w.shiftreg & 0x000080) >> 1) |
		((w.shiftreg & 0x000010) << 1) |
		((w.shiftreg & 0x000004) << 2)

	return reg12(res)
}

// Combined waveforms approximate the analog short-circuiting of adjacent
// output bits using table lookups keyed on the accumulator, since
// the real short-circuit behavior isn't a clean digital function. See
// wavetables.go for the table derivation.
func (w *WaveformGenerator) output__ST() reg12 {
	return reg12((*w.wave__ST)[w.output__S_()]) << 4
}

func (w *WaveformGenerator) output_P_T() reg12 {
	lut := reg12((*w.wave_P_T)[w.output___T()>>1])
	return (lut << 4) & w.output_P__()
}

func (w *WaveformGenerator) output_PS_() reg12 {
	lut := reg12((*w.wave_PS)[w.output__S_()])
	return (lut << 4) & w.output_P__()
}

func (w *WaveformGenerator) output_PST() reg12 {
	lut := reg12((*w.wave_PST)[w.output__S_()])
	return (lut << 4) & w.output_P__()
}

// Waveform combinations that include noise lock the LFSR toward all
// zeroes within a few cycles on real hardware; not modeled here, so they
// output silence like the engine this was ported from.
func (w *WaveformGenerator) outputNxxx() reg12 {
	return 0
}

// Output dispatches through outputFuncs the way reSID dispatches through
// its output_function pointer-to-member-function table.
func (w *WaveformGenerator) Output() reg12 {
	return w.outputFuncs[w.waveform]()
}

func (w *WaveformGenerator) WriteFREQ_LO(freq_lo reg8) {
	w.freq = (w.freq & 0xff00) | reg16(freq_lo&0x00ff)
}

func (w *WaveformGenerator) WriteFREQ_HI(freq_hi reg8) {
	w.freq = ((reg16(freq_hi) << 8 & 0xff00) | (w.freq & 0x00ff))
}

func (w *WaveformGenerator) WritePW_LO(pw_lo reg8) {
	w.pw = (w.pw & 0xf00) | reg12(pw_lo&0x0ff)
}

func (w *WaveformGenerator) WritePW_HI(pw_hi reg8) {
	w.pw = ((reg12(pw_hi) << 8) & 0xf00) | (w.pw & 0x0ff)
}

func (w *WaveformGenerator) WriteCONTROL_REG(control reg8) {
	w.waveform = (control >> 4) & 0x0f
	w.ringmod = control & 0x04
	w.sync = control & 0x02

	test_next := control & 0x08

	if test_next != 0 {
		// The accumulator and LFSR are both cleared while test is held.
		// On real hardware the LFSR bits fade toward zero over ~0x2000-
		// 0x4000 cycles instead of snapping to zero; not modeled.
		w.accumulator = 0
		w.shiftreg = 0
	} else if w.test != 0 {
		// Test released: the accumulator resumes counting and the LFSR
		// reloads its seed value.
		w.shiftreg = 0x7ffff8
	}

	w.test = test_next

	// The gate bit belongs to the EnvelopeGenerator, not here.
}

func (w *WaveformGenerator) readOSC() reg8 {
	return reg8(w.Output() >> 4)
}
