package resid

// State is one of the three ADSR envelope phases.
type State int

const (
	ATTACK State = iota
	DECAY_SUSTAIN
	RELEASE
)

// EnvelopeGenerator implements the 8-bit ADSR envelope counter driven by a
// 15-bit rate divider and a piecewise-exponential sub-divider.
type EnvelopeGenerator struct {
	rate_counter        reg16
	exponential_counter reg16
	envelope_counter    reg8

	attack  reg4
	decay   reg4
	sustain reg4
	release reg4

	gate reg8

	state State
}

func NewEnvelopeGenerator() *EnvelopeGenerator {
	e := &EnvelopeGenerator{}
	e.Reset()
	return e
}

func (e *EnvelopeGenerator) Reset() {
	e.envelope_counter = 0
	e.attack = 0
	e.decay = 0
	e.sustain = 0
	e.release = 0
	e.gate = 0
	e.rate_counter = 0
	e.exponential_counter = 0
	e.state = RELEASE
}

// rate_counter_period maps a 4-bit attack/decay/release value to the 15-bit
// rate-counter comparison period, from the Envelope Rates table in the
// Programmer's Reference Guide.
var rate_counter_period = [16]reg16{
	9, 32, 63, 95, 149, 220, 267, 313,
	392, 977, 1954, 3126, 3906, 11720, 19532, 31252,
}

// exp_level is the envelope-counter value at the start of each of the six
// line segments approximating the exponential decay/release curve.
var exp_level = [6]reg8{0x5d, 0x36, 0x1a, 0x0e, 0x06, 0x00}

// exp_period is the additional clock division applied within each segment.
var exp_period = [6]reg16{1, 2, 4, 8, 16, 30}

// exp_segment maps an envelope counter value directly to its line-segment
// number, precomputed from the boundaries 0x06, 0x0e, 0x1a, 0x36, 0x5d.
var exp_segment [256]reg8

func init() {
	for v := 0; v < 256; v++ {
		switch {
		case v > int(exp_level[0]):
			exp_segment[v] = 0
		case v > int(exp_level[1]):
			exp_segment[v] = 1
		case v > int(exp_level[2]):
			exp_segment[v] = 2
		case v > int(exp_level[3]):
			exp_segment[v] = 3
		case v > int(exp_level[4]):
			exp_segment[v] = 4
		default:
			exp_segment[v] = 5
		}
	}
}

// sustain_level holds the 16 selectable sustain levels, the 4-bit sustain
// register value replicated to both nibbles of the 8-bit envelope counter.
var sustain_level = [16]reg8{
	0x00, 0x11, 0x22, 0x33, 0x44, 0x55, 0x66, 0x77,
	0x88, 0x99, 0xaa, 0xbb, 0xcc, 0xdd, 0xee, 0xff,
}

// stepEnvelope advances the rate/exponential counters in bulk, jumping from
// one rate-counter match to the next, until delta_t is used up or the
// envelope counter has been stepped delta_envelope_max times. It returns
// the actual number of envelope steps taken and leaves any unused cycles in
// delta_t.
//
// If the rate counter comparison value has just been lowered below its
// current value, rate_step wraps through 0x8000 before matching again --
// the ADSR delay bug.
func (e *EnvelopeGenerator) stepEnvelope(delta_envelope_max reg8, rate_period_index, exponential_period_index reg4, delta_t *CycleCount) reg8 {
	rate_period := rate_counter_period[rate_period_index]
	exponential_period := exp_period[exponential_period_index]

	var rate_step int
	if e.rate_counter < rate_period {
		rate_step = int(rate_period) - int(e.rate_counter)
	} else {
		rate_step = 0x8000 + int(rate_period) - int(e.rate_counter)
	}

	var delta_envelope reg8

	for *delta_t > 0 {
		if *delta_t < CycleCount(rate_step) {
			e.rate_counter += reg16(*delta_t)
			e.rate_counter &= 0x7fff
			*delta_t = 0
			return delta_envelope
		}

		e.rate_counter = 0
		*delta_t -= CycleCount(rate_step)
		rate_step = int(rate_period)

		// No delay bug for the exponential counter: it is reset whenever the
		// gate bit is flipped, never by a register write alone.
		e.exponential_counter++
		if e.exponential_counter == exponential_period {
			e.exponential_counter = 0
			if delta_envelope_max != 0 {
				delta_envelope++
				if delta_envelope == delta_envelope_max {
					return delta_envelope
				}
			}
		}
	}

	return delta_envelope
}

func (e *EnvelopeGenerator) Clock(delta_t CycleCount) {
	if e.state == ATTACK {
		delta := e.stepEnvelope(0xff-e.envelope_counter, e.attack, 0, &delta_t)
		e.envelope_counter += delta

		if e.envelope_counter != 0xff {
			return
		}
		e.state = DECAY_SUSTAIN
	}

	if e.state == DECAY_SUSTAIN {
		for delta_t > 0 {
			segment := exp_segment[e.envelope_counter]
			min_level := exp_level[segment]
			if min_level < sustain_level[e.sustain] {
				min_level = sustain_level[e.sustain]
			}

			deltaMax := int(e.envelope_counter) - int(min_level)
			if deltaMax < 0 {
				deltaMax = int(e.envelope_counter)
			}

			delta := e.stepEnvelope(reg8(deltaMax), e.decay, reg4(segment), &delta_t)
			e.envelope_counter -= delta
		}
		return
	}

	// RELEASE: identical to DECAY_SUSTAIN but with no sustain clamp.
	for delta_t > 0 {
		segment := exp_segment[e.envelope_counter]
		min_level := exp_level[segment]

		deltaMax := int(e.envelope_counter) - int(min_level)
		delta := e.stepEnvelope(reg8(deltaMax), e.release, reg4(segment), &delta_t)
		e.envelope_counter -= delta
	}
}

func (e *EnvelopeGenerator) Output() reg8 {
	return e.envelope_counter
}

// ----------------------------------------------------------------------------
// Register functions.
// ----------------------------------------------------------------------------

func (e *EnvelopeGenerator) WriteCONTROL_REG(control reg8) {
	gate_next := control & 0x01

	// The rate counter is never reset on a gate edge, so there is always a
	// delay before the envelope counter starts counting -- the source of
	// the ADSR delay bug when combined with a register write.
	if e.gate == 0 && gate_next != 0 {
		e.state = ATTACK
		e.exponential_counter = 0
	} else if e.gate != 0 && gate_next == 0 {
		e.state = RELEASE
		e.exponential_counter = 0
	}

	e.gate = gate_next
}

func (e *EnvelopeGenerator) WriteATTACK_DECAY(attack_decay reg8) {
	e.attack = reg4(attack_decay>>4) & 0x0f
	e.decay = reg4(attack_decay & 0x0f)
}

func (e *EnvelopeGenerator) WriteSUSTAIN_RELEASE(sustain_release reg8) {
	e.sustain = reg4(sustain_release>>4) & 0x0f
	e.release = reg4(sustain_release & 0x0f)
}

func (e *EnvelopeGenerator) readENV() reg8 {
	return e.Output()
}
