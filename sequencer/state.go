package sequencer

// MaxVolts is the top of the CV range
const MaxVolts = 10.0

// Patterns is the persisted pattern data of every engine. Runtime state is not part of it.
type Patterns struct {
	CV    [NumSequencers]CVTable `json:"stepValues"`
	Gates [NumTracks]GateTable   `json:"gateSteps"`
}

// NewPatterns returns the power-on patterns: every step of a CV sequencer holds the
// same three voltages so the outputs are visible without editing, gates are all off.
func NewPatterns() *Patterns {
	p := &Patterns{}
	for seq := 0; seq < NumSequencers; seq++ {
		for out := 0; out < NumOutputs; out++ {
			volts := 2.0 + float64(seq) + float64(out)*2
			if seq == 1 {
				volts -= 1
			}
			v := FromVolts(volts)
			for step := 0; step < MaxSteps; step++ {
				p.CV[seq][step][out] = v
			}
		}
	}
	return p
}

// Normalized maps a step value to 0.0-1.0
func Normalized(v int16) float64 {
	return (float64(v) + 32768) / 65535
}

// Volts maps a step value to 0-10V
func Volts(v int16) float64 {
	return Normalized(v) * MaxVolts
}

// FromVolts maps 0-10V to a step value, clamping out of range voltages
func FromVolts(volts float64) int16 {
	norm := volts / MaxVolts
	if norm < 0 {
		norm = 0
	}
	if norm > 1 {
		norm = 1
	}
	return int16(norm*65535 - 32768)
}

// NudgeValue adds delta to a step value without wrapping
func NudgeValue(v int16, delta int) int16 {
	n := int(v) + delta
	if n < -32768 {
		n = -32768
	}
	if n > 32767 {
		n = 32767
	}
	return int16(n)
}
