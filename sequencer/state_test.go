package sequencer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVoltageConversion(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(int16(-32768), FromVolts(0))
	assert.Equal(int16(32767), FromVolts(10))
	assert.Equal(int16(-32768), FromVolts(-3))
	assert.Equal(int16(32767), FromVolts(12))

	assert.InDelta(0.0, Volts(-32768), 1e-9)
	assert.InDelta(10.0, Volts(32767), 1e-9)
	assert.InDelta(4.0, Volts(FromVolts(4)), 0.001)
}

func TestNudgeValueSaturates(t *testing.T) {
	assert.Equal(t, int16(32767), NudgeValue(32000, 5000))
	assert.Equal(t, int16(-32768), NudgeValue(-32000, -5000))
	assert.Equal(t, int16(110), NudgeValue(100, 10))
}

func TestPowerOnPatterns(t *testing.T) {
	p := NewPatterns()
	want := [NumSequencers][NumOutputs]float64{
		{2, 4, 6},
		{2, 4, 6},
		{4, 6, 8},
	}
	for seq := 0; seq < NumSequencers; seq++ {
		for step := 0; step < MaxSteps; step++ {
			for out := 0; out < NumOutputs; out++ {
				assert.InDelta(t, want[seq][out], Volts(p.CV[seq][step][out]), 0.001)
			}
		}
	}
	for _, track := range p.Gates {
		assert.Equal(t, GateTable{}, track)
	}
}
